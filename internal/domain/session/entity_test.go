package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(NewSessionParams{
		ID:        1,
		TeacherID: 2,
		LearnerID: 1,
		SkillID:   "guitar",
		Date:      time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC),
		Mode:      ModeOnline,
	})
	require.NoError(t, err)
	return s
}

func TestNewSession(t *testing.T) {
	s := newTestSession(t)

	assert.Equal(t, StatusPending, s.Status)
	assert.Equal(t, shared.UserID(2), s.TeacherID)
	assert.Equal(t, shared.UserID(1), s.LearnerID)
	assert.True(t, s.Involves(1))
	assert.True(t, s.Involves(2))
	assert.False(t, s.Involves(3))
	assert.Equal(t, shared.UserID(1), s.PartnerOf(2))
	assert.Equal(t, shared.UserID(2), s.PartnerOf(1))
}

func TestNewSession_RejectsSelfBooking(t *testing.T) {
	_, err := NewSession(NewSessionParams{
		ID:        1,
		TeacherID: 1,
		LearnerID: 1,
		SkillID:   "guitar",
		Date:      time.Now().Add(time.Hour),
	})
	assert.ErrorIs(t, err, shared.ErrSessionWithSelf)
}

func TestNewSession_DefaultsToOnlineMode(t *testing.T) {
	s, err := NewSession(NewSessionParams{
		ID:        1,
		TeacherID: 2,
		LearnerID: 3,
		SkillID:   "yoga",
		Date:      time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, ModeOnline, s.Mode)
}

func TestSession_Lifecycle(t *testing.T) {
	s := newTestSession(t)

	require.NoError(t, s.Confirm())
	assert.Equal(t, StatusConfirmed, s.Status)

	require.NoError(t, s.Complete())
	assert.Equal(t, StatusCompleted, s.Status)
	assert.True(t, s.IsCompleted())
}

func TestSession_CannotCompleteFromPending(t *testing.T) {
	s := newTestSession(t)

	err := s.Complete()
	assert.ErrorIs(t, err, shared.ErrSessionNotConfirmed)
	assert.Equal(t, StatusPending, s.Status)
}

func TestSession_CancelFromPendingAndConfirmed(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.Cancel())
	assert.Equal(t, StatusCancelled, s.Status)

	s2 := newTestSession(t)
	require.NoError(t, s2.Confirm())
	require.NoError(t, s2.Cancel())
	assert.Equal(t, StatusCancelled, s2.Status)
}

func TestSession_FinalStatesAreTerminal(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.Confirm())
	require.NoError(t, s.Complete())

	assert.ErrorIs(t, s.Confirm(), shared.ErrSessionAlreadyFinal)
	assert.ErrorIs(t, s.Cancel(), shared.ErrSessionAlreadyFinal)

	s2 := newTestSession(t)
	require.NoError(t, s2.Cancel())
	assert.ErrorIs(t, s2.Complete(), shared.ErrSessionAlreadyFinal)
}

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		ok   bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusConfirmed, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.ok, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}
