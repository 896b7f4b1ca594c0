package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/skill"
	"github.com/skillswap-hub/skillswap-community-hub/internal/infrastructure/persistence/memory"
)

func newBookSessionHandler(t *testing.T) (*BookSessionHandler, *capturePublisher) {
	t.Helper()
	store := memory.NewSeededStore()
	pub := &capturePublisher{}
	return NewBookSessionHandler(store.Users(), store.Sessions(), skill.DefaultCatalog(), pub), pub
}

func TestBookSessionHandler_CreatesPendingSession(t *testing.T) {
	handler, pub := newBookSessionHandler(t)

	result, err := handler.Handle(context.Background(), BookSessionCommand{
		LearnerID: 1,
		TeacherID: 2,
		SkillID:   "guitar",
		Date:      time.Now().Add(48 * time.Hour),
		Mode:      "in-person",
	})
	require.NoError(t, err)
	assert.Equal(t, 7, result.SessionID)
	assert.Equal(t, "pending", result.Status)
	assert.Len(t, pub.ofType(shared.EventSessionBooked), 1)
}

func TestBookSessionHandler_RejectsSelfBooking(t *testing.T) {
	handler, _ := newBookSessionHandler(t)

	_, err := handler.Handle(context.Background(), BookSessionCommand{
		LearnerID: 1,
		TeacherID: 1,
		SkillID:   "guitar",
		Date:      time.Now().Add(48 * time.Hour),
	})
	assert.ErrorIs(t, err, shared.ErrSessionWithSelf)
}

func TestBookSessionHandler_RejectsPastDate(t *testing.T) {
	handler, _ := newBookSessionHandler(t)

	_, err := handler.Handle(context.Background(), BookSessionCommand{
		LearnerID: 1,
		TeacherID: 2,
		SkillID:   "guitar",
		Date:      time.Now().Add(-time.Hour),
	})
	assert.ErrorIs(t, err, shared.ErrSessionInPast)
}

func TestBookSessionHandler_RejectsSkillTeacherDoesNotOffer(t *testing.T) {
	handler, _ := newBookSessionHandler(t)

	// Участник 2 преподаёт гитару и фотографию, но не кулинарию.
	_, err := handler.Handle(context.Background(), BookSessionCommand{
		LearnerID: 1,
		TeacherID: 2,
		SkillID:   "cooking",
		Date:      time.Now().Add(48 * time.Hour),
	})
	assert.True(t, shared.IsValidation(err))
}

func TestBookSessionHandler_RejectsUnknownSkill(t *testing.T) {
	handler, _ := newBookSessionHandler(t)

	_, err := handler.Handle(context.Background(), BookSessionCommand{
		LearnerID: 1,
		TeacherID: 2,
		SkillID:   "juggling",
		Date:      time.Now().Add(48 * time.Hour),
	})
	assert.ErrorIs(t, err, shared.ErrSkillNotFound)
}
