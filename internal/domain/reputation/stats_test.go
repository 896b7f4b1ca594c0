package reputation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/review"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/session"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
)

func sess(id int, teacher, learner shared.UserID, status session.Status, date time.Time) *session.Session {
	return &session.Session{
		ID:        id,
		TeacherID: teacher,
		LearnerID: learner,
		SkillID:   "cooking",
		Date:      date,
		Status:    status,
		Mode:      session.ModeOnline,
	}
}

func rev(id, sessionID int, reviewer, reviewee shared.UserID, stars int) *review.Review {
	return &review.Review{
		ID:         id,
		SessionID:  sessionID,
		ReviewerID: reviewer,
		RevieweeID: reviewee,
		Stars:      shared.Rating(stars),
	}
}

func TestComputeStats_CompletedSessionsOnly(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	month := shared.MonthOf(now)

	sessions := []*session.Session{
		sess(1, 2, 1, session.StatusCompleted, now),
		sess(2, 2, 1, session.StatusPending, now),
		sess(3, 2, 1, session.StatusConfirmed, now),
		sess(4, 2, 1, session.StatusCancelled, now),
	}

	teacher := ComputeStats(2, sessions, nil, month)
	assert.Equal(t, 1, teacher.TaughtSessions)
	assert.Equal(t, 0, teacher.LearnedSessions)

	learner := ComputeStats(1, sessions, nil, month)
	assert.Equal(t, 1, learner.LearnedSessions)
	assert.Equal(t, 1, learner.MonthlyLearnedSessions)
}

func TestComputeStats_MonthlyWindowIsBoundaryInclusive(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	month := shared.MonthOf(now)

	sessions := []*session.Session{
		// Exactly at the start of the month.
		sess(1, 2, 1, session.StatusCompleted, month.From),
		// One nanosecond before the month starts.
		sess(2, 2, 1, session.StatusCompleted, month.From.Add(-time.Nanosecond)),
		// Last instant of the month.
		sess(3, 2, 1, session.StatusCompleted, month.To),
		// Next month.
		sess(4, 2, 1, session.StatusCompleted, month.To.Add(time.Nanosecond)),
	}

	stats := ComputeStats(1, sessions, nil, month)
	assert.Equal(t, 4, stats.LearnedSessions)
	assert.Equal(t, 2, stats.MonthlyLearnedSessions)
}

func TestComputeStats_AvgRatingZeroWithoutReviews(t *testing.T) {
	month := shared.MonthOf(time.Now())

	stats := ComputeStats(7, nil, nil, month)
	assert.Zero(t, stats.AvgRating)
	assert.Zero(t, stats.ReviewCount)
	assert.False(t, stats.HasReviews())
}

func TestComputeStats_AvgRatingFromReceivedReviews(t *testing.T) {
	month := shared.MonthOf(time.Now())

	reviews := []*review.Review{
		rev(1, 1, 1, 4, 5),
		rev(2, 2, 3, 4, 4),
		// Review received by someone else must not count.
		rev(3, 3, 4, 1, 1),
	}

	stats := ComputeStats(4, nil, reviews, month)
	assert.Equal(t, 2, stats.ReviewCount)
	assert.InDelta(t, 4.5, stats.AvgRating, 1e-9)
}

func TestComputeAllStats_PreservesInputOrder(t *testing.T) {
	month := shared.MonthOf(time.Now())
	ids := []shared.UserID{3, 1, 2}

	all := ComputeAllStats(ids, nil, nil, month)

	assert.Len(t, all, 3)
	for i, id := range ids {
		assert.Equal(t, id, all[i].UserID)
	}
}
