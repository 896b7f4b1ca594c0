package reputation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/user"
)

func TestTopTeachers_SortsDescendingAndTruncates(t *testing.T) {
	stats := []UserStats{
		{UserID: 1, TaughtSessions: 2},
		{UserID: 2, TaughtSessions: 5},
		{UserID: 3, TaughtSessions: 0},
		{UserID: 4, TaughtSessions: 3},
	}

	board := TopTeachers(stats, 3)

	require.Len(t, board, 3)
	assert.Equal(t, shared.UserID(2), board[0].UserID)
	assert.Equal(t, shared.UserID(4), board[1].UserID)
	assert.Equal(t, shared.UserID(1), board[2].UserID)
	assert.Equal(t, shared.Rank(1), board[0].Rank)
	assert.Equal(t, float64(5), board[0].Value)
}

func TestTopTeachers_TiesKeepCollectionOrder(t *testing.T) {
	stats := []UserStats{
		{UserID: 3, TaughtSessions: 2},
		{UserID: 1, TaughtSessions: 2},
		{UserID: 2, TaughtSessions: 2},
	}

	board := TopTeachers(stats, CategoryBoardSize)

	require.Len(t, board, 3)
	assert.Equal(t, shared.UserID(3), board[0].UserID)
	assert.Equal(t, shared.UserID(1), board[1].UserID)
	assert.Equal(t, shared.UserID(2), board[2].UserID)
}

func TestMonthlyLearners_ExcludesZeroCounts(t *testing.T) {
	stats := []UserStats{
		{UserID: 1, MonthlyLearnedSessions: 0, LearnedSessions: 9},
		{UserID: 2, MonthlyLearnedSessions: 2},
		{UserID: 3, MonthlyLearnedSessions: 1},
	}

	board := MonthlyLearners(stats, CategoryBoardSize)

	require.Len(t, board, 2)
	assert.Equal(t, shared.UserID(2), board[0].UserID)
	assert.Equal(t, shared.UserID(3), board[1].UserID)
}

func TestTopRated_ExcludesUsersWithoutReviews(t *testing.T) {
	stats := []UserStats{
		{UserID: 1, AvgRating: 0, ReviewCount: 0},
		{UserID: 2, AvgRating: 4.5, ReviewCount: 2},
	}

	board := TopRated(stats, CategoryBoardSize)

	require.Len(t, board, 1)
	assert.Equal(t, shared.UserID(2), board[0].UserID)
	assert.Equal(t, 2, board[0].ReviewCount)
}

func TestTopRated_TieBreaksOnReviewCount(t *testing.T) {
	stats := []UserStats{
		{UserID: 1, AvgRating: 5.0, ReviewCount: 1},
		{UserID: 4, AvgRating: 5.0, ReviewCount: 2},
	}

	board := TopRated(stats, CategoryBoardSize)

	require.Len(t, board, 2)
	assert.Equal(t, shared.UserID(4), board[0].UserID)
	assert.Equal(t, shared.UserID(1), board[1].UserID)
}

func TestGlobalPoints_UnboundedAndStable(t *testing.T) {
	users := []*user.User{
		{ID: 1, Points: 120},
		{ID: 2, Points: 300},
		{ID: 3, Points: 120},
		nil,
		{ID: 4, Points: 0},
		{ID: 5, Points: 80},
		{ID: 6, Points: 45},
		{ID: 7, Points: 10},
	}

	board := GlobalPoints(users)

	// All seven real users present, no top-N cut.
	require.Len(t, board, 7)
	assert.Equal(t, shared.UserID(2), board[0].UserID)
	// Equal points keep the collection order: 1 before 3.
	assert.Equal(t, shared.UserID(1), board[1].UserID)
	assert.Equal(t, shared.UserID(3), board[2].UserID)
	assert.Equal(t, shared.Rank(7), board[6].Rank)
}

func TestBoard_IsValid(t *testing.T) {
	for _, b := range []Board{BoardTopTeachers, BoardTopLearners, BoardMonthlyLearners, BoardTopRated, BoardGlobalPoints} {
		assert.True(t, b.IsValid(), string(b))
	}
	assert.False(t, Board("top_cooks").IsValid())
}
