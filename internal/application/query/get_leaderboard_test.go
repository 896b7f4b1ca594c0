package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/reputation"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
	"github.com/skillswap-hub/skillswap-community-hub/internal/infrastructure/persistence/memory"
)

// stubBoardCache отдаёт заранее заданные записи для одного рейтинга.
type stubBoardCache struct {
	board   reputation.Board
	entries []reputation.Entry
	sets    int
}

func (c *stubBoardCache) GetBoard(_ context.Context, board reputation.Board, _ int) ([]reputation.Entry, error) {
	if board != c.board {
		return nil, nil
	}
	return c.entries, nil
}

func (c *stubBoardCache) SetBoard(context.Context, reputation.Board, []reputation.Entry, time.Duration) error {
	c.sets++
	return nil
}

func (c *stubBoardCache) Invalidate(context.Context, reputation.Board) error { return nil }

func (c *stubBoardCache) InvalidateAll(context.Context) error { return nil }

func newLeaderboardHandler(t *testing.T, cache reputation.Cache) *GetLeaderboardHandler {
	t.Helper()
	store := memory.NewSeededStore()
	return NewGetLeaderboardHandler(store.Users(), store.Sessions(), store.Reviews(), cache)
}

func TestGetLeaderboardHandler_GlobalPointsOrderedByPoints(t *testing.T) {
	handler := newLeaderboardHandler(t, nil)

	result, err := handler.Handle(context.Background(), GetLeaderboardQuery{Board: "global_points"})
	require.NoError(t, err)

	assert.False(t, result.FromCache)
	assert.Equal(t, 5, result.TotalParticipants)
	require.Len(t, result.Entries, 5)

	// Участник 3 лидирует с 200 очками.
	assert.Equal(t, 3, result.Entries[0].UserID)
	assert.Equal(t, float64(200), result.Entries[0].Value)
	assert.Equal(t, 1, result.Entries[0].Rank)
	assert.NotEmpty(t, result.Entries[0].Medal)

	for i := 1; i < len(result.Entries); i++ {
		assert.Greater(t, result.Entries[i].Rank, result.Entries[i-1].Rank)
		assert.LessOrEqual(t, result.Entries[i].Value, result.Entries[i-1].Value)
	}
}

func TestGetLeaderboardHandler_TopTeachersCapped(t *testing.T) {
	handler := newLeaderboardHandler(t, nil)

	result, err := handler.Handle(context.Background(), GetLeaderboardQuery{Board: "top_teachers"})
	require.NoError(t, err)

	assert.LessOrEqual(t, len(result.Entries), reputation.CategoryBoardSize)
	require.NotEmpty(t, result.Entries)
	assert.Equal(t, float64(1), result.Entries[0].Value)
	assert.NotEmpty(t, result.Entries[0].Name)
}

func TestGetLeaderboardHandler_ServesFromCache(t *testing.T) {
	cache := &stubBoardCache{
		board: reputation.BoardTopTeachers,
		entries: []reputation.Entry{
			{Rank: 1, UserID: 2, Value: 7},
		},
	}
	handler := newLeaderboardHandler(t, cache)

	result, err := handler.Handle(context.Background(), GetLeaderboardQuery{Board: "top_teachers"})
	require.NoError(t, err)

	assert.True(t, result.FromCache)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, "Bob Williams", result.Entries[0].Name)
	assert.Equal(t, float64(7), result.Entries[0].Value)
}

func TestGetLeaderboardHandler_RejectsUnknownBoard(t *testing.T) {
	handler := newLeaderboardHandler(t, nil)

	_, err := handler.Handle(context.Background(), GetLeaderboardQuery{Board: "hall_of_fame"})
	assert.True(t, shared.IsValidation(err))
}
