package redis

import (
	"context"
	"time"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/reputation"
)

// BoardCache implements reputation.Cache on top of the generic Cache.
// Each board is stored as one JSON snapshot; GetBoard truncates to the
// requested limit so a short page never forces a recompute.
type BoardCache struct {
	cache *Cache
}

var _ reputation.Cache = (*BoardCache)(nil)

// NewBoardCache creates a new BoardCache.
func NewBoardCache(cache *Cache) *BoardCache {
	return &BoardCache{cache: cache}
}

func boardKey(board reputation.Board) string {
	return PrefixBoard + string(board)
}

// GetBoard returns the cached board snapshot, truncated to limit entries.
// A limit of zero or less returns the full snapshot. Returns ErrCacheMiss
// when no snapshot is stored.
func (bc *BoardCache) GetBoard(ctx context.Context, board reputation.Board, limit int) ([]reputation.Entry, error) {
	var entries []reputation.Entry
	if err := bc.cache.Get(ctx, boardKey(board), &entries); err != nil {
		return nil, err
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// SetBoard stores a board snapshot with the given TTL.
func (bc *BoardCache) SetBoard(ctx context.Context, board reputation.Board, entries []reputation.Entry, ttl time.Duration) error {
	if entries == nil {
		entries = []reputation.Entry{}
	}
	return bc.cache.Set(ctx, boardKey(board), entries, ttl)
}

// Invalidate drops a single board snapshot.
func (bc *BoardCache) Invalidate(ctx context.Context, board reputation.Board) error {
	return bc.cache.Delete(ctx, boardKey(board))
}

// InvalidateAll drops all board snapshots.
func (bc *BoardCache) InvalidateAll(ctx context.Context) error {
	return bc.cache.DeleteByPattern(ctx, PrefixBoard+"*")
}
