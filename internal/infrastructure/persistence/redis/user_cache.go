package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/user"
)

// UserCache implements user.Cache on top of the generic Cache.
type UserCache struct {
	cache *Cache
}

var _ user.Cache = (*UserCache)(nil)

// NewUserCache creates a new UserCache.
func NewUserCache(cache *Cache) *UserCache {
	return &UserCache{cache: cache}
}

func userKey(id shared.UserID) string {
	return fmt.Sprintf("%s%d", PrefixUser, id)
}

// Get gets a member profile from cache. Returns ErrCacheMiss on miss.
func (uc *UserCache) Get(ctx context.Context, id shared.UserID) (*user.User, error) {
	var u user.User
	if err := uc.cache.Get(ctx, userKey(id), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Set stores a member profile in cache.
func (uc *UserCache) Set(ctx context.Context, u *user.User, ttl time.Duration) error {
	if u == nil {
		return nil
	}
	return uc.cache.Set(ctx, userKey(u.ID), u, ttl)
}

// Invalidate removes a member profile from cache.
func (uc *UserCache) Invalidate(ctx context.Context, id shared.UserID) error {
	return uc.cache.Delete(ctx, userKey(id))
}

// InvalidateAll clears the whole member profile cache.
func (uc *UserCache) InvalidateAll(ctx context.Context) error {
	return uc.cache.DeleteByPattern(ctx, PrefixUser+"*")
}
