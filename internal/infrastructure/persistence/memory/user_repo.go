package memory

import (
	"context"
	"time"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/user"
)

// UserRepo implements user.Repository on top of the in-memory store.
type UserRepo struct {
	store *Store
}

var _ user.Repository = (*UserRepo)(nil)

// Create stores a new user, enforcing email uniqueness.
func (r *UserRepo) Create(ctx context.Context, u *user.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	email := u.Email.Normalize()
	if _, taken := r.store.usersByEmail[email]; taken {
		return shared.ErrEmailTaken
	}
	if _, exists := r.store.usersByID[u.ID]; exists {
		return shared.ErrUserAlreadyExists
	}

	clone := u.Clone()
	r.store.users = append(r.store.users, clone)
	r.store.usersByID[clone.ID] = clone
	r.store.usersByEmail[email] = clone

	if clone.ID.Int() >= r.store.nextUserID {
		r.store.nextUserID = clone.ID.Int() + 1
	}
	return nil
}

// GetByID returns a copy of the user.
func (r *UserRepo) GetByID(ctx context.Context, id shared.UserID) (*user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.usersByID[id]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	return u.Clone(), nil
}

// GetByEmail returns a copy of the user with the given email.
func (r *UserRepo) GetByEmail(ctx context.Context, email shared.Email) (*user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.usersByEmail[email.Normalize()]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	return u.Clone(), nil
}

// Update replaces the stored user.
func (r *UserRepo) Update(ctx context.Context, u *user.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.usersByID[u.ID]
	if !ok {
		return shared.ErrUserNotFound
	}

	clone := u.Clone()
	clone.UpdatedAt = time.Now().UTC()

	// Keep the slice slot so insertion order survives updates.
	for i, existing := range r.store.users {
		if existing.ID == u.ID {
			r.store.users[i] = clone
			break
		}
	}
	delete(r.store.usersByEmail, stored.Email.Normalize())
	r.store.usersByID[clone.ID] = clone
	r.store.usersByEmail[clone.Email.Normalize()] = clone
	return nil
}

// List returns all users in insertion order.
func (r *UserRepo) List(ctx context.Context) ([]*user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*user.User, 0, len(r.store.users))
	for _, u := range r.store.users {
		out = append(out, u.Clone())
	}
	return out, nil
}

// GetByIDs returns users for the given ids, skipping unknown ones.
func (r *UserRepo) GetByIDs(ctx context.Context, ids []shared.UserID) ([]*user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*user.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.store.usersByID[id]; ok {
			out = append(out, u.Clone())
		}
	}
	return out, nil
}

// Count returns the number of users.
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return len(r.store.users), nil
}

// AddPoints atomically awards points and returns the new total.
func (r *UserRepo) AddPoints(ctx context.Context, id shared.UserID, amount int) (shared.Points, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := r.store.usersByID[id]
	if !ok {
		return 0, shared.ErrUserNotFound
	}
	return u.AwardPoints(amount), nil
}

// Exists reports whether the user exists.
func (r *UserRepo) Exists(ctx context.Context, id shared.UserID) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	_, ok := r.store.usersByID[id]
	return ok, nil
}

// ExistsByEmail reports whether a user with the email exists.
func (r *UserRepo) ExistsByEmail(ctx context.Context, email shared.Email) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	_, ok := r.store.usersByEmail[email.Normalize()]
	return ok, nil
}

// NextID allocates the next free user id.
func (r *UserRepo) NextID(ctx context.Context) (shared.UserID, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	id := shared.UserID(r.store.nextUserID)
	r.store.nextUserID++
	return id, nil
}
