package memory

import (
	"context"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/session"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
)

// SessionRepo implements session.Repository on top of the in-memory store.
type SessionRepo struct {
	store *Store
}

var _ session.Repository = (*SessionRepo)(nil)

// Create stores a new session.
func (r *SessionRepo) Create(ctx context.Context, s *session.Session) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.sessionsByID[s.ID]; exists {
		return shared.ErrAlreadyExists
	}

	clone := s.Clone()
	r.store.sessions = append(r.store.sessions, clone)
	r.store.sessionsByID[clone.ID] = clone

	if clone.ID >= r.store.nextSessionID {
		r.store.nextSessionID = clone.ID + 1
	}
	return nil
}

// GetByID returns a copy of the session.
func (r *SessionRepo) GetByID(ctx context.Context, id int) (*session.Session, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	s, ok := r.store.sessionsByID[id]
	if !ok {
		return nil, shared.ErrSessionNotFound
	}
	return s.Clone(), nil
}

// Update replaces the stored session.
func (r *SessionRepo) Update(ctx context.Context, s *session.Session) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.sessionsByID[s.ID]; !ok {
		return shared.ErrSessionNotFound
	}

	clone := s.Clone()
	for i, existing := range r.store.sessions {
		if existing.ID == s.ID {
			r.store.sessions[i] = clone
			break
		}
	}
	r.store.sessionsByID[clone.ID] = clone
	return nil
}

// List returns all sessions in insertion order.
func (r *SessionRepo) List(ctx context.Context) ([]*session.Session, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*session.Session, 0, len(r.store.sessions))
	for _, s := range r.store.sessions {
		out = append(out, s.Clone())
	}
	return out, nil
}

// ListByUser returns sessions where the user teaches or learns.
func (r *SessionRepo) ListByUser(ctx context.Context, userID shared.UserID) ([]*session.Session, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*session.Session, 0)
	for _, s := range r.store.sessions {
		if s.Involves(userID) {
			out = append(out, s.Clone())
		}
	}
	return out, nil
}

// ListByStatus returns sessions with the given status.
func (r *SessionRepo) ListByStatus(ctx context.Context, status session.Status) ([]*session.Session, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*session.Session, 0)
	for _, s := range r.store.sessions {
		if s.Status == status {
			out = append(out, s.Clone())
		}
	}
	return out, nil
}

// Count returns the number of sessions.
func (r *SessionRepo) Count(ctx context.Context) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return len(r.store.sessions), nil
}

// NextID allocates the next free session id.
func (r *SessionRepo) NextID(ctx context.Context) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	id := r.store.nextSessionID
	r.store.nextSessionID++
	return id, nil
}
