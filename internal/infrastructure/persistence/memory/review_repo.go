package memory

import (
	"context"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/review"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
)

// ReviewRepo implements review.Repository on top of the in-memory store.
type ReviewRepo struct {
	store *Store
}

var _ review.Repository = (*ReviewRepo)(nil)

// Create stores a new review, enforcing one review per (session, reviewer).
func (r *ReviewRepo) Create(ctx context.Context, rev *review.Review) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.reviews {
		if existing.SessionID == rev.SessionID && existing.ReviewerID == rev.ReviewerID {
			return shared.ErrReviewDuplicate
		}
	}

	clone := *rev
	r.store.reviews = append(r.store.reviews, &clone)
	r.store.reviewsByID[clone.ID] = &clone

	if clone.ID >= r.store.nextReviewID {
		r.store.nextReviewID = clone.ID + 1
	}
	return nil
}

// GetByID returns a copy of the review.
func (r *ReviewRepo) GetByID(ctx context.Context, id int) (*review.Review, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rev, ok := r.store.reviewsByID[id]
	if !ok {
		return nil, shared.ErrReviewNotFound
	}
	clone := *rev
	return &clone, nil
}

// List returns all reviews in insertion order.
func (r *ReviewRepo) List(ctx context.Context) ([]*review.Review, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*review.Review, 0, len(r.store.reviews))
	for _, rev := range r.store.reviews {
		clone := *rev
		out = append(out, &clone)
	}
	return out, nil
}

// ListByReviewee returns reviews received by the user.
func (r *ReviewRepo) ListByReviewee(ctx context.Context, revieweeID shared.UserID) ([]*review.Review, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*review.Review, 0)
	for _, rev := range r.store.reviews {
		if rev.RevieweeID == revieweeID {
			clone := *rev
			out = append(out, &clone)
		}
	}
	return out, nil
}

// ExistsForSession reports whether the reviewer already reviewed the session.
func (r *ReviewRepo) ExistsForSession(ctx context.Context, sessionID int, reviewerID shared.UserID) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, rev := range r.store.reviews {
		if rev.SessionID == sessionID && rev.ReviewerID == reviewerID {
			return true, nil
		}
	}
	return false, nil
}

// Count returns the number of reviews.
func (r *ReviewRepo) Count(ctx context.Context) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return len(r.store.reviews), nil
}

// NextID allocates the next free review id.
func (r *ReviewRepo) NextID(ctx context.Context) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	id := r.store.nextReviewID
	r.store.nextReviewID++
	return id, nil
}
