package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/review"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
)

// ReviewRepo implements review.Repository backed by PostgreSQL.
// The one-review-per-(session, reviewer) rule is enforced by a unique
// constraint, so racing submissions cannot both land.
type ReviewRepo struct {
	conn *Connection
}

var _ review.Repository = (*ReviewRepo)(nil)

// NewReviewRepo creates a new PostgreSQL review repository.
func NewReviewRepo(conn *Connection) *ReviewRepo {
	return &ReviewRepo{conn: conn}
}

const reviewColumns = `id, session_id, reviewer_id, reviewee_id, stars, feedback, created_at`

// Create inserts a new review row.
func (r *ReviewRepo) Create(ctx context.Context, rev *review.Review) error {
	query := `
		INSERT INTO reviews (id, session_id, reviewer_id, reviewee_id, stars, feedback, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.conn.Exec(ctx, query,
		rev.ID,
		rev.SessionID,
		int(rev.ReviewerID),
		int(rev.RevieweeID),
		int(rev.Stars),
		rev.Feedback,
		rev.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			if constraintName(err) == "reviews_pkey" {
				return shared.ErrAlreadyExists
			}
			return shared.ErrReviewDuplicate
		}
		if IsForeignKeyViolation(err) {
			return shared.ErrSessionNotFound
		}
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// GetByID returns the review with the given id.
func (r *ReviewRepo) GetByID(ctx context.Context, id int) (*review.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	rev, err := scanReview(r.conn.QueryRow(ctx, query, id))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review %d: %w", id, err)
	}
	return rev, nil
}

// List returns all reviews ordered by id.
func (r *ReviewRepo) List(ctx context.Context) ([]*review.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews ORDER BY id`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	return scanReviews(rows)
}

// ListByReviewee returns reviews received by the member, ordered by id.
func (r *ReviewRepo) ListByReviewee(ctx context.Context, revieweeID shared.UserID) ([]*review.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE reviewee_id = $1 ORDER BY id`

	rows, err := r.conn.Query(ctx, query, int(revieweeID))
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for reviewee %d: %w", revieweeID, err)
	}
	defer rows.Close()

	return scanReviews(rows)
}

// ExistsForSession reports whether the reviewer already reviewed the session.
func (r *ReviewRepo) ExistsForSession(ctx context.Context, sessionID int, reviewerID shared.UserID) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM reviews WHERE session_id = $1 AND reviewer_id = $2)`,
		sessionID, int(reviewerID),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check review existence: %w", err)
	}
	return exists, nil
}

// Count returns the number of reviews.
func (r *ReviewRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM reviews`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return count, nil
}

// NextID allocates the next free review id.
func (r *ReviewRepo) NextID(ctx context.Context) (int, error) {
	var id int
	err := r.conn.QueryRow(ctx, `SELECT nextval('reviews_id_seq')`).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate review id: %w", err)
	}
	return id, nil
}

func scanReview(row pgx.Row) (*review.Review, error) {
	var (
		rev        review.Review
		reviewerID int
		revieweeID int
		stars      int
	)

	err := row.Scan(
		&rev.ID,
		&rev.SessionID,
		&reviewerID,
		&revieweeID,
		&stars,
		&rev.Feedback,
		&rev.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	rev.ReviewerID = shared.UserID(reviewerID)
	rev.RevieweeID = shared.UserID(revieweeID)
	rev.Stars = shared.Rating(stars)
	return &rev, nil
}

func scanReviews(rows pgx.Rows) ([]*review.Review, error) {
	out := make([]*review.Review, 0)
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review row: %w", err)
		}
		out = append(out, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate review rows: %w", err)
	}
	return out, nil
}
