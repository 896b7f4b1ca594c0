// Package review содержит доменную модель отзыва об учебной сессии.
package review

import (
	"fmt"
	"strings"
	"time"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: REVIEW
// ══════════════════════════════════════════════════════════════════════════════

// Review - отзыв ученика о состоявшейся сессии.
type Review struct {
	// ID - уникальный идентификатор отзыва.
	ID int

	// SessionID - сессия, к которой относится отзыв.
	SessionID int

	// ReviewerID - кто оставил отзыв.
	ReviewerID shared.UserID

	// RevieweeID - о ком отзыв (преподаватель сессии).
	RevieweeID shared.UserID

	// Stars - оценка 1-5.
	Stars shared.Rating

	// Feedback - текст отзыва (может быть пустым).
	Feedback string

	// CreatedAt - время создания.
	CreatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewReviewParams содержит параметры для создания отзыва.
type NewReviewParams struct {
	ID         int
	SessionID  int
	ReviewerID shared.UserID
	RevieweeID shared.UserID
	Stars      shared.Rating
	Feedback   string
}

// NewReview создаёт новый отзыв с валидацией.
func NewReview(params NewReviewParams) (*Review, error) {
	if params.ID <= 0 {
		return nil, shared.NewDomainError("review", "Submit", shared.ErrInvalidID, "review id must be positive")
	}

	if params.SessionID <= 0 {
		return nil, shared.NewDomainError("review", "Submit", shared.ErrInvalidID, "session id must be positive")
	}

	if !params.ReviewerID.IsValid() || !params.RevieweeID.IsValid() {
		return nil, shared.ErrInvalidUserID
	}

	if params.ReviewerID == params.RevieweeID {
		return nil, shared.ErrReviewSelf
	}

	if !params.Stars.IsValid() {
		return nil, shared.ErrInvalidRatingStars
	}

	return &Review{
		ID:         params.ID,
		SessionID:  params.SessionID,
		ReviewerID: params.ReviewerID,
		RevieweeID: params.RevieweeID,
		Stars:      params.Stars,
		Feedback:   strings.TrimSpace(params.Feedback),
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// IsFiveStar возвращает true для максимальной оценки.
// Пятизвёздочный отзыв участвует в выдаче значка Top Teacher.
func (r *Review) IsFiveStar() bool {
	return r.Stars == shared.MaxRating
}

// String возвращает строковое представление отзыва для логирования.
func (r *Review) String() string {
	return fmt.Sprintf(
		"Review{ID: %d, Session: %d, Reviewee: %d, Stars: %d}",
		r.ID, r.SessionID, r.RevieweeID, r.Stars,
	)
}
