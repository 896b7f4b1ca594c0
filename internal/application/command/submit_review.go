package command

import (
	"context"
	"errors"
	"time"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/review"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/session"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBMIT REVIEW COMMAND
// Принимает отзыв о состоявшейся сессии. Отзыв может оставить только
// участник сессии, только после её завершения и только один раз.
// Адресат отзыва - второй участник сессии.
// ══════════════════════════════════════════════════════════════════════════════

// SubmitReviewCommand содержит данные отзыва.
type SubmitReviewCommand struct {
	// SessionID - сессия, о которой отзыв.
	SessionID int

	// ReviewerID - автор отзыва.
	ReviewerID int

	// Stars - оценка 1-5.
	Stars int

	// Feedback - текст отзыва (опционально).
	Feedback string
}

// Validate проверяет корректность команды.
func (c SubmitReviewCommand) Validate() error {
	if c.SessionID <= 0 {
		return errors.New("submit_review: session_id must be positive")
	}
	if c.ReviewerID <= 0 {
		return errors.New("submit_review: reviewer_id must be positive")
	}
	return nil
}

// SubmitReviewResult содержит результат отправки отзыва.
type SubmitReviewResult struct {
	// ReviewID - ID созданного отзыва.
	ReviewID int

	// RevieweeID - адресат отзыва.
	RevieweeID int

	// Events - сгенерированные доменные события.
	Events []shared.Event

	// CreatedAt - время создания отзыва.
	CreatedAt time.Time
}

// SubmitReviewHandler обрабатывает команду отправки отзыва.
type SubmitReviewHandler struct {
	sessionRepo    session.Repository
	reviewRepo     review.Repository
	eventPublisher shared.EventPublisher
}

// NewSubmitReviewHandler создаёт новый обработчик отзывов.
func NewSubmitReviewHandler(
	sessionRepo session.Repository,
	reviewRepo review.Repository,
	eventPublisher shared.EventPublisher,
) *SubmitReviewHandler {
	return &SubmitReviewHandler{
		sessionRepo:    sessionRepo,
		reviewRepo:     reviewRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle выполняет отправку отзыва.
func (h *SubmitReviewHandler) Handle(ctx context.Context, cmd SubmitReviewCommand) (*SubmitReviewResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("command", "SubmitReview", shared.ErrValidation, err.Error(), err)
	}

	s, err := h.sessionRepo.GetByID(ctx, cmd.SessionID)
	if err != nil {
		return nil, shared.ErrSessionNotFound
	}

	reviewer := shared.UserID(cmd.ReviewerID)
	if !s.Involves(reviewer) {
		return nil, shared.ErrReviewNotSessioneer
	}

	if !s.IsCompleted() {
		return nil, shared.ErrReviewNotCompleted
	}

	exists, err := h.reviewRepo.ExistsForSession(ctx, s.ID, reviewer)
	if err != nil {
		return nil, shared.WrapError("command", "SubmitReview", shared.ErrServiceUnavailable, "failed to check duplicate", err)
	}
	if exists {
		return nil, shared.ErrReviewDuplicate
	}

	id, err := h.reviewRepo.NextID(ctx)
	if err != nil {
		return nil, shared.WrapError("command", "SubmitReview", shared.ErrServiceUnavailable, "failed to allocate id", err)
	}

	r, err := review.NewReview(review.NewReviewParams{
		ID:         id,
		SessionID:  s.ID,
		ReviewerID: reviewer,
		RevieweeID: s.PartnerOf(reviewer),
		Stars:      shared.Rating(cmd.Stars),
		Feedback:   cmd.Feedback,
	})
	if err != nil {
		return nil, err
	}

	if err := h.reviewRepo.Create(ctx, r); err != nil {
		return nil, err
	}

	event := shared.NewReviewSubmittedEvent(r.ID, r.SessionID, r.ReviewerID.Int(), r.RevieweeID.Int(), r.Stars.Int())
	event.Comment = r.Feedback
	_ = h.eventPublisher.Publish(event)

	return &SubmitReviewResult{
		ReviewID:   r.ID,
		RevieweeID: r.RevieweeID.Int(),
		Events:     []shared.Event{event},
		CreatedAt:  r.CreatedAt,
	}, nil
}
