package eventhandler

import (
	"context"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/reputation"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/review"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/session"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/user"
	"github.com/skillswap-hub/skillswap-community-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ON REVIEW SUBMITTED
// Новый отзыв меняет среднюю оценку адресата: пересчитываем его
// значки и сбрасываем рейтинг по оценкам.
// ══════════════════════════════════════════════════════════════════════════════

// OnReviewSubmitted обрабатывает событие отправки отзыва.
type OnReviewSubmitted struct {
	userRepo       user.Repository
	sessionRepo    session.Repository
	reviewRepo     review.Repository
	boardCache     reputation.Cache
	eventPublisher shared.EventPublisher
	log            *logger.Logger
}

// NewOnReviewSubmitted создаёт новый обработчик отзывов.
// boardCache может быть nil.
func NewOnReviewSubmitted(
	userRepo user.Repository,
	sessionRepo session.Repository,
	reviewRepo review.Repository,
	boardCache reputation.Cache,
	eventPublisher shared.EventPublisher,
	log *logger.Logger,
) *OnReviewSubmitted {
	return &OnReviewSubmitted{
		userRepo:       userRepo,
		sessionRepo:    sessionRepo,
		reviewRepo:     reviewRepo,
		boardCache:     boardCache,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

// Handle реагирует на отправку отзыва.
func (h *OnReviewSubmitted) Handle(event shared.Event) error {
	submitted, ok := event.(shared.ReviewSubmittedEvent)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	revieweeID := shared.UserID(submitted.RevieweeID)

	if err := refreshUserBadges(ctx, h.userRepo, h.sessionRepo, h.reviewRepo, h.eventPublisher, revieweeID); err != nil {
		h.log.Warn("failed to refresh badges after review",
			logger.ReviewID(submitted.ReviewID),
			logger.UserID(submitted.RevieweeID),
			logger.Err(err),
		)
		return err
	}

	if h.boardCache != nil {
		if err := h.boardCache.Invalidate(ctx, reputation.BoardTopRated); err != nil {
			h.log.Warn("failed to invalidate top rated board", logger.Err(err))
		}
	}

	h.log.Info("review processed",
		logger.ReviewID(submitted.ReviewID),
		logger.UserID(submitted.RevieweeID),
		logger.Stars(submitted.Rating),
	)

	return nil
}
