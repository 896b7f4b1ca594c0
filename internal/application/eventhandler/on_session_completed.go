// Package eventhandler contains reactions to domain events.
// Handlers are wired to the event bus at startup and run after the
// command that produced the event has already committed its changes.
package eventhandler

import (
	"context"
	"time"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/reputation"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/review"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/session"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/user"
	"github.com/skillswap-hub/skillswap-community-hub/pkg/logger"
	"github.com/skillswap-hub/skillswap-community-hub/pkg/timeutil"
)

// handlerTimeout ограничивает время одной реакции на событие.
const handlerTimeout = 10 * time.Second

// ══════════════════════════════════════════════════════════════════════════════
// ON SESSION COMPLETED
// Завершение сессии начисляет преподавателю очки, пересчитывает
// значки обоих участников и сбрасывает кеш рейтингов.
// ══════════════════════════════════════════════════════════════════════════════

// PointsSourceSessionTaught - источник начисления очков за преподавание.
const PointsSourceSessionTaught = "session_taught"

// OnSessionCompleted обрабатывает событие завершения сессии.
type OnSessionCompleted struct {
	userRepo       user.Repository
	sessionRepo    session.Repository
	reviewRepo     review.Repository
	boardCache     reputation.Cache
	eventPublisher shared.EventPublisher
	log            *logger.Logger
}

// NewOnSessionCompleted создаёт новый обработчик завершения сессии.
// boardCache может быть nil.
func NewOnSessionCompleted(
	userRepo user.Repository,
	sessionRepo session.Repository,
	reviewRepo review.Repository,
	boardCache reputation.Cache,
	eventPublisher shared.EventPublisher,
	log *logger.Logger,
) *OnSessionCompleted {
	return &OnSessionCompleted{
		userRepo:       userRepo,
		sessionRepo:    sessionRepo,
		reviewRepo:     reviewRepo,
		boardCache:     boardCache,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

// Handle реагирует на завершение сессии.
func (h *OnSessionCompleted) Handle(event shared.Event) error {
	completed, ok := event.(shared.SessionCompletedEvent)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	teacherID := shared.UserID(completed.TeacherID)
	learnerID := shared.UserID(completed.LearnerID)

	newTotal, err := h.userRepo.AddPoints(ctx, teacherID, shared.PointsPerTaughtSession)
	if err != nil {
		h.log.Error("failed to award points",
			logger.SessionID(completed.SessionID),
			logger.UserID(completed.TeacherID),
			logger.Err(err),
		)
		return err
	}

	pointsEvent := shared.NewPointsAwardedEvent(
		completed.TeacherID,
		shared.PointsPerTaughtSession,
		newTotal.Int(),
		PointsSourceSessionTaught,
	)
	pointsEvent.SessionID = completed.SessionID
	_ = h.eventPublisher.Publish(pointsEvent)

	h.log.Info("points awarded for taught session",
		logger.SessionID(completed.SessionID),
		logger.UserID(completed.TeacherID),
		logger.Points(shared.PointsPerTaughtSession),
	)

	for _, id := range []shared.UserID{teacherID, learnerID} {
		if err := refreshUserBadges(ctx, h.userRepo, h.sessionRepo, h.reviewRepo, h.eventPublisher, id); err != nil {
			h.log.Warn("failed to refresh badges", logger.UserID(id.Int()), logger.Err(err))
		}
	}

	if h.boardCache != nil {
		if err := h.boardCache.InvalidateAll(ctx); err != nil {
			h.log.Warn("failed to invalidate board cache", logger.Err(err))
		}
	}

	return nil
}

// refreshUserBadges пересчитывает значки участника и публикует
// события по каждому новому значку.
func refreshUserBadges(
	ctx context.Context,
	userRepo user.Repository,
	sessionRepo session.Repository,
	reviewRepo review.Repository,
	eventPublisher shared.EventPublisher,
	userID shared.UserID,
) error {
	u, err := userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	sessions, err := sessionRepo.ListByUser(ctx, userID)
	if err != nil {
		return err
	}

	received, err := reviewRepo.ListByReviewee(ctx, userID)
	if err != nil {
		return err
	}

	month := shared.MonthOf(timeutil.Now())
	stats := reputation.ComputeStats(userID, sessions, received, month)

	earned := reputation.EvaluateBadges(reputation.BadgeInput{
		User:            u,
		Stats:           stats,
		ReceivedReviews: received,
	})

	for _, badgeID := range earned {
		if u.HasBadge(badgeID) {
			continue
		}
		if spec, ok := reputation.FindBadge(badgeID); ok {
			_ = eventPublisher.Publish(shared.NewBadgeUnlockedEvent(userID.Int(), spec.ID, spec.Title))
		}
	}

	u.SetBadges(earned)
	return userRepo.Update(ctx, u)
}
