package review

import (
	"context"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции хранения отзывов.
type Repository interface {
	// Create сохраняет новый отзыв.
	// Возвращает shared.ErrReviewDuplicate, если пара (сессия, автор)
	// уже оставляла отзыв.
	Create(ctx context.Context, r *Review) error

	// GetByID возвращает отзыв по ID.
	// Возвращает shared.ErrReviewNotFound, если отзыв не найден.
	GetByID(ctx context.Context, id int) (*Review, error)

	// List возвращает все отзывы в порядке добавления.
	List(ctx context.Context) ([]*Review, error)

	// ListByReviewee возвращает отзывы, полученные участником.
	ListByReviewee(ctx context.Context, revieweeID shared.UserID) ([]*Review, error)

	// ExistsForSession проверяет, оставлял ли автор отзыв по сессии.
	ExistsForSession(ctx context.Context, sessionID int, reviewerID shared.UserID) (bool, error)

	// Count возвращает общее количество отзывов.
	Count(ctx context.Context) (int, error)

	// NextID возвращает следующий свободный идентификатор.
	NextID(ctx context.Context) (int, error)
}
