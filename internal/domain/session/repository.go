package session

import (
	"context"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции хранения сессий.
type Repository interface {
	// Create сохраняет новую сессию.
	Create(ctx context.Context, s *Session) error

	// GetByID возвращает сессию по ID.
	// Возвращает shared.ErrSessionNotFound, если сессия не найдена.
	GetByID(ctx context.Context, id int) (*Session, error)

	// Update сохраняет изменённую сессию (обычно после смены статуса).
	Update(ctx context.Context, s *Session) error

	// List возвращает все сессии в порядке добавления.
	List(ctx context.Context) ([]*Session, error)

	// ListByUser возвращает сессии, где участник - преподаватель или ученик.
	ListByUser(ctx context.Context, userID shared.UserID) ([]*Session, error)

	// ListByStatus возвращает сессии с указанным статусом.
	ListByStatus(ctx context.Context, status Status) ([]*Session, error)

	// Count возвращает общее количество сессий.
	Count(ctx context.Context) (int, error)

	// NextID возвращает следующий свободный идентификатор.
	NextID(ctx context.Context) (int, error)
}
