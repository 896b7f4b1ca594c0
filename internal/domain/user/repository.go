package user

import (
	"context"
	"time"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Эти интерфейсы определяют контракт для работы с хранилищем данных.
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет основные операции CRUD для участников.
type Repository interface {
	// ─────────────────────────────────────────────────────────────────────────
	// CRUD Operations
	// ─────────────────────────────────────────────────────────────────────────

	// Create создаёт нового участника.
	// Возвращает shared.ErrEmailTaken, если почта уже занята.
	Create(ctx context.Context, u *User) error

	// GetByID возвращает участника по ID.
	// Возвращает shared.ErrUserNotFound, если участник не найден.
	GetByID(ctx context.Context, id shared.UserID) (*User, error)

	// GetByEmail возвращает участника по почте.
	// Возвращает shared.ErrUserNotFound, если участник не найден.
	GetByEmail(ctx context.Context, email shared.Email) (*User, error)

	// Update обновляет данные участника.
	// Возвращает shared.ErrUserNotFound, если участник не найден.
	Update(ctx context.Context, u *User) error

	// ─────────────────────────────────────────────────────────────────────────
	// Bulk Operations
	// ─────────────────────────────────────────────────────────────────────────

	// List возвращает всех участников в порядке добавления.
	// Порядок входит в контракт: подбор партнёров и стабильность
	// рейтингов при равенстве очков зависят от него.
	List(ctx context.Context) ([]*User, error)

	// GetByIDs возвращает участников по списку ID.
	GetByIDs(ctx context.Context, ids []shared.UserID) ([]*User, error)

	// Count возвращает общее количество участников.
	Count(ctx context.Context) (int, error)

	// ─────────────────────────────────────────────────────────────────────────
	// Points
	// ─────────────────────────────────────────────────────────────────────────

	// AddPoints атомарно начисляет очки и возвращает новый итог.
	AddPoints(ctx context.Context, id shared.UserID, amount int) (shared.Points, error)

	// ─────────────────────────────────────────────────────────────────────────
	// Existence Checks
	// ─────────────────────────────────────────────────────────────────────────

	// Exists проверяет существование участника по ID.
	Exists(ctx context.Context, id shared.UserID) (bool, error)

	// ExistsByEmail проверяет существование по почте.
	ExistsByEmail(ctx context.Context, email shared.Email) (bool, error)
}

// ══════════════════════════════════════════════════════════════════════════════
// CACHE INTERFACE
// Для кеширования часто запрашиваемых данных.
// ══════════════════════════════════════════════════════════════════════════════

// Cache определяет операции кеширования профилей участников.
type Cache interface {
	// Get получает участника из кеша.
	Get(ctx context.Context, id shared.UserID) (*User, error)

	// Set сохраняет участника в кеш.
	Set(ctx context.Context, u *User, ttl time.Duration) error

	// Invalidate удаляет участника из кеша.
	Invalidate(ctx context.Context, id shared.UserID) error

	// InvalidateAll очищает весь кеш участников.
	InvalidateAll(ctx context.Context) error
}
