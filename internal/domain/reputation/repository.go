package reputation

import (
	"context"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// CACHE INTERFACE
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Cache определяет операции кеширования собранных рейтингов.
// Рейтинги пересчитываются фоновым заданием; кеш отдаёт последний снимок.
type Cache interface {
	// GetBoard возвращает закешированный рейтинг.
	// limit <= 0 означает без усечения.
	GetBoard(ctx context.Context, board Board, limit int) ([]Entry, error)

	// SetBoard сохраняет снимок рейтинга с TTL.
	SetBoard(ctx context.Context, board Board, entries []Entry, ttl time.Duration) error

	// Invalidate сбрасывает один рейтинг.
	Invalidate(ctx context.Context, board Board) error

	// InvalidateAll сбрасывает все рейтинги.
	InvalidateAll(ctx context.Context) error
}
