package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/reputation"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/review"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/session"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/user"
	"github.com/skillswap-hub/skillswap-community-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEADERBOARD QUERY
// Собирает один из рейтингов сообщества: преподаватели, ученики,
// ученики месяца, средняя оценка и общий рейтинг по очкам.
// Категорийные рейтинги усекаются до топ-5, общий - без усечения.
// ══════════════════════════════════════════════════════════════════════════════

// GetLeaderboardQuery содержит параметры запроса рейтинга.
type GetLeaderboardQuery struct {
	// Board - идентификатор рейтинга.
	Board string

	// Limit - количество записей (0 = размер по умолчанию для рейтинга).
	Limit int
}

// Validate проверяет корректность параметров запроса.
func (q *GetLeaderboardQuery) Validate() error {
	if q.Board == "" {
		return errors.New("board is required")
	}
	if !reputation.Board(q.Board).IsValid() {
		return fmt.Errorf("unknown board: %s", q.Board)
	}
	if q.Limit < 0 {
		return errors.New("limit cannot be negative")
	}
	return nil
}

// BoardEntryDTO - DTO одной строки рейтинга.
type BoardEntryDTO struct {
	// Rank - позиция в рейтинге (начиная с 1).
	Rank int `json:"rank"`

	// Medal - медаль для топ-3 (пустая строка для остальных).
	Medal string `json:"medal,omitempty"`

	// UserID - участник.
	UserID int `json:"user_id"`

	// Name - отображаемое имя.
	Name string `json:"name"`

	// AvatarRef - ссылка на аватар.
	AvatarRef string `json:"avatar_ref,omitempty"`

	// Value - значение метрики рейтинга.
	Value float64 `json:"value"`

	// ReviewCount - количество отзывов (для рейтинга по оценке).
	ReviewCount int `json:"review_count,omitempty"`
}

// GetLeaderboardResult содержит результат запроса рейтинга.
type GetLeaderboardResult struct {
	// Board - идентификатор рейтинга.
	Board string `json:"board"`

	// Entries - строки рейтинга.
	Entries []BoardEntryDTO `json:"entries"`

	// TotalParticipants - общее количество участников сообщества.
	TotalParticipants int `json:"total_participants"`

	// FromCache - получен ли результат из кеша.
	FromCache bool `json:"from_cache"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetLeaderboardHandler обрабатывает запросы рейтингов.
type GetLeaderboardHandler struct {
	userRepo    user.Repository
	sessionRepo session.Repository
	reviewRepo  review.Repository
	boardCache  reputation.Cache
}

// NewGetLeaderboardHandler создаёт новый обработчик запроса рейтинга.
// boardCache может быть nil - тогда рейтинг всегда считается заново.
func NewGetLeaderboardHandler(
	userRepo user.Repository,
	sessionRepo session.Repository,
	reviewRepo review.Repository,
	boardCache reputation.Cache,
) *GetLeaderboardHandler {
	return &GetLeaderboardHandler{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		reviewRepo:  reviewRepo,
		boardCache:  boardCache,
	}
}

// Handle выполняет запрос рейтинга.
func (h *GetLeaderboardHandler) Handle(ctx context.Context, query GetLeaderboardQuery) (*GetLeaderboardResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetLeaderboard", shared.ErrValidation, err.Error(), err)
	}

	board := reputation.Board(query.Board)
	limit := h.effectiveLimit(board, query.Limit)

	users, err := h.userRepo.List(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "GetLeaderboard", shared.ErrServiceUnavailable, "failed to list users", err)
	}

	// Попытка получить из кеша
	if cached, err := h.tryGetFromCache(ctx, board, limit); err == nil && len(cached) > 0 {
		return h.buildResult(board, cached, users, true), nil
	}

	entries, err := h.computeBoard(ctx, board, limit, users)
	if err != nil {
		return nil, err
	}

	return h.buildResult(board, entries, users, false), nil
}

// effectiveLimit возвращает лимит с учётом типа рейтинга.
// Общий рейтинг по очкам не усекается.
func (h *GetLeaderboardHandler) effectiveLimit(board reputation.Board, limit int) int {
	if board == reputation.BoardGlobalPoints {
		return 0
	}
	if limit == 0 {
		return reputation.CategoryBoardSize
	}
	return limit
}

// tryGetFromCache пытается получить рейтинг из кеша.
func (h *GetLeaderboardHandler) tryGetFromCache(ctx context.Context, board reputation.Board, limit int) ([]reputation.Entry, error) {
	if h.boardCache == nil {
		return nil, errors.New("cache not available")
	}
	return h.boardCache.GetBoard(ctx, board, limit)
}

// computeBoard собирает рейтинг из репозиториев.
func (h *GetLeaderboardHandler) computeBoard(
	ctx context.Context,
	board reputation.Board,
	limit int,
	users []*user.User,
) ([]reputation.Entry, error) {
	if board == reputation.BoardGlobalPoints {
		return reputation.GlobalPoints(users), nil
	}

	sessions, err := h.sessionRepo.List(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "GetLeaderboard", shared.ErrServiceUnavailable, "failed to list sessions", err)
	}

	reviews, err := h.reviewRepo.List(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "GetLeaderboard", shared.ErrServiceUnavailable, "failed to list reviews", err)
	}

	ids := make([]shared.UserID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	month := shared.MonthOf(timeutil.Now())
	stats := reputation.ComputeAllStats(ids, sessions, reviews, month)

	switch board {
	case reputation.BoardTopTeachers:
		return reputation.TopTeachers(stats, limit), nil
	case reputation.BoardTopLearners:
		return reputation.TopLearners(stats, limit), nil
	case reputation.BoardMonthlyLearners:
		return reputation.MonthlyLearners(stats, limit), nil
	case reputation.BoardTopRated:
		return reputation.TopRated(stats, limit), nil
	default:
		return nil, shared.ErrBoardNotFound
	}
}

// buildResult формирует итоговый результат с именами участников.
func (h *GetLeaderboardHandler) buildResult(
	board reputation.Board,
	entries []reputation.Entry,
	users []*user.User,
	fromCache bool,
) *GetLeaderboardResult {
	byID := make(map[shared.UserID]*user.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	dtos := make([]BoardEntryDTO, 0, len(entries))
	for _, e := range entries {
		dto := BoardEntryDTO{
			Rank:        e.Rank.Int(),
			Medal:       e.Rank.Medal(),
			UserID:      e.UserID.Int(),
			Value:       e.Value,
			ReviewCount: e.ReviewCount,
		}
		if u, ok := byID[e.UserID]; ok {
			dto.Name = u.Name
			dto.AvatarRef = u.AvatarRef
		}
		dtos = append(dtos, dto)
	}

	return &GetLeaderboardResult{
		Board:             string(board),
		Entries:           dtos,
		TotalParticipants: len(users),
		FromCache:         fromCache,
		GeneratedAt:       time.Now().UTC(),
	}
}
