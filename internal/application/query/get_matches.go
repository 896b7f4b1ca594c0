// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
// Each query is a self-contained use case with its own request/response types.
package query

import (
	"context"
	"errors"
	"time"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/match"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET MATCHES QUERY
// Подбирает партнёров по обмену навыками для участника.
// Результат сохраняет порядок коллекции участников - ранжирования
// по релевантности нет.
// ══════════════════════════════════════════════════════════════════════════════

// GetMatchesQuery содержит параметры подбора партнёров.
type GetMatchesQuery struct {
	// UserID - участник, для которого подбираем.
	UserID int

	// Limit - максимум кандидатов (0 = без ограничения).
	Limit int
}

// Validate проверяет корректность параметров запроса.
func (q *GetMatchesQuery) Validate() error {
	if q.UserID <= 0 {
		return errors.New("user_id must be positive")
	}
	if q.Limit < 0 {
		return errors.New("limit cannot be negative")
	}
	return nil
}

// MatchDTO - DTO одного подобранного кандидата.
type MatchDTO struct {
	// PartnerID - ID кандидата.
	PartnerID int `json:"partner_id"`

	// Name - отображаемое имя кандидата.
	Name string `json:"name"`

	// LocationName - местоположение кандидата.
	LocationName string `json:"location_name,omitempty"`

	// AvatarRef - ссылка на аватар.
	AvatarRef string `json:"avatar_ref,omitempty"`

	// Reason - готовая строка причины ("Offers Guitar").
	Reason string `json:"reason"`

	// ReasonKind - направление совпадения: "offers" или "wants".
	ReasonKind string `json:"reason_kind"`

	// SkillID - навык, давший совпадение.
	SkillID string `json:"skill_id"`

	// OverlapCount - суммарное количество пересечений навыков.
	OverlapCount int `json:"overlap_count"`
}

// GetMatchesResult содержит результат подбора.
type GetMatchesResult struct {
	// Matches - подобранные кандидаты. Всегда не nil.
	Matches []MatchDTO `json:"matches"`

	// TotalCandidates - сколько участников было рассмотрено.
	TotalCandidates int `json:"total_candidates"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetMatchesHandler обрабатывает запросы подбора партнёров.
type GetMatchesHandler struct {
	userRepo user.Repository
	finder   *match.Finder
}

// NewGetMatchesHandler создаёт новый обработчик подбора.
func NewGetMatchesHandler(userRepo user.Repository, finder *match.Finder) *GetMatchesHandler {
	return &GetMatchesHandler{
		userRepo: userRepo,
		finder:   finder,
	}
}

// Handle выполняет подбор партнёров.
func (h *GetMatchesHandler) Handle(ctx context.Context, query GetMatchesQuery) (*GetMatchesResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetMatches", shared.ErrValidation, err.Error(), err)
	}

	current, err := h.userRepo.GetByID(ctx, shared.UserID(query.UserID))
	if err != nil {
		return nil, shared.WrapError("query", "GetMatches", shared.ErrNotFound, "user not found", err)
	}

	candidates, err := h.userRepo.List(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "GetMatches", shared.ErrServiceUnavailable, "failed to list candidates", err)
	}

	matches := h.finder.Find(current, candidates)

	if query.Limit > 0 && len(matches) > query.Limit {
		matches = matches[:query.Limit]
	}

	dtos := make([]MatchDTO, 0, len(matches))
	for _, m := range matches {
		dtos = append(dtos, toMatchDTO(m))
	}

	return &GetMatchesResult{
		Matches:         dtos,
		TotalCandidates: len(candidates),
		GeneratedAt:     time.Now().UTC(),
	}, nil
}

// toMatchDTO конвертирует доменную сущность в DTO.
func toMatchDTO(m match.Match) MatchDTO {
	return MatchDTO{
		PartnerID:    m.Candidate.ID.Int(),
		Name:         m.Candidate.Name,
		LocationName: m.Candidate.Location.Name,
		AvatarRef:    m.Candidate.AvatarRef,
		Reason:       m.Reason.Label,
		ReasonKind:   string(m.Reason.Kind),
		SkillID:      m.Reason.SkillID.String(),
		OverlapCount: m.OverlapCount(),
	}
}
