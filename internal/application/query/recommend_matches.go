package query

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/match"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/skill"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECOMMEND MATCHES QUERY
// Запрашивает рекомендации у внешнего AI-сервиса подбора.
// Для каждого участника одновременно выполняется не более одного запроса:
// повторные вызовы с тем же ключом присоединяются к уже идущему (singleflight).
// Сам вызов модели не повторяется - при сбое участник видит детерминированный
// подбор.
// ══════════════════════════════════════════════════════════════════════════════

// RecommendMatchesQuery содержит параметры запроса рекомендаций.
type RecommendMatchesQuery struct {
	// UserID - участник, запрашивающий рекомендации.
	UserID int

	// Skill - навык, который участник хочет изучить.
	Skill string
}

// Validate проверяет корректность параметров запроса.
func (q *RecommendMatchesQuery) Validate() error {
	if q.UserID <= 0 {
		return errors.New("user_id must be positive")
	}
	if strings.TrimSpace(q.Skill) == "" {
		return errors.New("skill cannot be empty")
	}
	return nil
}

// RecommendedMatchDTO - DTO одной рекомендации.
type RecommendedMatchDTO struct {
	// Name - имя рекомендованного участника.
	Name string `json:"name"`

	// Location - местоположение участника.
	Location string `json:"location"`

	// SkillsOffered - навыки, которые участник преподаёт.
	SkillsOffered []string `json:"skills_offered"`

	// Rationale - объяснение, почему участник подходит.
	Rationale string `json:"rationale"`
}

// RecommendMatchesResult содержит результат запроса рекомендаций.
type RecommendMatchesResult struct {
	// Skill - навык, по которому запрашивались рекомендации.
	Skill string `json:"skill"`

	// Matches - рекомендации. Всегда не nil.
	Matches []RecommendedMatchDTO `json:"matches"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generated_at"`
}

// RecommendMatchesHandler обрабатывает запросы AI-рекомендаций.
type RecommendMatchesHandler struct {
	userRepo    user.Repository
	recommender match.Recommender
	catalog     *skill.Catalog
	inflight    singleflight.Group
}

// NewRecommendMatchesHandler создаёт новый обработчик рекомендаций.
func NewRecommendMatchesHandler(
	userRepo user.Repository,
	recommender match.Recommender,
	catalog *skill.Catalog,
) *RecommendMatchesHandler {
	return &RecommendMatchesHandler{
		userRepo:    userRepo,
		recommender: recommender,
		catalog:     catalog,
	}
}

// Handle запрашивает рекомендации у внешнего сервиса.
func (h *RecommendMatchesHandler) Handle(ctx context.Context, query RecommendMatchesQuery) (*RecommendMatchesResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "RecommendMatches", shared.ErrValidation, err.Error(), err)
	}
	if h.recommender == nil {
		return nil, shared.ErrRecommenderUnavailable
	}

	exists, err := h.userRepo.Exists(ctx, shared.UserID(query.UserID))
	if err != nil {
		return nil, shared.WrapError("query", "RecommendMatches", shared.ErrServiceUnavailable, "failed to check user", err)
	}
	if !exists {
		return nil, shared.ErrUserNotFound
	}

	key := fmt.Sprintf("%d:%s", query.UserID, strings.ToLower(strings.TrimSpace(query.Skill)))
	result, err, _ := h.inflight.Do(key, func() (interface{}, error) {
		return h.requestRecommendations(ctx, query.Skill)
	})
	if err != nil {
		return nil, err
	}

	matches := result.([]match.RecommendedMatch)
	return &RecommendMatchesResult{
		Skill:       query.Skill,
		Matches:     toRecommendedDTOs(matches),
		GeneratedAt: time.Now(),
	}, nil
}

// requestRecommendations сериализует профили сообщества и вызывает
// рекомендателя.
func (h *RecommendMatchesHandler) requestRecommendations(ctx context.Context, skillName string) ([]match.RecommendedMatch, error) {
	users, err := h.userRepo.List(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "RecommendMatches", shared.ErrServiceUnavailable, "failed to list users", err)
	}

	profiles := make([]match.CommunityProfile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, match.CommunityProfile{
			Name:          u.Name,
			Location:      u.Location.Name,
			SkillsOffered: h.skillNames(u.SkillsOffered),
			SkillsWanted:  h.skillNames(u.SkillsWanted),
		})
	}

	return h.recommender.Recommend(ctx, skillName, profiles)
}

// skillNames отображает идентификаторы навыков в человекочитаемые имена.
func (h *RecommendMatchesHandler) skillNames(list user.SkillList) []string {
	out := make([]string, len(list))
	for i, id := range list {
		out[i] = h.catalog.NameOf(id)
	}
	return out
}

func toRecommendedDTOs(matches []match.RecommendedMatch) []RecommendedMatchDTO {
	out := make([]RecommendedMatchDTO, 0, len(matches))
	for _, m := range matches {
		out = append(out, RecommendedMatchDTO{
			Name:          m.Name,
			Location:      m.Location,
			SkillsOffered: m.SkillsOffered,
			Rationale:     m.Rationale,
		})
	}
	return out
}
