package match

import "context"

// ══════════════════════════════════════════════════════════════════════════════
// AI RECOMMENDER BOUNDARY
//
// Детерминированный подбор (Finder) - основной механизм. Рекомендатель -
// внешний сервис: он получает навык и срез профилей сообщества и сам решает,
// кого предложить и как объяснить выбор. Его ответы не влияют на
// детерминированный список.
// ══════════════════════════════════════════════════════════════════════════════

// RecommendedMatch - рекомендация внешнего сервиса подбора.
type RecommendedMatch struct {
	// Name - имя рекомендованного участника.
	Name string `json:"name"`

	// Location - местоположение участника.
	Location string `json:"location"`

	// SkillsOffered - навыки, которые участник преподаёт.
	SkillsOffered []string `json:"skillsOffered"`

	// Rationale - объяснение, почему участник подходит.
	Rationale string `json:"rationale"`
}

// CommunityProfile - профиль участника в том виде, в котором он передаётся
// рекомендателю.
type CommunityProfile struct {
	Name          string   `json:"name"`
	Location      string   `json:"location"`
	SkillsOffered []string `json:"skillsOffered"`
	SkillsWanted  []string `json:"skillsWanted"`
}

// Recommender - контракт внешнего сервиса рекомендаций.
type Recommender interface {
	// Recommend возвращает рекомендации для навыка на основе профилей
	// сообщества. Любая ошибка транспорта, модели или разбора ответа
	// сводится к shared.ErrRecommenderUnavailable,
	// shared.ErrRecommenderTimeout или shared.ErrRecommenderInvalidResponse.
	Recommend(ctx context.Context, skillName string, profiles []CommunityProfile) ([]RecommendedMatch, error)
}
