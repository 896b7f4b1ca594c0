package reputation

import (
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/review"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// BADGES
//
// Значки не хранятся, а выводятся из текущего состояния профиля,
// сессий и отзывов. Потеря условия означает потерю значка.
// ══════════════════════════════════════════════════════════════════════════════

// Badge ID constants.
const (
	BadgeFirstExchange    = "first-exchange"
	BadgeTopTeacher       = "top-teacher"
	BadgePolyglot         = "polyglot"
	BadgeDedicatedLearner = "dedicated-learner"
	BadgeCommunityPillar  = "community-pillar"
)

// BadgeInput - снимок данных участника для проверки условий.
type BadgeInput struct {
	// User - профиль участника.
	User *user.User

	// Stats - производная статистика участника.
	Stats UserStats

	// ReceivedReviews - отзывы, полученные участником.
	ReceivedReviews []*review.Review
}

// BadgeSpec описывает один значок каталога.
type BadgeSpec struct {
	// ID - устойчивый идентификатор значка.
	ID string

	// Title - отображаемое название.
	Title string

	// Description - условие получения в человекочитаемом виде.
	Description string

	// Earned проверяет, выполнено ли условие.
	Earned func(in BadgeInput) bool
}

// badgeCatalog - каталог значков. Порядок элементов определяет
// порядок значков в профиле.
var badgeCatalog = []BadgeSpec{
	{
		ID:          BadgeFirstExchange,
		Title:       "First Exchange",
		Description: "Completed a first skill exchange session",
		Earned: func(in BadgeInput) bool {
			return in.Stats.TaughtSessions+in.Stats.LearnedSessions >= 1
		},
	},
	{
		ID:          BadgeTopTeacher,
		Title:       "Top Teacher",
		Description: "Received a five star review",
		Earned: func(in BadgeInput) bool {
			for _, r := range in.ReceivedReviews {
				if r != nil && r.IsFiveStar() {
					return true
				}
			}
			return false
		},
	},
	{
		ID:          BadgePolyglot,
		Title:       "Polyglot",
		Description: "Offers more than two skills",
		Earned: func(in BadgeInput) bool {
			return in.User != nil && len(in.User.SkillsOffered) > 2
		},
	},
	{
		ID:          BadgeDedicatedLearner,
		Title:       "Dedicated Learner",
		Description: "Completed three or more sessions as a learner",
		Earned: func(in BadgeInput) bool {
			return in.Stats.LearnedSessions >= 3
		},
	},
	{
		ID:          BadgeCommunityPillar,
		Title:       "Community Pillar",
		Description: "Earned one hundred or more community points",
		Earned: func(in BadgeInput) bool {
			return in.User != nil && in.User.Points >= 100
		},
	},
}

// BadgeCatalog возвращает копию каталога значков.
func BadgeCatalog() []BadgeSpec {
	out := make([]BadgeSpec, len(badgeCatalog))
	copy(out, badgeCatalog)
	return out
}

// FindBadge возвращает описание значка по ID.
func FindBadge(id string) (BadgeSpec, bool) {
	for _, spec := range badgeCatalog {
		if spec.ID == id {
			return spec, true
		}
	}
	return BadgeSpec{}, false
}

// EvaluateBadges возвращает ID заслуженных значков в порядке каталога.
// Результат всегда не nil.
func EvaluateBadges(in BadgeInput) []string {
	earned := make([]string, 0, len(badgeCatalog))
	for _, spec := range badgeCatalog {
		if spec.Earned(in) {
			earned = append(earned, spec.ID)
		}
	}
	return earned
}
