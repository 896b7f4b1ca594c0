// Package reputation содержит расчёт статистики, рейтингов и значков
// по состоявшимся сессиям и отзывам.
package reputation

import (
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/review"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/session"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// DERIVED STATS
//
// Правила, которые входят в контракт:
// 1. Считаются только сессии со статусом completed. Pending, confirmed
//    и cancelled не влияют ни на одну метрику.
// 2. Месячное окно включает обе границы: сессия ровно в начале месяца
//    считается, сессия на наносекунду раньше - нет.
// 3. AvgRating равен ровно 0 при отсутствии отзывов. Это осознанный
//    сентинел "нет данных", а не нулевая оценка.
// ══════════════════════════════════════════════════════════════════════════════

// UserStats - производная статистика одного участника.
type UserStats struct {
	// UserID - участник, к которому относится статистика.
	UserID shared.UserID

	// TaughtSessions - количество проведённых сессий (completed).
	TaughtSessions int

	// LearnedSessions - количество пройденных сессий (completed).
	LearnedSessions int

	// MonthlyLearnedSessions - пройденные сессии внутри текущего месяца.
	MonthlyLearnedSessions int

	// AvgRating - средняя оценка полученных отзывов (0 при их отсутствии).
	AvgRating float64

	// ReviewCount - количество полученных отзывов.
	ReviewCount int
}

// HasReviews возвращает true, если участник получал отзывы.
func (s UserStats) HasReviews() bool {
	return s.ReviewCount > 0
}

// ComputeStats вычисляет статистику участника по снимку сессий и отзывов.
// month задаёт календарное окно для месячной метрики.
func ComputeStats(userID shared.UserID, sessions []*session.Session, reviews []*review.Review, month shared.TimeRange) UserStats {
	stats := UserStats{UserID: userID}

	for _, s := range sessions {
		if s == nil || !s.IsCompleted() {
			continue
		}

		if s.TeacherID == userID {
			stats.TaughtSessions++
		}

		if s.LearnerID == userID {
			stats.LearnedSessions++
			if month.Contains(s.Date) {
				stats.MonthlyLearnedSessions++
			}
		}
	}

	sum := 0
	for _, r := range reviews {
		if r == nil || r.RevieweeID != userID {
			continue
		}
		stats.ReviewCount++
		sum += r.Stars.Int()
	}

	if stats.ReviewCount > 0 {
		stats.AvgRating = float64(sum) / float64(stats.ReviewCount)
	}

	return stats
}

// ComputeAllStats вычисляет статистику для каждого участника,
// сохраняя порядок входного списка. Порядок значим: при равенстве
// метрик рейтинг стабилен относительно порядка коллекции.
func ComputeAllStats(userIDs []shared.UserID, sessions []*session.Session, reviews []*review.Review, month shared.TimeRange) []UserStats {
	out := make([]UserStats, 0, len(userIDs))
	for _, id := range userIDs {
		out = append(out, ComputeStats(id, sessions, reviews, month))
	}
	return out
}
