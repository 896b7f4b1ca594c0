package reputation

import (
	"sort"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARDS
//
// Все сортировки по убыванию и стабильные: при равенстве метрик
// сохраняется порядок исходной коллекции участников.
// ══════════════════════════════════════════════════════════════════════════════

// Board идентифицирует один из рейтингов сообщества.
type Board string

const (
	// BoardTopTeachers - по количеству проведённых сессий.
	BoardTopTeachers Board = "top_teachers"

	// BoardTopLearners - по количеству пройденных сессий за всё время.
	BoardTopLearners Board = "top_learners"

	// BoardMonthlyLearners - по пройденным сессиям текущего месяца.
	BoardMonthlyLearners Board = "monthly_learners"

	// BoardTopRated - по средней оценке (при равенстве - больше отзывов выше).
	BoardTopRated Board = "top_rated"

	// BoardGlobalPoints - по очкам сообщества, без усечения.
	BoardGlobalPoints Board = "global_points"
)

// IsValid проверяет корректность идентификатора рейтинга.
func (b Board) IsValid() bool {
	switch b {
	case BoardTopTeachers, BoardTopLearners, BoardMonthlyLearners,
		BoardTopRated, BoardGlobalPoints:
		return true
	default:
		return false
	}
}

// CategoryBoardSize - размер категорийных рейтингов.
const CategoryBoardSize = 5

// Entry - одна строка рейтинга.
type Entry struct {
	// Rank - позиция (1 - лучшая).
	Rank shared.Rank

	// UserID - участник.
	UserID shared.UserID

	// Value - значение метрики рейтинга (счётчик, очки или средняя оценка).
	Value float64

	// ReviewCount - количество отзывов (заполняется для BoardTopRated).
	ReviewCount int
}

// ══════════════════════════════════════════════════════════════════════════════
// BOARD BUILDERS
// ══════════════════════════════════════════════════════════════════════════════

// TopTeachers строит рейтинг преподавателей.
func TopTeachers(stats []UserStats, n int) []Entry {
	return buildBoard(stats, n,
		func(s UserStats) bool { return true },
		func(a, b UserStats) bool { return a.TaughtSessions > b.TaughtSessions },
		func(s UserStats) float64 { return float64(s.TaughtSessions) },
	)
}

// TopLearners строит рейтинг учеников за всё время.
func TopLearners(stats []UserStats, n int) []Entry {
	return buildBoard(stats, n,
		func(s UserStats) bool { return true },
		func(a, b UserStats) bool { return a.LearnedSessions > b.LearnedSessions },
		func(s UserStats) float64 { return float64(s.LearnedSessions) },
	)
}

// MonthlyLearners строит рейтинг учеников текущего месяца.
// Участники без сессий в этом месяце не попадают в рейтинг.
func MonthlyLearners(stats []UserStats, n int) []Entry {
	return buildBoard(stats, n,
		func(s UserStats) bool { return s.MonthlyLearnedSessions > 0 },
		func(a, b UserStats) bool { return a.MonthlyLearnedSessions > b.MonthlyLearnedSessions },
		func(s UserStats) float64 { return float64(s.MonthlyLearnedSessions) },
	)
}

// TopRated строит рейтинг по средней оценке.
// Участники без отзывов исключаются; при равной оценке выше тот,
// у кого больше отзывов.
func TopRated(stats []UserStats, n int) []Entry {
	filtered := make([]UserStats, 0, len(stats))
	for _, s := range stats {
		if s.HasReviews() {
			filtered = append(filtered, s)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].AvgRating != filtered[j].AvgRating {
			return filtered[i].AvgRating > filtered[j].AvgRating
		}
		return filtered[i].ReviewCount > filtered[j].ReviewCount
	})

	if n > 0 && len(filtered) > n {
		filtered = filtered[:n]
	}

	entries := make([]Entry, 0, len(filtered))
	for i, s := range filtered {
		entries = append(entries, Entry{
			Rank:        shared.Rank(i + 1),
			UserID:      s.UserID,
			Value:       s.AvgRating,
			ReviewCount: s.ReviewCount,
		})
	}
	return entries
}

// GlobalPoints строит общий рейтинг по очкам без усечения.
// Участники обходятся в порядке коллекции, что даёт стабильность
// при равенстве очков.
func GlobalPoints(users []*user.User) []Entry {
	sorted := make([]*user.User, 0, len(users))
	for _, u := range users {
		if u != nil {
			sorted = append(sorted, u)
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Points > sorted[j].Points
	})

	entries := make([]Entry, 0, len(sorted))
	for i, u := range sorted {
		entries = append(entries, Entry{
			Rank:   shared.Rank(i + 1),
			UserID: u.ID,
			Value:  float64(u.Points),
		})
	}
	return entries
}

// buildBoard - общий конвейер: фильтр, стабильная сортировка, усечение.
func buildBoard(stats []UserStats, n int, keep func(UserStats) bool, less func(a, b UserStats) bool, value func(UserStats) float64) []Entry {
	filtered := make([]UserStats, 0, len(stats))
	for _, s := range stats {
		if keep(s) {
			filtered = append(filtered, s)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return less(filtered[i], filtered[j])
	})

	if n > 0 && len(filtered) > n {
		filtered = filtered[:n]
	}

	entries := make([]Entry, 0, len(filtered))
	for i, s := range filtered {
		entries = append(entries, Entry{
			Rank:        shared.Rank(i + 1),
			UserID:      s.UserID,
			Value:       value(s),
			ReviewCount: s.ReviewCount,
		})
	}
	return entries
}
