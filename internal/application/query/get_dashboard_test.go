package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/reputation"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/skill"
	"github.com/skillswap-hub/skillswap-community-hub/internal/infrastructure/persistence/memory"
)

func newDashboardHandler(t *testing.T) *GetDashboardHandler {
	t.Helper()
	store := memory.NewSeededStore()
	return NewGetDashboardHandler(
		store.Users(),
		store.Sessions(),
		store.Reviews(),
		store.Conversations(),
		skill.DefaultCatalog(),
	)
}

func TestGetDashboardHandler_BuildsProfileAndStats(t *testing.T) {
	handler := newDashboardHandler(t)

	result, err := handler.Handle(context.Background(), GetDashboardQuery{UserID: 1})
	require.NoError(t, err)

	assert.Equal(t, "Alice Johnson", result.Profile.Name)
	assert.Equal(t, 150, result.Profile.Points)
	assert.Contains(t, result.Profile.SkillsOffered, "cooking")

	// Завершено по одной сессии в каждой роли; получен один отзыв на 4 звезды.
	assert.Equal(t, 1, result.Stats.TaughtSessions)
	assert.Equal(t, 1, result.Stats.LearnedSessions)
	assert.Equal(t, 1, result.Stats.ReviewCount)
	assert.InDelta(t, 4.0, result.Stats.AvgRating, 0.001)

	badgeIDs := make([]string, 0, len(result.Badges))
	for _, b := range result.Badges {
		badgeIDs = append(badgeIDs, b.ID)
	}
	assert.Contains(t, badgeIDs, reputation.BadgeFirstExchange)

	// Все демо-сессии в прошлом, ближайших нет.
	assert.Empty(t, result.Upcoming)

	// Боб, Чарли, Диана и Итан пересекаются с Алисой по навыкам.
	assert.Equal(t, 4, result.PotentialMatches)
	assert.Equal(t, MonthlySessionGoal, result.MonthlyGoal.Target)
	assert.Equal(t, 0, result.MonthlyGoal.Completed)
}

func TestGetDashboardHandler_RejectsUnknownUser(t *testing.T) {
	handler := newDashboardHandler(t)

	_, err := handler.Handle(context.Background(), GetDashboardQuery{UserID: 99})
	assert.True(t, shared.IsNotFound(err))
}

func TestGetDashboardHandler_RejectsInvalidUserID(t *testing.T) {
	handler := newDashboardHandler(t)

	_, err := handler.Handle(context.Background(), GetDashboardQuery{UserID: 0})
	assert.True(t, shared.IsValidation(err))
}
