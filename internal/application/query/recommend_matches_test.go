package query

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/match"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/skill"
	"github.com/skillswap-hub/skillswap-community-hub/internal/infrastructure/persistence/memory"
)

// stubRecommender возвращает фиксированный ответ и считает вызовы.
type stubRecommender struct {
	calls    atomic.Int64
	profiles []match.CommunityProfile
	matches  []match.RecommendedMatch
	err      error
}

func (r *stubRecommender) Recommend(_ context.Context, _ string, profiles []match.CommunityProfile) ([]match.RecommendedMatch, error) {
	r.calls.Add(1)
	r.profiles = profiles
	return r.matches, r.err
}

func newRecommendHandler(t *testing.T, rec match.Recommender) *RecommendMatchesHandler {
	t.Helper()
	store := memory.NewSeededStore()
	return NewRecommendMatchesHandler(store.Users(), rec, skill.DefaultCatalog())
}

func TestRecommendMatchesHandler_PassesCommunityProfiles(t *testing.T) {
	rec := &stubRecommender{
		matches: []match.RecommendedMatch{
			{Name: "Bob Williams", Location: "Oakland, CA", SkillsOffered: []string{"Guitar"}, Rationale: "Teaches guitar nearby"},
		},
	}
	handler := newRecommendHandler(t, rec)

	result, err := handler.Handle(context.Background(), RecommendMatchesQuery{UserID: 1, Skill: "Guitar"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), rec.calls.Load())
	assert.Len(t, rec.profiles, 5)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "Bob Williams", result.Matches[0].Name)

	// Идентификаторы навыков переводятся в отображаемые имена.
	var bob match.CommunityProfile
	for _, p := range rec.profiles {
		if p.Name == "Bob Williams" {
			bob = p
		}
	}
	assert.Contains(t, bob.SkillsOffered, "Guitar")
}

func TestRecommendMatchesHandler_EmptyResultIsNotNil(t *testing.T) {
	handler := newRecommendHandler(t, &stubRecommender{})

	result, err := handler.Handle(context.Background(), RecommendMatchesQuery{UserID: 1, Skill: "Yoga"})
	require.NoError(t, err)
	assert.NotNil(t, result.Matches)
	assert.Empty(t, result.Matches)
}

func TestRecommendMatchesHandler_WithoutRecommender(t *testing.T) {
	handler := newRecommendHandler(t, nil)

	_, err := handler.Handle(context.Background(), RecommendMatchesQuery{UserID: 1, Skill: "Guitar"})
	assert.ErrorIs(t, err, shared.ErrRecommenderUnavailable)
}

func TestRecommendMatchesHandler_RejectsUnknownUser(t *testing.T) {
	handler := newRecommendHandler(t, &stubRecommender{})

	_, err := handler.Handle(context.Background(), RecommendMatchesQuery{UserID: 99, Skill: "Guitar"})
	assert.ErrorIs(t, err, shared.ErrUserNotFound)
}

func TestRecommendMatchesHandler_RejectsBlankSkill(t *testing.T) {
	handler := newRecommendHandler(t, &stubRecommender{})

	_, err := handler.Handle(context.Background(), RecommendMatchesQuery{UserID: 1, Skill: "   "})
	assert.True(t, shared.IsValidation(err))
}
