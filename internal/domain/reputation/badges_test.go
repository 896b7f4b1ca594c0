package reputation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/review"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/user"
)

func TestEvaluateBadges_NewcomerHasNone(t *testing.T) {
	in := BadgeInput{
		User:  &user.User{ID: 9, Points: 0},
		Stats: UserStats{UserID: 9},
	}

	badges := EvaluateBadges(in)
	assert.NotNil(t, badges)
	assert.Empty(t, badges)
}

func TestEvaluateBadges_FirstExchange(t *testing.T) {
	in := BadgeInput{
		User:  &user.User{ID: 1},
		Stats: UserStats{UserID: 1, LearnedSessions: 1},
	}

	assert.Equal(t, []string{BadgeFirstExchange}, EvaluateBadges(in))
}

func TestEvaluateBadges_TopTeacherNeedsFiveStarReview(t *testing.T) {
	fourStar := BadgeInput{
		User:            &user.User{ID: 2},
		ReceivedReviews: []*review.Review{{ID: 1, RevieweeID: 2, Stars: 4}},
	}
	assert.NotContains(t, EvaluateBadges(fourStar), BadgeTopTeacher)

	fiveStar := BadgeInput{
		User:            &user.User{ID: 2},
		ReceivedReviews: []*review.Review{{ID: 1, RevieweeID: 2, Stars: 5}},
	}
	assert.Contains(t, EvaluateBadges(fiveStar), BadgeTopTeacher)
}

func TestEvaluateBadges_PolyglotNeedsMoreThanTwoOfferedSkills(t *testing.T) {
	two := BadgeInput{User: &user.User{ID: 3, SkillsOffered: user.SkillList{"cooking", "guitar"}}}
	assert.NotContains(t, EvaluateBadges(two), BadgePolyglot)

	three := BadgeInput{User: &user.User{ID: 3, SkillsOffered: user.SkillList{"cooking", "guitar", "yoga"}}}
	assert.Contains(t, EvaluateBadges(three), BadgePolyglot)
}

func TestEvaluateBadges_OrderFollowsCatalog(t *testing.T) {
	in := BadgeInput{
		User: &user.User{
			ID:            4,
			Points:        150,
			SkillsOffered: user.SkillList{"cooking", "guitar", "yoga"},
		},
		Stats:           UserStats{UserID: 4, TaughtSessions: 10, LearnedSessions: 5},
		ReceivedReviews: []*review.Review{{ID: 1, RevieweeID: 4, Stars: 5}},
	}

	badges := EvaluateBadges(in)

	want := []string{
		BadgeFirstExchange,
		BadgeTopTeacher,
		BadgePolyglot,
		BadgeDedicatedLearner,
		BadgeCommunityPillar,
	}
	assert.Equal(t, want, badges)
}

func TestFindBadge(t *testing.T) {
	spec, ok := FindBadge(BadgeCommunityPillar)
	assert.True(t, ok)
	assert.Equal(t, "Community Pillar", spec.Title)

	_, ok = FindBadge("unknown-badge")
	assert.False(t, ok)
}
