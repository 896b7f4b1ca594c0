package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/skill"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/user"
)

func testUser(id int, name string, offered, wanted user.SkillList) *user.User {
	return &user.User{
		ID:            shared.UserID(id),
		Name:          name,
		SkillsOffered: offered,
		SkillsWanted:  wanted,
	}
}

func newTestFinder() *Finder {
	return NewFinder(skill.DefaultCatalog())
}

func TestFinder_NeverReturnsSelf(t *testing.T) {
	f := newTestFinder()
	alice := testUser(1, "Alice", user.SkillList{"cooking"}, user.SkillList{"cooking"})

	matches := f.Find(alice, []*user.User{alice})
	assert.Empty(t, matches)
}

func TestFinder_OffersDirectionWinsOverWants(t *testing.T) {
	f := newTestFinder()
	// Bob both offers what Alice wants and wants what Alice offers.
	alice := testUser(1, "Alice", user.SkillList{"cooking"}, user.SkillList{"guitar"})
	bob := testUser(2, "Bob", user.SkillList{"guitar"}, user.SkillList{"cooking"})

	matches := f.Find(alice, []*user.User{bob})
	require.Len(t, matches, 1)
	assert.Equal(t, ReasonOffers, matches[0].Reason.Kind)
	assert.Equal(t, "Offers Guitar", matches[0].Reason.Label)
}

func TestFinder_ReferenceExample(t *testing.T) {
	f := newTestFinder()
	alice := testUser(1, "Alice",
		user.SkillList{"cooking", "gardening"},
		user.SkillList{"guitar", "photography"})
	bob := testUser(2, "Bob",
		user.SkillList{"guitar", "photography"},
		user.SkillList{"coding", "spanish"})

	matches := f.Find(alice, []*user.User{bob})
	require.Len(t, matches, 1)
	assert.Equal(t, shared.UserID(2), matches[0].Candidate.ID)
	assert.Equal(t, "Offers Guitar", matches[0].Reason.Label)
	assert.Equal(t, shared.SkillID("guitar"), matches[0].Reason.SkillID)
}

func TestFinder_FirstSkillByCandidateOrder(t *testing.T) {
	f := newTestFinder()
	alice := testUser(1, "Alice", nil, user.SkillList{"guitar", "photography"})
	// Bob stores photography before guitar, so photography is the shown reason.
	bob := testUser(2, "Bob", user.SkillList{"photography", "guitar"}, nil)

	matches := f.Find(alice, []*user.User{bob})
	require.Len(t, matches, 1)
	assert.Equal(t, "Offers Photography", matches[0].Reason.Label)
}

func TestFinder_WantsDirection(t *testing.T) {
	f := newTestFinder()
	alice := testUser(1, "Alice", user.SkillList{"spanish", "yoga"}, nil)
	charlie := testUser(3, "Charlie", nil, user.SkillList{"yoga", "spanish"})

	matches := f.Find(alice, []*user.User{charlie})
	require.Len(t, matches, 1)
	assert.Equal(t, ReasonWants, matches[0].Reason.Kind)
	// Charlie's stored order decides which wanted skill is shown.
	assert.Equal(t, "Wants Yoga", matches[0].Reason.Label)
}

func TestFinder_NoOverlapExcluded(t *testing.T) {
	f := newTestFinder()
	alice := testUser(1, "Alice", user.SkillList{"cooking"}, user.SkillList{"guitar"})
	diana := testUser(4, "Diana", user.SkillList{"yoga"}, user.SkillList{"painting"})

	matches := f.Find(alice, []*user.User{diana})
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestFinder_EveryMatchHasOverlap(t *testing.T) {
	f := newTestFinder()
	users := []*user.User{
		testUser(1, "Alice", user.SkillList{"cooking", "gardening"}, user.SkillList{"guitar", "photography"}),
		testUser(2, "Bob", user.SkillList{"guitar", "photography"}, user.SkillList{"coding", "spanish"}),
		testUser(3, "Charlie", user.SkillList{"coding"}, user.SkillList{"cooking"}),
		testUser(4, "Diana", user.SkillList{"yoga"}, user.SkillList{"painting"}),
	}

	for _, u := range users {
		for _, m := range f.Find(u, users) {
			assert.NotEqual(t, u.ID, m.Candidate.ID)
			hasOverlap := len(m.Candidate.SkillsOffered.Intersect(u.SkillsWanted)) > 0 ||
				len(m.Candidate.SkillsWanted.Intersect(u.SkillsOffered)) > 0
			assert.True(t, hasOverlap,
				"match %s -> %s must have a skill overlap", u.Name, m.Candidate.Name)
		}
	}
}

func TestFinder_PreservesCandidateOrder(t *testing.T) {
	f := newTestFinder()
	alice := testUser(1, "Alice", user.SkillList{"cooking"}, user.SkillList{"guitar", "coding"})
	bob := testUser(2, "Bob", user.SkillList{"coding"}, nil)
	charlie := testUser(3, "Charlie", user.SkillList{"guitar"}, nil)

	// Charlie has the "stronger" overlap position in Alice's wanted list,
	// but output order follows the candidate collection, not relevance.
	matches := f.Find(alice, []*user.User{bob, charlie})
	require.Len(t, matches, 2)
	assert.Equal(t, shared.UserID(2), matches[0].Candidate.ID)
	assert.Equal(t, shared.UserID(3), matches[1].Candidate.ID)
}

func TestFinder_UnknownSkillFallbackInLabel(t *testing.T) {
	f := newTestFinder()
	alice := testUser(1, "Alice", nil, user.SkillList{"blacksmithing"})
	bob := testUser(2, "Bob", user.SkillList{"blacksmithing"}, nil)

	matches := f.Find(alice, []*user.User{bob})
	require.Len(t, matches, 1)
	assert.Equal(t, "Offers Unknown Skill", matches[0].Reason.Label)
}

func TestFinder_NilCurrentUser(t *testing.T) {
	f := newTestFinder()
	matches := f.Find(nil, []*user.User{testUser(2, "Bob", nil, nil)})
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}
