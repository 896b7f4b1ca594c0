package skill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
)

func TestCatalog_NameOf(t *testing.T) {
	c := NewCatalog([]Skill{
		{ID: "cooking", DisplayName: "Cooking", IconKey: "chef-hat"},
		{ID: "guitar", DisplayName: "Guitar", IconKey: "guitar"},
	})

	assert.Equal(t, "Cooking", c.NameOf("cooking"))
	assert.Equal(t, "Guitar", c.NameOf("guitar"))
}

func TestCatalog_NameOf_UnknownFallback(t *testing.T) {
	c := DefaultCatalog()

	// Unknown ids resolve to the fallback, never an error.
	assert.Equal(t, UnknownSkillName, c.NameOf("quantum-baking"))
	assert.Equal(t, UnknownSkillName, c.NameOf(""))
}

func TestCatalog_Find(t *testing.T) {
	c := DefaultCatalog()

	s, ok := c.Find("yoga")
	require.True(t, ok)
	assert.Equal(t, "Yoga", s.DisplayName)

	_, ok = c.Find("juggling")
	assert.False(t, ok)
}

func TestCatalog_PreservesInsertionOrder(t *testing.T) {
	skills := []Skill{
		{ID: "painting", DisplayName: "Painting", IconKey: "palette"},
		{ID: "cooking", DisplayName: "Cooking", IconKey: "chef-hat"},
		{ID: "coding", DisplayName: "Coding", IconKey: "code"},
	}
	c := NewCatalog(skills)

	all := c.All()
	require.Len(t, all, 3)
	assert.Equal(t, shared.SkillID("painting"), all[0].ID)
	assert.Equal(t, shared.SkillID("cooking"), all[1].ID)
	assert.Equal(t, shared.SkillID("coding"), all[2].ID)
}

func TestCatalog_DuplicatesFirstWins(t *testing.T) {
	c := NewCatalog([]Skill{
		{ID: "cooking", DisplayName: "Cooking", IconKey: "chef-hat"},
		{ID: "cooking", DisplayName: "Haute Cuisine", IconKey: "utensils"},
	})

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, "Cooking", c.NameOf("cooking"))
}

func TestCatalog_SkipsInvalidSkills(t *testing.T) {
	c := NewCatalog([]Skill{
		{ID: "", DisplayName: "Nameless"},
		{ID: "guitar", DisplayName: "   "},
		{ID: "guitar", DisplayName: "Guitar", IconKey: "guitar"},
	})

	assert.Equal(t, 1, c.Len())
	assert.True(t, c.Contains("guitar"))
}

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	assert.Equal(t, 8, c.Len())
	for _, id := range []shared.SkillID{
		"cooking", "guitar", "coding", "spanish",
		"yoga", "photography", "gardening", "painting",
	} {
		assert.True(t, c.Contains(id), "expected catalog to contain %s", id)
	}
}
