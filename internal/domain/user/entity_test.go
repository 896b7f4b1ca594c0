package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
)

func validParams() NewUserParams {
	return NewUserParams{
		ID:            1,
		Name:          "Alice Johnson",
		Email:         "alice@example.com",
		Location:      Location{Name: "Oakland, CA", Lat: 37.8044, Lng: -122.2712},
		SkillsOffered: SkillList{"cooking", "gardening"},
		SkillsWanted:  SkillList{"guitar", "photography"},
		InitialPoints: 120,
	}
}

func TestNewUser(t *testing.T) {
	u, err := NewUser(validParams())
	require.NoError(t, err)

	assert.Equal(t, shared.UserID(1), u.ID)
	assert.Equal(t, "Alice Johnson", u.Name)
	assert.Equal(t, shared.Email("alice@example.com"), u.Email)
	assert.Equal(t, shared.Points(120), u.Points)
	assert.True(t, u.Offers("cooking"))
	assert.True(t, u.Wants("guitar"))
	assert.False(t, u.Offers("guitar"))
}

func TestNewUser_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*NewUserParams)
	}{
		{"invalid id", func(p *NewUserParams) { p.ID = 0 }},
		{"empty name", func(p *NewUserParams) { p.Name = "   " }},
		{"bad email", func(p *NewUserParams) { p.Email = "not-an-email" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validParams()
			tt.mutate(&params)
			_, err := NewUser(params)
			assert.Error(t, err)
		})
	}
}

func TestSkillList_FirstIn_PreservesOrder(t *testing.T) {
	offered := SkillList{"guitar", "photography"}
	wanted := SkillList{"photography", "guitar"}

	// First element of the receiver that appears in the argument -
	// the receiver's stored order decides, not the argument's.
	first, ok := offered.FirstIn(wanted)
	require.True(t, ok)
	assert.Equal(t, shared.SkillID("guitar"), first)

	first, ok = wanted.FirstIn(offered)
	require.True(t, ok)
	assert.Equal(t, shared.SkillID("photography"), first)
}

func TestSkillList_FirstIn_NoOverlap(t *testing.T) {
	a := SkillList{"cooking"}
	b := SkillList{"yoga", "painting"}

	_, ok := a.FirstIn(b)
	assert.False(t, ok)
}

func TestSkillList_Intersect(t *testing.T) {
	a := SkillList{"cooking", "guitar", "coding"}
	b := SkillList{"coding", "cooking"}

	got := a.Intersect(b)
	assert.Equal(t, SkillList{"cooking", "coding"}, got)
}

func TestUser_AwardPoints(t *testing.T) {
	u, err := NewUser(validParams())
	require.NoError(t, err)

	total := u.AwardPoints(shared.PointsPerTaughtSession)
	assert.Equal(t, shared.Points(130), total)
	assert.Equal(t, shared.Points(130), u.Points)
}

func TestUser_UpdateProfile_Partial(t *testing.T) {
	u, err := NewUser(validParams())
	require.NoError(t, err)

	bio := "Weekend chef, weekday gardener."
	wanted := SkillList{"coding"}
	err = u.UpdateProfile(UpdateProfileParams{
		Bio:          &bio,
		SkillsWanted: &wanted,
	})
	require.NoError(t, err)

	assert.Equal(t, "Weekend chef, weekday gardener.", u.Bio)
	assert.Equal(t, SkillList{"coding"}, u.SkillsWanted)
	// Untouched fields keep their values.
	assert.Equal(t, "Alice Johnson", u.Name)
	assert.Equal(t, SkillList{"cooking", "gardening"}, u.SkillsOffered)
}

func TestUser_UpdateProfile_RejectsEmptyName(t *testing.T) {
	u, err := NewUser(validParams())
	require.NoError(t, err)

	empty := ""
	err = u.UpdateProfile(UpdateProfileParams{Name: &empty})
	assert.Error(t, err)
	assert.Equal(t, "Alice Johnson", u.Name)
}

func TestUser_Clone(t *testing.T) {
	u, err := NewUser(validParams())
	require.NoError(t, err)
	u.SetBadges([]string{"polyglot"})

	clone := u.Clone()
	clone.SkillsOffered[0] = "yoga"
	clone.Badges[0] = "top-teacher"

	assert.Equal(t, shared.SkillID("cooking"), u.SkillsOffered[0])
	assert.Equal(t, "polyglot", u.Badges[0])
}
