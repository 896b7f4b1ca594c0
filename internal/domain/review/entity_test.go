package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
)

func TestNewReview(t *testing.T) {
	r, err := NewReview(NewReviewParams{
		ID:         1,
		SessionID:  3,
		ReviewerID: 1,
		RevieweeID: 2,
		Stars:      5,
		Feedback:   "  Bob is a fantastic guitar teacher!  ",
	})
	require.NoError(t, err)

	assert.Equal(t, shared.Rating(5), r.Stars)
	assert.Equal(t, "Bob is a fantastic guitar teacher!", r.Feedback)
	assert.True(t, r.IsFiveStar())
}

func TestNewReview_Validation(t *testing.T) {
	base := NewReviewParams{
		ID:         1,
		SessionID:  3,
		ReviewerID: 1,
		RevieweeID: 2,
		Stars:      4,
	}

	tests := []struct {
		name    string
		mutate  func(*NewReviewParams)
		wantErr error
	}{
		{"self review", func(p *NewReviewParams) { p.RevieweeID = p.ReviewerID }, shared.ErrReviewSelf},
		{"zero stars", func(p *NewReviewParams) { p.Stars = 0 }, shared.ErrInvalidRatingStars},
		{"six stars", func(p *NewReviewParams) { p.Stars = 6 }, shared.ErrInvalidRatingStars},
		{"bad session", func(p *NewReviewParams) { p.SessionID = 0 }, shared.ErrInvalidID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := base
			tt.mutate(&params)
			_, err := NewReview(params)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
