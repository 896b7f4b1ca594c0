package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
	"github.com/skillswap-hub/skillswap-community-hub/internal/infrastructure/persistence/memory"
)

func newSubmitReviewHandler(t *testing.T) (*SubmitReviewHandler, *capturePublisher) {
	t.Helper()
	store := memory.NewSeededStore()
	pub := &capturePublisher{}
	return NewSubmitReviewHandler(store.Sessions(), store.Reviews(), pub), pub
}

func TestSubmitReviewHandler_CreatesReviewForPartner(t *testing.T) {
	handler, pub := newSubmitReviewHandler(t)

	// Сессию 1 уже оценил участник 1; очередь за участником 2.
	result, err := handler.Handle(context.Background(), SubmitReviewCommand{
		SessionID:  1,
		ReviewerID: 2,
		Stars:      4,
		Feedback:   "Quick learner, picked up barre chords in one session.",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.RevieweeID)
	assert.Positive(t, result.ReviewID)

	submitted := pub.ofType(shared.EventReviewSubmitted)
	require.Len(t, submitted, 1)
	event, ok := submitted[0].(shared.ReviewSubmittedEvent)
	require.True(t, ok)
	assert.Equal(t, 4, event.Rating)
	assert.Equal(t, 1, event.RevieweeID)
}

func TestSubmitReviewHandler_RejectsDuplicate(t *testing.T) {
	handler, _ := newSubmitReviewHandler(t)

	_, err := handler.Handle(context.Background(), SubmitReviewCommand{
		SessionID:  1,
		ReviewerID: 1,
		Stars:      5,
	})
	assert.ErrorIs(t, err, shared.ErrReviewDuplicate)
}

func TestSubmitReviewHandler_RejectsUncompletedSession(t *testing.T) {
	handler, _ := newSubmitReviewHandler(t)

	// Сессия 2 подтверждена, но ещё не завершена.
	_, err := handler.Handle(context.Background(), SubmitReviewCommand{
		SessionID:  2,
		ReviewerID: 1,
		Stars:      5,
	})
	assert.ErrorIs(t, err, shared.ErrReviewNotCompleted)
}

func TestSubmitReviewHandler_RejectsOutsider(t *testing.T) {
	handler, _ := newSubmitReviewHandler(t)

	_, err := handler.Handle(context.Background(), SubmitReviewCommand{
		SessionID:  1,
		ReviewerID: 5,
		Stars:      5,
	})
	assert.ErrorIs(t, err, shared.ErrReviewNotSessioneer)
}

func TestSubmitReviewHandler_RejectsStarsOutOfRange(t *testing.T) {
	handler, _ := newSubmitReviewHandler(t)

	_, err := handler.Handle(context.Background(), SubmitReviewCommand{
		SessionID:  1,
		ReviewerID: 2,
		Stars:      6,
	})
	assert.True(t, shared.IsValidation(err))
}
