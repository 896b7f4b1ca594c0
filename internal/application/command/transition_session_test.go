package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
	"github.com/skillswap-hub/skillswap-community-hub/internal/infrastructure/persistence/memory"
)

func newTransitionHandler(t *testing.T) (*TransitionSessionHandler, *capturePublisher) {
	t.Helper()
	store := memory.NewSeededStore()
	pub := &capturePublisher{}
	return NewTransitionSessionHandler(store.Sessions(), pub), pub
}

func TestTransitionSessionHandler_ConfirmThenComplete(t *testing.T) {
	handler, pub := newTransitionHandler(t)

	// Сессия 4 в статусе pending, участники 4 и 1.
	result, err := handler.Handle(context.Background(), TransitionSessionCommand{
		SessionID: 4,
		ActorID:   1,
		Action:    ActionConfirm,
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", result.PreviousStatus)
	assert.Equal(t, "confirmed", result.Status)
	assert.Empty(t, result.Events)

	result, err = handler.Handle(context.Background(), TransitionSessionCommand{
		SessionID: 4,
		ActorID:   4,
		Action:    ActionComplete,
	})
	require.NoError(t, err)
	assert.Equal(t, "completed", result.Status)
	assert.Len(t, pub.ofType(shared.EventSessionCompleted), 1)
}

func TestTransitionSessionHandler_CancelPublishesReason(t *testing.T) {
	handler, pub := newTransitionHandler(t)

	result, err := handler.Handle(context.Background(), TransitionSessionCommand{
		SessionID: 4,
		ActorID:   1,
		Action:    ActionCancel,
		Reason:    "schedule conflict",
	})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", result.Status)

	cancelled := pub.ofType(shared.EventSessionCancelled)
	require.Len(t, cancelled, 1)
	event, ok := cancelled[0].(shared.SessionCancelledEvent)
	require.True(t, ok)
	assert.Equal(t, "schedule conflict", event.Reason)
	assert.Equal(t, 1, event.CancelledBy)
}

func TestTransitionSessionHandler_RejectsNonParticipant(t *testing.T) {
	handler, _ := newTransitionHandler(t)

	_, err := handler.Handle(context.Background(), TransitionSessionCommand{
		SessionID: 4,
		ActorID:   3,
		Action:    ActionConfirm,
	})
	assert.ErrorIs(t, err, shared.ErrSessionParticipantsOnly)
}

func TestTransitionSessionHandler_RejectsCompleteFromPending(t *testing.T) {
	handler, _ := newTransitionHandler(t)

	_, err := handler.Handle(context.Background(), TransitionSessionCommand{
		SessionID: 6,
		ActorID:   2,
		Action:    ActionComplete,
	})
	assert.True(t, shared.IsStateConflict(err))
}

func TestTransitionSessionHandler_RejectsUnknownSession(t *testing.T) {
	handler, _ := newTransitionHandler(t)

	_, err := handler.Handle(context.Background(), TransitionSessionCommand{
		SessionID: 99,
		ActorID:   1,
		Action:    ActionConfirm,
	})
	assert.ErrorIs(t, err, shared.ErrSessionNotFound)
}
