package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
	"github.com/skillswap-hub/skillswap-community-hub/internal/infrastructure/persistence/memory"
)

func newSendMessageHandler(t *testing.T) (*SendMessageHandler, *capturePublisher) {
	t.Helper()
	store := memory.NewSeededStore()
	pub := &capturePublisher{}
	return NewSendMessageHandler(store.Users(), store.Conversations(), pub), pub
}

func TestSendMessageHandler_ReusesExistingConversation(t *testing.T) {
	handler, pub := newSendMessageHandler(t)

	// У участников 1 и 2 уже есть диалог с двумя сообщениями.
	result, err := handler.Handle(context.Background(), SendMessageCommand{
		SenderID:    1,
		RecipientID: 2,
		Text:        "Same time next week?",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.ConversationID)
	assert.False(t, result.IsNewConversation)
	assert.Equal(t, 3, result.MessageID)
	assert.Len(t, pub.ofType(shared.EventMessageSent), 1)
}

func TestSendMessageHandler_ReusesConversationRegardlessOfDirection(t *testing.T) {
	handler, _ := newSendMessageHandler(t)

	result, err := handler.Handle(context.Background(), SendMessageCommand{
		SenderID:    2,
		RecipientID: 1,
		Text:        "Works for me.",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.ConversationID)
	assert.False(t, result.IsNewConversation)
}

func TestSendMessageHandler_CreatesConversationOnFirstMessage(t *testing.T) {
	handler, _ := newSendMessageHandler(t)

	result, err := handler.Handle(context.Background(), SendMessageCommand{
		SenderID:    2,
		RecipientID: 4,
		Text:        "Saw you teach yoga, any spots left?",
	})
	require.NoError(t, err)
	assert.True(t, result.IsNewConversation)
	assert.Equal(t, 2, result.ConversationID)
}

func TestSendMessageHandler_RejectsSelfMessage(t *testing.T) {
	handler, _ := newSendMessageHandler(t)

	_, err := handler.Handle(context.Background(), SendMessageCommand{
		SenderID:    1,
		RecipientID: 1,
		Text:        "Note to self",
	})
	assert.True(t, shared.IsValidation(err))
}

func TestSendMessageHandler_RejectsUnknownRecipient(t *testing.T) {
	handler, _ := newSendMessageHandler(t)

	_, err := handler.Handle(context.Background(), SendMessageCommand{
		SenderID:    1,
		RecipientID: 99,
		Text:        "Anyone there?",
	})
	assert.ErrorIs(t, err, shared.ErrUserNotFound)
}
