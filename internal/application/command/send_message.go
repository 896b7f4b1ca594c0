package command

import (
	"context"
	"errors"
	"time"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/conversation"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEND MESSAGE COMMAND
// Отправляет личное сообщение. Диалог пары участников создаётся
// при первом сообщении; повторные сообщения попадают в тот же диалог
// независимо от того, кто кому пишет.
// ══════════════════════════════════════════════════════════════════════════════

// SendMessageCommand содержит данные сообщения.
type SendMessageCommand struct {
	// SenderID - отправитель.
	SenderID int

	// RecipientID - получатель.
	RecipientID int

	// Text - текст сообщения.
	Text string
}

// Validate проверяет корректность команды.
func (c SendMessageCommand) Validate() error {
	if c.SenderID <= 0 {
		return errors.New("send_message: sender_id must be positive")
	}
	if c.RecipientID <= 0 {
		return errors.New("send_message: recipient_id must be positive")
	}
	if c.SenderID == c.RecipientID {
		return errors.New("send_message: cannot message yourself")
	}
	return nil
}

// SendMessageResult содержит результат отправки.
type SendMessageResult struct {
	// ConversationID - диалог, в который попало сообщение.
	ConversationID int

	// MessageID - ID созданного сообщения.
	MessageID int

	// IsNewConversation - создан ли диалог этим сообщением.
	IsNewConversation bool

	// Events - сгенерированные доменные события.
	Events []shared.Event

	// SentAt - время отправки.
	SentAt time.Time
}

// SendMessageHandler обрабатывает команду отправки сообщения.
type SendMessageHandler struct {
	userRepo         user.Repository
	conversationRepo conversation.Repository
	eventPublisher   shared.EventPublisher
}

// NewSendMessageHandler создаёт новый обработчик отправки сообщений.
func NewSendMessageHandler(
	userRepo user.Repository,
	conversationRepo conversation.Repository,
	eventPublisher shared.EventPublisher,
) *SendMessageHandler {
	return &SendMessageHandler{
		userRepo:         userRepo,
		conversationRepo: conversationRepo,
		eventPublisher:   eventPublisher,
	}
}

// Handle выполняет отправку сообщения.
func (h *SendMessageHandler) Handle(ctx context.Context, cmd SendMessageCommand) (*SendMessageResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("command", "SendMessage", shared.ErrValidation, err.Error(), err)
	}

	sender := shared.UserID(cmd.SenderID)
	recipient := shared.UserID(cmd.RecipientID)

	if ok, err := h.userRepo.Exists(ctx, recipient); err != nil || !ok {
		return nil, shared.ErrUserNotFound
	}

	c, isNew, err := h.findOrCreateConversation(ctx, sender, recipient)
	if err != nil {
		return nil, err
	}

	msgID, err := h.conversationRepo.NextMessageID(ctx)
	if err != nil {
		return nil, shared.WrapError("command", "SendMessage", shared.ErrServiceUnavailable, "failed to allocate id", err)
	}

	m, err := conversation.NewMessage(msgID, c.ID, sender, cmd.Text)
	if err != nil {
		return nil, err
	}

	if err := h.conversationRepo.CreateMessage(ctx, m); err != nil {
		return nil, shared.WrapError("command", "SendMessage", shared.ErrServiceUnavailable, "failed to save message", err)
	}

	c.RecordMessage(m)
	if err := h.conversationRepo.UpdateConversation(ctx, c); err != nil {
		return nil, shared.WrapError("command", "SendMessage", shared.ErrServiceUnavailable, "failed to update conversation", err)
	}

	event := shared.NewMessageSentEvent(c.ID, cmd.SenderID, cmd.RecipientID)
	_ = h.eventPublisher.Publish(event)

	return &SendMessageResult{
		ConversationID:    c.ID,
		MessageID:         m.ID,
		IsNewConversation: isNew,
		Events:            []shared.Event{event},
		SentAt:            m.Timestamp,
	}, nil
}

// findOrCreateConversation находит диалог пары или создаёт новый.
func (h *SendMessageHandler) findOrCreateConversation(
	ctx context.Context,
	sender, recipient shared.UserID,
) (*conversation.Conversation, bool, error) {
	existing, err := h.conversationRepo.FindConversationByParticipants(ctx, sender, recipient)
	if err == nil {
		return existing, false, nil
	}
	if !shared.IsNotFound(err) {
		return nil, false, shared.WrapError("command", "SendMessage", shared.ErrServiceUnavailable, "failed to find conversation", err)
	}

	id, err := h.conversationRepo.NextConversationID(ctx)
	if err != nil {
		return nil, false, shared.WrapError("command", "SendMessage", shared.ErrServiceUnavailable, "failed to allocate id", err)
	}

	c, err := conversation.NewConversation(id, sender, recipient)
	if err != nil {
		return nil, false, err
	}

	if err := h.conversationRepo.CreateConversation(ctx, c); err != nil {
		return nil, false, shared.WrapError("command", "SendMessage", shared.ErrServiceUnavailable, "failed to save conversation", err)
	}

	return c, true, nil
}
