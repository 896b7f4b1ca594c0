// Package conversation содержит доменную модель личной переписки участников.
package conversation

import (
	"strings"
	"time"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENTITIES
// ══════════════════════════════════════════════════════════════════════════════

// Conversation - диалог между двумя участниками.
type Conversation struct {
	// ID - уникальный идентификатор диалога.
	ID int

	// ParticipantIDs - ровно два участника диалога.
	ParticipantIDs [2]shared.UserID

	// LastMessageText - текст последнего сообщения (для списка диалогов).
	LastMessageText string

	// LastMessageAt - время последнего сообщения.
	LastMessageAt time.Time

	// CreatedAt - время создания диалога.
	CreatedAt time.Time
}

// Message - одно сообщение в диалоге.
type Message struct {
	// ID - уникальный идентификатор сообщения.
	ID int

	// ConversationID - диалог, к которому относится сообщение.
	ConversationID int

	// SenderID - отправитель.
	SenderID shared.UserID

	// Text - текст сообщения.
	Text string

	// Timestamp - время отправки.
	Timestamp time.Time

	// Read - прочитано ли сообщение получателем.
	Read bool
}

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewConversation создаёт диалог между двумя участниками.
func NewConversation(id int, a, b shared.UserID) (*Conversation, error) {
	if id <= 0 {
		return nil, shared.NewDomainError("conversation", "Create", shared.ErrInvalidID, "conversation id must be positive")
	}
	if !a.IsValid() || !b.IsValid() {
		return nil, shared.ErrInvalidUserID
	}
	if a == b {
		return nil, shared.NewDomainError("conversation", "Create", shared.ErrInvalidInput, "conversation needs two distinct participants")
	}

	return &Conversation{
		ID:             id,
		ParticipantIDs: [2]shared.UserID{a, b},
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// NewMessage создаёт сообщение с валидацией.
func NewMessage(id, conversationID int, senderID shared.UserID, text string) (*Message, error) {
	if id <= 0 || conversationID <= 0 {
		return nil, shared.NewDomainError("conversation", "Send", shared.ErrInvalidID, "message and conversation ids must be positive")
	}
	if !senderID.IsValid() {
		return nil, shared.ErrInvalidUserID
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, shared.ErrEmptyMessage
	}

	return &Message{
		ID:             id,
		ConversationID: conversationID,
		SenderID:       senderID,
		Text:           trimmed,
		Timestamp:      time.Now().UTC(),
		Read:           false,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS
// ══════════════════════════════════════════════════════════════════════════════

// HasParticipant проверяет, участвует ли пользователь в диалоге.
func (c *Conversation) HasParticipant(id shared.UserID) bool {
	return c.ParticipantIDs[0] == id || c.ParticipantIDs[1] == id
}

// OtherParticipant возвращает ID собеседника.
func (c *Conversation) OtherParticipant(id shared.UserID) shared.UserID {
	if c.ParticipantIDs[0] == id {
		return c.ParticipantIDs[1]
	}
	return c.ParticipantIDs[0]
}

// RecordMessage обновляет превью диалога после отправки сообщения.
func (c *Conversation) RecordMessage(m *Message) {
	c.LastMessageText = m.Text
	c.LastMessageAt = m.Timestamp
}

// MarkRead помечает сообщение прочитанным.
func (m *Message) MarkRead() {
	m.Read = true
}
