package conversation

import (
	"context"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции хранения диалогов и сообщений.
type Repository interface {
	// CreateConversation сохраняет новый диалог.
	CreateConversation(ctx context.Context, c *Conversation) error

	// GetConversation возвращает диалог по ID.
	// Возвращает shared.ErrConversationNotFound, если диалог не найден.
	GetConversation(ctx context.Context, id int) (*Conversation, error)

	// FindConversationByParticipants находит диалог пары участников
	// независимо от порядка. Возвращает shared.ErrConversationNotFound,
	// если диалога ещё нет.
	FindConversationByParticipants(ctx context.Context, a, b shared.UserID) (*Conversation, error)

	// UpdateConversation сохраняет изменённый диалог (превью сообщения).
	UpdateConversation(ctx context.Context, c *Conversation) error

	// ListConversationsByUser возвращает диалоги участника,
	// отсортированные по времени последнего сообщения (новые первыми).
	ListConversationsByUser(ctx context.Context, userID shared.UserID) ([]*Conversation, error)

	// CreateMessage сохраняет сообщение.
	CreateMessage(ctx context.Context, m *Message) error

	// ListMessages возвращает сообщения диалога в хронологическом порядке.
	ListMessages(ctx context.Context, conversationID int) ([]*Message, error)

	// MarkMessagesRead помечает прочитанными все сообщения диалога,
	// адресованные указанному участнику. Возвращает число обновлённых.
	MarkMessagesRead(ctx context.Context, conversationID int, readerID shared.UserID) (int, error)

	// CountUnread возвращает число непрочитанных сообщений участника.
	CountUnread(ctx context.Context, userID shared.UserID) (int, error)

	// NextConversationID возвращает следующий свободный ID диалога.
	NextConversationID(ctx context.Context) (int, error)

	// NextMessageID возвращает следующий свободный ID сообщения.
	NextMessageID(ctx context.Context) (int, error)
}
