package query

import (
	"context"
	"errors"
	"time"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/conversation"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/user"
	"github.com/skillswap-hub/skillswap-community-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST CONVERSATIONS QUERY
// Возвращает диалоги участника с превью последнего сообщения,
// отсортированные по свежести.
// ══════════════════════════════════════════════════════════════════════════════

// ListConversationsQuery содержит параметры запроса диалогов.
type ListConversationsQuery struct {
	// UserID - участник, чьи диалоги запрашиваются.
	UserID int
}

// Validate проверяет корректность параметров запроса.
func (q *ListConversationsQuery) Validate() error {
	if q.UserID <= 0 {
		return errors.New("user_id must be positive")
	}
	return nil
}

// ConversationDTO - DTO одного диалога.
type ConversationDTO struct {
	ConversationID  int    `json:"conversation_id"`
	PartnerID       int    `json:"partner_id"`
	PartnerName     string `json:"partner_name"`
	PartnerAvatar   string `json:"partner_avatar,omitempty"`
	LastMessageText string `json:"last_message_text,omitempty"`
	LastMessageAgo  string `json:"last_message_ago,omitempty"`
	UnreadCount     int    `json:"unread_count"`
}

// ListConversationsResult содержит результат запроса диалогов.
type ListConversationsResult struct {
	Conversations []ConversationDTO `json:"conversations"`
	TotalUnread   int               `json:"total_unread"`
	GeneratedAt   time.Time         `json:"generated_at"`
}

// ListConversationsHandler обрабатывает запросы списка диалогов.
type ListConversationsHandler struct {
	userRepo         user.Repository
	conversationRepo conversation.Repository
}

// NewListConversationsHandler создаёт новый обработчик списка диалогов.
func NewListConversationsHandler(userRepo user.Repository, conversationRepo conversation.Repository) *ListConversationsHandler {
	return &ListConversationsHandler{
		userRepo:         userRepo,
		conversationRepo: conversationRepo,
	}
}

// Handle выполняет запрос списка диалогов.
func (h *ListConversationsHandler) Handle(ctx context.Context, query ListConversationsQuery) (*ListConversationsResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "ListConversations", shared.ErrValidation, err.Error(), err)
	}

	userID := shared.UserID(query.UserID)

	conversations, err := h.conversationRepo.ListConversationsByUser(ctx, userID)
	if err != nil {
		return nil, shared.WrapError("query", "ListConversations", shared.ErrServiceUnavailable, "failed to list conversations", err)
	}

	dtos := make([]ConversationDTO, 0, len(conversations))
	totalUnread := 0
	for _, c := range conversations {
		dto := h.toDTO(ctx, c, userID)
		totalUnread += dto.UnreadCount
		dtos = append(dtos, dto)
	}

	return &ListConversationsResult{
		Conversations: dtos,
		TotalUnread:   totalUnread,
		GeneratedAt:   time.Now().UTC(),
	}, nil
}

// toDTO конвертирует диалог в DTO с точки зрения участника.
func (h *ListConversationsHandler) toDTO(ctx context.Context, c *conversation.Conversation, viewer shared.UserID) ConversationDTO {
	partnerID := c.OtherParticipant(viewer)

	dto := ConversationDTO{
		ConversationID:  c.ID,
		PartnerID:       partnerID.Int(),
		LastMessageText: c.LastMessageText,
	}

	if !c.LastMessageAt.IsZero() {
		dto.LastMessageAgo = timeutil.FormatRelative(c.LastMessageAt)
	}

	if partner, err := h.userRepo.GetByID(ctx, partnerID); err == nil {
		dto.PartnerName = partner.Name
		dto.PartnerAvatar = partner.AvatarRef
	}

	// Счётчик непрочитанных по диалогу: сообщения собеседника без отметки.
	if messages, err := h.conversationRepo.ListMessages(ctx, c.ID); err == nil {
		for _, m := range messages {
			if m.SenderID != viewer && !m.Read {
				dto.UnreadCount++
			}
		}
	}

	return dto
}

// ══════════════════════════════════════════════════════════════════════════════
// GET MESSAGES QUERY
// Возвращает сообщения диалога в хронологическом порядке и помечает
// входящие прочитанными.
// ══════════════════════════════════════════════════════════════════════════════

// GetMessagesQuery содержит параметры запроса сообщений.
type GetMessagesQuery struct {
	// ConversationID - запрашиваемый диалог.
	ConversationID int

	// ViewerID - участник, открывший диалог.
	ViewerID int

	// MarkRead - помечать ли входящие сообщения прочитанными.
	MarkRead bool
}

// Validate проверяет корректность параметров запроса.
func (q *GetMessagesQuery) Validate() error {
	if q.ConversationID <= 0 {
		return errors.New("conversation_id must be positive")
	}
	if q.ViewerID <= 0 {
		return errors.New("viewer_id must be positive")
	}
	return nil
}

// MessageDTO - DTO одного сообщения.
type MessageDTO struct {
	MessageID int    `json:"message_id"`
	SenderID  int    `json:"sender_id"`
	IsOwn     bool   `json:"is_own"`
	Text      string `json:"text"`
	SentAgo   string `json:"sent_ago"`
	Timestamp string `json:"timestamp"`
	Read      bool   `json:"read"`
}

// GetMessagesResult содержит результат запроса сообщений.
type GetMessagesResult struct {
	ConversationID int          `json:"conversation_id"`
	PartnerID      int          `json:"partner_id"`
	Messages       []MessageDTO `json:"messages"`
	MarkedRead     int          `json:"marked_read"`
	GeneratedAt    time.Time    `json:"generated_at"`
}

// GetMessagesHandler обрабатывает запросы сообщений диалога.
type GetMessagesHandler struct {
	conversationRepo conversation.Repository
}

// NewGetMessagesHandler создаёт новый обработчик сообщений.
func NewGetMessagesHandler(conversationRepo conversation.Repository) *GetMessagesHandler {
	return &GetMessagesHandler{conversationRepo: conversationRepo}
}

// Handle выполняет запрос сообщений диалога.
func (h *GetMessagesHandler) Handle(ctx context.Context, query GetMessagesQuery) (*GetMessagesResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetMessages", shared.ErrValidation, err.Error(), err)
	}

	viewer := shared.UserID(query.ViewerID)

	c, err := h.conversationRepo.GetConversation(ctx, query.ConversationID)
	if err != nil {
		return nil, shared.ErrConversationNotFound
	}

	if !c.HasParticipant(viewer) {
		return nil, shared.ErrNotParticipant
	}

	markedRead := 0
	if query.MarkRead {
		if n, err := h.conversationRepo.MarkMessagesRead(ctx, c.ID, viewer); err == nil {
			markedRead = n
		}
	}

	messages, err := h.conversationRepo.ListMessages(ctx, c.ID)
	if err != nil {
		return nil, shared.WrapError("query", "GetMessages", shared.ErrServiceUnavailable, "failed to list messages", err)
	}

	dtos := make([]MessageDTO, 0, len(messages))
	for _, m := range messages {
		dtos = append(dtos, MessageDTO{
			MessageID: m.ID,
			SenderID:  m.SenderID.Int(),
			IsOwn:     m.SenderID == viewer,
			Text:      m.Text,
			SentAgo:   timeutil.FormatRelative(m.Timestamp),
			Timestamp: m.Timestamp.UTC().Format(time.RFC3339),
			Read:      m.Read,
		})
	}

	return &GetMessagesResult{
		ConversationID: c.ID,
		PartnerID:      c.OtherParticipant(viewer).Int(),
		Messages:       dtos,
		MarkedRead:     markedRead,
		GeneratedAt:    time.Now().UTC(),
	}, nil
}
