package memory

import (
	"context"
	"sort"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/conversation"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
)

// ConversationRepo implements conversation.Repository on top of the
// in-memory store.
type ConversationRepo struct {
	store *Store
}

var _ conversation.Repository = (*ConversationRepo)(nil)

// CreateConversation stores a new conversation.
func (r *ConversationRepo) CreateConversation(ctx context.Context, c *conversation.Conversation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.conversationsByID[c.ID]; exists {
		return shared.ErrAlreadyExists
	}

	clone := *c
	r.store.conversations = append(r.store.conversations, &clone)
	r.store.conversationsByID[clone.ID] = &clone

	if clone.ID >= r.store.nextConversationID {
		r.store.nextConversationID = clone.ID + 1
	}
	return nil
}

// GetConversation returns a copy of the conversation.
func (r *ConversationRepo) GetConversation(ctx context.Context, id int) (*conversation.Conversation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.conversationsByID[id]
	if !ok {
		return nil, shared.ErrConversationNotFound
	}
	clone := *c
	return &clone, nil
}

// FindConversationByParticipants finds the conversation of a pair,
// independent of participant order.
func (r *ConversationRepo) FindConversationByParticipants(ctx context.Context, a, b shared.UserID) (*conversation.Conversation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, c := range r.store.conversations {
		if c.HasParticipant(a) && c.HasParticipant(b) {
			clone := *c
			return &clone, nil
		}
	}
	return nil, shared.ErrConversationNotFound
}

// UpdateConversation replaces the stored conversation.
func (r *ConversationRepo) UpdateConversation(ctx context.Context, c *conversation.Conversation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.conversationsByID[c.ID]; !ok {
		return shared.ErrConversationNotFound
	}

	clone := *c
	for i, existing := range r.store.conversations {
		if existing.ID == c.ID {
			r.store.conversations[i] = &clone
			break
		}
	}
	r.store.conversationsByID[clone.ID] = &clone
	return nil
}

// ListConversationsByUser returns the user's conversations, newest
// message first.
func (r *ConversationRepo) ListConversationsByUser(ctx context.Context, userID shared.UserID) ([]*conversation.Conversation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*conversation.Conversation, 0)
	for _, c := range r.store.conversations {
		if c.HasParticipant(userID) {
			clone := *c
			out = append(out, &clone)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastMessageAt.After(out[j].LastMessageAt)
	})
	return out, nil
}

// CreateMessage stores a new message.
func (r *ConversationRepo) CreateMessage(ctx context.Context, m *conversation.Message) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.conversationsByID[m.ConversationID]; !ok {
		return shared.ErrConversationNotFound
	}

	clone := *m
	r.store.messages = append(r.store.messages, &clone)

	if clone.ID >= r.store.nextMessageID {
		r.store.nextMessageID = clone.ID + 1
	}
	return nil
}

// ListMessages returns the conversation's messages chronologically.
func (r *ConversationRepo) ListMessages(ctx context.Context, conversationID int) ([]*conversation.Message, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*conversation.Message, 0)
	for _, m := range r.store.messages {
		if m.ConversationID == conversationID {
			clone := *m
			out = append(out, &clone)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

// MarkMessagesRead marks all messages addressed to the reader as read
// and returns how many were updated.
func (r *ConversationRepo) MarkMessagesRead(ctx context.Context, conversationID int, readerID shared.UserID) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	count := 0
	for _, m := range r.store.messages {
		if m.ConversationID == conversationID && m.SenderID != readerID && !m.Read {
			m.MarkRead()
			count++
		}
	}
	return count, nil
}

// CountUnread returns the number of unread messages addressed to the user.
func (r *ConversationRepo) CountUnread(ctx context.Context, userID shared.UserID) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for _, m := range r.store.messages {
		c, ok := r.store.conversationsByID[m.ConversationID]
		if !ok || !c.HasParticipant(userID) {
			continue
		}
		if m.SenderID != userID && !m.Read {
			count++
		}
	}
	return count, nil
}

// NextConversationID allocates the next free conversation id.
func (r *ConversationRepo) NextConversationID(ctx context.Context) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	id := r.store.nextConversationID
	r.store.nextConversationID++
	return id, nil
}

// NextMessageID allocates the next free message id.
func (r *ConversationRepo) NextMessageID(ctx context.Context) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	id := r.store.nextMessageID
	r.store.nextMessageID++
	return id, nil
}
