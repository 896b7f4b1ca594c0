package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/conversation"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
)

// ConversationRepo implements conversation.Repository backed by PostgreSQL.
// A unique index on the normalized participant pair guarantees at most one
// conversation per pair regardless of who messaged first.
type ConversationRepo struct {
	conn *Connection
}

var _ conversation.Repository = (*ConversationRepo)(nil)

// NewConversationRepo creates a new PostgreSQL conversation repository.
func NewConversationRepo(conn *Connection) *ConversationRepo {
	return &ConversationRepo{conn: conn}
}

const conversationColumns = `id, participant_a, participant_b, last_message_text, last_message_at, created_at`

// CreateConversation inserts a new conversation row.
func (r *ConversationRepo) CreateConversation(ctx context.Context, c *conversation.Conversation) error {
	query := `
		INSERT INTO conversations (id, participant_a, participant_b, last_message_text,
			last_message_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.conn.Exec(ctx, query,
		c.ID,
		int(c.ParticipantIDs[0]),
		int(c.ParticipantIDs[1]),
		c.LastMessageText,
		c.LastMessageAt,
		c.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		if IsForeignKeyViolation(err) {
			return shared.ErrUserNotFound
		}
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	return nil
}

// GetConversation returns the conversation with the given id.
func (r *ConversationRepo) GetConversation(ctx context.Context, id int) (*conversation.Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE id = $1`

	c, err := scanConversation(r.conn.QueryRow(ctx, query, id))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrConversationNotFound
		}
		return nil, fmt.Errorf("failed to get conversation %d: %w", id, err)
	}
	return c, nil
}

// FindConversationByParticipants finds the pair's conversation, independent
// of participant order.
func (r *ConversationRepo) FindConversationByParticipants(ctx context.Context, a, b shared.UserID) (*conversation.Conversation, error) {
	query := `
		SELECT ` + conversationColumns + `
		FROM conversations
		WHERE LEAST(participant_a, participant_b) = LEAST($1::bigint, $2::bigint)
		  AND GREATEST(participant_a, participant_b) = GREATEST($1::bigint, $2::bigint)
	`

	c, err := scanConversation(r.conn.QueryRow(ctx, query, int(a), int(b)))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrConversationNotFound
		}
		return nil, fmt.Errorf("failed to find conversation for pair (%d, %d): %w", a, b, err)
	}
	return c, nil
}

// UpdateConversation replaces the stored conversation row.
func (r *ConversationRepo) UpdateConversation(ctx context.Context, c *conversation.Conversation) error {
	query := `
		UPDATE conversations
		SET last_message_text = $2, last_message_at = $3
		WHERE id = $1
	`

	tag, err := r.conn.Exec(ctx, query, c.ID, c.LastMessageText, c.LastMessageAt)
	if err != nil {
		return fmt.Errorf("failed to update conversation %d: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrConversationNotFound
	}
	return nil
}

// ListConversationsByUser returns the member's conversations, newest
// message first.
func (r *ConversationRepo) ListConversationsByUser(ctx context.Context, userID shared.UserID) ([]*conversation.Conversation, error) {
	query := `
		SELECT ` + conversationColumns + `
		FROM conversations
		WHERE participant_a = $1 OR participant_b = $1
		ORDER BY last_message_at DESC, id
	`

	rows, err := r.conn.Query(ctx, query, int(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations for user %d: %w", userID, err)
	}
	defer rows.Close()

	out := make([]*conversation.Conversation, 0)
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversation row: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conversation rows: %w", err)
	}
	return out, nil
}

// CreateMessage inserts a new message row.
func (r *ConversationRepo) CreateMessage(ctx context.Context, m *conversation.Message) error {
	query := `
		INSERT INTO messages (id, conversation_id, sender_id, body, sent_at, is_read)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.conn.Exec(ctx, query,
		m.ID,
		m.ConversationID,
		int(m.SenderID),
		m.Text,
		m.Timestamp,
		m.Read,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return shared.ErrConversationNotFound
		}
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// ListMessages returns the conversation's messages chronologically.
func (r *ConversationRepo) ListMessages(ctx context.Context, conversationID int) ([]*conversation.Message, error) {
	query := `
		SELECT id, conversation_id, sender_id, body, sent_at, is_read
		FROM messages
		WHERE conversation_id = $1
		ORDER BY sent_at, id
	`

	rows, err := r.conn.Query(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages for conversation %d: %w", conversationID, err)
	}
	defer rows.Close()

	out := make([]*conversation.Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate message rows: %w", err)
	}
	return out, nil
}

// MarkMessagesRead marks all messages addressed to the reader as read and
// returns how many were updated.
func (r *ConversationRepo) MarkMessagesRead(ctx context.Context, conversationID int, readerID shared.UserID) (int, error) {
	query := `
		UPDATE messages
		SET is_read = TRUE
		WHERE conversation_id = $1 AND sender_id <> $2 AND NOT is_read
	`

	tag, err := r.conn.Exec(ctx, query, conversationID, int(readerID))
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// CountUnread returns the number of unread messages addressed to the member
// across all their conversations.
func (r *ConversationRepo) CountUnread(ctx context.Context, userID shared.UserID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM messages m
		JOIN conversations c ON c.id = m.conversation_id
		WHERE (c.participant_a = $1 OR c.participant_b = $1)
		  AND m.sender_id <> $1
		  AND NOT m.is_read
	`

	var count int
	err := r.conn.QueryRow(ctx, query, int(userID)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}

// NextConversationID allocates the next free conversation id.
func (r *ConversationRepo) NextConversationID(ctx context.Context) (int, error) {
	var id int
	err := r.conn.QueryRow(ctx, `SELECT nextval('conversations_id_seq')`).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate conversation id: %w", err)
	}
	return id, nil
}

// NextMessageID allocates the next free message id.
func (r *ConversationRepo) NextMessageID(ctx context.Context) (int, error) {
	var id int
	err := r.conn.QueryRow(ctx, `SELECT nextval('messages_id_seq')`).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate message id: %w", err)
	}
	return id, nil
}

func scanConversation(row pgx.Row) (*conversation.Conversation, error) {
	var (
		c conversation.Conversation
		a int
		b int
	)

	err := row.Scan(
		&c.ID,
		&a,
		&b,
		&c.LastMessageText,
		&c.LastMessageAt,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.ParticipantIDs = [2]shared.UserID{shared.UserID(a), shared.UserID(b)}
	return &c, nil
}

func scanMessage(row pgx.Row) (*conversation.Message, error) {
	var (
		m      conversation.Message
		sender int
	)

	err := row.Scan(
		&m.ID,
		&m.ConversationID,
		&sender,
		&m.Text,
		&m.Timestamp,
		&m.Read,
	)
	if err != nil {
		return nil, err
	}

	m.SenderID = shared.UserID(sender)
	return &m, nil
}
