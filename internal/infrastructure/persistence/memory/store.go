// Package memory contains the in-memory persistence layer.
// It backs dev mode and tests: the store is seeded with the reference
// community dataset and guarded by a single RWMutex (write-rare,
// read-many access pattern). Insertion order of every collection is
// preserved because matching and leaderboard tie-breaking depend on it.
package memory

import (
	"sync"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/conversation"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/review"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/session"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/user"
)

// Store holds all aggregates in insertion-ordered slices.
type Store struct {
	mu sync.RWMutex

	users         []*user.User
	usersByID     map[shared.UserID]*user.User
	usersByEmail  map[shared.Email]*user.User
	nextUserID    int
	sessions      []*session.Session
	sessionsByID  map[int]*session.Session
	nextSessionID int
	reviews       []*review.Review
	reviewsByID   map[int]*review.Review
	nextReviewID  int

	conversations      []*conversation.Conversation
	conversationsByID  map[int]*conversation.Conversation
	messages           []*conversation.Message
	nextConversationID int
	nextMessageID      int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		usersByID:          make(map[shared.UserID]*user.User),
		usersByEmail:       make(map[shared.Email]*user.User),
		sessionsByID:       make(map[int]*session.Session),
		reviewsByID:        make(map[int]*review.Review),
		conversationsByID:  make(map[int]*conversation.Conversation),
		nextUserID:         1,
		nextSessionID:      1,
		nextReviewID:       1,
		nextConversationID: 1,
		nextMessageID:      1,
	}
}

// Users returns the user repository view of the store.
func (s *Store) Users() *UserRepo { return &UserRepo{store: s} }

// Sessions returns the session repository view of the store.
func (s *Store) Sessions() *SessionRepo { return &SessionRepo{store: s} }

// Reviews returns the review repository view of the store.
func (s *Store) Reviews() *ReviewRepo { return &ReviewRepo{store: s} }

// Conversations returns the conversation repository view of the store.
func (s *Store) Conversations() *ConversationRepo { return &ConversationRepo{store: s} }
