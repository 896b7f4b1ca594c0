package memory

import (
	"time"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/conversation"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/review"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/session"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/user"
)

// NewSeededStore creates a store preloaded with the reference community
// dataset: five members, six sessions and two reviews. Dev mode and most
// tests run against this snapshot.
func NewSeededStore() *Store {
	s := NewStore()
	seedUsers(s)
	seedSessions(s)
	seedReviews(s)
	seedConversations(s)
	return s
}

func seedUsers(s *Store) {
	users := []*user.User{
		{
			ID:            1,
			Name:          "Alice Johnson",
			Email:         "alice@example.com",
			Location:      user.Location{Name: "San Francisco, CA", Lat: 37.7749, Lng: -122.4194},
			Points:        150,
			AvatarRef:     "https://i.pravatar.cc/150?u=alice",
			SkillsOffered: user.SkillList{"cooking", "gardening"},
			SkillsWanted:  user.SkillList{"guitar", "photography"},
		},
		{
			ID:            2,
			Name:          "Bob Williams",
			Email:         "bob@example.com",
			Location:      user.Location{Name: "Oakland, CA", Lat: 37.8044, Lng: -122.2712},
			Points:        80,
			AvatarRef:     "https://i.pravatar.cc/150?u=bob",
			SkillsOffered: user.SkillList{"guitar", "photography"},
			SkillsWanted:  user.SkillList{"coding", "spanish"},
		},
		{
			ID:            3,
			Name:          "Charlie Brown",
			Email:         "charlie@example.com",
			Location:      user.Location{Name: "Berkeley, CA", Lat: 37.8715, Lng: -122.2730},
			Points:        200,
			AvatarRef:     "https://i.pravatar.cc/150?u=charlie",
			SkillsOffered: user.SkillList{"coding", "spanish"},
			SkillsWanted:  user.SkillList{"yoga", "cooking"},
		},
		{
			ID:            4,
			Name:          "Diana Prince",
			Email:         "diana@example.com",
			Location:      user.Location{Name: "San Mateo, CA", Lat: 37.5630, Lng: -122.3255},
			Points:        120,
			AvatarRef:     "https://i.pravatar.cc/150?u=diana",
			SkillsOffered: user.SkillList{"yoga", "painting"},
			SkillsWanted:  user.SkillList{"gardening"},
		},
		{
			ID:            5,
			Name:          "Ethan Hunt",
			Email:         "ethan@example.com",
			Location:      user.Location{Name: "Palo Alto, CA", Lat: 37.4419, Lng: -122.1430},
			Points:        95,
			AvatarRef:     "https://i.pravatar.cc/150?u=ethan",
			SkillsOffered: user.SkillList{"photography"},
			SkillsWanted:  user.SkillList{"painting", "coding"},
		},
	}

	now := time.Now().UTC()
	for _, u := range users {
		u.Badges = make([]string, 0)
		u.CreatedAt = now
		u.UpdatedAt = now
		s.users = append(s.users, u)
		s.usersByID[u.ID] = u
		s.usersByEmail[u.Email.Normalize()] = u
	}
	s.nextUserID = 6
}

func seedSessions(s *Store) {
	sessions := []*session.Session{
		{ID: 1, TeacherID: 2, LearnerID: 1, SkillID: "guitar", Date: seedDate("2024-08-15T10:00:00Z"), Status: session.StatusCompleted, Mode: session.ModeInPerson},
		{ID: 2, TeacherID: 1, LearnerID: 3, SkillID: "cooking", Date: seedDate("2024-08-20T18:00:00Z"), Status: session.StatusConfirmed, Mode: session.ModeInPerson},
		{ID: 3, TeacherID: 3, LearnerID: 2, SkillID: "coding", Date: seedDate("2024-08-22T14:00:00Z"), Status: session.StatusConfirmed, Mode: session.ModeOnline},
		{ID: 4, TeacherID: 4, LearnerID: 1, SkillID: "yoga", Date: seedDate("2024-09-01T09:00:00Z"), Status: session.StatusPending, Mode: session.ModeOnline},
		{ID: 5, TeacherID: 1, LearnerID: 4, SkillID: "gardening", Date: seedDate("2024-07-30T11:00:00Z"), Status: session.StatusCompleted, Mode: session.ModeInPerson},
		{ID: 6, TeacherID: 2, LearnerID: 5, SkillID: "photography", Date: seedDate("2024-08-25T13:00:00Z"), Status: session.StatusPending, Mode: session.ModeInPerson},
	}

	for _, sess := range sessions {
		sess.CreatedAt = sess.Date.Add(-7 * 24 * time.Hour)
		sess.UpdatedAt = sess.CreatedAt
		s.sessions = append(s.sessions, sess)
		s.sessionsByID[sess.ID] = sess
	}
	s.nextSessionID = 7
}

func seedReviews(s *Store) {
	reviews := []*review.Review{
		{
			ID:         1,
			SessionID:  1,
			ReviewerID: 1,
			RevieweeID: 2,
			Stars:      5,
			Feedback:   "Bob was a fantastic guitar teacher! Very patient and knowledgeable.",
			CreatedAt:  seedDate("2024-08-15T12:00:00Z"),
		},
		{
			ID:         2,
			SessionID:  5,
			ReviewerID: 4,
			RevieweeID: 1,
			Stars:      4,
			Feedback:   "Alice knows so much about gardening. I learned a lot about composting.",
			CreatedAt:  seedDate("2024-07-30T13:30:00Z"),
		},
	}

	for _, r := range reviews {
		s.reviews = append(s.reviews, r)
		s.reviewsByID[r.ID] = r
	}
	s.nextReviewID = 3
}

func seedConversations(s *Store) {
	c := &conversation.Conversation{
		ID:             1,
		ParticipantIDs: [2]shared.UserID{1, 2},
		CreatedAt:      seedDate("2024-08-14T09:00:00Z"),
	}

	messages := []*conversation.Message{
		{
			ID:             1,
			ConversationID: 1,
			SenderID:       1,
			Text:           "Hi Bob! Still up for the guitar session tomorrow?",
			Timestamp:      seedDate("2024-08-14T09:00:00Z"),
			Read:           true,
		},
		{
			ID:             2,
			ConversationID: 1,
			SenderID:       2,
			Text:           "Absolutely, see you at 10. Bring your own guitar if you have one!",
			Timestamp:      seedDate("2024-08-14T09:05:00Z"),
			Read:           false,
		},
	}

	last := messages[len(messages)-1]
	c.LastMessageText = last.Text
	c.LastMessageAt = last.Timestamp

	s.conversations = append(s.conversations, c)
	s.conversationsByID[c.ID] = c
	s.messages = append(s.messages, messages...)
	s.nextConversationID = 2
	s.nextMessageID = 3
}

func seedDate(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic("memory: invalid seed date: " + value)
	}
	return t
}
