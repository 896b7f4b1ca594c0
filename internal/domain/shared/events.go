// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"encoding/json"
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types - these drive the event-driven architecture.
// Each event represents something significant that happened in the domain.
const (
	// User events
	EventUserRegistered     EventType = "user.registered"
	EventUserProfileUpdated EventType = "user.profile_updated"

	// Session events
	EventSessionBooked    EventType = "session.booked"
	EventSessionConfirmed EventType = "session.confirmed"
	EventSessionCompleted EventType = "session.completed"
	EventSessionCancelled EventType = "session.cancelled"

	// Review events
	EventReviewSubmitted EventType = "review.submitted"

	// Reputation events
	EventPointsAwarded      EventType = "reputation.points_awarded"
	EventBadgeUnlocked      EventType = "reputation.badge_unlocked"
	EventLeaderboardUpdated EventType = "reputation.leaderboard_updated"

	// Messaging events
	EventMessageSent EventType = "messaging.message_sent"

	// System events
	EventRebuildCompleted EventType = "system.rebuild_completed"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	Version       int       `json:"version"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// WithCorrelationID sets the correlation ID for tracing.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// ═══════════════════════════════════════════════════════════════════════════
// User Events
// ═══════════════════════════════════════════════════════════════════════════

// UserRegisteredEvent is emitted when a new member joins the community.
type UserRegisteredEvent struct {
	BaseEvent
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// Payload implements Event interface.
func (e UserRegisteredEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id": e.UserID,
		"email":   e.Email,
		"name":    e.Name,
	}
}

// NewUserRegisteredEvent creates a new UserRegisteredEvent.
func NewUserRegisteredEvent(userID int, email, name string) UserRegisteredEvent {
	return UserRegisteredEvent{
		BaseEvent: NewBaseEvent(EventUserRegistered, UserID(userID).String()),
		UserID:    userID,
		Email:     email,
		Name:      name,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Session Events
// ═══════════════════════════════════════════════════════════════════════════

// SessionBookedEvent is emitted when a learner books a session.
type SessionBookedEvent struct {
	BaseEvent
	SessionID int       `json:"session_id"`
	TeacherID int       `json:"teacher_id"`
	LearnerID int       `json:"learner_id"`
	SkillID   string    `json:"skill_id"`
	Date      time.Time `json:"date"`
}

// Payload implements Event interface.
func (e SessionBookedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"session_id": e.SessionID,
		"teacher_id": e.TeacherID,
		"learner_id": e.LearnerID,
		"skill_id":   e.SkillID,
		"date":       e.Date.Format(time.RFC3339),
	}
}

// NewSessionBookedEvent creates a new SessionBookedEvent.
func NewSessionBookedEvent(sessionID, teacherID, learnerID int, skillID string, date time.Time) SessionBookedEvent {
	return SessionBookedEvent{
		BaseEvent: NewBaseEvent(EventSessionBooked, UserID(learnerID).String()),
		SessionID: sessionID,
		TeacherID: teacherID,
		LearnerID: learnerID,
		SkillID:   skillID,
		Date:      date,
	}
}

// SessionCompletedEvent is emitted when a session reaches the completed state.
// This is the event that drives points awards and leaderboard refreshes.
type SessionCompletedEvent struct {
	BaseEvent
	SessionID int       `json:"session_id"`
	TeacherID int       `json:"teacher_id"`
	LearnerID int       `json:"learner_id"`
	SkillID   string    `json:"skill_id"`
	Date      time.Time `json:"date"`
}

// Payload implements Event interface.
func (e SessionCompletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"session_id": e.SessionID,
		"teacher_id": e.TeacherID,
		"learner_id": e.LearnerID,
		"skill_id":   e.SkillID,
		"date":       e.Date.Format(time.RFC3339),
	}
}

// NewSessionCompletedEvent creates a new SessionCompletedEvent.
func NewSessionCompletedEvent(sessionID, teacherID, learnerID int, skillID string, date time.Time) SessionCompletedEvent {
	return SessionCompletedEvent{
		BaseEvent: NewBaseEvent(EventSessionCompleted, UserID(teacherID).String()),
		SessionID: sessionID,
		TeacherID: teacherID,
		LearnerID: learnerID,
		SkillID:   skillID,
		Date:      date,
	}
}

// SessionCancelledEvent is emitted when a session is cancelled by either side.
type SessionCancelledEvent struct {
	BaseEvent
	SessionID   int    `json:"session_id"`
	CancelledBy int    `json:"cancelled_by"`
	Reason      string `json:"reason,omitempty"`
}

// Payload implements Event interface.
func (e SessionCancelledEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"session_id":   e.SessionID,
		"cancelled_by": e.CancelledBy,
		"reason":       e.Reason,
	}
}

// NewSessionCancelledEvent creates a new SessionCancelledEvent.
func NewSessionCancelledEvent(sessionID, cancelledBy int, reason string) SessionCancelledEvent {
	return SessionCancelledEvent{
		BaseEvent:   NewBaseEvent(EventSessionCancelled, UserID(cancelledBy).String()),
		SessionID:   sessionID,
		CancelledBy: cancelledBy,
		Reason:      reason,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Review Events
// ═══════════════════════════════════════════════════════════════════════════

// ReviewSubmittedEvent is emitted when a learner reviews a completed session.
type ReviewSubmittedEvent struct {
	BaseEvent
	ReviewID   int    `json:"review_id"`
	SessionID  int    `json:"session_id"`
	ReviewerID int    `json:"reviewer_id"`
	RevieweeID int    `json:"reviewee_id"`
	Rating     int    `json:"rating"` // 1-5
	Comment    string `json:"comment,omitempty"`
}

// Payload implements Event interface.
func (e ReviewSubmittedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"review_id":   e.ReviewID,
		"session_id":  e.SessionID,
		"reviewer_id": e.ReviewerID,
		"reviewee_id": e.RevieweeID,
		"rating":      e.Rating,
		"comment":     e.Comment,
	}
}

// NewReviewSubmittedEvent creates a new ReviewSubmittedEvent.
func NewReviewSubmittedEvent(reviewID, sessionID, reviewerID, revieweeID, rating int) ReviewSubmittedEvent {
	return ReviewSubmittedEvent{
		BaseEvent:  NewBaseEvent(EventReviewSubmitted, UserID(reviewerID).String()),
		ReviewID:   reviewID,
		SessionID:  sessionID,
		ReviewerID: reviewerID,
		RevieweeID: revieweeID,
		Rating:     rating,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Reputation Events
// ═══════════════════════════════════════════════════════════════════════════

// PointsAwardedEvent is emitted when a member earns community points.
type PointsAwardedEvent struct {
	BaseEvent
	UserID    int    `json:"user_id"`
	Amount    int    `json:"amount"`
	NewTotal  int    `json:"new_total"`
	Source    string `json:"source"` // e.g., "session_taught"
	SessionID int    `json:"session_id,omitempty"`
}

// Payload implements Event interface.
func (e PointsAwardedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id":    e.UserID,
		"amount":     e.Amount,
		"new_total":  e.NewTotal,
		"source":     e.Source,
		"session_id": e.SessionID,
	}
}

// NewPointsAwardedEvent creates a new PointsAwardedEvent.
func NewPointsAwardedEvent(userID, amount, newTotal int, source string) PointsAwardedEvent {
	return PointsAwardedEvent{
		BaseEvent: NewBaseEvent(EventPointsAwarded, UserID(userID).String()),
		UserID:    userID,
		Amount:    amount,
		NewTotal:  newTotal,
		Source:    source,
	}
}

// BadgeUnlockedEvent is emitted when a derived badge first becomes earned.
type BadgeUnlockedEvent struct {
	BaseEvent
	UserID    int    `json:"user_id"`
	BadgeID   string `json:"badge_id"`
	BadgeName string `json:"badge_name"`
}

// Payload implements Event interface.
func (e BadgeUnlockedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id":    e.UserID,
		"badge_id":   e.BadgeID,
		"badge_name": e.BadgeName,
	}
}

// NewBadgeUnlockedEvent creates a new BadgeUnlockedEvent.
func NewBadgeUnlockedEvent(userID int, badgeID, badgeName string) BadgeUnlockedEvent {
	return BadgeUnlockedEvent{
		BaseEvent: NewBaseEvent(EventBadgeUnlocked, UserID(userID).String()),
		UserID:    userID,
		BadgeID:   badgeID,
		BadgeName: badgeName,
	}
}

// LeaderboardUpdatedEvent is emitted after a leaderboard rebuild.
type LeaderboardUpdatedEvent struct {
	BaseEvent
	Board   string `json:"board"` // e.g., "top_teachers"
	Entries int    `json:"entries"`
}

// Payload implements Event interface.
func (e LeaderboardUpdatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"board":   e.Board,
		"entries": e.Entries,
	}
}

// NewLeaderboardUpdatedEvent creates a new LeaderboardUpdatedEvent.
func NewLeaderboardUpdatedEvent(board string, entries int) LeaderboardUpdatedEvent {
	return LeaderboardUpdatedEvent{
		BaseEvent: NewBaseEvent(EventLeaderboardUpdated, board),
		Board:     board,
		Entries:   entries,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Messaging Events
// ═══════════════════════════════════════════════════════════════════════════

// MessageSentEvent is emitted when a member sends a direct message.
type MessageSentEvent struct {
	BaseEvent
	ConversationID int `json:"conversation_id"`
	SenderID       int `json:"sender_id"`
	RecipientID    int `json:"recipient_id"`
}

// Payload implements Event interface.
func (e MessageSentEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"conversation_id": e.ConversationID,
		"sender_id":       e.SenderID,
		"recipient_id":    e.RecipientID,
	}
}

// NewMessageSentEvent creates a new MessageSentEvent.
func NewMessageSentEvent(conversationID, senderID, recipientID int) MessageSentEvent {
	return MessageSentEvent{
		BaseEvent:      NewBaseEvent(EventMessageSent, UserID(senderID).String()),
		ConversationID: conversationID,
		SenderID:       senderID,
		RecipientID:    recipientID,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event Envelope (for serialization and transport)
// ═══════════════════════════════════════════════════════════════════════════

// EventEnvelope wraps an event for transport/storage.
type EventEnvelope struct {
	ID            string          `json:"id"`
	Type          EventType       `json:"type"`
	AggregateID   string          `json:"aggregate_id"`
	Timestamp     time.Time       `json:"timestamp"`
	Version       int             `json:"version"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
