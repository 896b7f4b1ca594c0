// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrFutureTimestamp = errors.New("timestamp cannot be in the future")
	ErrInvalidFormat   = errors.New("invalid format")

	// State errors
	ErrInvalidState     = errors.New("invalid state")
	ErrStateTransition  = errors.New("invalid state transition")
	ErrAlreadyProcessed = errors.New("already processed")
	ErrExpired          = errors.New("expired")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Concurrency errors
	ErrConcurrentModification = errors.New("concurrent modification detected")
	ErrOptimisticLock         = errors.New("optimistic lock failure")

	// External service errors
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
	ErrRateLimited        = errors.New("rate limited")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "user", "session", "match"
	Op      string // Operation that failed, e.g., "Create", "Update"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// User domain errors
var (
	ErrUserNotFound      = NewDomainError("user", "Find", ErrNotFound, "user not found")
	ErrUserAlreadyExists = NewDomainError("user", "Create", ErrAlreadyExists, "user already exists")
	ErrEmailTaken        = NewDomainError("user", "Create", ErrAlreadyExists, "email already registered")
	ErrInvalidUserID     = NewDomainError("user", "Validate", ErrInvalidID, "invalid user ID")
	ErrInvalidEmail      = NewDomainError("user", "Validate", ErrInvalidFormat, "invalid email address")
	ErrWeakPassword      = NewDomainError("user", "Validate", ErrInvalidInput, "password too short")
	ErrWrongCredentials  = NewDomainError("user", "Authenticate", ErrUnauthorized, "wrong email or password")
)

// Skill domain errors
var (
	ErrSkillNotFound = NewDomainError("skill", "Find", ErrNotFound, "skill not found")
	ErrInvalidSkill  = NewDomainError("skill", "Validate", ErrInvalidID, "invalid skill ID")
)

// Match domain errors
var (
	ErrNoMatchCandidates = NewDomainError("match", "Find", ErrNotFound, "no match candidates")
	ErrSelfMatch         = NewDomainError("match", "Find", ErrInvalidInput, "cannot match user with self")
)

// Session domain errors
var (
	ErrSessionNotFound         = NewDomainError("session", "Find", ErrNotFound, "session not found")
	ErrSessionNotPending       = NewDomainError("session", "Confirm", ErrStateTransition, "session is not pending")
	ErrSessionNotConfirmed     = NewDomainError("session", "Complete", ErrStateTransition, "session is not confirmed")
	ErrSessionAlreadyFinal     = NewDomainError("session", "Transition", ErrInvalidState, "session already completed or cancelled")
	ErrSessionWithSelf         = NewDomainError("session", "Book", ErrInvalidInput, "cannot book a session with yourself")
	ErrSessionInPast           = NewDomainError("session", "Book", ErrInvalidInput, "session date is in the past")
	ErrSessionParticipantsOnly = NewDomainError("session", "Transition", ErrForbidden, "only participants can change a session")
)

// Review domain errors
var (
	ErrReviewNotFound      = NewDomainError("review", "Find", ErrNotFound, "review not found")
	ErrReviewNotCompleted  = NewDomainError("review", "Submit", ErrInvalidState, "only completed sessions can be reviewed")
	ErrReviewDuplicate     = NewDomainError("review", "Submit", ErrAlreadyExists, "session already reviewed by this user")
	ErrReviewSelf          = NewDomainError("review", "Submit", ErrInvalidInput, "cannot review yourself")
	ErrInvalidRatingStars  = NewDomainError("review", "Validate", ErrValueOutOfRange, "rating must be between 1 and 5")
	ErrReviewNotSessioneer = NewDomainError("review", "Submit", ErrForbidden, "only session participants can review")
)

// Conversation domain errors
var (
	ErrConversationNotFound = NewDomainError("conversation", "Find", ErrNotFound, "conversation not found")
	ErrEmptyMessage         = NewDomainError("conversation", "Send", ErrEmptyValue, "message text cannot be empty")
	ErrNotParticipant       = NewDomainError("conversation", "Send", ErrForbidden, "user is not a participant")
)

// Reputation domain errors
var (
	ErrBoardNotFound    = NewDomainError("reputation", "Board", ErrNotFound, "unknown leaderboard")
	ErrStatsUnavailable = NewDomainError("reputation", "Stats", ErrServiceUnavailable, "stats temporarily unavailable")
)

// External service errors
var (
	ErrRecommenderUnavailable     = NewDomainError("recommender", "Request", ErrServiceUnavailable, "recommender is unavailable")
	ErrRecommenderTimeout         = NewDomainError("recommender", "Request", ErrTimeout, "recommender request timeout")
	ErrRecommenderInvalidResponse = NewDomainError("recommender", "Parse", ErrInvalidFormat, "invalid response from recommender")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsStateConflict checks if the error is a state transition conflict.
func IsStateConflict(err error) bool {
	return errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrStateTransition) ||
		errors.Is(err, ErrAlreadyProcessed)
}

// IsForbidden checks if the error is an authorization error.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden) || errors.Is(err, ErrUnauthorized)
}

// IsExternalService checks if the error is from an external service.
func IsExternalService(err error) bool {
	return errors.Is(err, ErrExternalService) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrRateLimited)
}

// IsRetryable checks if the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrConcurrentModification)
}
