package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/session"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// TRANSITION SESSION COMMAND
// Переводит сессию по жизненному циклу pending -> confirmed ->
// completed | cancelled. Менять сессию могут только её участники.
// Завершение публикует событие, которое начисляет очки преподавателю.
// ══════════════════════════════════════════════════════════════════════════════

// TransitionAction - запрошенный переход.
type TransitionAction string

const (
	// ActionConfirm - подтвердить сессию (pending -> confirmed).
	ActionConfirm TransitionAction = "confirm"

	// ActionComplete - завершить сессию (confirmed -> completed).
	ActionComplete TransitionAction = "complete"

	// ActionCancel - отменить сессию (из любого нефинального статуса).
	ActionCancel TransitionAction = "cancel"
)

// IsValid проверяет корректность действия.
func (a TransitionAction) IsValid() bool {
	return a == ActionConfirm || a == ActionComplete || a == ActionCancel
}

// TransitionSessionCommand содержит данные перехода.
type TransitionSessionCommand struct {
	// SessionID - сессия.
	SessionID int

	// ActorID - участник, выполняющий действие.
	ActorID int

	// Action - запрошенный переход.
	Action TransitionAction

	// Reason - причина отмены (опционально, только для cancel).
	Reason string
}

// Validate проверяет корректность команды.
func (c TransitionSessionCommand) Validate() error {
	if c.SessionID <= 0 {
		return errors.New("transition_session: session_id must be positive")
	}
	if c.ActorID <= 0 {
		return errors.New("transition_session: actor_id must be positive")
	}
	if !c.Action.IsValid() {
		return fmt.Errorf("transition_session: unknown action: %s", c.Action)
	}
	return nil
}

// TransitionSessionResult содержит результат перехода.
type TransitionSessionResult struct {
	// SessionID - сессия.
	SessionID int

	// PreviousStatus - статус до перехода.
	PreviousStatus string

	// Status - статус после перехода.
	Status string

	// Events - сгенерированные доменные события.
	Events []shared.Event

	// UpdatedAt - время перехода.
	UpdatedAt time.Time
}

// TransitionSessionHandler обрабатывает команду перехода сессии.
type TransitionSessionHandler struct {
	sessionRepo    session.Repository
	eventPublisher shared.EventPublisher
}

// NewTransitionSessionHandler создаёт новый обработчик перехода.
func NewTransitionSessionHandler(sessionRepo session.Repository, eventPublisher shared.EventPublisher) *TransitionSessionHandler {
	return &TransitionSessionHandler{
		sessionRepo:    sessionRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle выполняет переход сессии.
func (h *TransitionSessionHandler) Handle(ctx context.Context, cmd TransitionSessionCommand) (*TransitionSessionResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("command", "TransitionSession", shared.ErrValidation, err.Error(), err)
	}

	s, err := h.sessionRepo.GetByID(ctx, cmd.SessionID)
	if err != nil {
		return nil, shared.ErrSessionNotFound
	}

	actor := shared.UserID(cmd.ActorID)
	if !s.Involves(actor) {
		return nil, shared.ErrSessionParticipantsOnly
	}

	previous := s.Status

	switch cmd.Action {
	case ActionConfirm:
		err = s.Confirm()
	case ActionComplete:
		err = s.Complete()
	case ActionCancel:
		err = s.Cancel()
	}
	if err != nil {
		return nil, err
	}

	if err := h.sessionRepo.Update(ctx, s); err != nil {
		return nil, shared.WrapError("command", "TransitionSession", shared.ErrServiceUnavailable, "failed to save session", err)
	}

	events := h.publishEvents(cmd, s)

	return &TransitionSessionResult{
		SessionID:      s.ID,
		PreviousStatus: string(previous),
		Status:         string(s.Status),
		Events:         events,
		UpdatedAt:      s.UpdatedAt,
	}, nil
}

// publishEvents публикует события по результату перехода.
func (h *TransitionSessionHandler) publishEvents(cmd TransitionSessionCommand, s *session.Session) []shared.Event {
	events := make([]shared.Event, 0, 1)

	switch cmd.Action {
	case ActionComplete:
		event := shared.NewSessionCompletedEvent(
			s.ID,
			s.TeacherID.Int(),
			s.LearnerID.Int(),
			s.SkillID.String(),
			s.Date,
		)
		events = append(events, event)
		_ = h.eventPublisher.Publish(event)
	case ActionCancel:
		event := shared.NewSessionCancelledEvent(s.ID, cmd.ActorID, cmd.Reason)
		events = append(events, event)
		_ = h.eventPublisher.Publish(event)
	}

	return events
}
