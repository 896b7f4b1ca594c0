// Package session содержит доменную модель учебной сессии между двумя участниками.
package session

import (
	"fmt"
	"time"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Status определяет состояние сессии в жизненном цикле
// pending -> confirmed -> completed | cancelled.
type Status string

const (
	// StatusPending - сессия забронирована, ждёт подтверждения преподавателя.
	StatusPending Status = "pending"
	// StatusConfirmed - преподаватель подтвердил сессию.
	StatusConfirmed Status = "confirmed"
	// StatusCompleted - сессия состоялась. Только completed-сессии
	// участвуют в статистике и рейтингах.
	StatusCompleted Status = "completed"
	// StatusCancelled - сессия отменена одной из сторон.
	StatusCancelled Status = "cancelled"
)

// IsValid проверяет корректность статуса.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsFinal возвращает true, если статус финальный.
func (s Status) IsFinal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo проверяет допустимость перехода.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}

// Mode определяет формат проведения сессии.
type Mode string

const (
	// ModeInPerson - очная встреча.
	ModeInPerson Mode = "in-person"
	// ModeOnline - видеозвонок.
	ModeOnline Mode = "online"
)

// IsValid проверяет корректность формата.
func (m Mode) IsValid() bool {
	return m == ModeInPerson || m == ModeOnline
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: SESSION
// ══════════════════════════════════════════════════════════════════════════════

// Session - учебная сессия: один преподаватель, один ученик, один навык.
type Session struct {
	// ID - уникальный идентификатор сессии.
	ID int

	// TeacherID - кто преподаёт.
	TeacherID shared.UserID

	// LearnerID - кто учится.
	LearnerID shared.UserID

	// SkillID - какой навык преподаётся.
	SkillID shared.SkillID

	// Date - запланированное время сессии.
	Date time.Time

	// Status - текущее состояние.
	Status Status

	// Mode - формат проведения.
	Mode Mode

	// CreatedAt - время бронирования.
	CreatedAt time.Time

	// UpdatedAt - время последнего изменения.
	UpdatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewSessionParams содержит параметры для бронирования сессии.
type NewSessionParams struct {
	ID        int
	TeacherID shared.UserID
	LearnerID shared.UserID
	SkillID   shared.SkillID
	Date      time.Time
	Mode      Mode
}

// NewSession создаёт новую сессию в статусе pending с валидацией.
func NewSession(params NewSessionParams) (*Session, error) {
	if params.ID <= 0 {
		return nil, shared.NewDomainError("session", "Book", shared.ErrInvalidID, "session id must be positive")
	}

	if !params.TeacherID.IsValid() || !params.LearnerID.IsValid() {
		return nil, shared.ErrInvalidUserID
	}

	if params.TeacherID == params.LearnerID {
		return nil, shared.ErrSessionWithSelf
	}

	if params.SkillID.IsEmpty() {
		return nil, shared.ErrInvalidSkill
	}

	if params.Date.IsZero() {
		return nil, shared.NewDomainError("session", "Book", shared.ErrInvalidInput, "session date is required")
	}

	mode := params.Mode
	if mode == "" {
		mode = ModeOnline
	}
	if !mode.IsValid() {
		return nil, shared.NewDomainError("session", "Book", shared.ErrInvalidInput, "invalid session mode")
	}

	now := time.Now().UTC()

	return &Session{
		ID:        params.ID,
		TeacherID: params.TeacherID,
		LearnerID: params.LearnerID,
		SkillID:   params.SkillID,
		Date:      params.Date,
		Status:    StatusPending,
		Mode:      mode,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS (Lifecycle)
// ══════════════════════════════════════════════════════════════════════════════

// Confirm подтверждает сессию.
func (s *Session) Confirm() error {
	if s.Status.IsFinal() {
		return shared.ErrSessionAlreadyFinal
	}
	if !s.Status.CanTransitionTo(StatusConfirmed) {
		return shared.ErrSessionNotPending
	}

	s.Status = StatusConfirmed
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Complete помечает сессию как состоявшуюся.
func (s *Session) Complete() error {
	if s.Status.IsFinal() {
		return shared.ErrSessionAlreadyFinal
	}
	if !s.Status.CanTransitionTo(StatusCompleted) {
		return shared.ErrSessionNotConfirmed
	}

	s.Status = StatusCompleted
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Cancel отменяет сессию.
func (s *Session) Cancel() error {
	if s.Status.IsFinal() {
		return shared.ErrSessionAlreadyFinal
	}

	s.Status = StatusCancelled
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// IsCompleted возвращает true для состоявшейся сессии.
func (s *Session) IsCompleted() bool {
	return s.Status == StatusCompleted
}

// Involves проверяет, участвует ли пользователь в сессии.
func (s *Session) Involves(id shared.UserID) bool {
	return s.TeacherID == id || s.LearnerID == id
}

// PartnerOf возвращает ID второго участника сессии.
func (s *Session) PartnerOf(id shared.UserID) shared.UserID {
	if s.TeacherID == id {
		return s.LearnerID
	}
	return s.TeacherID
}

// String возвращает строковое представление сессии для логирования.
func (s *Session) String() string {
	return fmt.Sprintf(
		"Session{ID: %d, Teacher: %d, Learner: %d, Skill: %s, Status: %s}",
		s.ID, s.TeacherID, s.LearnerID, s.SkillID, s.Status,
	)
}

// Clone создаёт копию сессии.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}
