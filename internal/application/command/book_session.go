package command

import (
	"context"
	"errors"
	"time"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/session"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/skill"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/user"
	"github.com/skillswap-hub/skillswap-community-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// BOOK SESSION COMMAND
// Бронирует учебную сессию: ученик выбирает преподавателя, навык
// и время. Сессия создаётся в статусе pending.
// ══════════════════════════════════════════════════════════════════════════════

// BookSessionCommand содержит данные бронирования.
type BookSessionCommand struct {
	// LearnerID - кто бронирует (ученик).
	LearnerID int

	// TeacherID - у кого учиться.
	TeacherID int

	// SkillID - навык сессии.
	SkillID string

	// Date - запланированное время.
	Date time.Time

	// Mode - формат: "in-person" или "online" (пустая строка = online).
	Mode string
}

// Validate проверяет корректность команды.
func (c BookSessionCommand) Validate() error {
	if c.LearnerID <= 0 {
		return errors.New("book_session: learner_id must be positive")
	}
	if c.TeacherID <= 0 {
		return errors.New("book_session: teacher_id must be positive")
	}
	if c.SkillID == "" {
		return errors.New("book_session: skill_id is required")
	}
	if c.Date.IsZero() {
		return errors.New("book_session: date is required")
	}
	return nil
}

// BookSessionResult содержит результат бронирования.
type BookSessionResult struct {
	// SessionID - ID созданной сессии.
	SessionID int

	// Status - статус созданной сессии (всегда pending).
	Status string

	// Events - сгенерированные доменные события.
	Events []shared.Event

	// CreatedAt - время бронирования.
	CreatedAt time.Time
}

// BookSessionHandler обрабатывает команду бронирования.
type BookSessionHandler struct {
	userRepo       user.Repository
	sessionRepo    session.Repository
	catalog        *skill.Catalog
	eventPublisher shared.EventPublisher
}

// NewBookSessionHandler создаёт новый обработчик бронирования.
func NewBookSessionHandler(
	userRepo user.Repository,
	sessionRepo session.Repository,
	catalog *skill.Catalog,
	eventPublisher shared.EventPublisher,
) *BookSessionHandler {
	return &BookSessionHandler{
		userRepo:       userRepo,
		sessionRepo:    sessionRepo,
		catalog:        catalog,
		eventPublisher: eventPublisher,
	}
}

// Handle выполняет бронирование сессии.
func (h *BookSessionHandler) Handle(ctx context.Context, cmd BookSessionCommand) (*BookSessionResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("command", "BookSession", shared.ErrValidation, err.Error(), err)
	}

	if cmd.LearnerID == cmd.TeacherID {
		return nil, shared.ErrSessionWithSelf
	}

	if cmd.Date.Before(timeutil.Now()) {
		return nil, shared.ErrSessionInPast
	}

	skillID, err := shared.NewSkillID(cmd.SkillID)
	if err != nil {
		return nil, err
	}
	if !h.catalog.Contains(skillID) {
		return nil, shared.ErrSkillNotFound
	}

	teacher, err := h.userRepo.GetByID(ctx, shared.UserID(cmd.TeacherID))
	if err != nil {
		return nil, shared.WrapError("command", "BookSession", shared.ErrNotFound, "teacher not found", err)
	}
	if !teacher.Offers(skillID) {
		return nil, shared.NewDomainError("command", "BookSession", shared.ErrInvalidInput, "teacher does not offer this skill")
	}

	if ok, err := h.userRepo.Exists(ctx, shared.UserID(cmd.LearnerID)); err != nil || !ok {
		return nil, shared.ErrUserNotFound
	}

	id, err := h.sessionRepo.NextID(ctx)
	if err != nil {
		return nil, shared.WrapError("command", "BookSession", shared.ErrServiceUnavailable, "failed to allocate id", err)
	}

	s, err := session.NewSession(session.NewSessionParams{
		ID:        id,
		TeacherID: shared.UserID(cmd.TeacherID),
		LearnerID: shared.UserID(cmd.LearnerID),
		SkillID:   skillID,
		Date:      cmd.Date,
		Mode:      session.Mode(cmd.Mode),
	})
	if err != nil {
		return nil, err
	}

	if err := h.sessionRepo.Create(ctx, s); err != nil {
		return nil, shared.WrapError("command", "BookSession", shared.ErrServiceUnavailable, "failed to save session", err)
	}

	event := shared.NewSessionBookedEvent(s.ID, cmd.TeacherID, cmd.LearnerID, skillID.String(), s.Date)
	_ = h.eventPublisher.Publish(event)

	return &BookSessionResult{
		SessionID: s.ID,
		Status:    string(s.Status),
		Events:    []shared.Event{event},
		CreatedAt: s.CreatedAt,
	}, nil
}
