package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/session"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/skill"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/user"
	"github.com/skillswap-hub/skillswap-community-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST SESSIONS QUERY
// Возвращает сессии участника с именами партнёров и навыков.
// ══════════════════════════════════════════════════════════════════════════════

// ListSessionsQuery содержит параметры запроса сессий.
type ListSessionsQuery struct {
	// UserID - участник, чьи сессии запрашиваются.
	UserID int

	// Status - фильтр по статусу (пустая строка = все).
	Status string
}

// Validate проверяет корректность параметров запроса.
func (q *ListSessionsQuery) Validate() error {
	if q.UserID <= 0 {
		return errors.New("user_id must be positive")
	}
	if q.Status != "" && !session.Status(q.Status).IsValid() {
		return fmt.Errorf("unknown status: %s", q.Status)
	}
	return nil
}

// SessionDTO - DTO одной сессии.
type SessionDTO struct {
	SessionID   int    `json:"session_id"`
	TeacherID   int    `json:"teacher_id"`
	LearnerID   int    `json:"learner_id"`
	PartnerID   int    `json:"partner_id"`
	PartnerName string `json:"partner_name"`
	SkillID     string `json:"skill_id"`
	SkillName   string `json:"skill_name"`
	Role        string `json:"role"` // "teacher" или "learner"
	Status      string `json:"status"`
	Mode        string `json:"mode"`
	DateLabel   string `json:"date_label"`
	Date        string `json:"date"`
}

// ListSessionsResult содержит результат запроса сессий.
type ListSessionsResult struct {
	Sessions    []SessionDTO `json:"sessions"`
	TotalCount  int          `json:"total_count"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// ListSessionsHandler обрабатывает запросы списка сессий.
type ListSessionsHandler struct {
	userRepo    user.Repository
	sessionRepo session.Repository
	catalog     *skill.Catalog
}

// NewListSessionsHandler создаёт новый обработчик списка сессий.
func NewListSessionsHandler(userRepo user.Repository, sessionRepo session.Repository, catalog *skill.Catalog) *ListSessionsHandler {
	return &ListSessionsHandler{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		catalog:     catalog,
	}
}

// Handle выполняет запрос списка сессий.
func (h *ListSessionsHandler) Handle(ctx context.Context, query ListSessionsQuery) (*ListSessionsResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "ListSessions", shared.ErrValidation, err.Error(), err)
	}

	userID := shared.UserID(query.UserID)

	if ok, err := h.userRepo.Exists(ctx, userID); err != nil || !ok {
		return nil, shared.ErrUserNotFound
	}

	sessions, err := h.sessionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, shared.WrapError("query", "ListSessions", shared.ErrServiceUnavailable, "failed to list sessions", err)
	}

	dtos := make([]SessionDTO, 0, len(sessions))
	for _, s := range sessions {
		if query.Status != "" && s.Status != session.Status(query.Status) {
			continue
		}
		dtos = append(dtos, h.toDTO(ctx, s, userID))
	}

	return &ListSessionsResult{
		Sessions:    dtos,
		TotalCount:  len(dtos),
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// toDTO конвертирует сессию в DTO с точки зрения участника.
func (h *ListSessionsHandler) toDTO(ctx context.Context, s *session.Session, viewer shared.UserID) SessionDTO {
	partnerID := s.PartnerOf(viewer)
	partnerName := ""
	if partner, err := h.userRepo.GetByID(ctx, partnerID); err == nil {
		partnerName = partner.Name
	}

	role := "learner"
	if s.TeacherID == viewer {
		role = "teacher"
	}

	return SessionDTO{
		SessionID:   s.ID,
		TeacherID:   s.TeacherID.Int(),
		LearnerID:   s.LearnerID.Int(),
		PartnerID:   partnerID.Int(),
		PartnerName: partnerName,
		SkillID:     s.SkillID.String(),
		SkillName:   h.catalog.NameOf(s.SkillID),
		Role:        role,
		Status:      string(s.Status),
		Mode:        string(s.Mode),
		DateLabel:   timeutil.FormatSessionSlotStr(s.Date),
		Date:        s.Date.UTC().Format(time.RFC3339),
	}
}
