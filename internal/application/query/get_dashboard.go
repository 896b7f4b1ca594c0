package query

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/conversation"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/match"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/reputation"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/review"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/session"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/skill"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/user"
	"github.com/skillswap-hub/skillswap-community-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET DASHBOARD QUERY
// Собирает главный экран участника: профиль, статистику, значки,
// ближайшие сессии и количество непрочитанных сообщений.
// ══════════════════════════════════════════════════════════════════════════════

// GetDashboardQuery содержит параметры запроса дашборда.
type GetDashboardQuery struct {
	// UserID - участник, для которого собираем дашборд.
	UserID int

	// UpcomingLimit - сколько ближайших сессий показывать (по умолчанию 3).
	UpcomingLimit int
}

// Validate проверяет корректность параметров запроса.
func (q *GetDashboardQuery) Validate() error {
	if q.UserID <= 0 {
		return errors.New("user_id must be positive")
	}
	if q.UpcomingLimit < 0 {
		return errors.New("upcoming_limit cannot be negative")
	}
	if q.UpcomingLimit == 0 {
		q.UpcomingLimit = 3
	}
	return nil
}

// ProfileDTO - DTO профиля участника.
type ProfileDTO struct {
	UserID        int      `json:"user_id"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	LocationName  string   `json:"location_name,omitempty"`
	AvatarRef     string   `json:"avatar_ref,omitempty"`
	Bio           string   `json:"bio,omitempty"`
	Points        int      `json:"points"`
	SkillsOffered []string `json:"skills_offered"`
	SkillsWanted  []string `json:"skills_wanted"`
}

// StatsDTO - DTO производной статистики.
type StatsDTO struct {
	TaughtSessions         int     `json:"taught_sessions"`
	LearnedSessions        int     `json:"learned_sessions"`
	MonthlyLearnedSessions int     `json:"monthly_learned_sessions"`
	AvgRating              float64 `json:"avg_rating"`
	ReviewCount            int     `json:"review_count"`
}

// BadgeDTO - DTO значка.
type BadgeDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpcomingSessionDTO - DTO ближайшей сессии для дашборда.
type UpcomingSessionDTO struct {
	SessionID   int    `json:"session_id"`
	PartnerID   int    `json:"partner_id"`
	PartnerName string `json:"partner_name"`
	SkillName   string `json:"skill_name"`
	Role        string `json:"role"` // "teacher" или "learner"
	Status      string `json:"status"`
	DateLabel   string `json:"date_label"`
}

// MonthlyGoalDTO - прогресс по сессиям за текущий месяц.
type MonthlyGoalDTO struct {
	Completed int `json:"completed"`
	Target    int `json:"target"`
}

// GetDashboardResult содержит результат запроса дашборда.
type GetDashboardResult struct {
	Profile          ProfileDTO           `json:"profile"`
	Stats            StatsDTO             `json:"stats"`
	Badges           []BadgeDTO           `json:"badges"`
	Upcoming         []UpcomingSessionDTO `json:"upcoming"`
	UnreadCount      int                  `json:"unread_count"`
	PotentialMatches int                  `json:"potential_matches"`
	MonthlyGoal      MonthlyGoalDTO       `json:"monthly_goal"`
	GeneratedAt      time.Time            `json:"generated_at"`
}

// GetDashboardHandler обрабатывает запросы дашборда.
// MonthlySessionGoal - цель по учебным сессиям на месяц.
const MonthlySessionGoal = 6

type GetDashboardHandler struct {
	userRepo         user.Repository
	sessionRepo      session.Repository
	reviewRepo       review.Repository
	conversationRepo conversation.Repository
	catalog          *skill.Catalog
	finder           *match.Finder
}

// NewGetDashboardHandler создаёт новый обработчик дашборда.
func NewGetDashboardHandler(
	userRepo user.Repository,
	sessionRepo session.Repository,
	reviewRepo review.Repository,
	conversationRepo conversation.Repository,
	catalog *skill.Catalog,
) *GetDashboardHandler {
	return &GetDashboardHandler{
		userRepo:         userRepo,
		sessionRepo:      sessionRepo,
		reviewRepo:       reviewRepo,
		conversationRepo: conversationRepo,
		catalog:          catalog,
		finder:           match.NewFinder(catalog),
	}
}

// Handle выполняет запрос дашборда.
func (h *GetDashboardHandler) Handle(ctx context.Context, query GetDashboardQuery) (*GetDashboardResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetDashboard", shared.ErrValidation, err.Error(), err)
	}

	userID := shared.UserID(query.UserID)

	u, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, shared.WrapError("query", "GetDashboard", shared.ErrNotFound, "user not found", err)
	}

	sessions, err := h.sessionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, shared.WrapError("query", "GetDashboard", shared.ErrServiceUnavailable, "failed to list sessions", err)
	}

	received, err := h.reviewRepo.ListByReviewee(ctx, userID)
	if err != nil {
		return nil, shared.WrapError("query", "GetDashboard", shared.ErrServiceUnavailable, "failed to list reviews", err)
	}

	month := shared.MonthOf(timeutil.Now())
	stats := reputation.ComputeStats(userID, sessions, received, month)

	badges := reputation.EvaluateBadges(reputation.BadgeInput{
		User:            u,
		Stats:           stats,
		ReceivedReviews: received,
	})

	upcoming, err := h.buildUpcoming(ctx, u, sessions, query.UpcomingLimit)
	if err != nil {
		return nil, err
	}

	// Непрочитанные не критичны для дашборда - при ошибке показываем 0.
	unread := 0
	if h.conversationRepo != nil {
		if n, err := h.conversationRepo.CountUnread(ctx, userID); err == nil {
			unread = n
		}
	}

	// Количество потенциальных партнёров; при ошибке показываем 0.
	potential := 0
	if community, err := h.userRepo.List(ctx); err == nil {
		potential = len(h.finder.Find(u, community))
	}

	return &GetDashboardResult{
		Profile:          toProfileDTO(u),
		Stats:            toStatsDTO(stats),
		Badges:           toBadgeDTOs(badges),
		Upcoming:         upcoming,
		UnreadCount:      unread,
		PotentialMatches: potential,
		MonthlyGoal: MonthlyGoalDTO{
			Completed: stats.MonthlyLearnedSessions,
			Target:    MonthlySessionGoal,
		},
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// buildUpcoming отбирает ближайшие незавершённые сессии участника.
func (h *GetDashboardHandler) buildUpcoming(
	ctx context.Context,
	u *user.User,
	sessions []*session.Session,
	limit int,
) ([]UpcomingSessionDTO, error) {
	now := timeutil.Now()

	candidates := make([]*session.Session, 0)
	for _, s := range sessions {
		if s.Status.IsFinal() || s.Date.Before(now) {
			continue
		}
		candidates = append(candidates, s)
	}

	// Ближайшие первыми.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Date.Before(candidates[j].Date)
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	dtos := make([]UpcomingSessionDTO, 0, len(candidates))
	for _, s := range candidates {
		partnerID := s.PartnerOf(u.ID)
		partnerName := ""
		if partner, err := h.userRepo.GetByID(ctx, partnerID); err == nil {
			partnerName = partner.Name
		}

		role := "learner"
		if s.TeacherID == u.ID {
			role = "teacher"
		}

		dtos = append(dtos, UpcomingSessionDTO{
			SessionID:   s.ID,
			PartnerID:   partnerID.Int(),
			PartnerName: partnerName,
			SkillName:   h.catalog.NameOf(s.SkillID),
			Role:        role,
			Status:      string(s.Status),
			DateLabel:   timeutil.FormatSessionSlotStr(s.Date),
		})
	}

	return dtos, nil
}

// toProfileDTO конвертирует участника в DTO профиля.
func toProfileDTO(u *user.User) ProfileDTO {
	return ProfileDTO{
		UserID:        u.ID.Int(),
		Name:          u.Name,
		Email:         u.Email.String(),
		LocationName:  u.Location.Name,
		AvatarRef:     u.AvatarRef,
		Bio:           u.Bio,
		Points:        u.Points.Int(),
		SkillsOffered: skillIDsToStrings(u.SkillsOffered),
		SkillsWanted:  skillIDsToStrings(u.SkillsWanted),
	}
}

// toStatsDTO конвертирует статистику в DTO.
func toStatsDTO(s reputation.UserStats) StatsDTO {
	return StatsDTO{
		TaughtSessions:         s.TaughtSessions,
		LearnedSessions:        s.LearnedSessions,
		MonthlyLearnedSessions: s.MonthlyLearnedSessions,
		AvgRating:              s.AvgRating,
		ReviewCount:            s.ReviewCount,
	}
}

// toBadgeDTOs разворачивает ID значков в DTO по каталогу.
func toBadgeDTOs(badgeIDs []string) []BadgeDTO {
	dtos := make([]BadgeDTO, 0, len(badgeIDs))
	for _, id := range badgeIDs {
		spec, ok := reputation.FindBadge(id)
		if !ok {
			continue
		}
		dtos = append(dtos, BadgeDTO{
			ID:          spec.ID,
			Title:       spec.Title,
			Description: spec.Description,
		})
	}
	return dtos
}

func skillIDsToStrings(list user.SkillList) []string {
	out := make([]string, 0, len(list))
	for _, id := range list {
		out = append(out, id.String())
	}
	return out
}
