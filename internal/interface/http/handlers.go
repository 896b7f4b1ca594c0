package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/skillswap-hub/skillswap-community-hub/internal/application/command"
	"github.com/skillswap-hub/skillswap-community-hub/internal/application/query"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot returns basic service information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSONError(w, http.StatusNotFound, "not_found", "Endpoint not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service": "skillswap-community-hub",
		"status":  "running",
		"uptime":  s.Uptime().Round(time.Second).String(),
	})
}

// handleHealth returns the aggregated health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.deps.HealthChecker.Check(r.Context())

	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

// handleReady returns readiness for traffic.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := s.deps.HealthChecker.Check(r.Context())

	if !status.Ready {
		writeJSONError(w, http.StatusServiceUnavailable, "not_ready", status.Message)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive is a trivial liveness probe.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTH HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type signUpRequest struct {
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Password      string   `json:"password"`
	LocationName  string   `json:"location_name"`
	SkillsOffered []string `json:"skills_offered"`
	SkillsWanted  []string `json:"skills_wanted"`
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.SignUpHandler.Handle(r.Context(), command.SignUpCommand{
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		LocationName:  req.LocationName,
		SkillsOffered: req.SkillsOffered,
		SkillsWanted:  req.SkillsWanted,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"user_id":    result.UserID,
		"created_at": result.CreatedAt,
	})
}

type logInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogIn(w http.ResponseWriter, r *http.Request) {
	var req logInRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.LogInHandler.Handle(r.Context(), command.LogInCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_id": result.UserID,
		"name":    result.Name,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// MATCHING HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleGetMatches(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetMatchesHandler.Handle(r.Context(), query.GetMatchesQuery{
		UserID: s.actingUserID(r),
		Limit:  getQueryParamInt(r, "limit", 0),
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type recommendRequest struct {
	Skill string `json:"skill"`
}

func (s *Server) handleRecommendMatches(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.RecommendMatchesHandler.Handle(r.Context(), query.RecommendMatchesQuery{
		UserID: s.actingUserID(r),
		Skill:  req.Skill,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD & DASHBOARD HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	board := r.URL.Query().Get("board")
	if board == "" {
		board = "global_points"
	}
	s.serveLeaderboard(w, r, board)
}

func (s *Server) handleGetLeaderboardByName(w http.ResponseWriter, r *http.Request) {
	s.serveLeaderboard(w, r, r.PathValue("board"))
}

func (s *Server) serveLeaderboard(w http.ResponseWriter, r *http.Request, board string) {
	result, err := s.deps.GetLeaderboardHandler.Handle(r.Context(), query.GetLeaderboardQuery{
		Board: board,
		Limit: getQueryParamInt(r, "limit", 0),
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetDashboardHandler.Handle(r.Context(), query.GetDashboardQuery{
		UserID:        s.actingUserID(r),
		UpcomingLimit: getQueryParamInt(r, "upcoming_limit", 0),
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// SESSION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ListSessionsHandler.Handle(r.Context(), query.ListSessionsQuery{
		UserID: s.actingUserID(r),
		Status: r.URL.Query().Get("status"),
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type bookSessionRequest struct {
	TeacherID int       `json:"teacher_id"`
	SkillID   string    `json:"skill_id"`
	Date      time.Time `json:"date"`
	Mode      string    `json:"mode"`
}

func (s *Server) handleBookSession(w http.ResponseWriter, r *http.Request) {
	var req bookSessionRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.BookSessionHandler.Handle(r.Context(), command.BookSessionCommand{
		LearnerID: s.actingUserID(r),
		TeacherID: req.TeacherID,
		SkillID:   req.SkillID,
		Date:      req.Date,
		Mode:      req.Mode,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"session_id": result.SessionID,
		"status":     result.Status,
		"created_at": result.CreatedAt,
	})
}

type cancelSessionRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) handleConfirmSession(w http.ResponseWriter, r *http.Request) {
	s.transitionSession(w, r, command.ActionConfirm, "")
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	s.transitionSession(w, r, command.ActionComplete, "")
}

func (s *Server) handleCancelSession(w http.ResponseWriter, r *http.Request) {
	var req cancelSessionRequest
	if r.ContentLength > 0 {
		if !s.decodeBody(w, r, &req) {
			return
		}
	}
	s.transitionSession(w, r, command.ActionCancel, req.Reason)
}

func (s *Server) transitionSession(w http.ResponseWriter, r *http.Request, action command.TransitionAction, reason string) {
	sessionID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := s.deps.TransitionSessionHandler.Handle(r.Context(), command.TransitionSessionCommand{
		SessionID: sessionID,
		ActorID:   s.actingUserID(r),
		Action:    action,
		Reason:    reason,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id":      result.SessionID,
		"previous_status": result.PreviousStatus,
		"status":          result.Status,
		"updated_at":      result.UpdatedAt,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// REVIEW HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type submitReviewRequest struct {
	SessionID int    `json:"session_id"`
	Stars     int    `json:"stars"`
	Feedback  string `json:"feedback"`
}

func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	var req submitReviewRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.SubmitReviewHandler.Handle(r.Context(), command.SubmitReviewCommand{
		SessionID:  req.SessionID,
		ReviewerID: s.actingUserID(r),
		Stars:      req.Stars,
		Feedback:   req.Feedback,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"review_id":   result.ReviewID,
		"reviewee_id": result.RevieweeID,
		"created_at":  result.CreatedAt,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// MESSAGING & PROFILE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ListConversationsHandler.Handle(r.Context(), query.ListConversationsQuery{
		UserID: s.actingUserID(r),
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := s.deps.GetMessagesHandler.Handle(r.Context(), query.GetMessagesQuery{
		ConversationID: conversationID,
		ViewerID:       s.actingUserID(r),
		MarkRead:       r.URL.Query().Get("mark_read") != "false",
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type sendMessageRequest struct {
	RecipientID int    `json:"recipient_id"`
	Text        string `json:"text"`
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.SendMessageHandler.Handle(r.Context(), command.SendMessageCommand{
		SenderID:    s.actingUserID(r),
		RecipientID: req.RecipientID,
		Text:        req.Text,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"conversation_id":     result.ConversationID,
		"message_id":          result.MessageID,
		"is_new_conversation": result.IsNewConversation,
	})
}

type updateProfileRequest struct {
	Name          *string  `json:"name"`
	Bio           *string  `json:"bio"`
	LocationName  *string  `json:"location_name"`
	AvatarRef     *string  `json:"avatar_ref"`
	SkillsOffered []string `json:"skills_offered"`
	SkillsWanted  []string `json:"skills_wanted"`
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.UpdateProfileHandler.Handle(r.Context(), command.UpdateProfileCommand{
		UserID:        s.actingUserID(r),
		Name:          req.Name,
		Bio:           req.Bio,
		LocationName:  req.LocationName,
		AvatarRef:     req.AvatarRef,
		SkillsOffered: req.SkillsOffered,
		SkillsWanted:  req.SkillsWanted,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_id":    result.UserID,
		"updated_at": result.UpdatedAt,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// actingUserID resolves the identity acting in this request. There is no
// real authentication yet: an explicit X-User-ID header wins, otherwise
// the configured stub identity acts.
func (s *Server) actingUserID(r *http.Request) int {
	if header := r.Header.Get("X-User-ID"); header != "" {
		if id, err := strconv.Atoi(header); err == nil && id > 0 {
			return id
		}
	}
	return s.config.CurrentUserID
}

// decodeBody decodes a JSON request body, writing a 400 on failure.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	defer func() { _, _ = io.Copy(io.Discard, r.Body) }()

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Request body is not valid JSON")
		return false
	}
	return true
}

// pathID parses a positive integer path segment.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(r.PathValue(name))
	if err != nil || id <= 0 {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Path ID must be a positive integer")
		return 0, false
	}
	return id, true
}

// writeDomainError maps domain error kinds to HTTP status codes.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case shared.IsAlreadyExists(err):
		writeJSONError(w, http.StatusConflict, "already_exists", err.Error())
	case shared.IsStateConflict(err):
		writeJSONError(w, http.StatusConflict, "state_conflict", err.Error())
	case errors.Is(err, shared.ErrUnauthorized):
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case shared.IsForbidden(err):
		writeJSONError(w, http.StatusForbidden, "forbidden", err.Error())
	case shared.IsValidation(err):
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, shared.ErrTimeout):
		writeJSONError(w, http.StatusGatewayTimeout, "timeout", err.Error())
	case errors.Is(err, shared.ErrRateLimited):
		writeJSONError(w, http.StatusTooManyRequests, "rate_limited", err.Error())
	case errors.Is(err, shared.ErrServiceUnavailable), errors.Is(err, shared.ErrExternalService):
		writeJSONError(w, http.StatusServiceUnavailable, "service_unavailable", err.Error())
	default:
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
