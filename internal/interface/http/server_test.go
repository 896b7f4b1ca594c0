package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap-hub/skillswap-community-hub/internal/application/command"
	"github.com/skillswap-hub/skillswap-community-hub/internal/application/query"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/match"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/skill"
	"github.com/skillswap-hub/skillswap-community-hub/internal/infrastructure/messaging"
	"github.com/skillswap-hub/skillswap-community-hub/internal/infrastructure/persistence/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store := memory.NewSeededStore()
	users := store.Users()
	sessions := store.Sessions()
	reviews := store.Reviews()
	conversations := store.Conversations()

	bus := messaging.NewInMemoryEventBus(messaging.InMemoryEventBusConfig{AsyncMode: false})
	t.Cleanup(func() { _ = bus.Close() })

	catalog := skill.DefaultCatalog()
	finder := match.NewFinder(catalog)

	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0
	cfg.CurrentUserID = 1

	deps := Dependencies{
		SignUpHandler:            command.NewSignUpHandler(users, users.NextID, bus),
		LogInHandler:             command.NewLogInHandler(users),
		BookSessionHandler:       command.NewBookSessionHandler(users, sessions, catalog, bus),
		TransitionSessionHandler: command.NewTransitionSessionHandler(sessions, bus),
		SubmitReviewHandler:      command.NewSubmitReviewHandler(sessions, reviews, bus),
		SendMessageHandler:       command.NewSendMessageHandler(users, conversations, bus),
		UpdateProfileHandler:     command.NewUpdateProfileHandler(users, nil),
		GetMatchesHandler:        query.NewGetMatchesHandler(users, finder),
		RecommendMatchesHandler:  query.NewRecommendMatchesHandler(users, nil, catalog),
		GetLeaderboardHandler:    query.NewGetLeaderboardHandler(users, sessions, reviews, nil),
		GetDashboardHandler:      query.NewGetDashboardHandler(users, sessions, reviews, conversations, catalog),
		ListSessionsHandler:      query.NewListSessionsHandler(users, sessions, catalog),
		ListConversationsHandler: query.NewListConversationsHandler(users, conversations),
		GetMessagesHandler:       query.NewGetMessagesHandler(conversations),
	}

	return NewServer(cfg, deps)
}

func doRequest(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var resp struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Data
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestServer_GetMatchesForSeededUser(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/matches", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	matches, ok := data["matches"].([]any)
	require.True(t, ok)
	assert.NotEmpty(t, matches)
}

func TestServer_LeaderboardByName(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/leaderboard/top_teachers", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/leaderboard/no_such_board", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_BookAndConfirmSession(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/sessions", map[string]any{
		"teacher_id": 2,
		"skill_id":   "guitar",
		"date":       time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		"mode":       "online",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	data := decodeData(t, rec)
	sessionID := int(data["session_id"].(float64))
	assert.Equal(t, "pending", data["status"])

	rec = doRequest(t, srv, http.MethodPost, fmt.Sprintf("/api/v1/sessions/%d/confirm", sessionID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "confirmed", decodeData(t, rec)["status"])

	// Confirming twice conflicts with the session state.
	rec = doRequest(t, srv, http.MethodPost, fmt.Sprintf("/api/v1/sessions/%d/confirm", sessionID), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestServer_BookSessionWithSelfRejected(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/sessions", map[string]any{
		"teacher_id": 1,
		"skill_id":   "guitar",
		"date":       time.Now().Add(48 * time.Hour).Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_SendMessageAndListConversations(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/messages", map[string]any{
		"recipient_id": 3,
		"text":         "Hi, still up for the salsa lesson?",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/conversations", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	conversations, ok := data["conversations"].([]any)
	require.True(t, ok)
	assert.NotEmpty(t, conversations)
}

func TestServer_RecommendationsWithoutRecommender(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/recommendations", map[string]any{
		"skill": "Guitar",
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_SignUpAndLogIn(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/auth/signup", map[string]any{
		"name":     "Frank Ocean",
		"email":    "frank@example.com",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, srv, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"email":    "frank@example.com",
		"password": "correct-horse",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"email":    "frank@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_InvalidJSONBody(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
