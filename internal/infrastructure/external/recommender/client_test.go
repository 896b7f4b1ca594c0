package recommender

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/match"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := DefaultClientConfig("test-key")
	cfg.BaseURL = server.URL + "/v1"
	cfg.RequestTimeout = 2 * time.Second
	return NewClient(cfg)
}

func completionWith(t *testing.T, content string) http.HandlerFunc {
	t.Helper()

	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]any{
				{
					"index":         0,
					"finish_reason": "stop",
					"message": map[string]any{
						"role":    "assistant",
						"content": content,
					},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}
}

func sampleProfiles() []match.CommunityProfile {
	return []match.CommunityProfile{
		{
			Name:          "Bob Williams",
			Location:      "Oakland, CA",
			SkillsOffered: []string{"guitar", "photography"},
			SkillsWanted:  []string{"coding", "spanish"},
		},
	}
}

func TestClient_RecommendParsesCanonicalResponse(t *testing.T) {
	content := `{"recommendedMatches": [{"name": "Bob Williams", "location": "Oakland, CA", "skillsOffered": ["guitar"], "rationale": "Bob teaches guitar."}]}`
	client := newTestClient(t, completionWith(t, content))

	matches, err := client.Recommend(context.Background(), "guitar", sampleProfiles())
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Bob Williams", matches[0].Name)
	assert.Equal(t, "Bob teaches guitar.", matches[0].Rationale)
}

func TestClient_RecommendCollapsesTransportFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusInternalServerError)
	})

	_, err := client.Recommend(context.Background(), "guitar", sampleProfiles())
	assert.ErrorIs(t, err, shared.ErrServiceUnavailable)
}

func TestClient_RecommendRejectsProseResponse(t *testing.T) {
	client := newTestClient(t, completionWith(t, "Sorry, I cannot help with that."))

	_, err := client.Recommend(context.Background(), "guitar", sampleProfiles())
	assert.ErrorIs(t, err, shared.ErrInvalidFormat)
}
