package recommender

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/match"
)

// errMalformedResponse marks a response that could not be normalized.
// Callers see shared.ErrRecommenderInvalidResponse.
var errMalformedResponse = errors.New("recommender: malformed model response")

// ══════════════════════════════════════════════════════════════════════════════
// RESPONSE NORMALIZATION
//
// Deployments differ in what the model returns:
//   1. {"recommendedMatches": [{...}, ...]}  - the canonical object
//   2. [{...}, ...]                          - a bare array
//   3. a JSON string containing either of the above (JSON-in-string blob)
// All three are normalized to []match.RecommendedMatch. Anything else is a
// malformed response.
// ══════════════════════════════════════════════════════════════════════════════

type recommendationEnvelope struct {
	RecommendedMatches []match.RecommendedMatch `json:"recommendedMatches"`
}

// normalizeResponse parses the model output into the canonical schema.
func normalizeResponse(raw string) ([]match.RecommendedMatch, error) {
	trimmed := stripCodeFence(strings.TrimSpace(raw))
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty content", errMalformedResponse)
	}

	if matches, ok := parseCandidate(trimmed); ok {
		return matches, nil
	}

	// JSON-in-string blob: the payload is a JSON string whose value is
	// itself a JSON document.
	var inner string
	if err := json.Unmarshal([]byte(trimmed), &inner); err == nil {
		if matches, ok := parseCandidate(strings.TrimSpace(inner)); ok {
			return matches, nil
		}
	}

	return nil, fmt.Errorf("%w: unrecognized shape", errMalformedResponse)
}

// parseCandidate tries the object and bare-array shapes.
func parseCandidate(doc string) ([]match.RecommendedMatch, bool) {
	var envelope recommendationEnvelope
	if err := json.Unmarshal([]byte(doc), &envelope); err == nil && envelope.RecommendedMatches != nil {
		return sanitize(envelope.RecommendedMatches), true
	}

	var bare []match.RecommendedMatch
	if err := json.Unmarshal([]byte(doc), &bare); err == nil {
		return sanitize(bare), true
	}

	return nil, false
}

// sanitize drops entries without a name and fills nil skill slices.
func sanitize(matches []match.RecommendedMatch) []match.RecommendedMatch {
	out := make([]match.RecommendedMatch, 0, len(matches))
	for _, m := range matches {
		if strings.TrimSpace(m.Name) == "" {
			continue
		}
		if m.SkillsOffered == nil {
			m.SkillsOffered = []string{}
		}
		out = append(out, m)
	}
	return out
}

// stripCodeFence removes a surrounding markdown code fence, if present.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
