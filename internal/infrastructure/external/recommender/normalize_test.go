package recommender

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeResponse_CanonicalObject(t *testing.T) {
	raw := `{"recommendedMatches": [
		{"name": "Bob Williams", "location": "Oakland, CA", "skillsOffered": ["guitar", "photography"], "rationale": "Bob teaches guitar and is a patient mentor."}
	]}`

	matches, err := normalizeResponse(raw)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Bob Williams", matches[0].Name)
	assert.Equal(t, []string{"guitar", "photography"}, matches[0].SkillsOffered)
}

func TestNormalizeResponse_BareArray(t *testing.T) {
	raw := `[{"name": "Ethan Hunt", "location": "Palo Alto, CA", "skillsOffered": ["photography"], "rationale": "Great photographer."}]`

	matches, err := normalizeResponse(raw)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Ethan Hunt", matches[0].Name)
}

func TestNormalizeResponse_JSONInStringBlob(t *testing.T) {
	raw := `"{\"recommendedMatches\": [{\"name\": \"Diana Prince\", \"location\": \"San Mateo, CA\", \"skillsOffered\": [\"yoga\"], \"rationale\": \"Certified instructor.\"}]}"`

	matches, err := normalizeResponse(raw)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Diana Prince", matches[0].Name)
}

func TestNormalizeResponse_MarkdownFence(t *testing.T) {
	raw := "```json\n{\"recommendedMatches\": [{\"name\": \"Bob Williams\", \"location\": \"Oakland, CA\", \"skillsOffered\": [\"guitar\"], \"rationale\": \"ok\"}]}\n```"

	matches, err := normalizeResponse(raw)
	require.NoError(t, err)
	require.Len(t, matches, 1)
}

func TestNormalizeResponse_EmptyMatchListIsValid(t *testing.T) {
	matches, err := normalizeResponse(`{"recommendedMatches": []}`)
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.NotNil(t, matches)
}

func TestNormalizeResponse_DropsNamelessEntries(t *testing.T) {
	raw := `{"recommendedMatches": [
		{"name": "", "location": "Nowhere", "skillsOffered": ["x"], "rationale": "ghost"},
		{"name": "Bob Williams", "location": "Oakland, CA", "rationale": "ok"}
	]}`

	matches, err := normalizeResponse(raw)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Bob Williams", matches[0].Name)
	assert.NotNil(t, matches[0].SkillsOffered)
}

func TestNormalizeResponse_MalformedShapes(t *testing.T) {
	cases := map[string]string{
		"empty":         "",
		"prose":         "I could not find any matches, sorry!",
		"wrong object":  `{"matches": 42}`,
		"number":        "17",
		"string prose":  `"no matches today"`,
		"truncated doc": `{"recommendedMatches": [{"name":`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := normalizeResponse(raw)
			assert.ErrorIs(t, err, errMalformedResponse)
		})
	}
}
