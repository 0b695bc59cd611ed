package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON_Bare(t *testing.T) {
	raw, err := ExtractJSON(`{"verdict": "YES"}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"verdict": "YES"}`, string(raw))
}

func TestExtractJSON_Fenced(t *testing.T) {
	out := "Here is my verdict:\n```json\n{\"verdict\": \"NO\", \"confidence\": 0.8}\n```\nHope that helps."
	raw, err := ExtractJSON(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"verdict": "NO", "confidence": 0.8}`, string(raw))
}

func TestExtractJSON_FenceWithoutLanguage(t *testing.T) {
	out := "```\n{\"a\": 1}\n```"
	raw, err := ExtractJSON(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 1}`, string(raw))
}

func TestExtractJSON_SurroundingNoise(t *testing.T) {
	out := "[INFO] starting up\nmodel says: {\"scores\": {\"Reviewer A\": {\"depth\": 7}}} \ndone."
	raw, err := ExtractJSON(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"scores": {"Reviewer A": {"depth": 7}}}`, string(raw))
}

func TestExtractJSON_Array(t *testing.T) {
	raw, err := ExtractJSON("result: [1, 2, 3]")
	require.NoError(t, err)
	assert.JSONEq(t, `[1, 2, 3]`, string(raw))
}

func TestExtractJSON_NestedBraces(t *testing.T) {
	out := `{"outer": {"inner": "}"}}`
	raw, err := ExtractJSON(out)
	require.NoError(t, err)
	assert.JSONEq(t, out, string(raw))
}

func TestExtractJSON_NoPayload(t *testing.T) {
	for _, out := range []string{"", "   ", "no json here", "{broken", "{\"unterminated\": "} {
		_, err := ExtractJSON(out)
		require.Error(t, err, "input %q", out)
		var pe *ParseError
		assert.ErrorAs(t, err, &pe)
	}
}

func TestExtractInto_Verdict(t *testing.T) {
	var v struct {
		Verdict    string  `json:"verdict"`
		Confidence float64 `json:"confidence"`
	}
	out := "```json\n{\"verdict\": \"YES\", \"confidence\": 0.95}\n```"
	require.NoError(t, ExtractInto(out, &v))
	assert.Equal(t, "YES", v.Verdict)
	assert.InDelta(t, 0.95, v.Confidence, 1e-9)
}

func TestExtractInto_TypeMismatchIsParseError(t *testing.T) {
	var v struct {
		Confidence float64 `json:"confidence"`
	}
	err := ExtractInto(`{"confidence": "high"}`, &v)
	require.Error(t, err)
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
}
