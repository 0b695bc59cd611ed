package checkpoint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(t.TempDir())
}

func TestExists_MissingFile(t *testing.T) {
	s := newTestStore(t)
	assert.False(t, s.Exists("raw/pr-1/gpt.json"))
}

func TestExists_EmptyFileCountsAsAbsent(t *testing.T) {
	s := newTestStore(t)
	abs := s.Abs("raw/pr-1/gpt.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, nil, 0o644))

	assert.False(t, s.Exists("raw/pr-1/gpt.json"), "zero-byte file is not a checkpoint")
}

func TestExists_TruncatedJSONCountsAsAbsent(t *testing.T) {
	s := newTestStore(t)
	abs := s.Abs("raw/pr-1/gpt.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, []byte(`{"messages": [`), 0o644))

	assert.False(t, s.Exists("raw/pr-1/gpt.json"), "truncated JSON is not a checkpoint")
}

func TestWriteJSON_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	type record struct {
		Verdict    string  `json:"verdict"`
		Confidence float64 `json:"confidence"`
	}
	in := record{Verdict: "YES", Confidence: 0.9}
	require.NoError(t, s.WriteJSON("judge/hard/review/pr-1/gpt_bug_b1_by_claude.json", &in))

	assert.True(t, s.Exists("judge/hard/review/pr-1/gpt_bug_b1_by_claude.json"))

	var out record
	require.NoError(t, s.ReadInto("judge/hard/review/pr-1/gpt_bug_b1_by_claude.json", &out))
	assert.Equal(t, in, out)
}

func TestWriteJSON_LeavesNoTempFiles(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.WriteJSON("review/pr-1/gpt.json", map[string]string{"k": "v"}))

	entries, err := os.ReadDir(filepath.Dir(s.Abs("review/pr-1/gpt.json")))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "gpt.json", entries[0].Name())
}

func TestWriteJSON_OverwritesExisting(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.WriteJSON("review/pr-1/gpt.json", map[string]int{"v": 1}))
	require.NoError(t, s.WriteJSON("review/pr-1/gpt.json", map[string]int{"v": 2}))

	var out map[string]int
	require.NoError(t, s.ReadInto("review/pr-1/gpt.json", &out))
	assert.Equal(t, 2, out["v"])
}

func TestWriteRaw_PersistsBytesVerbatim(t *testing.T) {
	s := newTestStore(t)
	payload := []byte(`{"prNumber": "100", "messages": []}`)
	require.NoError(t, s.WriteRaw("debate/pr-1/debate.json", payload))

	data, err := os.ReadFile(s.Abs("debate/pr-1/debate.json"))
	require.NoError(t, err)
	assert.Equal(t, payload, data)
	assert.True(t, s.Exists("debate/pr-1/debate.json"))
}

func TestReadInto_MalformedCheckpoint(t *testing.T) {
	s := newTestStore(t)
	abs := s.Abs("review/pr-1/gpt.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, []byte("not json"), 0o644))

	var out map[string]any
	err := s.ReadInto("review/pr-1/gpt.json", &out)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "review/pr-1/gpt.json")
}
