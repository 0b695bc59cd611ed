package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenahq/arena/internal/models"
)

func newTestLedger(t *testing.T) *SQLiteLedger {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	l, err := NewSQLiteLedger(dbPath)
	require.NoError(t, err)

	err = l.Migrate(context.Background())
	require.NoError(t, err)

	t.Cleanup(func() { l.Close() })
	return l
}

func TestNewSQLiteLedger_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "subdir", "test.db")

	l, err := NewSQLiteLedger(dbPath)
	require.NoError(t, err)
	defer l.Close()

	_, err = os.Stat(filepath.Join(dir, "subdir"))
	assert.NoError(t, err, "should create parent directory")
}

func TestMigrate_Idempotent(t *testing.T) {
	l := newTestLedger(t)
	assert.NoError(t, l.Migrate(context.Background()))
}

func TestBeginFinishRun(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	run, err := l.BeginRun(ctx, "Review")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "Review", run.Phase)
	assert.Nil(t, run.FinishedAt)

	run.Completed = 3
	run.Skipped = 1
	run.Failed = 2
	require.NoError(t, l.FinishRun(ctx, run))
	require.NotNil(t, run.FinishedAt)

	runs, err := l.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, 3, runs[0].Completed)
	assert.Equal(t, 1, runs[0].Skipped)
	assert.Equal(t, 2, runs[0].Failed)
	require.NotNil(t, runs[0].FinishedAt)
}

func TestListRuns_NewestFirstWithLimit(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	var ids []string
	for _, phase := range []string{"Raw", "Review", "Debate"} {
		run, err := l.BeginRun(ctx, phase)
		require.NoError(t, err)
		ids = append(ids, run.ID)
		time.Sleep(2 * time.Millisecond)
	}

	runs, err := l.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[1], runs[1].ID)
}

func TestRecordAttempt_RoundTrip(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	run, err := l.BeginRun(ctx, "Judge-Hard")
	require.NoError(t, err)

	attempts := []*models.TaskAttempt{
		{RunID: run.ID, Phase: "Judge-Hard", TaskKey: "review/pr-1 bug=b1 reviewed=gpt judge=claude", Status: "completed", ElapsedMS: 1200},
		{RunID: run.ID, Phase: "Judge-Hard", TaskKey: "review/pr-1 bug=b1 reviewed=gpt judge=gemini", Status: "failed", ElapsedMS: 300, Error: "exit status 1"},
		{RunID: run.ID, Phase: "Judge-Hard", TaskKey: "review/pr-1 bug=b1 reviewed=claude judge=gpt", Status: "skipped"},
	}
	for _, a := range attempts {
		require.NoError(t, l.RecordAttempt(ctx, a))
		assert.NotEmpty(t, a.ID)
	}

	got, err := l.ListAttempts(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)

	failed, err := l.FailedAttempts(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "exit status 1", failed[0].Error)
	assert.Equal(t, int64(300), failed[0].ElapsedMS)
}

func TestListAttempts_ScopedToRun(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	run1, err := l.BeginRun(ctx, "Raw")
	require.NoError(t, err)
	run2, err := l.BeginRun(ctx, "Raw")
	require.NoError(t, err)

	require.NoError(t, l.RecordAttempt(ctx, &models.TaskAttempt{
		RunID: run1.ID, Phase: "Raw", TaskKey: "pr-1 × gpt", Status: "completed",
	}))

	got, err := l.ListAttempts(ctx, run2.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}
