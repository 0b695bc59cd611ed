package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenahq/arena/internal/checkpoint"
	"github.com/arenahq/arena/internal/output"
)

func newTestPool(t *testing.T, workers int) *Pool {
	t.Helper()
	return &Pool{
		Workers: workers,
		Store:   checkpoint.New(t.TempDir()),
		UI:      &output.UI{Out: io.Discard, ErrOut: io.Discard},
	}
}

type recorded struct {
	phase, key, status string
}

// fakeRecorder captures attempts; must be safe for concurrent use like the
// real ledger recorder.
type fakeRecorder struct {
	mu       sync.Mutex
	attempts []recorded
}

func (f *fakeRecorder) RecordAttempt(ctx context.Context, phase, key, status string, elapsed time.Duration, errMsg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts = append(f.attempts, recorded{phase, key, status})
}

func (f *fakeRecorder) byStatus(status string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, a := range f.attempts {
		if a.status == status {
			n++
		}
	}
	return n
}

func TestRun_AllComplete(t *testing.T) {
	p := newTestPool(t, 2)

	var ran atomic.Int32
	jobs := make([]Job, 5)
	for i := range jobs {
		key := fmt.Sprintf("task-%d", i)
		jobs[i] = Job{
			Key:  key,
			Path: "review/pr-1/" + key + ".json",
			Run: func(ctx context.Context) error {
				ran.Add(1)
				return nil
			},
		}
	}

	summary := p.Run(context.Background(), "Review", jobs)

	assert.Equal(t, int32(5), ran.Load())
	assert.Equal(t, Summary{Completed: 5}, summary)
	assert.True(t, summary.OK())
}

func TestRun_SkipsExistingCheckpoints(t *testing.T) {
	p := newTestPool(t, 2)
	require.NoError(t, p.Store.WriteJSON("review/pr-1/done.json", map[string]string{"ok": "yes"}))

	var ran atomic.Int32
	jobs := []Job{
		{Key: "done", Path: "review/pr-1/done.json", Run: func(ctx context.Context) error {
			ran.Add(1)
			return nil
		}},
		{Key: "pending", Path: "review/pr-1/pending.json", Run: func(ctx context.Context) error {
			ran.Add(1)
			return nil
		}},
	}

	summary := p.Run(context.Background(), "Review", jobs)

	assert.Equal(t, int32(1), ran.Load(), "checkpointed job must not run")
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Completed)
}

func TestRun_ForceRerunsExisting(t *testing.T) {
	p := newTestPool(t, 1)
	p.Force = true
	require.NoError(t, p.Store.WriteJSON("review/pr-1/done.json", map[string]string{"ok": "yes"}))

	var ran atomic.Int32
	jobs := []Job{
		{Key: "done", Path: "review/pr-1/done.json", Run: func(ctx context.Context) error {
			ran.Add(1)
			return nil
		}},
	}

	summary := p.Run(context.Background(), "Review", jobs)
	assert.Equal(t, int32(1), ran.Load())
	assert.Equal(t, 0, summary.Skipped)
}

func TestRun_FailureIsolation(t *testing.T) {
	p := newTestPool(t, 3)

	boom := errors.New("tool exploded")
	var ran atomic.Int32
	jobs := make([]Job, 6)
	for i := range jobs {
		i := i
		key := fmt.Sprintf("task-%d", i)
		jobs[i] = Job{
			Key:  key,
			Path: "review/pr-1/" + key + ".json",
			Run: func(ctx context.Context) error {
				ran.Add(1)
				if i%2 == 0 {
					return boom
				}
				return nil
			},
		}
	}

	summary := p.Run(context.Background(), "Review", jobs)

	assert.Equal(t, int32(6), ran.Load(), "failures must not stop the queue")
	assert.Equal(t, 3, summary.Failed)
	assert.Equal(t, 3, summary.Completed)
	assert.False(t, summary.OK())
	require.Len(t, summary.Errors, 3)
	for _, je := range summary.Errors {
		assert.ErrorIs(t, je.Err, boom)
	}
}

func TestRun_EmptyAfterSkips(t *testing.T) {
	p := newTestPool(t, 2)
	require.NoError(t, p.Store.WriteJSON("raw/pr-1/gpt.json", map[string]string{"ok": "yes"}))

	jobs := []Job{
		{Key: "only", Path: "raw/pr-1/gpt.json", Run: func(ctx context.Context) error {
			t.Fatal("must not run")
			return nil
		}},
	}

	summary := p.Run(context.Background(), "Raw", jobs)
	assert.Equal(t, Summary{Skipped: 1}, summary)
}

func TestRun_RecordsAttempts(t *testing.T) {
	p := newTestPool(t, 2)
	rec := &fakeRecorder{}
	p.Recorder = rec
	require.NoError(t, p.Store.WriteJSON("review/pr-1/skip.json", map[string]string{"ok": "yes"}))

	jobs := []Job{
		{Key: "skip", Path: "review/pr-1/skip.json", Run: func(ctx context.Context) error { return nil }},
		{Key: "ok", Path: "review/pr-1/ok.json", Run: func(ctx context.Context) error { return nil }},
		{Key: "bad", Path: "review/pr-1/bad.json", Run: func(ctx context.Context) error {
			return errors.New("nope")
		}},
	}

	p.Run(context.Background(), "Review", jobs)

	assert.Equal(t, 1, rec.byStatus("skipped"))
	assert.Equal(t, 1, rec.byStatus("completed"))
	assert.Equal(t, 1, rec.byStatus("failed"))
}

func TestSummary_Merge(t *testing.T) {
	a := Summary{Completed: 2, Skipped: 1}
	b := Summary{Failed: 1, Errors: []JobError{{Key: "x", Err: errors.New("e")}}}

	a.Merge(b)
	assert.Equal(t, 2, a.Completed)
	assert.Equal(t, 1, a.Skipped)
	assert.Equal(t, 1, a.Failed)
	assert.Len(t, a.Errors, 1)
	assert.False(t, a.OK())
}
