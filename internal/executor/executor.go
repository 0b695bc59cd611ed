// Package executor runs phase task lists under a fixed concurrency ceiling
// with checkpoint-based skipping, progress reporting, and failure isolation.
package executor

import (
	"context"
	"sync"
	"time"

	"github.com/arenahq/arena/internal/checkpoint"
	"github.com/arenahq/arena/internal/output"
)

// Job is one executable unit of work. Run performs the external call and
// writes the checkpoint at Path; it must not return nil unless the
// checkpoint is durably in place.
type Job struct {
	Key  string
	Path string
	Run  func(ctx context.Context) error
}

// JobError records one failed job with its task identity.
type JobError struct {
	Key string
	Err error
}

func (e JobError) Error() string { return e.Key + ": " + e.Err.Error() }

// Summary is the outcome of one phase run.
type Summary struct {
	Completed int
	Skipped   int
	Failed    int
	Errors    []JobError
}

// OK reports whether every submitted job completed.
func (s Summary) OK() bool { return s.Failed == 0 }

// Merge folds another phase summary into this one.
func (s *Summary) Merge(other Summary) {
	s.Completed += other.Completed
	s.Skipped += other.Skipped
	s.Failed += other.Failed
	s.Errors = append(s.Errors, other.Errors...)
}

// Recorder receives task attempt outcomes for the run ledger. Implementations
// must be safe for concurrent use.
type Recorder interface {
	RecordAttempt(ctx context.Context, phase, key, status string, elapsed time.Duration, errMsg string)
}

// Pool executes jobs on a bounded set of workers. Each worker blocks
// synchronously on one external invocation at a time; completion order is
// unordered and nothing here may assume otherwise.
type Pool struct {
	Workers  int
	Force    bool
	Store    *checkpoint.Store
	UI       *output.UI
	Recorder Recorder
}

// progress is the shared completion counter. Guarded by its mutex; never a
// package-level variable.
type progress struct {
	mu     sync.Mutex
	failed []JobError
}

func (p *progress) fail(e JobError) {
	p.mu.Lock()
	p.failed = append(p.failed, e)
	p.mu.Unlock()
}

// Run filters jobs through the checkpoint store, executes the pending ones,
// and drains the whole queue even when individual jobs fail.
func (p *Pool) Run(ctx context.Context, phase string, jobs []Job) Summary {
	var pending []Job
	var skipped int
	for _, job := range jobs {
		if !p.Force && p.Store.Exists(job.Path) {
			p.UI.Skipped(phase, job.Key, "result exists")
			p.record(ctx, phase, job.Key, "skipped", 0, "")
			skipped++
			continue
		}
		pending = append(pending, job)
	}

	total := len(pending)
	if total == 0 {
		p.UI.Info("[%s] nothing to do (%d skipped)", phase, skipped)
		return Summary{Skipped: skipped}
	}

	p.UI.PhaseStart(phase, total+skipped, p.Workers)
	if skipped > 0 {
		p.UI.Info("[%s] %d result(s) exist, skipped", phase, skipped)
	}
	phaseStart := time.Now()

	type indexed struct {
		idx int
		job Job
	}
	queue := make(chan indexed)
	prog := &progress{}

	var wg sync.WaitGroup
	for w := 0; w < p.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range queue {
				p.runOne(ctx, phase, item.idx, total, item.job, prog)
			}
		}()
	}

	for i, job := range pending {
		queue <- indexed{idx: i + 1, job: job}
	}
	close(queue)
	wg.Wait()

	p.UI.PhaseEnd(phase, total, time.Since(phaseStart))

	failed := len(prog.failed)
	return Summary{
		Completed: total - failed,
		Skipped:   skipped,
		Failed:    failed,
		Errors:    prog.failed,
	}
}

// runOne executes a single job, isolating its failure from siblings. A
// failed job writes no checkpoint, so the next run retries it naturally.
func (p *Pool) runOne(ctx context.Context, phase string, idx, total int, job Job, prog *progress) {
	p.UI.Progress(phase, idx, total, job.Key, "started", 0)
	start := time.Now()

	err := job.Run(ctx)
	elapsed := time.Since(start)

	if err != nil {
		prog.fail(JobError{Key: job.Key, Err: err})
		p.UI.Progress(phase, idx, total, job.Key, output.Red("failed"), elapsed)
		p.UI.Error("[%s] %s: %v", phase, job.Key, err)
		p.record(ctx, phase, job.Key, "failed", elapsed, err.Error())
		return
	}

	p.UI.Progress(phase, idx, total, job.Key, "done", elapsed)
	p.record(ctx, phase, job.Key, "completed", elapsed, "")
}

func (p *Pool) record(ctx context.Context, phase, key, status string, elapsed time.Duration, errMsg string) {
	if p.Recorder != nil {
		p.Recorder.RecordAttempt(ctx, phase, key, status, elapsed, errMsg)
	}
}
