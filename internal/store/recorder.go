package store

import (
	"context"
	"time"

	"github.com/arenahq/arena/internal/models"
	"github.com/arenahq/arena/internal/output"
)

// RunRecorder binds task attempts to one ledger run. Ledger write failures
// are logged and dropped; they never fail the task that produced them.
type RunRecorder struct {
	Ledger Ledger
	RunID  string
	UI     *output.UI
}

func (r *RunRecorder) RecordAttempt(ctx context.Context, phase, key, status string, elapsed time.Duration, errMsg string) {
	err := r.Ledger.RecordAttempt(ctx, &models.TaskAttempt{
		RunID:     r.RunID,
		Phase:     phase,
		TaskKey:   key,
		Status:    status,
		ElapsedMS: elapsed.Milliseconds(),
		Error:     errMsg,
	})
	if err != nil && r.UI != nil {
		r.UI.VerboseLog("ledger: record attempt: %v", err)
	}
}
