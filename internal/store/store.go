// Package store persists the run ledger: which phase invocations happened,
// and how each task attempt within them ended. The ledger exists for the
// history command and the MCP query surface; task completion is always
// decided by checkpoint files, never by ledger rows.
package store

import (
	"context"

	"github.com/arenahq/arena/internal/models"
)

// Ledger defines the persistence interface for run history.
type Ledger interface {
	// Runs
	BeginRun(ctx context.Context, phase string) (*models.Run, error)
	FinishRun(ctx context.Context, run *models.Run) error
	ListRuns(ctx context.Context, limit int) ([]*models.Run, error)

	// Attempts
	RecordAttempt(ctx context.Context, attempt *models.TaskAttempt) error
	ListAttempts(ctx context.Context, runID string) ([]*models.TaskAttempt, error)
	FailedAttempts(ctx context.Context, runID string) ([]*models.TaskAttempt, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
