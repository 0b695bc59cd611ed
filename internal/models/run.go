package models

import "time"

// Run is one ledger row for a phase invocation.
type Run struct {
	ID         string     `json:"id"`
	Phase      string     `json:"phase"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Completed  int        `json:"completed"`
	Skipped    int        `json:"skipped"`
	Failed     int        `json:"failed"`
}

// TaskAttempt is one ledger row for a task outcome within a run. Status is
// one of completed, skipped, or failed.
type TaskAttempt struct {
	ID        string    `json:"id"`
	RunID     string    `json:"run_id"`
	Phase     string    `json:"phase"`
	TaskKey   string    `json:"task_key"`
	Status    string    `json:"status"`
	ElapsedMS int64     `json:"elapsed_ms"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
