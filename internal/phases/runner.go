// Package phases wires the task catalog, bounded executor, tool adapters,
// and checkpoint store into the pipeline's phase runners.
package phases

import (
	"context"
	"math/rand"
	"os"

	"github.com/arenahq/arena/internal/catalog"
	"github.com/arenahq/arena/internal/checkpoint"
	"github.com/arenahq/arena/internal/config"
	"github.com/arenahq/arena/internal/executor"
	"github.com/arenahq/arena/internal/output"
	"github.com/arenahq/arena/internal/prompts"
	"github.com/arenahq/arena/internal/tool"
)

// Runner executes pipeline phases against a loaded dataset.
type Runner struct {
	Cfg      *config.Config
	Manifest *config.Manifest
	Store    *checkpoint.Store
	UI       *output.UI
	Pool     *executor.Pool
	Orch     *tool.Orchestrator
	Judge    *tool.JudgeRunner
	RawJudge *tool.JudgeRunner
	Prompts  *prompts.Loader
	Filter   catalog.Filter

	// Rand seeds anonymization shuffles in tests; nil means time-seeded.
	Rand *rand.Rand
}

// runOrchestrated is the shared body of the review and debate phases: invoke
// the orchestration tool against a temporary output path, validate that it
// produced JSON, then rename the result into place so readers never observe
// a partial checkpoint.
func (r *Runner) runOrchestrated(ctx context.Context, spec tool.InvokeSpec, rel string) error {
	abs := r.Store.Abs(rel)
	partial := abs + ".partial"
	spec.OutputPath = partial
	defer os.Remove(partial)

	if err := r.Orch.Run(ctx, spec); err != nil {
		return err
	}

	data, err := os.ReadFile(partial)
	if err != nil || len(data) == 0 {
		return &tool.ParseError{Raw: ""}
	}
	raw, err := tool.ExtractJSON(string(data))
	if err != nil {
		return err
	}
	return r.Store.WriteRaw(rel, raw)
}
