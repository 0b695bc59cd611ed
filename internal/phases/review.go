package phases

import (
	"context"

	"github.com/arenahq/arena/internal/catalog"
	"github.com/arenahq/arena/internal/executor"
	"github.com/arenahq/arena/internal/models"
	"github.com/arenahq/arena/internal/tool"
)

// Review runs the single-round orchestrated review phase: each model
// independently reviews each hard PR through the orchestration tool.
func (r *Runner) Review(ctx context.Context) executor.Summary {
	tasks := catalog.Review(r.Cfg, r.Manifest, r.Filter)

	jobs := make([]executor.Job, 0, len(tasks))
	for _, t := range tasks {
		t := t
		pr := r.Manifest.PR(t.PR)
		model := r.Cfg.Model(t.Model)
		jobs = append(jobs, executor.Job{
			Key:  t.String(),
			Path: t.Path(),
			Run: func(ctx context.Context) error {
				spec := tool.InvokeSpec{
					URL:          pr.URL,
					Participants: []models.ModelRecord{*model},
					ReviewPrompt: r.Cfg.ReviewPrompt,
					Rounds:       r.Cfg.Review.Rounds,
					// Single-round independent reviews never converge.
					CheckConvergence: false,
				}
				return r.runOrchestrated(ctx, spec, t.Path())
			},
		})
	}
	return r.Pool.Run(ctx, "Review", jobs)
}

// Debate runs the multi-round debate phase: all participating models review
// each PR jointly in one orchestrator invocation.
func (r *Runner) Debate(ctx context.Context, noContext bool) executor.Summary {
	tasks := catalog.Debate(r.Manifest, r.Filter, noContext)
	participants := catalog.Participants(r.Cfg, r.Filter)

	label := "Debate"
	if noContext {
		label = "Debate-noctx"
	}

	jobs := make([]executor.Job, 0, len(tasks))
	for _, t := range tasks {
		t := t
		pr := r.Manifest.PR(t.PR)
		jobs = append(jobs, executor.Job{
			Key:  t.String(),
			Path: t.Path(),
			Run: func(ctx context.Context) error {
				spec := tool.InvokeSpec{
					URL:              pr.URL,
					Participants:     participants,
					ReviewPrompt:     r.Cfg.ReviewPrompt,
					Rounds:           r.Cfg.Debate.Rounds,
					CheckConvergence: r.Cfg.Debate.CheckConvergence,
					SkipContext:      noContext,
				}
				return r.runOrchestrated(ctx, spec, t.Path())
			},
		})
	}
	return r.Pool.Run(ctx, label, jobs)
}
