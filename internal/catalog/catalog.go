// Package catalog expands the loaded PR and model sets into the exhaustive
// task list for each phase. Expansion is pure: no filesystem access and no
// filtering by checkpoint state (the executor owns that).
package catalog

import (
	"github.com/arenahq/arena/internal/config"
	"github.com/arenahq/arena/internal/models"
)

// Filter narrows a catalog to a single PR and/or a single model. Empty
// fields match everything; both set means the intersection.
type Filter struct {
	PR    string
	Model string
}

func (f Filter) matchPR(id string) bool    { return f.PR == "" || f.PR == id }
func (f Filter) matchModel(id string) bool { return f.Model == "" || f.Model == id }

// Raw returns one task per hard PR × model.
func Raw(cfg *config.Config, m *config.Manifest, f Filter) []Task {
	return perModel(PhaseRaw, cfg, m, f)
}

// Review returns one task per hard PR × model.
func Review(cfg *config.Config, m *config.Manifest, f Filter) []Task {
	return perModel(PhaseReview, cfg, m, f)
}

func perModel(phase Phase, cfg *config.Config, m *config.Manifest, f Filter) []Task {
	var tasks []Task
	for _, pr := range m.HardPRs() {
		if !f.matchPR(pr.ID) {
			continue
		}
		for _, model := range cfg.Models {
			if !f.matchModel(model.ID) {
				continue
			}
			tasks = append(tasks, Task{Phase: phase, PR: pr.ID, Model: model.ID})
		}
	}
	return tasks
}

// Debate returns one task per PR, both categories. All models participate
// jointly, so the model filter does not reduce the task list here; it
// narrows the participant set at invocation time instead.
func Debate(m *config.Manifest, f Filter, noContext bool) []Task {
	var tasks []Task
	for _, pr := range m.PRs {
		if !f.matchPR(pr.ID) {
			continue
		}
		tasks = append(tasks, Task{Phase: PhaseDebate, PR: pr.ID, NoContext: noContext})
	}
	return tasks
}

// JudgeHard returns one task per (hard PR, known bug, reviewed model,
// judging model) for the given review source. The model filter narrows the
// judging model.
func JudgeHard(cfg *config.Config, m *config.Manifest, f Filter, source Source) []Task {
	var tasks []Task
	for _, pr := range m.HardPRs() {
		if !f.matchPR(pr.ID) {
			continue
		}
		for _, bug := range pr.KnownBugs {
			for _, reviewed := range cfg.Models {
				for _, judge := range cfg.Models {
					if !f.matchModel(judge.ID) {
						continue
					}
					tasks = append(tasks, Task{
						Phase: PhaseJudgeHard, Source: source, PR: pr.ID,
						Bug: bug.ID, Reviewed: reviewed.ID, Model: judge.ID,
					})
				}
			}
		}
	}
	return tasks
}

// JudgeSoft returns one task per (PR, judging model); each judge scores all
// pseudonymous reviewers of that PR's debate in a single call.
func JudgeSoft(cfg *config.Config, m *config.Manifest, f Filter) []Task {
	var tasks []Task
	for _, pr := range m.PRs {
		if !f.matchPR(pr.ID) {
			continue
		}
		for _, judge := range cfg.Models {
			if !f.matchModel(judge.ID) {
				continue
			}
			tasks = append(tasks, Task{Phase: PhaseJudgeSoft, PR: pr.ID, Model: judge.ID})
		}
	}
	return tasks
}

// Participants returns the models joining a debate after applying the model
// filter, preserving roster order.
func Participants(cfg *config.Config, f Filter) []models.ModelRecord {
	if f.Model == "" {
		return cfg.Models
	}
	var out []models.ModelRecord
	for _, m := range cfg.Models {
		if f.matchModel(m.ID) {
			out = append(out, m)
		}
	}
	return out
}
