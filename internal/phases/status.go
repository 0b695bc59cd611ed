package phases

import (
	"github.com/arenahq/arena/internal/catalog"
	"github.com/arenahq/arena/internal/checkpoint"
	"github.com/arenahq/arena/internal/config"
)

// PhaseProgress counts persisted results against the full catalog for one
// phase tree.
type PhaseProgress struct {
	Phase string `json:"phase"`
	Done  int    `json:"done"`
	Total int    `json:"total"`
}

// Status probes the checkpoint store for every catalog task and reports
// per-phase completion, in pipeline order.
func Status(cfg *config.Config, m *config.Manifest, store *checkpoint.Store) []PhaseProgress {
	groups := []struct {
		name  string
		tasks []catalog.Task
	}{
		{"raw", catalog.Raw(cfg, m, catalog.Filter{})},
		{"review", catalog.Review(cfg, m, catalog.Filter{})},
		{"debate", catalog.Debate(m, catalog.Filter{}, false)},
		{"debate-nocontext", catalog.Debate(m, catalog.Filter{}, true)},
		{"judge-hard/raw", catalog.JudgeHard(cfg, m, catalog.Filter{}, catalog.SourceRaw)},
		{"judge-hard/review", catalog.JudgeHard(cfg, m, catalog.Filter{}, catalog.SourceReview)},
		{"judge-soft", catalog.JudgeSoft(cfg, m, catalog.Filter{})},
	}

	out := make([]PhaseProgress, 0, len(groups))
	for _, g := range groups {
		p := PhaseProgress{Phase: g.name, Total: len(g.tasks)}
		for _, t := range g.tasks {
			if store.Exists(t.Path()) {
				p.Done++
			}
		}
		out = append(out, p)
	}
	return out
}
