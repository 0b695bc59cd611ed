package report

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/arenahq/arena/internal/anonymize"
	"github.com/arenahq/arena/internal/catalog"
	"github.com/arenahq/arena/internal/models"
)

// softScore is one de-anonymized data point: judge rated model on dimension
// for a PR.
type softScore struct {
	Model     string
	PRID      string
	Judge     string
	Dimension string
	Score     float64
}

// Exclusion records one malformed judge entry that aggregation dropped,
// attributable to a specific (PR, judging model) pair.
type Exclusion struct {
	PRID   string `json:"pr_id"`
	Judge  string `json:"judge_model"`
	Reason string `json:"reason"`
}

// DimStats summarizes one model's scores on one dimension.
type DimStats struct {
	Avg   float64 `json:"avg"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// SoftModelSummary is the per-model soft score summary.
type SoftModelSummary struct {
	Dimensions map[string]*DimStats `json:"dimensions"`
	Overall    float64              `json:"overall"`
	Count      int                  `json:"count"`
}

// SoftReport is the soft aggregation result shared with the bias report and
// text digest.
type SoftReport struct {
	Summary    map[string]*SoftModelSummary `json:"models"`
	Exclusions []Exclusion                  `json:"exclusions,omitempty"`

	scores []softScore
}

// generateSoft writes soft_scores.csv and soft_summary.json.
func (g *Generator) generateSoft(dir string) (*SoftReport, error) {
	rep := g.collectSoftScores()

	var rows [][]string
	for _, s := range rep.scores {
		rows = append(rows, []string{
			s.Model, s.PRID, s.Judge, s.Dimension,
			strconv.FormatFloat(s.Score, 'f', -1, 64),
		})
	}
	if len(rows) > 0 {
		csvPath := filepath.Join(dir, "soft_scores.csv")
		if err := writeCSV(csvPath, []string{"model", "pr_id", "judge", "dimension", "score"}, rows); err != nil {
			return nil, err
		}
		g.UI.Info("  soft score details: %s", csvPath)
	}

	if err := writeJSON(filepath.Join(dir, "soft_summary.json"), rep); err != nil {
		return nil, err
	}
	g.UI.Info("  soft score summary: %s", filepath.Join(dir, "soft_summary.json"))
	return rep, nil
}

// collectSoftScores de-anonymizes every judge's score sheet against its PR's
// persisted mapping and folds per-model summaries. Malformed entries are
// excluded and reported, never fatal.
func (g *Generator) collectSoftScores() *SoftReport {
	rep := &SoftReport{Summary: make(map[string]*SoftModelSummary)}

	dimIDs := make(map[string]bool, len(g.Cfg.Judge.Dimensions))
	for _, d := range g.Cfg.Judge.Dimensions {
		dimIDs[d.ID] = true
	}

	for _, pr := range g.Manifest.PRs {
		mappingPath := catalog.MappingPath(pr.ID)
		if !g.Store.Exists(mappingPath) {
			continue
		}
		var mapping anonymize.Mapping
		if err := g.Store.ReadInto(mappingPath, &mapping); err != nil {
			g.UI.Warning("[Report] %s: unreadable pseudonym mapping: %v", pr.ID, err)
			continue
		}

		for _, judge := range g.Cfg.Models {
			t := catalog.Task{Phase: catalog.PhaseJudgeSoft, PR: pr.ID, Model: judge.ID}
			if !g.Store.Exists(t.Path()) {
				continue
			}
			var sheet models.SoftScores
			if err := g.Store.ReadInto(t.Path(), &sheet); err != nil {
				rep.exclude(g, pr.ID, judge.ID, fmt.Sprintf("unreadable score sheet: %v", err))
				continue
			}

			for _, label := range sortedKeys(sheet.Scores) {
				real, ok := mapping.Reverse[label]
				if !ok {
					rep.exclude(g, pr.ID, judge.ID, fmt.Sprintf("unknown pseudonym %q", label))
					continue
				}
				model := g.canonicalModel(real)

				dimScores := sheet.Scores[label]
				for _, d := range g.Cfg.Judge.Dimensions {
					score, ok := dimScores[d.ID]
					if !ok {
						rep.exclude(g, pr.ID, judge.ID,
							fmt.Sprintf("missing dimension %q for %s", d.ID, label))
						continue
					}
					rep.scores = append(rep.scores, softScore{
						Model: model, PRID: pr.ID, Judge: judge.ID,
						Dimension: d.ID, Score: score,
					})
				}
				for dim := range dimScores {
					if !dimIDs[dim] {
						rep.exclude(g, pr.ID, judge.ID,
							fmt.Sprintf("unknown dimension %q for %s", dim, label))
					}
				}
			}
		}
	}

	// Fold data points into per-model summaries.
	type agg struct {
		sum   float64
		min   float64
		max   float64
		count int
	}
	byModelDim := make(map[string]map[string]*agg)
	for _, s := range rep.scores {
		dims, ok := byModelDim[s.Model]
		if !ok {
			dims = make(map[string]*agg)
			byModelDim[s.Model] = dims
		}
		a, ok := dims[s.Dimension]
		if !ok {
			a = &agg{min: s.Score, max: s.Score}
			dims[s.Dimension] = a
		}
		a.sum += s.Score
		a.count++
		if s.Score < a.min {
			a.min = s.Score
		}
		if s.Score > a.max {
			a.max = s.Score
		}
	}

	for model, dims := range byModelDim {
		ms := &SoftModelSummary{Dimensions: make(map[string]*DimStats)}
		var total float64
		var n int
		for dim, a := range dims {
			ms.Dimensions[dim] = &DimStats{
				Avg:   round2(a.sum / float64(a.count)),
				Min:   a.min,
				Max:   a.max,
				Count: a.count,
			}
			total += a.sum
			n += a.count
		}
		if n > 0 {
			ms.Overall = round2(total / float64(n))
			ms.Count = n
		}
		rep.Summary[model] = ms
	}
	return rep
}

func (r *SoftReport) exclude(g *Generator, prID, judge, reason string) {
	g.UI.Warning("[Report] %s: judge %s: %s (excluded)", prID, judge, reason)
	r.Exclusions = append(r.Exclusions, Exclusion{PRID: prID, Judge: judge, Reason: reason})
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
