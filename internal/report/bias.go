package report

import (
	"path/filepath"
)

// BiasEntry is the self-vs-other scoring delta for one judging model: the
// average score it gives its own (de-anonymized) review minus the average it
// gives everyone else's, across all dimensions. Counts state how many data
// points each average includes.
type BiasEntry struct {
	SelfAvg    float64 `json:"self_avg"`
	OtherAvg   float64 `json:"other_avg"`
	Bias       float64 `json:"bias"`
	SelfCount  int     `json:"self_count"`
	OtherCount int     `json:"other_count"`
}

// generateBias writes judge_bias.json from the de-anonymized soft scores.
func (g *Generator) generateBias(dir string, soft *SoftReport) (map[string]*BiasEntry, error) {
	type sums struct {
		self, other   float64
		selfN, otherN int
	}
	byJudge := make(map[string]*sums)

	for _, s := range soft.scores {
		b, ok := byJudge[s.Judge]
		if !ok {
			b = &sums{}
			byJudge[s.Judge] = b
		}
		if s.Model == s.Judge {
			b.self += s.Score
			b.selfN++
		} else {
			b.other += s.Score
			b.otherN++
		}
	}

	bias := make(map[string]*BiasEntry)
	for judge, b := range byJudge {
		e := &BiasEntry{SelfCount: b.selfN, OtherCount: b.otherN}
		if b.selfN > 0 {
			e.SelfAvg = round2(b.self / float64(b.selfN))
		}
		if b.otherN > 0 {
			e.OtherAvg = round2(b.other / float64(b.otherN))
		}
		e.Bias = round2(e.SelfAvg - e.OtherAvg)
		bias[judge] = e
	}

	path := filepath.Join(dir, "judge_bias.json")
	if err := writeJSON(path, bias); err != nil {
		return nil, err
	}
	g.UI.Info("  judge bias: %s", path)
	return bias, nil
}
