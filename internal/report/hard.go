package report

import (
	"math"
	"path/filepath"
	"strconv"

	"github.com/arenahq/arena/internal/catalog"
	"github.com/arenahq/arena/internal/models"
)

// hardSources lists the individual-review trees hard judging may have run
// against, in report order.
var hardSources = []catalog.Source{catalog.SourceRaw, catalog.SourceReview}

// HardDecision is the aggregated outcome for one (source, PR, bug, reviewed
// model): the majority vote over all judges that returned a verdict.
type HardDecision struct {
	Source   string `json:"source"`
	PRID     string `json:"pr_id"`
	BugID    string `json:"bug_id"`
	Reviewed string `json:"reviewed_model"`

	YesVotes int  `json:"yes_votes"`
	Votes    int  `json:"votes"`
	Detected bool `json:"detected"`

	difficulty models.Difficulty
}

// HardCell accumulates detection counts for one summary bucket.
type HardCell struct {
	Found int     `json:"found"`
	Total int     `json:"total"`
	Rate  float64 `json:"rate"`
}

func (c *HardCell) add(found bool) {
	c.Total++
	if found {
		c.Found++
	}
	c.Rate = round2(float64(c.Found) / float64(c.Total))
}

// HardModelSummary is the per (source, model) summary keyed by difficulty
// plus an overall row.
type HardModelSummary struct {
	Source     string               `json:"source"`
	Model      string               `json:"model"`
	Difficulty map[string]*HardCell `json:"by_difficulty"`
	Overall    HardCell             `json:"overall"`
}

// majority applies the vote policy: strict majority of collected verdicts
// required for a YES; a tie (including one-vs-one) counts as NO.
func majority(yes, votes int) bool {
	return yes*2 > votes
}

// generateHard writes hard_scores.csv and hard_summary.json and returns the
// summary for the text digest.
func (g *Generator) generateHard(dir string) (map[string]*HardModelSummary, error) {
	decisions := g.collectHardDecisions()

	var rows [][]string
	for _, d := range decisions {
		rows = append(rows, []string{
			d.Source, d.PRID, d.BugID, d.Reviewed, string(d.difficulty),
			strconv.Itoa(d.YesVotes), strconv.Itoa(d.Votes), strconv.FormatBool(d.Detected),
		})
	}
	if len(rows) > 0 {
		csvPath := filepath.Join(dir, "hard_scores.csv")
		header := []string{"source", "pr_id", "bug_id", "reviewed_model", "difficulty", "yes_votes", "votes", "detected"}
		if err := writeCSV(csvPath, header, rows); err != nil {
			return nil, err
		}
		g.UI.Info("  hard score details: %s", csvPath)
	}

	summary := make(map[string]*HardModelSummary)
	for _, d := range decisions {
		key := d.Source + "/" + d.Reviewed
		s, ok := summary[key]
		if !ok {
			s = &HardModelSummary{
				Source:     d.Source,
				Model:      d.Reviewed,
				Difficulty: make(map[string]*HardCell),
			}
			summary[key] = s
		}
		diff := string(d.difficulty)
		if diff == "" {
			diff = "untiered"
		}
		cell, ok := s.Difficulty[diff]
		if !ok {
			cell = &HardCell{}
			s.Difficulty[diff] = cell
		}
		cell.add(d.Detected)
		s.Overall.add(d.Detected)
	}

	if err := writeJSON(filepath.Join(dir, "hard_summary.json"), summary); err != nil {
		return nil, err
	}
	g.UI.Info("  hard score summary: %s", filepath.Join(dir, "hard_summary.json"))
	return summary, nil
}

// collectHardDecisions reads every persisted verdict and folds the judges'
// votes into majority decisions, in deterministic catalog order.
func (g *Generator) collectHardDecisions() []HardDecision {
	var decisions []HardDecision
	for _, source := range hardSources {
		for _, pr := range g.Manifest.HardPRs() {
			for _, bug := range pr.KnownBugs {
				for _, reviewed := range g.Cfg.Models {
					yes, votes := 0, 0
					for _, judge := range g.Cfg.Models {
						t := catalog.Task{
							Phase: catalog.PhaseJudgeHard, Source: source,
							PR: pr.ID, Bug: bug.ID, Reviewed: reviewed.ID, Model: judge.ID,
						}
						if !g.Store.Exists(t.Path()) {
							continue
						}
						var v models.HardVerdict
						if err := g.Store.ReadInto(t.Path(), &v); err != nil {
							g.UI.Warning("[Report] %s: unreadable verdict (%s judging %s): %v",
								pr.ID, judge.ID, reviewed.ID, err)
							continue
						}
						switch v.Verdict {
						case "YES":
							yes++
							votes++
						case "NO":
							votes++
						default:
							g.UI.Warning("[Report] %s: judge %s returned verdict %q for %s/%s, excluded",
								pr.ID, judge.ID, v.Verdict, reviewed.ID, bug.ID)
						}
					}
					if votes == 0 {
						continue
					}
					decisions = append(decisions, HardDecision{
						Source:     string(source),
						PRID:       pr.ID,
						BugID:      bug.ID,
						Reviewed:   reviewed.ID,
						YesVotes:   yes,
						Votes:      votes,
						Detected:   majority(yes, votes),
						difficulty: pr.Difficulty,
					})
				}
			}
		}
	}
	return decisions
}

// round2 rounds half away from zero so negative values (judge bias) round
// symmetrically with positive ones.
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
