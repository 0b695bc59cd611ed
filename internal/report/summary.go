package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arenahq/arena/internal/output"
)

// generateSummaryText renders the human-readable digest to summary.txt and
// echoes it to the UI. Content is derived from the already-computed
// summaries so it stays byte-stable across re-runs.
func (g *Generator) generateSummaryText(dir string, hard map[string]*HardModelSummary,
	soft *SoftReport, bias map[string]*BiasEntry) error {

	var b strings.Builder
	rule := strings.Repeat("=", 70)
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "AI Code Review Arena - Evaluation Results Summary")
	fmt.Fprintln(&b, rule)

	if len(hard) > 0 {
		fmt.Fprintln(&b, "\n## Hard Score: Bug Detection Rate (majority vote)")
		g.writeHardTable(&b, hard)
	}
	if len(soft.Summary) > 0 {
		fmt.Fprintln(&b, "\n## Soft Score: Review Quality Rating (1-10)")
		g.writeSoftTable(&b, soft)
		if n := len(soft.Exclusions); n > 0 {
			fmt.Fprintf(&b, "\n%d malformed judge entr(ies) excluded; see soft_summary.json\n", n)
		}
	}
	if len(bias) > 0 {
		fmt.Fprintln(&b, "\n## Judge Bias Analysis (self score - others score)")
		g.writeBiasTable(&b, bias)
	}
	fmt.Fprintln(&b, "\n"+rule)

	text := b.String()
	fmt.Fprint(g.UI.Out, text)

	path := filepath.Join(dir, "summary.txt")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	g.UI.Info("  summary text: %s", path)
	return nil
}

func (g *Generator) writeHardTable(w io.Writer, hard map[string]*HardModelSummary) {
	table := output.Table(w, []string{"Source", "Model", "L1", "L2", "L3", "Overall"})
	for _, key := range sortedKeys(hard) {
		s := hard[key]
		row := []string{s.Source, s.Model}
		for _, diff := range []string{"L1", "L2", "L3"} {
			cell := s.Difficulty[diff]
			if cell == nil {
				row = append(row, "-")
				continue
			}
			row = append(row, fmt.Sprintf("%d/%d", cell.Found, cell.Total))
		}
		row = append(row, fmt.Sprintf("%.0f%% (%d/%d)", s.Overall.Rate*100, s.Overall.Found, s.Overall.Total))
		table.Append(row)
	}
	table.Render()
}

func (g *Generator) writeSoftTable(w io.Writer, soft *SoftReport) {
	headers := []string{"Model"}
	for _, d := range g.Cfg.Judge.Dimensions {
		headers = append(headers, d.Name)
	}
	headers = append(headers, "Overall", "N")

	table := output.Table(w, headers)
	for _, model := range sortedKeys(soft.Summary) {
		s := soft.Summary[model]
		row := []string{model}
		for _, d := range g.Cfg.Judge.Dimensions {
			if stats := s.Dimensions[d.ID]; stats != nil {
				row = append(row, fmt.Sprintf("%.1f", stats.Avg))
			} else {
				row = append(row, "-")
			}
		}
		row = append(row, fmt.Sprintf("%.1f", s.Overall), fmt.Sprintf("%d", s.Count))
		table.Append(row)
	}
	table.Render()
}

func (g *Generator) writeBiasTable(w io.Writer, bias map[string]*BiasEntry) {
	judges := make([]string, 0, len(bias))
	for j := range bias {
		judges = append(judges, j)
	}
	sort.Strings(judges)

	table := output.Table(w, []string{"Judge", "Self Avg", "Other Avg", "Bias"})
	for _, j := range judges {
		e := bias[j]
		sign := ""
		if e.Bias > 0 {
			sign = "+"
		}
		table.Append([]string{
			j,
			fmt.Sprintf("%.1f (n=%d)", e.SelfAvg, e.SelfCount),
			fmt.Sprintf("%.1f (n=%d)", e.OtherAvg, e.OtherCount),
			fmt.Sprintf("%s%.1f", sign, e.Bias),
		})
	}
	table.Render()
}
