// Package report folds persisted result records into detail CSVs, summary
// JSON, and a human-readable digest. Generation is a pure function of the
// checkpoint files: re-running with no new results reproduces the same
// bytes, and reports are always regenerated wholesale.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arenahq/arena/internal/checkpoint"
	"github.com/arenahq/arena/internal/config"
	"github.com/arenahq/arena/internal/output"
)

// Dir is the reports directory under the results root.
const Dir = "reports"

// Generator derives all reports from the checkpoint store.
type Generator struct {
	Cfg      *config.Config
	Manifest *config.Manifest
	Store    *checkpoint.Store
	UI       *output.UI
}

// Generate writes every report file and prints the human summary.
func (g *Generator) Generate() error {
	dir := filepath.Join(g.Store.Dir(), Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}

	g.UI.Info("[Report] generating...")

	hard, err := g.generateHard(dir)
	if err != nil {
		return err
	}
	soft, err := g.generateSoft(dir)
	if err != nil {
		return err
	}
	bias, err := g.generateBias(dir, soft)
	if err != nil {
		return err
	}
	if err := g.generateSummaryText(dir, hard, soft, bias); err != nil {
		return err
	}

	g.UI.Success("[Report] done: %s", dir)
	return nil
}

// writeJSON writes a report artifact with stable formatting. Reports are
// derived data; unlike checkpoints they are simply overwritten in place.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// writeCSV writes header+rows to path.
func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// byProvider maps orchestrator provider names back to roster model ids.
// Debate transcripts identify reviewers by provider.
func (g *Generator) byProvider() map[string]string {
	m := make(map[string]string, len(g.Cfg.Models))
	for _, model := range g.Cfg.Models {
		m[model.Provider] = model.ID
	}
	return m
}

// canonicalModel resolves a reviewer identity (model id or provider name)
// to a roster model id, or returns it unchanged when unknown.
func (g *Generator) canonicalModel(id string) string {
	if g.Cfg.Model(id) != nil {
		return id
	}
	if mid, ok := g.byProvider()[id]; ok {
		return mid
	}
	return id
}
