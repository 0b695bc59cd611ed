package cmd

import (
	"github.com/spf13/cobra"

	"github.com/arenahq/arena/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Aggregate all persisted results into CSVs, summaries, and a text digest",
	Long: `Regenerate every report from the persisted results: majority-vote bug
detection rates, per-dimension review quality averages, judge self-bias,
and a human-readable summary. Reports are derived data and are rebuilt
wholesale on every invocation.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		return reportRun(a)
	},
}

func reportRun(a *app) error {
	g := &report.Generator{
		Cfg:      a.cfg,
		Manifest: a.manifest,
		Store:    a.store,
		UI:       ui,
	}
	return g.Generate()
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
