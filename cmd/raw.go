package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/arenahq/arena/internal/executor"
	"github.com/arenahq/arena/internal/phases"
)

var rawCmd = &cobra.Command{
	Use:   "raw",
	Short: "Run raw reviews: each model reviews each hard PR through its own CLI",
	Long: `Run the raw review phase. Each model's CLI is invoked directly with the
review prompt and PR URL, bypassing the orchestration framework. This
measures bare review capability without shared context gathering.

Responses that are access errors rather than reviews fail validation and
are retried on the next run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		summary := a.runPhase(cmd.Context(), "Raw", func(ctx context.Context, r *phases.Runner) executor.Summary {
			return r.Raw(ctx)
		})
		return failErr(summary)
	},
}

func init() {
	rootCmd.AddCommand(rawCmd)
}
