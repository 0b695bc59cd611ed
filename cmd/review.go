package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/arenahq/arena/internal/executor"
	"github.com/arenahq/arena/internal/phases"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Run independent reviews: each model reviews each hard PR via the orchestrator",
	Long: `Run the single-round review phase. Each model independently reviews each
hard PR through the orchestration tool, one invocation per (PR, model).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		summary := a.runPhase(cmd.Context(), "Review", func(ctx context.Context, r *phases.Runner) executor.Summary {
			return r.Review(ctx)
		})
		return failErr(summary)
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}
