package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/arenahq/arena/internal/executor"
	"github.com/arenahq/arena/internal/phases"
)

var debateNoContext bool

var debateCmd = &cobra.Command{
	Use:   "debate",
	Short: "Run multi-round debates: all models review each PR jointly",
	Long: `Run the debate phase. All participating models review each PR in one
orchestrator invocation, arguing over multiple rounds until the configured
round count or convergence.

With --no-context the orchestrator skips repository context gathering;
results land in a separate debate-nocontext tree.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		name := "Debate"
		if debateNoContext {
			name = "Debate-noctx"
		}
		summary := a.runPhase(cmd.Context(), name, func(ctx context.Context, r *phases.Runner) executor.Summary {
			return r.Debate(ctx, debateNoContext)
		})
		return failErr(summary)
	},
}

func init() {
	debateCmd.Flags().BoolVar(&debateNoContext, "no-context", false, "Skip repository context gathering")
	rootCmd.AddCommand(debateCmd)
}
