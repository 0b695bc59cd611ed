package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arenahq/arena/internal/catalog"
	"github.com/arenahq/arena/internal/executor"
	"github.com/arenahq/arena/internal/phases"
)

var (
	judgeSource   string
	judgeHardOnly bool
	judgeSoftOnly bool
)

var judgeCmd = &cobra.Command{
	Use:   "judge",
	Short: "Run cross-judging: hard bug verdicts and anonymized soft scores",
	Long: `Run the judging phase.

Hard judging asks every model whether every other model's review of a hard
PR found each known bug, reading reviews from the tree named by --source.
Soft judging shows each model the anonymized first-round debate reviews of
a PR and collects 1-10 scores per dimension.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		source := catalog.Source(judgeSource)
		if source != catalog.SourceRaw && source != catalog.SourceReview {
			return fmt.Errorf("invalid --source %q (want raw or review)", judgeSource)
		}
		if judgeHardOnly && judgeSoftOnly {
			return fmt.Errorf("--hard-only and --soft-only are mutually exclusive")
		}

		a, err := loadApp()
		if err != nil {
			return err
		}

		var total executor.Summary
		if !judgeSoftOnly {
			total.Merge(a.runPhase(cmd.Context(), "Judge-Hard", func(ctx context.Context, r *phases.Runner) executor.Summary {
				return r.JudgeHard(ctx, source)
			}))
		}
		if !judgeHardOnly {
			total.Merge(a.runPhase(cmd.Context(), "Judge-Soft", func(ctx context.Context, r *phases.Runner) executor.Summary {
				return r.JudgeSoft(ctx)
			}))
		}
		return failErr(total)
	},
}

func init() {
	judgeCmd.Flags().StringVar(&judgeSource, "source", "review", "Review tree hard judging reads from: raw or review")
	judgeCmd.Flags().BoolVar(&judgeHardOnly, "hard-only", false, "Run only hard judging")
	judgeCmd.Flags().BoolVar(&judgeSoftOnly, "soft-only", false, "Run only soft judging")
	rootCmd.AddCommand(judgeCmd)
}
