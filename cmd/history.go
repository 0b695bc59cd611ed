package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arenahq/arena/internal/output"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show recent phase runs from the run ledger",
	Long: `Without arguments, list recent phase runs with their outcome counts.
With a run id, list every task attempt recorded for that run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		if a.ledger == nil {
			return fmt.Errorf("run ledger is not available")
		}

		if len(args) == 1 {
			return historyAttemptsRun(cmd, a, args[0])
		}
		return historyRunsRun(cmd, a)
	},
}

func historyRunsRun(cmd *cobra.Command, a *app) error {
	runs, err := a.ledger.ListRuns(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		ui.Info("No runs recorded yet.")
		return nil
	}

	table := ui.Table([]string{"Run", "Phase", "Started", "Duration", "Completed", "Skipped", "Failed"})
	for _, r := range runs {
		duration := "-"
		if r.FinishedAt != nil {
			duration = output.Elapsed(r.FinishedAt.Sub(r.StartedAt))
		}
		failed := fmt.Sprintf("%d", r.Failed)
		if r.Failed > 0 {
			failed = output.Red(failed)
		}
		table.Append([]string{
			r.ID, r.Phase, r.StartedAt.Format("2006-01-02 15:04:05"), duration,
			fmt.Sprintf("%d", r.Completed), fmt.Sprintf("%d", r.Skipped), failed,
		})
	}
	table.Render()
	return nil
}

func historyAttemptsRun(cmd *cobra.Command, a *app, runID string) error {
	attempts, err := a.ledger.ListAttempts(cmd.Context(), runID)
	if err != nil {
		return err
	}
	if len(attempts) == 0 {
		ui.Info("No attempts recorded for run %s.", runID)
		return nil
	}

	table := ui.Table([]string{"Task", "Status", "Elapsed", "Error"})
	for _, at := range attempts {
		status := at.Status
		if at.Status == "failed" {
			status = output.Red(status)
		}
		errMsg := at.Error
		if len(errMsg) > 80 {
			errMsg = errMsg[:80] + "..."
		}
		table.Append([]string{
			at.TaskKey, status,
			fmt.Sprintf("%.1fs", float64(at.ElapsedMS)/1000), errMsg,
		})
	}
	table.Render()
	return nil
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to list")
	rootCmd.AddCommand(historyCmd)
}
