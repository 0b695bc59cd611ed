package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arenahq/arena/internal/phases"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show per-phase completion against the full task catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}

		progress := phases.Status(a.cfg, a.manifest, a.store)

		table := ui.Table([]string{"Phase", "Done", "Total", "Progress"})
		for _, p := range progress {
			pct := "-"
			if p.Total > 0 {
				pct = fmt.Sprintf("%d%%", p.Done*100/p.Total)
			}
			table.Append([]string{p.Phase, fmt.Sprintf("%d", p.Done), fmt.Sprintf("%d", p.Total), pct})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
