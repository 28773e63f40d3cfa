package fraudcheck

import (
	"context"

	"github.com/mwiater/fraudcheck/internal/tui"
	"github.com/spf13/cobra"
)

// formCmd opens the full-screen form. It is also what the bare root command runs.
var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Open the full-screen fraud detection form",
	Long:  `Open the full-screen form: the fields come from the service metadata, the result shows the predicted label, its probability and a severity bar.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runForm(cmd)
	},
}

func init() {
	rootCmd.AddCommand(formCmd)
}

func runForm(cmd *cobra.Command) error {
	cfg := GetConfig()
	ctx, cancel := context.WithCancel(commandContext(cmd))

	svc, agg := newService(cfg)
	defer flushMetrics(agg)

	return tui.StartGUI(ctx, cfg, svc, cancel)
}
