package fraudcheck

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// healthCmd calls the service banner endpoint.
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the prediction service is running",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		svc, agg := newService(cfg)
		defer flushMetrics(agg)

		msg, err := svc.Health(commandContext(cmd))
		if err != nil {
			return fmt.Errorf("service at %s is not reachable: %w", cfg.BaseURL, err)
		}

		out := cmd.OutOrStdout()
		if cfg.JSONMode {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]string{"baseURL": cfg.BaseURL, "message": msg})
		}
		fmt.Fprintf(out, "%s: %s\n", cfg.BaseURL, msg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
