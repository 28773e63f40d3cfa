package fraudcheck

import (
	"github.com/k0kubun/pp"
	"github.com/mwiater/fraudcheck/internal/appconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// showConfigCmd implements the 'show config' command, which displays the current configuration settings.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON configs are loaded properly and overridden by environment variables and flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		fallback := appconfig.Config{
			BaseURL:        viper.GetString("baseURL"),
			TimeoutSeconds: viper.GetInt("timeout"),
			Debug:          viper.GetBool("debug"),
			JSONMode:       viper.GetBool("jsonMode"),
			ResetOnError:   viper.GetBool("resetOnError"),
			Metrics:        viper.GetBool("metrics"),
			LogFile:        viper.GetString("logFile"),
		}
		cfg := currentConfig
		appconfig.ShowConfig(cmd.OutOrStdout(), viper.ConfigFileUsed(), cfg, fallback)
		if DebugEnabled() {
			if cfg == nil {
				cfg = &fallback
			}
			pp.Fprintln(cmd.OutOrStdout(), *cfg)
		}
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
}
