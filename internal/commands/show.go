package fraudcheck

import (
	"github.com/spf13/cobra"
)

// showCmd is the parent command for commands that display configuration or state.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Group commands for displaying resources",
	Long:  `The 'show' command groups subcommands that display information related to fraudcheck.`,
}

func init() {
	rootCmd.AddCommand(showCmd)
}
