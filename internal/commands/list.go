package fraudcheck

import (
	"github.com/spf13/cobra"
)

// listCmd is the parent command for listing resources.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Group commands for listing resources",
	Long:  `The 'list' command groups subcommands that list resources related to fraudcheck.`,
}

func init() {
	rootCmd.AddCommand(listCmd)
}
