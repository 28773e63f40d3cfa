package fraudcheck

import (
	"errors"

	"github.com/mwiater/fraudcheck/internal/logging"
	"github.com/mwiater/fraudcheck/internal/prompt"
	"github.com/mwiater/fraudcheck/internal/session"
	"github.com/spf13/cobra"
)

// promptDriver is replaced in tests.
var promptDriver prompt.Driver

// promptCmd asks for each field on the terminal, one question at a time.
var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Fill the form with line-by-line prompts",
	Long:  `Ask for every field in metadata order, submit the record and print the prediction. Repeat until you decline another record.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		svc, agg := newService(cfg)
		defer flushMetrics(agg)

		state := session.New(session.WithResetOnError(cfg.ResetOnError))
		runner := prompt.New(svc, state, cmd.OutOrStdout(), prompt.WithDriver(promptDriver))
		err := runner.Run(commandContext(cmd))
		if errors.Is(err, prompt.ErrAborted) {
			logging.LogEvent("prompt session aborted by user")
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(promptCmd)
}
