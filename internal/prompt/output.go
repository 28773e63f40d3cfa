package prompt

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/mwiater/fraudcheck/internal/result"
)

var (
	lowTier    = color.New(color.FgGreen).SprintFunc()
	mediumTier = color.New(color.FgYellow).SprintFunc()
	highTier   = color.New(color.FgRed, color.Bold).SprintFunc()
	errorText  = color.New(color.FgRed).SprintFunc()
)

func paintTier(t result.Tier, text string) string {
	switch t {
	case result.TierLow:
		return lowTier(text)
	case result.TierMedium:
		return mediumTier(text)
	default:
		return highTier(text)
	}
}

// PrintResult writes the label, the two-decimal probability and a bar
// coloured by severity tier.
func PrintResult(out io.Writer, pred result.Prediction, width int) {
	tier := pred.Tier()
	fmt.Fprintln(out, pred.LabelLine())
	fmt.Fprintln(out, pred.ProbabilityLine())
	fmt.Fprintf(out, "%s %s\n", result.Bar(pred, width), paintTier(tier, fmt.Sprintf("[%s]", tier)))
}

// PrintError writes a user-facing error line.
func PrintError(out io.Writer, msg string) {
	fmt.Fprintln(out, errorText(msg))
}
