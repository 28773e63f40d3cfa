// internal/result/result.go
// Package result maps a prediction's probability to a severity tier and
// renders the label, the two-decimal probability and a proportional bar.
package result

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

const (
	// MediumThreshold is the lowest probability rendered as medium severity.
	MediumThreshold = 0.3
	// HighThreshold is the lowest probability rendered as high severity.
	HighThreshold = 0.7
	// DefaultBarWidth is the width of the progress bar when none is given.
	DefaultBarWidth = 40
)

// Prediction is the backend's answer for a submitted record.
type Prediction struct {
	Label       string  `json:"prediction"`
	Probability float64 `json:"probability"`
}

// Tier is the qualitative severity derived from a probability.
type Tier int

const (
	// TierLow covers probabilities below MediumThreshold.
	TierLow Tier = iota
	// TierMedium covers [MediumThreshold, HighThreshold).
	TierMedium
	// TierHigh covers HighThreshold and above.
	TierHigh
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierMedium:
		return "medium"
	default:
		return "high"
	}
}

// Color returns the indicator colour for the tier.
func (t Tier) Color() lipgloss.Color {
	switch t {
	case TierLow:
		return lipgloss.Color("#2e7d32")
	case TierMedium:
		return lipgloss.Color("#ed6c02")
	default:
		return lipgloss.Color("#d32f2f")
	}
}

// TierFor maps a probability to its severity tier.
func TierFor(p float64) Tier {
	switch {
	case p < MediumThreshold:
		return TierLow
	case p < HighThreshold:
		return TierMedium
	default:
		return TierHigh
	}
}

// FormatProbability renders p with exactly two decimal digits.
func FormatProbability(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}

// Fill returns the bar fill ratio for p, clamped to [0, 1].
func Fill(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Tier returns the severity tier of the prediction.
func (p Prediction) Tier() Tier { return TierFor(p.Probability) }

// LabelLine returns the "Prédiction: ..." line.
func (p Prediction) LabelLine() string {
	return fmt.Sprintf("Prédiction: %s", p.Label)
}

// ProbabilityLine returns the "Probabilité: ..." line.
func (p Prediction) ProbabilityLine() string {
	return fmt.Sprintf("Probabilité: %s", FormatProbability(p.Probability))
}

// Bar renders a progress bar of the given width filled to the prediction's
// probability and coloured by its tier.
func Bar(p Prediction, width int) string {
	if width <= 0 {
		width = DefaultBarWidth
	}
	bar := progress.New(
		progress.WithSolidFill(string(p.Tier().Color())),
		progress.WithWidth(width),
	)
	return bar.ViewAs(Fill(p.Probability))
}

// Render returns the full result block: label, probability and bar.
func Render(p Prediction, width int) string {
	labelStyle := lipgloss.NewStyle().Bold(true)
	var b strings.Builder
	b.WriteString(labelStyle.Render(p.LabelLine()))
	b.WriteString("\n")
	b.WriteString(p.ProbabilityLine())
	b.WriteString("\n")
	b.WriteString(Bar(p, width))
	return b.String()
}
