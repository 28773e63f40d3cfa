package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/fraudcheck/internal/result"
	"github.com/mwiater/fraudcheck/internal/util"
)

// Title is the heading of the form screen.
const Title = "Détection de Fraude Douanière"

const (
	submitLabel = "Soumettre"
	resetLabel  = "Réinitialiser"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1)
	labelStyle    = lipgloss.NewStyle().Bold(true)
	focusedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	requiredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	optionStyle   = lipgloss.NewStyle().Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230"))
	buttonStyle   = lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.RoundedBorder())
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// View renders the application's UI based on the current state of the model.
func (m *model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var b strings.Builder
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render(Title),
		" ",
		renderServiceBadge(m.config.BaseURL),
		renderMetricsBadge(m.metricsStatus),
	)
	b.WriteString(header + "\n\n")

	switch {
	case m.fetching:
		b.WriteString(fmt.Sprintf("  %s Loading form...\n", m.spinner.View()))
	case !m.state.Ready:
		// No form without metadata, only the error.
		b.WriteString(errorStyle.Render(m.wrap(m.state.Err)) + "\n")
	default:
		b.WriteString(m.formView())
	}

	b.WriteString("\n" + helpStyle.Render(m.help.View(m.keys)))
	return lipgloss.NewStyle().Margin(1, 2).Render(b.String())
}

// formView renders the controls, the buttons and the outcome area.
func (m *model) formView() string {
	var b strings.Builder

	for i, c := range m.controls {
		cursor := "  "
		label := labelStyle.Render(c.field.Name)
		if i == m.focus {
			cursor = focusedStyle.Render("> ")
			label = focusedStyle.Bold(true).Render(c.field.Name)
		}
		b.WriteString(cursor + label + requiredStyle.Render(" *") + "\n")

		if c.isSelect() {
			b.WriteString("    " + renderChoices(c) + "\n\n")
		} else {
			b.WriteString("    " + c.input.View() + "\n\n")
		}
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderButton(submitLabel, m.submitIndex()),
		" ",
		m.renderButton(resetLabel, m.resetIndex()),
	) + "\n")

	if m.hint != "" {
		b.WriteString(hintStyle.Render(m.wrap(m.hint)) + "\n")
	}

	if m.state.Loading {
		timer := fmt.Sprintf("%.1f", time.Since(m.requestStartTime).Seconds())
		b.WriteString(fmt.Sprintf("\n%s Requesting prediction... %ss\n", m.spinner.View(), timer))
	}
	if m.state.Err != "" {
		b.WriteString("\n" + errorStyle.Render(m.wrap(m.state.Err)) + "\n")
	}
	if m.state.Prediction != nil {
		b.WriteString("\n" + result.Render(*m.state.Prediction, m.barWidth()) + "\n")
	}
	return b.String()
}

func renderChoices(c control) string {
	parts := make([]string, len(c.choices))
	for i, choice := range c.choices {
		if i == c.choice {
			parts[i] = selectedStyle.Render(choice.Label)
			continue
		}
		parts[i] = optionStyle.Render(choice.Label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *model) renderButton(label string, index int) string {
	style := buttonStyle
	if m.focus == index {
		style = style.BorderForeground(lipgloss.Color("205")).Foreground(lipgloss.Color("205"))
	}
	return style.Render(label)
}

// wrap fits a message inside the screen margins.
func (m *model) wrap(msg string) string {
	return util.WrapToWidth(msg, m.width-6)
}

func (m *model) barWidth() int {
	if m.width <= 0 {
		return result.DefaultBarWidth
	}
	return max(10, min(result.DefaultBarWidth, m.width-16))
}
