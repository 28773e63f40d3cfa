// internal/tui/status.go
package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/fraudcheck/internal/api"
	"github.com/mwiater/fraudcheck/internal/appconfig"
	"github.com/mwiater/fraudcheck/internal/metrics"
)

// metricsStatus reports whether API calls are being recorded.
type metricsStatus string

const (
	metricsStatusOff    metricsStatus = "off"
	metricsStatusActive metricsStatus = "active"
)

// deriveMetricsStatus reports active only when metrics are enabled and the
// service chain actually contains the recording decorator.
func deriveMetricsStatus(cfg *appconfig.Config, svc api.Service) metricsStatus {
	if cfg == nil || !cfg.Metrics {
		return metricsStatusOff
	}
	for svc != nil {
		if _, ok := svc.(*metrics.Service); ok {
			return metricsStatusActive
		}
		wrapper, ok := svc.(interface{ Wrapped() api.Service })
		if !ok {
			break
		}
		next := wrapper.Wrapped()
		if next == svc {
			break
		}
		svc = next
	}
	return metricsStatusOff
}

func formatMetricsIndicator(status metricsStatus) string {
	if status == metricsStatusActive {
		return "Metrics: active"
	}
	return "Metrics: off"
}

// renderMetricsBadge returns a Lipgloss-styled badge string for the metrics status.
func renderMetricsBadge(status metricsStatus) string {
	badgeStyle := lipgloss.NewStyle().Background(lipgloss.Color("229")).Foreground(lipgloss.Color("0")).Padding(0, 1).MarginLeft(1)
	return badgeStyle.Render(formatMetricsIndicator(status))
}

// renderServiceBadge shows which prediction service the form talks to.
func renderServiceBadge(baseURL string) string {
	badgeStyle := lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	return badgeStyle.Render("Service: " + baseURL)
}
