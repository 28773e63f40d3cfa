package fraudcheck

import (
	"github.com/mwiater/fraudcheck/internal/api"
	"github.com/mwiater/fraudcheck/internal/appconfig"
	"github.com/mwiater/fraudcheck/internal/metrics"
)

// newService builds the API client for cfg, wrapped with the metrics
// recorder when metrics are enabled. The returned aggregator is nil otherwise.
func newService(cfg *appconfig.Config) (api.Service, *metrics.Aggregator) {
	client := api.New(cfg)
	if cfg == nil || !cfg.Metrics {
		return client, nil
	}
	agg := metrics.NewAggregator()
	return metrics.NewService(client, agg), agg
}

// flushMetrics logs the call summary when metrics were recorded.
func flushMetrics(agg *metrics.Aggregator) {
	if agg != nil {
		agg.LogSummary()
	}
}
