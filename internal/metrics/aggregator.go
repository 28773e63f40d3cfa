// internal/metrics/aggregator.go
package metrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mwiater/fraudcheck/internal/logging"
)

// Aggregator collects call statistics per service endpoint.
type Aggregator struct {
	mutex   sync.Mutex
	metrics map[string]*EndpointStats
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{metrics: make(map[string]*EndpointStats)}
}

// Record adds one call outcome for endpoint.
func (a *Aggregator) Record(endpoint string, elapsed time.Duration, err error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	stats, exists := a.metrics[endpoint]
	if !exists {
		stats = &EndpointStats{Endpoint: endpoint}
		a.metrics[endpoint] = stats
	}
	stats.TotalRequests++
	if err != nil {
		stats.Failures++
	}
	stats.LatencyMillis.add(float64(elapsed.Microseconds()) / 1000)
}

// Snapshot returns a copy of the statistics sorted by endpoint.
func (a *Aggregator) Snapshot() []EndpointStats {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	out := make([]EndpointStats, 0, len(a.metrics))
	for _, stats := range a.metrics {
		out = append(out, *stats)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Endpoint < out[j].Endpoint })
	return out
}

// Summary renders one line per endpoint.
func (a *Aggregator) Summary() string {
	snapshot := a.Snapshot()
	if len(snapshot) == 0 {
		return "no service calls recorded"
	}
	lines := make([]string, 0, len(snapshot))
	for _, s := range snapshot {
		lines = append(lines, fmt.Sprintf(
			"%s requests=%d failures=%d latency_ms[mean=%.1f min=%.1f max=%.1f sd=%.1f]",
			s.Endpoint, s.TotalRequests, s.Failures,
			s.LatencyMillis.Mean, s.LatencyMillis.Min, s.LatencyMillis.Max, s.LatencyMillis.StdDev(),
		))
	}
	return strings.Join(lines, "\n")
}

// LogSummary writes the summary to the application log.
func (a *Aggregator) LogSummary() {
	for _, line := range strings.Split(a.Summary(), "\n") {
		logging.LogEvent("[METRICS] %s", line)
	}
}
