package metrics

import "math"

// EndpointStats aggregates the calls made to one service endpoint.
type EndpointStats struct {
	Endpoint      string      `json:"endpoint"`
	TotalRequests int64       `json:"total_requests"`
	Failures      int64       `json:"failures"`
	LatencyMillis RunningStat `json:"latency_ms"`
}

// RunningStat holds running statistics for a single metric.
// It uses Welford's online algorithm for calculating mean and standard deviation.
type RunningStat struct {
	Count int64   `json:"count"`
	Mean  float64 `json:"mean"`
	M2    float64 `json:"m2"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// StdDev returns the sample standard deviation, or 0 with fewer than two samples.
func (rs RunningStat) StdDev() float64 {
	if rs.Count < 2 {
		return 0
	}
	return math.Sqrt(rs.M2 / float64(rs.Count-1))
}

// add folds a new value into the running statistic.
func (rs *RunningStat) add(value float64) {
	rs.Count++
	if rs.Count == 1 {
		rs.Min = value
		rs.Max = value
	} else {
		if value < rs.Min {
			rs.Min = value
		}
		if value > rs.Max {
			rs.Max = value
		}
	}

	delta := value - rs.Mean
	rs.Mean += delta / float64(rs.Count)
	delta2 := value - rs.Mean
	rs.M2 += delta * delta2
}
