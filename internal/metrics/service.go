// internal/metrics/service.go
package metrics

import (
	"context"
	"time"

	"github.com/mwiater/fraudcheck/internal/api"
	"github.com/mwiater/fraudcheck/internal/form"
	"github.com/mwiater/fraudcheck/internal/logging"
	"github.com/mwiater/fraudcheck/internal/result"
)

// Service is a decorator that wraps an api.Service to record call metrics.
type Service struct {
	wrapped    api.Service
	aggregator *Aggregator
}

// NewService creates a metrics-enabled service that wraps an existing api.Service.
func NewService(wrapped api.Service, aggregator *Aggregator) *Service {
	logging.LogEvent("[METRICS] Wrapping service with metrics recorder")
	return &Service{wrapped: wrapped, aggregator: aggregator}
}

// Wrapped returns the decorated service.
func (s *Service) Wrapped() api.Service { return s.wrapped }

// Metadata times the call to the wrapped service.
func (s *Service) Metadata(ctx context.Context) (form.Metadata, error) {
	start := time.Now()
	meta, err := s.wrapped.Metadata(ctx)
	s.aggregator.Record(api.MetadataPath, time.Since(start), err)
	return meta, err
}

// Predict times the call to the wrapped service.
func (s *Service) Predict(ctx context.Context, values form.Snapshot) (result.Prediction, error) {
	start := time.Now()
	pred, err := s.wrapped.Predict(ctx, values)
	s.aggregator.Record(api.PredictPath, time.Since(start), err)
	return pred, err
}

// Health times the call to the wrapped service.
func (s *Service) Health(ctx context.Context) (string, error) {
	start := time.Now()
	msg, err := s.wrapped.Health(ctx)
	s.aggregator.Record(api.HealthPath, time.Since(start), err)
	return msg, err
}
