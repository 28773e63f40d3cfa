package tui

import (
	"context"
	"sync"

	"github.com/mwiater/fraudcheck/internal/form"
	"github.com/mwiater/fraudcheck/internal/result"
)

// testService is an in-memory api.Service used by the model tests.
type testService struct {
	mu      sync.Mutex
	meta    form.Metadata
	metaErr error
	pred    result.Prediction
	predErr error
	got     []form.Snapshot
}

func newTestService(meta form.Metadata) *testService {
	return &testService{meta: meta}
}

func (s *testService) Metadata(ctx context.Context) (form.Metadata, error) {
	return s.meta, s.metaErr
}

func (s *testService) Predict(ctx context.Context, values form.Snapshot) (result.Prediction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, values)
	return s.pred, s.predErr
}

func (s *testService) Health(ctx context.Context) (string, error) {
	return "Fraud Detection API is running.", nil
}
