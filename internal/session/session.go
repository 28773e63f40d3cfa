// internal/session/session.go

// Package session owns the application's mutable state: the loaded metadata,
// the form values, the last prediction, the user-facing error and the loading
// flag. Every change goes through one of the transition methods, so the
// full-screen UI, the prompt flow and the one-shot commands share the same
// rules.
package session

import (
	"context"
	"errors"

	"github.com/mwiater/fraudcheck/internal/form"
	"github.com/mwiater/fraudcheck/internal/logging"
	"github.com/mwiater/fraudcheck/internal/result"
)

const (
	// MetadataErrorMessage is shown when the form metadata cannot be loaded.
	MetadataErrorMessage = "Failed to load metadata. Please try again later."
	// PredictionErrorMessage is shown when a prediction request fails.
	PredictionErrorMessage = "Failed to get prediction. Please try again."
)

var (
	// ErrNotReady is returned by BeginSubmit before metadata has loaded.
	ErrNotReady = errors.New("form metadata not loaded")
	// ErrInFlight is returned by BeginSubmit while a submission is pending.
	ErrInFlight = errors.New("a prediction request is already in flight")
)

// MetadataSource loads the form metadata.
type MetadataSource interface {
	Metadata(ctx context.Context) (form.Metadata, error)
}

// Predictor scores a form snapshot.
type Predictor interface {
	Predict(ctx context.Context, values form.Snapshot) (result.Prediction, error)
}

// Submission is a snapshot handed out by BeginSubmit. Its sequence number
// identifies it when the outcome is settled.
type Submission struct {
	Seq    uint64
	Values form.Snapshot
}

// State is the single owner of the session's mutable data.
type State struct {
	Metadata   form.Metadata
	Form       *form.State
	Prediction *result.Prediction
	Err        string
	Loading    bool
	Ready      bool

	seq          uint64
	resetOnError bool
}

// Option configures a State.
type Option func(*State)

// WithResetOnError clears the form values after a failed prediction instead
// of keeping them for correction.
func WithResetOnError(enabled bool) Option {
	return func(s *State) { s.resetOnError = enabled }
}

// New returns a state waiting for metadata. Until then the form has no fields.
func New(opts ...Option) *State {
	s := &State{Form: form.NewState(form.Metadata{})}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// MetadataLoaded stores the metadata and builds an empty form from it.
func (s *State) MetadataLoaded(meta form.Metadata) {
	s.Metadata = meta
	s.Form = form.NewState(meta)
	s.Ready = true
	s.Err = ""
	logging.LogEvent("metadata loaded: %d fields [%s]", meta.Len(), meta)
}

// MetadataFailed records a metadata failure. The form stays unrendered.
func (s *State) MetadataFailed(err error) {
	s.Ready = false
	s.Err = MetadataErrorMessage
	logging.LogEvent("metadata load failed: %v", err)
}

// Load fetches metadata from src and applies the outcome.
func (s *State) Load(ctx context.Context, src MetadataSource) error {
	meta, err := src.Metadata(ctx)
	if err != nil {
		s.MetadataFailed(err)
		return err
	}
	s.MetadataLoaded(meta)
	return nil
}

// Set updates one form value.
func (s *State) Set(name, value string) error {
	return s.Form.Set(name, value)
}

// BeginSubmit enters the loading state and returns the snapshot to send. It
// refuses while another submission is pending, before metadata has loaded, or
// while a required field is empty (returning a *form.MissingError).
func (s *State) BeginSubmit() (Submission, error) {
	if !s.Ready {
		return Submission{}, ErrNotReady
	}
	if s.Loading {
		return Submission{}, ErrInFlight
	}
	if err := s.Form.Validate(); err != nil {
		return Submission{}, err
	}
	s.seq++
	s.Loading = true
	s.Err = ""
	return Submission{Seq: s.seq, Values: s.Form.Snapshot()}, nil
}

// Settle applies the outcome of submission seq and always ends the loading
// state for it. Outcomes of superseded submissions (a reset happened while
// they were in flight) are dropped and Settle reports false.
func (s *State) Settle(seq uint64, pred *result.Prediction, err error) bool {
	if seq != s.seq {
		logging.LogEvent("dropping stale prediction outcome seq=%d current=%d", seq, s.seq)
		return false
	}
	s.Loading = false

	if err != nil {
		s.Err = PredictionErrorMessage
		logging.LogEvent("prediction failed: %v", err)
		if s.resetOnError {
			s.Form.Reset()
		}
		return true
	}
	if pred != nil {
		p := *pred
		s.Prediction = &p
		logging.LogEvent("prediction received: label=%s probability=%s tier=%s", p.Label, result.FormatProbability(p.Probability), p.Tier())
	}
	return true
}

// Submit runs a whole submission synchronously against p. The loading state
// is cleared on every path, including a panic inside p.
func (s *State) Submit(ctx context.Context, p Predictor) error {
	sub, err := s.BeginSubmit()
	if err != nil {
		return err
	}

	settled := false
	defer func() {
		if !settled {
			s.Settle(sub.Seq, nil, errors.New("prediction aborted"))
		}
	}()

	pred, err := p.Predict(ctx, sub.Values)
	settled = true
	if err != nil {
		s.Settle(sub.Seq, nil, err)
		return err
	}
	s.Settle(sub.Seq, &pred, nil)
	return nil
}

// Reset clears the form values, the prediction and the error, and abandons
// any submission still in flight.
func (s *State) Reset() {
	s.Form.Reset()
	s.Prediction = nil
	s.Err = ""
	s.Loading = false
	s.seq++
}
