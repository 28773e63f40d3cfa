// Package prompt runs the form as a sequence of line-oriented terminal
// prompts: one question per field, then the prediction.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mwiater/fraudcheck/internal/api"
	"github.com/mwiater/fraudcheck/internal/form"
	"github.com/mwiater/fraudcheck/internal/result"
	"github.com/mwiater/fraudcheck/internal/session"
)

// Runner drives one prompt session against the service.
type Runner struct {
	driver   Driver
	svc      api.Service
	state    *session.State
	out      io.Writer
	barWidth int
}

// Option configures a Runner.
type Option func(*Runner)

// WithDriver replaces the survey driver.
func WithDriver(d Driver) Option {
	return func(r *Runner) { r.driver = d }
}

// WithBarWidth sets the width of the result bar.
func WithBarWidth(width int) Option {
	return func(r *Runner) { r.barWidth = width }
}

// New builds a Runner writing results to out.
func New(svc api.Service, state *session.State, out io.Writer, opts ...Option) *Runner {
	r := &Runner{
		svc:      svc,
		state:    state,
		out:      out,
		barWidth: result.DefaultBarWidth,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver()
	}
	return r
}

// Run loads the metadata once, then asks for every field, submits and prints
// the outcome until the user declines another record.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.state.Load(ctx, r.svc); err != nil {
		PrintError(r.out, r.state.Err)
		return err
	}

	for {
		if err := r.fill(ctx); err != nil {
			return err
		}

		err := r.state.Submit(ctx, r.svc)
		var missing *form.MissingError
		switch {
		case errors.As(err, &missing):
			_ = r.driver.Info(ctx, fmt.Sprintf("Required: %s", strings.Join(missing.Fields, ", ")))
			continue
		case err != nil:
			PrintError(r.out, r.state.Err)
		default:
			PrintResult(r.out, *r.state.Prediction, r.barWidth)
		}

		again, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Submit another record?"})
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
		if r.state.Err == "" {
			r.state.Reset()
		}
	}
}

// fill asks for every field in render order, offering the current value as
// the default.
func (r *Runner) fill(ctx context.Context) error {
	for _, field := range r.state.Metadata.Fields() {
		var (
			value string
			err   error
		)
		if field.Kind() == form.KindSelect {
			value, err = r.askSelect(ctx, field)
		} else {
			value, err = r.askText(ctx, field)
		}
		if err != nil {
			return err
		}
		if err := r.state.Set(field.Name, value); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) askText(ctx context.Context, field form.Field) (string, error) {
	for {
		value, err := r.driver.Input(ctx, InputConfig{
			Message:   label(field),
			Default:   r.state.Form.Value(field.Name),
			Validator: required,
		})
		if err != nil {
			return "", err
		}
		if required(value) != nil {
			_ = r.driver.Info(ctx, fmt.Sprintf("%s is required", field.Name))
			continue
		}
		return value, nil
	}
}

func (r *Runner) askSelect(ctx context.Context, field form.Field) (string, error) {
	choices := field.Choices()
	options := make([]string, len(choices))
	defaultIdx := 0
	current := r.state.Form.Value(field.Name)
	for i, c := range choices {
		options[i] = c.Label
		if current != "" && c.Value == current {
			defaultIdx = i
		}
	}

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      label(field),
			Options:      options,
			DefaultIndex: defaultIdx,
		})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(choices) || choices[idx].Value == "" {
			_ = r.driver.Info(ctx, fmt.Sprintf("%s is required", field.Name))
			continue
		}
		return choices[idx].Value, nil
	}
}

func label(field form.Field) string {
	return field.Name + " *"
}

func required(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New("this field is required")
	}
	return nil
}
