// internal/api/client.go

// Package api is the HTTP client for the prediction service. It fetches the
// form metadata, submits a form snapshot for prediction and checks the
// service banner. Every response body is validated against a JSON schema
// before it is decoded.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mwiater/fraudcheck/internal/appconfig"
	"github.com/mwiater/fraudcheck/internal/form"
	"github.com/mwiater/fraudcheck/internal/logging"
	"github.com/mwiater/fraudcheck/internal/result"
	"github.com/mwiater/fraudcheck/internal/util"
)

const (
	// MetadataPath is the endpoint listing the form fields.
	MetadataPath = "/metadata"
	// PredictPath is the endpoint scoring a submitted record.
	PredictPath = "/predict"
	// HealthPath is the endpoint returning the service banner.
	HealthPath = "/"

	// maxErrorBody bounds, in runes, how much of a failed response is kept on StatusError.
	maxErrorBody = 512
)

// UserAgent is sent on every request. The commands package overrides it with
// the build version.
var UserAgent = "fraudcheck/dev"

// ErrInvalidResponse marks a response body that could not be decoded or did
// not match the expected shape.
var ErrInvalidResponse = errors.New("invalid response")

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned %s", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("%s returned %s: %s", e.Endpoint, e.Status, e.Body)
}

// Service is the set of calls the application makes against the prediction
// service.
type Service interface {
	// Metadata returns the form fields in render order.
	Metadata(ctx context.Context) (form.Metadata, error)
	// Predict submits a form snapshot and returns the service's prediction.
	Predict(ctx context.Context, values form.Snapshot) (result.Prediction, error)
	// Health returns the service banner message.
	Health(ctx context.Context) (string, error)
}

// Client implements Service over HTTP.
type Client struct {
	cfg     appconfig.Config
	client  *http.Client
	timeout time.Duration
}

// New constructs a Client configured with the application's base URL and
// request timeout.
func New(cfg *appconfig.Config) *Client {
	if cfg == nil {
		defaults := appconfig.Defaults()
		cfg = &defaults
	}
	timeout := cfg.RequestTimeout()
	return &Client{
		cfg:     *cfg,
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// Metadata fetches and decodes GET /metadata.
func (c *Client) Metadata(ctx context.Context) (form.Metadata, error) {
	body, err := c.do(ctx, http.MethodGet, MetadataPath, nil)
	if err != nil {
		return form.Metadata{}, err
	}
	if err := validate(metadataSchema, body); err != nil {
		return form.Metadata{}, fmt.Errorf("%s: %w", MetadataPath, err)
	}
	meta, err := form.ParseMetadata(body)
	if err != nil {
		return form.Metadata{}, fmt.Errorf("%s: %w: %v", MetadataPath, ErrInvalidResponse, err)
	}
	return meta, nil
}

// Predict posts the snapshot to /predict and decodes the prediction.
func (c *Client) Predict(ctx context.Context, values form.Snapshot) (result.Prediction, error) {
	payload, err := json.Marshal(values)
	if err != nil {
		return result.Prediction{}, fmt.Errorf("encode prediction request: %w", err)
	}
	body, err := c.do(ctx, http.MethodPost, PredictPath, payload)
	if err != nil {
		return result.Prediction{}, err
	}
	if err := validate(predictionSchema, body); err != nil {
		return result.Prediction{}, fmt.Errorf("%s: %w", PredictPath, err)
	}
	var pred result.Prediction
	if err := json.Unmarshal(body, &pred); err != nil {
		return result.Prediction{}, fmt.Errorf("%s: %w: %v", PredictPath, ErrInvalidResponse, err)
	}
	return pred, nil
}

type healthResponse struct {
	Message string `json:"message"`
}

// Health calls GET / and returns the banner message.
func (c *Client) Health(ctx context.Context) (string, error) {
	body, err := c.do(ctx, http.MethodGet, HealthPath, nil)
	if err != nil {
		return "", err
	}
	if err := validate(healthSchema, body); err != nil {
		return "", fmt.Errorf("%s: %w", HealthPath, err)
	}
	var parsed healthResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%s: %w: %v", HealthPath, ErrInvalidResponse, err)
	}
	return parsed.Message, nil
}

// do issues a single request and returns the response body of a 2xx reply.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	endpoint := c.cfg.Endpoint(path)
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logging.LogRequest("FRAUDCHECK->SERVICE", method+" "+path, requestID, payload)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	logging.LogRequest("SERVICE->FRAUDCHECK", method+" "+path, requestID, body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Endpoint:   path,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       util.TruncateRunes(strings.TrimSpace(string(body)), maxErrorBody),
		}
	}
	return body, nil
}
