// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// DefaultBaseURL is the prediction service used when none is configured.
	DefaultBaseURL = "http://localhost:8000"
	// defaultRequestTimeout is the default timeout for HTTP requests.
	defaultRequestTimeout = 30 * time.Second
	// defaultLogFile is the log file used when none is configured.
	defaultLogFile = "fraudcheck.log"
)

// Config represents the top-level application configuration.
type Config struct {
	BaseURL        string `json:"baseURL" mapstructure:"baseURL"`
	TimeoutSeconds int    `json:"timeout,omitempty" mapstructure:"timeout"`
	Debug          bool   `json:"debug" mapstructure:"debug"`
	JSONMode       bool   `json:"jsonMode" mapstructure:"jsonMode"`
	ResetOnError   bool   `json:"resetOnError" mapstructure:"resetOnError"`
	Metrics        bool   `json:"metrics" mapstructure:"metrics"`
	LogFile        string `json:"logFile,omitempty" mapstructure:"logFile"`
	ConfigPath     string `json:"-" mapstructure:"-"`
}

// Defaults returns a configuration with every default applied.
func Defaults() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		TimeoutSeconds: int(defaultRequestTimeout.Seconds()),
		LogFile:        defaultLogFile,
	}
}

// RequestTimeout returns the timeout duration for HTTP requests, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return defaultLogFile
}

// Endpoint joins the base URL and an absolute path such as "/predict".
func (c Config) Endpoint(path string) string {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return base + path
}

// Validate checks that the configuration can be used to reach the service.
func (c Config) Validate() error {
	raw := strings.TrimSpace(c.BaseURL)
	if raw == "" {
		return errors.New("baseURL must not be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid baseURL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid baseURL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid baseURL %q: missing host", raw)
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout must not be negative, got %d", c.TimeoutSeconds)
	}
	return nil
}
