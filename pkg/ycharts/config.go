// Package ycharts provides a client for the YCharts financial-data REST API.
//
// A Client is bound to one resource type (companies, mutual funds or indicators),
// builds request URLs for the points, series, info and listing endpoints, sends them
// through an injected transport and returns the decoded JSON envelope unchanged.
// Failures are reported as *Error values wrapping one of the package sentinels.
package ycharts

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	// DefaultBaseURL is the API host prefix used when none is configured.
	DefaultBaseURL = "https://ycharts.com/api"
	// DefaultAPIVersion is the versioned path prefix appended to the base URL.
	DefaultAPIVersion = "v3"
	// DefaultTimeout is the request timeout used by LoadConfig.
	DefaultTimeout = 30 * time.Second

	// AuthHeader carries the API key on every request.
	AuthHeader = "X-YCHARTSAUTHORIZATION"
)

// Config holds configuration for the YCharts API client.
type Config struct {
	APIKey     string        `validate:"required"`     // API key for authentication
	BaseURL    string        `validate:"required,url"` // e.g. "https://ycharts.com/api"
	APIVersion string        `validate:"required"`     // e.g. "v3"
	Timeout    time.Duration `validate:"gte=0"`        // timeout for the HTTP transport built by callers
}

// LoadConfig loads YCharts configuration from environment variables,
// falling back to the public API endpoint and version.
func LoadConfig() Config {
	cfg := Config{
		APIKey:     os.Getenv("YCHARTS_API_KEY"),
		BaseURL:    os.Getenv("YCHARTS_BASE_URL"),
		APIVersion: os.Getenv("YCHARTS_API_VERSION"),
		Timeout:    DefaultTimeout,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if s := os.Getenv("YCHARTS_TIMEOUT"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			cfg.Timeout = d
		}
	}
	return cfg
}

var validate = validator.New()

// Validate reports missing or malformed configuration fields.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid ycharts config: %w", err)
	}
	return nil
}
