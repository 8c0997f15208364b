// Package config resolves gamma-cli settings from flags, the environment,
// .env files and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Environment keys.
const (
	EnvAPIKey           = "GAMMA_API_KEY"
	EnvBaseURL          = "GAMMA_BASE_URL"
	EnvPollInterval     = "GAMMA_POLL_INTERVAL"
	EnvPollTimeout      = "GAMMA_POLL_TIMEOUT"
	EnvRequestTimeout   = "GAMMA_REQUEST_TIMEOUT"
	EnvRateLimit        = "GAMMA_RATE_LIMIT"
	EnvLogLevel         = "GAMMA_LOG_LEVEL"
	EnvLogLevelFallback = "LOG_LEVEL"
	EnvTracingExporter  = "GAMMA_TRACING_EXPORTER"
	EnvTracingEndpoint  = "GAMMA_TRACING_ENDPOINT"
	EnvMetricsFile      = "GAMMA_METRICS_FILE"
)

// Defaults.
const (
	DefaultBaseURL        = "https://public-api.gamma.app/v1.0"
	DefaultPollInterval   = 10 * time.Second
	DefaultPollTimeout    = 300 * time.Second
	DefaultRequestTimeout = 60 * time.Second
	DefaultRateLimit      = 5.0
	DefaultLogLevel       = "warn"
)

// Config is the resolved runtime configuration.
type Config struct {
	APIKey         string
	BaseURL        string
	PollInterval   time.Duration
	PollTimeout    time.Duration
	RequestTimeout time.Duration
	// RateLimit is the client-side request budget in requests per second.
	RateLimit float64
	LogLevel  string

	TracingExporter string
	TracingEndpoint string
	MetricsFile     string

	// Sources records where each key was resolved from, for debug logging.
	Sources map[string]string
}

// Defaults returns a Config populated with built-in defaults only.
func Defaults() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		PollInterval:   DefaultPollInterval,
		PollTimeout:    DefaultPollTimeout,
		RequestTimeout: DefaultRequestTimeout,
		RateLimit:      DefaultRateLimit,
		LogLevel:       DefaultLogLevel,
		Sources:        map[string]string{},
	}
}

// RequireAPIKey fails with an *Error wrapping ErrMissingAPIKey when no key
// was resolved.  Commands that never touch the network skip this check.
func (c Config) RequireAPIKey() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return &Error{Key: EnvAPIKey, Err: ErrMissingAPIKey}
	}
	return nil
}

var errTimeoutNotPositive = errors.New("timeout must be positive")

// CheckPollWindow requires a positive interval no longer than a positive
// timeout. Errors wrap ErrInvalidValue.
func CheckPollWindow(interval, timeout time.Duration) error {
	switch {
	case interval <= 0:
		return fmt.Errorf("%w: interval must be positive, got %s", ErrInvalidValue, interval)
	case timeout <= 0:
		return fmt.Errorf("%w: %w, got %s", ErrInvalidValue, errTimeoutNotPositive, timeout)
	case interval > timeout:
		return fmt.Errorf("%w: interval %s exceeds timeout %s", ErrInvalidValue, interval, timeout)
	}
	return nil
}

// Validate checks value ranges.  It does not require an API key.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &Error{Key: EnvBaseURL, Err: fmt.Errorf("%w: %q is not an http(s) URL", ErrInvalidValue, c.BaseURL)}
	}
	if err := CheckPollWindow(c.PollInterval, c.PollTimeout); err != nil {
		key := EnvPollInterval
		if errors.Is(err, errTimeoutNotPositive) {
			key = EnvPollTimeout
		}
		return &Error{Key: key, Err: err}
	}
	if c.RequestTimeout <= 0 {
		return &Error{Key: EnvRequestTimeout, Err: fmt.Errorf("%w: must be positive, got %s", ErrInvalidValue, c.RequestTimeout)}
	}
	if c.RateLimit <= 0 {
		return &Error{Key: EnvRateLimit, Err: fmt.Errorf("%w: must be positive, got %g", ErrInvalidValue, c.RateLimit)}
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return &Error{Key: EnvLogLevel, Err: fmt.Errorf("%w: %v", ErrInvalidValue, err)}
	}
	switch c.TracingExporter {
	case "", "grpc", "http":
	default:
		return &Error{Key: EnvTracingExporter, Err: fmt.Errorf("%w: exporter must be grpc or http, got %q", ErrInvalidValue, c.TracingExporter)}
	}
	return nil
}

// MaskedAPIKey returns the key with all but the last four characters hidden.
func (c Config) MaskedAPIKey() string {
	if len(c.APIKey) <= 4 {
		return strings.Repeat("*", len(c.APIKey))
	}
	return strings.Repeat("*", len(c.APIKey)-4) + c.APIKey[len(c.APIKey)-4:]
}
