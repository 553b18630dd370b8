package lookup

import (
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public openFDA API.
	DefaultBaseURL = "https://api.fda.gov"

	DefaultTimeout    = 10 * time.Second
	DefaultRetryDelay = 500 * time.Millisecond
)

// Config holds configuration for label sources.
type Config struct {
	// BaseURL is the root of the label API, without a trailing slash.
	// Example: "https://api.fda.gov"
	BaseURL string

	// APIKey is sent as the api_key query parameter when not empty.
	// openFDA allows a small number of anonymous requests per day.
	APIKey string

	// Timeout bounds a single request, including reading the body.
	// Default: 10s
	Timeout time.Duration

	// MaxRetries is how many times a transient failure is retried after the
	// first attempt.
	// Default: 0
	MaxRetries int

	// RetryDelay is the delay before the first retry. It doubles on each
	// subsequent retry.
	// Default: 500ms
	RetryDelay time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBaseURL sets the API root URL.
func WithBaseURL(baseURL string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = baseURL
	}
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithMaxRetries sets the number of retries for transient failures.
func WithMaxRetries(retries int) ConfigOption {
	return func(c *Config) {
		c.MaxRetries = retries
	}
}

// WithRetryDelay sets the base retry delay.
func WithRetryDelay(delay time.Duration) ConfigOption {
	return func(c *Config) {
		c.RetryDelay = delay
	}
}

// DefaultConfig returns a Config for the public openFDA API that makes a
// single attempt per lookup.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    DefaultBaseURL,
		Timeout:    DefaultTimeout,
		MaxRetries: 0,
		RetryDelay: DefaultRetryDelay,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithAPIKey(os.Getenv("OPENFDA_API_KEY")),
//	    WithMaxRetries(2),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Attempts returns the total number of attempts a lookup may make.
func (c *Config) Attempts() int {
	return c.MaxRetries + 1
}

// Normalize trims whitespace and trailing slashes from BaseURL and
// whitespace from APIKey.
func (c *Config) Normalize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.APIKey = strings.TrimSpace(c.APIKey)
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.BaseURL == "" {
		return ErrBaseURLRequired
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxRetries < 0 {
		return ErrInvalidMaxRetries
	}
	if c.RetryDelay < 0 {
		return ErrInvalidRetryDelay
	}
	return nil
}
