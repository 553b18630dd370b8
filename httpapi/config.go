package httpapi

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DefaultAddr            = ":5000"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultReadTimeout     = 15 * time.Second
)

// Config holds HTTP server configuration.
type Config struct {
	// Addr is the TCP address to listen on.
	// Default: ":5000"
	Addr string

	// AllowOrigins lists the origins allowed to call /api routes. "*" allows
	// any origin.
	// Default: ["*"]
	AllowOrigins []string

	// ReadTimeout bounds reading a request, headers included.
	// Default: 15s
	ReadTimeout time.Duration

	// ShutdownTimeout bounds how long Run waits for in-flight requests once
	// its context is cancelled.
	// Default: 10s
	ShutdownTimeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithAddr sets the listen address.
func WithAddr(addr string) ConfigOption {
	return func(c *Config) {
		c.Addr = addr
	}
}

// WithAllowOrigins sets the allowed CORS origins.
func WithAllowOrigins(origins ...string) ConfigOption {
	return func(c *Config) {
		c.AllowOrigins = origins
	}
}

// WithReadTimeout sets the request read timeout.
func WithReadTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.ReadTimeout = timeout
	}
}

// WithShutdownTimeout sets the graceful shutdown timeout.
func WithShutdownTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.ShutdownTimeout = timeout
	}
}

// DefaultConfig returns a Config listening on :5000 that allows any origin.
func DefaultConfig() *Config {
	return &Config{
		Addr:            DefaultAddr,
		AllowOrigins:    []string{"*"},
		ReadTimeout:     DefaultReadTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize trims whitespace and trailing slashes from origins and drops
// empty ones.
func (c *Config) Normalize() {
	c.Addr = strings.TrimSpace(c.Addr)
	origins := make([]string, 0, len(c.AllowOrigins))
	for _, o := range c.AllowOrigins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" {
			origins = append(origins, o)
		}
	}
	c.AllowOrigins = origins
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Addr == "" {
		return errors.New("httpapi config: Addr is required")
	}
	if len(c.AllowOrigins) == 0 {
		return errors.New("httpapi config: AllowOrigins must not be empty")
	}
	for _, o := range c.AllowOrigins {
		if err := validateOrigin(o); err != nil {
			return fmt.Errorf("httpapi config: invalid origin %q: %w", o, err)
		}
	}
	if c.ReadTimeout <= 0 {
		return errors.New("httpapi config: ReadTimeout must be greater than 0")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("httpapi config: ShutdownTimeout must be greater than 0")
	}
	return nil
}

// validateOrigin accepts "*" or scheme://host[:port].
func validateOrigin(origin string) error {
	if origin == "*" {
		return nil
	}
	scheme, rest, ok := strings.Cut(origin, "://")
	if !ok || scheme == "" {
		return errors.New("origin must include scheme (http:// or https://)")
	}
	if rest == "" {
		return errors.New("origin must include a host")
	}
	if strings.ContainsAny(rest, "/?#") {
		return errors.New("origin should not include path, query, or fragment")
	}
	return nil
}
