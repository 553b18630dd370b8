package search

import "fmt"

const (
	// DefaultTopN is how many remedies a ranking returns by default.
	DefaultTopN = 3

	// DefaultMinScore is the similarity a remedy must exceed to be returned.
	DefaultMinScore = 0.05
)

// Config holds the ranking tunables.
type Config struct {
	// TopN is the maximum number of matches to return.
	// Default: 3
	TopN int

	// MinScore is the exclusive lower bound on match similarity.
	// Default: 0.05
	MinScore float64
}

// ConfigOption configures a Config.
type ConfigOption func(*Config)

// WithTopN sets the maximum number of matches.
func WithTopN(n int) ConfigOption {
	return func(c *Config) {
		c.TopN = n
	}
}

// WithMinScore sets the minimum similarity a match must exceed.
func WithMinScore(score float64) ConfigOption {
	return func(c *Config) {
		c.MinScore = score
	}
}

// DefaultConfig returns the default ranking configuration.
func DefaultConfig() *Config {
	return &Config{
		TopN:     DefaultTopN,
		MinScore: DefaultMinScore,
	}
}

// NewConfig returns the default configuration with opts applied.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.TopN < 1 {
		return fmt.Errorf("search config: %w (got %d)", ErrInvalidTopN, c.TopN)
	}
	if c.MinScore < 0 || c.MinScore > 1 {
		return fmt.Errorf("search config: %w (got %g)", ErrInvalidMinScore, c.MinScore)
	}
	return nil
}
