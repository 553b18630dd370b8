// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openfda

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/poiesic/remedymatch/extract"
	"github.com/poiesic/remedymatch/lookup"
)

const (
	labelPath = "/drug/label.json"

	// maxBodyBytes caps how much of a response is read. A single label is
	// well under this.
	maxBodyBytes = 8 << 20
)

// labelResponse is the subset of the label endpoint's answer the client reads.
type labelResponse struct {
	Results []labelResult `json:"results"`
}

type labelResult struct {
	IndicationsAndUsage []string `json:"indications_and_usage"`
}

// Client implements lookup.LabelSource using the openFDA API.
type Client struct {
	config     *lookup.Config
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client) error

// WithHTTPClient sets the HTTP client used for requests.
// Default is a client with no timeout of its own; Config.Timeout bounds
// every attempt.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) error {
		if httpClient == nil {
			httpClient = &http.Client{}
		}
		c.httpClient = httpClient
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger.With("component", "openfda-client")
		return nil
	}
}

// newClient is an internal constructor that returns the concrete type.
func newClient(config *lookup.Config, opts ...Option) (*Client, error) {
	if config == nil {
		config = lookup.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		config:     config,
		httpClient: &http.Client{},
		logger:     slog.Default().With("component", "openfda-client"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// NewClient creates an openFDA label source. A nil config means
// lookup.DefaultConfig(). The config is validated and normalized before use.
//
// Returns lookup.LabelSource interface to enforce abstraction.
func NewClient(config *lookup.Config, opts ...Option) (lookup.LabelSource, error) {
	return newClient(config, opts...)
}

// Indications fetches the indications and usage text for medicineName.
// Transient failures are retried up to config.MaxRetries times.
func (c *Client) Indications(ctx context.Context, medicineName string) (string, error) {
	medicineName = strings.TrimSpace(medicineName)
	if medicineName == "" {
		return "", lookup.ErrMedicineNameRequired
	}

	var indications string
	err := lookup.RetryWithBackoff(ctx, func() error {
		var err error
		indications, err = c.fetch(ctx, medicineName)
		if err != nil && !lookup.IsTransient(err) {
			return lookup.Permanent(err)
		}
		return err
	}, c.config.Attempts(), c.config.RetryDelay)
	if err != nil {
		c.logger.Debug("label lookup failed", "medicine", medicineName, "err", err)
		return "", err
	}
	return indications, nil
}

// fetch makes one request, bounded by config.Timeout.
func (c *Client) fetch(ctx context.Context, medicineName string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.labelURL(medicineName), nil)
	if err != nil {
		return "", fmt.Errorf("build label request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("requesting label", "medicine", medicineName)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", c.classify(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", c.classify(ctx, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// openFDA answers an empty search with 404 NOT_FOUND.
		return "", fmt.Errorf("%q: %w", medicineName, lookup.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", &lookup.StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var decoded labelResponse
	if err := sonic.ConfigStd.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("decode label response: %w", err)
	}
	if len(decoded.Results) == 0 {
		return "", fmt.Errorf("%q: %w", medicineName, lookup.ErrNotFound)
	}

	sections := decoded.Results[0].IndicationsAndUsage
	if len(sections) == 0 {
		c.logger.Debug("label has no indications section", "medicine", medicineName)
		return extract.NoEffectFound, nil
	}
	return sections[0], nil
}

// labelURL builds the search URL. Multi-word brand names are quoted so
// openFDA matches them as a phrase.
func (c *Client) labelURL(medicineName string) string {
	term := medicineName
	if strings.ContainsFunc(term, func(r rune) bool { return r == ' ' || r == '\t' }) {
		term = `"` + strings.ReplaceAll(term, `"`, "") + `"`
	}

	query := url.Values{}
	query.Set("search", "openfda.brand_name:"+term)
	query.Set("limit", "1")
	if c.config.APIKey != "" {
		query.Set("api_key", c.config.APIKey)
	}
	return c.config.BaseURL + labelPath + "?" + query.Encode()
}

// classify maps a transport error to lookup.ErrTimeout when the attempt ran
// out of time. Cancellation of the caller's context is returned as is.
func (c *Client) classify(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %w", lookup.ErrTimeout, err)
	}
	return fmt.Errorf("request label: %w", err)
}
