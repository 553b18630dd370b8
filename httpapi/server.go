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


package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/remedymatch"
	"github.com/poiesic/remedymatch/core"
)

// ErrMatcherRequired is returned by NewServer when given a nil matcher.
var ErrMatcherRequired = errors.New("httpapi: matcher is required")

// Matcher is what the server needs from *remedymatch.Matcher.
type Matcher interface {
	Match(ctx context.Context, medicineName string) (*remedymatch.Report, error)
	Corpus() *core.Corpus
}

// Server exposes a Matcher over HTTP.
type Server struct {
	config  *Config
	matcher Matcher
	engine  *gin.Engine
	logger  *slog.Logger
}

// Option configures a Server.
type Option func(*Server) error

// WithConfig sets the server configuration.
// Default is DefaultConfig().
func WithConfig(cfg *Config) Option {
	return func(s *Server) error {
		if cfg == nil {
			cfg = DefaultConfig()
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		s.config = cfg
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewServer creates a server and registers its routes.
func NewServer(matcher Matcher, opts ...Option) (*Server, error) {
	if matcher == nil {
		return nil, ErrMatcherRequired
	}

	s := &Server{
		config:  DefaultConfig(),
		matcher: matcher,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "httpapi")

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	// Recovery first so panics in later middleware are caught too.
	engine.Use(recovery(s.logger), requestLogger(s.logger))

	api := engine.Group("/api", cors(s.config.AllowOrigins))
	api.GET("/get_medicine_effect", s.getMedicineEffect)
	api.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	engine.GET("/healthz", s.healthz)
	engine.NoRoute(noRoute)

	s.engine = engine
	return s, nil
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.config.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully,
// waiting up to Config.ShutdownTimeout for in-flight requests.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: s.config.ReadTimeout,
		ReadTimeout:       s.config.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("serving", "addr", ln.Addr().String(), "corpusSize", s.matcher.Corpus().Len())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
