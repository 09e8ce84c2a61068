// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Offerdex Contributors

package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/offerdex/offerdex/internal/tools"
	odxerr "github.com/offerdex/offerdex/pkg/errors"
	"github.com/offerdex/offerdex/pkg/health"
)

// Config holds HTTP server configuration.
type Config struct {
	ListenAddr   string
	CORSOrigins  []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// ProviderHealth, when set, adds embedding provider availability to
	// the health endpoint.
	ProviderHealth func() health.Metrics
}

// Server wraps a chi router with a huma API over the query engine.
type Server struct {
	router   chi.Router
	api      huma.API
	cfg      Config
	engine   tools.QueryEngine
	registry *tools.Registry
	logger   *slog.Logger
}

// New creates a Server with chi router, huma API, health endpoint, and the
// catalog query routes.
func New(cfg Config, eng tools.QueryEngine, logger *slog.Logger) (*Server, error) {
	if cfg.ListenAddr == "" {
		return nil, odxerr.New(odxerr.CodeServerStartFailure, "listen address is required")
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(corsMiddleware(cfg.CORSOrigins))

	humaConfig := huma.DefaultConfig("Offerdex", "0.1.0")
	humaConfig.Info.Description = "Affiliate product catalog search API"
	api := humachi.New(r, humaConfig)

	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"system"},
	}, func(_ context.Context, _ *struct{}) (*HealthResponse, error) {
		body := HealthBody{Status: "ok"}
		if cfg.ProviderHealth != nil {
			m := cfg.ProviderHealth()
			body.Provider = &m
		}
		return &HealthResponse{Body: body}, nil
	})

	srv := &Server{
		router:   r,
		api:      api,
		cfg:      cfg,
		engine:   eng,
		registry: tools.NewRegistry(eng),
		logger:   logger,
	}
	srv.registerRoutes()

	return srv, nil
}

// Handler returns the underlying http.Handler for testing.
func (s *Server) Handler() http.Handler {
	return s.router
}

// API returns the huma API for registering additional operations.
func (s *Server) API() huma.API {
	return s.api
}

// Start runs the HTTP server and blocks until the context is cancelled,
// then performs graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return odxerr.Wrapf(err, odxerr.CodeServerStartFailure, "listening on %s", s.cfg.ListenAddr)
	}
	s.logger.Info("http server listening", "addr", ln.Addr().String())

	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return odxerr.Wrap(err, odxerr.CodeServerInternalFailure, "shutting down")
	}

	return <-errCh
}

// HealthBody is the JSON body of the health endpoint response.
type HealthBody struct {
	Status   string          `json:"status" example:"ok" doc:"Health status"`
	Provider *health.Metrics `json:"provider,omitempty" doc:"Embedding provider availability"`
}

// HealthResponse wraps the health check response.
type HealthResponse struct {
	Body HealthBody
}

func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	})
}
