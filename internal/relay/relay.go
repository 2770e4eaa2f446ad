// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neobot Contributors

// Package relay implements the assistant HTTP service the editor client
// talks to. It owns session state and conversation history; the client
// stays stateless beyond its document-to-session map.
package relay

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/jackeddaniel/neobot/internal/provider"
	"github.com/jackeddaniel/neobot/internal/store"
	neoerr "github.com/jackeddaniel/neobot/pkg/errors"
)

// Upstream deadlines. Explanations are prose and come back quickly; code
// rewrites get more room.
const (
	explainTimeout  = 40 * time.Second
	mutationTimeout = 60 * time.Second
)

// Config holds relay HTTP server configuration.
type Config struct {
	ListenAddr   string
	CORSOrigins  []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server wraps a chi router with the huma API and the relay's dependencies.
type Server struct {
	router    chi.Router
	api       huma.API
	cfg       Config
	sessions  store.SessionStore
	generator provider.Generator
}

// New creates a Server with chi router, huma API, health endpoint, and CORS.
func New(cfg Config, sessions store.SessionStore, generator provider.Generator) (*Server, error) {
	if cfg.ListenAddr == "" {
		return nil, neoerr.New(neoerr.CodeRelayStartFailure, "listen address is required")
	}
	if sessions == nil {
		return nil, neoerr.New(neoerr.CodeRelayStartFailure, "session store is required")
	}
	if generator == nil {
		return nil, neoerr.New(neoerr.CodeRelayStartFailure, "generator is required")
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		// Writes wait on the upstream model, so this must exceed the
		// longest upstream deadline.
		cfg.WriteTimeout = mutationTimeout + 30*time.Second
	}

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(corsMiddleware(cfg.CORSOrigins))

	humaConfig := huma.DefaultConfig("Neobot Relay", "0.1.0")
	humaConfig.Info.Description = "Editor assistant relay API"
	api := humachi.New(r, humaConfig)

	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"system"},
	}, func(_ context.Context, _ *struct{}) (*HealthResponse, error) {
		return &HealthResponse{Body: HealthBody{Status: "ok"}}, nil
	})

	srv := &Server{
		router:    r,
		api:       api,
		cfg:       cfg,
		sessions:  sessions,
		generator: generator,
	}
	srv.registerRoutes()

	return srv, nil
}

// Handler returns the underlying http.Handler for testing.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server and blocks until the context is cancelled,
// then performs graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return neoerr.Wrapf(err, neoerr.CodeRelayStartFailure, "listening on %s", s.cfg.ListenAddr)
	}

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
		return neoerr.Wrap(err, neoerr.CodeRelayInternalFailure, "shutting down")
	}

	return <-errCh
}

// HealthBody is the JSON body of the health endpoint response.
type HealthBody struct {
	Status string `json:"status" example:"ok" doc:"Health status"`
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
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
