// Package server provides the public entry point for initializing the
// assistant endpoint server: configuration, telemetry, the model client, the
// agents and the HTTP router, composed and ready to serve.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/sessenta-sabores/assistant-endpoint/internal/agent"
	"github.com/sessenta-sabores/assistant-endpoint/internal/api"
	"github.com/sessenta-sabores/assistant-endpoint/internal/api/handlers"
	"github.com/sessenta-sabores/assistant-endpoint/internal/config"
	"github.com/sessenta-sabores/assistant-endpoint/internal/llm"
	"github.com/sessenta-sabores/assistant-endpoint/internal/store"
	"github.com/sessenta-sabores/assistant-endpoint/internal/telemetry"
)

// Server holds the initialized assistant endpoint.
type Server struct {
	// Handler is the HTTP handler with all routes and middleware.
	Handler http.Handler

	// Traces is the in-memory trace store, exposed for inspection in tests.
	Traces store.TraceStore

	// Config is the loaded configuration.
	Config *config.Config

	// Port is the port the server should listen on.
	Port int

	// ShutdownFunc should be called on graceful shutdown to flush telemetry.
	ShutdownFunc func(context.Context) error
}

// New initializes all components from the environment and returns a ready
// Server.
func New(ctx context.Context) (*Server, error) {
	return NewWithConfig(ctx, config.Load())
}

// NewWithConfig initializes the endpoint with an explicit configuration.
func NewWithConfig(_ context.Context, cfg *config.Config) (*Server, error) {
	shutdown, err := telemetry.Init(cfg.Telemetry, cfg.Version)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	traces := store.NewMemoryTraceStore()
	client := llm.New(cfg.Model)

	log.Info().
		Str("provider", cfg.Model.Provider).
		Str("model", cfg.Model.Model).
		Str("base_url", cfg.Model.BaseURL).
		Msg("✅ Model client initialized")

	h := handlers.New(
		agent.NewAssistant(client, cfg.Model),
		agent.NewReporter(client, cfg.Model),
		traces,
		cfg,
	)

	return &Server{
		Handler:      api.NewRouter(h),
		Traces:       traces,
		Config:       cfg,
		Port:         cfg.Port,
		ShutdownFunc: shutdown,
	}, nil
}
