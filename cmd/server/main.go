// 60 Sabores assistant endpoint.
//
// Serves the ice-cream store dashboard with:
//   - POST /api/assistant/chat — tool-calling operational assistant
//   - POST /api/reports/shopping — structured purchasing report
//   - POST /api/reports/cost — deterministic monthly cost estimate
//   - GET /api/traces — recent assistant turn traces
//
// The model layer is any OpenAI-compatible endpoint; a local Ollama by
// default. When it is down the API still answers with fallback payloads.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sessenta-sabores/assistant-endpoint/pkg/server"
)

func main() {
	// Setup structured logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Local development convenience; absence of a .env file is fine.
	_ = godotenv.Load()

	log.Info().Msg("🍦 60 Sabores assistant endpoint starting...")

	ctx := context.Background()
	srv, err := server.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server")
	}
	defer srv.ShutdownFunc(ctx)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", srv.Port),
		Handler:      srv.Handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second, // model calls can be slow on CPU-only hosts
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("🛑 Shutting down gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info().
		Int("port", srv.Port).
		Str("model", srv.Config.Model.Model).
		Msg("🔥 Assistant endpoint ready")

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
