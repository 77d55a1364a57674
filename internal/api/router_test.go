package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sessenta-sabores/assistant-endpoint/internal/agent"
	"github.com/sessenta-sabores/assistant-endpoint/internal/api/handlers"
	"github.com/sessenta-sabores/assistant-endpoint/internal/config"
	"github.com/sessenta-sabores/assistant-endpoint/internal/llm"
	"github.com/sessenta-sabores/assistant-endpoint/internal/store"
)

type downChat struct{}

func (downChat) ChatCompletion(_ context.Context, _ *llm.ChatRequest) (*llm.AssistantMessage, error) {
	return nil, errors.New("connection refused")
}

func newTestRouter() http.Handler {
	cfg := &config.Config{
		Version: "1.0.0",
		Model:   config.ModelConfig{Provider: "ollama-local", Model: "qwen2.5:7b", MaxToolIterations: 4},
	}
	h := handlers.New(
		agent.NewAssistant(downChat{}, cfg.Model),
		agent.NewReporter(downChat{}, cfg.Model),
		store.NewMemoryTraceStore(),
		cfg,
	)
	return NewRouter(h)
}

func TestRouter_Routes(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/api/health", http.StatusOK},
		{http.MethodGet, "/version", http.StatusOK},
		{http.MethodPost, "/api/assistant/chat", http.StatusOK},
		{http.MethodPost, "/api/reports/shopping", http.StatusOK},
		{http.MethodPost, "/api/reports/cost", http.StatusOK},
		{http.MethodGet, "/api/traces", http.StatusOK},
		{http.MethodGet, "/nao-existe", http.StatusNotFound},
		{http.MethodGet, "/api/assistant/chat", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestRouter_NotFoundBody(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/nada", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "Route not found." {
		t.Errorf("body = %v", body)
	}
}
