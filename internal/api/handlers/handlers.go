// Package handlers implements the HTTP handlers of the assistant endpoint.
//
// The model-backed endpoints never surface a 5xx for model-layer failures:
// they degrade to a deterministic fallback payload and still answer 200, so
// the dashboard always has something to render.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sessenta-sabores/assistant-endpoint/internal/agent"
	"github.com/sessenta-sabores/assistant-endpoint/internal/config"
	"github.com/sessenta-sabores/assistant-endpoint/internal/guardrails"
	"github.com/sessenta-sabores/assistant-endpoint/internal/snapshot"
	"github.com/sessenta-sabores/assistant-endpoint/internal/store"
	"github.com/sessenta-sabores/assistant-endpoint/pkg/models"
)

const serviceName = "assistant-endpoint"

// Handlers bundles the agents, trace store and config behind the routes.
type Handlers struct {
	assistant *agent.Assistant
	reporter  *agent.Reporter
	traces    store.TraceStore
	cfg       *config.Config
}

// New creates the handler set.
func New(assistant *agent.Assistant, reporter *agent.Reporter, traces store.TraceStore, cfg *config.Config) *Handlers {
	return &Handlers{assistant: assistant, reporter: reporter, traces: traces, cfg: cfg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// decodeBody tolerates empty and malformed request bodies: anything that
// cannot be decoded behaves like an empty request.
func decodeBody(r *http.Request, dst any) {
	if r.Body == nil {
		return
	}
	defer r.Body.Close()
	_ = json.NewDecoder(r.Body).Decode(dst)
}

// ServiceCard handles GET / with a small self-describing payload.
func (h *Handlers) ServiceCard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":   serviceName,
		"status": "ok",
		"docs": map[string]string{
			"health":            "/api/health",
			"version":           "/version",
			"assistantChat":     "/api/assistant/chat",
			"shoppingReport":    "/api/reports/shopping",
			"monthlyCostReport": "/api/reports/cost",
			"traces":            "/api/traces",
		},
	})
}

// Health handles GET /api/health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"service":   serviceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Version handles GET /version.
func (h *Handlers) Version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": h.cfg.Version,
		"service": serviceName,
	})
}

type chatRequest struct {
	Message  string `json:"message"`
	MonthRef string `json:"monthRef"`
	Context  any    `json:"context"`
}

// AssistantChat handles POST /api/assistant/chat.
func (h *Handlers) AssistantChat(w http.ResponseWriter, r *http.Request) {
	var body chatRequest
	decodeBody(r, &body)

	monthRef := body.MonthRef
	if !snapshot.IsValidMonthRef(monthRef) {
		// Let the question itself pick the month ("mes passado", "julho de
		// 2026") before defaulting to the current one.
		monthRef = snapshot.ResolveMonthRef(body.Message, snapshot.CurrentMonthRef())
	}

	flagged := guardrails.LooksLikeInjection(body.Message)
	if flagged {
		log.Warn().Str("month_ref", monthRef).Msg("Message matches prompt injection heuristics")
	}

	start := time.Now()
	resp, err := h.assistant.Run(r.Context(), agent.ChatInput{
		Message:  body.Message,
		MonthRef: monthRef,
		Context:  body.Context,
	})
	fallback := false
	if err != nil {
		log.Error().Err(err).Msg("Assistant run failed, serving fallback")
		resp = agent.FallbackChatResponse(monthRef, err.Error())
		fallback = true
	}

	h.recordTrace(r, &models.Trace{
		Kind:       models.TraceAssistantChat,
		Provider:   resp.Provider,
		Model:      resp.Model,
		DurationMs: time.Since(start).Milliseconds(),
		UsedTools:  resp.Structured.UsedTools,
		Fallback:   fallback,
		Flagged:    flagged,
	})

	writeJSON(w, http.StatusOK, resp)
}

type shoppingRequest struct {
	Context any `json:"context"`
}

// ShoppingReport handles POST /api/reports/shopping.
func (h *Handlers) ShoppingReport(w http.ResponseWriter, r *http.Request) {
	var body shoppingRequest
	decodeBody(r, &body)

	start := time.Now()
	resp, err := h.reporter.Run(r.Context(), body.Context)
	fallback := false
	if err != nil {
		log.Error().Err(err).Msg("Shopping report failed, serving fallback")
		resp = agent.FallbackShoppingReport(body.Context, err.Error())
		fallback = true
	}

	h.recordTrace(r, &models.Trace{
		Kind:       models.TraceShoppingReport,
		Provider:   resp.Provider,
		Model:      resp.Model,
		DurationMs: time.Since(start).Milliseconds(),
		Fallback:   fallback,
	})

	writeJSON(w, http.StatusOK, resp)
}

type costRequest struct {
	MonthRef string `json:"monthRef"`
}

// CostReport handles POST /api/reports/cost with a deterministic, seeded
// estimate that needs no model at all.
func (h *Handlers) CostReport(w http.ResponseWriter, r *http.Request) {
	var body costRequest
	decodeBody(r, &body)

	monthRef := snapshot.NormalizeMonthRef(body.MonthRef)
	year, _ := strconv.Atoi(monthRef[:4])
	month, _ := strconv.Atoi(monthRef[5:])

	seed := year*53 + month*19
	ingredients := float64(2500 + seed%3500)
	supplies := float64(800 + seed%1700)

	writeJSON(w, http.StatusOK, map[string]any{
		"report": models.CostReport{
			MonthRef:           monthRef,
			IngredientsCost:    ingredients,
			SuppliesCost:       supplies,
			EstimatedTotalCost: ingredients + supplies,
		},
		"generatedAt": time.Now().UTC().Format(time.RFC3339),
	})
}

// ListTraces handles GET /api/traces.
func (h *Handlers) ListTraces(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	traces, err := h.traces.ListTraces(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to list traces."})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"traces": traces,
		"count":  len(traces),
	})
}

func (h *Handlers) recordTrace(r *http.Request, trace *models.Trace) {
	if err := h.traces.CreateTrace(r.Context(), trace); err != nil {
		log.Warn().Err(err).Msg("Failed to record trace")
	}
}
