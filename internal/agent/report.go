package agent

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/sessenta-sabores/assistant-endpoint/internal/config"
	"github.com/sessenta-sabores/assistant-endpoint/internal/llm"
	"github.com/sessenta-sabores/assistant-endpoint/internal/snapshot"
	"github.com/sessenta-sabores/assistant-endpoint/pkg/models"
)

const (
	reportTemperature    = 0.15
	reportMinMaxTokens   = 450
	reportMessagePrefix  = "Contexto para relatorio de compras:\n"
	itemFlavorFallback   = "Sabor nao identificado"
	defaultPurchaseCause = "Prioridade definida pela recorrencia de reposicao."
	bottomEmptyCause     = "Incluido automaticamente: caixa de baixo vazia detectada."
	maxReportWarnings    = 6
)

// ErrUnstructuredReport means the model answered but no JSON report could be
// extracted from its output.
var ErrUnstructuredReport = errors.New("Modelo nao retornou JSON valido para relatorio de compras.")

// Reporter generates the structured purchasing report for the store.
type Reporter struct {
	client ChatClient
	cfg    config.ModelConfig
}

// NewReporter builds the shopping report generator.
func NewReporter(client ChatClient, cfg config.ModelConfig) *Reporter {
	return &Reporter{client: client, cfg: cfg}
}

// Run asks the model for a purchasing report over the freezer context and
// normalizes the answer. Report generation runs colder than chat and with a
// raised token ceiling so the JSON never gets truncated mid-structure.
func (r *Reporter) Run(ctx context.Context, rawContext any) (*models.ShoppingReportResponse, error) {
	sc := snapshot.NormalizeShoppingContext(rawContext)

	contextJSON, err := json.Marshal(sc)
	if err != nil {
		return nil, err
	}

	maxTokens := r.cfg.MaxTokens
	if maxTokens < reportMinMaxTokens {
		maxTokens = reportMinMaxTokens
	}

	reply, err := r.client.ChatCompletion(ctx, &llm.ChatRequest{
		Model:       r.cfg.Model,
		Temperature: reportTemperature,
		TopP:        r.cfg.TopP,
		MaxTokens:   maxTokens,
		Messages: []llm.Message{
			{Role: "system", Content: shoppingReportPrompt()},
			{Role: "user", Content: reportMessagePrefix + string(contextJSON)},
		},
	})
	if err != nil {
		return nil, err
	}

	parsed, ok := extractJSONCandidate(reply.Content)
	if !ok {
		return nil, ErrUnstructuredReport
	}

	return &models.ShoppingReportResponse{
		Report:      normalizeReportPayload(parsed, sc),
		Provider:    r.cfg.Provider,
		Model:       r.cfg.Model,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// normalizeReportPayload repairs the model's report field by field and
// enforces the mandatory rule: every flavor with an empty lower box appears
// in priorityPurchases at high priority.
func normalizeReportPayload(root map[string]any, sc snapshot.ShoppingContext) models.ShoppingReport {
	report, _ := root["report"].(map[string]any)
	overview, _ := report["overview"].(map[string]any)

	purchases := []models.PriorityPurchase{}
	if entries, ok := report["priorityPurchases"].([]any); ok {
		for _, raw := range entries {
			entry, isObject := raw.(map[string]any)
			if !isObject {
				continue
			}
			flavor := textOr(entry["flavor"], itemFlavorFallback)
			countFromContext := 1
			if item, found := findContextItem(sc, flavor); found && item.Count > 1 {
				countFromContext = item.Count
			}
			quantity := intOr(entry["suggestedQuantity"], countFromContext)
			if quantity < 1 {
				quantity = 1
			}
			purchases = append(purchases, models.PriorityPurchase{
				Flavor:            flavor,
				Priority:          normalizePriority(entry["priority"]),
				SuggestedQuantity: quantity,
				Reason:            textOr(entry["reason"], defaultPurchaseCause),
			})
		}
	}

	purchases = enforceBottomEmptyRule(purchases, sc)

	warnings := []string{}
	if entries, ok := report["warnings"].([]any); ok {
		for _, raw := range entries {
			if s, isString := raw.(string); isString {
				if trimmed := strings.TrimSpace(s); trimmed != "" {
					warnings = append(warnings, trimmed)
				}
			}
			if len(warnings) == maxReportWarnings {
				break
			}
		}
	}

	return models.ShoppingReport{
		Overview: models.ReportOverview{
			TotalFreezers:       clampInt(overview["totalFreezers"], sc.MappingSummary.TotalFreezers),
			MappedSlots:         clampInt(overview["mappedSlots"], sc.MappingSummary.MappedSlots),
			TotalSlots:          clampInt(overview["totalSlots"], sc.MappingSummary.TotalSlots),
			SlotsNeedingRestock: clampInt(overview["slotsNeedingRestock"], sc.ShoppingSummary.TotalSlotsNeedingRestock),
			TotalFlavorsToBuy:   clampInt(overview["totalFlavorsToBuy"], sc.ShoppingSummary.TotalFlavorsToBuy),
		},
		PriorityPurchases: purchases,
		ByFreezer:         buildByFreezer(sc),
		Warnings:          warnings,
	}
}

// enforceBottomEmptyRule guarantees every flavor with an empty lower box is
// present: missing flavors are appended at high priority, already-listed ones
// are boosted and annotated.
func enforceBottomEmptyRule(purchases []models.PriorityPurchase, sc snapshot.ShoppingContext) []models.PriorityPurchase {
	for _, critical := range sc.BottomEmptyItems() {
		index := -1
		for i, purchase := range purchases {
			if strings.EqualFold(purchase.Flavor, critical.Flavor) {
				index = i
				break
			}
		}

		if index == -1 {
			quantity := critical.Count
			if quantity < 1 {
				quantity = 1
			}
			purchases = append(purchases, models.PriorityPurchase{
				Flavor:            critical.Flavor,
				Priority:          models.PriorityAlta,
				SuggestedQuantity: quantity,
				Reason:            bottomEmptyCause,
			})
			continue
		}

		current := purchases[index]
		current.Priority = models.PriorityFromScore(max(current.Priority.Score(), models.PriorityAlta.Score()))
		if critical.Count > current.SuggestedQuantity {
			current.SuggestedQuantity = critical.Count
		}
		if current.SuggestedQuantity < 1 {
			current.SuggestedQuantity = 1
		}
		if !strings.Contains(strings.ToLower(current.Reason), "baixo") {
			current.Reason += " Caixa de baixo vazia detectada."
		}
		purchases[index] = current
	}
	return purchases
}

func findContextItem(sc snapshot.ShoppingContext, flavor string) (snapshot.ShoppingItem, bool) {
	for _, item := range sc.ShoppingSummary.Items {
		if strings.EqualFold(item.Flavor, flavor) {
			return item, true
		}
	}
	return snapshot.ShoppingItem{}, false
}

func normalizePriority(v any) models.PurchasePriority {
	if s, ok := v.(string); ok {
		switch models.PurchasePriority(s) {
		case models.PriorityAlta, models.PriorityMedia, models.PriorityBaixa:
			return models.PurchasePriority(s)
		}
	}
	return models.PriorityMedia
}

func textOr(v any, fallback string) string {
	if s, ok := v.(string); ok {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

// intOr truncates a decoded JSON number or numeric string, falling back on
// anything unparseable.
func intOr(v any, fallback int) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case string:
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return int(parsed)
		}
	}
	return fallback
}

func clampInt(v any, fallback int) int {
	n := intOr(v, fallback)
	if n < 0 {
		return 0
	}
	return n
}
