package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/sessenta-sabores/assistant-endpoint/internal/snapshot"
)

// Result is what the model sees back for each tool invocation. Failures are
// reported in-band so the conversation can continue.
type Result struct {
	OK    bool   `json:"ok"`
	Name  string `json:"name"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

type monthlyOrdersResult struct {
	snapshot.OrdersSummary
	ContextGeneratedAt string `json:"contextGeneratedAt"`
}

type restockResult struct {
	snapshot.FreezerSummary
	ContextGeneratedAt string `json:"contextGeneratedAt"`
}

type catalogResult struct {
	TotalItems         int                    `json:"totalItems"`
	AverageUnitPrice   float64                `json:"averageUnitPrice"`
	MinUnitPrice       float64                `json:"minUnitPrice"`
	MaxUnitPrice       float64                `json:"maxUnitPrice"`
	Items              []snapshot.CatalogItem `json:"items"`
	ContextGeneratedAt string                 `json:"contextGeneratedAt"`
}

type costEstimateResult struct {
	MonthRef                 string   `json:"monthRef"`
	EstimatedIngredientsCost float64  `json:"estimatedIngredientsCost"`
	EstimatedOperationalCost float64  `json:"estimatedOperationalCost"`
	EstimatedTotalCost       float64  `json:"estimatedTotalCost"`
	Assumptions              []string `json:"assumptions"`
	ContextGeneratedAt       string   `json:"contextGeneratedAt"`
}

// Execute runs the named tool against the normalized runtime context.
// Malformed argument JSON degrades to empty arguments instead of failing;
// only an unknown tool name produces an error result.
func Execute(name, argumentsText string, rc snapshot.RuntimeContext) Result {
	args := parseArguments(argumentsText)

	var data any
	switch name {
	case NameMonthlyOrdersSummary:
		data = monthlyOrders(rc, args)
	case NameRestockSummary:
		data = restockResult{FreezerSummary: rc.FreezerSummary, ContextGeneratedAt: rc.GeneratedAt}
	case NameItemsCatalog:
		data = itemsCatalog(rc, args)
	case NameEstimateMonthlyCost:
		data = estimateMonthlyCost(rc, args)
	default:
		return Result{OK: false, Name: name, Error: fmt.Sprintf("Tool %q nao reconhecida.", name)}
	}

	return Result{OK: true, Name: name, Data: data}
}

func parseArguments(argumentsText string) map[string]any {
	var parsed map[string]any
	if err := json.Unmarshal([]byte(argumentsText), &parsed); err != nil || parsed == nil {
		return map[string]any{}
	}
	return parsed
}

func argMonthRef(args map[string]any, fallback string) string {
	if s, ok := args["monthRef"].(string); ok {
		if trimmed := strings.TrimSpace(s); snapshot.IsValidMonthRef(trimmed) {
			return trimmed
		}
	}
	return fallback
}

func argLimit(args map[string]any) int {
	limit := 12
	switch v := args["limit"].(type) {
	case float64:
		limit = int(v)
	case string:
		var parsed float64
		if _, err := fmt.Sscanf(v, "%f", &parsed); err == nil {
			limit = int(parsed)
		}
	}
	if limit < 1 {
		return 1
	}
	if limit > 30 {
		return 30
	}
	return limit
}

func monthlyOrders(rc snapshot.RuntimeContext, args map[string]any) monthlyOrdersResult {
	summary := rc.OrdersSummary
	summary.MonthRef = argMonthRef(args, rc.OrdersSummary.MonthRef)
	return monthlyOrdersResult{OrdersSummary: summary, ContextGeneratedAt: rc.GeneratedAt}
}

func itemsCatalog(rc snapshot.RuntimeContext, args map[string]any) catalogResult {
	limit := argLimit(args)
	items := rc.ItemsSummary.Items
	if len(items) > limit {
		items = items[:limit]
	}
	return catalogResult{
		TotalItems:         rc.ItemsSummary.TotalItems,
		AverageUnitPrice:   rc.ItemsSummary.AverageUnitPrice,
		MinUnitPrice:       rc.ItemsSummary.MinUnitPrice,
		MaxUnitPrice:       rc.ItemsSummary.MaxUnitPrice,
		Items:              items,
		ContextGeneratedAt: rc.GeneratedAt,
	}
}

func estimateMonthlyCost(rc snapshot.RuntimeContext, args map[string]any) costEstimateResult {
	monthRef := argMonthRef(args, rc.OrdersSummary.MonthRef)
	ordersTotal := rc.OrdersSummary.TotalCost
	restockPressure := float64(rc.FreezerSummary.SlotsNeedingRestock)
	avgItemPrice := rc.ItemsSummary.AverageUnitPrice

	ingredients := ordersTotal
	if ingredients <= 0 {
		ingredients = math.Max(1200, round2(avgItemPrice*math.Max(4, restockPressure)*1.7))
	}
	operational := math.Max(900, round2(ingredients*0.35))

	return costEstimateResult{
		MonthRef:                 monthRef,
		EstimatedIngredientsCost: ingredients,
		EstimatedOperationalCost: operational,
		EstimatedTotalCost:       round2(ingredients + operational),
		Assumptions: []string{
			"Estimativa calculada a partir de resumo de pedidos e pressao de reposicao.",
			"Use os valores como apoio operacional, nao como fechamento contabil oficial.",
		},
		ContextGeneratedAt: rc.GeneratedAt,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
