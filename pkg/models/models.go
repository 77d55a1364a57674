// Package models defines the response contracts of the assistant endpoint.
//
// Every payload returned to the dashboard is fully populated: normalization
// layers substitute defaults instead of omitting fields, so clients never
// need to guard against a partial `structured` or `report` block.
package models

import "time"

// ── Assistant chat contract ─────────────────────────────────

// AssistantIntent classifies what the assistant answered about.
type AssistantIntent string

const (
	IntentCostEstimation  AssistantIntent = "cost_estimation"
	IntentRestock         AssistantIntent = "restock"
	IntentOperationalHelp AssistantIntent = "operational_help"
	IntentOther           AssistantIntent = "other"
)

// ValidIntent reports whether s is one of the fixed assistant intents.
func ValidIntent(s string) bool {
	switch AssistantIntent(s) {
	case IntentCostEstimation, IntentRestock, IntentOperationalHelp, IntentOther:
		return true
	}
	return false
}

// StructuredAnswer is the fixed-schema block the model is instructed to
// return, after validation and repair.
type StructuredAnswer struct {
	Intent             AssistantIntent `json:"intent"`
	MonthRef           string          `json:"monthRef"`
	Highlights         []string        `json:"highlights"`
	RecommendedActions []string        `json:"recommendedActions"`
	UsedTools          []string        `json:"usedTools"`
	Confidence         float64         `json:"confidence"`
}

// AssistantResponse is the full payload of POST /api/assistant/chat.
type AssistantResponse struct {
	Reply       string           `json:"reply"`
	Structured  StructuredAnswer `json:"structured"`
	Provider    string           `json:"provider"`
	Model       string           `json:"model"`
	GeneratedAt string           `json:"generatedAt"`
}

// ── Shopping report contract ────────────────────────────────

// PurchasePriority is the pt-BR priority scale used by the store staff.
type PurchasePriority string

const (
	PriorityAlta  PurchasePriority = "alta"
	PriorityMedia PurchasePriority = "media"
	PriorityBaixa PurchasePriority = "baixa"
)

// Score maps a priority to its ordering weight (alta=3 > media=2 > baixa=1).
func (p PurchasePriority) Score() int {
	switch p {
	case PriorityAlta:
		return 3
	case PriorityMedia:
		return 2
	default:
		return 1
	}
}

// PriorityFromScore is the inverse of Score.
func PriorityFromScore(score int) PurchasePriority {
	switch {
	case score >= 3:
		return PriorityAlta
	case score == 2:
		return PriorityMedia
	default:
		return PriorityBaixa
	}
}

// PriorityPurchase is one flavor the store should buy.
type PriorityPurchase struct {
	Flavor            string           `json:"flavor"`
	Priority          PurchasePriority `json:"priority"`
	SuggestedQuantity int              `json:"suggestedQuantity"`
	Reason            string           `json:"reason"`
}

// RestockSlotLine is one slot needing restock inside a freezer breakdown.
type RestockSlotLine struct {
	Position            int      `json:"position"`
	Flavor              string   `json:"flavor"`
	TopLevel            string   `json:"topLevel"`
	BottomLevel         string   `json:"bottomLevel"`
	BoxesNeedingRestock int      `json:"boxesNeedingRestock"`
	Reasons             []string `json:"reasons"`
}

// FlavorTotal aggregates restock boxes per flavor within a freezer.
type FlavorTotal struct {
	Flavor              string `json:"flavor"`
	BoxesNeedingRestock int    `json:"boxesNeedingRestock"`
}

// FreezerBreakdown is the per-freezer restock detail, ordered by freezer.
type FreezerBreakdown struct {
	FreezerName              string            `json:"freezerName"`
	Order                    int               `json:"order"`
	SlotsNeedingRestock      []RestockSlotLine `json:"slotsNeedingRestock"`
	FlavorTotals             []FlavorTotal     `json:"flavorTotals"`
	TotalBoxesNeedingRestock int               `json:"totalBoxesNeedingRestock"`
}

// ReportOverview summarizes freezer mapping coverage and restock pressure.
type ReportOverview struct {
	TotalFreezers       int `json:"totalFreezers"`
	MappedSlots         int `json:"mappedSlots"`
	TotalSlots          int `json:"totalSlots"`
	SlotsNeedingRestock int `json:"slotsNeedingRestock"`
	TotalFlavorsToBuy   int `json:"totalFlavorsToBuy"`
}

// ShoppingReport is the structured purchasing report.
type ShoppingReport struct {
	Overview          ReportOverview     `json:"overview"`
	PriorityPurchases []PriorityPurchase `json:"priorityPurchases"`
	ByFreezer         []FreezerBreakdown `json:"byFreezer"`
	Warnings          []string           `json:"warnings"`
}

// ShoppingReportResponse is the full payload of POST /api/reports/shopping.
type ShoppingReportResponse struct {
	Report      ShoppingReport `json:"report"`
	Provider    string         `json:"provider"`
	Model       string         `json:"model"`
	GeneratedAt string         `json:"generatedAt"`
}

// ── Monthly cost report contract ────────────────────────────

// CostReport is the deterministic monthly cost estimate of
// POST /api/reports/cost.
type CostReport struct {
	MonthRef           string  `json:"monthRef"`
	IngredientsCost    float64 `json:"ingredientsCost"`
	SuppliesCost       float64 `json:"suppliesCost"`
	EstimatedTotalCost float64 `json:"estimatedTotalCost"`
}

// ── Turn traces ─────────────────────────────────────────────

// TraceKind identifies which pipeline produced a trace record.
type TraceKind string

const (
	TraceAssistantChat  TraceKind = "assistant_chat"
	TraceShoppingReport TraceKind = "shopping_report"
)

// Trace records one completed assistant turn for operational inspection.
type Trace struct {
	ID         string    `json:"id"`
	Kind       TraceKind `json:"kind"`
	Provider   string    `json:"provider"`
	Model      string    `json:"model"`
	DurationMs int64     `json:"durationMs"`
	UsedTools  []string  `json:"usedTools,omitempty"`
	Fallback   bool      `json:"fallback"`
	Flagged    bool      `json:"flagged,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
