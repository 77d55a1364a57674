package agent

import (
	"fmt"
	"sort"
	"time"

	"github.com/sessenta-sabores/assistant-endpoint/internal/snapshot"
	"github.com/sessenta-sabores/assistant-endpoint/pkg/models"
)

// Fallback responses carry a provider/model pair the dashboard recognizes as
// degraded mode.
const (
	FallbackProvider = "ollama-fallback"
	FallbackModel    = "unavailable"
)

const fallbackReason = "Falha ao conectar no modelo local."

// FallbackChatResponse is the deterministic answer served when the model
// layer is unreachable. It is always HTTP 200 material: fully populated,
// low confidence, no tools.
func FallbackChatResponse(monthRef, reason string) *models.AssistantResponse {
	if reason == "" {
		reason = fallbackReason
	}
	return &models.AssistantResponse{
		Reply: "Assistente local indisponivel no momento. Verifique se o Ollama esta ativo e tente novamente.",
		Structured: models.StructuredAnswer{
			Intent:     models.IntentOther,
			MonthRef:   snapshot.NormalizeMonthRef(monthRef),
			Highlights: []string{reason},
			RecommendedActions: []string{
				"Inicie o Ollama local.",
				"Confirme o modelo configurado em OLLAMA_MODEL.",
				"Envie a pergunta novamente.",
			},
			UsedTools:  []string{},
			Confidence: 0.2,
		},
		Provider:    FallbackProvider,
		Model:       FallbackModel,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// FallbackShoppingReport builds the purchasing report without any model help:
// flavors ranked by restock count, priorities derived from recurrence, and
// the per-freezer breakdown computed as usual.
func FallbackShoppingReport(rawContext any, reason string) *models.ShoppingReportResponse {
	sc := snapshot.NormalizeShoppingContext(rawContext)

	items := make([]snapshot.ShoppingItem, len(sc.ShoppingSummary.Items))
	copy(items, sc.ShoppingSummary.Items)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Count > items[j].Count })
	if len(items) > 10 {
		items = items[:10]
	}

	purchases := []models.PriorityPurchase{}
	for _, item := range items {
		quantity := item.Count
		if quantity < 1 {
			quantity = 1
		}
		cause := "Reposicao sugerida por falta de mapeamento detalhado."
		if len(item.Locations) > 0 {
			cause = fmt.Sprintf("Reposicao em %d caixa(s) com nivel baixo.", len(item.Locations))
		}
		purchases = append(purchases, models.PriorityPurchase{
			Flavor:            item.Flavor,
			Priority:          priorityFromCount(item.Count),
			SuggestedQuantity: quantity,
			Reason:            cause,
		})
	}

	warnings := []string{}
	switch {
	case sc.MappingSummary.MappedSlots == 0:
		warnings = append(warnings, "Nenhuma caixa foi mapeada. O relatorio tem baixa confiabilidade.")
	case sc.MappingSummary.MappedSlots < sc.MappingSummary.TotalSlots:
		warnings = append(warnings, "Parte das caixas ainda nao foi mapeada. Revise o mapeamento para melhorar o relatorio.")
	}
	if len(purchases) == 0 {
		warnings = append(warnings, "Nenhum sabor com reposicao detectada no contexto atual.")
	}
	if reason != "" {
		warnings = append(warnings, "Fallback aplicado: "+reason)
	}

	return &models.ShoppingReportResponse{
		Report: models.ShoppingReport{
			Overview: models.ReportOverview{
				TotalFreezers:       sc.MappingSummary.TotalFreezers,
				MappedSlots:         sc.MappingSummary.MappedSlots,
				TotalSlots:          sc.MappingSummary.TotalSlots,
				SlotsNeedingRestock: sc.ShoppingSummary.TotalSlotsNeedingRestock,
				TotalFlavorsToBuy:   sc.ShoppingSummary.TotalFlavorsToBuy,
			},
			PriorityPurchases: purchases,
			ByFreezer:         buildByFreezer(sc),
			Warnings:          warnings,
		},
		Provider:    FallbackProvider,
		Model:       FallbackModel,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// priorityFromCount ranks a flavor by how many slots need it.
func priorityFromCount(count int) models.PurchasePriority {
	switch {
	case count >= 3:
		return models.PriorityAlta
	case count == 2:
		return models.PriorityMedia
	default:
		return models.PriorityBaixa
	}
}
