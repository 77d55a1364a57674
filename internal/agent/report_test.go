package agent

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sessenta-sabores/assistant-endpoint/internal/llm"
	"github.com/sessenta-sabores/assistant-endpoint/pkg/models"
)

func shoppingContextJSON(t *testing.T) any {
	t.Helper()
	var raw any
	err := json.Unmarshal([]byte(`{
		"generatedAt": "2026-08-30T10:00:00Z",
		"mappingSummary": {"totalFreezers": 2, "totalSlots": 12, "mappedSlots": 8},
		"shoppingSummary": {
			"totalSlotsNeedingRestock": 3,
			"totalFlavorsToBuy": 2,
			"items": [
				{"flavor": "Morango", "count": 2, "locations": [
					{"freezerTitle": "Freezer 1", "position": 1, "topLevel": "full", "bottomLevel": "empty", "reasons": ["caixa de baixo vazia"]}
				]},
				{"flavor": "Chocolate", "count": 1, "locations": [
					{"freezerTitle": "Freezer 1", "position": 2, "topLevel": "quarter", "bottomLevel": "full", "reasons": ["caixa de cima em 1/4"]}
				]}
			]
		},
		"freezers": [
			{"title": "Freezer 2", "order": 2, "capacity": 6, "mappedSlots": 4, "lowStockSlots": []},
			{"title": "Freezer 1", "order": 1, "capacity": 6, "mappedSlots": 4, "lowStockSlots": [
				{"position": 2, "flavor": "Chocolate", "topLevel": "quarter", "bottomLevel": "full"},
				{"position": 1, "flavor": "Morango", "topLevel": "full", "bottomLevel": "empty"}
			]}
		]
	}`), &raw)
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return raw
}

func TestReporterRun_MandatoryBottomEmptyInclusion(t *testing.T) {
	// The model "forgets" Morango even though its lower box is empty.
	modelReport := `{"report":{
		"overview": {"totalFreezers": 2, "mappedSlots": 8, "totalSlots": 12, "slotsNeedingRestock": 3, "totalFlavorsToBuy": 2},
		"priorityPurchases": [{"flavor": "Chocolate", "priority": "baixa", "suggestedQuantity": 1, "reason": "caixa de cima em 1/4"}],
		"byFreezer": [],
		"warnings": []
	}}`
	client := &scriptedClient{t: t, replies: []*llm.AssistantMessage{{Content: modelReport}}}

	reporter := NewReporter(client, testModelConfig())
	resp, err := reporter.Run(context.Background(), shoppingContextJSON(t))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var morango *models.PriorityPurchase
	for i := range resp.Report.PriorityPurchases {
		if resp.Report.PriorityPurchases[i].Flavor == "Morango" {
			morango = &resp.Report.PriorityPurchases[i]
		}
	}
	if morango == nil {
		t.Fatalf("Morango missing from priorityPurchases: %+v", resp.Report.PriorityPurchases)
	}
	if morango.Priority != models.PriorityAlta {
		t.Errorf("Priority = %q, want alta", morango.Priority)
	}
	if morango.SuggestedQuantity != 2 {
		t.Errorf("SuggestedQuantity = %d, want context count", morango.SuggestedQuantity)
	}
	if morango.Reason != bottomEmptyCause {
		t.Errorf("Reason = %q", morango.Reason)
	}

	req := client.requests[0]
	if req.Temperature != reportTemperature {
		t.Errorf("Temperature = %v, want %v", req.Temperature, reportTemperature)
	}
	if req.MaxTokens != 500 {
		t.Errorf("MaxTokens = %d, want configured ceiling", req.MaxTokens)
	}
	if len(req.Tools) != 0 {
		t.Error("report generation must not offer tools")
	}
}

func TestReporterRun_BoostsListedBottomEmptyFlavor(t *testing.T) {
	modelReport := `{"report":{
		"priorityPurchases": [{"flavor": "morango", "priority": "baixa", "suggestedQuantity": 1, "reason": "estoque curto"}],
		"warnings": ["w1","w2","w3","w4","w5","w6","w7","w8"]
	}}`
	client := &scriptedClient{t: t, replies: []*llm.AssistantMessage{{Content: modelReport}}}

	reporter := NewReporter(client, testModelConfig())
	resp, err := reporter.Run(context.Background(), shoppingContextJSON(t))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	purchase := resp.Report.PriorityPurchases[0]
	if purchase.Priority != models.PriorityAlta {
		t.Errorf("Priority = %q, want boosted to alta", purchase.Priority)
	}
	if purchase.SuggestedQuantity != 2 {
		t.Errorf("SuggestedQuantity = %d", purchase.SuggestedQuantity)
	}
	if !strings.Contains(purchase.Reason, "Caixa de baixo vazia detectada.") {
		t.Errorf("Reason = %q, want annotation appended", purchase.Reason)
	}
	if len(resp.Report.Warnings) != maxReportWarnings {
		t.Errorf("Warnings = %d, want capped at %d", len(resp.Report.Warnings), maxReportWarnings)
	}
	// Overview fields absent from the model answer come from the context.
	if resp.Report.Overview.TotalSlots != 12 {
		t.Errorf("TotalSlots = %d", resp.Report.Overview.TotalSlots)
	}
}

func TestReporterRun_ByFreezerIsDeterministic(t *testing.T) {
	client := &scriptedClient{t: t, replies: []*llm.AssistantMessage{
		{Content: `{"report":{"byFreezer":[{"freezerName":"Inventado","order":99}]}}`},
	}}

	reporter := NewReporter(client, testModelConfig())
	resp, err := reporter.Run(context.Background(), shoppingContextJSON(t))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	byFreezer := resp.Report.ByFreezer
	if len(byFreezer) != 2 {
		t.Fatalf("len(ByFreezer) = %d, want 2", len(byFreezer))
	}
	if byFreezer[0].FreezerName != "Freezer 1" || byFreezer[1].FreezerName != "Freezer 2" {
		t.Errorf("order = %q, %q", byFreezer[0].FreezerName, byFreezer[1].FreezerName)
	}

	first := byFreezer[0]
	if len(first.SlotsNeedingRestock) != 2 {
		t.Fatalf("slots = %+v", first.SlotsNeedingRestock)
	}
	if first.SlotsNeedingRestock[0].Position != 1 {
		t.Errorf("slots not sorted by position: %+v", first.SlotsNeedingRestock)
	}
	morangoSlot := first.SlotsNeedingRestock[0]
	if morangoSlot.BoxesNeedingRestock != 1 || len(morangoSlot.Reasons) != 1 || morangoSlot.Reasons[0] != "caixa de baixo vazia" {
		t.Errorf("slot = %+v", morangoSlot)
	}
	if first.TotalBoxesNeedingRestock != 2 {
		t.Errorf("TotalBoxesNeedingRestock = %d", first.TotalBoxesNeedingRestock)
	}
	if byFreezer[1].SlotsNeedingRestock == nil || byFreezer[1].FlavorTotals == nil {
		t.Error("empty freezer must keep non-nil lists")
	}
}

func TestReporterRun_UnstructuredOutput(t *testing.T) {
	client := &scriptedClient{t: t, replies: []*llm.AssistantMessage{{Content: "nao consigo gerar json"}}}

	reporter := NewReporter(client, testModelConfig())
	if _, err := reporter.Run(context.Background(), shoppingContextJSON(t)); err != ErrUnstructuredReport {
		t.Fatalf("err = %v, want ErrUnstructuredReport", err)
	}
}

func TestFallbackShoppingReport(t *testing.T) {
	resp := FallbackShoppingReport(shoppingContextJSON(t), "connection refused")

	if resp.Provider != FallbackProvider || resp.Model != FallbackModel {
		t.Errorf("provider/model = %q/%q", resp.Provider, resp.Model)
	}
	purchases := resp.Report.PriorityPurchases
	if len(purchases) != 2 {
		t.Fatalf("purchases = %+v", purchases)
	}
	// Ranked by count descending.
	if purchases[0].Flavor != "Morango" || purchases[0].Priority != models.PriorityMedia {
		t.Errorf("first purchase = %+v", purchases[0])
	}
	if purchases[1].Flavor != "Chocolate" || purchases[1].Priority != models.PriorityBaixa {
		t.Errorf("second purchase = %+v", purchases[1])
	}

	var sawFallbackWarning, sawMappingWarning bool
	for _, w := range resp.Report.Warnings {
		if strings.HasPrefix(w, "Fallback aplicado: ") {
			sawFallbackWarning = true
		}
		if strings.Contains(w, "nao foi mapeada") {
			sawMappingWarning = true
		}
	}
	if !sawFallbackWarning || !sawMappingWarning {
		t.Errorf("Warnings = %v", resp.Report.Warnings)
	}
	if len(resp.Report.ByFreezer) != 2 {
		t.Errorf("ByFreezer = %+v", resp.Report.ByFreezer)
	}
}
