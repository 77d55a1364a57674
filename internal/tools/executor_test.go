package tools

import (
	"strings"
	"testing"

	"github.com/sessenta-sabores/assistant-endpoint/internal/snapshot"
)

func testContext() snapshot.RuntimeContext {
	return snapshot.RuntimeContext{
		GeneratedAt: "2026-08-30T12:00:00Z",
		OrdersSummary: snapshot.OrdersSummary{
			MonthRef:    "2026-08",
			TotalOrders: 3,
			TotalCost:   1530.40,
			TopItems:    []snapshot.TopItem{{Name: "Chocolate", Quantity: 10, LineTotal: 420}},
		},
		FreezerSummary: snapshot.FreezerSummary{
			TotalFreezers:       2,
			SlotsNeedingRestock: 6,
			RestockItems:        []snapshot.RestockItem{},
		},
		ItemsSummary: snapshot.ItemsSummary{
			TotalItems:       4,
			AverageUnitPrice: 38.50,
			Items: []snapshot.CatalogItem{
				{Name: "Chocolate", UnitPrice: 42},
				{Name: "Morango", UnitPrice: 39},
				{Name: "Creme", UnitPrice: 35},
				{Name: "Limao", UnitPrice: 38},
			},
		},
	}
}

func TestExecute_MonthlyOrders(t *testing.T) {
	res := Execute(NameMonthlyOrdersSummary, `{"monthRef":"2026-07"}`, testContext())
	if !res.OK {
		t.Fatalf("Execute() not ok: %+v", res)
	}
	data, ok := res.Data.(monthlyOrdersResult)
	if !ok {
		t.Fatalf("Data type = %T", res.Data)
	}
	if data.MonthRef != "2026-07" {
		t.Errorf("MonthRef = %q, want requested month", data.MonthRef)
	}
	if data.TotalCost != 1530.40 || data.ContextGeneratedAt != "2026-08-30T12:00:00Z" {
		t.Errorf("data = %+v", data)
	}
}

func TestExecute_InvalidMonthRefFallsBack(t *testing.T) {
	res := Execute(NameMonthlyOrdersSummary, `{"monthRef":"2026-13"}`, testContext())
	data := res.Data.(monthlyOrdersResult)
	if data.MonthRef != "2026-08" {
		t.Errorf("MonthRef = %q, want context month", data.MonthRef)
	}
}

func TestExecute_MalformedArgumentsStillSucceeds(t *testing.T) {
	res := Execute(NameRestockSummary, `{not json`, testContext())
	if !res.OK {
		t.Fatalf("Execute() with bad args should degrade to empty args, got %+v", res)
	}
	data := res.Data.(restockResult)
	if data.SlotsNeedingRestock != 6 {
		t.Errorf("SlotsNeedingRestock = %d", data.SlotsNeedingRestock)
	}
}

func TestExecute_CatalogLimit(t *testing.T) {
	tests := []struct {
		name string
		args string
		want int
	}{
		{"default", `{}`, 4},
		{"explicit", `{"limit": 2}`, 2},
		{"below minimum", `{"limit": 0}`, 1},
		{"above maximum", `{"limit": 99}`, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Execute(NameItemsCatalog, tt.args, testContext())
			data := res.Data.(catalogResult)
			if len(data.Items) != tt.want {
				t.Errorf("len(Items) = %d, want %d", len(data.Items), tt.want)
			}
		})
	}
}

func TestExecute_CostEstimateFromRealOrders(t *testing.T) {
	res := Execute(NameEstimateMonthlyCost, `{"monthRef":"2026-08"}`, testContext())
	data := res.Data.(costEstimateResult)
	if data.EstimatedIngredientsCost != 1530.40 {
		t.Errorf("ingredients = %v, want order total", data.EstimatedIngredientsCost)
	}
	if data.EstimatedOperationalCost != 900 {
		// 1530.40 * 0.35 = 535.64, floored at 900.
		t.Errorf("operational = %v, want 900", data.EstimatedOperationalCost)
	}
	if data.EstimatedTotalCost != 2430.40 {
		t.Errorf("total = %v", data.EstimatedTotalCost)
	}
	if len(data.Assumptions) != 2 {
		t.Errorf("Assumptions = %v", data.Assumptions)
	}
}

func TestExecute_CostEstimateSynthesized(t *testing.T) {
	rc := testContext()
	rc.OrdersSummary.TotalCost = 0

	res := Execute(NameEstimateMonthlyCost, `{}`, rc)
	data := res.Data.(costEstimateResult)
	// 38.50 * max(4, 6) * 1.7 = 392.70, floored at 1200.
	if data.EstimatedIngredientsCost != 1200 {
		t.Errorf("ingredients = %v, want floor 1200", data.EstimatedIngredientsCost)
	}
	if data.EstimatedOperationalCost != 900 {
		t.Errorf("operational = %v, want floor 900", data.EstimatedOperationalCost)
	}
	if data.MonthRef != "2026-08" {
		t.Errorf("MonthRef = %q", data.MonthRef)
	}
}

func TestExecute_UnknownTool(t *testing.T) {
	res := Execute("drop_tables", `{}`, testContext())
	if res.OK {
		t.Fatal("unknown tool must not succeed")
	}
	if !strings.Contains(res.Error, `"drop_tables"`) {
		t.Errorf("Error = %q, should name the tool", res.Error)
	}
	if res.Data != nil {
		t.Errorf("Data = %v, want nil", res.Data)
	}
}

func TestDefinitions_CoverEveryTool(t *testing.T) {
	defs := Definitions()
	if len(defs) != 4 {
		t.Fatalf("len(Definitions()) = %d, want 4", len(defs))
	}
	seen := map[string]bool{}
	for _, d := range defs {
		if d.Type != "function" {
			t.Errorf("tool %q type = %q", d.Function.Name, d.Type)
		}
		seen[d.Function.Name] = true
	}
	for _, name := range []string{NameMonthlyOrdersSummary, NameRestockSummary, NameItemsCatalog, NameEstimateMonthlyCost} {
		if !seen[name] {
			t.Errorf("missing definition for %q", name)
		}
	}
}
