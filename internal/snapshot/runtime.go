package snapshot

import (
	"strings"
	"time"
)

const (
	fallbackItemName   = "Item nao identificado"
	fallbackFlavorName = "Sem sabor definido"
	fallbackFreezer    = "Sem nome"
)

const maxCatalogItems = 15

// RuntimeContext is the per-request snapshot of business data the assistant
// tools answer from. It is never persisted.
type RuntimeContext struct {
	GeneratedAt    string         `json:"generatedAt"`
	OrdersSummary  OrdersSummary  `json:"ordersSummary"`
	FreezerSummary FreezerSummary `json:"freezerSummary"`
	ItemsSummary   ItemsSummary   `json:"itemsSummary"`
}

// TopItem is one of the most relevant purchase-order lines of the month.
type TopItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"lineTotal"`
}

// OrdersSummary aggregates the month's purchase orders.
type OrdersSummary struct {
	MonthRef    string    `json:"monthRef"`
	TotalOrders int       `json:"totalOrders"`
	SentOrders  int       `json:"sentOrders"`
	DraftOrders int       `json:"draftOrders"`
	TotalLines  int       `json:"totalLines"`
	TotalCost   float64   `json:"totalCost"`
	TopItems    []TopItem `json:"topItems"`
}

// RestockLocation points at one freezer slot needing restock.
type RestockLocation struct {
	Freezer  string   `json:"freezer"`
	Position int      `json:"position"`
	Reasons  []string `json:"reasons"`
}

// RestockItem is one flavor to buy, with every slot that triggered it.
type RestockItem struct {
	Flavor    string            `json:"flavor"`
	Count     int               `json:"count"`
	Locations []RestockLocation `json:"locations"`
}

// FreezerSummary aggregates freezer mapping and restock state.
type FreezerSummary struct {
	TotalFreezers       int           `json:"totalFreezers"`
	TotalSlots          int           `json:"totalSlots"`
	MappedSlots         int           `json:"mappedSlots"`
	SlotsNeedingRestock int           `json:"slotsNeedingRestock"`
	TotalFlavorsToBuy   int           `json:"totalFlavorsToBuy"`
	RestockItems        []RestockItem `json:"restockItems"`
}

// CatalogItem is one active item with its unit price.
type CatalogItem struct {
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
}

// ItemsSummary aggregates the item catalog.
type ItemsSummary struct {
	TotalItems       int           `json:"totalItems"`
	AverageUnitPrice float64       `json:"averageUnitPrice"`
	MinUnitPrice     float64       `json:"minUnitPrice"`
	MaxUnitPrice     float64       `json:"maxUnitPrice"`
	Items            []CatalogItem `json:"items"`
}

// NormalizeRuntimeContext shapes an arbitrary decoded-JSON value into a
// RuntimeContext. fallbackMonthRef must already be a valid YYYY-MM reference.
func NormalizeRuntimeContext(raw any, fallbackMonthRef string) RuntimeContext {
	source := asObject(raw)

	generatedAt := cleanString(source["generatedAt"], "")
	if generatedAt == "" {
		generatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	return RuntimeContext{
		GeneratedAt:    generatedAt,
		OrdersSummary:  normalizeOrdersSummary(source["ordersSummary"], fallbackMonthRef),
		FreezerSummary: normalizeFreezerSummary(source["freezerSummary"]),
		ItemsSummary:   normalizeItemsSummary(source["itemsSummary"]),
	}
}

func normalizeOrdersSummary(raw any, fallbackMonthRef string) OrdersSummary {
	source := asObject(raw)

	monthRef := fallbackMonthRef
	if s, ok := source["monthRef"].(string); ok && IsValidMonthRef(s) {
		monthRef = strings.TrimSpace(s)
	}

	topItems := []TopItem{}
	for _, item := range objectList(source["topItems"]) {
		topItems = append(topItems, TopItem{
			Name:      cleanString(item["name"], fallbackItemName),
			Quantity:  nonNegative(item["quantity"]),
			LineTotal: clampMoney(item["lineTotal"]),
		})
	}

	return OrdersSummary{
		MonthRef:    monthRef,
		TotalOrders: nonNegative(source["totalOrders"]),
		SentOrders:  nonNegative(source["sentOrders"]),
		DraftOrders: nonNegative(source["draftOrders"]),
		TotalLines:  nonNegative(source["totalLines"]),
		TotalCost:   clampMoney(source["totalCost"]),
		TopItems:    topItems,
	}
}

func normalizeFreezerSummary(raw any) FreezerSummary {
	source := asObject(raw)

	restockItems := []RestockItem{}
	for _, item := range objectList(source["restockItems"]) {
		locations := []RestockLocation{}
		for _, loc := range objectList(item["locations"]) {
			locations = append(locations, RestockLocation{
				Freezer:  cleanString(loc["freezer"], fallbackFreezer),
				Position: nonNegative(loc["position"]),
				Reasons:  stringList(loc["reasons"]),
			})
		}
		restockItems = append(restockItems, RestockItem{
			Flavor:    cleanString(item["flavor"], fallbackFlavorName),
			Count:     nonNegative(item["count"]),
			Locations: locations,
		})
	}

	return FreezerSummary{
		TotalFreezers:       nonNegative(source["totalFreezers"]),
		TotalSlots:          nonNegative(source["totalSlots"]),
		MappedSlots:         nonNegative(source["mappedSlots"]),
		SlotsNeedingRestock: nonNegative(source["slotsNeedingRestock"]),
		TotalFlavorsToBuy:   nonNegative(source["totalFlavorsToBuy"]),
		RestockItems:        restockItems,
	}
}

func normalizeItemsSummary(raw any) ItemsSummary {
	source := asObject(raw)

	items := []CatalogItem{}
	for _, item := range objectList(source["items"]) {
		if len(items) == maxCatalogItems {
			break
		}
		items = append(items, CatalogItem{
			Name:      cleanString(item["name"], fallbackItemName),
			UnitPrice: clampMoney(item["unitPrice"]),
		})
	}

	return ItemsSummary{
		TotalItems:       nonNegative(source["totalItems"]),
		AverageUnitPrice: clampMoney(source["averageUnitPrice"]),
		MinUnitPrice:     clampMoney(source["minUnitPrice"]),
		MaxUnitPrice:     clampMoney(source["maxUnitPrice"]),
		Items:            items,
	}
}

// clampMoney rounds to two decimals and floors negatives at zero.
func clampMoney(v any) float64 {
	m := toMoney(v)
	if m < 0 {
		return 0
	}
	return m
}
