package snapshot

import "time"

const (
	fallbackShoppingFlavor = "Sabor nao identificado"
	fallbackSlotFlavor     = "Sabor nao definido"
	unknownLevel           = "unknown"
)

// LevelEmpty is the stock level that makes a storage box critical.
const LevelEmpty = "empty"

// ShoppingContext is the freezer/restock snapshot the shopping report is
// generated from.
type ShoppingContext struct {
	GeneratedAt     string          `json:"generatedAt"`
	MappingSummary  MappingSummary  `json:"mappingSummary"`
	ShoppingSummary ShoppingSummary `json:"shoppingSummary"`
	Freezers        []Freezer       `json:"freezers"`
}

// MappingSummary describes how much of the freezer grid has been mapped.
type MappingSummary struct {
	TotalFreezers int `json:"totalFreezers"`
	TotalSlots    int `json:"totalSlots"`
	MappedSlots   int `json:"mappedSlots"`
}

// ShoppingLocation is a slot where a flavor was found needing restock.
type ShoppingLocation struct {
	FreezerTitle string   `json:"freezerTitle"`
	Position     int      `json:"position"`
	TopLevel     string   `json:"topLevel"`
	BottomLevel  string   `json:"bottomLevel"`
	Reasons      []string `json:"reasons"`
}

// ShoppingItem is one flavor to buy with its low-stock locations.
type ShoppingItem struct {
	Flavor    string             `json:"flavor"`
	Count     int                `json:"count"`
	Locations []ShoppingLocation `json:"locations"`
}

// ShoppingSummary aggregates the flavors needing purchase.
type ShoppingSummary struct {
	TotalSlotsNeedingRestock int            `json:"totalSlotsNeedingRestock"`
	TotalFlavorsToBuy        int            `json:"totalFlavorsToBuy"`
	Items                    []ShoppingItem `json:"items"`
}

// LowStockSlot is one mapped slot with low stock in a freezer.
type LowStockSlot struct {
	Position    int    `json:"position"`
	Flavor      string `json:"flavor"`
	TopLevel    string `json:"topLevel"`
	BottomLevel string `json:"bottomLevel"`
}

// Freezer is one physical freezer with its low-stock slots.
type Freezer struct {
	Title         string         `json:"title"`
	Order         int            `json:"order"`
	Capacity      int            `json:"capacity"`
	MappedSlots   int            `json:"mappedSlots"`
	LowStockSlots []LowStockSlot `json:"lowStockSlots"`
}

// NormalizeShoppingContext shapes an arbitrary decoded-JSON value into a
// ShoppingContext.
func NormalizeShoppingContext(raw any) ShoppingContext {
	source := asObject(raw)
	mapping := asObject(source["mappingSummary"])
	shopping := asObject(source["shoppingSummary"])

	generatedAt := cleanString(source["generatedAt"], "")
	if generatedAt == "" {
		generatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	items := []ShoppingItem{}
	for _, entry := range objectList(shopping["items"]) {
		locations := []ShoppingLocation{}
		for _, loc := range objectList(entry["locations"]) {
			locations = append(locations, ShoppingLocation{
				FreezerTitle: cleanString(loc["freezerTitle"], fallbackFreezer),
				Position:     nonNegative(loc["position"]),
				TopLevel:     cleanString(loc["topLevel"], unknownLevel),
				BottomLevel:  cleanString(loc["bottomLevel"], unknownLevel),
				Reasons:      stringList(loc["reasons"]),
			})
		}
		items = append(items, ShoppingItem{
			Flavor:    cleanString(entry["flavor"], fallbackShoppingFlavor),
			Count:     nonNegative(entry["count"]),
			Locations: locations,
		})
	}

	freezers := []Freezer{}
	for _, entry := range objectList(source["freezers"]) {
		slots := []LowStockSlot{}
		for _, slotEntry := range objectList(entry["lowStockSlots"]) {
			slots = append(slots, LowStockSlot{
				Position:    nonNegative(slotEntry["position"]),
				Flavor:      cleanString(slotEntry["flavor"], ""),
				TopLevel:    cleanString(slotEntry["topLevel"], unknownLevel),
				BottomLevel: cleanString(slotEntry["bottomLevel"], unknownLevel),
			})
		}
		freezers = append(freezers, Freezer{
			Title:         cleanString(entry["title"], fallbackFreezer),
			Order:         nonNegative(entry["order"]),
			Capacity:      nonNegative(entry["capacity"]),
			MappedSlots:   nonNegative(entry["mappedSlots"]),
			LowStockSlots: slots,
		})
	}

	return ShoppingContext{
		GeneratedAt: generatedAt,
		MappingSummary: MappingSummary{
			TotalFreezers: nonNegative(mapping["totalFreezers"]),
			TotalSlots:    nonNegative(mapping["totalSlots"]),
			MappedSlots:   nonNegative(mapping["mappedSlots"]),
		},
		ShoppingSummary: ShoppingSummary{
			TotalSlotsNeedingRestock: nonNegative(shopping["totalSlotsNeedingRestock"]),
			TotalFlavorsToBuy:        nonNegative(shopping["totalFlavorsToBuy"]),
			Items:                    items,
		},
		Freezers: freezers,
	}
}

// BottomEmptyItems returns the flavors with at least one location whose
// lower storage box is empty. These must appear in any purchasing report.
func (c ShoppingContext) BottomEmptyItems() []ShoppingItem {
	var critical []ShoppingItem
	for _, item := range c.ShoppingSummary.Items {
		for _, loc := range item.Locations {
			if loc.BottomLevel == LevelEmpty {
				critical = append(critical, item)
				break
			}
		}
	}
	return critical
}
