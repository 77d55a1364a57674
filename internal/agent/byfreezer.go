package agent

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sessenta-sabores/assistant-endpoint/internal/snapshot"
	"github.com/sessenta-sabores/assistant-endpoint/pkg/models"
)

const slotFlavorFallback = "Sabor nao definido"

// slotReasons derives the pt-BR restock reasons from the box levels.
func slotReasons(topLevel, bottomLevel string) []string {
	reasons := []string{}
	if topLevel == "quarter" {
		reasons = append(reasons, "caixa de cima em 1/4")
	}
	if topLevel == snapshot.LevelEmpty {
		reasons = append(reasons, "caixa de cima vazia")
	}
	if bottomLevel == snapshot.LevelEmpty {
		reasons = append(reasons, "caixa de baixo vazia")
	}
	return reasons
}

// boxesForSlot estimates how many boxes a slot needs: one for an empty lower
// box, one for an upper box that is empty or at a quarter, never less than one.
func boxesForSlot(topLevel, bottomLevel string) int {
	boxes := 0
	if bottomLevel == snapshot.LevelEmpty {
		boxes++
	}
	if topLevel == snapshot.LevelEmpty || topLevel == "quarter" {
		boxes++
	}
	if boxes < 1 {
		return 1
	}
	return boxes
}

// buildByFreezer produces the per-freezer breakdown deterministically from
// the normalized context. The model never gets a say in this section.
func buildByFreezer(sc snapshot.ShoppingContext) []models.FreezerBreakdown {
	ordered := make([]snapshot.Freezer, len(sc.Freezers))
	copy(ordered, sc.Freezers)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Order != ordered[j].Order {
			return ordered[i].Order < ordered[j].Order
		}
		return strings.ToLower(ordered[i].Title) < strings.ToLower(ordered[j].Title)
	})

	breakdown := []models.FreezerBreakdown{}
	for _, freezer := range ordered {
		slots := []models.RestockSlotLine{}
		for _, slot := range freezer.LowStockSlots {
			flavor := slot.Flavor
			if flavor == "" {
				flavor = slotFlavorFallback
			}
			slots = append(slots, models.RestockSlotLine{
				Position:            slot.Position,
				Flavor:              flavor,
				TopLevel:            slot.TopLevel,
				BottomLevel:         slot.BottomLevel,
				BoxesNeedingRestock: boxesForSlot(slot.TopLevel, slot.BottomLevel),
				Reasons:             slotReasons(slot.TopLevel, slot.BottomLevel),
			})
		}
		sort.SliceStable(slots, func(i, j int) bool { return slots[i].Position < slots[j].Position })

		totalsByFlavor := map[string]*models.FlavorTotal{}
		flavorKeys := []string{}
		for _, slot := range slots {
			key := strings.ToLower(slot.Flavor)
			if total, exists := totalsByFlavor[key]; exists {
				total.BoxesNeedingRestock += slot.BoxesNeedingRestock
				continue
			}
			totalsByFlavor[key] = &models.FlavorTotal{
				Flavor:              slot.Flavor,
				BoxesNeedingRestock: slot.BoxesNeedingRestock,
			}
			flavorKeys = append(flavorKeys, key)
		}

		flavorTotals := []models.FlavorTotal{}
		totalBoxes := 0
		for _, key := range flavorKeys {
			flavorTotals = append(flavorTotals, *totalsByFlavor[key])
			totalBoxes += totalsByFlavor[key].BoxesNeedingRestock
		}
		sort.SliceStable(flavorTotals, func(i, j int) bool {
			return strings.ToLower(flavorTotals[i].Flavor) < strings.ToLower(flavorTotals[j].Flavor)
		})

		order := freezer.Order
		if order < 1 {
			order = 1
		}
		name := freezer.Title
		if name == "" {
			name = fmt.Sprintf("Freezer %d", order)
		}

		breakdown = append(breakdown, models.FreezerBreakdown{
			FreezerName:              name,
			Order:                    order,
			SlotsNeedingRestock:      slots,
			FlavorTotals:             flavorTotals,
			TotalBoxesNeedingRestock: totalBoxes,
		})
	}
	return breakdown
}
