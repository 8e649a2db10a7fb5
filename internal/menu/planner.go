package menu

import (
	"sort"

	"unibites/internal/models"
)

type PriceSort string

const (
	SortNone    PriceSort = "none"
	SortLowHigh PriceSort = "low-high"
	SortHighLow PriceSort = "high-low"
)

// PlannerOptions lists the available items for a planner slot. Items the
// student can still afford come first; within each group the price sort
// applies, or rating (best first) when no sort is chosen. An empty canteenID
// means every canteen.
func PlannerOptions(items []models.MenuItem, period models.MealPeriod, remaining float64, canteenID string, order PriceSort) []models.MenuItem {
	var options []models.MenuItem
	for _, it := range items {
		if !it.IsAvailable || !it.ServedAt(period) {
			continue
		}
		if canteenID != "" && it.CanteenID != canteenID {
			continue
		}
		options = append(options, it)
	}

	sort.SliceStable(options, func(i, j int) bool {
		a, b := options[i], options[j]
		aOK, bOK := float64(a.Price) <= remaining, float64(b.Price) <= remaining
		if aOK != bOK {
			return aOK
		}
		switch order {
		case SortLowHigh:
			return a.Price < b.Price
		case SortHighLow:
			return a.Price > b.Price
		default:
			return a.Rating > b.Rating
		}
	})
	return options
}

// SplitAffordable separates options into those within and over the remaining budget.
func SplitAffordable(options []models.MenuItem, remaining float64) (within, over []models.MenuItem) {
	for _, it := range options {
		if float64(it.Price) <= remaining {
			within = append(within, it)
		} else {
			over = append(over, it)
		}
	}
	return within, over
}
