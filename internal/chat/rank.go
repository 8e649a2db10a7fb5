package chat

import (
	"strings"

	"unibites/internal/models"
)

// PromptItemLimit caps how much of the menu goes into a prompt.
const PromptItemLimit = 30

// RankForPrompt orders the menu for the model: items served at mealType
// first, then items whose name or category appears in the query. Both passes
// keep the existing order within each group.
func RankForPrompt(items []models.MenuItem, mealType models.MealPeriod, query string) []models.MenuItem {
	ranked := append([]models.MenuItem(nil), items...)
	if mealType != "" {
		ranked = stablePartition(ranked, func(it models.MenuItem) bool { return it.ServedAt(mealType) })
	}

	q := strings.ToLower(query)
	ranked = stablePartition(ranked, func(it models.MenuItem) bool {
		name, cat := strings.ToLower(it.Name), strings.ToLower(it.Category)
		return (name != "" && strings.Contains(q, name)) || (cat != "" && strings.Contains(q, cat))
	})
	return ranked
}

func stablePartition(items []models.MenuItem, front func(models.MenuItem) bool) []models.MenuItem {
	out := make([]models.MenuItem, 0, len(items))
	var back []models.MenuItem
	for _, it := range items {
		if front(it) {
			out = append(out, it)
		} else {
			back = append(back, it)
		}
	}
	return append(out, back...)
}
