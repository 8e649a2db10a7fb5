package chat

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"unibites/internal/budget"
	"unibites/internal/models"
)

const (
	priceListLimit  = 5
	suggestionLimit = 3
	cheapCeiling    = 50
	lowBudgetMark   = 50
)

var priceCeilingRe = regexp.MustCompile(`under\s*₹?(\d+)|less than\s*₹?(\d+)|cheaper than\s*₹?(\d+)`)

// Fallback answers without the model. Knowledge keywords are tried first,
// then an explicit price ceiling, then the intent's own handling.
func Fallback(req Request) Response {
	b := NewBuilder(req.Intent)
	q := strings.ToLower(req.Query)

	for _, k := range knowledge {
		if strings.Contains(q, k.keyword) {
			return b.SetMessage(offlinePrefix + k.answer).Build()
		}
	}

	if limit, ok := priceCeiling(q); ok {
		return priceList(b, req.Items, limit)
	}

	remaining := budget.FormatRupees(req.Remaining)
	switch req.Intent {
	case IntentMealRequest:
		matches := FilterMenuItems(req.Items, req.MealType, req.Remaining, req.Health, req.Price)
		var msg strings.Builder
		if len(matches) > 0 {
			label := "options"
			if req.MealType != "" {
				label = string(req.MealType)
			}
			fmt.Fprintf(&msg, "%s🍽️ Here are the best %s for you:\n\n", offlinePrefix, label)
			fmt.Fprintf(&msg, "Budget: ₹%s\n-------------------\n", remaining)
			for i := range matches {
				it := matches[i]
				fmt.Fprintf(&msg, "• %s\n   ₹%d | ⭐ %s\n", it.Name, it.Price, strconv.FormatFloat(it.Rating, 'f', -1, 64))
				b.AddItem(it).AddUIAction("View "+it.Name, ActionViewItem, &it)
			}
		} else {
			fmt.Fprintf(&msg, "%s😕 No exact matches found.\n\nYour budget is ₹%s.\n\n💡 Tip: Try checking specific canteens or increasing your budget slightly if possible.", offlinePrefix, remaining)
		}
		b.SetMessage(msg.String()).SetBudget(req.Remaining)
		if req.MealType != "" {
			b.SetMealType(req.MealType)
		}

	case IntentBudgetQuery:
		status := "⚠️ Low"
		if req.Remaining > lowBudgetMark {
			status = "✅ Healthy"
		}
		b.SetMessage(fmt.Sprintf("%s💰 Budget Update\n\nRemaining Today: ₹%s\nStatus: %s\n\nSpend wisely to hit your savings goals!", offlinePrefix, remaining, status)).
			SetBudget(req.Remaining)

	default:
		b.SetMessage(offlineCapabilities)
	}
	return b.Build()
}

// priceCeiling extracts N from "under ₹N", "less than N" or "cheaper than N".
func priceCeiling(q string) (int, bool) {
	m := priceCeilingRe.FindStringSubmatch(q)
	if m == nil {
		return 0, false
	}
	for _, g := range m[1:] {
		if g == "" {
			continue
		}
		n, err := strconv.Atoi(g)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func priceList(b *Builder, items []models.MenuItem, limit int) Response {
	var cheap []models.MenuItem
	for _, it := range items {
		if it.IsAvailable && it.Price <= limit {
			cheap = append(cheap, it)
		}
	}
	sort.SliceStable(cheap, func(i, j int) bool { return cheap[i].Price < cheap[j].Price })

	var msg strings.Builder
	fmt.Fprintf(&msg, "%s🏷️ Products under ₹%d:\n\n", offlinePrefix, limit)
	if len(cheap) == 0 {
		msg.WriteString("I couldn't find any items in that price range. Try increasing your limit slightly!")
		return b.SetMessage(msg.String()).Build()
	}

	shown := cheap
	if len(shown) > priceListLimit {
		shown = shown[:priceListLimit]
	}
	for i := range shown {
		it := shown[i]
		fmt.Fprintf(&msg, "• %s - ₹%d\n", it.Name, it.Price)
		b.AddItem(it).AddUIAction("View "+it.Name, ActionViewItem, &it)
	}
	if extra := len(cheap) - priceListLimit; extra > 0 {
		fmt.Fprintf(&msg, "\n...and %d more options!", extra)
	}
	return b.SetMessage(msg.String()).Build()
}

// FilterMenuItems picks up to three affordable, available suggestions. A meal
// type and a health preference narrow the set; a cheap preference keeps items
// up to ₹50 cheapest first, an expensive one sorts by price descending, and
// otherwise the best rated come first.
func FilterMenuItems(items []models.MenuItem, mealType models.MealPeriod, remaining float64, health HealthPreference, price PricePreference) []models.MenuItem {
	var out []models.MenuItem
	for _, it := range items {
		if !it.IsAvailable || float64(it.Price) > remaining {
			continue
		}
		if mealType != "" && !it.ServedAt(mealType) {
			continue
		}
		if health == HealthOnly && !it.IsHealthy {
			continue
		}
		if price == PriceCheap && it.Price > cheapCeiling {
			continue
		}
		out = append(out, it)
	}

	switch price {
	case PriceCheap:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case PriceExpensive:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	}

	if len(out) > suggestionLimit {
		out = out[:suggestionLimit]
	}
	return out
}
