package chat

import (
	"fmt"
	"strings"

	"unibites/internal/budget"
	"unibites/internal/models"
)

// SystemPrompt sets the assistant's role and the rules it must answer by.
var SystemPrompt = `You are AI Compass, the official AI assistant for UniBites, a campus food budgeting platform.

` + platformKnowledge + `

## YOUR CAPABILITIES
` + capabilities + `

## RESPONSE RULES

1. MEAL REQUESTS
- Use the detected meal type. If none was detected, ask which meal instead of assuming dinner.
- Respect the remaining budget and warn when an item is over it.
- Apply healthy, cheap or vegetarian filters when the user mentions them.
- Only suggest items from the provided menu, by their id. Never invent items.

2. BUDGET QUERIES
- Show budget information only. Do not suggest meals unless explicitly asked.

3. FEATURE QUESTIONS
- Explain simply using the knowledge above.

4. OUT-OF-SCOPE QUESTIONS
- Politely decline anything unrelated to food, meals, budget or UniBites, and list what you can help with.

5. FORMAT
- Reply with a single JSON object and nothing else.
- Use Indian Rupees (₹). Keep messages short and friendly. Do not use markdown.`

// BuildPrompt renders the per-message context that follows the system prompt.
func BuildPrompt(req Request) string {
	items := RankForPrompt(req.Items, req.MealType, req.Query)
	if len(items) > PromptItemLimit {
		items = items[:PromptItemLimit]
	}

	mealType, mealJSON := "none", "null"
	if req.MealType != "" {
		mealType = string(req.MealType)
		mealJSON = fmt.Sprintf("%q", req.MealType)
	}
	remaining := budget.FormatRupees(req.Remaining)

	var sb strings.Builder
	fmt.Fprintf(&sb, "User Query: %q\n", req.Query)
	fmt.Fprintf(&sb, "Detected Intent: %s\n", req.Intent)
	fmt.Fprintf(&sb, "Detected Meal Type: %s\n", mealType)
	fmt.Fprintf(&sb, "Remaining Budget: ₹%s\n\n", remaining)

	fmt.Fprintf(&sb, "Available Menu Items (Top %d most relevant):\n", len(items))
	for _, it := range items {
		fmt.Fprintf(&sb, "- [%s] %s (₹%d) - %s - %s [%s]\n", it.ID, it.Name, it.Price, it.Category, joinPeriods(it.MealPeriods), healthLabel(it))
	}

	fmt.Fprintf(&sb, `
Respond with a JSON object matching this structure:
{
  "intent": "%s",
  "message": "your friendly response here",
  "budget": {"remaining": %s, "currency": "%s"},
  "meal_type": %s,
  "items": [],
  "ui_actions": []
}

For BUDGET_QUERY: leave items empty; the message shows the budget only.
For MEAL_REQUEST: include up to 3 items from the menu above, each as
{"id": "item id", "name": "item name", "price": number, "canteen": "canteen id", "category": "category", "health_tag": "healthy" | "normal" | "fried"}
and for each item a ui_action
{"label": "View [item name]", "action": "VIEW_ITEM", "item_id": "item id", "item_name": "item name"}
`, req.Intent, remaining, Currency, mealJSON)

	return sb.String()
}

func joinPeriods(periods []models.MealPeriod) string {
	parts := make([]string, len(periods))
	for i, p := range periods {
		parts[i] = string(p)
	}
	return strings.Join(parts, "/")
}

func healthLabel(it models.MenuItem) string {
	if it.IsHealthy {
		return "Healthy"
	}
	return "Standard"
}
