package chat

import (
	"regexp"
	"strings"

	"unibites/internal/models"
)

var greetingRe = regexp.MustCompile(`^(hi|hello|hey|thanks|thank you|good morning|good afternoon|good evening|greetings|help|ok|okay)$`)

var (
	budgetKeywords = []string{"budget", "remaining", "left", "spent", "spend", "money", "cost", "how much", "balance", "allowance"}
	foodSeeking    = []string{"suggest", "show me", "buy", "get me", "what can i", "recommend"}
	lookupPhrases  = []string{"tell me about", "what is", "details of", "info about"}
	mealKeywords   = []string{
		"suggest", "recommend", "show", "what can i", "what should i",
		"breakfast", "lunch", "dinner", "snack", "eat", "food", "meal",
		"buy", "get", "order", "have", "hungry", "healthy", "cheap",
	}
	venueKeywords = []string{"canteen", "menu", "kuksi", "mrc", "food court", "campus", "unibites"}
)

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// ClassifyIntent maps a query to one intent; the first matching rule wins.
// A budget question stays a budget question even when it mentions a meal,
// unless the user is explicitly asking for food.
func ClassifyIntent(query string) Intent {
	q := strings.ToLower(strings.TrimSpace(query))

	if greetingRe.MatchString(q) {
		return IntentGeneralChat
	}

	if containsAny(q, budgetKeywords) && !askingForFood(q) {
		return IntentBudgetQuery
	}

	if containsAny(q, lookupPhrases) && !strings.Contains(q, "suggest") {
		return IntentFoodDetails
	}

	if containsAny(q, mealKeywords) || containsAny(q, venueKeywords) {
		return IntentMealRequest
	}

	return IntentOutOfScope
}

func askingForFood(q string) bool {
	if containsAny(q, foodSeeking) {
		return true
	}
	return strings.Contains(q, "with my") && containsAny(q, []string{"breakfast", "lunch", "dinner"})
}

// DetectMealType returns the meal named in the query, else the meal of the
// given hour. Late evening and night give "" so the caller asks instead of
// assuming dinner.
func DetectMealType(query string, hour int) models.MealPeriod {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "breakfast"):
		return models.Breakfast
	case strings.Contains(q, "lunch"):
		return models.Lunch
	case strings.Contains(q, "dinner"):
		return models.Dinner
	case strings.Contains(q, "snack"):
		return models.Snacks
	}

	switch {
	case hour >= 6 && hour < 11:
		return models.Breakfast
	case hour >= 11 && hour < 16:
		return models.Lunch
	case hour >= 16 && hour < 19:
		return models.Snacks
	}
	return ""
}

func DetectHealthPreference(query string) HealthPreference {
	if containsAny(strings.ToLower(query), []string{"healthy", "light", "nutritious"}) {
		return HealthOnly
	}
	return HealthAny
}

func DetectPricePreference(query string) PricePreference {
	q := strings.ToLower(query)
	if containsAny(q, []string{"cheap", "budget", "affordable", "low price"}) {
		return PriceCheap
	}
	if containsAny(q, []string{"expensive", "premium", "best"}) {
		return PriceExpensive
	}
	return PriceAny
}
