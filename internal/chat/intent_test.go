package chat

import (
	"testing"

	"unibites/internal/models"
)

func TestClassifyIntent(t *testing.T) {
	cases := []struct {
		query string
		want  Intent
	}{
		{"hi", IntentGeneralChat},
		{"  Thank You ", IntentGeneralChat},
		{"hi, suggest lunch", IntentMealRequest},
		{"what's my remaining budget", IntentBudgetQuery},
		{"how much money is left for lunch today", IntentBudgetQuery},
		{"suggest lunch within my budget", IntentMealRequest},
		{"what can i buy with my money", IntentMealRequest},
		{"what can i have with my lunch budget", IntentMealRequest},
		{"tell me about masala dosa", IntentFoodDetails},
		{"what is cold coffee", IntentFoodDetails},
		{"tell me about and suggest dosa", IntentMealRequest},
		{"I'm hungry", IntentMealRequest},
		{"is kuksi open", IntentMealRequest},
		{"campus canteen timings", IntentMealRequest},
		{"who won the cricket match", IntentOutOfScope},
	}
	for _, c := range cases {
		if got := ClassifyIntent(c.query); got != c.want {
			t.Fatalf("ClassifyIntent(%q) = %s, want %s", c.query, got, c.want)
		}
	}
}

func TestDetectMealType(t *testing.T) {
	cases := []struct {
		query string
		hour  int
		want  models.MealPeriod
	}{
		{"suggest breakfast", 22, models.Breakfast},
		{"what's for dinner", 8, models.Dinner},
		{"any snacks", 12, models.Snacks},
		{"suggest something to eat", 7, models.Breakfast},
		{"suggest something to eat", 11, models.Lunch},
		{"suggest something to eat", 16, models.Snacks},
		{"suggest something to eat", 19, ""},
		{"suggest something to eat", 22, ""},
		{"suggest something to eat", 3, ""},
	}
	for _, c := range cases {
		if got := DetectMealType(c.query, c.hour); got != c.want {
			t.Fatalf("DetectMealType(%q, %d) = %q, want %q", c.query, c.hour, got, c.want)
		}
	}
}

func TestDetectPreferences(t *testing.T) {
	if got := DetectHealthPreference("something light please"); got != HealthOnly {
		t.Fatalf("health = %s, want %s", got, HealthOnly)
	}
	if got := DetectHealthPreference("samosa"); got != HealthAny {
		t.Fatalf("health = %s, want %s", got, HealthAny)
	}
	if got := DetectPricePreference("affordable lunch"); got != PriceCheap {
		t.Fatalf("price = %s, want %s", got, PriceCheap)
	}
	if got := DetectPricePreference("your best dish"); got != PriceExpensive {
		t.Fatalf("price = %s, want %s", got, PriceExpensive)
	}
	if got := DetectPricePreference("lunch"); got != PriceAny {
		t.Fatalf("price = %s, want %s", got, PriceAny)
	}
}
