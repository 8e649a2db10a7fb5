// internal/models/menu.go
package models

import "strings"

type MealPeriod string

const (
	Breakfast MealPeriod = "Breakfast"
	Lunch     MealPeriod = "Lunch"
	Dinner    MealPeriod = "Dinner"
	Snacks    MealPeriod = "Snacks"
	Beverages MealPeriod = "Beverages"
)

// ParseMealPeriod matches a period name case-insensitively. "snack" is accepted for Snacks.
func ParseMealPeriod(s string) (MealPeriod, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "breakfast":
		return Breakfast, true
	case "lunch":
		return Lunch, true
	case "dinner":
		return Dinner, true
	case "snack", "snacks":
		return Snacks, true
	case "beverage", "beverages":
		return Beverages, true
	}
	return "", false
}

type DietType string

const (
	Veg    DietType = "veg"
	NonVeg DietType = "non-veg"
)

type Canteen struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	IsOpen   bool   `json:"is_open"`
}

type MenuItem struct {
	ID          string       `json:"id"`
	CanteenID   string       `json:"canteen_id"`
	Name        string       `json:"name"`
	Price       int          `json:"price"`
	Category    string       `json:"category"`
	MealPeriods []MealPeriod `json:"meal_periods"`
	Type        DietType     `json:"type"`
	IsHealthy   bool         `json:"is_healthy"`
	IsDaily     bool         `json:"is_daily"`
	Rating      float64      `json:"rating"`
	PrepTime    string       `json:"prep_time"`
	Image       string       `json:"image,omitempty"`
	Description string       `json:"description,omitempty"`
	IsAvailable bool         `json:"is_available"`
}

// ServedAt reports whether the item belongs to the given meal period, ignoring case.
func (m MenuItem) ServedAt(period MealPeriod) bool {
	for _, p := range m.MealPeriods {
		if strings.EqualFold(string(p), string(period)) {
			return true
		}
	}
	return false
}

type Review struct {
	ID       string `json:"id"`
	ItemID   string `json:"item_id"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
	Date     string `json:"date"`
}
