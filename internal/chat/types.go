package chat

import "unibites/internal/models"

type Intent string

const (
	IntentMealRequest Intent = "MEAL_REQUEST"
	IntentBudgetQuery Intent = "BUDGET_QUERY"
	IntentFoodDetails Intent = "FOOD_DETAILS"
	IntentGeneralChat Intent = "GENERAL_CHAT"
	IntentOutOfScope  Intent = "OUT_OF_SCOPE"
)

func (i Intent) Valid() bool {
	switch i {
	case IntentMealRequest, IntentBudgetQuery, IntentFoodDetails, IntentGeneralChat, IntentOutOfScope:
		return true
	}
	return false
}

type HealthTag string

const (
	HealthHealthy HealthTag = "healthy"
	HealthNormal  HealthTag = "normal"
	HealthFried   HealthTag = "fried"
)

type ActionKind string

const (
	ActionViewItem  ActionKind = "VIEW_ITEM"
	ActionAddToCart ActionKind = "ADD_TO_CART"
	ActionNone      ActionKind = "NONE"
)

type HealthPreference string

const (
	HealthAny  HealthPreference = "any"
	HealthOnly HealthPreference = "healthy"
)

type PricePreference string

const (
	PriceAny       PricePreference = "any"
	PriceCheap     PricePreference = "cheap"
	PriceExpensive PricePreference = "expensive"
)

// Currency is the only currency the assistant quotes in.
const Currency = "INR"

// Item is the compact projection of a menu item shown in a chat answer.
type Item struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     int       `json:"price"`
	Canteen   string    `json:"canteen"`
	Category  string    `json:"category"`
	HealthTag HealthTag `json:"health_tag"`
}

// UIAction is a button suggested alongside an answer. ItemID identifies the
// target; ItemName is kept for display.
type UIAction struct {
	Label    string     `json:"label"`
	Action   ActionKind `json:"action"`
	ItemID   *string    `json:"item_id"`
	ItemName *string    `json:"item_name"`
}

type BudgetSnapshot struct {
	Remaining *float64 `json:"remaining"`
	Currency  string   `json:"currency"`
}

// ChatbotResponse is the JSON shape exchanged with the model and served to clients.
type ChatbotResponse struct {
	Intent    Intent         `json:"intent"`
	Message   string         `json:"message"`
	Budget    BudgetSnapshot `json:"budget"`
	MealType  *string        `json:"meal_type"`
	Items     []Item         `json:"items"`
	UIActions []UIAction     `json:"ui_actions"`
}

// Request is everything the assistant knows when answering one message.
type Request struct {
	Query     string
	Intent    Intent
	MealType  models.MealPeriod
	Remaining float64
	Items     []models.MenuItem
	Health    HealthPreference
	Price     PricePreference
}
