package chat

import (
	"strings"

	"unibites/internal/models"
)

// Response is the answer to one chat message. Each intent family has its own
// variant, so fields an intent may not carry simply do not exist on it.
type Response interface {
	Intent() Intent
	Wire() ChatbotResponse
	response()
}

// MealResponse answers MEAL_REQUEST and FOOD_DETAILS.
type MealResponse struct {
	Kind      Intent
	Message   string
	Remaining *float64
	MealType  models.MealPeriod
	Items     []Item
	Actions   []UIAction
}

// BudgetResponse answers BUDGET_QUERY.
type BudgetResponse struct {
	Message   string
	Remaining *float64
}

// TextResponse answers GENERAL_CHAT and OUT_OF_SCOPE.
type TextResponse struct {
	Kind    Intent
	Message string
}

func (r MealResponse) Intent() Intent   { return r.Kind }
func (r BudgetResponse) Intent() Intent { return IntentBudgetQuery }
func (r TextResponse) Intent() Intent   { return r.Kind }

func (MealResponse) response()   {}
func (BudgetResponse) response() {}
func (TextResponse) response()   {}

func (r MealResponse) Wire() ChatbotResponse {
	w := emptyWire(r.Kind, r.Message)
	w.Budget.Remaining = r.Remaining
	if r.MealType != "" {
		mt := string(r.MealType)
		w.MealType = &mt
	}
	w.Items = append(w.Items, r.Items...)
	w.UIActions = append(w.UIActions, r.Actions...)
	return w
}

func (r BudgetResponse) Wire() ChatbotResponse {
	w := emptyWire(IntentBudgetQuery, r.Message)
	w.Budget.Remaining = r.Remaining
	return w
}

func (r TextResponse) Wire() ChatbotResponse {
	return emptyWire(r.Kind, r.Message)
}

func emptyWire(intent Intent, message string) ChatbotResponse {
	return ChatbotResponse{
		Intent:    intent,
		Message:   message,
		Budget:    BudgetSnapshot{Currency: Currency},
		Items:     []Item{},
		UIActions: []UIAction{},
	}
}

// Builder collects an answer field by field. Anything may be set regardless of
// intent; Build keeps only what the intent's variant can hold.
type Builder struct {
	intent    Intent
	message   string
	remaining *float64
	mealType  models.MealPeriod
	items     []Item
	actions   []UIAction
}

func NewBuilder(intent Intent) *Builder {
	return &Builder{intent: intent}
}

func (b *Builder) SetMessage(msg string) *Builder {
	b.message = msg
	return b
}

func (b *Builder) SetBudget(remaining float64) *Builder {
	b.remaining = &remaining
	return b
}

func (b *Builder) SetMealType(mt models.MealPeriod) *Builder {
	b.mealType = mt
	return b
}

func (b *Builder) AddItem(it models.MenuItem) *Builder {
	b.items = append(b.items, ItemFrom(it))
	return b
}

// AddUIAction appends a button; target may be nil for actions without an item.
func (b *Builder) AddUIAction(label string, kind ActionKind, target *models.MenuItem) *Builder {
	a := UIAction{Label: label, Action: kind}
	if target != nil {
		id, name := target.ID, target.Name
		a.ItemID = &id
		a.ItemName = &name
	}
	b.actions = append(b.actions, a)
	return b
}

func (b *Builder) Build() Response {
	switch b.intent {
	case IntentBudgetQuery:
		return BudgetResponse{Message: b.message, Remaining: b.remaining}
	case IntentGeneralChat, IntentOutOfScope:
		return TextResponse{Kind: b.intent, Message: b.message}
	case IntentMealRequest, IntentFoodDetails:
		return MealResponse{
			Kind:      b.intent,
			Message:   b.message,
			Remaining: b.remaining,
			MealType:  b.mealType,
			Items:     append([]Item(nil), b.items...),
			Actions:   append([]UIAction(nil), b.actions...),
		}
	}
	return TextResponse{Kind: IntentOutOfScope, Message: b.message}
}

// ItemFrom projects a menu item for a chat answer.
func ItemFrom(it models.MenuItem) Item {
	tag := HealthNormal
	switch {
	case it.IsHealthy:
		tag = HealthHealthy
	case strings.EqualFold(it.Category, "fried"):
		tag = HealthFried
	}
	return Item{
		ID:        it.ID,
		Name:      it.Name,
		Price:     it.Price,
		Canteen:   it.CanteenID,
		Category:  it.Category,
		HealthTag: tag,
	}
}
