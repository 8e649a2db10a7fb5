package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"unibites/internal/budget"
	"unibites/internal/models"
	"unibites/pkg/logger"
)

var ErrNoJSON = errors.New("no JSON object in model output")

var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// Completer is the generative model behind the assistant.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Assistant answers chat messages with the model when it can and with the
// offline rules when it cannot. It never returns an error to the caller.
type Assistant struct {
	ai     Completer
	cal    budget.Calendar
	logger *logger.Logger
}

// NewAssistant accepts a nil Completer, in which case every answer is offline.
func NewAssistant(ai Completer, cal budget.Calendar, l *logger.Logger) *Assistant {
	return &Assistant{ai: ai, cal: cal, logger: l}
}

// Ask classifies the query, reads the meal type off the local hour and answers it.
func (a *Assistant) Ask(ctx context.Context, query string, remaining float64, items []models.MenuItem) Response {
	req := Request{
		Query:     query,
		Intent:    ClassifyIntent(query),
		MealType:  DetectMealType(query, a.cal.Now().Hour()),
		Remaining: remaining,
		Items:     items,
		Health:    DetectHealthPreference(query),
		Price:     DetectPricePreference(query),
	}
	return a.Respond(ctx, req)
}

// Respond makes a single model call and falls back to the offline rules on
// any failure. There is no retry.
func (a *Assistant) Respond(ctx context.Context, req Request) Response {
	if a.ai == nil {
		return Fallback(req)
	}

	text, err := a.ai.Complete(ctx, SystemPrompt, BuildPrompt(req))
	if err != nil {
		a.logger.Warn("AI request failed, answering offline", "intent", req.Intent, "error", err)
		return Fallback(req)
	}

	wire, err := parseWire(text)
	if err != nil {
		a.logger.Warn("Unusable AI response, answering offline", "intent", req.Intent, "error", err)
		return Fallback(req)
	}

	a.logger.Debug("AI response", "intent", wire.Intent, "items", len(wire.Items))
	return fromWire(wire, req)
}

func parseWire(text string) (ChatbotResponse, error) {
	raw := jsonObjectRe.FindString(text)
	if raw == "" {
		return ChatbotResponse{}, ErrNoJSON
	}
	var wire ChatbotResponse
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return ChatbotResponse{}, fmt.Errorf("decode model JSON: %w", err)
	}
	return wire, nil
}

// fromWire rebuilds a model answer through the builder. Items are resolved
// against the menu the model was shown; anything it made up is dropped.
func fromWire(w ChatbotResponse, req Request) Response {
	intent := w.Intent
	if !intent.Valid() {
		intent = req.Intent
	}

	b := NewBuilder(intent).SetMessage(w.Message)
	if w.Budget.Remaining != nil {
		b.SetBudget(*w.Budget.Remaining)
	}
	if w.MealType != nil {
		if mt, ok := models.ParseMealPeriod(*w.MealType); ok {
			b.SetMealType(mt)
		}
	}

	for _, wi := range w.Items {
		if it, ok := resolveItem(req.Items, wi.ID, wi.Name); ok {
			b.AddItem(it)
		}
	}
	for _, wa := range w.UIActions {
		var id, name string
		if wa.ItemID != nil {
			id = *wa.ItemID
		}
		if wa.ItemName != nil {
			name = *wa.ItemName
		}
		if id == "" && name == "" {
			b.AddUIAction(wa.Label, ActionNone, nil)
			continue
		}
		if it, ok := resolveItem(req.Items, id, name); ok {
			kind := wa.Action
			if kind != ActionViewItem && kind != ActionAddToCart {
				kind = ActionViewItem
			}
			b.AddUIAction(wa.Label, kind, &it)
		}
	}
	return b.Build()
}

// resolveItem prefers the id and falls back to a case-insensitive name match.
func resolveItem(items []models.MenuItem, id, name string) (models.MenuItem, bool) {
	if id != "" {
		for _, it := range items {
			if it.ID == id {
				return it, true
			}
		}
	}
	if name != "" {
		for _, it := range items {
			if strings.EqualFold(it.Name, name) {
				return it, true
			}
		}
	}
	return models.MenuItem{}, false
}
