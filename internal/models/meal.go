// internal/models/meal.go
package models

import "time"

// LoggedMeal is a confirmed entry in a student's log book.
type LoggedMeal struct {
	ID        string    `json:"id"`
	Item      MenuItem  `json:"item"`
	IsManual  bool      `json:"is_manual"`
	Timestamp time.Time `json:"timestamp"`
	Slot      string    `json:"slot,omitempty"`
	Quantity  int       `json:"quantity"`
}

// Cost is price times quantity; a missing quantity counts as one.
func (m LoggedMeal) Cost() int {
	qty := m.Quantity
	if qty <= 0 {
		qty = 1
	}
	return m.Item.Price * qty
}

// StagedItem sits in the cart until the student confirms it.
type StagedItem struct {
	Item     MenuItem `json:"item"`
	Slot     string   `json:"slot,omitempty"`
	Quantity int      `json:"quantity"`
}
