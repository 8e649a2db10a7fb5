package tracker

import (
	"context"

	"unibites/internal/models"
)

// Stage puts one unit of item in the cart. Staging the same item for the same
// slot again bumps its quantity.
func (t *Tracker) Stage(ctx context.Context, key string, item models.MenuItem, slot string) []models.StagedItem {
	s := t.session(ctx, key)
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.staged {
		if s.staged[i].Item.ID == item.ID && s.staged[i].Slot == slot {
			s.staged[i].Quantity++
			return s.stagedCopy()
		}
	}
	s.staged = append(s.staged, models.StagedItem{Item: item, Slot: slot, Quantity: 1})
	return s.stagedCopy()
}

// Unstage drops itemID for slot, or from every slot when slot is empty.
func (t *Tracker) Unstage(ctx context.Context, key, itemID, slot string) []models.StagedItem {
	s := t.session(ctx, key)
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.staged[:0]
	for _, st := range s.staged {
		if st.Item.ID == itemID && (slot == "" || st.Slot == slot) {
			continue
		}
		kept = append(kept, st)
	}
	s.staged = kept
	return s.stagedCopy()
}

// UpdateStagedQuantity adds change to the staged quantity; at zero or below the entry goes.
func (t *Tracker) UpdateStagedQuantity(ctx context.Context, key, itemID string, change int, slot string) []models.StagedItem {
	s := t.session(ctx, key)
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.staged {
		st := &s.staged[i]
		if st.Item.ID != itemID || st.Slot != slot {
			continue
		}
		st.Quantity += change
		if st.Quantity <= 0 {
			s.staged = append(s.staged[:i], s.staged[i+1:]...)
		}
		break
	}
	return s.stagedCopy()
}

func (t *Tracker) Staged(ctx context.Context, key string) []models.StagedItem {
	s := t.session(ctx, key)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stagedCopy()
}

// StagedTotal is the cost of everything in the cart.
func (t *Tracker) StagedTotal(ctx context.Context, key string) int {
	total := 0
	for _, st := range t.Staged(ctx, key) {
		total += st.Item.Price * st.Quantity
	}
	return total
}

// Confirm moves the cart into the log book, one entry per unit, and empties it.
func (t *Tracker) Confirm(ctx context.Context, key string) ([]models.LoggedMeal, error) {
	s := t.session(ctx, key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.staged) == 0 {
		return nil, ErrEmptyCart
	}

	var logs []models.LoggedMeal
	for _, st := range s.staged {
		for i := 0; i < st.Quantity; i++ {
			logs = append(logs, t.newLog(st.Item, st.Slot, false))
		}
	}
	s.staged = nil
	t.appendLogs(ctx, s, logs...)

	t.logger.Info("Confirmed staged meals", "user", key, "entries", len(logs))
	return logs, nil
}

func (s *session) stagedCopy() []models.StagedItem {
	return append([]models.StagedItem(nil), s.staged...)
}
