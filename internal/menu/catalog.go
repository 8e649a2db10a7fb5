// internal/menu/catalog.go
package menu

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"unibites/internal/models"
	"unibites/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("menu item not found")
	ErrDuplicateID   = errors.New("id already exists")
	ErrInvalidItem   = errors.New("menu item requires a name, a canteen and a non-negative price")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// Store is the persistence collaborator for the shared menu and its reviews.
// Both collections are read and written whole.
type Store interface {
	LoadMenu(ctx context.Context) ([]models.MenuItem, error)
	SaveMenu(ctx context.Context, items []models.MenuItem) error
	LoadReviews(ctx context.Context) ([]models.Review, error)
	SaveReviews(ctx context.Context, reviews []models.Review) error
}

// ItemPatch carries a vendor edit; nil fields are left untouched.
type ItemPatch struct {
	Name        *string
	Price       *int
	Category    *string
	MealPeriods []models.MealPeriod
	Type        *models.DietType
	IsHealthy   *bool
	IsDaily     *bool
	PrepTime    *string
	Description *string
	Image       *string
	IsAvailable *bool
}

type Catalog struct {
	store    Store
	logger   *logger.Logger
	mu       sync.RWMutex
	items    []models.MenuItem
	reviews  []models.Review
	canteens []models.Canteen
}

func NewCatalog(store Store, l *logger.Logger) *Catalog {
	return &Catalog{
		store:    store,
		logger:   l,
		items:    DefaultItems(),
		canteens: DefaultCanteens,
	}
}

// Load pulls the menu and reviews from the store. An empty menu is seeded with
// the defaults and written back. Read failures keep whatever is in memory.
func (c *Catalog) Load(ctx context.Context) {
	items, err := c.store.LoadMenu(ctx)
	if err != nil {
		c.logger.Error("Failed to load menu items", "error", err)
	}

	c.mu.Lock()
	switch {
	case err != nil:
	case len(items) == 0:
		c.items = DefaultItems()
	default:
		c.items = mergeDefaults(items)
	}
	seeded := err == nil && len(items) == 0
	c.mu.Unlock()

	if seeded {
		c.logger.Info("Seeding default menu", "items", len(c.Items()))
		c.saveItems(ctx)
	}

	reviews, err := c.store.LoadReviews(ctx)
	if err != nil {
		c.logger.Error("Failed to load reviews", "error", err)
		return
	}
	c.mu.Lock()
	c.reviews = reviews
	c.mu.Unlock()
}

// mergeDefaults keeps stored items and appends default items the store has never seen.
func mergeDefaults(stored []models.MenuItem) []models.MenuItem {
	seen := make(map[string]bool, len(stored))
	for _, it := range stored {
		seen[it.ID] = true
	}
	merged := append([]models.MenuItem(nil), stored...)
	for _, it := range DefaultItems() {
		if !seen[it.ID] {
			merged = append(merged, it)
		}
	}
	return merged
}

func (c *Catalog) Items() []models.MenuItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.MenuItem(nil), c.items...)
}

func (c *Catalog) Item(id string) (models.MenuItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if it.ID == id {
			return it, true
		}
	}
	return models.MenuItem{}, false
}

// FindByName prefers an exact case-insensitive match, then the first item
// whose name contains the query.
func (c *Catalog) FindByName(name string) (models.MenuItem, bool) {
	q := strings.ToLower(strings.TrimSpace(name))
	if q == "" {
		return models.MenuItem{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if strings.ToLower(it.Name) == q {
			return it, true
		}
	}
	for _, it := range c.items {
		if strings.Contains(strings.ToLower(it.Name), q) {
			return it, true
		}
	}
	return models.MenuItem{}, false
}

func (c *Catalog) ItemsForCanteen(canteenID string) []models.MenuItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []models.MenuItem
	for _, it := range c.items {
		if it.CanteenID == canteenID {
			out = append(out, it)
		}
	}
	return out
}

func (c *Catalog) Canteens() []models.Canteen {
	return append([]models.Canteen(nil), c.canteens...)
}

// CanteenName falls back to the id for unknown canteens.
func (c *Catalog) CanteenName(id string) string {
	for _, ct := range c.canteens {
		if ct.ID == id {
			return ct.Name
		}
	}
	return id
}

func (c *Catalog) AddItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	if strings.TrimSpace(item.Name) == "" || item.CanteenID == "" || item.Price < 0 {
		return models.MenuItem{}, ErrInvalidItem
	}
	if item.ID == "" {
		item.ID = "m_" + uuid.NewString()
	}

	c.mu.Lock()
	for _, it := range c.items {
		if it.ID == item.ID {
			c.mu.Unlock()
			return models.MenuItem{}, fmt.Errorf("%w: %s", ErrDuplicateID, item.ID)
		}
	}
	c.items = append(c.items, item)
	c.mu.Unlock()

	c.saveItems(ctx)
	return item, nil
}

func (c *Catalog) UpdateItem(ctx context.Context, id string, patch ItemPatch) (models.MenuItem, error) {
	c.mu.Lock()
	idx := c.indexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return models.MenuItem{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	it := c.items[idx]
	patch.apply(&it)
	if strings.TrimSpace(it.Name) == "" || it.Price < 0 {
		c.mu.Unlock()
		return models.MenuItem{}, ErrInvalidItem
	}
	c.items[idx] = it
	c.mu.Unlock()

	c.saveItems(ctx)
	return it, nil
}

func (c *Catalog) SetAvailability(ctx context.Context, id string, available bool) (models.MenuItem, error) {
	return c.UpdateItem(ctx, id, ItemPatch{IsAvailable: &available})
}

func (c *Catalog) DeleteItem(ctx context.Context, id string) error {
	c.mu.Lock()
	idx := c.indexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	c.mu.Unlock()

	c.saveItems(ctx)
	return nil
}

// AddReview stores the review and resets the item's rating to the mean of
// all its reviews, rounded to one decimal.
func (c *Catalog) AddReview(ctx context.Context, r models.Review) (models.Review, error) {
	if r.Rating < 1 || r.Rating > 5 {
		return models.Review{}, ErrInvalidRating
	}
	if r.ID == "" {
		r.ID = "r_" + uuid.NewString()
	}
	if r.Date == "" {
		r.Date = time.Now().Format(time.RFC3339)
	}

	c.mu.Lock()
	idx := c.indexOf(r.ItemID)
	if idx < 0 {
		c.mu.Unlock()
		return models.Review{}, fmt.Errorf("%w: %s", ErrNotFound, r.ItemID)
	}
	for _, rv := range c.reviews {
		if rv.ID == r.ID {
			c.mu.Unlock()
			return models.Review{}, fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
		}
	}
	c.reviews = append(c.reviews, r)

	sum, n := 0, 0
	for _, rv := range c.reviews {
		if rv.ItemID == r.ItemID {
			sum += rv.Rating
			n++
		}
	}
	c.items[idx].Rating = math.Round(float64(sum)/float64(n)*10) / 10
	c.mu.Unlock()

	c.saveReviews(ctx)
	c.saveItems(ctx)
	return r, nil
}

func (c *Catalog) Reviews() []models.Review {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Review(nil), c.reviews...)
}

func (c *Catalog) ReviewsForItem(itemID string) []models.Review {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []models.Review
	for _, r := range c.reviews {
		if r.ItemID == itemID {
			out = append(out, r)
		}
	}
	return out
}

// ReviewsForCanteen is the vendor's view: reviews of any item the canteen sells.
func (c *Catalog) ReviewsForCanteen(canteenID string) []models.Review {
	c.mu.RLock()
	defer c.mu.RUnlock()
	owned := make(map[string]bool)
	for _, it := range c.items {
		if it.CanteenID == canteenID {
			owned[it.ID] = true
		}
	}
	var out []models.Review
	for _, r := range c.reviews {
		if owned[r.ItemID] {
			out = append(out, r)
		}
	}
	return out
}

// indexOf must be called with c.mu held.
func (c *Catalog) indexOf(id string) int {
	for i, it := range c.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (c *Catalog) saveItems(ctx context.Context) {
	if err := c.store.SaveMenu(ctx, c.Items()); err != nil {
		c.logger.Error("Failed to save menu items", "error", err)
	}
}

func (c *Catalog) saveReviews(ctx context.Context) {
	if err := c.store.SaveReviews(ctx, c.Reviews()); err != nil {
		c.logger.Error("Failed to save reviews", "error", err)
	}
}

func (p ItemPatch) apply(it *models.MenuItem) {
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.Price != nil {
		it.Price = *p.Price
	}
	if p.Category != nil {
		it.Category = *p.Category
	}
	if p.MealPeriods != nil {
		it.MealPeriods = append([]models.MealPeriod(nil), p.MealPeriods...)
	}
	if p.Type != nil {
		it.Type = *p.Type
	}
	if p.IsHealthy != nil {
		it.IsHealthy = *p.IsHealthy
	}
	if p.IsDaily != nil {
		it.IsDaily = *p.IsDaily
	}
	if p.PrepTime != nil {
		it.PrepTime = *p.PrepTime
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.Image != nil {
		it.Image = *p.Image
	}
	if p.IsAvailable != nil {
		it.IsAvailable = *p.IsAvailable
	}
}
