package menu

import (
	"context"
	"errors"
	"testing"

	"unibites/internal/db"
	"unibites/internal/models"
	"unibites/pkg/logger"
)

type failingStore struct{ *db.MemoryStore }

func (failingStore) LoadMenu(context.Context) ([]models.MenuItem, error) {
	return nil, errors.New("connection refused")
}

func (failingStore) SaveMenu(context.Context, []models.MenuItem) error {
	return errors.New("connection refused")
}

func newCatalog(t *testing.T) (*Catalog, *db.MemoryStore) {
	t.Helper()
	store := db.NewMemoryStore()
	c := NewCatalog(store, logger.NewNop())
	c.Load(context.Background())
	return c, store
}

func TestLoad_SeedsEmptyStore(t *testing.T) {
	c, store := newCatalog(t)
	if got := len(c.Items()); got != len(DefaultItems()) {
		t.Fatalf("len(Items) = %d, want %d", got, len(DefaultItems()))
	}
	saved, _ := store.LoadMenu(context.Background())
	if len(saved) != len(DefaultItems()) {
		t.Fatalf("seeded store has %d items, want %d", len(saved), len(DefaultItems()))
	}
}

func TestLoad_MergesNewDefaultsIntoStoredMenu(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	_ = store.SaveMenu(ctx, []models.MenuItem{
		{ID: "m1", CanteenID: "c1", Name: "Renamed Thali", Price: 85, IsAvailable: true},
		{ID: "v1", CanteenID: "c1", Name: "Poha", Price: 30, IsAvailable: true},
	})

	c := NewCatalog(store, logger.NewNop())
	c.Load(ctx)

	it, ok := c.Item("m1")
	if !ok || it.Name != "Renamed Thali" {
		t.Fatalf("Item(m1) = %+v, want stored edit kept", it)
	}
	if _, ok := c.Item("v1"); !ok {
		t.Fatal("vendor item v1 missing after load")
	}
	if _, ok := c.Item("m7"); !ok {
		t.Fatal("default item m7 not merged in")
	}
}

func TestLoad_ReadFailureKeepsDefaults(t *testing.T) {
	c := NewCatalog(failingStore{db.NewMemoryStore()}, logger.NewNop())
	c.Load(context.Background())
	if got := len(c.Items()); got != len(DefaultItems()) {
		t.Fatalf("len(Items) = %d, want defaults", got)
	}
}

func TestFindByName(t *testing.T) {
	c, _ := newCatalog(t)

	it, ok := c.FindByName("samosa")
	if !ok || it.ID != "m3" {
		t.Fatalf("FindByName(samosa) = %+v, %v", it, ok)
	}
	it, ok = c.FindByName("coffee")
	if !ok || it.ID != "m5" {
		t.Fatalf("FindByName(coffee) = %+v, %v", it, ok)
	}
	if _, ok := c.FindByName("pizza"); ok {
		t.Fatal("FindByName(pizza) found an item")
	}
	if _, ok := c.FindByName("  "); ok {
		t.Fatal("FindByName(blank) found an item")
	}
}

func TestAddItem(t *testing.T) {
	c, store := newCatalog(t)
	ctx := context.Background()

	it, err := c.AddItem(ctx, models.MenuItem{CanteenID: "c2", Name: "Idli", Price: 40, IsAvailable: true})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if it.ID == "" {
		t.Fatal("AddItem did not assign an id")
	}
	saved, _ := store.LoadMenu(ctx)
	if len(saved) != len(DefaultItems())+1 {
		t.Fatalf("store has %d items, want %d", len(saved), len(DefaultItems())+1)
	}

	if _, err := c.AddItem(ctx, models.MenuItem{ID: "m1", CanteenID: "c1", Name: "Dup", Price: 1}); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("duplicate err = %v, want ErrDuplicateID", err)
	}
	if _, err := c.AddItem(ctx, models.MenuItem{CanteenID: "c1", Name: "Bad", Price: -1}); !errors.Is(err, ErrInvalidItem) {
		t.Fatalf("negative price err = %v, want ErrInvalidItem", err)
	}
}

func TestUpdateItemAndAvailability(t *testing.T) {
	c, _ := newCatalog(t)
	ctx := context.Background()

	price := 95
	it, err := c.UpdateItem(ctx, "m1", ItemPatch{Price: &price})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if it.Price != 95 || it.Name != "Veg Thali" {
		t.Fatalf("patched item = %+v", it)
	}

	it, err = c.SetAvailability(ctx, "m1", false)
	if err != nil || it.IsAvailable {
		t.Fatalf("SetAvailability = %+v, %v", it, err)
	}

	if _, err := c.UpdateItem(ctx, "nope", ItemPatch{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteItem(t *testing.T) {
	c, _ := newCatalog(t)
	ctx := context.Background()

	if err := c.DeleteItem(ctx, "m3"); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if _, ok := c.Item("m3"); ok {
		t.Fatal("m3 still present")
	}
	if err := c.DeleteItem(ctx, "m3"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestAddReview_RecomputesRating(t *testing.T) {
	c, store := newCatalog(t)
	ctx := context.Background()

	for _, r := range []int{5, 4, 4} {
		if _, err := c.AddReview(ctx, models.Review{ItemID: "m3", UserID: "u", Rating: r}); err != nil {
			t.Fatalf("AddReview: %v", err)
		}
	}
	it, _ := c.Item("m3")
	if it.Rating != 4.3 {
		t.Fatalf("Rating = %v, want 4.3", it.Rating)
	}
	if got := len(c.ReviewsForItem("m3")); got != 3 {
		t.Fatalf("ReviewsForItem = %d, want 3", got)
	}
	if got := len(c.ReviewsForCanteen("c1")); got != 3 {
		t.Fatalf("ReviewsForCanteen(c1) = %d, want 3", got)
	}
	if got := len(c.ReviewsForCanteen("c2")); got != 0 {
		t.Fatalf("ReviewsForCanteen(c2) = %d, want 0", got)
	}
	saved, _ := store.LoadReviews(ctx)
	if len(saved) != 3 {
		t.Fatalf("stored reviews = %d, want 3", len(saved))
	}
}

func TestAddReview_Validation(t *testing.T) {
	c, _ := newCatalog(t)
	ctx := context.Background()

	if _, err := c.AddReview(ctx, models.Review{ItemID: "m3", Rating: 6}); !errors.Is(err, ErrInvalidRating) {
		t.Fatalf("err = %v, want ErrInvalidRating", err)
	}
	if _, err := c.AddReview(ctx, models.Review{ItemID: "zz", Rating: 3}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCanteenName(t *testing.T) {
	c, _ := newCatalog(t)
	if got := c.CanteenName("c2"); got != "MRC" {
		t.Fatalf("CanteenName(c2) = %q", got)
	}
	if got := c.CanteenName("c9"); got != "c9" {
		t.Fatalf("CanteenName(c9) = %q, want fallback c9", got)
	}
}

func TestAddReview_RejectsDuplicateID(t *testing.T) {
	c, store := newCatalog(t)
	ctx := context.Background()

	if _, err := c.AddReview(ctx, models.Review{ID: "r1", ItemID: "m3", Rating: 5}); err != nil {
		t.Fatalf("AddReview(r1): %v", err)
	}
	if _, err := c.AddReview(ctx, models.Review{ID: "r1", ItemID: "m3", Rating: 1}); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("second r1 err = %v, want ErrDuplicateID", err)
	}
	if _, err := c.AddReview(ctx, models.Review{ID: "r2", ItemID: "m3", Rating: 4}); err != nil {
		t.Fatalf("AddReview(r2): %v", err)
	}

	if got := len(c.Reviews()); got != 2 {
		t.Fatalf("Reviews = %d, want 2", got)
	}
	it, _ := c.Item("m3")
	if it.Rating != 4.5 {
		t.Fatalf("Rating = %v, want 4.5", it.Rating)
	}
	saved, _ := store.LoadReviews(ctx)
	if len(saved) != 2 {
		t.Fatalf("stored reviews = %d, want 2", len(saved))
	}
}
