package db

import (
	"context"
	"sync"

	"unibites/internal/models"
)

// MemoryStore keeps everything in process memory. It backs local runs without
// PostgreSQL and the tests of the packages above it.
type MemoryStore struct {
	mu      sync.RWMutex
	menu    []models.MenuItem
	reviews []models.Review
	users   map[string]models.User
	meals   map[string][]models.LoggedMeal
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]models.User),
		meals: make(map[string][]models.LoggedMeal),
	}
}

func (s *MemoryStore) LoadMenu(_ context.Context) ([]models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.MenuItem(nil), s.menu...), nil
}

func (s *MemoryStore) SaveMenu(_ context.Context, items []models.MenuItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.menu = append([]models.MenuItem(nil), items...)
	return nil
}

func (s *MemoryStore) LoadReviews(_ context.Context) ([]models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Review(nil), s.reviews...), nil
}

func (s *MemoryStore) SaveReviews(_ context.Context, reviews []models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews = append([]models.Review(nil), reviews...)
	return nil
}

func (s *MemoryStore) LoadUser(_ context.Context, key string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[key]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (s *MemoryStore) SaveUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.Key] = *cloneUser(*user)
	return nil
}

func (s *MemoryStore) LoadLoggedMeals(_ context.Context, key string) ([]models.LoggedMeal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.LoggedMeal(nil), s.meals[key]...), nil
}

func (s *MemoryStore) SaveLoggedMeals(_ context.Context, key string, meals []models.LoggedMeal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meals[key] = append([]models.LoggedMeal(nil), meals...)
	return nil
}

func cloneUser(u models.User) *models.User {
	out := u
	if u.Budget != nil {
		b := *u.Budget
		out.Budget = &b
	}
	if u.MessPass != nil {
		mp := *u.MessPass
		out.MessPass = &mp
	}
	return &out
}
