package tracker

import (
	"context"
	"errors"
	"sync"
	"time"

	"unibites/internal/budget"
	"unibites/internal/models"
	"unibites/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrNoBudget      = errors.New("no budget has been set up")
	ErrInvalidBudget = errors.New("allowance and duration must be positive")
	ErrEmptyCart     = errors.New("nothing is staged")
	ErrLogNotFound   = errors.New("logged meal not found")
	ErrInvalidPrice  = errors.New("price must not be negative")
	ErrNoMessPass    = errors.New("no mess pass to cancel")
)

// Store is the per-user persistence collaborator. Logged meals are read and
// written as a whole list keyed by the user key. LoadUser returns nil, nil
// for an unknown key.
type Store interface {
	LoadUser(ctx context.Context, key string) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
	LoadLoggedMeals(ctx context.Context, key string) ([]models.LoggedMeal, error)
	SaveLoggedMeals(ctx context.Context, key string, meals []models.LoggedMeal) error
}

// session is the in-memory state of one user.
type session struct {
	mu     sync.Mutex
	user   models.User
	meals  []models.LoggedMeal
	staged []models.StagedItem
}

// Tracker owns every user's budget, log book and cart. State lives in memory;
// each change is written through to the store and a failed write is only logged.
type Tracker struct {
	store    Store
	cal      budget.Calendar
	logger   *logger.Logger
	mu       sync.Mutex
	sessions map[string]*session
}

func New(store Store, cal budget.Calendar, l *logger.Logger) *Tracker {
	return &Tracker{
		store:    store,
		cal:      cal,
		logger:   l,
		sessions: make(map[string]*session),
	}
}

// Calendar exposes the clock the tracker runs on.
func (t *Tracker) Calendar() budget.Calendar {
	return t.cal
}

// session returns the cached state for key, loading it on first use. A budget
// that missed a day boundary while the user was away is reconciled on load.
func (t *Tracker) session(ctx context.Context, key string) *session {
	t.mu.Lock()
	defer t.mu.Unlock()

	if s, ok := t.sessions[key]; ok {
		return s
	}

	s := &session{}
	user, err := t.store.LoadUser(ctx, key)
	if err != nil {
		t.logger.Error("Failed to load user", "user", key, "error", err)
	}
	if user != nil {
		s.user = *user
	} else {
		now := t.cal.Now()
		s.user = models.User{Key: key, Role: models.RoleStudent, CreatedAt: now, UpdatedAt: now}
	}

	meals, err := t.store.LoadLoggedMeals(ctx, key)
	if err != nil {
		t.logger.Error("Failed to load logged meals", "user", key, "error", err)
	}
	s.meals = meals

	if len(s.meals) > 0 {
		t.transition(ctx, s)
	}

	t.sessions[key] = s
	return s
}

// transition runs the day-boundary logic and persists the budget when it moved.
// Must be called with s.mu held or before s is shared.
func (t *Tracker) transition(ctx context.Context, s *session) {
	res := budget.Transition(s.user.Budget, s.meals, t.cal)
	if !res.Changed() {
		return
	}

	t.logger.Info("Budget day transition",
		"user", s.user.Key,
		"kind", res.Kind,
		"previous_day", res.PreviousDay,
		"today", res.Today,
		"prev_day_spend", res.PrevDaySpend,
		"difference", res.Difference,
		"daily_limit", res.NewDailyLimit,
		"remaining_days", res.RemainingDays,
	)
	t.saveUser(ctx, s)
}

func (t *Tracker) saveUser(ctx context.Context, s *session) {
	s.user.UpdatedAt = t.cal.Now()
	u := s.user
	if err := t.store.SaveUser(ctx, &u); err != nil {
		t.logger.Error("Failed to save user", "user", s.user.Key, "error", err)
	}
}

func (t *Tracker) saveMeals(ctx context.Context, s *session) {
	meals := append([]models.LoggedMeal(nil), s.meals...)
	if err := t.store.SaveLoggedMeals(ctx, s.user.Key, meals); err != nil {
		t.logger.Error("Failed to save logged meals", "user", s.user.Key, "error", err)
	}
}

// User returns a snapshot of the stored profile.
func (t *Tracker) User(ctx context.Context, key string) models.User {
	s := t.session(ctx, key)
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.user
	if u.Budget != nil {
		b := *u.Budget
		u.Budget = &b
	}
	if u.MessPass != nil {
		mp := *u.MessPass
		u.MessPass = &mp
	}
	return u
}

func (t *Tracker) SetName(ctx context.Context, key, name string) {
	s := t.session(ctx, key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user.Name == name {
		return
	}
	s.user.Name = name
	t.saveUser(ctx, s)
}

// Onboard starts a fresh budget cycle. Non-positive allowance or duration
// leaves the profile untouched and returns ErrInvalidBudget.
func (t *Tracker) Onboard(ctx context.Context, key string, allowance, savingGoal, durationDays int) (models.Budget, error) {
	b, ok := budget.Onboard(allowance, savingGoal, durationDays)
	if !ok {
		return models.Budget{}, ErrInvalidBudget
	}

	s := t.session(ctx, key)
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user.Budget = &b
	s.user.OnboardingComplete = true
	t.saveUser(ctx, s)

	t.logger.Info("Budget cycle started",
		"user", key,
		"allowance", allowance,
		"saving_goal", savingGoal,
		"days", durationDays,
		"daily_limit", b.DailyLimit,
	)
	return b, nil
}

// EditBudget replaces the current cycle with one built from the new values.
func (t *Tracker) EditBudget(ctx context.Context, key string, allowance, savingGoal, durationDays int) (models.Budget, error) {
	if t.User(ctx, key).Budget == nil {
		return models.Budget{}, ErrNoBudget
	}
	return t.Onboard(ctx, key, allowance, savingGoal, durationDays)
}

func (t *Tracker) Summary(ctx context.Context, key string) budget.Summary {
	s := t.session(ctx, key)
	s.mu.Lock()
	defer s.mu.Unlock()
	return budget.Summarize(s.user.Budget, s.meals, t.cal)
}

// AcknowledgeCompletion records that the completion notice was shown.
func (t *Tracker) AcknowledgeCompletion(ctx context.Context, key string) error {
	s := t.session(ctx, key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user.Budget == nil {
		return ErrNoBudget
	}
	if s.user.Budget.HasSeenCompletionPopup {
		return nil
	}
	s.user.Budget.HasSeenCompletionPopup = true
	t.saveUser(ctx, s)
	return nil
}

// CompletionPending reports whether a finished cycle still owes the user its notice.
func (t *Tracker) CompletionPending(ctx context.Context, key string) bool {
	u := t.User(ctx, key)
	return u.Budget != nil && u.Budget.IsCycleCompleted && !u.Budget.HasSeenCompletionPopup
}

func (t *Tracker) ApplyMessPass(ctx context.Context, key string, start, end time.Time) (*models.MessPass, error) {
	mp, err := budget.NewMessPass(start, end, t.cal.Now())
	if err != nil {
		return nil, err
	}

	s := t.session(ctx, key)
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user.MessPass = mp
	t.saveUser(ctx, s)
	out := *mp
	return &out, nil
}

// CancelMessPass drops the pass from the profile.
func (t *Tracker) CancelMessPass(ctx context.Context, key string) error {
	s := t.session(ctx, key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user.MessPass == nil {
		return ErrNoMessPass
	}
	s.user.MessPass = nil
	t.saveUser(ctx, s)
	return nil
}

// MessPassActive reports whether the user's pass covers today.
func (t *Tracker) MessPassActive(ctx context.Context, key string) bool {
	return budget.MessPassCovers(t.User(ctx, key).MessPass, t.cal.Now(), t.cal)
}

func (t *Tracker) Meals(ctx context.Context, key string) []models.LoggedMeal {
	s := t.session(ctx, key)
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.LoggedMeal(nil), s.meals...)
}

// LogMeal writes one unit of item straight into the log book.
func (t *Tracker) LogMeal(ctx context.Context, key string, item models.MenuItem, slot string) models.LoggedMeal {
	s := t.session(ctx, key)
	s.mu.Lock()
	defer s.mu.Unlock()

	m := t.newLog(item, slot, false)
	t.appendLogs(ctx, s, m)
	return m
}

// LogManual records something bought outside the menu.
func (t *Tracker) LogManual(ctx context.Context, key, name string, price int, slot string) (models.LoggedMeal, error) {
	if price < 0 {
		return models.LoggedMeal{}, ErrInvalidPrice
	}
	item := models.MenuItem{
		ID:          "manual_" + uuid.NewString(),
		Name:        name,
		Price:       price,
		Category:    "Manual",
		Type:        models.Veg,
		IsAvailable: true,
	}

	s := t.session(ctx, key)
	s.mu.Lock()
	defer s.mu.Unlock()

	m := t.newLog(item, slot, true)
	t.appendLogs(ctx, s, m)
	return m, nil
}

func (t *Tracker) RemoveLog(ctx context.Context, key, id string) error {
	s := t.session(ctx, key)
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, m := range s.meals {
		if m.ID == id {
			s.meals = append(s.meals[:i], s.meals[i+1:]...)
			t.saveMeals(ctx, s)
			return nil
		}
	}
	return ErrLogNotFound
}

// DailyReport returns the evening recap once it is due. Days covered by a
// mess pass get no recap.
func (t *Tracker) DailyReport(ctx context.Context, key string) (budget.DailyReport, bool) {
	if t.MessPassActive(ctx, key) {
		return budget.DailyReport{}, false
	}
	sum := t.Summary(ctx, key)
	if !budget.ReportDue(sum, t.cal.Now()) {
		return budget.DailyReport{}, false
	}
	return budget.Report(sum), true
}

func (t *Tracker) newLog(item models.MenuItem, slot string, manual bool) models.LoggedMeal {
	return models.LoggedMeal{
		ID:        "log_" + uuid.NewString(),
		Item:      item,
		IsManual:  manual,
		Timestamp: t.cal.Now(),
		Slot:      slot,
		Quantity:  1,
	}
}

// appendLogs adds the entries, then lets the budget catch up with the calendar.
func (t *Tracker) appendLogs(ctx context.Context, s *session, logs ...models.LoggedMeal) {
	s.meals = append(s.meals, logs...)
	t.saveMeals(ctx, s)
	t.transition(ctx, s)
}
