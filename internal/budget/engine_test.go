package budget

import (
	"fmt"
	"math"
	"testing"
	"time"

	"unibites/internal/models"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02 15:04", s, time.UTC)
	if err != nil {
		t.Fatalf("parse time %q: %v", s, err)
	}
	return ts
}

func calendarAt(t *testing.T, s string) Calendar {
	t.Helper()
	now := mustTime(t, s)
	return NewCalendar(ClockFunc(func() time.Time { return now }), time.UTC)
}

func meal(t *testing.T, price, qty int, at string) models.LoggedMeal {
	t.Helper()
	return models.LoggedMeal{
		ID:        fmt.Sprintf("log_%s_%d", at, price),
		Item:      models.MenuItem{ID: "m", Name: "Item", Price: price},
		Timestamp: mustTime(t, at),
		Quantity:  qty,
	}
}

func TestOnboard_ComputesBaseDailyBudget(t *testing.T) {
	b, ok := Onboard(3000, 500, 30)
	if !ok {
		t.Fatal("Onboard returned !ok for valid input")
	}
	if b.BaseDailyBudget != 83 {
		t.Fatalf("BaseDailyBudget = %v, want 83", b.BaseDailyBudget)
	}
	if b.DailyLimit != b.BaseDailyBudget {
		t.Fatalf("DailyLimit = %v, want %v", b.DailyLimit, b.BaseDailyBudget)
	}
	if b.RemainingDays != 30 || b.TotalPlannedDays != 30 || b.DaysUsed != 0 {
		t.Fatalf("cycle = used %d remaining %d total %d, want 0/30/30", b.DaysUsed, b.RemainingDays, b.TotalPlannedDays)
	}
	if b.IsCycleCompleted {
		t.Fatal("new cycle marked completed")
	}
}

func TestOnboard_ClampsNegativeDisposableIncome(t *testing.T) {
	b, ok := Onboard(100, 500, 10)
	if !ok {
		t.Fatal("Onboard returned !ok")
	}
	if b.DailyLimit != 0 {
		t.Fatalf("DailyLimit = %v, want 0", b.DailyLimit)
	}
}

func TestOnboard_RejectsNonPositiveInput(t *testing.T) {
	cases := []struct {
		allowance, goal, days int
	}{
		{0, 0, 30},
		{-100, 0, 30},
		{1000, 0, 0},
		{1000, 0, -5},
	}
	for _, c := range cases {
		if _, ok := Onboard(c.allowance, c.goal, c.days); ok {
			t.Fatalf("Onboard(%d, %d, %d) ok, want rejected", c.allowance, c.goal, c.days)
		}
	}
}

func TestTransition_FirstLogInitialisesCycle(t *testing.T) {
	b, _ := Onboard(3000, 0, 30)
	cal := calendarAt(t, "2026-03-01 09:00")
	meals := []models.LoggedMeal{meal(t, 60, 1, "2026-03-01 09:00")}

	res := Transition(&b, meals, cal)
	if res.Kind != TransitionFirstLog {
		t.Fatalf("Kind = %s, want %s", res.Kind, TransitionFirstLog)
	}
	if b.DaysUsed != 1 || b.RemainingDays != 29 {
		t.Fatalf("used/remaining = %d/%d, want 1/29", b.DaysUsed, b.RemainingDays)
	}
	if b.LastRedistributionDate != "2026-03-01" {
		t.Fatalf("LastRedistributionDate = %q, want 2026-03-01", b.LastRedistributionDate)
	}
	if b.DailyLimit != 100 {
		t.Fatalf("DailyLimit = %v, want unchanged 100", b.DailyLimit)
	}
}

func TestTransition_NoMealsNoLastDateIsNoop(t *testing.T) {
	b, _ := Onboard(3000, 0, 30)
	before := b
	res := Transition(&b, nil, calendarAt(t, "2026-03-01 09:00"))
	if res.Changed() {
		t.Fatalf("Kind = %s, want none", res.Kind)
	}
	if b != before {
		t.Fatalf("budget changed: %+v", b)
	}
}

func TestTransition_RedistributesDifferenceOverRemainingDays(t *testing.T) {
	b := models.Budget{
		DailyLimit:             150,
		BaseDailyBudget:        150,
		TotalPlannedDays:       11,
		DaysUsed:               1,
		RemainingDays:          10,
		LastRedistributionDate: "2026-03-01",
	}
	meals := []models.LoggedMeal{
		meal(t, 50, 2, "2026-03-01 13:00"),
		meal(t, 40, 1, "2026-03-02 08:30"),
	}

	res := Transition(&b, meals, calendarAt(t, "2026-03-02 08:30"))
	if res.Kind != TransitionNewDay {
		t.Fatalf("Kind = %s, want %s", res.Kind, TransitionNewDay)
	}
	if res.PrevDaySpend != 100 {
		t.Fatalf("PrevDaySpend = %d, want 100", res.PrevDaySpend)
	}
	if res.Difference != 50 {
		t.Fatalf("Difference = %v, want 50", res.Difference)
	}
	if b.DailyLimit != 155 {
		t.Fatalf("DailyLimit = %v, want 155", b.DailyLimit)
	}
	if b.RemainingDays != 9 || b.DaysUsed != 2 {
		t.Fatalf("used/remaining = %d/%d, want 2/9", b.DaysUsed, b.RemainingDays)
	}
	if b.LastRedistributionDate != "2026-03-02" {
		t.Fatalf("LastRedistributionDate = %q, want 2026-03-02", b.LastRedistributionDate)
	}
}

func TestTransition_UsesCurrentLimitForDifference(t *testing.T) {
	b := models.Budget{
		DailyLimit:             200,
		BaseDailyBudget:        150,
		TotalPlannedDays:       11,
		DaysUsed:               1,
		RemainingDays:          10,
		LastRedistributionDate: "2026-03-01",
	}
	meals := []models.LoggedMeal{meal(t, 100, 1, "2026-03-01 13:00")}

	Transition(&b, meals, calendarAt(t, "2026-03-02 08:30"))
	if b.DailyLimit != 160 {
		t.Fatalf("DailyLimit = %v, want 160 (150 + 100/10)", b.DailyLimit)
	}
}

func TestTransition_IsIdempotentWithinADay(t *testing.T) {
	b := models.Budget{
		DailyLimit:             150,
		BaseDailyBudget:        150,
		TotalPlannedDays:       11,
		DaysUsed:               1,
		RemainingDays:          10,
		LastRedistributionDate: "2026-03-01",
	}
	meals := []models.LoggedMeal{meal(t, 100, 1, "2026-03-01 13:00")}
	cal := calendarAt(t, "2026-03-02 10:00")

	Transition(&b, meals, cal)
	after := b

	res := Transition(&b, meals, cal)
	if res.Changed() {
		t.Fatalf("second Transition Kind = %s, want none", res.Kind)
	}
	if b != after {
		t.Fatalf("budget changed on second call:\n got %+v\nwant %+v", b, after)
	}
}

func TestTransition_FloorHoldsUnderHeavyOverspend(t *testing.T) {
	b := models.Budget{
		DailyLimit:             100,
		BaseDailyBudget:        100,
		TotalPlannedDays:       4,
		DaysUsed:               2,
		RemainingDays:          2,
		LastRedistributionDate: "2026-03-02",
	}
	meals := []models.LoggedMeal{meal(t, 500, 2, "2026-03-02 20:00")}

	Transition(&b, meals, calendarAt(t, "2026-03-03 08:00"))
	if b.DailyLimit != MinDailyLimit {
		t.Fatalf("DailyLimit = %v, want floor %v", b.DailyLimit, MinDailyLimit)
	}
	if b.RemainingDays != 1 {
		t.Fatalf("RemainingDays = %d, want 1", b.RemainingDays)
	}
}

func TestTransition_CompletesCycleAndBanksLeftover(t *testing.T) {
	b := models.Budget{
		DailyLimit:             100,
		BaseDailyBudget:        100,
		TotalPlannedDays:       3,
		DaysUsed:               3,
		RemainingDays:          0,
		LastRedistributionDate: "2026-03-03",
		AdditionalSavings:      5,
		HasSeenCompletionPopup: true,
	}
	meals := []models.LoggedMeal{meal(t, 60, 1, "2026-03-03 13:00")}

	res := Transition(&b, meals, calendarAt(t, "2026-03-04 09:00"))
	if res.Kind != TransitionCompleted {
		t.Fatalf("Kind = %s, want %s", res.Kind, TransitionCompleted)
	}
	if !b.IsCycleCompleted {
		t.Fatal("IsCycleCompleted = false, want true")
	}
	if b.AdditionalSavings != 45 {
		t.Fatalf("AdditionalSavings = %v, want 45", b.AdditionalSavings)
	}
	if b.HasSeenCompletionPopup {
		t.Fatal("HasSeenCompletionPopup = true, want reset to false")
	}
	if b.RemainingDays != 0 {
		t.Fatalf("RemainingDays = %d, want 0", b.RemainingDays)
	}

	frozen := b
	res = Transition(&b, meals, calendarAt(t, "2026-03-05 09:00"))
	if res.Changed() || b != frozen {
		t.Fatalf("completed cycle changed: %+v", b)
	}
}

func TestTransition_CompletionDoesNotBankOverspend(t *testing.T) {
	b := models.Budget{
		DailyLimit:             100,
		BaseDailyBudget:        100,
		TotalPlannedDays:       3,
		DaysUsed:               3,
		RemainingDays:          0,
		LastRedistributionDate: "2026-03-03",
	}
	meals := []models.LoggedMeal{meal(t, 180, 1, "2026-03-03 13:00")}

	Transition(&b, meals, calendarAt(t, "2026-03-04 09:00"))
	if b.AdditionalSavings != 0 {
		t.Fatalf("AdditionalSavings = %v, want 0", b.AdditionalSavings)
	}
}

// simulateCycle logs one meal per day costing spend(day, limit), running the
// transition after each log the way the tracker does, then closes the cycle.
func simulateCycle(t *testing.T, b *models.Budget, spend func(day int, limit float64) int) int {
	t.Helper()
	start := mustTime(t, "2026-04-01 12:00")
	var meals []models.LoggedMeal
	total := 0

	for day := 0; day < b.TotalPlannedDays; day++ {
		now := start.AddDate(0, 0, day)
		cal := NewCalendar(ClockFunc(func() time.Time { return now }), time.UTC)

		price := spend(day, b.DailyLimit)
		meals = append(meals, models.LoggedMeal{Item: models.MenuItem{Price: price}, Timestamp: now, Quantity: 1})
		Transition(b, meals, cal)
		total += price

		if b.DaysUsed+b.RemainingDays != b.TotalPlannedDays {
			t.Fatalf("day %d: used %d + remaining %d != total %d", day, b.DaysUsed, b.RemainingDays, b.TotalPlannedDays)
		}
		if b.DailyLimit < MinDailyLimit && b.DaysUsed > 1 {
			t.Fatalf("day %d: DailyLimit %v below floor", day, b.DailyLimit)
		}
	}

	end := start.AddDate(0, 0, b.TotalPlannedDays)
	Transition(b, meals, NewCalendar(ClockFunc(func() time.Time { return end }), time.UTC))
	return total
}

func TestTransition_FullCycleReconcilesWithDisposableIncome(t *testing.T) {
	const allowance, goal, days = 3005, 500, 10
	b, _ := Onboard(allowance, goal, days)

	total := simulateCycle(t, &b, func(day int, limit float64) int {
		if day == days-1 {
			return int(limit) - 30
		}
		return int(limit)
	})

	if !b.IsCycleCompleted {
		t.Fatal("cycle not completed after its last day")
	}
	if b.AdditionalSavings != 30 {
		t.Fatalf("AdditionalSavings = %v, want 30", b.AdditionalSavings)
	}
	disposable := float64(allowance - goal)
	got := float64(total) + b.AdditionalSavings
	if math.Abs(got-disposable) >= days {
		t.Fatalf("spend + savings = %v, want within floor rounding of %v", got, disposable)
	}
}
