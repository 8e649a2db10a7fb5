package budget

import (
	"math"

	"unibites/internal/models"
)

// PlannerSlots is the number of meal slots the daily planner splits a budget into.
const PlannerSlots = 4

// Summary holds the read-only figures derived from a budget and the log book.
// Nothing here is stored; it is recomputed on every read.
type Summary struct {
	DailyLimit      float64 `json:"daily_limit"`
	DailySpend      int     `json:"daily_spend"`
	RemainingBudget float64 `json:"remaining_budget"`
	CurrentSavings  float64 `json:"current_savings"`
	TodaysSavings   float64 `json:"todays_savings"`
	TotalBudgetLeft float64 `json:"total_budget_left"`
	RemainingDays   int     `json:"remaining_days"`
	DaysUsed        int     `json:"days_used"`
	CycleCompleted  bool    `json:"cycle_completed"`
	MealsToday      int     `json:"meals_today"`
}

func Summarize(b *models.Budget, meals []models.LoggedMeal, cal Calendar) Summary {
	today := cal.Today()
	spend := SpendOn(meals, cal, today)

	mealsToday := 0
	for _, m := range meals {
		if cal.DayOf(m.Timestamp) == today {
			mealsToday++
		}
	}

	limit := DefaultDailyLimit
	var remainingDays, daysUsed int
	var completed bool
	if b != nil {
		if b.DailyLimit > 0 {
			limit = b.DailyLimit
		}
		remainingDays = b.RemainingDays
		daysUsed = b.DaysUsed
		completed = b.IsCycleCompleted
	}

	remaining := math.Max(0, limit-float64(spend))
	return Summary{
		DailyLimit:      limit,
		DailySpend:      spend,
		RemainingBudget: remaining,
		CurrentSavings:  remaining,
		TodaysSavings:   limit - float64(spend),
		TotalBudgetLeft: limit*float64(remainingDays) + remaining,
		RemainingDays:   remainingDays,
		DaysUsed:        daysUsed,
		CycleCompleted:  completed,
		MealsToday:      mealsToday,
	}
}

// SlotTarget is the planner's per-meal target for what is left today.
func SlotTarget(remaining float64) float64 {
	return remaining / PlannerSlots
}
