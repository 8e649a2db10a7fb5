package budget

import (
	"math"

	"unibites/internal/models"
)

const (
	// MinDailyLimit is the floor a redistributed daily limit never drops below.
	MinDailyLimit = 50.0
	// DefaultDailyLimit applies to students who have not onboarded yet.
	DefaultDailyLimit = 200.0
)

type TransitionKind string

const (
	TransitionNone      TransitionKind = "none"
	TransitionFirstLog  TransitionKind = "first_log"
	TransitionNewDay    TransitionKind = "new_day"
	TransitionCompleted TransitionKind = "cycle_completed"
)

// TransitionResult describes what a call to Transition did.
type TransitionResult struct {
	Kind          TransitionKind
	PreviousDay   string
	Today         string
	PrevDaySpend  int
	PrevLimit     float64
	Difference    float64
	NewDailyLimit float64
	RemainingDays int
}

func (r TransitionResult) Changed() bool {
	return r.Kind != TransitionNone
}

// Onboard starts a new cycle. It reports false and creates nothing when the
// allowance or the duration is not positive.
func Onboard(allowance, savingGoal, durationDays int) (models.Budget, bool) {
	if allowance <= 0 || durationDays <= 0 {
		return models.Budget{}, false
	}

	disposable := allowance - savingGoal
	base := math.Max(0, math.Floor(float64(disposable)/float64(durationDays)))

	return models.Budget{
		DailyLimit:       base,
		MonthlyLimit:     float64(allowance),
		SavingGoal:       float64(savingGoal),
		BaseDailyBudget:  base,
		TotalPlannedDays: durationDays,
		DaysUsed:         0,
		RemainingDays:    durationDays,
	}, true
}

// SpendOn sums price x quantity over the meals logged on the given day key.
func SpendOn(meals []models.LoggedMeal, cal Calendar, day string) int {
	total := 0
	for _, m := range meals {
		if cal.DayOf(m.Timestamp) == day {
			total += m.Cost()
		}
	}
	return total
}

// Transition reconciles the previous recorded day into the daily limit the
// first time it runs on a new calendar day. Running it again on the same day
// is a no-op, as is running it on a completed cycle.
//
// The whole difference between the previous limit and the previous day's spend
// is spread evenly over every remaining day: new limit = base + difference/remaining,
// floored at MinDailyLimit.
func Transition(b *models.Budget, meals []models.LoggedMeal, cal Calendar) TransitionResult {
	today := cal.Today()
	res := TransitionResult{Kind: TransitionNone, Today: today}
	if b == nil || b.IsCycleCompleted {
		return res
	}

	last := b.LastRedistributionDate
	switch {
	case last != "" && last != today:
		prevSpend := SpendOn(meals, cal, last)
		difference := b.DailyLimit - float64(prevSpend)

		newLimit := b.DailyLimit
		additional := b.AdditionalSavings
		if b.RemainingDays > 0 {
			newLimit = math.Max(MinDailyLimit, b.BaseDailyBudget+difference/float64(b.RemainingDays))
		} else if b.RemainingDays == 0 && difference > 0 {
			additional += difference
		}

		daysUsed := b.DaysUsed + 1
		remaining := b.TotalPlannedDays - daysUsed
		completed := remaining < 0

		res.PreviousDay = last
		res.PrevDaySpend = prevSpend
		res.PrevLimit = b.DailyLimit
		res.Difference = difference
		res.NewDailyLimit = newLimit
		res.Kind = TransitionNewDay

		b.DailyLimit = newLimit
		b.DaysUsed = daysUsed
		b.RemainingDays = max(0, remaining)
		b.LastRedistributionDate = today
		b.IsCycleCompleted = completed
		b.HasSeenCompletionPopup = false
		if completed {
			b.AdditionalSavings += math.Max(0, difference)
			res.Kind = TransitionCompleted
		} else {
			b.AdditionalSavings = additional
		}
		res.RemainingDays = b.RemainingDays

	case last == "" && len(meals) > 0:
		b.LastRedistributionDate = today
		b.DaysUsed = 1
		b.RemainingDays = b.TotalPlannedDays - 1
		res.Kind = TransitionFirstLog
		res.NewDailyLimit = b.DailyLimit
		res.RemainingDays = b.RemainingDays
	}

	return res
}
