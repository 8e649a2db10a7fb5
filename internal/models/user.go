// internal/models/user.go
package models

import "time"

type Role string

const (
	RoleStudent Role = "student"
	RoleVendor  Role = "vendor"
)

// Budget is the spending cycle embedded in a student's profile.
type Budget struct {
	DailyLimit             float64 `json:"daily_limit"`
	MonthlyLimit           float64 `json:"monthly_limit"`
	SavingGoal             float64 `json:"saving_goal"`
	BaseDailyBudget        float64 `json:"base_daily_budget"`
	TotalPlannedDays       int     `json:"total_planned_days"`
	DaysUsed               int     `json:"days_used"`
	RemainingDays          int     `json:"remaining_days"`
	LastRedistributionDate string  `json:"last_redistribution_date,omitempty"`
	IsCycleCompleted       bool    `json:"is_cycle_completed"`
	AdditionalSavings      float64 `json:"additional_savings"`
	HasSeenCompletionPopup bool    `json:"has_seen_completion_popup"`
}

type MessPass struct {
	IsActive    bool      `json:"is_active"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	TotalDays   int       `json:"total_days"`
	DailyRate   int       `json:"daily_rate"`
	TotalFee    int       `json:"total_fee"`
	AppliedDate time.Time `json:"applied_date"`
}

type User struct {
	Key                string    `json:"key"`
	Name               string    `json:"name"`
	Role               Role      `json:"role"`
	CanteenID          string    `json:"canteen_id,omitempty"`
	OnboardingComplete bool      `json:"onboarding_complete"`
	Budget             *Budget   `json:"budget,omitempty"`
	MessPass           *MessPass `json:"mess_pass,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
