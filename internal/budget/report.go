package budget

import (
	"fmt"
	"math"
	"time"
)

const (
	reportHour      = 20
	reportMinMeals  = 3
	excellentSaving = 0.3
	alertOverspend  = 0.2
)

type Tone string

const (
	ToneExcellent Tone = "excellent"
	ToneOnTrack   Tone = "on_track"
	ToneOver      Tone = "slightly_over"
	ToneAlert     Tone = "alert"
)

// DailyReport is the end-of-day recap shown to a student.
type DailyReport struct {
	Tone    Tone     `json:"tone"`
	Title   string   `json:"title"`
	Message string   `json:"message"`
	Tips    []string `json:"tips"`
}

// ReportDue reports whether the evening recap should be shown.
func ReportDue(s Summary, now time.Time) bool {
	return s.MealsToday >= reportMinMeals && now.Hour() >= reportHour
}

func Report(s Summary) DailyReport {
	if s.TodaysSavings >= 0 {
		if s.TodaysSavings > s.DailyLimit*excellentSaving {
			pct := 0.0
			if s.DailyLimit > 0 {
				pct = s.TodaysSavings / s.DailyLimit * 100
			}
			return DailyReport{
				Tone:    ToneExcellent,
				Title:   "Excellent Budget Management!",
				Message: fmt.Sprintf("You saved ₹%s today! That's %.1f%% under budget. Keep up this amazing discipline!", FormatRupees(s.TodaysSavings), pct),
				Tips: []string{
					"Your savings are adding up nicely",
					"You're on track for a great month",
					"Consider treating yourself occasionally, you've earned it!",
				},
			}
		}
		return DailyReport{
			Tone:    ToneOnTrack,
			Title:   "Great Job Staying on Track!",
			Message: fmt.Sprintf("You spent ₹%d and saved ₹%s today. Well done!", s.DailySpend, FormatRupees(s.TodaysSavings)),
			Tips: []string{
				"You're managing your budget wisely",
				"Small savings add up over time",
				"Keep making smart food choices",
			},
		}
	}

	overspend := math.Abs(s.TodaysSavings)
	if overspend > s.DailyLimit*alertOverspend {
		return DailyReport{
			Tone:    ToneAlert,
			Title:   "Budget Alert: Let's Improve Tomorrow",
			Message: fmt.Sprintf("You spent ₹%d today, which is ₹%s over your daily limit.", s.DailySpend, FormatRupees(overspend)),
			Tips: []string{
				"Try planning your meals in advance tomorrow",
				"Look for budget-friendly options in the menu",
				"Consider skipping expensive add-ons or beverages",
			},
		}
	}
	return DailyReport{
		Tone:    ToneOver,
		Title:   "Slightly Over Budget",
		Message: fmt.Sprintf("You spent ₹%d today, ₹%s over your limit. Future days adjust automatically.", s.DailySpend, FormatRupees(overspend)),
		Tips: []string{
			"A small overspend is spread over your remaining days",
			"Pick one cheaper meal tomorrow to balance out",
		},
	}
}

// FormatRupees prints whole amounts without decimals and everything else with two.
func FormatRupees(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
