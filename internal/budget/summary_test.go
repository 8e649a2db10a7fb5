package budget

import (
	"errors"
	"testing"

	"unibites/internal/models"
)

func TestSummarize_DerivesTodaysFigures(t *testing.T) {
	b := &models.Budget{DailyLimit: 200, RemainingDays: 5, DaysUsed: 3}
	meals := []models.LoggedMeal{
		meal(t, 500, 1, "2026-03-01 13:00"),
		meal(t, 50, 1, "2026-03-02 08:00"),
		meal(t, 30, 2, "2026-03-02 13:00"),
	}

	s := Summarize(b, meals, calendarAt(t, "2026-03-02 18:00"))
	if s.DailySpend != 110 {
		t.Fatalf("DailySpend = %d, want 110", s.DailySpend)
	}
	if s.RemainingBudget != 90 {
		t.Fatalf("RemainingBudget = %v, want 90", s.RemainingBudget)
	}
	if s.TodaysSavings != 90 {
		t.Fatalf("TodaysSavings = %v, want 90", s.TodaysSavings)
	}
	if s.TotalBudgetLeft != 1090 {
		t.Fatalf("TotalBudgetLeft = %v, want 1090", s.TotalBudgetLeft)
	}
	if s.MealsToday != 2 {
		t.Fatalf("MealsToday = %d, want 2", s.MealsToday)
	}
}

func TestSummarize_OverspendClampsRemaining(t *testing.T) {
	b := &models.Budget{DailyLimit: 200, RemainingDays: 2}
	meals := []models.LoggedMeal{meal(t, 250, 1, "2026-03-02 13:00")}

	s := Summarize(b, meals, calendarAt(t, "2026-03-02 18:00"))
	if s.RemainingBudget != 0 {
		t.Fatalf("RemainingBudget = %v, want 0", s.RemainingBudget)
	}
	if s.TodaysSavings != -50 {
		t.Fatalf("TodaysSavings = %v, want -50", s.TodaysSavings)
	}
	if s.TotalBudgetLeft != 400 {
		t.Fatalf("TotalBudgetLeft = %v, want 400", s.TotalBudgetLeft)
	}
}

func TestSummarize_WithoutBudgetUsesDefaultLimit(t *testing.T) {
	s := Summarize(nil, nil, calendarAt(t, "2026-03-02 18:00"))
	if s.DailyLimit != DefaultDailyLimit {
		t.Fatalf("DailyLimit = %v, want %v", s.DailyLimit, DefaultDailyLimit)
	}
	if s.RemainingBudget != DefaultDailyLimit {
		t.Fatalf("RemainingBudget = %v, want %v", s.RemainingBudget, DefaultDailyLimit)
	}
}

func TestSlotTarget(t *testing.T) {
	if got := SlotTarget(200); got != 50 {
		t.Fatalf("SlotTarget(200) = %v, want 50", got)
	}
}

func TestQuoteMessPass(t *testing.T) {
	days, fee, err := QuoteMessPass(mustTime(t, "2026-01-01 00:00"), mustTime(t, "2026-01-03 00:00"))
	if err != nil {
		t.Fatalf("QuoteMessPass: %v", err)
	}
	if days != 3 || fee != 450 {
		t.Fatalf("days/fee = %d/%d, want 3/450", days, fee)
	}

	days, fee, _ = QuoteMessPass(mustTime(t, "2026-01-01 00:00"), mustTime(t, "2026-01-01 00:00"))
	if days != 1 || fee != MessPassDailyRate {
		t.Fatalf("same-day days/fee = %d/%d, want 1/%d", days, fee, MessPassDailyRate)
	}

	_, _, err = QuoteMessPass(mustTime(t, "2026-01-03 00:00"), mustTime(t, "2026-01-01 00:00"))
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("err = %v, want ErrInvalidRange", err)
	}
}

func TestReport_Tones(t *testing.T) {
	cases := []struct {
		name  string
		spend int
		want  Tone
	}{
		{"big saving", 100, ToneExcellent},
		{"small saving", 180, ToneOnTrack},
		{"exact", 200, ToneOnTrack},
		{"slightly over", 220, ToneOver},
		{"far over", 300, ToneAlert},
	}
	for _, c := range cases {
		s := Summary{DailyLimit: 200, DailySpend: c.spend, TodaysSavings: 200 - float64(c.spend)}
		if got := Report(s).Tone; got != c.want {
			t.Fatalf("%s: Tone = %s, want %s", c.name, got, c.want)
		}
	}
}

func TestReportDue(t *testing.T) {
	s := Summary{MealsToday: 3}
	if ReportDue(s, mustTime(t, "2026-03-02 19:59")) {
		t.Fatal("ReportDue before 20:00 = true")
	}
	if !ReportDue(s, mustTime(t, "2026-03-02 20:00")) {
		t.Fatal("ReportDue at 20:00 with 3 meals = false")
	}
	s.MealsToday = 2
	if ReportDue(s, mustTime(t, "2026-03-02 21:00")) {
		t.Fatal("ReportDue with 2 meals = true")
	}
}

func TestFormatRupees(t *testing.T) {
	if got := FormatRupees(155); got != "155" {
		t.Fatalf("FormatRupees(155) = %q", got)
	}
	if got := FormatRupees(155.5); got != "155.50" {
		t.Fatalf("FormatRupees(155.5) = %q", got)
	}
}

func TestMessPassCovers(t *testing.T) {
	cal := calendarAt(t, "2026-03-02 12:00")
	mp := &models.MessPass{IsActive: true, StartDate: mustTime(t, "2026-03-01 00:00"), EndDate: mustTime(t, "2026-03-03 00:00")}

	if !MessPassCovers(mp, mustTime(t, "2026-03-03 22:00"), cal) {
		t.Fatal("last day not covered")
	}
	if MessPassCovers(mp, mustTime(t, "2026-03-04 08:00"), cal) {
		t.Fatal("day after the pass covered")
	}
	mp.IsActive = false
	if MessPassCovers(mp, mustTime(t, "2026-03-02 08:00"), cal) {
		t.Fatal("inactive pass covers")
	}
	if MessPassCovers(nil, mustTime(t, "2026-03-02 08:00"), cal) {
		t.Fatal("nil pass covers")
	}
}
