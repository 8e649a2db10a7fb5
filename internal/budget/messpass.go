package budget

import (
	"errors"
	"math"
	"time"

	"unibites/internal/models"
)

// MessPassDailyRate covers breakfast, lunch and dinner for one day.
const MessPassDailyRate = 150

var ErrInvalidRange = errors.New("end date must not be before start date")

// QuoteMessPass counts both the start and the end day.
func QuoteMessPass(start, end time.Time) (days int, fee int, err error) {
	if end.Before(start) {
		return 0, 0, ErrInvalidRange
	}
	days = int(math.Ceil(end.Sub(start).Hours()/24)) + 1
	return days, days * MessPassDailyRate, nil
}

func NewMessPass(start, end, applied time.Time) (*models.MessPass, error) {
	days, fee, err := QuoteMessPass(start, end)
	if err != nil {
		return nil, err
	}
	return &models.MessPass{
		IsActive:    true,
		StartDate:   start,
		EndDate:     end,
		TotalDays:   days,
		DailyRate:   MessPassDailyRate,
		TotalFee:    fee,
		AppliedDate: applied,
	}, nil
}

// MessPassCovers reports whether an active pass includes the calendar day of t.
func MessPassCovers(mp *models.MessPass, t time.Time, cal Calendar) bool {
	if mp == nil || !mp.IsActive {
		return false
	}
	day := cal.DayOf(t)
	return day >= cal.DayOf(mp.StartDate) && day <= cal.DayOf(mp.EndDate)
}
