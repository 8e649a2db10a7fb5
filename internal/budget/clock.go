package budget

import "time"

const dayLayout = "2006-01-02"

// Clock is the source of "now" for day-boundary detection.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// Calendar turns instants into calendar-day keys in a fixed location.
type Calendar struct {
	clock Clock
	loc   *time.Location
}

func NewCalendar(clock Clock, loc *time.Location) Calendar {
	if clock == nil {
		clock = SystemClock{}
	}
	if loc == nil {
		loc = time.Local
	}
	return Calendar{clock: clock, loc: loc}
}

func (c Calendar) Now() time.Time {
	if c.clock == nil {
		return time.Now()
	}
	return c.clock.Now().In(c.location())
}

// Today returns the current day key, e.g. "2026-10-15".
func (c Calendar) Today() string {
	return c.Now().Format(dayLayout)
}

func (c Calendar) DayOf(t time.Time) string {
	return t.In(c.location()).Format(dayLayout)
}

func (c Calendar) location() *time.Location {
	if c.loc == nil {
		return time.Local
	}
	return c.loc
}

// Local converts t into the calendar's location.
func (c Calendar) Local(t time.Time) time.Time {
	return t.In(c.location())
}

func (c Calendar) Location() *time.Location {
	return c.location()
}
