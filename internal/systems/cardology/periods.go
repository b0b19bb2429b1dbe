package cardology

import (
	"time"
)

// PeriodDays is the fixed length of the first six planetary periods.
const PeriodDays = 52

// PeriodPlanets lists the seven period rulers in order.
var PeriodPlanets = []string{"Mercury", "Venus", "Mars", "Jupiter", "Saturn", "Uranus", "Neptune"}

// Period is one planetary period. Start and End are inclusive civil dates
// expressed as UTC midnights.
type Period struct {
	Planet string    `json:"planet"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Days   int       `json:"days"`
	Card   Card      `json:"card"`
}

// Contains reports whether the civil date d falls inside the period.
func (p Period) Contains(d time.Time) bool {
	return !d.Before(p.Start) && !d.After(p.End)
}

// Cycle is one birthday-to-birthday year split into seven periods.
type Cycle struct {
	Start   time.Time `json:"start"`
	Next    time.Time `json:"next"`
	Periods []Period  `json:"periods"`
}

// NewCycle returns the cycle that contains at, anchored on the most recent
// birthday on or before at's civil date. February 29th birthdays fall on
// February 28th in common years.
func NewCycle(month, day int, at time.Time) (Cycle, error) {
	if _, err := SolarValue(month, day); err != nil {
		return Cycle{}, err
	}
	today := civilDate(at)

	start := birthday(today.Year(), month, day)
	if start.After(today) {
		start = birthday(today.Year()-1, month, day)
	}
	next := birthday(start.Year()+1, month, day)

	periods := make([]Period, len(PeriodPlanets))
	for i, planet := range PeriodPlanets {
		from := start.AddDate(0, 0, i*PeriodDays)
		to := from.AddDate(0, 0, PeriodDays-1)
		if i == len(PeriodPlanets)-1 {
			to = next.AddDate(0, 0, -1)
		}
		periods[i] = Period{
			Planet: planet,
			Start:  from,
			End:    to,
			Days:   daysBetween(from, to) + 1,
		}
	}
	return Cycle{Start: start, Next: next, Periods: periods}, nil
}

// Days is the cycle length, 365 or 366.
func (c Cycle) Days() int {
	return daysBetween(c.Start, c.Next)
}

// Current returns the index and period containing at. Dates outside the
// cycle clamp to the first or last period.
func (c Cycle) Current(at time.Time) (int, Period) {
	if len(c.Periods) == 0 {
		return -1, Period{}
	}
	d := civilDate(at)
	for i, p := range c.Periods {
		if p.Contains(d) {
			return i, p
		}
	}
	if d.Before(c.Start) {
		return 0, c.Periods[0]
	}
	last := len(c.Periods) - 1
	return last, c.Periods[last]
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func birthday(year, month, day int) time.Time {
	if month == 2 && day == 29 && !isLeap(year) {
		day = 28
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
