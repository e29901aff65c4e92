package plan

import (
	"iter"
	"slices"
)

// CalendarWindow enumerates the days a material may be studied on.
type CalendarWindow struct {
	Start    Date
	Deadline *Date
	Excluded Weekdays
	// Skipped removes single dates, e.g. a day reported as missed.
	Skipped []Date
}

// Validate reports windows that can never produce a plan.
func (w CalendarWindow) Validate() error {
	if w.Excluded.CoversWholeWeek() {
		return newConfigurationError("", "all 7 weekdays are excluded")
	}
	if w.Deadline != nil && w.Start.After(*w.Deadline) {
		return newConfigurationError("", "start date %s is after deadline %s", w.Start, *w.Deadline)
	}
	return nil
}

// Eligible reports whether d lies in the window, is not an excluded weekday and is not skipped.
func (w CalendarWindow) Eligible(d Date) bool {
	if d.Before(w.Start) {
		return false
	}
	if w.Deadline != nil && d.After(*w.Deadline) {
		return false
	}
	return !w.Excluded.Contains(d.Weekday()) && !w.skipped(d)
}

func (w CalendarWindow) skipped(d Date) bool {
	return slices.ContainsFunc(w.Skipped, d.Equal)
}

// Days yields eligible days in ascending order.
// The sequence is infinite without a deadline and empty when every weekday is excluded.
func (w CalendarWindow) Days() iter.Seq[Date] {
	return func(yield func(Date) bool) {
		if w.Excluded.CoversWholeWeek() {
			return
		}
		for d := w.Start; w.Deadline == nil || !d.After(*w.Deadline); d = d.AddDays(1) {
			if w.Excluded.Contains(d.Weekday()) || w.skipped(d) {
				continue
			}
			if !yield(d) {
				return
			}
		}
	}
}

// Count returns the number of eligible days, or -1 for an open-ended window.
func (w CalendarWindow) Count() int {
	if w.Deadline == nil {
		if w.Excluded.CoversWholeWeek() {
			return 0
		}
		return -1
	}
	count := 0
	for range w.Days() {
		count++
	}
	return count
}

// From returns the window with every day before d removed.
func (w CalendarWindow) From(d Date) CalendarWindow {
	w.Start = maxDate(w.Start, d)
	return w
}
