// Package plan distributes study materials over calendar days and keeps the
// distribution balanced as progress changes or days are missed.
//
// Everything in this package is a deterministic function of its inputs. Callers own
// persistence and must serialise writes to a material's progress before invoking it.
package plan

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// UnitType only affects how ranges are labelled.
type UnitType string

const (
	UnitPages    UnitType = "PAGES"
	UnitProblems UnitType = "PROBLEMS"
	UnitGeneric  UnitType = "GENERIC"
)

// Status is the lifecycle state of a material.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
)

// Weekdays is a set of weekdays that are never scheduled.
type Weekdays []time.Weekday

// Contains reports whether day is in the set.
func (w Weekdays) Contains(day time.Weekday) bool {
	return slices.Contains(w, day)
}

// CoversWholeWeek reports whether no weekday is left to study on.
func (w Weekdays) CoversWholeWeek() bool {
	for day := time.Sunday; day <= time.Saturday; day++ {
		if !w.Contains(day) {
			return false
		}
	}
	return true
}

// Normalize returns a sorted set without duplicates or out-of-range values.
func (w Weekdays) Normalize() Weekdays {
	result := make(Weekdays, 0, len(w))
	for _, day := range w {
		if day < time.Sunday || day > time.Saturday || result.Contains(day) {
			continue
		}
		result = append(result, day)
	}
	slices.Sort(result)
	return result
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// ParseWeekday accepts an index (0 = Sunday) or an English day name.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if day, ok := weekdayNames[s]; ok {
		return day, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 6 {
		return 0, fmt.Errorf("invalid weekday %q: expected 0-6 or a day name", s)
	}
	return time.Weekday(n), nil
}

// Material tracks one study material and how much of it is done.
type Material struct {
	ID               string   `json:"id" yaml:"id"`
	Name             string   `json:"name,omitempty" yaml:"name,omitempty"`
	TotalAmount      int      `json:"totalAmount" yaml:"total_amount"`
	CurrentProgress  int      `json:"currentProgress" yaml:"current_progress"`
	UnitType         UnitType `json:"unitType" yaml:"unit_type"`
	DailyTarget      int      `json:"dailyTarget,omitempty" yaml:"daily_target,omitempty"`
	StartDate        Date     `json:"startDate" yaml:"start_date"`
	Deadline         *Date    `json:"deadline,omitempty" yaml:"deadline,omitempty"`
	ExcludedWeekdays Weekdays `json:"excludedWeekdays" yaml:"excluded_weekdays"`
}

// Remaining returns the amount of work left, never negative.
func (m Material) Remaining() int {
	return max(m.TotalAmount-m.CurrentProgress, 0)
}

// Status derives the lifecycle state from progress.
// A material with nothing to do is completed.
func (m Material) Status() Status {
	if m.CurrentProgress >= m.TotalAmount {
		return StatusCompleted
	}
	return StatusActive
}

// Clamped returns m with currentProgress forced into [0, totalAmount] and whether it changed.
func (m Material) Clamped() (Material, bool) {
	clamped := min(max(m.CurrentProgress, 0), max(m.TotalAmount, 0))
	if clamped == m.CurrentProgress {
		return m, false
	}
	m.CurrentProgress = clamped
	return m, true
}

// Window returns the material's full calendar window.
func (m Material) Window() CalendarWindow {
	return CalendarWindow{
		Start:    m.StartDate,
		Deadline: m.Deadline,
		Excluded: m.ExcludedWeekdays,
	}
}

// Label formats a 1-based inclusive range the way the unit type reads.
func (m Material) Label(rangeStart, rangeEnd int) string {
	r := strconv.Itoa(rangeStart)
	if rangeEnd != rangeStart {
		r = fmt.Sprintf("%d-%d", rangeStart, rangeEnd)
	}
	switch m.UnitType {
	case UnitPages:
		return "p. " + r
	case UnitProblems:
		return "Problems " + r
	default:
		return r
	}
}
