package plan

import (
	"fmt"
	"iter"
)

// PlanEntry is one day's contiguous range of work for one material.
// Ranges are 1-based and inclusive: RangeEnd - RangeStart + 1 == Amount.
type PlanEntry struct {
	MaterialID string `json:"materialId" yaml:"material_id"`
	Date       Date   `json:"date" yaml:"date"`
	RangeStart int    `json:"rangeStart" yaml:"range_start"`
	RangeEnd   int    `json:"rangeEnd" yaml:"range_end"`
	Amount     int    `json:"amount" yaml:"amount"`
	Overloaded bool   `json:"overloaded,omitempty" yaml:"overloaded,omitempty"`
}

// Plan is the output of one distribution run.
type Plan struct {
	MaterialID string      `json:"materialId"`
	Entries    []PlanEntry `json:"entries"`
	Warnings   []Warning   `json:"warnings,omitempty"`
}

// Total returns the sum of all entry amounts.
func (p Plan) Total() int {
	total := 0
	for _, e := range p.Entries {
		total += e.Amount
	}
	return total
}

// EntryOn returns the entry dated d, if any.
func (p Plan) EntryOn(d Date) (PlanEntry, bool) {
	for _, e := range p.Entries {
		if e.Date.Equal(d) {
			return e, true
		}
	}
	return PlanEntry{}, false
}

// Overloaded reports whether any entry carries more than the per-day amount.
func (p Plan) Overloaded() bool {
	for _, w := range p.Warnings {
		if w.Kind == WarningOverload {
			return true
		}
	}
	return false
}

// Verify checks that entries partition (progress+1 .. progress+remaining) in date order.
func (p Plan) Verify(progress, remaining int) error {
	next := progress + 1
	var prev *Date
	for i, e := range p.Entries {
		if prev != nil && !prev.Before(e.Date) {
			return fmt.Errorf("entry %d dated %s is not after %s", i, e.Date, *prev)
		}
		if e.Amount <= 0 || e.RangeEnd-e.RangeStart+1 != e.Amount {
			return fmt.Errorf("entry %d on %s has amount %d for range %d-%d", i, e.Date, e.Amount, e.RangeStart, e.RangeEnd)
		}
		if e.RangeStart != next {
			return fmt.Errorf("entry %d on %s starts at %d, want %d", i, e.Date, e.RangeStart, next)
		}
		next = e.RangeEnd + 1
		d := e.Date
		prev = &d
	}
	if allocated := next - progress - 1; allocated != remaining {
		return fmt.Errorf("allocated %d units, want %d", allocated, remaining)
	}
	return nil
}

// Distribute spreads the material's remaining work over the window's eligible days.
//
// Each day receives min(perDay, left) units, where perDay is the material's daily
// target or ceil(remaining / eligible days). Earlier days therefore carry the
// rounding surplus. If the window runs out first, the last eligible day takes all
// that is left and the plan carries an overload warning.
func Distribute(m Material, w CalendarWindow) (Plan, error) {
	result := Plan{MaterialID: m.ID}

	if err := w.Validate(); err != nil {
		return Plan{}, withMaterial(err, m.ID)
	}

	m, clamped := m.Clamped()
	if clamped {
		result.Warnings = append(result.Warnings, Warning{
			Kind:    WarningClampedInput,
			Message: fmt.Sprintf("current progress clamped to %d", m.CurrentProgress),
		})
	}

	remaining := m.Remaining()
	if remaining <= 0 {
		return result, nil
	}

	perDay := m.DailyTarget
	days := w.Count()
	switch {
	case days == 0:
		return Plan{}, newConfigurationError(m.ID, "no eligible study day between %s and %s", w.Start, *w.Deadline)
	case days < 0 && perDay <= 0:
		return Plan{}, newConfigurationError(m.ID, "a daily target is required when there is no deadline")
	case perDay <= 0:
		perDay = ceilDiv(remaining, days)
	}

	result.Entries = allocate(m, w.Days(), perDay, remaining)
	if last := result.Entries[len(result.Entries)-1]; last.Overloaded {
		d := last.Date
		result.Warnings = append(result.Warnings, Warning{
			Kind:    WarningOverload,
			Date:    &d,
			Message: fmt.Sprintf("deadline too tight: %d units on %s exceed the daily amount of %d", last.Amount, d, perDay),
		})
	}

	if err := result.Verify(m.CurrentProgress, remaining); err != nil {
		return Plan{}, fmt.Errorf("plan for material %s does not conserve work: %w", m.ID, err)
	}
	return result, nil
}

// allocate walks days and hands out perDay units at a time; days is non-empty.
func allocate(m Material, days iter.Seq[Date], perDay, remaining int) []PlanEntry {
	var entries []PlanEntry
	next, stop := iter.Pull(days)
	defer stop()

	day, ok := next()
	left := remaining
	for ok && left > 0 {
		following, more := next()
		amount := min(perDay, left)
		overloaded := false
		if !more && left > perDay {
			amount = left
			overloaded = true
		}
		start := m.CurrentProgress + remaining - left + 1
		entries = append(entries, PlanEntry{
			MaterialID: m.ID,
			Date:       day,
			RangeStart: start,
			RangeEnd:   start + amount - 1,
			Amount:     amount,
			Overloaded: overloaded,
		})
		left -= amount
		day, ok = following, more
	}
	return entries
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}

func withMaterial(err error, materialID string) error {
	if cfgErr, ok := err.(*ConfigurationError); ok && cfgErr.MaterialID == "" {
		return &ConfigurationError{MaterialID: materialID, Reason: cfgErr.Reason}
	}
	return err
}
