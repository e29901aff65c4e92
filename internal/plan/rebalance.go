package plan

import (
	"fmt"
	"slices"
)

// Rebalance is the result of recomputing a material's plan.
type Rebalance struct {
	Material Material
	// Plan holds the kept history (dates before From) followed by the new distribution.
	Plan Plan
	// From is the first date whose entries were regenerated.
	From Date
}

// Future returns the entries dated on or after From.
func (r Rebalance) Future() []PlanEntry {
	return r.EntriesFrom(r.From)
}

// EntriesFrom returns the entries dated on or after d.
func (r Rebalance) EntriesFrom(d Date) []PlanEntry {
	var entries []PlanEntry
	for _, e := range r.Plan.Entries {
		if !e.Date.Before(d) {
			entries = append(entries, e)
		}
	}
	return entries
}

// Rebalancer recomputes plans after progress changes or missed days.
// It holds no state; the same inputs always produce the same plan.
type Rebalancer struct{}

// OnProgressUpdated sets the material's progress (clamped) and redistributes from today.
// When the progress already covers today's entry, that entry is kept as done and the
// rest is distributed from tomorrow.
func (Rebalancer) OnProgressUpdated(m Material, newProgress int, today Date, previous []PlanEntry) (Rebalance, error) {
	m.CurrentProgress = newProgress
	from := today
	if e, ok := entryOf(previous, m.ID, today); ok {
		if c, _ := m.Clamped(); c.CurrentProgress >= e.RangeEnd {
			from = today.AddDays(1)
		}
	}
	return rebalance(m, from, previous, nil)
}

// OnDayMissed removes the missed date from the window and redistributes from today.
// Days before today are never rescheduled.
func (Rebalancer) OnDayMissed(m Material, missedDate, today Date, previous []PlanEntry) (Rebalance, error) {
	return rebalance(m, today, previous, []Date{missedDate})
}

func rebalance(m Material, from Date, previous []PlanEntry, skipped []Date) (Rebalance, error) {
	m, clamped := m.Clamped()
	future, err := distributeFrom(m, from, skipped)
	if err != nil {
		return Rebalance{}, err
	}
	if clamped {
		future.Warnings = append([]Warning{{
			Kind:    WarningClampedInput,
			Message: fmt.Sprintf("current progress clamped to %d", m.CurrentProgress),
		}}, future.Warnings...)
	}

	var history []PlanEntry
	for _, e := range previous {
		if e.MaterialID == m.ID && e.Date.Before(from) {
			history = append(history, e)
		}
	}
	slices.SortFunc(history, func(a, b PlanEntry) int { return a.Date.Compare(b.Date.Time) })

	return Rebalance{
		Material: m,
		Plan: Plan{
			MaterialID: m.ID,
			Entries:    append(history, future.Entries...),
			Warnings:   future.Warnings,
		},
		From: from,
	}, nil
}

func entryOf(entries []PlanEntry, materialID string, d Date) (PlanEntry, bool) {
	for _, e := range entries {
		if e.MaterialID == materialID && e.Date.Equal(d) {
			return e, true
		}
	}
	return PlanEntry{}, false
}

// DistributeFrom distributes the material over its window with every day before from removed.
// Completed materials yield an empty plan. When from is past the last eligible day, all
// remaining work lands on the first non-excluded day from on and the plan carries an overload warning.
func DistributeFrom(m Material, from Date) (Plan, error) {
	return distributeFrom(m, from, nil)
}

func distributeFrom(m Material, from Date, skipped []Date) (Plan, error) {
	if m.Status() == StatusCompleted {
		return Plan{MaterialID: m.ID}, nil
	}
	full := m.Window()
	if err := full.Validate(); err != nil {
		return Plan{}, withMaterial(err, m.ID)
	}

	w := full.From(from)
	w.Skipped = skipped
	if w.Deadline == nil || w.Count() > 0 {
		return Distribute(m, w)
	}
	if full.Count() == 0 {
		return Distribute(m, full)
	}

	m, _ = m.Clamped()
	remaining := m.Remaining()
	if remaining == 0 {
		return Plan{MaterialID: m.ID}, nil
	}
	due := from
	for d := range (CalendarWindow{Start: from, Excluded: full.Excluded, Skipped: skipped}).Days() {
		due = d
		break
	}
	return Plan{
		MaterialID: m.ID,
		Entries: []PlanEntry{{
			MaterialID: m.ID,
			Date:       due,
			RangeStart: m.CurrentProgress + 1,
			RangeEnd:   m.TotalAmount,
			Amount:     remaining,
			Overloaded: true,
		}},
		Warnings: []Warning{{
			Kind:    WarningOverload,
			Date:    &due,
			Message: fmt.Sprintf("deadline %s has passed: all %d remaining units are due on %s", *w.Deadline, remaining, due),
		}},
	}, nil
}
