package plan

import (
	"cmp"
	"slices"
)

// ChangeType names the event a persisted plan entry change produces.
type ChangeType string

const (
	ChangeCreated ChangeType = "task_created"
	ChangeUpdated ChangeType = "task_updated"
	ChangeDeleted ChangeType = "task_deleted"
)

// Change is one created, updated or deleted entry.
// For deletions Entry is the old entry.
type Change struct {
	Type  ChangeType `json:"type"`
	Entry PlanEntry  `json:"entry"`
}

type entryKey struct {
	materialID string
	date       string
}

func keyOf(e PlanEntry) entryKey {
	return entryKey{materialID: e.MaterialID, date: e.Date.String()}
}

// DiffEntries compares two entry sets by (materialId, date).
// Changes are ordered by material, then date.
func DiffEntries(old, updated []PlanEntry) []Change {
	before := make(map[entryKey]PlanEntry, len(old))
	for _, e := range old {
		before[keyOf(e)] = e
	}

	var changes []Change
	seen := make(map[entryKey]struct{}, len(updated))
	for _, e := range updated {
		k := keyOf(e)
		seen[k] = struct{}{}
		prev, ok := before[k]
		switch {
		case !ok:
			changes = append(changes, Change{Type: ChangeCreated, Entry: e})
		case !sameEntry(prev, e):
			changes = append(changes, Change{Type: ChangeUpdated, Entry: e})
		}
	}
	for _, e := range old {
		if _, ok := seen[keyOf(e)]; !ok {
			changes = append(changes, Change{Type: ChangeDeleted, Entry: e})
		}
	}

	slices.SortStableFunc(changes, func(a, b Change) int {
		return cmp.Or(
			cmp.Compare(a.Entry.MaterialID, b.Entry.MaterialID),
			a.Entry.Date.Compare(b.Entry.Date.Time),
		)
	})
	return changes
}

func sameEntry(a, b PlanEntry) bool {
	return a.MaterialID == b.MaterialID &&
		a.Date.Equal(b.Date) &&
		a.RangeStart == b.RangeStart &&
		a.RangeEnd == b.RangeEnd &&
		a.Amount == b.Amount &&
		a.Overloaded == b.Overloaded
}
