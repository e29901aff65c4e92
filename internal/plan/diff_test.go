package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffEntries(t *testing.T) {
	other := PlanEntry{MaterialID: "art", Date: wednesday, RangeStart: 1, RangeEnd: 2, Amount: 2}
	old := []PlanEntry{entry(monday, 1, 20), entry(tuesday, 21, 40), entry(wednesday, 41, 60), other}
	updated := []PlanEntry{entry(monday, 1, 20), entry(tuesday, 21, 50), entry(thursday, 51, 60)}

	got := DiffEntries(old, updated)

	assert.Equal(t, []Change{
		{Type: ChangeDeleted, Entry: other},
		{Type: ChangeUpdated, Entry: entry(tuesday, 21, 50)},
		{Type: ChangeDeleted, Entry: entry(wednesday, 41, 60)},
		{Type: ChangeCreated, Entry: entry(thursday, 51, 60)},
	}, got)
}

func TestDiffEntries_Overloaded(t *testing.T) {
	before := entry(friday, 81, 100)
	after := before
	after.Overloaded = true

	assert.Equal(t, []Change{{Type: ChangeUpdated, Entry: after}}, DiffEntries([]PlanEntry{before}, []PlanEntry{after}))
	assert.Empty(t, DiffEntries([]PlanEntry{before}, []PlanEntry{before}))
	assert.Empty(t, DiffEntries(nil, nil))
}
