package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompileDay(t *testing.T) {
	problems := Material{
		ID:              "drill",
		Name:            "Problem drill",
		TotalAmount:     30,
		CurrentProgress: 12,
		UnitType:        UnitProblems,
		StartDate:       monday,
		Deadline:        datePtr(wednesday),
	}
	drillEntries := []PlanEntry{
		{MaterialID: "drill", Date: monday, RangeStart: 1, RangeEnd: 10, Amount: 10},
		{MaterialID: "drill", Date: tuesday, RangeStart: 11, RangeEnd: 20, Amount: 10},
		{MaterialID: "drill", Date: wednesday, RangeStart: 21, RangeEnd: 30, Amount: 10},
	}

	tests := []struct {
		name  string
		plans []MaterialPlan
		date  Date
		want  DailySummary
	}{
		{
			name: "tasks in material order",
			plans: []MaterialPlan{
				{Material: weekMaterial(100, 40), Entries: weekPlan(t)},
				{Material: problems, Entries: drillEntries},
			},
			date: tuesday,
			want: DailySummary{
				Date: tuesday,
				Tasks: []TaskDescriptor{
					{MaterialID: "math", Name: "Calculus workbook", UnitType: UnitPages, Label: "p. 21-40", RangeStart: 21, RangeEnd: 40, Amount: 20, Completed: true},
					{MaterialID: "drill", Name: "Problem drill", UnitType: UnitProblems, Label: "Problems 11-20", RangeStart: 11, RangeEnd: 20, Amount: 10},
				},
				CompletedCount: 1,
				TotalCount:     2,
			},
		},
		{
			name: "material without an entry that day",
			plans: []MaterialPlan{
				{Material: weekMaterial(100, 0), Entries: weekPlan(t)},
				{Material: problems, Entries: drillEntries},
			},
			date: friday,
			want: DailySummary{
				Date: friday,
				Tasks: []TaskDescriptor{
					{MaterialID: "math", Name: "Calculus workbook", UnitType: UnitPages, Label: "p. 81-100", RangeStart: 81, RangeEnd: 100, Amount: 20},
				},
				TotalCount: 1,
			},
		},
		{
			name:  "no plans",
			date:  monday,
			want:  DailySummary{Date: monday, Tasks: []TaskDescriptor{}},
		},
		{
			name: "entries of other materials are ignored",
			plans: []MaterialPlan{
				{Material: weekMaterial(100, 0), Entries: drillEntries},
			},
			date: monday,
			want: DailySummary{Date: monday, Tasks: []TaskDescriptor{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompileDay(tt.plans, tt.date)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, got.CompletedCount, got.TotalCount)
		})
	}
}

func TestCompileToday(t *testing.T) {
	broken := weekMaterial(10, 0)
	broken.ID = "broken"
	broken.ExcludedWeekdays = Weekdays{0, 1, 2, 3, 4, 5, 6}

	done := weekMaterial(10, 10)
	done.ID = "done"

	generic := Material{ID: "reading", TotalAmount: 9, UnitType: UnitGeneric, StartDate: monday, DailyTarget: 4}

	got := CompileToday([]Material{weekMaterial(100, 40), broken, done, generic}, wednesday)

	assert.Equal(t, wednesday, got.Date)
	assert.Equal(t, []TaskDescriptor{
		{MaterialID: "math", Name: "Calculus workbook", UnitType: UnitPages, Label: "p. 41-60", RangeStart: 41, RangeEnd: 60, Amount: 20},
		{MaterialID: "reading", UnitType: UnitGeneric, Label: "1-4", RangeStart: 1, RangeEnd: 4, Amount: 4},
	}, got.Tasks)
	assert.Equal(t, 2, got.TotalCount)
	assert.Equal(t, 0, got.CompletedCount)
	assert.Len(t, got.Errors, 1)
	assert.Contains(t, got.Errors["broken"], "all 7 weekdays are excluded")
}

func TestCompileToday_OverloadedTask(t *testing.T) {
	m := weekMaterial(100, 0)
	m.DailyTarget = 10

	got := CompileToday([]Material{m}, friday)

	if assert.Len(t, got.Tasks, 1) {
		assert.Equal(t, "p. 1-100", got.Tasks[0].Label)
		assert.True(t, got.Tasks[0].Overloaded)
	}
}
