package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/at-ishikawa/studyplan/internal/material"
	"github.com/at-ishikawa/studyplan/internal/plan"
)

func TestPrinter_Report(t *testing.T) {
	noColor(t)
	logs := []material.ProgressLog{
		{MaterialID: "math", LoggedOn: plan.NewDate(2025, time.June, 3), Amount: 15},
		{MaterialID: "hist", LoggedOn: plan.NewDate(2025, time.June, 4), Amount: 10},
		{MaterialID: "math", LoggedOn: plan.NewDate(2025, time.June, 4), Amount: -5},
		{MaterialID: "math", LoggedOn: plan.NewDate(2025, time.May, 20), Amount: 10},
	}

	tests := []struct {
		name  string
		year  int
		month int
		want  string
	}{
		{
			name: "all periods",
			want: lines(
				"Study Progress Report",
				"=====================",
				"",
				"Period      Units (Done/Undone)   Study Days  Materials",
				"------      -------------------   ----------  ---------",
				"2025-06     25 / 5                2           2        ",
				"2025-05     10 / 0                1           1        ",
				"",
				"Totals:     35 / 5                3           2        ",
			),
		},
		{
			name:  "no records in the month",
			year:  2024,
			month: 1,
			want:  "No progress records found for the specified period.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewPrinter(&buf).Report(logs, tt.year, tt.month)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
