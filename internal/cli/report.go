package cli

import (
	"fmt"

	"github.com/at-ishikawa/studyplan/internal/material"
	"github.com/at-ishikawa/studyplan/internal/statistics"
)

// Report prints monthly progress statistics of the logs matching year and month (0 for all).
func (p *Printer) Report(logs []material.ProgressLog, year, month int) {
	result := statistics.CalculateStatistics(logs, year, month)
	if len(result.Periods) == 0 {
		fmt.Fprintln(p.w, "No progress records found for the specified period.")
		return
	}

	_, _ = p.bold.Fprintln(p.w, "Study Progress Report")
	fmt.Fprintln(p.w, "=====================")
	fmt.Fprintln(p.w)
	fmt.Fprintf(p.w, "%-10s  %-20s  %-10s  %-9s\n", "Period", "Units (Done/Undone)", "Study Days", "Materials")
	fmt.Fprintf(p.w, "%-10s  %-20s  %-10s  %-9s\n", "------", "-------------------", "----------", "---------")

	for _, s := range result.Periods {
		fmt.Fprintf(p.w, "%-10s  %-20s  %-10d  %-9d\n",
			s.Period,
			fmt.Sprintf("%d / %d", s.UnitsCompleted, s.UnitsReverted),
			s.StudyDays,
			s.MaterialsUnique,
		)
	}

	fmt.Fprintln(p.w)
	fmt.Fprintf(p.w, "%-10s  %-20s  %-10d  %-9d\n",
		"Totals:",
		fmt.Sprintf("%d / %d", result.Aggregate.UnitsCompleted, result.Aggregate.UnitsReverted),
		result.Aggregate.StudyDays,
		result.Aggregate.MaterialsUnique,
	)
}
