package statistics_test

import (
	"fmt"
	"time"

	"github.com/at-ishikawa/studyplan/internal/material"
	"github.com/at-ishikawa/studyplan/internal/plan"
	"github.com/at-ishikawa/studyplan/internal/statistics"
)

func ExampleCalculateStatistics() {
	logs := []material.ProgressLog{
		{MaterialID: "math", LoggedOn: plan.NewDate(2025, time.June, 2), Amount: 20},
		{MaterialID: "math", LoggedOn: plan.NewDate(2025, time.June, 3), Amount: 15},
		{MaterialID: "physics", LoggedOn: plan.NewDate(2025, time.May, 28), Amount: 8},
	}

	result := statistics.CalculateStatistics(logs, 0, 0)
	for _, stat := range result.Periods {
		fmt.Printf("Period %s: %d units on %d day(s), %d material(s)\n",
			stat.Period, stat.UnitsCompleted, stat.StudyDays, stat.MaterialsUnique)
	}
	fmt.Printf("Total: %d units on %d day(s)\n", result.Aggregate.UnitsCompleted, result.Aggregate.StudyDays)

	// Output:
	// Period 2025-06: 35 units on 2 day(s), 1 material(s)
	// Period 2025-05: 8 units on 1 day(s), 1 material(s)
	// Total: 43 units on 3 day(s)
}
