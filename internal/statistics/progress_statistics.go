// Package statistics summarises progress logs per month.
package statistics

import (
	"fmt"
	"sort"

	"github.com/at-ishikawa/studyplan/internal/material"
)

// ProgressStatistics holds statistics for a time period
type ProgressStatistics struct {
	Period          string `json:"period"`          // "2025-06"
	UnitsCompleted  int    `json:"unitsCompleted"`  // Sum of positive progress updates
	UnitsReverted   int    `json:"unitsReverted"`   // Sum of corrections that lowered progress
	StudyDays       int    `json:"studyDays"`       // Days with at least one positive update
	MaterialsUnique int    `json:"materialsUnique"` // Materials that moved forward
}

// AggregateStatistics holds totals across all periods with global unique counts
type AggregateStatistics struct {
	UnitsCompleted  int `json:"unitsCompleted"`
	UnitsReverted   int `json:"unitsReverted"`
	StudyDays       int `json:"studyDays"`
	MaterialsUnique int `json:"materialsUnique"`
}

// StatisticsResult holds both per-period and aggregate statistics
type StatisticsResult struct {
	Periods   []ProgressStatistics `json:"periods"`
	Aggregate AggregateStatistics  `json:"aggregate"`
}

type periodData struct {
	completed int
	reverted  int
	days      map[string]struct{}
	materials map[string]struct{}
}

// CalculateStatistics calculates progress statistics from progress logs.
// It accepts optional year and month filters (0 means no filter).
func CalculateStatistics(logs []material.ProgressLog, year, month int) StatisticsResult {
	stats := make(map[string]*periodData)
	globalDays := make(map[string]struct{})
	globalMaterials := make(map[string]struct{})

	for _, log := range logs {
		if log.LoggedOn.IsZero() || log.Amount == 0 {
			continue
		}
		logYear := log.LoggedOn.Year()
		logMonth := int(log.LoggedOn.Month())
		if !matchesFilter(logYear, logMonth, year, month) {
			continue
		}

		period := fmt.Sprintf("%d-%02d", logYear, logMonth)
		ensurePeriodExists(stats, period)
		data := stats[period]

		if log.Amount < 0 {
			data.reverted += -log.Amount
			continue
		}
		day := log.LoggedOn.String()
		data.completed += log.Amount
		data.days[day] = struct{}{}
		data.materials[log.MaterialID] = struct{}{}
		globalDays[day] = struct{}{}
		globalMaterials[log.MaterialID] = struct{}{}
	}

	return buildResult(stats, globalDays, globalMaterials)
}

func ensurePeriodExists(stats map[string]*periodData, period string) {
	if stats[period] == nil {
		stats[period] = &periodData{
			days:      make(map[string]struct{}),
			materials: make(map[string]struct{}),
		}
	}
}

func matchesFilter(logYear, logMonth, filterYear, filterMonth int) bool {
	if filterYear == 0 {
		return true
	}
	if logYear != filterYear {
		return false
	}
	if filterMonth == 0 {
		return true
	}
	return logMonth == filterMonth
}

func buildResult(stats map[string]*periodData, globalDays, globalMaterials map[string]struct{}) StatisticsResult {
	periods := make([]ProgressStatistics, 0, len(stats))

	var totalCompleted, totalReverted int
	for period, data := range stats {
		periods = append(periods, ProgressStatistics{
			Period:          period,
			UnitsCompleted:  data.completed,
			UnitsReverted:   data.reverted,
			StudyDays:       len(data.days),
			MaterialsUnique: len(data.materials),
		})
		totalCompleted += data.completed
		totalReverted += data.reverted
	}

	// Sort by period descending (newest first)
	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Period > periods[j].Period
	})

	return StatisticsResult{
		Periods: periods,
		Aggregate: AggregateStatistics{
			UnitsCompleted:  totalCompleted,
			UnitsReverted:   totalReverted,
			StudyDays:       len(globalDays),
			MaterialsUnique: len(globalMaterials),
		},
	}
}
