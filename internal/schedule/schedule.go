// Package schedule stores plan entries and calendar tasks.
package schedule

import (
	"context"
	"errors"

	"github.com/at-ishikawa/studyplan/internal/plan"
)

//go:generate mockgen -source=schedule.go -destination=../mocks/schedule/mock_schedule.go -package=mock_schedule

// ErrTaskNotFound is returned when no scheduled task has the requested ID.
var ErrTaskNotFound = errors.New("scheduled task not found")

// Repository defines operations for managing persisted plans and tasks.
type Repository interface {
	FindAll(ctx context.Context) ([]plan.PlanEntry, error)
	FindByMaterial(ctx context.Context, materialID string) ([]plan.PlanEntry, error)
	FindByDate(ctx context.Context, date plan.Date) ([]plan.PlanEntry, error)
	// ReplaceFrom atomically deletes the material's entries dated on or after from
	// and stores the given entries that are dated on or after from.
	ReplaceFrom(ctx context.Context, materialID string, from plan.Date, entries []plan.PlanEntry) error

	CreateTask(ctx context.Context, task *plan.ScheduledTask) error
	FindTasksByDate(ctx context.Context, date plan.Date) ([]plan.ScheduledTask, error)
	// FindOpenTasks returns incomplete tasks dated on or before until.
	FindOpenTasks(ctx context.Context, until plan.Date) ([]plan.ScheduledTask, error)
	SetTaskCompleted(ctx context.Context, id string, completed bool) error
}

func entriesFrom(entries []plan.PlanEntry, materialID string, from plan.Date) []plan.PlanEntry {
	var result []plan.PlanEntry
	for _, e := range entries {
		if e.MaterialID == materialID && !e.Date.Before(from) {
			result = append(result, e)
		}
	}
	return result
}
