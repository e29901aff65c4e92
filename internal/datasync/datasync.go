// Package datasync copies materials, plans and progress logs between storage drivers.
package datasync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/at-ishikawa/studyplan/internal/material"
	"github.com/at-ishikawa/studyplan/internal/plan"
	"github.com/at-ishikawa/studyplan/internal/schedule"
)

// ImportResult tracks counts for each import operation.
type ImportResult struct {
	MaterialsNew        int
	MaterialsSkipped    int
	MaterialsUpdated    int
	PlansReplaced       int
	PlansSkipped        int
	ProgressLogsNew     int
	ProgressLogsSkipped int
	TasksNew            int
	TasksSkipped        int
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun         bool
	UpdateExisting bool
}

// Source is the data read from the storage being imported.
type Source struct {
	Materials    []material.Record
	Entries      []plan.PlanEntry
	ProgressLogs []material.ProgressLog
	Tasks        []plan.ScheduledTask
}

// Importer writes source data into the configured storage.
type Importer struct {
	materials    material.Repository
	progressLogs material.ProgressLogRepository
	schedules    schedule.Repository
	writer       io.Writer
}

// NewImporter creates a new Importer.
func NewImporter(materials material.Repository, progressLogs material.ProgressLogRepository, schedules schedule.Repository, writer io.Writer) *Importer {
	return &Importer{
		materials:    materials,
		progressLogs: progressLogs,
		schedules:    schedules,
		writer:       writer,
	}
}

// Import imports materials first so that entries, logs and tasks can reference them.
func (imp *Importer) Import(ctx context.Context, source Source, opts ImportOptions) (*ImportResult, error) {
	var result ImportResult
	if err := imp.importMaterials(ctx, source.Materials, opts, &result); err != nil {
		return nil, fmt.Errorf("importMaterials() > %w", err)
	}
	if err := imp.importPlans(ctx, source.Entries, opts, &result); err != nil {
		return nil, fmt.Errorf("importPlans() > %w", err)
	}
	if err := imp.importProgressLogs(ctx, source.ProgressLogs, opts, &result); err != nil {
		return nil, fmt.Errorf("importProgressLogs() > %w", err)
	}
	if err := imp.importTasks(ctx, source.Tasks, opts, &result); err != nil {
		return nil, fmt.Errorf("importTasks() > %w", err)
	}
	return &result, nil
}

func (imp *Importer) importMaterials(ctx context.Context, records []material.Record, opts ImportOptions, result *ImportResult) error {
	for _, r := range records {
		existing, err := imp.materials.FindByID(ctx, r.ID)
		if err != nil && !errors.Is(err, material.ErrNotFound) {
			return fmt.Errorf("FindByID(%s) > %w", r.ID, err)
		}

		if existing == nil {
			if !opts.DryRun {
				record := r
				if err := imp.materials.Create(ctx, &record); err != nil {
					return fmt.Errorf("Create(%s) > %w", r.ID, err)
				}
				if r.ArchivedAt != nil {
					if err := imp.materials.Archive(ctx, r.ID, *r.ArchivedAt); err != nil {
						return fmt.Errorf("Archive(%s) > %w", r.ID, err)
					}
				}
			}
			fmt.Fprintf(imp.writer, "  [NEW]  %s (%s)\n", r.ID, r.Name)
			result.MaterialsNew++
			continue
		}

		if !opts.UpdateExisting || existing.CurrentProgress == r.CurrentProgress {
			fmt.Fprintf(imp.writer, "  [SKIP]  %s (%s)\n", r.ID, r.Name)
			result.MaterialsSkipped++
			continue
		}
		if !opts.DryRun {
			if _, err := imp.materials.UpdateProgress(ctx, r.ID, existing.Version, r.CurrentProgress); err != nil {
				return fmt.Errorf("UpdateProgress(%s) > %w", r.ID, err)
			}
		}
		fmt.Fprintf(imp.writer, "  [UPDATE]  %s progress %d -> %d\n", r.ID, existing.CurrentProgress, r.CurrentProgress)
		result.MaterialsUpdated++
	}
	return nil
}

// importPlans replaces a material's whole plan. Existing plans are kept unless UpdateExisting is set.
func (imp *Importer) importPlans(ctx context.Context, entries []plan.PlanEntry, opts ImportOptions, result *ImportResult) error {
	byMaterial := make(map[string][]plan.PlanEntry)
	var order []string
	for _, e := range entries {
		if _, ok := byMaterial[e.MaterialID]; !ok {
			order = append(order, e.MaterialID)
		}
		byMaterial[e.MaterialID] = append(byMaterial[e.MaterialID], e)
	}

	for _, materialID := range order {
		materialEntries := byMaterial[materialID]
		slices.SortFunc(materialEntries, func(a, b plan.PlanEntry) int { return a.Date.Compare(b.Date.Time) })

		existing, err := imp.schedules.FindByMaterial(ctx, materialID)
		if err != nil {
			return fmt.Errorf("FindByMaterial(%s) > %w", materialID, err)
		}
		if len(existing) > 0 && !opts.UpdateExisting {
			result.PlansSkipped++
			continue
		}

		from := materialEntries[0].Date
		if len(existing) > 0 && existing[0].Date.Before(from) {
			from = existing[0].Date
		}
		if !opts.DryRun {
			if err := imp.schedules.ReplaceFrom(ctx, materialID, from, materialEntries); err != nil {
				return fmt.Errorf("ReplaceFrom(%s) > %w", materialID, err)
			}
		}
		fmt.Fprintf(imp.writer, "  [PLAN]  %s: %d entries\n", materialID, len(materialEntries))
		result.PlansReplaced++
	}
	return nil
}

type progressLogKey struct {
	materialID    string
	loggedOn      string
	amount        int
	progressAfter int
}

func keyOf(log material.ProgressLog) progressLogKey {
	return progressLogKey{
		materialID:    log.MaterialID,
		loggedOn:      log.LoggedOn.String(),
		amount:        log.Amount,
		progressAfter: log.ProgressAfter,
	}
}

func (imp *Importer) importProgressLogs(ctx context.Context, logs []material.ProgressLog, opts ImportOptions, result *ImportResult) error {
	if len(logs) == 0 {
		return nil
	}
	existing, err := imp.progressLogs.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("FindAll() > %w", err)
	}
	seen := make(map[progressLogKey]struct{}, len(existing))
	for _, log := range existing {
		seen[keyOf(log)] = struct{}{}
	}

	for _, log := range logs {
		key := keyOf(log)
		if _, ok := seen[key]; ok {
			result.ProgressLogsSkipped++
			continue
		}
		seen[key] = struct{}{}
		if !opts.DryRun {
			log := log
			log.ID = 0
			if err := imp.progressLogs.Create(ctx, &log); err != nil {
				return fmt.Errorf("Create(%s) > %w", log.MaterialID, err)
			}
		}
		result.ProgressLogsNew++
	}
	return nil
}

func (imp *Importer) importTasks(ctx context.Context, tasks []plan.ScheduledTask, opts ImportOptions, result *ImportResult) error {
	existingByDate := make(map[string]map[string]struct{})
	for _, task := range tasks {
		date := task.Date.String()
		ids, ok := existingByDate[date]
		if !ok {
			existing, err := imp.schedules.FindTasksByDate(ctx, task.Date)
			if err != nil {
				return fmt.Errorf("FindTasksByDate(%s) > %w", date, err)
			}
			ids = make(map[string]struct{}, len(existing))
			for _, e := range existing {
				ids[e.ID] = struct{}{}
			}
			existingByDate[date] = ids
		}
		if _, ok := ids[task.ID]; ok {
			result.TasksSkipped++
			continue
		}
		if !opts.DryRun {
			task := task
			if err := imp.schedules.CreateTask(ctx, &task); err != nil {
				return fmt.Errorf("CreateTask(%s) > %w", task.ID, err)
			}
		}
		ids[task.ID] = struct{}{}
		result.TasksNew++
	}
	return nil
}
