package schedule

import (
	"cmp"
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"github.com/at-ishikawa/studyplan/internal/plan"
	"github.com/at-ishikawa/studyplan/internal/yamlfile"
)

const (
	entriesFile = "plan_entries.yml"
	tasksFile   = "tasks.yml"
)

// YAMLRepository implements Repository on plan_entries.yml and tasks.yml.
type YAMLRepository struct {
	entriesPath string
	tasksPath   string
	mu          sync.Mutex
}

// NewYAMLRepository creates a repository storing its files in directory.
func NewYAMLRepository(directory string) *YAMLRepository {
	return &YAMLRepository{
		entriesPath: filepath.Join(directory, entriesFile),
		tasksPath:   filepath.Join(directory, tasksFile),
	}
}

func (r *YAMLRepository) loadEntries() ([]plan.PlanEntry, error) {
	entries, err := yamlfile.Read[[]plan.PlanEntry](r.entriesPath)
	if err != nil {
		return nil, fmt.Errorf("yamlfile.Read(%s) > %w", r.entriesPath, err)
	}
	return entries, nil
}

func (r *YAMLRepository) loadTasks() ([]plan.ScheduledTask, error) {
	tasks, err := yamlfile.Read[[]plan.ScheduledTask](r.tasksPath)
	if err != nil {
		return nil, fmt.Errorf("yamlfile.Read(%s) > %w", r.tasksPath, err)
	}
	return tasks, nil
}

func (r *YAMLRepository) filterEntries(keep func(plan.PlanEntry) bool) ([]plan.PlanEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries, err := r.loadEntries()
	if err != nil {
		return nil, err
	}
	result := []plan.PlanEntry{}
	for _, e := range entries {
		if keep(e) {
			result = append(result, e)
		}
	}
	return result, nil
}

// FindAll returns every plan entry ordered by material and date.
func (r *YAMLRepository) FindAll(ctx context.Context) ([]plan.PlanEntry, error) {
	return r.filterEntries(func(plan.PlanEntry) bool { return true })
}

// FindByMaterial returns the material's entries ordered by date.
func (r *YAMLRepository) FindByMaterial(ctx context.Context, materialID string) ([]plan.PlanEntry, error) {
	return r.filterEntries(func(e plan.PlanEntry) bool { return e.MaterialID == materialID })
}

// FindByDate returns every entry dated date.
func (r *YAMLRepository) FindByDate(ctx context.Context, date plan.Date) ([]plan.PlanEntry, error) {
	return r.filterEntries(func(e plan.PlanEntry) bool { return e.Date.Equal(date) })
}

// ReplaceFrom rewrites plan_entries.yml with the material's future replaced.
func (r *YAMLRepository) ReplaceFrom(ctx context.Context, materialID string, from plan.Date, entries []plan.PlanEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, err := r.loadEntries()
	if err != nil {
		return err
	}
	stored = slices.DeleteFunc(stored, func(e plan.PlanEntry) bool {
		return e.MaterialID == materialID && !e.Date.Before(from)
	})
	stored = append(stored, entriesFrom(entries, materialID, from)...)
	slices.SortStableFunc(stored, func(a, b plan.PlanEntry) int {
		return cmp.Or(cmp.Compare(a.MaterialID, b.MaterialID), a.Date.Compare(b.Date.Time))
	})
	if err := yamlfile.Write(r.entriesPath, stored); err != nil {
		return fmt.Errorf("yamlfile.Write(%s) > %w", r.entriesPath, err)
	}
	return nil
}

// CreateTask appends a scheduled task.
func (r *YAMLRepository) CreateTask(ctx context.Context, task *plan.ScheduledTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tasks, err := r.loadTasks()
	if err != nil {
		return err
	}
	if slices.ContainsFunc(tasks, func(t plan.ScheduledTask) bool { return t.ID == task.ID }) {
		return fmt.Errorf("scheduled task %s already exists", task.ID)
	}
	if err := yamlfile.Write(r.tasksPath, append(tasks, *task)); err != nil {
		return fmt.Errorf("yamlfile.Write(%s) > %w", r.tasksPath, err)
	}
	return nil
}

func (r *YAMLRepository) filterTasks(keep func(plan.ScheduledTask) bool) ([]plan.ScheduledTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tasks, err := r.loadTasks()
	if err != nil {
		return nil, err
	}
	result := []plan.ScheduledTask{}
	for _, t := range tasks {
		if keep(t) {
			result = append(result, t)
		}
	}
	slices.SortStableFunc(result, compareTasks)
	return result, nil
}

// compareTasks orders by date, then timed tasks by hour, then all-day tasks.
func compareTasks(a, b plan.ScheduledTask) int {
	if c := a.Date.Compare(b.Date.Time); c != 0 {
		return c
	}
	switch {
	case a.Hour == nil && b.Hour == nil:
		return cmp.Compare(a.ID, b.ID)
	case a.Hour == nil:
		return 1
	case b.Hour == nil:
		return -1
	}
	return cmp.Or(cmp.Compare(*a.Hour, *b.Hour), cmp.Compare(a.ID, b.ID))
}

// FindTasksByDate returns the tasks of one date.
func (r *YAMLRepository) FindTasksByDate(ctx context.Context, date plan.Date) ([]plan.ScheduledTask, error) {
	return r.filterTasks(func(t plan.ScheduledTask) bool { return t.Date.Equal(date) })
}

// FindAllTasks returns every task, completed ones included.
func (r *YAMLRepository) FindAllTasks(ctx context.Context) ([]plan.ScheduledTask, error) {
	return r.filterTasks(func(plan.ScheduledTask) bool { return true })
}

// FindOpenTasks returns incomplete tasks dated on or before until.
func (r *YAMLRepository) FindOpenTasks(ctx context.Context, until plan.Date) ([]plan.ScheduledTask, error) {
	return r.filterTasks(func(t plan.ScheduledTask) bool { return !t.Completed && !t.Date.After(until) })
}

// SetTaskCompleted updates the completed flag or returns ErrTaskNotFound.
func (r *YAMLRepository) SetTaskCompleted(ctx context.Context, id string, completed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tasks, err := r.loadTasks()
	if err != nil {
		return err
	}
	i := slices.IndexFunc(tasks, func(t plan.ScheduledTask) bool { return t.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	tasks[i].Completed = completed
	if err := yamlfile.Write(r.tasksPath, tasks); err != nil {
		return fmt.Errorf("yamlfile.Write(%s) > %w", r.tasksPath, err)
	}
	return nil
}
