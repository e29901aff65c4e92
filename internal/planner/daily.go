package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/at-ishikawa/studyplan/internal/plan"
)

// TaskView is a scheduled task with its state at the time of the request.
type TaskView struct {
	plan.ScheduledTask
	Status     plan.TaskStatus `json:"status"`
	InProgress bool            `json:"inProgress"`
}

// DailyView is everything the calendar shows for one date.
type DailyView struct {
	Summary plan.DailySummary `json:"summary"`
	Tasks   []TaskView        `json:"tasks"`
	// Overdue holds incomplete tasks from earlier dates.
	Overdue []TaskView `json:"overdue"`
}

// Day compiles the persisted plan of date and classifies the tasks placed on it.
// Active materials that cannot be planned are listed in Summary.Errors.
func (s *Service) Day(ctx context.Context, date plan.Date) (DailyView, error) {
	records, err := s.materials.FindAll(ctx)
	if err != nil {
		return DailyView{}, fmt.Errorf("materials.FindAll() > %w", err)
	}
	entries, err := s.schedules.FindByDate(ctx, date)
	if err != nil {
		return DailyView{}, fmt.Errorf("schedules.FindByDate(%s) > %w", date, err)
	}

	byMaterial := make(map[string][]plan.PlanEntry, len(entries))
	for _, e := range entries {
		byMaterial[e.MaterialID] = append(byMaterial[e.MaterialID], e)
	}
	plans := make([]plan.MaterialPlan, 0, len(records))
	var active []plan.Material
	for _, r := range records {
		plans = append(plans, plan.MaterialPlan{Material: r.Material, Entries: byMaterial[r.ID]})
		if !r.Archived() {
			active = append(active, r.Material)
		}
	}
	summary := plan.CompileDay(plans, date)
	// Materials whose plan cannot be generated have no entries to show; report why.
	summary.Errors = plan.CompileToday(active, date).Errors

	tasks, err := s.schedules.FindTasksByDate(ctx, date)
	if err != nil {
		return DailyView{}, fmt.Errorf("schedules.FindTasksByDate(%s) > %w", date, err)
	}
	overdue, err := s.schedules.FindOpenTasks(ctx, date.AddDays(-1))
	if err != nil {
		return DailyView{}, fmt.Errorf("schedules.FindOpenTasks(%s) > %w", date.AddDays(-1), err)
	}

	now := s.Now()
	return DailyView{
		Summary: summary,
		Tasks:   classifyAll(tasks, now),
		Overdue: classifyAll(overdue, now),
	}, nil
}

// Companion returns today's amount per active material the way the companion reports it.
func (s *Service) Companion(ctx context.Context) ([]plan.CompanionTask, error) {
	records, err := s.materials.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("materials.FindActive() > %w", err)
	}
	materials := make([]plan.Material, 0, len(records))
	for _, r := range records {
		materials = append(materials, r.Material)
	}
	return plan.CompanionTasks(materials, s.Today(), s.companionMode), nil
}

// ScheduleTask places a task on the calendar.
func (s *Service) ScheduleTask(ctx context.Context, input TaskInput) (plan.ScheduledTask, error) {
	if err := s.inputs.check(input); err != nil {
		return plan.ScheduledTask{}, err
	}
	if input.MaterialID != "" {
		if _, err := s.materials.FindByID(ctx, input.MaterialID); err != nil {
			return plan.ScheduledTask{}, fmt.Errorf("materials.FindByID(%s) > %w", input.MaterialID, err)
		}
	}

	task := plan.ScheduledTask{
		ID:            s.newID(),
		MaterialID:    input.MaterialID,
		Title:         input.Title,
		Date:          input.Date,
		Hour:          input.Hour,
		DurationHours: input.DurationHours,
		Priority:      input.Priority,
	}
	if task.Date.IsZero() {
		task.Date = s.Today()
	}
	if err := s.schedules.CreateTask(ctx, &task); err != nil {
		return plan.ScheduledTask{}, fmt.Errorf("schedules.CreateTask() > %w", err)
	}
	return task, nil
}

// CompleteTask marks a task done or not done.
func (s *Service) CompleteTask(ctx context.Context, id string, completed bool) error {
	if err := s.schedules.SetTaskCompleted(ctx, id, completed); err != nil {
		return fmt.Errorf("schedules.SetTaskCompleted(%s) > %w", id, err)
	}
	return nil
}

func classifyAll(tasks []plan.ScheduledTask, now time.Time) []TaskView {
	views := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, TaskView{
			ScheduledTask: t,
			Status:        plan.Classify(t, now),
			InProgress:    t.InProgress(now),
		})
	}
	return views
}
