package plan

import "time"

// TaskStatus is the overdue classification of a scheduled task.
type TaskStatus string

const (
	TaskOnTrack      TaskStatus = "ON_TRACK"
	TaskPastDate     TaskStatus = "PAST_DATE"
	TaskTimeExceeded TaskStatus = "TIME_EXCEEDED"
)

// Priority is display data carried on a task; the classifier ignores it.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ScheduledTask is a task placed on the calendar, optionally at a time of day.
type ScheduledTask struct {
	ID            string   `json:"id" yaml:"id"`
	MaterialID    string   `json:"materialId,omitempty" yaml:"material_id,omitempty"`
	Title         string   `json:"title" yaml:"title"`
	Date          Date     `json:"date" yaml:"date"`
	Hour          *int     `json:"hour,omitempty" yaml:"hour,omitempty"` // 0-24, nil for all-day tasks
	DurationHours int      `json:"durationHours" yaml:"duration_hours"`
	Completed     bool     `json:"completed" yaml:"completed"`
	Priority      Priority `json:"priority,omitempty" yaml:"priority,omitempty"`
}

// end returns the minute of the day the task's time slot ends, or false for all-day tasks.
func (t ScheduledTask) end() (int, bool) {
	if t.Hour == nil {
		return 0, false
	}
	return (*t.Hour + max(t.DurationHours, 1)) * 60, true
}

// Classify decides whether task is overdue at now.
// Dates are compared on the local calendar of now; completed tasks are always on track.
func Classify(task ScheduledTask, now time.Time) TaskStatus {
	if task.Completed {
		return TaskOnTrack
	}
	today := DateOf(now)
	if task.Date.Before(today) {
		return TaskPastDate
	}
	if !task.Date.Equal(today) {
		return TaskOnTrack
	}
	end, ok := task.end()
	if ok && now.Hour()*60+now.Minute() >= end {
		return TaskTimeExceeded
	}
	return TaskOnTrack
}

// IsOverdue reports whether Classify returns anything but on track.
func (t ScheduledTask) IsOverdue(now time.Time) bool {
	return Classify(t, now) != TaskOnTrack
}

// InProgress reports whether now falls inside the task's time slot today.
func (t ScheduledTask) InProgress(now time.Time) bool {
	if t.Completed || t.Hour == nil || !t.Date.Equal(DateOf(now)) {
		return false
	}
	end, _ := t.end()
	minute := now.Hour()*60 + now.Minute()
	return minute >= *t.Hour*60 && minute < end
}
