package plan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func hourPtr(h int) *int {
	return &h
}

func TestClassify(t *testing.T) {
	now := time.Date(2025, time.June, 4, 15, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		task ScheduledTask
		now  time.Time
		want TaskStatus
	}{
		{
			name: "yesterday afternoon checked this morning",
			task: ScheduledTask{ID: "t0", Date: tuesday, Hour: hourPtr(14), DurationHours: 1},
			now:  time.Date(2025, time.June, 4, 9, 0, 0, 0, time.Local),
			want: TaskPastDate,
		},
		{
			name: "this morning's slot checked at ten",
			task: ScheduledTask{ID: "t0", Date: wednesday, Hour: hourPtr(8), DurationHours: 1},
			now:  time.Date(2025, time.June, 4, 10, 0, 0, 0, time.Local),
			want: TaskTimeExceeded,
		},
		{
			name: "slot ended earlier today",
			task: ScheduledTask{ID: "t1", Date: wednesday, Hour: hourPtr(13), DurationHours: 1},
			now:  now,
			want: TaskTimeExceeded,
		},
		{
			name: "slot ends exactly now",
			task: ScheduledTask{ID: "t1", Date: wednesday, Hour: hourPtr(14), DurationHours: 1},
			now:  now,
			want: TaskTimeExceeded,
		},
		{
			name: "slot still running",
			task: ScheduledTask{ID: "t1", Date: wednesday, Hour: hourPtr(14), DurationHours: 2},
			now:  now,
			want: TaskOnTrack,
		},
		{
			name: "zero duration counts as one hour",
			task: ScheduledTask{ID: "t1", Date: wednesday, Hour: hourPtr(14)},
			now:  now.Add(-time.Minute),
			want: TaskOnTrack,
		},
		{
			name: "yesterday without a time",
			task: ScheduledTask{ID: "t2", Date: tuesday},
			now:  time.Date(2025, time.June, 4, 0, 1, 0, 0, time.Local),
			want: TaskPastDate,
		},
		{
			name: "yesterday with a time",
			task: ScheduledTask{ID: "t2", Date: tuesday, Hour: hourPtr(23), DurationHours: 1},
			now:  now,
			want: TaskPastDate,
		},
		{
			name: "all day task today is never time exceeded",
			task: ScheduledTask{ID: "t3", Date: wednesday},
			now:  time.Date(2025, time.June, 4, 23, 59, 0, 0, time.Local),
			want: TaskOnTrack,
		},
		{
			name: "task that runs until midnight",
			task: ScheduledTask{ID: "t3", Date: wednesday, Hour: hourPtr(23), DurationHours: 1},
			now:  time.Date(2025, time.June, 4, 23, 59, 0, 0, time.Local),
			want: TaskOnTrack,
		},
		{
			name: "future task",
			task: ScheduledTask{ID: "t4", Date: friday, Hour: hourPtr(0)},
			now:  now,
			want: TaskOnTrack,
		},
		{
			name: "completed past task",
			task: ScheduledTask{ID: "t5", Date: monday, Completed: true},
			now:  now,
			want: TaskOnTrack,
		},
		{
			name: "completed task whose slot ended",
			task: ScheduledTask{ID: "t5", Date: wednesday, Hour: hourPtr(9), DurationHours: 1, Completed: true},
			now:  now,
			want: TaskOnTrack,
		},
		{
			name: "priority does not matter",
			task: ScheduledTask{ID: "t6", Date: tuesday, Priority: PriorityLow},
			now:  now,
			want: TaskPastDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.task, tt.now))
			assert.Equal(t, tt.want != TaskOnTrack, tt.task.IsOverdue(tt.now))
		})
	}
}

func TestClassify_UsesLocalCalendarOfNow(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// 2025-06-03 20:00 UTC is already Wednesday in Tokyo.
	now := time.Date(2025, time.June, 3, 20, 0, 0, 0, time.UTC).In(tokyo)

	assert.Equal(t, TaskPastDate, Classify(ScheduledTask{Date: tuesday}, now))
	assert.Equal(t, TaskOnTrack, Classify(ScheduledTask{Date: wednesday, Hour: hourPtr(6), DurationHours: 1}, now))
}

func TestScheduledTask_InProgress(t *testing.T) {
	task := ScheduledTask{ID: "t1", Date: wednesday, Hour: hourPtr(14), DurationHours: 2}

	assert.False(t, task.InProgress(time.Date(2025, time.June, 4, 13, 59, 0, 0, time.Local)))
	assert.True(t, task.InProgress(time.Date(2025, time.June, 4, 14, 0, 0, 0, time.Local)))
	assert.True(t, task.InProgress(time.Date(2025, time.June, 4, 15, 59, 0, 0, time.Local)))
	assert.False(t, task.InProgress(time.Date(2025, time.June, 4, 16, 0, 0, 0, time.Local)))
	assert.False(t, task.InProgress(time.Date(2025, time.June, 5, 14, 30, 0, 0, time.Local)), "other day")

	allDay := ScheduledTask{ID: "t2", Date: wednesday}
	assert.False(t, allDay.InProgress(time.Date(2025, time.June, 4, 12, 0, 0, 0, time.Local)))
}
