package datasync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/studyplan/internal/material"
	"github.com/at-ishikawa/studyplan/internal/plan"
	"github.com/at-ishikawa/studyplan/internal/schedule"
)

func TestReadYAML(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	record := mathRecord(20)
	require.NoError(t, material.NewYAMLRepository(dir).Create(ctx, &record))
	require.NoError(t, material.NewYAMLProgressLogRepository(dir).Create(ctx, &material.ProgressLog{
		MaterialID: "math", LoggedOn: monday, Amount: 20, ProgressAfter: 20,
	}))
	schedules := schedule.NewYAMLRepository(dir)
	require.NoError(t, schedules.ReplaceFrom(ctx, "math", monday, []plan.PlanEntry{
		{MaterialID: "math", Date: monday, RangeStart: 1, RangeEnd: 20, Amount: 20},
	}))
	require.NoError(t, schedules.CreateTask(ctx, &plan.ScheduledTask{ID: "t1", Title: "Review", Date: monday, DurationHours: 1, Completed: true}))

	got, err := ReadYAML(ctx, dir)
	require.NoError(t, err)
	require.Len(t, got.Materials, 1)
	assert.Equal(t, "math", got.Materials[0].ID)
	assert.Len(t, got.Entries, 1)
	assert.Len(t, got.ProgressLogs, 1)
	require.Len(t, got.Tasks, 1)
	assert.True(t, got.Tasks[0].Completed, "completed tasks are read too")
}

func TestReadYAML_EmptyDirectory(t *testing.T) {
	got, err := ReadYAML(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, got.Materials)
	assert.Empty(t, got.Entries)
}
