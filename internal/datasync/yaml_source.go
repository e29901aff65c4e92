package datasync

import (
	"context"
	"fmt"

	"github.com/at-ishikawa/studyplan/internal/material"
	"github.com/at-ishikawa/studyplan/internal/schedule"
)

// ReadYAML loads everything stored by the YAML driver in directory.
func ReadYAML(ctx context.Context, directory string) (Source, error) {
	materials, err := material.NewYAMLRepository(directory).FindAll(ctx)
	if err != nil {
		return Source{}, fmt.Errorf("materials.FindAll() > %w", err)
	}
	logs, err := material.NewYAMLProgressLogRepository(directory).FindAll(ctx)
	if err != nil {
		return Source{}, fmt.Errorf("progressLogs.FindAll() > %w", err)
	}
	schedules := schedule.NewYAMLRepository(directory)
	entries, err := schedules.FindAll(ctx)
	if err != nil {
		return Source{}, fmt.Errorf("schedules.FindAll() > %w", err)
	}
	tasks, err := schedules.FindAllTasks(ctx)
	if err != nil {
		return Source{}, fmt.Errorf("schedules.FindAllTasks() > %w", err)
	}

	return Source{
		Materials:    materials,
		Entries:      entries,
		ProgressLogs: logs,
		Tasks:        tasks,
	}, nil
}
