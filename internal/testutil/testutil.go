// Package testutil provides shared test helpers for creating config files and material fixtures.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/studyplan/internal/material"
	"github.com/at-ishikawa/studyplan/internal/plan"
	"github.com/at-ishikawa/studyplan/internal/schedule"
)

// SetupTestConfig creates a config file using YAML storage under tmpDir and the directories it names.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	dirs := []string{"data", "outputs"}
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, d), 0755))
	}

	configContent := fmt.Sprintf(`storage:
  driver: yaml
  directory: %s
planner:
  companion_mode: eligible_days
  max_update_retries: 3
  timezone: UTC
outputs:
  export_directory: %s
`,
		filepath.Join(tmpDir, "data"),
		filepath.Join(tmpDir, "outputs"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// SetupBrokenConfig creates a config file with invalid YAML that causes Load() to fail.
func SetupBrokenConfig(t *testing.T, tmpDir string) string {
	t.Helper()
	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("{{invalid yaml content"), 0644))
	return cfgPath
}

// MaterialOption configures optional fields when creating a material fixture.
type MaterialOption func(*material.Record)

// WithProgress sets the current progress of the material fixture.
func WithProgress(progress int) MaterialOption {
	return func(r *material.Record) {
		r.CurrentProgress = progress
	}
}

// WithWindow sets the start date and deadline of the material fixture.
func WithWindow(start plan.Date, deadline *plan.Date) MaterialOption {
	return func(r *material.Record) {
		r.StartDate = start
		r.Deadline = deadline
	}
}

// CreateMaterial stores a 100 page material running from today (UTC) to four days later,
// together with its plan, in the YAML storage of dataDir. Use options to override the defaults.
func CreateMaterial(t *testing.T, dataDir, id string, opts ...MaterialOption) material.Record {
	t.Helper()

	today := plan.DateOf(time.Now().UTC())
	deadline := today.AddDays(4)
	record := material.Record{
		Material: plan.Material{
			ID:          id,
			Name:        "Test Workbook",
			TotalAmount: 100,
			UnitType:    plan.UnitPages,
			StartDate:   today,
			Deadline:    &deadline,
		},
		CreatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(&record)
	}

	ctx := context.Background()
	require.NoError(t, material.NewYAMLRepository(dataDir).Create(ctx, &record))

	p, err := plan.DistributeFrom(record.Material, record.StartDate)
	require.NoError(t, err)
	require.NoError(t, schedule.NewYAMLRepository(dataDir).ReplaceFrom(ctx, record.ID, record.StartDate, p.Entries))
	return record
}
