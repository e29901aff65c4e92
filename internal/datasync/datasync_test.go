package datasync

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/studyplan/internal/material"
	mock_material "github.com/at-ishikawa/studyplan/internal/mocks/material"
	mock_schedule "github.com/at-ishikawa/studyplan/internal/mocks/schedule"
	"github.com/at-ishikawa/studyplan/internal/plan"
)

var (
	monday  = plan.NewDate(2025, time.June, 2)
	tuesday = plan.NewDate(2025, time.June, 3)
)

func mathRecord(progress int) material.Record {
	deadline := plan.NewDate(2025, time.June, 6)
	return material.Record{Material: plan.Material{
		ID: "math", Name: "Calculus workbook", TotalAmount: 100, CurrentProgress: progress,
		UnitType: plan.UnitPages, StartDate: monday, Deadline: &deadline,
	}, Version: 1}
}

type mocks struct {
	materials    *mock_material.MockRepository
	progressLogs *mock_material.MockProgressLogRepository
	schedules    *mock_schedule.MockRepository
}

func TestImporter_Import(t *testing.T) {
	archivedAt := time.Date(2025, time.June, 6, 18, 0, 0, 0, time.UTC)
	entries := []plan.PlanEntry{
		{MaterialID: "math", Date: tuesday, RangeStart: 21, RangeEnd: 40, Amount: 20},
		{MaterialID: "math", Date: monday, RangeStart: 1, RangeEnd: 20, Amount: 20},
	}
	logs := []material.ProgressLog{
		{ID: 7, MaterialID: "math", LoggedOn: monday, Amount: 20, ProgressAfter: 20},
		{ID: 8, MaterialID: "math", LoggedOn: tuesday, Amount: 15, ProgressAfter: 35},
	}

	tests := []struct {
		name       string
		source     Source
		opts       ImportOptions
		setup      func(m mocks)
		want       *ImportResult
		wantOutput string
	}{
		{
			name:   "new material is created",
			source: Source{Materials: []material.Record{mathRecord(35)}},
			setup: func(m mocks) {
				m.materials.EXPECT().FindByID(gomock.Any(), "math").Return(nil, material.ErrNotFound)
				m.materials.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, r *material.Record) error {
						assert.Equal(t, 35, r.CurrentProgress)
						assert.Equal(t, "Calculus workbook", r.Name)
						return nil
					})
			},
			want:       &ImportResult{MaterialsNew: 1},
			wantOutput: "  [NEW]  math (Calculus workbook)\n",
		},
		{
			name: "archived material keeps its archive time",
			source: Source{Materials: []material.Record{func() material.Record {
				r := mathRecord(100)
				r.ArchivedAt = &archivedAt
				return r
			}()}},
			setup: func(m mocks) {
				m.materials.EXPECT().FindByID(gomock.Any(), "math").Return(nil, material.ErrNotFound)
				m.materials.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
				m.materials.EXPECT().Archive(gomock.Any(), "math", archivedAt).Return(nil)
			},
			want: &ImportResult{MaterialsNew: 1},
		},
		{
			name:   "existing material is skipped when UpdateExisting is false",
			source: Source{Materials: []material.Record{mathRecord(35)}},
			setup: func(m mocks) {
				existing := mathRecord(20)
				m.materials.EXPECT().FindByID(gomock.Any(), "math").Return(&existing, nil)
			},
			want:       &ImportResult{MaterialsSkipped: 1},
			wantOutput: "  [SKIP]  math (Calculus workbook)\n",
		},
		{
			name:   "existing material progress is updated when UpdateExisting is true",
			source: Source{Materials: []material.Record{mathRecord(35)}},
			opts:   ImportOptions{UpdateExisting: true},
			setup: func(m mocks) {
				existing := mathRecord(20)
				existing.Version = 4
				m.materials.EXPECT().FindByID(gomock.Any(), "math").Return(&existing, nil)
				m.materials.EXPECT().UpdateProgress(gomock.Any(), "math", int64(4), 35).Return(int64(5), nil)
			},
			want:       &ImportResult{MaterialsUpdated: 1},
			wantOutput: "  [UPDATE]  math progress 20 -> 35\n",
		},
		{
			name:   "dry run writes nothing",
			source: Source{Materials: []material.Record{mathRecord(35)}, Entries: entries, ProgressLogs: logs},
			opts:   ImportOptions{DryRun: true},
			setup: func(m mocks) {
				m.materials.EXPECT().FindByID(gomock.Any(), "math").Return(nil, material.ErrNotFound)
				m.schedules.EXPECT().FindByMaterial(gomock.Any(), "math").Return(nil, nil)
				m.progressLogs.EXPECT().FindAll(gomock.Any()).Return(nil, nil)
			},
			want: &ImportResult{MaterialsNew: 1, PlansReplaced: 1, ProgressLogsNew: 2},
		},
		{
			name:   "plan is stored from its first date",
			source: Source{Entries: entries},
			setup: func(m mocks) {
				m.schedules.EXPECT().FindByMaterial(gomock.Any(), "math").Return(nil, nil)
				m.schedules.EXPECT().ReplaceFrom(gomock.Any(), "math", monday, []plan.PlanEntry{entries[1], entries[0]}).Return(nil)
			},
			want:       &ImportResult{PlansReplaced: 1},
			wantOutput: "  [PLAN]  math: 2 entries\n",
		},
		{
			name:   "existing plan is kept",
			source: Source{Entries: entries},
			setup: func(m mocks) {
				m.schedules.EXPECT().FindByMaterial(gomock.Any(), "math").Return(entries[:1], nil)
			},
			want: &ImportResult{PlansSkipped: 1},
		},
		{
			name:   "progress logs already imported are skipped",
			source: Source{ProgressLogs: logs},
			setup: func(m mocks) {
				m.progressLogs.EXPECT().FindAll(gomock.Any()).Return([]material.ProgressLog{
					{ID: 1, MaterialID: "math", LoggedOn: monday, Amount: 20, ProgressAfter: 20},
				}, nil)
				m.progressLogs.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, log *material.ProgressLog) error {
						assert.Equal(t, int64(0), log.ID)
						assert.Equal(t, 35, log.ProgressAfter)
						return nil
					})
			},
			want: &ImportResult{ProgressLogsNew: 1, ProgressLogsSkipped: 1},
		},
		{
			name: "tasks are deduplicated by ID",
			source: Source{Tasks: []plan.ScheduledTask{
				{ID: "t1", Title: "Review", Date: monday, DurationHours: 1},
				{ID: "t2", Title: "Mock exam", Date: monday, DurationHours: 2},
			}},
			setup: func(m mocks) {
				m.schedules.EXPECT().FindTasksByDate(gomock.Any(), monday).Return([]plan.ScheduledTask{{ID: "t1"}}, nil)
				m.schedules.EXPECT().CreateTask(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, task *plan.ScheduledTask) error {
						assert.Equal(t, "t2", task.ID)
						return nil
					})
			},
			want: &ImportResult{TasksNew: 1, TasksSkipped: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := mocks{
				materials:    mock_material.NewMockRepository(ctrl),
				progressLogs: mock_material.NewMockProgressLogRepository(ctrl),
				schedules:    mock_schedule.NewMockRepository(ctrl),
			}
			tt.setup(m)

			var buf bytes.Buffer
			importer := NewImporter(m.materials, m.progressLogs, m.schedules, &buf)
			got, err := importer.Import(context.Background(), tt.source, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.wantOutput != "" {
				assert.Equal(t, tt.wantOutput, buf.String())
			}
		})
	}
}

func TestImporter_Import_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	materials := mock_material.NewMockRepository(ctrl)
	materials.EXPECT().FindByID(gomock.Any(), "math").Return(nil, errors.New("connection refused"))

	importer := NewImporter(materials, mock_material.NewMockProgressLogRepository(ctrl), mock_schedule.NewMockRepository(ctrl), &bytes.Buffer{})
	_, err := importer.Import(context.Background(), Source{Materials: []material.Record{mathRecord(0)}}, ImportOptions{})
	assert.ErrorContains(t, err, "importMaterials() > FindByID(math) > connection refused")
}
