package material

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/studyplan/internal/plan"
)

var materialRowColumns = []string{
	"id", "name", "total_amount", "current_progress", "unit_type", "daily_target", "start_date",
	"deadline", "excluded_weekdays", "version", "archived_at", "created_at", "updated_at",
}

func newMockRepository(t *testing.T) (*DBRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewDBRepository(sqlx.NewDb(db, "mysql")), mock
}

func TestDBRepository_FindActive(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	deadline := time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		want      []Record
		wantErr   string
	}{
		{
			name: "returns active materials",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(materialRowColumns).
					AddRow("math", "Calculus", 100, 20, "PAGES", nil, start, deadline, "0,6", 3, nil, now, now).
					AddRow("novel", "Novel", 300, 0, "GENERIC", 15, start, nil, "", 1, nil, now, now)
				mock.ExpectQuery("SELECT (.+) FROM materials WHERE archived_at IS NULL ORDER BY created_at, id").
					WillReturnRows(rows)
			},
			want: []Record{
				{
					Material: plan.Material{
						ID: "math", Name: "Calculus", TotalAmount: 100, CurrentProgress: 20, UnitType: plan.UnitPages,
						StartDate: plan.DateOf(start), Deadline: func() *plan.Date { d := plan.DateOf(deadline); return &d }(),
						ExcludedWeekdays: plan.Weekdays{time.Sunday, time.Saturday},
					},
					Version: 3, CreatedAt: now, UpdatedAt: now,
				},
				{
					Material: plan.Material{
						ID: "novel", Name: "Novel", TotalAmount: 300, UnitType: plan.UnitGeneric, DailyTarget: 15,
						StartDate: plan.DateOf(start),
					},
					Version: 1, CreatedAt: now, UpdatedAt: now,
				},
			},
		},
		{
			name: "corrupt weekday list",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(materialRowColumns).
					AddRow("math", "Calculus", 100, 20, "PAGES", nil, start, nil, "0,9", 1, nil, now, now)
				mock.ExpectQuery("SELECT (.+) FROM materials WHERE archived_at IS NULL").WillReturnRows(rows)
			},
			wantErr: "material math",
		},
		{
			name: "db error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT (.+) FROM materials WHERE archived_at IS NULL").
					WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			tt.setupMock(mock)

			got, err := repo.FindActive(context.Background())
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRepository_FindByID(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	archivedAt := time.Date(2025, 6, 6, 18, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery("SELECT (.+) FROM materials WHERE id = \\?").
			WithArgs("math").
			WillReturnRows(sqlmock.NewRows(materialRowColumns).
				AddRow("math", "Calculus", 100, 100, "PROBLEMS", 20, now, nil, "", 7, archivedAt, now, now))

		got, err := repo.FindByID(context.Background(), "math")
		require.NoError(t, err)
		assert.Equal(t, "math", got.ID)
		assert.Equal(t, plan.UnitProblems, got.UnitType)
		assert.Equal(t, 20, got.DailyTarget)
		assert.Equal(t, int64(7), got.Version)
		assert.True(t, got.Archived())
		assert.Nil(t, got.Deadline)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery("SELECT (.+) FROM materials WHERE id = \\?").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(materialRowColumns))

		got, err := repo.FindByID(context.Background(), "missing")
		assert.Nil(t, got)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDBRepository_Create(t *testing.T) {
	start := plan.NewDate(2025, time.June, 2)
	deadline := plan.NewDate(2025, time.June, 6)

	tests := []struct {
		name      string
		record    Record
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   bool
	}{
		{
			name: "with deadline and weekdays",
			record: Record{Material: plan.Material{
				ID: "math", Name: "Calculus", TotalAmount: 100, UnitType: plan.UnitPages,
				StartDate: start, Deadline: &deadline, ExcludedWeekdays: plan.Weekdays{time.Saturday, time.Sunday},
			}},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO materials").
					WithArgs("math", "Calculus", 100, 0, "PAGES", nil, start.Time, deadline.Time, "0,6").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "open ended with daily target",
			record: Record{Material: plan.Material{
				ID: "novel", TotalAmount: 300, UnitType: plan.UnitGeneric, DailyTarget: 15, StartDate: start,
			}},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO materials").
					WithArgs("novel", "", 300, 0, "GENERIC", int64(15), start.Time, nil, "").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:   "duplicate key",
			record: Record{Material: plan.Material{ID: "math", StartDate: start}},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO materials").WillReturnError(fmt.Errorf("Error 1062: Duplicate entry"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			tt.setupMock(mock)

			err := repo.Create(context.Background(), &tt.record)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(1), tt.record.Version)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRepository_UpdateProgress(t *testing.T) {
	tests := []struct {
		name        string
		setupMock   func(mock sqlmock.Sqlmock)
		wantVersion int64
		wantErr     error
	}{
		{
			name: "version matches",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE materials SET current_progress = \\?, version = version \\+ 1 WHERE id = \\? AND version = \\?").
					WithArgs(50, "math", int64(3)).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantVersion: 4,
		},
		{
			name: "version moved on",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE materials SET current_progress").
					WithArgs(50, "math", int64(3)).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery("SELECT EXISTS").
					WithArgs("math").
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
			},
			wantErr: ErrVersionConflict,
		},
		{
			name: "material deleted",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE materials SET current_progress").
					WithArgs(50, "math", int64(3)).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery("SELECT EXISTS").
					WithArgs("math").
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			tt.setupMock(mock)

			got, err := repo.UpdateProgress(context.Background(), "math", 3, 50)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantVersion, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRepository_Archive(t *testing.T) {
	at := time.Date(2025, 6, 6, 18, 0, 0, 0, time.UTC)
	repo, mock := newMockRepository(t)
	mock.ExpectExec("UPDATE materials SET archived_at = \\? WHERE id = \\? AND archived_at IS NULL").
		WithArgs(at, "math").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Archive(context.Background(), "math", at))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBProgressLogRepository(t *testing.T) {
	now := time.Date(2025, 6, 4, 21, 0, 0, 0, time.UTC)
	loggedOn := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewDBProgressLogRepository(sqlx.NewDb(db, "mysql"))

	mock.ExpectExec("INSERT INTO progress_logs").
		WithArgs("math", loggedOn, 30, 50).
		WillReturnResult(sqlmock.NewResult(42, 1))
	log := &ProgressLog{MaterialID: "math", LoggedOn: plan.DateOf(loggedOn), Amount: 30, ProgressAfter: 50}
	require.NoError(t, repo.Create(context.Background(), log))
	assert.Equal(t, int64(42), log.ID)

	mock.ExpectQuery("SELECT (.+) FROM progress_logs ORDER BY logged_on, id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "material_id", "logged_on", "amount", "progress_after", "created_at"}).
			AddRow(42, "math", loggedOn, 30, 50, now))
	got, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []ProgressLog{
		{ID: 42, MaterialID: "math", LoggedOn: plan.NewDate(2025, time.June, 4), Amount: 30, ProgressAfter: 50, CreatedAt: now},
	}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
