package material

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/studyplan/internal/plan"
)

const materialColumns = `id, name, total_amount, current_progress, unit_type, daily_target, start_date,
	deadline, excluded_weekdays, version, archived_at, created_at, updated_at`

type materialRow struct {
	ID               string        `db:"id"`
	Name             string        `db:"name"`
	TotalAmount      int           `db:"total_amount"`
	CurrentProgress  int           `db:"current_progress"`
	UnitType         string        `db:"unit_type"`
	DailyTarget      sql.NullInt64 `db:"daily_target"`
	StartDate        time.Time     `db:"start_date"`
	Deadline         sql.NullTime  `db:"deadline"`
	ExcludedWeekdays string        `db:"excluded_weekdays"`
	Version          int64         `db:"version"`
	ArchivedAt       sql.NullTime  `db:"archived_at"`
	CreatedAt        time.Time     `db:"created_at"`
	UpdatedAt        time.Time     `db:"updated_at"`
}

func (row materialRow) record() (Record, error) {
	excluded, err := ParseWeekdays(row.ExcludedWeekdays)
	if err != nil {
		return Record{}, fmt.Errorf("material %s: %w", row.ID, err)
	}
	r := Record{
		Material: plan.Material{
			ID:               row.ID,
			Name:             row.Name,
			TotalAmount:      row.TotalAmount,
			CurrentProgress:  row.CurrentProgress,
			UnitType:         plan.UnitType(row.UnitType),
			DailyTarget:      int(row.DailyTarget.Int64),
			StartDate:        plan.DateOf(row.StartDate),
			ExcludedWeekdays: excluded,
		},
		Version:   row.Version,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.Deadline.Valid {
		deadline := plan.DateOf(row.Deadline.Time)
		r.Deadline = &deadline
	}
	if row.ArchivedAt.Valid {
		archivedAt := row.ArchivedAt.Time
		r.ArchivedAt = &archivedAt
	}
	return r, nil
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// FindAll returns every material including archived ones.
func (r *DBRepository) FindAll(ctx context.Context) ([]Record, error) {
	return r.selectRecords(ctx, "SELECT "+materialColumns+" FROM materials ORDER BY created_at, id")
}

// FindActive returns materials that are not archived.
func (r *DBRepository) FindActive(ctx context.Context) ([]Record, error) {
	return r.selectRecords(ctx, "SELECT "+materialColumns+" FROM materials WHERE archived_at IS NULL ORDER BY created_at, id")
}

func (r *DBRepository) selectRecords(ctx context.Context, query string, args ...any) ([]Record, error) {
	var rows []materialRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(materials) > %w", err)
	}
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		record, err := row.record()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// FindByID returns the material or ErrNotFound.
func (r *DBRepository) FindByID(ctx context.Context, id string) (*Record, error) {
	var row materialRow
	err := r.db.GetContext(ctx, &row, "SELECT "+materialColumns+" FROM materials WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(material) > %w", err)
	}
	record, err := row.record()
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Create inserts a new material at version 1.
func (r *DBRepository) Create(ctx context.Context, record *Record) error {
	var dailyTarget sql.NullInt64
	if record.DailyTarget > 0 {
		dailyTarget = sql.NullInt64{Int64: int64(record.DailyTarget), Valid: true}
	}
	var deadline sql.NullTime
	if record.Deadline != nil {
		deadline = sql.NullTime{Time: record.Deadline.Time, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO materials (id, name, total_amount, current_progress, unit_type, daily_target, start_date, deadline, excluded_weekdays, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
		record.ID, record.Name, record.TotalAmount, record.CurrentProgress, string(record.UnitType),
		dailyTarget, record.StartDate.Time, deadline, FormatWeekdays(record.ExcludedWeekdays))
	if err != nil {
		return fmt.Errorf("db.ExecContext(insert material) > %w", err)
	}
	record.Version = 1
	return nil
}

// UpdateProgress performs a compare-and-swap on the version column.
func (r *DBRepository) UpdateProgress(ctx context.Context, id string, expectedVersion int64, progress int) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE materials SET current_progress = ?, version = version + 1 WHERE id = ? AND version = ?",
		progress, id, expectedVersion)
	if err != nil {
		return 0, fmt.Errorf("db.ExecContext(update material progress) > %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("result.RowsAffected() > %w", err)
	}
	if affected == 0 {
		var exists bool
		if err := r.db.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM materials WHERE id = ?)", id); err != nil {
			return 0, fmt.Errorf("db.GetContext(material exists) > %w", err)
		}
		if !exists {
			return 0, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return 0, fmt.Errorf("%w: %s at version %d", ErrVersionConflict, id, expectedVersion)
	}
	return expectedVersion + 1, nil
}

// Archive marks the material archived; archived materials are skipped by FindActive.
func (r *DBRepository) Archive(ctx context.Context, id string, at time.Time) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE materials SET archived_at = ? WHERE id = ? AND archived_at IS NULL", at, id); err != nil {
		return fmt.Errorf("db.ExecContext(archive material) > %w", err)
	}
	return nil
}

type progressLogRow struct {
	ID            int64     `db:"id"`
	MaterialID    string    `db:"material_id"`
	LoggedOn      time.Time `db:"logged_on"`
	Amount        int       `db:"amount"`
	ProgressAfter int       `db:"progress_after"`
	CreatedAt     time.Time `db:"created_at"`
}

// DBProgressLogRepository implements ProgressLogRepository using MySQL.
type DBProgressLogRepository struct {
	db *sqlx.DB
}

// NewDBProgressLogRepository creates a new DBProgressLogRepository.
func NewDBProgressLogRepository(db *sqlx.DB) *DBProgressLogRepository {
	return &DBProgressLogRepository{db: db}
}

// Create inserts a progress log.
func (r *DBProgressLogRepository) Create(ctx context.Context, log *ProgressLog) error {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO progress_logs (material_id, logged_on, amount, progress_after) VALUES (?, ?, ?, ?)",
		log.MaterialID, log.LoggedOn.Time, log.Amount, log.ProgressAfter)
	if err != nil {
		return fmt.Errorf("db.ExecContext(insert progress_log) > %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("result.LastInsertId() > %w", err)
	}
	log.ID = id
	return nil
}

// FindAll returns all progress logs ordered by date.
func (r *DBProgressLogRepository) FindAll(ctx context.Context) ([]ProgressLog, error) {
	var rows []progressLogRow
	if err := r.db.SelectContext(ctx, &rows,
		"SELECT id, material_id, logged_on, amount, progress_after, created_at FROM progress_logs ORDER BY logged_on, id"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(progress_logs) > %w", err)
	}
	logs := make([]ProgressLog, 0, len(rows))
	for _, row := range rows {
		logs = append(logs, ProgressLog{
			ID:            row.ID,
			MaterialID:    row.MaterialID,
			LoggedOn:      plan.DateOf(row.LoggedOn),
			Amount:        row.Amount,
			ProgressAfter: row.ProgressAfter,
			CreatedAt:     row.CreatedAt,
		})
	}
	return logs, nil
}
