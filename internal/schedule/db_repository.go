package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/studyplan/internal/database"
	"github.com/at-ishikawa/studyplan/internal/plan"
)

type entryRow struct {
	MaterialID string    `db:"material_id"`
	Date       time.Time `db:"date"`
	RangeStart int       `db:"range_start"`
	RangeEnd   int       `db:"range_end"`
	Amount     int       `db:"amount"`
	Overloaded bool      `db:"overloaded"`
}

func (row entryRow) entry() plan.PlanEntry {
	return plan.PlanEntry{
		MaterialID: row.MaterialID,
		Date:       plan.DateOf(row.Date),
		RangeStart: row.RangeStart,
		RangeEnd:   row.RangeEnd,
		Amount:     row.Amount,
		Overloaded: row.Overloaded,
	}
}

type taskRow struct {
	ID            string         `db:"id"`
	MaterialID    sql.NullString `db:"material_id"`
	Title         string         `db:"title"`
	Date          time.Time      `db:"date"`
	Hour          sql.NullInt16  `db:"hour"`
	DurationHours int            `db:"duration_hours"`
	Completed     bool           `db:"completed"`
	Priority      string         `db:"priority"`
}

func (row taskRow) task() plan.ScheduledTask {
	t := plan.ScheduledTask{
		ID:            row.ID,
		MaterialID:    row.MaterialID.String,
		Title:         row.Title,
		Date:          plan.DateOf(row.Date),
		DurationHours: row.DurationHours,
		Completed:     row.Completed,
		Priority:      plan.Priority(row.Priority),
	}
	if row.Hour.Valid {
		hour := int(row.Hour.Int16)
		t.Hour = &hour
	}
	return t
}

const (
	entryColumns = "material_id, date, range_start, range_end, amount, overloaded"
	taskColumns  = "id, material_id, title, date, hour, duration_hours, completed, priority"
)

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

func (r *DBRepository) selectEntries(ctx context.Context, query string, args ...any) ([]plan.PlanEntry, error) {
	var rows []entryRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(plan_entries) > %w", err)
	}
	entries := make([]plan.PlanEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.entry())
	}
	return entries, nil
}

// FindAll returns every plan entry ordered by material and date.
func (r *DBRepository) FindAll(ctx context.Context) ([]plan.PlanEntry, error) {
	return r.selectEntries(ctx, "SELECT "+entryColumns+" FROM plan_entries ORDER BY material_id, date")
}

// FindByMaterial returns the material's entries ordered by date.
func (r *DBRepository) FindByMaterial(ctx context.Context, materialID string) ([]plan.PlanEntry, error) {
	return r.selectEntries(ctx, "SELECT "+entryColumns+" FROM plan_entries WHERE material_id = ? ORDER BY date", materialID)
}

// FindByDate returns every entry dated date.
func (r *DBRepository) FindByDate(ctx context.Context, date plan.Date) ([]plan.PlanEntry, error) {
	return r.selectEntries(ctx, "SELECT "+entryColumns+" FROM plan_entries WHERE date = ? ORDER BY material_id", date.Time)
}

// ReplaceFrom deletes and inserts within one transaction.
func (r *DBRepository) ReplaceFrom(ctx context.Context, materialID string, from plan.Date, entries []plan.PlanEntry) error {
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM plan_entries WHERE material_id = ? AND date >= ?", materialID, from.Time); err != nil {
			return fmt.Errorf("tx.ExecContext(delete plan_entries) > %w", err)
		}
		for _, e := range entriesFrom(entries, materialID, from) {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO plan_entries ("+entryColumns+") VALUES (?, ?, ?, ?, ?, ?)",
				e.MaterialID, e.Date.Time, e.RangeStart, e.RangeEnd, e.Amount, e.Overloaded); err != nil {
				return fmt.Errorf("tx.ExecContext(insert plan_entry %s) > %w", e.Date, err)
			}
		}
		return nil
	})
}

// CreateTask inserts a scheduled task.
func (r *DBRepository) CreateTask(ctx context.Context, task *plan.ScheduledTask) error {
	var materialID sql.NullString
	if task.MaterialID != "" {
		materialID = sql.NullString{String: task.MaterialID, Valid: true}
	}
	var hour sql.NullInt16
	if task.Hour != nil {
		hour = sql.NullInt16{Int16: int16(*task.Hour), Valid: true}
	}
	if _, err := r.db.ExecContext(ctx,
		"INSERT INTO scheduled_tasks ("+taskColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		task.ID, materialID, task.Title, task.Date.Time, hour, task.DurationHours, task.Completed, string(task.Priority)); err != nil {
		return fmt.Errorf("db.ExecContext(insert scheduled_task) > %w", err)
	}
	return nil
}

func (r *DBRepository) selectTasks(ctx context.Context, query string, args ...any) ([]plan.ScheduledTask, error) {
	var rows []taskRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(scheduled_tasks) > %w", err)
	}
	tasks := make([]plan.ScheduledTask, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, row.task())
	}
	return tasks, nil
}

// FindTasksByDate returns the tasks of one date, timed tasks first by hour.
func (r *DBRepository) FindTasksByDate(ctx context.Context, date plan.Date) ([]plan.ScheduledTask, error) {
	return r.selectTasks(ctx,
		"SELECT "+taskColumns+" FROM scheduled_tasks WHERE date = ? ORDER BY hour IS NULL, hour, id", date.Time)
}

// FindOpenTasks returns incomplete tasks dated on or before until.
func (r *DBRepository) FindOpenTasks(ctx context.Context, until plan.Date) ([]plan.ScheduledTask, error) {
	return r.selectTasks(ctx,
		"SELECT "+taskColumns+" FROM scheduled_tasks WHERE completed = FALSE AND date <= ? ORDER BY date, hour IS NULL, hour, id", until.Time)
}

// SetTaskCompleted updates the completed flag or returns ErrTaskNotFound.
func (r *DBRepository) SetTaskCompleted(ctx context.Context, id string, completed bool) error {
	result, err := r.db.ExecContext(ctx, "UPDATE scheduled_tasks SET completed = ? WHERE id = ?", completed, id)
	if err != nil {
		return fmt.Errorf("db.ExecContext(update scheduled_task) > %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("result.RowsAffected() > %w", err)
	}
	if affected > 0 {
		return nil
	}
	// MySQL reports zero affected rows when the flag already had the requested value.
	var exists bool
	if err := r.db.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM scheduled_tasks WHERE id = ?)", id); err != nil {
		return fmt.Errorf("db.GetContext(scheduled_task exists) > %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return nil
}
