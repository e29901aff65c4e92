// Package planner persists engine output for the host application.
//
// The engine in package plan is pure; Service loads materials and entries from the
// repositories, serialises progress writes through an optimistic version check, stores
// the recomputed entries and publishes the resulting change events.
package planner

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go"
	"github.com/google/uuid"

	"github.com/at-ishikawa/studyplan/internal/config"
	"github.com/at-ishikawa/studyplan/internal/material"
	"github.com/at-ishikawa/studyplan/internal/notify"
	"github.com/at-ishikawa/studyplan/internal/plan"
	"github.com/at-ishikawa/studyplan/internal/schedule"
)

// ErrArchived is returned when progress is reported for an archived material.
var ErrArchived = errors.New("material is archived")

// Result is the outcome of an operation that regenerated a material's plan.
type Result struct {
	Material material.Record `json:"material"`
	// Entries holds every persisted entry of the material after the operation.
	Entries  []plan.PlanEntry `json:"entries"`
	Warnings []plan.Warning   `json:"warnings"`
	Changes  []plan.Change    `json:"changes"`
}

type Service struct {
	materials    material.Repository
	progressLogs material.ProgressLogRepository
	schedules    schedule.Repository
	notifier     notify.Notifier
	inputs       *inputValidator

	companionMode    plan.CompanionMode
	maxUpdateRetries uint
	retryDelay       time.Duration
	location         *time.Location
	now              func() time.Time
	newID            func() string
}

// NewService creates a Service. A nil notifier logs changes only.
func NewService(
	materials material.Repository,
	progressLogs material.ProgressLogRepository,
	schedules schedule.Repository,
	notifier notify.Notifier,
	cfg config.PlannerConfig,
) (*Service, error) {
	location := time.Local
	if cfg.Timezone != "" {
		var err error
		location, err = time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("time.LoadLocation(%s) > %w", cfg.Timezone, err)
		}
	}
	inputs, err := newInputValidator()
	if err != nil {
		return nil, fmt.Errorf("newInputValidator() > %w", err)
	}
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}

	return &Service{
		materials:        materials,
		progressLogs:     progressLogs,
		schedules:        schedules,
		notifier:         notifier,
		inputs:           inputs,
		companionMode:    cmp.Or(plan.CompanionMode(cfg.CompanionMode), plan.CompanionEligibleDays),
		maxUpdateRetries: uint(max(cfg.MaxUpdateRetries, 1)),
		retryDelay:       10 * time.Millisecond,
		location:         location,
		now:              time.Now,
		newID:            uuid.NewString,
	}, nil
}

// Validate checks a request against the planner's validation rules.
// Failures are *InputError.
func (s *Service) Validate(input any) error {
	return s.inputs.check(input)
}

// Now returns the current time in the planner's time zone.
func (s *Service) Now() time.Time {
	return s.now().In(s.location)
}

// Today returns the planner's current calendar day.
func (s *Service) Today() plan.Date {
	return plan.DateOf(s.Now())
}

// Materials returns every material in registration order, archived ones included.
func (s *Service) Materials(ctx context.Context) ([]material.Record, error) {
	records, err := s.materials.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("materials.FindAll() > %w", err)
	}
	return records, nil
}

// RegisterMaterial validates the input, stores a new material and its first plan.
// The plan starts at the later of the start date and today.
func (s *Service) RegisterMaterial(ctx context.Context, input RegisterInput) (Result, error) {
	if err := s.inputs.check(input); err != nil {
		return Result{}, err
	}

	today := s.Today()
	m := input.material(s.newID(), today)
	from := m.Window().From(today).Start
	p, err := plan.DistributeFrom(m, from)
	if err != nil {
		return Result{}, fmt.Errorf("plan.DistributeFrom(%s) > %w", m.ID, err)
	}

	record := material.Record{Material: m}
	if err := s.materials.Create(ctx, &record); err != nil {
		return Result{}, fmt.Errorf("materials.Create(%s) > %w", m.ID, err)
	}
	if err := s.schedules.ReplaceFrom(ctx, m.ID, from, p.Entries); err != nil {
		return Result{}, fmt.Errorf("schedules.ReplaceFrom(%s) > %w", m.ID, err)
	}

	result := Result{
		Material: record,
		Entries:  p.Entries,
		Warnings: p.Warnings,
		Changes:  plan.DiffEntries(nil, p.Entries),
	}
	s.finish(ctx, result)
	return result, nil
}

// UpdateProgress sets a material's progress, last write wins, and rebalances its plan from today.
// The write is a compare-and-swap on the material's version and is retried on conflicts.
// After the plan is stored the version is read again: if another writer committed in the
// meantime, the plan is rebalanced from that writer's progress so the stored plan always
// follows the latest committed progress.
func (s *Service) UpdateProgress(ctx context.Context, id string, newProgress int) (Result, error) {
	record, before, err := s.commitProgress(ctx, id, newProgress)
	if err != nil {
		return Result{}, err
	}
	committed := record.CurrentProgress

	today := s.Today()
	previous, err := s.schedules.FindByMaterial(ctx, id)
	if err != nil {
		return Result{}, fmt.Errorf("schedules.FindByMaterial(%s) > %w", id, err)
	}
	if delta := committed - before; delta != 0 {
		if err := s.progressLogs.Create(ctx, &material.ProgressLog{
			MaterialID:    id,
			LoggedOn:      today,
			Amount:        delta,
			ProgressAfter: committed,
			CreatedAt:     s.now(),
		}); err != nil {
			return Result{}, fmt.Errorf("progressLogs.Create(%s) > %w", id, err)
		}
	}

	// newProgress clamps to the committed value; passing it keeps the clamp warning.
	rb, err := plan.Rebalancer{}.OnProgressUpdated(record.Material, newProgress, today, previous)
	if err != nil {
		return Result{}, fmt.Errorf("OnProgressUpdated(%s) > %w", id, err)
	}
	var result Result
	for {
		result, err = s.store(ctx, *record, rb, previous, today)
		if err != nil {
			return Result{}, err
		}

		latest, err := s.materials.FindByID(ctx, id)
		if err != nil {
			return Result{}, fmt.Errorf("materials.FindByID(%s) > %w", id, err)
		}
		if latest.Version == record.Version {
			break
		}
		slog.Default().DebugContext(ctx, "progress changed while storing the plan",
			"materialId", id,
			"version", record.Version,
			"latestVersion", latest.Version,
		)
		record = latest
		rb, err = plan.Rebalancer{}.OnProgressUpdated(latest.Material, latest.CurrentProgress, today, previous)
		if err != nil {
			return Result{}, fmt.Errorf("OnProgressUpdated(%s) > %w", id, err)
		}
	}

	if record.Status() == plan.StatusCompleted && !record.Archived() {
		at := s.now()
		if err := s.materials.Archive(ctx, id, at); err != nil {
			return Result{}, fmt.Errorf("materials.Archive(%s) > %w", id, err)
		}
		result.Material.ArchivedAt = &at
		slog.Default().InfoContext(ctx, "material completed", "materialId", id)
	}

	s.finish(ctx, result)
	return result, nil
}

// commitProgress stores the clamped progress with a compare-and-swap on the version.
// It returns the record as committed and the progress it replaced.
func (s *Service) commitProgress(ctx context.Context, id string, newProgress int) (*material.Record, int, error) {
	var record *material.Record
	var before int
	err := retry.Do(
		func() error {
			r, err := s.materials.FindByID(ctx, id)
			if err != nil {
				return fmt.Errorf("materials.FindByID(%s) > %w", id, err)
			}
			if r.Archived() {
				return fmt.Errorf("%w: %s", ErrArchived, id)
			}

			m := r.Material
			m.CurrentProgress = newProgress
			m, _ = m.Clamped()
			version, err := s.materials.UpdateProgress(ctx, id, r.Version, m.CurrentProgress)
			if err != nil {
				return fmt.Errorf("materials.UpdateProgress(%s, version %d) > %w", id, r.Version, err)
			}

			before = r.CurrentProgress
			r.CurrentProgress = m.CurrentProgress
			r.Version = version
			record = r
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(s.maxUpdateRetries),
		retry.Delay(s.retryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, material.ErrVersionConflict)
		}),
		retry.OnRetry(func(n uint, err error) {
			slog.Default().DebugContext(ctx, "retrying progress update", "materialId", id, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return nil, 0, err
	}
	return record, before, nil
}

// MarkDayMissed redistributes a material's remaining work without the missed date.
// Only today or earlier can be missed.
func (s *Service) MarkDayMissed(ctx context.Context, id string, missed plan.Date) (Result, error) {
	today := s.Today()
	if missed.After(today) {
		return Result{}, &InputError{Fields: []FieldError{{
			Field:   "date",
			Message: fmt.Sprintf("date %s is after today %s", missed, today),
		}}}
	}

	record, err := s.materials.FindByID(ctx, id)
	if err != nil {
		return Result{}, fmt.Errorf("materials.FindByID(%s) > %w", id, err)
	}
	previous, err := s.schedules.FindByMaterial(ctx, id)
	if err != nil {
		return Result{}, fmt.Errorf("schedules.FindByMaterial(%s) > %w", id, err)
	}

	rb, err := plan.Rebalancer{}.OnDayMissed(record.Material, missed, today, previous)
	if err != nil {
		return Result{}, fmt.Errorf("OnDayMissed(%s, %s) > %w", id, missed, err)
	}
	result, err := s.store(ctx, *record, rb, previous, rb.From)
	if err != nil {
		return Result{}, err
	}
	s.finish(ctx, result)
	return result, nil
}

// RollOver treats yesterday as missed for every active material whose entry for
// yesterday is not covered by its progress. Failing materials do not stop the others.
func (s *Service) RollOver(ctx context.Context) ([]Result, error) {
	records, err := s.materials.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("materials.FindActive() > %w", err)
	}
	yesterday := s.Today().AddDays(-1)
	entries, err := s.schedules.FindByDate(ctx, yesterday)
	if err != nil {
		return nil, fmt.Errorf("schedules.FindByDate(%s) > %w", yesterday, err)
	}
	due := make(map[string]plan.PlanEntry, len(entries))
	for _, e := range entries {
		due[e.MaterialID] = e
	}

	var results []Result
	var errs []error
	for _, r := range records {
		e, ok := due[r.ID]
		if !ok || r.CurrentProgress >= e.RangeEnd {
			continue
		}
		result, err := s.MarkDayMissed(ctx, r.ID, yesterday)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		results = append(results, result)
	}
	return results, errors.Join(errs...)
}

// Plan returns a material with its persisted entries.
func (s *Service) Plan(ctx context.Context, id string) (material.Record, []plan.PlanEntry, error) {
	record, err := s.materials.FindByID(ctx, id)
	if err != nil {
		return material.Record{}, nil, fmt.Errorf("materials.FindByID(%s) > %w", id, err)
	}
	entries, err := s.schedules.FindByMaterial(ctx, id)
	if err != nil {
		return material.Record{}, nil, fmt.Errorf("schedules.FindByMaterial(%s) > %w", id, err)
	}
	return *record, entries, nil
}

// ProgressLogs returns every recorded progress update.
func (s *Service) ProgressLogs(ctx context.Context) ([]material.ProgressLog, error) {
	logs, err := s.progressLogs.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("progressLogs.FindAll() > %w", err)
	}
	return logs, nil
}

// store replaces the persisted entries dated from on with those of rb and diffs them
// against the previous ones. Entries rb kept verbatim are written back unchanged.
func (s *Service) store(ctx context.Context, record material.Record, rb plan.Rebalance, previous []plan.PlanEntry, from plan.Date) (Result, error) {
	future := rb.EntriesFrom(from)
	if err := s.schedules.ReplaceFrom(ctx, record.ID, from, future); err != nil {
		return Result{}, fmt.Errorf("schedules.ReplaceFrom(%s) > %w", record.ID, err)
	}

	var old []plan.PlanEntry
	for _, e := range previous {
		if !e.Date.Before(from) {
			old = append(old, e)
		}
	}
	return Result{
		Material: record,
		Entries:  rb.Plan.Entries,
		Warnings: rb.Plan.Warnings,
		Changes:  plan.DiffEntries(old, future),
	}, nil
}

// finish logs warnings and publishes changes. Publishing failures are logged only,
// the new plan is already stored.
func (s *Service) finish(ctx context.Context, result Result) {
	logger := slog.Default()
	for _, w := range result.Warnings {
		attrs := []any{"materialId", result.Material.ID, "kind", w.Kind}
		if w.Date != nil {
			attrs = append(attrs, "date", w.Date.String())
		}
		logger.WarnContext(ctx, w.Message, attrs...)
	}

	if err := s.notifier.Publish(ctx, result.Changes); err != nil {
		logger.ErrorContext(ctx, "failed to publish plan changes",
			"materialId", result.Material.ID,
			"changes", len(result.Changes),
			"error", err,
		)
	}
}
