package material

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/at-ishikawa/studyplan/internal/yamlfile"
)

const (
	materialsFile    = "materials.yml"
	progressLogsFile = "progress.yml"
)

// YAMLRepository implements Repository on a materials.yml file.
// Writes within one process are serialised; the file is re-read on every call.
type YAMLRepository struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

// NewYAMLRepository creates a repository storing materials.yml in directory.
func NewYAMLRepository(directory string) *YAMLRepository {
	return &YAMLRepository{
		path: filepath.Join(directory, materialsFile),
		now:  time.Now,
	}
}

func (r *YAMLRepository) load() ([]Record, error) {
	records, err := yamlfile.Read[[]Record](r.path)
	if err != nil {
		return nil, fmt.Errorf("yamlfile.Read(%s) > %w", r.path, err)
	}
	return records, nil
}

func (r *YAMLRepository) save(records []Record) error {
	if err := yamlfile.Write(r.path, records); err != nil {
		return fmt.Errorf("yamlfile.Write(%s) > %w", r.path, err)
	}
	return nil
}

// FindAll returns every material including archived ones.
func (r *YAMLRepository) FindAll(ctx context.Context) ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// FindActive returns materials that are not archived.
func (r *YAMLRepository) FindActive(ctx context.Context) ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	records, err := r.load()
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(records, Record.Archived), nil
}

// FindByID returns the material or ErrNotFound.
func (r *YAMLRepository) FindByID(ctx context.Context, id string) (*Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	records, err := r.load()
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(records, func(record Record) bool { return record.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return &records[i], nil
}

// Create appends a new material at version 1.
func (r *YAMLRepository) Create(ctx context.Context, record *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	records, err := r.load()
	if err != nil {
		return err
	}
	if slices.ContainsFunc(records, func(existing Record) bool { return existing.ID == record.ID }) {
		return fmt.Errorf("material %s already exists", record.ID)
	}
	now := r.now()
	record.Version = 1
	record.CreatedAt = now
	record.UpdatedAt = now
	return r.save(append(records, *record))
}

// UpdateProgress performs a compare-and-swap on the stored version.
func (r *YAMLRepository) UpdateProgress(ctx context.Context, id string, expectedVersion int64, progress int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	records, err := r.load()
	if err != nil {
		return 0, err
	}
	i := slices.IndexFunc(records, func(record Record) bool { return record.ID == id })
	if i < 0 {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if records[i].Version != expectedVersion {
		return 0, fmt.Errorf("%w: %s at version %d", ErrVersionConflict, id, expectedVersion)
	}
	records[i].CurrentProgress = progress
	records[i].Version++
	records[i].UpdatedAt = r.now()
	if err := r.save(records); err != nil {
		return 0, err
	}
	return records[i].Version, nil
}

// Archive marks the material archived.
func (r *YAMLRepository) Archive(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	records, err := r.load()
	if err != nil {
		return err
	}
	i := slices.IndexFunc(records, func(record Record) bool { return record.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if records[i].ArchivedAt != nil {
		return nil
	}
	records[i].ArchivedAt = &at
	return r.save(records)
}

// YAMLProgressLogRepository implements ProgressLogRepository on a progress.yml file.
type YAMLProgressLogRepository struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

// NewYAMLProgressLogRepository creates a repository storing progress.yml in directory.
func NewYAMLProgressLogRepository(directory string) *YAMLProgressLogRepository {
	return &YAMLProgressLogRepository{
		path: filepath.Join(directory, progressLogsFile),
		now:  time.Now,
	}
}

// Create appends a progress log with the next ID.
func (r *YAMLProgressLogRepository) Create(ctx context.Context, log *ProgressLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	logs, err := yamlfile.Read[[]ProgressLog](r.path)
	if err != nil {
		return fmt.Errorf("yamlfile.Read(%s) > %w", r.path, err)
	}
	var lastID int64
	for _, existing := range logs {
		lastID = max(lastID, existing.ID)
	}
	log.ID = lastID + 1
	log.CreatedAt = r.now()
	if err := yamlfile.Write(r.path, append(logs, *log)); err != nil {
		return fmt.Errorf("yamlfile.Write(%s) > %w", r.path, err)
	}
	return nil
}

// FindAll returns all progress logs ordered by date.
func (r *YAMLProgressLogRepository) FindAll(ctx context.Context) ([]ProgressLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	logs, err := yamlfile.Read[[]ProgressLog](r.path)
	if err != nil {
		return nil, fmt.Errorf("yamlfile.Read(%s) > %w", r.path, err)
	}
	slices.SortStableFunc(logs, func(a, b ProgressLog) int { return a.LoggedOn.Compare(b.LoggedOn.Time) })
	return logs, nil
}
