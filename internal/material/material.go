// Package material stores study materials and their progress logs.
package material

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/at-ishikawa/studyplan/internal/plan"
)

//go:generate mockgen -source=material.go -destination=../mocks/material/mock_material.go -package=mock_material

var (
	// ErrNotFound is returned when no material has the requested ID.
	ErrNotFound = errors.New("material not found")
	// ErrVersionConflict is returned when a compare-and-swap update loses against another writer.
	ErrVersionConflict = errors.New("material was modified concurrently")
)

// Record is a persisted material with its optimistic-locking version.
type Record struct {
	plan.Material `yaml:",inline"`
	Version       int64      `json:"version" yaml:"version"`
	ArchivedAt    *time.Time `json:"archivedAt,omitempty" yaml:"archived_at,omitempty"`
	CreatedAt     time.Time  `json:"createdAt" yaml:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" yaml:"updated_at"`
}

// Archived reports whether the material was archived after completion.
func (r Record) Archived() bool {
	return r.ArchivedAt != nil
}

// Repository defines operations for managing materials.
type Repository interface {
	FindAll(ctx context.Context) ([]Record, error)
	FindActive(ctx context.Context) ([]Record, error)
	FindByID(ctx context.Context, id string) (*Record, error)
	Create(ctx context.Context, record *Record) error
	// UpdateProgress sets the progress if the stored version still equals expectedVersion
	// and returns the new version, or ErrVersionConflict.
	UpdateProgress(ctx context.Context, id string, expectedVersion int64, progress int) (int64, error)
	Archive(ctx context.Context, id string, at time.Time) error
}

// ProgressLog records one progress update of a material.
type ProgressLog struct {
	ID            int64     `json:"id" yaml:"id"`
	MaterialID    string    `json:"materialId" yaml:"material_id"`
	LoggedOn      plan.Date `json:"loggedOn" yaml:"logged_on"`
	Amount        int       `json:"amount" yaml:"amount"`
	ProgressAfter int       `json:"progressAfter" yaml:"progress_after"`
	CreatedAt     time.Time `json:"createdAt" yaml:"created_at"`
}

// ProgressLogRepository defines operations for managing progress logs.
type ProgressLogRepository interface {
	Create(ctx context.Context, log *ProgressLog) error
	FindAll(ctx context.Context) ([]ProgressLog, error)
}

// FormatWeekdays encodes a weekday set as a comma separated list of indexes, e.g. "0,6".
func FormatWeekdays(days plan.Weekdays) string {
	parts := make([]string, 0, len(days))
	for _, day := range days.Normalize() {
		parts = append(parts, strconv.Itoa(int(day)))
	}
	return strings.Join(parts, ",")
}

// ParseWeekdays decodes a comma separated list of weekday indexes or names.
func ParseWeekdays(s string) (plan.Weekdays, error) {
	var days plan.Weekdays
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		day, err := plan.ParseWeekday(part)
		if err != nil {
			return nil, fmt.Errorf("plan.ParseWeekday(%s) > %w", part, err)
		}
		days = append(days, day)
	}
	if len(days) == 0 {
		return nil, nil
	}
	return days.Normalize(), nil
}
