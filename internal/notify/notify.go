// Package notify publishes plan change events to external consumers.
package notify

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/at-ishikawa/studyplan/internal/plan"
)

//go:generate mockgen -source=notify.go -destination=../mocks/notify/mock_notify.go -package=mock_notify

// Notifier publishes a batch of plan changes.
type Notifier interface {
	Publish(ctx context.Context, changes []plan.Change) error
}

// Event is the wire form of one plan change.
type Event struct {
	ID         string          `json:"id"`
	Type       plan.ChangeType `json:"type"`
	MaterialID string          `json:"materialId"`
	Date       plan.Date       `json:"date"`
	RangeStart int             `json:"rangeStart"`
	RangeEnd   int             `json:"rangeEnd"`
	Amount     int             `json:"amount"`
	Overloaded bool            `json:"overloaded"`
}

// NewEvents converts changes into events with fresh IDs.
func NewEvents(changes []plan.Change) []Event {
	events := make([]Event, 0, len(changes))
	for _, c := range changes {
		events = append(events, Event{
			ID:         uuid.NewString(),
			Type:       c.Type,
			MaterialID: c.Entry.MaterialID,
			Date:       c.Entry.Date,
			RangeStart: c.Entry.RangeStart,
			RangeEnd:   c.Entry.RangeEnd,
			Amount:     c.Entry.Amount,
			Overloaded: c.Entry.Overloaded,
		})
	}
	return events
}

// LogNotifier writes every change to the default logger.
type LogNotifier struct{}

func (LogNotifier) Publish(ctx context.Context, changes []plan.Change) error {
	for _, c := range changes {
		slog.Default().InfoContext(ctx, "plan changed",
			"type", c.Type,
			"materialId", c.Entry.MaterialID,
			"date", c.Entry.Date.String(),
			"range", []int{c.Entry.RangeStart, c.Entry.RangeEnd},
			"overloaded", c.Entry.Overloaded,
		)
	}
	return nil
}

// Multi fans a batch out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Publish(ctx context.Context, changes []plan.Change) error {
	if len(changes) == 0 {
		return nil
	}
	var errs []error
	for _, n := range m {
		if err := n.Publish(ctx, changes); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
