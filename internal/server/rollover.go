package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/at-ishikawa/studyplan/internal/plan"
	"github.com/at-ishikawa/studyplan/internal/planner"
)

// RollOverer rebalances materials whose previous day was left unfinished.
type RollOverer interface {
	Today() plan.Date
	RollOver(ctx context.Context) ([]planner.Result, error)
}

// RunDailyRollOver rolls over once at start and again whenever the date changes,
// checking every interval until ctx is done.
func RunDailyRollOver(ctx context.Context, r RollOverer, interval time.Duration) {
	var last plan.Date
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if today := r.Today(); !today.Equal(last) {
			results, err := r.RollOver(ctx)
			if err != nil {
				slog.Default().ErrorContext(ctx, "failed to roll over", "date", today.String(), "error", err)
			} else {
				slog.Default().InfoContext(ctx, "rolled over", "date", today.String(), "rebalanced", len(results))
			}
			last = today
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
