package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/studyplan/internal/config"
	"github.com/at-ishikawa/studyplan/internal/database"
	"github.com/at-ishikawa/studyplan/internal/material"
	"github.com/at-ishikawa/studyplan/internal/notify"
	"github.com/at-ishikawa/studyplan/internal/planner"
	"github.com/at-ishikawa/studyplan/internal/schedule"
)

// Stores are the repositories of the configured storage driver.
type Stores struct {
	Materials    material.Repository
	ProgressLogs material.ProgressLogRepository
	Schedules    schedule.Repository
	// DB is nil for the yaml driver.
	DB *sqlx.DB
}

// OpenStores opens the repositories selected by storage.driver.
func OpenStores(cfg *config.Config) (*Stores, error) {
	switch cfg.Storage.Driver {
	case "mysql":
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("database.Open() > %w", err)
		}
		return &Stores{
			Materials:    material.NewDBRepository(db),
			ProgressLogs: material.NewDBProgressLogRepository(db),
			Schedules:    schedule.NewDBRepository(db),
			DB:           db,
		}, nil
	case "yaml", "":
		return &Stores{
			Materials:    material.NewYAMLRepository(cfg.Storage.Directory),
			ProgressLogs: material.NewYAMLProgressLogRepository(cfg.Storage.Directory),
			Schedules:    schedule.NewYAMLRepository(cfg.Storage.Directory),
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

func (s *Stores) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// NewNotifier combines the log notifier with the webhook and Redis publishers that are configured.
// The returned closers release their connections.
func NewNotifier(ctx context.Context, cfg config.NotificationsConfig) (notify.Multi, []func() error, error) {
	notifiers := notify.Multi{notify.LogNotifier{}}
	var closers []func() error

	if cfg.Webhook.URL != "" {
		webhook := notify.NewWebhookNotifier(cfg.Webhook)
		notifiers = append(notifiers, webhook)
		closers = append(closers, webhook.Close)
		slog.Default().Debug("webhook notifications enabled", "url", cfg.Webhook.URL)
	}
	if cfg.Redis.Addr != "" {
		redis, err := notify.NewRedisNotifier(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, errors.Join(fmt.Errorf("notify.NewRedisNotifier() > %w", err), closeAll(closers))
		}
		notifiers = append(notifiers, redis)
		closers = append(closers, redis.Close)
		slog.Default().Debug("redis notifications enabled", "addr", cfg.Redis.Addr, "channel", cfg.Redis.Channel)
	}
	return notifiers, closers, nil
}

// Planner is a planner.Service with the resources it holds.
type Planner struct {
	*planner.Service
	Stores  *Stores
	closers []func() error
}

// NewPlanner opens the stores and notifiers from cfg and builds the planner service.
func NewPlanner(ctx context.Context, cfg *config.Config) (*Planner, error) {
	stores, err := OpenStores(cfg)
	if err != nil {
		return nil, fmt.Errorf("OpenStores() > %w", err)
	}
	notifier, closers, err := NewNotifier(ctx, cfg.Notifications)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("NewNotifier() > %w", err), stores.Close())
	}
	closers = append(closers, stores.Close)

	service, err := planner.NewService(stores.Materials, stores.ProgressLogs, stores.Schedules, notifier, cfg.Planner)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("planner.NewService() > %w", err), closeAll(closers))
	}
	return &Planner{Service: service, Stores: stores, closers: closers}, nil
}

// Close releases the stores and notifier connections.
func (p *Planner) Close() error {
	return closeAll(p.closers)
}

func closeAll(closers []func() error) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
