package main

import (
	"context"
	"fmt"

	"github.com/at-ishikawa/studyplan/internal/bootstrap"
	"github.com/at-ishikawa/studyplan/internal/config"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

// openPlanner loads the configuration and builds the planner it describes.
// The caller closes the planner.
func openPlanner(ctx context.Context) (*bootstrap.Planner, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	p, err := bootstrap.NewPlanner(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("bootstrap.NewPlanner() > %w", err)
	}
	return p, cfg, nil
}
