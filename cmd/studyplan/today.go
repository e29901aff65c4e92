package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/studyplan/internal/cli"
)

func newTodayCommand() *cobra.Command {
	var date DateFlag

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show the tasks of today, or of --date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := openPlanner(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = p.Close() }()

			view, err := p.Day(cmd.Context(), date.Or(p.Today()))
			if err != nil {
				return fmt.Errorf("compile day: %w", err)
			}
			cli.NewPrinter(cmd.OutOrStdout()).Day(view)
			return nil
		},
	}
	cmd.Flags().Var(&date, "date", "Date to show (YYYY-MM-DD)")
	return cmd
}

func newCompanionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "companion",
		Short: "Show today's amount per material the way the companion reports it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := openPlanner(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = p.Close() }()

			tasks, err := p.Companion(cmd.Context())
			if err != nil {
				return fmt.Errorf("companion tasks: %w", err)
			}
			cli.NewPrinter(cmd.OutOrStdout()).Companion(tasks)
			return nil
		},
	}
}
