package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/studyplan/internal/cli"
)

func newReportCommand() *cobra.Command {
	var year, month int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show monthly/yearly report of study progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if month != 0 && year == 0 {
				return fmt.Errorf("--month requires --year to be specified")
			}
			if month < 0 || month > 12 {
				return fmt.Errorf("--month must be between 1 and 12")
			}

			p, _, err := openPlanner(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = p.Close() }()

			logs, err := p.ProgressLogs(cmd.Context())
			if err != nil {
				return fmt.Errorf("load progress logs: %w", err)
			}
			cli.NewPrinter(cmd.OutOrStdout()).Report(logs, year, month)
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Filter by year (e.g., 2025)")
	cmd.Flags().IntVar(&month, "month", 0, "Filter by month (1-12), requires --year")

	return cmd
}
