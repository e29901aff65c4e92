package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/studyplan/internal/cli"
	"github.com/at-ishikawa/studyplan/internal/plan"
)

func newProgressCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "progress <material id> <progress>",
		Short: "Record the units done so far and rebalance the plan from today",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			progress, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid progress %q: %w", args[1], err)
			}

			p, _, err := openPlanner(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = p.Close() }()

			result, err := p.UpdateProgress(cmd.Context(), args[0], progress)
			if err != nil {
				return fmt.Errorf("update progress: %w", err)
			}
			cli.NewPrinter(cmd.OutOrStdout()).Result(result)
			return nil
		},
	}
}

func newMissedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "missed <material id> [date]",
		Short: "Redistribute the work of a missed day, yesterday by default",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var missed plan.Date
			if len(args) == 2 {
				var err error
				missed, err = plan.ParseDate(args[1])
				if err != nil {
					return err
				}
			}

			p, _, err := openPlanner(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = p.Close() }()

			if missed.IsZero() {
				missed = p.Today().AddDays(-1)
			}
			result, err := p.MarkDayMissed(cmd.Context(), args[0], missed)
			if err != nil {
				return fmt.Errorf("mark day missed: %w", err)
			}
			cli.NewPrinter(cmd.OutOrStdout()).Result(result)
			return nil
		},
	}
}

func newRollOverCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rollover",
		Short: "Rebalance every material whose work of yesterday is unfinished",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := openPlanner(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = p.Close() }()

			results, err := p.RollOver(cmd.Context())
			printer := cli.NewPrinter(cmd.OutOrStdout())
			for _, result := range results {
				printer.Result(result)
			}
			if len(results) == 0 && err == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Every material is on track.")
			}
			if err != nil {
				return fmt.Errorf("roll over: %w", err)
			}
			return nil
		},
	}
}
