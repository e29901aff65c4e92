package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/studyplan/internal/cli"
	"github.com/at-ishikawa/studyplan/internal/plan"
	"github.com/at-ishikawa/studyplan/internal/planner"
)

func newMaterialCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "material",
		Short: "Manage study materials",
	}
	cmd.AddCommand(newMaterialAddCommand(), newMaterialListCommand())
	return cmd
}

func newMaterialAddCommand() *cobra.Command {
	var input planner.RegisterInput
	var unitType string
	var start, deadline DateFlag
	var excluded WeekdaysFlag

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Register a material and distribute it over its window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := openPlanner(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = p.Close() }()

			input.Name = args[0]
			input.UnitType = plan.UnitType(strings.ToUpper(unitType))
			input.StartDate = start.Or(plan.Date{})
			input.Deadline = deadline.Ptr()
			input.ExcludedWeekdays = plan.Weekdays(excluded)

			result, err := p.RegisterMaterial(cmd.Context(), input)
			if err != nil {
				return fmt.Errorf("register material: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s\n", result.Material.ID)
			cli.NewPrinter(cmd.OutOrStdout()).Plan(result.Material, result.Entries, result.Warnings, p.Today())
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&input.TotalAmount, "total", 0, "Total amount of units")
	flags.IntVar(&input.CurrentProgress, "progress", 0, "Units already done")
	flags.StringVar(&unitType, "unit", string(plan.UnitPages), "Unit type. Options: pages, problems, generic")
	flags.IntVar(&input.DailyTarget, "daily-target", 0, "Units per day, required without --deadline")
	flags.Var(&start, "start", "First study day (YYYY-MM-DD), defaults to today")
	flags.Var(&deadline, "deadline", "Last study day (YYYY-MM-DD)")
	flags.Var(&excluded, "exclude", "Weekdays without study, e.g. sat,sun or 0,6")
	_ = cmd.MarkFlagRequired("total")

	return cmd
}

func newMaterialListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered materials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := openPlanner(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = p.Close() }()

			records, err := p.Materials(cmd.Context())
			if err != nil {
				return fmt.Errorf("list materials: %w", err)
			}
			cli.NewPrinter(cmd.OutOrStdout()).Materials(records)
			return nil
		},
	}
}
