package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/studyplan/internal/plan"
	"github.com/at-ishikawa/studyplan/internal/planner"
)

func newTaskCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage calendar tasks",
	}
	cmd.AddCommand(newTaskAddCommand(), newTaskDoneCommand(true), newTaskDoneCommand(false))
	return cmd
}

func newTaskAddCommand() *cobra.Command {
	var input planner.TaskInput
	var date DateFlag
	var hour int
	var priority string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Place a task on the calendar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := openPlanner(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = p.Close() }()

			input.Title = args[0]
			input.Date = date.Or(plan.Date{})
			input.Priority = plan.Priority(priority)
			if cmd.Flags().Changed("hour") {
				input.Hour = &hour
			}

			task, err := p.ScheduleTask(cmd.Context(), input)
			if err != nil {
				return fmt.Errorf("schedule task: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Scheduled %s on %s\n", task.ID, task.Date)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&input.MaterialID, "material", "", "Material the task belongs to")
	flags.Var(&date, "date", "Date of the task (YYYY-MM-DD), defaults to today")
	flags.IntVar(&hour, "hour", 0, "Start hour (0-24), omit for an all-day task")
	flags.IntVar(&input.DurationHours, "duration", 1, "Duration in hours")
	flags.StringVar(&priority, "priority", "", "Priority. Options: high, medium, low")
	return cmd
}

func newTaskDoneCommand(completed bool) *cobra.Command {
	use, short := "done <task id>", "Mark a task as completed"
	if !completed {
		use, short = "undo <task id>", "Mark a task as not completed"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := openPlanner(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = p.Close() }()

			if err := p.CompleteTask(cmd.Context(), args[0], completed); err != nil {
				return fmt.Errorf("complete task: %w", err)
			}
			return nil
		},
	}
}
