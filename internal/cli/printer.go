// Package cli renders planner results for the terminal.
package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/fatih/color"

	"github.com/at-ishikawa/studyplan/internal/export"
	"github.com/at-ishikawa/studyplan/internal/material"
	"github.com/at-ishikawa/studyplan/internal/plan"
	"github.com/at-ishikawa/studyplan/internal/planner"
)

// Printer writes planner output with status colors.
type Printer struct {
	w      io.Writer
	bold   *color.Color
	green  *color.Color
	yellow *color.Color
	red    *color.Color
	faint  *color.Color
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{
		w:      w,
		bold:   color.New(color.Bold),
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed),
		faint:  color.New(color.Faint),
	}
}

// Day prints the plan entries, scheduled tasks and overdue tasks of one date.
func (p *Printer) Day(view planner.DailyView) {
	s := view.Summary
	_, _ = p.bold.Fprintf(p.w, "%s (%s)  %d/%d done\n", s.Date, s.Date.Weekday(), s.CompletedCount, s.TotalCount)
	if len(s.Tasks) == 0 {
		fmt.Fprintln(p.w, "  Nothing planned.")
	}
	for _, t := range s.Tasks {
		name := t.Name
		if name == "" {
			name = t.MaterialID
		}
		line := fmt.Sprintf("%s %s: %s (%d)", checkbox(t.Completed), name, t.Label, t.Amount)
		switch {
		case t.Completed:
			_, _ = p.green.Fprintln(p.w, line)
		case t.Overloaded:
			_, _ = p.yellow.Fprintln(p.w, line+" overloaded")
		default:
			fmt.Fprintln(p.w, line)
		}
	}
	for _, id := range slices.Sorted(maps.Keys(s.Errors)) {
		_, _ = p.red.Fprintf(p.w, "  ! %s: %s\n", id, s.Errors[id])
	}

	if len(view.Tasks) > 0 {
		fmt.Fprintln(p.w)
		_, _ = p.bold.Fprintln(p.w, "Tasks")
		for _, t := range view.Tasks {
			p.task(t)
		}
	}
	if len(view.Overdue) > 0 {
		fmt.Fprintln(p.w)
		_, _ = p.red.Fprintln(p.w, "Overdue")
		for _, t := range view.Overdue {
			p.task(t)
		}
	}
}

func (p *Printer) task(t planner.TaskView) {
	slot := "all day"
	if t.Hour != nil {
		slot = fmt.Sprintf("%02d:00-%02d:00", *t.Hour, *t.Hour+max(t.DurationHours, 1))
	}
	line := fmt.Sprintf("%s %s %s [%s] %s", checkbox(t.Completed), t.Date, slot, t.ID, t.Title)
	if t.Priority != "" {
		line += fmt.Sprintf(" (%s)", t.Priority)
	}
	switch {
	case t.Completed:
		_, _ = p.green.Fprintln(p.w, line)
	case t.Status == plan.TaskPastDate:
		_, _ = p.red.Fprintln(p.w, line+" past date")
	case t.Status == plan.TaskTimeExceeded:
		_, _ = p.red.Fprintln(p.w, line+" time exceeded")
	case t.InProgress:
		_, _ = p.yellow.Fprintln(p.w, line+" in progress")
	default:
		fmt.Fprintln(p.w, line)
	}
}

func checkbox(done bool) string {
	if done {
		return "  [x]"
	}
	return "  [ ]"
}

// Materials prints one line per material.
func (p *Printer) Materials(records []material.Record) {
	if len(records) == 0 {
		fmt.Fprintln(p.w, "No materials registered.")
		return
	}
	for _, r := range records {
		deadline := "open"
		if r.Deadline != nil {
			deadline = r.Deadline.String()
		}
		line := fmt.Sprintf("%-20s %-30s %4d/%-4d %-8s %s -> %s", r.ID, r.Name, r.CurrentProgress, r.TotalAmount, r.UnitType, r.StartDate, deadline)
		switch {
		case r.Archived():
			_, _ = p.faint.Fprintln(p.w, line+" archived")
		case r.Status() == plan.StatusCompleted:
			_, _ = p.green.Fprintln(p.w, line)
		default:
			fmt.Fprintln(p.w, line)
		}
	}
}

// Plan prints a material's plan as a table.
func (p *Printer) Plan(record material.Record, entries []plan.PlanEntry, warnings []plan.Warning, today plan.Date) {
	data := export.NewPlanTemplate(record, entries, warnings, today)
	_, _ = p.bold.Fprintf(p.w, "%s  %d/%d\n", data.Name, data.Progress, data.Total)
	if len(data.Rows) == 0 {
		fmt.Fprintln(p.w, "  No remaining work.")
	}
	for _, row := range data.Rows {
		line := fmt.Sprintf("  %s %s  %-20s %5d  %s", row.Date, row.Weekday, row.Label, row.Amount, row.Status)
		line = strings.TrimRight(line, " ")
		switch row.Status {
		case "done":
			_, _ = p.green.Fprintln(p.w, line)
		case "overloaded":
			_, _ = p.yellow.Fprintln(p.w, line)
		case "behind":
			_, _ = p.red.Fprintln(p.w, line)
		case "today":
			_, _ = p.bold.Fprintln(p.w, line)
		default:
			fmt.Fprintln(p.w, line)
		}
	}
	p.warnings(warnings)
}

// Result prints the plan changes and warnings of a planner operation.
func (p *Printer) Result(result planner.Result) {
	name := result.Material.Name
	if name == "" {
		name = result.Material.ID
	}
	_, _ = p.bold.Fprintf(p.w, "%s  %d/%d\n", name, result.Material.CurrentProgress, result.Material.TotalAmount)
	if len(result.Changes) == 0 {
		fmt.Fprintln(p.w, "  Plan unchanged.")
	}
	for _, c := range result.Changes {
		e := c.Entry
		line := fmt.Sprintf("  %-12s %s  %s", c.Type, e.Date, result.Material.Label(e.RangeStart, e.RangeEnd))
		switch c.Type {
		case plan.ChangeCreated:
			_, _ = p.green.Fprintln(p.w, line)
		case plan.ChangeDeleted:
			_, _ = p.red.Fprintln(p.w, line)
		default:
			_, _ = p.yellow.Fprintln(p.w, line)
		}
	}
	p.warnings(result.Warnings)
}

func (p *Printer) warnings(warnings []plan.Warning) {
	for _, w := range warnings {
		_, _ = p.yellow.Fprintf(p.w, "  warning: %s\n", w.Message)
	}
}

// Companion prints the companion's message for each material.
func (p *Printer) Companion(tasks []plan.CompanionTask) {
	if len(tasks) == 0 {
		fmt.Fprintln(p.w, "Nothing left to study.")
		return
	}
	for _, t := range tasks {
		fmt.Fprintln(p.w, t.Message())
	}
}
