package plan

import "fmt"

// CompanionMode selects how the conversational companion counts the days left.
type CompanionMode string

const (
	// CompanionEligibleDays counts eligible days only, agreeing with Distribute.
	CompanionEligibleDays CompanionMode = "eligible_days"
	// CompanionCalendarDays counts ceil((deadline - today) / 1 day) and ignores excluded weekdays.
	CompanionCalendarDays CompanionMode = "calendar_days"
)

// CompanionTask is today's amount for one material as the companion reports it.
type CompanionTask struct {
	MaterialID    string `json:"materialId"`
	Name          string `json:"name,omitempty"`
	RemainingDays int    `json:"remainingDays"`
	Amount        int    `json:"amount"`
	Label         string `json:"label"`
}

// Message renders the task as a companion chat line.
func (t CompanionTask) Message() string {
	name := t.Name
	if name == "" {
		name = t.MaterialID
	}
	return fmt.Sprintf("%s: %s today (%d day(s) left)", name, t.Label, t.RemainingDays)
}

// RemainingDays returns how many days the companion spreads the material over, at least 1.
func RemainingDays(m Material, today Date, mode CompanionMode) int {
	if m.Deadline == nil {
		return 1
	}
	var days int
	switch mode {
	case CompanionCalendarDays:
		days = today.DaysUntil(*m.Deadline)
	default:
		days = m.Window().From(today).Count()
	}
	return max(days, 1)
}

// CompanionTasks computes today's amount per active material for the companion surface.
// A deadline of today or earlier puts all remaining work on today. Materials Distribute
// rejects as misconfigured are left out.
func CompanionTasks(materials []Material, today Date, mode CompanionMode) []CompanionTask {
	var tasks []CompanionTask
	for _, m := range materials {
		m, _ = m.Clamped()
		remaining := m.Remaining()
		if remaining == 0 || !plannable(m) {
			continue
		}
		days := RemainingDays(m, today, mode)
		amount := ceilDiv(remaining, days)
		if m.Deadline == nil {
			amount = min(m.DailyTarget, remaining)
		}
		tasks = append(tasks, CompanionTask{
			MaterialID:    m.ID,
			Name:          m.Name,
			RemainingDays: days,
			Amount:        amount,
			Label:         m.Label(m.CurrentProgress+1, m.CurrentProgress+amount),
		})
	}
	return tasks
}

func plannable(m Material) bool {
	if m.Window().Validate() != nil {
		return false
	}
	return m.Deadline != nil || m.DailyTarget > 0
}
