package plan

// TaskDescriptor is one line of a day's task list.
type TaskDescriptor struct {
	MaterialID string   `json:"materialId"`
	Name       string   `json:"name,omitempty"`
	UnitType   UnitType `json:"unitType"`
	Label      string   `json:"label"`
	RangeStart int      `json:"rangeStart"`
	RangeEnd   int      `json:"rangeEnd"`
	Amount     int      `json:"amount"`
	Overloaded bool     `json:"overloaded,omitempty"`
	Completed  bool     `json:"completed"`
}

// DailySummary is the task list of one date.
type DailySummary struct {
	Date           Date             `json:"date"`
	Tasks          []TaskDescriptor `json:"tasks"`
	CompletedCount int              `json:"completedCount"`
	TotalCount     int              `json:"totalCount"`
	// Errors holds materials whose plan could not be generated, keyed by material ID.
	Errors map[string]string `json:"errors,omitempty"`
}

// MaterialPlan pairs a material with its persisted entries.
type MaterialPlan struct {
	Material Material
	Entries  []PlanEntry
}

// CompileDay builds the summary of date from persisted plans, in the order given.
// A task counts as completed once the material's progress reaches the end of its range.
func CompileDay(plans []MaterialPlan, date Date) DailySummary {
	summary := DailySummary{Date: date, Tasks: []TaskDescriptor{}}
	for _, p := range plans {
		for _, e := range p.Entries {
			if e.MaterialID != p.Material.ID || !e.Date.Equal(date) {
				continue
			}
			summary.add(p.Material, e)
			break
		}
	}
	return summary
}

// CompileToday distributes every active material from date and summarises date.
// Materials that cannot be planned are reported in Errors and do not stop the others.
func CompileToday(materials []Material, date Date) DailySummary {
	summary := DailySummary{Date: date, Tasks: []TaskDescriptor{}}
	for _, m := range materials {
		if m.Status() == StatusCompleted {
			continue
		}
		p, err := DistributeFrom(m, date)
		if err != nil {
			if summary.Errors == nil {
				summary.Errors = make(map[string]string)
			}
			summary.Errors[m.ID] = err.Error()
			continue
		}
		if e, ok := p.EntryOn(date); ok {
			summary.add(m, e)
		}
	}
	return summary
}

func (s *DailySummary) add(m Material, e PlanEntry) {
	completed := m.CurrentProgress >= e.RangeEnd
	s.Tasks = append(s.Tasks, TaskDescriptor{
		MaterialID: m.ID,
		Name:       m.Name,
		UnitType:   m.UnitType,
		Label:      m.Label(e.RangeStart, e.RangeEnd),
		RangeStart: e.RangeStart,
		RangeEnd:   e.RangeEnd,
		Amount:     e.Amount,
		Overloaded: e.Overloaded,
		Completed:  completed,
	})
	s.TotalCount++
	if completed {
		s.CompletedCount++
	}
}
