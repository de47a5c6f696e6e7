package aggregate

import (
	"sort"
	"time"

	"github.com/bartlangelaan/slicing-pie-sub000/internal/domain/entity"
)

// noProjectName labels time entries that were tracked without a project.
const noProjectName = "(no project)"

// foldHours computes the four hour granularities per person and the
// per-project breakdown. Entries for unknown users are dropped; entries
// outside the report year are ignored even if the store hands them over.
func (a *Aggregator) foldHours(in Input, t *Totals) {
	cutoff := time.Date(in.Year, time.July, 1, 0, 0, 0, 0, time.UTC)
	projects := make(map[string]*ProjectHours)

	for _, e := range in.TimeEntries {
		person, ok := a.classifier.PersonByUserID(e.UserID)
		if !ok {
			continue
		}
		if e.StartedAt.Year() != in.Year {
			continue
		}

		hours := e.Hours()
		skipped := e.OnSkippedProject()
		pt := t.Persons[person]

		pt.Hours.Year += hours
		if !skipped {
			pt.Hours.YearFiltered += hours
		}
		if !e.StartedAt.Before(cutoff) {
			pt.Hours.FromJuly += hours
			if !skipped {
				pt.Hours.FromJulyFiltered += hours
			}
		}

		id, name := "", noProjectName
		if e.Project != nil {
			id, name = e.Project.ID, e.Project.Name
		}
		ph, exists := projects[id]
		if !exists {
			ph = &ProjectHours{
				ID:      id,
				Name:    name,
				Skipped: skipped,
				Hours:   make(map[entity.Person]*BillableSplit),
			}
			projects[id] = ph
		}
		split, exists := ph.Hours[person]
		if !exists {
			split = &BillableSplit{}
			ph.Hours[person] = split
		}
		if e.Billable {
			split.Billable += hours
		} else {
			split.NonBillable += hours
		}
	}

	t.Projects = make([]*ProjectHours, 0, len(projects))
	for _, ph := range projects {
		t.Projects = append(t.Projects, ph)
	}
	sort.Slice(t.Projects, func(i, j int) bool {
		return t.Projects[i].Name < t.Projects[j].Name
	})
}
