package entity

import (
	"strings"
	"time"
)

// SkipSuffix marks a project as excluded from the filtered hour totals. The
// convention comes from the accounting UI, where a project cannot carry
// structured flags: a trailing asterisk in the name means "does not count
// towards the pie".
const SkipSuffix = "*"

// Project is a named bucket for time entries.
type Project struct {
	ID   string
	Name string
}

// Skipped reports whether the project is excluded from filtered hour totals.
func (p Project) Skipped() bool {
	return strings.HasSuffix(strings.TrimSpace(p.Name), SkipSuffix)
}

// TimeEntry is a tracked block of work for one user, optionally on a project.
type TimeEntry struct {
	ID       string
	UserID   string
	StartedAt time.Time
	EndedAt  time.Time
	Paused   time.Duration
	Billable bool
	Project  *Project
}

// Hours returns the worked duration in hours: wall clock time minus pauses.
func (e TimeEntry) Hours() float64 {
	worked := e.EndedAt.Sub(e.StartedAt) - e.Paused
	return worked.Seconds() / 3600
}

// OnSkippedProject reports whether the entry belongs to a skipped project.
func (e TimeEntry) OnSkippedProject() bool {
	return e.Project != nil && e.Project.Skipped()
}
