package timeline

import (
	"github.com/skiva/tidvis/internal/domain"
)

// Status represents the scheduling state of one interval relative to a
// reference day. It only affects presentation, never layout.
type Status int

// Status values ordered from normal to most urgent.
const (
	StatusActive Status = iota
	StatusCompleted
	StatusOverdue
)

// String returns a human readable status name.
func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusOverdue:
		return "overdue"
	default:
		return "active"
	}
}

// Interval represents one horizontal bar on the timeline: an inclusive
// day range with a label and a completion flag.
type Interval struct {
	ID    string
	Label string
	Start int
	End   int
	Done  bool
}

// NewInterval constructs a new value for this package. Ranges where the
// end precedes the start collapse to a zero-width interval at the start.
func NewInterval(id, label string, start, end int, done bool) Interval {
	start = clampDay(start)
	end = clampDay(end)
	if end < start {
		end = start
	}
	return Interval{ID: id, Label: label, Start: start, End: end, Done: done}
}

// FromProject maps a project onto the day grid. The planned end stays
// the bar's right edge even for completed projects, so finished work
// keeps its original footprint.
func FromProject(p domain.Project) Interval {
	label := p.Name
	if label == "" {
		label = domain.UnnamedProject
	}
	return NewInterval(
		p.ID,
		label,
		DayIndex(p.StartDate),
		DayIndex(p.PlannedEndDate),
		p.IsCompleted(),
	)
}

// FromProjects maps a project list in order.
func FromProjects(projects []domain.Project) []Interval {
	if len(projects) == 0 {
		return nil
	}
	out := make([]Interval, 0, len(projects))
	for _, p := range projects {
		out = append(out, FromProject(p))
	}
	return out
}

// Status reports the interval's state as of the given day. Completion
// wins over lateness, so a finished interval is never overdue.
func (iv Interval) Status(today int) Status {
	if iv.Done {
		return StatusCompleted
	}
	if today > iv.End {
		return StatusOverdue
	}
	return StatusActive
}

// Days returns the inclusive span length in days.
func (iv Interval) Days() int {
	return iv.End - iv.Start + 1
}

// Overlaps reports whether two inclusive ranges share at least one day.
// Touching endpoints count as overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start <= other.End && other.Start <= iv.End
}
