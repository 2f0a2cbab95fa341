package domain

import (
	"strings"
	"time"
)

// UnnamedProject is the display fallback for projects without a name.
const UnnamedProject = "Unnamed Project"

// Project represents project data used by this package.
type Project struct {
	ID             string
	ClientID       string
	ManagerID      string
	Name           string
	StartDate      time.Time
	PlannedEndDate time.Time
	ActualEndDate  *time.Time
}

// NewProject constructs a new value for this package.
func NewProject(id, clientID, managerID, name string, start, plannedEnd time.Time, actualEnd *time.Time) (Project, error) {
	id = strings.TrimSpace(id)
	clientID = strings.TrimSpace(clientID)
	managerID = strings.TrimSpace(managerID)
	if id == "" {
		return Project{}, ErrInvalidID
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = UnnamedProject
	}

	start = midnightUTC(start)
	plannedEnd = midnightUTC(plannedEnd)
	if plannedEnd.Before(start) {
		return Project{}, ErrInvalidDateRange
	}

	p := Project{
		ID:             id,
		ClientID:       clientID,
		ManagerID:      managerID,
		Name:           name,
		StartDate:      start,
		PlannedEndDate: plannedEnd,
	}
	if actualEnd != nil {
		ts := midnightUTC(*actualEnd)
		p.ActualEndDate = &ts
	}
	return p, nil
}

// DurationDays returns the planned span in whole days.
func (p Project) DurationDays() int {
	return int(p.PlannedEndDate.Sub(p.StartDate) / (24 * time.Hour))
}

// IsCompleted reports whether an actual end date has been recorded.
func (p Project) IsCompleted() bool {
	return p.ActualEndDate != nil
}

// IsOverdue reports whether the project has passed its planned end without completing.
// Completed projects are never overdue.
func (p Project) IsOverdue(today time.Time) bool {
	if p.IsCompleted() {
		return false
	}
	return midnightUTC(today).After(p.PlannedEndDate)
}

// midnightUTC normalizes a timestamp to its civil date at UTC midnight.
func midnightUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
