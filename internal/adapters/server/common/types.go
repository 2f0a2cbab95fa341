// Package common provides transport-agnostic server contracts shared by the HTTP and MCP adapters.
package common

import (
	"context"
	"errors"
	"time"

	"github.com/skiva/tidvis/internal/app"
	"github.com/skiva/tidvis/internal/domain"
)

// recordDateLayout is the wire format for project dates, matching the upstream API.
const recordDateLayout = "2006-01-02"

// ErrInvalidRequest reports malformed transport input.
var ErrInvalidRequest = errors.New("invalid request")

// ErrNotFound reports missing transport-visible resources.
var ErrNotFound = errors.New("not found")

// ErrSourceUnavailable reports that neither the upstream API nor the snapshot cache could serve.
var ErrSourceUnavailable = errors.New("portfolio source unavailable")

// PortfolioSource resolves the portfolio served by both transports.
type PortfolioSource interface {
	Portfolio(context.Context) (app.Snapshot, error)
	Now() time.Time
}

// ProjectRecord mirrors the upstream project wire shape.
type ProjectRecord struct {
	ID             string  `json:"id"`
	ClientID       string  `json:"clientId"`
	ManagerID      string  `json:"managerId,omitempty"`
	Name           string  `json:"name"`
	StartDate      string  `json:"startDate"`
	PlannedEndDate string  `json:"plannedEndDate"`
	ActualEndDate  *string `json:"actualEndDate,omitempty"`
}

// ClientRecord mirrors the upstream client wire shape.
type ClientRecord struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Address           string `json:"address,omitempty"`
	ProjectsTotal     int    `json:"projectsTotal"`
	ProjectsCompleted int    `json:"projectsCompleted"`
}

// UserRecord mirrors the upstream user wire shape.
type UserRecord struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Login string `json:"login,omitempty"`
	Role  int    `json:"role"`
}

// ProjectRecordFromDomain converts one domain project into its wire shape.
func ProjectRecordFromDomain(p domain.Project) ProjectRecord {
	rec := ProjectRecord{
		ID:             p.ID,
		ClientID:       p.ClientID,
		ManagerID:      p.ManagerID,
		Name:           p.Name,
		StartDate:      p.StartDate.Format(recordDateLayout),
		PlannedEndDate: p.PlannedEndDate.Format(recordDateLayout),
	}
	if p.ActualEndDate != nil {
		actual := p.ActualEndDate.Format(recordDateLayout)
		rec.ActualEndDate = &actual
	}
	return rec
}

// ClientRecordFromDomain converts one domain client into its wire shape.
func ClientRecordFromDomain(c domain.Client) ClientRecord {
	return ClientRecord{
		ID:                c.ID,
		Name:              c.Name,
		Address:           c.Address,
		ProjectsTotal:     c.ProjectsTotal,
		ProjectsCompleted: c.ProjectsCompleted,
	}
}

// UserRecordFromDomain converts one domain user into its wire shape.
func UserRecordFromDomain(u domain.User) UserRecord {
	return UserRecord{
		ID:    u.ID,
		Name:  u.Name,
		Login: u.Login,
		Role:  int(u.Role),
	}
}

// PageEnvelope is the paginated list envelope both the upstream API and the mirror serve.
type PageEnvelope[T any] struct {
	Items       []T  `json:"items"`
	Page        int  `json:"page"`
	PageSize    int  `json:"pageSize"`
	TotalCount  int  `json:"totalCount"`
	TotalPages  int  `json:"totalPages"`
	HasPrevious bool `json:"hasPrevious"`
	HasNext     bool `json:"hasNext"`
}

// Paginate slices one full record list into a 1-based page envelope.
func Paginate[T any](all []T, page, pageSize int) PageEnvelope[T] {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	total := len(all)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	items := []T{}
	from := (page - 1) * pageSize
	if from < total {
		to := from + pageSize
		if to > total {
			to = total
		}
		items = append(items, all[from:to]...)
	}
	return PageEnvelope[T]{
		Items:       items,
		Page:        page,
		PageSize:    pageSize,
		TotalCount:  total,
		TotalPages:  totalPages,
		HasPrevious: page > 1,
		HasNext:     page < totalPages,
	}
}

// ProblemDetails is the RFC 7807 error body served by the HTTP mirror.
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// NewProblem constructs one problem body with the blank default type.
func NewProblem(status int, title, detail string) ProblemDetails {
	return ProblemDetails{
		Type:   "about:blank",
		Title:  title,
		Status: status,
		Detail: detail,
	}
}
