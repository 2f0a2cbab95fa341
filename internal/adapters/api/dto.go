package api

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/skiva/tidvis/internal/domain"
)

// projectDTO mirrors the API's project payload.
type projectDTO struct {
	ID             string  `json:"id"`
	ClientID       string  `json:"clientId"`
	Name           *string `json:"name"`
	StartDate      string  `json:"startDate"`
	PlannedEndDate string  `json:"plannedEndDate"`
	ActualEndDate  *string `json:"actualEndDate"`
	ManagerID      string  `json:"managerId"`
}

// clientDTO mirrors the API's client payload.
type clientDTO struct {
	ID                string  `json:"id"`
	Name              *string `json:"name"`
	Address           *string `json:"address"`
	ProjectsTotal     int     `json:"projectsTotal"`
	ProjectsCompleted int     `json:"projectsCompleted"`
}

// userDTO mirrors the API's user payload.
type userDTO struct {
	ID    string  `json:"id"`
	Name  *string `json:"name"`
	Login *string `json:"login"`
	Role  int     `json:"role"`
}

// problemDetails mirrors RFC 7807 error payloads.
type problemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance"`
}

// APIError represents an error response from the upstream API.
type APIError struct {
	StatusCode int
	Title      string
	Detail     string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	switch {
	case e.Title != "" && e.Detail != "":
		return fmt.Sprintf("api error %d: %s: %s", e.StatusCode, e.Title, e.Detail)
	case e.Title != "":
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Title)
	default:
		return fmt.Sprintf("api error %d", e.StatusCode)
	}
}

// apiErrorFromResponse builds an APIError, reading problem details
// when the body carries them.
func apiErrorFromResponse(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var problem problemDetails
	if err := json.Unmarshal(body, &problem); err == nil {
		apiErr.Title = problem.Title
		apiErr.Detail = problem.Detail
	}
	return apiErr
}

// toDomain converts domain.
func (d projectDTO) toDomain() (domain.Project, error) {
	if _, err := uuid.Parse(d.ID); err != nil {
		return domain.Project{}, fmt.Errorf("invalid id %q", d.ID)
	}
	start, err := parseAPIDate(d.StartDate)
	if err != nil {
		return domain.Project{}, fmt.Errorf("startDate: %w", err)
	}
	planned, err := parseAPIDate(d.PlannedEndDate)
	if err != nil {
		return domain.Project{}, fmt.Errorf("plannedEndDate: %w", err)
	}
	var actual *time.Time
	if d.ActualEndDate != nil && *d.ActualEndDate != "" {
		t, err := parseAPIDate(*d.ActualEndDate)
		if err != nil {
			return domain.Project{}, fmt.Errorf("actualEndDate: %w", err)
		}
		actual = &t
	}
	return domain.NewProject(d.ID, d.ClientID, d.ManagerID, deref(d.Name), start, planned, actual)
}

// toDomain converts domain.
func (d clientDTO) toDomain() (domain.Client, error) {
	if _, err := uuid.Parse(d.ID); err != nil {
		return domain.Client{}, fmt.Errorf("invalid id %q", d.ID)
	}
	return domain.NewClient(d.ID, deref(d.Name), deref(d.Address), d.ProjectsTotal, d.ProjectsCompleted)
}

// toDomain converts domain.
func (d userDTO) toDomain() (domain.User, error) {
	if _, err := uuid.Parse(d.ID); err != nil {
		return domain.User{}, fmt.Errorf("invalid id %q", d.ID)
	}
	return domain.NewUser(d.ID, deref(d.Name), deref(d.Login), d.Role)
}

// parseAPIDate accepts the API's date-only format and falls back to
// RFC 3339 timestamps.
func parseAPIDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
