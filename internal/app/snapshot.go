package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/skiva/tidvis/internal/domain"
)

// SnapshotVersion defines a package constant value.
const SnapshotVersion = "tidvis.snapshot.v1"

// Snapshot represents snapshot data used by this package: one
// consistent read of the portfolio plus the time it was fetched.
type Snapshot struct {
	Projects []domain.Project
	Clients  []domain.Client
	Users    []domain.User
	SyncedAt time.Time
}

// IsEmpty reports whether the snapshot carries no records at all.
func (s Snapshot) IsEmpty() bool {
	return len(s.Projects) == 0 && len(s.Clients) == 0 && len(s.Users) == 0
}

// Stats represents aggregate counts over one snapshot.
type Stats struct {
	Projects  int `json:"projects"`
	Clients   int `json:"clients"`
	Users     int `json:"users"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Overdue   int `json:"overdue"`
}

// Stats tallies the snapshot's records, classifying projects against
// the given reference time.
func (s Snapshot) Stats(today time.Time) Stats {
	stats := Stats{
		Projects: len(s.Projects),
		Clients:  len(s.Clients),
		Users:    len(s.Users),
	}
	for _, p := range s.Projects {
		switch {
		case p.IsCompleted():
			stats.Completed++
		case p.IsOverdue(today):
			stats.Overdue++
		default:
			stats.Active++
		}
	}
	return stats
}

// SnapshotFile represents the portable JSON form of one snapshot.
type SnapshotFile struct {
	Version    string            `json:"version"`
	ExportedAt time.Time         `json:"exported_at"`
	SyncedAt   time.Time         `json:"synced_at"`
	Projects   []SnapshotProject `json:"projects"`
	Clients    []SnapshotClient  `json:"clients"`
	Users      []SnapshotUser    `json:"users"`
}

// SnapshotProject represents snapshot project data used by this package.
type SnapshotProject struct {
	ID             string     `json:"id"`
	ClientID       string     `json:"client_id"`
	ManagerID      string     `json:"manager_id,omitempty"`
	Name           string     `json:"name"`
	StartDate      time.Time  `json:"start_date"`
	PlannedEndDate time.Time  `json:"planned_end_date"`
	ActualEndDate  *time.Time `json:"actual_end_date,omitempty"`
}

// SnapshotClient represents snapshot client data used by this package.
type SnapshotClient struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Address           string `json:"address,omitempty"`
	ProjectsTotal     int    `json:"projects_total"`
	ProjectsCompleted int    `json:"projects_completed"`
}

// SnapshotUser represents snapshot user data used by this package.
type SnapshotUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Login string `json:"login,omitempty"`
	Role  int    `json:"role"`
}

// ExportSnapshot handles export snapshot. It serves the cached
// snapshot and refreshes first when no cache exists yet.
func (s *Service) ExportSnapshot(ctx context.Context) (SnapshotFile, error) {
	snap, err := s.Load(ctx)
	if errors.Is(err, ErrNoSnapshot) {
		snap, err = s.Refresh(ctx)
	}
	if err != nil {
		return SnapshotFile{}, err
	}

	file := SnapshotFile{
		Version:    SnapshotVersion,
		ExportedAt: s.clock().UTC(),
		SyncedAt:   snap.SyncedAt,
		Projects:   make([]SnapshotProject, 0, len(snap.Projects)),
		Clients:    make([]SnapshotClient, 0, len(snap.Clients)),
		Users:      make([]SnapshotUser, 0, len(snap.Users)),
	}
	for _, p := range snap.Projects {
		file.Projects = append(file.Projects, snapshotProjectFromDomain(p))
	}
	for _, c := range snap.Clients {
		file.Clients = append(file.Clients, snapshotClientFromDomain(c))
	}
	for _, u := range snap.Users {
		file.Users = append(file.Users, snapshotUserFromDomain(u))
	}
	return file, nil
}

// ImportSnapshot handles import snapshot: validates the file, maps it
// to domain records, caches the result, and returns it as the current
// working snapshot.
func (s *Service) ImportSnapshot(ctx context.Context, file SnapshotFile) (Snapshot, error) {
	if err := file.Validate(); err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		Projects: make([]domain.Project, 0, len(file.Projects)),
		Clients:  make([]domain.Client, 0, len(file.Clients)),
		Users:    make([]domain.User, 0, len(file.Users)),
		SyncedAt: file.SyncedAt,
	}
	if snap.SyncedAt.IsZero() {
		snap.SyncedAt = s.clock().UTC()
	}
	for i, p := range file.Projects {
		project, err := p.toDomain()
		if err != nil {
			return Snapshot{}, fmt.Errorf("projects[%d]: %w", i, err)
		}
		snap.Projects = append(snap.Projects, project)
	}
	for i, c := range file.Clients {
		client, err := c.toDomain()
		if err != nil {
			return Snapshot{}, fmt.Errorf("clients[%d]: %w", i, err)
		}
		snap.Clients = append(snap.Clients, client)
	}
	for i, u := range file.Users {
		user, err := u.toDomain()
		if err != nil {
			return Snapshot{}, fmt.Errorf("users[%d]: %w", i, err)
		}
		snap.Users = append(snap.Users, user)
	}
	snap.sortRecords()

	if s.store != nil {
		if err := s.store.SaveSnapshot(ctx, snap); err != nil {
			return snap, err
		}
	}
	return snap, nil
}

// Validate validates the requested operation.
func (f *SnapshotFile) Validate() error {
	if f.Version != "" && f.Version != SnapshotVersion {
		return fmt.Errorf("unsupported snapshot version %q", f.Version)
	}

	projectIDs := map[string]struct{}{}
	for i, p := range f.Projects {
		if strings.TrimSpace(p.ID) == "" {
			return fmt.Errorf("projects[%d].id is required", i)
		}
		if p.StartDate.IsZero() || p.PlannedEndDate.IsZero() {
			return fmt.Errorf("projects[%d] dates are required", i)
		}
		if p.PlannedEndDate.Before(p.StartDate) {
			return fmt.Errorf("projects[%d].planned_end_date precedes start_date", i)
		}
		if _, exists := projectIDs[p.ID]; exists {
			return fmt.Errorf("duplicate project id: %q", p.ID)
		}
		projectIDs[p.ID] = struct{}{}
	}

	clientIDs := map[string]struct{}{}
	for i, c := range f.Clients {
		if strings.TrimSpace(c.ID) == "" {
			return fmt.Errorf("clients[%d].id is required", i)
		}
		if c.ProjectsTotal < 0 || c.ProjectsCompleted < 0 {
			return fmt.Errorf("clients[%d] project counts must be >= 0", i)
		}
		if _, exists := clientIDs[c.ID]; exists {
			return fmt.Errorf("duplicate client id: %q", c.ID)
		}
		clientIDs[c.ID] = struct{}{}
	}

	userIDs := map[string]struct{}{}
	for i, u := range f.Users {
		if strings.TrimSpace(u.ID) == "" {
			return fmt.Errorf("users[%d].id is required", i)
		}
		if u.Role != 0 && u.Role != 1 {
			return fmt.Errorf("users[%d].role must be 0|1", i)
		}
		if _, exists := userIDs[u.ID]; exists {
			return fmt.Errorf("duplicate user id: %q", u.ID)
		}
		userIDs[u.ID] = struct{}{}
	}
	return nil
}

// snapshotProjectFromDomain handles snapshot project from domain.
func snapshotProjectFromDomain(p domain.Project) SnapshotProject {
	return SnapshotProject{
		ID:             p.ID,
		ClientID:       p.ClientID,
		ManagerID:      p.ManagerID,
		Name:           p.Name,
		StartDate:      p.StartDate,
		PlannedEndDate: p.PlannedEndDate,
		ActualEndDate:  p.ActualEndDate,
	}
}

// snapshotClientFromDomain handles snapshot client from domain.
func snapshotClientFromDomain(c domain.Client) SnapshotClient {
	return SnapshotClient{
		ID:                c.ID,
		Name:              c.Name,
		Address:           c.Address,
		ProjectsTotal:     c.ProjectsTotal,
		ProjectsCompleted: c.ProjectsCompleted,
	}
}

// snapshotUserFromDomain handles snapshot user from domain.
func snapshotUserFromDomain(u domain.User) SnapshotUser {
	return SnapshotUser{
		ID:    u.ID,
		Name:  u.Name,
		Login: u.Login,
		Role:  int(u.Role),
	}
}

// toDomain converts domain.
func (p SnapshotProject) toDomain() (domain.Project, error) {
	return domain.NewProject(p.ID, p.ClientID, p.ManagerID, p.Name, p.StartDate, p.PlannedEndDate, p.ActualEndDate)
}

// toDomain converts domain.
func (c SnapshotClient) toDomain() (domain.Client, error) {
	return domain.NewClient(c.ID, c.Name, c.Address, c.ProjectsTotal, c.ProjectsCompleted)
}

// toDomain converts domain.
func (u SnapshotUser) toDomain() (domain.User, error) {
	return domain.NewUser(u.ID, u.Name, u.Login, u.Role)
}
