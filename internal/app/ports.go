package app

import (
	"context"

	"github.com/skiva/tidvis/internal/domain"
)

// Directory represents the upstream portfolio API this package reads
// from.
type Directory interface {
	FetchProjects(context.Context) ([]domain.Project, error)
	FetchClients(context.Context) ([]domain.Client, error)
	FetchUsers(context.Context) ([]domain.User, error)
}

// SnapshotStore persists the latest snapshot between runs.
type SnapshotStore interface {
	SaveSnapshot(context.Context, Snapshot) error
	LoadSnapshot(context.Context) (Snapshot, error)
}
