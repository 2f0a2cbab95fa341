package app

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/skiva/tidvis/internal/domain"
)

// Clock returns the current time.
type Clock func() time.Time

// Service represents service data used by this package. It coordinates
// the upstream directory, the local snapshot store, and the clock that
// stamps every sync.
type Service struct {
	dir   Directory
	store SnapshotStore
	clock Clock
}

// NewService constructs a new value for this package. A nil clock
// falls back to the wall clock; a nil store disables caching.
func NewService(dir Directory, store SnapshotStore, clock Clock) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{dir: dir, store: store, clock: clock}
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time {
	return s.clock()
}

// Refresh fetches a fresh snapshot from the upstream directory and
// caches it. A failed cache write still returns the fetched snapshot
// together with the error, so callers can keep serving it.
func (s *Service) Refresh(ctx context.Context) (Snapshot, error) {
	projects, err := s.dir.FetchProjects(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	clients, err := s.dir.FetchClients(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	users, err := s.dir.FetchUsers(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		Projects: projects,
		Clients:  clients,
		Users:    users,
		SyncedAt: s.clock().UTC(),
	}
	snap.sortRecords()

	if s.store != nil {
		if err := s.store.SaveSnapshot(ctx, snap); err != nil {
			return snap, err
		}
	}
	return snap, nil
}

// Load returns the cached snapshot, or ErrNoSnapshot when nothing has
// been stored yet.
func (s *Service) Load(ctx context.Context) (Snapshot, error) {
	if s.store == nil {
		return Snapshot{}, ErrNoSnapshot
	}
	snap, err := s.store.LoadSnapshot(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	snap.sortRecords()
	return snap, nil
}

// RefreshOrFallback tries a refresh and falls back to the cached
// snapshot when the upstream is unreachable. The second return value
// reports whether the snapshot came from the cache; the error carries
// the refresh failure even when cached data could serve.
func (s *Service) RefreshOrFallback(ctx context.Context) (Snapshot, bool, error) {
	snap, err := s.Refresh(ctx)
	if err == nil {
		return snap, false, nil
	}
	if !snap.SyncedAt.IsZero() {
		// Fetched fine, only the cache write failed.
		return snap, false, err
	}
	cached, loadErr := s.Load(ctx)
	if loadErr != nil {
		return Snapshot{}, false, err
	}
	return cached, true, err
}

// sortRecords orders every record list by display name then id, so
// lanes and lists come out the same regardless of upstream paging
// order.
func (s *Snapshot) sortRecords() {
	byName := func(aName, aID, bName, bID string) int {
		if c := strings.Compare(strings.ToLower(aName), strings.ToLower(bName)); c != 0 {
			return c
		}
		return strings.Compare(aID, bID)
	}
	slices.SortFunc(s.Projects, func(a, b domain.Project) int {
		return byName(a.Name, a.ID, b.Name, b.ID)
	})
	slices.SortFunc(s.Clients, func(a, b domain.Client) int {
		return byName(a.Name, a.ID, b.Name, b.ID)
	})
	slices.SortFunc(s.Users, func(a, b domain.User) int {
		return byName(a.Name, a.ID, b.Name, b.ID)
	})
}
