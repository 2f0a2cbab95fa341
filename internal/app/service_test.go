package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/skiva/tidvis/internal/domain"
)

type fakeDirectory struct {
	projects []domain.Project
	clients  []domain.Client
	users    []domain.User
	err      error
	calls    int
}

func (f *fakeDirectory) FetchProjects(_ context.Context) ([]domain.Project, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.projects, nil
}

func (f *fakeDirectory) FetchClients(_ context.Context) ([]domain.Client, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.clients, nil
}

func (f *fakeDirectory) FetchUsers(_ context.Context) ([]domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users, nil
}

type fakeStore struct {
	snap    Snapshot
	has     bool
	saveErr error
	loadErr error
	saves   int
}

func (f *fakeStore) SaveSnapshot(_ context.Context, s Snapshot) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.snap = s
	f.has = true
	f.saves++
	return nil
}

func (f *fakeStore) LoadSnapshot(_ context.Context) (Snapshot, error) {
	if f.loadErr != nil {
		return Snapshot{}, f.loadErr
	}
	if !f.has {
		return Snapshot{}, ErrNoSnapshot
	}
	return f.snap, nil
}

func testClock() Clock {
	return func() time.Time {
		return time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC)
	}
}

func mustProject(t *testing.T, id, name string, start, end time.Time) domain.Project {
	t.Helper()
	p, err := domain.NewProject(id, "c1", "m1", name, start, end, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func testDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRefreshFetchesAndCaches(t *testing.T) {
	dir := &fakeDirectory{
		projects: []domain.Project{
			mustProject(t, "p2", "zeta", testDate(2026, 1, 1), testDate(2026, 2, 1)),
			mustProject(t, "p1", "Alpha", testDate(2026, 1, 5), testDate(2026, 3, 1)),
		},
	}
	store := &fakeStore{}
	svc := NewService(dir, store, testClock())

	snap, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(snap.Projects))
	}
	if snap.Projects[0].ID != "p1" || snap.Projects[1].ID != "p2" {
		t.Fatalf("expected name ordering p1,p2, got %s,%s", snap.Projects[0].ID, snap.Projects[1].ID)
	}
	if !snap.SyncedAt.Equal(testClock()()) {
		t.Fatalf("expected the sync stamp from the clock, got %v", snap.SyncedAt)
	}
	if store.saves != 1 {
		t.Fatalf("expected one cached snapshot, got %d", store.saves)
	}
}

func TestRefreshPropagatesFetchError(t *testing.T) {
	wantErr := errors.New("upstream down")
	svc := NewService(&fakeDirectory{err: wantErr}, &fakeStore{}, testClock())

	snap, err := svc.Refresh(context.Background())
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected the fetch error, got %v", err)
	}
	if !snap.IsEmpty() {
		t.Fatalf("expected an empty snapshot on fetch failure")
	}
}

func TestRefreshReturnsSnapshotWhenCacheWriteFails(t *testing.T) {
	saveErr := errors.New("disk full")
	dir := &fakeDirectory{
		projects: []domain.Project{
			mustProject(t, "p1", "Alpha", testDate(2026, 1, 1), testDate(2026, 2, 1)),
		},
	}
	svc := NewService(dir, &fakeStore{saveErr: saveErr}, testClock())

	snap, err := svc.Refresh(context.Background())
	if !errors.Is(err, saveErr) {
		t.Fatalf("expected the save error, got %v", err)
	}
	if len(snap.Projects) != 1 {
		t.Fatalf("expected the fetched snapshot despite the failed cache write")
	}
}

func TestRefreshWithoutStore(t *testing.T) {
	dir := &fakeDirectory{
		projects: []domain.Project{
			mustProject(t, "p1", "Alpha", testDate(2026, 1, 1), testDate(2026, 2, 1)),
		},
	}
	svc := NewService(dir, nil, testClock())

	snap, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Projects) != 1 {
		t.Fatalf("expected the snapshot without a store")
	}
}

func TestLoadReturnsErrNoSnapshot(t *testing.T) {
	svc := NewService(&fakeDirectory{}, &fakeStore{}, testClock())
	if _, err := svc.Load(context.Background()); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}

	svc = NewService(&fakeDirectory{}, nil, testClock())
	if _, err := svc.Load(context.Background()); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot without a store, got %v", err)
	}
}

func TestRefreshOrFallbackPrefersFresh(t *testing.T) {
	dir := &fakeDirectory{
		projects: []domain.Project{
			mustProject(t, "p1", "Alpha", testDate(2026, 1, 1), testDate(2026, 2, 1)),
		},
	}
	svc := NewService(dir, &fakeStore{}, testClock())

	snap, stale, err := svc.RefreshOrFallback(context.Background())
	if err != nil || stale {
		t.Fatalf("expected a fresh snapshot, got stale=%v err=%v", stale, err)
	}
	if len(snap.Projects) != 1 {
		t.Fatalf("expected the fetched snapshot")
	}
}

func TestRefreshOrFallbackServesCache(t *testing.T) {
	fetchErr := errors.New("upstream down")
	cached := Snapshot{
		Projects: []domain.Project{
			mustProject(t, "p1", "Alpha", testDate(2026, 1, 1), testDate(2026, 2, 1)),
		},
		SyncedAt: testDate(2026, 2, 20),
	}
	store := &fakeStore{snap: cached, has: true}
	svc := NewService(&fakeDirectory{err: fetchErr}, store, testClock())

	snap, stale, err := svc.RefreshOrFallback(context.Background())
	if !stale {
		t.Fatalf("expected the cached snapshot to be marked stale")
	}
	if !errors.Is(err, fetchErr) {
		t.Fatalf("expected the fetch error surfaced, got %v", err)
	}
	if len(snap.Projects) != 1 || !snap.SyncedAt.Equal(cached.SyncedAt) {
		t.Fatalf("expected the cached snapshot back")
	}
}

func TestRefreshOrFallbackWithEmptyCache(t *testing.T) {
	fetchErr := errors.New("upstream down")
	svc := NewService(&fakeDirectory{err: fetchErr}, &fakeStore{}, testClock())

	snap, stale, err := svc.RefreshOrFallback(context.Background())
	if !errors.Is(err, fetchErr) {
		t.Fatalf("expected the fetch error, got %v", err)
	}
	if stale || !snap.IsEmpty() {
		t.Fatalf("expected nothing to serve")
	}
}

func TestNowUsesClock(t *testing.T) {
	svc := NewService(&fakeDirectory{}, nil, testClock())
	if !svc.Now().Equal(testClock()()) {
		t.Fatalf("expected the injected clock")
	}

	fallback := NewService(&fakeDirectory{}, nil, nil)
	if fallback.Now().IsZero() {
		t.Fatalf("expected a wall clock fallback")
	}
}
