package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/skiva/tidvis/internal/app"
	"github.com/skiva/tidvis/internal/domain"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// Store represents store data used by this package: the local snapshot
// cache backing the dashboard when the upstream is unreachable.
type Store struct {
	db *sql.DB
}

var _ app.SnapshotStore = (*Store)(nil)

// Open opens the requested operation.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &Store{db: db}
	if err := store.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// OpenInMemory opens in memory.
func OpenInMemory() (*Store, error) {
	db, err := sql.Open(driverName, "file::memory:?cache=shared")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	store := &Store{db: db}
	if err := store.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the requested operation.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate handles migrate.
func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS snapshot_meta (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			synced_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			client_id TEXT NOT NULL DEFAULT '',
			manager_id TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL,
			start_date TEXT NOT NULL,
			planned_end_date TEXT NOT NULL,
			actual_end_date TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS clients (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			projects_total INTEGER NOT NULL DEFAULT 0,
			projects_completed INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			login TEXT NOT NULL DEFAULT '',
			role INTEGER NOT NULL DEFAULT 0
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// SaveSnapshot replaces the cached snapshot in one transaction.
func (s *Store) SaveSnapshot(ctx context.Context, snap app.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"projects", "clients", "users"} {
		if _, err = tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return err
		}
	}

	for _, p := range snap.Projects {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO projects(id, client_id, manager_id, name, start_date, planned_end_date, actual_end_date)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
			p.ID,
			p.ClientID,
			p.ManagerID,
			p.Name,
			ts(p.StartDate),
			ts(p.PlannedEndDate),
			nullableTS(p.ActualEndDate),
		)
		if err != nil {
			return err
		}
	}
	for _, c := range snap.Clients {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO clients(id, name, address, projects_total, projects_completed)
			VALUES (?, ?, ?, ?, ?)
		`,
			c.ID,
			c.Name,
			c.Address,
			c.ProjectsTotal,
			c.ProjectsCompleted,
		)
		if err != nil {
			return err
		}
	}
	for _, u := range snap.Users {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO users(id, name, login, role)
			VALUES (?, ?, ?, ?)
		`,
			u.ID,
			u.Name,
			u.Login,
			int(u.Role),
		)
		if err != nil {
			return err
		}
	}

	syncedAt := snap.SyncedAt
	if syncedAt.IsZero() {
		syncedAt = time.Now()
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshot_meta(id, synced_at) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET synced_at = excluded.synced_at
	`, ts(syncedAt))
	if err != nil {
		return err
	}

	err = tx.Commit()
	return err
}

// LoadSnapshot loads the cached snapshot, returning app.ErrNoSnapshot
// when nothing has been saved yet.
func (s *Store) LoadSnapshot(ctx context.Context) (app.Snapshot, error) {
	var syncedAt string
	err := s.db.QueryRowContext(ctx, `SELECT synced_at FROM snapshot_meta WHERE id = 1`).Scan(&syncedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return app.Snapshot{}, app.ErrNoSnapshot
	}
	if err != nil {
		return app.Snapshot{}, err
	}

	snap := app.Snapshot{SyncedAt: parseTS(syncedAt)}
	if snap.Projects, err = s.loadProjects(ctx); err != nil {
		return app.Snapshot{}, err
	}
	if snap.Clients, err = s.loadClients(ctx); err != nil {
		return app.Snapshot{}, err
	}
	if snap.Users, err = s.loadUsers(ctx); err != nil {
		return app.Snapshot{}, err
	}
	return snap, nil
}

// loadProjects handles load projects.
func (s *Store) loadProjects(ctx context.Context) ([]domain.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, client_id, manager_id, name, start_date, planned_end_date, actual_end_date
		FROM projects
		ORDER BY LOWER(name), id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Project
	for rows.Next() {
		var p domain.Project
		var start, planned string
		var actual sql.NullString
		if err := rows.Scan(&p.ID, &p.ClientID, &p.ManagerID, &p.Name, &start, &planned, &actual); err != nil {
			return nil, err
		}
		p.StartDate = parseTS(start)
		p.PlannedEndDate = parseTS(planned)
		p.ActualEndDate = parseNullTS(actual)
		out = append(out, p)
	}
	return out, rows.Err()
}

// loadClients handles load clients.
func (s *Store) loadClients(ctx context.Context) ([]domain.Client, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, address, projects_total, projects_completed
		FROM clients
		ORDER BY LOWER(name), id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Client
	for rows.Next() {
		var c domain.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.ProjectsTotal, &c.ProjectsCompleted); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// loadUsers handles load users.
func (s *Store) loadUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, login, role
		FROM users
		ORDER BY LOWER(name), id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		var u domain.User
		var role int
		if err := rows.Scan(&u.ID, &u.Name, &u.Login, &role); err != nil {
			return nil, err
		}
		u.Role = domain.RoleFromInt(role)
		out = append(out, u)
	}
	return out, rows.Err()
}

// ts handles ts.
func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// nullableTS handles nullable ts.
func nullableTS(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTS parses input into a normalized form.
func parseTS(v string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return parsed.UTC()
}

// parseNullTS parses input into a normalized form.
func parseNullTS(v sql.NullString) *time.Time {
	if !v.Valid || strings.TrimSpace(v.String) == "" {
		return nil
	}
	parsed := parseTS(v.String)
	return &parsed
}
