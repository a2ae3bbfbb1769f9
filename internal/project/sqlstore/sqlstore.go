// Package sqlstore persists projects in SQLite.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/dshills/pixelplay/internal/engine/grid"
	"github.com/dshills/pixelplay/internal/project"
)

const schema = `
CREATE TABLE IF NOT EXISTS projects (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    owner       TEXT NOT NULL,
    size        INTEGER NOT NULL,
    cells       TEXT NOT NULL,
    created_at  INTEGER NOT NULL,
    updated_at  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_projects_owner ON projects(owner, updated_at DESC);
CREATE INDEX IF NOT EXISTS idx_projects_name ON projects(owner, name);
`

const selectColumns = `SELECT id, name, owner, size, cells, created_at, updated_at FROM projects`

// Store is a SQLite-backed project.Store.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ project.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Open opens or creates the database at path. Use ":memory:" for a
// throwaway store.
func Open(path string, opts ...Option) (*Store, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Each :memory: connection is its own database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	s := &Store{db: db, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(s)
	}
	s.logger.Info("project store opened", "driver", "sqlite", "path", path)
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save upserts p, preserving the stored CreatedAt of an existing record.
func (s *Store) Save(ctx context.Context, p *project.Project) error {
	if err := p.Validate(); err != nil {
		return err
	}
	cells, err := json.Marshal(p.Cells)
	if err != nil {
		return fmt.Errorf("encode cells: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	var created int64
	err = tx.QueryRowContext(ctx, `SELECT created_at FROM projects WHERE id = ?`, p.ID).Scan(&created)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		created = p.CreatedAt
		_, err = tx.ExecContext(ctx, `
			INSERT INTO projects (id, name, owner, size, cells, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Name, p.Owner, p.Size, string(cells), created, p.UpdatedAt,
		)
	case err == nil:
		_, err = tx.ExecContext(ctx, `
			UPDATE projects SET name = ?, owner = ?, size = ?, cells = ?, updated_at = ?
			WHERE id = ?`,
			p.Name, p.Owner, p.Size, string(cells), p.UpdatedAt, p.ID,
		)
	}
	if err != nil {
		return fmt.Errorf("save project %s: %w", p.ID, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}

	p.CreatedAt = created
	s.logger.Debug("project saved", "id", p.ID, "name", p.Name, "owner", p.Owner)
	return nil
}

// Get returns the project with the given ID.
func (s *Store) Get(ctx context.Context, id string) (*project.Project, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", project.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}
	return p, nil
}

// List returns an owner's projects, most recently updated first.
func (s *Store) List(ctx context.Context, owner string) ([]*project.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		selectColumns+` WHERE owner = ? ORDER BY updated_at DESC, name ASC`, owner)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var out []*project.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// FindByName returns the owner's most recently updated project called name.
func (s *Store) FindByName(ctx context.Context, owner, name string) (*project.Project, error) {
	row := s.db.QueryRowContext(ctx,
		selectColumns+` WHERE owner = ? AND name = ? ORDER BY updated_at DESC LIMIT 1`, owner, name)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s/%s", project.ErrNotFound, owner, name)
	}
	if err != nil {
		return nil, fmt.Errorf("find project %s/%s: %w", owner, name, err)
	}
	return p, nil
}

// Delete removes the project with the given ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", project.ErrNotFound, id)
	}
	s.logger.Debug("project deleted", "id", id)
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(sc scanner) (*project.Project, error) {
	var p project.Project
	var cells string
	if err := sc.Scan(&p.ID, &p.Name, &p.Owner, &p.Size, &cells, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(cells), &p.Cells); err != nil {
		return nil, fmt.Errorf("%w: cells of %s: %v", project.ErrInvalidProject, p.ID, err)
	}
	for i, c := range p.Cells {
		if !c.Valid() {
			return nil, fmt.Errorf("%w: cell %d of %s: %w", project.ErrInvalidProject, i, p.ID, grid.ErrInvalidColor)
		}
	}
	return &p, nil
}
