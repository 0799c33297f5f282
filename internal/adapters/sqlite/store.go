// Package sqlite archives run summaries in a single-file SQLite database,
// the right fit for long-lived local archives that outgrow a directory of
// JSON files.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/q-beau/NBS-TP/pkg/domain"
)

// Store implements ports.RunStore on a SQLite database. Each run is one row:
// the queryable columns (scenario, creation time) plus the full summary as a
// JSON payload.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at path and ensures the schema.
// If path is empty, it defaults to ".nbstp/runs.db".
func New(path string) (*Store, error) {
	if path == "" {
		path = filepath.Join(".nbstp", "runs.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("failed to create archive directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id         TEXT PRIMARY KEY,
		scenario   TEXT NOT NULL,
		created_at TEXT NOT NULL,
		payload    BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create runs table: %w", err)
	}
	return &Store{db: db}, nil
}

// Save persists the run summary, overwriting any previous row with the same
// ID.
func (s *Store) Save(ctx context.Context, run *domain.RunSummary) error {
	if run == nil || run.ID == "" {
		return fmt.Errorf("run ID cannot be empty")
	}
	payload, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO runs (id, scenario, created_at, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			scenario = excluded.scenario,
			created_at = excluded.created_at,
			payload = excluded.payload`,
		run.ID, run.Scenario, run.CreatedAt.UTC().Format("2006-01-02T15:04:05.999999999Z07:00"), payload)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// Load retrieves a run summary by ID.
func (s *Store) Load(ctx context.Context, id string) (*domain.RunSummary, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM runs WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	var run domain.RunSummary
	if err := json.Unmarshal(payload, &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run summary: %w", err)
	}
	return &run, nil
}

// Delete removes a run row.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	return nil
}

// List returns the archived run IDs, newest rows first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan run id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return ids, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
