// Package sqlite persists simulation runs in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/sirsim/pkg/domain"
	_ "modernc.org/sqlite"
)

// DefaultPath is the database location used when none is configured.
const DefaultPath = ".sirsim/runs.db"

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	population INTEGER NOT NULL,
	days INTEGER NOT NULL,
	peak_infections INTEGER NOT NULL,
	peak_day INTEGER NOT NULL,
	attack_size INTEGER NOT NULL,
	converged INTEGER NOT NULL,
	payload TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

// Store implements ports.RunStore on top of database/sql.
// Summary columns are denormalized next to the JSON payload for querying.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the database at path. Use ":memory:" for an
// ephemeral store.
func Open(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts or replaces the run.
func (s *Store) Save(ctx context.Context, run *domain.Run) error {
	if run.ID == "" {
		return fmt.Errorf("run ID cannot be empty")
	}
	payload, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	converged := 0
	if run.Converged {
		converged = 1
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, population, days, peak_infections, peak_day, attack_size, converged, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			started_at = excluded.started_at,
			population = excluded.population,
			days = excluded.days,
			peak_infections = excluded.peak_infections,
			peak_day = excluded.peak_day,
			attack_size = excluded.attack_size,
			converged = excluded.converged,
			payload = excluded.payload`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.Params.PopulationSize,
		run.Trace.Days(),
		run.Trace.PeakInfections(),
		run.Trace.PeakDay(),
		run.Trace.AttackSize(),
		converged,
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// Load retrieves a run by ID.
func (s *Store) Load(ctx context.Context, id string) (*domain.Run, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM runs WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	var run domain.Run
	if err := json.Unmarshal([]byte(payload), &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}
	return &run, nil
}

// Delete removes a run. Deleting a missing run is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	return nil
}

// List returns run IDs ordered by start time.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM runs ORDER BY started_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Summaries returns the denormalized summary of every run whose peak
// reaches at least minPeak.
func (s *Store) Summaries(ctx context.Context, minPeak int) ([]domain.Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, days, peak_infections, peak_day, attack_size, converged
		FROM runs
		WHERE peak_infections >= ?
		ORDER BY started_at, id`, minPeak)
	if err != nil {
		return nil, fmt.Errorf("failed to query summaries: %w", err)
	}
	defer rows.Close()

	var out []domain.Summary
	for rows.Next() {
		var sum domain.Summary
		var converged int
		if err := rows.Scan(&sum.ID, &sum.Days, &sum.PeakInfections, &sum.PeakDay, &sum.AttackSize, &converged); err != nil {
			return nil, err
		}
		sum.Converged = converged == 1
		out = append(out, sum)
	}
	return out, rows.Err()
}
