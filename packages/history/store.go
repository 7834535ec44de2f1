package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	version     TEXT NOT NULL DEFAULT '',
	root_dir    TEXT NOT NULL DEFAULT '',
	started_at  TIMESTAMP NOT NULL,
	status      TEXT NOT NULL DEFAULT '',
	duration_ms INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS results (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      TEXT NOT NULL REFERENCES runs(id),
	test_id     TEXT NOT NULL,
	project     TEXT NOT NULL DEFAULT '',
	file        TEXT NOT NULL,
	title       TEXT NOT NULL,
	status      TEXT NOT NULL,
	retry       INTEGER NOT NULL DEFAULT 0,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	error       TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS results_run_id ON results(run_id);
`

// Run is one stored run
type Run struct {
	ID        string
	Version   string
	RootDir   string
	StartedAt time.Time
	Status    string
	Duration  time.Duration
	Tests     int
	Failed    int
}

// Result is one stored test result
type Result struct {
	TestID   string
	Project  string
	File     string
	Title    string
	Status   string
	Retry    int
	Duration time.Duration
	Error    string
}

// Store wraps the history database
type Store struct {
	db      *sql.DB
	timeout time.Duration
}

// Open opens (and creates if needed) the database at path. Both plain paths
// and "sqlite://" / "sqlite:" prefixed ones are accepted.
func Open(path string) (*Store, error) {
	path = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(path), "sqlite://"), "sqlite:")
	if path == "" {
		return nil, fmt.Errorf("history database path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, timeout: 30 * time.Second}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// BeginRun inserts a run row; status and duration are filled by FinishRun
func (s *Store) BeginRun(run Run) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, version, root_dir, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.Version, run.RootDir, run.StartedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// AddResult stores one test result for runID
func (s *Store) AddResult(runID string, r Result) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO results (run_id, test_id, project, file, title, status, retry, duration_ms, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, r.TestID, r.Project, r.File, r.Title, r.Status, r.Retry, r.Duration.Milliseconds(), r.Error)
	if err != nil {
		return fmt.Errorf("failed to insert result: %w", err)
	}
	return nil
}

// FinishRun records the final status of a run
func (s *Store) FinishRun(runID, status string, duration time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, duration_ms = ? WHERE id = ?`,
		status, duration.Milliseconds(), runID)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// Runs returns the most recent runs, newest first
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.version, r.root_dir, r.started_at, r.status, r.duration_ms,
		       COUNT(t.id),
		       COALESCE(SUM(CASE WHEN t.status IN ('failed', 'timedOut', 'interrupted') THEN 1 ELSE 0 END), 0)
		FROM runs r LEFT JOIN results t ON t.run_id = r.id
		GROUP BY r.id
		ORDER BY r.started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var ms int64
		if err := rows.Scan(&run.ID, &run.Version, &run.RootDir, &run.StartedAt, &run.Status, &ms, &run.Tests, &run.Failed); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		run.Duration = time.Duration(ms) * time.Millisecond
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return runs, nil
}

// Results returns the stored results of one run in insertion order
func (s *Store) Results(ctx context.Context, runID string) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT test_id, project, file, title, status, retry, duration_ms, error
		FROM results WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var ms int64
		if err := rows.Scan(&r.TestID, &r.Project, &r.File, &r.Title, &r.Status, &r.Retry, &ms, &r.Error); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		r.Duration = time.Duration(ms) * time.Millisecond
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return results, nil
}
