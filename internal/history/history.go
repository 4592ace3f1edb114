// Package history keeps a persistent record of past refactor runs in a
// SQLite database under the state directory. Unlike the journal, history
// survives a successful undo: it answers "what has ever been done to this
// tree", not "what can still be undone".
package history

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"relog/internal/logging"
	"relog/internal/paths"
)

// Store is a handle to the run-history database
type Store struct {
	conn   *sql.DB
	logger *logging.Logger
}

// Run is one recorded refactor run
type Run struct {
	RunID              string `json:"run_id"`
	StartedAt          string `json:"started_at"`
	FinishedAt         string `json:"finished_at"`
	FilesModified      int    `json:"files_modified"`
	FilesFailed        int    `json:"files_failed"`
	TotalModifications int    `json:"total_modifications"`
	Undone             bool   `json:"undone"`
}

// Open opens or creates the history database at .relog/history.db
func Open(root string, logger *logging.Logger) (*Store, error) {
	if _, err := paths.EnsureStateDir(root); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	conn, err := sql.Open("sqlite", paths.HistoryDBPath(root))
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id              TEXT PRIMARY KEY,
		started_at          TEXT NOT NULL,
		finished_at         TEXT NOT NULL,
		files_modified      INTEGER NOT NULL,
		files_failed        INTEGER NOT NULL,
		total_modifications INTEGER NOT NULL,
		undone              INTEGER NOT NULL DEFAULT 0
	)`
	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{conn: conn, logger: logger}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.conn.Close()
}

// RecordRun inserts or updates the record for a run. Resumed runs keep their
// run id, so re-recording replaces the earlier row.
func (s *Store) RecordRun(run Run) error {
	_, err := s.conn.Exec(`
		INSERT INTO runs (run_id, started_at, finished_at, files_modified, files_failed, total_modifications, undone)
		VALUES (?, ?, ?, ?, ?, ?, 0)
		ON CONFLICT(run_id) DO UPDATE SET
			finished_at = excluded.finished_at,
			files_modified = excluded.files_modified,
			files_failed = excluded.files_failed,
			total_modifications = excluded.total_modifications`,
		run.RunID, run.StartedAt, run.FinishedAt,
		run.FilesModified, run.FilesFailed, run.TotalModifications)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// MarkUndone flags a run as fully undone
func (s *Store) MarkUndone(runID string) error {
	res, err := s.conn.Exec("UPDATE runs SET undone = 1 WHERE run_id = ?", runID)
	if err != nil {
		return fmt.Errorf("failed to mark run undone: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %s not found in history", runID)
	}
	return nil
}

// ListRuns returns up to limit runs, most recent first
func (s *Store) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.conn.Query(`
		SELECT run_id, started_at, finished_at, files_modified, files_failed, total_modifications, undone
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var r Run
		var undone int
		if err := rows.Scan(&r.RunID, &r.StartedAt, &r.FinishedAt,
			&r.FilesModified, &r.FilesFailed, &r.TotalModifications, &undone); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Undone = undone != 0
		runs = append(runs, r)
	}

	return runs, rows.Err()
}
