// Package storage provides the SQLite-based run journal: one row per engine
// run and one per latched script error. The engine only writes to it; the
// runs and errors commands read it back.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// timeLayout matches SQLite's CURRENT_TIMESTAMP.
const timeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection for the journal.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Run is one engine run.
type Run struct {
	ID        string
	Entry     string
	StartedAt time.Time
	EndedAt   time.Time // Zero while running or after a crash
	ExitCode  int
	Ended     bool
	Errors    int // Script errors recorded during the run
}

// ScriptError is one latched script exception.
type ScriptError struct {
	ID        int64
	RunID     string
	File      string
	Line      int
	Message   string
	Source    string // Offending source line, if known
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db, now: time.Now}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			entry TEXT NOT NULL,
			started_at DATETIME NOT NULL,
			ended_at DATETIME,
			exit_code INTEGER
		);
		CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);

		CREATE TABLE IF NOT EXISTS script_errors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			file TEXT NOT NULL,
			line INTEGER NOT NULL DEFAULT 0,
			message TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_script_errors_run ON script_errors(run_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// StartRun records the start of a run and returns its id.
func (s *Store) StartRun(entry string) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("storage: cannot generate run id: %w", err)
	}

	_, err = s.db.Exec(
		"INSERT INTO runs (id, entry, started_at) VALUES (?, ?, ?)",
		id.String(), entry, s.timestamp(),
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot start run: %w", err)
	}
	return id.String(), nil
}

// EndRun records how a run ended.
func (s *Store) EndRun(runID string, exitCode int) error {
	res, err := s.db.Exec(
		"UPDATE runs SET ended_at = ?, exit_code = ? WHERE id = ?",
		s.timestamp(), exitCode, runID,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot end run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("storage: unknown run %q", runID)
	}
	return nil
}

// RecordError stores a script error against a run.
// Returns the ID of the inserted record.
func (s *Store) RecordError(runID string, e ScriptError) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO script_errors (run_id, file, line, message, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		runID, e.File, e.Line, e.Message, e.Source, s.timestamp(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot record script error: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentRuns retrieves the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT r.id, r.entry, r.started_at, r.ended_at, r.exit_code,
		        (SELECT COUNT(*) FROM script_errors e WHERE e.run_id = r.id)
		 FROM runs r
		 ORDER BY r.started_at DESC, r.id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var startedAt, endedAt any
		var exitCode sql.NullInt64
		if err := rows.Scan(&r.ID, &r.Entry, &startedAt, &endedAt, &exitCode, &r.Errors); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.StartedAt = parseTime(startedAt)
		r.EndedAt = parseTime(endedAt)
		if exitCode.Valid {
			r.Ended = true
			r.ExitCode = int(exitCode.Int64)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// RecentErrors retrieves the most recent script errors across all runs.
func (s *Store) RecentErrors(limit int) ([]ScriptError, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryErrors(
		`SELECT id, run_id, file, line, message, source, created_at
		 FROM script_errors
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
}

// RunErrors retrieves the script errors of one run in the order they happened.
func (s *Store) RunErrors(runID string) ([]ScriptError, error) {
	return s.queryErrors(
		`SELECT id, run_id, file, line, message, source, created_at
		 FROM script_errors
		 WHERE run_id = ?
		 ORDER BY id`,
		runID,
	)
}

func (s *Store) queryErrors(query string, args ...any) ([]ScriptError, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query script errors: %w", err)
	}
	defer rows.Close()

	var entries []ScriptError
	for rows.Next() {
		var e ScriptError
		var createdAt any
		if err := rows.Scan(&e.ID, &e.RunID, &e.File, &e.Line, &e.Message, &e.Source, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// Run returns a single run by id, or nil if there is none.
func (s *Store) Run(runID string) (*Run, error) {
	var r Run
	var startedAt, endedAt any
	var exitCode sql.NullInt64

	err := s.db.QueryRow(
		`SELECT r.id, r.entry, r.started_at, r.ended_at, r.exit_code,
		        (SELECT COUNT(*) FROM script_errors e WHERE e.run_id = r.id)
		 FROM runs r
		 WHERE r.id = ?`,
		runID,
	).Scan(&r.ID, &r.Entry, &startedAt, &endedAt, &exitCode, &r.Errors)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}

	r.StartedAt = parseTime(startedAt)
	r.EndedAt = parseTime(endedAt)
	if exitCode.Valid {
		r.Ended = true
		r.ExitCode = int(exitCode.Int64)
	}
	return &r, nil
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(timeLayout)
}

// parseTime handles both time.Time and string, depending on how the driver
// decoded the column.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse(timeLayout, v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
