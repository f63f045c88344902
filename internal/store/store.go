// Package store provides SQLite-backed history of Quick Fix runs. Only run
// metadata is kept; prompt text and model replies are never written.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Outcome is the final state of a run.
type Outcome string

// Run outcomes.
const (
	OutcomePending  Outcome = "pending"
	OutcomeApplied  Outcome = "applied"
	OutcomeRejected Outcome = "rejected"
	OutcomeNoCode   Outcome = "no_code"
)

// Valid reports whether o is one of the known outcomes.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomePending, OutcomeApplied, OutcomeRejected, OutcomeNoCode:
		return true
	}
	return false
}

// Run is one prompt generation and, once finished, what became of it.
type Run struct {
	ID          string
	File        string
	Instruction string
	Agent       string
	PromptBytes int
	Outcome     Outcome
	CreatedAt   time.Time
	FinishedAt  time.Time // zero while pending
}

// ErrRunNotFound is returned when no run has the requested id.
var ErrRunNotFound = errors.New("run not found")

// Store wraps a SQLite database holding the run history.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore opens (or creates) a SQLite database at dbPath and ensures
// all required tables exist. Use ":memory:" for an in-memory database.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// An in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func createTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS quickfix_runs (
			id           TEXT PRIMARY KEY,
			file         TEXT NOT NULL,
			instruction  TEXT NOT NULL,
			agent        TEXT NOT NULL DEFAULT '',
			prompt_bytes INTEGER NOT NULL,
			outcome      TEXT NOT NULL,
			created_at   INTEGER NOT NULL,
			finished_at  INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS quickfix_runs_created
			ON quickfix_runs (created_at DESC)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// RecordRun inserts a pending run and returns it with its generated id.
func (s *Store) RecordRun(file, instruction, agent string, promptBytes int) (Run, error) {
	r := Run{
		ID:          uuid.NewString(),
		File:        file,
		Instruction: instruction,
		Agent:       agent,
		PromptBytes: promptBytes,
		Outcome:     OutcomePending,
		CreatedAt:   s.now().UTC().Truncate(time.Millisecond),
	}
	_, err := s.db.Exec(
		`INSERT INTO quickfix_runs (id, file, instruction, agent, prompt_bytes, outcome, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.File, r.Instruction, r.Agent, r.PromptBytes, string(r.Outcome), r.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	return r, nil
}

// FinishRun sets the outcome of a run and stamps its finish time.
func (s *Store) FinishRun(id string, outcome Outcome) error {
	if !outcome.Valid() {
		return fmt.Errorf("finish run: unknown outcome %q", outcome)
	}
	res, err := s.db.Exec(
		`UPDATE quickfix_runs SET outcome = ?, finished_at = ? WHERE id = ?`,
		string(outcome), s.now().UTC().UnixMilli(), id,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run %s: %w", id, ErrRunNotFound)
	}
	return nil
}

// GetRun retrieves a run by id.
func (s *Store) GetRun(id string) (Run, error) {
	row := s.db.QueryRow(
		`SELECT id, file, instruction, agent, prompt_bytes, outcome, created_at, finished_at
		 FROM quickfix_runs WHERE id = ?`, id,
	)
	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return Run{}, fmt.Errorf("get run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	return r, nil
}

// ListRuns returns up to limit runs, newest first. A non-positive limit
// returns every run.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(
		`SELECT id, file, instruction, agent, prompt_bytes, outcome, created_at, finished_at
		 FROM quickfix_runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		r                   Run
		outcome             string
		created, finishedMs int64
	)
	if err := sc.Scan(&r.ID, &r.File, &r.Instruction, &r.Agent, &r.PromptBytes, &outcome, &created, &finishedMs); err != nil {
		return Run{}, err
	}
	r.Outcome = Outcome(outcome)
	r.CreatedAt = time.UnixMilli(created).UTC()
	if finishedMs > 0 {
		r.FinishedAt = time.UnixMilli(finishedMs).UTC()
	}
	return r, nil
}
