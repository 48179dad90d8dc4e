// Package journal provides SQLite-backed durable storage of controller
// sessions: every command lifecycle transition and every operator notice.
//
// # Critical Patterns
//
// CP-1: Logical Time
//   - Every row carries seq from a per-journal logical clock
//   - The clock resumes from the highest stored seq when a journal is reopened
//   - started_at is informational; ordering NEVER uses it
//
// CP-2: Deterministic Query Results
//   - Every read orders by seq ASC
//
// CP-3: Idempotent Upserts
//   - commands holds one row per (session, service, ticket); a later
//     transition updates it in place
//   - transitions is append-only
//
// # Database Configuration
//
//   - WAL mode: concurrent reads while the pump writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
package journal

import (
	"database/sql"
	_ "embed"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema
// 1 - Added lookup index on transitions(session_id, service, ticket)
const currentSchemaVersion = 1

// Journal is the durable session log.
//
// Thread-safety: all methods are safe for concurrent use. SQLite allows a
// single writer, so the pool is limited to one connection.
type Journal struct {
	db  *sql.DB
	ids SessionIDGenerator

	mu  sync.Mutex
	seq int64
}

// Option configures a Journal.
type Option func(*Journal)

// WithSessionIDs overrides the session id generator. Default is
// UUIDv7Generator.
func WithSessionIDs(g SessionIDGenerator) Option {
	return func(j *Journal) { j.ids = g }
}

// Open creates or opens a journal at path. Pragmas and migrations are
// applied on every open.
func Open(path string, opts ...Option) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to journal: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	j := &Journal{db: db, ids: UUIDv7Generator{}}
	for _, opt := range opts {
		opt(j)
	}
	if err := j.resumeClock(); err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	return j.db.Close()
}

// next advances the logical clock.
func (j *Journal) next() int64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.seq++
	return j.seq
}

func (j *Journal) resumeClock() error {
	var last sql.NullInt64
	err := j.db.QueryRow(`
		SELECT MAX(seq) FROM (
			SELECT MAX(seq) AS seq FROM sessions
			UNION ALL SELECT MAX(seq) FROM transitions
			UNION ALL SELECT MAX(seq) FROM notices
		)
	`).Scan(&last)
	if err != nil {
		return fmt.Errorf("resume clock: %w", err)
	}
	j.seq = last.Int64
	return nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_transitions_ticket
		ON transitions(session_id, service, ticket)
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (j *Journal) verifyPragma(name, expected string) error {
	var value string
	if err := j.db.QueryRow(fmt.Sprintf("PRAGMA %s", name)).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
