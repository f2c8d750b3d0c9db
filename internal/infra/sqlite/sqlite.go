// Package sqlite implements the persistent stores on a single SQLite file
// via the pure-Go modernc.org/sqlite driver. All timer-stop reward writes go
// through one transaction (see reward.go); everything else is simple
// row-at-a-time persistence.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// timeFormat is how instants are stored. SQLite has no native time type;
// RFC 3339 strings sort correctly and round-trip without drift.
const timeFormat = time.RFC3339Nano

// DB wraps the SQLite handle. It implements the domain store interfaces.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and runs migrations.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// modernc.org/sqlite is single-writer; serializing through one
	// connection avoids SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	d := &DB{db: db}
	for _, stmt := range Migrations() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return d, nil
}

// OpenMemory opens an in-memory database for tests.
func OpenMemory() (*DB, error) {
	return Open(":memory:")
}

// Close closes the underlying handle.
func (d *DB) Close() error {
	return d.db.Close()
}

// ─── Schema ─────────────────────────────────────────────────────────────────

// Migrations returns the schema statements. Each string is a single SQL
// statement (SQLite executes one at a time).
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS characters (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			name             TEXT NOT NULL,
			level            INTEGER NOT NULL DEFAULT 1,
			experience       INTEGER NOT NULL DEFAULT 0,
			coins            INTEGER NOT NULL DEFAULT 0,
			total_study_time REAL NOT NULL DEFAULT 0,
			current_color    TEXT NOT NULL DEFAULT '#8B4513',
			created_at       TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS study_sessions (
			id           TEXT PRIMARY KEY,
			character_id INTEGER NOT NULL REFERENCES characters(id),
			subject      TEXT NOT NULL DEFAULT '',
			duration     REAL NOT NULL DEFAULT 0,
			started_at   TEXT NOT NULL,
			ended_at     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_character ON study_sessions(character_id, started_at)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_open ON study_sessions(ended_at) WHERE ended_at IS NULL`,

		`CREATE TABLE IF NOT EXISTS equipment (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			category   TEXT NOT NULL,
			price      INTEGER NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			color_code TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,

		`CREATE TABLE IF NOT EXISTS character_equipment (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			character_id INTEGER NOT NULL REFERENCES characters(id),
			equipment_id TEXT NOT NULL REFERENCES equipment(id),
			is_equipped  INTEGER NOT NULL DEFAULT 0,
			purchased_at TEXT NOT NULL,
			UNIQUE(character_id, equipment_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_owned_equipped ON character_equipment(character_id, is_equipped)`,

		`CREATE TABLE IF NOT EXISTS coin_transactions (
			id               TEXT PRIMARY KEY,
			character_id     INTEGER NOT NULL REFERENCES characters(id),
			amount           INTEGER NOT NULL,
			transaction_type TEXT NOT NULL,
			source           TEXT NOT NULL DEFAULT '',
			study_session_id TEXT,
			equipment_id     TEXT,
			created_at       TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tx_character ON coin_transactions(character_id, created_at)`,
	}
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeFormat, s)
	return t
}
