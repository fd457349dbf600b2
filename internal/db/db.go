// Package db provides the SQLite connection and schema for huemcp.
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the SQLite database connection
type DB struct {
	*sql.DB
}

// Open opens the database and initializes the schema
func Open(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &DB{db}, nil
}

// initSchema creates all required tables
func initSchema(db *sql.DB) error {
	// Tool invocations - append-only audit of calls made by the agent.
	// Light state is never stored; the bridge owns it.
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS tool_invocations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			invocation_id TEXT NOT NULL,
			tool TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			arguments TEXT,
			outcome TEXT NOT NULL,
			error TEXT,
			duration_ms INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_invocations_ts ON tool_invocations(timestamp);
		CREATE INDEX IF NOT EXISTS idx_invocations_tool_ts ON tool_invocations(tool, timestamp);
	`)
	if err != nil {
		return fmt.Errorf("failed to create tool_invocations table: %w", err)
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
