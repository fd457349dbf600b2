// Package ledger provides an append-only history of tool invocations.
// It records what the agent asked for and how the bridge answered; it never
// stores light state.
package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Outcome is the result class of an invocation
type Outcome string

const (
	OutcomeOK    Outcome = "ok"
	OutcomeError Outcome = "error"
)

// Entry represents a single invocation in the ledger
type Entry struct {
	ID           int64
	InvocationID string
	Tool         string
	Timestamp    time.Time
	Arguments    map[string]any
	Outcome      Outcome
	Error        string
	Duration     time.Duration
}

// Ledger provides append-only invocation logging
type Ledger struct {
	db *sql.DB
}

// New creates a new Ledger using the provided database connection
func New(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

// Append adds an invocation to the ledger. A zero Timestamp is replaced with
// the current time.
func (l *Ledger) Append(ctx context.Context, entry Entry) error {
	var argsJSON []byte
	var err error

	if entry.Arguments != nil {
		argsJSON, err = json.Marshal(entry.Arguments)
		if err != nil {
			return fmt.Errorf("failed to marshal arguments: %w", err)
		}
	}

	ts := entry.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err = l.db.ExecContext(ctx, `
		INSERT INTO tool_invocations (invocation_id, tool, timestamp, arguments, outcome, error, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.InvocationID, entry.Tool, ts.UTC().Unix(), string(argsJSON), string(entry.Outcome), entry.Error, entry.Duration.Milliseconds())

	return err
}

// Recent returns the latest entries, newest first
func (l *Ledger) Recent(ctx context.Context, limit int) ([]*Entry, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, invocation_id, tool, timestamp, arguments, outcome, error, duration_ms
		FROM tool_invocations
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return l.scanEntries(rows)
}

// GetByTool returns entries for one tool, newest first
func (l *Ledger) GetByTool(ctx context.Context, tool string, limit int) ([]*Entry, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, invocation_id, tool, timestamp, arguments, outcome, error, duration_ms
		FROM tool_invocations
		WHERE tool = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, tool, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return l.scanEntries(rows)
}

// DeleteOlderThan removes entries older than the specified duration (retention policy)
func (l *Ledger) DeleteOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention).Unix()
	result, err := l.db.ExecContext(ctx, `
		DELETE FROM tool_invocations WHERE timestamp < ?
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (l *Ledger) scanEntries(rows *sql.Rows) ([]*Entry, error) {
	var entries []*Entry
	for rows.Next() {
		var entry Entry
		var argsStr, errStr sql.NullString
		var outcome string
		var timestamp, durationMs int64

		err := rows.Scan(
			&entry.ID, &entry.InvocationID, &entry.Tool, &timestamp, &argsStr, &outcome, &errStr, &durationMs,
		)
		if err != nil {
			return nil, err
		}

		entry.Timestamp = time.Unix(timestamp, 0).UTC()
		entry.Outcome = Outcome(outcome)
		entry.Duration = time.Duration(durationMs) * time.Millisecond
		if errStr.Valid {
			entry.Error = errStr.String
		}

		if argsStr.Valid && argsStr.String != "" {
			entry.Arguments = make(map[string]any)
			if err := json.Unmarshal([]byte(argsStr.String), &entry.Arguments); err != nil {
				return nil, fmt.Errorf("failed to unmarshal arguments: %w", err)
			}
		}

		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}
