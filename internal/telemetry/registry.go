package telemetry

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Registry is a SQLite-backed Tracker with explicit construction and
// teardown. Failures to write are swallowed: tracking is best-effort and
// must never disturb the search.
type Registry struct {
	db *sql.DB
	mu sync.Mutex
}

// OpenRegistry opens (creating if needed) the failure registry at dbPath.
func OpenRegistry(dbPath string) (*Registry, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open registry database: %w", err)
	}

	r := &Registry{db: db}
	if err := r.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize registry schema: %w", err)
	}
	return r, nil
}

func (r *Registry) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS error_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		operation TEXT NOT NULL,
		message TEXT NOT NULL,
		context TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_error_events_operation ON error_events(operation);
	CREATE INDEX IF NOT EXISTS idx_error_events_timestamp ON error_events(timestamp);
	`
	_, err := r.db.Exec(schema)
	return err
}

// TrackError implements Tracker. Write failures are dropped.
func (r *Registry) TrackError(err error, operation string, context map[string]interface{}) {
	if err == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var ctxJSON []byte
	if context != nil {
		ctxJSON, _ = json.Marshal(context)
	}
	_, _ = r.db.Exec(
		`INSERT INTO error_events (timestamp, operation, message, context) VALUES (?, ?, ?, ?)`,
		time.Now().UTC(), operation, err.Error(), string(ctxJSON),
	)
}

// Recent returns the most recent failures, newest first.
func (r *Registry) Recent(limit int) ([]ErrorEvent, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(
		`SELECT id, timestamp, operation, message, COALESCE(context, '') FROM error_events ORDER BY timestamp DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying error events: %w", err)
	}
	defer rows.Close()

	var events []ErrorEvent
	for rows.Next() {
		var e ErrorEvent
		var ctxJSON string
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Operation, &e.Message, &ctxJSON); err != nil {
			return nil, fmt.Errorf("scanning error event: %w", err)
		}
		if ctxJSON != "" {
			_ = json.Unmarshal([]byte(ctxJSON), &e.Context)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Count returns the total number of recorded failures.
func (r *Registry) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM error_events`).Scan(&n)
	return n, err
}

// Close releases the underlying database.
func (r *Registry) Close() error {
	return r.db.Close()
}
