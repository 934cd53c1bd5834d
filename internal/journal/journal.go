// Package journal provides an optional SQLite record of delivered events.
//
// The journal is a debugging aid, not a delivery guarantee: it is written
// after the output lines it describes, one transaction per debounce batch,
// and the service runs identically without it.
package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    uid INTEGER NOT NULL,
    kind TEXT NOT NULL,
    path TEXT NOT NULL,
    batch INTEGER NOT NULL,
    delivered_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_uid ON events(uid);
CREATE INDEX IF NOT EXISTS idx_events_batch ON events(batch);
`

// Journal records delivered events in a SQLite database.
type Journal struct {
	db *sql.DB
}

// Open opens (creating if needed) the journal database at path. Use
// ":memory:" for an in-memory journal, useful in tests.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Entry is one delivered event line.
type Entry struct {
	UID  int
	Kind string
	Path string
}

// RecordBatch inserts every entry of one delivered batch in a single
// transaction.
func (j *Journal) RecordBatch(batch int64, entries []Entry) error {
	if j == nil || len(entries) == 0 {
		return nil
	}

	tx, err := j.db.Begin()
	if err != nil {
		return fmt.Errorf("journal: begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO events (uid, kind, path, batch, delivered_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("journal: prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, e := range entries {
		if _, err := stmt.Exec(e.UID, e.Kind, e.Path, batch, now); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("journal: insert event for uid %d: %w", e.UID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("journal: commit: %w", err)
	}
	return nil
}

// Summary aggregates delivered events for one subscription id.
type Summary struct {
	UID           int
	Creates       int
	Changes       int
	Deletes       int
	Batches       int
	LastDelivered time.Time
}

// Total returns the event count across all kinds.
func (s Summary) Total() int {
	return s.Creates + s.Changes + s.Deletes
}

// Summarize returns per-subscription delivery totals in ascending uid order.
func (j *Journal) Summarize() ([]Summary, error) {
	rows, err := j.db.Query(`
		SELECT uid,
		       SUM(kind = 'create'),
		       SUM(kind = 'change'),
		       SUM(kind = 'delete'),
		       COUNT(DISTINCT batch),
		       MAX(delivered_at)
		FROM events
		GROUP BY uid
		ORDER BY uid`)
	if err != nil {
		return nil, fmt.Errorf("journal: summarize: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		var last string
		if err := rows.Scan(&s.UID, &s.Creates, &s.Changes, &s.Deletes, &s.Batches, &last); err != nil {
			return nil, fmt.Errorf("journal: scan summary row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, last); err == nil {
			s.LastDelivered = t
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: summarize rows: %w", err)
	}
	return out, nil
}
