// Package store is the append-only journal of domain events. It is not
// the source of truth: the in-memory learner state is authoritative and
// the journal exists for the stats command and for audit.
package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	kind       TEXT NOT NULL,
	learner_id TEXT NOT NULL,
	payload    TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_learner ON events (learner_id, seq);
CREATE INDEX IF NOT EXISTS idx_events_kind ON events (kind);
`

// Journal is the SQLite-backed event log.
type Journal struct {
	db *sqlx.DB
}

// Event is one journaled domain occurrence. Seq is a global monotonic
// order across all kinds.
type Event struct {
	Seq       int64     `db:"seq"`
	Kind      string    `db:"kind"`
	LearnerID string    `db:"learner_id"`
	Payload   string    `db:"payload"`
	CreatedAt time.Time `db:"created_at"`
}

// Open connects to the SQLite journal at dsn, applies the recommended
// pragmas and creates the schema. Use ":memory:" for tests.
func Open(dsn string) (*Journal, error) {
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	// SQLite has a single writer; a pool would just contend.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Journal{db: db}, nil
}

func applyPragmas(db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// Close closes the underlying connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Append journals one event. The payload is stored as JSON.
func (j *Journal) Append(kind, learnerID string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	_, err = j.db.NamedExec(
		`INSERT INTO events (kind, learner_id, payload, created_at)
		 VALUES (:kind, :learner_id, :payload, :created_at)`,
		Event{Kind: kind, LearnerID: learnerID, Payload: string(raw), CreatedAt: time.Now().UTC()},
	)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// ForLearner returns a learner's events in append order.
func (j *Journal) ForLearner(learnerID string) ([]Event, error) {
	var out []Event
	if err := j.db.Select(&out, `SELECT * FROM events WHERE learner_id = ? ORDER BY seq`, learnerID); err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}
	return out, nil
}

// CountByKind returns event counts grouped by kind, for the stats view.
func (j *Journal) CountByKind() (map[string]int, error) {
	rows := []struct {
		Kind  string `db:"kind"`
		Count int    `db:"count"`
	}{}
	if err := j.db.Select(&rows, `SELECT kind, COUNT(*) AS count FROM events GROUP BY kind`); err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.Kind] = r.Count
	}
	return out, nil
}
