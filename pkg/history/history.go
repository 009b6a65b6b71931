// Package history keeps a SQLite log of shots and calibration trials.
// Recording is optional plumbing around the engine: a nil *Store is a
// valid no-op recorder.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Kind distinguishes live shots from calibration trials.
type Kind string

const (
	KindShot  Kind = "shot"
	KindTrial Kind = "trial"
)

const schema = `CREATE TABLE IF NOT EXISTS shots (
    shot_id TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    target TEXT NOT NULL,
    pull REAL NOT NULL,
    rotations TEXT NOT NULL,
    outcome TEXT NOT NULL,
    started_at TEXT NOT NULL,
    duration_ms INTEGER NOT NULL
);`

// Record is one logged shot or trial. Outcome is "ok" or the error text
// of the failed sequence.
type Record struct {
	ID        string
	Kind      Kind
	Target    string
	Pull      float64
	Rotations []float64
	Outcome   string
	StartedAt time.Time
	Duration  time.Duration
}

// Store is the SQLite-backed log.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

// Record appends one entry. A missing ID is filled in.
func (s *Store) Record(r Record) error {
	if s == nil {
		return nil
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now().UTC()
	}

	rotations, err := json.Marshal(r.Rotations)
	if err != nil {
		return fmt.Errorf("encode rotations: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO shots (shot_id, kind, target, pull, rotations, outcome, started_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, string(r.Kind), r.Target, r.Pull, string(rotations), r.Outcome,
		r.StartedAt.Format(time.RFC3339Nano), r.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("record shot: %w", err)
	}
	return nil
}

// Recent returns up to n entries, newest first.
func (s *Store) Recent(n int) ([]Record, error) {
	if s == nil {
		return nil, nil
	}
	rows, err := s.db.Query(
		`SELECT shot_id, kind, target, pull, rotations, outcome, started_at, duration_ms
		 FROM shots ORDER BY started_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Record
	for rows.Next() {
		var (
			r          Record
			kind       string
			rotations  string
			startedAt  string
			durationMS int64
		)
		if err := rows.Scan(&r.ID, &kind, &r.Target, &r.Pull, &rotations, &r.Outcome, &startedAt, &durationMS); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		r.Kind = Kind(kind)
		if err := json.Unmarshal([]byte(rotations), &r.Rotations); err != nil {
			return nil, fmt.Errorf("decode rotations: %w", err)
		}
		if r.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, r)
	}
	return out, rows.Err()
}
