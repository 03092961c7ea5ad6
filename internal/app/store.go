package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type AttemptStatus string

const (
	StatusSuccess AttemptStatus = "success"
	StatusFailed  AttemptStatus = "failed"
)

// Attempt is one row of the download ledger.
type Attempt struct {
	ID          string
	RunID       string
	URL         string
	Strategy    Strategy
	Filename    string
	Status      AttemptStatus
	Error       string
	AttemptedAt time.Time
}

// SQLiteStore is an append-only record of download attempts. Nothing in the
// download path reads it back.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS attempts (
	id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	url TEXT NOT NULL,
	strategy TEXT NOT NULL,
	filename TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	error TEXT NOT NULL DEFAULT '',
	attempted_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS attempts_attempted_at ON attempts (attempted_at);`)
	return err
}

func (s *SQLiteStore) RecordAttempt(ctx context.Context, a Attempt) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.AttemptedAt.IsZero() {
		a.AttemptedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO attempts (id, run_id, url, strategy, filename, status, error, attempted_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?);`,
		a.ID, a.RunID, a.URL, string(a.Strategy), a.Filename, string(a.Status), a.Error, a.AttemptedAt.UTC().UnixNano())
	return err
}

// RecentAttempts returns up to limit attempts, newest first.
func (s *SQLiteStore) RecentAttempts(ctx context.Context, limit int) ([]Attempt, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, run_id, url, strategy, filename, status, error, attempted_at
FROM attempts
ORDER BY attempted_at DESC, rowid DESC
LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var (
			a        Attempt
			strategy string
			status   string
			nanos    int64
		)
		if err := rows.Scan(&a.ID, &a.RunID, &a.URL, &strategy, &a.Filename, &status, &a.Error, &nanos); err != nil {
			return nil, err
		}
		a.Strategy = Strategy(strategy)
		a.Status = AttemptStatus(status)
		a.AttemptedAt = time.Unix(0, nanos).UTC()
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
