// Package sqlite keeps the encounter journal in a local SQLite file for
// standalone play.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/cory-johannsen/skirmish/internal/game/journal"
)

//go:embed schema.sql
var schema string

// Store persists encounter records in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ journal.Journal = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the SQLite file at path and creates the journal schema.
//
// Precondition: path must be non-blank.
// Postcondition: Returns a ready Store or a non-nil error; on error no handle is leaked.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Record inserts rec, returning journal.ErrDuplicate if the session was
// already recorded.
func (s *Store) Record(ctx context.Context, rec journal.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(rec.SessionID) == "" {
		return errors.New("session id is required")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO encounter_journal (
		   session_id, trigger_name, creatures, party_size, outcome, rounds, started_at, ended_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID,
		rec.Trigger,
		rec.Creatures,
		rec.PartySize,
		rec.Outcome,
		rec.Rounds,
		toMillis(rec.StartedAt),
		toMillis(rec.EndedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return journal.ErrDuplicate
		}
		return fmt.Errorf("insert encounter record: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]journal.Record, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT session_id, trigger_name, creatures, party_size, outcome, rounds, started_at, ended_at
		 FROM encounter_journal
		 ORDER BY ended_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query encounter records: %w", err)
	}
	defer rows.Close()

	out := make([]journal.Record, 0, limit)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate encounter records: %w", err)
	}
	return out, nil
}

// Get returns the record for sessionID or journal.ErrNotFound.
func (s *Store) Get(ctx context.Context, sessionID string) (journal.Record, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT session_id, trigger_name, creatures, party_size, outcome, rounds, started_at, ended_at
		 FROM encounter_journal WHERE session_id = ?`,
		sessionID,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return journal.Record{}, journal.ErrNotFound
	}
	return rec, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (journal.Record, error) {
	var (
		rec            journal.Record
		started, ended int64
	)
	err := row.Scan(
		&rec.SessionID, &rec.Trigger, &rec.Creatures, &rec.PartySize,
		&rec.Outcome, &rec.Rounds, &started, &ended,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return journal.Record{}, err
		}
		return journal.Record{}, fmt.Errorf("scan encounter record: %w", err)
	}
	rec.StartedAt = fromMillis(started)
	rec.EndedAt = fromMillis(ended)
	return rec, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
