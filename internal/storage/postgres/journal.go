package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/skirmish/internal/game/journal"
)

// JournalRepository stores encounter records in the encounter_journal table.
type JournalRepository struct {
	db *pgxpool.Pool
}

var _ journal.Journal = (*JournalRepository)(nil)

// NewJournalRepository creates a JournalRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewJournalRepository(db *pgxpool.Pool) *JournalRepository {
	return &JournalRepository{db: db}
}

// Record inserts rec.
//
// Precondition: rec.SessionID must be non-empty.
// Postcondition: The record is persisted, or journal.ErrDuplicate is returned
// if the session was already recorded.
func (r *JournalRepository) Record(ctx context.Context, rec journal.Record) error {
	if rec.SessionID == "" {
		return errors.New("session id must not be empty")
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO encounter_journal
		   (session_id, trigger_name, creatures, party_size, outcome, rounds, started_at, ended_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.SessionID, rec.Trigger, rec.Creatures, rec.PartySize,
		rec.Outcome, rec.Rounds, rec.StartedAt, rec.EndedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return journal.ErrDuplicate
		}
		return fmt.Errorf("inserting encounter record: %w", err)
	}
	return nil
}

// Recent returns up to limit records ordered by end time, newest first.
//
// Precondition: limit > 0.
// Postcondition: Returns at most limit records; an empty journal yields an empty slice.
func (r *JournalRepository) Recent(ctx context.Context, limit int) ([]journal.Record, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	rows, err := r.db.Query(ctx,
		`SELECT session_id, trigger_name, creatures, party_size, outcome, rounds, started_at, ended_at
		 FROM encounter_journal
		 ORDER BY ended_at DESC, id DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying encounter records: %w", err)
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
		return nil, fmt.Errorf("iterating encounter records: %w", err)
	}
	return out, nil
}

// Get returns the record for sessionID.
//
// Postcondition: Returns the record or journal.ErrNotFound.
func (r *JournalRepository) Get(ctx context.Context, sessionID string) (journal.Record, error) {
	row := r.db.QueryRow(ctx,
		`SELECT session_id, trigger_name, creatures, party_size, outcome, rounds, started_at, ended_at
		 FROM encounter_journal WHERE session_id = $1`,
		sessionID,
	)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return journal.Record{}, journal.ErrNotFound
		}
		return journal.Record{}, err
	}
	return rec, nil
}

func scanRecord(row pgx.Row) (journal.Record, error) {
	var rec journal.Record
	err := row.Scan(
		&rec.SessionID, &rec.Trigger, &rec.Creatures, &rec.PartySize,
		&rec.Outcome, &rec.Rounds, &rec.StartedAt, &rec.EndedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rec, err
		}
		return rec, fmt.Errorf("scanning encounter record: %w", err)
	}
	return rec, nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	// SQLSTATE 23505 is unique_violation.
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
