// Package journal defines the record of a finished encounter and the
// interface the storage backends implement to keep them.
package journal

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("journal: record not found")

// ErrDuplicate is returned when a record for the same session already exists.
var ErrDuplicate = errors.New("journal: duplicate session")

// Record summarises one ended combat session.
type Record struct {
	SessionID string
	Trigger   string
	Creatures int
	PartySize int
	Outcome   string
	Rounds    int
	StartedAt time.Time
	EndedAt   time.Time
}

// Journal persists encounter records.
type Journal interface {
	// Record stores rec.
	//
	// Precondition: rec.SessionID must be non-empty.
	Record(ctx context.Context, rec Record) error
	// Recent returns up to limit records, newest first.
	//
	// Precondition: limit > 0.
	Recent(ctx context.Context, limit int) ([]Record, error)
	// Get returns the record for sessionID or ErrNotFound.
	Get(ctx context.Context, sessionID string) (Record, error)
}

// Nop discards every record.
type Nop struct{}

func (Nop) Record(context.Context, Record) error          { return nil }
func (Nop) Recent(context.Context, int) ([]Record, error) { return nil, nil }
func (Nop) Get(context.Context, string) (Record, error)   { return Record{}, ErrNotFound }

// Memory keeps records in process memory.
type Memory struct {
	mu      sync.Mutex
	records []Record
}

// Record appends rec.
func (m *Memory) Record(_ context.Context, rec Record) error {
	if rec.SessionID == "" {
		return errors.New("journal: session id must not be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.SessionID == rec.SessionID {
			return ErrDuplicate
		}
	}
	m.records = append(m.records, rec)
	return nil
}

// Recent returns up to limit records, newest first.
func (m *Memory) Recent(_ context.Context, limit int) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := slices.Clone(m.records)
	slices.Reverse(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Get returns the record for sessionID.
func (m *Memory) Get(_ context.Context, sessionID string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.SessionID == sessionID {
			return r, nil
		}
	}
	return Record{}, ErrNotFound
}
