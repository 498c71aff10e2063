package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/journal"
	"github.com/cory-johannsen/skirmish/internal/storage/sqlite"
)

func openTempStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func record(id string, ended time.Time) journal.Record {
	return journal.Record{
		SessionID: id,
		Trigger:   "pirate ship",
		Creatures: 2,
		PartySize: 3,
		Outcome:   "fled",
		Rounds:    4,
		StartedAt: ended.Add(-time.Minute),
		EndedAt:   ended,
	}
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := sqlite.Open("  ")
	assert.Error(t, err)
}

func TestStore_RecordGetRoundTrip(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	ended := time.Date(2026, time.March, 3, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Record(ctx, record("s1", ended)))
	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, record("s1", ended), got)
}

func TestStore_GetMissing(t *testing.T) {
	_, err := openTempStore(t).Get(context.Background(), "missing")
	assert.ErrorIs(t, err, journal.ErrNotFound)
}

func TestStore_Duplicate(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, store.Record(ctx, record("dup", now)))
	assert.ErrorIs(t, store.Record(ctx, record("dup", now)), journal.ErrDuplicate)
}

func TestStore_RejectsEmptyID(t *testing.T) {
	assert.Error(t, openTempStore(t).Record(context.Background(), journal.Record{}))
}

func TestStore_RecordHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, openTempStore(t).Record(ctx, record("c", time.Now())), context.Canceled)
}

func TestStore_ReopenKeepsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	store, err := sqlite.Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Record(context.Background(), record("keep", time.Now())))
	require.NoError(t, store.Close())

	store, err = sqlite.Open(path)
	require.NoError(t, err)
	defer store.Close()
	_, err = store.Get(context.Background(), "keep")
	assert.NoError(t, err)
}

// Property: Recent returns min(limit, n) records ordered newest first.
func TestStore_PropertyRecent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		store, err := sqlite.Open(filepath.Join(t.TempDir(), "p.db"))
		if err != nil {
			rt.Fatalf("open: %v", err)
		}
		defer store.Close()
		ctx := context.Background()

		n := rapid.IntRange(0, 8).Draw(rt, "n")
		limit := rapid.IntRange(1, 10).Draw(rt, "limit")
		base := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < n; i++ {
			id := string(rune('a' + i))
			if err := store.Record(ctx, record(id, base.Add(time.Duration(i)*time.Second))); err != nil {
				rt.Fatalf("record: %v", err)
			}
		}

		recs, err := store.Recent(ctx, limit)
		if err != nil {
			rt.Fatalf("recent: %v", err)
		}
		want := min(n, limit)
		if len(recs) != want {
			rt.Fatalf("got %d records, want %d", len(recs), want)
		}
		for i, r := range recs {
			if r.SessionID != string(rune('a'+n-1-i)) {
				rt.Fatalf("record %d = %q", i, r.SessionID)
			}
		}
	})
}
