package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/journal"
	"github.com/cory-johannsen/skirmish/internal/storage/postgres"
	"github.com/cory-johannsen/skirmish/internal/testutil"
)

func uniqueSession(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

func makeRecord(id string, ended time.Time) journal.Record {
	return journal.Record{
		SessionID: id,
		Trigger:   "orc",
		Creatures: 3,
		PartySize: 4,
		Outcome:   "victory",
		Rounds:    7,
		StartedAt: ended.Add(-2 * time.Minute),
		EndedAt:   ended,
	}
}

func TestJournalRepository_RecordAndGet(t *testing.T) {
	repo := postgres.NewJournalRepository(testutil.NewPool(t))
	ctx := context.Background()

	ended := time.Now().UTC().Truncate(time.Microsecond)
	rec := makeRecord(uniqueSession("s"), ended)
	require.NoError(t, repo.Record(ctx, rec))

	got, err := repo.Get(ctx, rec.SessionID)
	require.NoError(t, err)
	assert.Equal(t, rec.Trigger, got.Trigger)
	assert.Equal(t, 3, got.Creatures)
	assert.Equal(t, 4, got.PartySize)
	assert.Equal(t, "victory", got.Outcome)
	assert.Equal(t, 7, got.Rounds)
	assert.True(t, rec.EndedAt.Equal(got.EndedAt))
	assert.True(t, rec.StartedAt.Equal(got.StartedAt))
}

func TestJournalRepository_GetMissing(t *testing.T) {
	repo := postgres.NewJournalRepository(testutil.NewPool(t))
	_, err := repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, journal.ErrNotFound)
}

func TestJournalRepository_Duplicate(t *testing.T) {
	repo := postgres.NewJournalRepository(testutil.NewPool(t))
	ctx := context.Background()
	rec := makeRecord(uniqueSession("dup"), time.Now().UTC())
	require.NoError(t, repo.Record(ctx, rec))
	assert.ErrorIs(t, repo.Record(ctx, rec), journal.ErrDuplicate)
}

func TestJournalRepository_RejectsEmptyID(t *testing.T) {
	repo := postgres.NewJournalRepository(testutil.NewPool(t))
	assert.Error(t, repo.Record(context.Background(), journal.Record{}))
}

func TestJournalRepository_RecentNewestFirst(t *testing.T) {
	repo := postgres.NewJournalRepository(testutil.NewPool(t))
	ctx := context.Background()

	base := time.Now().UTC()
	ids := []string{uniqueSession("a"), uniqueSession("b"), uniqueSession("c")}
	for i, id := range ids {
		require.NoError(t, repo.Record(ctx, makeRecord(id, base.Add(time.Duration(i)*time.Second))))
	}

	recs, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, ids[2], recs[0].SessionID)
	assert.Equal(t, ids[1], recs[1].SessionID)

	_, err = repo.Recent(ctx, 0)
	assert.Error(t, err)
}

// Property: Recent never returns more than limit records and is ordered by end time.
func TestJournalRepository_PropertyRecentOrdered(t *testing.T) {
	repo := postgres.NewJournalRepository(testutil.NewPool(t))
	ctx := context.Background()
	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Record(ctx, makeRecord(uniqueSession("p"), base.Add(time.Duration(i)*time.Minute))))
	}

	rapid.Check(t, func(rt *rapid.T) {
		limit := rapid.IntRange(1, 10).Draw(rt, "limit")
		recs, err := repo.Recent(ctx, limit)
		if err != nil {
			rt.Fatalf("Recent: %v", err)
		}
		if len(recs) > limit {
			rt.Fatalf("got %d records for limit %d", len(recs), limit)
		}
		for i := 1; i < len(recs); i++ {
			if recs[i].EndedAt.After(recs[i-1].EndedAt) {
				rt.Fatalf("records out of order at %d", i)
			}
		}
	})
}
