package journal_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/skirmish/internal/game/journal"
)

func TestMemory_RecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	m := &journal.Memory{}
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, m.Record(ctx, journal.Record{SessionID: id, Outcome: "victory"}))
	}
	recs, err := m.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "c", recs[0].SessionID)
	assert.Equal(t, "b", recs[1].SessionID)

	got, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "victory", got.Outcome)
	_, err = m.Get(ctx, "zzz")
	assert.ErrorIs(t, err, journal.ErrNotFound)
}

func TestMemory_RejectsEmptyID(t *testing.T) {
	assert.Error(t, (&journal.Memory{}).Record(context.Background(), journal.Record{}))
}

func TestNop(t *testing.T) {
	var j journal.Journal = journal.Nop{}
	assert.NoError(t, j.Record(context.Background(), journal.Record{SessionID: "x"}))
	_, err := j.Get(context.Background(), "x")
	assert.ErrorIs(t, err, journal.ErrNotFound)
}

func TestMemory_RejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	m := &journal.Memory{}
	require.NoError(t, m.Record(ctx, journal.Record{SessionID: "a"}))
	assert.ErrorIs(t, m.Record(ctx, journal.Record{SessionID: "a"}), journal.ErrDuplicate)
}
