package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/storage/postgres"
	"github.com/cory-johannsen/skirmish/internal/testutil"
)

func unreachable() config.DatabaseConfig {
	return config.DatabaseConfig{
		Host: "127.0.0.1", Port: 1, User: "nobody", Password: "x", Name: "none",
		SSLMode: "disable", MaxConns: 1, MaxConnLifetime: time.Minute,
	}
}

func TestConnect_RetriesThenFails(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	_, err := postgres.Connect(context.Background(), unreachable(), time.Millisecond, zap.New(core))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 5 attempts")
	assert.Equal(t, 4, logs.FilterMessage("database not ready").Len())
}

func TestConnect_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := postgres.Connect(ctx, unreachable(), time.Hour, zap.NewNop())
	assert.Error(t, err)
}

func TestNewPool_Unreachable(t *testing.T) {
	_, err := postgres.NewPool(context.Background(), unreachable())
	assert.ErrorContains(t, err, "pinging database")
}

func TestPool_HealthAndJournal(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	ctx := context.Background()

	require.NoError(t, pc.Pool.Health(ctx, 5*time.Second))

	var app string
	require.NoError(t, pc.Pool.DB().QueryRow(ctx, "SELECT current_setting('application_name')").Scan(&app))
	assert.Equal(t, postgres.ApplicationName, app)

	repo := pc.Pool.Journal()
	require.NoError(t, repo.Record(ctx, makeRecord(uniqueSession("pool"), time.Now().UTC())))
	recs, err := repo.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}
