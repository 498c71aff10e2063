package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/skirmish/internal/storage/sqlite"
)

const configTemplate = `
logging:
  level: info
  format: json
  output: %s
content:
  tiles: %s/tiles.yaml
  creatures: %s/creatures
  weapons: %s/weapons
  arenas: %s/arenas
  party: %s/party.yaml
  world: %s/world.yaml
journal:
  driver: sqlite
  sqlite_path: %s
`

// writeConfig writes a config whose content tree lives under contentDir and
// returns its path along with the log and journal paths.
func writeConfig(t *testing.T, contentDir string) (cfgPath, logPath, dbPath string) {
	t.Helper()
	dir := t.TempDir()
	logPath = filepath.Join(dir, "skirmish.log")
	dbPath = filepath.Join(dir, "journal.db")
	cfgPath = filepath.Join(dir, "config.yaml")
	doc := fmt.Sprintf(configTemplate, logPath,
		contentDir, contentDir, contentDir, contentDir, contentDir, contentDir, dbPath)
	require.NoError(t, os.WriteFile(cfgPath, []byte(doc), 0o600))
	return cfgPath, logPath, dbPath
}

func TestRun_BadFlag(t *testing.T) {
	assert.Error(t, run([]string{"-no-such-flag"}))
}

func TestRun_MissingConfig(t *testing.T) {
	err := run([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.ErrorContains(t, err, "loading config")
}

func TestRun_ContentErrorReturnsAfterCleanup(t *testing.T) {
	cfgPath, logPath, dbPath := writeConfig(t, filepath.Join(t.TempDir(), "absent"))

	err := run([]string{"-config", cfgPath})
	require.ErrorContains(t, err, "loading content")

	logged, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(logged), "journal opened")

	store, err := sqlite.Open(dbPath)
	require.NoError(t, err, "the journal was released")
	require.NoError(t, store.Close())
}

func TestRun_RecentOnEmptyJournal(t *testing.T) {
	cfgPath, _, dbPath := writeConfig(t, filepath.Join(t.TempDir(), "absent"))

	require.NoError(t, run([]string{"-config", cfgPath, "-recent", "5"}))

	store, err := sqlite.Open(dbPath)
	require.NoError(t, err)
	defer store.Close()
	recs, err := store.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, recs)
}
