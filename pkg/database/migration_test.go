package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLatestVersion(t *testing.T) {
	t.Run("picks the highest up migration", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"000001_init.up.sql", "000001_init.down.sql", "000010_runs.up.sql", "000002_x.up.sql", "README.md"} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o600))
		}

		latest, err := getLatestVersion(dir)
		require.NoError(t, err)
		assert.Equal(t, 10, latest)
	})

	t.Run("empty folder", func(t *testing.T) {
		_, err := getLatestVersion(t.TempDir())
		assert.Error(t, err)
	})

	t.Run("repository migrations", func(t *testing.T) {
		latest, err := getLatestVersion("../../db/pg")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, latest, 1)
	})
}

func TestConfigDSN(t *testing.T) {
	cfg := Config{Host: "localhost", Port: "5432", User: "edelweiss", Password: "secret", Name: "edelweiss", SSLMode: "disable"}
	assert.Equal(t, "host=localhost port=5432 user=edelweiss password=secret dbname=edelweiss sslmode=disable", cfg.DSN())
}
