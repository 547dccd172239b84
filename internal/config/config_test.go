package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, ".", cfg.Workspace)
		assert.Equal(t, "./logs", cfg.LogsDir)
		assert.Equal(t, "./ledger.jsonl", cfg.LedgerPath)
		assert.Equal(t, "./keys", cfg.KeysDir)
		assert.Equal(t, ":8080", cfg.ListenAddr)
		assert.Equal(t, 30*time.Minute, cfg.StepTimeout)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("EnvOverrides", func(t *testing.T) {
		t.Setenv("MATRIXCI_LISTEN_ADDR", ":9000")
		t.Setenv("MATRIXCI_LOG_LEVEL", "debug")
		t.Setenv("MATRIXCI_STEP_TIMEOUT", "5m")

		cfg, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, ":9000", cfg.ListenAddr)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, 5*time.Minute, cfg.StepTimeout)
		// Untouched values keep their defaults.
		assert.Equal(t, "./logs", cfg.LogsDir)
	})

	t.Run("ConfigFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "matrixci.yaml")
		require.NoError(t, os.WriteFile(path, []byte("workspace: /srv/checkout\nlog_level: warn\n"), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "/srv/checkout", cfg.Workspace)
		assert.Equal(t, "warn", cfg.LogLevel)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("BadLogLevel", func(t *testing.T) {
		t.Setenv("MATRIXCI_LOG_LEVEL", "loud")
		_, err := Load("")
		require.Error(t, err)
	})
}
