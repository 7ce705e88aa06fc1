package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvOverrides(t *testing.T) {
	t.Run("EFFECT_DEBUG enables debug logging and defect logging", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("EFFECT_DEBUG", "true")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.True(t, cfg.Logging.DebugMode)
		assert.True(t, cfg.Effect.DebugDefects)
	})

	t.Run("EFFECT_DEBUG ignores unparsable values", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("EFFECT_DEBUG", "maybe")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.False(t, cfg.Logging.DebugMode)
	})

	t.Run("paths durations and level", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("EFFECT_TERMINAL_DB", "/var/lib/tasks.db")
		t.Setenv("EFFECT_NOTIFY_DURATION", "5s")
		t.Setenv("EFFECT_LOG_LEVEL", "debug")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "/var/lib/tasks.db", cfg.Terminal.DatabasePath)
		assert.Equal(t, 5*time.Second, cfg.GetNotificationDuration())
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("env beats file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("EFFECT_LOG_LEVEL", "error")

		path := filepath.Join(t.TempDir(), "config.yaml")
		cfg := DefaultConfig()
		cfg.Logging.Level = "info"
		require.NoError(t, cfg.Save(path))

		loaded, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "error", loaded.Logging.Level)
	})
}

func TestLoad_DotEnvBesideConfig(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides variables that are already set, so start unset.
	require.NoError(t, os.Unsetenv("EFFECT_TERMINAL_DB"))
	t.Cleanup(func() { os.Unsetenv("EFFECT_TERMINAL_DB") })

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("EFFECT_TERMINAL_DB=from-dotenv.db\n"), 0644))

	cfg, err := Load(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv.db", cfg.Terminal.DatabasePath)
}
