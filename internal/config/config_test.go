package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/chusbot/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"BOT_TELEGRAM_TOKEN", "TELEGRAM_BOT_TOKEN",
		"BOT_GENERATION_MODEL", "OLLAMA_MODEL",
		"BOT_LOGGER_LEVEL", "BOT_INTERACTION_LOG_MAX_FILES",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"), "")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "ollama", cfg.Generation.Provider)
	assert.Equal(t, "llama3.2:1b", cfg.Generation.Model)
	assert.Equal(t, "http://localhost:11434/api/generate", cfg.Generation.OllamaEndpoint)
	assert.Equal(t, 2*time.Minute, cfg.Generation.Timeout)
	assert.Equal(t, 5, cfg.Generation.BreakerFailures)
	assert.Equal(t, 30*time.Second, cfg.Generation.BreakerTimeout)
	assert.False(t, cfg.Telegram.StripMarkdown)
	assert.Equal(t, "logs", cfg.InteractionLog.Dir)
	assert.Equal(t, 10, cfg.InteractionLog.MaxFiles)
	assert.Equal(t, 5, cfg.Database.SessionsListLimit)
	assert.True(t, cfg.Scheduler.Tasks["log_stats"].Enabled)
	assert.NotEmpty(t, cfg.Scheduler.Tasks["sql_maintenance"].Schedule)

	err = cfg.RequireToken()
	require.ErrorIs(t, err, config.ErrMissingToken)
	require.ErrorIs(t, err, config.ErrConfiguration)
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	path := writeFile(t, dir, "config.yaml", `
logger:
  level: debug
telegram:
  token: from-file
generation:
  model: file-model
  timeout: 0s
interaction_log:
  max_files: 3
scheduler:
  tasks:
    sql_maintenance:
      enabled: false
`)

	t.Run("file over defaults", func(t *testing.T) {
		cfg, err := config.Load(path, "")
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Logger.Level)
		assert.Equal(t, "from-file", cfg.Telegram.Token)
		assert.Equal(t, "file-model", cfg.Generation.Model)
		assert.Zero(t, cfg.Generation.Timeout)
		assert.Equal(t, 3, cfg.InteractionLog.MaxFiles)
		assert.False(t, cfg.Scheduler.Tasks["sql_maintenance"].Enabled)
		assert.True(t, cfg.Scheduler.Tasks["log_stats"].Enabled)
		require.NoError(t, cfg.RequireToken())
	})

	t.Run("legacy environment names", func(t *testing.T) {
		t.Setenv("TELEGRAM_BOT_TOKEN", "legacy-token")
		t.Setenv("OLLAMA_MODEL", "mistral")

		cfg, err := config.Load(path, "")
		require.NoError(t, err)
		assert.Equal(t, "legacy-token", cfg.Telegram.Token)
		assert.Equal(t, "mistral", cfg.Generation.Model)
	})

	t.Run("prefixed environment wins", func(t *testing.T) {
		t.Setenv("TELEGRAM_BOT_TOKEN", "legacy-token")
		t.Setenv("BOT_TELEGRAM_TOKEN", "prefixed-token")
		t.Setenv("BOT_INTERACTION_LOG_MAX_FILES", "7")

		cfg, err := config.Load(path, "")
		require.NoError(t, err)
		assert.Equal(t, "prefixed-token", cfg.Telegram.Token)
		assert.Equal(t, 7, cfg.InteractionLog.MaxFiles)
	})
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", "TELEGRAM_BOT_TOKEN=dotenv-token\nOLLAMA_MODEL=phi3\n")
	t.Cleanup(func() {
		_ = os.Unsetenv("TELEGRAM_BOT_TOKEN")
		_ = os.Unsetenv("OLLAMA_MODEL")
	})

	cfg, err := config.Load(filepath.Join(dir, "none.yaml"), envFile)
	require.NoError(t, err)
	assert.Equal(t, "dotenv-token", cfg.Telegram.Token)
	assert.Equal(t, "phi3", cfg.Generation.Model)

	// A missing .env file is fine.
	_, err = config.Load(filepath.Join(dir, "none.yaml"), filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
}

func TestLoadValidation(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name    string
		content string
	}{
		{"bad log level", "logger:\n  level: loud\n"},
		{"unknown provider", "generation:\n  provider: openai\n"},
		{"gemini without key", "generation:\n  provider: gemini\n"},
		{"negative max files", "interaction_log:\n  max_files: -1\n"},
		{"bad endpoint", "generation:\n  ollama_endpoint: not a url\n"},
		{"enabled task without schedule", "scheduler:\n  tasks:\n    custom:\n      enabled: true\n"},
		{"malformed yaml", "logger: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.yaml", tt.content)
			_, err := config.Load(path, "")
			require.ErrorIs(t, err, config.ErrConfiguration)
		})
	}
}
