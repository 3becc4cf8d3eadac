package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-docpipeline/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "docpipe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, k, err := config.Load("")
	require.NoError(t, err)
	require.NotNil(t, k)

	assert.Equal(t, []string{"default"}, cfg.Pipelines)
	assert.Equal(t, 1, cfg.Concurrency)
	assert.Equal(t, ".", cfg.Output.Dir)
	assert.Empty(t, cfg.Draw.File)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
pipelines:
  - plaintext
  - markdown
log:
  level: debug
concurrency: 4
output:
  dir: /tmp/out
draw:
  file: runner.dot
markdown:
  hard_wraps: true
`)

	cfg, k, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"plaintext", "markdown"}, cfg.Pipelines)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, "/tmp/out", cfg.Output.Dir)
	assert.Equal(t, "runner.dot", cfg.Draw.File)
	assert.True(t, k.Bool("markdown.hard_wraps"))
}

func TestLoadCommaSeparatedPipelines(t *testing.T) {
	path := writeConfig(t, "pipelines: plaintext, sanitize\n")

	cfg, _, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"plaintext", "sanitize"}, cfg.Pipelines)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "log:\n  level: debug\n")
	t.Setenv("DOCPIPE_LOG__LEVEL", "error")
	t.Setenv("DOCPIPE_PIPELINES", "markdown")

	cfg, _, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelError, cfg.LogLevel())
	assert.Equal(t, []string{"markdown"}, cfg.Pipelines)
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLogLevel(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		level    string
		expected slog.Level
	}{
		"debug":   {level: "DEBUG", expected: slog.LevelDebug},
		"warn":    {level: "warn", expected: slog.LevelWarn},
		"warning": {level: "warning", expected: slog.LevelWarn},
		"error":   {level: "error", expected: slog.LevelError},
		"unknown": {level: "loud", expected: slog.LevelInfo},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := &config.Config{Log: config.LogConfig{Level: tc.level}}
			assert.Equal(t, tc.expected, cfg.LogLevel())
			assert.NotNil(t, cfg.NewLogger())
		})
	}
}
