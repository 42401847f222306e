package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/hinkolas/cobackup/internal/config"
	"github.com/hinkolas/cobackup/internal/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunnerOptions_WithoutHistory(t *testing.T) {
	cfg := &config.Config{}

	opts, closeFn, err := runnerOptions(cfg, tui.NewPlainConsole(&bytes.Buffer{}))
	require.NoError(t, err)
	defer closeFn()

	assert.Len(t, opts, 1)
}

func TestRunnerOptions_WithHistory(t *testing.T) {
	cfg := &config.Config{History: config.HistoryConfig{Path: filepath.Join(t.TempDir(), "history.db")}}

	opts, closeFn, err := runnerOptions(cfg, tui.NewPlainConsole(&bytes.Buffer{}))
	require.NoError(t, err)
	defer closeFn()

	assert.Len(t, opts, 2)
	assert.FileExists(t, cfg.History.Path)
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	writeConfig(t, configPath, "source: /srv/data\ndestination: /srv/archives\n")

	require.NoError(t, runCmd.Flags().Set("config", configPath))
	require.NoError(t, runCmd.Flags().Set("destination", "/mnt/out"))

	cfg := loadConfig(runCmd)

	assert.Equal(t, "/srv/data", cfg.Source)
	assert.Equal(t, "/mnt/out", cfg.Destination)
}

func TestCronLog_ImplementsLogger(t *testing.T) {
	logger := newLogger(scheduleCmd)
	l := cronLog{logger.Sugar()}

	l.Info("tick", "entry", 1)
	l.Error(assert.AnError, "job failed", "entry", 1)
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
