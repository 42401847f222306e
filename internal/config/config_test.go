package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hinkolas/cobackup/internal/archive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadConfig_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	writeFile(t, configPath, `
source: /srv/data
backups: /srv/backups
destination: /srv/archives
logs: /srv/logs
archive:
  format: tar.gz
history:
  path: /srv/history.db
`)

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "/srv/data", cfg.Source)
	assert.Equal(t, "/srv/backups", cfg.Backups)
	assert.Equal(t, "/srv/archives", cfg.Destination)
	assert.Equal(t, "/srv/logs", cfg.Logs)
	assert.Equal(t, string(archive.FormatTarGz), cfg.Archive.Format)
	assert.Equal(t, "/srv/history.db", cfg.History.Path)
	assert.Equal(t, filepath.Join("/srv/logs", "backup_log.txt"), cfg.LogPath())
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	writeFile(t, configPath, "source: /srv/data\n")

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, string(archive.FormatZip), cfg.Archive.Format)
	assert.Equal(t, 3, cfg.KeepRuns)
	assert.Equal(t, "backup_log.txt", cfg.LogFile)
	assert.Equal(t, filepath.Join(dir, "companies.yaml"), cfg.Mapping)
	assert.Empty(t, cfg.History.Path)
	assert.True(t, filepath.IsAbs(cfg.Destination))
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	writeFile(t, configPath, "destination: /srv/archives\n")

	t.Setenv("COBACKUP_DESTINATION", "/mnt/archives")
	t.Setenv("COBACKUP_ARCHIVE_FORMAT", "tar.gz")

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "/mnt/archives", cfg.Destination)
	assert.Equal(t, string(archive.FormatTarGz), cfg.Archive.Format)
}

func TestLoadConfig_InvalidFormat(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	writeFile(t, configPath, "archive:\n  format: rar\n")

	_, err := LoadConfig(configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported archive format")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestNormalizePath_Home(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := NormalizePath("~/backups")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "backups"), got)
}
