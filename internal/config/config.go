package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hinkolas/cobackup/internal/archive"
	"github.com/spf13/viper"
)

// Config holds the paths and options of a backup run.
type Config struct {
	Source      string        `mapstructure:"source"`
	Backups     string        `mapstructure:"backups"`
	Destination string        `mapstructure:"destination"`
	Logs        string        `mapstructure:"logs"`
	LogFile     string        `mapstructure:"log_file"`
	WorkDir     string        `mapstructure:"work_dir"`
	Mapping     string        `mapstructure:"mapping"`
	KeepRuns    int           `mapstructure:"keep_runs"`
	Schedule    string        `mapstructure:"schedule"`
	Archive     ArchiveConfig `mapstructure:"archive"`
	History     HistoryConfig `mapstructure:"history"`
}

type ArchiveConfig struct {
	Format string `mapstructure:"format"`
}

// HistoryConfig enables the sqlite run history when Path is set.
type HistoryConfig struct {
	Path string `mapstructure:"path"`
}

// LogPath returns the full path of the rotating run log.
func (c *Config) LogPath() string {
	return filepath.Join(c.Logs, c.LogFile)
}

func LoadConfig(path string) (*Config, error) {

	path, err := NormalizePath(path)
	if err != nil {
		return nil, err
	}

	v := viper.NewWithOptions(viper.KeyDelimiter("|"))
	v.SetConfigType("yaml")
	v.SetConfigFile(path)

	v.SetEnvPrefix("COBACKUP")
	v.SetEnvKeyReplacer(strings.NewReplacer("|", "_"))
	v.AutomaticEnv()

	v.SetDefault("source", "./data")
	v.SetDefault("backups", "./backups")
	v.SetDefault("destination", "./archives")
	v.SetDefault("logs", "./logs")
	v.SetDefault("log_file", "backup_log.txt")
	v.SetDefault("work_dir", os.TempDir())
	v.SetDefault("mapping", "companies.yaml")
	v.SetDefault("keep_runs", 3)
	v.SetDefault("schedule", "0 2 * * *")
	v.SetDefault("archive|format", string(archive.FormatZip))
	v.SetDefault("history|path", "")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	// Unmarshal the config into run config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	// A relative mapping file lives next to the config file
	if !filepath.IsAbs(cfg.Mapping) && !strings.HasPrefix(cfg.Mapping, "~/") {
		cfg.Mapping = filepath.Join(filepath.Dir(path), cfg.Mapping)
	}

	if err := cfg.Normalize(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil

}

// Normalize expands and absolutizes every configured path.
func (c *Config) Normalize() error {
	paths := []*string{&c.Source, &c.Backups, &c.Destination, &c.Logs, &c.WorkDir, &c.Mapping}
	if c.History.Path != "" {
		paths = append(paths, &c.History.Path)
	}

	for _, p := range paths {
		normalized, err := NormalizePath(*p)
		if err != nil {
			return err
		}
		*p = normalized
	}

	return nil
}

func (c *Config) Validate() error {
	required := map[string]string{
		"source":      c.Source,
		"backups":     c.Backups,
		"destination": c.Destination,
		"logs":        c.Logs,
		"log_file":    c.LogFile,
	}
	for key, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("config: %s must not be empty", key)
		}
	}

	if _, err := archive.ParseFormat(c.Archive.Format); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if c.KeepRuns < 1 {
		return fmt.Errorf("config: keep_runs must be at least 1, got %d", c.KeepRuns)
	}

	return nil
}

func NormalizePath(path string) (string, error) {
	// Expand home directory
	if len(path) > 1 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home dir: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	// Convert to absolute path
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	return absPath, nil
}
