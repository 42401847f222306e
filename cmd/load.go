package cmd

import (
	"fmt"
	"os"

	"github.com/hinkolas/cobackup/internal/backup"
	"github.com/hinkolas/cobackup/internal/config"
	"github.com/hinkolas/cobackup/internal/history"
	"github.com/hinkolas/cobackup/internal/logging"
	"github.com/hinkolas/cobackup/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("debug", "d", false, "Enable debug mode")
	cmd.Flags().StringP("config", "c", defaultConfigPath, "Specify the path to the config file")
}

// loadConfig reads the config file and applies path overrides given as
// flags. It exits on failure.
func loadConfig(cmd *cobra.Command) *config.Config {
	configPath := cmd.Flag("config").Value.String()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("Can't find a config file at", configPath)
		} else if os.IsPermission(err) {
			fmt.Println("Can't access config file due to missing permissions.")
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}

	overrides := map[string]*string{
		"source":      &cfg.Source,
		"backups":     &cfg.Backups,
		"destination": &cfg.Destination,
		"logs":        &cfg.Logs,
	}
	changed := false
	for name, target := range overrides {
		if flag := cmd.Flag(name); flag != nil && flag.Changed {
			*target = flag.Value.String()
			changed = true
		}
	}
	if changed {
		if err := cfg.Normalize(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	}

	return cfg
}

func loadMapping(cfg *config.Config) (*config.Mapping, error) {
	mapping, err := config.LoadMapping(cfg.Mapping)
	if err != nil {
		return nil, fmt.Errorf("failed to load company mapping: %w", err)
	}
	return mapping, nil
}

func newLogger(cmd *cobra.Command) *zap.Logger {
	debug := cmd.Flag("debug").Changed && cmd.Flag("debug").Value.String() == "true"
	logger, err := logging.New(debug)
	if err != nil {
		fmt.Printf("Error creating logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

// runnerOptions wires the console echo and, when configured, the run
// history. The returned close function releases the history database.
func runnerOptions(cfg *config.Config, console *tui.Console) ([]backup.Option, func(), error) {
	opts := []backup.Option{backup.WithSink(console)}
	closeFn := func() {}

	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open run history: %w", err)
		}
		opts = append(opts, backup.WithRecorder(store))
		closeFn = func() { _ = store.Close() }
	}

	return opts, closeFn, nil
}
