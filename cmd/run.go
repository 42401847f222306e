package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hinkolas/cobackup/internal/backup"
	"github.com/hinkolas/cobackup/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {

	// Run-Command Flags
	addConfigFlags(runCmd)
	runCmd.Flags().String("source", "", "Override the directory holding one folder per company")
	runCmd.Flags().String("backups", "", "Override the backup root with one folder per friendly name")
	runCmd.Flags().StringP("destination", "o", "", "Override the output directory of the archives")
	runCmd.Flags().String("logs", "", "Override the directory of the run log")

	rootCmd.AddCommand(runCmd)

}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the backup once for every company folder",
	Long: `Run the backup once. Every company folder in the source directory is copied,
the newest backup files of the company are collected and both are packed into
{code}_{name}_{timestamp}.zip in the destination. Failures of single steps are
reported in the run log and summary table and do not change the exit code.`,
	Run: func(cmd *cobra.Command, args []string) {

		cfg := loadConfig(cmd)
		logger := newLogger(cmd)
		defer logger.Sync()

		mapping, err := loadMapping(cfg)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		logger.Debug("company mapping loaded", zap.String("path", cfg.Mapping), zap.Strings("codes", mapping.Codes()))

		console := tui.NewConsole()
		opts, closeHistory, err := runnerOptions(cfg, console)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		defer closeHistory()

		// Stop before the next company on Ctrl+C
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		runner := backup.NewRunner(cfg, mapping, logger, opts...)
		if _, err := runner.Run(ctx); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		console.Success(fmt.Sprintf("✓ Backup run finished, log written to %s", cfg.LogPath()))

	},
}
