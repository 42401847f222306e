package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hinkolas/cobackup/internal/backup"
	"github.com/hinkolas/cobackup/internal/tui"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {

	// Schedule-Command Flags
	addConfigFlags(scheduleCmd)
	scheduleCmd.Flags().StringP("schedule", "s", "", "Cron expression overriding the configured schedule")

	rootCmd.AddCommand(scheduleCmd)

}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the backup repeatedly on a cron schedule",
	Long: `Keep running and start a backup run whenever the cron expression fires
(default "0 2 * * *", every night at 02:00). The company mapping is reloaded for
every run. A run that is still busy when the next one is due is not overlapped.`,
	Run: func(cmd *cobra.Command, args []string) {

		cfg := loadConfig(cmd)
		logger := newLogger(cmd)
		defer logger.Sync()

		if cmd.Flag("schedule").Changed {
			cfg.Schedule = cmd.Flag("schedule").Value.String()
		}

		// Fail fast on a broken mapping before waiting for the first run
		if _, err := loadMapping(cfg); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		console := tui.NewConsole()
		opts, closeHistory, err := runnerOptions(cfg, console)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		defer closeHistory()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cronLogger := cronLog{logger.Sugar()}
		c := cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		)

		_, err = c.AddFunc(cfg.Schedule, func() {
			mapping, err := loadMapping(cfg)
			if err != nil {
				logger.Error("skipping scheduled run", zap.Error(err))
				return
			}
			if _, err := backup.NewRunner(cfg, mapping, logger, opts...).Run(ctx); err != nil {
				logger.Error("scheduled run failed", zap.Error(err))
			}
		})
		if err != nil {
			fmt.Printf("Invalid schedule %q: %v\n", cfg.Schedule, err)
			os.Exit(1)
		}

		c.Start()
		logger.Info("scheduler started", zap.String("schedule", cfg.Schedule), zap.Time("next", c.Entries()[0].Next))

		<-ctx.Done()
		logger.Info("shutting down, waiting for a running backup to finish")
		<-c.Stop().Done()

	},
}

var _ cron.Logger = cronLog{}

// cronLog adapts zap to cron.Logger
type cronLog struct {
	s *zap.SugaredLogger
}

func (l cronLog) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLog) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
