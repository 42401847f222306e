package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/hinkolas/cobackup/internal/history"
	"github.com/hinkolas/cobackup/internal/runlog"
	"github.com/spf13/cobra"
)

func init() {

	// History-Command Flags
	addConfigFlags(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 5, "Number of runs to show")

	rootCmd.AddCommand(historyCmd)

}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the most recent recorded backup runs",
	Long: `Show the most recent backup runs from the run history database.
The history is only recorded when history.path is set in the config.`,
	Run: func(cmd *cobra.Command, args []string) {

		cfg := loadConfig(cmd)
		if cfg.History.Path == "" {
			fmt.Println("Run history is disabled, set history.path in the config to enable it.")
			os.Exit(1)
		}

		limit, err := strconv.Atoi(cmd.Flag("limit").Value.String())
		if err != nil || limit < 1 {
			fmt.Println("--limit must be a positive number")
			os.Exit(1)
		}

		store, err := history.Open(cfg.History.Path)
		if err != nil {
			fmt.Printf("Can't open run history: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		runs, err := store.Recent(cmd.Context(), limit)
		if err != nil {
			fmt.Printf("Can't read run history: %v\n", err)
			os.Exit(1)
		}

		if len(runs) == 0 {
			fmt.Println("No runs recorded yet.")
			return
		}

		for _, run := range runs {
			t := run.Totals
			fmt.Printf("\n%s  %s -> %s\n", run.ID, run.Started.Local().Format(runlog.TimeLayout), run.Finished.Local().Format(runlog.TimeLayout))
			fmt.Printf("  companies: %d (skipped %d)  data copy: %d/%d  backup: %d/%d  zip: %d/%d\n",
				t.Total, t.Skipped,
				t.DataCopy.Success, t.DataCopy.Success+t.DataCopy.Failed,
				t.Backup.Success, t.Backup.Success+t.Backup.Failed,
				t.Archive.Success, t.Archive.Success+t.Archive.Failed,
			)
			for _, r := range run.Results {
				fmt.Printf("  - %-10s %-9s %-18s %-19s %-9s %s\n",
					r.Company, r.DataCopy, r.Backup, r.LatestFile, r.Archive, r.Remarks)
			}
		}

	},
}
