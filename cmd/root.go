package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

const defaultConfigPath = "~/.config/cobackup/config.yaml"

var rootCmd = &cobra.Command{
	Version: fmt.Sprintf("%s, %s/%s", "0.1.0", runtime.GOOS, runtime.GOARCH),
	Use:     "cobackup",
	Short:   "Bundle company data and its latest backups into one archive per company.",
	Long: `A Go-powered CLI that, for every company folder in the source directory,
	copies the live data, collects the newest version of each backup file across the
	weekday backup folders and packs both into a timestamped archive. Every run is
	reported in a log file that keeps the last three runs.`,
}

// Execute adds all child commands to the root command and sets flags.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {

	if err := rootCmd.Execute(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

}
