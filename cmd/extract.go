package cmd

import (
	"fmt"
	"os"

	"github.com/hinkolas/cobackup/internal/archive"
	"github.com/spf13/cobra"
)

func init() {

	// Extract-Command Flags
	extractCmd.Flags().StringP("archive", "a", "", "Path to the archive (required)")
	extractCmd.Flags().StringP("output", "o", ".", "Directory to extract into")
	extractCmd.Flags().BoolP("list", "l", false, "Only list the archive entries")

	// Mark archive flag as required
	extractCmd.MarkFlagRequired("archive")

	rootCmd.AddCommand(extractCmd)

}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a company archive into a directory",
	Long: `Extract a company archive created by the run command. The output directory
receives the DATA_{code} folder with the copied company data and the
"Latest Backup" folder with the collected backup files.`,
	Run: func(cmd *cobra.Command, args []string) {

		archivePath := cmd.Flag("archive").Value.String()

		// Check if archive exists
		if _, err := os.Stat(archivePath); os.IsNotExist(err) {
			fmt.Printf("Archive not found: %s\n", archivePath)
			os.Exit(1)
		}

		if cmd.Flag("list").Changed && cmd.Flag("list").Value.String() == "true" {
			entries, err := archive.Entries(archivePath)
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			for _, entry := range entries {
				fmt.Println(entry)
			}
			return
		}

		output := cmd.Flag("output").Value.String()
		if err := archive.Extract(archivePath, output); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		fmt.Printf("✓ Extracted %s to %s\n", archivePath, output)

	},
}
