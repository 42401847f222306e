package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hinkolas/cobackup/internal/archive"
	"github.com/spf13/cobra"
)

func init() {
	// Clear-Command Flags
	addConfigFlags(clearCmd)
	clearCmd.Flags().String("company", "", "Only delete archives of this company code")
	clearCmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompt")

	rootCmd.AddCommand(clearCmd)
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the archives in the destination directory",
	Long: `Delete the company archives in the configured destination directory,
either for all companies or for the one given with --company.

WARNING: This will permanently delete the archives!
You will be asked to confirm before deletion unless --yes flag is used.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		company := cmd.Flag("company").Value.String()
		skipConfirmation := cmd.Flag("yes").Changed && cmd.Flag("yes").Value.String() == "true"

		archives, err := archive.List(cfg.Destination, company)
		if err != nil {
			if os.IsNotExist(err) {
				fmt.Printf("Destination directory not found: %s\n", cfg.Destination)
			} else {
				fmt.Println(err)
			}
			os.Exit(1)
		}

		if len(archives) == 0 {
			fmt.Println("No archives to delete.")
			return
		}

		// Show what will be deleted
		fmt.Println("\n⚠️  WARNING: The following archives will be PERMANENTLY DELETED:")
		fmt.Println()
		for _, path := range archives {
			fmt.Printf("  - %s\n", filepath.Base(path))
		}
		fmt.Println()

		// Confirm deletion
		if !skipConfirmation {
			confirmed, err := confirmDeletion()
			if err != nil {
				fmt.Printf("Error reading confirmation: %v\n", err)
				os.Exit(1)
			}
			if !confirmed {
				fmt.Println("Deletion cancelled.")
				os.Exit(0)
			}
		}

		// Perform deletion
		for i, path := range archives {
			fmt.Printf("[%d/%d] Deleting %s... ", i+1, len(archives), filepath.Base(path))
			if err := os.Remove(path); err != nil {
				fmt.Println("ERROR")
				fmt.Printf("Error during deletion: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("✓")
		}

		fmt.Println("\n✓ All archives deleted successfully!")
	},
}

func confirmDeletion() (bool, error) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Type 'DELETE' to confirm (case-sensitive): ")
	input, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}

	input = strings.TrimSpace(input)
	return input == "DELETE", nil
}
