package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yuhanbo/pomotask/internal/calendar"
)

// cleanupCmd represents the cleanup command
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove repeating tasks past their due date",
	Long: `Remove repeating tasks whose due date is strictly before today. The same
sweep runs automatically at startup; this command reports the count explicitly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		taskStore, err := GetStore()
		if err != nil {
			return fmt.Errorf("could not initialize the task store: %w", err)
		}
		defer func() { _ = taskStore.Close() }()

		removed, err := taskStore.CleanupExpiredRepeating(calendar.Today(nil))
		if err != nil {
			return fmt.Errorf("cleanup failed: %w", err)
		}
		if removed == 0 {
			fmt.Println("No expired repeating tasks.")
		} else {
			fmt.Printf("Removed %d expired repeating task(s).\n", removed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}
