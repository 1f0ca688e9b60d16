package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yuhanbo/pomotask/internal/calendar"
	"github.com/yuhanbo/pomotask/store"
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update <task_id>",
	Short: "Update fields of an existing task",
	Long: `Update a task in place. Only the flags you pass are changed; everything
else keeps its current value.`,
	Example: `  pomotask update abc123 --progress 60
  pomotask update abc123 --title "新标题" --due 2025-06-30`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

var (
	updateTitle       string
	updateDescription string
	updateProgress    int
	updateDue         string
	updateTags        []string
)

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().StringVar(&updateTitle, "title", "", "new title")
	updateCmd.Flags().StringVar(&updateDescription, "desc", "", "new description")
	updateCmd.Flags().IntVar(&updateProgress, "progress", 0, "progress percentage (0-100)")
	updateCmd.Flags().StringVar(&updateDue, "due", "", "new due date (YYYY-MM-DD)")
	updateCmd.Flags().StringSliceVar(&updateTags, "tags", nil, "replacement tag list")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	var patch store.Patch
	changed := false

	if cmd.Flags().Changed("title") {
		patch.Title = &updateTitle
		changed = true
	}
	if cmd.Flags().Changed("desc") {
		patch.Description = &updateDescription
		changed = true
	}
	if cmd.Flags().Changed("progress") {
		if updateProgress < 0 || updateProgress > 100 {
			return fmt.Errorf("progress must be between 0 and 100")
		}
		patch.Progress = &updateProgress
		changed = true
	}
	if cmd.Flags().Changed("due") {
		due, err := calendar.Parse(updateDue)
		if err != nil {
			return err
		}
		patch.DueDate = &due
		changed = true
	}
	if cmd.Flags().Changed("tags") {
		patch.Tags = updateTags
		changed = true
	}
	if !changed {
		return fmt.Errorf("nothing to update; pass at least one of --title, --desc, --progress, --due, --tags")
	}

	taskStore, err := GetStore()
	if err != nil {
		return fmt.Errorf("could not initialize the task store: %w", err)
	}
	defer func() { _ = taskStore.Close() }()

	updated, err := taskStore.Update(args[0], patch)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	fmt.Printf("Updated '%s' (%d%%)\n", updated.Title, updated.Progress)
	return nil
}
