package cmd

import (
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/yuhanbo/pomotask/models"
	"github.com/yuhanbo/pomotask/store"
)

// doneCmd represents the done command
var doneCmd = &cobra.Command{
	Use:     "done [task_id]",
	Aliases: []string{"finish", "complete", "d"},
	Short:   "Mark a task as done",
	Long: `Mark a task as completed. A one-time task moves to today's completed
file; a repeating task records a completed snapshot and schedules its next
occurrence. Without a task_id an interactive list is shown.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		taskStore, err := GetStore()
		if err != nil {
			HandleFatalError("Error: Could not initialize the task store.", err)
		}
		defer func() { _ = taskStore.Close() }()

		var target models.Task
		if len(args) > 0 {
			found, ok := taskStore.GetByID(args[0])
			if !ok {
				HandleFatalError(fmt.Sprintf("Error: Could not find task with ID '%s'.", args[0]), nil)
			}
			target = found
		} else {
			target, err = selectTaskInteractive(taskStore, func(t models.Task) bool {
				return !t.IsCompleted
			}, "Select task to mark as done")
			if err != nil {
				if err == promptui.ErrInterrupt {
					fmt.Println("Operation cancelled.")
					return
				}
				if err == ErrNoTasksFound {
					fmt.Println("No active tasks available to mark as done.")
					return
				}
				HandleFatalError("Error: Could not select a task.", err)
			}
		}

		if target.IsCompleted {
			fmt.Printf("Task '%s' (ID: %s) is already completed.\n", target.Title, target.ID)
			return
		}

		completed := true
		updated, err := taskStore.Update(target.ID, store.Patch{IsCompleted: &completed})
		if err != nil {
			HandleFatalError(fmt.Sprintf("Error: Failed to mark task '%s' as done.", target.Title), err)
		}

		if updated.Type == models.TypeRepeating {
			fmt.Printf("Completed '%s'. Next occurrence: %s\n", updated.Title, updated.Recurrence.ExecuteDate)
		} else {
			fmt.Printf("Completed '%s' on %s.\n", updated.Title, updated.CompletedDate)
		}
	},
}

func init() {
	rootCmd.AddCommand(doneCmd)
}
