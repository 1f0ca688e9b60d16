package cmd

import (
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:     "delete [task_id]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long:    `Delete a task from whichever file holds it. Without a task_id an interactive list is shown.`,
	Args:    cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		taskStore, err := GetStore()
		if err != nil {
			HandleFatalError("Error: Could not initialize the task store.", err)
		}
		defer func() { _ = taskStore.Close() }()

		var id, title string
		if len(args) > 0 {
			id = args[0]
			if found, ok := taskStore.GetByID(id); ok {
				title = found.Title
			}
		} else {
			target, err := selectTaskInteractive(taskStore, nil, "Select task to delete")
			if err != nil {
				if err == promptui.ErrInterrupt {
					fmt.Println("Operation cancelled.")
					return
				}
				if err == ErrNoTasksFound {
					fmt.Println("No tasks available to delete.")
					return
				}
				HandleFatalError("Error: Could not select a task.", err)
			}
			id, title = target.ID, target.Title
		}

		if !deleteYes {
			confirm := promptui.Prompt{
				Label:     fmt.Sprintf("Delete '%s'", title),
				IsConfirm: true,
			}
			if _, err := confirm.Run(); err != nil {
				fmt.Println("Operation cancelled.")
				return
			}
		}

		removed, err := taskStore.Delete(id)
		if err != nil {
			HandleFatalError("Error: Failed to delete task.", err)
		}
		if !removed {
			fmt.Printf("No task with ID '%s'.\n", id)
			return
		}
		fmt.Printf("Deleted '%s'.\n", title)
	},
}

var deleteYes bool

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
}
