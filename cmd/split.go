package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/yuhanbo/pomotask/llm"
	"github.com/yuhanbo/pomotask/models"
	"github.com/yuhanbo/pomotask/store"
)

// splitCmd represents the split command
var splitCmd = &cobra.Command{
	Use:   "split [task_id]",
	Short: "Split a task into subtasks with an LLM",
	Long: `Ask the configured LLM provider to break a task into actionable
subtasks. By default the suggestions are only printed; pass --apply to attach
them to the task as its subtask checklist.

Requires an API key, e.g. POMOTASK_LLM_APIKEY in the environment or llm.apiKey
in the config file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSplit,
}

var splitApply bool

func init() {
	rootCmd.AddCommand(splitCmd)
	splitCmd.Flags().BoolVar(&splitApply, "apply", false, "attach the generated subtasks to the task")
}

func runSplit(cmd *cobra.Command, args []string) error {
	config := GetConfig()
	provider, err := llm.NewProvider(config.LLM)
	if err != nil {
		return err
	}

	taskStore, err := GetStore()
	if err != nil {
		return fmt.Errorf("could not initialize the task store: %w", err)
	}
	defer func() { _ = taskStore.Close() }()

	var target models.Task
	if len(args) > 0 {
		found, ok := taskStore.GetByID(args[0])
		if !ok {
			return fmt.Errorf("no task with ID '%s'", args[0])
		}
		target = found
	} else {
		target, err = selectTaskInteractive(taskStore, nil, "Select task to split")
		if err != nil {
			if err == promptui.ErrInterrupt {
				fmt.Println("Operation cancelled.")
				return nil
			}
			if err == ErrNoTasksFound {
				fmt.Println("No tasks available to split.")
				return nil
			}
			return err
		}
	}

	fmt.Printf("Splitting '%s'...\n", target.Title)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	subtasks, err := provider.GenerateSubtasks(ctx, target.Title, target.Description)
	if err != nil {
		return fmt.Errorf("subtask generation failed: %w", err)
	}

	for i, st := range subtasks {
		fmt.Printf("  %d. %s\n", i+1, st)
	}

	if !splitApply {
		fmt.Println("Run again with --apply to attach these subtasks.")
		return nil
	}

	checklist := make([]models.SubTask, len(subtasks))
	for i, st := range subtasks {
		checklist[i] = models.SubTask{Text: st}
	}
	if _, err := taskStore.Update(target.ID, store.Patch{SubTasks: checklist}); err != nil {
		return fmt.Errorf("failed to attach subtasks: %w", err)
	}
	fmt.Printf("Attached %d subtasks to '%s'.\n", len(checklist), target.Title)
	return nil
}
