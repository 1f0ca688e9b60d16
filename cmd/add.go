package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yuhanbo/pomotask/internal/calendar"
	"github.com/yuhanbo/pomotask/models"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a one-time or repeating task",
	Long: `Add a task. Without --cycle the task is one-time and due today unless
--due is given. With --cycle the task repeats; weekly, monthly and yearly
cycles also need --period (weekday 0-6, day of month, or month-day such as 3-15).`,
	Example: `  # One-time task due at the end of the month
  pomotask add "报税" --due 2025-05-31

  # Repeat every Wednesday
  pomotask add "周会" --cycle weekly --period 3

  # Repeat daily with subtask-friendly description
  pomotask add "晨跑" --cycle daily --desc "热身后跑五公里" --tags 健康`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var (
	addDescription string
	addDue         string
	addCycle       string
	addPeriod      string
	addTags        []string
)

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVar(&addDescription, "desc", "", "task description")
	addCmd.Flags().StringVar(&addDue, "due", "", "due date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&addCycle, "cycle", "", "recurrence cycle (daily, weekly, monthly, yearly)")
	addCmd.Flags().StringVar(&addPeriod, "period", "", "cycle period (weekday 0-6, day of month, or month-day)")
	addCmd.Flags().StringSliceVar(&addTags, "tags", nil, "comma-separated tags")
}

func runAdd(cmd *cobra.Command, args []string) error {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return fmt.Errorf("title cannot be empty")
	}

	taskStore, err := GetStore()
	if err != nil {
		return fmt.Errorf("could not initialize the task store: %w", err)
	}
	defer func() { _ = taskStore.Close() }()

	task := models.NewTask(title, models.TypeOneTime)
	task.Description = addDescription
	task.Tags = addTags

	if addCycle != "" {
		task.Type = models.TypeRepeating
		task.Recurrence = &models.Recurrence{
			Cycle:  models.Cycle(addCycle),
			Period: addPeriod,
		}
	}
	if addDue != "" {
		due, err := calendar.Parse(addDue)
		if err != nil {
			return err
		}
		task.DueDate = due
	}

	added, err := taskStore.Add(task)
	if err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}

	if added.Type == models.TypeRepeating {
		fmt.Printf("Added repeating task '%s' (ID: %s), next occurrence %s\n",
			added.Title, added.ID, added.Recurrence.ExecuteDate)
	} else {
		fmt.Printf("Added task '%s' (ID: %s), due %s\n", added.Title, added.ID, added.DueDate)
	}
	return nil
}
