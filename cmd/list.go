package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yuhanbo/pomotask/internal/calendar"
	"github.com/yuhanbo/pomotask/models"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks due today",
	Long: `List the tasks that need attention today: repeating tasks whose cycle
falls on today plus one-time tasks not yet completed. Use --all to show every
repeating template regardless of schedule.`,
	RunE: runList,
}

var listAll bool

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listAll, "all", false, "include repeating tasks not due today")
}

func runList(cmd *cobra.Command, args []string) error {
	taskStore, err := GetStore()
	if err != nil {
		return fmt.Errorf("could not initialize the task store: %w", err)
	}
	defer func() { _ = taskStore.Close() }()

	var tasks []models.Task
	if listAll {
		tasks = taskStore.GetAll()
	} else {
		tasks = taskStore.GetAllActive()
	}
	if len(tasks) == 0 {
		fmt.Println("No tasks. Add one with 'pomotask add'.")
		return nil
	}

	today := calendar.Today(nil)
	showRemaining := GetConfig().Tasks.ShowRemainingDays
	for _, t := range tasks {
		fmt.Println(formatTaskLine(t, today, showRemaining))
	}
	return nil
}

// formatTaskLine renders one task as a single list row.
func formatTaskLine(t models.Task, today calendar.Date, showRemaining bool) string {
	box := " "
	if t.IsCompleted {
		box = "x"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s (%d%%)", box, t.Title, t.Progress)

	if t.Type == models.TypeRepeating && t.Recurrence != nil {
		fmt.Fprintf(&b, "  %s", t.Recurrence.Cycle)
		if showRemaining {
			b.WriteString(remainingLabel(today, t.Recurrence.ExecuteDate, "next"))
		}
	} else if !t.DueDate.IsZero() && showRemaining {
		b.WriteString(remainingLabel(today, t.DueDate, "due"))
	}

	if len(t.Tags) > 0 {
		fmt.Fprintf(&b, "  #%s", strings.Join(t.Tags, " #"))
	}
	fmt.Fprintf(&b, "  [%s]", t.ID)
	return b.String()
}

func remainingLabel(today, target calendar.Date, kind string) string {
	if target.IsZero() {
		return ""
	}
	switch days := calendar.DaysBetween(today, target); {
	case days == 0:
		return fmt.Sprintf("  (%s today)", kind)
	case days > 0:
		return fmt.Sprintf("  (%s in %dd)", kind, days)
	default:
		return fmt.Sprintf("  (%s %dd overdue)", kind, -days)
	}
}
