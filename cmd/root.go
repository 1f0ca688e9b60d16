/*
Copyright © 2025 Yuhan Bo
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yuhanbo/pomotask/internal/calendar"
	"github.com/yuhanbo/pomotask/models"
	"github.com/yuhanbo/pomotask/store"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables debug logging.
	verbose bool
	// ErrNoTasksFound is returned when an interactive selection is attempted
	// but no tasks match.
	ErrNoTasksFound = errors.New("no tasks found matching your criteria")
	// version is the application version.
	version = "0.1.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pomotask",
	Short: "pomotask manages one-time and repeating tasks with a pomodoro timer.",
	Long: `pomotask keeps your tasks in plain markdown checklists: one file for
one-time tasks, one file per repeating cycle, and one file per completion day.
It schedules repeating tasks, runs a pomodoro timer against them, and can ask
an LLM to split a task into subtasks.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			_ = cmd.Help()
			os.Exit(0)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.pomotask.yaml or ./.pomotask.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// GetStore initializes the markdown store, loads every resource, and runs
// the startup sweep that drops repeating tasks past their due date.
func GetStore() (*store.MarkdownTaskStore, error) {
	config := GetConfig()
	s := store.NewMarkdownTaskStore(nil, config.Tasks, nil)
	if err := s.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	if err := s.LoadAll(); err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	if _, err := s.CleanupExpiredRepeating(calendar.Today(nil)); err != nil {
		return nil, fmt.Errorf("startup cleanup failed: %w", err)
	}
	return s, nil
}

// selectTaskInteractive presents a prompt to select a task from a list,
// optionally filtered.
func selectTaskInteractive(taskStore store.TaskStore, filterFn func(models.Task) bool, label string) (models.Task, error) {
	tasks := taskStore.GetAllActive()
	if filterFn != nil {
		filtered := tasks[:0]
		for _, t := range tasks {
			if filterFn(t) {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}
	if len(tasks) == 0 {
		return models.Task{}, ErrNoTasksFound
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   `> {{ .Title | cyan }} ({{ .Progress }}%)`,
		Inactive: `  {{ .Title | faint }} ({{ .Progress }}%)`,
		Selected: `{{ "✔" | green }} {{ .Title | faint }}`,
	}
	prompt := promptui.Select{
		Label:     label,
		Items:     tasks,
		Templates: templates,
		Size:      10,
	}
	i, _, err := prompt.Run()
	if err != nil {
		return models.Task{}, err
	}
	return tasks[i], nil
}
