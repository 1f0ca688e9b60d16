package cmd

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yuhanbo/pomotask/models"
	"github.com/yuhanbo/pomotask/pomodoro"
)

// pomodoroCmd represents the pomodoro command
var pomodoroCmd = &cobra.Command{
	Use:     "pomodoro [task_id]",
	Aliases: []string{"pomo", "timer"},
	Short:   "Run the pomodoro timer",
	Long: `Run the interval timer in the foreground. Work and break lengths come
from the pomodoro section of the configuration; every fourth work period (by
default) earns a long break. The completed-period counter is checkpointed so
it survives restarts.

While running:
  p  pause        r  resume
  s  stop/reset   q  quit (Ctrl+C also quits)
  <number>        pick a task when prompted after a break`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPomodoro,
}

func init() {
	rootCmd.AddCommand(pomodoroCmd)
}

func runPomodoro(cmd *cobra.Command, args []string) error {
	config := GetConfig()
	taskStore, err := GetStore()
	if err != nil {
		return fmt.Errorf("could not initialize the task store: %w", err)
	}
	defer func() { _ = taskStore.Close() }()

	// Background sweep for repeating tasks that expire while the timer
	// stays up for days.
	cleanupDone := make(chan struct{})
	go taskStore.RunPeriodicCleanup(cleanupDone, 24*time.Hour)
	defer close(cleanupDone)

	var current *models.Task
	if len(args) > 0 {
		found, ok := taskStore.GetByID(args[0])
		if !ok {
			return fmt.Errorf("no task with ID '%s'", args[0])
		}
		current = &found
	}

	statusCh := make(chan pomodoro.Status, 16)
	breakEndCh := make(chan struct{}, 1)
	checkpointPath := config.Pomodoro.CheckpointFile

	timer := pomodoro.NewTimer(config.Pomodoro, pomodoro.Callbacks{
		OnStatus: func(s pomodoro.Status) {
			select {
			case statusCh <- s:
			default:
			}
		},
		OnWorkEnd: func(completed int) {
			cp := pomodoro.Checkpoint{CompletedPomodoros: completed}
			if err := pomodoro.SaveCheckpoint(nil, checkpointPath, cp); err != nil {
				fmt.Fprintf(os.Stderr, "\nwarning: checkpoint not saved: %v\n", err)
			}
			fmt.Printf("\n🍅 Work period done (%d total). Break time!\n", completed)
		},
		OnBreakEnd: func() {
			select {
			case breakEndCh <- struct{}{}:
			default:
			}
		},
	}, nil)

	if cp, err := pomodoro.LoadCheckpoint(nil, checkpointPath); err == nil {
		timer.Restore(cp)
	}

	lines := readLines(os.Stdin)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	timer.Start(current)

	selecting := false
	var selectable []models.Task
	for {
		select {
		case s := <-statusCh:
			if !selecting {
				renderStatus(s)
			}

		case <-breakEndCh:
			fmt.Println("\n☕ Break over.")
			selectable = taskStore.GetAllActive()
			if len(selectable) == 0 {
				fmt.Println("No active tasks; starting a free work period.")
				timer.Start(nil)
				continue
			}
			selecting = true
			fmt.Println("Pick the next task (Enter keeps the current one):")
			for i, t := range selectable {
				fmt.Printf("  %d. %s (%d%%)\n", i+1, t.Title, t.Progress)
			}

		case line, ok := <-lines:
			if !ok {
				saveAndReport(timer, checkpointPath)
				return nil
			}
			line = strings.TrimSpace(line)
			if selecting {
				selecting = false
				if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(selectable) {
					picked := selectable[n-1]
					current = &picked
				}
				timer.Start(current)
				continue
			}
			switch line {
			case "p":
				timer.Pause()
			case "r":
				timer.Resume()
			case "s":
				timer.Reset()
				fmt.Println("\nTimer reset.")
			case "q":
				saveAndReport(timer, checkpointPath)
				return nil
			}

		case <-sigCh:
			saveAndReport(timer, checkpointPath)
			return nil
		}
	}
}

// readLines feeds stdin lines to a channel so the main loop can select
// over input, timer status, and signals at once.
func readLines(f *os.File) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			ch <- scanner.Text()
		}
	}()
	return ch
}

var stateLabels = map[pomodoro.State]string{
	pomodoro.StateIdle:       "⏸ idle",
	pomodoro.StateWorking:    "🍅 work",
	pomodoro.StateShortBreak: "☕ break",
	pomodoro.StateLongBreak:  "🛋 long break",
	pomodoro.StatePaused:     "⏸ paused",
}

func renderStatus(s pomodoro.Status) {
	label := stateLabels[s.State]
	task := ""
	if s.CurrentTask != nil {
		task = "  " + s.CurrentTask.Title
	}
	fmt.Printf("\r%s %02d:%02d%s    ", label, s.RemainingSeconds/60, s.RemainingSeconds%60, task)
}

func saveAndReport(timer *pomodoro.Timer, path string) {
	cp := timer.Snapshot()
	if err := pomodoro.SaveCheckpoint(nil, path, cp); err != nil {
		fmt.Fprintf(os.Stderr, "\nwarning: checkpoint not saved: %v\n", err)
	}
	timer.Reset()
	fmt.Printf("\nDone. %d pomodoro(s) completed this session.\n", cp.CompletedPomodoros)
}
