package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/yuhanbo/pomotask/internal/calendar"
	"github.com/yuhanbo/pomotask/models"
)

func TestFormatTaskLineOneTime(t *testing.T) {
	today := calendar.NewDate(2024, time.May, 20)
	task := models.Task{
		ID:      "abc",
		Title:   "报税",
		Type:    models.TypeOneTime,
		DueDate: calendar.NewDate(2024, time.May, 23),
		Tags:    []string{"财务"},
	}

	line := formatTaskLine(task, today, true)
	for _, want := range []string{"[ ] 报税", "(due in 3d)", "#财务", "[abc]"} {
		if !strings.Contains(line, want) {
			t.Errorf("line %q missing %q", line, want)
		}
	}

	line = formatTaskLine(task, today, false)
	if strings.Contains(line, "due in") {
		t.Errorf("remaining days shown when disabled: %q", line)
	}
}

func TestFormatTaskLineRepeating(t *testing.T) {
	today := calendar.NewDate(2024, time.May, 20)
	task := models.Task{
		ID:    "r1",
		Title: "晨跑",
		Type:  models.TypeRepeating,
		Recurrence: &models.Recurrence{
			Cycle:       models.CycleDaily,
			ExecuteDate: today,
		},
		Progress: 50,
	}

	line := formatTaskLine(task, today, true)
	for _, want := range []string{"[ ] 晨跑 (50%)", "daily", "(next today)"} {
		if !strings.Contains(line, want) {
			t.Errorf("line %q missing %q", line, want)
		}
	}
}

func TestFormatTaskLineOverdue(t *testing.T) {
	today := calendar.NewDate(2024, time.May, 20)
	task := models.Task{
		ID:      "o1",
		Title:   "逾期任务",
		Type:    models.TypeOneTime,
		DueDate: calendar.NewDate(2024, time.May, 18),
	}
	line := formatTaskLine(task, today, true)
	if !strings.Contains(line, "(due 2d overdue)") {
		t.Errorf("line %q missing overdue label", line)
	}
}
