package models

import (
	"errors"
	"testing"
	"time"

	"github.com/yuhanbo/pomotask/internal/calendar"
	"github.com/yuhanbo/pomotask/types"
)

func TestValidateOneTime(t *testing.T) {
	task := NewTask("Write report", TypeOneTime)
	task.DueDate = calendar.NewDate(2025, time.June, 1)

	if err := task.Validate(); err != nil {
		t.Fatalf("valid one-time task rejected: %v", err)
	}

	task.DueDate = calendar.Date{}
	err := task.Validate()
	var verr *types.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for missing due date, got %v", err)
	}
	if verr.Field != "dueDate" {
		t.Errorf("Field = %q, want dueDate", verr.Field)
	}
}

func TestValidateRepeating(t *testing.T) {
	task := NewTask("Weekly review", TypeRepeating)
	task.Recurrence = &Recurrence{Cycle: CycleWeekly, Period: "1"}
	if err := task.Validate(); err != nil {
		t.Fatalf("valid weekly task rejected: %v", err)
	}

	// Daily needs no period.
	task.Recurrence = &Recurrence{Cycle: CycleDaily}
	if err := task.Validate(); err != nil {
		t.Fatalf("daily task without period rejected: %v", err)
	}

	// Weekly without a period is invalid.
	task.Recurrence = &Recurrence{Cycle: CycleWeekly}
	if err := task.Validate(); err == nil {
		t.Error("weekly task without period accepted")
	}

	// Repeating without any recurrence is invalid.
	task.Recurrence = nil
	if err := task.Validate(); err == nil {
		t.Error("repeating task without cycle accepted")
	}
}

func TestValidateTitleRequired(t *testing.T) {
	task := NewTask("", TypeOneTime)
	task.DueDate = calendar.NewDate(2025, time.June, 1)
	if err := task.Validate(); err == nil {
		t.Error("task without title accepted")
	}
}

func TestValidateProgressRange(t *testing.T) {
	task := NewTask("x", TypeOneTime)
	task.DueDate = calendar.NewDate(2025, time.June, 1)
	task.Progress = 101
	if err := task.Validate(); err == nil {
		t.Error("progress > 100 accepted")
	}
}

func TestCloneIsDeep(t *testing.T) {
	task := NewTask("template", TypeRepeating)
	task.Recurrence = &Recurrence{Cycle: CycleDaily}
	task.SubTasks = []SubTask{{Text: "a", Completed: true}}
	task.Tags = []string{"work"}

	snapshot := task.Clone()
	task.SubTasks[0].Completed = false
	task.Recurrence.Cycle = CycleWeekly
	task.Tags[0] = "changed"

	if !snapshot.SubTasks[0].Completed {
		t.Error("snapshot subtask state mutated through template reset")
	}
	if snapshot.Recurrence.Cycle != CycleDaily {
		t.Error("snapshot recurrence aliased to template")
	}
	if snapshot.Tags[0] != "work" {
		t.Error("snapshot tags aliased to template")
	}
}
