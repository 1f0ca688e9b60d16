package models

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/yuhanbo/pomotask/internal/calendar"
	"github.com/yuhanbo/pomotask/types"
)

// TaskType distinguishes one-off deadline tasks from recurring templates.
type TaskType string

const (
	TypeOneTime   TaskType = "oneTime"
	TypeRepeating TaskType = "repeating"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	StatusActive    TaskStatus = "active"
	StatusCompleted TaskStatus = "completed"
)

// Cycle is the recurrence class of a repeating task.
type Cycle string

const (
	CycleDaily   Cycle = "daily"
	CycleWeekly  Cycle = "weekly"
	CycleMonthly Cycle = "monthly"
	CycleYearly  Cycle = "yearly"
)

// Cycles lists all recurrence classes in persistence order.
var Cycles = []Cycle{CycleDaily, CycleWeekly, CycleMonthly, CycleYearly}

// SubTask is one checklist entry under a task.
type SubTask struct {
	Text      string
	Completed bool
}

// Recurrence carries the cycle fields of a repeating task. A one-time
// task has a nil Recurrence, so "cycle requires cyclePeriod" is checked
// in one place instead of being scattered over optional fields.
type Recurrence struct {
	Cycle Cycle `validate:"required,oneof=daily weekly monthly yearly"`
	// Period is the cycle-specific slot: empty for daily, weekday index
	// 0-6 (0 = Sunday) for weekly, day-of-month 1-31 for monthly, and a
	// "month-day" pair such as "3-15" for yearly.
	Period string
	// ExecuteDate is the next scheduled occurrence.
	ExecuteDate calendar.Date
}

// Task represents a tracked unit of work.
type Task struct {
	ID          string
	Title       string `validate:"required"`
	Description string
	Type        TaskType `validate:"required,oneof=oneTime repeating"`
	// Recurrence is set iff Type is repeating.
	Recurrence *Recurrence
	// DueDate is the deadline of a one-time task, or the optional expiry
	// ceiling of a repeating one.
	DueDate       calendar.Date
	CreatedDate   calendar.Date
	CompletedDate calendar.Date
	Progress      int `validate:"min=0,max=100"`
	IsCompleted   bool
	Status        TaskStatus `validate:"required,oneof=active completed"`
	Tags          []string
	SubTasks      []SubTask
}

var validate = validator.New()

// NewTask creates an active task with a fresh ID.
func NewTask(title string, taskType TaskType) Task {
	return Task{
		ID:     uuid.NewString(),
		Title:  title,
		Type:   taskType,
		Status: StatusActive,
	}
}

// Validate checks field constraints plus the cross-field invariants:
// a one-time task needs a due date, a repeating task needs a cycle, and
// every cycle except daily needs a period.
func (t *Task) Validate() error {
	if err := validate.Struct(t); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if ok && len(verrs) > 0 {
			return types.NewValidationError(verrs[0].Field(), verrs[0].Tag())
		}
		return err
	}

	switch t.Type {
	case TypeOneTime:
		if t.DueDate.IsZero() {
			return types.NewValidationError("dueDate", "one-time task requires a due date")
		}
		if t.Recurrence != nil {
			return types.NewValidationError("cycle", "one-time task cannot have a cycle")
		}
	case TypeRepeating:
		if t.Recurrence == nil {
			return types.NewValidationError("cycle", "repeating task requires a cycle")
		}
		if err := validate.Struct(t.Recurrence); err != nil {
			return types.NewValidationError("cycle", "unknown cycle")
		}
		if t.Recurrence.Cycle != CycleDaily && t.Recurrence.Period == "" {
			return types.NewValidationError("cyclePeriod", string(t.Recurrence.Cycle)+" task requires a cycle period")
		}
	}
	return nil
}

// Clone returns a deep copy. Snapshots of repeating templates must stay
// frozen when the template's subtasks are reset afterwards.
func (t Task) Clone() Task {
	c := t
	if t.Recurrence != nil {
		r := *t.Recurrence
		c.Recurrence = &r
	}
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	if t.SubTasks != nil {
		c.SubTasks = append([]SubTask(nil), t.SubTasks...)
	}
	return c
}

// Cycle returns the recurrence class, or empty for one-time tasks.
func (t *Task) Cycle() Cycle {
	if t.Recurrence == nil {
		return ""
	}
	return t.Recurrence.Cycle
}
