package store

import (
	"github.com/yuhanbo/pomotask/internal/calendar"
	"github.com/yuhanbo/pomotask/models"
)

// Patch carries partial updates for a task. Nil fields are left
// untouched.
type Patch struct {
	Title       *string
	Description *string
	Progress    *int
	IsCompleted *bool
	DueDate     *calendar.Date
	Tags        []string
	SubTasks    []models.SubTask
}

// TaskStore is the contract exposed to presentation-layer consumers. It
// owns the three task collections and drives persistence; every
// mutating operation ends with a flush of the affected resources.
type TaskStore interface {
	// Initialize prepares the backing directories and resource files.
	// It must be called before any other operation.
	Initialize() error

	// LoadAll reads every backing resource into memory, repairing
	// records that are missing generated fields.
	LoadAll() error

	// Add validates and stores a new task, assigning its ID, creation
	// date, and (for repeating tasks) initial execution date.
	Add(task models.Task) (models.Task, error)

	// Update merges patch onto the task with the given ID. Setting
	// IsCompleted drives the completion lifecycle: one-time tasks move
	// to the completed collection, repeating tasks emit a snapshot and
	// reset their template.
	Update(id string, patch Patch) (models.Task, error)

	// Delete removes the task from whichever collection holds it and
	// reports whether a deletion occurred.
	Delete(id string) (bool, error)

	// GetByID finds a task across all collections, repeating first.
	GetByID(id string) (models.Task, bool)

	// GetAll returns every repeating template and one-time task regardless
	// of schedule or completion.
	GetAll() []models.Task

	// GetAllActive returns the one-time tasks not yet completed plus the
	// repeating tasks due today, excluding anything past its due date.
	GetAllActive() []models.Task

	// CleanupExpiredRepeating removes repeating tasks whose due date is
	// strictly before ref and returns the removed count.
	CleanupExpiredRepeating(ref calendar.Date) (int, error)

	// Close releases the store's file lock.
	Close() error
}
