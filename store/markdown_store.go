package store

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/afero"

	"github.com/yuhanbo/pomotask/internal/calendar"
	"github.com/yuhanbo/pomotask/internal/record"
	"github.com/yuhanbo/pomotask/internal/recur"
	"github.com/yuhanbo/pomotask/models"
	"github.com/yuhanbo/pomotask/types"
)

const (
	oneTimeFile     = "onetime_tasks.md"
	repeatingPrefix = "repeating_"
	completedPrefix = "completed_"

	oneTimeHeader   = "# 一次性任务\n\n"
	repeatingSect   = "# 重复性任务\n\n"
	completedHeader = "# 已完成任务 - %s\n\n"
)

var cycleNames = map[models.Cycle]string{
	models.CycleDaily:   "每天",
	models.CycleWeekly:  "每周",
	models.CycleMonthly: "每月",
	models.CycleYearly:  "每年",
}

// MarkdownTaskStore implements TaskStore on top of checklist markdown
// files: one file per repeating cycle, one for one-time tasks, and one
// per completion day.
type MarkdownTaskStore struct {
	fs  afero.Fs
	flk *flock.Flock
	now func() time.Time
	cfg types.TasksConfig

	mu        sync.Mutex
	oneTime   []models.Task
	repeating []models.Task
	completed []models.Task
	// completedDays tracks every completion-day resource seen on load or
	// written since, so deletions rewrite the right files.
	completedDays map[calendar.Date]struct{}
}

// NewMarkdownTaskStore creates a store over the given filesystem. A nil
// fs selects the OS filesystem with a cross-process file lock; tests
// pass afero.NewMemMapFs(). now is the UTC+8 reference clock source.
func NewMarkdownTaskStore(fs afero.Fs, cfg types.TasksConfig, now func() time.Time) *MarkdownTaskStore {
	s := &MarkdownTaskStore{fs: fs, cfg: cfg, now: now, completedDays: make(map[calendar.Date]struct{})}
	if s.now == nil {
		s.now = time.Now
	}
	if s.fs == nil {
		s.fs = afero.NewOsFs()
		s.flk = flock.New(filepath.Join(cfg.RepeatingDir, ".pomotask.lock"))
	}
	return s
}

func (s *MarkdownTaskStore) today() calendar.Date {
	return calendar.Today(s.now)
}

// Initialize creates the backing directories and any missing resource
// files with their headers.
func (s *MarkdownTaskStore) Initialize() error {
	for _, dir := range []string{s.cfg.OneTimeDir, s.cfg.RepeatingDir, s.cfg.CompletedDir} {
		if dir == "" {
			return types.NewValidationError("tasks", "task directory not configured")
		}
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return &types.PersistenceError{Path: dir, Op: "mkdir", Err: err}
		}
	}

	if err := s.lock(); err != nil {
		return err
	}
	defer s.unlock()

	path := filepath.Join(s.cfg.OneTimeDir, oneTimeFile)
	if err := s.ensureFile(path, oneTimeHeader); err != nil {
		return err
	}
	for _, cycle := range models.Cycles {
		if err := s.ensureFile(s.repeatingPath(cycle), repeatingHeader(cycle)); err != nil {
			return err
		}
	}
	return nil
}

func (s *MarkdownTaskStore) ensureFile(path, header string) error {
	exists, err := afero.Exists(s.fs, path)
	if err != nil {
		return &types.PersistenceError{Path: path, Op: "stat", Err: err}
	}
	if exists {
		return nil
	}
	return s.writeResource(path, []byte(header))
}

func (s *MarkdownTaskStore) repeatingPath(cycle models.Cycle) string {
	return filepath.Join(s.cfg.RepeatingDir, repeatingPrefix+string(cycle)+".md")
}

func (s *MarkdownTaskStore) completedPath(day calendar.Date) string {
	return filepath.Join(s.cfg.CompletedDir, completedPrefix+day.String()+".md")
}

func repeatingHeader(cycle models.Cycle) string {
	return fmt.Sprintf("# 重复性任务 - %s\n\n", cycleNames[cycle])
}

// LoadAll reads every resource into the in-memory collections. Read
// failures on individual resources are logged and skipped so one bad
// file does not block the rest, matching the per-record tolerance of
// the parser.
func (s *MarkdownTaskStore) LoadAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.today()
	s.oneTime = nil
	s.repeating = nil
	s.completed = nil
	s.completedDays = make(map[calendar.Date]struct{})

	if text, err := s.readResource(filepath.Join(s.cfg.OneTimeDir, oneTimeFile)); err == nil {
		s.oneTime = record.ParseTasks(text, models.TypeOneTime, today)
	} else {
		slog.Warn("skipping unreadable one-time resource", "error", err)
	}

	for _, cycle := range models.Cycles {
		text, err := s.readResource(s.repeatingPath(cycle))
		if err != nil {
			slog.Warn("skipping unreadable repeating resource", "cycle", cycle, "error", err)
			continue
		}
		s.repeating = append(s.repeating, record.ParseTasks(text, models.TypeRepeating, today)...)
	}

	entries, err := afero.ReadDir(s.fs, s.cfg.CompletedDir)
	if err == nil {
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasPrefix(name, completedPrefix) || !strings.HasSuffix(name, ".md") {
				continue
			}
			text, err := s.readResource(filepath.Join(s.cfg.CompletedDir, name))
			if err != nil {
				slog.Warn("skipping unreadable completed resource", "file", name, "error", err)
				continue
			}
			day := completedDay(name, today)
			s.completedDays[day] = struct{}{}
			tasks := record.ParseTasks(text, models.TypeOneTime, today)
			for i := range tasks {
				if tasks[i].CompletedDate.IsZero() {
					tasks[i].CompletedDate = day
				}
			}
			s.completed = append(s.completed, tasks...)
		}
	}

	s.repairLoaded(today)
	return nil
}

// completedDay recovers the completion day from a completed_<date>.md
// filename, falling back to today.
func completedDay(name string, today calendar.Date) calendar.Date {
	raw := strings.TrimSuffix(strings.TrimPrefix(name, completedPrefix), ".md")
	if d, err := calendar.Parse(raw); err == nil {
		return d
	}
	return today
}

// repairLoaded fills in fields the parser could not recover: one-time
// tasks get today as a due date, repeating templates without an
// execution date get one computed from their cycle.
func (s *MarkdownTaskStore) repairLoaded(today calendar.Date) {
	for i := range s.oneTime {
		if s.oneTime[i].DueDate.IsZero() {
			slog.Warn("one-time task missing due date, defaulting to today", "task", s.oneTime[i].Title)
			s.oneTime[i].DueDate = today
		}
	}
	for i := range s.repeating {
		t := &s.repeating[i]
		if t.Recurrence == nil {
			slog.Warn("repeating task missing cycle, defaulting to daily", "task", t.Title)
			t.Recurrence = &models.Recurrence{Cycle: models.CycleDaily}
		}
		if t.Recurrence.ExecuteDate.IsZero() {
			exec, period := recur.ComputeInitial(t.Recurrence.Cycle, t.Recurrence.Period, today)
			t.Recurrence.ExecuteDate = exec
			t.Recurrence.Period = period
		}
	}
}

// Add validates and stores a task per its type, then flushes the
// affected resource.
func (s *MarkdownTaskStore) Add(task models.Task) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(task.Title) == "" {
		return models.Task{}, types.NewValidationError("title", "title must not be empty")
	}

	today := s.today()
	if task.ID == "" {
		task.ID = newTaskID()
	}
	task.CreatedDate = today
	task.Status = models.StatusActive
	task.IsCompleted = false

	if err := s.lock(); err != nil {
		return models.Task{}, err
	}
	defer s.unlock()

	switch task.Type {
	case models.TypeRepeating:
		if err := task.Validate(); err != nil {
			return models.Task{}, err
		}
		exec, period := recur.ComputeInitial(task.Recurrence.Cycle, task.Recurrence.Period, today)
		task.Recurrence.ExecuteDate = exec
		task.Recurrence.Period = period
		s.repeating = append(s.repeating, task)
		if err := s.appendRepeating(task); err != nil {
			return models.Task{}, err
		}
	default:
		task.Type = models.TypeOneTime
		task.Recurrence = nil
		if task.DueDate.IsZero() {
			task.DueDate = today
		}
		if err := task.Validate(); err != nil {
			return models.Task{}, err
		}
		s.oneTime = append(s.oneTime, task)
		if err := s.flushOneTime(); err != nil {
			return models.Task{}, err
		}
	}

	return task, nil
}

// Update merges patch onto the identified task. A patch that sets
// IsCompleted runs the completion lifecycle.
func (s *MarkdownTaskStore) Update(id string, patch Patch) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := s.findLocked(id)
	if task == nil {
		return models.Task{}, types.NewNotFoundError(id)
	}

	applyPatch(task, patch)

	if err := s.lock(); err != nil {
		return models.Task{}, err
	}
	defer s.unlock()

	completing := patch.IsCompleted != nil && *patch.IsCompleted
	if completing {
		today := s.today()
		for i := range task.SubTasks {
			task.SubTasks[i].Completed = true
		}
		task.Progress = 100
		task.IsCompleted = true
		task.Status = models.StatusCompleted

		if task.Type == models.TypeRepeating {
			snapshot := task.Clone()
			snapshot.CompletedDate = today
			s.completed = append(s.completed, snapshot)

			// Reset the template for the next occurrence. The advance is
			// a fixed offset from today, not from the previous slot.
			task.Progress = 0
			task.IsCompleted = false
			task.Status = models.StatusActive
			for i := range task.SubTasks {
				task.SubTasks[i].Completed = false
			}
			task.Recurrence.ExecuteDate = recur.Advance(task.Recurrence.Cycle, today)
		} else {
			// Move only when the task still lives in the one-time
			// collection; re-completing an already-completed task must not
			// append a second copy.
			moved := *task
			moved.CompletedDate = today
			if s.removeFromOneTime(id) {
				s.completed = append(s.completed, moved)
				task = &s.completed[len(s.completed)-1]
			}
		}
	}

	if err := s.flushAll(); err != nil {
		return models.Task{}, err
	}
	return *task, nil
}

func applyPatch(task *models.Task, patch Patch) {
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Progress != nil {
		task.Progress = *patch.Progress
	}
	if patch.DueDate != nil {
		task.DueDate = *patch.DueDate
	}
	if patch.Tags != nil {
		task.Tags = patch.Tags
	}
	if patch.SubTasks != nil {
		task.SubTasks = patch.SubTasks
	}
}

// Delete removes the task from whichever collection contains it,
// repeating first, and reports whether anything was removed.
func (s *MarkdownTaskStore) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for _, list := range []*[]models.Task{&s.repeating, &s.oneTime, &s.completed} {
		for i := range *list {
			if (*list)[i].ID == id {
				*list = append((*list)[:i], (*list)[i+1:]...)
				found = true
				break
			}
		}
		if found {
			break
		}
	}
	if !found {
		return false, nil
	}

	if err := s.lock(); err != nil {
		return false, err
	}
	defer s.unlock()

	if err := s.flushAll(); err != nil {
		return false, err
	}
	return true, nil
}

// GetByID scans repeating, then one-time, then completed. IDs are
// unique across collections, so first match wins.
func (s *MarkdownTaskStore) GetByID(id string) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t := s.findLocked(id); t != nil {
		return *t, true
	}
	return models.Task{}, false
}

func (s *MarkdownTaskStore) findLocked(id string) *models.Task {
	for _, list := range []*[]models.Task{&s.repeating, &s.oneTime, &s.completed} {
		for i := range *list {
			if (*list)[i].ID == id {
				return &(*list)[i]
			}
		}
	}
	return nil
}

// GetAll returns every repeating template followed by every one-time
// task, regardless of schedule or completion.
func (s *MarkdownTaskStore) GetAll() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]models.Task, 0, len(s.repeating)+len(s.oneTime))
	all = append(all, s.repeating...)
	all = append(all, s.oneTime...)
	return all
}

// GetAllActive returns repeating tasks due today followed by the
// one-time tasks not yet completed. Tasks past their due date are
// excluded regardless of cycle.
func (s *MarkdownTaskStore) GetAllActive() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.today()
	var active []models.Task
	for _, t := range s.repeating {
		if !t.DueDate.IsZero() && t.DueDate.Before(today) {
			continue
		}
		if IsDueOn(t, today) {
			active = append(active, t)
		}
	}
	for _, t := range s.oneTime {
		if !t.IsCompleted {
			active = append(active, t)
		}
	}
	return active
}

// IsDueOn reports whether a repeating task is due on date: the
// execution date must not be in the future, and for weekly, monthly and
// yearly cycles it must fall on the same slot as date.
func IsDueOn(t models.Task, date calendar.Date) bool {
	if t.Recurrence == nil || t.Recurrence.ExecuteDate.IsZero() {
		return false
	}
	exec := t.Recurrence.ExecuteDate
	if exec.After(date) {
		return false
	}
	switch t.Recurrence.Cycle {
	case models.CycleDaily:
		return true
	case models.CycleWeekly:
		return exec.Weekday() == date.Weekday()
	case models.CycleMonthly:
		return exec.Day == date.Day
	case models.CycleYearly:
		return exec.Month == date.Month && exec.Day == date.Day
	default:
		return false
	}
}

// CleanupExpiredRepeating removes repeating tasks whose due date is
// strictly before ref. Tasks without a due date never expire. The
// repeating resources are flushed only when something was removed.
func (s *MarkdownTaskStore) CleanupExpiredRepeating(ref calendar.Date) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.repeating[:0]
	removed := 0
	for _, t := range s.repeating {
		if !t.DueDate.IsZero() && t.DueDate.Before(ref) {
			slog.Info("removing expired repeating task", "task", t.Title, "dueDate", t.DueDate.String())
			removed++
			continue
		}
		kept = append(kept, t)
	}
	s.repeating = kept

	if removed == 0 {
		return 0, nil
	}

	if err := s.lock(); err != nil {
		return 0, err
	}
	defer s.unlock()

	if err := s.flushRepeating(); err != nil {
		return 0, err
	}
	return removed, nil
}

// RunPeriodicCleanup sweeps expired repeating tasks every interval
// until done is closed. Long-running consumers start this once after
// the initial startup sweep.
func (s *MarkdownTaskStore) RunPeriodicCleanup(done <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if _, err := s.CleanupExpiredRepeating(s.today()); err != nil {
				slog.Warn("periodic cleanup failed", "error", err)
			}
		}
	}
}

// Close releases the cross-process file lock, if one is held.
func (s *MarkdownTaskStore) Close() error {
	if s.flk != nil {
		return s.flk.Unlock()
	}
	return nil
}

func (s *MarkdownTaskStore) removeFromOneTime(id string) bool {
	for i := range s.oneTime {
		if s.oneTime[i].ID == id {
			s.oneTime = append(s.oneTime[:i], s.oneTime[i+1:]...)
			return true
		}
	}
	return false
}

func (s *MarkdownTaskStore) lock() error {
	if s.flk == nil {
		return nil
	}
	if err := s.flk.Lock(); err != nil {
		return &types.PersistenceError{Path: s.flk.Path(), Op: "lock", Err: err}
	}
	return nil
}

func (s *MarkdownTaskStore) unlock() {
	if s.flk != nil {
		_ = s.flk.Unlock()
	}
}
