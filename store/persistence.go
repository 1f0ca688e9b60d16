package store

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/yuhanbo/pomotask/internal/calendar"
	"github.com/yuhanbo/pomotask/internal/record"
	"github.com/yuhanbo/pomotask/models"
	"github.com/yuhanbo/pomotask/types"
)

func newTaskID() string {
	return uuid.NewString()
}

func (s *MarkdownTaskStore) readResource(path string) (string, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return "", &types.PersistenceError{Path: path, Op: "read", Err: err}
	}
	return string(data), nil
}

// writeResource rewrites a resource atomically via a temp file and
// rename. On failure it retries once through a direct create-and-write
// path before surfacing a PersistenceError.
func (s *MarkdownTaskStore) writeResource(path string, content []byte) error {
	tmp := path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, content, 0o644); err == nil {
		if err := s.fs.Rename(tmp, path); err == nil {
			return nil
		}
		_ = s.fs.Remove(tmp)
	}

	slog.Warn("primary write failed, retrying via create path", "path", path)
	f, err := s.fs.Create(path)
	if err != nil {
		return &types.PersistenceError{Path: path, Op: "write", Err: err}
	}
	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		return &types.PersistenceError{Path: path, Op: "write", Err: err}
	}
	if err := f.Close(); err != nil {
		return &types.PersistenceError{Path: path, Op: "write", Err: err}
	}
	return nil
}

// renderTasks formats each task as one record separated by a blank
// line. Tasks that fail to format are logged and skipped so one bad
// record does not block the rest of the resource.
func renderTasks(header string, tasks []models.Task) string {
	var b strings.Builder
	b.WriteString(header)
	for _, t := range tasks {
		text, err := record.FormatTask(t)
		if err != nil {
			slog.Error("skipping unformattable task", "task", t.ID, "error", err)
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String()
}

func (s *MarkdownTaskStore) flushOneTime() error {
	path := filepath.Join(s.cfg.OneTimeDir, oneTimeFile)
	return s.writeResource(path, []byte(renderTasks(oneTimeHeader, s.oneTime)))
}

func (s *MarkdownTaskStore) flushRepeating() error {
	byCycle := make(map[models.Cycle][]models.Task, len(models.Cycles))
	for _, t := range s.repeating {
		cycle := t.Cycle()
		if _, ok := cycleNames[cycle]; !ok {
			slog.Warn("unknown cycle, filing under daily", "task", t.Title, "cycle", cycle)
			cycle = models.CycleDaily
		}
		byCycle[cycle] = append(byCycle[cycle], t)
	}
	for _, cycle := range models.Cycles {
		content := renderTasks(repeatingHeader(cycle), byCycle[cycle])
		if err := s.writeResource(s.repeatingPath(cycle), []byte(content)); err != nil {
			return err
		}
	}
	return nil
}

// flushCompleted rewrites every completion-day resource the store knows
// about, grouped by completion date. Days whose last task was deleted
// are rewritten header-only so the deletion survives a reload.
func (s *MarkdownTaskStore) flushCompleted() error {
	today := s.today()
	byDay := make(map[calendar.Date][]models.Task)
	for _, t := range s.completed {
		day := t.CompletedDate
		if day.IsZero() {
			day = today
		}
		byDay[day] = append(byDay[day], t)
	}
	for day := range byDay {
		s.completedDays[day] = struct{}{}
	}

	for day := range s.completedDays {
		var oneTime, repeating []models.Task
		for _, t := range byDay[day] {
			if t.Type == models.TypeRepeating {
				repeating = append(repeating, t)
			} else {
				oneTime = append(oneTime, t)
			}
		}

		var b strings.Builder
		fmt.Fprintf(&b, completedHeader, day)
		if len(oneTime) > 0 {
			b.WriteString(renderTasks(oneTimeHeader, oneTime))
		}
		if len(repeating) > 0 {
			b.WriteString(renderTasks(repeatingSect, repeating))
		}
		if err := s.writeResource(s.completedPath(day), []byte(b.String())); err != nil {
			return err
		}
	}
	return nil
}

func (s *MarkdownTaskStore) flushAll() error {
	if err := s.flushOneTime(); err != nil {
		return err
	}
	if err := s.flushRepeating(); err != nil {
		return err
	}
	return s.flushCompleted()
}

// appendRepeating adds one formatted record to the end of the task's
// cycle resource instead of rewriting it, preserving whatever text is
// already there.
func (s *MarkdownTaskStore) appendRepeating(task models.Task) error {
	path := s.repeatingPath(task.Recurrence.Cycle)
	existing, err := s.readResource(path)
	if err != nil {
		existing = repeatingHeader(task.Recurrence.Cycle)
	}
	text, ferr := record.FormatTask(task)
	if ferr != nil {
		return ferr
	}
	if existing != "" && !strings.HasSuffix(existing, "\n") {
		existing += "\n"
	}
	return s.writeResource(path, []byte(existing+text+"\n"))
}
