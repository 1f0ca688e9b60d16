// Package record maps tasks to and from their checklist text form.
//
// One record is a markdown checklist block:
//
//	- [ ] 任务标题
//	  - ID: <id>
//	  - 类型: 重复任务|一次性任务
//	  - 描述: ...
//	  - 进度: 40%
//	  - 创建日期: 2024-01-08
//	  - 截止日期: 2024-06-01
//	  - 周期: weekly
//	  - 周期单位: 1
//	  - 执行日期: 2024-01-15
//	  - 标签: a, b
//	  - 子任务:
//	    - [x] step one
//
// Formatting is deterministic and parse tolerates partial or malformed
// input: a broken field is dropped, a record without a title is skipped,
// and the rest of the text is always processed.
package record

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/yuhanbo/pomotask/internal/calendar"
	"github.com/yuhanbo/pomotask/models"
	"github.com/yuhanbo/pomotask/types"
)

const (
	labelID          = "ID"
	labelType        = "类型"
	labelDescription = "描述"
	labelProgress    = "进度"
	labelCreated     = "创建日期"
	labelDue         = "截止日期"
	labelCycle       = "周期"
	labelCyclePeriod = "周期单位"
	labelExecute     = "执行日期"
	labelTags        = "标签"
	labelSubTasks    = "子任务"

	typeRepeating = "重复任务"
	typeOneTime   = "一次性任务"
)

var (
	checkboxRe = regexp.MustCompile(`^- \[([x ])\] (.*)$`)
	fieldRe    = regexp.MustCompile(`^\s*- ([^:：]+): ?(.*)$`)
	subTaskRe  = regexp.MustCompile(`^\s*- \[([x ])\] (.+)$`)
)

// FormatTask renders the canonical text form of a task. It fails only
// when the title is missing; every other field is optional.
func FormatTask(t models.Task) (string, error) {
	if strings.TrimSpace(t.Title) == "" {
		return "", &types.FormatError{Message: "task has no title"}
	}

	var b strings.Builder
	mark := " "
	if t.Progress == 100 || t.Status == models.StatusCompleted {
		mark = "x"
	}
	fmt.Fprintf(&b, "- [%s] %s\n", mark, t.Title)

	id := t.ID
	if id == "" {
		id = uuid.NewString()
	}
	fmt.Fprintf(&b, "  - %s: %s\n", labelID, id)

	typeName := typeOneTime
	if t.Type == models.TypeRepeating {
		typeName = typeRepeating
	}
	fmt.Fprintf(&b, "  - %s: %s\n", labelType, typeName)

	if t.Description != "" {
		fmt.Fprintf(&b, "  - %s: %s\n", labelDescription, t.Description)
	}

	fmt.Fprintf(&b, "  - %s: %d%%\n", labelProgress, t.Progress)

	if !t.CreatedDate.IsZero() {
		fmt.Fprintf(&b, "  - %s: %s\n", labelCreated, t.CreatedDate)
	}
	if !t.DueDate.IsZero() {
		fmt.Fprintf(&b, "  - %s: %s\n", labelDue, t.DueDate)
	}

	if t.Type == models.TypeRepeating && t.Recurrence != nil {
		fmt.Fprintf(&b, "  - %s: %s\n", labelCycle, t.Recurrence.Cycle)
		if t.Recurrence.Period != "" {
			fmt.Fprintf(&b, "  - %s: %s\n", labelCyclePeriod, t.Recurrence.Period)
		}
		if !t.Recurrence.ExecuteDate.IsZero() {
			fmt.Fprintf(&b, "  - %s: %s\n", labelExecute, t.Recurrence.ExecuteDate)
		}
	}

	if len(t.Tags) > 0 {
		fmt.Fprintf(&b, "  - %s: %s\n", labelTags, strings.Join(t.Tags, ", "))
	}

	if len(t.SubTasks) > 0 {
		fmt.Fprintf(&b, "  - %s:\n", labelSubTasks)
		for _, st := range t.SubTasks {
			m := " "
			if st.Completed {
				m = "x"
			}
			fmt.Fprintf(&b, "    - [%s] %s\n", m, st.Text)
		}
	}

	return b.String(), nil
}

// ParseTasks scans text for checklist records and converts each into a
// task. today supplies the default creation date for records missing
// one. Records without a title are skipped with a warning; individual
// fields that fail to parse are dropped without discarding the record.
func ParseTasks(text string, defaultType models.TaskType, today calendar.Date) []models.Task {
	var tasks []models.Task
	for _, block := range splitRecords(text) {
		task, ok := parseRecord(block, defaultType, today)
		if !ok {
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks
}

// rawRecord is one checklist block: the checkbox line plus its indented
// body lines.
type rawRecord struct {
	checked bool
	title   string
	body    []string
}

func splitRecords(text string) []rawRecord {
	var records []rawRecord
	var current *rawRecord
	for _, line := range strings.Split(text, "\n") {
		if m := checkboxRe.FindStringSubmatch(line); m != nil {
			if current != nil {
				records = append(records, *current)
			}
			current = &rawRecord{checked: m[1] == "x", title: strings.TrimSpace(m[2])}
			continue
		}
		if current != nil {
			current.body = append(current.body, line)
		}
	}
	if current != nil {
		records = append(records, *current)
	}
	return records
}

func parseRecord(r rawRecord, defaultType models.TaskType, today calendar.Date) (models.Task, bool) {
	if r.title == "" {
		slog.Warn("skipping record without title")
		return models.Task{}, false
	}

	task := models.Task{
		Title:  r.title,
		Type:   defaultType,
		Status: models.StatusActive,
	}
	if r.checked {
		task.Progress = 100
		task.IsCompleted = true
		task.Status = models.StatusCompleted
	}

	fields := map[string]string{}
	var subLines []string
	inSubTasks := false
	for _, line := range r.body {
		if inSubTasks {
			if subTaskRe.MatchString(line) {
				subLines = append(subLines, line)
				continue
			}
			inSubTasks = false
		}
		m := fieldRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		label := strings.TrimSpace(m[1])
		if label == labelSubTasks {
			inSubTasks = true
			continue
		}
		fields[label] = strings.TrimSpace(m[2])
	}

	if id, ok := fields[labelID]; ok && id != "" {
		task.ID = id
	} else {
		task.ID = uuid.NewString()
	}

	if typeName, ok := fields[labelType]; ok {
		if strings.Contains(typeName, "重复") {
			task.Type = models.TypeRepeating
		} else {
			task.Type = models.TypeOneTime
		}
	}

	task.Description = fields[labelDescription]

	if !task.IsCompleted {
		if p, ok := fields[labelProgress]; ok {
			if n, err := strconv.Atoi(strings.TrimSuffix(p, "%")); err == nil && n >= 0 && n <= 100 {
				task.Progress = n
			} else {
				slog.Warn("dropping unparseable progress", "task", task.Title, "value", p)
			}
		}
	}

	task.CreatedDate = parseDateField(fields, labelCreated, task.Title)
	if task.CreatedDate.IsZero() {
		task.CreatedDate = today
	}
	task.DueDate = parseDateField(fields, labelDue, task.Title)

	if tags, ok := fields[labelTags]; ok && tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				task.Tags = append(task.Tags, tag)
			}
		}
	}

	for _, line := range subLines {
		m := subTaskRe.FindStringSubmatch(line)
		task.SubTasks = append(task.SubTasks, models.SubTask{
			Completed: m[1] == "x",
			Text:      strings.TrimSpace(m[2]),
		})
	}

	// A cycle field forces the repeating type even when the 类型 line is
	// missing or contradictory; a repeating record without a cycle
	// defaults to daily.
	cycle, hasCycle := fields[labelCycle]
	if hasCycle || task.Type == models.TypeRepeating {
		task.Type = models.TypeRepeating
		rec := &models.Recurrence{Cycle: models.CycleDaily}
		if hasCycle {
			switch c := models.Cycle(cycle); c {
			case models.CycleDaily, models.CycleWeekly, models.CycleMonthly, models.CycleYearly:
				rec.Cycle = c
			default:
				slog.Warn("unknown cycle, defaulting to daily", "task", task.Title, "cycle", cycle)
			}
		}
		rec.Period = fields[labelCyclePeriod]
		rec.ExecuteDate = parseDateField(fields, labelExecute, task.Title)
		task.Recurrence = rec
	}

	return task, true
}

func parseDateField(fields map[string]string, label, title string) calendar.Date {
	s, ok := fields[label]
	if !ok || s == "" {
		return calendar.Date{}
	}
	d, err := calendar.Parse(s)
	if err != nil {
		slog.Warn("dropping unparseable date field", "task", title, "field", label, "value", s)
		return calendar.Date{}
	}
	return d
}
