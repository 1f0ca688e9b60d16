package record

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yuhanbo/pomotask/internal/calendar"
	"github.com/yuhanbo/pomotask/models"
	"github.com/yuhanbo/pomotask/types"
)

var today = calendar.NewDate(2024, time.May, 20)

func sampleRepeating() models.Task {
	return models.Task{
		ID:          "abc123",
		Title:       "每周回顾",
		Description: "整理本周笔记",
		Type:        models.TypeRepeating,
		Recurrence: &models.Recurrence{
			Cycle:       models.CycleWeekly,
			Period:      "1",
			ExecuteDate: calendar.NewDate(2024, time.May, 27),
		},
		CreatedDate: calendar.NewDate(2024, time.May, 1),
		Progress:    40,
		Status:      models.StatusActive,
		Tags:        []string{"复盘", "工作"},
		SubTasks: []models.SubTask{
			{Text: "收集笔记", Completed: true},
			{Text: "写总结", Completed: false},
		},
	}
}

func TestFormatTaskMissingTitle(t *testing.T) {
	_, err := FormatTask(models.Task{Type: models.TypeOneTime})
	var ferr *types.FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected FormatError, got %v", err)
	}
}

func TestFormatTaskLayout(t *testing.T) {
	out, err := FormatTask(sampleRepeating())
	if err != nil {
		t.Fatalf("FormatTask failed: %v", err)
	}

	want := "- [ ] 每周回顾\n" +
		"  - ID: abc123\n" +
		"  - 类型: 重复任务\n" +
		"  - 描述: 整理本周笔记\n" +
		"  - 进度: 40%\n" +
		"  - 创建日期: 2024-05-01\n" +
		"  - 周期: weekly\n" +
		"  - 周期单位: 1\n" +
		"  - 执行日期: 2024-05-27\n" +
		"  - 标签: 复盘, 工作\n" +
		"  - 子任务:\n" +
		"    - [x] 收集笔记\n" +
		"    - [ ] 写总结\n"
	if out != want {
		t.Errorf("FormatTask output mismatch:\ngot:\n%s\nwant:\n%s", out, want)
	}
}

func TestFormatTaskCompletedCheckbox(t *testing.T) {
	task := sampleRepeating()
	task.Progress = 100
	out, err := FormatTask(task)
	if err != nil {
		t.Fatalf("FormatTask failed: %v", err)
	}
	if !strings.HasPrefix(out, "- [x] ") {
		t.Errorf("progress 100 should check the box, got %q", strings.SplitN(out, "\n", 2)[0])
	}
}

func TestRoundTrip(t *testing.T) {
	first, err := FormatTask(sampleRepeating())
	if err != nil {
		t.Fatalf("format failed: %v", err)
	}

	parsed := ParseTasks(first, models.TypeRepeating, today)
	if len(parsed) != 1 {
		t.Fatalf("parsed %d tasks, want 1", len(parsed))
	}

	second, err := FormatTask(parsed[0])
	if err != nil {
		t.Fatalf("second format failed: %v", err)
	}
	if first != second {
		t.Errorf("round trip not stable:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

func TestRoundTripOneTime(t *testing.T) {
	task := models.Task{
		ID:          "id-1",
		Title:       "报税",
		Type:        models.TypeOneTime,
		DueDate:     calendar.NewDate(2024, time.June, 30),
		CreatedDate: calendar.NewDate(2024, time.May, 2),
		Status:      models.StatusActive,
	}
	first, err := FormatTask(task)
	if err != nil {
		t.Fatalf("format failed: %v", err)
	}
	parsed := ParseTasks(first, models.TypeOneTime, today)
	if len(parsed) != 1 {
		t.Fatalf("parsed %d tasks, want 1", len(parsed))
	}
	got := parsed[0]
	if got.ID != task.ID || got.Title != task.Title || got.DueDate != task.DueDate {
		t.Errorf("one-time fields lost: %+v", got)
	}
	if got.Recurrence != nil {
		t.Error("one-time task gained a recurrence")
	}
}

func TestParseGeneratesDefaults(t *testing.T) {
	text := "- [ ] 没有元数据的任务\n"
	parsed := ParseTasks(text, models.TypeOneTime, today)
	if len(parsed) != 1 {
		t.Fatalf("parsed %d tasks, want 1", len(parsed))
	}
	got := parsed[0]
	if got.ID == "" {
		t.Error("missing ID should be generated")
	}
	if got.CreatedDate != today {
		t.Errorf("created date = %v, want today %v", got.CreatedDate, today)
	}
	if !got.DueDate.IsZero() {
		t.Error("missing due date should stay absent")
	}
}

func TestParseSkipsRecordWithoutTitle(t *testing.T) {
	text := "- [ ] 正常任务\n" +
		"  - ID: ok-1\n" +
		"\n" +
		"- [ ] \n" +
		"  - ID: broken\n"
	parsed := ParseTasks(text, models.TypeOneTime, today)
	if len(parsed) != 1 {
		t.Fatalf("parsed %d tasks, want 1 (titleless record skipped)", len(parsed))
	}
	if parsed[0].ID != "ok-1" {
		t.Errorf("surviving record = %q, want ok-1", parsed[0].ID)
	}
}

func TestParseDropsBrokenFieldsOnly(t *testing.T) {
	text := "- [ ] 部分损坏\n" +
		"  - ID: keep-me\n" +
		"  - 进度: ???%\n" +
		"  - 截止日期: 下周三\n" +
		"  - 标签: a, b\n"
	parsed := ParseTasks(text, models.TypeOneTime, today)
	if len(parsed) != 1 {
		t.Fatalf("parsed %d tasks, want 1", len(parsed))
	}
	got := parsed[0]
	if got.Progress != 0 {
		t.Errorf("broken progress should fall back to 0, got %d", got.Progress)
	}
	if !got.DueDate.IsZero() {
		t.Error("broken due date should be dropped")
	}
	if len(got.Tags) != 2 {
		t.Errorf("valid tags should survive, got %v", got.Tags)
	}
}

func TestParseRepeatingMarkerForcesType(t *testing.T) {
	text := "- [ ] 晨跑\n" +
		"  - 类型: 重复任务\n"
	parsed := ParseTasks(text, models.TypeOneTime, today)
	if len(parsed) != 1 {
		t.Fatalf("parsed %d tasks, want 1", len(parsed))
	}
	got := parsed[0]
	if got.Type != models.TypeRepeating {
		t.Errorf("type = %v, want repeating", got.Type)
	}
	if got.Recurrence == nil || got.Recurrence.Cycle != models.CycleDaily {
		t.Errorf("missing cycle should default to daily, got %+v", got.Recurrence)
	}
}

func TestParseCheckedBoxForcesCompletion(t *testing.T) {
	text := "- [x] 已完成\n" +
		"  - 进度: 30%\n"
	parsed := ParseTasks(text, models.TypeOneTime, today)
	if len(parsed) != 1 {
		t.Fatalf("parsed %d tasks, want 1", len(parsed))
	}
	got := parsed[0]
	if got.Progress != 100 || !got.IsCompleted || got.Status != models.StatusCompleted {
		t.Errorf("checked box should force completion, got progress=%d status=%v", got.Progress, got.Status)
	}
}

func TestParseMultipleRecords(t *testing.T) {
	a, _ := FormatTask(sampleRepeating())
	b := "- [ ] 第二个\n  - ID: two\n"
	parsed := ParseTasks(a+"\n"+b, models.TypeRepeating, today)
	if len(parsed) != 2 {
		t.Fatalf("parsed %d tasks, want 2", len(parsed))
	}
	if parsed[1].ID != "two" {
		t.Errorf("second record ID = %q", parsed[1].ID)
	}
}

func TestParseIgnoresHeadings(t *testing.T) {
	text := "# 重复性任务 - 每周\n\n- [ ] 任务\n  - ID: h-1\n"
	parsed := ParseTasks(text, models.TypeRepeating, today)
	if len(parsed) != 1 || parsed[0].ID != "h-1" {
		t.Fatalf("heading lines should be ignored, got %+v", parsed)
	}
}
