// Package prompts holds the default model prompt templates and the
// file-override mechanism. Templates use {title} and {description}
// placeholders.
package prompts

import (
	"log/slog"
	"os"
	"strings"
)

// DefaultSplitPrompt asks the model to break a task into actionable
// steps, one per line.
const DefaultSplitPrompt = `请将下面的任务拆解为若干个可以直接执行的子任务。

任务标题：{title}
任务描述：{description}

要求：
1. 每个子任务单独一行，以数字编号开头
2. 子任务之间相互独立，按执行顺序排列
3. 不超过 10 个子任务
4. 只输出子任务列表，不要输出其他内容`

// SplitPrompt returns the split template, preferring the override file
// when one is configured and readable.
func SplitPrompt(overridePath string) string {
	if overridePath == "" {
		return DefaultSplitPrompt
	}
	data, err := os.ReadFile(overridePath)
	if err != nil {
		slog.Warn("prompt override unreadable, using default", "path", overridePath, "error", err)
		return DefaultSplitPrompt
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		slog.Warn("prompt override empty, using default", "path", overridePath)
		return DefaultSplitPrompt
	}
	return text
}

// Render substitutes the task fields into a template.
func Render(template, title, description string) string {
	out := strings.ReplaceAll(template, "{title}", title)
	return strings.ReplaceAll(out, "{description}", description)
}
