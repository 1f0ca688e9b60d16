// Package llm integrates chat-completion providers for task
// decomposition.
package llm

import "context"

// Provider generates subtask suggestions for a task.
type Provider interface {
	// GenerateSubtasks asks the model to break the task into an ordered
	// list of actionable steps.
	GenerateSubtasks(ctx context.Context, title, description string) ([]string, error)
}
