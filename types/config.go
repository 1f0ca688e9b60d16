package types

// AppConfig represents the complete application configuration.
type AppConfig struct {
	Verbose  bool           `mapstructure:"verbose"`
	Config   string         `mapstructure:"config"`
	Tasks    TasksConfig    `mapstructure:"tasks" validate:"required"`
	Pomodoro PomodoroConfig `mapstructure:"pomodoro" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"omitempty"`
}

// TasksConfig holds the directories backing the three resource groups.
type TasksConfig struct {
	OneTimeDir   string `mapstructure:"oneTimeDir" validate:"required"`
	RepeatingDir string `mapstructure:"repeatingDir" validate:"required"`
	CompletedDir string `mapstructure:"completedDir" validate:"required"`
	// ShowRemainingDays controls whether list output includes the number
	// of days until a task's execute or due date.
	ShowRemainingDays bool `mapstructure:"showRemainingDays"`
}

// PomodoroConfig holds interval timer durations. Durations are minutes.
type PomodoroConfig struct {
	WorkDuration       int `mapstructure:"workDuration" validate:"required,min=1"`
	ShortBreakDuration int `mapstructure:"shortBreakDuration" validate:"required,min=1"`
	LongBreakDuration  int `mapstructure:"longBreakDuration" validate:"required,min=1"`
	// LongBreakInterval is the number of completed work periods between
	// long breaks.
	LongBreakInterval int `mapstructure:"longBreakInterval" validate:"required,min=1"`
	// CheckpointFile persists the session counter across restarts.
	CheckpointFile string `mapstructure:"checkpointFile"`
}

// LLMConfig holds configuration for the subtask-splitting provider.
type LLMConfig struct {
	Provider  string `mapstructure:"provider" validate:"omitempty,oneof=deepseek"`
	ModelName string `mapstructure:"modelName" validate:"omitempty,min=1"`
	APIKey    string `mapstructure:"apiKey" validate:"omitempty,min=1"`
	// PromptFile optionally overrides the built-in split prompt. The file
	// may contain {title} and {description} placeholders.
	PromptFile string `mapstructure:"promptFile"`
	// RequestTimeoutSeconds controls the HTTP client timeout for LLM calls.
	RequestTimeoutSeconds int `mapstructure:"requestTimeoutSeconds" validate:"omitempty,min=5,max=600"`
}
