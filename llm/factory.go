package llm

import (
	"fmt"
	"net/http"
	"time"

	"github.com/yuhanbo/pomotask/prompts"
	"github.com/yuhanbo/pomotask/types"
)

const defaultModel = "deepseek-chat"

// NewProvider builds the provider named by the configuration. An empty
// provider name selects DeepSeek.
func NewProvider(cfg types.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "", "deepseek":
		if cfg.APIKey == "" {
			return nil, types.NewValidationError("llm.apiKey", "API key is required for subtask generation")
		}
		model := cfg.ModelName
		if model == "" {
			model = defaultModel
		}
		timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		client := &http.Client{Timeout: timeout}
		template := prompts.SplitPrompt(cfg.PromptFile)
		return NewDeepSeekProvider(cfg.APIKey, model, "", template, client), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}
