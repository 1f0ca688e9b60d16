package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/yuhanbo/pomotask/prompts"
)

const (
	defaultBaseURL = "https://api.deepseek.com/v1"

	// maxSubtasks caps a single decomposition regardless of how chatty
	// the model gets.
	maxSubtasks = 10

	systemPrompt = "你是一个任务拆解专家，擅长把复杂任务分解为清晰可执行的步骤。"
)

// DeepSeekProvider talks to the DeepSeek chat completions API, which
// follows the OpenAI wire format.
type DeepSeekProvider struct {
	apiKey   string
	model    string
	baseURL  string
	template string
	client   *http.Client
}

// NewDeepSeekProvider builds a provider. baseURL and client default to
// the public endpoint and http.DefaultClient when empty.
func NewDeepSeekProvider(apiKey, model, baseURL, template string, client *http.Client) *DeepSeekProvider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	if template == "" {
		template = prompts.DefaultSplitPrompt
	}
	return &DeepSeekProvider{
		apiKey:   apiKey,
		model:    model,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		template: template,
		client:   client,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateSubtasks renders the split template, performs one chat
// completion, and extracts the list items from the reply.
func (p *DeepSeekProvider) GenerateSubtasks(ctx context.Context, title, description string) ([]string, error) {
	payload := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompts.Render(p.template, title, description)},
		},
		Temperature: 0.7,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling deepseek: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading deepseek response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decoding deepseek response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(raw))
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return nil, fmt.Errorf("deepseek returned status %d: %s", resp.StatusCode, msg)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("deepseek returned no choices")
	}

	subtasks := parseSubtaskLines(parsed.Choices[0].Message.Content)
	if len(subtasks) == 0 {
		return nil, fmt.Errorf("no subtasks found in model reply")
	}
	return subtasks, nil
}

var listItemRe = regexp.MustCompile(`^\s*(?:\d+[.、)]\s*|[-*•]\s+)(.+)$`)

// parseSubtaskLines extracts numbered or bulleted list items from a
// model reply, ignoring prose lines.
func parseSubtaskLines(content string) []string {
	var items []string
	for _, line := range strings.Split(content, "\n") {
		m := listItemRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		text := strings.TrimSpace(m[1])
		if text == "" {
			continue
		}
		items = append(items, text)
		if len(items) == maxSubtasks {
			break
		}
	}
	return items
}
