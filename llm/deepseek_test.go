package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yuhanbo/pomotask/types"
)

func chatReply(content string) string {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return string(body)
}

func TestGenerateSubtasks(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(chatReply("好的，拆解如下：\n1. 收集资料\n2. 整理提纲\n3. 撰写初稿\n"))); err != nil {
			t.Error(err)
		}
	}))
	defer srv.Close()

	p := NewDeepSeekProvider("test-key", "deepseek-chat", srv.URL, "", srv.Client())
	subtasks, err := p.GenerateSubtasks(context.Background(), "写报告", "季度总结")
	if err != nil {
		t.Fatalf("GenerateSubtasks failed: %v", err)
	}

	want := []string{"收集资料", "整理提纲", "撰写初稿"}
	if len(subtasks) != len(want) {
		t.Fatalf("subtasks = %v, want %v", subtasks, want)
	}
	for i := range want {
		if subtasks[i] != want[i] {
			t.Errorf("subtask[%d] = %q, want %q", i, subtasks[i], want[i])
		}
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if gotReq.Model != "deepseek-chat" {
		t.Errorf("model = %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Errorf("messages = %+v", gotReq.Messages)
	}
	if !strings.Contains(gotReq.Messages[1].Content, "写报告") {
		t.Errorf("user prompt missing title: %q", gotReq.Messages[1].Content)
	}
}

func TestGenerateSubtasksAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "invalid api key"}}`))
	}))
	defer srv.Close()

	p := NewDeepSeekProvider("bad-key", "deepseek-chat", srv.URL, "", srv.Client())
	_, err := p.GenerateSubtasks(context.Background(), "写报告", "")
	if err == nil || !strings.Contains(err.Error(), "invalid api key") {
		t.Errorf("expected API error message, got %v", err)
	}
}

func TestGenerateSubtasksNoListItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chatReply("这个任务很简单，不需要拆解。")))
	}))
	defer srv.Close()

	p := NewDeepSeekProvider("k", "deepseek-chat", srv.URL, "", srv.Client())
	if _, err := p.GenerateSubtasks(context.Background(), "喝水", ""); err == nil {
		t.Error("reply without list items should error")
	}
}

func TestParseSubtaskLines(t *testing.T) {
	content := "前言\n1. 第一步\n2、第二步\n- 第三步\n* 第四步\n结尾说明"
	got := parseSubtaskLines(content)
	want := []string{"第一步", "第二步", "第三步", "第四步"}
	if len(got) != len(want) {
		t.Fatalf("items = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseSubtaskLinesCap(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 15; i++ {
		b.WriteString("1. 步骤\n")
	}
	if got := parseSubtaskLines(b.String()); len(got) != maxSubtasks {
		t.Errorf("items = %d, want cap %d", len(got), maxSubtasks)
	}
}

func TestNewProviderRequiresAPIKey(t *testing.T) {
	_, err := NewProvider(types.LLMConfig{Provider: "deepseek"})
	var verr *types.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestNewProviderUnknown(t *testing.T) {
	if _, err := NewProvider(types.LLMConfig{Provider: "nope", APIKey: "k"}); err == nil {
		t.Error("unknown provider should error")
	}
}
