package openaicompat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/indexcol-web/document-chat/internal/core/domain"
)

type usageRecorderFake struct {
	model            string
	promptTokens     int
	completionTokens int
}

func (f *usageRecorderFake) RecordTokenUsage(model string, promptTokens, completionTokens int) {
	f.model = model
	f.promptTokens = promptTokens
	f.completionTokens = completionTokens
}

func TestCompleteReturnsFirstChoice(t *testing.T) {
	var gotRequest completionRequest
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "grounded answer"}},
			},
			"usage": map[string]int{"prompt_tokens": 42, "completion_tokens": 7},
		})
	}))
	defer server.Close()

	usage := &usageRecorderFake{}
	client := NewWithOptions(server.URL, "secret-key", Options{Usage: usage})

	reply, err := client.Complete(context.Background(), "gpt-4o", []domain.Message{
		{Role: domain.RoleSystem, Content: "instruction"},
		{Role: domain.RoleUser, Content: "question"},
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if reply.Content != "grounded answer" || reply.Role != domain.RoleAssistant {
		t.Fatalf("unexpected reply %+v", reply)
	}
	if gotAuth != "Bearer secret-key" {
		t.Fatalf("authorization header = %q", gotAuth)
	}
	if gotRequest.Model != "gpt-4o" || len(gotRequest.Messages) != 2 {
		t.Fatalf("unexpected request %+v", gotRequest)
	}
	if usage.model != "gpt-4o" || usage.promptTokens != 42 || usage.completionTokens != 7 {
		t.Fatalf("usage not recorded: %+v", usage)
	}
}

func TestCompleteDefaultsMissingRoleToAssistant(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "no role"}},
			},
		})
	}))
	defer server.Close()

	client := New(server.URL, "")
	reply, err := client.Complete(context.Background(), "m", []domain.Message{{Role: domain.RoleUser, Content: "hi"}})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if reply.Role != domain.RoleAssistant {
		t.Fatalf("role = %q", reply.Role)
	}
}

func TestCompleteNoChoicesIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	client := New(server.URL, "")
	if _, err := client.Complete(context.Background(), "m", []domain.Message{{Role: domain.RoleUser, Content: "hi"}}); err == nil {
		t.Fatalf("expected an error for an empty choices list")
	}
}

func TestCompleteOverloadedBackendIsTemporary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "try later", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(server.URL, "")
	_, err := client.Complete(context.Background(), "m", []domain.Message{{Role: domain.RoleUser, Content: "hi"}})
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected ErrTemporary, got %v", err)
	}
}

func TestCompleteClientErrorIsNotTemporary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	client := New(server.URL, "")
	_, err := client.Complete(context.Background(), "m", []domain.Message{{Role: domain.RoleUser, Content: "hi"}})
	if err == nil {
		t.Fatalf("expected an error")
	}
	if domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("a 400 must not be classified as temporary: %v", err)
	}
	var statusErr *HTTPStatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected HTTPStatusError(400), got %v", err)
	}
}
