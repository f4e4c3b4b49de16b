package openaicompat

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/indexcol-web/document-chat/internal/core/domain"
	"github.com/indexcol-web/document-chat/internal/infrastructure/resilience"
)

// TokenUsageRecorder receives the token accounting reported by the backend.
type TokenUsageRecorder interface {
	RecordTokenUsage(model string, promptTokens, completionTokens int)
}

// Client talks to an OpenAI-compatible chat completions backend.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	executor   *resilience.Executor
	usage      TokenUsageRecorder
}

type Options struct {
	Timeout            time.Duration
	ResilienceExecutor *resilience.Executor
	Usage              TokenUsageRecorder
}

func New(baseURL, apiKey string) *Client {
	return NewWithOptions(baseURL, apiKey, Options{})
}

func NewWithOptions(baseURL, apiKey string, options Options) *Client {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		executor:   options.ResilienceExecutor,
		usage:      options.Usage,
	}
}

type completionRequest struct {
	Model    string           `json:"model"`
	Messages []domain.Message `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message domain.Message `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Complete sends the message sequence and returns the first choice verbatim.
func (c *Client) Complete(ctx context.Context, modelID string, messages []domain.Message) (domain.Message, error) {
	request := completionRequest{
		Model:    modelID,
		Messages: messages,
	}

	var response completionResponse
	call := func(callCtx context.Context) error {
		return c.postJSON(callCtx, "/v1/chat/completions", request, &response, "chat_completions")
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "llm.chat_completions", call, classifyCompletionError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return domain.Message{}, wrapTemporaryIfNeeded("chat completions", err)
	}

	if len(response.Choices) == 0 {
		return domain.Message{}, errors.New("completion backend returned no choices")
	}
	if c.usage != nil {
		c.usage.RecordTokenUsage(modelID, response.Usage.PromptTokens, response.Usage.CompletionTokens)
	}

	reply := response.Choices[0].Message
	if reply.Role == "" {
		reply.Role = domain.RoleAssistant
	}
	return reply, nil
}
