package domain

import (
	"context"
	"fmt"
)

// Completer abstracts any chat/LLM provider. One call, one upstream request.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (Completion, error)
}

type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Role string

const (
	UserRole      Role = "user"
	AssistantRole Role = "assistant"
	SystemRole    Role = "system"
)

// Valid reports whether r may appear in a conversation history sent by a client.
func (r Role) Valid() bool {
	return r == UserRole || r == AssistantRole
}

type SamplingParams struct {
	Temperature      float32
	TopP             float32
	FrequencyPenalty float32
	PresencePenalty  float32
	MaxTokens        int32
}

// CompletionRequest is the whole conversation as sent upstream. System
// messages, if any, lead the sequence.
type CompletionRequest struct {
	Model    string
	Messages []ChatMessage
	Sampling SamplingParams
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type Completion struct {
	Text  string
	Usage Usage
}

// Provider error types, normalized across backends.
const (
	ProviderInvalidRequest = "invalid_request_error"
	ProviderAuthentication = "authentication_error"
	ProviderRateLimit      = "rate_limit_error"
)

// ProviderError is a failure reported by the LLM provider itself, as opposed
// to a transport failure.
type ProviderError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("provider error %d (%s): %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("provider error %d: %s", e.StatusCode, e.Message)
}
