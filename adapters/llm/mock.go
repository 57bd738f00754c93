package llm

import (
	"context"
	"strings"

	"github.com/satriahrh/lumi/domain"
)

// MockReply is the canned answer of MockClient.
const MockReply = "Olá! Sou a Lumi em modo de demonstração. Configure GEMINI_API_KEY para respostas reais. 💡"

// MockClient answers every request without a network call. It lets the
// server and the terminal client run without provider credentials.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (MockClient) Complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	if err := ctx.Err(); err != nil {
		return domain.Completion{}, err
	}

	prompt := 0
	for _, m := range req.Messages {
		prompt += len(strings.Fields(m.Content))
	}
	completion := len(strings.Fields(MockReply))
	return domain.Completion{
		Text: MockReply,
		Usage: domain.Usage{
			PromptTokens:     prompt,
			CompletionTokens: completion,
			TotalTokens:      prompt + completion,
		},
	}, nil
}

var _ domain.Completer = MockClient{}
