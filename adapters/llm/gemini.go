package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/satriahrh/lumi/domain"
)

type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient builds a Gemini API client. baseURL is only set in tests
// and when routing through a proxy.
func NewGeminiClient(ctx context.Context, apiKey, baseURL string) (*GeminiClient, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &GeminiClient{client: client}, nil
}

func (g *GeminiClient) Complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	var system []string
	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, msg := range req.Messages {
		switch msg.Role {
		case domain.SystemRole:
			system = append(system, msg.Content)
		case domain.AssistantRole:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}

	s := req.Sampling
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(s.Temperature),
		TopP:             genai.Ptr(s.TopP),
		FrequencyPenalty: genai.Ptr(s.FrequencyPenalty),
		PresencePenalty:  genai.Ptr(s.PresencePenalty),
		MaxOutputTokens:  s.MaxTokens,
	}
	if len(system) > 0 {
		config.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
	}

	resp, err := g.client.Models.GenerateContent(ctx, req.Model, contents, config)
	if err != nil {
		return domain.Completion{}, providerError(err)
	}

	out := domain.Completion{Text: resp.Text()}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = domain.Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	return out, nil
}

// providerError normalizes genai API failures. Anything else is a transport
// error and is only wrapped.
func providerError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		var ptr *genai.APIError
		if !errors.As(err, &ptr) || ptr == nil {
			return fmt.Errorf("generate content: %w", err)
		}
		apiErr = *ptr
	}

	pe := &domain.ProviderError{StatusCode: apiErr.Code, Message: apiErr.Message}
	switch {
	case apiErr.Code == http.StatusUnauthorized,
		apiErr.Code == http.StatusForbidden && apiErr.Status == "PERMISSION_DENIED",
		// Gemini reports a bad key as a 400
		strings.Contains(apiErr.Message, "API key not valid"):
		pe.Type = domain.ProviderAuthentication
	case apiErr.Code == http.StatusTooManyRequests, apiErr.Status == "RESOURCE_EXHAUSTED":
		pe.Type = domain.ProviderRateLimit
	case apiErr.Status == "INVALID_ARGUMENT", apiErr.Status == "FAILED_PRECONDITION":
		pe.Type = domain.ProviderInvalidRequest
	}
	return pe
}

var _ domain.Completer = (*GeminiClient)(nil)
