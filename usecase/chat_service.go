package usecase

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/satriahrh/lumi/domain"
	"github.com/satriahrh/lumi/utils/log"
)

// ChatModel is the fixed model identifier every chat request uses.
const ChatModel = "gemini-2.0-flash-001"

// ChatSampling is fixed for every chat request.
var ChatSampling = domain.SamplingParams{
	Temperature:      0.7,
	TopP:             1.0,
	FrequencyPenalty: 0.3,
	PresencePenalty:  0.3,
	MaxTokens:        2000,
}

type ErrorKind string

const (
	KindInvalidInput           ErrorKind = "InvalidInput"
	KindConfigurationError     ErrorKind = "ConfigurationError"
	KindEmptyResponse          ErrorKind = "EmptyResponse"
	KindInvalidUpstreamRequest ErrorKind = "InvalidUpstreamRequest"
	KindUnauthorized           ErrorKind = "Unauthorized"
	KindRateLimited            ErrorKind = "RateLimited"
	KindInternalError          ErrorKind = "InternalError"
)

// GatewayError is a chat failure already shaped for the client.
type GatewayError struct {
	Kind    ErrorKind
	Status  int
	Title   string
	Message string
}

func (e *GatewayError) Error() string {
	if e.Message == "" {
		return string(e.Kind) + ": " + e.Title
	}
	return string(e.Kind) + ": " + e.Title + ": " + e.Message
}

func ErrInvalidInput() *GatewayError {
	return &GatewayError{
		Kind:   KindInvalidInput,
		Status: http.StatusBadRequest,
		Title:  "Mensagens inválidas",
	}
}

func errConfiguration() *GatewayError {
	return &GatewayError{
		Kind:    KindConfigurationError,
		Status:  http.StatusInternalServerError,
		Title:   "API Key do provedor de IA não configurada",
		Message: "Configure a variável GEMINI_API_KEY nas configurações do projeto",
	}
}

func errEmptyResponse() *GatewayError {
	return &GatewayError{
		Kind:    KindEmptyResponse,
		Status:  http.StatusInternalServerError,
		Title:   "Erro ao processar mensagem",
		Message: "Resposta vazia do provedor de IA",
	}
}

type ChatService struct {
	llm           domain.Completer
	prompts       *PromptTable
	hasCredential bool
}

// NewChatService builds the gateway. hasCredential is resolved from process
// configuration; without it no request reaches llm.
func NewChatService(llm domain.Completer, prompts *PromptTable, hasCredential bool) *ChatService {
	return &ChatService{
		llm:           llm,
		prompts:       prompts,
		hasCredential: hasCredential,
	}
}

type ChatInput struct {
	// Nil means the client sent no message sequence at all.
	Messages []domain.ChatMessage
	Pillar   string
}

type ChatOutput struct {
	Message string       `json:"message"`
	Pillar  string       `json:"pillar"`
	Usage   domain.Usage `json:"usage"`
}

// Complete forwards one conversation upstream. Every failure is a *GatewayError.
func (s *ChatService) Complete(ctx context.Context, in ChatInput) (*ChatOutput, error) {
	if in.Messages == nil {
		return nil, ErrInvalidInput()
	}
	for _, m := range in.Messages {
		if !m.Role.Valid() {
			return nil, ErrInvalidInput()
		}
	}

	if !s.hasCredential || s.llm == nil {
		return nil, errConfiguration()
	}

	logger := log.WithCtx(ctx).With(zap.String("pillar", in.Pillar), zap.Int("messages", len(in.Messages)))

	messages := make([]domain.ChatMessage, 0, len(in.Messages)+1)
	messages = append(messages, domain.ChatMessage{
		Role:    domain.SystemRole,
		Content: s.prompts.SystemInstruction(in.Pillar),
	})
	messages = append(messages, in.Messages...)

	completion, err := s.llm.Complete(ctx, domain.CompletionRequest{
		Model:    ChatModel,
		Messages: messages,
		Sampling: ChatSampling,
	})
	if err != nil {
		gerr := classifyProviderError(err)
		logger.Error("chat completion failed", zap.String("kind", string(gerr.Kind)), zap.Error(err))
		return nil, gerr
	}

	if completion.Text == "" {
		logger.Error("chat completion returned no text")
		return nil, errEmptyResponse()
	}

	pillar := in.Pillar
	if pillar == "" {
		pillar = domain.GeneralPillar
	}

	logger.Debug("chat completion done", zap.Int("total_tokens", completion.Usage.TotalTokens))

	return &ChatOutput{
		Message: completion.Text,
		Pillar:  pillar,
		Usage:   completion.Usage,
	}, nil
}

// classifyProviderError checks, in order: malformed request, rejected
// credential, exhausted quota. Anything else is internal.
func classifyProviderError(err error) *GatewayError {
	var pe *domain.ProviderError
	if errors.As(err, &pe) {
		switch {
		case pe.Type == domain.ProviderInvalidRequest:
			return &GatewayError{
				Kind:    KindInvalidUpstreamRequest,
				Status:  http.StatusBadRequest,
				Title:   "Requisição inválida para o provedor de IA",
				Message: pe.Message,
			}
		case pe.StatusCode == http.StatusUnauthorized || pe.Type == domain.ProviderAuthentication:
			return &GatewayError{
				Kind:    KindUnauthorized,
				Status:  http.StatusUnauthorized,
				Title:   "API Key inválida",
				Message: "Verifique sua chave do provedor de IA nas configurações",
			}
		case pe.StatusCode == http.StatusTooManyRequests || pe.Type == domain.ProviderRateLimit:
			return &GatewayError{
				Kind:    KindRateLimited,
				Status:  http.StatusTooManyRequests,
				Title:   "Limite de requisições excedido",
				Message: "Aguarde alguns instantes e tente novamente",
			}
		}
		return errInternal(pe.Message)
	}
	return errInternal(err.Error())
}

func errInternal(msg string) *GatewayError {
	if msg == "" {
		msg = "Erro desconhecido"
	}
	return &GatewayError{
		Kind:    KindInternalError,
		Status:  http.StatusInternalServerError,
		Title:   "Erro ao processar mensagem",
		Message: msg,
	}
}
