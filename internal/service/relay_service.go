package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"support-chat/internal/domain"
	"support-chat/internal/llm"
)

var (
	ErrRelayNotConfigured = errors.New("relay service not configured")
	ErrRelayInvalidInput  = errors.New("relay invalid input")
	ErrProviderFailure    = errors.New("provider failure")
)

// RelayService convierte el historial en un prompt, llama al proveedor y limpia la respuesta.
// No guarda estado entre requests.
type RelayService struct {
	llm         llm.LLMClient
	prompts     PromptBuilder
	maxMessages int
	logger      *zap.Logger
}

func NewRelayService(llmClient llm.LLMClient, prompts PromptBuilder, maxMessages int, logger *zap.Logger) *RelayService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RelayService{
		llm:         llmClient,
		prompts:     prompts,
		maxMessages: maxMessages,
		logger:      logger,
	}
}

// Validate rechaza historiales vacíos, demasiado largos o con roles desconocidos.
func (s *RelayService) Validate(history []domain.Message) error {
	if len(history) == 0 {
		return fmt.Errorf("%w: conversation is empty", ErrRelayInvalidInput)
	}
	if s.maxMessages > 0 && len(history) > s.maxMessages {
		return fmt.Errorf("%w: conversation has %d messages, max %d", ErrRelayInvalidInput, len(history), s.maxMessages)
	}
	for i, m := range history {
		if !m.Role.Valid() {
			return fmt.Errorf("%w: message %d has unknown role %q", ErrRelayInvalidInput, i, m.Role)
		}
	}
	return nil
}

// Reply genera la respuesta completa de una vez.
func (s *RelayService) Reply(ctx context.Context, history []domain.Message) (string, error) {
	if s == nil || s.llm == nil {
		return "", ErrRelayNotConfigured
	}
	if err := s.Validate(history); err != nil {
		return "", err
	}

	prompt := s.prompts.Build(history)
	raw, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrProviderFailure, err)
	}
	return CleanAssistantReply(raw), nil
}

// StreamReply entrega la respuesta limpia por fragmentos en orden de llegada.
// Si el cliente no soporta streaming, emite la respuesta completa en un solo fragmento.
// Los errores de emit se devuelven tal cual; los del proveedor se envuelven en ErrProviderFailure.
func (s *RelayService) StreamReply(ctx context.Context, history []domain.Message, emit func(string) error) error {
	if s == nil || s.llm == nil {
		return ErrRelayNotConfigured
	}
	if err := s.Validate(history); err != nil {
		return err
	}

	streamer, ok := s.llm.(llm.StreamingClient)
	if !ok {
		reply, err := s.Reply(ctx, history)
		if err != nil {
			return err
		}
		if reply == "" {
			return nil
		}
		return emit(reply)
	}

	var emitErr error
	cleaner := newReplyStreamCleaner(func(fragment string) error {
		if err := emit(fragment); err != nil {
			emitErr = err
			return err
		}
		return nil
	})

	prompt := s.prompts.Build(history)
	if err := streamer.GenerateStream(ctx, prompt, cleaner.Write); err != nil {
		if emitErr != nil {
			return emitErr
		}
		return fmt.Errorf("%w: %w", ErrProviderFailure, err)
	}
	return cleaner.Close()
}
