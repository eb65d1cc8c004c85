package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
)

// DefaultBaseURL es el endpoint compatible con OpenAI de Gemini.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

var ErrEmptyResponse = errors.New("llm empty response")

// GeminiClient implementa StreamingClient usando el SDK de OpenAI contra Gemini.
// Es seguro para uso concurrente; se construye una vez y se comparte.
type GeminiClient struct {
	client openai.Client
	model  string
	logger *zap.Logger
}

// NewGeminiClient construye el cliente. Sin reintentos: cada fallo es terminal para el turno.
func NewGeminiClient(baseURL, apiKey, model string, timeout time.Duration, logger *zap.Logger) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("llm api key is required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = "gemini-1.5-flash"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}

	return &GeminiClient{
		client: openai.NewClient(opts...),
		model:  model,
		logger: logger,
	}, nil
}

// Model devuelve el identificador de modelo fijo.
func (c *GeminiClient) Model() string {
	return c.model
}

func (c *GeminiClient) params(prompt string) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, c.params(prompt))
	if err != nil {
		c.logAPIError(err)
		return "", fmt.Errorf("llm request: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *GeminiClient) GenerateStream(ctx context.Context, prompt string, onDelta func(string) error) error {
	stream := c.client.Chat.Completions.NewStreaming(ctx, c.params(prompt))
	defer stream.Close()

	received := false
	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
			continue
		}
		received = true
		if err := onDelta(chunk.Choices[0].Delta.Content); err != nil {
			return err
		}
	}
	if err := stream.Err(); err != nil {
		c.logAPIError(err)
		return fmt.Errorf("llm stream: %w", err)
	}
	if !received {
		return ErrEmptyResponse
	}
	return nil
}

func (c *GeminiClient) logAPIError(err error) {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		c.logger.Warn("llm error status",
			zap.Int("status", apiErr.StatusCode),
			zap.String("model", c.model),
		)
	}
}
