package llm

import "context"

// LLMClient define la interfaz para generar respuestas con un LLM.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// StreamingClient es un LLMClient capaz de entregar la respuesta por fragmentos.
// onDelta recibe los fragmentos en orden de llegada; si devuelve error, el stream se corta.
type StreamingClient interface {
	LLMClient
	GenerateStream(ctx context.Context, prompt string, onDelta func(string) error) error
}
