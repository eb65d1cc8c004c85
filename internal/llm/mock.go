package llm

import (
	"context"
	"strings"
)

// MockClient permite tests sin llamar a un LLM real.
// Si Chunks no está vacío, GenerateStream los entrega uno a uno y Generate devuelve su concatenación.
type MockClient struct {
	Response string
	Chunks   []string
	Err      error

	LastPrompt string
	Calls      int
}

func (m *MockClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.LastPrompt = prompt
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Chunks) > 0 {
		return strings.Join(m.Chunks, ""), nil
	}
	return m.Response, nil
}

func (m *MockClient) GenerateStream(ctx context.Context, prompt string, onDelta func(string) error) error {
	m.LastPrompt = prompt
	m.Calls++
	chunks := m.Chunks
	if len(chunks) == 0 && m.Response != "" {
		chunks = []string{m.Response}
	}
	for _, ch := range chunks {
		if err := onDelta(ch); err != nil {
			return err
		}
	}
	return m.Err
}
