package service

import (
	"strings"

	"support-chat/internal/domain"
)

// PromptBuilder arma el prompt único que se envía al proveedor.
// El preámbulo se inyecta al construir; el relay no conoce el texto de producto.
type PromptBuilder struct {
	Preamble string
}

func NewPromptBuilder(preamble string) PromptBuilder {
	return PromptBuilder{Preamble: preamble}
}

// Build devuelve preámbulo + "\n" + un "rol: contenido" por línea, en orden.
// Con historial vacío devuelve solo el preámbulo.
func (b PromptBuilder) Build(history []domain.Message) string {
	lines := make([]string, 0, len(history)+1)
	lines = append(lines, b.Preamble)
	for _, m := range history {
		lines = append(lines, string(m.Role)+": "+m.Content)
	}
	return strings.Join(lines, "\n")
}
