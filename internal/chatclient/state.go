// Package chatclient implementa el lado cliente del chat de soporte: el estado de la
// conversación, la lectura incremental de la respuesta del relay y el control de un
// único turno en vuelo por sesión.
package chatclient

import (
	"strings"

	"support-chat/internal/domain"
)

const (
	// Greeting es el mensaje inicial del asistente.
	Greeting = "Hi! I'm the Customer support assistant. How can I help you today?"
	// ErrorReply reemplaza al placeholder cuando el turno falla.
	ErrorReply = "I'm sorry, but I encountered an error. Please try again later."
)

// State es la lista de mensajes y el flag de carga de una sesión.
// No es seguro para uso concurrente: lo muta solo su dueño.
type State struct {
	messages []domain.Message
	loading  bool
}

// NewState crea el estado; con greeting vacío arranca sin mensajes.
func NewState(greeting string) *State {
	s := &State{}
	if greeting != "" {
		s.messages = append(s.messages, domain.Message{Role: domain.RoleAssistant, Content: greeting})
	}
	return s
}

// Messages devuelve una copia de la conversación.
func (s *State) Messages() []domain.Message {
	out := make([]domain.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *State) Loading() bool {
	return s.loading
}

// AppendUser agrega el mensaje del usuario y el placeholder del asistente, y marca carga.
// Devuelve el historial a enviar (lo previo + el mensaje nuevo, sin placeholder).
// Con un turno en curso o input en blanco no hace nada y devuelve false.
func (s *State) AppendUser(content string) ([]domain.Message, bool) {
	if s.loading || strings.TrimSpace(content) == "" {
		return nil, false
	}
	user := domain.Message{Role: domain.RoleUser, Content: content}

	history := make([]domain.Message, 0, len(s.messages)+1)
	history = append(history, s.messages...)
	history = append(history, user)

	s.messages = append(s.messages, user, domain.Message{Role: domain.RoleAssistant})
	s.loading = true
	return history, true
}

// AppendChunk concatena texto al placeholder. Fuera de un turno se ignora.
func (s *State) AppendChunk(text string) {
	if !s.loading || len(s.messages) == 0 {
		return
	}
	s.messages[len(s.messages)-1].Content += text
}

// MarkError reemplaza el contenido del placeholder por ErrorReply.
func (s *State) MarkError() {
	if !s.loading || len(s.messages) == 0 {
		return
	}
	s.messages[len(s.messages)-1].Content = ErrorReply
}

func (s *State) MarkIdle() {
	s.loading = false
}

// Apply pliega un evento del turno en curso sobre el estado.
func (s *State) Apply(ev Event) {
	switch e := ev.(type) {
	case ChunkEvent:
		s.AppendChunk(e.Text)
	case FailedEvent:
		s.MarkError()
		s.MarkIdle()
	case DoneEvent:
		s.MarkIdle()
	}
}
