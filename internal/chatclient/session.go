package chatclient

import (
	"context"
	"errors"

	"support-chat/internal/domain"
)

var (
	// ErrTurnRejected indica que Exchange no inició un turno (otro en curso o input vacío).
	ErrTurnRejected = errors.New("turn rejected")
	// ErrTurnInterrupted indica que el canal del turno se cerró sin evento final.
	ErrTurnInterrupted = errors.New("turn interrupted")
)

// Relay es lo que la sesión necesita del transporte.
type Relay interface {
	Send(ctx context.Context, history []domain.Message) (*Stream, error)
}

// Session es dueña del State y permite un único turno en vuelo.
// Submit y Apply deben llamarse desde el mismo goroutine; la red solo publica eventos.
type Session struct {
	relay Relay
	state *State
}

func NewSession(relay Relay, greeting string) *Session {
	return &Session{relay: relay, state: NewState(greeting)}
}

func (s *Session) State() *State {
	return s.state
}

// Submit inicia un turno y devuelve el canal de eventos del turno, que se cierra al terminar.
// El último evento es DoneEvent o FailedEvent. Con el contexto cancelado el goroutine deja de
// publicar fragmentos y no espera a un lector ausente; si el canal se cierra sin evento final,
// el turno cuenta como fallido (ErrTurnInterrupted).
// Con un turno en curso o input en blanco devuelve (nil, false) sin tocar el estado.
func (s *Session) Submit(ctx context.Context, input string) (<-chan Event, bool) {
	history, ok := s.state.AppendUser(input)
	if !ok {
		return nil, false
	}

	events := make(chan Event, 16)
	go func() {
		defer close(events)

		stream, err := s.relay.Send(ctx, history)
		if err != nil {
			deliver(ctx, events, FailedEvent{Err: err})
			return
		}
		defer stream.Close()

		for stream.Next() {
			if !publish(ctx, events, ChunkEvent{Text: stream.Text()}) {
				deliver(ctx, events, FailedEvent{Err: ctx.Err()})
				return
			}
		}
		if err := stream.Err(); err != nil {
			deliver(ctx, events, FailedEvent{Err: err})
			return
		}
		deliver(ctx, events, DoneEvent{})
	}()
	return events, true
}

// publish envía un fragmento salvo que el contexto ya esté cancelado.
func publish(ctx context.Context, events chan<- Event, ev Event) bool {
	select {
	case <-ctx.Done():
		return false
	default:
	}
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// deliver envía el evento final; solo lo descarta si el buffer está lleno y el contexto cancelado.
func deliver(ctx context.Context, events chan<- Event, ev Event) {
	select {
	case events <- ev:
		return
	default:
	}
	select {
	case events <- ev:
	case <-ctx.Done():
	}
}

// Apply pliega un evento sobre el estado de la sesión.
func (s *Session) Apply(ev Event) {
	s.state.Apply(ev)
}

// Exchange ejecuta un turno completo. onChunk, si no es nil, recibe cada fragmento.
// Devuelve el error del turno; el estado ya refleja el resultado.
func (s *Session) Exchange(ctx context.Context, input string, onChunk func(string)) error {
	events, ok := s.Submit(ctx, input)
	if !ok {
		return ErrTurnRejected
	}

	var turnErr error
	for ev := range events {
		s.Apply(ev)
		switch e := ev.(type) {
		case ChunkEvent:
			if onChunk != nil {
				onChunk(e.Text)
			}
		case FailedEvent:
			turnErr = e.Err
		}
	}
	if s.state.Loading() {
		s.Apply(FailedEvent{Err: ErrTurnInterrupted})
		turnErr = ErrTurnInterrupted
	}
	return turnErr
}
