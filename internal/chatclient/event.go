package chatclient

// Event es lo que el goroutine de red publica hacia el dueño del estado.
type Event interface {
	isEvent()
}

// ChunkEvent trae un fragmento de texto en orden de llegada.
type ChunkEvent struct {
	Text string
}

// FailedEvent cierra el turno con error de transporte o del relay.
type FailedEvent struct {
	Err error
}

// DoneEvent cierra el turno con éxito.
type DoneEvent struct{}

func (ChunkEvent) isEvent()  {}
func (FailedEvent) isEvent() {}
func (DoneEvent) isEvent()   {}
