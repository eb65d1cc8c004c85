package domain

// Role identifica al autor de un turno de la conversación.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid indica si el rol es uno de los dos admitidos.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message es un turno de la conversación. La identidad es la posición en la lista.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
