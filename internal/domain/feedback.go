package domain

import "time"

// Feedback es el comentario libre que deja el usuario desde el widget.
type Feedback struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
