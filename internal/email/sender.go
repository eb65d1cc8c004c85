package email

import (
	"context"

	"support-chat/internal/domain"
)

// Sender define la interfaz para notificar feedback por correo.
// Sin SMTP configurado no hay Sender: quien lo usa recibe nil.
type Sender interface {
	SendFeedback(ctx context.Context, toEmail string, fb domain.Feedback) error
}
