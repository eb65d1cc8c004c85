package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"support-chat/internal/domain"
	"support-chat/internal/service"
)

const textPlainUTF8 = "text/plain; charset=utf-8"

// ChatHandler expone el relay: historial JSON de entrada, texto plano de salida.
type ChatHandler struct {
	logger       *zap.Logger
	relay        *service.RelayService
	stream       bool
	maxBodyBytes int64
}

// NewChatHandler crea el handler. Con stream=true la respuesta se escribe a medida que llega.
func NewChatHandler(logger *zap.Logger, relay *service.RelayService, stream bool, maxBodyBytes int64) *ChatHandler {
	return &ChatHandler{
		logger:       logger,
		relay:        relay,
		stream:       stream,
		maxBodyBytes: maxBodyBytes,
	}
}

// PostChat maneja POST /chat.
func (h *ChatHandler) PostChat(c *gin.Context) {
	if h.maxBodyBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)
	}

	var history []domain.Message
	if err := c.ShouldBindJSON(&history); err != nil {
		h.logger.Warn("invalid chat request", zap.Error(err))
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON array of messages"})
		return
	}
	if err := h.relay.Validate(history); err != nil {
		h.logger.Warn("invalid chat history", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if h.stream {
		h.streamReply(c, history)
		return
	}

	reply, err := h.relay.Reply(c.Request.Context(), history)
	if err != nil {
		h.writeRelayError(c, err)
		return
	}
	c.Data(http.StatusOK, textPlainUTF8, []byte(reply))
}

func (h *ChatHandler) streamReply(c *gin.Context, history []domain.Message) {
	started := false
	err := h.relay.StreamReply(c.Request.Context(), history, func(fragment string) error {
		if !started {
			c.Header("Content-Type", textPlainUTF8)
			c.Header("X-Content-Type-Options", "nosniff")
			c.Status(http.StatusOK)
			started = true
		}
		if _, err := c.Writer.WriteString(fragment); err != nil {
			return err
		}
		c.Writer.Flush()
		return nil
	})
	if err == nil {
		if !started {
			c.Data(http.StatusOK, textPlainUTF8, nil)
		}
		return
	}
	if started {
		// Ya se enviaron status y parte del cuerpo: se corta la conexión sin cerrar el
		// cuerpo chunked para que el cliente vea un EOF inesperado y no una respuesta completa.
		h.logger.Error("chat stream interrupted", zap.Error(err))
		c.Abort()
		if cerr := closeConnection(c.Writer); cerr != nil {
			h.logger.Warn("could not close interrupted stream", zap.Error(cerr))
		}
		return
	}
	h.writeRelayError(c, err)
}

// closeConnection toma la conexión y la cierra. gin asume que el writer subyacente
// implementa http.Hijacker y entra en pánico si no (p.ej. httptest.ResponseRecorder).
func closeConnection(w gin.ResponseWriter) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("hijack not supported: %v", r)
		}
	}()
	conn, _, err := w.Hijack()
	if err != nil {
		return err
	}
	return conn.Close()
}

func (h *ChatHandler) writeRelayError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRelayInvalidInput):
		h.logger.Warn("invalid chat history", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrProviderFailure):
		h.logger.Error("provider call failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not generate a reply"})
	default:
		h.logger.Error("chat relay failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate a reply"})
	}
}
