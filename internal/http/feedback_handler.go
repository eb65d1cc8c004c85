package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"support-chat/internal/service"
)

// maxFeedbackBodyBytes deja margen para MaxFeedbackLength runas de 4 bytes más el JSON.
const maxFeedbackBodyBytes = 32 << 10

type FeedbackHandler struct {
	logger   *zap.Logger
	feedback *service.FeedbackService
}

func NewFeedbackHandler(logger *zap.Logger, feedback *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{logger: logger, feedback: feedback}
}

// PostFeedback maneja POST /feedback.
func (h *FeedbackHandler) PostFeedback(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxFeedbackBodyBytes)

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid feedback request", zap.Error(err))
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	fb, err := h.feedback.Submit(c.Request.Context(), req.Content)
	if err != nil {
		if errors.Is(err, service.ErrFeedbackInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("store feedback failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store feedback"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"feedback": fb})
}
