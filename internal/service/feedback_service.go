package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"support-chat/internal/domain"
	"support-chat/internal/email"
	"support-chat/internal/repository"
)

// MaxFeedbackLength limita el tamaño del comentario en runas.
const MaxFeedbackLength = 4000

var (
	ErrFeedbackServiceNotConfigured = errors.New("feedback service not configured")
	ErrFeedbackInvalidInput         = errors.New("feedback invalid input")
)

// FeedbackService guarda el feedback del widget y avisa al buzón de soporte.
type FeedbackService struct {
	repo     repository.FeedbackRepository
	sender   email.Sender
	notifyTo string
	logger   *zap.Logger
}

// NewFeedbackService crea el servicio. sender y notifyTo son opcionales.
func NewFeedbackService(logger *zap.Logger, repo repository.FeedbackRepository, sender email.Sender, notifyTo string) *FeedbackService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedbackService{
		repo:     repo,
		sender:   sender,
		notifyTo: strings.TrimSpace(notifyTo),
		logger:   logger,
	}
}

func (s *FeedbackService) Submit(ctx context.Context, content string) (domain.Feedback, error) {
	if s == nil || s.repo == nil {
		return domain.Feedback{}, ErrFeedbackServiceNotConfigured
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Feedback{}, fmt.Errorf("%w: content is empty", ErrFeedbackInvalidInput)
	}
	if utf8.RuneCountInString(content) > MaxFeedbackLength {
		return domain.Feedback{}, fmt.Errorf("%w: content longer than %d characters", ErrFeedbackInvalidInput, MaxFeedbackLength)
	}

	fb := domain.Feedback{
		ID:        uuid.NewString(),
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, fb); err != nil {
		return domain.Feedback{}, fmt.Errorf("store feedback: %w", err)
	}

	// La notificación es best-effort: el feedback ya quedó guardado.
	if s.sender != nil && s.notifyTo != "" {
		if err := s.sender.SendFeedback(ctx, s.notifyTo, fb); err != nil {
			s.logger.Warn("feedback notification failed", zap.Error(err), zap.String("feedback_id", fb.ID))
		}
	}
	return fb, nil
}
