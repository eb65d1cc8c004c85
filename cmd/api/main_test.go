package main

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"support-chat/internal/config"
	"support-chat/internal/email"
)

func TestNewEmailSender_WithoutSMTP(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	cfg := &config.Config{FeedbackNotifyTo: "inbox@example.com"}

	if sender := newEmailSender(cfg, zap.New(core)); sender != nil {
		t.Fatalf("expected nil sender without SMTP, got %T", sender)
	}
	if logs.Len() != 1 {
		t.Fatalf("expected a single startup warning, got %d", logs.Len())
	}

	core, logs = observer.New(zapcore.WarnLevel)
	if sender := newEmailSender(&config.Config{}, zap.New(core)); sender != nil || logs.Len() != 0 {
		t.Fatalf("expected silent nil sender when nobody is notified")
	}
}

func TestNewEmailSender_InitFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	// sin remitente NewSMTPSender falla
	cfg := &config.Config{SMTPHost: "smtp.example.com", FeedbackNotifyTo: "inbox@example.com"}

	if sender := newEmailSender(cfg, zap.New(core)); sender != nil {
		t.Fatalf("expected nil sender on init failure")
	}
	if logs.Len() != 1 {
		t.Fatalf("expected one warning, got %d", logs.Len())
	}
}

func TestNewEmailSender_Configured(t *testing.T) {
	cfg := &config.Config{SMTPHost: "smtp.example.com", SMTPPort: 587, SMTPFrom: "support@example.com"}
	sender := newEmailSender(cfg, zap.NewNop())
	if _, ok := sender.(*email.SMTPSender); !ok {
		t.Fatalf("expected SMTP sender, got %T", sender)
	}
}
