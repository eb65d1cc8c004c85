package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"support-chat/internal/config"
	"support-chat/internal/db"
	"support-chat/internal/email"
	apihttp "support-chat/internal/http"
	"support-chat/internal/llm"
	"support-chat/internal/repository"
	"support-chat/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	preamble, err := cfg.Preamble(service.DefaultSupportPreamble)
	if err != nil {
		logger.Fatal("load system prompt", zap.Error(err))
	}

	llmClient, err := llm.NewGeminiClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout, logger)
	if err != nil {
		logger.Fatal("llm client", zap.Error(err))
	}

	feedbackRepo, closeRepo := newFeedbackRepository(ctx, cfg, logger)
	defer closeRepo()

	emailSender := newEmailSender(cfg, logger)

	relaySvc := service.NewRelayService(llmClient, service.NewPromptBuilder(preamble), cfg.RelayMaxMessages, logger)
	feedbackSvc := service.NewFeedbackService(logger, feedbackRepo, emailSender, cfg.FeedbackNotifyTo)

	chatHandler := apihttp.NewChatHandler(logger, relaySvc, cfg.RelayStream, cfg.RelayMaxBodyBytes)
	feedbackHandler := apihttp.NewFeedbackHandler(logger, feedbackSvc)
	router := apihttp.NewRouter(logger, chatHandler, feedbackHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           apihttp.WithCORS(router, cfg.CORSOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server",
			zap.String("port", cfg.HTTPPort),
			zap.String("model", llmClient.Model()),
			zap.Bool("stream", cfg.RelayStream),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
}

// newEmailSender devuelve nil si SMTP no está configurado o falla al iniciar;
// el aviso se loguea una sola vez aquí y no en cada feedback.
func newEmailSender(cfg *config.Config, logger *zap.Logger) email.Sender {
	if cfg.SMTPHost == "" {
		if cfg.FeedbackNotifyTo != "" {
			logger.Warn("feedback notifications disabled: SMTP_HOST not set",
				zap.String("notify_to", cfg.FeedbackNotifyTo))
		}
		return nil
	}
	sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
	if err != nil {
		logger.Warn("smtp sender init failed; feedback notifications disabled", zap.Error(err))
		return nil
	}
	return sender
}

// newFeedbackRepository elige Postgres, luego Redis, luego un archivo Bolt, y si no hay ninguno memoria.
// Un backend configurado pero inaccesible es fatal.
func newFeedbackRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.FeedbackRepository, func()) {
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		if err := ensureSchema(ctx, pool); err != nil {
			pool.Close()
			logger.Fatal("db schema", zap.Error(err))
		}
		logger.Info("feedback store", zap.String("backend", "postgres"))
		return repository.NewPgFeedbackRepository(pool), pool.Close
	}

	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			_ = redisClient.Close()
			logger.Fatal("redis ping failed", zap.Error(err))
		}
		logger.Info("feedback store", zap.String("backend", "redis"))
		return repository.NewRedisFeedbackRepository(redisClient), func() { _ = redisClient.Close() }
	}

	if cfg.FeedbackBolt != "" {
		repo, err := repository.OpenBoltFeedbackRepository(cfg.FeedbackBolt)
		if err != nil {
			logger.Fatal("open feedback file", zap.Error(err), zap.String("path", cfg.FeedbackBolt))
		}
		logger.Info("feedback store", zap.String("backend", "bolt"), zap.String("path", cfg.FeedbackBolt))
		return repo, func() { _ = repo.Close() }
	}

	logger.Info("feedback store", zap.String("backend", "memory"))
	return repository.NewMemoryFeedbackRepository(), func() {}
}

func ensureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.Ping(ctxPing, pool); err != nil {
		return err
	}
	return db.EnsureSchema(ctxPing, pool)
}
