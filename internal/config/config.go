package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del relay y sus dependencias opcionales.
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`

	LLMAPIKey  string        `env:"GEMINI_API_KEY,required"`
	LLMBaseURL string        `env:"LLM_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta/openai/"`
	LLMModel   string        `env:"LLM_MODEL" envDefault:"gemini-1.5-flash"`
	LLMTimeout time.Duration `env:"LLM_TIMEOUT" envDefault:"60s"`

	SystemPrompt     string `env:"SYSTEM_PROMPT"`
	SystemPromptFile string `env:"SYSTEM_PROMPT_FILE"`

	RelayStream       bool     `env:"RELAY_STREAM" envDefault:"false"`
	RelayMaxMessages  int      `env:"RELAY_MAX_MESSAGES" envDefault:"100"`
	RelayMaxBodyBytes int64    `env:"RELAY_MAX_BODY_BYTES" envDefault:"1048576"`
	CORSOrigins       []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	DatabaseURL   string `env:"DATABASE_URL"`
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	FeedbackBolt  string `env:"FEEDBACK_BOLT_PATH"`

	SMTPHost         string `env:"SMTP_HOST"`
	SMTPPort         int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser         string `env:"SMTP_USER"`
	SMTPPass         string `env:"SMTP_PASS"`
	SMTPFrom         string `env:"SMTP_FROM"`
	SMTPFromName     string `env:"SMTP_FROM_NAME"`
	SMTPUseTLS       bool   `env:"SMTP_USE_TLS" envDefault:"false"`
	FeedbackNotifyTo string `env:"FEEDBACK_NOTIFY_TO"`
}

// LoadConfig carga la configuración desde variables de entorno.
// La ausencia de GEMINI_API_KEY es un error de arranque.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.LLMAPIKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is empty")
	}
	return &cfg, nil
}

// Preamble devuelve las instrucciones fijas del prompt.
// Prioridad: SYSTEM_PROMPT_FILE, luego SYSTEM_PROMPT, luego fallback.
func (c *Config) Preamble(fallback string) (string, error) {
	if path := strings.TrimSpace(c.SystemPromptFile); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read system prompt file: %w", err)
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}
	if strings.TrimSpace(c.SystemPrompt) != "" {
		return c.SystemPrompt, nil
	}
	return fallback, nil
}
