package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_RequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	os.Unsetenv("GEMINI_API_KEY")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error when GEMINI_API_KEY is missing")
	}

	t.Setenv("GEMINI_API_KEY", "   ")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error when GEMINI_API_KEY is blank")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "key")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.HTTPPort)
	}
	if cfg.LLMModel != "gemini-1.5-flash" {
		t.Fatalf("expected default model, got %q", cfg.LLMModel)
	}
	if cfg.LLMTimeout != 60*time.Second {
		t.Fatalf("expected 60s timeout, got %s", cfg.LLMTimeout)
	}
	if cfg.RelayMaxMessages != 100 || cfg.RelayMaxBodyBytes != 1<<20 {
		t.Fatalf("unexpected relay limits: %d %d", cfg.RelayMaxMessages, cfg.RelayMaxBodyBytes)
	}
	if cfg.RelayStream {
		t.Fatalf("expected streaming disabled by default")
	}
}

func TestLoadConfig_CORSOrigins(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %+v", cfg.CORSOrigins)
	}
}

func TestConfigPreamble(t *testing.T) {
	t.Run("fallback", func(t *testing.T) {
		cfg := &Config{}
		got, err := cfg.Preamble("default")
		if err != nil || got != "default" {
			t.Fatalf("expected fallback, got %q err=%v", got, err)
		}
	})

	t.Run("inline", func(t *testing.T) {
		cfg := &Config{SystemPrompt: "be nice"}
		got, err := cfg.Preamble("default")
		if err != nil || got != "be nice" {
			t.Fatalf("expected inline prompt, got %q err=%v", got, err)
		}
	})

	t.Run("file wins and trailing newline dropped", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prompt.txt")
		if err := os.WriteFile(path, []byte("from file\n"), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
		cfg := &Config{SystemPrompt: "inline", SystemPromptFile: path}
		got, err := cfg.Preamble("default")
		if err != nil || got != "from file" {
			t.Fatalf("expected file prompt, got %q err=%v", got, err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		cfg := &Config{SystemPromptFile: filepath.Join(t.TempDir(), "nope.txt")}
		if _, err := cfg.Preamble("default"); err == nil {
			t.Fatalf("expected error for missing file")
		}
	})
}
