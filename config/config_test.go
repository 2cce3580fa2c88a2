package config

import (
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("READ_TIMEOUT", "10s")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("SUMMARY_TIMEOUT", "2m")
	t.Setenv("MAX_TRANSCRIPT_CHARS", "10000")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-flash")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.GeminiAPIKey != "test-key" {
		t.Errorf("expected test-key, got %s", cfg.GeminiAPIKey)
	}
	if cfg.ServerPort != "9090" {
		t.Errorf("expected 9090, got %s", cfg.ServerPort)
	}
	if cfg.ReadTimeout != 10*time.Second {
		t.Errorf("expected 10s, got %s", cfg.ReadTimeout)
	}
	if cfg.FetchTimeout != 5*time.Second {
		t.Errorf("expected 5s, got %s", cfg.FetchTimeout)
	}
	if cfg.SummaryTimeout != 2*time.Minute {
		t.Errorf("expected 2m, got %s", cfg.SummaryTimeout)
	}
	if cfg.MaxTranscriptChars != 10000 {
		t.Errorf("expected 10000, got %d", cfg.MaxTranscriptChars)
	}
	if cfg.GeminiModel != "gemini-2.5-flash" {
		t.Errorf("expected gemini-2.5-flash, got %s", cfg.GeminiModel)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.ServerPort != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.ServerPort)
	}
	if cfg.MaxTranscriptChars != 30000 {
		t.Errorf("expected default ceiling 30000, got %d", cfg.MaxTranscriptChars)
	}
	if cfg.GeminiModel != "gemini-2.5-pro" {
		t.Errorf("expected default model, got %s", cfg.GeminiModel)
	}
}

func TestLoadConfigMissingAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when GEMINI_API_KEY is missing")
	}
}

func TestLoadConfigGoogleKeyFallback(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "fallback-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.GeminiAPIKey != "fallback-key" {
		t.Errorf("expected fallback to GOOGLE_API_KEY, got %s", cfg.GeminiAPIKey)
	}
}
