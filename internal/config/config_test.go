package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "educonnect")
	t.Setenv("DB_NAME", "educonnect")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("GEMINI_MODELS", "")
	t.Setenv("RATE_LIMIT_POST", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.RateLimitPost != 10*time.Second {
		t.Errorf("RateLimitPost = %v, want 10s", cfg.RateLimitPost)
	}
	if len(cfg.GeminiModels) != len(DefaultGeminiModels) || cfg.GeminiModels[0] != "gemini-2.5-flash" {
		t.Errorf("GeminiModels = %v, want defaults", cfg.GeminiModels)
	}
	if got := cfg.Database().DSN(); got != "host=localhost user=educonnect password= dbname=educonnect port=5432 sslmode=disable" {
		t.Errorf("DSN = %q", got)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("GEMINI_MODELS", "model-a, model-b ,")
	t.Setenv("RATE_LIMIT_ASK", "1m")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("MEILISEARCH_HOST", "meili")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.GeminiModels) != 2 || cfg.GeminiModels[1] != "model-b" {
		t.Errorf("GeminiModels = %v", cfg.GeminiModels)
	}
	if cfg.RateLimitAsk != time.Minute {
		t.Errorf("RateLimitAsk = %v, want 1m", cfg.RateLimitAsk)
	}
	if len(cfg.Origins) != 2 {
		t.Errorf("Origins = %v", cfg.Origins)
	}
	if cfg.MeiliHost() != "http://meili:7700" {
		t.Errorf("MeiliHost() = %q", cfg.MeiliHost())
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"missing db host", "DB_HOST", ""},
		{"bad app env", "APP_ENV", "staging"},
		{"bad duration", "RATE_LIMIT_POST", "soon"},
		{"bad cloudinary url", "CLOUDINARY_URL", "https://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", tt.key, tt.val)
			}
		})
	}
}
