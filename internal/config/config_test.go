package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "ENV", "AI_MODE", "BLOB_MODE", "SHARE_SECRET", "PRUNE_SCHEDULE", "DATABASE_URL_POOLED", "DATABASE_URL", "DATABASE_URL_DIRECT", "MAX_RANGE_DAYS"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Env != "local" {
		t.Errorf("expected env=local, got %s", cfg.Env)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Port)
	}
	if cfg.AI.Mode != AIModeMock {
		t.Errorf("expected AI mode mock, got %s", cfg.AI.Mode)
	}
	if cfg.Blob.Mode != BlobModeLocal {
		t.Errorf("expected blob mode local, got %s", cfg.Blob.Mode)
	}
	if cfg.ShareTTLHours != 168 || cfg.ImportTimeoutSeconds != 15 || cfg.PruneSchedule != "0 3 * * *" {
		t.Errorf("unexpected defaults: ttl=%d import=%d prune=%q", cfg.ShareTTLHours, cfg.ImportTimeoutSeconds, cfg.PruneSchedule)
	}
	if cfg.MaxRangeDays != 366 {
		t.Errorf("expected max range 366 days, got %d", cfg.MaxRangeDays)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Errorf("expected localhost CORS defaults, got %v", cfg.CORSAllowedOrigins)
	}
	if len(cfg.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", cfg.Warnings)
	}
}

func TestLoadDatabasePriority(t *testing.T) {
	t.Setenv("DATABASE_URL_POOLED", "")
	t.Setenv("DATABASE_URL", "postgres://url")
	t.Setenv("DATABASE_URL_DIRECT", "postgres://direct")

	if got := Load().DatabaseURL; got != "postgres://url" {
		t.Fatalf("expected DATABASE_URL to win over direct, got %s", got)
	}

	t.Setenv("DATABASE_URL_POOLED", "postgres://pooled")
	if got := Load().DatabaseURL; got != "postgres://pooled" {
		t.Fatalf("expected pooled URL to win, got %s", got)
	}
}

func TestLoadWarnings(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AI_MODE", "llama")
	t.Setenv("BLOB_MODE", "ftp")
	t.Setenv("SHARE_SECRET", "")

	cfg := Load()

	if cfg.AI.Mode != AIModeMock || cfg.Blob.Mode != BlobModeLocal {
		t.Fatalf("expected fallbacks, got ai=%s blob=%s", cfg.AI.Mode, cfg.Blob.Mode)
	}
	if len(cfg.Warnings) != 3 {
		t.Fatalf("expected 3 warnings, got %v", cfg.Warnings)
	}
	if !strings.Contains(strings.Join(cfg.Warnings, "\n"), "SHARE_SECRET") {
		t.Errorf("expected share secret warning, got %v", cfg.Warnings)
	}
	if cfg.CORSAllowedOrigins != nil {
		t.Errorf("expected no CORS origins by default in production, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadMaxRangeDays(t *testing.T) {
	t.Setenv("MAX_RANGE_DAYS", "31")
	if got := Load().MaxRangeDays; got != 31 {
		t.Fatalf("expected 31, got %d", got)
	}

	t.Setenv("MAX_RANGE_DAYS", "0")
	cfg := Load()
	if cfg.MaxRangeDays != 366 {
		t.Errorf("expected fallback to 366, got %d", cfg.MaxRangeDays)
	}
	if !strings.Contains(strings.Join(cfg.Warnings, "\n"), "MAX_RANGE_DAYS") {
		t.Errorf("expected MAX_RANGE_DAYS warning, got %v", cfg.Warnings)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		ai      AIConfig
		wantErr bool
	}{
		{"mock", AIConfig{Mode: AIModeMock}, false},
		{"openai without key", AIConfig{Mode: AIModeOpenAI}, true},
		{"openai with key", AIConfig{Mode: AIModeOpenAI, OpenAIAPIKey: "k"}, false},
		{"gemini without key", AIConfig{Mode: AIModeGemini}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&Config{AI: tt.ai}).Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseBoolEnv(t *testing.T) {
	for _, v := range []string{"1", "true", "YES", "on"} {
		t.Setenv("FLAG", v)
		if !parseBoolEnv("FLAG") {
			t.Errorf("expected %q to parse as true", v)
		}
	}
	t.Setenv("FLAG", "nope")
	if parseBoolEnv("FLAG") {
		t.Error("expected nope to parse as false")
	}
}
