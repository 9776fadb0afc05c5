package config

import (
	"strings"
	"testing"
)

func exportBucket() S3Config {
	return S3Config{
		Endpoint:          "http://minio:9000",
		Region:            "us-east-1",
		Bucket:            "mealboard-exports",
		AccessKeyID:       "mealboard",
		SecretAccessKey:   "s3cr3t",
		PublicBaseURL:     "https://cdn.mealboard.test/exports",
		PresignTTLSeconds: 900,
	}
}

func TestS3Config_ReadyAndPartial(t *testing.T) {
	if (S3Config{}).IsConfigured() {
		t.Fatal("expected empty config to be unconfigured")
	}
	if level, code, _ := (S3Config{}).Diagnostics(); level != "INFO" || code != "s3_not_configured" {
		t.Errorf("expected INFO/s3_not_configured, got %s/%s", level, code)
	}

	ready := exportBucket()
	if !ready.IsConfigured() {
		t.Fatalf("expected export bucket to be configured, missing %v", ready.MissingRequired())
	}
	if level, code, _ := ready.Diagnostics(); level != "INFO" || code != "s3_ready" {
		t.Errorf("expected INFO/s3_ready, got %s/%s", level, code)
	}

	// presign settings are optional; only connection fields count
	partial := S3Config{Bucket: "mealboard-exports", PresignTTLSeconds: 60, PreferPublicURL: true}
	want := []string{"S3_ENDPOINT", "S3_REGION", "S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY", "S3_PUBLIC_BASE_URL"}
	if got := partial.MissingRequired(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected missing %v, got %v", want, got)
	}
	if level, code, _ := partial.Diagnostics(); level != "WARN" || code != "s3_partial_config" {
		t.Errorf("expected WARN/s3_partial_config, got %s/%s", level, code)
	}
}

func TestS3Config_SummaryHidesSecrets(t *testing.T) {
	cfg := exportBucket()
	cfg.PreferPublicURL = true

	summary := cfg.DiagnosticsSummary()
	for _, want := range []string{"bucket=mealboard-exports", "presign_ttl=900s", "prefer_public_url=true", "access_key_id=set"} {
		if !strings.Contains(summary, want) {
			t.Errorf("expected summary to contain %q, got %s", want, summary)
		}
	}
	if strings.Contains(summary, "s3cr3t") || strings.Contains(summary, "=mealboard ") {
		t.Errorf("expected credentials to be redacted, got %s", summary)
	}
}

func TestLoadS3ExportSettings(t *testing.T) {
	t.Setenv("BLOB_MODE", "s3")
	t.Setenv("S3_BUCKET", "mealboard-exports")
	t.Setenv("S3_PRESIGN_TTL_SECONDS", "120")
	t.Setenv("S3_PREFER_PUBLIC_URL", "true")

	cfg := Load()
	if cfg.Blob.Mode != BlobModeS3 {
		t.Fatalf("expected blob mode s3, got %s", cfg.Blob.Mode)
	}
	if cfg.Blob.S3.PresignTTLSeconds != 120 || !cfg.Blob.S3.PreferPublicURL {
		t.Errorf("expected ttl=120 prefer_public=true, got ttl=%d prefer_public=%t", cfg.Blob.S3.PresignTTLSeconds, cfg.Blob.S3.PreferPublicURL)
	}

	t.Setenv("S3_PRESIGN_TTL_SECONDS", "-5")
	t.Setenv("S3_PREFER_PUBLIC_URL", "")
	cfg = Load()
	if cfg.Blob.S3.PresignTTLSeconds != 900 || cfg.Blob.S3.PreferPublicURL {
		t.Errorf("expected ttl fallback 900 and prefer_public=false, got ttl=%d prefer_public=%t", cfg.Blob.S3.PresignTTLSeconds, cfg.Blob.S3.PreferPublicURL)
	}
}
