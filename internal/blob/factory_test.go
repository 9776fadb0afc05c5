package blob

import (
	"context"
	"strings"
	"testing"
	"time"

	appcfg "github.com/fdg312/mealboard/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func TestNewBlobStoreLocalForced(t *testing.T) {
	logger, logs := newObservedLogger()

	store, mode, err := NewBlobStore(context.Background(), appcfg.BlobConfig{
		Mode: appcfg.BlobModeLocal,
		S3:   appcfg.S3Config{},
	}, logger)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mode != appcfg.BlobModeLocal {
		t.Fatalf("expected mode=local, got %s", mode)
	}
	if store != nil {
		t.Fatal("expected nil store in local mode")
	}

	entries := logs.FilterMessage("blob mode selected").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 mode log entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["reason"]; got != "forced" {
		t.Fatalf("expected reason=forced, got %v", got)
	}
}

func TestNewBlobStoreAutoEmptyS3FallsBackToLocal(t *testing.T) {
	logger, logs := newObservedLogger()

	store, mode, err := NewBlobStore(context.Background(), appcfg.BlobConfig{
		Mode: appcfg.BlobModeAuto,
		S3:   appcfg.S3Config{},
	}, logger)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mode != appcfg.BlobModeLocal {
		t.Fatalf("expected mode=local fallback, got %s", mode)
	}
	if store != nil {
		t.Fatal("expected nil store on auto fallback")
	}

	diag := logs.FilterMessage("s3 diagnostics").All()
	if len(diag) != 1 || diag[0].ContextMap()["code"] != "s3_not_configured" {
		t.Fatalf("expected s3_not_configured diagnostics, got %v", diag)
	}
	selected := logs.FilterMessage("blob mode selected").All()
	if len(selected) != 1 || !strings.Contains(selected[0].ContextMap()["reason"].(string), "S3 not configured") {
		t.Fatalf("expected auto fallback to local log, got %v", selected)
	}
}

func TestNewBlobStoreAutoPartialS3LogsWarning(t *testing.T) {
	logger, logs := newObservedLogger()

	_, mode, err := NewBlobStore(context.Background(), appcfg.BlobConfig{
		Mode: appcfg.BlobModeAuto,
		S3:   appcfg.S3Config{Endpoint: "https://s3.example.com"},
	}, logger)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mode != appcfg.BlobModeLocal {
		t.Fatalf("expected mode=local fallback, got %s", mode)
	}
	if n := logs.FilterLevelExact(zapcore.WarnLevel).Len(); n != 1 {
		t.Fatalf("expected 1 warning, got %d", n)
	}
}

func TestNewBlobStoreS3MissingRequiredReturnsError(t *testing.T) {
	logger, logs := newObservedLogger()

	store, mode, err := NewBlobStore(context.Background(), appcfg.BlobConfig{
		Mode: appcfg.BlobModeS3,
		S3: appcfg.S3Config{
			Endpoint: "https://s3.example.com",
		},
	}, logger)
	if err == nil {
		t.Fatal("expected error when mode=s3 and required env are missing")
	}
	if store != nil || mode != "" {
		t.Fatalf("expected nil store and empty mode on error, got store=%v mode=%q", store, mode)
	}
	if !strings.Contains(err.Error(), "missing required config") {
		t.Fatalf("expected missing required config error, got: %v", err)
	}
	if logs.FilterMessage("s3 config incomplete").Len() != 1 {
		t.Fatal("expected s3 config incomplete log entry")
	}
}

func TestNewBlobStoreUnknownMode(t *testing.T) {
	_, _, err := NewBlobStore(context.Background(), appcfg.BlobConfig{Mode: "ftp"}, nil)
	if err == nil {
		t.Fatal("expected error for unsupported mode")
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore("https://files.example.com/")

	n, err := store.PutObject(ctx, "lists/a.csv", []byte("name\n"), "text/csv")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if n != 5 {
		t.Fatalf("expected 5 bytes written, got %d", n)
	}

	data, err := store.GetObject(ctx, "lists/a.csv")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(data) != "name\n" {
		t.Fatalf("expected stored data, got %q", data)
	}
	if ct, _ := store.ContentType("lists/a.csv"); ct != "text/csv" {
		t.Fatalf("expected text/csv, got %s", ct)
	}

	url, err := store.PresignGet(ctx, "lists/a.csv", time.Minute)
	if err != nil {
		t.Fatalf("presign: %v", err)
	}
	if !strings.HasPrefix(url, "https://files.example.com/lists%2Fa.csv?expires=") {
		t.Fatalf("unexpected presigned url %s", url)
	}

	if err := store.DeleteObject(ctx, "lists/a.csv"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.PresignGet(ctx, "lists/a.csv", time.Minute); err == nil {
		t.Fatal("expected presign of deleted object to fail")
	}
}
