package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	BlobModeLocal = "local"
	BlobModeS3    = "s3"
	BlobModeAuto  = "auto"
)

const (
	AIModeMock   = "mock"
	AIModeOpenAI = "openai"
	AIModeGemini = "gemini"
)

const (
	defaultShareSecret  = "change_me"
	defaultMaxRangeDays = 366
)

type S3Config struct {
	Endpoint          string
	Region            string
	Bucket            string
	AccessKeyID       string
	SecretAccessKey   string
	PublicBaseURL     string
	PresignTTLSeconds int
	PreferPublicURL   bool
}

func (c S3Config) MissingRequired() []string {
	missing := make([]string, 0, 6)
	if strings.TrimSpace(c.Endpoint) == "" {
		missing = append(missing, "S3_ENDPOINT")
	}
	if strings.TrimSpace(c.Region) == "" {
		missing = append(missing, "S3_REGION")
	}
	if strings.TrimSpace(c.Bucket) == "" {
		missing = append(missing, "S3_BUCKET")
	}
	if strings.TrimSpace(c.AccessKeyID) == "" {
		missing = append(missing, "S3_ACCESS_KEY_ID")
	}
	if strings.TrimSpace(c.SecretAccessKey) == "" {
		missing = append(missing, "S3_SECRET_ACCESS_KEY")
	}
	if strings.TrimSpace(c.PublicBaseURL) == "" {
		missing = append(missing, "S3_PUBLIC_BASE_URL")
	}
	return missing
}

func (c S3Config) IsConfigured() bool {
	return len(c.MissingRequired()) == 0
}

func (c S3Config) Diagnostics() (level string, code string, msg string) {
	allEmpty := strings.TrimSpace(c.Endpoint) == "" &&
		strings.TrimSpace(c.Region) == "" &&
		strings.TrimSpace(c.Bucket) == "" &&
		strings.TrimSpace(c.AccessKeyID) == "" &&
		strings.TrimSpace(c.SecretAccessKey) == "" &&
		strings.TrimSpace(c.PublicBaseURL) == ""

	if allEmpty {
		return "INFO", "s3_not_configured", "not configured (all empty)"
	}

	missing := c.MissingRequired()
	if len(missing) > 0 {
		return "WARN", "s3_partial_config", fmt.Sprintf("partial config, missing=%v", missing)
	}

	return "INFO", "s3_ready", "ready"
}

// DiagnosticsSummary returns a detailed summary for logging (no secrets)
func (c S3Config) DiagnosticsSummary() string {
	accessKeyStatus := "not set"
	if strings.TrimSpace(c.AccessKeyID) != "" {
		accessKeyStatus = "set"
	}
	secretKeyStatus := "not set"
	if strings.TrimSpace(c.SecretAccessKey) != "" {
		secretKeyStatus = "set"
	}

	return fmt.Sprintf("endpoint=%s region=%s bucket=%s public_base_url=%s presign_ttl=%ds prefer_public_url=%t access_key_id=%s secret_access_key=%s",
		nonEmptyOrDash(c.Endpoint),
		nonEmptyOrDash(c.Region),
		nonEmptyOrDash(c.Bucket),
		nonEmptyOrDash(c.PublicBaseURL),
		c.PresignTTLSeconds,
		c.PreferPublicURL,
		accessKeyStatus,
		secretKeyStatus,
	)
}

func nonEmptyOrDash(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "-"
	}
	return v
}

type BlobConfig struct {
	Mode string // local|s3|auto
	S3   S3Config
}

type AIConfig struct {
	Mode            string // mock | openai | gemini
	MaxOutputTokens int
	Temperature     float64
	TimeoutSeconds  int
	OpenAIAPIKey    string
	OpenAIModel     string
	GeminiAPIKey    string
	GeminiModel     string
}

// Config holds the process configuration read from the environment.
type Config struct {
	Env      string // local | staging | production
	Port     int
	LogLevel string

	// Database
	DatabaseURL       string // runtime connection (resolved: pooled > url > direct)
	DatabaseURLRaw    string // DATABASE_URL as provided
	DatabaseURLPooled string // DATABASE_URL_POOLED as provided
	DatabaseURLDirect string // for migrations / DDL (may be empty)

	// CORS
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	// Rate Limiting
	RateLimitRPS   int
	RateLimitBurst int

	Blob BlobConfig

	// MaxRangeDays caps the inclusive length of any requested date range.
	MaxRangeDays int

	// Grocery exports and sharing
	ExportMaxItems int
	ShareSecret    string
	ShareIssuer    string
	ShareTTLHours  int
	PublicBaseURL  string

	AI                   AIConfig
	ImportTimeoutSeconds int

	// Jobs
	PruneSchedule string

	// Migrations
	RunMigrationsOnStartup bool

	// Warnings collects fallbacks applied while loading; logged at startup.
	Warnings []string
}

// Load reads configuration from environment variables.
func Load() *Config {
	var warnings []string
	warnf := func(format string, v ...any) {
		warnings = append(warnings, fmt.Sprintf(format, v...))
	}

	// APP_ENV (fallback to ENV, default: local)
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = os.Getenv("ENV")
	}
	if env == "" {
		env = "local"
	}

	port := envInt("PORT", 8080)

	// LOG_LEVEL (default: debug)
	logLevel := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if logLevel == "" {
		logLevel = "debug"
	}

	// ---------- Database ----------
	// Priority: DATABASE_URL_POOLED > DATABASE_URL > DATABASE_URL_DIRECT
	dbPooled := strings.TrimSpace(os.Getenv("DATABASE_URL_POOLED"))
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	dbDirect := strings.TrimSpace(os.Getenv("DATABASE_URL_DIRECT"))

	runtimeDB := dbPooled
	if runtimeDB == "" {
		runtimeDB = dbURL
	}
	if runtimeDB == "" {
		runtimeDB = dbDirect
	}

	runMigrationsOnStartup := parseBoolEnv("RUN_MIGRATIONS_ON_STARTUP")

	// ---------- CORS ----------
	corsOrigins := parseCORSOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"), env)
	corsAllowCreds := parseBoolEnv("CORS_ALLOW_CREDENTIALS")

	// ---------- Rate Limiting ----------
	rateLimitRPS := envInt("RATE_LIMIT_RPS", 0)
	rateLimitBurst := envInt("RATE_LIMIT_BURST", 0)

	// ---------- Blob / S3 ----------
	blobMode, ok := parseBlobMode(os.Getenv("BLOB_MODE"), BlobModeLocal)
	if !ok {
		warnf("unknown BLOB_MODE=%q, fallback to %s", os.Getenv("BLOB_MODE"), BlobModeLocal)
	}

	// S3_PRESIGN_TTL_SECONDS (default: 900, enforce > 0)
	s3PresignTTL := envInt("S3_PRESIGN_TTL_SECONDS", 900)
	if s3PresignTTL <= 0 {
		s3PresignTTL = 900
	}

	s3Cfg := S3Config{
		Endpoint:          strings.TrimSpace(os.Getenv("S3_ENDPOINT")),
		Region:            strings.TrimSpace(os.Getenv("S3_REGION")),
		Bucket:            strings.TrimSpace(os.Getenv("S3_BUCKET")),
		AccessKeyID:       strings.TrimSpace(os.Getenv("S3_ACCESS_KEY_ID")),
		SecretAccessKey:   strings.TrimSpace(os.Getenv("S3_SECRET_ACCESS_KEY")),
		PublicBaseURL:     strings.TrimSpace(os.Getenv("S3_PUBLIC_BASE_URL")),
		PresignTTLSeconds: s3PresignTTL,
		PreferPublicURL:   parseBoolEnv("S3_PREFER_PUBLIC_URL"),
	}

	maxRangeDays := envInt("MAX_RANGE_DAYS", defaultMaxRangeDays)
	if maxRangeDays <= 0 {
		warnf("MAX_RANGE_DAYS=%d is not positive, using %d", maxRangeDays, defaultMaxRangeDays)
		maxRangeDays = defaultMaxRangeDays
	}

	// ---------- Grocery exports / sharing ----------
	exportMaxItems := envInt("EXPORT_MAX_ITEMS", 500)
	if exportMaxItems <= 0 {
		exportMaxItems = 500
	}

	shareSecret := os.Getenv("SHARE_SECRET")
	if shareSecret == "" {
		shareSecret = defaultShareSecret
	}
	if shareSecret == defaultShareSecret && env != "local" {
		warnf("SHARE_SECRET is set to %q in non-local environment", defaultShareSecret)
	}

	shareIssuer := strings.TrimSpace(os.Getenv("SHARE_ISSUER"))
	if shareIssuer == "" {
		shareIssuer = "mealboard"
	}

	// SHARE_TTL_HOURS (default: 168 = 7 days)
	shareTTLHours := envInt("SHARE_TTL_HOURS", 168)
	if shareTTLHours <= 0 {
		shareTTLHours = 168
	}

	publicBaseURL := strings.TrimSuffix(strings.TrimSpace(os.Getenv("PUBLIC_BASE_URL")), "/")

	// ---------- AI ----------
	aiMode := strings.ToLower(strings.TrimSpace(os.Getenv("AI_MODE")))
	if aiMode == "" {
		aiMode = AIModeMock
	}
	if aiMode != AIModeMock && aiMode != AIModeOpenAI && aiMode != AIModeGemini {
		warnf("unknown AI_MODE=%q, fallback to %s", aiMode, AIModeMock)
		aiMode = AIModeMock
	}

	aiMaxOutputTokens := envInt("AI_MAX_OUTPUT_TOKENS", 800)
	if aiMaxOutputTokens <= 0 {
		aiMaxOutputTokens = 800
	}

	aiTemperature := envFloat("AI_TEMPERATURE", 0.7)
	if aiTemperature < 0 {
		aiTemperature = 0
	}
	if aiTemperature > 2 {
		aiTemperature = 2
	}

	aiTimeoutSeconds := envInt("AI_TIMEOUT_SECONDS", 30)
	if aiTimeoutSeconds <= 0 {
		aiTimeoutSeconds = 30
	}

	openAIModel := strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if openAIModel == "" {
		openAIModel = "gpt-4.1-mini"
	}
	geminiModel := strings.TrimSpace(os.Getenv("GEMINI_MODEL"))
	if geminiModel == "" {
		geminiModel = "gemini-1.5-flash"
	}

	importTimeoutSeconds := envInt("IMPORT_TIMEOUT_SECONDS", 15)
	if importTimeoutSeconds <= 0 {
		importTimeoutSeconds = 15
	}

	// ---------- Jobs ----------
	pruneSchedule := strings.TrimSpace(os.Getenv("PRUNE_SCHEDULE"))
	if pruneSchedule == "" {
		pruneSchedule = "0 3 * * *"
	}

	return &Config{
		Env:               env,
		Port:              port,
		LogLevel:          logLevel,
		DatabaseURL:       runtimeDB,
		DatabaseURLRaw:    dbURL,
		DatabaseURLPooled: dbPooled,
		DatabaseURLDirect: dbDirect,

		CORSAllowedOrigins:   corsOrigins,
		CORSAllowCredentials: corsAllowCreds,

		RateLimitRPS:   rateLimitRPS,
		RateLimitBurst: rateLimitBurst,

		Blob: BlobConfig{
			Mode: blobMode,
			S3:   s3Cfg,
		},

		MaxRangeDays: maxRangeDays,

		ExportMaxItems: exportMaxItems,
		ShareSecret:    shareSecret,
		ShareIssuer:    shareIssuer,
		ShareTTLHours:  shareTTLHours,
		PublicBaseURL:  publicBaseURL,

		AI: AIConfig{
			Mode:            aiMode,
			MaxOutputTokens: aiMaxOutputTokens,
			Temperature:     aiTemperature,
			TimeoutSeconds:  aiTimeoutSeconds,
			OpenAIAPIKey:    strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
			OpenAIModel:     openAIModel,
			GeminiAPIKey:    strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
			GeminiModel:     geminiModel,
		},
		ImportTimeoutSeconds: importTimeoutSeconds,

		PruneSchedule: pruneSchedule,

		RunMigrationsOnStartup: runMigrationsOnStartup,

		Warnings: warnings,
	}
}

// Validate reports settings the process cannot start with.
func (c *Config) Validate() error {
	switch c.AI.Mode {
	case AIModeOpenAI:
		if c.AI.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when AI_MODE=openai")
		}
	case AIModeGemini:
		if c.AI.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when AI_MODE=gemini")
		}
	}
	return nil
}

// IsProduction reports whether APP_ENV names a deployed environment.
func (c *Config) IsProduction() bool {
	switch strings.ToLower(c.Env) {
	case "production", "prod", "staging":
		return true
	}
	return false
}

// parseCORSOrigins parses CORS_ALLOWED_ORIGINS env var.
// In local mode, defaults to localhost origins if empty.
func parseCORSOrigins(raw, env string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if env == "local" {
			return []string{"http://localhost:3000", "http://localhost:5173"}
		}
		return nil // prod: deny by default
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

// parseBlobMode returns the mode and whether raw was recognised.
func parseBlobMode(raw string, defaultVal string) (string, bool) {
	mode := strings.ToLower(strings.TrimSpace(raw))
	if mode == "" {
		return defaultVal, true
	}
	switch mode {
	case BlobModeLocal, BlobModeS3, BlobModeAuto:
		return mode, true
	default:
		return defaultVal, false
	}
}

// envInt reads an int env var with a default value.
func envInt(key string, defaultVal int) int {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

func envFloat(key string, defaultVal float64) float64 {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return defaultVal
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return defaultVal
	}
	return v
}

func parseBoolEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}
