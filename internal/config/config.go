package config

import (
	"fmt"
	"os"
	"strconv"

	"phone-cover-backend/internal/logging"
)

const (
	StorageLocal    = "local"
	StorageSupabase = "supabase"
	StorageS3       = "s3"
)

type Config struct {
	// Server
	Port        string
	Environment string
	LogLevel    string
	BaseURL     string
	MaxUploadMB int64

	// Auth for operator routes
	JWTSecret string

	// Database
	DatabaseURL string

	// Storage
	StorageBackend string
	StorageRoot    string
	TemplatesDir   string
	UploadsDir     string
	GeneratedDir   string

	// Supabase
	SupabaseURL           string
	SupabaseServiceKey    string
	SupabaseStorageBucket string
	SupabaseEventsTable   string

	// S3
	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string

	// Compositing
	DefaultBrightness float64
	PaletteSize       int
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", ""),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		StorageBackend: getEnv("STORAGE_BACKEND", StorageLocal),
		StorageRoot:    getEnv("STORAGE_ROOT", "data"),
		TemplatesDir:   getEnv("TEMPLATES_DIR", "cover_templates"),
		UploadsDir:     getEnv("UPLOADS_DIR", "uploads"),
		GeneratedDir:   getEnv("GENERATED_DIR", "generated_covers"),

		SupabaseURL:           getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey:    getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseStorageBucket: getEnv("SUPABASE_STORAGE_BUCKET", "covers"),
		SupabaseEventsTable:   getEnv("SUPABASE_EVENTS_TABLE", "cover_events"),

		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3Bucket:    getEnv("S3_BUCKET", "covers"),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),
		S3PublicURL: getEnv("S3_PUBLIC_URL", ""),
	}

	var err error
	if cfg.MaxUploadMB, err = getEnvInt("MAX_UPLOAD_MB", 32); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.DefaultBrightness, err = getEnvFloat("DEFAULT_BRIGHTNESS", 1.2); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	palette, err := getEnvInt("PALETTE_SIZE", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	cfg.PaletteSize = int(palette)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.DefaultBrightness <= 0 {
		return fmt.Errorf("DEFAULT_BRIGHTNESS must be positive")
	}
	if c.LogLevel != "" {
		if _, err := logging.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error")
		}
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}
	if c.TemplatesDir == "" || c.UploadsDir == "" || c.GeneratedDir == "" {
		return fmt.Errorf("TEMPLATES_DIR, UPLOADS_DIR and GENERATED_DIR must not be empty")
	}

	switch c.StorageBackend {
	case StorageLocal:
		if c.StorageRoot == "" {
			return fmt.Errorf("STORAGE_ROOT is required for local storage")
		}
	case StorageSupabase:
		if c.SupabaseURL == "" {
			return fmt.Errorf("SUPABASE_URL is required for supabase storage")
		}
		if c.SupabaseServiceKey == "" {
			return fmt.Errorf("SUPABASE_SERVICE_KEY is required for supabase storage")
		}
	case StorageS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for s3 storage")
		}
		if c.S3AccessKey == "" || c.S3SecretKey == "" {
			return fmt.Errorf("S3_ACCESS_KEY and S3_SECRET_KEY are required for s3 storage")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}
