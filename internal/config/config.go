// Package config reads CareerCopilot settings from the environment and an
// optional .env file and exposes them as typed values.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the runtime configuration shared by the CLI, the console and
// the export worker. Empty S3Endpoint, DatabaseURL or RedisAddr leave the
// matching backend disabled.
type Config struct {
	APIBase        string
	Address        string
	HTTPTimeout    time.Duration
	MaxUploadBytes int64
	SigningSecret  []byte
	SignedURLTTL   time.Duration

	ExportDir     string
	ExportWorkers int
	RenderTimeout time.Duration
	ChromePath    string

	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3UseSSL    bool
	S3Region    string
	S3Bucket    string

	DatabaseURL string

	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	QueueConcurrency int
}

const (
	// DefaultAPIBase is the deployed API Gateway stage.
	DefaultAPIBase = "https://3thpmphful.execute-api.us-east-1.amazonaws.com/prod"

	defaultAddress        = "127.0.0.1:8080"
	defaultMaxUploadBytes = 10 << 20 // 10 MiB
	defaultSignedTTL      = 5 * time.Minute
	defaultExportDir      = "exports"
	defaultExportWorkers  = 2
	defaultRenderTimeout  = time.Minute
	defaultS3Region       = "us-east-1"
	defaultS3Bucket       = "careercopilot-exports"
	defaultConcurrency    = 4
)

// Load reads an optional .env file (or the given files) and then the
// environment. Variables already set in the environment win over the file.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("load env files: %w", err)
	}

	cfg := &Config{
		APIBase:        strings.TrimRight(readEnv("CAREERCOPILOT_API_BASE", DefaultAPIBase), "/"),
		Address:        readEnv("CAREERCOPILOT_ADDRESS", defaultAddress),
		HTTPTimeout:    parseDuration("CAREERCOPILOT_HTTP_TIMEOUT", 0),
		MaxUploadBytes: parseInt64("CAREERCOPILOT_MAX_UPLOAD_BYTES", defaultMaxUploadBytes),
		SigningSecret:  parseSecret("CAREERCOPILOT_SIGNING_SECRET"),
		SignedURLTTL:   parseDuration("CAREERCOPILOT_SIGNED_TTL", defaultSignedTTL),

		ExportDir:     readEnv("CAREERCOPILOT_EXPORT_DIR", defaultExportDir),
		ExportWorkers: parseInt("CAREERCOPILOT_EXPORT_WORKERS", defaultExportWorkers),
		RenderTimeout: parseDuration("CAREERCOPILOT_RENDER_TIMEOUT", defaultRenderTimeout),
		ChromePath:    readEnv("CAREERCOPILOT_CHROME_PATH", ""),

		S3Endpoint:  readEnv("CAREERCOPILOT_S3_ENDPOINT", ""),
		S3AccessKey: readEnv("CAREERCOPILOT_S3_ACCESS_KEY", ""),
		S3SecretKey: readEnv("CAREERCOPILOT_S3_SECRET_KEY", ""),
		S3UseSSL:    parseBool("CAREERCOPILOT_S3_USE_SSL", false),
		S3Region:    readEnv("CAREERCOPILOT_S3_REGION", defaultS3Region),
		S3Bucket:    readEnv("CAREERCOPILOT_S3_BUCKET", defaultS3Bucket),

		DatabaseURL: readEnv("CAREERCOPILOT_DATABASE_URL", ""),

		RedisAddr:        readEnv("CAREERCOPILOT_REDIS_ADDR", ""),
		RedisPassword:    readEnv("CAREERCOPILOT_REDIS_PASSWORD", ""),
		RedisDB:          parseInt("CAREERCOPILOT_REDIS_DB", 0),
		QueueConcurrency: parseInt("CAREERCOPILOT_QUEUE_CONCURRENCY", defaultConcurrency),
	}
	if cfg.SigningSecret == nil {
		cfg.SigningSecret = randomSecret()
	}
	if cfg.HTTPTimeout < 0 {
		cfg.HTTPTimeout = 0
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}
	if cfg.SignedURLTTL <= 0 {
		cfg.SignedURLTTL = defaultSignedTTL
	}
	if cfg.ExportWorkers <= 0 {
		cfg.ExportWorkers = defaultExportWorkers
	}
	if cfg.RenderTimeout <= 0 {
		cfg.RenderTimeout = defaultRenderTimeout
	}
	if cfg.QueueConcurrency <= 0 {
		cfg.QueueConcurrency = defaultConcurrency
	}
	return cfg, nil
}

func readEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func parseInt64(key string, def int64) int64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			return parsed
		}
	}
	return def
}

func parseInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func parseBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func parseDuration(key string, def time.Duration) time.Duration {
	// time.ParseDuration understands inputs like "5m" or "30s".
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}

func parseSecret(key string) []byte {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return []byte(v)
	}
	return nil
}

func randomSecret() []byte {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return []byte(hex.EncodeToString([]byte("fallbacksecret")))
	}
	return buf
}
