package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	DatabaseURL    string
	HTTPListenAddr string
	LogLevel       string
	ServiceName    string

	// Object storage (S3-compatible).
	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	// S3PublicURL is the base URL at which uploaded objects are publicly
	// reachable. Defaults to <endpoint>/<bucket> when empty.
	S3PublicURL string

	// Admin panel. ADMIN_PASSWORD_HASH (argon2id) takes precedence over the
	// plain ADMIN_PASSWORD when both are set.
	AdminPassword     string
	AdminPasswordHash string
	SessionSecret     string

	AppName      string
	AppURL       string
	TemplatePath string
	MaxBatchSize int

	// Outbound email (SendGrid). Empty API key disables delivery.
	SendGridAPIKey string
	FromEmail      string
	FromName       string

	RateLimitEnabled bool

	// Browser origins allowed to call the API cross-site.
	CORSAllowedOrigins []string
}

func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		HTTPListenAddr:    getEnv("HTTP_LISTEN_ADDR", ":8000"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		ServiceName:       getEnv("SERVICE_NAME", "certapi"),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3Bucket:          getEnv("S3_BUCKET", "certificates"),
		S3AccessKey:       getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:       getEnv("S3_SECRET_KEY", ""),
		S3PublicURL:       getEnv("S3_PUBLIC_URL", ""),
		AdminPassword:     getEnv("ADMIN_PASSWORD", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		SessionSecret:     getEnv("SESSION_SECRET", ""),
		AppName:           getEnv("APP_NAME", "Certificate Generator"),
		AppURL:            getEnv("APP_URL", "http://localhost:8000"),
		TemplatePath:      getEnv("TEMPLATE_PATH", "template.svg"),
		MaxBatchSize:      getEnvInt("MAX_BATCH_SIZE", 1000),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		FromEmail:         getEnv("FROM_EMAIL", "noreply@example.com"),
		FromName:          getEnv("FROM_NAME", "Certificate Generator"),
		RateLimitEnabled:  getEnvBool("RATE_LIMIT_ENABLED", true),
	}

	if origins := getEnv("CORS_ALLOWED_ORIGINS", ""); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	}

	return cfg, nil
}

// Validate checks that the settings the API server cannot run without are set.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.S3Endpoint == "" || c.S3AccessKey == "" || c.S3SecretKey == "" {
		return fmt.Errorf("S3_ENDPOINT, S3_ACCESS_KEY and S3_SECRET_KEY are required")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if c.AdminPassword == "" && c.AdminPasswordHash == "" {
		return fmt.Errorf("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
