package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full runtime configuration, assembled from environment
// variables so main stays lean.
type Config struct {
	Server     Server
	Database   Database
	Redis      RedisConfig
	Classifier Classifier
	SMTP       SMTP
	Kafka      Kafka
	LogLevel   string
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr           string
	JWTSigningKey  string
	AdminTokenHash string
}

// Database captures PostgreSQL connection settings.
type Database struct {
	URL string
}

// RedisConfig captures Redis connection settings for the classifier cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Classifier captures the external text-classification provider settings.
type Classifier struct {
	Endpoint   string
	Token      string
	MaxRetries int
	Timeout    time.Duration
	CacheTTL   time.Duration
}

// SMTP captures the mail relay used for workflow notifications.
type SMTP struct {
	Addr string
	From string
}

// Kafka captures the optional audit mirror settings. Empty Brokers disables
// the mirror.
type Kafka struct {
	Brokers    []string
	AuditTopic string
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:           envOr("SENTINELA_ADDR", ":8080"),
			JWTSigningKey:  envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			AdminTokenHash: os.Getenv("ADMIN_TOKEN_HASH"),
		},
		Database: Database{
			URL: os.Getenv("DATABASE_URL"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Classifier: Classifier{
			Endpoint:   os.Getenv("CLASSIFIER_ENDPOINT"),
			Token:      os.Getenv("CLASSIFIER_TOKEN"),
			MaxRetries: envInt("CLASSIFIER_MAX_RETRIES", 1),
			Timeout:    envDuration("CLASSIFIER_TIMEOUT", 30*time.Second),
			CacheTTL:   envDuration("CLASSIFIER_CACHE_TTL", 24*time.Hour),
		},
		SMTP: SMTP{
			Addr: os.Getenv("SMTP_ADDR"),
			From: envOr("SMTP_FROM", "no-reply@sentinela.local"),
		},
		Kafka: Kafka{
			Brokers:    splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
			AuditTopic: envOr("KAFKA_AUDIT_TOPIC", "sentinela.audit"),
		},
		LogLevel: envOr("LOG_LEVEL", "info"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitNonEmpty(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
