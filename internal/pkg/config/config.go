package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type PostgresConfig struct {
	Host     string
	Port     string
	DB       string
	Username string
	Password string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RepositoriesConfig struct {
	// HistoryBackend is one of "memory", "postgres" or "redis".
	HistoryBackend string
	Postgres       PostgresConfig
	Redis          RedisConfig
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type SearchConfig struct {
	DefaultLocation string
	FallbackDelay   time.Duration
	HistoryLimit    int
	RateLimit       int
	RateInterval    time.Duration
	SessionTTL      time.Duration
}

type ObservabilityConfig struct {
	ServiceName  string
	MetricsAddr  string
	PprofAddr    string
	OTLPEndpoint string
	LogLevel     string
}

type Config struct {
	Repositories  RepositoriesConfig
	Gemini        GeminiConfig
	Search        SearchConfig
	Observability ObservabilityConfig
	ServerPort    string
}

const (
	HistoryMemory   = "memory"
	HistoryPostgres = "postgres"
	HistoryRedis    = "redis"
)

func Load() (*Config, error) {
	cfg := &Config{
		Repositories: RepositoriesConfig{
			HistoryBackend: strings.ToLower(getEnvOrDefault("HISTORY_BACKEND", HistoryMemory)),
			Postgres: PostgresConfig{
				Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
				Port:     getEnvOrDefault("POSTGRES_PORT", "5454"),
				DB:       getEnvOrDefault("POSTGRES_DB", "frugal_finder"),
				Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
				Password: getEnvOrDefault("POSTGRES_PASSWORD", ""),
				SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
				MaxConns: int32(getEnvIntOrDefault("POSTGRES_MAX_CONNS", 10)),
				MinConns: int32(getEnvIntOrDefault("POSTGRES_MIN_CONNS", 2)),
			},
			Redis: RedisConfig{
				Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
				Password: getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:       getEnvIntOrDefault("REDIS_DB", 0),
			},
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		},
		Search: SearchConfig{
			DefaultLocation: getEnvOrDefault("DEFAULT_LOCATION", "Toronto"),
			FallbackDelay:   getEnvDurationOrDefault("FALLBACK_DELAY", time.Second),
			HistoryLimit:    getEnvIntOrDefault("HISTORY_LIMIT", 5),
			RateLimit:       getEnvIntOrDefault("SEARCH_RATE_LIMIT", 20),
			RateInterval:    getEnvDurationOrDefault("SEARCH_RATE_INTERVAL", time.Minute),
			SessionTTL:      getEnvDurationOrDefault("SESSION_TTL", 30*time.Minute),
		},
		Observability: ObservabilityConfig{
			ServiceName:  getEnvOrDefault("SERVICE_NAME", "frugal-finder"),
			MetricsAddr:  getEnvOrDefault("METRICS_ADDR", ":9092"),
			PprofAddr:    getEnvOrDefault("PPROF_ADDR", ":6060"),
			OTLPEndpoint: getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "otel-collector:4318"),
			LogLevel:     getEnvOrDefault("LOG_LEVEL", "info"),
		},
		ServerPort: getEnvOrDefault("SERVER_PORT", "8091"),
	}

	switch cfg.Repositories.HistoryBackend {
	case HistoryMemory, HistoryRedis:
	case HistoryPostgres:
		if cfg.Repositories.Postgres.Password == "" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD environment variable is required")
		}
	default:
		return nil, fmt.Errorf("unsupported HISTORY_BACKEND %q", cfg.Repositories.HistoryBackend)
	}

	if cfg.Search.HistoryLimit <= 0 {
		return nil, fmt.Errorf("HISTORY_LIMIT must be positive, got %d", cfg.Search.HistoryLimit)
	}

	return cfg, nil
}

// ProviderConfigured reports whether a Gemini credential is present.
func (c *Config) ProviderConfigured() bool {
	return strings.TrimSpace(c.Gemini.APIKey) != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
