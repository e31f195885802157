package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	ServiceName string
	HTTPAddr    string
	GRPCAddr    string
	ObsHTTPAddr string

	StorageDriver string
	DatabaseURL   string
	RedisAddr     string

	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroup   string

	JWTSecret      string
	JWTIssuer      string
	JWTAudience    string
	AccessTokenTTL time.Duration

	IdentitySecret   string
	IdentityIssuer   string
	IdentityAudience string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	OutboxBatchSize  int
	OutboxPollDelay  time.Duration
	OutboxMaxRetries int

	TracingEnabled bool
	JaegerURL      string
}

func Load() *Config {
	cfg := &Config{
		ServiceName: getEnv("SERVICE_NAME", "townsquare"),
		HTTPAddr:    fixPort(getEnv("HTTP_ADDR", ":8080")),
		GRPCAddr:    fixPort(getEnv("GRPC_ADDR", ":50051")),
		ObsHTTPAddr: fixPort(getEnv("OBS_HTTP_ADDR", ":8081")),

		StorageDriver: getEnv("STORAGE_DRIVER", DriverPostgres),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),

		KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "townsquare-events"),
		KafkaGroup:   getEnv("KAFKA_GROUP", "townsquare-realtime"),

		JWTSecret:      mustEnv("JWT_SECRET"),
		JWTIssuer:      getEnv("JWT_ISSUER", "townsquare"),
		JWTAudience:    getEnv("JWT_AUDIENCE", "townsquare-api"),
		AccessTokenTTL: getEnvDuration("ACCESS_TOKEN_TTL", 24*time.Hour),

		IdentitySecret:   mustEnv("IDENTITY_SECRET"),
		IdentityIssuer:   getEnv("IDENTITY_ISSUER", ""),
		IdentityAudience: getEnv("IDENTITY_AUDIENCE", ""),

		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),

		OutboxBatchSize:  getEnvInt("OUTBOX_BATCH_SIZE", 100),
		OutboxPollDelay:  getEnvDuration("OUTBOX_POLL_DELAY", 2*time.Second),
		OutboxMaxRetries: getEnvInt("OUTBOX_MAX_RETRIES", 3),

		TracingEnabled: getEnvBool("TRACING_ENABLED", false),
		JaegerURL:      getEnv("JAEGER_URL", "http://localhost:14268/api/traces"),
	}

	switch cfg.StorageDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			log.Fatalf("missing required env: %s", "DATABASE_URL")
		}
	case DriverMemory:
	default:
		log.Fatalf("unknown STORAGE_DRIVER: %q", cfg.StorageDriver)
	}

	return cfg
}

func fixPort(port string) string {
	if port != "" && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v == "true"
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid integer env %s=%q", key, v)
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("invalid duration env %s=%q", key, v)
	}
	return d
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing required env: %s", k)
	}
	return v
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
