// Package config reads process settings from the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

type StoreBackend string

const (
	BackendMemory StoreBackend = "memory"
	BackendRedis  StoreBackend = "redis"
	BackendSQLite StoreBackend = "sqlite"
)

type Config struct {
	AppEnv   string
	LogLevel string

	HTTPAddr string
	GRPCAddr string

	StoreBackend StoreBackend
	RedisAddr    string
	SQLitePath   string

	ServiceName    string
	OTLPEndpoint   string
	TracingEnabled bool

	// SimulatedLatency delays login and payment authorization.
	SimulatedLatency time.Duration
	ShutdownTimeout  time.Duration

	// ScopeIdleTTL drops per-browser state from memory after inactivity.
	ScopeIdleTTL time.Duration
}

func Load() Config {
	return Config{
		AppEnv:           getEnv("APP_ENV", "local"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		GRPCAddr:         getEnv("GRPC_ADDR", ":9090"),
		StoreBackend:     StoreBackend(getEnv("STORE_BACKEND", string(BackendMemory))),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		SQLitePath:       getEnv("SQLITE_PATH", "maison.db"),
		ServiceName:      getEnv("OTEL_SERVICE_NAME", "maison-storefront"),
		OTLPEndpoint:     getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		TracingEnabled:   getEnvBool("TRACING_ENABLED", false),
		SimulatedLatency: getEnvDuration("SIMULATED_LATENCY", 800*time.Millisecond),
		ShutdownTimeout:  getEnvDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
		ScopeIdleTTL:     getEnvDuration("SCOPE_IDLE_TTL", 30*time.Minute),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return b
}

// getEnvDuration accepts Go durations ("1.5s") or plain milliseconds.
func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return def
}
