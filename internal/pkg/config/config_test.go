package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "STORE_BACKEND", "SIMULATED_LATENCY", "TRACING_ENABLED", "SCOPE_IDLE_TTL"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, 800*time.Millisecond, cfg.SimulatedLatency)
	assert.False(t, cfg.TracingEnabled)
	assert.Equal(t, 30*time.Minute, cfg.ScopeIdleTTL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("SHUTDOWN_TIMEOUT", "2s")

	cfg := Load()
	assert.Equal(t, BackendSQLite, cfg.StoreBackend)
	assert.Equal(t, "/tmp/x.db", cfg.SQLitePath)
	assert.True(t, cfg.TracingEnabled)
	assert.Equal(t, 2*time.Second, cfg.ShutdownTimeout)
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Duration
	}{
		{"", time.Second},
		{"250ms", 250 * time.Millisecond},
		{"0", 0},
		{"1500", 1500 * time.Millisecond},
		{"soon", time.Second},
	}
	for _, tt := range tests {
		t.Setenv("X_DELAY", tt.raw)
		assert.Equal(t, tt.want, getEnvDuration("X_DELAY", time.Second), "raw %q", tt.raw)
	}
}
