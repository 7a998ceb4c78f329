package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		if name, _, _ := strings.Cut(kv, "="); strings.HasPrefix(name, "GOTCHAN_") {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DB != "gotchan.db" || cfg.Addr != ":8080" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.MatchCacheTTL != 5*time.Minute {
		t.Errorf("expected 5m ttl, got %v", cfg.MatchCacheTTL)
	}
	if !cfg.TrustFinishReward.Equal(decimal.NewFromInt(1)) {
		t.Errorf("unexpected reward %s", cfg.TrustFinishReward)
	}
	if cfg.RedisURL != "" || cfg.OTLPEndpoint != "" {
		t.Error("optional integrations should be off by default")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOTCHAN_ADDR", ":9090")
	t.Setenv("GOTCHAN_CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("GOTCHAN_TRUST_CANCEL_PENALTY", "2.5")
	t.Setenv("GOTCHAN_MATCH_CACHE_TTL", "30s")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("expected :9090, got %s", cfg.Addr)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Errorf("unexpected origins %v", cfg.CORSOrigins)
	}
	if !cfg.TrustCancelPenalty.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("unexpected penalty %s", cfg.TrustCancelPenalty)
	}
	if cfg.MatchCacheTTL != 30*time.Second {
		t.Errorf("unexpected ttl %v", cfg.MatchCacheTTL)
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("GOTCHAN_DB=/tmp/from-file.db\nGOTCHAN_ADDR=:7000\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// The environment wins over the file.
	t.Setenv("GOTCHAN_ADDR", ":7001")
	t.Setenv("GOTCHAN_DB", "")
	os.Unsetenv("GOTCHAN_DB")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DB != "/tmp/from-file.db" {
		t.Errorf("expected db from file, got %s", cfg.DB)
	}
	if cfg.Addr != ":7001" {
		t.Errorf("expected env to win, got %s", cfg.Addr)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad duration", "GOTCHAN_MATCH_CACHE_TTL", "soon"},
		{"negative duration", "GOTCHAN_MATCH_CACHE_TTL", "-1s"},
		{"bad decimal", "GOTCHAN_TRUST_FINISH_REWARD", "lots"},
		{"negative reward", "GOTCHAN_TRUST_FINISH_REWARD", "-1"},
	}

	for _, tt := range tests {
		clearEnv(t)
		t.Setenv(tt.key, tt.value)
		if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}
