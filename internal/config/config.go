// Package config loads server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds the server settings. Command-line flags override these.
type Config struct {
	DB        string `env:"GOTCHAN_DB" envDefault:"gotchan.db"`
	Addr      string `env:"GOTCHAN_ADDR" envDefault:":8080"`
	Log       string `env:"GOTCHAN_LOG"`
	JWTSecret string `env:"GOTCHAN_JWT_SECRET"`

	RedisURL      string        `env:"GOTCHAN_REDIS_URL"`
	MatchCacheTTL time.Duration `env:"GOTCHAN_MATCH_CACHE_TTL" envDefault:"5m"`

	CORSOrigins  []string `env:"GOTCHAN_CORS_ORIGINS" envSeparator:","`
	OTLPEndpoint string   `env:"GOTCHAN_OTLP_ENDPOINT"`

	TrustFinishReward  decimal.Decimal `env:"GOTCHAN_TRUST_FINISH_REWARD" envDefault:"1.0"`
	TrustCancelPenalty decimal.Decimal `env:"GOTCHAN_TRUST_CANCEL_PENALTY" envDefault:"1.0"`
}

// Load reads the optional .env files, then parses the environment.
// Variables already set in the environment win over .env values.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.MatchCacheTTL < 0 {
		return fmt.Errorf("GOTCHAN_MATCH_CACHE_TTL must not be negative")
	}
	if c.TrustFinishReward.IsNegative() || c.TrustCancelPenalty.IsNegative() {
		return fmt.Errorf("trust adjustments must not be negative")
	}
	return nil
}
