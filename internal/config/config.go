package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

var knownWeakSalts = []string{
	"change-me", "dev-salt-change-me", "salt", "secret", "password",
}

type Config struct {
	DatabaseURL       string `env:"DATABASE_URL,required"`
	RedisURL          string `env:"REDIS_URL,required"`
	SenderSalt        string `env:"SENDER_SALT,required"`
	SessionTTLSeconds int    `env:"SESSION_TTL_SECONDS" envDefault:"86400"`
	DefaultLocale     string `env:"DEFAULT_LOCALE" envDefault:"en"`
	LogLevel          string `env:"LOG_LEVEL" envDefault:"info"`
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSeconds) * time.Second
}

// Validate fails closed when sender identity hashing cannot be done safely.
func (c *Config) Validate() error {
	if len(c.SenderSalt) < 16 {
		return fmt.Errorf("SENDER_SALT must be at least 16 characters (generate with: openssl rand -base64 24)")
	}
	for _, weak := range knownWeakSalts {
		if c.SenderSalt == weak {
			return fmt.Errorf("SENDER_SALT is a known weak default; set a strong salt")
		}
	}
	if c.DefaultLocale != "en" && c.DefaultLocale != "he" {
		return fmt.Errorf("DEFAULT_LOCALE must be 'en' or 'he', got %q", c.DefaultLocale)
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
