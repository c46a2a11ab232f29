package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var ErrInvalidBillingURL = errors.New("config: BILLING_API_URL must be an absolute http(s) URL")

type Config struct {
	Port   string `env:"PORT" envDefault:"8080"`
	AppEnv string `env:"APP_ENV" envDefault:"production"`

	// Optional. Enables the billing event log.
	DBURL string `env:"DB_URL"`

	JWTSecret  string   `env:"JWT_SECRET,required,notEmpty"`
	CORSOrigin []string `env:"CORS_ORIGIN" envSeparator:","`

	BillingAPIURL     string        `env:"BILLING_API_URL,required,notEmpty"`
	BillingAPITimeout time.Duration `env:"BILLING_API_TIMEOUT" envDefault:"15s"`
	PlanCacheTTL      time.Duration `env:"BILLING_PLAN_CACHE_TTL" envDefault:"5m"`
	SeedFile          string        `env:"BILLING_SEED_FILE"`

	SessionIdleTTL time.Duration `env:"SESSION_IDLE_TTL" envDefault:"30m"`
	MaxSessions    int           `env:"MAX_SESSIONS" envDefault:"10000"`
}

// LoadEnv loads .env files into the process environment. A missing file is
// not an error; the caller decides whether to mention it.
func LoadEnv(files ...string) bool {
	return godotenv.Load(files...) == nil
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	u, err := url.Parse(cfg.BillingAPIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidBillingURL
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}
