package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ErrConfiguration wraps any startup configuration problem. The process must
// not serve traffic with a partial configuration.
var ErrConfiguration = errors.New("configuration error")

type Config struct {
	// Discord OAuth application credentials. Required.
	DiscordClientID     string `env:"AUTH_DISCORD_ID"`
	DiscordClientSecret string `env:"AUTH_DISCORD_SECRET"`

	// SessionSecret signs session tokens. Required.
	SessionSecret string        `env:"AUTH_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"720h"`

	DatabaseFile string `env:"DATABASE_FILE" envDefault:"stationwatch.db"`

	Env       string `env:"ENV" envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	Port      int    `env:"PORT" envDefault:"8080"`

	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`
	ReportRetention      time.Duration `env:"REPORT_RETENTION" envDefault:"720h"`
}

// LoadConfig reads configuration from the environment and validates it.
// Missing required values are fatal: callers must not fall back to serving
// with defaults for credentials or signing secrets.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var missing []string
	if c.DiscordClientID == "" {
		missing = append(missing, "AUTH_DISCORD_ID")
	}
	if c.DiscordClientSecret == "" {
		missing = append(missing, "AUTH_DISCORD_SECRET")
	}
	if c.SessionSecret == "" {
		missing = append(missing, "AUTH_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required environment variables %v", ErrConfiguration, missing)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("%w: SESSION_TTL must be positive", ErrConfiguration)
	}
	return nil
}
