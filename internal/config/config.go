package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JobToken JobTokenConfig
	Autofill AutofillConfig
	Provider ProviderConfig
	SMTP     SMTPConfig
	Storage  StorageConfig
	// CredentialsPath points at the credential record (JSON or YAML).
	CredentialsPath string `env:"CONFIG_PATH" envDefault:"config.json"`
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int      `env:"APP_PORT" envDefault:"8080"`
	Env                string   `env:"APP_ENV" envDefault:"development"`
	LogLevel           string   `env:"LOG_LEVEL" envDefault:"info"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:8080"`
}

// DatabaseConfig is optional; run history stays in memory without it.
type DatabaseConfig struct {
	URL      string `env:"DATABASE_URL"`
	MaxConns int32  `env:"DATABASE_MAX_CONNS" envDefault:"4"`
}

// JobTokenConfig signs the tokens handed out with each started job.
type JobTokenConfig struct {
	Secret string        `env:"JOB_TOKEN_SECRET"`
	TTL    time.Duration `env:"JOB_TOKEN_TTL" envDefault:"2h"`
}

// AutofillConfig controls the periodic run for the current month.
type AutofillConfig struct {
	Enabled  bool          `env:"AUTOFILL_ENABLED" envDefault:"false"`
	Interval time.Duration `env:"AUTOFILL_INTERVAL" envDefault:"24h"`
}

type ProviderConfig struct {
	// HTTPTimeout bounds a single provider request. Zero means no timeout.
	HTTPTimeout      time.Duration `env:"PROVIDER_HTTP_TIMEOUT" envDefault:"0s"`
	FactorialBaseURL string        `env:"FACTORIAL_BASE_URL"`
	SesameBaseURL    string        `env:"SESAME_BASE_URL"`
}

// StorageConfig locates run transcripts on disk. Empty disables them.
type StorageConfig struct {
	BasePath string `env:"STORAGE_BASE_PATH"`
}

// SMTPConfig is used to mail a summary of every autofill run. Without a
// host or recipient nothing is sent.
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM"`
	FromName string `env:"SMTP_FROM_NAME" envDefault:"Shift Autofill"`
	To       string `env:"NOTIFY_EMAIL"`
}

// Enabled reports whether run summaries can be mailed.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.To != ""
}

// Load reads .env when present and parses the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	return parse(env.Options{})
}

// Parse builds the configuration from environ only, ignoring the process
// environment.
func Parse(environ map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		var aggErr env.AggregateError
		if errors.As(err, &aggErr) && len(aggErr.Errors) > 0 {
			return nil, fmt.Errorf("invalid environment: %w", aggErr.Errors[0])
		}
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	if cfg.JobToken.Secret == "" {
		slog.Warn("JOB_TOKEN_SECRET is not set, job tokens will not survive a restart")
		cfg.JobToken.Secret = uuid.NewString()
	}
	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("APP_PORT must be between 1 and 65535")
	}
	if c.JobToken.TTL <= 0 {
		return fmt.Errorf("JOB_TOKEN_TTL must be positive")
	}
	if c.Autofill.Enabled && c.Autofill.Interval < time.Minute {
		return fmt.Errorf("AUTOFILL_INTERVAL must be at least 1m")
	}
	if c.Provider.HTTPTimeout < 0 {
		return fmt.Errorf("PROVIDER_HTTP_TIMEOUT must not be negative")
	}
	if c.SMTP.Enabled() && (c.SMTP.Port <= 0 || c.SMTP.Port > 65535) {
		return fmt.Errorf("SMTP_PORT must be between 1 and 65535")
	}
	return nil
}

// LogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
