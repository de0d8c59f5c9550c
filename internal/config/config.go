package config

import (
	"fmt"

	pkgconfig "github.com/eternalinsky-max/proponujeprace/pkg/config"
)

// Config holds all configuration for the job board API.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// PostgreSQL
	PostgresHost          string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort          int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser          string `env:"POSTGRES_USER" envDefault:"jobboard"`
	PostgresPass          string `env:"POSTGRES_PASSWORD" envDefault:"jobboard_secret"`
	PostgresDB            string `env:"POSTGRES_DB" envDefault:"jobboard"`
	PostgresSSL           string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
	DBMaxConns            int    `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns            int    `env:"DB_MIN_CONNS" envDefault:"2"`
	DBMaxConnLifetimeMins int    `env:"DB_MAX_CONN_LIFETIME_MINS" envDefault:"60"`
	DBMaxConnIdleTimeMins int    `env:"DB_MAX_CONN_IDLE_TIME_MINS" envDefault:"10"`
	SlowQueryThresholdMs  int    `env:"SLOW_QUERY_THRESHOLD_MS" envDefault:"200"`

	// Redis (contact form rate limiter)
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Identity provider token verification
	JWTSecret string `env:"JWT_SECRET" envDefault:"change-this-to-a-secure-secret"`

	// Mail provider (contact form delivery)
	MailBaseURL      string `env:"MAIL_BASE_URL" envDefault:"https://api.mail.example.com"`
	MailAPIKey       string `env:"MAIL_API_KEY" envDefault:""`
	MailFrom         string `env:"MAIL_FROM" envDefault:"noreply@proponujeprace.pl"`
	ContactRecipient string `env:"CONTACT_RECIPIENT" envDefault:"kontakt@proponujeprace.pl"`

	// Contact form sliding window limiter
	ContactRateLimit  int    `env:"CONTACT_RATE_LIMIT" envDefault:"5"`
	ContactRateWindow string `env:"CONTACT_RATE_WINDOW" envDefault:"10m"`

	// Per-IP token bucket on mutation routes
	RateLimitRPS   int `env:"RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST" envDefault:"20"`

	// Scheduled cleanup endpoint
	CronSecret string `env:"CRON_SECRET" envDefault:""`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"0.1"`

	// pprof access
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.0/8" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.ContactRateLimit < 1 {
		return fmt.Errorf("contact rate limit must be positive, got %d", c.ContactRateLimit)
	}

	// In non-development environments, require explicitly set secrets.
	if c.Environment != "development" {
		if c.JWTSecret == "change-this-to-a-secure-secret" {
			return fmt.Errorf("JWT_SECRET must be explicitly set via environment variable in %q mode", c.Environment)
		}
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters long, got %d", len(c.JWTSecret))
		}
		if c.CronSecret == "" {
			return fmt.Errorf("CRON_SECRET must be set in %q mode", c.Environment)
		}
	}

	return nil
}
