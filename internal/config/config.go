package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat   string `envconfig:"LOG_FORMAT"`

	DatabaseURI             string `envconfig:"DATABASE_URI" required:"true"`
	DatabaseMaxConns        int    `envconfig:"DATABASE_MAX_CONNS" default:"10"`
	DatabaseMaxIdleConns    int    `envconfig:"DATABASE_MAX_IDLE_CONNS" default:"5"`
	DatabaseConnMaxLifetime int    `envconfig:"DATABASE_CONN_MAX_LIFETIME" default:"1800"` // seconds
	AutoMigrate             bool   `envconfig:"AUTO_MIGRATE" default:"true"`

	JWTSecret  []byte `envconfig:"JWT_SECRET" required:"true"`
	JWTExpiry  int    `envconfig:"JWT_EXPIRY" default:"604800"` // seconds, 7 days
	JWTIssuer  string `envconfig:"JWT_ISSUER" default:"tampabay"`
	JWKSURL    string `envconfig:"JWKS_URL"`
	JWKSIssuer string `envconfig:"JWKS_ISSUER"`

	MongoDBURI      string `envconfig:"MONGODB_URI"`
	MongoDBPassword string `envconfig:"MONGODB_PASSWORD"`
	MongoDBDatabase string `envconfig:"MONGODB_DATABASE" default:"tampabay"`

	SentryDSN              string  `envconfig:"SENTRY_DSN"`
	SentryTracesSampleRate float64 `envconfig:"SENTRY_TRACES_SAMPLE_RATE"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	EnableMetrics      bool     `envconfig:"ENABLE_METRICS" default:"true"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if len(cfg.JWTSecret) < 16 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 16 bytes")
	}
	if cfg.JWKSURL != "" && cfg.JWKSIssuer == "" {
		return nil, fmt.Errorf("JWKS_ISSUER is required when JWKS_URL is set")
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "console"
		if cfg.IsProduction() {
			cfg.LogFormat = "json"
		}
	}
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) TokenExpiry() time.Duration {
	return time.Duration(c.JWTExpiry) * time.Second
}

// MongoEnabled reports whether event view tracking has a backing store.
func (c *Config) MongoEnabled() bool {
	return c.MongoDBURI != ""
}
