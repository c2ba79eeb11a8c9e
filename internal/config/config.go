// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Memo Contributors

// Package config loads memo configuration from a YAML file, command-line
// flags and a small set of environment variables.
package config

import (
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Environment variables consulted when the corresponding key is empty.
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvJWTSecret   = "MEMO_JWT_SECRET"
)

// Defaults.
const (
	DefaultHTTPAddr          = "127.0.0.1:8080"
	DefaultMetricsAddr       = "127.0.0.1:9100"
	DefaultReadHeaderTimeout = 5 * time.Second
	DefaultRequestTimeout    = 15 * time.Second
	DefaultRateLimit         = 20
	DefaultConnectAttempts   = 5
	DefaultTokenTTL          = 60 * time.Minute
	DefaultIssuer            = "memo"
	DefaultLogFormat         = "json"
	DefaultLogLevel          = "info"

	minJWTSecretLength = 32
)

// Config is the complete service configuration.
type Config struct {
	HTTP     HTTPConfig     `koanf:"http"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Database DatabaseConfig `koanf:"database"`
	Auth     AuthConfig     `koanf:"auth"`
	Log      LogConfig      `koanf:"log"`
}

// HTTPConfig configures the API listener.
type HTTPConfig struct {
	Addr              string        `koanf:"addr"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	RequestTimeout    time.Duration `koanf:"request_timeout"`
	// RateLimit is requests per minute per client IP on signup and login.
	// Zero disables limiting.
	RateLimit int `koanf:"rate_limit"`
	// TrustProxyHeaders takes the client address from X-Forwarded-For,
	// X-Real-IP or True-Client-IP. Enable it only behind a proxy that
	// overwrites those headers.
	TrustProxyHeaders bool `koanf:"trust_proxy_headers"`
}

// MetricsConfig configures the observability listener. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `koanf:"addr"`
}

// DatabaseConfig configures the PostgreSQL connection.
type DatabaseConfig struct {
	URL             string `koanf:"url"`
	ConnectAttempts int    `koanf:"connect_attempts"`
}

// AuthConfig configures token signing and the session cookie.
type AuthConfig struct {
	JWTSecret    string        `koanf:"jwt_secret"`
	TokenTTL     time.Duration `koanf:"token_ttl"`
	Issuer       string        `koanf:"issuer"`
	CookieSecure bool          `koanf:"cookie_secure"`
}

// LogConfig configures logging.
type LogConfig struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// RegisterFlags adds every configuration key to fs with its default.
// Flag names are the dotted koanf keys.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("http.addr", DefaultHTTPAddr, "API listen address")
	fs.Duration("http.read_header_timeout", DefaultReadHeaderTimeout, "time allowed to read request headers")
	fs.Duration("http.request_timeout", DefaultRequestTimeout, "per-request handler timeout")
	fs.Int("http.rate_limit", DefaultRateLimit, "signup/login requests per minute per client IP (0 = unlimited)")
	fs.Bool("http.trust_proxy_headers", false, "take the client IP from proxy headers (only behind a trusted proxy)")
	fs.String("metrics.addr", DefaultMetricsAddr, "metrics/health listen address (empty = disabled)")
	fs.String("database.url", "", "PostgreSQL URL (default: $"+EnvDatabaseURL+")")
	fs.Int("database.connect_attempts", DefaultConnectAttempts, "database connection attempts at startup")
	fs.String("auth.jwt_secret", "", "token signing secret (default: $"+EnvJWTSecret+")")
	fs.Duration("auth.token_ttl", DefaultTokenTTL, "session token lifetime")
	fs.String("auth.issuer", DefaultIssuer, "token issuer claim")
	fs.Bool("auth.cookie_secure", false, "mark the session cookie Secure")
	fs.String("log.format", DefaultLogFormat, "log format (json or text)")
	fs.String("log.level", DefaultLogLevel, "log level (debug, info, warn, error)")
}

// Load builds a Config. Explicitly set flags override the file at path,
// which overrides flag defaults. path may be empty. fs may be nil, in
// which case only the file and built-in defaults are used.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if fs == nil {
		fs = pflag.NewFlagSet("config", pflag.ContinueOnError)
		RegisterFlags(fs)
	}
	if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").
			With("operation", "load flags").
			Wrap(err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").
			With("operation", "unmarshal").
			Wrap(err)
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv(EnvDatabaseURL)
	}
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = os.Getenv(EnvJWTSecret)
	}

	return cfg, nil
}

// Validate checks the settings needed to serve requests.
func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("http.addr is required")
	}
	if c.HTTP.RateLimit < 0 {
		return oops.Code("CONFIG_INVALID").Errorf("http.rate_limit must not be negative, got %d", c.HTTP.RateLimit)
	}
	if c.HTTP.ReadHeaderTimeout <= 0 || c.HTTP.RequestTimeout <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("http timeouts must be positive")
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if c.Auth.JWTSecret == "" {
		return oops.Code("CONFIG_INVALID").Errorf("auth.jwt_secret or %s is required", EnvJWTSecret)
	}
	if len(c.Auth.JWTSecret) < minJWTSecretLength {
		return oops.Code("CONFIG_INVALID").Errorf("auth.jwt_secret must be at least %d bytes", minJWTSecretLength)
	}
	if c.Auth.TokenTTL <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("auth.token_ttl must be positive, got %s", c.Auth.TokenTTL)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return oops.Code("CONFIG_INVALID").Errorf("log.format must be 'json' or 'text', got %q", c.Log.Format)
	}
	return nil
}

// Validate checks the settings needed to reach the database.
func (c DatabaseConfig) Validate() error {
	if c.URL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database.url or %s is required", EnvDatabaseURL)
	}
	if c.ConnectAttempts < 1 {
		return oops.Code("CONFIG_INVALID").Errorf("database.connect_attempts must be at least 1, got %d", c.ConnectAttempts)
	}
	return nil
}
