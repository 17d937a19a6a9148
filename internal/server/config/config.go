// Package config handles configuration for the gophreg server: defaults,
// JSON file overlay, environment variables and command-line flags, applied
// in that order.
package config

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/gophreg/internal/common"
)

// Config holds runtime settings for the registration server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the HTTP API.
//   - DatabaseDSN: postgres:// URL (pgx) or a SQLite file/DSN (modernc).
//   - SecretKey: HMAC secret for signing JWTs (HS256). Has no default; see Validate.
//   - TokenValidityDuration: lifetime of the token issued on completion.
//   - BcryptCost: password hashing work factor.
//   - RedisAddr / RedisPassword / RedisDB: session store; empty address means in-memory sessions.
//   - SessionTTL: idle lifetime of a registration session.
//   - SessionCookieName / SessionCookieSecure: session cookie attributes.
//   - GinMode: gin mode ("debug", "release", "test").
//   - LogLevel: minimum slog level.
type Config struct {
	EndpointAddrHTTP      string        `env:"ADDRESS"`
	DatabaseDSN           string        `env:"DATABASE_DSN"`
	SecretKey             string        `env:"JWT_SECRET"`
	TokenValidityDuration time.Duration `env:"TOKEN_VALIDITY"`
	BcryptCost            int           `env:"BCRYPT_COST"`
	RedisAddr             string        `env:"REDIS_ADDR"`
	RedisPassword         string        `env:"REDIS_PASSWORD"`
	RedisDB               int           `env:"REDIS_DB"`
	SessionTTL            time.Duration `env:"SESSION_TTL"`
	SessionCookieName     string        `env:"SESSION_COOKIE_NAME"`
	SessionCookieSecure   bool          `env:"SESSION_COOKIE_SECURE"`
	GinMode               string        `env:"GIN_MODE"`
	LogLevel              string        `env:"LOG_LEVEL"`
}

// ErrMissingSecretKey is returned by Validate when no token secret was configured.
var ErrMissingSecretKey = errors.New("token secret is not configured (JWT_SECRET, -s or secret_key)")

// LoadDefaults populates Config with development defaults. SecretKey is left
// empty on purpose and must come from the file, the environment or a flag.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.DatabaseDSN = "file:gophreg.db?_pragma=busy_timeout(5000)"
	c.SecretKey = ""
	c.TokenValidityDuration = common.DefaultTokenValidity
	c.BcryptCost = common.DefaultBcryptCost
	c.RedisAddr = ""
	c.RedisPassword = ""
	c.RedisDB = 0
	c.SessionTTL = 24 * time.Hour
	c.SessionCookieName = common.DefaultSessionCookieName
	c.SessionCookieSecure = false
	c.GinMode = "release"
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return ErrMissingSecretKey
	}
	return nil
}
