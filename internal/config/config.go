// Package config loads server configuration from defaults, an optional YAML
// file and the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment variables read as configuration.
// Nested keys use a double underscore: PODS_STORAGE__DATABASE_URL -> storage.database_url.
const EnvPrefix = "PODS_"

// Backend names
const (
	StorageMemory    = "memory"
	StoragePostgres  = "postgres"
	RevocationMemory = "memory"
	RevocationRedis  = "redis"
)

// MinJWTSecretLength is the shortest accepted signing secret
const MinJWTSecretLength = 10

// Config is the root server configuration
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Storage    StorageConfig    `koanf:"storage"`
	Revocation RevocationConfig `koanf:"revocation"`
	Auth       AuthConfig       `koanf:"auth"`
	Pods       PodsConfig       `koanf:"pods"`
	Log        LogConfig        `koanf:"log"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// StorageConfig selects and configures the entity store
type StorageConfig struct {
	Type            string        `koanf:"type"`
	DatabaseURL     string        `koanf:"database_url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	MigrateOnStart  bool          `koanf:"migrate_on_start"`
}

// RevocationConfig selects where revoked tokens are remembered
type RevocationConfig struct {
	Type     string `koanf:"type"`
	RedisURL string `koanf:"redis_url"`
}

// AuthConfig configures password hashing and bearer tokens
type AuthConfig struct {
	JWTSecret  string        `koanf:"jwt_secret"`
	Issuer     string        `koanf:"issuer"`
	TokenTTL   time.Duration `koanf:"token_ttl"`
	BcryptCost int           `koanf:"bcrypt_cost"`
}

// PodsConfig configures pod rules
type PodsConfig struct {
	NameScope string `koanf:"name_scope"`
}

// LogConfig configures the server logger
type LogConfig struct {
	Level string `koanf:"level"`
}

// Default returns the configuration used when nothing overrides it
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			Type:            StorageMemory,
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Revocation: RevocationConfig{
			Type: RevocationMemory,
		},
		Auth: AuthConfig{
			Issuer:     "podtracker",
			TokenTTL:   24 * time.Hour,
			BcryptCost: 10,
		},
		Pods: PodsConfig{
			NameScope: "global",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// wellKnownEnv maps conventional unprefixed variables to config keys.
// Prefixed variables take precedence over these.
var wellKnownEnv = map[string]string{
	"DATABASE_URL": "storage.database_url",
	"REDIS_URL":    "revocation.redis_url",
	"JWT_SECRET":   "auth.jwt_secret",
	"PORT":         "server.port",
}

// Load builds the configuration. path may be empty to skip the YAML file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	for name, key := range wellKnownEnv {
		if value, ok := os.LookupEnv(name); ok && value != "" {
			if err := k.Set(key, value); err != nil {
				return nil, fmt.Errorf("set %s from %s: %w", key, name, err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// envKey turns PODS_AUTH__JWT_SECRET into auth.jwt_secret
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}

// Validate reports every invalid setting
func (c *Config) Validate() error {
	var errs []error

	if len(c.Auth.JWTSecret) < MinJWTSecretLength {
		errs = append(errs, fmt.Errorf("auth.jwt_secret must be at least %d characters", MinJWTSecretLength))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}
	if c.Server.Port < 1024 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d must be between 1024 and 65535", c.Server.Port))
	}

	switch c.Storage.Type {
	case StorageMemory:
	case StoragePostgres:
		if c.Storage.DatabaseURL == "" {
			errs = append(errs, errors.New("storage.database_url is required for postgres storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.type %q must be %s or %s", c.Storage.Type, StorageMemory, StoragePostgres))
	}

	switch c.Revocation.Type {
	case RevocationMemory:
	case RevocationRedis:
		if c.Revocation.RedisURL == "" {
			errs = append(errs, errors.New("revocation.redis_url is required for redis revocation"))
		}
	default:
		errs = append(errs, fmt.Errorf("revocation.type %q must be %s or %s", c.Revocation.Type, RevocationMemory, RevocationRedis))
	}

	switch c.Pods.NameScope {
	case "global", "owner":
	default:
		errs = append(errs, fmt.Errorf("pods.name_scope %q must be global or owner", c.Pods.NameScope))
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// SlogLevel parses the configured level (debug, info, warn, error)
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level %q is not a valid level", l.Level)
	}
	return level, nil
}
