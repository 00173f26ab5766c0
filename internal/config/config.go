// Package config loads server settings from defaults, an optional config
// file and ZALOGA_* environment variables. Command-line flags registered
// with Bind override all of them.
package config

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the server configuration.
type Config struct {
	DB        DBConfig
	HTTP      HTTPConfig
	Log       LogConfig
	Auth      AuthConfig
	Cache     CacheConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

// DBConfig selects the database.
type DBConfig struct {
	Driver string // sqlite or mysql
	DSN    string // file path for sqlite, go-sql-driver DSN for mysql
}

// HTTPConfig configures the listener.
type HTTPConfig struct {
	Addr string
}

// LogConfig configures logging.
type LogConfig struct {
	Path string // optional file receiving a copy of all log lines
}

// AuthConfig toggles bearer-token checks on mutating routes.
type AuthConfig struct {
	Enabled bool
}

// CacheConfig configures the reference-data cache.
type CacheConfig struct {
	TTL time.Duration // 0 disables caching
}

// RedisConfig points the reference cache at Redis instead of process memory.
type RedisConfig struct {
	Addr     string // empty keeps the cache in process
	Password string
	DB       int
}

// RateLimitConfig caps request throughput.
type RateLimitConfig struct {
	RPS   float64 // 0 disables rate limiting
	Burst int
}

// defaults holds every key with its default value.
var defaults = map[string]any{
	"db.driver":       "sqlite",
	"db.dsn":          "zaloga.sqlite3",
	"http.addr":       ":8080",
	"log.path":        "",
	"auth.enabled":    false,
	"cache.ttl":       time.Minute,
	"redis.addr":      "",
	"redis.password":  "",
	"redis.db":        0,
	"ratelimit.rps":   0.0,
	"ratelimit.burst": 20,
}

// Load reads configuration. configFile may be empty, in which case
// zaloga.{yaml,json,toml} in the working directory is used if present.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix("ZALOGA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("zaloga")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{
		DB: DBConfig{
			Driver: v.GetString("db.driver"),
			DSN:    v.GetString("db.dsn"),
		},
		HTTP: HTTPConfig{Addr: v.GetString("http.addr")},
		Log:  LogConfig{Path: v.GetString("log.path")},
		Auth: AuthConfig{Enabled: v.GetBool("auth.enabled")},
		Cache: CacheConfig{
			TTL: v.GetDuration("cache.ttl"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("ratelimit.rps"),
			Burst: v.GetInt("ratelimit.burst"),
		},
	}
	return cfg, cfg.Validate()
}

// Validate checks values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("db.driver must be sqlite or mysql, got %q", c.DB.Driver)
	}
	if c.DB.DSN == "" {
		return errors.New("db.dsn must not be empty")
	}
	if c.Cache.TTL < 0 {
		return errors.New("cache.ttl must not be negative")
	}
	if c.Redis.Addr != "" && c.Cache.TTL == 0 {
		return errors.New("redis.addr is set but cache.ttl is 0, which disables the cache")
	}
	if c.RateLimit.RPS < 0 {
		return errors.New("ratelimit.rps must not be negative")
	}
	return nil
}

// Bind registers long and short flags on fs, using the
// loaded values as defaults, so flags given on the command line win.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.DB.Driver, "driver", c.DB.Driver, "")
	fs.StringVar(&c.DB.DSN, "db", c.DB.DSN, "")
	fs.StringVar(&c.DB.DSN, "d", c.DB.DSN, "")
	fs.StringVar(&c.HTTP.Addr, "addr", c.HTTP.Addr, "")
	fs.StringVar(&c.HTTP.Addr, "a", c.HTTP.Addr, "")
	fs.StringVar(&c.Log.Path, "log", c.Log.Path, "")
	fs.StringVar(&c.Log.Path, "l", c.Log.Path, "")
	fs.BoolVar(&c.Auth.Enabled, "auth", c.Auth.Enabled, "")
	fs.StringVar(&c.Redis.Addr, "redis", c.Redis.Addr, "")
}
