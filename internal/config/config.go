package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ghaniswara/algolove/pkg/path"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type IConfig interface {
	Get(key string) string
}

var keys = []string{
	"PORT",
	"DATING_EXTERNAL_API_URL",
	"DATING_EXTERNAL_API_KEY",
	"UPSTREAM_TIMEOUT",
	"LOG_LEVEL",
	"LOG_FORMAT",
	"SESSION_COOKIE_NAME",
	"SESSION_EXPIRED_TTL",
	"POSTGRES_DB_NAME",
	"POSTGRES_USER",
	"POSTGRES_PASSWORD",
	"POSTGRES_HOST",
	"POSTGRES_PORT",
	"POSTGRES_SSLMODE",
	"REDIS_HOST",
	"REDIS_PORT",
	"REDIS_PASSWORD",
	"MIGRATIONS_DIR",
}

var defaults = map[string]string{
	"PORT":                "8080",
	"UPSTREAM_TIMEOUT":    "15s",
	"LOG_LEVEL":           "info",
	"LOG_FORMAT":          "console",
	"SESSION_COOKIE_NAME": "dating_session_id",
	"SESSION_EXPIRED_TTL": "24h",
	"POSTGRES_PORT":       "5432",
	"POSTGRES_SSLMODE":    "disable",
	"REDIS_PORT":          "6379",
	"MIGRATIONS_DIR":      "migrations",
}

type UpstreamConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Enabled reports whether enough is configured to open a connection.
func (p PostgresConfig) Enabled() bool {
	return p.Host != "" && p.DBName != ""
}

func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

type SessionConfig struct {
	CookieName string
	ExpiredTTL time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type Config struct {
	Env           string
	Port          string
	Upstream      UpstreamConfig
	Postgres      PostgresConfig
	Redis         RedisConfig
	Session       SessionConfig
	Log           LogConfig
	MigrationsDir string

	v *viper.Viper
}

// NewConfig reads configuration for env. Each key is looked up as
// <ENV>_<KEY> first, then <KEY>, then the built-in default. A .env file found
// in the working directory or any parent is loaded beforehand.
func NewConfig(env string) (*Config, error) {
	env = strings.ToUpper(env)

	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := viper.New()
	for _, key := range keys {
		names := []string{key}
		if env != "" {
			names = append([]string{env + "_" + key}, names...)
		}
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
		if def, ok := defaults[key]; ok {
			v.SetDefault(key, def)
		}
	}

	timeout, err := parsePositiveDuration(v.GetString("UPSTREAM_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("UPSTREAM_TIMEOUT: %w", err)
	}

	expiredTTL, err := parsePositiveDuration(v.GetString("SESSION_EXPIRED_TTL"))
	if err != nil {
		return nil, fmt.Errorf("SESSION_EXPIRED_TTL: %w", err)
	}

	return &Config{
		Env:  env,
		Port: v.GetString("PORT"),
		Upstream: UpstreamConfig{
			BaseURL: v.GetString("DATING_EXTERNAL_API_URL"),
			APIKey:  v.GetString("DATING_EXTERNAL_API_KEY"),
			Timeout: timeout,
		},
		Postgres: PostgresConfig{
			Host:     v.GetString("POSTGRES_HOST"),
			Port:     v.GetString("POSTGRES_PORT"),
			User:     v.GetString("POSTGRES_USER"),
			Password: v.GetString("POSTGRES_PASSWORD"),
			DBName:   v.GetString("POSTGRES_DB_NAME"),
			SSLMode:  v.GetString("POSTGRES_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
		},
		Session: SessionConfig{
			CookieName: v.GetString("SESSION_COOKIE_NAME"),
			ExpiredTTL: expiredTTL,
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		MigrationsDir: v.GetString("MIGRATIONS_DIR"),
		v:             v,
	}, nil
}

// Validate checks what the HTTP server needs before it can proxy anything.
func (c *Config) Validate() error {
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("DATING_EXTERNAL_API_URL is required")
	}
	u, err := url.Parse(c.Upstream.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("DATING_EXTERNAL_API_URL must be an absolute URL, got %q", c.Upstream.BaseURL)
	}
	if c.Session.CookieName == "" {
		return fmt.Errorf("SESSION_COOKIE_NAME must not be empty")
	}
	return nil
}

func (c *Config) Get(key string) string {
	if c.v == nil {
		return ""
	}
	return c.v.GetString(key)
}

func loadDotEnv() error {
	basePath, err := os.Getwd()
	if err != nil {
		return err
	}

	root, err := path.FindRoot(basePath, ".env", false)
	if err != nil {
		// No .env anywhere up the tree; rely on the process environment.
		return nil
	}

	if err := godotenv.Load(root + "/.env"); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func parsePositiveDuration(raw string) (time.Duration, error) {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", raw)
	}
	return d, nil
}
