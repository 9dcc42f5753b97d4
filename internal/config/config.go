package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// FileEnvVar names the environment variable pointing at an optional YAML config file.
const FileEnvVar = "REGISTRAR_CONFIG"

// Config holds all application configuration. It is resolved once at
// startup and handed to every component that needs it.
type Config struct {
	ServerPort string `koanf:"server_port"`
	GinMode    string `koanf:"gin_mode"`
	LogLevel   string `koanf:"log_level"`
	LogFormat  string `koanf:"log_format"`

	// DatabaseURL wins over the discrete DB_* fields when set.
	DatabaseURL string `koanf:"database_url"`
	DBHost      string `koanf:"db_host"`
	DBPort      int    `koanf:"db_port"`
	DBUser      string `koanf:"db_user"`
	DBPassword  string `koanf:"db_password"`
	DBName      string `koanf:"db_name"`
	DBSSLMode   string `koanf:"db_sslmode"`
	MaxDBConns  int32  `koanf:"max_db_conns"`

	// RedisURL enables the registration event feed. Empty disables it.
	RedisURL string `koanf:"redis_url"`

	// JWTSecret protects the staff routes. Empty leaves them open.
	JWTSecret string        `koanf:"jwt_secret"`
	JWTExpiry time.Duration `koanf:"jwt_expiry"`

	// AllowedOrigins controls HTTP CORS and WebSocket origin validation.
	// Comma separated; empty means all origins are permitted.
	AllowedOrigins string `koanf:"allowed_origins"`

	// StrictStatus switches failures from "always 200" to real status codes.
	StrictStatus bool `koanf:"strict_status"`

	RateLimitPerMinute    int    `koanf:"rate_limit_per_minute"`
	DefaultSemester       string `koanf:"default_semester"`
	SpotlightInstructorID int    `koanf:"spotlight_instructor_id"`
	StaticDir             string `koanf:"static_dir"`
}

// Defaults returns the configuration used when nothing else is provided.
func Defaults() *Config {
	return &Config{
		ServerPort:            "8080",
		GinMode:               "debug",
		LogLevel:              "info",
		LogFormat:             "pretty",
		DBHost:                "localhost",
		DBPort:                5432,
		DBUser:                "registrar",
		DBName:                "registration",
		DBSSLMode:             "disable",
		MaxDBConns:            16,
		JWTExpiry:             12 * time.Hour,
		DefaultSemester:       "Semester 6",
		SpotlightInstructorID: 201,
	}
}

// Load builds a Config by layering defaults, an optional YAML file, an
// optional .env file and the process environment (highest precedence).
func Load() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	k := koanf.New(".")

	if path := os.Getenv(FileEnvVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// SERVER_PORT -> server_port, matching the koanf tags.
	envProvider := env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := *Defaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.ServerPort == "" {
		errs = append(errs, errors.New("server_port must not be empty"))
	}
	if c.MaxDBConns < 1 {
		errs = append(errs, errors.New("max_db_conns must be at least 1"))
	}
	if c.LogFormat != "pretty" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("log_format %q must be pretty or json", c.LogFormat))
	}
	if c.RateLimitPerMinute < 0 {
		errs = append(errs, errors.New("rate_limit_per_minute must not be negative"))
	}
	return errors.Join(errs...)
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   c.DBHost + ":" + strconv.Itoa(c.DBPort),
		Path:   "/" + c.DBName,
	}
	if c.DBPassword != "" {
		u.User = url.UserPassword(c.DBUser, c.DBPassword)
	} else {
		u.User = url.User(c.DBUser)
	}
	if c.DBSSLMode != "" {
		u.RawQuery = "sslmode=" + url.QueryEscape(c.DBSSLMode)
	}
	return u.String()
}

// Origins splits AllowedOrigins into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func (c *Config) Origins() []string {
	if c.AllowedOrigins == "" {
		return nil
	}
	parts := strings.Split(c.AllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// FeedEnabled reports whether the Redis-backed registration feed is configured.
func (c *Config) FeedEnabled() bool {
	return c.RedisURL != ""
}

// StaffAuthEnabled reports whether staff routes require a bearer token.
func (c *Config) StaffAuthEnabled() bool {
	return c.JWTSecret != ""
}
