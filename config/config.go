package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Session storage kinds.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config holds application configuration. It is built once in main and passed
// explicitly to the components that need it.
type Config struct {
	App     AppConfig
	Backend BackendConfig
	Session SessionConfig
	Redis   RedisConfig
	DB      DatabaseConfig
	Log     LogConfig
	Gemini  GeminiConfig
}

// AppConfig holds server settings.
type AppConfig struct {
	Env         string
	ListenAddr  string
	IdleTimeout time.Duration // dashboards unused for longer are dropped
}

// BackendConfig points at the inventory REST service.
type BackendConfig struct {
	URL     string
	Timeout time.Duration
}

// SessionConfig controls the browser cookie and where sessions persist.
type SessionConfig struct {
	Secret       string
	Store        string
	CookieName   string
	CookieSecure bool
	MaxAge       time.Duration
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// DatabaseConfig holds the Postgres connection string.
type DatabaseConfig struct {
	URL string
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
}

// GeminiConfig enables the reorder narrative when APIKey is set.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// Load reads the optional .env file and the environment.
func Load(envFiles ...string) (*Config, error) {
	// A missing .env is fine; the process environment is used as is.
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Env:         v.GetString("app_env"),
			ListenAddr:  v.GetString("listen_addr"),
			IdleTimeout: v.GetDuration("dashboard_idle_timeout"),
		},
		Backend: BackendConfig{
			URL:     strings.TrimRight(v.GetString("backend_url"), "/"),
			Timeout: v.GetDuration("backend_timeout"),
		},
		Session: SessionConfig{
			Secret:       v.GetString("session_secret"),
			Store:        strings.ToLower(v.GetString("session_store")),
			CookieName:   v.GetString("session_cookie_name"),
			CookieSecure: v.GetBool("session_cookie_secure"),
			MaxAge:       v.GetDuration("session_max_age"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis_addr"),
			Password: v.GetString("redis_password"),
			DB:       v.GetInt("redis_db"),
		},
		DB: DatabaseConfig{
			URL: v.GetString("database_url"),
		},
		Log: LogConfig{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
		},
		Gemini: GeminiConfig{
			APIKey: v.GetString("gemini_api_key"),
			Model:  v.GetString("gemini_model"),
		},
	}

	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
		if cfg.IsProduction() {
			cfg.Log.Format = "json"
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "development")
	v.SetDefault("listen_addr", ":3000")
	v.SetDefault("dashboard_idle_timeout", 30*time.Minute)
	v.SetDefault("backend_url", "http://localhost:8080")
	v.SetDefault("backend_timeout", 10*time.Second)
	v.SetDefault("session_store", StoreMemory)
	v.SetDefault("session_cookie_name", "retaildash_session")
	v.SetDefault("session_cookie_secure", false)
	v.SetDefault("session_max_age", 720*time.Hour)
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("log_level", "info")
	v.SetDefault("gemini_model", "gemini-1.5-pro")
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// AIEnabled reports whether the Gemini narrative is configured.
func (c *Config) AIEnabled() bool {
	return c.Gemini.APIKey != ""
}

func (c *Config) validate() error {
	if c.Session.Secret == "" {
		return errors.New("SESSION_SECRET is not set")
	}
	if len(c.Session.Secret) < 16 {
		return errors.New("SESSION_SECRET must be at least 16 characters")
	}
	if c.Backend.URL == "" {
		return errors.New("BACKEND_URL is not set")
	}
	switch c.Session.Store {
	case StoreMemory, StoreRedis:
	case StorePostgres:
		if c.DB.URL == "" {
			return errors.New("DATABASE_URL is required when SESSION_STORE=postgres")
		}
	default:
		return fmt.Errorf("unknown SESSION_STORE %q", c.Session.Store)
	}
	return nil
}
