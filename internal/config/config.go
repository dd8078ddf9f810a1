package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Auth    AuthConfig
	Stellar StellarConfig
	Redis   RedisConfig
	CORS    CORSConfig
	Log     LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings for posting history.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// AuthConfig holds inbound bearer-token settings. Disabled means the
// deployment runs without authentication and credential-less requests are
// accepted.
type AuthConfig struct {
	Disabled bool   `mapstructure:"disabled"`
	Secret   string `mapstructure:"secret"`
	Issuer   string `mapstructure:"issuer"`
}

// StellarConfig holds settings for the Remote Invoice Service and the
// Stellar supplier directory.
type StellarConfig struct {
	InvoiceServiceURL string        `mapstructure:"invoice_service_url"`
	DirectoryURL      string        `mapstructure:"directory_url"`
	BearerToken       string        `mapstructure:"bearer_token"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	SearchMinChars    int           `mapstructure:"search_min_chars"`
	SearchCacheTTL    time.Duration `mapstructure:"search_cache_ttl"`
}

// RedisConfig holds supplier-search cache settings. When Enabled is false
// the service runs with a no-op cache.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the
// STELLARPOST_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("STELLARPOST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "stellarpost")
	v.SetDefault("db.password", "stellarpost_secret")
	v.SetDefault("db.name", "stellarpost_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Auth defaults
	v.SetDefault("auth.disabled", false)
	v.SetDefault("auth.secret", "change-me-in-production")
	v.SetDefault("auth.issuer", "stellarpost")

	// Stellar defaults
	v.SetDefault("stellar.invoice_service_url", "http://localhost:9090")
	v.SetDefault("stellar.directory_url", "http://localhost:9090")
	v.SetDefault("stellar.bearer_token", "")
	v.SetDefault("stellar.request_timeout", "20s")
	v.SetDefault("stellar.search_min_chars", 2)
	v.SetDefault("stellar.search_cache_ttl", "60s")

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                 "STELLARPOST_SERVER_PORT",
		"server.read_timeout":         "STELLARPOST_SERVER_READ_TIMEOUT",
		"server.write_timeout":        "STELLARPOST_SERVER_WRITE_TIMEOUT",
		"server.environment":          "STELLARPOST_SERVER_ENVIRONMENT",
		"db.host":                     "STELLARPOST_DB_HOST",
		"db.port":                     "STELLARPOST_DB_PORT",
		"db.user":                     "STELLARPOST_DB_USER",
		"db.password":                 "STELLARPOST_DB_PASSWORD",
		"db.name":                     "STELLARPOST_DB_NAME",
		"db.sslmode":                  "STELLARPOST_DB_SSLMODE",
		"db.max_open":                 "STELLARPOST_DB_MAX_OPEN",
		"db.max_idle":                 "STELLARPOST_DB_MAX_IDLE",
		"auth.disabled":               "STELLARPOST_AUTH_DISABLED",
		"auth.secret":                 "STELLARPOST_AUTH_SECRET",
		"auth.issuer":                 "STELLARPOST_AUTH_ISSUER",
		"stellar.invoice_service_url": "STELLARPOST_STELLAR_INVOICE_SERVICE_URL",
		"stellar.directory_url":       "STELLARPOST_STELLAR_DIRECTORY_URL",
		"stellar.bearer_token":        "STELLARPOST_STELLAR_BEARER_TOKEN",
		"stellar.request_timeout":     "STELLARPOST_STELLAR_REQUEST_TIMEOUT",
		"stellar.search_min_chars":    "STELLARPOST_STELLAR_SEARCH_MIN_CHARS",
		"stellar.search_cache_ttl":    "STELLARPOST_STELLAR_SEARCH_CACHE_TTL",
		"redis.enabled":               "STELLARPOST_REDIS_ENABLED",
		"redis.addr":                  "STELLARPOST_REDIS_ADDR",
		"redis.password":              "STELLARPOST_REDIS_PASSWORD",
		"redis.db":                    "STELLARPOST_REDIS_DB",
		"cors.allowed_origins":        "STELLARPOST_CORS_ALLOWED_ORIGINS",
		"log.level":                   "STELLARPOST_LOG_LEVEL",
		"log.format":                  "STELLARPOST_LOG_FORMAT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if
	// STELLARPOST_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("STELLARPOST_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Auth = AuthConfig{
		Disabled: v.GetBool("auth.disabled"),
		Secret:   v.GetString("auth.secret"),
		Issuer:   v.GetString("auth.issuer"),
	}
	cfg.Stellar = StellarConfig{
		InvoiceServiceURL: v.GetString("stellar.invoice_service_url"),
		DirectoryURL:      v.GetString("stellar.directory_url"),
		BearerToken:       v.GetString("stellar.bearer_token"),
		RequestTimeout:    v.GetDuration("stellar.request_timeout"),
		SearchMinChars:    v.GetInt("stellar.search_min_chars"),
		SearchCacheTTL:    v.GetDuration("stellar.search_cache_ttl"),
	}
	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("redis.enabled"),
		Addr:     v.GetString("redis.addr"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	return cfg, nil
}
