package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string         `json:"env"`
	Http     HttpConfig     `json:"http"`
	Postgres PostgresConfig `json:"postgres"`
	Redis    RedisConfig    `json:"redis"`
	APIKey   string         `json:"api_key,omitempty"`
	Webhook  WebhookConfig  `json:"webhook"`
	Auth     AuthConfig     `json:"auth"`
	CheckIn  CheckInConfig  `json:"checkin"`
	Log      LogConfig      `json:"log"`
}

type HttpConfig struct {
	Port            string        `json:"port"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

type PostgresConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	User     string `json:"user"`
	Password string `json:"password,omitempty"`
	SSLMode  string `json:"ssl_mode"`

	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password,omitempty"`
	DB       int    `json:"db"`
	Disabled bool   `json:"disabled"`
}

type WebhookConfig struct {
	URL      string `json:"url"`
	Disabled bool   `json:"disabled"`
}

type AuthConfig struct {
	JWTSecret string `json:"-"`
	Issuer    string `json:"issuer"`
}

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type CheckInConfig struct {
	LocationTimeout  time.Duration `json:"location_timeout"`
	StoreTimeout     time.Duration `json:"store_timeout"`
	Timezone         string        `json:"timezone"`
	DefaultSiteID    string        `json:"default_site_id"`
	Storage          string        `json:"storage"`
	SitesFile        string        `json:"sites_file"`
	SiteCacheTTL     time.Duration `json:"site_cache_ttl"`
	SiteRefreshEvery time.Duration `json:"site_refresh_every"`

	location *time.Location
	siteID   uuid.UUID
}

// Location is the timezone calendar days are counted in.
func (c CheckInConfig) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

func (c CheckInConfig) SiteID() uuid.UUID { return c.siteID }

type LogConfig struct {
	File       string `json:"file"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

func Load(ctx context.Context) (*Config, error) {

	stdLogger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		stdLogger.Warn(".env load warning", slog.Any("error", err))
	}

	cfg := &Config{
		Env: getEnv("ENV", "local"),
		Http: HttpConfig{
			Port:            getEnv("HTTP_PORT", ":8080"),
			ReadTimeout:     getEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvDuration("HTTP_WRITE_TIMEOUT", 20*time.Second),
			ShutdownTimeout: getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", "pg-local"),
			Port:            getEnvInt("POSTGRES_PORT", 5432),
			Database:        getEnv("POSTGRES_DB", "tdi_attendance"),
			User:            getEnv("POSTGRES_USER", "postgres"),
			Password:        getEnv("POSTGRES_PASSWORD", "postgres"),
			SSLMode:         getEnv("POSTGRES_SSL_MODE", "disable"),
			MaxConns:        int32(getEnvInt("POSTGRES_MAX_CONNS", 20)),
			MinConns:        1,
			MaxConnLifetime: 1 * time.Hour,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "redis-local:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Disabled: getEnvBool("REDIS_DISABLED", false),
		},
		APIKey: getEnv("API_KEY", ""),
		Webhook: WebhookConfig{
			URL:      getEnv("WEBHOOK_URL", ""),
			Disabled: getEnvBool("WEBHOOK_DISABLED", true),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			Issuer:    getEnv("JWT_ISSUER", ""),
		},
		CheckIn: CheckInConfig{
			LocationTimeout:  getEnvDuration("CHECKIN_LOCATION_TIMEOUT", 10*time.Second),
			StoreTimeout:     getEnvDuration("CHECKIN_STORE_TIMEOUT", 5*time.Second),
			Timezone:         getEnv("CHECKIN_TIMEZONE", "Asia/Jakarta"),
			DefaultSiteID:    getEnv("CHECKIN_DEFAULT_SITE_ID", ""),
			Storage:          getEnv("CHECKIN_STORAGE", StoragePostgres),
			SitesFile:        getEnv("CHECKIN_SITES_FILE", ""),
			SiteCacheTTL:     getEnvDuration("CHECKIN_SITE_CACHE_TTL", 10*time.Minute),
			SiteRefreshEvery: getEnvDuration("CHECKIN_SITE_REFRESH_EVERY", time.Minute),
		},
		Log: LogConfig{
			File:       getEnv("LOG_FILE", ""),
			MaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 7),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stdLogger.Info("Config loaded successfully",
		slog.String("env", cfg.Env),
		slog.String("http_port", cfg.Http.Port),
		slog.String("postgres_db", cfg.Postgres.Database),
		slog.String("redis_addr", cfg.Redis.Addr),
		slog.String("storage", cfg.CheckIn.Storage),
		slog.String("timezone", cfg.CheckIn.Timezone),
		slog.String("default_site_id", cfg.CheckIn.DefaultSiteID))

	return cfg, nil
}

func (c *Config) Validate() error {

	if c.Http.Port == "" || (len(c.Http.Port) > 0 && c.Http.Port[0] != ':') {
		return errors.New("HTTP_PORT must start with ':' like ':8080'")
	}

	if c.CheckIn.Storage != StoragePostgres && c.CheckIn.Storage != StorageMemory {
		return fmt.Errorf("CHECKIN_STORAGE must be %q or %q", StoragePostgres, StorageMemory)
	}

	if c.CheckIn.Storage == StoragePostgres && c.Postgres.Host == "" {
		return errors.New("POSTGRES_HOST required")
	}

	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET required")
	}

	if c.APIKey == "" {
		return errors.New("API_KEY required")
	}

	if c.CheckIn.LocationTimeout <= 0 {
		return errors.New("CHECKIN_LOCATION_TIMEOUT must be positive")
	}

	if c.CheckIn.StoreTimeout <= 0 {
		return errors.New("CHECKIN_STORE_TIMEOUT must be positive")
	}

	loc, err := time.LoadLocation(c.CheckIn.Timezone)
	if err != nil {
		return fmt.Errorf("CHECKIN_TIMEZONE: %w", err)
	}
	c.CheckIn.location = loc

	id, err := uuid.Parse(c.CheckIn.DefaultSiteID)
	if err != nil {
		return fmt.Errorf("CHECKIN_DEFAULT_SITE_ID must be a UUID: %w", err)
	}
	c.CheckIn.siteID = id

	if !c.Webhook.Disabled && c.Webhook.URL == "" {
		return errors.New("WEBHOOK_URL required unless WEBHOOK_DISABLED=true")
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
