package config

import (
	"os"
	"strconv"
	"time"

	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/pkg/database"
)

// Config carehome-data (HTTP API) configuration.
type Config struct {
	HTTP struct {
		Addr string
	}
	DBEnabled bool
	Database  database.Config
	Redis     struct {
		Addr     string
		Password string
		DB       int
	}
	Log struct {
		Level  string
		Format string
	}
	Render   RenderConfig
	Coverage CoverageConfig

	// MediaRoot is the directory rendered shift documents are stored under.
	MediaRoot string

	// Timezone is the facility-local zone used to resolve "today" for
	// sweeps and summary dates.
	Timezone string
}

// RenderConfig is the external PDF render service configuration.
type RenderConfig struct {
	BaseURL string
	Timeout time.Duration
}

// CoverageConfig tunes the coverage tracker.
type CoverageConfig struct {
	// BackfillWindowDays is the trailing window the carehome-update
	// backfill check scans for qualifying summaries.
	BackfillWindowDays int

	// GapStream is the Redis stream new coverage gaps are published to.
	GapStream string

	// NotifyInterval is how often the gap notifier scans for
	// un-notified open gaps.
	NotifyInterval time.Duration
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	// Default to true for local dev: if DB is unavailable, carehome-data
	// falls back to memory repositories so admin pages stay usable.
	cfg.DBEnabled = getEnv("DB_ENABLED", "true") == "true"
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "carehome")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "10"), 10)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.Render.BaseURL = getEnv("RENDER_BASE_URL", "http://localhost:3000")
	cfg.Render.Timeout = time.Duration(parseInt(getEnv("RENDER_TIMEOUT_SECONDS", "30"), 30)) * time.Second

	cfg.Coverage.BackfillWindowDays = parseInt(getEnv("BACKFILL_WINDOW_DAYS", "180"), 180)
	cfg.Coverage.GapStream = getEnv("GAP_STREAM", "coverage:gap-events")
	cfg.Coverage.NotifyInterval = time.Duration(parseInt(getEnv("GAP_NOTIFY_INTERVAL_SECONDS", "300"), 300)) * time.Second

	cfg.MediaRoot = getEnv("MEDIA_ROOT", "./media")
	cfg.Timezone = getEnv("TZ_NAME", "Europe/London")

	return cfg
}

// Location resolves the configured timezone, falling back to UTC on a bad name.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
