package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.True(t, cfg.DBEnabled)
	assert.Equal(t, "carehome", cfg.Database.Database)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 180, cfg.Coverage.BackfillWindowDays)
	assert.Equal(t, "coverage:gap-events", cfg.Coverage.GapStream)
	assert.Equal(t, 5*time.Minute, cfg.Coverage.NotifyInterval)
	assert.Equal(t, "Europe/London", cfg.Timezone)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("BACKFILL_WINDOW_DAYS", "90")
	t.Setenv("GAP_STREAM", "coverage:test")
	t.Setenv("DB_ENABLED", "false")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, 90, cfg.Coverage.BackfillWindowDays)
	assert.Equal(t, "coverage:test", cfg.Coverage.GapStream)
	assert.False(t, cfg.DBEnabled)
}

func TestLocation_FallsBackToUTC(t *testing.T) {
	cfg := &Config{Timezone: "Not/AZone"}
	assert.Equal(t, time.UTC, cfg.Location())

	cfg.Timezone = "Europe/London"
	assert.Equal(t, "Europe/London", cfg.Location().String())
}
