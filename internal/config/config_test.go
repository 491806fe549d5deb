package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TourRecapService/internal/domain"
)

const sampleConfig = `
[server]
http_port = 8090

[database]
host = "db"
dbname = "tours"
user = "recap"
password = "secret"

[redis]
enabled = true
addr = "redis:6379"

[refresh]
enabled = true
debounce_millis = 500

[[pricing_policy.exclude]]
tour_id = "arena"
categories = ["Guide", "Infant"]

[[pricing_policy.allow_only]]
tour_id = "vatican"
category_ids = [101, 102]
`

func TestParse_DefaultsAndPolicy(t *testing.T) {
	cfg, err := Parse(sampleConfig)
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.Server.HTTPPort)
	assert.Equal(t, 10, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "tour_changes", cfg.Redis.ChangeChannel)
	assert.Equal(t, domain.DefaultMaxRangeDays, cfg.Recap.MaxRangeDays)
	assert.Equal(t, "@every 5m", cfg.Refresh.Schedule)
	assert.Equal(t, 500*time.Millisecond, cfg.Refresh.Debounce())
	assert.Equal(t, 31*24*time.Hour, cfg.Refresh.Retention())

	assert.Equal(t,
		"host=db port=5432 user=recap password=secret dbname=tours sslmode=disable",
		cfg.Database.DSN())

	policy := cfg.PricingPolicy.Policy()
	assert.Equal(t, []string{"Guide", "Infant"}, policy.ExcludeByName["arena"])
	assert.Equal(t, []int64{101, 102}, policy.AllowOnlyIDs["vatican"])
	assert.False(t, policy.Counts("arena", domain.Participant{Category: "Infant"}))
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "missing host", data: "[database]\ndbname = \"x\"\n"},
		{name: "missing dbname", data: "[database]\nhost = \"x\"\n"},
		{name: "redis without addr", data: "[database]\nhost = \"x\"\ndbname = \"y\"\n[redis]\nenabled = true\n"},
		{name: "refresh without redis", data: "[database]\nhost = \"x\"\ndbname = \"y\"\n[refresh]\nenabled = true\n"},
		{name: "exclude without tour", data: "[database]\nhost = \"x\"\ndbname = \"y\"\n[[pricing_policy.exclude]]\ncategories = [\"a\"]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tours", cfg.Database.DBName)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
