package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.False(t, cfg.DBEnabled)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "unithub", cfg.Database.Database)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, 24*time.Hour, cfg.AI.CacheTTL)
	assert.True(t, cfg.Auth.Disabled)
	assert.Equal(t, 5, cfg.Dashboard.RecentLimit)
	assert.Equal(t, 30, cfg.Dashboard.UpcomingDays)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DB_ENABLED", "true")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("STORAGE_DRIVER", "s3")
	t.Setenv("STORAGE_S3_BUCKET", "leases")
	t.Setenv("AI_TIMEOUT", "5s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, cfg.DBEnabled)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "s3", cfg.Storage.Driver)
	assert.Equal(t, "leases", cfg.Storage.S3.Bucket)
	assert.Equal(t, 5*time.Second, cfg.AI.Timeout)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "unithub.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  addr: ":9090"
dashboard:
  recent_limit: 10
mqtt:
  enabled: true
  topic_prefix: "pm"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, 10, cfg.Dashboard.RecentLimit)
	assert.True(t, cfg.MQTT.Enabled)
	assert.Equal(t, "pm", cfg.MQTT.TopicPrefix)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("AUTH_DEV_OWNER_ID=landlord-7\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("AUTH_DEV_OWNER_ID") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "landlord-7", cfg.Auth.DevOwnerID)
}

func TestValidate(t *testing.T) {
	chdir(t, t.TempDir())
	base, err := Load("")
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown storage driver", func(c *Config) { c.Storage.Driver = "ftp" }},
		{"auth without secret", func(c *Config) { c.Auth.Disabled = false }},
		{"bad db port", func(c *Config) { c.DBEnabled = true; c.Database.Port = 70000 }},
		{"rate limiter without rate", func(c *Config) {
			c.RateLimiter.Enabled = true
			c.RateLimiter.RequestsPerSecond = 0
		}},
		{"zero recent limit", func(c *Config) { c.Dashboard.RecentLimit = 0 }},
		{"bad qos", func(c *Config) { c.MQTT.QoS = 3 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := *base
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}

	assert.NoError(t, base.Validate())
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
