package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, 5, cfg.Slots.HoldDurationMinutes)
	assert.Equal(t, 5, cfg.Slots.MaxRetries)
	assert.Equal(t, "venueslots", cfg.Redis.KeyPrefix)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "info", cfg.Logs.Level)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090

[storage]
driver = "postgres"

[database]
host = "db"
port = 5433
user = "slots"
password = "secret"
dbname = "venues"

[kafka]
enabled = true
brokers = ["k1:9092", "k2:9092"]
topic = "slots"

[slots]
hold_duration_minutes = 10
sweep_enabled = true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, "host=db port=5433 user=slots password=secret dbname=venues sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "slots", cfg.Kafka.Topic)
	assert.Equal(t, 10, cfg.Slots.HoldDurationMinutes)
	assert.True(t, cfg.Slots.SweepEnabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "redis")
	t.Setenv("REDIS_PASSWORD", "from-env")
	t.Setenv("KAFKA_BROKERS", " a:1, ,b:2 ")

	cfg, err := Load(writeConfig(t, `
[redis]
addr = "localhost:6379"
password = "from-file"
`))
	require.NoError(t, err)

	assert.Equal(t, StorageRedis, cfg.Storage.Driver)
	assert.Equal(t, "from-env", cfg.Redis.Password)
	assert.Equal(t, []string{"a:1", "b:2"}, cfg.Kafka.Brokers)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
		assert.Error(t, err)
	})

	t.Run("malformed toml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "[server\nhttp_port = 1"))
		assert.Error(t, err)
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.setDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.Storage.Driver = "sqlite" }, wantErr: true},
		{name: "postgres without host", mutate: func(c *Config) { c.Storage.Driver = StoragePostgres }, wantErr: true},
		{name: "redis without addr", mutate: func(c *Config) { c.Storage.Driver = StorageRedis }, wantErr: true},
		{name: "mongo without uri", mutate: func(c *Config) { c.Storage.Driver = StorageMongo }, wantErr: true},
		{name: "kafka without brokers", mutate: func(c *Config) { c.Kafka.Enabled = true }, wantErr: true},
		{name: "hold too long", mutate: func(c *Config) { c.Slots.HoldDurationMinutes = 61 }, wantErr: true},
		{name: "bad port", mutate: func(c *Config) { c.Server.HTTPPort = 70000 }, wantErr: true},
		{name: "rate limit without burst", mutate: func(c *Config) {
			c.RateLimit.Enabled = true
			c.RateLimit.Burst = 0
		}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
