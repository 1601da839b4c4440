package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "client.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "ws://localhost:8080/ws", cfg.Server.URL)
	assert.Equal(t, 50*time.Second, cfg.Server.PingPeriod)
	assert.Equal(t, int64(1<<20), cfg.Server.MaxMessageSize)
	assert.Equal(t, 64, cfg.Server.SendBuffer)
	assert.Equal(t, 256, cfg.Server.ReceiveBuffer)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Assets.Enabled)
	assert.False(t, cfg.Journal.Enabled)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  url: wss://mage.example.com/ws
  ping_period: 5s
  pong_wait: 15s
logging:
  level: debug
  format: json
assets:
  enabled: false
journal:
  enabled: true
  directory: /tmp/journals
player:
  user_id: p1
  username: Alice
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "wss://mage.example.com/ws", cfg.Server.URL)
	assert.Equal(t, 5*time.Second, cfg.Server.PingPeriod)
	assert.Equal(t, 15*time.Second, cfg.Server.PongWait)
	assert.Equal(t, 10*time.Second, cfg.Server.WriteWait, "unset keys keep defaults")
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.False(t, cfg.Assets.Enabled)
	assert.Equal(t, "/tmp/journals", cfg.Journal.Directory)
	assert.Equal(t, PlayerConfig{UserID: "p1", Username: "Alice"}, cfg.Player)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MAGE_CLIENT_PLAYER_USERNAME", "Bob")
	t.Setenv("MAGE_CLIENT_LOGGING_LEVEL", "warn")

	cfg, err := Load(writeConfig(t, "player:\n  username: Alice\n"))
	require.NoError(t, err)

	assert.Equal(t, "Bob", cfg.Player.Username)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"http scheme", func(c *Config) { c.Server.URL = "http://localhost/ws" }},
		{"ping not shorter than pong", func(c *Config) { c.Server.PingPeriod = c.Server.PongWait }},
		{"no message size", func(c *Config) { c.Server.MaxMessageSize = 0 }},
		{"no send buffer", func(c *Config) { c.Server.SendBuffer = 0 }},
		{"no receive buffer", func(c *Config) { c.Server.ReceiveBuffer = 0 }},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"asset burst", func(c *Config) { c.Assets.Burst = 0 }},
		{"journal directory", func(c *Config) { c.Journal.Enabled = true; c.Journal.Directory = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
