// Package config loads the client configuration from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. MAGE_CLIENT_SERVER_URL.
const EnvPrefix = "MAGE_CLIENT"

// Config is the full client configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Assets  AssetsConfig  `mapstructure:"assets"`
	Journal JournalConfig `mapstructure:"journal"`
	Player  PlayerConfig  `mapstructure:"player"`
}

// ServerConfig describes the game server connection.
type ServerConfig struct {
	URL              string        `mapstructure:"url"`
	HandshakeTimeout time.Duration `mapstructure:"handshake_timeout"`
	PingPeriod       time.Duration `mapstructure:"ping_period"`
	PongWait         time.Duration `mapstructure:"pong_wait"`
	WriteWait        time.Duration `mapstructure:"write_wait"`
	MaxMessageSize   int64         `mapstructure:"max_message_size"`
	SendBuffer       int           `mapstructure:"send_buffer"`
	ReceiveBuffer    int           `mapstructure:"receive_buffer"`
}

// LoggingConfig selects the log level and encoding.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AssetsConfig configures card art lookup.
type AssetsConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	BaseURL       string        `mapstructure:"base_url"`
	CachePath     string        `mapstructure:"cache_path"`
	FetchInterval time.Duration `mapstructure:"fetch_interval"`
	Burst         int           `mapstructure:"burst"`
	QueueSize     int           `mapstructure:"queue_size"`
}

// JournalConfig configures session recording.
type JournalConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Directory string `mapstructure:"directory"`
}

// PlayerConfig identifies the local user.
type PlayerConfig struct {
	UserID   string `mapstructure:"user_id"`
	Username string `mapstructure:"username"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.url", "ws://localhost:8080/ws")
	v.SetDefault("server.handshake_timeout", 10*time.Second)
	v.SetDefault("server.ping_period", 50*time.Second)
	v.SetDefault("server.pong_wait", 60*time.Second)
	v.SetDefault("server.write_wait", 10*time.Second)
	v.SetDefault("server.max_message_size", 1<<20)
	v.SetDefault("server.send_buffer", 64)
	v.SetDefault("server.receive_buffer", 256)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("assets.enabled", true)
	v.SetDefault("assets.base_url", "https://api.scryfall.com/cards")
	v.SetDefault("assets.cache_path", "mage-assets.db")
	v.SetDefault("assets.fetch_interval", 100*time.Millisecond)
	v.SetDefault("assets.burst", 1)
	v.SetDefault("assets.queue_size", 256)

	v.SetDefault("journal.enabled", false)
	v.SetDefault("journal.directory", "journals")
}

// Load reads the configuration at path. An empty path uses defaults and the
// environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate checks values that would make the client misbehave.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.URL)
	if err != nil {
		return fmt.Errorf("server.url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("server.url: scheme must be ws or wss, got %q", u.Scheme)
	}
	if c.Server.PingPeriod <= 0 || c.Server.PongWait <= 0 {
		return errors.New("server: ping_period and pong_wait must be positive")
	}
	if c.Server.PingPeriod >= c.Server.PongWait {
		return errors.New("server: ping_period must be shorter than pong_wait")
	}
	if c.Server.MaxMessageSize <= 0 {
		return errors.New("server.max_message_size must be positive")
	}
	if c.Server.SendBuffer <= 0 {
		return errors.New("server.send_buffer must be positive")
	}
	if c.Server.ReceiveBuffer <= 0 {
		return errors.New("server.receive_buffer must be positive")
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format: unknown format %q", c.Logging.Format)
	}

	if c.Assets.Enabled {
		if c.Assets.FetchInterval <= 0 {
			return errors.New("assets.fetch_interval must be positive")
		}
		if c.Assets.Burst <= 0 {
			return errors.New("assets.burst must be positive")
		}
		if c.Assets.QueueSize <= 0 {
			return errors.New("assets.queue_size must be positive")
		}
	}
	if c.Journal.Enabled && c.Journal.Directory == "" {
		return errors.New("journal.directory is required when the journal is enabled")
	}
	return nil
}
