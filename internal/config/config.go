package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the complete application configuration
type Config struct {
	Storage  StorageConfig  `mapstructure:"storage"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Board    BoardConfig    `mapstructure:"board"`
}

// StorageConfig defines the session record store settings
type StorageConfig struct {
	Dir      string `mapstructure:"dir"`
	Filename string `mapstructure:"filename"`
}

// SnapshotConfig defines the durable active-timer snapshot slot settings
type SnapshotConfig struct {
	Backend    string      `mapstructure:"backend"` // "file" or "redis"
	Filename   string      `mapstructure:"filename"`
	StaleAfter string      `mapstructure:"stale_after"`
	Redis      RedisConfig `mapstructure:"redis"`
}

// RedisConfig defines the redis-backed snapshot slot settings
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"`
}

// LoggingConfig defines logging behavior
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// BoardConfig defines kanban board view settings
type BoardConfig struct {
	PollInterval string `mapstructure:"poll_interval"`
}

// Load loads configuration from an optional file and MBB_* environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultDir())
	}
	v.SetEnvPrefix("MBB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// A missing default config is fine; a named one must exist.
			if configPath != "" || !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func defaultDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".mbb"
	}
	return filepath.Join(homeDir, ".mbb")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.dir", defaultDir())
	v.SetDefault("storage.filename", "mbb.db")

	v.SetDefault("snapshot.backend", "file")
	v.SetDefault("snapshot.filename", "active_timers.json")
	v.SetDefault("snapshot.stale_after", "24h")
	v.SetDefault("snapshot.redis.addr", "localhost:6379")
	v.SetDefault("snapshot.redis.db", 0)
	v.SetDefault("snapshot.redis.key", "mbb:active_timers")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("board.poll_interval", "2s")
}

func validate(c *Config) error {
	if c.Storage.Dir == "" {
		return &ConfigError{Field: "storage.dir", Message: "storage directory cannot be empty"}
	}
	if c.Storage.Filename == "" {
		return &ConfigError{Field: "storage.filename", Message: "storage filename cannot be empty"}
	}
	switch c.Snapshot.Backend {
	case "file", "redis":
	default:
		return &ConfigError{Field: "snapshot.backend", Message: "snapshot backend must be \"file\" or \"redis\""}
	}
	if _, err := time.ParseDuration(c.Snapshot.StaleAfter); err != nil {
		return &ConfigError{Field: "snapshot.stale_after", Message: "stale_after must be a valid duration"}
	}
	if c.Snapshot.Backend == "redis" && c.Snapshot.Redis.Addr == "" {
		return &ConfigError{Field: "snapshot.redis.addr", Message: "redis address cannot be empty"}
	}
	if _, err := time.ParseDuration(c.Board.PollInterval); err != nil {
		return &ConfigError{Field: "board.poll_interval", Message: "poll_interval must be a valid duration"}
	}
	return nil
}

// DatabasePath returns the full path to the session store database file
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Storage.Dir, c.Storage.Filename)
}

// SnapshotPath returns the full path to the file-backed snapshot slot
func (c *Config) SnapshotPath() string {
	return filepath.Join(c.Storage.Dir, c.Snapshot.Filename)
}

// SnapshotStaleAfter returns the parsed staleness cutoff for restored timers
func (c *Config) SnapshotStaleAfter() time.Duration {
	d, err := time.ParseDuration(c.Snapshot.StaleAfter)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// BoardPollInterval returns the parsed board refresh interval
func (c *Config) BoardPollInterval() time.Duration {
	d, err := time.ParseDuration(c.Board.PollInterval)
	if err != nil {
		return 2 * time.Second
	}
	return d
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
