package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/loykin/procpresence/internal/detector"
	"github.com/loykin/procpresence/internal/env"
	"github.com/loykin/procpresence/internal/logger"
	"github.com/spf13/viper"
)

// DefaultPath is where the watcher looks for its configuration when none is given.
const DefaultPath = "./config.json"

const (
	DefaultSleepTimeSec       = 5
	DefaultRestartCooldownSec = 60
)

// ErrInvalidConfig wraps every failure to read, parse or validate a config file.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the full watcher configuration. It is read once at startup and
// treated as read-only afterwards.
type Config struct {
	Process            detector.Spec `json:"process" mapstructure:"process"`
	Remote             Remote        `json:"remote" mapstructure:"remote"`
	SleepTimeSec       int           `json:"sleep_time_sec" mapstructure:"sleep_time_sec"`
	NotifyOnStart      bool          `json:"notify_on_start" mapstructure:"notify_on_start"`
	RestartCooldownSec int           `json:"restart_cooldown_sec" mapstructure:"restart_cooldown_sec"`
	Log                LogConfig     `json:"log" mapstructure:"log"`
	Server             ServerConfig  `json:"server" mapstructure:"server"`
}

// Remote is the web-connected relay toggled on presence changes.
type Remote struct {
	IP         string `json:"ip" mapstructure:"ip"` // host[:port]
	RouteOn    string `json:"route_on" mapstructure:"route_on"`
	RouteOff   string `json:"route_off" mapstructure:"route_off"`
	TimeoutSec int    `json:"timeout_sec" mapstructure:"timeout_sec"` // 0 = transport default
}

type LogConfig struct {
	Level      string        `json:"level" mapstructure:"level"`
	Format     string        `json:"format" mapstructure:"format"`
	Color      bool          `json:"color" mapstructure:"color"`
	TimeStamps bool          `json:"timestamps" mapstructure:"timestamps"`
	Source     bool          `json:"source" mapstructure:"source"`
	File       LogFileConfig `json:"file" mapstructure:"file"`
}

type LogFileConfig struct {
	Path       string `json:"path" mapstructure:"path"`
	MaxSizeMB  int    `json:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `json:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `json:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool   `json:"compress" mapstructure:"compress"`
}

// ServerConfig enables the optional status/metrics endpoint when Listen is set.
type ServerConfig struct {
	Listen string `json:"listen" mapstructure:"listen"`
}

// Load reads and validates the config at path. JSON is assumed unless the
// extension names another format viper understands (toml, yaml).
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(configType(path))
	v.SetDefault("sleep_time_sec", DefaultSleepTimeSec)
	v.SetDefault("restart_cooldown_sec", DefaultRestartCooldownSec)
	v.SetDefault("notify_on_start", false)
	v.SetDefault("log.level", logger.LevelInfo)
	v.SetDefault("log.format", logger.FormatText)
	v.SetDefault("log.timestamps", true)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrInvalidConfig, path, err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrInvalidConfig, path, err)
	}
	c.expand(env.New())
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func configType(path string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "toml":
		return "toml"
	case "yaml", "yml":
		return "yaml"
	default:
		return "json"
	}
}

// expand resolves ${VAR} references in the string fields that commonly vary
// per machine.
func (c *Config) expand(e *env.Env) {
	c.Process.Name = e.Expand(c.Process.Name)
	e.ExpandAll(c.Process.RequiredArguments)
	c.Remote.IP = e.Expand(c.Remote.IP)
	c.Remote.RouteOn = e.Expand(c.Remote.RouteOn)
	c.Remote.RouteOff = e.Expand(c.Remote.RouteOff)
	c.Log.File.Path = e.Expand(c.Log.File.Path)
	c.Server.Listen = e.Expand(c.Server.Listen)
}

// Validate checks the fields the watcher cannot run without.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Process.Name) == "" {
		missing = append(missing, "process.name")
	}
	if strings.TrimSpace(c.Remote.IP) == "" {
		missing = append(missing, "remote.ip")
	}
	if c.Remote.RouteOn == "" {
		missing = append(missing, "remote.route_on")
	}
	if c.Remote.RouteOff == "" {
		missing = append(missing, "remote.route_off")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required field(s): %s", ErrInvalidConfig, strings.Join(missing, ", "))
	}
	if c.SleepTimeSec < 0 {
		return fmt.Errorf("%w: sleep_time_sec must be >= 0, got %d", ErrInvalidConfig, c.SleepTimeSec)
	}
	if c.RestartCooldownSec < 0 {
		return fmt.Errorf("%w: restart_cooldown_sec must be >= 0, got %d", ErrInvalidConfig, c.RestartCooldownSec)
	}
	if c.Remote.TimeoutSec < 0 {
		return fmt.Errorf("%w: remote.timeout_sec must be >= 0, got %d", ErrInvalidConfig, c.Remote.TimeoutSec)
	}
	if strings.Contains(c.Remote.IP, "://") {
		return fmt.Errorf("%w: remote.ip must be host[:port] without scheme, got %q", ErrInvalidConfig, c.Remote.IP)
	}
	return nil
}

func (c *Config) PollInterval() time.Duration { return time.Duration(c.SleepTimeSec) * time.Second }

func (c *Config) RestartCooldown() time.Duration {
	return time.Duration(c.RestartCooldownSec) * time.Second
}

func (r Remote) Timeout() time.Duration { return time.Duration(r.TimeoutSec) * time.Second }

// Logger converts the log section to the logger package configuration.
func (c *Config) Logger() logger.Config {
	return logger.Config{
		Slog: logger.SlogConfig{
			Level:      c.Log.Level,
			Format:     c.Log.Format,
			Color:      c.Log.Color,
			TimeStamps: c.Log.TimeStamps,
			Source:     c.Log.Source,
		},
		File: logger.FileConfig{
			Path:       c.Log.File.Path,
			MaxSizeMB:  c.Log.File.MaxSizeMB,
			MaxBackups: c.Log.File.MaxBackups,
			MaxAgeDays: c.Log.File.MaxAgeDays,
			Compress:   c.Log.File.Compress,
		},
	}
}
