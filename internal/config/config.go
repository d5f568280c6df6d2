package config

import (
	"fmt"
	"time"

	"github.com/halver/corebridge/internal/logger"
	"github.com/spf13/viper"
)

// Config is the top-level TOML structure.
//
//	[poll]
//	interval = "1s"
//
//	[shutdown]
//	grace = "3s"
//
//	[node]
//	autostart = true
//	title = "Integrated node"
//	step_interval = "200ms"
//
//	[server]
//	listen = "127.0.0.1:8310"
//	base_path = "/api"
//
//	[metrics]
//	enabled = true
//	listen = "127.0.0.1:9310"
//
//	[journal]
//	dsns = ["sqlite:///var/lib/corebridge/journal.db"]
//
//	[log.slog]
//	level = "info"
type Config struct {
	Poll     PollConfig     `toml:"poll" mapstructure:"poll"`
	Shutdown ShutdownConfig `toml:"shutdown" mapstructure:"shutdown"`
	Node     NodeConfig     `toml:"node" mapstructure:"node"`
	Server   ServerConfig   `toml:"server" mapstructure:"server"`
	Metrics  MetricsConfig  `toml:"metrics" mapstructure:"metrics"`
	Journal  JournalConfig  `toml:"journal" mapstructure:"journal"`
	Log      logger.Config  `toml:"log" mapstructure:"log"`
}

type PollConfig struct {
	Interval time.Duration `toml:"interval" mapstructure:"interval"`
}

type ShutdownConfig struct {
	Grace time.Duration `toml:"grace" mapstructure:"grace"`
}

type NodeConfig struct {
	Autostart    bool          `toml:"autostart" mapstructure:"autostart"`
	Title        string        `toml:"title" mapstructure:"title"`
	StepInterval time.Duration `toml:"step_interval" mapstructure:"step_interval"`
	// StatusFile, when set, mirrors the rendered notification to disk.
	StatusFile string `toml:"status_file" mapstructure:"status_file"`
}

type ServerConfig struct {
	Listen   string `toml:"listen" mapstructure:"listen"`
	BasePath string `toml:"base_path" mapstructure:"base_path"`
}

type MetricsConfig struct {
	Enabled bool   `toml:"enabled" mapstructure:"enabled"`
	Listen  string `toml:"listen" mapstructure:"listen"`
}

type JournalConfig struct {
	DSNs []string `toml:"dsns" mapstructure:"dsns"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Poll:     PollConfig{Interval: time.Second},
		Shutdown: ShutdownConfig{Grace: 3 * time.Second},
		Node:     NodeConfig{Title: "Integrated node"},
		Server:   ServerConfig{Listen: "127.0.0.1:8310", BasePath: "/api"},
		Metrics:  MetricsConfig{Listen: "127.0.0.1:9310"},
		Log:      logger.Default(),
	}
}

// Load reads a TOML file and merges it over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects values the bridge cannot run with.
func (c Config) Validate() error {
	if c.Poll.Interval < 0 {
		return fmt.Errorf("poll.interval must not be negative, got %s", c.Poll.Interval)
	}
	if c.Shutdown.Grace < 0 {
		return fmt.Errorf("shutdown.grace must not be negative, got %s", c.Shutdown.Grace)
	}
	if c.Node.StepInterval < 0 {
		return fmt.Errorf("node.step_interval must not be negative, got %s", c.Node.StepInterval)
	}
	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		return fmt.Errorf("metrics.listen is required when metrics are enabled")
	}
	return nil
}
