package config

import (
	"fmt"
	"strconv"
	"time"
)

// Config represents the persistent wiretap configuration stored as
// config.toml in the .wiretap/ directory. The TOML layout uses sections for
// logical grouping.
type Config struct {
	Version int          `toml:"version"`
	Client  ClientConfig `toml:"client"`
	Tail    TailConfig   `toml:"tail"`
	Serve   ServeConfig  `toml:"serve"`
}

// ClientConfig holds settings for commands that issue requests: the base
// target URL and the header-arrival timeout.
type ClientConfig struct {
	Target    string `toml:"target,omitempty"`
	TimeoutMs uint   `toml:"timeout_ms,omitempty"`
}

// Timeout returns the header-arrival timeout as a duration.
func (c ClientConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// TailConfig holds settings for the tail command.
type TailConfig struct {
	Path string `toml:"path,omitempty"`
}

// ServeConfig holds settings for the demo stream emitter.
type ServeConfig struct {
	Listen     string `toml:"listen,omitempty"`
	IntervalMs uint   `toml:"interval_ms,omitempty"`
	Count      uint   `toml:"count,omitempty"`
}

// Interval returns the per-frame emit interval as a duration.
func (c ServeConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"client.target": {
		get: func(c *Config) string { return c.Client.Target },
		set: func(c *Config, v string) error { c.Client.Target = v; return nil },
	},
	"client.timeout_ms": {
		get: func(c *Config) string {
			if c.Client.TimeoutMs == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Client.TimeoutMs), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for client.timeout_ms: %w", err)
			}
			c.Client.TimeoutMs = uint(n)
			return nil
		},
	},
	"tail.path": {
		get: func(c *Config) string { return c.Tail.Path },
		set: func(c *Config, v string) error { c.Tail.Path = v; return nil },
	},
	"serve.listen": {
		get: func(c *Config) string { return c.Serve.Listen },
		set: func(c *Config, v string) error { c.Serve.Listen = v; return nil },
	},
	"serve.interval_ms": {
		get: func(c *Config) string {
			if c.Serve.IntervalMs == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Serve.IntervalMs), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for serve.interval_ms: %w", err)
			}
			c.Serve.IntervalMs = uint(n)
			return nil
		},
	},
	"serve.count": {
		get: func(c *Config) string { return strconv.FormatUint(uint64(c.Serve.Count), 10) },
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for serve.count: %w", err)
			}
			c.Serve.Count = uint(n)
			return nil
		},
	},
}
