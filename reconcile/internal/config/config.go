// Package config loads command defaults.
//
// Configuration can be loaded from:
//  1. a TOML or YAML file (chosen by extension)
//  2. environment variables (fallback)
//
// Command-line flags take precedence over both. Environment variables
// referenced as ${NAME} inside a file are expanded before decoding.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// DefaultPath is looked up in the working directory when no path is given.
const DefaultPath = ".reconcile.toml"

// Config represents the entire application configuration
type Config struct {
	Delimiter   string     `toml:"delimiter" yaml:"delimiter"`
	DateFormat  string     `toml:"date_format" yaml:"date_format"`
	Header      bool       `toml:"header" yaml:"header"`
	AmountField int        `toml:"amount_field" yaml:"amount_field"`
	Account     string     `toml:"account" yaml:"account"`
	Log         LogConfig  `toml:"log" yaml:"log"`
	Tail        TailConfig `toml:"tail" yaml:"tail"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// TailConfig holds tail command defaults
type TailConfig struct {
	Lines    int    `toml:"lines" yaml:"lines"`
	Interval string `toml:"interval" yaml:"interval"`
}

// PollInterval parses Interval, falling back to one second.
func (t TailConfig) PollInterval() time.Duration {
	d, err := time.ParseDuration(t.Interval)
	if err != nil || d <= 0 {
		return time.Second
	}
	return d
}

// Load reads and parses the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	expanded := []byte(os.ExpandEnv(string(data)))

	var file Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(expanded, &file)
	default:
		err = toml.Unmarshal(expanded, &file)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	cfg := LoadFromEnv()
	cfg.merge(file)
	return cfg, nil
}

// merge overrides c with every field set in o.
func (c *Config) merge(o Config) {
	if o.Delimiter != "" {
		c.Delimiter = o.Delimiter
	}
	if o.DateFormat != "" {
		c.DateFormat = o.DateFormat
	}
	if o.Header {
		c.Header = true
	}
	if o.AmountField != 0 {
		c.AmountField = o.AmountField
	}
	if o.Account != "" {
		c.Account = o.Account
	}
	if o.Log.Level != "" {
		c.Log.Level = o.Log.Level
	}
	if o.Log.Format != "" {
		c.Log.Format = o.Log.Format
	}
	if o.Tail.Lines != 0 {
		c.Tail.Lines = o.Tail.Lines
	}
	if o.Tail.Interval != "" {
		c.Tail.Interval = o.Tail.Interval
	}
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	return &Config{
		Delimiter:   getEnv("RECONCILE_DELIMITER", ","),
		DateFormat:  getEnv("RECONCILE_DATE_FORMAT", "2006-01-02"),
		Header:      getEnvBool("RECONCILE_HEADER", false),
		AmountField: getEnvInt("RECONCILE_AMOUNT_FIELD", 0),
		Account:     getEnv("RECONCILE_ACCOUNT", ""),
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		Tail: TailConfig{
			Lines:    getEnvInt("RECONCILE_TAIL_LINES", 10),
			Interval: getEnv("RECONCILE_TAIL_INTERVAL", "1s"),
		},
	}
}

// LoadOrEnv loads path, or RECONCILE_CONFIG, or DefaultPath. A missing
// file is not an error and yields the environment defaults; a file that
// exists but does not decode is.
func LoadOrEnv(path string) (*Config, error) {
	if path == "" {
		path = getEnv("RECONCILE_CONFIG", DefaultPath)
	}
	cfg, err := Load(path)
	if os.IsNotExist(err) {
		return LoadFromEnv(), nil
	}
	return cfg, err
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	return fallback
}
