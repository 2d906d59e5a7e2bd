// Package config provides configuration management for appdiscovery.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Search backends.
const (
	BackendNgram = "ngram"
	BackendBleve = "bleve"
)

// Config represents the appdiscovery configuration.
type Config struct {
	Search SearchConfig `yaml:"search"`
	Apps   AppsConfig   `yaml:"apps"`
	Launch LaunchConfig `yaml:"launch"`
	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`
}

// SearchConfig holds search-related settings.
type SearchConfig struct {
	MaxTokenWidth int    `yaml:"max_token_width"` // Longest indexed substring
	Limit         int    `yaml:"limit"`           // Max app results per query
	Backend       string `yaml:"backend"`         // ngram or bleve
}

// AppsConfig holds application discovery settings.
type AppsConfig struct {
	Dirs  []string `yaml:"dirs"`  // Directories scanned for .app bundles
	Watch bool     `yaml:"watch"` // Refresh when the directories change
}

// LaunchConfig holds launch settings.
type LaunchConfig struct {
	Command string `yaml:"command"` // Opener; the app path is appended
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// ServerConfig holds MCP server settings.
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr"` // Listen address for serve --http
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			MaxTokenWidth: 8,
			Limit:         5,
			Backend:       BackendNgram,
		},
		Apps: AppsConfig{
			Dirs:  []string{"/Applications"},
			Watch: true,
		},
		Launch: LaunchConfig{
			Command: defaultLaunchCommand(),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			HTTPAddr: "127.0.0.1:7420",
		},
	}
}

func defaultLaunchCommand() string {
	if runtime.GOOS == "darwin" {
		return "open"
	}
	return "xdg-open"
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFromFile(DefaultPaths().ConfigFile())
}

// LoadFromFile loads configuration from a specific file path.
// A missing file yields the defaults.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Save saves the configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveToFile(DefaultPaths().ConfigFile())
}

// SaveToFile saves the configuration to a specific file path.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// AppDirs returns the configured app directories with ~ expanded.
func (c *Config) AppDirs() []string {
	dirs := make([]string, len(c.Apps.Dirs))
	for i, dir := range c.Apps.Dirs {
		dirs[i] = ExpandPath(dir)
	}
	return dirs
}

// Get retrieves a configuration value by "section.key".
func (c *Config) Get(key string) (string, error) {
	section, field, err := splitKey(key)
	if err != nil {
		return "", err
	}

	switch section {
	case "search":
		return c.getSearchField(field)
	case "apps":
		return c.getAppsField(field)
	case "launch":
		if field == "command" {
			return c.Launch.Command, nil
		}
	case "log":
		return c.getLogField(field)
	case "server":
		if field == "http_addr" {
			return c.Server.HTTPAddr, nil
		}
	default:
		return "", fmt.Errorf("unknown section: %s", section)
	}
	return "", fmt.Errorf("unknown key: %s", key)
}

// Set sets a configuration value by "section.key". The value is parsed for
// the field's type; the resulting config is not validated.
func (c *Config) Set(key, value string) error {
	section, field, err := splitKey(key)
	if err != nil {
		return err
	}

	switch section {
	case "search":
		return c.setSearchField(field, value)
	case "apps":
		return c.setAppsField(field, value)
	case "launch":
		if field == "command" {
			c.Launch.Command = value
			return nil
		}
	case "log":
		return c.setLogField(field, value)
	case "server":
		if field == "http_addr" {
			c.Server.HTTPAddr = value
			return nil
		}
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
	return fmt.Errorf("unknown key: %s", key)
}

func splitKey(key string) (string, string, error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return "", "", errors.New("key must be in format 'section.key'")
	}
	return parts[0], parts[1], nil
}

func (c *Config) getSearchField(field string) (string, error) {
	switch field {
	case "max_token_width":
		return strconv.Itoa(c.Search.MaxTokenWidth), nil
	case "limit":
		return strconv.Itoa(c.Search.Limit), nil
	case "backend":
		return c.Search.Backend, nil
	default:
		return "", fmt.Errorf("unknown key: search.%s", field)
	}
}

func (c *Config) setSearchField(field, value string) error {
	switch field {
	case "max_token_width":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_token_width: %w", err)
		}
		c.Search.MaxTokenWidth = v
	case "limit":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for limit: %w", err)
		}
		c.Search.Limit = v
	case "backend":
		c.Search.Backend = value
	default:
		return fmt.Errorf("unknown key: search.%s", field)
	}
	return nil
}

func (c *Config) getAppsField(field string) (string, error) {
	switch field {
	case "dirs":
		return strings.Join(c.Apps.Dirs, ","), nil
	case "watch":
		return strconv.FormatBool(c.Apps.Watch), nil
	default:
		return "", fmt.Errorf("unknown key: apps.%s", field)
	}
}

func (c *Config) setAppsField(field, value string) error {
	switch field {
	case "dirs":
		var dirs []string
		for _, dir := range strings.Split(value, ",") {
			if dir = strings.TrimSpace(dir); dir != "" {
				dirs = append(dirs, dir)
			}
		}
		c.Apps.Dirs = dirs
	case "watch":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for watch: %w", err)
		}
		c.Apps.Watch = v
	default:
		return fmt.Errorf("unknown key: apps.%s", field)
	}
	return nil
}

func (c *Config) getLogField(field string) (string, error) {
	switch field {
	case "level":
		return c.Log.Level, nil
	case "format":
		return c.Log.Format, nil
	default:
		return "", fmt.Errorf("unknown key: log.%s", field)
	}
}

func (c *Config) setLogField(field, value string) error {
	switch field {
	case "level":
		c.Log.Level = value
	case "format":
		c.Log.Format = value
	default:
		return fmt.Errorf("unknown key: log.%s", field)
	}
	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Search.MaxTokenWidth < 1 {
		return errors.New("search.max_token_width must be >= 1")
	}
	if c.Search.Limit < 1 {
		return errors.New("search.limit must be >= 1")
	}
	if !isValidBackend(c.Search.Backend) {
		return fmt.Errorf("search.backend must be ngram or bleve (got: %s)", c.Search.Backend)
	}
	if len(c.Apps.Dirs) == 0 {
		return errors.New("apps.dirs must not be empty")
	}
	if !isValidLogLevel(c.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn, or error (got: %s)", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json (got: %s)", c.Log.Format)
	}
	return nil
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

func isValidBackend(backend string) bool {
	return backend == BackendNgram || backend == BackendBleve
}

// ApplyEnvOverrides applies environment variable overrides.
// APPDISCOVERY_DEBUG forces debug logging regardless of APPDISCOVERY_LOG_LEVEL.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("APPDISCOVERY_LOG_LEVEL"); v != "" {
		if isValidLogLevel(v) {
			c.Log.Level = v
		}
	}
	if v := os.Getenv("APPDISCOVERY_BACKEND"); v != "" {
		if isValidBackend(v) {
			c.Search.Backend = v
		}
	}
	if v := os.Getenv("APPDISCOVERY_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil && b {
			c.Log.Level = "debug"
		}
	}
}

// ListKeys returns all settable configuration keys.
func ListKeys() []string {
	return []string{
		"search.max_token_width",
		"search.limit",
		"search.backend",
		"apps.dirs",
		"apps.watch",
		"launch.command",
		"log.level",
		"log.format",
		"server.http_addr",
	}
}
