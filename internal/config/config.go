// Package config handles the XDG configuration directory, the optional
// config.yaml file and environment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "kboard"

	// ConfigFile is the optional settings filename.
	ConfigFile = "config.yaml"

	// TokenFile holds the bearer token and nothing else.
	TokenFile = "token"

	// DefaultAPIURL is used when neither config.yaml nor the environment set one.
	DefaultAPIURL = "http://localhost:5001/api"

	// DefaultTimeout bounds each backend call.
	DefaultTimeout = 10 * time.Second
)

// Environment variables that override config.yaml.
const (
	EnvAPIURL = "KBOARD_API_URL"
	EnvBoard  = "KBOARD_BOARD"
)

// File is the on-disk shape of config.yaml.
type File struct {
	APIURL       string `yaml:"api_url"`
	DefaultBoard string `yaml:"default_board"`
	Timeout      string `yaml:"timeout"`
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// APIURL is the backend base URL, without trailing slash.
	APIURL string

	// DefaultBoard names the board used when --board is omitted.
	DefaultBoard string

	// Timeout bounds each backend call.
	Timeout time.Duration

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// New creates a Config for configDir (or the default directory), reading
// config.yaml if present and applying environment overrides.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{
		Dir:     dir,
		APIURL:  DefaultAPIURL,
		Timeout: DefaultTimeout,
	}
	if err := cfg.load(); err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

func (c *Config) load() error {
	f, err := os.Open(c.ConfigPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", ConfigFile, err)
	}
	defer f.Close()

	var file File
	if err := yaml.NewDecoder(f).Decode(&file); err != nil {
		// An empty file decodes to io.EOF.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}

	if file.APIURL != "" {
		c.APIURL = file.APIURL
	}
	c.DefaultBoard = file.DefaultBoard
	if file.Timeout != "" {
		d, err := time.ParseDuration(file.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid %s: bad timeout: %s", ConfigFile, file.Timeout)
		}
		c.Timeout = d
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv(EnvBoard); v != "" {
		c.DefaultBoard = v
	}
}

// ConfigPath returns the path to config.yaml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// TokenPath returns the path to the stored bearer token.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// Save writes the current settings to config.yaml.
func (c *Config) Save() error {
	if err := c.EnsureDir(); err != nil {
		return err
	}
	file := File{
		APIURL:       c.APIURL,
		DefaultBoard: c.DefaultBoard,
	}
	if c.Timeout != DefaultTimeout {
		file.Timeout = c.Timeout.String()
	}
	data, err := yaml.Marshal(&file)
	if err != nil {
		return err
	}
	return os.WriteFile(c.ConfigPath(), data, 0600)
}
