// Package config resolves runtime settings from defaults, an optional TOML
// file and BUILDTRACK_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/buildtrack/internal/api"
	"github.com/charmbracelet/log"
	toml "github.com/pelletier/go-toml/v2"
)

type Config struct {
	API      APIConfig      `toml:"api"`
	Database DatabaseConfig `toml:"database"`
	Logging  LoggingConfig  `toml:"logging"`
}

type APIConfig struct {
	URL       string `toml:"url"`
	TimeoutMs int    `toml:"timeout_ms"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`  // empty disables file output while the TUI runs
	Calls bool   `toml:"calls"` // log every API call at debug level
}

// DataDir returns ~/.buildtrack, falling back to the working directory
// when the home directory cannot be resolved.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".buildtrack"
	}
	return filepath.Join(home, ".buildtrack")
}

// DefaultPath is the config file read when --config is not given.
func DefaultPath() string {
	return filepath.Join(DataDir(), "config.toml")
}

// Default returns the built-in settings rooted at dataDir.
func Default(dataDir string) Config {
	return Config{
		API: APIConfig{
			URL:       api.DefaultBaseURL,
			TimeoutMs: int(api.DefaultTimeout / time.Millisecond),
		},
		Database: DatabaseConfig{
			Path: filepath.Join(dataDir, "buildtrack.db"),
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(dataDir, "buildtrack.log"),
		},
	}
}

// Load overlays the TOML file at path onto defaults. A missing or empty file
// yields the defaults unchanged.
func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from environment variables read through
// getenv. Unparsable numeric or boolean values are ignored.
func ApplyEnv(cfg Config, getenv func(string) string) Config {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := strings.TrimSpace(getenv("BUILDTRACK_API_URL")); v != "" {
		cfg.API.URL = v
	}
	if v := getenv("BUILDTRACK_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.API.TimeoutMs = n
		}
	}
	if v := strings.TrimSpace(getenv("BUILDTRACK_DB")); v != "" {
		cfg.Database.Path = v
	}
	if v := strings.TrimSpace(getenv("BUILDTRACK_LOG_LEVEL")); v != "" {
		cfg.Logging.Level = v
	}
	if v, ok := lookup(getenv, "BUILDTRACK_LOG_FILE"); ok {
		cfg.Logging.File = v
	}
	if v := getenv("BUILDTRACK_LOG_CALLS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Logging.Calls = b
		}
	}
	return cfg
}

// lookup treats "-" as an explicit empty value so a variable can disable a
// setting that defaults to on.
func lookup(getenv func(string) string, key string) (string, bool) {
	v := strings.TrimSpace(getenv(key))
	switch v {
	case "":
		return "", false
	case "-":
		return "", true
	}
	return v, true
}

// Resolve loads path, applies the environment and validates the result.
func Resolve(path string, getenv func(string) string) (Config, error) {
	cfg, err := Load(path, Default(DataDir()))
	if err != nil {
		return Config{}, err
	}
	cfg = ApplyEnv(cfg, getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := c.Client().Validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database.path is required")
	}
	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}
	return nil
}

// Client returns the API client settings.
func (c Config) Client() api.Config {
	return api.Config{
		BaseURL: strings.TrimSpace(c.API.URL),
		Timeout: time.Duration(c.API.TimeoutMs) * time.Millisecond,
	}
}
