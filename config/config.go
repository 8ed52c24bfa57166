// Package config loads settings from defaults, a TOML file, a .env file,
// and the environment, in that order of precedence (last wins).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const (
	appDir         = "pcodes-list"
	defaultPrompt  = "(PCodes-List) > "
	configFileName = "config.toml"
	dataFileName   = "todo.json"
)

// Config holds runtime settings
type Config struct {
	DataFile    string `toml:"data_file" env:"TODO_DATA_FILE"`
	Prompt      string `toml:"prompt" env:"TODO_PROMPT"`
	HistoryFile string `toml:"history_file" env:"TODO_HISTORY_FILE"`
	LogLevel    string `toml:"log_level" env:"TODO_LOG_LEVEL"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		DataFile: defaultDataFile(),
		Prompt:   defaultPrompt,
		LogLevel: "info",
	}
}

func defaultDataFile() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appDir, dataFileName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, "."+appDir, dataFileName)
	}
	return dataFileName
}

// DefaultConfigPath returns the path of the user config file, or "" if the
// user config directory cannot be determined.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appDir, configFileName)
}

// Load builds the configuration. The TOML file is taken from TODO_CONFIG,
// then the user config directory; a missing file is skipped. dotenvPath
// names an optional .env file loaded before the environment is read.
func Load(dotenvPath string) (*Config, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", dotenvPath, err)
		}
	}

	cfg := Default()

	path := os.Getenv("TODO_CONFIG")
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// Validate checks that settings are usable
func (c *Config) Validate() error {
	if c.DataFile == "" {
		return errors.New("data_file must not be empty")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel
func (c *Config) Level() (log.Level, error) {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
