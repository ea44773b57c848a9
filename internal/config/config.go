package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultSaveDebounce is the quiet period before in-memory habits are flushed.
const DefaultSaveDebounce = 500 * time.Millisecond

// AppConfig gathers everything needed to open the store and run a command.
type AppConfig struct {
	DBPath       string        `yaml:"db_path"`
	LogDir       string        `yaml:"log_dir"`
	Debug        bool          `yaml:"debug"`
	Username     string        `yaml:"username"`
	Theme        string        `yaml:"theme"`
	SaveDebounce time.Duration `yaml:"-"`

	RawSaveDebounce string `yaml:"save_debounce"`
}

// Dir returns ~/.config/streaknest.
func Dir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "streaknest"), nil
}

// DefaultPath returns ~/.config/streaknest/config.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the YAML file at path (a missing file is fine), then applies
// environment overrides and fills defaults.
func Load(path string) (AppConfig, error) {
	var cfg AppConfig

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return AppConfig{}, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return AppConfig{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := strings.TrimSpace(os.Getenv("STREAKNEST_DB_PATH")); v != "" {
		cfg.DBPath = v
	}
	if v := strings.TrimSpace(os.Getenv("STREAKNEST_USERNAME")); v != "" {
		cfg.Username = v
	}
	if v := strings.TrimSpace(os.Getenv("STREAKNEST_SAVE_DEBOUNCE")); v != "" {
		cfg.RawSaveDebounce = v
	}
	if v := strings.TrimSpace(os.Getenv("STREAKNEST_DEBUG")); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return AppConfig{}, fmt.Errorf("STREAKNEST_DEBUG: %w", err)
		}
		cfg.Debug = debug
	}

	if err := cfg.fillDefaults(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func (c *AppConfig) fillDefaults() error {
	dir, err := Dir()
	if err != nil {
		return fmt.Errorf("locate config dir: %w", err)
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(dir, "streaknest.db")
	}
	if c.LogDir == "" {
		c.LogDir = filepath.Join(dir, "logs")
	}
	if c.Theme == "" {
		c.Theme = "dark"
	}

	c.SaveDebounce = DefaultSaveDebounce
	if c.RawSaveDebounce != "" {
		d, err := time.ParseDuration(c.RawSaveDebounce)
		if err != nil {
			return fmt.Errorf("save_debounce: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("save_debounce: must not be negative, got %s", d)
		}
		c.SaveDebounce = d
	}
	return nil
}
