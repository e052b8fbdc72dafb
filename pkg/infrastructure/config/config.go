package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vsinha/cpq/pkg/domain/entities"
)

// DefaultConfigFile is looked up in the working directory when no path is given
const DefaultConfigFile = "cpq.yaml"

// Config is the cpq tool configuration
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Catalog  CatalogConfig  `yaml:"catalog"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"` // ":memory:" keeps everything in process
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"` // "json" or "console"
	OutputPath  string `yaml:"output_path"`
	Development bool   `yaml:"development"`
}

type CatalogConfig struct {
	// OutsideOrder is applied to part-number configs that do not set one
	OutsideOrder string `yaml:"outside_order"`
	// ApplyStandardCards seeds new configurations with standard cards
	ApplyStandardCards bool `yaml:"apply_standard_cards"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: filepath.Join(".cpq", "cpq.db")},
		Logging:  LoggingConfig{Level: "warn", Format: "console"},
		Catalog:  CatalogConfig{OutsideOrder: string(entities.OutsideBySelection)},
	}
}

// Load reads a YAML config file over the defaults and then applies CPQ_*
// environment overrides. A missing file at the default path is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup("CPQ_DATABASE_PATH"); ok {
		c.Database.Path = v
	}
	if v, ok := lookup("CPQ_LOG_LEVEL"); ok {
		c.Logging.Level = v
	}
	if v, ok := lookup("CPQ_LOG_FORMAT"); ok {
		c.Logging.Format = v
	}
	if v, ok := lookup("CPQ_OUTSIDE_ORDER"); ok {
		c.Catalog.OutsideOrder = v
	}
}

// Validate checks enumerated settings
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("database path cannot be empty")
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("invalid log format %q (expected json or console)", c.Logging.Format)
	}
	if _, err := entities.ParseOutsideOrder(c.Catalog.OutsideOrder); err != nil {
		return err
	}
	return nil
}

// OutsideOrder returns the parsed catalog default
func (c *Config) OutsideOrder() entities.OutsideOrder {
	order, _ := entities.ParseOutsideOrder(c.Catalog.OutsideOrder)
	return order
}

// Save writes the config as YAML, creating parent directories
func Save(path string, cfg *Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config dir: %w", err)
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
