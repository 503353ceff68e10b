// Package config loads the pipeline configuration: a TOML base file,
// an optional per-environment overlay, and LEXGO_ environment variable
// overrides, finalized with defaults and validation.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/lexgo-ia/lexgo/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvLexgoEnv = "LEXGO_ENV"
)

var storageEnv = &storage.Env{
	ContainerName:    "LEXGO_STORAGE_CONTAINER_NAME",
	ConnectionString: "LEXGO_STORAGE_CONNECTION_STRING",
	EncryptionScope:  "LEXGO_STORAGE_ENCRYPTION_SCOPE",
}

// Config is the root configuration for the pipeline binaries.
type Config struct {
	Paths    PathsConfig    `toml:"paths"`
	Training TrainingConfig `toml:"training"`
	Harvest  HarvestConfig  `toml:"harvest"`
	Logging  LoggingConfig  `toml:"logging"`
	Storage  storage.Config `toml:"storage"`
}

// Env returns the LEXGO_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvLexgoEnv); env != "" {
		return env
	}
	return "local"
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and
// environment variables provide all configuration.
func Load() (*Config, error) {
	return LoadFrom(BaseConfigFile)
}

// LoadFrom is Load with an explicit base path, used by tests and the
// -config flag.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(path); err == nil {
		loaded, err := load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if overlay := overlayPath(); overlay != "" {
		loaded, err := load(overlay)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", overlay, err)
		}
		cfg.Merge(loaded)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	c.Paths.Merge(&overlay.Paths)
	c.Training.Merge(&overlay.Training)
	c.Harvest.Merge(&overlay.Harvest)
	c.Logging.Merge(&overlay.Logging)
	c.Storage.Merge(&overlay.Storage)
}

func (c *Config) finalize() error {
	if err := c.Paths.Finalize(); err != nil {
		return fmt.Errorf("paths: %w", err)
	}
	if err := c.Training.Finalize(); err != nil {
		return fmt.Errorf("training: %w", err)
	}
	if err := c.Harvest.Finalize(); err != nil {
		return fmt.Errorf("harvest: %w", err)
	}
	if err := c.Logging.Finalize(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// FinalizeStorage completes the storage sub-config. Separate from the
// rest because only the binaries that reach blob storage require a
// connection string.
func (c *Config) FinalizeStorage() error {
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvLexgoEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
