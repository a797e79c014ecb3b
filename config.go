package wires

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AnatoleLucet/wires/internal"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// MaxDepth bounds how many batches may nest, each started by a write
	// made while the previous one was running.
	MaxDepth int `yaml:"max_depth" toml:"max_depth" mapstructure:"max_depth"`

	// LogLevel is a logrus level name. WIRES_LOG_LEVEL overrides it.
	LogLevel string `yaml:"log_level" toml:"log_level" mapstructure:"log_level"`
}

func DefaultConfig() Config {
	return Config{
		MaxDepth: internal.DefaultMaxDepth,
		LogLevel: "info",
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxDepth == 0 {
		c.MaxDepth = d.MaxDepth
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}

	return c
}

func (c Config) Validate() error {
	if c.MaxDepth <= 0 {
		return fmt.Errorf("config invalid: max_depth must be positive, got %d", c.MaxDepth)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config invalid: %w", err)
	}

	return nil
}

// LoadConfig reads a YAML (.yaml, .yml) or TOML (.toml) file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		err = fmt.Errorf("unsupported extension %q", ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}

	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// DecodeConfig reads a Config embedded in a larger, already parsed document,
// such as a "wires" section of an application config.
func DecodeConfig(raw map[string]any) (Config, error) {
	var cfg Config
	if err := decode(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config parse failed: %w", err)
	}

	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
