package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/prati1/file-tree-render/internal/util"
)

// Default configuration constants. See [Config] for field descriptions.
const (
	// DefaultListenAddr is the HTTP adapter's bind address
	DefaultListenAddr = ":8080"

	// DefaultCacheEnabled controls whether reads go through the read-through cache
	DefaultCacheEnabled = true

	// DefaultEventBuffer is the per-subscriber event channel capacity
	DefaultEventBuffer = 16
)

// Config contains runtime configuration values for the file-tree service.
type Config struct {
	LogLvl       util.LogLevel // Internal log level (Default Info)
	ListenAddr   string        // HTTP adapter bind address (Default :8080)
	TreeDefPath  string        // Optional tree definition file loaded at startup (Default none)
	CacheEnabled bool          // Whether node reads go through the read-through cache (Default true)
	EventBuffer  int           // Per-subscriber event channel capacity (Default 16)
}

// Override uses pointer fields to distinguish between unset and zero values
// when loading partial configuration. See [Config] for field descriptions.
type Override struct {
	LogLvl       *util.LogLevel `yaml:"log_level,omitempty" json:"log_level,omitempty"`
	ListenAddr   *string        `yaml:"listen_addr,omitempty" json:"listen_addr,omitempty"`
	TreeDefPath  *string        `yaml:"tree_def,omitempty" json:"tree_def,omitempty"`
	CacheEnabled *bool          `yaml:"cache_enabled,omitempty" json:"cache_enabled,omitempty"`
	EventBuffer  *int           `yaml:"event_buffer,omitempty" json:"event_buffer,omitempty"`
}

// NewDefaultConfig creates a new Config with all default values.
func NewDefaultConfig() *Config {
	return &Config{
		LogLvl:       util.InfoLevel,
		ListenAddr:   DefaultListenAddr,
		CacheEnabled: DefaultCacheEnabled,
		EventBuffer:  DefaultEventBuffer,
	}
}

// NewConfig creates a Config from defaults with the override applied.
// A nil override yields all defaults.
func NewConfig(override *Override) *Config {
	cfg := NewDefaultConfig()
	if override != nil {
		cfg.Merge(override)
	}
	return cfg
}

// Merge applies non-nil values from override onto this Config.
// This allows partial configuration updates while preserving existing values.
func (c *Config) Merge(override *Override) {
	if override.LogLvl != nil {
		c.LogLvl = *override.LogLvl
	}
	if override.ListenAddr != nil {
		c.ListenAddr = *override.ListenAddr
	}
	if override.TreeDefPath != nil {
		c.TreeDefPath = *override.TreeDefPath
	}
	if override.CacheEnabled != nil {
		c.CacheEnabled = *override.CacheEnabled
	}
	if override.EventBuffer != nil {
		c.EventBuffer = *override.EventBuffer
	}
}

// LoadOverrideFile loads configuration overrides from a file without merging.
// Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func LoadOverrideFile(path string) (*Override, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override Override

	// Determine format by file extension
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config file extension: %s", path)
	}

	return &override, nil
}

// NewConfigFromFile creates a new Config by merging file overrides with defaults.
// This is a convenience function that combines NewDefaultConfig, LoadOverrideFile, and Merge.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	override, err := LoadOverrideFile(path)
	if err != nil {
		return nil, err
	}
	cfg.Merge(override)
	return cfg, nil
}
