package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/brettbedarf/webedit/internal/util"
	"gopkg.in/yaml.v3"
)

// Default configuration constants. See [Config] for field descriptions.
const (
	// DefaultLogLvl is the internal log level used when no verbosity is given
	DefaultLogLvl = util.InfoLevel

	// DefaultDataDir is where the file-backed key-value store keeps its blobs
	DefaultDataDir = ".webedit"

	// DefaultStorageKey is the fixed key the workspace snapshot is stored under
	DefaultStorageKey = "codeEditor_data"

	// DefaultStorageBackend persists snapshots to DataDir
	DefaultStorageBackend = StorageBackendFile

	// DefaultIDStrategy produces "item_<n>_<unix-ms>" identifiers
	DefaultIDStrategy = IDStrategySequence

	// DefaultMetricsAddr disables the metrics listener
	DefaultMetricsAddr = ""
)

// Storage backends understood by [Config.StorageBackend].
const (
	StorageBackendFile   = "file"
	StorageBackendMemory = "memory"
)

// Identifier strategies understood by [Config.IDStrategy].
const (
	IDStrategySequence = "sequence"
	IDStrategyUUID     = "uuid"
)

// CLI verbosity values accepted by [ConfigOverride.LogLvl]. Verbosity counts up
// while the internal [util.LogLevel] counts down, so they are mapped in Merge.
const (
	ErrorVerbose = iota + 1
	WarnVerbose
	InfoVerbose
	DebugVerbose
	TraceVerbose
)

// DefaultAllowedExtensions returns the extensions accepted by interactive file
// creation and rename.
func DefaultAllowedExtensions() []string {
	return []string{".html", ".css", ".js", ".txt", ".json", ".md"}
}

// Config contains runtime configuration values for the editor shell.
type Config struct {
	MountOptions

	LogLvl            util.LogLevel // Internal log level (Default info)
	DataDir           string        // Directory backing the file key-value store (Default .webedit)
	StorageKey        string        // Key the snapshot blob is written under (Default codeEditor_data)
	StorageBackend    string        // "file" or "memory" (Default file)
	IDStrategy        string        // "sequence" or "uuid" (Default sequence)
	AllowedExtensions []string      // Extensions accepted for new/renamed files (Default .html .css .js .txt .json .md)
	MetricsAddr       string        // Listen address for /metrics while mounted; empty disables (Default "")
}

// ConfigOverride uses pointer fields to distinguish between unset and zero values
// when loading partial configuration. See [Config] for field descriptions.
type ConfigOverride struct {
	// LogLvl is a CLI verbosity between 1 (error) and 5 (trace); values outside are clamped
	LogLvl            *int      `yaml:"verbose,omitempty" json:"verbose,omitempty"`
	DataDir           *string   `yaml:"data_dir,omitempty" json:"data_dir,omitempty"`
	StorageKey        *string   `yaml:"storage_key,omitempty" json:"storage_key,omitempty"`
	StorageBackend    *string   `yaml:"storage_backend,omitempty" json:"storage_backend,omitempty"`
	IDStrategy        *string   `yaml:"id_strategy,omitempty" json:"id_strategy,omitempty"`
	AllowedExtensions *[]string `yaml:"allowed_extensions,omitempty" json:"allowed_extensions,omitempty"`
	MetricsAddr       *string   `yaml:"metrics_addr,omitempty" json:"metrics_addr,omitempty"`
	FsName            *string   `yaml:"fs_name,omitempty" json:"fs_name,omitempty"`
	Name              *string   `yaml:"name,omitempty" json:"name,omitempty"`
	Debug             *bool     `yaml:"debug,omitempty" json:"debug,omitempty"`
}

// NewDefaultConfig creates a new Config with all default values.
func NewDefaultConfig() *Config {
	return &Config{
		MountOptions: MountOptions{
			FsName: DefaultFsName,
			Name:   DefaultName,
		},
		LogLvl:            DefaultLogLvl,
		DataDir:           DefaultDataDir,
		StorageKey:        DefaultStorageKey,
		StorageBackend:    DefaultStorageBackend,
		IDStrategy:        DefaultIDStrategy,
		AllowedExtensions: DefaultAllowedExtensions(),
		MetricsAddr:       DefaultMetricsAddr,
	}
}

// NewConfig returns the defaults with override applied. A nil override yields
// the defaults unchanged.
func NewConfig(override *ConfigOverride) *Config {
	cfg := NewDefaultConfig()
	if override != nil {
		cfg.Merge(override)
	}
	return cfg
}

// VerboseToLogLevel clamps a CLI verbosity into 1..5 and returns the matching
// internal log level.
func VerboseToLogLevel(verbose int) util.LogLevel {
	verbose = max(ErrorVerbose, min(TraceVerbose, verbose))
	lvls := [5]util.LogLevel{util.ErrorLevel, util.WarnLevel, util.InfoLevel, util.DebugLevel, util.TraceLevel}
	return lvls[verbose-1]
}

// Merge applies non-nil values from override onto this Config.
// This allows partial configuration updates while preserving existing values.
func (c *Config) Merge(override *ConfigOverride) {
	if override.LogLvl != nil {
		c.LogLvl = VerboseToLogLevel(*override.LogLvl)
	}
	if override.DataDir != nil {
		c.DataDir = *override.DataDir
	}
	if override.StorageKey != nil {
		c.StorageKey = *override.StorageKey
	}
	if override.StorageBackend != nil {
		c.StorageBackend = *override.StorageBackend
	}
	if override.IDStrategy != nil {
		c.IDStrategy = *override.IDStrategy
	}
	if override.AllowedExtensions != nil {
		c.AllowedExtensions = slices.Clone(*override.AllowedExtensions)
	}
	if override.MetricsAddr != nil {
		c.MetricsAddr = *override.MetricsAddr
	}
	if override.FsName != nil {
		c.FsName = *override.FsName
	}
	if override.Name != nil {
		c.Name = *override.Name
	}
	if override.Debug != nil {
		c.Debug = *override.Debug
	}
}

// Validate reports the first unsupported enum value in the config.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case StorageBackendFile, StorageBackendMemory:
	default:
		return fmt.Errorf("unknown storage backend: %q", c.StorageBackend)
	}
	switch c.IDStrategy {
	case IDStrategySequence, IDStrategyUUID:
	default:
		return fmt.Errorf("unknown id strategy: %q", c.IDStrategy)
	}
	if c.StorageKey == "" {
		return fmt.Errorf("storage key must not be empty")
	}
	return nil
}

// LoadConfigOverrideFile loads configuration overrides from a file without merging.
// Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func LoadConfigOverrideFile(path string) (*ConfigOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override ConfigOverride

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
// This is a convenience function that combines NewDefaultConfig, LoadConfigOverrideFile, and Merge.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	override, err := LoadConfigOverrideFile(path)
	if err != nil {
		return nil, err
	}
	cfg.Merge(override)
	return cfg, nil
}
