// Package config loads and persists viewer settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mistvale/dreamscope/pkg/metric"
)

// ExportDefaults are the defaults applied when an export flag is omitted.
type ExportDefaults struct {
	Format string `yaml:"format,omitempty"`
	OutDir string `yaml:"out_dir,omitempty"`
}

// Config holds viewer settings. Zero values fall back to DefaultConfig
// through Load, so a config file only needs the keys it changes.
type Config struct {
	// VaultPath is the journal vault root. Empty means the current
	// directory at launch.
	VaultPath string `yaml:"vault_path,omitempty"`

	// JournalDir is an optional subfolder of the vault holding entries.
	JournalDir string `yaml:"journal_dir,omitempty"`

	// EnabledMetrics are the metric names shown by default in the hub.
	EnabledMetrics []string `yaml:"enabled_metrics,omitempty"`

	// Theme selects the color theme by name.
	Theme string `yaml:"theme,omitempty"`

	// CheckUpdates enables the release check on startup.
	CheckUpdates bool `yaml:"check_updates"`

	// DebounceMS is the vault watcher debounce in milliseconds.
	DebounceMS int `yaml:"debounce_ms,omitempty"`

	Export ExportDefaults `yaml:"export,omitempty"`
}

// ValidThemes are the recognized theme names.
var ValidThemes = []string{"dusk", "dawn", "mono"}

// ValidExportFormats are the recognized export format names.
var ValidExportFormats = []string{"md", "html", "sqlite", "svg", "png"}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() Config {
	return Config{
		Theme:          "dusk",
		EnabledMetrics: metric.DefaultEnabled(),
		CheckUpdates:   true,
		DebounceMS:     250,
		Export: ExportDefaults{
			Format: "md",
			OutDir: "exports",
		},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "dreamscope", "config.yml"), nil
}

// Load reads the config file at the default location. A missing file is not
// an error: the defaults are returned.
func Load() (Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return DefaultConfig(), err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads and validates a config file. Keys absent from the file keep
// their default values.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path, creating parent directories as needed.
func (c Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid config: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// Validate checks the config for values nothing downstream can use.
func (c Config) Validate() error {
	if c.DebounceMS < 0 {
		return fmt.Errorf("debounce_ms must not be negative, got %d", c.DebounceMS)
	}
	if c.Theme != "" && !contains(ValidThemes, c.Theme) {
		return fmt.Errorf("unknown theme %q (valid: %v)", c.Theme, ValidThemes)
	}
	if c.Export.Format != "" && !contains(ValidExportFormats, c.Export.Format) {
		return fmt.Errorf("unknown export format %q (valid: %v)", c.Export.Format, ValidExportFormats)
	}
	for _, name := range c.EnabledMetrics {
		if _, ok := metric.ByName(name); !ok {
			return fmt.Errorf("unknown metric %q in enabled_metrics", name)
		}
	}
	return nil
}

// JournalRoot resolves the directory entries are loaded from.
func (c Config) JournalRoot() string {
	if c.JournalDir == "" {
		return c.VaultPath
	}
	return filepath.Join(c.VaultPath, c.JournalDir)
}

// Debounce returns the watcher debounce as a duration.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
