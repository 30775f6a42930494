package feed

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPostCount       = 20
	MaxPostCount           = 100
	DefaultRefreshInterval = 3600
	DefaultMaxItems        = 100
	DefaultTimeout         = 30

	configExt = ".yml"
)

// ConfigCache holds the wall configurations found in a directory of YAML
// files, one wall per file, keyed by file name without extension.
type ConfigCache struct {
	dir   string
	mu    sync.RWMutex
	walls map[string]*Config
}

func NewConfigCache(dir string) *ConfigCache {
	return &ConfigCache{
		dir:   dir,
		walls: make(map[string]*Config),
	}
}

// Run loads every wall configuration in the directory. A missing directory
// is not an error, an invalid file is.
func (cc *ConfigCache) Run() error {
	entries, err := os.ReadDir(cc.dir)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Wall configuration directory not found", "dir", cc.dir)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != configExt {
			continue
		}

		wallConfig, err := cc.LoadConfig(strings.TrimSuffix(entry.Name(), configExt))
		if err != nil {
			return fmt.Errorf("error loading %s: %w", entry.Name(), err)
		}

		slog.Debug("Configuration loaded", "wall", wallConfig.Name, "owner", wallConfig.Owner,
			"enabled", wallConfig.Settings.Enabled, "refresh_interval", wallConfig.Settings.RefreshInterval)
	}

	return nil
}

// LoadConfig reads, validates and caches the configuration of a single wall,
// replacing any previously cached version.
func (cc *ConfigCache) LoadConfig(name string) (*Config, error) {
	path := filepath.Join(cc.dir, name+configExt)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	wallConfig := &Config{
		Count: DefaultPostCount,
		Settings: ConfigSettings{
			RefreshInterval: DefaultRefreshInterval,
			MaxItems:        DefaultMaxItems,
			Timeout:         DefaultTimeout,
		},
	}
	if err := yaml.Unmarshal(data, wallConfig); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	wallConfig.Name = name

	if err := wallConfig.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	cc.mu.Lock()
	cc.walls[name] = wallConfig
	cc.mu.Unlock()

	return wallConfig, nil
}

func (cc *ConfigCache) GetConfig(name string) (*Config, error) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	wallConfig, ok := cc.walls[name]
	if !ok {
		return nil, fmt.Errorf("wall config with name '%s' not found", name)
	}
	return wallConfig, nil
}

func (cc *ConfigCache) GetConfigs() map[string]*Config {
	return cc.collect(func(*Config) bool { return true })
}

func (cc *ConfigCache) GetEnabledConfigs() map[string]*Config {
	return cc.collect(func(c *Config) bool { return c.Settings.Enabled })
}

func (cc *ConfigCache) GetConfigCount() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.walls)
}

func (cc *ConfigCache) collect(keep func(*Config) bool) map[string]*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	out := make(map[string]*Config, len(cc.walls))
	for name, wallConfig := range cc.walls {
		if keep(wallConfig) {
			out[name] = wallConfig
		}
	}
	return out
}

// validate checks the decoded values and compiles the filter patterns.
func (c *Config) validate() error {
	if c.Name == "" {
		return fmt.Errorf("wall name is required")
	}
	if _, err := ParseOwner(c.Owner); err != nil {
		return fmt.Errorf("owner is required: %w", err)
	}
	if c.Count < 1 || c.Count > MaxPostCount {
		return fmt.Errorf("count must be between 1 and %d", MaxPostCount)
	}

	switch {
	case c.Settings.RefreshInterval <= 0:
		return fmt.Errorf("refresh interval must be positive")
	case c.Settings.MaxItems <= 0:
		return fmt.Errorf("max items must be positive")
	case c.Settings.Timeout <= 0:
		return fmt.Errorf("timeout must be positive")
	}

	filterer, err := NewFilterer(c.Filters.Include, c.Filters.Exclude)
	if err != nil {
		return err
	}
	c.filterer = filterer

	return nil
}
