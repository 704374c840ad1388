package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	History HistoryConfig `json:"history" yaml:"history"`
	Cache   CacheConfig   `json:"cache" yaml:"cache"`
	Filters FilterConfig  `json:"filters" yaml:"filters"`
	Watch   WatchConfig   `json:"watch" yaml:"watch"`
}

// HistoryConfig holds history query options.
type HistoryConfig struct {
	PageSize           int    `json:"pageSize" yaml:"pageSize"`                     // Default: 100
	MaxParallelLookups int    `json:"maxParallelLookups" yaml:"maxParallelLookups"` // Default: 8
	GitBinary          string `json:"gitBinary" yaml:"gitBinary"`                   // Default: "git"
}

// CacheConfig bounds memoized results.
type CacheConfig struct {
	CommitEntries int `json:"commitEntries" yaml:"commitEntries"`
}

// FilterConfig holds file path filtering options.
type FilterConfig struct {
	Include []string `json:"include" yaml:"include"`
	Exclude []string `json:"exclude" yaml:"exclude"`
}

// WatchConfig holds ref watcher options.
type WatchConfig struct {
	DebounceMillis int `json:"debounceMillis" yaml:"debounceMillis"`
}

// Debounce returns the debounce interval as a duration.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMillis) * time.Millisecond
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		History: HistoryConfig{
			PageSize:           100,
			MaxParallelLookups: 8,
			GitBinary:          "git",
		},
		Cache: CacheConfig{
			CommitEntries: 1024,
		},
		Filters: FilterConfig{
			Include: []string{},
			Exclude: []string{},
		},
		Watch: WatchConfig{
			DebounceMillis: 250,
		},
	}
}

// defaultFileNames are searched in the working directory, then in $HOME.
var defaultFileNames = []string{".githistory.json", ".githistory.yaml", ".githistory.yml"}

// LoadConfig loads configuration from a file, merging with defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = findConfigFile()
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if isYAML(path) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Validate rejects values the history service cannot work with.
func (c *Config) Validate() error {
	if c.History.PageSize <= 0 {
		return fmt.Errorf("history.pageSize must be positive, got %d", c.History.PageSize)
	}
	if c.History.MaxParallelLookups <= 0 {
		return fmt.Errorf("history.maxParallelLookups must be positive, got %d", c.History.MaxParallelLookups)
	}
	if strings.TrimSpace(c.History.GitBinary) == "" {
		return fmt.Errorf("history.gitBinary must not be empty")
	}
	if c.Cache.CommitEntries < 0 {
		return fmt.Errorf("cache.commitEntries must not be negative, got %d", c.Cache.CommitEntries)
	}
	if c.Watch.DebounceMillis < 0 {
		return fmt.Errorf("watch.debounceMillis must not be negative, got %d", c.Watch.DebounceMillis)
	}
	return nil
}

// SaveConfig saves configuration to a file. The format follows the extension.
func SaveConfig(cfg *Config, path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func findConfigFile() string {
	dirs := []string{""}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		dirs = append(dirs, home)
	} else if envHome := os.Getenv("HOME"); envHome != "" {
		dirs = append(dirs, envHome)
	}
	for _, dir := range dirs {
		for _, name := range defaultFileNames {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}
	return ""
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
