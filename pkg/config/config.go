// Package config loads and saves bkmr's TOML configuration file. The
// loaded value is a mutex-guarded struct, saved atomically via
// github.com/natefinch/atomic, and parsed/encoded with
// github.com/pelletier/go-toml/v2.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/natefinch/atomic"
	"github.com/pelletier/go-toml/v2"
	"github.com/sysid/bkmr/pkg/paths"
)

// FzfOpts configures the --fuzzy selector.
type FzfOpts struct {
	Height   string `toml:"height"`
	Reverse  bool   `toml:"reverse"`
	ShowTags bool   `toml:"show_tags"`
	NoURL    bool   `toml:"no_url"`
}

// Config is bkmr's on-disk configuration.
type Config struct {
	mu sync.Mutex

	DBUrl     string            `toml:"db_url"`
	FzfOpts   FzfOpts           `toml:"fzf_opts"`
	BasePaths map[string]string `toml:"base_paths"`

	path string
}

// Load reads the config file at path, or returns a zero-value Config (not
// an error) if the file does not exist — a missing config file is valid;
// defaults apply.
func Load(path string) (*Config, error) {
	if path == "" {
		path = paths.DefaultConfigPath()
	}

	c := &Config{path: path, BasePaths: map[string]string{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("reading config %q: %w", path, err)
	}

	if err := toml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", path, err)
	}
	if c.BasePaths == nil {
		c.BasePaths = map[string]string{}
	}
	c.path = path
	return c, nil
}

// Path returns the file path Config was loaded from or will save to.
func (c *Config) Path() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.path
}

// Save atomically writes the config back to its path.
func (c *Config) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return atomic.WriteFile(c.path, bytes.NewReader(data))
}

// ResolvedDBUrl applies the precedence CLI flag > BKMR_DB_URL env var >
// config file > default path.
func (c *Config) ResolvedDBUrl(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv("BKMR_DB_URL"); v != "" {
		return v
	}
	if c.DBUrl != "" {
		return c.DBUrl
	}
	return paths.DefaultDBPath()
}
