package mjlib

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config are tool defaults read from the user's configuration file. All
// fields are optional; command-line flags override them.
type Config struct {
	// Minify, if true, flattens whitespace before encoding by default.
	Minify bool `yaml:"minify,omitempty"`

	// OutDir, if set, is the default output directory.
	OutDir string `yaml:"outDir,omitempty"`

	// Exts, if non-empty, replaces the default source extensions used for
	// directory walks and watch mode.
	Exts []string `yaml:"exts,omitempty,flow"`
}

// DefaultConfigPath returns the standard location of the user's
// configuration file, or "" if no home location is available.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "mojic", "config.yml")
}

// LoadConfig reads the configuration file at path. A missing file or an
// empty path is not an error; it yields a zero configuration.
func LoadConfig(path string) (*Config, error) {
	cfg := new(Config)
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	} else if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	return cfg, nil
}

// SourceExts returns the source extensions to use for directory walks.
func (c *Config) SourceExts() []string {
	if len(c.Exts) != 0 {
		return c.Exts
	}
	return DefaultSourceExts
}
