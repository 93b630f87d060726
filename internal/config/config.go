// Package config loads lin's optional settings file.
//
// Settings live at ~/.config/lin/settings.toml and tune defaults like
// the output format and the API endpoint. Credentials and cached team
// metadata are stored separately, see the store package.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the lin settings
type Config struct {
	Output     string `toml:"output"`      // "text" or "json"
	Color      string `toml:"color"`       // "auto", "always", or "never"
	Endpoint   string `toml:"endpoint"`    // GraphQL endpoint override
	DefaultOrg string `toml:"default_org"` // org used when --org is not given
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Output: "text",
		Color:  "auto",
	}
}

// Path returns the path to the settings file
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "lin", "settings.toml"), nil
}

// Load reads settings from ~/.config/lin/settings.toml
// Returns Default() if file doesn't exist (no error)
// Returns error only if file exists but is invalid
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads settings from an explicit path.
func LoadFrom(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Default(), fmt.Errorf("failed to read settings file: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse settings file: %w", err)
	}

	if cfg.Output != "" && cfg.Output != "text" && cfg.Output != "json" {
		return Default(), fmt.Errorf("invalid output %q: must be \"text\" or \"json\"", cfg.Output)
	}
	if cfg.Color != "" && cfg.Color != "auto" && cfg.Color != "always" && cfg.Color != "never" {
		return Default(), fmt.Errorf("invalid color %q: must be \"auto\", \"always\", or \"never\"", cfg.Color)
	}

	// Use defaults for empty values
	if cfg.Output == "" {
		cfg.Output = "text"
	}
	if cfg.Color == "" {
		cfg.Color = "auto"
	}

	return cfg, nil
}

const defaultConfig = `# lin settings

# Default output format: "text" or "json"
# The --json flag overrides this per invocation.
output = "text"

# Color output: "auto" (only when stdout is a terminal), "always", or "never"
color = "auto"

# GraphQL endpoint override, for proxies or testing
# endpoint = "https://api.linear.app/graphql"

# Organization used when --org is not given and no org is active
# default_org = "acme"
`

// Init creates a default settings file at ~/.config/lin/settings.toml
// If force is true, overwrites existing file
// Returns the path to the created file
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", errors.New("settings file already exists: " + path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}

	if err := os.WriteFile(path, []byte(defaultConfig), 0644); err != nil {
		return "", err
	}

	return path, nil
}
