// Package config loads the quickfile client configuration. Everything has
// a working default; the config file only exists to override socket
// locations, timing, and the opener command.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds client settings for both the launcher and the CLI.
type Config struct {
	// RuntimeDir overrides the per-user runtime directory used for the
	// interactive session sockets. Empty means resolve from the user id.
	RuntimeDir string `yaml:"runtime_dir"`

	// BridgeRequestSocket and BridgeResponseSocket override the fixed
	// /tmp paths used by the one-shot CLI.
	BridgeRequestSocket  string `yaml:"bridge_request_socket"`
	BridgeResponseSocket string `yaml:"bridge_response_socket"`

	// DebounceMs is the quiet period between the last edit and a Search
	// dispatch.
	DebounceMs int `yaml:"debounce_ms"`

	// SearchLimit caps the number of results requested per search.
	SearchLimit int `yaml:"search_limit"`

	// BridgeTimeoutMs bounds how long a one-shot CLI call waits for a
	// response before degrading to fire-and-forget.
	BridgeTimeoutMs int `yaml:"bridge_timeout_ms"`

	// OpenCommand is the external command invoked with the selected
	// file's absolute path appended.
	OpenCommand []string `yaml:"open_command"`

	// ActivityLog is the JSONL activity log path. Empty disables logging.
	ActivityLog string `yaml:"activity_log"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DebounceMs:      100,
		SearchLimit:     100,
		BridgeTimeoutMs: 5000,
		OpenCommand:     []string{"xdg-open"},
	}
}

// Path returns the config file location: $QUICKFILE_CONFIG when set,
// otherwise ~/.config/quickfile/config.yaml.
func Path() string {
	if p := os.Getenv("QUICKFILE_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "quickfile.yaml")
	}
	return filepath.Join(home, ".config", "quickfile", "config.yaml")
}

// Load reads the config from Path(). A missing file yields the defaults
// with no error.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config from the given path. A missing file yields
// the defaults with no error; fields absent from the file keep their
// default values.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.DebounceMs <= 0 {
		cfg.DebounceMs = Default().DebounceMs
	}
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = Default().SearchLimit
	}
	if cfg.BridgeTimeoutMs <= 0 {
		cfg.BridgeTimeoutMs = Default().BridgeTimeoutMs
	}
	if len(cfg.OpenCommand) == 0 {
		cfg.OpenCommand = Default().OpenCommand
	}
	return cfg, nil
}
