// Package config holds wic's ambient configuration: the global
// Verbose/Debug switches set from the root command's persistent flags,
// and the on-disk EnvConfig loaded from ~/.wic/config.yaml.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Verbose and Debug are set once in the root command's PersistentPreRunE
// and read throughout the codebase as package-level globals.
var (
	Verbose bool
	Debug   bool
)

// EnvConfig is the persisted, user-editable configuration file.
type EnvConfig struct {
	// ToolPaths lists extra directories to search for tool documents,
	// beyond the ones passed on the command line.
	ToolPaths []string `yaml:"tool_paths"`
	// ValidatorCmd overrides the external validator binary (default
	// "cwltool"), see wictypes.CompilerArgs.ValidatorCmd.
	ValidatorCmd string `yaml:"validator_cmd,omitempty"`
	// RenderCmd overrides the external graph renderer binary (default
	// "dot").
	RenderCmd string `yaml:"render_cmd,omitempty"`
	// IgnoreFiles lists additional .wicignore-style patterns applied
	// during tool/workflow discovery.
	IgnoreFiles []string `yaml:"ignore_files,omitempty"`
}

// GetEnvPath returns the path to the config file, honoring WIC_CONFIG
// and otherwise defaulting to ~/.wic/config.yaml.
func GetEnvPath() string {
	if p := os.Getenv("WIC_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".wic/config.yaml"
	}
	return filepath.Join(home, ".wic", "config.yaml")
}

// LoadEnvConfig reads the config file at path. A missing file is not an
// error -- it yields the zero-value EnvConfig, tolerating a
// not-yet-configured install.
func LoadEnvConfig(path string) (*EnvConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &EnvConfig{}, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var cfg EnvConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// DebugLog prints format/args only when Debug is enabled, a
// package-level gate checked by every subsystem's verbose logging
// calls.
func DebugLog(format string, args ...interface{}) {
	if Debug {
		log.Printf("[DEBUG] "+format, args...)
	}
}

// Save writes cfg back to path, creating parent directories as needed.
func (c *EnvConfig) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("config: creating config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshaling: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}
