package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds all settings for a materialization run
type Config struct {
	// ConfigDir is the directory the Streamlit files are written to
	ConfigDir string `toml:"config_dir"`

	// Email is the value written into credentials.toml
	Email string `toml:"email"`

	// Port is copied verbatim into config.toml. It is never validated or
	// reformatted, matching the setup script this tool replaces.
	Port string `toml:"port"`

	// Headless controls the server.headless field
	Headless bool `toml:"headless"`

	// EnableCORS controls the server.enableCORS field
	EnableCORS bool `toml:"enable_cors"`

	// Atomic stages both files and renames them into place together
	// instead of writing each one in place
	Atomic bool `toml:"atomic"`
}

// defaultConfig returns the default configuration. ConfigDir is left
// empty here and resolved against the user's home directory in Load,
// so overrides from file or environment skip home resolution entirely.
func defaultConfig() *Config {
	return &Config{
		Email:      DefaultEmail,
		Headless:   true,
		EnableCORS: false,
	}
}

// Load loads the configuration from file and environment variables
func Load() (*Config, error) {
	// Start with default configuration
	config := defaultConfig()

	// Try to load from stsetup.toml if it exists
	configPath := os.Getenv("STSETUP_CONFIG_PATH")
	if configPath == "" {
		configPath = "stsetup.toml"
	}
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, config); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	// Override with environment variables if set
	if dir := os.Getenv("STSETUP_DIR"); dir != "" {
		config.ConfigDir = dir
	}

	if email := os.Getenv("STSETUP_EMAIL"); email != "" {
		config.Email = email
	}

	// PORT is consumed verbatim; an empty value is taken as-is
	if port, ok := os.LookupEnv("PORT"); ok {
		config.Port = port
	}

	if atomic := os.Getenv("STSETUP_ATOMIC"); atomic != "" {
		config.Atomic = atomic == "true" || atomic == "1"
	}

	// Fall back to the dotfolder under the user's home directory
	if config.ConfigDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		config.ConfigDir = filepath.Join(home, DefaultDirName)
	}

	// Ensure ConfigDir is absolute
	if !filepath.IsAbs(config.ConfigDir) {
		absPath, err := filepath.Abs(config.ConfigDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for config dir: %w", err)
		}
		config.ConfigDir = absPath
	}

	return config, nil
}

// GetConfigDir returns the directory the files are written to
func (c *Config) GetConfigDir() string {
	return c.ConfigDir
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("ConfigDir: %s", c.ConfigDir))
	parts = append(parts, fmt.Sprintf("Email: %s", c.Email))
	parts = append(parts, fmt.Sprintf("Port: %s", c.Port))
	parts = append(parts, fmt.Sprintf("Headless: %t", c.Headless))
	parts = append(parts, fmt.Sprintf("EnableCORS: %t", c.EnableCORS))
	parts = append(parts, fmt.Sprintf("Atomic: %t", c.Atomic))
	return strings.Join(parts, ", ")
}
