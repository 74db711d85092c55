package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// GetGlobalConfigDir returns the path to the global configuration directory.
// This is typically ~/.taskflow/
func GetGlobalConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home cannot be determined
		return ".taskflow"
	}
	return filepath.Join(home, ".taskflow")
}

// GetGlobalConfigPath returns the path to the global configuration file.
func GetGlobalConfigPath() string {
	return filepath.Join(GetGlobalConfigDir(), "config")
}

// EnsureGlobalConfigDir ensures that the global configuration directory exists.
func EnsureGlobalConfigDir() error {
	return os.MkdirAll(GetGlobalConfigDir(), 0755)
}

// LoadGlobalConfig loads configuration from the global config file, ignoring
// any local .env file.
func LoadGlobalConfig() (*Config, error) {
	cfg := resolve(source{
		local:  map[string]string{},
		global: readEnvFile(GetGlobalConfigPath()),
	})
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// SetGlobalConfig sets a configuration value in the global config file.
func SetGlobalConfig(key, value string) error {
	if err := EnsureGlobalConfigDir(); err != nil {
		return fmt.Errorf("failed to create global config directory: %w", err)
	}

	configPath := GetGlobalConfigPath()
	envMap := readEnvFile(configPath)
	envMap[key] = value
	return godotenv.Write(envMap, configPath)
}

// GetGlobalConfig retrieves a configuration value from the global config file.
func GetGlobalConfig(key string) (string, error) {
	envMap, err := godotenv.Read(GetGlobalConfigPath())
	if err != nil {
		return "", fmt.Errorf("failed to read global config: %w", err)
	}

	value, ok := envMap[key]
	if !ok {
		return "", fmt.Errorf("key '%s' not found in global configuration", key)
	}

	return value, nil
}
