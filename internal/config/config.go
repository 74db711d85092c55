// Package config manages application configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreNeo4j    = "neo4j"
	StoreMemory   = "memory"
)

// Keys lists every configuration key in display order.
var Keys = []string{
	"TASKFLOW_STORE",
	"TASKFLOW_DATA_DIR",
	"TASKFLOW_POSTGRES_DSN",
	"NEO4J_URI",
	"NEO4J_USERNAME",
	"NEO4J_PASSWORD",
	"NEO4J_DATABASE",
	"GEMINI_API_KEY",
	"GEMINI_MODEL",
	"GEMINI_AUTO_SWITCH",
	"TASKFLOW_HTTP_ADDR",
	"TASKFLOW_LOG_LEVEL",
	"TASKFLOW_TIMER_NOTIFICATIONS",
	"TASKFLOW_PATTERNS_FILE",
	"TASKFLOW_CONTAINER_NAME",
	"TASKFLOW_CONTAINER_IMAGE",
}

// Config holds the application configuration.
type Config struct {
	Store       string
	DataDir     string
	PostgresDSN string

	Neo4jURI      string
	Neo4jUsername string
	Neo4jPassword string
	Neo4jDatabase string

	GeminiAPIKey     string
	GeminiModel      string
	GeminiAutoSwitch bool

	HTTPAddr           string
	LogLevel           string
	TimerNotifications bool
	PatternsFile       string

	ContainerName  string
	ContainerImage string
}

// source resolves a key with precedence: local > global > env > default.
type source struct {
	local  map[string]string
	global map[string]string
}

func readEnvFile(path string) map[string]string {
	m, err := godotenv.Read(path)
	if err != nil {
		// If file doesn't exist, use empty map
		return make(map[string]string)
	}
	return m
}

func (s source) get(key, defaultValue string) string {
	if value, ok := s.local[key]; ok && value != "" {
		return value
	}
	if value, ok := s.global[key]; ok && value != "" {
		return value
	}
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (s source) bool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(s.get(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

// Load reads configuration from a .env file in the specified directory.
// Values missing there fall back to the global config (~/.taskflow/config),
// then to environment variables and defaults.
func Load(dir string) (*Config, error) {
	cfg := resolve(source{
		local:  readEnvFile(GetConfigPath(dir)),
		global: readEnvFile(GetGlobalConfigPath()),
	})

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func resolve(s source) *Config {
	return &Config{
		Store:       strings.ToLower(s.get("TASKFLOW_STORE", StoreSQLite)),
		DataDir:     s.get("TASKFLOW_DATA_DIR", GetGlobalConfigDir()),
		PostgresDSN: s.get("TASKFLOW_POSTGRES_DSN", ""),

		Neo4jURI:      s.get("NEO4J_URI", "neo4j://localhost:7687"),
		Neo4jUsername: s.get("NEO4J_USERNAME", "neo4j"),
		Neo4jPassword: s.get("NEO4J_PASSWORD", ""),
		Neo4jDatabase: s.get("NEO4J_DATABASE", "neo4j"),

		GeminiAPIKey:     s.get("GEMINI_API_KEY", ""),
		GeminiModel:      s.get("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiAutoSwitch: s.bool("GEMINI_AUTO_SWITCH", true),

		HTTPAddr:           s.get("TASKFLOW_HTTP_ADDR", "127.0.0.1:8787"),
		LogLevel:           s.get("TASKFLOW_LOG_LEVEL", "info"),
		TimerNotifications: s.bool("TASKFLOW_TIMER_NOTIFICATIONS", true),
		PatternsFile:       s.get("TASKFLOW_PATTERNS_FILE", ""),

		ContainerName:  s.get("TASKFLOW_CONTAINER_NAME", "taskflow-db"),
		ContainerImage: s.get("TASKFLOW_CONTAINER_IMAGE", ""),
	}
}

// Validate checks that the fields required by the selected store are set.
func (c *Config) Validate() error {
	var missing []string

	switch c.Store {
	case StoreSQLite:
		if c.DataDir == "" {
			missing = append(missing, "TASKFLOW_DATA_DIR")
		}
	case StorePostgres:
		if c.PostgresDSN == "" {
			missing = append(missing, "TASKFLOW_POSTGRES_DSN")
		}
	case StoreNeo4j:
		if c.Neo4jURI == "" {
			missing = append(missing, "NEO4J_URI")
		}
		if c.Neo4jUsername == "" {
			missing = append(missing, "NEO4J_USERNAME")
		}
		if c.Neo4jPassword == "" {
			missing = append(missing, "NEO4J_PASSWORD")
		}
		if c.Neo4jDatabase == "" {
			missing = append(missing, "NEO4J_DATABASE")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown store %q (must be one of: sqlite, postgres, neo4j, memory)", c.Store)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration fields: %s", strings.Join(missing, ", "))
	}

	return nil
}

// Values returns the configuration keyed by its environment names.
func (c *Config) Values() map[string]string {
	return map[string]string{
		"TASKFLOW_STORE":               c.Store,
		"TASKFLOW_DATA_DIR":            c.DataDir,
		"TASKFLOW_POSTGRES_DSN":        c.PostgresDSN,
		"NEO4J_URI":                    c.Neo4jURI,
		"NEO4J_USERNAME":               c.Neo4jUsername,
		"NEO4J_PASSWORD":               c.Neo4jPassword,
		"NEO4J_DATABASE":               c.Neo4jDatabase,
		"GEMINI_API_KEY":               c.GeminiAPIKey,
		"GEMINI_MODEL":                 c.GeminiModel,
		"GEMINI_AUTO_SWITCH":           strconv.FormatBool(c.GeminiAutoSwitch),
		"TASKFLOW_HTTP_ADDR":           c.HTTPAddr,
		"TASKFLOW_LOG_LEVEL":           c.LogLevel,
		"TASKFLOW_TIMER_NOTIFICATIONS": strconv.FormatBool(c.TimerNotifications),
		"TASKFLOW_PATTERNS_FILE":       c.PatternsFile,
		"TASKFLOW_CONTAINER_NAME":      c.ContainerName,
		"TASKFLOW_CONTAINER_IMAGE":     c.ContainerImage,
	}
}

// IsSecret reports whether a key's value should be masked on display.
func IsSecret(key string) bool {
	return strings.HasSuffix(key, "_PASSWORD") || strings.HasSuffix(key, "_API_KEY") || strings.HasSuffix(key, "_DSN")
}

// GetConfigPath returns the full path to the .env file in the given directory.
func GetConfigPath(dir string) string {
	return filepath.Join(dir, ".env")
}

// Set updates or creates a configuration value in the .env file.
func Set(dir, key, value string) error {
	envPath := GetConfigPath(dir)
	envMap := readEnvFile(envPath)
	envMap[key] = value
	return godotenv.Write(envMap, envPath)
}

// Get retrieves a configuration value from the .env file.
func Get(dir, key string) (string, error) {
	envMap, err := godotenv.Read(GetConfigPath(dir))
	if err != nil {
		return "", fmt.Errorf("failed to read config: %w", err)
	}

	value, ok := envMap[key]
	if !ok {
		return "", fmt.Errorf("key '%s' not found in configuration", key)
	}

	return value, nil
}
