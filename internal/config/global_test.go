package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetGlobalConfigDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	expected := filepath.Join(home, ".taskflow")
	if dir := GetGlobalConfigDir(); dir != expected {
		t.Errorf("expected %s, got %s", expected, dir)
	}
}

func TestEnsureGlobalConfigDir(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	if err := EnsureGlobalConfigDir(); err != nil {
		t.Fatalf("failed to ensure global config dir: %v", err)
	}

	expectedDir := filepath.Join(tempHome, ".taskflow")
	if _, err := os.Stat(expectedDir); os.IsNotExist(err) {
		t.Errorf("global config directory was not created at %s", expectedDir)
	}
}

func TestLoadGlobalConfig_WithValidFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configDir := filepath.Join(tempHome, ".taskflow")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	content := `TASKFLOW_STORE=postgres
TASKFLOW_POSTGRES_DSN=postgres://test@localhost/taskflow
GEMINI_MODEL=gemini-2.5-pro
`
	if err := os.WriteFile(filepath.Join(configDir, "config"), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("failed to load global config: %v", err)
	}

	if cfg.Store != StorePostgres {
		t.Errorf("expected postgres, got %s", cfg.Store)
	}
	if cfg.PostgresDSN != "postgres://test@localhost/taskflow" {
		t.Errorf("expected dsn from file, got %s", cfg.PostgresDSN)
	}
	if cfg.GeminiModel != "gemini-2.5-pro" {
		t.Errorf("expected gemini-2.5-pro, got %s", cfg.GeminiModel)
	}
}

func TestLoadGlobalConfig_InvalidStore(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TASKFLOW_STORE", "redis")

	cfg, err := LoadGlobalConfig()
	if err == nil {
		t.Error("expected error for unknown store, got nil")
	}
	if cfg == nil {
		t.Error("expected config struct even with error, got nil")
	}
}

func TestSetGlobalConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := SetGlobalConfig("GEMINI_API_KEY", "newsecret"); err != nil {
		t.Fatalf("failed to set global config: %v", err)
	}

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("failed to load global config after set: %v", err)
	}
	if cfg.GeminiAPIKey != "newsecret" {
		t.Errorf("expected newsecret, got %s", cfg.GeminiAPIKey)
	}
}

func TestGetGlobalConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := SetGlobalConfig("NEO4J_URI", "neo4j://global:7687"); err != nil {
		t.Fatalf("failed to set global config: %v", err)
	}

	value, err := GetGlobalConfig("NEO4J_URI")
	if err != nil {
		t.Fatalf("failed to get global config: %v", err)
	}
	if value != "neo4j://global:7687" {
		t.Errorf("expected neo4j://global:7687, got %s", value)
	}
}

func TestGetGlobalConfig_NonExistentKey(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if _, err := GetGlobalConfig("DOES_NOT_EXIST"); err == nil {
		t.Error("expected error for non-existent key, got nil")
	}
}

func TestLoadWithGlobalFallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("NEO4J_URI", "")

	if err := SetGlobalConfig("NEO4J_PASSWORD", "globalpass"); err != nil {
		t.Fatalf("failed to set global config: %v", err)
	}
	if err := SetGlobalConfig("NEO4J_URI", "neo4j://global:7687"); err != nil {
		t.Fatalf("failed to set global config: %v", err)
	}

	localDir := t.TempDir()
	localContent := "TASKFLOW_STORE=neo4j\nNEO4J_URI=neo4j://local:7687\n"
	if err := os.WriteFile(filepath.Join(localDir, ".env"), []byte(localContent), 0644); err != nil {
		t.Fatalf("failed to write local config: %v", err)
	}

	cfg, err := Load(localDir)
	if err != nil {
		t.Fatalf("failed to load config with global fallback: %v", err)
	}

	if cfg.Neo4jURI != "neo4j://local:7687" {
		t.Errorf("expected local URI, got %s", cfg.Neo4jURI)
	}
	if cfg.Neo4jPassword != "globalpass" {
		t.Errorf("expected global password, got %s", cfg.Neo4jPassword)
	}
}
