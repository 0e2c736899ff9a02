package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.API.BaseURL != "http://127.0.0.1:5000" {
			t.Errorf("expected base URL http://127.0.0.1:5000, got %s", config.API.BaseURL)
		}

		if config.Database.Path != "lmx.db" {
			t.Errorf("expected database path lmx.db, got %s", config.Database.Path)
		}

		if config.Scraper.PollSeconds != 3 {
			t.Errorf("expected poll_seconds 3, got %d", config.Scraper.PollSeconds)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[api]
base_url = "https://lmx.example.edu"

[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[scraper]
poll_seconds = 10
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.API.BaseURL != "https://lmx.example.edu" {
			t.Errorf("expected base URL https://lmx.example.edu, got %s", config.API.BaseURL)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Scraper.PollSeconds != 10 {
			t.Errorf("expected poll_seconds 10, got %d", config.Scraper.PollSeconds)
		}
	})

	t.Run("LMX_API_URL overrides the base URL", func(t *testing.T) {
		t.Setenv("LMX_API_URL", "https://override.example.edu")

		config := DefaultConfig()
		if config.API.BaseURL != "https://override.example.edu" {
			t.Errorf("expected env override, got %s", config.API.BaseURL)
		}
	})
}
