package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./djx.db" {
			t.Errorf("expected database path ./djx.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Credentials.Spotify.ClientID != "your_spotify_client_id" {
			t.Errorf("expected spotify client_id your_spotify_client_id, got %s", config.Credentials.Spotify.ClientID)
		}

		if config.Credentials.Spotify.AccessToken != "" {
			t.Errorf("expected empty access_token by default, got %s", config.Credentials.Spotify.AccessToken)
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

		testConfig := `[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[server]
host = "0.0.0.0"
port = 8080

[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"
redirect_uri = "http://localhost:3000/callback"
access_token = "override_token"
market = "AU"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected custom database path, got %s", config.Database.Path)
		}
		if config.Server.Port != 8080 {
			t.Errorf("expected port 8080, got %d", config.Server.Port)
		}
		if config.Credentials.Spotify.AccessToken != "override_token" {
			t.Errorf("expected override token, got %s", config.Credentials.Spotify.AccessToken)
		}
		if config.Credentials.Spotify.Market != "AU" {
			t.Errorf("expected market AU, got %s", config.Credentials.Spotify.Market)
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig("/nonexistent/config.toml"); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("SaveConfig round trip", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		config := DefaultConfig()
		config.Credentials.Spotify.AccessToken = "saved_token"
		config.Credentials.Spotify.Market = "NZ"

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to reload config: %v", err)
		}

		if loaded.Credentials.Spotify.AccessToken != "saved_token" {
			t.Errorf("expected saved token, got %s", loaded.Credentials.Spotify.AccessToken)
		}
		if loaded.Credentials.Spotify.Market != "NZ" {
			t.Errorf("expected market NZ, got %s", loaded.Credentials.Spotify.Market)
		}
	})

	t.Run("ApplyEnvOverrides", func(t *testing.T) {
		t.Setenv("SPOTIFY_CLIENT_ID", "env_client_id")
		t.Setenv("SPOTIFY_CLIENT_SECRET", "env_secret")
		t.Setenv("SPOTIFY_ACCESS_TOKEN", "env_token")
		t.Setenv("SPOTIFY_MARKET", "SE")

		config := DefaultConfig()
		ApplyEnvOverrides(config)

		if config.Credentials.Spotify.ClientID != "env_client_id" {
			t.Errorf("expected env client id, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Credentials.Spotify.ClientSecret != "env_secret" {
			t.Errorf("expected env secret, got %s", config.Credentials.Spotify.ClientSecret)
		}
		if config.Credentials.Spotify.AccessToken != "env_token" {
			t.Errorf("expected env token, got %s", config.Credentials.Spotify.AccessToken)
		}
		if config.Credentials.Spotify.Market != "SE" {
			t.Errorf("expected market SE, got %s", config.Credentials.Spotify.Market)
		}
	})

	t.Run("ApplyEnvOverrides empty env keeps file values", func(t *testing.T) {
		t.Setenv("SPOTIFY_CLIENT_ID", "")
		t.Setenv("SPOTIFY_MARKET", "")

		config := DefaultConfig()
		config.Credentials.Spotify.Market = "DE"
		ApplyEnvOverrides(config)

		if config.Credentials.Spotify.ClientID != "your_spotify_client_id" {
			t.Errorf("expected file client id preserved, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Credentials.Spotify.Market != "DE" {
			t.Errorf("expected market DE preserved, got %s", config.Credentials.Spotify.Market)
		}
	})
}
