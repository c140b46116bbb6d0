package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path == "" {
			t.Error("expected a default database path")
		}
		if config.Server.Port == 0 {
			t.Error("expected a default server port")
		}
		if config.Credentials.Spotify.RedirectURI == "" {
			t.Error("expected a default redirect URI")
		}
	})

	t.Run("Environment Overrides", func(t *testing.T) {
		t.Setenv("SPOTIFY_CLIENT_ID", "env-client")
		t.Setenv("SPOTIFY_CLIENT_SECRET", "env-secret")
		t.Setenv("DATABASE_PATH", "/tmp/env.db")
		t.Setenv("PORT", "4040")

		config := DefaultConfig()

		if config.Credentials.Spotify.ClientID != "env-client" {
			t.Errorf("expected env client id, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Database.Path != "/tmp/env.db" {
			t.Errorf("expected env database path, got %s", config.Database.Path)
		}
		if config.Server.Port != 4040 {
			t.Errorf("expected env port 4040, got %d", config.Server.Port)
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		t.Run("Parses TOML File", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			content := `
[credentials.spotify]
client_id = "file-client"
client_secret = "file-secret"

[database]
path = "./file.db"

[server]
host = "0.0.0.0"
port = 9090
`
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write config file: %v", err)
			}

			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if config.Credentials.Spotify.ClientID != "file-client" {
				t.Errorf("expected file client id, got %s", config.Credentials.Spotify.ClientID)
			}
			if config.Server.Addr() != "0.0.0.0:9090" {
				t.Errorf("expected addr '0.0.0.0:9090', got %s", config.Server.Addr())
			}
		})

		t.Run("Fails For Missing File", func(t *testing.T) {
			if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
				t.Error("expected error for missing file")
			}
		})
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		t.Run("Writes Template", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")

			if err := CreateConfigFile(path); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if _, err := LoadConfig(path); err != nil {
				t.Errorf("expected created file to parse, got %v", err)
			}
		})

		t.Run("Refuses To Overwrite", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := CreateConfigFile(path); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if err := CreateConfigFile(path); err == nil {
				t.Error("expected error for existing file")
			}
		})
	})

	t.Run("SpotifyConfig Map", func(t *testing.T) {
		spotify := SpotifyConfig{ClientID: "id", ClientSecret: "secret", RedirectURI: "uri"}
		m := spotify.Map()

		if m["client_id"] != "id" || m["client_secret"] != "secret" || m["redirect_uri"] != "uri" {
			t.Errorf("unexpected credential map: %v", m)
		}
	})
}
