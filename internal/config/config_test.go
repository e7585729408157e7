package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadExplicitPath(t *testing.T) {
	path := writeConfig(t, `
test_mode = true

[logs]
level = "debug"

[media]
use_original_title = true
seed_path = "/srv/seed"

[radarr]
base_url = "http://radarr:7878/"
api_key = "abc"

[[radarr.path_mappings]]
remote_root = "/movies"
local_root = "/mnt/media/movies"

[sonarr]
base_url = "http://sonarr:8989"
api_key = "def"
only_complete_seasons = false

[torrent]
announce_url = "http://tracker.example/announce"

[upload.torrust]
enable = true
api_base = "http://torrust:3001/v1/"
api_key = "xyz"
tags = ["french"]
`)

	cfg, resolved, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) = %v", path, err)
	}
	if resolved != path {
		t.Errorf("resolved path = %q, want %q", resolved, path)
	}
	if !cfg.TestMode {
		t.Error("TestMode = false, want true")
	}
	if cfg.Logs.Level != "debug" {
		t.Errorf("Logs.Level = %q, want debug", cfg.Logs.Level)
	}
	if cfg.Media.SeedPath != "/srv/seed" {
		t.Errorf("Media.SeedPath = %q, want /srv/seed", cfg.Media.SeedPath)
	}
	// Trailing slashes are trimmed during normalization.
	if cfg.Radarr.BaseURL != "http://radarr:7878" {
		t.Errorf("Radarr.BaseURL = %q, want trimmed URL", cfg.Radarr.BaseURL)
	}
	if cfg.Upload.Torrust.APIBase != "http://torrust:3001/v1" {
		t.Errorf("Torrust.APIBase = %q, want trimmed URL", cfg.Upload.Torrust.APIBase)
	}
	want := []PathMapping{{RemoteRoot: "/movies", LocalRoot: "/mnt/media/movies"}}
	if diff := cmp.Diff(want, cfg.Radarr.PathMappings); diff != "" {
		t.Errorf("Radarr.PathMappings mismatch (-want +got):\n%s", diff)
	}
	if cfg.Sonarr.OnlyCompleteSeasons {
		t.Error("Sonarr.OnlyCompleteSeasons = true, want false (overridden)")
	}
	// Untouched sections keep their defaults.
	if !cfg.Torrent.Private {
		t.Error("Torrent.Private = false, want default true")
	}
	if cfg.Naming.MultiTag != "MULTi.VF" {
		t.Errorf("Naming.MultiTag = %q, want default MULTi.VF", cfg.Naming.MultiTag)
	}
}

func TestLoadMissingExplicitPathFails(t *testing.T) {
	if _, _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Load(missing explicit path) = nil error, want error")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, `
[logs]
level = "warn"
`)
	t.Setenv(EnvConfigPath, path)

	cfg, resolved, err := Load("")
	if err != nil {
		t.Fatalf("Load with env override = %v", err)
	}
	if resolved != path {
		t.Errorf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.Logs.Level != "warn" {
		t.Errorf("Logs.Level = %q, want warn", cfg.Logs.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "Defaults",
			mutate: func(c *Config) {},
		},
		{
			name: "RadarrWithoutKey",
			mutate: func(c *Config) {
				c.Radarr.BaseURL = "http://radarr:7878"
			},
			wantErr: true,
		},
		{
			name: "SonarrWithoutKey",
			mutate: func(c *Config) {
				c.Sonarr.BaseURL = "http://sonarr:8989"
			},
			wantErr: true,
		},
		{
			name: "TorrustEnabledWithoutBase",
			mutate: func(c *Config) {
				c.Upload.Torrust.Enable = true
				c.Upload.Torrust.APIKey = "k"
			},
			wantErr: true,
		},
		{
			name: "TorrustEnabledComplete",
			mutate: func(c *Config) {
				c.Upload.Torrust.Enable = true
				c.Upload.Torrust.APIBase = "http://torrust:3001"
				c.Upload.Torrust.APIKey = "k"
			},
		},
		{
			name: "NegativeRetention",
			mutate: func(c *Config) {
				c.Journal.RetentionDays = -1
			},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr = %t", err, tc.wantErr)
			}
		})
	}
}

func TestDefaultPackagingOptions(t *testing.T) {
	cfg := Default()
	if !cfg.Sonarr.OnlyCompleteSeasons {
		t.Error("OnlyCompleteSeasons default = false, want true")
	}
	if !cfg.Sonarr.PerEpisodeForIncompleteSeasons {
		t.Error("PerEpisodeForIncompleteSeasons default = false, want true")
	}
	if cfg.Sonarr.CreateIntegralePackIfComplete {
		t.Error("CreateIntegralePackIfComplete default = true, want false")
	}
}
