// Package config loads the TOML configuration that drives a scenesmith run.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// EnvConfigPath overrides the configuration file location when set.
const EnvConfigPath = "SCENESMITH_CONFIG"

// Logs contains configuration for log output.
type Logs struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "console" or "json"
}

// Media contains configuration for naming and export behaviour.
type Media struct {
	// UseOriginalTitle always prefers the library manager's original
	// title over the local one.
	UseOriginalTitle bool `toml:"use_original_title"`
	// TitleStrategy overrides UseOriginalTitle when set: "always_local"
	// or "original_if_english".
	TitleStrategy string `toml:"title_strategy"`
	// EnableMediainfoCache writes a probe sidecar next to each media file.
	EnableMediainfoCache bool `toml:"enable_mediainfo_cache"`
	// SeedPath is the root directory for exported seed layouts. Empty
	// disables export, torrent creation and upload.
	SeedPath string `toml:"seed_path"`
	// AppendNoTagOnMissingGroup appends "-NoTag" to rebuilt names whose
	// release group is unknown.
	AppendNoTagOnMissingGroup bool `toml:"append_no_tag_on_missing_group"`
}

// PathMapping translates one library-manager path prefix to a local prefix.
type PathMapping struct {
	RemoteRoot string `toml:"remote_root"`
	LocalRoot  string `toml:"local_root"`
}

// Radarr contains connection settings for the movie library manager.
type Radarr struct {
	BaseURL      string        `toml:"base_url"`
	APIKey       string        `toml:"api_key"`
	PathMappings []PathMapping `toml:"path_mappings"`
}

// Sonarr contains connection and packaging settings for the series
// library manager.
type Sonarr struct {
	BaseURL      string        `toml:"base_url"`
	APIKey       string        `toml:"api_key"`
	PathMappings []PathMapping `toml:"path_mappings"`

	OnlyCompleteSeasons            bool `toml:"only_complete_seasons"`
	CreateIntegralePackIfComplete  bool `toml:"create_integrale_pack_if_complete"`
	PerEpisodeForIncompleteSeasons bool `toml:"per_episode_for_incomplete_seasons"`
}

// Torrent contains settings for torrent file creation.
type Torrent struct {
	AnnounceURL string `toml:"announce_url"`
	Private     bool   `toml:"private"`
	// OutputDir receives .torrent files; empty means the seed scene dir.
	OutputDir string `toml:"output_dir"`
	// DryRun only exports seed layouts and skips torrent creation.
	DryRun bool `toml:"dry_run"`
}

// Torrust contains settings for one Torrust tracker endpoint.
type Torrust struct {
	Enable         bool     `toml:"enable"`
	APIBase        string   `toml:"api_base"`
	APIKey         string   `toml:"api_key"`
	MoviesCategory string   `toml:"movies_category"`
	TVCategory     string   `toml:"tv_category"`
	Tags           []string `toml:"tags"`
}

// Upload contains tracker upload settings.
type Upload struct {
	DryRun  bool    `toml:"dry_run"`
	Torrust Torrust `toml:"torrust"`
}

// Naming overrides the language tag vocabulary.
type Naming struct {
	MultiTag   string `toml:"multi_tag"`
	FrenchTag  string `toml:"french_tag"`
	EnglishTag string `toml:"english_tag"`
}

// Journal contains settings for per-run session records.
type Journal struct {
	Enabled       bool   `toml:"enabled"`
	Dir           string `toml:"dir"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for scenesmith.
type Config struct {
	// TestMode caps processed items to a small sample per library.
	TestMode bool `toml:"test_mode"`

	Logs    Logs    `toml:"logs"`
	Media   Media   `toml:"media"`
	Radarr  Radarr  `toml:"radarr"`
	Sonarr  Sonarr  `toml:"sonarr"`
	Torrent Torrent `toml:"torrent"`
	Upload  Upload  `toml:"upload"`
	Naming  Naming  `toml:"naming"`
	Journal Journal `toml:"journal"`
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Logs: Logs{
			Level:  "info",
			Format: "console",
		},
		Sonarr: Sonarr{
			OnlyCompleteSeasons:            true,
			PerEpisodeForIncompleteSeasons: true,
		},
		Torrent: Torrent{
			Private: true,
		},
		Upload: Upload{
			Torrust: Torrust{
				MoviesCategory: "movies",
				TVCategory:     "tv",
			},
		},
		Naming: Naming{
			MultiTag:   "MULTi.VF",
			FrenchTag:  "VF",
			EnglishTag: "VOSTFR",
		},
		Journal: Journal{
			Enabled:       true,
			Dir:           "~/.local/share/scenesmith/journal",
			RetentionDays: 30,
		},
	}
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/scenesmith/config.toml")
}

// Load locates and parses the configuration file. An explicit path takes
// precedence over the SCENESMITH_CONFIG environment variable, which takes
// precedence over the default location. A missing default file yields the
// repository defaults; a missing explicit file is an error.
func Load(path string) (*Config, string, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	return &cfg, resolvedPath, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", false, fmt.Errorf("config file %s does not exist", expanded)
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	for _, p := range []*string{&c.Media.SeedPath, &c.Torrent.OutputDir, &c.Journal.Dir} {
		if *p == "" {
			continue
		}
		expanded, err := expandPath(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	c.Radarr.BaseURL = strings.TrimRight(c.Radarr.BaseURL, "/")
	c.Sonarr.BaseURL = strings.TrimRight(c.Sonarr.BaseURL, "/")
	c.Upload.Torrust.APIBase = strings.TrimRight(c.Upload.Torrust.APIBase, "/")
	return nil
}

// Validate reports configuration combinations that cannot work.
func (c *Config) Validate() error {
	if c.Radarr.BaseURL != "" && c.Radarr.APIKey == "" {
		return errors.New("radarr.base_url is set but radarr.api_key is empty")
	}
	if c.Sonarr.BaseURL != "" && c.Sonarr.APIKey == "" {
		return errors.New("sonarr.base_url is set but sonarr.api_key is empty")
	}
	if c.Upload.Torrust.Enable {
		if c.Upload.Torrust.APIBase == "" {
			return errors.New("upload.torrust.enable is set but upload.torrust.api_base is empty")
		}
		if c.Upload.Torrust.APIKey == "" {
			return errors.New("upload.torrust.enable is set but upload.torrust.api_key is empty")
		}
	}
	switch c.Media.TitleStrategy {
	case "", "always_local", "original_if_english":
	default:
		return fmt.Errorf("media.title_strategy %q is not supported", c.Media.TitleStrategy)
	}
	if c.Journal.RetentionDays < 0 {
		return errors.New("journal.retention_days must not be negative")
	}
	return nil
}

func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if path == "~" {
			return home, nil
		}
		return filepath.Join(home, path[2:]), nil
	}
	return filepath.Abs(path)
}
