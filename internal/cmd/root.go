// Package cmd wires the scenesmith command line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scenesmith/scenesmith/internal/config"
	"github.com/scenesmith/scenesmith/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   "scenesmith",
	Short: "Synthesize canonical release names for a media library",
	Long: `scenesmith reads movie and series libraries from Radarr and Sonarr,
probes the media files with ffprobe, and rebuilds a canonical dot-grammar
release name for every release unit. Complete seasons become season packs
and a fully present series becomes an INTEGRALE pack.

With a seed path configured it also exports a symlink seed layout per
release, creates torrents with imdl and uploads them to a Torrust tracker.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	configPath string
	testMode   bool
	jsonLogs   bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&testMode, "test-mode", "t", false, "Process only a small sample of each library")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Emit JSON log lines instead of console output")
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

// loadConfig resolves the configuration honoring the global flags and
// configures the process logger from it.
func loadConfig() (*config.Config, error) {
	cfg, path, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if testMode {
		cfg.TestMode = true
	}

	log.Configure(log.Config{
		Level: cfg.Logs.Level,
		JSON:  jsonLogs || cfg.Logs.Format == "json",
	})
	logger := log.Base()
	logger.Debug().Str("config", path).Msg("configuration loaded")
	return cfg, nil
}
