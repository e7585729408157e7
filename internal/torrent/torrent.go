// Package torrent creates .torrent files for exported seed directories by
// shelling out to the intermodal CLI (imdl).
package torrent

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/scenesmith/scenesmith/internal/config"
	"github.com/scenesmith/scenesmith/internal/log"
)

// runFunc executes a command and returns its combined output.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRun(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Creator builds torrents according to the configured announce and
// privacy settings.
type Creator struct {
	announceURL string
	private     bool
	outputDir   string
	run         runFunc
}

// New creates a Creator from the torrent configuration section.
func New(cfg config.Torrent) *Creator {
	return &Creator{
		announceURL: cfg.AnnounceURL,
		private:     cfg.Private,
		outputDir:   cfg.OutputDir,
		run:         execRun,
	}
}

// CreateForSeedDir creates <output>/<scene>.torrent for a seed directory.
// An existing torrent file is reused without re-running imdl.
func (c *Creator) CreateForSeedDir(ctx context.Context, seedDir, sceneName string) (string, error) {
	outputRoot := c.outputDir
	if outputRoot == "" {
		outputRoot = seedDir
	}
	output := filepath.Join(outputRoot, sceneName+".torrent")

	logger := log.WithComponent("torrent")
	if _, err := os.Stat(output); err == nil {
		logger.Info().Str("path", output).Msg("torrent already exists, skipping")
		return output, nil
	}

	args := []string{"torrent", "create", "--follow-symlinks"}
	if c.private {
		args = append(args, "--private")
	}
	if c.announceURL != "" {
		args = append(args, "-a", c.announceURL)
	}
	args = append(args, "--output", output, seedDir)

	logger.Info().Str("path", output).Msg("creating torrent via intermodal")
	out, err := c.run(ctx, "imdl", args...)
	if err != nil {
		return "", fmt.Errorf("imdl torrent create for %s: %w (output: %s)", sceneName, err, out)
	}
	return output, nil
}
