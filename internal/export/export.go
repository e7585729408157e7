// Package export lays out seed directories: one directory per release
// unit under the seed root, holding relative symlinks to the source media
// plus an .nfo sidecar.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/scenesmith/scenesmith/internal/log"
)

// Exporter writes seed layouts under a fixed root directory.
type Exporter struct {
	seedRoot string
}

// New creates an Exporter rooted at seedRoot, creating it if needed.
func New(seedRoot string) (*Exporter, error) {
	info, err := os.Stat(seedRoot)
	switch {
	case err == nil && !info.IsDir():
		return nil, fmt.Errorf("seed path %s exists but is not a directory", seedRoot)
	case os.IsNotExist(err):
		if err := os.MkdirAll(seedRoot, 0o755); err != nil {
			return nil, fmt.Errorf("create seed path: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("stat seed path: %w", err)
	}
	return &Exporter{seedRoot: seedRoot}, nil
}

// SeedDir returns the directory an exported unit lives in.
func (e *Exporter) SeedDir(sceneName string) string {
	return filepath.Join(e.seedRoot, sceneName)
}

// ExportSingle lays out <root>/<scene>/<scene>.<ext> for one media file
// and writes the .nfo sidecar. A unit whose video link already exists is
// left untouched.
func (e *Exporter) ExportSingle(sceneName, srcVideo, nfoText string) error {
	seedDir := e.SeedDir(sceneName)
	if err := os.MkdirAll(seedDir, 0o755); err != nil {
		return fmt.Errorf("create seed dir: %w", err)
	}

	ext := strings.TrimPrefix(filepath.Ext(srcVideo), ".")
	if ext == "" {
		ext = "mkv"
	}
	destVideo := filepath.Join(seedDir, sceneName+"."+ext)
	if _, err := os.Lstat(destVideo); err == nil {
		logger := log.WithComponent("export")
		logger.Debug().Str("path", destVideo).Msg("seed export already exists")
		return nil
	}

	if err := linkRelative(seedDir, srcVideo, destVideo); err != nil {
		return fmt.Errorf("symlink video: %w", err)
	}

	return e.writeNFO(seedDir, sceneName, nfoText)
}

// ExportPack lays out one directory holding a relative symlink per source
// file, keeping original file names. Already-linked files are skipped.
func (e *Exporter) ExportPack(sceneName string, srcVideos []string, nfoText string) error {
	if len(srcVideos) == 0 {
		return fmt.Errorf("pack %s has no source files", sceneName)
	}
	seedDir := e.SeedDir(sceneName)
	if err := os.MkdirAll(seedDir, 0o755); err != nil {
		return fmt.Errorf("create seed dir: %w", err)
	}

	for _, src := range srcVideos {
		dest := filepath.Join(seedDir, filepath.Base(src))
		if _, err := os.Lstat(dest); err == nil {
			continue
		}
		if err := linkRelative(seedDir, src, dest); err != nil {
			return fmt.Errorf("symlink %s: %w", filepath.Base(src), err)
		}
	}

	return e.writeNFO(seedDir, sceneName, nfoText)
}

func (e *Exporter) writeNFO(seedDir, sceneName, nfoText string) error {
	if nfoText == "" {
		return nil
	}
	nfoPath := filepath.Join(seedDir, sceneName+".nfo")
	if _, err := os.Lstat(nfoPath); err == nil {
		return nil
	}
	if err := os.WriteFile(nfoPath, []byte(nfoText), 0o644); err != nil {
		return fmt.Errorf("write nfo: %w", err)
	}
	return nil
}

// linkRelative symlinks target into place, preferring a relative target
// so the seed tree survives mount point renames.
func linkRelative(fromDir, target, linkPath string) error {
	if filepath.IsAbs(fromDir) && filepath.IsAbs(target) {
		if rel, err := filepath.Rel(fromDir, target); err == nil {
			return os.Symlink(rel, linkPath)
		}
	}
	return os.Symlink(target, linkPath)
}
