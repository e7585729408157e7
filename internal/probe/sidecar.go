package probe

import (
	"encoding/json"
	"os"

	"github.com/scenesmith/scenesmith/internal/naming"
)

const sidecarSuffix = ".mediainfo.json"

func sidecarPath(mediaPath string) string {
	return mediaPath + sidecarSuffix
}

// readSidecar loads a cached probe result if it is at least as fresh as
// the media file itself.
func readSidecar(mediaPath string) (naming.TechnicalInfo, bool) {
	var info naming.TechnicalInfo

	mediaStat, err := os.Stat(mediaPath)
	if err != nil {
		return info, false
	}
	scPath := sidecarPath(mediaPath)
	scStat, err := os.Stat(scPath)
	if err != nil || scStat.ModTime().Before(mediaStat.ModTime()) {
		return info, false
	}

	data, err := os.ReadFile(scPath)
	if err != nil {
		return info, false
	}
	if err := json.Unmarshal(data, &info); err != nil {
		return info, false
	}
	return info, true
}

func writeSidecar(mediaPath string, info naming.TechnicalInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(sidecarPath(mediaPath), data, 0o644)
}
