package upload

import (
	"fmt"
	"strings"

	"github.com/scenesmith/scenesmith/internal/naming"
)

// BuildMarkdown renders the tracker description for a movie release.
func BuildMarkdown(title string, year int, coverURL, overview, sceneName string, tech naming.TechnicalInfo) string {
	var b strings.Builder
	if coverURL != "" {
		fmt.Fprintf(&b, "![cover](%s)\n\n", coverURL)
	}
	if year > 0 {
		fmt.Fprintf(&b, "# %s (%d)\n\n", title, year)
	} else {
		fmt.Fprintf(&b, "# %s\n\n", title)
	}
	if overview != "" {
		b.WriteString(overview)
		b.WriteString("\n\n")
	}
	writeTechnicalSection(&b, sceneName, tech)
	return b.String()
}

// BuildSeriesMarkdown renders the tracker description for a series unit.
func BuildSeriesMarkdown(seriesTitle, heading, coverURL, overview, sceneName string, tech naming.TechnicalInfo) string {
	var b strings.Builder
	if coverURL != "" {
		fmt.Fprintf(&b, "![cover](%s)\n\n", coverURL)
	}
	fmt.Fprintf(&b, "# %s\n\n## %s\n\n", seriesTitle, heading)
	if overview != "" {
		b.WriteString(overview)
		b.WriteString("\n\n")
	}
	writeTechnicalSection(&b, sceneName, tech)
	return b.String()
}

func writeTechnicalSection(b *strings.Builder, sceneName string, tech naming.TechnicalInfo) {
	fmt.Fprintf(b, "**Release**: `%s`\n\n", sceneName)
	b.WriteString("| | |\n|---|---|\n")
	writeRow(b, "Resolution", tech.Resolution)
	writeRow(b, "Video", tech.VideoCodec)
	writeRow(b, "Bit depth", tech.BitDepth)
	if tech.HDR {
		writeRow(b, "HDR", "yes")
	}
	if tech.DV {
		writeRow(b, "Dolby Vision", "yes")
	}
	writeRow(b, "Audio", tech.AudioCodec)
	writeRow(b, "Channels", tech.AudioChannels)
	writeRow(b, "Audio languages", strings.Join(tech.AudioLanguages, ", "))
	writeRow(b, "Subtitles", strings.Join(tech.SubtitleLanguages, ", "))
}

func writeRow(b *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "| %s | %s |\n", key, value)
}
