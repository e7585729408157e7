// Package probe extracts technical metadata from media files with ffprobe
// and maps it into the fields the name builder consumes.
package probe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"gopkg.in/vansante/go-ffprobe.v2"

	"github.com/scenesmith/scenesmith/internal/log"
	"github.com/scenesmith/scenesmith/internal/naming"
)

// probeFunc defines the function signature used to execute ffprobe.
type probeFunc func(ctx context.Context, path string, extraOpts ...string) (*ffprobe.ProbeData, error)

// Service collects technical info with an in-process TTL cache and an
// optional JSON sidecar written next to each media file.
type Service struct {
	probe         probeFunc
	cache         *cache.Cache
	sidecarEnable bool
}

// New creates a probe service. When sidecar is true, probe results are
// persisted next to the media file and reused while fresh.
func New(sidecar bool) *Service {
	return &Service{
		probe:         ffprobe.ProbeURL,
		cache:         cache.New(30*time.Minute, 10*time.Minute),
		sidecarEnable: sidecar,
	}
}

// Collect returns the technical info for a media file. Probe failures
// degrade to an empty TechnicalInfo so naming can still proceed from the
// library manager's quality hints.
func (s *Service) Collect(ctx context.Context, path string) naming.TechnicalInfo {
	if cached, found := s.cache.Get(path); found {
		return cached.(naming.TechnicalInfo)
	}
	if s.sidecarEnable {
		if info, ok := readSidecar(path); ok {
			s.cache.SetDefault(path, info)
			return info
		}
	}

	logger := log.WithComponent("probe")

	data, err := s.probe(ctx, path)
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("ffprobe failed")
		return naming.TechnicalInfo{}
	}

	info := mapProbeData(data)
	s.cache.SetDefault(path, info)
	if s.sidecarEnable {
		if err := writeSidecar(path, info); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("sidecar write failed")
		}
	}

	logger.Debug().
		Str("path", path).
		Str("resolution", info.Resolution).
		Str("video_codec", info.VideoCodec).
		Bool("hdr", info.HDR).
		Bool("dv", info.DV).
		Strs("audio_languages", info.AudioLanguages).
		Msg("collected technical info")
	return info
}

func mapProbeData(data *ffprobe.ProbeData) naming.TechnicalInfo {
	var info naming.TechnicalInfo
	if data == nil {
		return info
	}

	if data.Format != nil && data.Format.FormatName != "" {
		// ffprobe reports demuxer aliases like "matroska,webm".
		info.Container = strings.SplitN(data.Format.FormatName, ",", 2)[0]
	}

	if v := data.FirstVideoStream(); v != nil {
		info.Resolution = resolutionClass(v.Width, v.Height)
		info.VideoCodec = mapVideoCodec(v.CodecName)
		if is10Bit(v) {
			info.BitDepth = "10bit"
		}
		switch v.ColorTransfer {
		case "smpte2084", "arib-std-b67":
			info.HDR = true
		}
		if v.ColorPrimaries == "bt2020" {
			info.HDR = true
		}
		switch v.CodecTagString {
		case "dvh1", "dvhe":
			info.DV = true
			info.HDR = true
		}
	}

	for _, stream := range data.StreamType(ffprobe.StreamAudio) {
		if info.AudioCodec == "" {
			info.AudioCodec = mapAudioCodec(stream.CodecName)
		}
		if info.AudioChannels == "" {
			info.AudioChannels = mapChannels(stream.Channels)
		}
		if lang := normalizeLanguage(stream.Tags.Language); lang != "" {
			info.AddAudioLanguage(lang)
		}
		if strings.Contains(strings.ToUpper(stream.Tags.Title), "VFI") {
			info.HasAlternateDub = true
		}
	}

	for _, stream := range data.StreamType(ffprobe.StreamSubtitle) {
		if lang := normalizeLanguage(stream.Tags.Language); lang != "" {
			info.AddSubtitleLanguage(lang)
		}
	}

	return info
}

// resolutionClass buckets pixel dimensions into release resolution
// classes. Width is preferred because letterboxed encodes shrink height.
func resolutionClass(width, height int) string {
	switch {
	case width >= 3800:
		return "2160p"
	case width >= 2500:
		return "1440p"
	case width >= 1900:
		return "1080p"
	case width >= 1200:
		return "720p"
	case width > 0:
		return "480p"
	}
	switch {
	case height >= 2160:
		return "2160p"
	case height >= 1440:
		return "1440p"
	case height >= 1080:
		return "1080p"
	case height >= 720:
		return "720p"
	case height > 0:
		return "480p"
	}
	return ""
}

func mapVideoCodec(codec string) string {
	c := strings.ToLower(codec)
	switch {
	case strings.Contains(c, "hevc"), strings.Contains(c, "265"):
		return "x265"
	case strings.Contains(c, "avc"), strings.Contains(c, "264"):
		return "x264"
	}
	return codec
}

func mapAudioCodec(codec string) string {
	c := strings.ToLower(codec)
	switch {
	case strings.Contains(c, "eac3"), strings.Contains(c, "e-ac-3"):
		return "EAC3"
	case strings.Contains(c, "ac3"), strings.Contains(c, "ac-3"):
		return "AC3"
	case strings.Contains(c, "truehd"):
		return "TrueHD"
	case strings.Contains(c, "dts"):
		return "DTS"
	case strings.Contains(c, "aac"):
		return "AAC"
	case strings.Contains(c, "mp3"), strings.Contains(c, "mpeg"):
		return "MPEG"
	case c == "":
		return ""
	}
	return strings.ToUpper(codec)
}

func mapChannels(channels int) string {
	switch channels {
	case 8:
		return "7.1"
	case 7:
		return "6.1"
	case 6:
		return "5.1"
	case 2:
		return "2.0"
	}
	return ""
}

func normalizeLanguage(lang string) string {
	l := strings.ToLower(strings.TrimSpace(lang))
	switch {
	case l == "", l == "und":
		return ""
	case strings.HasPrefix(l, "fr"):
		return "fr"
	case strings.HasPrefix(l, "en"):
		return "en"
	}
	return l
}

func is10Bit(v *ffprobe.Stream) bool {
	if v.BitsPerRawSample == "10" || v.BitsPerRawSample == "12" {
		return true
	}
	pf := strings.ToLower(v.PixFmt)
	return strings.Contains(pf, "10le") || strings.Contains(pf, "10be") || strings.Contains(pf, "12le")
}

// NFOText renders a human-readable technical summary for sidecar export.
func NFOText(name string, info naming.TechnicalInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Release    : %s\n", name)
	writeField(&b, "Container", info.Container)
	writeField(&b, "Resolution", info.Resolution)
	writeField(&b, "Video", info.VideoCodec)
	writeField(&b, "Bit depth", info.BitDepth)
	if info.HDR {
		writeField(&b, "HDR", "yes")
	}
	if info.DV {
		writeField(&b, "Dolby Vision", "yes")
	}
	writeField(&b, "Audio", info.AudioCodec)
	writeField(&b, "Channels", info.AudioChannels)
	writeField(&b, "Audio langs", strings.Join(info.AudioLanguages, ", "))
	writeField(&b, "Subtitles", strings.Join(info.SubtitleLanguages, ", "))
	return b.String()
}

func writeField(b *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "%-11s: %s\n", key, value)
}
