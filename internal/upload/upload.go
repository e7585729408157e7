// Package upload publishes created torrents to configured trackers.
package upload

import (
	"context"

	"github.com/scenesmith/scenesmith/internal/config"
	"github.com/scenesmith/scenesmith/internal/log"
	"github.com/scenesmith/scenesmith/internal/naming"
)

// ContentKind selects the tracker category for an upload.
type ContentKind int

const (
	KindMovie ContentKind = iota
	KindTV
)

// Request is one torrent to publish.
type Request struct {
	Title               string
	DescriptionMarkdown string
	TorrentPath         string
	Kind                ContentKind
}

// TrackerUploader publishes one torrent to one tracker.
type TrackerUploader interface {
	UploadTorrent(ctx context.Context, req Request) error
}

// Service fans an upload out to every configured tracker.
type Service struct {
	enabled   bool
	dryRun    bool
	uploaders []TrackerUploader
}

// Disabled returns a service that ignores every upload.
func Disabled() *Service {
	return &Service{}
}

// FromConfig builds the service from the upload configuration section.
func FromConfig(cfg config.Upload) *Service {
	var uploaders []TrackerUploader
	if cfg.Torrust.Enable {
		uploaders = append(uploaders, NewTorrust(cfg.Torrust))
	}
	return &Service{
		enabled:   len(uploaders) > 0,
		dryRun:    cfg.DryRun,
		uploaders: uploaders,
	}
}

// Enabled reports whether uploads will actually be sent.
func (s *Service) Enabled() bool {
	return s.enabled && !s.dryRun
}

// UploadMovieTorrent publishes a movie torrent with a rendered description.
func (s *Service) UploadMovieTorrent(ctx context.Context, title string, year int, coverURL, overview, sceneName string, tech naming.TechnicalInfo, torrentPath string) error {
	md := BuildMarkdown(title, year, coverURL, overview, sceneName, tech)
	return s.upload(ctx, Request{
		Title:               sceneName,
		DescriptionMarkdown: md,
		TorrentPath:         torrentPath,
		Kind:                KindMovie,
	})
}

// UploadEpisodeTorrent publishes a series unit torrent. The heading names
// the unit, e.g. "S03 Complete", "Integrale" or an episode tag with title.
func (s *Service) UploadEpisodeTorrent(ctx context.Context, seriesTitle, heading, coverURL, overview, sceneName string, tech naming.TechnicalInfo, torrentPath string) error {
	md := BuildSeriesMarkdown(seriesTitle, heading, coverURL, overview, sceneName, tech)
	return s.upload(ctx, Request{
		Title:               sceneName,
		DescriptionMarkdown: md,
		TorrentPath:         torrentPath,
		Kind:                KindTV,
	})
}

func (s *Service) upload(ctx context.Context, req Request) error {
	if !s.enabled {
		return nil
	}
	logger := log.WithComponent("upload")
	if s.dryRun {
		logger.Info().Str("title", req.Title).Msg("upload dry-run enabled, skipping")
		return nil
	}

	var lastErr error
	for _, uploader := range s.uploaders {
		if err := uploader.UploadTorrent(ctx, req); err != nil {
			logger.Error().Err(err).Str("title", req.Title).Msg("uploader failed")
			lastErr = err
		}
	}
	return lastErr
}
