package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/scenesmith/scenesmith/internal/journal"
	"github.com/scenesmith/scenesmith/internal/log"
	"github.com/scenesmith/scenesmith/internal/naming"
	"github.com/scenesmith/scenesmith/internal/pathmap"
	"github.com/scenesmith/scenesmith/internal/probe"
	"github.com/scenesmith/scenesmith/internal/radarr"
	"github.com/scenesmith/scenesmith/internal/upload"
)

// RunMovies processes the whole Radarr library and returns one result
// per movie with a file.
func (p *Pipeline) RunMovies(ctx context.Context) ([]Result, error) {
	if p.cfg.Radarr.BaseURL == "" {
		logger := log.WithComponent("movies")
		logger.Info().Msg("radarr not configured, skipping movie pipeline")
		return nil, nil
	}

	client := radarr.New(p.cfg.Radarr.BaseURL, p.cfg.Radarr.APIKey)
	movies, err := client.ListMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	logger := log.WithComponent("movies")
	logger.Info().Int("count", len(movies)).Msg("fetched movies from radarr")

	mapper := pathmap.New(p.cfg.Radarr.PathMappings)

	var results []Result
	processed := 0
	for _, movie := range movies {
		if movie.MovieFile == nil {
			continue
		}
		if p.cfg.TestMode && processed >= testModeMovieLimit {
			break
		}
		processed++
		results = append(results, p.processMovie(ctx, movie, mapper))
	}
	return results, nil
}

func (p *Pipeline) processMovie(ctx context.Context, movie radarr.MovieResource, mapper *pathmap.Mapper) Result {
	logger := log.WithComponent("movies")

	sceneName := movie.MovieFile.SceneName
	if sceneName == "" {
		sceneName = "Unknown"
	}
	title := p.chooseMovieTitle(movie)

	result := Result{Title: title, Original: sceneName}

	localPath, ok := p.translatePath(mapper, movie.MovieFile.Path)
	if !ok {
		logger.Warn().Str("path", movie.MovieFile.Path).Msg("no path mapping matched, skipping")
		result.Skipped = "unmapped path"
		return result
	}
	result.LocalPath = localPath

	quality := movie.QualityName()
	tech := p.prober.Collect(ctx, localPath)
	p.applyResolutionFallback(&tech, quality)

	hints := naming.MovieHints{
		Title:        title,
		Year:         movie.Year,
		Quality:      quality,
		ReleaseGroup: movie.MovieFile.ReleaseGroup,
	}

	validation := p.vocab.Validate(sceneName)
	decision := p.builder.ProposeMovieName(sceneName, hints, tech, &validation)
	finalName := p.finalName(decision.Name, movie.MovieFile.ReleaseGroup)

	result.Proposed = finalName
	result.Reason = decision.Reason
	result.Issues = decision.Issues

	logger.Info().
		Str("title", title).
		Str("original", sceneName).
		Str("proposed", finalName).
		Str("reason", string(decision.Reason)).
		Msg("movie name decided")

	p.publish(ctx, publishUnit{
		sceneName: finalName,
		srcVideos: []string{localPath},
		tech:      tech,
		kind:      upload.KindMovie,
		uploadFn: func(torrentPath string) error {
			return p.uploads.UploadMovieTorrent(ctx, title, movie.Year,
				movie.CoverURL(), movie.Overview, finalName, tech, torrentPath)
		},
	})
	return result
}

func (p *Pipeline) chooseMovieTitle(movie radarr.MovieResource) string {
	original := movie.OriginalTitle
	local := movie.Title
	if original == "" {
		original = local
	}

	switch p.cfg.Media.TitleStrategy {
	case "always_local":
		return local
	case "original_if_english":
		if movie.OriginalLanguage != nil {
			lang := strings.ToLower(movie.OriginalLanguage.Name)
			if strings.HasPrefix(lang, "en") || strings.Contains(lang, "english") {
				return original
			}
		}
		return local
	}
	if p.cfg.Media.UseOriginalTitle {
		return original
	}
	return local
}

func (p *Pipeline) translatePath(mapper *pathmap.Mapper, remotePath string) (string, bool) {
	return mapper.Translate(remotePath)
}

// publishUnit is one release unit ready for export.
type publishUnit struct {
	sceneName string
	srcVideos []string
	tech      naming.TechnicalInfo
	kind      upload.ContentKind
	uploadFn  func(torrentPath string) error
}

// publish exports the seed layout, creates the torrent and uploads it,
// recording each step. Without a configured seed path it does nothing.
func (p *Pipeline) publish(ctx context.Context, unit publishUnit) {
	if p.exporter == nil {
		return
	}
	logger := log.WithComponent("publish")

	nfo := probe.NFOText(unit.sceneName, unit.tech)
	var err error
	if len(unit.srcVideos) == 1 {
		err = p.exporter.ExportSingle(unit.sceneName, unit.srcVideos[0], nfo)
	} else {
		err = p.exporter.ExportPack(unit.sceneName, unit.srcVideos, nfo)
	}
	p.journal.Record(journal.OpExport, unit.sceneName, p.exporter.SeedDir(unit.sceneName), err)
	if err != nil {
		logger.Error().Err(err).Str("scene", unit.sceneName).Msg("seed export failed")
		return
	}

	if p.cfg.Torrent.DryRun {
		logger.Info().Str("scene", unit.sceneName).Msg("dry-run enabled, skipping torrent creation")
		return
	}

	torrentPath, err := p.torrents.CreateForSeedDir(ctx, p.exporter.SeedDir(unit.sceneName), unit.sceneName)
	p.journal.Record(journal.OpTorrent, unit.sceneName, torrentPath, err)
	if err != nil {
		logger.Error().Err(err).Str("scene", unit.sceneName).Msg("torrent creation failed")
		return
	}

	err = unit.uploadFn(torrentPath)
	p.journal.Record(journal.OpUpload, unit.sceneName, torrentPath, err)
	if err != nil {
		logger.Error().Err(err).Str("scene", unit.sceneName).Msg("upload failed")
	}
}
