package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/scenesmith/scenesmith/internal/log"
	"github.com/scenesmith/scenesmith/internal/naming"
	"github.com/scenesmith/scenesmith/internal/packaging"
	"github.com/scenesmith/scenesmith/internal/pathmap"
	"github.com/scenesmith/scenesmith/internal/sonarr"
	"github.com/scenesmith/scenesmith/internal/upload"
)

// RunSeries processes the whole Sonarr library: season packs, the
// optional whole-series pack and per-episode residuals.
func (p *Pipeline) RunSeries(ctx context.Context) ([]Result, error) {
	if p.cfg.Sonarr.BaseURL == "" {
		logger := log.WithComponent("series")
		logger.Info().Msg("sonarr not configured, skipping series pipeline")
		return nil, nil
	}

	client := sonarr.New(p.cfg.Sonarr.BaseURL, p.cfg.Sonarr.APIKey)
	seriesList, err := client.ListSeries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	logger := log.WithComponent("series")
	logger.Info().Int("count", len(seriesList)).Msg("fetched series from sonarr")

	if p.cfg.TestMode && len(seriesList) > testModeSeriesLimit {
		seriesList = seriesList[:testModeSeriesLimit]
	}

	mapper := pathmap.New(p.cfg.Sonarr.PathMappings)

	var results []Result
	for _, series := range seriesList {
		seriesResults, err := p.processSeries(ctx, client, series, mapper)
		if err != nil {
			return results, err
		}
		results = append(results, seriesResults...)
	}
	return results, nil
}

func (p *Pipeline) processSeries(ctx context.Context, client *sonarr.Client, series sonarr.SeriesResource, mapper *pathmap.Mapper) ([]Result, error) {
	logger := log.WithComponent("series")
	logger.Info().Str("title", series.Title).Int64("id", series.ID).Msg("processing series")

	episodes, err := client.ListEpisodes(ctx, series.ID)
	if err != nil {
		return nil, fmt.Errorf("list episodes for %s: %w", series.Title, err)
	}
	files, err := client.ListEpisodeFiles(ctx, series.ID)
	if err != nil {
		return nil, fmt.Errorf("list episode files for %s: %w", series.Title, err)
	}

	records := episodeRecords(episodes)
	fileRecords := episodeFileRecords(files)

	plan := packaging.Classify(records, fileRecords, mapper.Resolver(), packaging.Options{
		OnlyCompleteSeasons:  p.cfg.Sonarr.OnlyCompleteSeasons,
		SeriesPackIfComplete: p.cfg.Sonarr.CreateIntegralePackIfComplete,
		PerEpisodeFallback:   p.cfg.Sonarr.PerEpisodeForIncompleteSeasons,
	})

	if plan.UnmappedFiles > 0 {
		logger.Warn().Int("count", plan.UnmappedFiles).Str("title", series.Title).
			Msg("episode files skipped: no path mapping matched")
	}
	if plan.MultiSeasonFiles > 0 {
		logger.Warn().Int("count", plan.MultiSeasonFiles).Str("title", series.Title).
			Msg("episode files span multiple seasons, excluded from season packs")
	}

	var results []Result
	for _, pack := range plan.SeasonPacks {
		results = append(results, p.processSeasonPack(ctx, series, pack))
	}
	if plan.SeriesPack != nil {
		results = append(results, p.processSeriesPack(ctx, series, *plan.SeriesPack))
	}
	for _, item := range plan.Episodes {
		results = append(results, p.processEpisodeItem(ctx, series, item, records))
	}
	return results, nil
}

func (p *Pipeline) processSeasonPack(ctx context.Context, series sonarr.SeriesResource, pack packaging.SeasonPack) Result {
	hints := naming.PackHints{
		Title:        series.Title,
		Year:         series.Year,
		PackTag:      fmt.Sprintf("S%02d", pack.Season),
		Quality:      pack.Quality,
		ReleaseGroup: pack.ReleaseGroup,
	}
	heading := fmt.Sprintf("S%02d Complete", pack.Season)
	return p.publishPack(ctx, series, hints, heading, pack.LocalPaths)
}

func (p *Pipeline) processSeriesPack(ctx context.Context, series sonarr.SeriesResource, pack packaging.SeriesPack) Result {
	hints := naming.PackHints{
		Title:        series.Title,
		Year:         series.Year,
		PackTag:      "INTEGRALE",
		Quality:      pack.Quality,
		ReleaseGroup: pack.ReleaseGroup,
	}
	return p.publishPack(ctx, series, hints, "Integrale", pack.LocalPaths)
}

func (p *Pipeline) publishPack(ctx context.Context, series sonarr.SeriesResource, hints naming.PackHints, heading string, localPaths []string) Result {
	// Pack technical info comes from the first file; members of one pack
	// share an encode in practice.
	tech := p.prober.Collect(ctx, localPaths[0])
	p.applyResolutionFallback(&tech, hints.Quality)

	decision := p.builder.ProposePackName("", hints, tech)
	finalName := p.finalName(decision.Name, hints.ReleaseGroup)

	logger := log.WithComponent("series")
	logger.Info().
		Str("title", series.Title).
		Str("unit", heading).
		Str("proposed", finalName).
		Int("files", len(localPaths)).
		Msg("pack name decided")

	p.publish(ctx, publishUnit{
		sceneName: finalName,
		srcVideos: localPaths,
		tech:      tech,
		kind:      upload.KindTV,
		uploadFn: func(torrentPath string) error {
			return p.uploads.UploadEpisodeTorrent(ctx, series.Title, heading,
				series.CoverURL(), series.Overview, finalName, tech, torrentPath)
		},
	})

	return Result{
		Title:    fmt.Sprintf("%s (%s)", series.Title, heading),
		Proposed: finalName,
		Reason:   decision.Reason,
	}
}

func (p *Pipeline) processEpisodeItem(ctx context.Context, series sonarr.SeriesResource, item packaging.EpisodeItem, records []packaging.EpisodeRecord) Result {
	season, episodeNums, absoluteNums := packaging.EpisodeHintNumbers(item.File, records)

	tech := p.prober.Collect(ctx, item.LocalPath)
	p.applyResolutionFallback(&tech, item.File.Quality)

	hints := naming.EpisodeHints{
		SeriesTitle:     series.Title,
		SeriesYear:      series.Year,
		SeasonNumber:    season,
		EpisodeNumbers:  episodeNums,
		AbsoluteNumbers: absoluteNums,
		Quality:         item.File.Quality,
		ReleaseGroup:    item.File.ReleaseGroup,
	}

	decision := p.builder.ProposeEpisodeName(item.File.SceneName, hints, tech)
	finalName := p.finalName(decision.Name, item.File.ReleaseGroup)

	title, overview := episodeTitleAndOverview(item.File, records)
	heading := episodeHeading(season, episodeNums, absoluteNums, title)

	logger := log.WithComponent("series")
	logger.Info().
		Str("title", series.Title).
		Str("unit", heading).
		Str("original", item.File.SceneName).
		Str("proposed", finalName).
		Msg("episode name decided")

	p.publish(ctx, publishUnit{
		sceneName: finalName,
		srcVideos: []string{item.LocalPath},
		tech:      tech,
		kind:      upload.KindTV,
		uploadFn: func(torrentPath string) error {
			return p.uploads.UploadEpisodeTorrent(ctx, series.Title, heading,
				series.CoverURL(), overview, finalName, tech, torrentPath)
		},
	})

	return Result{
		Title:     fmt.Sprintf("%s (%s)", series.Title, heading),
		Original:  item.File.SceneName,
		Proposed:  finalName,
		Reason:    decision.Reason,
		LocalPath: item.LocalPath,
	}
}

// episodeHeading renders the display name of one episode unit, e.g.
// "S03E01E02 - Title" or "E012" for absolute-numbered series.
func episodeHeading(season int, episodeNums, absoluteNums []int, title string) string {
	tag := naming.EpisodeTag(season, episodeNums, absoluteNums)
	title = strings.TrimSpace(title)
	switch {
	case tag == "":
		return title
	case title == "":
		return tag
	}
	return tag + " - " + title
}

func episodeTitleAndOverview(file packaging.FileRecord, records []packaging.EpisodeRecord) (string, string) {
	byID := make(map[int64]packaging.EpisodeRecord, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}
	for _, id := range file.EpisodeIDs {
		if r, ok := byID[id]; ok {
			return r.Title, r.Overview
		}
	}
	return "", ""
}

func episodeRecords(episodes []sonarr.EpisodeResource) []packaging.EpisodeRecord {
	records := make([]packaging.EpisodeRecord, 0, len(episodes))
	for _, ep := range episodes {
		records = append(records, packaging.EpisodeRecord{
			ID:             ep.ID,
			SeasonNumber:   ep.SeasonNumber,
			EpisodeNumber:  ep.EpisodeNumber,
			AbsoluteNumber: ep.AbsoluteEpisodeNumber,
			Monitored:      ep.Monitored,
			HasFile:        ep.HasFile,
			Title:          ep.Title,
			Overview:       ep.Overview,
		})
	}
	return records
}

func episodeFileRecords(files []sonarr.EpisodeFileResource) []packaging.FileRecord {
	records := make([]packaging.FileRecord, 0, len(files))
	for _, f := range files {
		records = append(records, packaging.FileRecord{
			ID:           f.ID,
			Path:         f.Path,
			SeasonNumber: f.SeasonNumber,
			SceneName:    f.SceneName,
			ReleaseGroup: f.ReleaseGroup,
			Quality:      f.QualityName(),
			EpisodeIDs:   f.EpisodeIDs,
		})
	}
	return records
}
