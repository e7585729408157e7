// Package packaging decides how the files of one serialized work are
// grouped into emitted release units: season packs, an optional
// whole-series pack, and per-episode residuals. All state is derived fresh
// per run and discarded afterward.
package packaging

import "sort"

// EpisodeRecord is one episode of the work as reported by the library
// manager.
type EpisodeRecord struct {
	ID             int64
	SeasonNumber   int
	EpisodeNumber  int
	AbsoluteNumber int // 0 when the series has no absolute numbering
	Monitored      bool
	HasFile        bool
	Title          string
	Overview       string
}

// FileRecord is one episode file as reported by the library manager. A
// single file may cover several episodes.
type FileRecord struct {
	ID           int64
	Path         string
	SeasonNumber int // 0 when the manager did not attach one
	SceneName    string
	ReleaseGroup string
	Quality      string
	EpisodeIDs   []int64
}

// PathResolver translates a library-manager path into a local path.
// The second return is false when no mapping applies; such files are
// excluded from packaging but still counted.
type PathResolver func(path string) (string, bool)

// Options controls pack eligibility and fallback emission.
type Options struct {
	// OnlyCompleteSeasons restricts season packs to complete seasons.
	// When false, every season with episodes is pack-eligible.
	OnlyCompleteSeasons bool
	// SeriesPackIfComplete additionally emits one whole-series pack when
	// every season is complete.
	SeriesPackIfComplete bool
	// PerEpisodeFallback emits one unit per file for incomplete seasons
	// that did not get a season pack.
	PerEpisodeFallback bool
}

// SeasonPack is one emitted season unit with its aggregated hints.
type SeasonPack struct {
	Season int
	// LocalPaths are the deduplicated, sorted local paths of every file
	// mapped to exactly this season.
	LocalPaths []string
	// Quality is the first non-empty quality string encountered.
	Quality string
	// ReleaseGroup is set only when every contributing file agreed.
	ReleaseGroup string
}

// SeriesPack is the optional whole-series unit, aggregated over all
// locally resolvable files regardless of season ambiguity.
type SeriesPack struct {
	LocalPaths   []string
	Quality      string
	ReleaseGroup string
}

// EpisodeItem is one per-file residual unit for an incomplete season.
type EpisodeItem struct {
	Season    int
	File      FileRecord
	LocalPath string
}

// Plan is the complete packaging decision for one work.
type Plan struct {
	SeasonPacks []SeasonPack
	SeriesPack  *SeriesPack
	Episodes    []EpisodeItem

	CompleteSeasons   []int
	IncompleteSeasons []int
	SeriesComplete    bool

	// UnmappedFiles counts files skipped because no path mapping matched.
	UnmappedFiles int
	// MultiSeasonFiles counts files spanning more than one season; they
	// are excluded from season packs but kept in the series aggregate.
	MultiSeasonFiles int
}

// Classify partitions episodes by season, computes completeness, maps
// files to seasons and produces the emission plan. Pack units always
// precede per-episode residuals for the same season, and no season is
// emitted both ways.
func Classify(episodes []EpisodeRecord, files []FileRecord, resolve PathResolver, opts Options) Plan {
	if resolve == nil {
		resolve = func(p string) (string, bool) { return p, true }
	}

	episodeByID := make(map[int64]EpisodeRecord, len(episodes))
	episodesBySeason := make(map[int][]int64)
	for _, ep := range episodes {
		episodeByID[ep.ID] = ep
		// Season 0 holds specials; recorded but never pack-eligible.
		if ep.SeasonNumber > 0 {
			episodesBySeason[ep.SeasonNumber] = append(episodesBySeason[ep.SeasonNumber], ep.ID)
		}
	}

	plan := Plan{}

	seasonFiles := make(map[int][]mappedFile)
	var allMapped []mappedFile

	for _, f := range files {
		local, ok := resolve(f.Path)
		if !ok {
			plan.UnmappedFiles++
			continue
		}

		seasons := fileSeasons(f, episodeByID)
		if len(seasons) == 1 {
			seasonFiles[seasons[0]] = append(seasonFiles[seasons[0]], mappedFile{file: f, localPath: local})
		} else if len(seasons) > 1 {
			plan.MultiSeasonFiles++
		}
		allMapped = append(allMapped, mappedFile{file: f, localPath: local})
	}

	complete := make(map[int]bool)
	for season, ids := range episodesBySeason {
		if len(ids) == 0 {
			continue
		}
		isComplete := true
		for _, id := range ids {
			ep, ok := episodeByID[id]
			if !ok || (ep.Monitored && !ep.HasFile) {
				isComplete = false
				break
			}
		}
		complete[season] = isComplete
		if isComplete {
			plan.CompleteSeasons = append(plan.CompleteSeasons, season)
		} else {
			plan.IncompleteSeasons = append(plan.IncompleteSeasons, season)
		}
	}
	sort.Ints(plan.CompleteSeasons)
	sort.Ints(plan.IncompleteSeasons)
	plan.SeriesComplete = len(episodesBySeason) > 0 && len(plan.IncompleteSeasons) == 0

	packSeasons := make(map[int]bool)
	for _, s := range plan.CompleteSeasons {
		packSeasons[s] = true
	}
	if !opts.OnlyCompleteSeasons {
		for _, s := range plan.IncompleteSeasons {
			packSeasons[s] = true
		}
	}

	for _, season := range sortedKeys(packSeasons) {
		mapped := seasonFiles[season]
		if len(mapped) == 0 {
			continue
		}
		pack := SeasonPack{Season: season}
		pack.LocalPaths, pack.Quality, pack.ReleaseGroup = aggregate(mapped)
		plan.SeasonPacks = append(plan.SeasonPacks, pack)
	}

	if opts.SeriesPackIfComplete && plan.SeriesComplete && len(allMapped) > 0 {
		sp := &SeriesPack{}
		sp.LocalPaths, sp.Quality, sp.ReleaseGroup = aggregate(allMapped)
		plan.SeriesPack = sp
	}

	if opts.PerEpisodeFallback {
		for _, season := range plan.IncompleteSeasons {
			if packSeasons[season] {
				continue // already covered by a season pack
			}
			seen := make(map[string]bool)
			for _, m := range seasonFiles[season] {
				if len(m.file.EpisodeIDs) == 0 {
					continue
				}
				if seen[m.localPath] {
					continue
				}
				seen[m.localPath] = true
				plan.Episodes = append(plan.Episodes, EpisodeItem{
					Season:    season,
					File:      m.file,
					LocalPath: m.localPath,
				})
			}
		}
	}

	return plan
}

// EpisodeHintNumbers collects the season, episode and absolute numbers of
// every episode a file covers, for episode-level name synthesis.
func EpisodeHintNumbers(f FileRecord, episodes []EpisodeRecord) (season int, episodeNums, absoluteNums []int) {
	byID := make(map[int64]EpisodeRecord, len(episodes))
	for _, ep := range episodes {
		byID[ep.ID] = ep
	}
	for _, id := range f.EpisodeIDs {
		ep, ok := byID[id]
		if !ok {
			continue
		}
		if season == 0 {
			season = ep.SeasonNumber
		}
		episodeNums = append(episodeNums, ep.EpisodeNumber)
		if ep.AbsoluteNumber > 0 {
			absoluteNums = append(absoluteNums, ep.AbsoluteNumber)
		}
	}
	return season, episodeNums, absoluteNums
}

// fileSeasons determines which seasons a file belongs to, preferring the
// manager's explicit season number over inference from episode IDs.
func fileSeasons(f FileRecord, episodeByID map[int64]EpisodeRecord) []int {
	set := make(map[int]bool)
	if f.SeasonNumber > 0 {
		set[f.SeasonNumber] = true
	}
	for _, id := range f.EpisodeIDs {
		if ep, ok := episodeByID[id]; ok && ep.SeasonNumber > 0 {
			set[ep.SeasonNumber] = true
		}
	}
	return sortedKeys(set)
}

type mappedFile struct {
	file      FileRecord
	localPath string
}

func aggregate(mapped []mappedFile) (paths []string, quality, releaseGroup string) {
	pathSet := make(map[string]bool)
	groups := make(map[string]bool)
	for _, m := range mapped {
		pathSet[m.localPath] = true
		if quality == "" && m.file.Quality != "" {
			quality = m.file.Quality
		}
		if m.file.ReleaseGroup != "" {
			groups[m.file.ReleaseGroup] = true
		}
	}

	paths = make([]string, 0, len(pathSet))
	for p := range pathSet {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	if len(groups) == 1 {
		for g := range groups {
			releaseGroup = g
		}
	}
	return paths, quality, releaseGroup
}

func sortedKeys(set map[int]bool) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
