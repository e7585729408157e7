package packaging

import (
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func seasonEpisodes(season, count int, firstID int64, hasFile bool) []EpisodeRecord {
	eps := make([]EpisodeRecord, 0, count)
	for i := 0; i < count; i++ {
		eps = append(eps, EpisodeRecord{
			ID:            firstID + int64(i),
			SeasonNumber:  season,
			EpisodeNumber: i + 1,
			Monitored:     true,
			HasFile:       hasFile,
		})
	}
	return eps
}

func seasonFiles(season, count int, firstID int64, group string) []FileRecord {
	files := make([]FileRecord, 0, count)
	for i := 0; i < count; i++ {
		files = append(files, FileRecord{
			ID:           firstID + int64(i),
			Path:         "/tv/show/s" + strconv.Itoa(season) + "e" + strconv.Itoa(i+1) + ".mkv",
			SeasonNumber: season,
			ReleaseGroup: group,
			Quality:      "WEBDL-1080p",
			EpisodeIDs:   []int64{firstID + int64(i)},
		})
	}
	return files
}

func TestClassifyCompleteSeasonPack(t *testing.T) {
	episodes := seasonEpisodes(1, 8, 100, true)
	files := seasonFiles(1, 8, 100, "GRP")

	plan := Classify(episodes, files, nil, Options{
		OnlyCompleteSeasons: true,
		PerEpisodeFallback:  true,
	})

	if diff := cmp.Diff([]int{1}, plan.CompleteSeasons); diff != "" {
		t.Errorf("CompleteSeasons mismatch (-want +got):\n%s", diff)
	}
	if len(plan.SeasonPacks) != 1 {
		t.Fatalf("SeasonPacks = %d, want 1", len(plan.SeasonPacks))
	}
	pack := plan.SeasonPacks[0]
	if pack.Season != 1 {
		t.Errorf("pack season = %d, want 1", pack.Season)
	}
	if len(pack.LocalPaths) != 8 {
		t.Errorf("pack paths = %d, want 8", len(pack.LocalPaths))
	}
	if pack.ReleaseGroup != "GRP" {
		t.Errorf("pack release group = %q, want GRP", pack.ReleaseGroup)
	}
	if pack.Quality != "WEBDL-1080p" {
		t.Errorf("pack quality = %q, want WEBDL-1080p", pack.Quality)
	}
	if len(plan.Episodes) != 0 {
		t.Errorf("Episodes = %d, want 0 (season already packed)", len(plan.Episodes))
	}
}

func TestClassifyIncompleteSeasonFallsBackPerEpisode(t *testing.T) {
	// Ten aired episodes, nine files on disk.
	episodes := seasonEpisodes(1, 10, 100, true)
	episodes[9].HasFile = false
	files := seasonFiles(1, 9, 100, "GRP")

	plan := Classify(episodes, files, nil, Options{
		OnlyCompleteSeasons: true,
		PerEpisodeFallback:  true,
	})

	if diff := cmp.Diff([]int{1}, plan.IncompleteSeasons); diff != "" {
		t.Errorf("IncompleteSeasons mismatch (-want +got):\n%s", diff)
	}
	if len(plan.SeasonPacks) != 0 {
		t.Errorf("SeasonPacks = %d, want 0", len(plan.SeasonPacks))
	}
	if len(plan.Episodes) != 9 {
		t.Errorf("Episodes = %d, want 9", len(plan.Episodes))
	}
	if plan.SeriesComplete {
		t.Error("SeriesComplete = true, want false")
	}
}

func TestClassifyUnmonitoredMissingEpisodeStillComplete(t *testing.T) {
	episodes := seasonEpisodes(1, 5, 100, true)
	episodes[4].HasFile = false
	episodes[4].Monitored = false
	files := seasonFiles(1, 4, 100, "GRP")

	plan := Classify(episodes, files, nil, Options{OnlyCompleteSeasons: true})

	if diff := cmp.Diff([]int{1}, plan.CompleteSeasons); diff != "" {
		t.Errorf("CompleteSeasons mismatch (-want +got):\n%s", diff)
	}
	if !plan.SeriesComplete {
		t.Error("SeriesComplete = false, want true")
	}
}

func TestClassifySeasonZeroExcluded(t *testing.T) {
	episodes := append(seasonEpisodes(1, 3, 100, true), EpisodeRecord{
		ID: 900, SeasonNumber: 0, EpisodeNumber: 1, Monitored: true, HasFile: false,
	})
	files := seasonFiles(1, 3, 100, "GRP")

	plan := Classify(episodes, files, nil, Options{OnlyCompleteSeasons: true})

	if diff := cmp.Diff([]int{1}, plan.CompleteSeasons); diff != "" {
		t.Errorf("CompleteSeasons mismatch (-want +got):\n%s", diff)
	}
	if !plan.SeriesComplete {
		t.Error("SeriesComplete = false, want true (specials ignored)")
	}
}

func TestClassifySeriesPackWhenComplete(t *testing.T) {
	episodes := append(seasonEpisodes(1, 3, 100, true), seasonEpisodes(2, 3, 200, true)...)
	files := append(seasonFiles(1, 3, 100, "GRP"), seasonFiles(2, 3, 200, "GRP")...)

	plan := Classify(episodes, files, nil, Options{
		OnlyCompleteSeasons:  true,
		SeriesPackIfComplete: true,
	})

	if plan.SeriesPack == nil {
		t.Fatal("SeriesPack = nil, want aggregate over both seasons")
	}
	if len(plan.SeriesPack.LocalPaths) != 6 {
		t.Errorf("SeriesPack paths = %d, want 6", len(plan.SeriesPack.LocalPaths))
	}
	if plan.SeriesPack.ReleaseGroup != "GRP" {
		t.Errorf("SeriesPack release group = %q, want GRP", plan.SeriesPack.ReleaseGroup)
	}
	if len(plan.SeasonPacks) != 2 {
		t.Errorf("SeasonPacks = %d, want 2", len(plan.SeasonPacks))
	}
}

func TestClassifyNoSeriesPackWhenIncomplete(t *testing.T) {
	episodes := append(seasonEpisodes(1, 3, 100, true), seasonEpisodes(2, 3, 200, false)...)
	files := seasonFiles(1, 3, 100, "GRP")

	plan := Classify(episodes, files, nil, Options{
		OnlyCompleteSeasons:  true,
		SeriesPackIfComplete: true,
	})

	if plan.SeriesPack != nil {
		t.Error("SeriesPack != nil, want nil for incomplete series")
	}
}

func TestClassifyDisagreeingGroupsDropReleaseGroup(t *testing.T) {
	episodes := seasonEpisodes(1, 2, 100, true)
	files := seasonFiles(1, 1, 100, "AAA")
	files = append(files, seasonFiles(1, 1, 101, "BBB")...)
	files[1].Path = "/tv/show/s1e2.mkv"

	plan := Classify(episodes, files, nil, Options{OnlyCompleteSeasons: true})

	if len(plan.SeasonPacks) != 1 {
		t.Fatalf("SeasonPacks = %d, want 1", len(plan.SeasonPacks))
	}
	if got := plan.SeasonPacks[0].ReleaseGroup; got != "" {
		t.Errorf("ReleaseGroup = %q, want empty on disagreement", got)
	}
}

func TestClassifyUnmappedFilesCounted(t *testing.T) {
	episodes := seasonEpisodes(1, 2, 100, true)
	files := seasonFiles(1, 2, 100, "GRP")

	resolve := func(p string) (string, bool) {
		if strings.HasSuffix(p, "e2.mkv") {
			return "", false
		}
		return "/mnt" + p, true
	}

	plan := Classify(episodes, files, resolve, Options{OnlyCompleteSeasons: true})

	if plan.UnmappedFiles != 1 {
		t.Errorf("UnmappedFiles = %d, want 1", plan.UnmappedFiles)
	}
	if len(plan.SeasonPacks) != 1 {
		t.Fatalf("SeasonPacks = %d, want 1", len(plan.SeasonPacks))
	}
	want := []string{"/mnt/tv/show/s1e1.mkv"}
	if diff := cmp.Diff(want, plan.SeasonPacks[0].LocalPaths); diff != "" {
		t.Errorf("LocalPaths mismatch (-want +got):\n%s", diff)
	}
}

func TestClassifyMultiSeasonFileExcludedFromSeasonPacks(t *testing.T) {
	episodes := append(seasonEpisodes(1, 1, 100, true), seasonEpisodes(2, 1, 200, true)...)
	files := []FileRecord{{
		ID:         1,
		Path:       "/tv/show/crossover.mkv",
		Quality:    "WEBDL-1080p",
		EpisodeIDs: []int64{100, 200},
	}}

	plan := Classify(episodes, files, nil, Options{
		OnlyCompleteSeasons:  true,
		SeriesPackIfComplete: true,
	})

	if plan.MultiSeasonFiles != 1 {
		t.Errorf("MultiSeasonFiles = %d, want 1", plan.MultiSeasonFiles)
	}
	if len(plan.SeasonPacks) != 0 {
		t.Errorf("SeasonPacks = %d, want 0", len(plan.SeasonPacks))
	}
	if plan.SeriesPack == nil || len(plan.SeriesPack.LocalPaths) != 1 {
		t.Error("series aggregate should still carry the crossover file")
	}
}

func TestClassifyAllSeasonsPackedWhenNotRestricted(t *testing.T) {
	episodes := seasonEpisodes(1, 3, 100, true)
	episodes[2].HasFile = false
	files := seasonFiles(1, 2, 100, "GRP")

	plan := Classify(episodes, files, nil, Options{
		OnlyCompleteSeasons: false,
		PerEpisodeFallback:  true,
	})

	if len(plan.SeasonPacks) != 1 {
		t.Fatalf("SeasonPacks = %d, want 1 (incomplete season still packed)", len(plan.SeasonPacks))
	}
	if len(plan.Episodes) != 0 {
		t.Errorf("Episodes = %d, want 0 (no double emission)", len(plan.Episodes))
	}
}

func TestClassifyFallbackSkipsFilesWithoutEpisodeIDs(t *testing.T) {
	episodes := seasonEpisodes(1, 2, 100, true)
	episodes[1].HasFile = false
	files := seasonFiles(1, 1, 100, "GRP")
	files = append(files, FileRecord{
		ID:           2,
		Path:         "/tv/show/orphan.mkv",
		SeasonNumber: 1,
		Quality:      "WEBDL-1080p",
	})

	plan := Classify(episodes, files, nil, Options{
		OnlyCompleteSeasons: true,
		PerEpisodeFallback:  true,
	})

	if len(plan.Episodes) != 1 {
		t.Fatalf("Episodes = %d, want 1", len(plan.Episodes))
	}
	if plan.Episodes[0].File.ID != 100 {
		t.Errorf("fallback file ID = %d, want 100", plan.Episodes[0].File.ID)
	}
}

func TestEpisodeHintNumbers(t *testing.T) {
	episodes := []EpisodeRecord{
		{ID: 1, SeasonNumber: 3, EpisodeNumber: 1, AbsoluteNumber: 25},
		{ID: 2, SeasonNumber: 3, EpisodeNumber: 2, AbsoluteNumber: 26},
	}
	file := FileRecord{ID: 10, EpisodeIDs: []int64{1, 2, 99}}

	season, eps, abs := EpisodeHintNumbers(file, episodes)
	if season != 3 {
		t.Errorf("season = %d, want 3", season)
	}
	if diff := cmp.Diff([]int{1, 2}, eps); diff != "" {
		t.Errorf("episode numbers mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{25, 26}, abs); diff != "" {
		t.Errorf("absolute numbers mismatch (-want +got):\n%s", diff)
	}
}

func TestClassifyEmptyInputs(t *testing.T) {
	plan := Classify(nil, nil, nil, Options{})
	if plan.SeriesComplete {
		t.Error("SeriesComplete = true for empty series, want false")
	}
	if len(plan.SeasonPacks) != 0 || plan.SeriesPack != nil || len(plan.Episodes) != 0 {
		t.Error("empty inputs should produce an empty plan")
	}
}
