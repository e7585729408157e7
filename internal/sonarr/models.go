package sonarr

// SeriesResource is one series as returned by /api/v3/series.
type SeriesResource struct {
	ID         int64           `json:"id"`
	Title      string          `json:"title"`
	Year       int             `json:"year"`
	SeriesType string          `json:"seriesType"`
	Overview   string          `json:"overview"`
	Images     []ImageResource `json:"images"`
}

// ImageResource is one artwork entry.
type ImageResource struct {
	CoverType string `json:"coverType"`
	URL       string `json:"url"`
	RemoteURL string `json:"remoteUrl"`
}

// EpisodeResource is one episode as returned by /api/v3/episode.
type EpisodeResource struct {
	ID                    int64  `json:"id"`
	SeasonNumber          int    `json:"seasonNumber"`
	EpisodeNumber         int    `json:"episodeNumber"`
	AbsoluteEpisodeNumber int    `json:"absoluteEpisodeNumber"`
	Title                 string `json:"title"`
	Overview              string `json:"overview"`
	HasFile               bool   `json:"hasFile"`
	Monitored             bool   `json:"monitored"`
}

// EpisodeFileResource is one file as returned by /api/v3/episodefile.
type EpisodeFileResource struct {
	ID           int64         `json:"id"`
	Path         string        `json:"path"`
	SeasonNumber int           `json:"seasonNumber"`
	SceneName    string        `json:"sceneName"`
	ReleaseGroup string        `json:"releaseGroup"`
	EpisodeIDs   []int64       `json:"episodeIds"`
	Quality      *QualityModel `json:"quality"`
}

// QualityModel wraps the nested quality descriptor.
type QualityModel struct {
	Quality *QualityName `json:"quality"`
}

// QualityName is the named quality definition, e.g. "Bluray-1080p".
type QualityName struct {
	Name string `json:"name"`
}

// QualityName returns the named quality of the file, if any.
func (f *EpisodeFileResource) QualityName() string {
	if f.Quality == nil || f.Quality.Quality == nil {
		return ""
	}
	return f.Quality.Quality.Name
}

// CoverURL returns the first usable artwork URL, preferring remote URLs.
func (s *SeriesResource) CoverURL() string {
	for _, img := range s.Images {
		if img.RemoteURL != "" {
			return img.RemoteURL
		}
		if img.URL != "" {
			return img.URL
		}
	}
	return ""
}
