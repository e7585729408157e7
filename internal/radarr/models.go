package radarr

// MovieResource is one movie as returned by /api/v3/movie.
type MovieResource struct {
	ID               int64             `json:"id"`
	Title            string            `json:"title"`
	OriginalTitle    string            `json:"originalTitle"`
	OriginalLanguage *LanguageResource `json:"originalLanguage"`
	Year             int               `json:"year"`
	Overview         string            `json:"overview"`
	RemotePoster     string            `json:"remotePoster"`
	Images           []ImageResource   `json:"images"`
	MovieFile        *MovieFile        `json:"movieFile"`
}

// LanguageResource names the movie's original language.
type LanguageResource struct {
	Name string `json:"name"`
}

// ImageResource is one artwork entry.
type ImageResource struct {
	CoverType string `json:"coverType"`
	URL       string `json:"url"`
	RemoteURL string `json:"remoteUrl"`
}

// MovieFile describes the on-disk file attached to a movie.
type MovieFile struct {
	ID           int64         `json:"id"`
	Path         string        `json:"path"`
	SceneName    string        `json:"sceneName"`
	ReleaseGroup string        `json:"releaseGroup"`
	Quality      *QualityModel `json:"quality"`
}

// QualityModel wraps the nested quality descriptor both Radarr and Sonarr
// attach to files.
type QualityModel struct {
	Quality *QualityName `json:"quality"`
}

// QualityName is the named quality definition, e.g. "WEBDL-1080p".
type QualityName struct {
	Name string `json:"name"`
}

// QualityName returns the named quality of the movie file, if any.
func (m *MovieResource) QualityName() string {
	if m.MovieFile == nil || m.MovieFile.Quality == nil || m.MovieFile.Quality.Quality == nil {
		return ""
	}
	return m.MovieFile.Quality.Quality.Name
}

// CoverURL returns the first usable artwork URL, preferring remote URLs.
func (m *MovieResource) CoverURL() string {
	for _, img := range m.Images {
		if img.RemoteURL != "" {
			return img.RemoteURL
		}
		if img.URL != "" {
			return img.URL
		}
	}
	return m.RemotePoster
}
