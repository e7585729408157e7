package naming

// Issue identifies a single problem found while validating a scene name
// against the dot grammar.
type Issue string

const (
	IssueEmpty             Issue = "empty"
	IssueIsUnknown         Issue = "is_unknown"
	IssueMissingDots       Issue = "missing_dots"
	IssueMissingYear       Issue = "missing_year"
	IssueMissingResolution Issue = "missing_resolution"
	IssueMissingSource     Issue = "missing_source"
	IssueMissingVideoCodec Issue = "missing_video_codec"
)

// ValidationResult reports whether a name conforms to the grammar and, if
// not, which required elements are missing. Issues are ordered by severity
// of the check that produced them.
type ValidationResult struct {
	Valid  bool
	Issues []Issue
}

// DecisionReason explains why a SceneDecision chose the name it did.
type DecisionReason string

const (
	ReasonAcceptedExisting DecisionReason = "accepted_existing"
	ReasonRebuilt          DecisionReason = "rebuilt"
)

// SceneDecision is the outcome of one name synthesis call.
type SceneDecision struct {
	Name   string
	Reason DecisionReason
	// Issues carries the validation issues of the pre-existing name that
	// motivated the rebuild. Informational only; the name is rebuilt from
	// hints and probe data regardless.
	Issues []Issue
}

// TechnicalInfo holds the probed characteristics of one media file. It is
// produced by the probe collaborator and treated as authoritative over any
// quality-string-derived inference.
type TechnicalInfo struct {
	Resolution        string   `json:"resolution,omitempty"`
	VideoCodec        string   `json:"video_codec,omitempty"`
	BitDepth          string   `json:"bit_depth,omitempty"` // "10bit" only; 8-bit is left empty
	HDR               bool     `json:"hdr,omitempty"`
	DV                bool     `json:"dv,omitempty"`
	AudioCodec        string   `json:"audio_codec,omitempty"`
	AudioChannels     string   `json:"audio_channels,omitempty"` // 2.0 / 5.1 / 6.1 / 7.1
	AudioLanguages    []string `json:"audio_languages,omitempty"`
	SubtitleLanguages []string `json:"subtitle_languages,omitempty"`
	HasAlternateDub   bool     `json:"has_alternate_dub,omitempty"` // VFI track present
	Container         string   `json:"container,omitempty"`
}

// AddAudioLanguage records an audio language code once.
func (t *TechnicalInfo) AddAudioLanguage(code string) {
	t.AudioLanguages = appendUnique(t.AudioLanguages, code)
}

// AddSubtitleLanguage records a subtitle language code once.
func (t *TechnicalInfo) AddSubtitleLanguage(code string) {
	t.SubtitleLanguages = appendUnique(t.SubtitleLanguages, code)
}

func appendUnique(list []string, s string) []string {
	if s == "" {
		return list
	}
	for _, have := range list {
		if have == s {
			return list
		}
	}
	return append(list, s)
}

// MovieHints carries the library manager's metadata for one movie file.
type MovieHints struct {
	Title        string
	Year         int // 0 when unknown
	Quality      string
	ReleaseGroup string
}

// EpisodeHints carries the library manager's metadata for one episode file,
// which may cover several episodes.
type EpisodeHints struct {
	SeriesTitle     string
	SeriesYear      int
	SeasonNumber    int // 0 when unknown (specials use explicit season 0 upstream)
	EpisodeNumbers  []int
	AbsoluteNumbers []int
	Quality         string
	ReleaseGroup    string
}

// PackHints carries aggregated metadata for a season or whole-series pack.
type PackHints struct {
	Title        string
	Year         int
	PackTag      string // e.g. "S03" or "INTEGRALE"
	Quality      string
	ReleaseGroup string // only set when unanimous across the pack's files
}

// SceneNameParts is the structured intermediate form a name is assembled
// from, and the best-effort output of parsing an arbitrary input string.
type SceneNameParts struct {
	TitleTokens   []string
	Year          int
	EpisodeTag    string
	LanguageTag   string
	Resolution    string
	Source        string
	VideoCodec    string
	AudioCodec    string
	AudioChannels string
	BitDepth      string
	HDR           bool
	DV            bool
	Languages     []string
	ExtraTags     map[string]struct{}
	ReleaseGroup  string
}

// NewSceneNameParts returns an empty parts value with an initialized tag set.
func NewSceneNameParts() SceneNameParts {
	return SceneNameParts{ExtraTags: make(map[string]struct{})}
}

// AddExtraTag records a free-form descriptive tag once.
func (p *SceneNameParts) AddExtraTag(tag string) {
	if tag == "" {
		return
	}
	if p.ExtraTags == nil {
		p.ExtraTags = make(map[string]struct{})
	}
	p.ExtraTags[tag] = struct{}{}
}
