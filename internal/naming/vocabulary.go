package naming

import (
	"regexp"
	"strings"
)

// Token vocabulary for the dot grammar.
//
// Parsing and validation are driven by the tables below rather than ad hoc
// control flow so that new resolution/source/codec spellings can be added in
// one place. A Vocabulary is immutable after construction and is shared by
// the parser, validator and builder of one run.
type Vocabulary struct {
	// yearRe matches the first plausible release year: 19xx or 20xx.
	yearRe *regexp.Regexp

	// resolutionRe matches recognized resolution class tokens.
	resolutionRe *regexp.Regexp

	// sourceRe matches provenance tokens (streaming and disc rips).
	sourceRe *regexp.Regexp

	// videoCodecRe matches encoder/codec spellings for the video stream.
	videoCodecRe *regexp.Regexp

	// audioCodecRe matches audio codec tokens.
	audioCodecRe *regexp.Regexp

	// audioChannelsRe matches channel layout tokens.
	audioChannelsRe *regexp.Regexp

	// bitDepthRe matches bit depth markers.
	bitDepthRe *regexp.Regexp

	// hdrRe and dvRe detect high dynamic range and Dolby Vision markers.
	hdrRe *regexp.Regexp
	dvRe  *regexp.Regexp

	// languageTokenRe matches dub/language markers kept as extra tags.
	languageTokenRe *regexp.Regexp

	// groupRe captures a trailing release group after the final hyphen.
	groupRe *regexp.Regexp

	// ResolutionRules and SourceRules infer tokens from a free-text quality
	// string. Rules are evaluated in order; the first match wins, so the
	// ordering is part of the grammar (e.g. "web-dl" before bare "web").
	ResolutionRules []QualityRule
	SourceRules     []QualityRule

	// SalvageMarkers are scanned case-insensitively over an original name
	// to recover descriptive tags the typed fields cannot express.
	SalvageMarkers []SalvageMarker

	// knownExtras lists lowercase tokens always kept as extra tags.
	knownExtras map[string]struct{}

	// stoplist lists tokens never kept as extra tags even when uppercase.
	stoplist map[string]struct{}

	// LanguageTags maps the probed audio language set to a dub tag.
	LanguageTags LanguageTagPolicy
}

// QualityRule maps any-of substring predicates to a resulting token.
type QualityRule struct {
	AnyOf  []string
	Result string
}

// SalvageMarker recovers a canonical tag when every substring in All is
// present in the lowercased original name.
type SalvageMarker struct {
	All []string
	Tag string
}

// LanguageTagPolicy is the deployment's dub-tag convention. The default
// encodes a French-first vocabulary; both fields are configuration, not a
// universal rule.
type LanguageTagPolicy struct {
	// Multi is emitted when more than one audio language is present.
	Multi string
	// Single maps a sole audio language code to its tag. Codes absent from
	// the map produce no tag.
	Single map[string]string
}

// DefaultVocabulary builds the standard token tables. Call once at startup
// and pass the result by reference wherever names are parsed or built.
func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		yearRe:          regexp.MustCompile(`(19|20)\d{2}`),
		resolutionRe:    regexp.MustCompile(`(?i)\b(480p|576p|720p|1080p|1440p|2160p|4k|8k)\b`),
		sourceRe:        regexp.MustCompile(`(?i)\b(AMZN(\.WEB(-?DL)?)?|WEB(-?DL|Rip)?|Blu[- ]?Ray|BRRip|BDRip|HDLight|HDLigh|mHD)\b`),
		videoCodecRe:    regexp.MustCompile(`(?i)\b(x265|x264|h\.?265|h\.?264|hevc|avc)\b`),
		audioCodecRe:    regexp.MustCompile(`(?i)\b(DDP|EAC3|AC3|DTS(-HD)?|TrueHD|AAC)\b`),
		audioChannelsRe: regexp.MustCompile(`(?i)\b(7\.1|6\.1|5\.1|6CH|2\.0|2CH)\b`),
		bitDepthRe:      regexp.MustCompile(`(?i)\b(10bit|8bit)\b`),
		hdrRe:           regexp.MustCompile(`(?i)\b(HDR10\+?|HDR|HLG)\b`),
		dvRe:            regexp.MustCompile(`(?i)\b(DV|Dolby[ .]?Vision)\b`),
		languageTokenRe: regexp.MustCompile(`(?i)\b(MULTI|FRENCH|VFF|VFQ|VFI|VOA|VF2|FR2|TRUEFRENCH|FR|EN)\b`),
		groupRe:         regexp.MustCompile(`-([A-Za-z0-9._⚡]+)$`),

		ResolutionRules: []QualityRule{
			{AnyOf: []string{"2160", "uhd", "4k"}, Result: "2160p"},
			{AnyOf: []string{"1440"}, Result: "1440p"},
			{AnyOf: []string{"1080", "fhd"}, Result: "1080p"},
			{AnyOf: []string{"720", "hd"}, Result: "720p"},
		},
		SourceRules: []QualityRule{
			{AnyOf: []string{"web-dl", "webrip", "web"}, Result: "WEB"},
			{AnyOf: []string{"blu"}, Result: "BluRay"},
		},

		SalvageMarkers: []SalvageMarker{
			{All: []string{"imax"}, Tag: "IMAX"},
			{All: []string{"hdlight"}, Tag: "HDLight"},
			{All: []string{"4klight"}, Tag: "4KLight"},
			{All: []string{"4k light"}, Tag: "4KLight"},
			{All: []string{"unrated"}, Tag: "Unrated"},
			{All: []string{"extended"}, Tag: "Extended"},
			{All: []string{"remastered"}, Tag: "Remastered"},
			{All: []string{"director", "cut"}, Tag: "Directors.Cut"},
			{All: []string{"theatrical cut"}, Tag: "Theatrical.Cut"},
			{All: []string{"proper"}, Tag: "Proper"},
			{All: []string{"repack"}, Tag: "Repack"},
		},

		knownExtras: map[string]struct{}{
			"imax":    {},
			"4klight": {},
			"hdlight": {},
			"vff":     {},
			"vfq":     {},
			"vfi":     {},
			"multi":   {},
			"french":  {},
			"atmos":   {},
		},
		stoplist: map[string]struct{}{
			"WEB": {},
			"Rip": {},
		},

		LanguageTags: LanguageTagPolicy{
			Multi: "MULTi.VF",
			Single: map[string]string{
				"fr": "VF",
				"en": "VOSTFR", // English audio, French subs assumed
			},
		},
	}
}

// InferResolution applies the ordered resolution rules to a free-text
// quality string. Returns "" when nothing matches.
func (v *Vocabulary) InferResolution(quality string) string {
	return applyQualityRules(v.ResolutionRules, quality)
}

// InferSource applies the ordered source rules to a free-text quality
// string. Returns "" when nothing matches.
func (v *Vocabulary) InferSource(quality string) string {
	return applyQualityRules(v.SourceRules, quality)
}

func applyQualityRules(rules []QualityRule, quality string) string {
	if quality == "" {
		return ""
	}
	q := strings.ToLower(quality)
	for _, rule := range rules {
		for _, needle := range rule.AnyOf {
			if strings.Contains(q, needle) {
				return rule.Result
			}
		}
	}
	return ""
}

// LanguageTag maps a set of probed audio language codes to the configured
// dub tag, or "" when the policy has nothing to say.
func (v *Vocabulary) LanguageTag(audioLanguages []string) string {
	switch len(audioLanguages) {
	case 0:
		return ""
	case 1:
		return v.LanguageTags.Single[audioLanguages[0]]
	default:
		return v.LanguageTags.Multi
	}
}
