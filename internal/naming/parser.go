package naming

import (
	"strconv"
	"strings"
	"unicode"
)

// Parse extracts whatever grammar fields it can recognize from an arbitrary
// input string. Every pattern is evaluated independently; mutual consistency
// is never required and absence of a pattern simply leaves the field unset.
// The result is salvage material only: callers must not trust the typed
// fields over fresh metadata or probe data.
func (v *Vocabulary) Parse(input string) SceneNameParts {
	parts := NewSceneNameParts()
	s := strings.TrimSpace(input)
	if s == "" {
		return parts
	}

	if m := v.groupRe.FindStringSubmatch(s); m != nil {
		parts.ReleaseGroup = m[1]
	}
	if m := v.yearRe.FindString(s); m != "" {
		if y, err := strconv.Atoi(m); err == nil {
			parts.Year = y
		}
	}
	if m := v.resolutionRe.FindString(s); m != "" {
		parts.Resolution = m
	}
	if m := v.sourceRe.FindString(s); m != "" {
		parts.Source = m
	}
	if m := v.videoCodecRe.FindString(s); m != "" {
		parts.VideoCodec = m
	}
	if m := v.audioCodecRe.FindString(s); m != "" {
		parts.AudioCodec = m
	}
	if m := v.audioChannelsRe.FindString(s); m != "" {
		parts.AudioChannels = m
	}
	if m := v.bitDepthRe.FindString(s); m != "" {
		parts.BitDepth = m
	}
	parts.HDR = v.hdrRe.MatchString(s)
	parts.DV = v.dvRe.MatchString(s)

	v.collectExtraTags(s, &parts)
	parts.TitleTokens = v.salvageTitleTokens(s)

	return parts
}

// collectExtraTags keeps tokens that are either known free-form markers or
// written in an all-uppercase style, skipping anything already consumed by a
// typed field and the stoplist.
func (v *Vocabulary) collectExtraTags(s string, parts *SceneNameParts) {
	for _, token := range strings.FieldsFunc(s, isSeparator) {
		t := strings.TrimSpace(token)
		if t == "" {
			continue
		}
		if _, stopped := v.stoplist[t]; stopped {
			continue
		}
		if v.yearRe.MatchString(t) ||
			v.resolutionRe.MatchString(t) ||
			v.sourceRe.MatchString(t) ||
			v.videoCodecRe.MatchString(t) ||
			v.audioCodecRe.MatchString(t) ||
			v.audioChannelsRe.MatchString(t) ||
			v.bitDepthRe.MatchString(t) {
			continue
		}

		_, known := v.knownExtras[strings.ToLower(t)]
		if known || v.languageTokenRe.MatchString(t) || isAllUpper(t) {
			parts.AddExtraTag(t)
		}
	}
}

// salvageTitleTokens naively takes everything before the first year match,
// splits on dots and spaces, and trims stray punctuation from each token.
func (v *Vocabulary) salvageTitleTokens(s string) []string {
	titleSlice := s
	if loc := v.yearRe.FindStringIndex(s); loc != nil {
		titleSlice = s[:loc[0]]
	}

	var tokens []string
	for _, raw := range strings.FieldsFunc(titleSlice, func(r rune) bool {
		return r == '.' || r == ' '
	}) {
		t := strings.TrimFunc(raw, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

func isSeparator(r rune) bool {
	switch r {
	case '.', ' ', '_', '(', ')', '[', ']', '-':
		return true
	}
	return false
}

// isAllUpper reports whether t contains at least one ASCII uppercase letter
// and no ASCII lowercase letters, the style scene extras are written in.
func isAllUpper(t string) bool {
	hasUpper := false
	for _, r := range t {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasUpper = true
		}
	}
	return hasUpper
}
