package naming

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// nameBlacklist lists decorative symbols stripped from an assembled name in
// the final sanitization pass, on top of control characters.
const nameBlacklist = "©®™℗§¶•†‡°ºª"

// Builder deterministically reconstructs canonical names from structured
// hints plus technical probe data. An existing name is never trusted for
// typed fields; it is only mined for supplementary extra tags. The builder
// is total: absent inputs omit segments instead of producing errors.
type Builder struct {
	vocab *Vocabulary
}

// NewBuilder returns a Builder using the given vocabulary tables.
func NewBuilder(vocab *Vocabulary) *Builder {
	return &Builder{vocab: vocab}
}

// ProposeMovieName rebuilds a movie name from hints and probe data. The
// prior validation result, when supplied, is carried on the decision for
// reporting; it does not change the output.
func (b *Builder) ProposeMovieName(original string, hints MovieHints, tech TechnicalInfo, prior *ValidationResult) SceneDecision {
	parts := NewSceneNameParts()
	parts.TitleTokens = SplitTokens(hints.Title)
	parts.Year = hints.Year

	b.applyTechnical(&parts, hints.Quality, tech)
	parts.ReleaseGroup = sanitizeReleaseGroup(hints.ReleaseGroup)
	b.salvageInto(&parts, original)

	decision := SceneDecision{
		Name:   sanitizeName(assemble(parts)),
		Reason: ReasonRebuilt,
	}
	if prior != nil {
		decision.Issues = prior.Issues
	}
	return decision
}

// ProposeEpisodeName rebuilds a name for a single episode file. Episodes
// carry an episode tag instead of a year.
func (b *Builder) ProposeEpisodeName(original string, hints EpisodeHints, tech TechnicalInfo) SceneDecision {
	parts := NewSceneNameParts()
	parts.TitleTokens = SplitTokens(hints.SeriesTitle)
	parts.EpisodeTag = EpisodeTag(hints.SeasonNumber, hints.EpisodeNumbers, hints.AbsoluteNumbers)

	b.applyTechnical(&parts, hints.Quality, tech)
	parts.ReleaseGroup = sanitizeReleaseGroup(hints.ReleaseGroup)
	b.salvageInto(&parts, original)

	return SceneDecision{
		Name:   sanitizeName(assemble(parts)),
		Reason: ReasonRebuilt,
	}
}

// ProposePackName rebuilds a name for a season or whole-series pack. Packs
// carry both the work's year and a tokenized pack tag.
func (b *Builder) ProposePackName(original string, hints PackHints, tech TechnicalInfo) SceneDecision {
	parts := NewSceneNameParts()
	parts.TitleTokens = SplitTokens(hints.Title)
	parts.Year = hints.Year
	parts.EpisodeTag = Tokenize(hints.PackTag)

	b.applyTechnical(&parts, hints.Quality, tech)
	parts.ReleaseGroup = sanitizeReleaseGroup(hints.ReleaseGroup)
	b.salvageInto(&parts, original)

	return SceneDecision{
		Name:   sanitizeName(assemble(parts)),
		Reason: ReasonRebuilt,
	}
}

// applyTechnical fills the probe-derived fields shared by every media kind:
// language tag, resolution and source with the mismatch-drop rule, HDR/DV,
// bit depth, audio fields, the canonicalized video codec, and the VFI tag.
func (b *Builder) applyTechnical(parts *SceneNameParts, quality string, tech TechnicalInfo) {
	parts.LanguageTag = b.vocab.LanguageTag(tech.AudioLanguages)

	inferredRes := b.vocab.InferResolution(quality)
	parts.Resolution = tech.Resolution
	if parts.Resolution == "" {
		parts.Resolution = inferredRes
	}
	parts.Source = b.vocab.InferSource(quality)

	// A probe/quality resolution disagreement marks the quality string as
	// unreliable, so the source derived from it is suppressed too.
	if tech.Resolution != "" && inferredRes != "" && tech.Resolution != inferredRes {
		parts.Resolution = tech.Resolution
		parts.Source = ""
	}

	parts.HDR = tech.HDR
	parts.DV = tech.DV
	parts.BitDepth = tech.BitDepth
	parts.AudioCodec = tech.AudioCodec
	parts.AudioChannels = tech.AudioChannels
	if tech.VideoCodec != "" {
		parts.VideoCodec = CanonicalVideoCodec(tech.VideoCodec)
	}
	if tech.HasAlternateDub {
		parts.AddExtraTag("VFI")
	}
}

// salvageInto merges tags recovered from the original name into the parts.
func (b *Builder) salvageInto(parts *SceneNameParts, original string) {
	for _, tag := range b.SalvageTags(original) {
		parts.AddExtraTag(tag)
	}
}

// SalvageTags scans an original name for the fixed salvage markers and
// returns the canonical tags found, sorted.
func (b *Builder) SalvageTags(original string) []string {
	if original == "" {
		return nil
	}
	l := strings.ToLower(original)

	set := make(map[string]struct{})
	for _, marker := range b.vocab.SalvageMarkers {
		matched := true
		for _, needle := range marker.All {
			if !strings.Contains(l, needle) {
				matched = false
				break
			}
		}
		if matched {
			set[marker.Tag] = struct{}{}
		}
	}

	tags := make([]string, 0, len(set))
	for tag := range set {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// EpisodeTag renders the serialized-media tag. Absolute numbering takes
// precedence and renders sorted deduplicated three-digit E tokens; otherwise
// a season with at least one episode renders S##E##…; otherwise "".
func EpisodeTag(season int, episodes, absolutes []int) string {
	if len(absolutes) > 0 {
		var tag strings.Builder
		for _, n := range sortedUnique(absolutes) {
			fmt.Fprintf(&tag, "E%03d", n)
		}
		return tag.String()
	}

	if season <= 0 || len(episodes) == 0 {
		return ""
	}
	var tag strings.Builder
	fmt.Fprintf(&tag, "S%02d", season)
	for _, e := range sortedUnique(episodes) {
		fmt.Fprintf(&tag, "E%02d", e)
	}
	return tag.String()
}

// CanonicalVideoCodec maps codec spellings to encoder-style tokens: any
// token containing "265" becomes x265, "264" becomes x264, everything else
// passes through unchanged.
func CanonicalVideoCodec(codec string) string {
	l := strings.ToLower(codec)
	switch {
	case strings.Contains(l, "265"):
		return "x265"
	case strings.Contains(l, "264"):
		return "x264"
	default:
		return codec
	}
}

// sanitizeReleaseGroup strips everything but ASCII alphanumerics; a group
// that vanishes entirely is treated as absent.
func sanitizeReleaseGroup(group string) string {
	var b strings.Builder
	for _, r := range group {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// extrasList renders HDR/DV/bit-depth flags, language codes and free-form
// tags as one deduplicated, sorted list so assembly stays deterministic.
func extrasList(parts SceneNameParts) []string {
	set := make(map[string]struct{})

	if parts.HDR {
		set["HDR"] = struct{}{}
	}
	if parts.DV {
		set["DV"] = struct{}{}
	}
	if parts.BitDepth != "" {
		set[parts.BitDepth] = struct{}{}
	}
	for _, l := range parts.Languages {
		set[l] = struct{}{}
	}
	for tag := range parts.ExtraTags {
		// Tags restating a flag that is already rendered are dropped.
		upper := strings.ToUpper(tag)
		if upper == "HDR" && parts.HDR {
			continue
		}
		if upper == "DV" && parts.DV {
			continue
		}
		if parts.BitDepth != "" && strings.Contains(upper, "BIT") {
			continue
		}
		set[tag] = struct{}{}
	}

	extras := make([]string, 0, len(set))
	for e := range set {
		extras = append(extras, e)
	}
	sort.Strings(extras)
	return extras
}

// assemble joins the populated segments in the grammar's fixed order and
// appends the release group suffix.
func assemble(parts SceneNameParts) string {
	var segs []string

	if len(parts.TitleTokens) > 0 {
		segs = append(segs, strings.Join(parts.TitleTokens, "."))
	}
	if parts.Year > 0 {
		segs = append(segs, strconv.Itoa(parts.Year))
	}
	if parts.EpisodeTag != "" {
		segs = append(segs, parts.EpisodeTag)
	}
	if parts.LanguageTag != "" {
		segs = append(segs, parts.LanguageTag)
	}
	if parts.Resolution != "" {
		segs = append(segs, parts.Resolution)
	}
	if parts.Source != "" {
		segs = append(segs, parts.Source)
	}
	segs = append(segs, extrasList(parts)...)
	if parts.AudioCodec != "" {
		segs = append(segs, parts.AudioCodec)
	}
	if parts.AudioChannels != "" {
		segs = append(segs, parts.AudioChannels)
	}
	// Video codec is always the last dot segment.
	if parts.VideoCodec != "" {
		segs = append(segs, parts.VideoCodec)
	}

	name := strings.Join(segs, ".")
	if parts.ReleaseGroup != "" {
		name += "-" + parts.ReleaseGroup
	}
	return name
}

// sanitizeName removes control characters and blacklisted decorative
// symbols from an assembled name.
func sanitizeName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsControl(r) || strings.ContainsRune(nameBlacklist, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func sortedUnique(nums []int) []int {
	if len(nums) == 0 {
		return nil
	}
	out := append([]int(nil), nums...)
	sort.Ints(out)
	unique := out[:1]
	for _, n := range out[1:] {
		if n != unique[len(unique)-1] {
			unique = append(unique, n)
		}
	}
	return unique
}
