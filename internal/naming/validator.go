package naming

import "strings"

// Validate checks a name against the grammar's required elements. The check
// is purely syntactic: it never consults hints or probe data and never
// mutates its input. An empty trimmed string is invalid outright; otherwise
// every missing element contributes one issue and validity is the absence
// of issues.
func (v *Vocabulary) Validate(name string) ValidationResult {
	var issues []Issue

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		issues = append(issues, IssueEmpty)
		return ValidationResult{Valid: false, Issues: issues}
	}

	if strings.EqualFold(trimmed, "unknown") {
		issues = append(issues, IssueIsUnknown)
	}
	if strings.Count(trimmed, ".") < 2 {
		issues = append(issues, IssueMissingDots)
	}
	if !v.yearRe.MatchString(trimmed) {
		issues = append(issues, IssueMissingYear)
	}
	if !v.resolutionRe.MatchString(trimmed) {
		issues = append(issues, IssueMissingResolution)
	}
	if !v.sourceRe.MatchString(trimmed) {
		issues = append(issues, IssueMissingSource)
	}
	if !v.videoCodecRe.MatchString(trimmed) {
		issues = append(issues, IssueMissingVideoCodec)
	}

	return ValidationResult{Valid: len(issues) == 0, Issues: issues}
}

// IsValid reports whether name passes validation with no issues.
func (v *Vocabulary) IsValid(name string) bool {
	return v.Validate(name).Valid
}
