package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// droppedSymbols are decorative marks removed outright instead of acting as
// separators.
const droppedSymbols = "©®™℗"

// Tokenize converts arbitrary text into the dot-joined token form of the
// grammar: the input is brought to composed (NFC) form, alphanumeric runes
// from any script are kept, a few decorative symbols and control characters
// are dropped, and every other rune collapses into a single dot separator.
// The function is total and idempotent on already tokenized input.
func Tokenize(s string) string {
	normalized := norm.NFC.String(s)

	var b strings.Builder
	b.Grow(len(normalized))

	lastDot := true // suppresses a leading dot
	for _, r := range normalized {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDot = false
			continue
		}
		if unicode.IsControl(r) || strings.ContainsRune(droppedSymbols, r) {
			continue
		}
		if !lastDot {
			b.WriteByte('.')
			lastDot = true
		}
	}

	return strings.TrimRight(b.String(), ".")
}

// SplitTokens tokenizes s and returns the individual tokens.
func SplitTokens(s string) []string {
	t := Tokenize(s)
	if t == "" {
		return nil
	}
	return strings.Split(t, ".")
}
