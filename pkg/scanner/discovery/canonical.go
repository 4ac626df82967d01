package discovery

import (
	"strings"
	"unicode"

	implicitmatcher "github.com/kittclouds/gokitt/pkg/implicit-matcher"
)

// CanonicalToken is a normalized dictionary key used to accumulate mention
// counts for the same surface form across a document, independent of
// case or punctuation noise.
type CanonicalToken string

// Canonicalize folds a raw candidate surface into its CanonicalToken form
// and a display form suitable for showing the user, reusing the same
// lowercase/joiner-preserving normalization the gazetteer scanner uses so
// that candidate accumulation and dictionary lookups agree on identity.
// valid is false for empty, whitespace-only, or single-character input.
func Canonicalize(raw string) (key CanonicalToken, display string, valid bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", "", false
	}
	normalized := implicitmatcher.CanonicalizeForMatch(trimmed)
	if normalized == "" || len(normalized) < 2 {
		return "", "", false
	}
	return CanonicalToken(normalized), titleCaseDisplay(trimmed), true
}

// titleCaseDisplay renders a raw surface as a display string: collapses
// internal whitespace but otherwise preserves the author's original
// casing, since proper nouns are frequently already correctly cased.
func titleCaseDisplay(raw string) string {
	fields := strings.Fields(raw)
	for i, f := range fields {
		fields[i] = strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
	}
	out := fields[:0]
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return strings.Join(out, " ")
}
