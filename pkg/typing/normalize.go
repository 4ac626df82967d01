// Package typing implements entity normalization and the type
// classification cascade: turning a raw mention surface into a clean
// canonical form and a coarse, confidence-scored entity type.
package typing

import (
	"strings"
	"unicode"

	"github.com/kittclouds/gokitt/pkg/model"
)

// nameSuffixes are preserved verbatim but split into meta.nameSuffix.
var nameSuffixes = map[string]struct{}{
	"jr": {}, "jr.": {}, "sr": {}, "sr.": {}, "ii": {}, "iii": {}, "iv": {}, "v": {}, "vi": {},
	"esq": {}, "esq.": {}, "md": {}, "phd": {}, "dds": {},
}

var leadingArticleExceptions = map[string]struct{}{
	"the hague": {}, "the bronx": {},
}

// Normalized is the result of normalizing a raw mention surface.
type Normalized struct {
	Base       string // canonical base form used for matching
	Suffix     string // name suffix, if any, stored separately
	OuterQuote bool
}

// Normalize collapses whitespace, strips outer quotes/dashes, strips
// trailing punctuation except recognized suffixes, strips a possessive
// 's, normalizes curly quotes to straight, spaces out intra-word initial
// periods, strips leading articles (barring fixed exceptions), and
// strips a trailing "house"/"family" token as fiction noise.
func Normalize(raw string) Normalized {
	s := collapseWhitespace(raw)
	s = straightenQuotes(s)
	s, stripped := stripOuterQuotesAndDashes(s)
	s = spaceIntraWordInitials(s)
	s = stripPossessive(s)

	lower := strings.ToLower(s)
	if _, exempt := leadingArticleExceptions[lower]; !exempt {
		s = stripLeadingArticle(s)
	}

	suffix := ""
	fields := strings.Fields(s)
	if len(fields) >= 2 {
		last := strings.ToLower(strings.TrimRight(fields[len(fields)-1], "."))
		if _, ok := nameSuffixes[last]; ok || isBareLetterVariant(last) {
			suffix = fields[len(fields)-1]
			fields = fields[:len(fields)-1]
			s = strings.Join(fields, " ")
		}
	}

	s = strings.TrimRight(s, ".,;:!?")
	s = stripTrailingHouseFamily(s)

	return Normalized{Base: s, Suffix: suffix, OuterQuote: stripped}
}

func collapseWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

func straightenQuotes(s string) string {
	r := strings.NewReplacer("‘", "'", "’", "'", "“", `"`, "”", `"`)
	return r.Replace(s)
}

func stripOuterQuotesAndDashes(s string) (string, bool) {
	stripped := false
	for len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			s = s[1 : len(s)-1]
			stripped = true
			continue
		}
		break
	}
	s = strings.Trim(s, "-–— ")
	return s, stripped
}

// spaceIntraWordInitials turns "J.K.Rowling" into "J. K. Rowling".
func spaceIntraWordInitials(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		b.WriteRune(r)
		if r == '.' && i+1 < len(runes) && unicode.IsUpper(runes[i+1]) && i > 0 && unicode.IsUpper(runes[i-1]) {
			b.WriteRune(' ')
		}
	}
	return b.String()
}

func stripPossessive(s string) string {
	if strings.HasSuffix(s, "'s") {
		return s[:len(s)-2]
	}
	if strings.HasSuffix(s, "s'") {
		return s[:len(s)-1]
	}
	return s
}

func stripLeadingArticle(s string) string {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return s
	}
	switch strings.ToLower(fields[0]) {
	case "the", "a", "an":
		return strings.Join(fields[1:], " ")
	}
	return s
}

func stripTrailingHouseFamily(s string) string {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return s
	}
	switch strings.ToLower(fields[len(fields)-1]) {
	case "house", "family":
		return strings.Join(fields[:len(fields)-1], " ")
	}
	return s
}

func isBareLetterVariant(tok string) bool {
	switch tok {
	case "ii", "iii", "iv", "v", "vi":
		return true
	}
	return false
}

// ApplyMeta stamps an entity's meta.nameSuffix from a Normalized result.
func ApplyMeta(e *model.Entity, n Normalized) {
	if n.Suffix == "" {
		return
	}
	if e.Meta == nil {
		e.Meta = map[string]any{}
	}
	e.Meta["nameSuffix"] = n.Suffix
}
