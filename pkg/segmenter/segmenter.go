// Package segmenter implements the rule-based sentence splitter: the first,
// dependency-free stage of the extraction pipeline.
package segmenter

import (
	"strings"
	"unicode"
)

// Sentence is one recognized unit of text with its character offsets into
// the original document.
type Sentence struct {
	Start int
	End   int
	Text  string
}

// abbreviations is the fixed set of tokens whose trailing period never ends
// a sentence. Entries are stored lower-case and every lookup lower-cases
// the token first, so matching is case-insensitive.
var abbreviations = buildAbbreviations()

func buildAbbreviations() map[string]struct{} {
	list := []string{
		// Titles
		"mr", "mrs", "ms", "dr", "prof", "rev", "fr", "sr", "jr", "st",
		"gen", "col", "capt", "lt", "sgt", "adm", "sen", "gov", "rep",
		"hon", "pres",
		// Geographic
		"mt", "ft",
		// Academic
		"ph.d", "m.d", "b.a", "m.a", "b.sc", "m.sc", "d.d.s",
		// Months
		"jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep", "sept",
		"oct", "nov", "dec",
		// Weekdays
		"mon", "tue", "tues", "wed", "thu", "thur", "thurs", "fri", "sat", "sun",
		// Country/corporate
		"u.s", "u.k", "inc", "ltd", "co", "corp", "etc", "vs", "e.g", "i.e",
	}
	m := make(map[string]struct{}, len(list))
	for _, a := range list {
		m[a] = struct{}{}
	}
	return m
}

// sentenceStarters is the whitelist of lowercase words permitted to begin a
// new sentence without invalidating the preceding boundary.
var sentenceStarters = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "but": {}, "or": {}, "so": {}, "yet": {},
}

const minOrphanLen = 10

// closingMarks are characters absorbed into the prior sentence when they
// immediately follow a boundary punctuation mark.
var closingMarks = []rune{'"', '\'', '“', '”', '‘', '’', '«', '»', ')', ']'}

// Segment splits text into sentences. Deterministic: identical input always
// yields an identical sequence of Sentence records, and the concatenation of
// sentence texts with the intervening original whitespace recovers text.
func Segment(text string) []Sentence {
	if text == "" {
		return nil
	}
	runes := []rune(text)
	n := len(runes)

	var bounds []int // end offsets (exclusive, rune index) of each sentence
	start := 0
	for i := 0; i < n; i++ {
		r := runes[i]

		if isParagraphBreakAt(runes, i) {
			end := i
			for end > start && unicode.IsSpace(runes[end-1]) {
				end--
			}
			if end > start {
				bounds = append(bounds, end)
				start = findNextNonSpace(runes, i)
			}
			continue
		}

		if !isSentenceEndPunct(r) {
			continue
		}

		if r == '.' && isEllipsisAt(runes, i) {
			// Absorb the whole "..." as one boundary punctuation run.
			j := i
			for j < n && runes[j] == '.' {
				j++
			}
			i = j - 1
			r = '.'
		}

		if r == '.' && !isRealSentenceEnd(runes, i) {
			continue
		}

		end := i + 1
		end = absorbClosers(runes, end)

		if !isValidBoundary(runes, end) {
			continue
		}

		bounds = append(bounds, end)
		start = findNextNonSpace(runes, end)
	}

	if start < n {
		end := n
		for end > start && unicode.IsSpace(runes[end-1]) {
			end--
		}
		if end > start {
			bounds = append(bounds, end)
		}
	}

	sentences := boundsToSentences(runes, bounds)
	return mergeOrphans(runes, sentences)
}

func isSentenceEndPunct(r rune) bool {
	return r == '.' || r == '!' || r == '?' || r == '…'
}

func isEllipsisAt(runes []rune, i int) bool {
	return i+2 < len(runes) && runes[i+1] == '.' && runes[i+2] == '.'
}

func isParagraphBreakAt(runes []rune, i int) bool {
	return runes[i] == '\n' && i+1 < len(runes) && runes[i+1] == '\n'
}

// isRealSentenceEnd applies the abbreviation/initial/decimal exceptions to a
// lone period at index i.
func isRealSentenceEnd(runes []rune, i int) bool {
	if isDecimalPoint(runes, i) {
		return false
	}
	if isAbbreviationBefore(runes, i) {
		return false
	}
	if isSingleCapitalInitialBefore(runes, i) {
		return false
	}
	return true
}

func isDecimalPoint(runes []rune, i int) bool {
	if i == 0 || i+1 >= len(runes) {
		return false
	}
	return unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1])
}

func isAbbreviationBefore(runes []rune, i int) bool {
	j := i
	for j > 0 && !unicode.IsSpace(runes[j-1]) && runes[j-1] != '.' {
		j--
	}
	// Walk back further to include internal periods (e.g. "U.S", "Ph.D").
	k := j
	for k > 0 {
		p := k - 1
		for p > 0 && !unicode.IsSpace(runes[p-1]) {
			p--
		}
		tok := string(runes[p:i])
		if _, ok := abbreviations[strings.ToLower(strings.TrimRight(tok, "."))]; ok {
			return true
		}
		if p == 0 || unicode.IsSpace(runes[p-1]) {
			break
		}
		k = p
	}
	tok := strings.ToLower(strings.TrimRight(string(runes[j:i]), "."))
	_, ok := abbreviations[tok]
	return ok
}

// isSingleCapitalInitialBefore matches "J." where J is preceded by
// whitespace or start-of-text.
func isSingleCapitalInitialBefore(runes []rune, i int) bool {
	if i == 0 {
		return false
	}
	if !unicode.IsUpper(runes[i-1]) {
		return false
	}
	if i == 1 {
		return true
	}
	prev := runes[i-2]
	return unicode.IsSpace(prev) || prev == '.'
}

func absorbClosers(runes []rune, end int) int {
	for end < len(runes) {
		matched := false
		for _, c := range closingMarks {
			if runes[end] == c {
				matched = true
				break
			}
		}
		if !matched {
			break
		}
		end++
	}
	return end
}

// isValidBoundary rejects a boundary if the next non-space text begins a
// lowercase word outside the starter whitelist.
func isValidBoundary(runes []rune, end int) bool {
	j := findNextNonSpace(runes, end)
	if j >= len(runes) {
		return true
	}
	if !unicode.IsLower(runes[j]) {
		return true
	}
	k := j
	for k < len(runes) && (unicode.IsLetter(runes[k])) {
		k++
	}
	word := strings.ToLower(string(runes[j:k]))
	_, ok := sentenceStarters[word]
	return ok
}

func findNextNonSpace(runes []rune, from int) int {
	i := from
	for i < len(runes) && unicode.IsSpace(runes[i]) {
		i++
	}
	return i
}

func boundsToSentences(runes []rune, bounds []int) []Sentence {
	sentences := make([]Sentence, 0, len(bounds))
	start := 0
	for _, end := range bounds {
		s := findNextNonSpace(runes, start)
		if s >= end {
			start = end
			continue
		}
		sentences = append(sentences, Sentence{
			Start: byteOffset(runes, s),
			End:   byteOffset(runes, end),
			Text:  string(runes[s:end]),
		})
		start = end
	}
	return sentences
}

func byteOffset(runes []rune, runeIdx int) int {
	return len(string(runes[:runeIdx]))
}

// mergeOrphans merges sentences shorter than minOrphanLen into a neighbor,
// preferring the following sentence, falling back to the preceding one.
func mergeOrphans(runes []rune, sentences []Sentence) []Sentence {
	if len(sentences) < 2 {
		return sentences
	}
	join := func(a, b Sentence) Sentence {
		return Sentence{Start: a.Start, End: b.End, Text: a.Text + textBetween(runes, a.End, b.Start) + b.Text}
	}
	out := make([]Sentence, 0, len(sentences))
	for i := 0; i < len(sentences); i++ {
		s := sentences[i]
		for len(s.Text) < minOrphanLen && i+1 < len(sentences) {
			i++
			s = join(s, sentences[i])
		}
		if len(s.Text) < minOrphanLen && len(out) > 0 {
			s = join(out[len(out)-1], s)
			out = out[:len(out)-1]
		}
		out = append(out, s)
	}
	return out
}

func textBetween(runes []rune, fromByte, toByte int) string {
	// Reconstruct the original inter-sentence gap (whitespace) so the
	// recoverability invariant holds after a merge.
	full := string(runes)
	if fromByte < 0 || toByte > len(full) || fromByte > toByte {
		return " "
	}
	return full[fromByte:toByte]
}
