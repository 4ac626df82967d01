// Package gate implements the meaning gate: the ordered verdict cascade
// that decides whether a noun-phrase candidate is worth tracking as a
// potential entity mention before any typing or clustering work happens.
package gate

import (
	"strings"
	"unicode"

	"github.com/kittclouds/gokitt/pkg/scanner/chunker"
)

// Verdict is the gate's three-way output.
type Verdict int

const (
	NonEntity Verdict = iota
	ContextOnly
	DurableCandidate
)

func (v Verdict) String() string {
	switch v {
	case NonEntity:
		return "NON_ENTITY"
	case ContextOnly:
		return "CONTEXT_ONLY"
	default:
		return "DURABLE_CANDIDATE"
	}
}

// Result is the gate's decision for one candidate.
type Result struct {
	Verdict           Verdict
	Reason            string
	ExtractedNPObject *chunker.Chunk
}

// Candidate is a mention candidate presented to the gate: the chunk plus
// whether it opens its sentence, plus a 30-character lookback window used
// by the compound-fragment check.
type Candidate struct {
	Chunk          chunker.Chunk
	SentenceStart  bool
	PrecedingChars string // up to 30 raw characters immediately before the chunk
	DepCompound    bool   // true if the parser marked this token's dependency role "compound"
}

var pronouns = set("i", "me", "you", "he", "him", "she", "her", "it", "we", "us", "they", "them",
	"myself", "yourself", "himself", "herself", "itself", "ourselves", "themselves",
	"this", "that", "these", "those", "who", "whom", "whose", "which", "what")

var whWords = set("who", "whom", "whose", "which", "what", "when", "where", "why", "how")

var discourseMarkers = set("however", "therefore", "meanwhile", "furthermore", "moreover",
	"nonetheless", "nevertheless", "indeed", "instead", "besides", "anyway", "regardless")

var interjections = set("oh", "ah", "ha", "hey", "wow", "alas", "ugh", "hmm", "well", "yes", "no")

var modals = set("can", "could", "may", "might", "must", "shall", "should", "will", "would")

var determiners = set("the", "a", "an", "this", "that", "these", "those", "some", "any", "every",
	"each", "no", "my", "your", "his", "her", "its", "our", "their")

var conjunctions = set("and", "but", "or", "nor", "yet", "so",
	"because", "although", "though", "while", "since", "if", "unless", "until", "whereas")

var roleNouns = set("president", "king", "queen", "doctor", "teacher", "captain", "general",
	"professor", "chief", "mayor", "governor", "sheriff")

var strongNERSignal = set() // populated by callers wiring NER hints; empty by default

func set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

func isClosedClassWord(w string) bool {
	lw := strings.ToLower(w)
	_, ok1 := pronouns[lw]
	_, ok2 := whWords[lw]
	_, ok3 := discourseMarkers[lw]
	_, ok4 := interjections[lw]
	_, ok5 := modals[lw]
	_, ok6 := determiners[lw]
	_, ok7 := conjunctions[lw]
	return ok1 || ok2 || ok3 || ok4 || ok5 || ok6 || ok7
}

// Evaluate runs the 13-phase cascade and returns the first matching verdict.
func Evaluate(c Candidate) Result {
	toks := c.Chunk.Tokens
	text := joinTokens(toks)

	// 1. Trivial rejections.
	if len(strings.TrimSpace(text)) < 2 || isAllNumeric(text) {
		return Result{Verdict: NonEntity, Reason: "trivial"}
	}

	// 2. Closed-class heads.
	if len(toks) == 1 && isClosedClassWord(toks[0].Text) {
		return Result{Verdict: NonEntity, Reason: "closed_class_head"}
	}

	// 3. Verb-led spans.
	if toks[0].POS.IsVerbal() {
		if !hasNominalHead(toks) || !(toks[0].POS == chunker.Verb && isParticipialAdjective(toks[0].Text)) {
			if !hasNominalHead(toks) {
				return Result{Verdict: NonEntity, Reason: "verb_led"}
			}
		}
	}

	// 4. Adverb-led spans.
	if toks[0].POS == chunker.Adverb && !hasNominalHead(toks) {
		return Result{Verdict: NonEntity, Reason: "adverb_led"}
	}

	// 5. Conjunction/subordinator-led.
	if toks[0].POS == chunker.Conjunction || isClosedClassWord(toks[0].Text) && conjunctionWord(toks[0].Text) {
		return Result{Verdict: NonEntity, Reason: "conjunction_led"}
	}

	// 6. Preposition-led.
	if toks[0].POS == chunker.Preposition {
		remainder := skipLeadingDeterminers(toks[1:])
		if !hasNominalHead(remainder) {
			return Result{Verdict: NonEntity, Reason: "preposition_led"}
		}
		obj := chunker.Chunk{Kind: chunker.NounPhrase, Tokens: remainder}
		return Result{Verdict: NonEntity, Reason: "preposition_led", ExtractedNPObject: &obj}
	}

	// 7. All tokens closed-class.
	if allClosedClass(toks) {
		return Result{Verdict: NonEntity, Reason: "all_closed_class"}
	}

	// 8. Single sentence-initial adjective.
	if len(toks) == 1 && toks[0].POS == chunker.Adjective && c.SentenceStart {
		return Result{Verdict: NonEntity, Reason: "predicate_adjective"}
	}

	// 9. Compound-fragment detection.
	if len(toks) == 1 {
		if c.DepCompound {
			return Result{Verdict: NonEntity, Reason: "compound_fragment"}
		}
		if precededByCapitalizedWithin(c.PrecedingChars, 30) {
			return Result{Verdict: NonEntity, Reason: "compound_fragment"}
		}
	}

	// 10. Incomplete constituent.
	if !hasNominalHead(toks) && !hasCapitalizedToken(toks) {
		return Result{Verdict: NonEntity, Reason: "incomplete_constituent"}
	}

	// 11. All-lowercase non-nominal.
	if isAllLowercase(text) && !hasNominalHead(toks) {
		return Result{Verdict: NonEntity, Reason: "all_lowercase_non_nominal"}
	}

	// 12. CONTEXT_ONLY verdicts.
	if len(toks) == 1 {
		lw := strings.ToLower(toks[0].Text)
		if _, ok := roleNouns[lw]; ok {
			return Result{Verdict: ContextOnly, Reason: "role_noun_no_context"}
		}
		if c.SentenceStart {
			if _, strong := strongNERSignal[lw]; !strong {
				return Result{Verdict: ContextOnly, Reason: "sentence_initial_weak_signal"}
			}
		}
	}
	if isImperativeLike(toks) {
		return Result{Verdict: ContextOnly, Reason: "imperative_like"}
	}

	// 13. Otherwise durable.
	return Result{Verdict: DurableCandidate, Reason: "default"}
}

func joinTokens(toks []chunker.Token) string {
	var b strings.Builder
	for i, t := range toks {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t.Text)
	}
	return b.String()
}

func isAllNumeric(s string) bool {
	found := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		if !unicode.IsDigit(r) {
			return false
		}
		found = true
	}
	return found
}

func hasNominalHead(toks []chunker.Token) bool {
	for _, t := range toks {
		if t.POS.IsNominal() {
			return true
		}
	}
	return false
}

func hasCapitalizedToken(toks []chunker.Token) bool {
	for _, t := range toks {
		if t.Text != "" && unicode.IsUpper(rune(t.Text[0])) {
			return true
		}
	}
	return false
}

func isAllLowercase(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) && unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func isParticipialAdjective(word string) bool {
	lw := strings.ToLower(word)
	return strings.HasSuffix(lw, "ing") || strings.HasSuffix(lw, "ed")
}

func conjunctionWord(w string) bool {
	_, ok := conjunctions[strings.ToLower(w)]
	return ok
}

func skipLeadingDeterminers(toks []chunker.Token) []chunker.Token {
	i := 0
	for i < len(toks) && toks[i].POS == chunker.Determiner {
		i++
	}
	return toks[i:]
}

func allClosedClass(toks []chunker.Token) bool {
	for _, t := range toks {
		if !isClosedClassWord(t.Text) {
			return false
		}
	}
	return true
}

func precededByCapitalizedWithin(preceding string, window int) bool {
	if len(preceding) > window {
		preceding = preceding[len(preceding)-window:]
	}
	fields := strings.Fields(preceding)
	if len(fields) == 0 {
		return false
	}
	last := fields[len(fields)-1]
	return last != "" && unicode.IsUpper(rune(last[0]))
}

func isImperativeLike(toks []chunker.Token) bool {
	if len(toks) == 0 {
		return false
	}
	return toks[0].POS == chunker.Verb && toks[0].Range.Start == 0
}
