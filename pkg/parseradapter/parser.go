// Package parseradapter provides the engine's default, in-module
// implementation of the external parser contract (§6.3): it satisfies
// parse(text) → sentences[] using the segmenter and the shallow
// noun/verb-phrase chunker, so the pipeline is runnable without an
// external dependency. Production deployments are expected to substitute
// a real syntactic parser behind the same ParsedSentence shape.
package parseradapter

import (
	"strings"

	"github.com/kittclouds/gokitt/pkg/scanner/chunker"
	"github.com/kittclouds/gokitt/pkg/segmenter"
)

// Tok is one token with the Universal-Dependencies-shaped fields the
// contract requires. Dep/Head/Ent are best-effort: the in-module adapter
// sets Ent to "PERSON" for every token tagged as a proper noun (the tagger
// tags capitalized words so), leaves Dep empty and sets Head to -1.
type Tok struct {
	I     int
	Text  string
	Lemma string
	POS   string
	Tag   string
	Dep   string
	Head  int
	Ent   string
	Start int
	End   int
}

// ParsedSentence is one sentence plus its tagged tokens, per the parser
// adapter contract.
type ParsedSentence struct {
	Text   string
	Start  int
	End    int
	Tokens []Tok
}

// Parser is the capability the pipeline depends on; the default
// implementation below and any external syntactic parser both satisfy it.
type Parser interface {
	Parse(text string) ([]ParsedSentence, error)
}

// Default is the in-module fallback adapter.
type Default struct {
	chunker *chunker.Chunker
}

// NewDefault constructs the fallback parser adapter.
func NewDefault() *Default {
	return &Default{chunker: chunker.New()}
}

// Parse implements Parser using the rule-based segmenter for sentence
// boundaries and the shallow chunker for per-token POS/offsets.
func (d *Default) Parse(text string) ([]ParsedSentence, error) {
	sentences := segmenter.Segment(text)
	out := make([]ParsedSentence, 0, len(sentences))
	for _, s := range sentences {
		result := d.chunker.Chunk(s.Text)
		tokens := make([]Tok, len(result.Tokens))
		for i, t := range result.Tokens {
			tokens[i] = Tok{
				I:     i,
				Text:  t.Text,
				Lemma: strings.ToLower(t.Text),
				POS:   posLabel(t.POS),
				Tag:   posLabel(t.POS),
				Dep:   "",
				Head:  -1,
				Ent:   entityLabel(t.POS, t.Text),
				Start: s.Start + t.Range.Start,
				End:   s.Start + t.Range.End,
			}
		}
		out = append(out, ParsedSentence{
			Text:   s.Text,
			Start:  s.Start,
			End:    s.End,
			Tokens: tokens,
		})
	}
	return out, nil
}

func posLabel(p chunker.POS) string {
	switch p {
	case chunker.Noun:
		return "NOUN"
	case chunker.ProperNoun:
		return "PROPN"
	case chunker.Verb:
		return "VERB"
	case chunker.Adjective:
		return "ADJ"
	case chunker.Adverb:
		return "ADV"
	case chunker.Determiner:
		return "DET"
	case chunker.Preposition:
		return "ADP"
	case chunker.Pronoun:
		return "PRON"
	case chunker.RelativePronoun:
		return "PRON"
	case chunker.Conjunction:
		return "CCONJ"
	case chunker.Modal:
		return "AUX"
	case chunker.Auxiliary:
		return "AUX"
	case chunker.Punctuation:
		return "PUNCT"
	default:
		return "X"
	}
}

// entityLabel provides a coarse NER prior: proper nouns are a soft PERSON
// guess (refined later by the typing cascade), everything else untagged.
func entityLabel(p chunker.POS, text string) string {
	if p == chunker.ProperNoun && len(text) > 0 {
		return "PERSON"
	}
	return ""
}
