package gate

import (
	"testing"

	"github.com/kittclouds/gokitt/pkg/scanner/chunker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_MidSentenceProperNounIsDurable(t *testing.T) {
	tagger := chunker.New()
	res := tagger.Chunk("Gandalf rode to Rivendell.")

	var last chunker.Chunk
	found := false
	for _, ch := range res.Chunks {
		if ch.Kind == chunker.NounPhrase {
			last = ch
			found = true
		}
	}
	require.True(t, found, "expected at least one noun phrase")

	result := Evaluate(Candidate{Chunk: last, SentenceStart: false})
	assert.Equal(t, DurableCandidate, result.Verdict)
}

func TestEvaluate_SentenceInitialSingleTokenIsContextOnly(t *testing.T) {
	ch := chunker.Chunk{
		Kind: chunker.NounPhrase,
		Tokens: []chunker.Token{
			{Text: "Gandalf", POS: chunker.ProperNoun},
		},
	}
	result := Evaluate(Candidate{Chunk: ch, SentenceStart: true})
	assert.Equal(t, ContextOnly, result.Verdict)
	assert.Equal(t, "sentence_initial_weak_signal", result.Reason)
}

func TestEvaluate_PronounHeadIsRejected(t *testing.T) {
	ch := chunker.Chunk{
		Kind: chunker.NounPhrase,
		Tokens: []chunker.Token{
			{Text: "it", POS: chunker.Pronoun},
		},
	}
	result := Evaluate(Candidate{Chunk: ch})
	assert.Equal(t, NonEntity, result.Verdict)
	assert.Equal(t, "closed_class_head", result.Reason)
}

func TestEvaluate_TrivialSingleCharIsRejected(t *testing.T) {
	ch := chunker.Chunk{
		Kind: chunker.NounPhrase,
		Tokens: []chunker.Token{
			{Text: "a", POS: chunker.Determiner},
		},
	}
	result := Evaluate(Candidate{Chunk: ch})
	assert.Equal(t, NonEntity, result.Verdict)
}
