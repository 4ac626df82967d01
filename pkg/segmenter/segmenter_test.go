package segmenter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegment_Basic(t *testing.T) {
	sentences := Segment("Barty met Barty at Barty's house. Preston saw Barty too.")
	assert.Len(t, sentences, 2)
	assert.Equal(t, "Barty met Barty at Barty's house.", sentences[0].Text)
	assert.Equal(t, "Preston saw Barty too.", sentences[1].Text)
}

func TestSegment_AbbreviationNotABoundary(t *testing.T) {
	sentences := Segment("Dr. Smith arrived. He was late.")
	assert.Len(t, sentences, 2)
	assert.Equal(t, "Dr. Smith arrived.", sentences[0].Text)
}

func TestSegment_InitialNotABoundary(t *testing.T) {
	sentences := Segment("J. K. Rowling wrote the book. It sold well.")
	assert.Len(t, sentences, 2)
}

func TestSegment_DecimalNotABoundary(t *testing.T) {
	sentences := Segment("The value was 3.14 exactly. That is pi.")
	assert.Len(t, sentences, 2)
	assert.Contains(t, sentences[0].Text, "3.14")
}

func TestSegment_Ellipsis(t *testing.T) {
	sentences := Segment("He paused... Then he spoke.")
	assert.Len(t, sentences, 2)
}

func TestSegment_ClosingQuoteAbsorbed(t *testing.T) {
	sentences := Segment(`She said "hello." He smiled.`)
	assert.Len(t, sentences, 2)
	assert.True(t, strings.HasSuffix(sentences[0].Text, `"`))
}

func TestSegment_RejectsLowercaseContinuation(t *testing.T) {
	sentences := Segment("He met Dr. smith the tailor. She waved.")
	assert.Len(t, sentences, 2)
}

func TestSegment_ParagraphBreakForced(t *testing.T) {
	sentences := Segment("First paragraph here\n\nSecond paragraph here")
	assert.Len(t, sentences, 2)
}

func TestSegment_OrphanMerge(t *testing.T) {
	sentences := Segment("Ok. This is a longer sentence that follows the short one.")
	assert.Len(t, sentences, 1)
	assert.Contains(t, sentences[0].Text, "Ok.")
}

func TestSegment_Deterministic(t *testing.T) {
	text := "Mr. Smith went home. He ate dinner. Then he slept."
	a := Segment(text)
	b := Segment(text)
	assert.Equal(t, a, b)
}

func TestSegment_OffsetsRecoverText(t *testing.T) {
	text := "Hello there. General Kenobi!"
	sentences := Segment(text)
	for _, s := range sentences {
		assert.Equal(t, s.Text, text[s.Start:s.End])
		assert.True(t, s.Start < s.End)
	}
}
