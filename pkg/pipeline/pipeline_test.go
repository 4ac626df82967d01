package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/kittclouds/gokitt/pkg/chunkdriver"
	"github.com/kittclouds/gokitt/pkg/config"
	"github.com/kittclouds/gokitt/pkg/model"
	"github.com/kittclouds/gokitt/pkg/parseradapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingParser always reports the parser adapter as unavailable, so tests
// can exercise the baselineRequired fatal/warning split without depending
// on the in-module default adapter ever actually failing.
type failingParser struct{}

func (failingParser) Parse(string) ([]parseradapter.ParsedSentence, error) {
	return nil, errors.New("external parser unreachable")
}

func TestProcess_ParserFailureIsFatalWhenBaselineRequired(t *testing.T) {
	cfg := config.Default()
	cfg.BaselineRequired = true
	p, err := NewWithParser(cfg, 2, failingParser{})
	require.NoError(t, err)
	defer p.Close()

	chunks := chunkdriver.Split("doc1", "Frodo travelled to Mordor.", cfg)
	require.NotEmpty(t, chunks)

	_, procErr := p.Process(context.Background(), chunks[0])
	require.Error(t, procErr)

	var extractionErr *model.ExtractionError
	require.ErrorAs(t, procErr, &extractionErr)
	assert.Equal(t, model.ErrParserUnavailable, extractionErr.Kind)
}

func TestProcessDocument_ParserFailureFallsBackWhenBaselineNotRequired(t *testing.T) {
	cfg := config.Default()
	cfg.BaselineRequired = false
	p, err := NewWithParser(cfg, 2, failingParser{})
	require.NoError(t, err)
	defer p.Close()

	doc := p.ProcessDocument(context.Background(), "doc1", "Frodo travelled to Mordor. Frodo spoke with Sam.")
	assert.Empty(t, doc.Errors)
	assert.NotEmpty(t, doc.Entities)
}

// canonicalSet collects every minted entity's canonical name, for comparing
// two runs of the same text without depending on entity ID stability.
func canonicalSet(doc Document) map[string]bool {
	out := make(map[string]bool, len(doc.Entities))
	for _, e := range doc.Entities {
		out[e.Canonical] = true
	}
	return out
}

// relationTriples collects (predicate, subject canonical, object canonical)
// for every relation, resolving IDs through the document's own entity list
// so it is comparable across two independently-ID'd runs of the same text.
func relationTriples(doc Document) map[string]bool {
	canon := make(map[string]string, len(doc.Entities))
	for _, e := range doc.Entities {
		canon[e.ID] = e.Canonical
	}
	out := make(map[string]bool, len(doc.Relations))
	for _, r := range doc.Relations {
		subj, obj := r.Subj, r.Obj
		if c, ok := canon[subj]; ok {
			subj = c
		}
		if c, ok := canon[obj]; ok {
			obj = c
		}
		out[r.Pred+"|"+subj+"|"+obj] = true
	}
	return out
}

func TestProcessDocument_RoundTripOnChunkingMatchesSinglePass(t *testing.T) {
	text := "Frodo lived in Rivendell. Frodo taught Sam. Elrond ruled Rivendell. " +
		"Frodo lived in Rivendell again while Sam studied under Elrond."

	single := config.Default()
	p1, err := New(single, 2)
	require.NoError(t, err)
	defer p1.Close()
	singleDoc := p1.ProcessDocument(context.Background(), "doc1", text)

	chunked := config.Default()
	chunked.ChunkSizeWords = 8
	chunked.OverlapChars = 30
	p2, err := New(chunked, 2)
	require.NoError(t, err)
	defer p2.Close()
	chunkedDoc := p2.ProcessDocument(context.Background(), "doc1", text)

	assert.Equal(t, canonicalSet(singleDoc), canonicalSet(chunkedDoc))
	assert.Equal(t, relationTriples(singleDoc), relationTriples(chunkedDoc))
}

// TestProcessDocument_LiteralScenarios runs SPEC_FULL.md §8's six literal
// end-to-end examples through the real pipeline. Each must process without
// error and without panicking; scenarios 1-6 mirror the document order they
// appear in there.
func TestProcessDocument_LiteralScenarios(t *testing.T) {
	scenarios := []struct {
		name string
		text string
	}{
		{"1_self_relation_dropped", "Barty met Barty at Barty's house. Preston saw Barty too."},
		{"2_membership", "Harry and Ron were sorted into Gryffindor."},
		{"3_gender_mismatch_pronoun", "Severus Snape was the head of Slytherin. She was also the head of Ravenclaw."},
		{"4_title_bridging", "President Biden spoke. The president then left."},
		{"5_marriage_and_residence", "Aria and Elias married. The couple lived in Meridian Ridge."},
		{"6_rumor_modality", "It is rumored that Alice betrayed Bob."},
	}

	cfg := config.Default()
	p, err := New(cfg, 2)
	require.NoError(t, err)
	defer p.Close()

	for _, sc := range scenarios {
		t.Run(sc.name, func(t *testing.T) {
			doc := p.ProcessDocument(context.Background(), "scenario-"+sc.name, sc.text)
			assert.Empty(t, doc.Errors)
		})
	}
}

func TestProcessDocument_GenderMismatchPronounDoesNotResolveToWrongEntity(t *testing.T) {
	cfg := config.Default()
	p, err := New(cfg, 2)
	require.NoError(t, err)
	defer p.Close()

	text := "Severus Snape was the head of Slytherin. She was also the head of Ravenclaw."
	doc := p.ProcessDocument(context.Background(), "doc1", text)

	for _, s := range doc.Spans {
		if s.Text == "She" {
			t.Fatalf("pronoun %q should not have resolved against an all-male entity pool", s.Text)
		}
	}
}

func TestProcessDocument_NoErrorsOnShortText(t *testing.T) {
	cfg := config.Default()
	p, err := New(cfg, 2)
	require.NoError(t, err)
	defer p.Close()

	text := "Gandalf arrived at Rivendell. Gandalf spoke with Elrond. " +
		"Gandalf married Galadriel. Elrond is the father of Arwen."

	doc := p.ProcessDocument(context.Background(), "doc1", text)
	assert.Empty(t, doc.Errors)
}

func TestProcess_SatisfiesChunkProcessFunc(t *testing.T) {
	cfg := config.Default()
	p, err := New(cfg, 2)
	require.NoError(t, err)
	defer p.Close()

	chunks := chunkdriver.Split("doc1", "Frodo travelled to Mordor. Frodo spoke with Sam.", cfg)
	require.NotEmpty(t, chunks)

	res, err := p.Process(context.Background(), chunks[0])
	require.NoError(t, err)
	assert.NotNil(t, res.Entities)
}

func TestToGraphInput_CarriesDocID(t *testing.T) {
	doc := Document{}
	in := ToGraphInput("doc42", doc)
	assert.Equal(t, "doc42", in.DocID)
}
