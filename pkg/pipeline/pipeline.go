// Package pipeline orchestrates one document's extraction end to end:
// candidate harvesting and deferred minting, reference resolution,
// pattern-family relation extraction, and assertion building. It plays
// the role the scanning conductor played for the syntax-tag/chunker/
// narrative stack, generalized to the full entity+relation+assertion
// pipeline and wired so it can run standalone or as the per-chunk
// callback the chunked driver dispatches concurrently.
package pipeline

import (
	"context"
	"strings"

	"github.com/kittclouds/gokitt/pkg/assertion"
	"github.com/kittclouds/gokitt/pkg/chunkdriver"
	"github.com/kittclouds/gokitt/pkg/config"
	"github.com/kittclouds/gokitt/pkg/gate"
	"github.com/kittclouds/gokitt/pkg/graph"
	"github.com/kittclouds/gokitt/pkg/model"
	"github.com/kittclouds/gokitt/pkg/parseradapter"
	"github.com/kittclouds/gokitt/pkg/relextract"
	"github.com/kittclouds/gokitt/pkg/scanner/chunker"
	"github.com/kittclouds/gokitt/pkg/scanner/discovery"
	"github.com/kittclouds/gokitt/pkg/scanner/narrative"
	"github.com/kittclouds/gokitt/pkg/scanner/resolver"
	"github.com/kittclouds/gokitt/pkg/segmenter"
	"github.com/kittclouds/gokitt/pkg/typing"
)

// Pipeline holds document-run-independent state: the narrative verb
// lexicon (its FST is expensive to build, so constructed once and reused
// across every document a process handles), the parser adapter that
// supplies sentence boundaries (§6.3), and the promotion threshold passed
// to each run's candidate registry.
type Pipeline struct {
	cfg       config.Config
	matcher   *narrative.NarrativeMatcher
	parser    parseradapter.Parser
	threshold int
}

// New builds a Pipeline using the in-module default parser adapter.
// promotionThreshold is the mention count a candidate must reach before the
// deferred minter promotes it to a full entity (§4.4); 2 mirrors the
// threshold the discovery engine shipped with.
func New(cfg config.Config, promotionThreshold int) (*Pipeline, error) {
	return NewWithParser(cfg, promotionThreshold, parseradapter.NewDefault())
}

// NewWithParser builds a Pipeline against an explicit parser adapter,
// letting a caller substitute a real syntactic parser for the in-module
// default, or inject a failing one to exercise the baselineRequired
// fatal/warning split in tests.
func NewWithParser(cfg config.Config, promotionThreshold int, parser parseradapter.Parser) (*Pipeline, error) {
	m, err := narrative.New()
	if err != nil {
		return nil, err
	}
	if promotionThreshold <= 0 {
		promotionThreshold = 2
	}
	return &Pipeline{cfg: cfg, matcher: m, parser: parser, threshold: promotionThreshold}, nil
}

// Close releases the narrative matcher's backing FST.
func (p *Pipeline) Close() error {
	return p.matcher.Close()
}

// Process runs the full pipeline over one chunk's text and satisfies
// chunkdriver.ProcessFunc, so it can be dispatched by the chunked driver
// across a document's macro-chunks.
func (p *Pipeline) Process(ctx context.Context, c chunkdriver.Chunk) (chunkdriver.ChunkResult, error) {
	entities, spans, relations, assertions, err := p.run(c.Text)
	if err != nil {
		return chunkdriver.ChunkResult{}, err
	}
	return chunkdriver.ChunkResult{
		Entities:   entities,
		Spans:      spans,
		Relations:  relations,
		Assertions: assertions,
	}, nil
}

// Document is the fully processed, document-coordinate-space output: the
// merged entities/spans/relations/assertions plus the events and facts
// promoted from those assertions.
type Document struct {
	Entities   []*model.Entity
	Spans      []model.EntitySpan
	Relations  []model.Relation
	Assertions []model.Assertion
	Events     []model.StoryEvent
	Facts      []model.Fact
	Errors     []error
}

// ProcessDocument splits text into macro-chunks per cfg (chunkdriver.Split
// returns a single chunk for documents under the size budget), drives them
// through Process with bounded concurrency, merges the results, and
// promotes the merged assertions into events and facts.
func (p *Pipeline) ProcessDocument(ctx context.Context, docID, text string) Document {
	merged := chunkdriver.Run(ctx, docID, text, p.cfg, p.Process)
	return Document{
		Entities:   merged.Entities,
		Spans:      merged.Spans,
		Relations:  merged.Relations,
		Assertions: merged.Assertions,
		Events:     assertion.BuildEvents(merged.Assertions),
		Facts:      assertion.BuildFacts(merged.Assertions),
		Errors:     merged.Errors,
	}
}

// ToGraphInput adapts one document's merged result into the shape
// graph.Builder.AddDocument consumes, so ProcessDocument's output can be
// folded straight into a cross-document Graph.
func ToGraphInput(docID string, d Document) graph.DocumentEntities {
	return graph.DocumentEntities{
		DocID:      docID,
		Entities:   d.Entities,
		Relations:  d.Relations,
		Assertions: d.Assertions,
	}
}

// run is the single-pass core: harvest+mint entities, resolve references,
// extract pattern-family relations, and build assertions, all scoped to
// one contiguous piece of text (a whole short document, or one chunk).
//
// Sentence boundaries come from the parser adapter (§6.3). If the adapter
// fails, §7's error-handling contract applies: in baselineRequired mode the
// failure is fatal and wrapped as a typed model.ExtractionError; otherwise
// run falls back to the rule-based segmenter directly and proceeds.
func (p *Pipeline) run(text string) ([]*model.Entity, []model.EntitySpan, []model.Relation, []model.Assertion, error) {
	sentences, err := p.parseSentences(text)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	tagger := chunker.New()
	parsed := make([]chunker.Result, len(sentences))
	for i, s := range sentences {
		parsed[i] = tagger.Chunk(s.Text)
	}

	engine := discovery.NewEngine(p.threshold, p.matcher)
	harvestCandidates(engine, sentences, parsed)
	engine.ScanText(text)

	minter := discovery.NewMinter(engine.Registry)
	entities := minter.MintPromoted()
	refineTypes(entities)

	resolverCtx := resolver.NewContext(p.cfg.Confidence)
	aliases := newAliasIndex(entities)
	for _, e := range entities {
		resolverCtx.Register(resolver.EntityMetadata{
			ID: e.ID, Name: e.Canonical, Gender: e.Gender,
			Aliases: e.AliasList(), Type: e.Type,
		})
	}

	var spans []model.EntitySpan
	var relations []model.Relation
	var raws []assertion.RawRelation

	perSentence := make([][]relextract.Relation, len(sentences))
	var allRels []relextract.Relation
	for si, s := range sentences {
		perSentence[si] = relextract.ExtractFromSentence(s.Text, aliases)
		allRels = append(allRels, perSentence[si]...)
	}
	kept := make(map[relextract.Relation]bool)
	for _, rel := range relextract.ApplyGuardrails(allRels) {
		kept[rel] = true
	}

	for si, s := range sentences {
		res := parsed[si]
		sentSpans := resolveSpans(res, aliases, s.Start, si, resolverCtx, p.cfg.MinCorefConfidence)
		spans = append(spans, sentSpans...)

		for _, rel := range perSentence[si] {
			if !kept[rel] {
				continue
			}
			relations = append(relations, model.Relation{
				Subj:       rel.Subj,
				Pred:       string(rel.Pred),
				Obj:        rel.Obj,
				Confidence: rel.Confidence,
				Evidence: []model.EvidenceSpan{{
					Start: s.Start, End: s.End, SentenceIndex: si,
					Source: model.EvidenceRule,
				}},
				Extractor: model.ExtractorLexical,
			})
			raws = append(raws, assertion.RawRelation{
				Subj: rel.Subj, Pred: rel.Pred, Obj: rel.Obj,
				Confidence:   rel.Confidence,
				SentenceText: s.Text,
				Evidence: model.EvidenceSpan{
					Start: s.Start, End: s.End, SentenceIndex: si,
					Source: model.EvidenceRule,
				},
			})
		}
	}

	assertions := assertion.Build(raws, p.cfg.Confidence, func(model.EvidenceSpan) (string, bool) {
		return "", false
	})

	return entities, spans, relations, assertions, nil
}

// parseSentences runs the configured parser adapter and converts its
// sentence boundaries into segmenter.Sentence, the shape the rest of run
// consumes. A parser failure is fatal in baselineRequired mode (returned as
// a typed model.ExtractionError of kind ErrParserUnavailable) and a
// silent-to-the-caller fallback to direct rule-based segmentation
// otherwise.
func (p *Pipeline) parseSentences(text string) ([]segmenter.Sentence, error) {
	parsed, err := p.parser.Parse(text)
	if err == nil {
		sentences := make([]segmenter.Sentence, len(parsed))
		for i, ps := range parsed {
			sentences[i] = segmenter.Sentence{Start: ps.Start, End: ps.End, Text: ps.Text}
		}
		return sentences, nil
	}

	wrapped := model.NewError(model.ErrParserUnavailable, "parser adapter failed to parse chunk text", err)
	if p.cfg.BaselineRequired {
		return nil, wrapped
	}
	return segmenter.Segment(text), nil
}

// harvestCandidates runs the promotion-gate quality filter (§4.2) over
// every noun-phrase chunk across every sentence, feeding only
// DurableCandidate survivors into the discovery engine's candidate
// registry so minting never promotes pronouns, role-noun fragments, or
// other noise the gate's closed-class cascade recognizes.
func harvestCandidates(engine *discovery.DiscoveryEngine, sentences []segmenter.Sentence, parsed []chunker.Result) {
	for i, res := range parsed {
		before := ""
		if i > 0 {
			before = sentences[i-1].Text + " "
		}
		for _, ch := range res.Chunks {
			if ch.Kind != chunker.NounPhrase {
				continue
			}
			head := ch.HeadText("")
			if head == "" {
				continue
			}

			cand := gate.Candidate{
				Chunk:          ch,
				SentenceStart:  ch.Range.Start == 0,
				PrecedingChars: tailOf(before+sentences[i].Text[:ch.Range.Start], 30),
			}
			if gate.Evaluate(cand).Verdict != gate.DurableCandidate {
				continue
			}
			engine.Registry.AddToken(head)
		}
	}
}

func tailOf(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// refineTypes applies the name-normalization pass to every minted entity's
// canonical form, stamping suffix metadata (Jr/Sr/etc.) the minter's
// coarse kind mapping does not track.
func refineTypes(entities []*model.Entity) {
	for _, e := range entities {
		n := typing.Normalize(e.Canonical)
		if n.Base != "" && n.Base != e.Canonical {
			e.Canonical = n.Base
		}
		typing.ApplyMeta(e, n)
	}
}

// aliasIndex resolves surface text to minted entity IDs by exact,
// case-insensitive alias match, constrained by the allowed-type list
// relextract's pattern catalog attaches to each cue.
type aliasIndex struct {
	byAlias map[string][]*model.Entity
}

func newAliasIndex(entities []*model.Entity) *aliasIndex {
	idx := &aliasIndex{byAlias: make(map[string][]*model.Entity)}
	for _, e := range entities {
		for a := range e.Aliases {
			key := strings.ToLower(a)
			idx.byAlias[key] = append(idx.byAlias[key], e)
		}
	}
	return idx
}

func (a *aliasIndex) ResolveSurface(surface string, allowed []model.EntityType) []string {
	candidates := a.byAlias[strings.ToLower(strings.TrimSpace(surface))]
	if len(candidates) == 0 {
		return nil
	}
	if len(allowed) == 0 {
		out := make([]string, len(candidates))
		for i, e := range candidates {
			out[i] = e.ID
		}
		return out
	}
	var out []string
	for _, e := range candidates {
		for _, t := range allowed {
			if e.Type == t {
				out = append(out, e.ID)
				break
			}
		}
	}
	return out
}

// resolveSpans matches each sentence's noun-phrase and pronoun tokens
// against the minted entities, emitting a span for each hit and feeding
// the resolver context so later pronoun resolution in the same sentence
// (or a following one) has fresh history to resolve against.
func resolveSpans(res chunker.Result, aliases *aliasIndex, sentStart int, sentIdx int, ctx *resolver.Context, minCorefConfidence float64) []model.EntitySpan {
	var spans []model.EntitySpan

	for _, ch := range res.Chunks {
		if ch.Kind != chunker.NounPhrase {
			continue
		}
		head := ch.HeadText("")
		ids := aliases.ResolveSurface(head, nil)
		if len(ids) == 0 {
			continue
		}
		id := ids[0]
		span := model.EntitySpan{
			EntityID:    id,
			Start:       sentStart + ch.Range.Start,
			End:         sentStart + ch.Range.End,
			Text:        head,
			MentionType: model.MentionName,
			Source:      "np",
		}
		spans = append(spans, span)
		ctx.ObserveSpan(resolver.Span{
			Text: head, Start: span.Start, End: span.End,
			SentenceIndex: sentIdx,
		}, id)
	}

	for _, tok := range res.Tokens {
		if tok.POS != chunker.Pronoun {
			continue
		}
		id, confidence := ctx.ResolvePronoun(tok.Text, sentStart+tok.Range.Start, resolver.SentenceMid, nil)
		if id == "" || confidence < minCorefConfidence {
			continue
		}
		spans = append(spans, model.EntitySpan{
			EntityID:    id,
			Start:       sentStart + tok.Range.Start,
			End:         sentStart + tok.Range.End,
			Text:        tok.Text,
			MentionType: model.MentionPronoun,
			Source:      "pronoun",
		})
	}

	return spans
}
