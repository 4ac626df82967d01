package chunkdriver

import (
	"strings"

	"github.com/kittclouds/gokitt/pkg/model"
)

// Merge combines per-chunk results into one document-level result:
//   - spans are shifted from chunk-local to document-global offsets via
//     Chunk.OriginStart, and any span lying entirely within a chunk's
//     leading overlap region is dropped (the previous chunk already
//     emitted the same mention from its own non-overlap text);
//   - entities are remapped across chunks by (Type, normalized Canonical)
//     so the same character minted independently in two chunks collapses
//     to a single document-level entity, merging alias sets and mention
//     counts;
//   - relations and assertions have their Subject/Object fields rewired
//     through the entity remap table, and relations are deduplicated by
//     their (pred, subj, obj) triple.
func Merge(results []ChunkResult) DocumentResult {
	remap := make(map[string]string)   // local entity ID -> canonical document entity ID
	byKey := make(map[string]*model.Entity) // (type, normalized canonical) -> merged entity

	var entities []*model.Entity

	for _, r := range results {
		for _, e := range r.Entities {
			if e == nil {
				continue
			}
			key := mergeKey(e.Type, e.Canonical)
			if existing, ok := byKey[key]; ok {
				remap[e.ID] = existing.ID
				existing.MentionCount += e.MentionCount
				for a := range e.Aliases {
					existing.AddAlias(a)
				}
				continue
			}
			byKey[key] = e
			remap[e.ID] = e.ID
			entities = append(entities, e)
		}
	}

	var spans []model.EntitySpan
	for _, r := range results {
		for _, s := range r.Spans {
			if withinOverlap(s, r.Chunk) {
				continue
			}
			s.Start += r.Chunk.OriginStart
			s.End += r.Chunk.OriginStart
			if id, ok := remap[s.EntityID]; ok {
				s.EntityID = id
			}
			spans = append(spans, s)
		}
	}

	seenRel := make(map[string]struct{})
	var relations []model.Relation
	for _, r := range results {
		for _, rel := range r.Relations {
			rel = rewireRelation(rel, remap, r.Chunk.OriginStart)
			key := rel.Key()
			if _, ok := seenRel[key]; ok {
				continue
			}
			seenRel[key] = struct{}{}
			relations = append(relations, rel)
		}
	}

	var assertions []model.Assertion
	for _, r := range results {
		for _, a := range r.Assertions {
			assertions = append(assertions, rewireAssertion(a, remap, r.Chunk.OriginStart))
		}
	}

	return DocumentResult{
		Entities:   entities,
		Spans:      spans,
		Relations:  relations,
		Assertions: assertions,
	}
}

func mergeKey(t model.EntityType, canonical string) string {
	return t.String() + "|" + strings.ToLower(strings.TrimSpace(canonical))
}

// withinOverlap reports whether a span lies entirely within the leading
// overlap region of its chunk, making it a duplicate of a mention the
// previous chunk already surfaced from its own non-overlap text.
func withinOverlap(s model.EntitySpan, c Chunk) bool {
	return c.OverlapChars > 0 && s.End <= c.OverlapChars
}

func rewireRelation(rel model.Relation, remap map[string]string, shift int) model.Relation {
	if id, ok := remap[rel.Subj]; ok {
		rel.Subj = id
	}
	if id, ok := remap[rel.Obj]; ok {
		rel.Obj = id
	}
	for i := range rel.Evidence {
		rel.Evidence[i].Start += shift
		rel.Evidence[i].End += shift
	}
	return rel
}

func rewireAssertion(a model.Assertion, remap map[string]string, shift int) model.Assertion {
	if id, ok := remap[a.Subject]; ok {
		a.Subject = id
	}
	if !a.ObjectIsRaw {
		if id, ok := remap[a.Object]; ok {
			a.Object = id
		}
	}
	for i := range a.Evidence {
		a.Evidence[i].Start += shift
		a.Evidence[i].End += shift
	}
	return a
}
