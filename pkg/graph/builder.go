package graph

import (
	"github.com/kittclouds/gokitt/pkg/config"
	"github.com/kittclouds/gokitt/pkg/model"
)

// Graph is the merged, cross-document knowledge graph.
type Graph struct {
	Entities  []*model.GlobalEntity
	Relations []*model.GlobalRelation
}

// Builder incrementally folds per-document entities and relations into a
// single global graph, bucketing candidates by (type, first letter) so a
// newly-merged entity is only scored against the handful of plausible
// matches in its bucket rather than every entity seen so far.
type Builder struct {
	cfg     config.Config
	buckets map[string][]*model.GlobalEntity
	byDoc   map[string]map[string]string // docID -> local entity ID -> global entity ID
	graph   Graph
}

// NewBuilder constructs an empty graph builder.
func NewBuilder(cfg config.Config) *Builder {
	return &Builder{
		cfg:     cfg,
		buckets: make(map[string][]*model.GlobalEntity),
		byDoc:   make(map[string]map[string]string),
	}
}

// AddDocument folds one document's entities and relations into the graph.
func (b *Builder) AddDocument(doc DocumentEntities) {
	remap := make(map[string]string, len(doc.Entities))
	b.byDoc[doc.DocID] = remap

	for _, e := range doc.Entities {
		target := b.findMergeTarget(e)
		if target != nil {
			b.foldInto(target, e, doc.DocID)
			remap[e.ID] = target.ID
			continue
		}
		ge := &model.GlobalEntity{
			Entity:       *e,
			Documents:    map[string]struct{}{doc.DocID: {}},
			Alternatives: map[string][]string{},
		}
		bucket := bucketKey(e.Type, e.Canonical)
		b.buckets[bucket] = append(b.buckets[bucket], ge)
		b.graph.Entities = append(b.graph.Entities, ge)
		remap[e.ID] = ge.ID
	}

	seen := make(map[string]*model.GlobalRelation)
	for _, gr := range b.graph.Relations {
		seen[gr.Key()] = gr
	}

	for _, rel := range doc.Relations {
		rewired := rel
		if id, ok := remap[rel.Subj]; ok {
			rewired.Subj = id
		}
		if id, ok := remap[rel.Obj]; ok {
			rewired.Obj = id
		}
		key := rewired.Key()
		if existing, ok := seen[key]; ok {
			existing.Documents[doc.DocID] = struct{}{}
			if rewired.Confidence > existing.Confidence {
				existing.Confidence = rewired.Confidence
			}
			continue
		}
		gr := &model.GlobalRelation{
			Relation:  rewired,
			Documents: map[string]struct{}{doc.DocID: {}},
		}
		seen[key] = gr
		b.graph.Relations = append(b.graph.Relations, gr)
	}
}

// findMergeTarget scores e against every global entity in its bucket and
// returns the best match clearing cfg.SoftMergeConfidence, or nil if no
// candidate clears the soft threshold.
func (b *Builder) findMergeTarget(e *model.Entity) *model.GlobalEntity {
	bucket := bucketKey(e.Type, e.Canonical)
	var best *model.GlobalEntity
	bestScore := 0.0
	for _, candidate := range b.buckets[bucket] {
		s := Score(&candidate.Entity, e, b.cfg.Confidence)
		if s > bestScore {
			bestScore = s
			best = candidate
		}
	}
	if best == nil || bestScore < b.cfg.SoftMergeConfidence {
		return nil
	}
	return best
}

// foldInto merges e into an existing global entity, recording e's surface
// form as an alternative when the merge is a soft (below hard-threshold)
// match rather than a confident one, per §4.9's guardrail against silently
// discarding a merge decision's uncertainty.
func (b *Builder) foldInto(target *model.GlobalEntity, e *model.Entity, docID string) {
	target.Documents[docID] = struct{}{}
	target.MentionCount += e.MentionCount
	for a := range e.Aliases {
		target.AddAlias(a)
	}

	score := Score(&target.Entity, e, b.cfg.Confidence)
	if score < b.cfg.HardMergeConfidence {
		target.Alternatives[e.Canonical] = append(target.Alternatives[e.Canonical], docID)
	}
}

// Result returns the accumulated graph.
func (b *Builder) Result() Graph {
	return b.graph
}
