// Package graph implements the global knowledge graph: merging per-document
// entities and relations into a single cross-document graph, and grouping
// the merged entities into communities with deterministic summaries.
package graph

import (
	"strings"

	"github.com/kittclouds/gokitt/pkg/model"
	"github.com/kittclouds/gokitt/pkg/pool"
	"github.com/orsinium-labs/stopwords"
)

var mergeStopwords = stopwords.MustGet("en")

// bucketKey groups candidate entities by (type-class, first letter of
// canonical name) so merge scoring only runs within a bucket instead of
// comparing every pair in the graph. Type-class uses
// EntityType.NormalizedForConsumers so GPE and PLACE entities land in the
// same bucket and are actually scored against each other.
func bucketKey(t model.EntityType, canonical string) string {
	letter := "#"
	c := strings.TrimSpace(canonical)
	if c != "" {
		letter = strings.ToLower(string([]rune(c)[0]))
	}
	return t.NormalizedForConsumers().String() + "|" + letter
}

// tokens splits a name into lowercase words, dropping stopwords so common
// function words ("the", "of") don't inflate Jaccard overlap between
// otherwise unrelated names.
func tokens(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	out := pool.GetStringSlice()
	for _, f := range fields {
		if mergeStopwords.Contains(f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// jaccard computes token-set Jaccard similarity between two name strings.
func jaccard(a, b string) float64 {
	at := tokenSet(a)
	bt := tokenSet(b)
	if len(at) == 0 && len(bt) == 0 {
		return 1
	}
	inter := 0
	for t := range at {
		if _, ok := bt[t]; ok {
			inter++
		}
	}
	union := len(at) + len(bt) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	toks := tokens(s)
	out := make(map[string]struct{}, len(toks))
	for _, t := range toks {
		out[t] = struct{}{}
	}
	pool.PutStringSlice(toks)
	return out
}
