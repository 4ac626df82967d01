package graph

import (
	"strings"

	"github.com/kittclouds/gokitt/pkg/config"
	"github.com/kittclouds/gokitt/pkg/model"
	"github.com/kittclouds/gokitt/pkg/pool"
)

// DocumentEntities is one document's contribution to the global graph: its
// minted entities, entity spans, relations and assertions, all already in
// document-coordinate space (post chunkdriver.Merge for chunked documents).
type DocumentEntities struct {
	DocID      string
	Entities   []*model.Entity
	Relations  []model.Relation
	Assertions []model.Assertion
}

var schoolWords = map[string]struct{}{
	"school": {}, "university": {}, "college": {}, "academy": {}, "institute": {},
}

// Score computes a merge-candidacy score in [0,1] for two entities from
// possibly different documents, following the cascade: a cross-type pair
// (compared after NormalizedForConsumers, so GPE and PLACE count as one
// type) is capped low, at MergeOrgPersonClashCap for PERSON/ORG and
// MergeCrossTypeClashCap otherwise, even when the names are identical;
// an exact match then short-circuits to 1.0; otherwise token Jaccard
// overlap is combined with name-shape bonuses (same first+last name,
// surname-only match, school-variant match, high raw token overlap) and a
// length-mismatch penalty.
func Score(a, b *model.Entity, cfg config.ConfidenceTable) float64 {
	classA, classB := a.Type.NormalizedForConsumers(), b.Type.NormalizedForConsumers()
	if classA != classB {
		if isOrgPersonClash(classA, classB) {
			return cfg.MergeOrgPersonClashCap
		}
		return cfg.MergeCrossTypeClashCap
	}

	canonA := strings.ToLower(strings.TrimSpace(a.Canonical))
	canonB := strings.ToLower(strings.TrimSpace(b.Canonical))
	if canonA == canonB {
		return cfg.MergeExactMatch
	}

	j := jaccard(canonA, canonB)
	score := j * cfg.MergeJaccardFloorScale
	if score > 1 {
		score = 1
	}

	ta, tb := tokens(canonA), tokens(canonB)
	defer pool.PutStringSlice(ta)
	defer pool.PutStringSlice(tb)

	if sameFirstLastName(ta, tb) {
		score = max(score, cfg.MergeSameFirstLastName)
	}
	if surnameOnlyMatch(ta, tb) {
		score = max(score, cfg.MergeSurnameOnlyMatch)
	}
	if schoolVariantMatch(canonA, canonB) {
		score = max(score, cfg.MergeSchoolVariantMatch)
	}
	if strings.Contains(canonA, canonB) || strings.Contains(canonB, canonA) {
		if j >= 0.5 {
			score = max(score, cfg.MergeSubstringHighJaccard)
		}
	}
	if j >= 0.75 {
		score = max(score, cfg.MergeHighTokenOverlap)
	}

	if lengthMismatch(ta, tb) {
		score = min(score, cfg.MergeLengthMismatchCap)
	}

	return score
}

func isOrgPersonClash(a, b model.EntityType) bool {
	isOrgOrPerson := func(t model.EntityType) bool {
		return t == model.EntityOrg || t == model.EntityPerson
	}
	return isOrgOrPerson(a) && isOrgOrPerson(b)
}

func sameFirstLastName(a, b []string) bool {
	if len(a) < 2 || len(b) < 2 {
		return false
	}
	return a[0] == b[0] && a[len(a)-1] == b[len(b)-1]
}

// surnameOnlyMatch reports whether one name is a bare last-token surname and
// the other is a multi-token name sharing that last token ("Weasley" vs
// "Ron Weasley").
func surnameOnlyMatch(a, b []string) bool {
	if len(a) == 1 && len(b) > 1 {
		return a[0] == b[len(b)-1]
	}
	if len(b) == 1 && len(a) > 1 {
		return b[0] == a[len(a)-1]
	}
	return false
}

func schoolVariantMatch(a, b string) bool {
	return hasSchoolWord(a) && hasSchoolWord(b) && jaccard(a, b) >= 0.5
}

func hasSchoolWord(s string) bool {
	toks := tokens(s)
	defer pool.PutStringSlice(toks)
	for _, t := range toks {
		if _, ok := schoolWords[t]; ok {
			return true
		}
	}
	return false
}

func lengthMismatch(a, b []string) bool {
	la, lb := len(a), len(b)
	if la == 0 || lb == 0 {
		return false
	}
	longer, shorter := la, lb
	if shorter > longer {
		longer, shorter = shorter, longer
	}
	return longer >= shorter*3
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
