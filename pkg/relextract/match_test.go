package relextract

import (
	"testing"

	"github.com/kittclouds/gokitt/pkg/model"
	"github.com/stretchr/testify/assert"
)

type fakeResolver struct {
	ids map[string]string
}

func (f fakeResolver) ResolveSurface(surface string, allowed []model.EntityType) []string {
	if id, ok := f.ids[surface]; ok {
		return []string{id}
	}
	return nil
}

func TestExtract_MarriedSymmetric(t *testing.T) {
	r := fakeResolver{ids: map[string]string{"John": "e1", "Mary": "e2"}}
	rels := ExtractFromSentence("John married Mary.", r)
	assert.NotEmpty(t, rels)

	var forward, reverse bool
	for _, rel := range rels {
		if rel.Pred == MarriedTo && rel.Subj == "e1" && rel.Obj == "e2" {
			forward = true
		}
		if rel.Pred == MarriedTo && rel.Subj == "e2" && rel.Obj == "e1" {
			reverse = true
		}
	}
	assert.True(t, forward)
	assert.True(t, reverse)
}

func TestGuardrails_MarriedExcludesParentChild(t *testing.T) {
	rels := []Relation{
		{Subj: "e1", Pred: MarriedTo, Obj: "e2", Confidence: 0.9},
		{Subj: "e1", Pred: ParentOf, Obj: "e2", Confidence: 0.8},
		{Subj: "e3", Pred: ParentOf, Obj: "e4", Confidence: 0.8},
	}
	out := ApplyGuardrails(rels)
	for _, r := range out {
		assert.False(t, r.Pred == ParentOf && r.Subj == "e1" && r.Obj == "e2")
	}
	found := false
	for _, r := range out {
		if r.Pred == ParentOf && r.Subj == "e3" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestDetectCycle_Acyclic(t *testing.T) {
	rels := []Relation{
		{Subj: "a", Pred: EmployedBy, Obj: "b"},
		{Subj: "b", Pred: EmployedBy, Obj: "c"},
	}
	assert.Nil(t, DetectCycle(rels))
}

func TestDetectCycle_FindsCycle(t *testing.T) {
	rels := []Relation{
		{Subj: "a", Pred: EmployedBy, Obj: "b"},
		{Subj: "b", Pred: EmployedBy, Obj: "c"},
		{Subj: "c", Pred: EmployedBy, Obj: "a"},
	}
	assert.NotNil(t, DetectCycle(rels))
}
