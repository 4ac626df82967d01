package graph

import (
	"context"
	"testing"

	"github.com/kittclouds/gokitt/pkg/config"
	"github.com/kittclouds/gokitt/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_MergesExactMatchAcrossDocuments(t *testing.T) {
	cfg := config.Default()
	b := NewBuilder(cfg)

	e1 := model.NewEntity("d1-e1", model.EntityPerson, "Gandalf")
	b.AddDocument(DocumentEntities{DocID: "d1", Entities: []*model.Entity{e1}})

	e2 := model.NewEntity("d2-e1", model.EntityPerson, "Gandalf")
	b.AddDocument(DocumentEntities{DocID: "d2", Entities: []*model.Entity{e2}})

	result := b.Result()
	assert.Len(t, result.Entities, 1)
	assert.Len(t, result.Entities[0].Documents, 2)
}

func TestBuilder_SurnameOnlyMatchMerges(t *testing.T) {
	cfg := config.Default()
	b := NewBuilder(cfg)

	// Candidates are only scored within one (type, first letter) bucket, so
	// both names start with the same letter.
	b.AddDocument(DocumentEntities{DocID: "d1", Entities: []*model.Entity{
		model.NewEntity("d1-e1", model.EntityPerson, "William Weasley"),
	}})
	b.AddDocument(DocumentEntities{DocID: "d2", Entities: []*model.Entity{
		model.NewEntity("d2-e1", model.EntityPerson, "Weasley"),
	}})

	result := b.Result()
	assert.Len(t, result.Entities, 1)
}

func TestBuilder_CrossTypeDoesNotMerge(t *testing.T) {
	cfg := config.Default()
	b := NewBuilder(cfg)

	b.AddDocument(DocumentEntities{DocID: "d1", Entities: []*model.Entity{
		model.NewEntity("d1-e1", model.EntityPlace, "Rivendell"),
	}})
	b.AddDocument(DocumentEntities{DocID: "d2", Entities: []*model.Entity{
		model.NewEntity("d2-e1", model.EntityPerson, "Rivendell"),
	}})

	result := b.Result()
	assert.Len(t, result.Entities, 2)
}

func TestTokens_StripsStopwords(t *testing.T) {
	assert.Equal(t, []string{"kingdom", "gondor"}, tokens("the Kingdom of Gondor"))
}

func TestJaccard_IgnoresStopwordsOnBothSides(t *testing.T) {
	assert.Equal(t, 1.0, jaccard("the Kingdom of Gondor", "Kingdom Gondor"))
}

func TestBuilder_GPEAndPlaceDoMerge(t *testing.T) {
	cfg := config.Default()
	b := NewBuilder(cfg)

	b.AddDocument(DocumentEntities{DocID: "d1", Entities: []*model.Entity{
		model.NewEntity("d1-e1", model.EntityPlace, "Gondor"),
	}})
	b.AddDocument(DocumentEntities{DocID: "d2", Entities: []*model.Entity{
		model.NewEntity("d2-e1", model.EntityGPE, "Gondor"),
	}})

	result := b.Result()
	assert.Len(t, result.Entities, 1)
	assert.Len(t, result.Entities[0].Documents, 2)
}

func TestScore_PersonOrgClashCapsAtPointOne(t *testing.T) {
	cfg := config.DefaultConfidenceTable()
	person := model.NewEntity("e1", model.EntityPerson, "Gondor")
	org := model.NewEntity("e2", model.EntityOrg, "Gondor")

	assert.Equal(t, 0.1, Score(person, org, cfg))
}

func TestBuilder_MergeMonotonicity_SameDocumentTwiceDoublesMentionCount(t *testing.T) {
	cfg := config.Default()
	b := NewBuilder(cfg)

	doc := func() DocumentEntities {
		e := model.NewEntity("d1-e1", model.EntityPerson, "Gandalf")
		e.MentionCount = 3
		return DocumentEntities{DocID: "d1", Entities: []*model.Entity{e}}
	}

	b.AddDocument(doc())
	result := b.Result()
	require.Len(t, result.Entities, 1)
	firstCount := result.Entities[0].MentionCount

	b.AddDocument(doc())
	result = b.Result()
	assert.Len(t, result.Entities, 1)
	assert.Equal(t, firstCount*2, result.Entities[0].MentionCount)
}

func TestBuilder_RelationsRewiredAndDeduped(t *testing.T) {
	cfg := config.Default()
	b := NewBuilder(cfg)

	b.AddDocument(DocumentEntities{
		DocID: "d1",
		Entities: []*model.Entity{
			model.NewEntity("d1-a", model.EntityPerson, "Frodo"),
			model.NewEntity("d1-b", model.EntityPerson, "Sam"),
		},
		Relations: []model.Relation{
			{Subj: "d1-a", Pred: "friend_of", Obj: "d1-b", Confidence: 0.8},
		},
	})
	b.AddDocument(DocumentEntities{
		DocID: "d2",
		Entities: []*model.Entity{
			model.NewEntity("d2-a", model.EntityPerson, "Frodo"),
			model.NewEntity("d2-b", model.EntityPerson, "Sam"),
		},
		Relations: []model.Relation{
			{Subj: "d2-a", Pred: "friend_of", Obj: "d2-b", Confidence: 0.9},
		},
	})

	result := b.Result()
	assert.Len(t, result.Relations, 1)
	assert.Len(t, result.Relations[0].Documents, 2)
	assert.Equal(t, 0.9, result.Relations[0].Confidence)
}

func TestDetectCommunities_ConnectedComponents(t *testing.T) {
	cfg := config.Default()
	b := NewBuilder(cfg)
	b.AddDocument(DocumentEntities{
		DocID: "d1",
		Entities: []*model.Entity{
			model.NewEntity("a", model.EntityPerson, "A"),
			model.NewEntity("b", model.EntityPerson, "B"),
			model.NewEntity("c", model.EntityPerson, "C"),
		},
		Relations: []model.Relation{
			{Subj: "a", Pred: "friend_of", Obj: "b", Confidence: 0.9},
		},
	})

	g := b.Result()
	communities := DetectCommunities(g)
	assert.NotEmpty(t, communities)
}

func TestSummarizeCommunities_Descriptive(t *testing.T) {
	cfg := config.Default()
	b := NewBuilder(cfg)
	b.AddDocument(DocumentEntities{
		DocID: "d1",
		Entities: []*model.Entity{
			model.NewEntity("a", model.EntityPerson, "A"),
			model.NewEntity("b", model.EntityPerson, "B"),
		},
		Relations: []model.Relation{
			{Subj: "a", Pred: "friend_of", Obj: "b", Confidence: 0.9},
		},
	})
	g := b.Result()
	communities := DetectCommunities(g)
	summarized := SummarizeCommunities(context.Background(), communities, g.Entities, DescriptiveSummarizer{}, 2)

	assert.NotEmpty(t, summarized)
	assert.NotEmpty(t, summarized[0].Summary)
}
