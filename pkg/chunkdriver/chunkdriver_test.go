package chunkdriver

import (
	"context"
	"strings"
	"testing"

	"github.com/kittclouds/gokitt/pkg/config"
	"github.com/kittclouds/gokitt/pkg/model"
	"github.com/stretchr/testify/assert"
)

func TestSplit_UnderBudgetIsSingleChunk(t *testing.T) {
	cfg := config.Default()
	chunks := Split("doc1", "a short paragraph of text.", cfg)
	assert.Len(t, chunks, 1)
	assert.Equal(t, "doc1#0", chunks[0].DocID)
}

func TestSplit_OverBudgetSplitsOnParagraphs(t *testing.T) {
	cfg := config.Default()
	cfg.ChunkSizeWords = 10
	cfg.OverlapChars = 5

	para := strings.Repeat("word ", 12)
	text := para + "\n\n" + para + "\n\n" + para
	chunks := Split("doc1", text, cfg)

	assert.Greater(t, len(chunks), 1)
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.Contains(t, c.DocID, "doc1#")
	}
}

func TestMerge_DedupesEntitiesAcrossChunks(t *testing.T) {
	e1 := model.NewEntity("c0-e1", model.EntityPerson, "Gandalf")
	e2 := model.NewEntity("c1-e1", model.EntityPerson, "Gandalf")

	results := []ChunkResult{
		{
			Chunk:    Chunk{Index: 0, OriginStart: 0},
			Entities: []*model.Entity{e1},
			Spans: []model.EntitySpan{
				{EntityID: "c0-e1", Start: 0, End: 7, Text: "Gandalf"},
			},
		},
		{
			Chunk:    Chunk{Index: 1, OriginStart: 100},
			Entities: []*model.Entity{e2},
			Spans: []model.EntitySpan{
				{EntityID: "c1-e1", Start: 0, End: 7, Text: "Gandalf"},
			},
		},
	}

	merged := Merge(results)
	assert.Len(t, merged.Entities, 1)
	assert.Len(t, merged.Spans, 2)
	assert.Equal(t, merged.Entities[0].ID, merged.Spans[0].EntityID)
	assert.Equal(t, merged.Entities[0].ID, merged.Spans[1].EntityID)
	assert.Equal(t, 100, merged.Spans[1].Start)
}

func TestMerge_DropsOverlapDuplicateSpans(t *testing.T) {
	results := []ChunkResult{
		{
			Chunk: Chunk{Index: 0, OriginStart: 0, OverlapChars: 20},
			Spans: []model.EntitySpan{
				{EntityID: "e1", Start: 2, End: 9, Text: "Gandalf"},
			},
		},
	}
	merged := Merge(results)
	assert.Empty(t, merged.Spans)
}

func TestMerge_DedupesRelationsByKey(t *testing.T) {
	rel := model.Relation{Subj: "e1", Pred: "married_to", Obj: "e2"}
	results := []ChunkResult{
		{Chunk: Chunk{Index: 0}, Relations: []model.Relation{rel}},
		{Chunk: Chunk{Index: 1}, Relations: []model.Relation{rel}},
	}
	merged := Merge(results)
	assert.Len(t, merged.Relations, 1)
}

func TestRun_ProcessesAllChunksConcurrently(t *testing.T) {
	cfg := config.Default()
	cfg.ChunkSizeWords = 5
	cfg.ChunkWorkers = 2

	text := strings.Repeat("one two three four five six\n\n", 4)
	res := Run(context.Background(), "doc1", text, cfg, func(ctx context.Context, c Chunk) (ChunkResult, error) {
		return ChunkResult{
			Entities: []*model.Entity{model.NewEntity(c.DocID+"-e0", model.EntityPerson, "X")},
		}, nil
	})

	assert.Empty(t, res.Errors)
	assert.NotEmpty(t, res.Entities)
}
