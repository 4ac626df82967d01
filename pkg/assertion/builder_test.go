package assertion

import (
	"testing"

	"github.com/kittclouds/gokitt/pkg/config"
	"github.com/kittclouds/gokitt/pkg/model"
	"github.com/stretchr/testify/assert"
)

func noSpeaker(model.EvidenceSpan) (string, bool) { return "", false }

func TestBuild_PlainFactHasNarratorAttributionAndFullConfidence(t *testing.T) {
	cfg := config.DefaultConfidenceTable()
	raws := []RawRelation{
		{Subj: "e1", Pred: "friend_of", Obj: "e2", Confidence: 0.9, SentenceText: "Frodo is friends with Sam."},
	}

	out := Build(raws, cfg, noSpeaker)
	assert.Len(t, out, 1)
	assert.Equal(t, model.AttribNarrator, out[0].Attribution.Source)
	assert.Equal(t, model.ModalityFact, out[0].Modality)
	assert.InDelta(t, 0.9*cfg.AttributionNarrator, out[0].Confidence.Composite, 1e-9)
}

func TestBuild_DialogueWithKnownSpeakerUsesCharacterAttribution(t *testing.T) {
	cfg := config.DefaultConfidenceTable()
	raws := []RawRelation{
		{Subj: "e1", Pred: "warns", Obj: "e2", Confidence: 1.0, SentenceText: `"Run!" Gandalf shouted.`},
	}

	knownSpeaker := func(model.EvidenceSpan) (string, bool) { return "gandalf", true }
	out := Build(raws, cfg, knownSpeaker)

	assert.Equal(t, model.AttribCharacter, out[0].Attribution.Source)
	assert.Equal(t, "gandalf", out[0].Attribution.Character)
	assert.True(t, out[0].Attribution.IsDialogue)
}

func TestBuild_DialogueWithUnknownSpeakerIsCharacterAttributionWithEmptyCharacter(t *testing.T) {
	cfg := config.DefaultConfidenceTable()
	raws := []RawRelation{
		{Subj: "e1", Pred: "warns", Obj: "e2", Confidence: 1.0, SentenceText: `"Run!" someone shouted.`},
	}

	out := Build(raws, cfg, noSpeaker)
	assert.Equal(t, model.AttribCharacter, out[0].Attribution.Source)
	assert.Empty(t, out[0].Attribution.Character)
	assert.True(t, out[0].Attribution.IsDialogue)
	assert.InDelta(t, 1.0*cfg.AttributionDialogueUnknownSpeaker, out[0].Confidence.Composite, 1e-9)
}

func TestBuild_ModalityMarkerOverridesFact(t *testing.T) {
	cfg := config.DefaultConfidenceTable()
	raws := []RawRelation{
		{Subj: "e1", Pred: "betrayed", Obj: "e2", Confidence: 0.7, SentenceText: "It was rumored that he betrayed them."},
	}

	out := Build(raws, cfg, noSpeaker)
	assert.Equal(t, model.ModalityRumor, out[0].Modality)
}

func TestBuild_UnresolvedPronounObjectPenalizesConfidence(t *testing.T) {
	cfg := config.DefaultConfidenceTable()
	raws := []RawRelation{
		{Subj: "e1", Pred: "saw", Obj: "him", ObjectIsRaw: true, Confidence: 0.8, SentenceText: "Frodo saw him."},
	}

	out := Build(raws, cfg, noSpeaker)
	want := 0.8 * cfg.AttributionNarrator * (1 - cfg.UnresolvedPronounPenalty)
	assert.InDelta(t, want, out[0].Confidence.Composite, 1e-9)
}

func TestBuildEvents_PromotesRecognizedEventPredicate(t *testing.T) {
	assertions := []model.Assertion{
		{Subject: "frodo", Predicate: "travels_to", Object: "mordor", Modality: model.ModalityFact},
		{Subject: "frodo", Predicate: "friend_of", Object: "sam", Modality: model.ModalityFact},
	}

	events := BuildEvents(assertions)
	assert.Len(t, events, 1)
	assert.Equal(t, model.EventMove, events[0].Type)
}

func TestBuildEvents_SkipsNonFactModality(t *testing.T) {
	assertions := []model.Assertion{
		{Subject: "frodo", Predicate: "travels_to", Object: "mordor", Modality: model.ModalityRumor},
	}
	assert.Empty(t, BuildEvents(assertions))
}

func TestBuildFacts_DedupesByPredicateSubjectObject(t *testing.T) {
	assertions := []model.Assertion{
		{Subject: "frodo", Predicate: "friend_of", Object: "sam"},
		{Subject: "frodo", Predicate: "friend_of", Object: "sam"},
		{Subject: "frodo", Predicate: "friend_of", Object: "pippin"},
	}

	facts := BuildFacts(assertions)
	assert.Len(t, facts, 2)
}

func TestBuildFacts_SkipsRawUnresolvedObjects(t *testing.T) {
	assertions := []model.Assertion{
		{Subject: "frodo", Predicate: "saw", Object: "him", ObjectIsRaw: true},
	}
	assert.Empty(t, BuildFacts(assertions))
}
