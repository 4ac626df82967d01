// Package assertion implements the three-pass assertion builder: raw
// relations become Assertions carrying attribution, modality, and a
// confidence penalty for unresolved pronoun or group-placeholder objects,
// then are promoted to events and facts.
package assertion

import (
	"regexp"
	"strings"

	"github.com/kittclouds/gokitt/pkg/config"
	"github.com/kittclouds/gokitt/pkg/model"
	"github.com/kittclouds/gokitt/pkg/relextract"
)

// RawRelation is the input to the builder: one extracted relation plus
// the sentence context it came from.
type RawRelation struct {
	Subj          string // entity ID or raw text if ObjectIsRaw/unresolved
	Pred          relextract.Predicate
	Obj           string
	ObjectIsRaw   bool
	Confidence    float64
	SentenceText  string
	Evidence      model.EvidenceSpan
	Extractor     model.ExtractorKind
}

// Build runs the three deterministic passes over a batch of raw relations
// for one document. The function is idempotent: Build(Build(A)) produces
// identical Assertions to Build(A), since each pass only reads from the
// raw relation and already-set assertion fields, never appending based on
// its own prior output.
func Build(raws []RawRelation, cfg config.ConfidenceTable, knownSpeaker func(model.EvidenceSpan) (string, bool)) []model.Assertion {
	out := make([]model.Assertion, len(raws))
	for i, r := range raws {
		out[i] = model.Assertion{
			ID:           assertionID(i),
			Subject:      r.Subj,
			Predicate:    string(r.Pred),
			Object:       r.Obj,
			ObjectIsRaw:  r.ObjectIsRaw,
			Evidence:     []model.EvidenceSpan{r.Evidence},
			Confidence:   model.Confidence{Semantic: r.Confidence, Composite: r.Confidence},
			CompilerPass: 0,
		}
	}

	passAttribution(out, raws, cfg, knownSpeaker)
	passModality(out, raws, cfg)
	passReferenceResolution(out, raws, cfg)

	return out
}

func assertionID(i int) string {
	return "assertion-" + itoa(i)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	digits := []byte{}
	neg := i < 0
	if neg {
		i = -i
	}
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}

var dialogueQuote = regexp.MustCompile(`"[^"]+"`)

// passAttribution (pass A) decides whether an assertion's content is
// narrator-stated or character-stated dialogue/thought, per §4.7.
func passAttribution(out []model.Assertion, raws []RawRelation, cfg config.ConfidenceTable, knownSpeaker func(model.EvidenceSpan) (string, bool)) {
	for i := range out {
		r := raws[i]
		isDialogue := dialogueQuote.MatchString(r.SentenceText)

		att := model.Attribution{Source: model.AttribNarrator, IsDialogue: isDialogue}
		confidence := cfg.AttributionNarrator

		if isDialogue {
			if speaker, ok := knownSpeaker(r.Evidence); ok && speaker != "" {
				att.Source = model.AttribCharacter
				att.Character = speaker
				confidence = cfg.AttributionDialogueKnownSpeaker
			} else {
				att.Source = model.AttribCharacter
				confidence = cfg.AttributionDialogueUnknownSpeaker
			}
		}

		out[i].Attribution = att
		out[i].Confidence.Composite = out[i].Confidence.Semantic * confidence
		out[i].CompilerPass = 1
	}
}

// modalityMarkers is checked in order; the first marker found wins.
var modalityMarkers = []struct {
	marker   string
	modality model.Modality
}{
	{"claimed", model.ModalityClaim},
	{"believed", model.ModalityBelief},
	{"thought", model.ModalityBelief},
	{"never", model.ModalityNegated},
	{"did not", model.ModalityNegated},
	{"didn't", model.ModalityNegated},
	{"rumored", model.ModalityRumor},
	{"said to", model.ModalityRumor},
	{"planned", model.ModalityPlan},
	{"intended", model.ModalityPlan},
}

// passModality (pass B) classifies the epistemic status of each
// assertion from lexical markers in its source sentence.
func passModality(out []model.Assertion, raws []RawRelation, cfg config.ConfidenceTable) {
	for i := range out {
		lower := strings.ToLower(raws[i].SentenceText)
		modality := model.ModalityFact
		for _, mm := range modalityMarkers {
			if strings.Contains(lower, mm.marker) {
				modality = mm.modality
				break
			}
		}
		out[i].Modality = modality
		out[i].CompilerPass = 2
	}
}

// passReferenceResolution (pass C) penalizes Composite confidence for a
// raw object that is a group placeholder or a third-person pronoun. It does
// not resolve such objects: Object keeps the raw text and ObjectIsRaw stays
// set.
func passReferenceResolution(out []model.Assertion, raws []RawRelation, cfg config.ConfidenceTable) {
	for i := range out {
		r := raws[i]
		if r.ObjectIsRaw {
			if looksLikeGroupPlaceholder(r.Obj) {
				out[i].Confidence.Composite *= (1 - cfg.GroupPlaceholderPenalty)
			} else if looksLikeUnresolvedPronoun(r.Obj) {
				out[i].Confidence.Composite *= (1 - cfg.UnresolvedPronounPenalty)
			}
		}
		out[i].CompilerPass = 3
	}
}

func looksLikeGroupPlaceholder(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "the couple", "the pair", "they", "the group", "the family":
		return true
	default:
		return false
	}
}

func looksLikeUnresolvedPronoun(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "he", "she", "it", "him", "her", "them", "his", "hers", "its", "their":
		return true
	default:
		return false
	}
}
