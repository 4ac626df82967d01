package typing

import (
	"strings"

	"github.com/kittclouds/gokitt/pkg/config"
	"github.com/kittclouds/gokitt/pkg/model"
)

// OrgKeywords and PlaceKeywords are the enumerated keyword-cue sets (§4.3b).
var OrgKeywords = []string{
	"company", "corporation", "corp", "inc", "llc", "ltd", "guild", "order", "faction",
	"army", "navy", "council", "committee", "agency", "bureau", "department", "ministry",
	"school", "university", "college", "academy", "church", "temple", "society", "union",
	"league", "clan", "tribe", "house", "crew", "gang",
}

var PlaceKeywords = []string{
	"city", "town", "village", "kingdom", "empire", "island", "mountain", "river", "lake",
	"sea", "ocean", "forest", "valley", "castle", "palace", "fort", "province", "region",
	"district", "county", "state", "country", "continent", "street", "road", "avenue",
}

var schoolContextWords = map[string]struct{}{
	"student": {}, "teacher": {}, "principal": {}, "school": {}, "class": {},
	"hall": {}, "cafeteria": {}, "gym": {}, "campus": {},
}

var blockedPersonHeads = map[string]struct{}{
	"group": {}, "team": {}, "crowd": {}, "committee": {}, "family": {},
}

var placeHeadwords = map[string]struct{}{
	"river": {}, "school": {}, "street": {}, "mountain": {}, "lake": {}, "sea": {},
}

// Classification is the cascade's output.
type Classification struct {
	Type       model.EntityType
	Confidence float64
}

// Input bundles everything the cascade needs, all already resolved by
// earlier stages (NER prior, gazetteer hit, context window, grammatical
// cues).
type Input struct {
	Normalized        Normalized
	Tokens            []string // normalized base tokens
	SurroundingWindow []string // ±3 token window around the mention
	GazetteerHit      bool
	GazetteerIsPlace  bool
	NERLabel          string // "PERSON","ORG","GPE","LOC", or ""
	HasDeterminer     bool
	IsPossessiveForm  bool
	AttachedOnlyFragment bool
}

// Classify runs the strict decision cascade in §4.3.
func Classify(in Input, conf config.ConfidenceTable) Classification {
	if in.GazetteerHit {
		t := model.EntityUnknown
		if in.GazetteerIsPlace {
			t = model.EntityPlace
		} else {
			t = model.EntityOrg
		}
		return Classification{Type: t, Confidence: conf.TypeGazetteerHit}
	}

	// (a) Jr/Junior disambiguation.
	if in.Normalized.Suffix != "" && isJuniorSuffix(in.Normalized.Suffix) && len(in.Tokens) >= 1 {
		if hasSchoolContext(in.SurroundingWindow) && looksLikePlaceRoot(in.Tokens) {
			return Classification{Type: model.EntityOrg, Confidence: conf.TypeStrongKeyword}
		}
		if countCapitalized(in.Tokens) >= 2 {
			return Classification{Type: model.EntityPerson, Confidence: conf.TypeSuffixPerson}
		}
	}

	// (b) Keyword cues.
	orgHint := wordBoundaryAny(in.Tokens, OrgKeywords)
	placeHint := wordBoundaryAny(in.Tokens, PlaceKeywords)
	if orgHint && !placeHint {
		return Classification{Type: model.EntityOrg, Confidence: conf.TypeStrongKeyword}
	}
	if placeHint && !orgHint {
		return Classification{Type: model.EntityPlace, Confidence: conf.TypeStrongKeyword}
	}

	tentative := model.EntityUnknown
	// (c) NER soft prior, only consulted when keyword cues are silent.
	if !orgHint && !placeHint {
		tentative = nerToType(in.NERLabel)
	}

	// (d) Single-token attached-only fragment suppression.
	if len(in.Tokens) == 1 && in.AttachedOnlyFragment {
		return Classification{Type: model.EntityUnknown, Confidence: conf.TypeCapitalization}
	}

	// (e) PERSON check.
	if tentative == model.EntityPerson {
		if !looksLikePersonName(in.Tokens, in.HasDeterminer) {
			tentative = model.EntityUnknown
		}
	}

	// (f) Fallback.
	if tentative == model.EntityUnknown {
		if strongNER := nerToType(in.NERLabel); strongNER != model.EntityUnknown {
			tentative = strongNER
		}
	}
	tentative = tentative.NormalizedForConsumers()

	conf2 := conf.TypeCapitalization
	if tentative != model.EntityUnknown {
		conf2 = conf.TypeCapitalization
	}
	return Classification{Type: tentative, Confidence: conf2}
}

func isJuniorSuffix(s string) bool {
	ls := strings.ToLower(strings.TrimRight(s, "."))
	return ls == "jr" || ls == "junior"
}

func hasSchoolContext(window []string) bool {
	for _, w := range window {
		if _, ok := schoolContextWords[strings.ToLower(w)]; ok {
			return true
		}
	}
	return false
}

func looksLikePlaceRoot(tokens []string) bool {
	for _, t := range tokens {
		if _, ok := placeHeadwords[strings.ToLower(t)]; ok {
			return true
		}
	}
	return false
}

func countCapitalized(tokens []string) int {
	n := 0
	for _, t := range tokens {
		if t != "" && t[0] >= 'A' && t[0] <= 'Z' {
			n++
		}
	}
	return n
}

func wordBoundaryAny(tokens []string, keywords []string) bool {
	kw := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		kw[k] = struct{}{}
	}
	for _, t := range tokens {
		if _, ok := kw[strings.ToLower(t)]; ok {
			return true
		}
	}
	return false
}

func nerToType(label string) model.EntityType {
	switch label {
	case "PERSON":
		return model.EntityPerson
	case "ORG":
		return model.EntityOrg
	case "GPE":
		return model.EntityGPE
	case "LOC":
		return model.EntityPlace
	default:
		return model.EntityUnknown
	}
}

func looksLikePersonName(tokens []string, hasDeterminer bool) bool {
	if hasDeterminer {
		return false
	}
	if len(tokens) == 0 {
		return false
	}
	if _, blocked := blockedPersonHeads[strings.ToLower(tokens[len(tokens)-1])]; blocked {
		return false
	}
	for _, t := range tokens {
		if t == "" || !(t[0] >= 'A' && t[0] <= 'Z') {
			return false
		}
	}
	return true
}
