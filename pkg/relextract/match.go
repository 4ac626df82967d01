package relextract

import (
	"strings"

	"github.com/kittclouds/gokitt/pkg/model"
)

// EntityResolver resolves a surface substring to zero or more entity IDs,
// limited to allowedTypes when that list is non-empty. ExtractFromSentence
// splits compound "X and Y" text itself before calling it. The pipeline's
// implementation matches canonical names and aliases only; collective
// references and pronouns are not resolved.
type EntityResolver interface {
	ResolveSurface(surface string, allowedTypes []model.EntityType) []string
}

// Relation is one extracted relation before global assembly.
type Relation struct {
	Subj       string
	Pred       Predicate
	Obj        string
	Confidence float64
}

var leadingConjunctionOrArticle = []string{"and ", "but ", "so ", "the ", "a ", "an "}

func normalizeSentence(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	lower := strings.ToLower(s)
	for _, p := range leadingConjunctionOrArticle {
		if strings.HasPrefix(lower, p) {
			return s[len(p):]
		}
	}
	return s
}

// ExtractFromSentence runs the full pattern catalog against one sentence
// and returns every relation it can resolve to entities.
func ExtractFromSentence(sentence string, resolver EntityResolver) []Relation {
	sentence = normalizeSentence(sentence)
	var out []Relation

	for _, p := range Catalog {
		m := p.Cue.FindStringSubmatch(sentence)
		if m == nil {
			continue
		}

		subjText := groupText(m, p.SubjGroup)
		objText := groupText(m, p.ObjGroup)

		confidence := p.Confidence

		if p.ListExtraction {
			subjIDs := resolveCompound(subjText, resolver, p.TypeGuardSubj)
			items := SplitListItems(objText)
			for _, item := range items {
				objIDs := resolver.ResolveSurface(item, typeGuardList(p.TypeGuardObj))
				out = append(out, pairwise(subjIDs, objIDs, p.Predicate, confidence-0.05)...)
			}
			continue
		}

		subjIDs := resolveCompound(subjText, resolver, p.TypeGuardSubj)
		objIDs := resolveCompound(objText, resolver, p.TypeGuardObj)
		if p.Reversed {
			subjIDs, objIDs = objIDs, subjIDs
		}

		// Same-collective detection: identical multi-entity sets on both
		// sides emit pairwise cross-relations without self-loops.
		if sameSet(subjIDs, objIDs) && len(subjIDs) > 1 {
			out = append(out, crossPairs(subjIDs, p.Predicate, confidence)...)
			continue
		}

		if len(subjIDs) > 1 {
			// Coordination: each named subject emits an independent relation
			// against the shared object, mirrored if the predicate is
			// symmetric.
			for _, s := range subjIDs {
				out = append(out, pairwise([]string{s}, objIDs, p.Predicate, confidence)...)
			}
			continue
		}

		out = append(out, pairwise(subjIDs, objIDs, p.Predicate, confidence)...)
	}

	return out
}

func groupText(m []string, idx int) string {
	if idx <= 0 || idx >= len(m) {
		return ""
	}
	return strings.TrimSpace(m[idx])
}

func typeGuardList(t model.EntityType) []model.EntityType {
	if t == model.EntityUnknown {
		return nil
	}
	return []model.EntityType{t}
}

func resolveCompound(text string, resolver EntityResolver, guard model.EntityType) []string {
	if text == "" {
		return nil
	}
	parts := strings.Split(text, " and ")
	var ids []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		ids = append(ids, resolver.ResolveSurface(part, typeGuardList(guard))...)
	}
	return ids
}

func pairwise(subjIDs, objIDs []string, pred Predicate, confidence float64) []Relation {
	var out []Relation
	for _, s := range subjIDs {
		for _, o := range objIDs {
			if s == o {
				continue
			}
			out = append(out, Relation{Subj: s, Pred: pred, Obj: o, Confidence: confidence})
			if IsSymmetric(pred) {
				out = append(out, Relation{Subj: o, Pred: pred, Obj: s, Confidence: confidence})
			}
		}
	}
	return out
}

func crossPairs(ids []string, pred Predicate, confidence float64) []Relation {
	var out []Relation
	for i := range ids {
		for j := range ids {
			if i == j {
				continue
			}
			out = append(out, Relation{Subj: ids[i], Pred: pred, Obj: ids[j], Confidence: confidence})
		}
	}
	return out
}

func sameSet(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return false
	}
	sa := make(map[string]struct{}, len(a))
	for _, x := range a {
		sa[x] = struct{}{}
	}
	for _, x := range b {
		if _, ok := sa[x]; !ok {
			return false
		}
	}
	return true
}
