// Package entitydict is the gazetteer used by the typing cascade: a
// dictionary of known canonical names and alias-prefix lookups, built on
// top of the Aho-Corasick scanner already used for explicit-entity
// matching and extended with a trie for fast "does this prefix begin a
// known alias" queries during incremental parsing.
package entitydict

import (
	"strings"

	"github.com/derekparker/trie/v3"
	implicitmatcher "github.com/kittclouds/gokitt/pkg/implicit-matcher"
)

// Gazetteer is a compiled dictionary of known entity surface forms plus a
// prefix trie over the same surfaces.
type Gazetteer struct {
	dict    *implicitmatcher.RuntimeDictionary
	aliases *trie.Trie
	isPlace map[string]bool // canonical key -> true if a PLACE entry
}

// Build compiles a Gazetteer from registered entities, also noting which
// entries are PLACE kind for the gazetteer-hit type classification.
func Build(entities []implicitmatcher.RegisteredEntity) (*Gazetteer, error) {
	dict, err := implicitmatcher.Compile(entities)
	if err != nil {
		return nil, err
	}

	g := &Gazetteer{
		dict:    dict,
		aliases: trie.New(),
		isPlace: make(map[string]bool),
	}

	for _, e := range entities {
		surfaces := append([]string{e.Label}, e.Aliases...)
		for _, s := range surfaces {
			key := implicitmatcher.CanonicalizeForMatch(s)
			if key == "" {
				continue
			}
			g.aliases.Add(key, e.ID)
			if kindIsPlace(e.Kind) {
				g.isPlace[key] = true
			}
		}
	}

	return g, nil
}

func kindIsPlace(kind interface{}) bool {
	switch v := kind.(type) {
	case implicitmatcher.EntityKind:
		return v == implicitmatcher.KindPlace
	case string:
		return strings.EqualFold(v, "PLACE") || strings.EqualFold(v, "LOCATION")
	default:
		return false
	}
}

// Lookup reports whether surface matches a known entity and, if so,
// whether that entity is a PLACE (used by the gazetteer-hit branch of the
// type classification cascade).
func (g *Gazetteer) Lookup(surface string) (hit bool, isPlace bool) {
	infos := g.dict.Lookup(surface)
	if len(infos) == 0 {
		return false, false
	}
	key := implicitmatcher.CanonicalizeForMatch(surface)
	return true, g.isPlace[key]
}

// HasPrefix reports whether any known alias begins with the given
// (already-canonicalized) prefix, useful for incremental candidate
// pruning while scanning long documents.
func (g *Gazetteer) HasPrefix(prefix string) bool {
	return g.aliases.HasKeysWithPrefix(prefix)
}

// Scan delegates to the underlying Aho-Corasick scanner for explicit
// entity mentions across a document.
func (g *Gazetteer) Scan(text string) []implicitmatcher.Match {
	return g.dict.Scan(text)
}
