package discovery

import (
	"strings"

	"github.com/google/uuid"
	implicitmatcher "github.com/kittclouds/gokitt/pkg/implicit-matcher"
	"github.com/kittclouds/gokitt/pkg/model"
)

// typePriority ranks candidate kinds, higher first. kindToEntityType and
// MintPromoted map a token's single inferred kind and do not consult it.
var typePriority = map[implicitmatcher.EntityKind]int{
	implicitmatcher.KindCharacter:    6,
	implicitmatcher.KindPlace:        5,
	implicitmatcher.KindFaction:      4,
	implicitmatcher.KindOrganization: 4,
	implicitmatcher.KindItem:         3,
	implicitmatcher.KindEvent:        2,
	implicitmatcher.KindConcept:      1,
	implicitmatcher.KindOther:        0,
}

func kindToEntityType(k implicitmatcher.EntityKind) model.EntityType {
	switch k {
	case implicitmatcher.KindCharacter:
		return model.EntityPerson
	case implicitmatcher.KindPlace:
		return model.EntityPlace
	case implicitmatcher.KindFaction, implicitmatcher.KindOrganization:
		return model.EntityOrg
	case implicitmatcher.KindItem:
		return model.EntityItem
	case implicitmatcher.KindEvent:
		return model.EntityEvent
	default:
		return model.EntityUnknown
	}
}

// Minter turns promoted discovery candidates into minted model.Entity
// records, deferred until a candidate clears the promotion gate so that
// one-off capitalized words never consume an identity.
type Minter struct {
	registry *CandidateRegistry
	minted   map[CanonicalToken]*model.Entity
}

// NewMinter wraps a registry with deferred-minting state.
func NewMinter(r *CandidateRegistry) *Minter {
	return &Minter{registry: r, minted: make(map[CanonicalToken]*model.Entity)}
}

// MintPromoted scans the registry for newly promoted candidates not yet
// minted and returns the freshly created entities. Soft aliasing: a
// promoted surname-only candidate whose display form is a trailing token
// of an already-minted multi-word PERSON canonical is folded as an alias
// of that entity instead of minted separately.
func (m *Minter) MintPromoted() []*model.Entity {
	var fresh []*model.Entity
	for key, stats := range m.registry.Stats {
		if stats.Status != StatusPromoted {
			continue
		}
		if _, already := m.minted[key]; already {
			continue
		}
		if owner := m.findSurnameOwner(stats.Display); owner != nil {
			owner.AddAlias(stats.Display)
			m.minted[key] = owner
			continue
		}

		typ := model.EntityUnknown
		if stats.InferredKind != nil {
			typ = kindToEntityType(*stats.InferredKind)
		}
		e := model.NewEntity(uuid.New().String(), typ, bestCanonical(stats.Display))
		m.minted[key] = e
		fresh = append(fresh, e)
	}
	return fresh
}

// findSurnameOwner looks for an already-minted PERSON entity whose
// canonical form ends with display as its last whitespace-delimited token,
// implementing the surname-subsumption soft-aliasing rule.
func (m *Minter) findSurnameOwner(display string) *model.Entity {
	needle := strings.ToLower(display)
	if strings.Contains(needle, " ") {
		return nil
	}
	for _, e := range m.minted {
		if e.Type != model.EntityPerson {
			continue
		}
		parts := strings.Fields(strings.ToLower(e.Canonical))
		if len(parts) < 2 {
			continue
		}
		if parts[len(parts)-1] == needle {
			return e
		}
	}
	return nil
}

// bestCanonical returns the canonical display form for a freshly minted
// entity: the registry's display form, unchanged. The registry keeps one
// display form per candidate, so no longer variant is chosen.
func bestCanonical(display string) string {
	return display
}

// Entities returns every entity minted so far, deduplicated by identity.
func (m *Minter) Entities() []*model.Entity {
	seen := make(map[*model.Entity]struct{})
	var out []*model.Entity
	for _, e := range m.minted {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}
