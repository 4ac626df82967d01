// Package model defines the shared data model for the extraction and
// consolidation engine: entities, spans, relations, assertions, events,
// facts, and their global (cross-document) counterparts.
package model

import "fmt"

// EntityType is the closed set of entity kinds the engine can mint.
type EntityType int

const (
	EntityUnknown EntityType = iota
	EntityPerson
	EntityOrg
	EntityPlace
	EntityGPE
	EntityEvent
	EntityWork
	EntityItem
	EntityArtifact
	EntityHouse
	EntityTribe
	EntitySpecies
	EntityTitle
	EntityDate
	EntityTime
)

func (t EntityType) String() string {
	switch t {
	case EntityPerson:
		return "PERSON"
	case EntityOrg:
		return "ORG"
	case EntityPlace:
		return "PLACE"
	case EntityGPE:
		return "GPE"
	case EntityEvent:
		return "EVENT"
	case EntityWork:
		return "WORK"
	case EntityItem:
		return "ITEM"
	case EntityArtifact:
		return "ARTIFACT"
	case EntityHouse:
		return "HOUSE"
	case EntityTribe:
		return "TRIBE"
	case EntitySpecies:
		return "SPECIES"
	case EntityTitle:
		return "TITLE"
	case EntityDate:
		return "DATE"
	case EntityTime:
		return "TIME"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON renders the type as its canonical string form.
func (t EntityType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// NormalizedForConsumers collapses GPE to PLACE for downstream consumers,
// per the Entity Quality & Typing fallback rule.
func (t EntityType) NormalizedForConsumers() EntityType {
	if t == EntityGPE {
		return EntityPlace
	}
	return t
}

// Gender is the inferred gender of a PERSON entity, used by the resolver's
// pronoun gender/number constraints.
type Gender int

const (
	GenderUnknown Gender = iota
	GenderMale
	GenderFemale
	GenderNeutral
	GenderPlural
)

func (g Gender) String() string {
	switch g {
	case GenderMale:
		return "male"
	case GenderFemale:
		return "female"
	case GenderNeutral:
		return "neutral"
	case GenderPlural:
		return "plural"
	default:
		return "unknown"
	}
}

// MentionType classifies how a span refers to its entity.
type MentionType int

const (
	MentionName MentionType = iota
	MentionTitle
	MentionNominal
	MentionPronoun
	MentionQuote
)

func (m MentionType) String() string {
	switch m {
	case MentionTitle:
		return "title"
	case MentionNominal:
		return "nominal"
	case MentionPronoun:
		return "pronoun"
	case MentionQuote:
		return "quote"
	default:
		return "name"
	}
}

// Entity is a minted, canonical actor in a single document's extraction.
// Invariant: Canonical must be present in Aliases.
type Entity struct {
	ID            string
	Type          EntityType
	Canonical     string
	Aliases       map[string]struct{}
	Confidence    float64
	Attrs         map[string]any
	Meta          map[string]any
	BookNLPID     string
	EID           string
	MentionCount  int
	Gender        Gender
}

// NewEntity constructs an entity satisfying the canonical-in-aliases invariant.
func NewEntity(id string, typ EntityType, canonical string) *Entity {
	e := &Entity{
		ID:        id,
		Type:      typ,
		Canonical: canonical,
		Aliases:   map[string]struct{}{canonical: {}},
		Attrs:     map[string]any{},
		Meta:      map[string]any{},
	}
	return e
}

// AddAlias records an additional surface form, keeping the invariant intact.
func (e *Entity) AddAlias(alias string) {
	if alias == "" {
		return
	}
	e.Aliases[alias] = struct{}{}
}

// AliasList returns the alias set as a sorted-free slice (order not guaranteed).
func (e *Entity) AliasList() []string {
	out := make([]string, 0, len(e.Aliases))
	for a := range e.Aliases {
		out = append(out, a)
	}
	return out
}

// EntitySpan anchors one mention of an entity to a character range.
// Invariant: Start < End.
type EntitySpan struct {
	EntityID    string
	Start       int
	End         int
	Text        string
	MentionType MentionType
	Source      string
}

func (s EntitySpan) Valid() bool { return s.Start < s.End && s.Text != "" }

// ExtractorKind records which relation extractor produced a Relation.
type ExtractorKind int

const (
	ExtractorRegex ExtractorKind = iota
	ExtractorDep
	ExtractorLexical
	ExtractorNarrative
	ExtractorPossessive
)

func (k ExtractorKind) String() string {
	switch k {
	case ExtractorDep:
		return "dep"
	case ExtractorLexical:
		return "lexical"
	case ExtractorNarrative:
		return "narrative"
	case ExtractorPossessive:
		return "possessive"
	default:
		return "regex"
	}
}

// EvidenceSource distinguishes who produced an evidence span.
type EvidenceSource int

const (
	EvidenceRule EvidenceSource = iota
	EvidenceDep
	EvidenceLLM
)

func (s EvidenceSource) String() string {
	switch s {
	case EvidenceDep:
		return "DEP"
	case EvidenceLLM:
		return "LLM"
	default:
		return "RULE"
	}
}

// EvidenceSpan is a pointer back into source text supporting a relation or
// assertion.
type EvidenceSpan struct {
	DocID         string
	Start         int
	End           int
	SentenceIndex int
	Source        EvidenceSource
}

// Relation is a typed, evidenced link between two entities.
type Relation struct {
	ID         string
	Subj       string
	Pred       string
	Obj        string
	Confidence float64
	Evidence   []EvidenceSpan
	Extractor  ExtractorKind
}

// Key returns the (pred, subj, obj) triple used for dedup across chunks and
// global-graph rewiring.
func (r Relation) Key() string {
	return fmt.Sprintf("%s|%s|%s", r.Pred, r.Subj, r.Obj)
}

// AttributionSource is who is asserting an Assertion.
type AttributionSource int

const (
	AttribNarrator AttributionSource = iota
	AttribCharacter
	AttribUnknown
)

func (a AttributionSource) String() string {
	switch a {
	case AttribCharacter:
		return "CHARACTER"
	case AttribUnknown:
		return "UNKNOWN"
	default:
		return "NARRATOR"
	}
}

// Attribution records who is making an assertion and how reliable they are.
type Attribution struct {
	Source      AttributionSource
	Character   string
	Reliability float64
	IsDialogue  bool
	IsThought   bool
}

// Modality is the epistemic status of an Assertion.
type Modality int

const (
	ModalityFact Modality = iota
	ModalityBelief
	ModalityClaim
	ModalityRumor
	ModalityPlan
	ModalityNegated
)

func (m Modality) String() string {
	switch m {
	case ModalityBelief:
		return "BELIEF"
	case ModalityClaim:
		return "CLAIM"
	case ModalityRumor:
		return "RUMOR"
	case ModalityPlan:
		return "PLAN"
	case ModalityNegated:
		return "NEGATED"
	default:
		return "FACT"
	}
}

// Confidence holds the two confidence tracks an Assertion carries through
// the three-pass builder.
type Confidence struct {
	Semantic  float64
	Composite float64
}

// Floor clamps both fields to zero.
func (c *Confidence) Floor() {
	if c.Semantic < 0 {
		c.Semantic = 0
	}
	if c.Composite < 0 {
		c.Composite = 0
	}
}

// Assertion is an epistemically-qualified claim produced by the three-pass
// builder. CompilerPass records the highest pass index that has touched it,
// supporting the idempotence property build(build(A)) = build(A).
type Assertion struct {
	ID          string
	Subject     string
	Predicate   string
	Object      string
	ObjectIsRaw bool // true when Object is an unresolved surface string, not an EntityId
	Evidence    []EvidenceSpan
	Confidence  Confidence
	Attribution Attribution
	Modality    Modality
	CompilerPass int
}

// EventType is the closed set of narrative event types.
type EventType int

const (
	EventMove EventType = iota
	EventLearn
	EventTell
	EventPromise
	EventAttack
	EventMeet
	EventDeath
	EventTransfer
)

func (e EventType) String() string {
	switch e {
	case EventLearn:
		return "LEARN"
	case EventTell:
		return "TELL"
	case EventPromise:
		return "PROMISE"
	case EventAttack:
		return "ATTACK"
	case EventMeet:
		return "MEET"
	case EventDeath:
		return "DEATH"
	case EventTransfer:
		return "TRANSFER"
	default:
		return "MOVE"
	}
}

// ParticipantRole is the role an entity plays within a StoryEvent.
type ParticipantRole int

const (
	RoleAgent ParticipantRole = iota
	RolePatient
	RoleRecipient
	RoleLocation
)

func (r ParticipantRole) String() string {
	switch r {
	case RolePatient:
		return "patient"
	case RoleRecipient:
		return "recipient"
	case RoleLocation:
		return "location"
	default:
		return "agent"
	}
}

// Participant binds an entity to its role within a StoryEvent.
type Participant struct {
	Entity string
	Role   ParticipantRole
}

// StoryEvent is a materialized narrative event derived from an eligible
// Assertion.
type StoryEvent struct {
	ID           string
	Type         EventType
	Participants []Participant
	Evidence     []EvidenceSpan
	OrderIndex   int64
}

// Fact is a materialized, deduplicated (predicate, subject, object) record
// built from an assertion whose object is resolved. BuildFacts leaves
// EventID empty.
type Fact struct {
	Predicate string
	Subject   string
	Object    string
	EventID   string
}

// Key returns the dedup key for a Fact: (predicate, subject, object).
func (f Fact) Key() string {
	return fmt.Sprintf("%s|%s|%s", f.Predicate, f.Subject, f.Object)
}

// GlobalEntity is a cross-document merged entity.
type GlobalEntity struct {
	Entity
	Documents    map[string]struct{}
	Alternatives map[string][]string
}

// GlobalRelation is a cross-document merged relation.
type GlobalRelation struct {
	Relation
	Documents map[string]struct{}
}
