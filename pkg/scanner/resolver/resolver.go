// Package resolver implements the reference resolver: gender inference,
// title bridging, pronoun dispatch, definite-description resolution, and
// nickname matching, producing CorefLink records for downstream passes.
package resolver

import (
	"strings"

	"github.com/kittclouds/gokitt/pkg/config"
	"github.com/kittclouds/gokitt/pkg/model"
)

// Gender is an alias of model.Gender, with its constants re-exported below
// so this package can be read standalone.
type Gender = model.Gender

const (
	GenderUnknown = model.GenderUnknown
	GenderMale    = model.GenderMale
	GenderFemale  = model.GenderFemale
	GenderNeutral = model.GenderNeutral
	GenderPlural  = model.GenderPlural
)

// EntityMetadata is a known entity as the resolver sees it.
type EntityMetadata struct {
	ID      string
	Name    string
	Gender  Gender
	Aliases []string
	Type    model.EntityType
}

// Span is a mention occurrence: surface text plus its document position.
type Span struct {
	Text          string
	Start         int
	End           int
	SentenceIndex int
	ParagraphIndex int
}

// Method is how a CorefLink was produced.
type Method int

const (
	MethodPronoun Method = iota
	MethodTitle
	MethodNominal
	MethodQuote
	MethodCoordination
	MethodAppositive
)

// CorefLink is the resolver's black-box output record.
type CorefLink struct {
	Mention    Span
	EntityID   string
	Confidence float64
	Method     Method
}

// titledMention records the last position a title-prefixed mention of an
// entity was seen, so "the president" can bridge to it later.
type titledMention struct {
	entityID string
	lastPos  int
}

var malePrefixes = set("mr", "mr.", "sir", "king", "lord", "duke", "prince")
var femalePrefixes = set("mrs", "mrs.", "lady", "queen", "duchess", "princess", "ms", "ms.")
var neutralTitles = set("president", "dr", "dr.", "gen", "gen.", "captain")

var roleNounWhitelist = map[string]model.EntityType{
	"president": model.EntityPerson, "king": model.EntityPerson, "queen": model.EntityPerson,
	"doctor": model.EntityPerson, "teacher": model.EntityPerson, "captain": model.EntityPerson,
	"city": model.EntityPlace, "kingdom": model.EntityPlace, "village": model.EntityPlace,
	"company": model.EntityOrg, "guild": model.EntityOrg, "order": model.EntityOrg,
}

// nicknames is a fixed bidirectional dictionary; lookups go both ways.
var nicknames = map[string]string{
	"jim": "james", "james": "jim", "kate": "katherine", "katherine": "kate",
	"bob": "robert", "robert": "bob", "bill": "william", "william": "bill",
	"liz": "elizabeth", "elizabeth": "liz", "beth": "elizabeth",
	"tom": "thomas", "thomas": "tom", "dick": "richard", "richard": "dick",
	"peg": "margaret", "margaret": "peg", "meg": "margaret",
	"alex": "alexander", "alexander": "alex", "ned": "edward", "edward": "ned",
}

func set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// Context is the per-document resolver state built from entities, spans,
// sentence boundaries, and the raw text.
type Context struct {
	cfg        config.ConfidenceTable
	entities   map[string]EntityMetadata
	spans      []Span
	spanEntity []string // parallel to spans: the entity ID each span was observed against
	titles     map[string]*titledMention
	history    []string // entity IDs, most recent first
}

// NewContext returns an empty resolver context; entities and spans are
// added with Register and ObserveSpan.
func NewContext(cfg config.ConfidenceTable) *Context {
	return &Context{
		cfg:      cfg,
		entities: make(map[string]EntityMetadata),
		titles:   make(map[string]*titledMention),
	}
}

// Register adds a known entity to the context, inferring gender if unset.
func (c *Context) Register(e EntityMetadata) {
	if e.Gender == GenderUnknown {
		e.Gender = inferGenderFromName(e.Name)
	}
	c.entities[e.ID] = e
}

// ObserveSpan records a mention span and, if it carries a title prefix,
// updates the title-bridging table.
func (c *Context) ObserveSpan(s Span, entityID string) {
	c.spans = append(c.spans, s)
	c.spanEntity = append(c.spanEntity, entityID)
	c.pushHistory(entityID)

	if title, ok := titlePrefix(s.Text); ok {
		c.titles[title] = &titledMention{entityID: entityID, lastPos: s.Start}
	}
}

func (c *Context) pushHistory(entityID string) {
	if entityID == "" {
		return
	}
	for i, id := range c.history {
		if id == entityID {
			c.history = append(c.history[:i], c.history[i+1:]...)
			break
		}
	}
	c.history = append([]string{entityID}, c.history...)
	if len(c.history) > 20 {
		c.history = c.history[:20]
	}
}

// inferGenderFromName checks the name's first word against the male and
// female title prefixes (Mr/Sir/King..., Mrs/Lady/Queen...). There is no
// first-name list, so a name without such a title yields Unknown.
func inferGenderFromName(name string) Gender {
	fields := strings.Fields(strings.ToLower(name))
	if len(fields) == 0 {
		return GenderUnknown
	}
	if _, ok := malePrefixes[fields[0]]; ok {
		return GenderMale
	}
	if _, ok := femalePrefixes[fields[0]]; ok {
		return GenderFemale
	}
	return GenderUnknown
}

func titlePrefix(text string) (string, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", false
	}
	lw := strings.ToLower(fields[0])
	_, male := malePrefixes[lw]
	_, female := femalePrefixes[lw]
	_, neutral := neutralTitles[lw]
	if male || female || neutral {
		return strings.TrimSuffix(lw, "."), true
	}
	return "", false
}

// PronounContext is how ResolvePronoun was invoked: at sentence start, mid
// sentence, against a pre-built pattern map, or as a possessive.
type PronounContext int

const (
	SentenceStart PronounContext = iota
	SentenceMid
	PatternMatch
	Possessive
)

func pronounGender(pronoun string) Gender {
	switch strings.ToLower(pronoun) {
	case "he", "him", "his", "himself":
		return GenderMale
	case "she", "her", "hers", "herself":
		return GenderFemale
	case "it", "its", "itself":
		return GenderNeutral
	case "they", "them", "their", "themselves":
		return GenderPlural
	default:
		return GenderUnknown
	}
}

func genderCompatible(meta EntityMetadata, pronounGender Gender) bool {
	entityGender := meta.Gender
	switch pronounGender {
	case GenderUnknown:
		return true
	case GenderMale:
		return entityGender == GenderMale || entityGender == GenderUnknown
	case GenderFemale:
		return entityGender == GenderFemale || entityGender == GenderUnknown
	case GenderNeutral:
		return entityGender == GenderNeutral || meta.Type != model.EntityPerson
	case GenderPlural:
		return true
	default:
		return true
	}
}

// PatternEntry is one exact (range -> entity) entry the caller can pre-build
// for pattern-match dispatch (§4.5 PATTERN_MATCH).
type PatternEntry struct {
	Start, End int
	EntityID   string
}

// ResolvePronoun dispatches a pronoun mention per §4.5's four-way split.
func (c *Context) ResolvePronoun(pronoun string, pos int, ctx PronounContext, patterns []PatternEntry) (string, float64) {
	g := pronounGender(pronoun)

	switch ctx {
	case SentenceStart:
		for _, id := range c.history {
			if meta, ok := c.entities[id]; ok && genderCompatible(meta, g) {
				return id, c.cfg.PronounMidSentenceFloor + 0.25
			}
		}
		return "", 0

	case PatternMatch:
		for _, p := range patterns {
			if pos >= p.Start && pos <= p.End {
				return p.EntityID, 0.9
			}
		}
		best, bestDist := "", 1<<30
		for _, p := range patterns {
			d := abs(pos - p.Start)
			if d < bestDist && d <= 50 {
				best, bestDist = p.EntityID, d
			}
		}
		if best != "" {
			return best, 0.7
		}
		return "", 0

	case Possessive:
		if strings.EqualFold(pronoun, "their") {
			var out []string
			for _, id := range c.history {
				if meta, ok := c.entities[id]; ok && meta.Type == model.EntityPerson {
					out = append(out, id)
					if len(out) == 2 {
						break
					}
				}
			}
			if len(out) > 0 {
				return out[0], c.cfg.PronounMidSentenceFloor
			}
			return "", 0
		}
		fallthrough

	default: // SentenceMid
		for i, id := range c.history {
			meta, ok := c.entities[id]
			if !ok || !genderCompatible(meta, g) {
				continue
			}
			distance := float64(i) * 40.0 // approximate char distance per history slot
			confidence := maxF(c.cfg.PronounMidSentenceFloor, 0.75-distance/2000*c.cfg.PronounDistanceFactor*4)
			return id, confidence
		}
		return "", 0
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// ResolveTitleBridge resolves a definite title mention ("the president",
// passed as "president") to the entity last seen with that title prefix.
// It does not update the recorded position; ReinforceTitle does that.
func (c *Context) ResolveTitleBridge(role string) (string, bool) {
	tm, ok := c.titles[strings.TrimSuffix(strings.ToLower(role), ".")]
	if !ok {
		return "", false
	}
	return tm.entityID, true
}

// ReinforceTitle updates a title's recorded position when a pronoun
// resolves to its bound entity, keeping the bridge fresh.
func (c *Context) ReinforceTitle(entityID string, pos int) {
	for _, tm := range c.titles {
		if tm.entityID == entityID {
			tm.lastPos = pos
		}
	}
}

// ResolveDefiniteDescription resolves "the X" where X is a whitelisted
// role noun, picking the most salient matching-type entity mentioned in
// the last five sentences. Returns "" if the top two candidates are
// within 10% salience of each other (no guessing).
func (c *Context) ResolveDefiniteDescription(roleNoun string, atSentence int, maxLookback int) (string, bool) {
	wantType, ok := roleNounWhitelist[strings.ToLower(roleNoun)]
	if !ok {
		return "", false
	}

	type cand struct {
		id       string
		salience float64
	}
	var cands []cand
	seen := make(map[string]bool)
	for i := len(c.spans) - 1; i >= 0; i-- {
		s := c.spans[i]
		if atSentence-s.SentenceIndex > maxLookback {
			break
		}
		entityID := c.spanEntity[i]
		if entityID == "" || seen[entityID] {
			continue
		}
		meta, ok := c.entities[entityID]
		if !ok || meta.Type != wantType {
			continue
		}
		seen[entityID] = true
		distance := float64(len(c.spans) - 1 - i)
		cands = append(cands, cand{id: entityID, salience: 1.0 / (1.0 + distance/100.0)})
	}
	if len(cands) == 0 {
		return "", false
	}
	if len(cands) == 1 {
		return cands[0].id, true
	}
	if cands[0].salience-cands[1].salience < 0.1*cands[0].salience {
		return "", false
	}
	return cands[0].id, true
}

// AreFullNamesEquivalent implements the nickname-aware name equivalence
// check: last names must match exactly, first names must be equal up to
// nickname equivalence.
func AreFullNamesEquivalent(a, b string) bool {
	af := strings.Fields(strings.ToLower(a))
	bf := strings.Fields(strings.ToLower(b))
	if len(af) == 0 || len(bf) == 0 {
		return false
	}
	if af[len(af)-1] != bf[len(bf)-1] {
		return false
	}
	firstA, firstB := af[0], bf[0]
	if firstA == firstB {
		return true
	}
	if nicknames[firstA] == firstB || nicknames[firstB] == firstA {
		return true
	}
	return false
}
