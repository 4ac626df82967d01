package relextract

import (
	"regexp"
	"strings"

	"github.com/kittclouds/gokitt/pkg/model"
)

// Pattern is one declarative cue entry from the pattern-family catalog.
type Pattern struct {
	Cue             *regexp.Regexp
	Predicate       Predicate
	Symmetric       bool
	SubjGroup       int
	ObjGroup        int
	TypeGuardSubj   model.EntityType // EntityUnknown means "no guard"
	TypeGuardObj    model.EntityType
	Coordination    bool // subject group may contain "X and Y"
	ListExtraction  bool // object introduces a colon-delimited list
	DeicticObj      bool // object may be "the couple"/"their"/"each other"
	Reversed        bool // capture groups are (obj)(subj) in surface order
	Confidence      float64
}

// Catalog is the ordered family of cue patterns. Families are grouped by
// comment for readability; matching tries them in declared order and the
// first cue that matches a sentence wins for that cue slot (multiple
// distinct cues may still fire on the same sentence for different
// predicates).
var Catalog = []Pattern{
	// Marriage
	{Cue: regexp.MustCompile(`(?i)(\w[\w'\s]*?)\s+married\s+(\w[\w'\s]*)`), Predicate: MarriedTo, Symmetric: true, SubjGroup: 1, ObjGroup: 2, Confidence: 0.90},
	{Cue: regexp.MustCompile(`(?i)(\w[\w'\s]*?)\s+(?:is|was)\s+married\s+to\s+(\w[\w'\s]*)`), Predicate: MarriedTo, Symmetric: true, SubjGroup: 1, ObjGroup: 2, Confidence: 0.90},
	{Cue: regexp.MustCompile(`(?i)(\w[\w'\s]*?)\s+and\s+(\w[\w'\s]*?)\s+(?:were|are)\s+married`), Predicate: MarriedTo, Symmetric: true, SubjGroup: 1, ObjGroup: 2, Coordination: true, Confidence: 0.90},

	// Friendship / Enmity
	{Cue: regexp.MustCompile(`(?i)(\w[\w'\s]*?)\s+(?:is|was)\s+(?:a\s+)?friend(?:s)?\s+(?:of|with)\s+(\w[\w'\s]*)`), Predicate: FriendOf, Symmetric: true, SubjGroup: 1, ObjGroup: 2, Confidence: 0.85},
	{Cue: regexp.MustCompile(`(?i)(\w[\w'\s]*?)\s+befriended\s+(\w[\w'\s]*)`), Predicate: FriendOf, Symmetric: true, SubjGroup: 1, ObjGroup: 2, Confidence: 0.85},
	{Cue: regexp.MustCompile(`(?i)(\w[\w'\s]*?)\s+(?:hated|despised|loathed)\s+(\w[\w'\s]*)`), Predicate: EnemyOf, Symmetric: true, SubjGroup: 1, ObjGroup: 2, Confidence: 0.85},
	{Cue: regexp.MustCompile(`(?i)(\w[\w'\s]*?)\s+(?:was|were)\s+(?:an\s+)?enem(?:y|ies)\s+(?:of|with)\s+(\w[\w'\s]*)`), Predicate: EnemyOf, Symmetric: true, SubjGroup: 1, ObjGroup: 2, Confidence: 0.85},

	// Parent/child/sibling
	{Cue: regexp.MustCompile(`(?i)(\w[\w'\s]*?)(?:'s)?\s+(?:son|daughter|child)(?:,)?\s+(\w[\w'\s]*)`), Predicate: ParentOf, SubjGroup: 1, ObjGroup: 2, Confidence: 0.80},
	{Cue: regexp.MustCompile(`(?i)(\w[\w'\s]*?)\s+(?:is|was)\s+(?:the\s+)?(?:son|daughter|child)\s+of\s+(\w[\w'\s]*)`), Predicate: ChildOf, SubjGroup: 1, ObjGroup: 2, Confidence: 0.85},
	{Cue: regexp.MustCompile(`(?i)(\w[\w'\s]*?),\s+the\s+(?:eldest|youngest|second)\s+(?:son|daughter|sibling)`), Predicate: SiblingOf, Symmetric: true, SubjGroup: 1, ObjGroup: 0, Confidence: 0.70},
	{Cue: regexp.MustCompile(`(?i)(\w[\w'\s]*?)\s+(?:is|was)\s+(?:the\s+)?(?:brother|sister|sibling)\s+of\s+(\w[\w'\s]*)`), Predicate: SiblingOf, Symmetric: true, SubjGroup: 1, ObjGroup: 2, Confidence: 0.85},

	// Education / teaching
	{Cue: regexp.MustCompile(`(?i)(\w[\w'\s]*?)\s+taught\s+(\w[\w'\s]*)`), Predicate: TeacherOf, SubjGroup: 1, ObjGroup: 2, Confidence: 0.85},
	{Cue: regexp.MustCompile(`(?i)(\w[\w'\s]*?)\s+studied\s+(?:under|with)\s+(\w[\w'\s]*)`), Predicate: StudentOf, SubjGroup: 1, ObjGroup: 2, Confidence: 0.80},

	// Employment / membership / leadership
	{Cue: regexp.MustCompile(`(?i)(\w[\w'\s]*?)\s+worked\s+for\s+(\w[\w'\s]*)`), Predicate: EmployedBy, SubjGroup: 1, ObjGroup: 2, Confidence: 0.85},
	{Cue: regexp.MustCompile(`(?i)(\w[\w'\s]*?)\s+(?:joined|belonged\s+to)\s+(\w[\w'\s]*)`), Predicate: MemberOf, SubjGroup: 1, ObjGroup: 2, Confidence: 0.85},
	{Cue: regexp.MustCompile(`(?i)(\w[\w'\s]*?)\s+(?:led|commanded|ruled)\s+(\w[\w'\s]*)`), Predicate: LeaderOf, SubjGroup: 1, ObjGroup: 2, Confidence: 0.85, TypeGuardObj: model.EntityOrg},

	// Residence / travel
	{Cue: regexp.MustCompile(`(?i)(\w[\w'\s]*?)\s+lived\s+in\s+(\w[\w'\s]*)`), Predicate: ResidesIn, SubjGroup: 1, ObjGroup: 2, Confidence: 0.85, TypeGuardObj: model.EntityPlace},
	{Cue: regexp.MustCompile(`(?i)(\w[\w'\s]*?)\s+(?:traveled|journeyed|sailed)\s+to\s+(\w[\w'\s]*)`), Predicate: TravelsTo, SubjGroup: 1, ObjGroup: 2, Confidence: 0.85, TypeGuardObj: model.EntityPlace},

	// Battle / governance
	{Cue: regexp.MustCompile(`(?i)(\w[\w'\s]*?)\s+fought\s+(\w[\w'\s]*)`), Predicate: FightsWith, Symmetric: true, SubjGroup: 1, ObjGroup: 2, Confidence: 0.85},
	{Cue: regexp.MustCompile(`(?i)(\w[\w'\s]*?)\s+(?:ruled|governed)\s+(\w[\w'\s]*)`), Predicate: Governs, SubjGroup: 1, ObjGroup: 2, Confidence: 0.85, TypeGuardObj: model.EntityPlace},

	// Part/whole, creation, transfer, perception, emotion, loyalty, transformation, knowledge
	{Cue: regexp.MustCompile(`(?i)(\w[\w'\s]*?)\s+(?:was|is)\s+part\s+of\s+(\w[\w'\s]*)`), Predicate: PartOf, SubjGroup: 1, ObjGroup: 2, Confidence: 0.85},
	{Cue: regexp.MustCompile(`(?i)(\w[\w'\s]*?)\s+(?:built|created|forged|crafted)\s+(\w[\w'\s]*)`), Predicate: Creates, SubjGroup: 1, ObjGroup: 2, Confidence: 0.85},
	{Cue: regexp.MustCompile(`(?i)(\w[\w'\s]*?)\s+(?:told|informed)\s+(\w[\w'\s]*)`), Predicate: SpeaksTo, SubjGroup: 1, ObjGroup: 2, Confidence: 0.80},
	{Cue: regexp.MustCompile(`(?i)(\w[\w'\s]*?)\s+gave\s+.*?\s+to\s+(\w[\w'\s]*)`), Predicate: TransfersTo, SubjGroup: 1, ObjGroup: 2, Confidence: 0.80},
	{Cue: regexp.MustCompile(`(?i)(\w[\w'\s]*?)\s+(?:attacked|struck)\s+(\w[\w'\s]*)`), Predicate: AttacksPred, SubjGroup: 1, ObjGroup: 2, Confidence: 0.85},
	{Cue: regexp.MustCompile(`(?i)(\w[\w'\s]*?)\s+(?:saw|observed|watched)\s+(\w[\w'\s]*)`), Predicate: Observes, SubjGroup: 1, ObjGroup: 2, Confidence: 0.80},
	{Cue: regexp.MustCompile(`(?i)(\w[\w'\s]*?)\s+loved\s+(\w[\w'\s]*)`), Predicate: Loves, SubjGroup: 1, ObjGroup: 2, Confidence: 0.80},
	{Cue: regexp.MustCompile(`(?i)(\w[\w'\s]*?)\s+hated\s+(\w[\w'\s]*)`), Predicate: Hates, Symmetric: false, SubjGroup: 1, ObjGroup: 2, Confidence: 0.80},
	{Cue: regexp.MustCompile(`(?i)(\w[\w'\s]*?)\s+(?:remained|stayed)\s+loyal\s+to\s+(\w[\w'\s]*)`), Predicate: LoyalTo, SubjGroup: 1, ObjGroup: 2, Confidence: 0.85},
	{Cue: regexp.MustCompile(`(?i)(\w[\w'\s]*?)\s+(?:became|turned\s+into)\s+(\w[\w'\s]*)`), Predicate: BecomesPred, SubjGroup: 1, ObjGroup: 2, Confidence: 0.85},
	{Cue: regexp.MustCompile(`(?i)(\w[\w'\s]*?)\s+(?:discovered|learned|uncovered)\s+(\w[\w'\s]*)`), Predicate: Discovers, SubjGroup: 1, ObjGroup: 2, Confidence: 0.80},

	// List extraction: "X had three houses: A, B, C"
	{Cue: regexp.MustCompile(`(?i)(\w[\w'\s]*?)\s+(?:had|owned|held)\s+[\w\s]*?:\s*(.+)$`), Predicate: TransfersTo, SubjGroup: 1, ObjGroup: 2, ListExtraction: true, Confidence: 0.80},
}

// listItemSplitter finds consecutive proper-noun runs in a list tail.
var listItemSplitter = regexp.MustCompile(`[A-Z][\w'-]*(?:\s+[A-Z][\w'-]*)*`)

// SplitListItems extracts proper-noun-run items from a colon-delimited
// list tail, stopping at the sentence terminator.
func SplitListItems(tail string) []string {
	tail = strings.TrimRight(tail, ".!?")
	return listItemSplitter.FindAllString(tail, -1)
}
