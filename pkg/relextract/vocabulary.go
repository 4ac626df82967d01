// Package relextract implements the pattern-family relation extractor: a
// declarative catalog of cue phrases, the fixed relation vocabulary they
// populate, post-extraction guardrails, and cycle detection over
// antisymmetric predicates.
package relextract

// Predicate is a member of the fixed relation vocabulary (§6.1).
type Predicate string

const (
	MarriedTo    Predicate = "married_to"
	ParentOf     Predicate = "parent_of"
	ChildOf      Predicate = "child_of"
	SiblingOf    Predicate = "sibling_of"
	FriendOf     Predicate = "friend_of"
	EnemyOf      Predicate = "enemy_of"
	TeacherOf    Predicate = "teacher_of"
	StudentOf    Predicate = "student_of"
	EmployedBy   Predicate = "employed_by"
	MemberOf     Predicate = "member_of"
	LeaderOf     Predicate = "leader_of"
	ResidesIn    Predicate = "resides_in"
	TravelsTo    Predicate = "travels_to"
	FightsWith   Predicate = "fights_with"
	Governs      Predicate = "governs"
	PartOf       Predicate = "part_of"
	Creates      Predicate = "creates"
	SpeaksTo     Predicate = "speaks_to"
	TransfersTo  Predicate = "transfers_to"
	AttacksPred  Predicate = "attacks"
	Observes     Predicate = "observes"
	Loves        Predicate = "loves"
	Hates        Predicate = "hates"
	LoyalTo      Predicate = "loyal_to"
	BecomesPred  Predicate = "becomes"
	Discovers    Predicate = "discovers"
)

// Symmetry classifies how a predicate relates its reverse.
type Symmetry int

const (
	Antisymmetric Symmetry = iota // A pred B does not imply B pred A
	Symmetric                     // A pred B implies B pred A
	Typed                         // directional but paired with an inverse predicate
)

// PredicateInfo records the vocabulary entry's symmetry and, for typed
// predicates, its inverse.
type PredicateInfo struct {
	Symmetry Symmetry
	Inverse  Predicate // only set for Typed predicates
}

// Vocabulary is the fixed relation-predicate registry.
var Vocabulary = map[Predicate]PredicateInfo{
	MarriedTo:   {Symmetry: Symmetric},
	ParentOf:    {Symmetry: Typed, Inverse: ChildOf},
	ChildOf:     {Symmetry: Typed, Inverse: ParentOf},
	SiblingOf:   {Symmetry: Symmetric},
	FriendOf:    {Symmetry: Symmetric},
	EnemyOf:     {Symmetry: Symmetric},
	TeacherOf:   {Symmetry: Typed, Inverse: StudentOf},
	StudentOf:   {Symmetry: Typed, Inverse: TeacherOf},
	EmployedBy:  {Symmetry: Antisymmetric},
	MemberOf:    {Symmetry: Antisymmetric},
	LeaderOf:    {Symmetry: Antisymmetric},
	ResidesIn:   {Symmetry: Antisymmetric},
	TravelsTo:   {Symmetry: Antisymmetric},
	FightsWith:  {Symmetry: Symmetric},
	Governs:     {Symmetry: Antisymmetric},
	PartOf:      {Symmetry: Antisymmetric},
	Creates:     {Symmetry: Antisymmetric},
	SpeaksTo:    {Symmetry: Antisymmetric},
	TransfersTo: {Symmetry: Antisymmetric},
	AttacksPred: {Symmetry: Antisymmetric},
	Observes:    {Symmetry: Antisymmetric},
	Loves:       {Symmetry: Antisymmetric},
	Hates:       {Symmetry: Antisymmetric},
	LoyalTo:     {Symmetry: Antisymmetric},
	BecomesPred: {Symmetry: Antisymmetric},
	Discovers:   {Symmetry: Antisymmetric},
}

// IsSymmetric reports whether swapping a predicate's subject/object always
// yields an equally valid relation.
func IsSymmetric(p Predicate) bool {
	info, ok := Vocabulary[p]
	return ok && info.Symmetry == Symmetric
}
