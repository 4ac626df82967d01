package resolver

import (
	"testing"

	"github.com/kittclouds/gokitt/pkg/config"
	"github.com/kittclouds/gokitt/pkg/model"
	"github.com/stretchr/testify/assert"
)

func setupContext() *Context {
	c := NewContext(config.DefaultConfidenceTable())
	c.Register(EntityMetadata{ID: "e1", Name: "Gandalf", Gender: GenderMale, Aliases: []string{"Mithrandir"}, Type: model.EntityPerson})
	c.Register(EntityMetadata{ID: "e2", Name: "Galadriel", Gender: GenderFemale, Aliases: []string{"Lady of Light"}, Type: model.EntityPerson})
	c.Register(EntityMetadata{ID: "e3", Name: "The Ring", Gender: GenderNeutral, Type: model.EntityItem})
	return c
}

func TestResolveDefiniteDescription_LooksUpEachSpansOwnEntityNotJustTheLatest(t *testing.T) {
	c := setupContext()

	// e1 (PERSON) is mentioned first, then e3 (ITEM) most recently, so
	// history[0] is e3. A lookup that ignores which span it was asked
	// about and always reports the most-recently-observed entity overall
	// would see every candidate span resolve to e3 (ITEM), never match
	// the PERSON type "king" requires, and report no candidate at all.
	c.ObserveSpan(Span{Text: "Gandalf", Start: 0, End: 7, SentenceIndex: 0}, "e1")
	c.ObserveSpan(Span{Text: "The Ring", Start: 10, End: 18, SentenceIndex: 0}, "e3")

	id, ok := c.ResolveDefiniteDescription("king", 0, 5)
	assert.True(t, ok)
	assert.Equal(t, "e1", id)
}

func TestResolveDefiniteDescription_DistinguishesEachSpansOwnEntity(t *testing.T) {
	c := setupContext()
	c.Register(EntityMetadata{ID: "e4", Name: "Aragorn", Gender: GenderMale, Type: model.EntityPerson})

	// Two PERSON spans recorded back to back against two different
	// entities. A span->entity lookup that ignores which span was passed
	// in (falling back to the single most recent history entry) would
	// report the same entity for both; a correct lookup must not.
	c.ObserveSpan(Span{Text: "Gandalf", Start: 0, End: 7, SentenceIndex: 0}, "e1")
	c.ObserveSpan(Span{Text: "Aragorn", Start: 10, End: 17, SentenceIndex: 0}, "e4")

	assert.Equal(t, "e1", c.spanEntity[0])
	assert.Equal(t, "e4", c.spanEntity[1])
}

func TestResolveDefiniteDescription_UnknownRoleNounReturnsFalse(t *testing.T) {
	c := setupContext()
	c.ObserveSpan(Span{Text: "Gandalf", Start: 0, End: 7, SentenceIndex: 0}, "e1")

	_, ok := c.ResolveDefiniteDescription("wizard", 0, 5)
	assert.False(t, ok)
}

func TestResolveDefiniteDescription_OutOfLookbackWindowReturnsFalse(t *testing.T) {
	c := setupContext()
	c.ObserveSpan(Span{Text: "Gandalf", Start: 0, End: 7, SentenceIndex: 0}, "e1")

	_, ok := c.ResolveDefiniteDescription("king", 10, 2)
	assert.False(t, ok)
}

func TestResolvePronoun_SentenceMid_Simple(t *testing.T) {
	c := setupContext()
	c.ObserveSpan(Span{Text: "Gandalf", Start: 0, End: 7, SentenceIndex: 0}, "e1")

	id, conf := c.ResolvePronoun("He", 20, SentenceMid, nil)
	assert.Equal(t, "e1", id)
	assert.Greater(t, conf, 0.0)
}

func TestResolvePronoun_GenderSwitch(t *testing.T) {
	c := setupContext()
	c.ObserveSpan(Span{Text: "Gandalf", Start: 0, End: 7, SentenceIndex: 0}, "e1")
	c.ObserveSpan(Span{Text: "Galadriel", Start: 10, End: 19, SentenceIndex: 0}, "e2")

	id, _ := c.ResolvePronoun("She", 30, SentenceMid, nil)
	assert.Equal(t, "e2", id)

	id, _ = c.ResolvePronoun("He", 30, SentenceMid, nil)
	assert.Equal(t, "e1", id)
}

func TestResolvePronoun_Possessive_Their(t *testing.T) {
	c := setupContext()
	c.ObserveSpan(Span{Text: "Gandalf", Start: 0, End: 7, SentenceIndex: 0}, "e1")
	c.ObserveSpan(Span{Text: "Galadriel", Start: 10, End: 19, SentenceIndex: 0}, "e2")

	id, _ := c.ResolvePronoun("their", 30, Possessive, nil)
	assert.Equal(t, "e2", id)
}

func TestTitleBridge(t *testing.T) {
	c := setupContext()
	c.ObserveSpan(Span{Text: "Mr. Gandalf", Start: 0, End: 11, SentenceIndex: 0}, "e1")

	id, ok := c.ResolveTitleBridge("mr")
	assert.True(t, ok)
	assert.Equal(t, "e1", id)
}

func TestAreFullNamesEquivalent_Nickname(t *testing.T) {
	assert.True(t, AreFullNamesEquivalent("Jim Smith", "James Smith"))
	assert.False(t, AreFullNamesEquivalent("Jim Smith", "James Jones"))
}

func TestAreFullNamesEquivalent_ExactMatch(t *testing.T) {
	assert.True(t, AreFullNamesEquivalent("Kate Winslet", "Kate Winslet"))
}
