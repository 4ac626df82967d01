package docstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpsertAndGet(t *testing.T) {
	s := New()
	s.Upsert("a.txt", "hello", 5)

	assert.Equal(t, "hello", s.GetText("a.txt"))
	assert.Equal(t, 1, s.Count())
}

func TestUnchangedDetectsSameFingerprint(t *testing.T) {
	s := New()
	s.Upsert("a.txt", "hello", 5)

	assert.True(t, s.Unchanged("a.txt", 5))
	assert.False(t, s.Unchanged("a.txt", 6))
	assert.False(t, s.Unchanged("missing.txt", 5))
}

func TestHydrateOverwritesExisting(t *testing.T) {
	s := New()
	s.Upsert("a.txt", "old", 1)
	s.Hydrate([]Document{{ID: "a.txt", Text: "new", Fingerprint: 2}})

	assert.Equal(t, "new", s.GetText("a.txt"))
	assert.True(t, s.Unchanged("a.txt", 2))
}

func TestRemoveAndClear(t *testing.T) {
	s := New()
	s.Upsert("a.txt", "x", 1)
	s.Upsert("b.txt", "y", 1)

	s.Remove("a.txt")
	assert.Nil(t, s.Get("a.txt"))
	assert.Equal(t, 1, s.Count())

	s.Clear()
	assert.Equal(t, 0, s.Count())
}

func TestAllIDs(t *testing.T) {
	s := New()
	s.Upsert("a.txt", "x", 1)
	s.Upsert("b.txt", "y", 1)

	assert.ElementsMatch(t, []string{"a.txt", "b.txt"}, s.AllIDs())
}
