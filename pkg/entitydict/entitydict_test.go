package entitydict

import (
	"testing"

	implicitmatcher "github.com/kittclouds/gokitt/pkg/implicit-matcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntities() []implicitmatcher.RegisteredEntity {
	return []implicitmatcher.RegisteredEntity{
		{ID: "e1", Label: "Rivendell", Kind: implicitmatcher.KindPlace},
		{ID: "e2", Label: "Gandalf", Aliases: []string{"Mithrandir"}, Kind: implicitmatcher.KindCharacter},
	}
}

func TestBuild_CompilesGazetteer(t *testing.T) {
	g, err := Build(testEntities())
	require.NoError(t, err)
	assert.NotNil(t, g)
}

func TestLookup_FindsKnownEntityAndFlagsPlace(t *testing.T) {
	g, err := Build(testEntities())
	require.NoError(t, err)

	hit, isPlace := g.Lookup("Rivendell")
	assert.True(t, hit)
	assert.True(t, isPlace)

	hit, isPlace = g.Lookup("Gandalf")
	assert.True(t, hit)
	assert.False(t, isPlace)
}

func TestLookup_MissesUnknownSurface(t *testing.T) {
	g, err := Build(testEntities())
	require.NoError(t, err)

	hit, _ := g.Lookup("Mordor")
	assert.False(t, hit)
}

func TestHasPrefix_MatchesRegisteredAlias(t *testing.T) {
	g, err := Build(testEntities())
	require.NoError(t, err)

	assert.True(t, g.HasPrefix(implicitmatcher.CanonicalizeForMatch("Mithr")))
	assert.False(t, g.HasPrefix(implicitmatcher.CanonicalizeForMatch("Zzz")))
}

func TestScan_FindsMentionsInText(t *testing.T) {
	g, err := Build(testEntities())
	require.NoError(t, err)

	matches := g.Scan("Gandalf rode to Rivendell.")
	assert.NotEmpty(t, matches)
}
