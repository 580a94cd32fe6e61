package sim

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDirectory_EmptyInput_EmptyMap(t *testing.T) {
	dir := BuildDirectory(nil)

	require.NotNil(t, dir)
	assert.Len(t, dir, 0)
}

func TestBuildDirectory_EachItemListsExactlyItsFeatures(t *testing.T) {
	// GIVEN three sinks with overlapping item sets
	features := []Feature{
		NewSink(Coordinate{0, 0}, "a", "b"),
		NewSink(Coordinate{0, 1}, "b"),
		NewSink(Coordinate{1, 1}, "c", "a"),
	}

	// WHEN the directory is built
	dir := BuildDirectory(features)

	// THEN every item maps to exactly the features that declared it
	assert.ElementsMatch(t, []ItemID{"a", "b", "c"}, dir.Items())
	assert.Equal(t, []Coordinate{{0, 0}, {1, 1}}, dir.Locations("a"))
	assert.Equal(t, []Coordinate{{0, 0}, {0, 1}}, dir.Locations("b"))
	assert.Equal(t, []Coordinate{{1, 1}}, dir.Locations("c"))
	assert.Empty(t, dir.Locations("missing"))
}

func TestBuildDirectory_DuplicateFeature_SetSemantics(t *testing.T) {
	// GIVEN the same feature listed twice and a feature repeating an item
	f := NewSource(Coordinate{2}, "x", "x")
	dir := BuildDirectory([]Feature{f, f})

	// THEN the entry holds the location once and the item set is deduplicated
	require.Len(t, dir["x"], 1)
	assert.Equal(t, []ItemID{"x"}, dir["x"][0].Items())
}

func TestBuildDirectory_OrderIndependent(t *testing.T) {
	// GIVEN a feature collection and several permutations of it
	var features []Feature
	items := []ItemID{"p", "q", "r", "s"}
	for i := 0; i < 12; i++ {
		loc := Coordinate{i / 4, i % 4}
		features = append(features, NewSource(loc, items[i%4], items[(i+1)%4]))
	}
	want := BuildDirectory(features)

	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		perm := append([]Feature(nil), features...)
		rng.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })

		// THEN every permutation yields an identical map
		got := BuildDirectory(perm)
		if !reflect.DeepEqual(want, got) {
			t.Fatalf("trial %d: directory depends on input order", trial)
		}
	}
}

func TestFeature_Holds(t *testing.T) {
	f := NewSink(Coordinate{0}, "b", "a", "c")

	assert.True(t, f.Holds("a"))
	assert.True(t, f.Holds("c"))
	assert.False(t, f.Holds("d"))
	assert.Equal(t, 3, f.NumItems())
	assert.Equal(t, KindSink, f.Kind)
}
