package sim

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTopology_RejectsInvalidPlacements(t *testing.T) {
	dims := Shape{3, 3}
	tests := []struct {
		name    string
		dims    Shape
		sources []Feature
		sinks   []Feature
		want    error
		kind    FeatureKind
		index   int
	}{
		{
			name: "no dims",
			dims: Shape{},
			want: ErrInvalidDims, index: -1,
		},
		{
			name: "cell count overflows int",
			dims: Shape{math.MaxInt/2 + 1, 3},
			want: ErrInvalidDims, index: -1,
		},
		{
			name:    "source out of bounds",
			dims:    dims,
			sources: []Feature{NewSource(Coordinate{0, 0}, "x"), NewSource(Coordinate{3, 0}, "x")},
			want:    ErrOutOfBounds, kind: KindSource, index: 1,
		},
		{
			name:  "sink negative coordinate",
			dims:  dims,
			sinks: []Feature{NewSink(Coordinate{-1, 2}, "x")},
			want:  ErrOutOfBounds, kind: KindSink, index: 0,
		},
		{
			name:  "rank mismatch",
			dims:  dims,
			sinks: []Feature{NewSink(Coordinate{1}, "x")},
			want:  ErrDimensionMismatch, kind: KindSink, index: 0,
		},
		{
			name:    "empty item set",
			dims:    dims,
			sources: []Feature{NewSource(Coordinate{1, 1})},
			want:    ErrEmptyItems, kind: KindSource, index: 0,
		},
		{
			name:    "two sources share a location",
			dims:    dims,
			sources: []Feature{NewSource(Coordinate{1, 1}, "x"), NewSource(Coordinate{1, 1}, "y")},
			want:    ErrLocationOccupied, kind: KindSource, index: 1,
		},
		{
			name:    "source and sink share a location",
			dims:    dims,
			sources: []Feature{NewSource(Coordinate{2, 0}, "x")},
			sinks:   []Feature{NewSink(Coordinate{2, 0}, "x")},
			want:    ErrLocationOccupied, kind: KindSink, index: 0,
		},
		{
			name:  "two sinks share a location",
			dims:  dims,
			sinks: []Feature{NewSink(Coordinate{0, 2}, "x"), NewSink(Coordinate{0, 2}, "z")},
			want:  ErrLocationOccupied, kind: KindSink, index: 1,
		},
		{
			name:    "sink passed as source",
			dims:    dims,
			sources: []Feature{NewSink(Coordinate{0, 0}, "x")},
			want:    ErrWrongKind, kind: KindSource, index: 0,
		},
		{
			name:    "zero-value feature",
			dims:    dims,
			sources: []Feature{{}},
			want:    ErrWrongKind, kind: KindSource, index: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topo, err := NewTopology(tt.dims, tt.sources, tt.sinks)

			require.Error(t, err)
			assert.Nil(t, topo)
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)

			var ce *ConstructionError
			require.True(t, errors.As(err, &ce), "error %T is not a *ConstructionError", err)
			assert.Equal(t, tt.index, ce.Index)
			if tt.index >= 0 {
				assert.Equal(t, tt.kind, ce.Kind)
			}
		})
	}
}

func TestNewTopology_UnknownAdjacency(t *testing.T) {
	_, err := NewTopology(Shape{2, 2}, nil, nil, WithAdjacency("hex"))

	assert.True(t, errors.Is(err, ErrUnknownAdjacency), "got %v", err)
}

func TestNewTopology_BuildsBothDirectories(t *testing.T) {
	// GIVEN a placement where one item is held but never consumed
	topo, err := NewTopology(Shape{2, 3},
		[]Feature{NewSource(Coordinate{0, 0}, "a", "unused")},
		[]Feature{NewSink(Coordinate{1, 2}, "a"), NewSink(Coordinate{0, 2}, "a", "b")},
	)
	require.NoError(t, err)

	// THEN the sink index drives the item space
	assert.Equal(t, []ItemID{"a", "b"}, topo.SortedItemIDs())
	assert.Equal(t, 2, topo.NumItems())
	assert.Len(t, topo.SinksFor("a"), 2)
	assert.Len(t, topo.SourcesFor("unused"), 1)
	assert.Empty(t, topo.SinksFor("unused"))
	assert.ElementsMatch(t, []ItemID{"a", "unused"}, topo.SourceIndex().Items())
	assert.Equal(t, AdjacencyMoore, topo.Adjacency())
}

func TestTopology_AllItemIDs_LazyAndRestartable(t *testing.T) {
	topo, err := NewTopology(Shape{4},
		[]Feature{NewSource(Coordinate{0}, "a", "b", "c")},
		[]Feature{NewSink(Coordinate{3}, "a", "b", "c")},
	)
	require.NoError(t, err)

	// WHEN the sequence is ranged twice
	first := slices.Sorted(topo.AllItemIDs())
	second := slices.Sorted(topo.AllItemIDs())

	// THEN both passes see every item
	assert.Equal(t, []ItemID{"a", "b", "c"}, first)
	assert.Equal(t, first, second)

	// AND early termination stops the sequence
	n := 0
	for range topo.AllItemIDs() {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestTopology_AccessorsReturnCopies(t *testing.T) {
	topo, err := NewTopology(Shape{3, 3},
		[]Feature{NewSource(Coordinate{0, 0}, "a")},
		[]Feature{NewSink(Coordinate{2, 2}, "a")},
	)
	require.NoError(t, err)

	// WHEN a caller mutates what accessors returned
	shape := topo.Shape()
	shape[0] = 99
	idx := topo.SinkIndex()
	delete(idx, "a")
	sinks := topo.Sinks()
	sinks[0] = Feature{}

	// THEN the topology is unchanged
	assert.Equal(t, Shape{3, 3}, topo.Shape())
	assert.Len(t, topo.SinksFor("a"), 1)
	assert.Equal(t, KindSink, topo.Sinks()[0].Kind)
}

func TestTopology_FeatureLocationsDetachedFromCallers(t *testing.T) {
	// GIVEN a 3x3 topology with the caller still holding its features
	source := NewSource(Coordinate{0, 0}, "x")
	sink := NewSink(Coordinate{2, 2}, "x")
	topo, err := NewTopology(Shape{3, 3}, []Feature{source}, []Feature{sink})
	require.NoError(t, err)
	before, err := topo.Diffuse("x")
	require.NoError(t, err)
	require.Equal(t, 2, before.MaxSteps)

	// WHEN every location reachable from outside is rewritten
	topo.Sources()[0].Location[1] = 7
	topo.Sinks()[0].Location[0] = 7
	topo.SourcesFor("x")[0].Location[0] = 1
	topo.SinksFor("x")[0].Location[1] = 0
	topo.SourceIndex()["x"][0].Location[0] = 2
	topo.SinkIndex()["x"][0].Location[0] = 9
	source.Location[1] = 2
	sink.Location[0] = 9

	// THEN diffusion and the stored features are unchanged
	after, err := topo.Diffuse("x")
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, Coordinate{0, 0}, topo.Sources()[0].Location)
	assert.Equal(t, Coordinate{2, 2}, topo.Sinks()[0].Location)
	assert.Equal(t, []Coordinate{{0, 0}}, topo.SourceIndex().Locations("x"))
	assert.Equal(t, []Coordinate{{2, 2}}, topo.SinkIndex().Locations("x"))
}

func TestBuildDirectory_CopiesLocations(t *testing.T) {
	features := []Feature{NewSink(Coordinate{1, 2}, "x")}
	dir := BuildDirectory(features)

	features[0].Location[0] = 5

	assert.Equal(t, []Coordinate{{1, 2}}, dir.Locations("x"))
}

func TestTopology_Neighbours_ClippedAtEdges(t *testing.T) {
	moore, err := NewTopology(Shape{3, 3}, nil, nil)
	require.NoError(t, err)
	vn, err := NewTopology(Shape{3, 3}, nil, nil, WithAdjacency(AdjacencyVonNeumann))
	require.NoError(t, err)

	assert.Len(t, moore.Neighbours(Coordinate{1, 1}), 8)
	assert.Len(t, moore.Neighbours(Coordinate{0, 0}), 3)
	assert.Len(t, vn.Neighbours(Coordinate{1, 1}), 4)
	assert.Len(t, vn.Neighbours(Coordinate{0, 0}), 2)
	assert.Len(t, moore.Offsets(), 8)
	assert.True(t, moore.InBounds(Coordinate{2, 2}))
	assert.False(t, moore.InBounds(Coordinate{2, 3}))
}
