package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdjacency_MooreOffsets_CountAndRange(t *testing.T) {
	for n, want := range map[int]int{1: 2, 2: 8, 3: 26, 4: 80} {
		offsets := AdjacencyMoore.Offsets(n)
		assert.Len(t, offsets, want, "rank %d", n)

		seen := make(map[string]bool)
		for _, off := range offsets {
			nonZero := false
			for _, v := range off {
				assert.True(t, v >= -1 && v <= 1, "component %d out of range in %v", v, off)
				if v != 0 {
					nonZero = true
				}
			}
			assert.True(t, nonZero, "zero vector in Moore offsets")
			assert.False(t, seen[off.String()], "duplicate offset %v", off)
			seen[off.String()] = true
		}
	}
}

func TestAdjacency_VonNeumannOffsets_Orthogonal(t *testing.T) {
	offsets := AdjacencyVonNeumann.Offsets(3)

	assert.Len(t, offsets, 6)
	for _, off := range offsets {
		sum := 0
		for _, v := range off {
			sum += v * v
		}
		assert.Equal(t, 1, sum, "offset %v is not a unit axis vector", off)
	}
}

func TestAdjacency_UnknownPanics(t *testing.T) {
	assert.Panics(t, func() { Adjacency("hex").Offsets(2) })
}

func TestIsValidAdjacency(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"moore", true},
		{"von-neumann", true},
		{"", true}, // empty defaults to moore
		{"hex", false},
		{"MOORE", false}, // case-sensitive
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidAdjacency(tt.name); got != tt.valid {
				t.Errorf("IsValidAdjacency(%q) = %v, want %v", tt.name, got, tt.valid)
			}
		})
	}
}

func TestNeighbourhood_DeltasMatchStrides(t *testing.T) {
	// GIVEN a 3x4 grid
	shape := Shape{3, 4}
	nb := newNeighbourhood(AdjacencyMoore, shape)

	// THEN each delta moves from the centre cell to centre+offset
	centre := Coordinate{1, 1}
	for k, off := range nb.offsets {
		target := Coordinate{centre[0] + off[0], centre[1] + off[1]}
		assert.Equal(t, shape.Index(target), shape.Index(centre)+nb.deltas[k], "offset %v", off)
	}
}
