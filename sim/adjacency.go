package sim

import "fmt"

// Adjacency names the set of unit displacement vectors that connect cells.
type Adjacency string

const (
	// AdjacencyMoore connects every cell to all 3^N-1 cells that differ by at
	// most one along every axis (king moves in 2-D).
	AdjacencyMoore Adjacency = "moore"
	// AdjacencyVonNeumann connects every cell to its 2N orthogonal neighbours.
	AdjacencyVonNeumann Adjacency = "von-neumann"
)

// DefaultAdjacency is used when no model is configured.
const DefaultAdjacency = AdjacencyMoore

// validAdjacencies maps accepted adjacency model names.
var validAdjacencies = map[Adjacency]bool{
	AdjacencyMoore:      true,
	AdjacencyVonNeumann: true,
	"":                  true, // empty defaults to moore
}

// IsValidAdjacency returns true if name is a recognized adjacency model.
func IsValidAdjacency(name string) bool {
	return validAdjacencies[Adjacency(name)]
}

// Offsets enumerates the model's displacement vectors for an n-dimensional grid.
// The order is deterministic: Moore vectors are produced in lexicographic
// order of their components, von Neumann vectors axis by axis (-1 then +1).
func (a Adjacency) Offsets(n int) []Coordinate {
	switch a {
	case AdjacencyMoore, "":
		return mooreOffsets(n)
	case AdjacencyVonNeumann:
		return vonNeumannOffsets(n)
	default:
		panic(fmt.Sprintf("unknown adjacency model %q", string(a)))
	}
}

func mooreOffsets(n int) []Coordinate {
	total := 1
	for i := 0; i < n; i++ {
		total *= 3
	}
	offsets := make([]Coordinate, 0, total-1)
	for code := 0; code < total; code++ {
		v := make(Coordinate, n)
		zero := true
		rest := code
		for i := n - 1; i >= 0; i-- {
			v[i] = rest%3 - 1
			rest /= 3
			if v[i] != 0 {
				zero = false
			}
		}
		if !zero {
			offsets = append(offsets, v)
		}
	}
	return offsets
}

func vonNeumannOffsets(n int) []Coordinate {
	offsets := make([]Coordinate, 0, 2*n)
	for axis := 0; axis < n; axis++ {
		for _, step := range []int{-1, 1} {
			v := make(Coordinate, n)
			v[axis] = step
			offsets = append(offsets, v)
		}
	}
	return offsets
}

// neighbourhood caches a model's offsets for one shape together with their
// linear deltas in the flat cell buffer.
type neighbourhood struct {
	offsets []Coordinate
	deltas  []int
}

func newNeighbourhood(a Adjacency, shape Shape) neighbourhood {
	offsets := a.Offsets(shape.Rank())
	strides := shape.Strides()
	deltas := make([]int, len(offsets))
	for i, off := range offsets {
		for axis, step := range off {
			deltas[i] += step * strides[axis]
		}
	}
	return neighbourhood{offsets: offsets, deltas: deltas}
}
