package sim

import (
	"errors"
	"fmt"
	"strings"
)

// Construction sentinels. A *ConstructionError unwraps to exactly one of these.
var (
	ErrInvalidDims       = errors.New("invalid grid dimensions")
	ErrUnknownAdjacency  = errors.New("unknown adjacency model")
	ErrWrongKind         = errors.New("feature has the wrong kind")
	ErrDimensionMismatch = errors.New("location rank does not match grid rank")
	ErrOutOfBounds       = errors.New("location out of bounds")
	ErrEmptyItems        = errors.New("feature has no items")
	ErrLocationOccupied  = errors.New("location already occupied")
)

// ErrUnreachableSink is the sentinel behind *UnreachableSinkError.
var ErrUnreachableSink = errors.New("sink unreachable from any source")

// ConstructionError reports why a placement could not be turned into a Topology.
// Kind and Index locate the offending feature in the sources or sinks argument;
// Index is -1 for errors about the shape itself.
type ConstructionError struct {
	Kind  FeatureKind
	Index int
	Err   error
}

func (e *ConstructionError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("constructing topology: %v", e.Err)
	}
	return fmt.Sprintf("constructing topology: %s[%d]: %v", e.Kind, e.Index, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// UnreachableSinkError is returned by Diffuse when the flood exhausts the grid
// before reaching every sink of the item.
type UnreachableSinkError struct {
	Item      ItemID
	Unreached []Coordinate // sorted
}

func (e *UnreachableSinkError) Error() string {
	locs := make([]string, len(e.Unreached))
	for i, c := range e.Unreached {
		locs[i] = c.String()
	}
	return fmt.Sprintf("item %q: %d sink(s) unreachable: %s",
		e.Item, len(e.Unreached), strings.Join(locs, " "))
}

func (e *UnreachableSinkError) Unwrap() error {
	return ErrUnreachableSink
}
