package sim

import (
	"fmt"
	"iter"
	"slices"

	"github.com/sirupsen/logrus"
)

// Topology is the grid together with its placement. It is immutable after
// NewTopology returns and safe for concurrent use.
type Topology struct {
	shape     Shape
	adjacency Adjacency
	nbrs      neighbourhood

	sources []Feature
	sinks   []Feature

	sourceIndex Directory
	sinkIndex   Directory

	observer Observer
}

// Option configures optional Topology behaviour.
type Option func(*Topology)

// WithAdjacency selects the adjacency model. The zero value means DefaultAdjacency.
func WithAdjacency(a Adjacency) Option {
	return func(t *Topology) {
		if a == "" {
			a = DefaultAdjacency
		}
		t.adjacency = a
	}
}

// WithObserver installs a hook that is told about each diffusion's phase changes.
// The hook may be called from several goroutines at once.
func WithObserver(o Observer) Option {
	return func(t *Topology) {
		t.observer = o
	}
}

// NewTopology validates a placement and builds its item directories.
// Every returned error is a *ConstructionError.
func NewTopology(dims Shape, sources, sinks []Feature, opts ...Option) (*Topology, error) {
	if err := dims.Validate(); err != nil {
		return nil, &ConstructionError{Index: -1, Err: err}
	}
	t := &Topology{
		shape:     slices.Clone(dims),
		adjacency: DefaultAdjacency,
	}
	for _, opt := range opts {
		opt(t)
	}
	if !validAdjacencies[t.adjacency] {
		return nil, &ConstructionError{Index: -1, Err: fmt.Errorf("%w: %q", ErrUnknownAdjacency, t.adjacency)}
	}

	occupied := make(map[int]Feature, len(sources)+len(sinks))
	check := func(kind FeatureKind, features []Feature) error {
		for i, f := range features {
			if f.Kind != kind {
				return &ConstructionError{Kind: kind, Index: i,
					Err: fmt.Errorf("%w: %s listed among %ss", ErrWrongKind, f.Kind, kind)}
			}
			if err := f.Validate(t.shape); err != nil {
				return &ConstructionError{Kind: kind, Index: i, Err: err}
			}
			idx := t.shape.Index(f.Location)
			if prev, taken := occupied[idx]; taken {
				return &ConstructionError{Kind: kind, Index: i,
					Err: fmt.Errorf("%w: %v already holds a %s", ErrLocationOccupied, f.Location, prev.Kind)}
			}
			occupied[idx] = f
		}
		return nil
	}
	if err := check(KindSource, sources); err != nil {
		return nil, err
	}
	if err := check(KindSink, sinks); err != nil {
		return nil, err
	}

	t.sources = cloneFeatures(sources)
	t.sinks = cloneFeatures(sinks)
	t.sourceIndex = BuildDirectory(t.sources)
	t.sinkIndex = BuildDirectory(t.sinks)
	t.nbrs = newNeighbourhood(t.adjacency, t.shape)

	logrus.Debugf("topology %v (%s): %d sources, %d sinks, %d items consumed, %d items held",
		t.shape, t.adjacency, len(t.sources), len(t.sinks), len(t.sinkIndex), len(t.sourceIndex))
	return t, nil
}

// Shape returns a copy of the grid dimensions.
func (t *Topology) Shape() Shape {
	return slices.Clone(t.shape)
}

// Adjacency returns the adjacency model in use.
func (t *Topology) Adjacency() Adjacency {
	return t.adjacency
}

// Offsets returns the displacement vectors of the adjacency model.
func (t *Topology) Offsets() []Coordinate {
	out := make([]Coordinate, len(t.nbrs.offsets))
	for i, off := range t.nbrs.offsets {
		out[i] = off.Clone()
	}
	return out
}

// InBounds reports whether c is a cell of the grid.
func (t *Topology) InBounds(c Coordinate) bool {
	return t.shape.Contains(c)
}

// Neighbours returns the in-bounds cells adjacent to c.
func (t *Topology) Neighbours(c Coordinate) []Coordinate {
	var out []Coordinate
	for _, off := range t.nbrs.offsets {
		n := make(Coordinate, len(c))
		for i := range c {
			n[i] = c[i] + off[i]
		}
		if t.shape.Contains(n) {
			out = append(out, n)
		}
	}
	return out
}

// Sources returns the placement's sources in construction order.
func (t *Topology) Sources() []Feature {
	return cloneFeatures(t.sources)
}

// Sinks returns the placement's sinks in construction order.
func (t *Topology) Sinks() []Feature {
	return cloneFeatures(t.sinks)
}

// SourceIndex returns a copy of the item -> sources directory.
func (t *Topology) SourceIndex() Directory {
	return t.sourceIndex.clone()
}

// SinkIndex returns a copy of the item -> sinks directory.
func (t *Topology) SinkIndex() Directory {
	return t.sinkIndex.clone()
}

// SourcesFor returns the sources holding item, sorted by location.
func (t *Topology) SourcesFor(item ItemID) []Feature {
	return cloneFeatures(t.sourceIndex[item])
}

// SinksFor returns the sinks needing item, sorted by location.
func (t *Topology) SinksFor(item ItemID) []Feature {
	return cloneFeatures(t.sinkIndex[item])
}

// AllItemIDs yields every item that has at least one sink. The sequence is
// lazy and may be ranged over any number of times; order is unspecified.
func (t *Topology) AllItemIDs() iter.Seq[ItemID] {
	return func(yield func(ItemID) bool) {
		for item := range t.sinkIndex {
			if !yield(item) {
				return
			}
		}
	}
}

// SortedItemIDs returns the items of AllItemIDs in sorted order.
func (t *Topology) SortedItemIDs() []ItemID {
	return t.sinkIndex.Items()
}

// NumItems returns the number of items that have at least one sink.
func (t *Topology) NumItems() int {
	return len(t.sinkIndex)
}
