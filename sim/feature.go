package sim

import (
	"fmt"
	"slices"
)

// ItemID identifies a data item whose distribution is being simulated.
// Only equality matters to the engine; outputs are sorted by ID for determinism.
type ItemID string

// FeatureKind distinguishes the two feature variants.
type FeatureKind int

const (
	// KindSource is a buffer: it holds items and emits them.
	KindSource FeatureKind = iota + 1
	// KindSink is a processing element: it needs items.
	KindSink
)

func (k FeatureKind) String() string {
	switch k {
	case KindSource:
		return "source"
	case KindSink:
		return "sink"
	default:
		return fmt.Sprintf("FeatureKind(%d)", int(k))
	}
}

// Feature is a located entity on the grid carrying a set of items.
// Build one with NewSource or NewSink.
type Feature struct {
	Kind     FeatureKind
	Location Coordinate
	items    []ItemID // sorted, deduplicated
}

// NewSource returns a Source feature at loc holding items.
func NewSource(loc Coordinate, items ...ItemID) Feature {
	return newFeature(KindSource, loc, items)
}

// NewSink returns a Sink feature at loc needing items.
func NewSink(loc Coordinate, items ...ItemID) Feature {
	return newFeature(KindSink, loc, items)
}

func newFeature(kind FeatureKind, loc Coordinate, items []ItemID) Feature {
	set := slices.Clone(items)
	slices.Sort(set)
	return Feature{
		Kind:     kind,
		Location: loc.Clone(),
		items:    slices.Compact(set),
	}
}

// clone returns f with its own copy of the location.
func (f Feature) clone() Feature {
	f.Location = f.Location.Clone()
	return f
}

func cloneFeatures(fs []Feature) []Feature {
	if fs == nil {
		return nil
	}
	out := make([]Feature, len(fs))
	for i, f := range fs {
		out[i] = f.clone()
	}
	return out
}

// Items returns a copy of the feature's item set in sorted order.
func (f Feature) Items() []ItemID {
	return slices.Clone(f.items)
}

// NumItems returns the size of the item set.
func (f Feature) NumItems() int {
	return len(f.items)
}

// Holds reports whether item is in the feature's item set.
func (f Feature) Holds(item ItemID) bool {
	_, found := slices.BinarySearch(f.items, item)
	return found
}

// Validate checks the feature against shape. It does not check packing;
// that needs the whole placement and is done by NewTopology.
func (f Feature) Validate(shape Shape) error {
	if f.Kind != KindSource && f.Kind != KindSink {
		return fmt.Errorf("%w: unknown feature kind %d", ErrWrongKind, int(f.Kind))
	}
	if len(f.Location) != shape.Rank() {
		return fmt.Errorf("%w: location %v has %d dims, grid has %d",
			ErrDimensionMismatch, f.Location, len(f.Location), shape.Rank())
	}
	if !shape.Contains(f.Location) {
		return fmt.Errorf("%w: location %v outside %v", ErrOutOfBounds, f.Location, shape)
	}
	if len(f.items) == 0 {
		return fmt.Errorf("%w: %s at %v", ErrEmptyItems, f.Kind, f.Location)
	}
	return nil
}

func (f Feature) String() string {
	return fmt.Sprintf("%s %v: %v", f.Kind, f.Location, f.items)
}
