package sim

import (
	"slices"
)

// Directory maps each item to the features that reference it.
// Entries are sorted by location and hold each location at most once.
type Directory map[ItemID][]Feature

// BuildDirectory inverts features into an item-keyed lookup.
// The result does not depend on the order of features.
func BuildDirectory(features []Feature) Directory {
	dir := make(Directory)
	for _, f := range features {
		for _, item := range f.items {
			dir[item] = append(dir[item], f.clone())
		}
	}
	for item, entry := range dir {
		slices.SortStableFunc(entry, compareFeatures)
		dir[item] = slices.CompactFunc(entry, func(a, b Feature) bool {
			return a.Location.Equal(b.Location)
		})
	}
	return dir
}

// Items returns the directory's keys in sorted order.
func (d Directory) Items() []ItemID {
	items := make([]ItemID, 0, len(d))
	for item := range d {
		items = append(items, item)
	}
	slices.Sort(items)
	return items
}

// Locations returns the locations recorded for item, sorted.
func (d Directory) Locations(item ItemID) []Coordinate {
	entry := d[item]
	locs := make([]Coordinate, len(entry))
	for i, f := range entry {
		locs[i] = f.Location.Clone()
	}
	return locs
}

// clone copies the map, its entry slices and every feature location.
func (d Directory) clone() Directory {
	out := make(Directory, len(d))
	for item, entry := range d {
		out[item] = cloneFeatures(entry)
	}
	return out
}

// compareFeatures orders by location, then kind, then item set, so that two
// permutations of the same input sort identically.
func compareFeatures(a, b Feature) int {
	switch {
	case a.Location.Less(b.Location):
		return -1
	case b.Location.Less(a.Location):
		return 1
	}
	if a.Kind != b.Kind {
		return int(a.Kind) - int(b.Kind)
	}
	return slices.Compare(a.items, b.items)
}
