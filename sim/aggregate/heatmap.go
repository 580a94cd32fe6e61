package aggregate

import (
	"fmt"
	"slices"

	"github.com/placement-sim/placement-sim/sim"
)

// Heatmap overlays arrival grids: each cell counts how many items' floods
// reached it.
type Heatmap struct {
	shape  sim.Shape
	counts []int
}

// HeatmapCell is one non-empty heatmap cell, flattened for export.
type HeatmapCell struct {
	Cell  string `csv:"cell" json:"cell"`
	Index int    `csv:"index" json:"index"`
	Count int    `csv:"count" json:"count"`
}

// NewHeatmap returns an all-zero heatmap over shape.
func NewHeatmap(shape sim.Shape) *Heatmap {
	return &Heatmap{shape: slices.Clone(shape), counts: make([]int, shape.Size())}
}

// Add overlays one arrival grid. The grid must share the heatmap's shape.
func (h *Heatmap) Add(grid sim.ArrivalGrid) {
	if grid.Len() != len(h.counts) {
		panic(fmt.Sprintf("heatmap: arrival grid of %d cells overlaid on %v", grid.Len(), h.shape))
	}
	for i := range h.counts {
		if grid.Reached(i) {
			h.counts[i]++
		}
	}
}

func (h *Heatmap) Shape() sim.Shape { return slices.Clone(h.shape) }

// At returns the count at c, or 0 outside the grid.
func (h *Heatmap) At(c sim.Coordinate) int {
	if !h.shape.Contains(c) {
		return 0
	}
	return h.counts[h.shape.Index(c)]
}

// Counts returns a copy of the row-major counts.
func (h *Heatmap) Counts() []int {
	return slices.Clone(h.counts)
}

// Hottest returns the most-reached cell, ties going to the lowest index.
// The count is 0 when nothing has been overlaid.
func (h *Heatmap) Hottest() (sim.Coordinate, int) {
	best := 0
	for i, c := range h.counts {
		if c > h.counts[best] {
			best = i
		}
	}
	return h.shape.Coordinate(best), h.counts[best]
}

// Cells lists the non-zero cells in row-major order.
func (h *Heatmap) Cells() []HeatmapCell {
	var out []HeatmapCell
	for i, c := range h.counts {
		if c == 0 {
			continue
		}
		out = append(out, HeatmapCell{Cell: h.shape.Coordinate(i).String(), Index: i, Count: c})
	}
	return out
}
