package sim

import (
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"
)

// Unreached marks a cell the flood has not arrived at.
const Unreached = -1

// DiffusionPhase is the state of one Diffuse call.
type DiffusionPhase int

const (
	// PhaseSeeded: every source of the item sits on the frontier at distance 0.
	PhaseSeeded DiffusionPhase = iota + 1
	// PhaseExpanding: the frontier is being expanded breadth-first.
	PhaseExpanding
	// PhaseConverged: every sink is reached or the frontier is exhausted.
	PhaseConverged
)

func (p DiffusionPhase) String() string {
	switch p {
	case PhaseSeeded:
		return "seeded"
	case PhaseExpanding:
		return "expanding"
	case PhaseConverged:
		return "converged"
	default:
		return fmt.Sprintf("DiffusionPhase(%d)", int(p))
	}
}

// Observer is told when a diffusion enters a new phase.
type Observer func(item ItemID, phase DiffusionPhase)

// ArrivalGrid records, per cell, the hop-distance at which the flood first
// arrived, or Unreached.
type ArrivalGrid struct {
	shape Shape
	cells []int
}

func newArrivalGrid(shape Shape) ArrivalGrid {
	cells := make([]int, shape.Size())
	for i := range cells {
		cells[i] = Unreached
	}
	return ArrivalGrid{shape: shape, cells: cells}
}

// Shape returns the grid's dimensions.
func (g ArrivalGrid) Shape() Shape {
	return slices.Clone(g.shape)
}

// Len returns the number of cells.
func (g ArrivalGrid) Len() int {
	return len(g.cells)
}

// At returns the arrival time at c. Out-of-bounds cells report Unreached.
func (g ArrivalGrid) At(c Coordinate) int {
	if !g.shape.Contains(c) {
		return Unreached
	}
	return g.cells[g.shape.Index(c)]
}

// AtIndex returns the arrival time of the cell at flat offset i.
func (g ArrivalGrid) AtIndex(i int) int {
	return g.cells[i]
}

// Reached reports whether the flood arrived at the cell at flat offset i.
func (g ArrivalGrid) Reached(i int) bool {
	return g.cells[i] != Unreached
}

// ReachedCount returns the number of cells the flood arrived at.
func (g ArrivalGrid) ReachedCount() int {
	n := 0
	for _, v := range g.cells {
		if v != Unreached {
			n++
		}
	}
	return n
}

// Cells returns a copy of the flat, row-major cell buffer.
func (g ArrivalGrid) Cells() []int {
	return slices.Clone(g.cells)
}

// DiffusionResult holds the delivery metrics of one item.
type DiffusionResult struct {
	Item    ItemID
	Sources int // source locations seeded
	Sinks   int // sink locations targeted

	// MaxSteps is the hop-distance to the furthest sink: the number of
	// synchronous rounds needed to deliver the item everywhere.
	MaxSteps int
	// TotalSteps is the sum over sinks of the hop-distance to the nearest source.
	TotalSteps int

	Arrival ArrivalGrid
}

// Diffuse floods item from all of its sources simultaneously and reports how
// far the flood travelled to reach each of its sinks.
//
// An item with no sinks yields a zero result and no error. If some sink
// cannot be reached the error is an *UnreachableSinkError and the result is
// the zero result. Diffuse never modifies t.
func (t *Topology) Diffuse(item ItemID) (DiffusionResult, error) {
	res := DiffusionResult{Item: item, Arrival: newArrivalGrid(t.shape)}
	sinks := t.sinkIndex[item]
	if len(sinks) == 0 {
		return res, nil
	}
	sources := t.sourceIndex[item]
	res.Sinks = len(sinks)
	res.Sources = len(sources)

	targets := make(map[int]struct{}, len(sinks))
	for _, s := range sinks {
		targets[t.shape.Index(s.Location)] = struct{}{}
	}
	reach := func(idx, dist int) {
		if _, ok := targets[idx]; !ok {
			return
		}
		delete(targets, idx)
		res.TotalSteps += dist
		res.MaxSteps = max(res.MaxSteps, dist)
	}

	arrival := res.Arrival.cells
	var frontier frontierQueue
	for _, src := range sources {
		idx := t.shape.Index(src.Location)
		arrival[idx] = 0
		frontier.Enqueue(frontierCell{index: idx, dist: 0})
		reach(idx, 0)
	}
	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		logrus.Tracef("diffuse %q: seeded frontier %s", item, frontier.String())
	}
	t.notify(item, PhaseSeeded)

	t.notify(item, PhaseExpanding)
	rank := t.shape.Rank()
	coord := make(Coordinate, rank)
	for len(targets) > 0 && frontier.Len() > 0 {
		cell := frontier.Dequeue()
		t.shape.decode(cell.index, coord)
		next := cell.dist + 1
		for k, off := range t.nbrs.offsets {
			if !stepInBounds(coord, off, t.shape) {
				continue
			}
			n := cell.index + t.nbrs.deltas[k]
			if cur := arrival[n]; cur != Unreached && cur <= next {
				continue
			}
			arrival[n] = next
			frontier.Enqueue(frontierCell{index: n, dist: next})
			reach(n, next)
		}
	}
	t.notify(item, PhaseConverged)

	if len(targets) > 0 {
		unreached := make([]Coordinate, 0, len(targets))
		for idx := range targets {
			unreached = append(unreached, t.shape.Coordinate(idx))
		}
		slices.SortFunc(unreached, func(a, b Coordinate) int {
			if a.Less(b) {
				return -1
			}
			if b.Less(a) {
				return 1
			}
			return 0
		})
		return DiffusionResult{Item: item, Arrival: newArrivalGrid(t.shape)},
			&UnreachableSinkError{Item: item, Unreached: unreached}
	}

	checkDeliveryBounds(res)
	logrus.Tracef("diffuse %q: %d sources, %d sinks, max=%d total=%d",
		item, res.Sources, res.Sinks, res.MaxSteps, res.TotalSteps)
	return res, nil
}

func (t *Topology) notify(item ItemID, phase DiffusionPhase) {
	if t.observer != nil {
		t.observer(item, phase)
	}
}

// stepInBounds reports whether c+off stays inside shape.
func stepInBounds(c, off Coordinate, shape Shape) bool {
	for i, v := range c {
		nv := v + off[i]
		if nv < 0 || nv >= shape[i] {
			return false
		}
	}
	return true
}

// checkDeliveryBounds enforces MaxSteps <= TotalSteps <= MaxSteps*Sinks.
// The furthest sink contributes exactly MaxSteps and no sink contributes more.
func checkDeliveryBounds(res DiffusionResult) {
	if res.MaxSteps > res.TotalSteps || res.TotalSteps > res.MaxSteps*res.Sinks {
		panic(fmt.Sprintf("diffuse %q: delivery bounds violated: max=%d total=%d sinks=%d",
			res.Item, res.MaxSteps, res.TotalSteps, res.Sinks))
	}
}
