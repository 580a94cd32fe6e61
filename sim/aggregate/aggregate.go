// Package aggregate folds a sweep's per-item diffusion results into the
// numbers a placement is judged by: latency and hop-cost distributions and
// a heatmap of how much traffic each cell sees.
package aggregate

import (
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/placement-sim/placement-sim/sim"
	"github.com/placement-sim/placement-sim/sim/sweep"
)

// Stats summarises one per-item metric.
type Stats struct {
	Mean float64 `json:"mean"`
	P50  float64 `json:"p50"`
	P90  float64 `json:"p90"`
	Max  int     `json:"max"`
}

// Summary is the placement-level view of a sweep.
type Summary struct {
	Items           int    `json:"items"`      // items diffused without error
	Failed          int    `json:"failed"`     // items with an unreachable sink
	Deliveries      int    `json:"deliveries"` // sink deliveries across all items
	MaxSteps        Stats  `json:"max_steps"`
	TotalSteps      Stats  `json:"total_steps"`
	GrandTotalSteps int    `json:"grand_total_steps"`
	HottestCell     string `json:"hottest_cell,omitempty"`
	HottestCount    int    `json:"hottest_count"`
}

// Aggregator accumulates ItemResults. Not safe for concurrent use; feed it
// from the goroutine draining sweep.Stream.
type Aggregator struct {
	heat       *Heatmap
	maxSteps   []int
	totalSteps []int
	deliveries int
	failures   []sweep.ItemResult
}

// New returns an empty Aggregator for results on a grid of the given shape.
func New(shape sim.Shape) *Aggregator {
	return &Aggregator{heat: NewHeatmap(shape)}
}

// FromSweep aggregates every result of a finished sweep.
func FromSweep(shape sim.Shape, sw *sweep.Sweep) *Aggregator {
	a := New(shape)
	for _, r := range sw.Results {
		a.Add(r)
	}
	return a
}

// Add folds in one result. Failed items are recorded but contribute
// nothing to the statistics or the heatmap.
func (a *Aggregator) Add(r sweep.ItemResult) {
	if r.Err != nil {
		a.failures = append(a.failures, r)
		return
	}
	a.maxSteps = append(a.maxSteps, r.Result.MaxSteps)
	a.totalSteps = append(a.totalSteps, r.Result.TotalSteps)
	a.deliveries += r.Result.Sinks
	a.heat.Add(r.Result.Arrival)
}

// Summary computes the statistics over everything added so far.
func (a *Aggregator) Summary() Summary {
	s := Summary{
		Items:      len(a.maxSteps),
		Failed:     len(a.failures),
		Deliveries: a.deliveries,
		MaxSteps:   describe(a.maxSteps),
		TotalSteps: describe(a.totalSteps),
	}
	for _, v := range a.totalSteps {
		s.GrandTotalSteps += v
	}
	if cell, n := a.heat.Hottest(); n > 0 {
		s.HottestCell = cell.String()
		s.HottestCount = n
	}
	return s
}

func (a *Aggregator) Heatmap() *Heatmap { return a.heat }

func (a *Aggregator) MaxStepsHistogram() []Bin { return Histogram(a.maxSteps) }

func (a *Aggregator) TotalStepsHistogram() []Bin { return Histogram(a.totalSteps) }

// Failures returns the failed results in the order they were added.
func (a *Aggregator) Failures() []sweep.ItemResult {
	return slices.Clone(a.failures)
}

func describe(values []int) Stats {
	if len(values) == 0 {
		return Stats{}
	}
	x := toSortedFloats(values)
	return Stats{
		Mean: stat.Mean(x, nil),
		P50:  stat.Quantile(0.5, stat.Empirical, x, nil),
		P90:  stat.Quantile(0.9, stat.Empirical, x, nil),
		Max:  int(floats.Max(x)),
	}
}
