package aggregate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placement-sim/placement-sim/sim"
	"github.com/placement-sim/placement-sim/sim/internal/testutil"
	"github.com/placement-sim/placement-sim/sim/sweep"
)

// rowSweep runs a 1x6 row: item a from column 0 to columns 2 and 4, item b
// from column 1 to column 3, and an orphan sink at column 5.
func rowSweep(t *testing.T) (sim.Shape, *sweep.Sweep) {
	t.Helper()
	shape := sim.Shape{1, 6}
	topo, err := sim.NewTopology(shape,
		[]sim.Feature{
			sim.NewSource(sim.Coordinate{0, 0}, "a"),
			sim.NewSource(sim.Coordinate{0, 1}, "b"),
		},
		[]sim.Feature{
			sim.NewSink(sim.Coordinate{0, 2}, "a"),
			sim.NewSink(sim.Coordinate{0, 3}, "b"),
			sim.NewSink(sim.Coordinate{0, 4}, "a"),
			sim.NewSink(sim.Coordinate{0, 5}, "orphan"),
		})
	require.NoError(t, err)
	sw, err := sweep.Run(context.Background(), topo, sweep.Config{Workers: 2})
	require.NoError(t, err)
	return shape, sw
}

func TestAggregator_Summary(t *testing.T) {
	// GIVEN a sweep with two served items and one orphan
	shape, sw := rowSweep(t)

	// WHEN it is aggregated
	s := FromSweep(shape, sw).Summary()

	// THEN the orphan is a failure and the statistics cover a and b only
	assert.Equal(t, 2, s.Items)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 3, s.Deliveries)
	assert.Equal(t, Stats{Mean: 3, P50: 2, P90: 4, Max: 4}, s.MaxSteps)
	assert.Equal(t, Stats{Mean: 4, P50: 2, P90: 6, Max: 6}, s.TotalSteps)
	assert.Equal(t, 8, s.GrandTotalSteps)
	testutil.AssertFloat64Equal(t, "mean total steps", 4, s.TotalSteps.Mean, 1e-12)
	assert.Equal(t, "(0,0)", s.HottestCell)
	assert.Equal(t, 2, s.HottestCount)
}

func TestAggregator_Failures(t *testing.T) {
	shape, sw := rowSweep(t)
	a := FromSweep(shape, sw)

	failed := a.Failures()
	require.Len(t, failed, 1)
	assert.Equal(t, sim.ItemID("orphan"), failed[0].Item)
	assert.True(t, errors.Is(failed[0].Err, sim.ErrUnreachableSink))
}

func TestAggregator_Histograms(t *testing.T) {
	shape, sw := rowSweep(t)
	a := FromSweep(shape, sw)

	assert.Equal(t, []Bin{{0, 0}, {1, 0}, {2, 1}, {3, 0}, {4, 1}}, a.MaxStepsHistogram())
	total := a.TotalStepsHistogram()
	require.Len(t, total, 7)
	assert.Equal(t, 1, total[2].Count)
	assert.Equal(t, 1, total[6].Count)
}

func TestAggregator_Empty(t *testing.T) {
	a := New(sim.Shape{2, 2})

	s := a.Summary()
	assert.Equal(t, Summary{}, s)
	assert.Nil(t, a.MaxStepsHistogram())
	assert.Empty(t, a.Heatmap().Cells())
}

func TestHeatmap_CountsReachedCells(t *testing.T) {
	// GIVEN item a floods columns 0..4 and item b floods columns 0..3
	shape, sw := rowSweep(t)
	a := FromSweep(shape, sw)

	// THEN the overlay counts each item that reached a cell
	assert.Equal(t, []int{2, 2, 2, 2, 1, 0}, a.Heatmap().Counts())
	assert.Equal(t, 1, a.Heatmap().At(sim.Coordinate{0, 4}))
	assert.Equal(t, 0, a.Heatmap().At(sim.Coordinate{3, 3}))

	cells := a.Heatmap().Cells()
	require.Len(t, cells, 5)
	assert.Equal(t, HeatmapCell{Cell: "(0,4)", Index: 4, Count: 1}, cells[4])
}

func TestHeatmap_ShapeMismatchPanics(t *testing.T) {
	h := NewHeatmap(sim.Shape{3, 3})
	topo, err := sim.NewTopology(sim.Shape{2, 2},
		[]sim.Feature{sim.NewSource(sim.Coordinate{0, 0}, "x")},
		[]sim.Feature{sim.NewSink(sim.Coordinate{1, 1}, "x")})
	require.NoError(t, err)
	res, err := topo.Diffuse("x")
	require.NoError(t, err)

	assert.Panics(t, func() { h.Add(res.Arrival) })
}

func TestHistogram(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		want   []Bin
	}{
		{"empty", nil, nil},
		{"zeros", []int{0, 0}, []Bin{{0, 2}}},
		{"unsorted with gap", []int{3, 1, 3}, []Bin{{0, 0}, {1, 1}, {2, 0}, {3, 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Histogram(tt.values))
		})
	}
}
