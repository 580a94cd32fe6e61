package trace

import (
	"time"

	"github.com/placement-sim/placement-sim/sim"
)

// TraceSummary aggregates statistics from a DiffusionTrace.
type TraceSummary struct {
	Seeded      int
	Converged   int
	MeanWall    time.Duration // seeded to converged, over converged items
	MaxWall     time.Duration
	SlowestItem sim.ItemID
}

// Summarize computes aggregate statistics from a DiffusionTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(dt *DiffusionTrace) *TraceSummary {
	summary := &TraceSummary{}
	if dt == nil {
		return summary
	}

	seededAt := make(map[sim.ItemID]time.Duration)
	var total time.Duration
	for _, r := range dt.Records() {
		switch r.Phase {
		case sim.PhaseSeeded:
			summary.Seeded++
			seededAt[r.Item] = r.At
		case sim.PhaseConverged:
			start, ok := seededAt[r.Item]
			if !ok {
				continue
			}
			summary.Converged++
			wall := r.At - start
			total += wall
			if wall > summary.MaxWall || summary.SlowestItem == "" {
				summary.MaxWall = wall
				summary.SlowestItem = r.Item
			}
		}
	}
	if summary.Converged > 0 {
		summary.MeanWall = total / time.Duration(summary.Converged)
	}
	return summary
}
