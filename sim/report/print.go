// Package report writes sweep results out: a console summary, CSV and JSON
// exports for plotting, and a SQLite index of past runs.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/placement-sim/placement-sim/sim/aggregate"
)

// Print displays the aggregated metrics of one run.
// Includes per-item latency (MaxSteps), hop cost (TotalSteps) and the
// busiest cell of the heatmap.
func Print(w io.Writer, label string, s aggregate.Summary, elapsed time.Duration) {
	fmt.Fprintln(w, "=== Diffusion Metrics ===")
	fmt.Fprintf(w, "Placement            : %s\n", label)
	fmt.Fprintf(w, "Items Diffused       : %d\n", s.Items)
	fmt.Fprintf(w, "Unreachable Items    : %d\n", s.Failed)
	fmt.Fprintf(w, "Sink Deliveries      : %d\n", s.Deliveries)
	if s.Items > 0 {
		fmt.Fprintf(w, "Max Steps (mean/p50/p90/max)   : %.2f / %.0f / %.0f / %d\n",
			s.MaxSteps.Mean, s.MaxSteps.P50, s.MaxSteps.P90, s.MaxSteps.Max)
		fmt.Fprintf(w, "Total Steps (mean/p50/p90/max) : %.2f / %.0f / %.0f / %d\n",
			s.TotalSteps.Mean, s.TotalSteps.P50, s.TotalSteps.P90, s.TotalSteps.Max)
		fmt.Fprintf(w, "Grand Total Steps    : %d\n", s.GrandTotalSteps)
	}
	if s.HottestCount > 0 {
		fmt.Fprintf(w, "Hottest Cell         : %s (%d items)\n", s.HottestCell, s.HottestCount)
	}
	fmt.Fprintf(w, "Elapsed              : %s\n", elapsed.Round(time.Microsecond))
}

// PrintCompareLine writes one row of a side-by-side comparison.
func PrintCompareLine(w io.Writer, label string, s aggregate.Summary) {
	fmt.Fprintf(w, "%-28s items=%-5d failed=%-3d max(mean)=%-6.2f max=%-3d total=%d\n",
		label, s.Items, s.Failed, s.MaxSteps.Mean, s.MaxSteps.Max, s.GrandTotalSteps)
}
