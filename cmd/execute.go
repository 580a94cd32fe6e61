package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/placement-sim/placement-sim/sim"
	"github.com/placement-sim/placement-sim/sim/aggregate"
	"github.com/placement-sim/placement-sim/sim/placement"
	"github.com/placement-sim/placement-sim/sim/report"
	"github.com/placement-sim/placement-sim/sim/sweep"
	"github.com/placement-sim/placement-sim/sim/trace"
)

type runOptions struct {
	Label     string
	Workers   int
	OutputDir string
	Compress  bool
	DBPath    string
	Trace     trace.TraceLevel
}

func runOptionsFromFlags() runOptions {
	return runOptions{Label: label, Workers: workers, OutputDir: outputDir, Compress: compress, DBPath: dbPath,
		Trace: trace.TraceLevel(traceLevel)}
}

// runOutcome is everything one run produced.
type runOutcome struct {
	Record  report.RunRecord
	Summary aggregate.Summary
	Sweep   *sweep.Sweep
	Trace   *trace.TraceSummary // nil unless tracing was on
	RunID   int64               // 0 unless recorded in a results database
}

// buildTopology generates the placement and constructs its topology with
// the given observers installed. At trace log level every diffusion's phase
// changes are also logged.
func buildTopology(spec *placement.Spec, observers ...sim.Observer) (*sim.Topology, error) {
	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		observers = append(observers, func(item sim.ItemID, phase sim.DiffusionPhase) {
			logrus.Tracef("[%s] %s", item, phase)
		})
	}
	if len(observers) == 0 {
		return placement.Build(spec)
	}
	return placement.Build(spec, sim.WithObserver(func(item sim.ItemID, phase sim.DiffusionPhase) {
		for _, o := range observers {
			o(item, phase)
		}
	}))
}

// executeRun sweeps every item of the placement, prints the summary to w
// and writes whichever exports the options enable. Unreachable sinks are
// reported in the summary, not returned as errors.
func executeRun(ctx context.Context, w io.Writer, spec *placement.Spec, opts runOptions) (*runOutcome, error) {
	if !trace.IsValidTraceLevel(string(opts.Trace)) {
		return nil, fmt.Errorf("unknown trace level %q; valid: none, phases", opts.Trace)
	}
	var (
		tr        *trace.DiffusionTrace
		observers []sim.Observer
	)
	if opts.Trace == trace.TraceLevelPhases {
		tr = trace.NewDiffusionTrace()
		observers = append(observers, tr.Observer())
	}
	topo, err := buildTopology(spec, observers...)
	if err != nil {
		return nil, err
	}
	sw, err := sweep.Run(ctx, topo, sweep.Config{Workers: opts.Workers})
	if err != nil {
		return nil, fmt.Errorf("sweep interrupted after %d of %d items: %w", len(sw.Results), topo.NumItems(), err)
	}

	agg := aggregate.FromSweep(topo.Shape(), sw)
	if opts.Label == "" {
		opts.Label = specLabel(spec)
	}
	out := &runOutcome{Sweep: sw, Summary: agg.Summary()}
	out.Record = report.RunRecord{
		Label:      opts.Label,
		Shape:      topo.Shape().String(),
		Adjacency:  string(topo.Adjacency()),
		Workers:    opts.Workers,
		ElapsedMS:  sw.Elapsed.Milliseconds(),
		RecordedAt: time.Now().UTC(),
		Summary:    out.Summary,
	}
	report.Print(w, opts.Label, out.Summary, sw.Elapsed)
	for _, f := range agg.Failures() {
		var unreachable *sim.UnreachableSinkError
		if errors.As(f.Err, &unreachable) {
			fmt.Fprintf(w, "  unreachable: %s at %v\n", f.Item, unreachable.Unreached)
		}
	}
	if tr != nil {
		out.Trace = trace.Summarize(tr)
		fmt.Fprintf(w, "Traced Diffusions    : %d seeded, %d converged, mean %v, slowest %s (%v)\n",
			out.Trace.Seeded, out.Trace.Converged, out.Trace.MeanWall, out.Trace.SlowestItem, out.Trace.MaxWall)
	}

	dir, err := report.NewOutputDir(opts.OutputDir, opts.Compress)
	if err != nil {
		return nil, err
	}
	if err := dir.WriteAll(out.Record, sw.Results, agg); err != nil {
		return nil, err
	}
	if dir != nil {
		logrus.Infof("Exports written to %s", dir.Dir())
	}

	if opts.DBPath != "" {
		out.RunID, err = recordRun(ctx, opts.DBPath, out.Record, sw.Results)
		if err != nil {
			return nil, err
		}
		logrus.Infof("Recorded run %d in %s", out.RunID, opts.DBPath)
	}
	return out, nil
}

func recordRun(ctx context.Context, path string, run report.RunRecord, results []sweep.ItemResult) (int64, error) {
	db, err := report.OpenResultsDB(path)
	if err != nil {
		return 0, fmt.Errorf("opening results db: %w", err)
	}
	defer db.Close()
	return db.RecordRun(ctx, run, report.ItemRows(results))
}

// validatePlacement builds the topology and reports its size.
func validatePlacement(w io.Writer, spec *placement.Spec) error {
	topo, err := buildTopology(spec)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s: shape=%s adjacency=%s sources=%d sinks=%d items=%d\n",
		specLabel(spec), topo.Shape(), topo.Adjacency(),
		len(topo.Sources()), len(topo.Sinks()), topo.NumItems())
	return nil
}

type compareOptions struct {
	Rows, Cols int
	Adjacency  string
	Workers    int
	DBPath     string
}

// variantResult is one row of a dedup comparison.
type variantResult struct {
	Config  placement.MatmulConfig
	Summary aggregate.Summary
}

// compareVariants sweeps the matmul placement with no dedup, A dedup, B
// dedup and both, printing one line per variant.
func compareVariants(ctx context.Context, w io.Writer, opts compareOptions) ([]variantResult, error) {
	var results []variantResult
	for _, d := range []struct{ a, b bool }{{false, false}, {true, false}, {false, true}, {true, true}} {
		cfg := placement.MatmulConfig{Rows: opts.Rows, Cols: opts.Cols, DedupA: d.a, DedupB: d.b}
		spec := &placement.Spec{Version: "1", Generator: placement.GeneratorMatmul, Adjacency: opts.Adjacency, Matmul: &cfg}
		out, err := executeRun(ctx, io.Discard, spec, runOptions{Workers: opts.Workers, DBPath: opts.DBPath})
		if err != nil {
			return results, fmt.Errorf("%s: %w", cfg, err)
		}
		report.PrintCompareLine(w, cfg.String(), out.Summary)
		results = append(results, variantResult{Config: cfg, Summary: out.Summary})
	}
	return results, nil
}

// printHistory lists the runs recorded in the results database.
func printHistory(ctx context.Context, w io.Writer, path string) error {
	db, err := report.OpenResultsDB(path)
	if err != nil {
		return fmt.Errorf("opening results db: %w", err)
	}
	defer db.Close()
	runs, err := db.Runs(ctx)
	if err != nil {
		return err
	}
	for _, r := range runs {
		fmt.Fprintf(w, "#%-4d %s  %-8s %-12s ", r.ID, r.RecordedAt.Format(time.DateTime), r.Shape, r.Adjacency)
		report.PrintCompareLine(w, r.Label, r.Summary)
	}
	return nil
}
