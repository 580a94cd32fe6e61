package report

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/klauspost/compress/zstd"

	"github.com/placement-sim/placement-sim/sim/aggregate"
	"github.com/placement-sim/placement-sim/sim/sweep"
)

// ItemRow is the flattened per-item result written to items.csv and the
// item_results table.
type ItemRow struct {
	Item       string `csv:"item" json:"item"`
	Sources    int    `csv:"sources" json:"sources"`
	Sinks      int    `csv:"sinks" json:"sinks"`
	MaxSteps   int    `csv:"max_steps" json:"max_steps"`
	TotalSteps int    `csv:"total_steps" json:"total_steps"`
	Error      string `csv:"error" json:"error,omitempty"`
}

// ItemRows flattens sweep results, keeping their order.
func ItemRows(results []sweep.ItemResult) []ItemRow {
	rows := make([]ItemRow, len(results))
	for i, r := range results {
		rows[i] = ItemRow{
			Item:       string(r.Item),
			Sources:    r.Result.Sources,
			Sinks:      r.Result.Sinks,
			MaxSteps:   r.Result.MaxSteps,
			TotalSteps: r.Result.TotalSteps,
		}
		if r.Err != nil {
			rows[i].Error = r.Err.Error()
		}
	}
	return rows
}

// RunRecord describes one run: what was evaluated and how it scored.
type RunRecord struct {
	ID         int64             `json:"id,omitempty"`
	Label      string            `json:"label"`
	Shape      string            `json:"shape"`
	Adjacency  string            `json:"adjacency"`
	Workers    int               `json:"workers"`
	ElapsedMS  int64             `json:"elapsed_ms"`
	RecordedAt time.Time         `json:"recorded_at"`
	Summary    aggregate.Summary `json:"summary"`
}

// Output file names.
const (
	ItemsFile          = "items.csv"
	HeatmapFile        = "heatmap.csv"
	MaxHistogramFile   = "histogram_max.csv"
	TotalHistogramFile = "histogram_total.csv"
	SummaryFile        = "summary.json"
	compressedSuffix   = ".zst"
)

// OutputDir writes the exports of a run into one directory.
type OutputDir struct {
	dir      string
	compress bool
}

// NewOutputDir creates dir if needed. Returns nil if dir is empty (output
// disabled); every method is a no-op on a nil *OutputDir.
func NewOutputDir(dir string, compress bool) (*OutputDir, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &OutputDir{dir: dir, compress: compress}, nil
}

// Dir returns the output directory path.
func (o *OutputDir) Dir() string {
	if o == nil {
		return ""
	}
	return o.dir
}

// WriteAll writes every export for one aggregated run.
func (o *OutputDir) WriteAll(run RunRecord, results []sweep.ItemResult, agg *aggregate.Aggregator) error {
	if o == nil {
		return nil
	}
	if err := o.writeCSV(ItemsFile, ItemRows(results)); err != nil {
		return err
	}
	if err := o.writeCSV(HeatmapFile, agg.Heatmap().Cells()); err != nil {
		return err
	}
	if err := o.writeCSV(MaxHistogramFile, agg.MaxStepsHistogram()); err != nil {
		return err
	}
	if err := o.writeCSV(TotalHistogramFile, agg.TotalStepsHistogram()); err != nil {
		return err
	}
	return o.WriteSummary(run)
}

func (o *OutputDir) writeCSV(name string, records any) error {
	f, err := os.Create(filepath.Join(o.dir, name))
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	defer f.Close()
	if err := gocsv.Marshal(records, f); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return f.Close()
}

// WriteSummary saves the run record as summary.json, or summary.json.zst
// when compression is on.
func (o *OutputDir) WriteSummary(run RunRecord) error {
	if o == nil {
		return nil
	}
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}
	name := SummaryFile
	if o.compress {
		name += compressedSuffix
	}
	path := filepath.Join(o.dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	defer f.Close()

	var w io.Writer = f
	var enc *zstd.Encoder
	if o.compress {
		enc, err = zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return err
		}
		w = enc
	}
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if enc != nil {
		if err := enc.Close(); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	return f.Close()
}

// ReadSummary loads a summary written by WriteSummary. Files ending in
// .zst are decompressed.
func ReadSummary(path string) (RunRecord, error) {
	var run RunRecord
	f, err := os.Open(path)
	if err != nil {
		return run, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, compressedSuffix) {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return run, err
		}
		defer dec.Close()
		r = dec
	}
	if err := json.NewDecoder(r).Decode(&run); err != nil {
		return run, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return run, nil
}

// ReadItems loads items.csv back into rows.
func ReadItems(path string) ([]ItemRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var rows []ItemRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil && !errors.Is(err, gocsv.ErrEmptyCSVFile) {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}
