// Package testutil provides shared test infrastructure for placement-sim.
// It consolidates golden scenario types and assertion helpers used across
// sim/ and its sub-package tests.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/diffusion_scenarios.json.
type GoldenDataset struct {
	Scenarios []GoldenScenario `json:"scenarios"`
}

// GoldenScenario is one placement with its expected per-item metrics.
type GoldenScenario struct {
	Name      string                `json:"name"`
	Dims      []int                 `json:"dims"`
	Adjacency string                `json:"adjacency"`
	Sources   []GoldenFeature       `json:"sources"`
	Sinks     []GoldenFeature       `json:"sinks"`
	Expect    map[string]GoldenItem `json:"expect"`
}

// GoldenFeature is a located set of item IDs.
type GoldenFeature struct {
	At    []int    `json:"at"`
	Items []string `json:"items"`
}

// GoldenItem holds the expected outcome of diffusing one item.
type GoldenItem struct {
	MaxSteps    int  `json:"max_steps"`
	TotalSteps  int  `json:"total_steps"`
	Unreachable bool `json:"unreachable,omitempty"`
}

// LoadGoldenDataset loads the golden scenarios from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "diffusion_scenarios.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// Chebyshev returns the largest per-axis distance between a and b.
func Chebyshev(a, b []int) int {
	d := 0
	for i := range a {
		d = max(d, abs(a[i]-b[i]))
	}
	return d
}

// Manhattan returns the sum of per-axis distances between a and b.
func Manhattan(a, b []int) int {
	d := 0
	for i := range a {
		d += abs(a[i] - b[i])
	}
	return d
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
