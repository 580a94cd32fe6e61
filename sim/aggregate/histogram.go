package aggregate

import (
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Bin is one unit-width histogram bucket: how many items needed Steps hops.
type Bin struct {
	Steps int `csv:"steps" json:"steps"`
	Count int `csv:"count" json:"count"`
}

// Histogram buckets values into unit-width bins covering 0..max(values).
// Empty bins inside that range are kept so the result plots without gaps.
// Returns nil for no values. Values must be non-negative.
func Histogram(values []int) []Bin {
	if len(values) == 0 {
		return nil
	}
	x := toSortedFloats(values)
	top := int(x[len(x)-1])
	dividers := make([]float64, top+2)
	for i := range dividers {
		dividers[i] = float64(i)
	}
	counts := stat.Histogram(nil, dividers, x, nil)
	bins := make([]Bin, len(counts))
	for i, c := range counts {
		bins[i] = Bin{Steps: i, Count: int(c)}
	}
	return bins
}

func toSortedFloats(values []int) []float64 {
	x := make([]float64, len(values))
	for i, v := range values {
		x[i] = float64(v)
	}
	slices.Sort(x)
	return x
}
