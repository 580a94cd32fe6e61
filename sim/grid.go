package sim

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Coordinate is a grid location, one non-negative integer per dimension.
type Coordinate []int

// String renders the coordinate as "(x,y,...)".
func (c Coordinate) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	for i, v := range c {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(strconv.Itoa(v))
	}
	sb.WriteString(")")
	return sb.String()
}

// Equal reports whether two coordinates name the same cell.
func (c Coordinate) Equal(other Coordinate) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i] != other[i] {
			return false
		}
	}
	return true
}

// Less orders coordinates lexicographically. Shorter coordinates sort first on ties.
func (c Coordinate) Less(other Coordinate) bool {
	for i := 0; i < len(c) && i < len(other); i++ {
		if c[i] != other[i] {
			return c[i] < other[i]
		}
	}
	return len(c) < len(other)
}

// Clone returns an independent copy.
func (c Coordinate) Clone() Coordinate {
	out := make(Coordinate, len(c))
	copy(out, c)
	return out
}

// Shape is the extent of a grid along each dimension.
// Cells are stored in a single flat buffer in row-major order: the last
// dimension varies fastest.
type Shape []int

// Validate checks that the shape has at least one dimension and that every
// dimension is positive.
func (s Shape) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("%w: shape has no dimensions", ErrInvalidDims)
	}
	size := 1
	for i, d := range s {
		if d <= 0 {
			return fmt.Errorf("%w: dims[%d] = %d, must be positive", ErrInvalidDims, i, d)
		}
		if size > math.MaxInt/d {
			return fmt.Errorf("%w: %v has more cells than an int can count", ErrInvalidDims, []int(s))
		}
		size *= d
	}
	return nil
}

// Rank returns the number of dimensions.
func (s Shape) Rank() int {
	return len(s)
}

// Size returns the number of cells in the grid.
func (s Shape) Size() int {
	n := 1
	for _, d := range s {
		n *= d
	}
	return n
}

// Strides returns the row-major stride of each dimension.
func (s Shape) Strides() []int {
	strides := make([]int, len(s))
	step := 1
	for i := len(s) - 1; i >= 0; i-- {
		strides[i] = step
		step *= s[i]
	}
	return strides
}

// Contains reports whether c has the shape's rank and lies within its bounds.
func (s Shape) Contains(c Coordinate) bool {
	if len(c) != len(s) {
		return false
	}
	for i, v := range c {
		if v < 0 || v >= s[i] {
			return false
		}
	}
	return true
}

// Index linearises c into its offset in the flat cell buffer.
// The caller must ensure s.Contains(c).
func (s Shape) Index(c Coordinate) int {
	idx := 0
	for i, v := range c {
		idx = idx*s[i] + v
	}
	return idx
}

// Coordinate is the inverse of Index.
func (s Shape) Coordinate(idx int) Coordinate {
	c := make(Coordinate, len(s))
	s.decode(idx, c)
	return c
}

// decode writes the coordinate of idx into dst without allocating.
func (s Shape) decode(idx int, dst Coordinate) {
	for i := len(s) - 1; i >= 0; i-- {
		dst[i] = idx % s[i]
		idx /= s[i]
	}
}

func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, "x")
}
