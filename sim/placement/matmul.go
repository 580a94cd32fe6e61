package placement

import (
	"fmt"

	"github.com/placement-sim/placement-sim/sim"
)

// MatmulConfig parameterises the C = A x B tiling on a Rows x Cols grid of
// processing elements.
type MatmulConfig struct {
	Rows   int  `yaml:"rows"`
	Cols   int  `yaml:"cols"`
	DedupA bool `yaml:"dedup_a"` // each buffer holds only its own A tile
	DedupB bool `yaml:"dedup_b"` // each buffer holds only its own B tile
}

// Buffer and PE planes of a matmul placement.
const (
	BufferPlane = 0
	PEPlane     = 1
)

// TileA, TileB and TileC name the operand tiles.
func TileA(i, k int) sim.ItemID { return sim.ItemID(fmt.Sprintf("A[%d,%d]", i, k)) }
func TileB(k, j int) sim.ItemID { return sim.ItemID(fmt.Sprintf("B[%d,%d]", k, j)) }
func TileC(i, j int) sim.ItemID { return sim.ItemID(fmt.Sprintf("C[%d,%d]", i, j)) }

// Matmul builds the tiled matrix-multiply placement.
//
// Cell (i,j) of the PE plane computes C[i,j] and so needs row i of A
// (A[i,k] for every k < Cols), column j of B (B[k,j] for every k < Rows) and
// C[i,j]. The buffer at (i,j) on the buffer plane holds C[i,j] and, unless
// de-duplicated, the full A row and B column its PE needs; with DedupA it
// holds only A[i,j], with DedupB only B[i,j]. Buffers and PEs sit on separate
// planes of a [2, Rows, Cols] grid so that no cell holds two features.
func Matmul(cfg MatmulConfig) (*Placement, error) {
	if cfg.Rows <= 0 || cfg.Cols <= 0 {
		return nil, fmt.Errorf("matmul: rows and cols must be positive, got %dx%d", cfg.Rows, cfg.Cols)
	}
	p := &Placement{Dims: sim.Shape{2, cfg.Rows, cfg.Cols}}
	for i := 0; i < cfg.Rows; i++ {
		for j := 0; j < cfg.Cols; j++ {
			var held []sim.ItemID
			if cfg.DedupA {
				held = append(held, TileA(i, j))
			} else {
				for k := 0; k < cfg.Cols; k++ {
					held = append(held, TileA(i, k))
				}
			}
			if cfg.DedupB {
				held = append(held, TileB(i, j))
			} else {
				for k := 0; k < cfg.Rows; k++ {
					held = append(held, TileB(k, j))
				}
			}
			held = append(held, TileC(i, j))
			p.Sources = append(p.Sources, sim.NewSource(sim.Coordinate{BufferPlane, i, j}, held...))

			var needed []sim.ItemID
			for k := 0; k < cfg.Cols; k++ {
				needed = append(needed, TileA(i, k))
			}
			for k := 0; k < cfg.Rows; k++ {
				needed = append(needed, TileB(k, j))
			}
			needed = append(needed, TileC(i, j))
			p.Sinks = append(p.Sinks, sim.NewSink(sim.Coordinate{PEPlane, i, j}, needed...))
		}
	}
	return p, nil
}

// String names the variant, e.g. "matmul 3x3 dedup=A".
func (cfg MatmulConfig) String() string {
	dedup := "none"
	switch {
	case cfg.DedupA && cfg.DedupB:
		dedup = "A+B"
	case cfg.DedupA:
		dedup = "A"
	case cfg.DedupB:
		dedup = "B"
	}
	return fmt.Sprintf("matmul %dx%d dedup=%s", cfg.Rows, cfg.Cols, dedup)
}
