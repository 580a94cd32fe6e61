package placement

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/placement-sim/placement-sim/sim"
)

// RandomConfig parameterises a seeded random placement.
type RandomConfig struct {
	Seed             int64 `yaml:"seed"`
	Items            int   `yaml:"items"`              // number of distinct items
	SourceCells      int   `yaml:"source_cells"`       // cells eligible to hold items
	SinkCells        int   `yaml:"sink_cells"`         // cells eligible to need items
	CopiesPerItem    int   `yaml:"copies_per_item"`    // sources holding each item
	ConsumersPerItem int   `yaml:"consumers_per_item"` // sinks needing each item
}

// Validate checks the config against a grid of the given size.
func (cfg RandomConfig) Validate(cells int) error {
	switch {
	case cfg.Items <= 0:
		return fmt.Errorf("random: items must be positive, got %d", cfg.Items)
	case cfg.SourceCells <= 0 || cfg.SinkCells <= 0:
		return fmt.Errorf("random: source_cells and sink_cells must be positive, got %d and %d", cfg.SourceCells, cfg.SinkCells)
	case cfg.SourceCells+cfg.SinkCells > cells:
		return fmt.Errorf("random: %d source + %d sink cells exceed the grid's %d cells", cfg.SourceCells, cfg.SinkCells, cells)
	case cfg.CopiesPerItem <= 0 || cfg.CopiesPerItem > cfg.SourceCells:
		return fmt.Errorf("random: copies_per_item must be in [1, %d], got %d", cfg.SourceCells, cfg.CopiesPerItem)
	case cfg.ConsumersPerItem <= 0 || cfg.ConsumersPerItem > cfg.SinkCells:
		return fmt.Errorf("random: consumers_per_item must be in [1, %d], got %d", cfg.SinkCells, cfg.ConsumersPerItem)
	}
	return nil
}

// RandomItem names the n-th item of a random placement.
func RandomItem(n int) sim.ItemID {
	return sim.ItemID(fmt.Sprintf("item_%d", n))
}

// Random scatters items over dims. Distinct cells are drawn for sources and
// sinks; each item is then given CopiesPerItem distinct sources and
// ConsumersPerItem distinct sinks. Cells that end up with no item are left
// empty. Deterministic given the same dims and config.
func Random(dims []int, cfg RandomConfig) (*Placement, error) {
	shape := sim.Shape(dims)
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("random: %w", err)
	}
	if err := cfg.Validate(shape.Size()); err != nil {
		return nil, err
	}

	rng := sim.NewPartitionedRNG(sim.NewPlacementKey(cfg.Seed))
	cells := rng.ForSubsystem(sim.SubsystemCells).Perm(shape.Size())
	sourceCells := cells[:cfg.SourceCells]
	sinkCells := cells[cfg.SourceCells : cfg.SourceCells+cfg.SinkCells]

	held := make([][]sim.ItemID, len(sourceCells))
	needed := make([][]sim.ItemID, len(sinkCells))
	for n := 0; n < cfg.Items; n++ {
		itemRNG := rng.ForSubsystem(sim.SubsystemItem(n))
		item := RandomItem(n)
		for _, k := range itemRNG.Perm(len(sourceCells))[:cfg.CopiesPerItem] {
			held[k] = append(held[k], item)
		}
		for _, k := range itemRNG.Perm(len(sinkCells))[:cfg.ConsumersPerItem] {
			needed[k] = append(needed[k], item)
		}
	}

	p := &Placement{Dims: shape}
	for k, idx := range sourceCells {
		if len(held[k]) > 0 {
			p.Sources = append(p.Sources, sim.NewSource(shape.Coordinate(idx), held[k]...))
		}
	}
	for k, idx := range sinkCells {
		if len(needed[k]) > 0 {
			p.Sinks = append(p.Sinks, sim.NewSink(shape.Coordinate(idx), needed[k]...))
		}
	}
	logrus.Debugf("random placement seed=%d: %d/%d source cells used, %d/%d sink cells used",
		cfg.Seed, len(p.Sources), cfg.SourceCells, len(p.Sinks), cfg.SinkCells)
	return p, nil
}
