// Package placement generates the placements a Topology is built from:
// which cells hold which items (sources) and which cells need them (sinks).
//
// Three generators are provided: Matmul reproduces the tiled C = A x B
// mapping with optional de-duplication of the A or B operand, Random
// scatters items deterministically from a seed, and Explicit takes the
// features listed in a placement document.
package placement

import (
	"fmt"

	"github.com/placement-sim/placement-sim/sim"
)

// Placement is a generated (dims, sources, sinks) triple plus the adjacency
// model it should be evaluated under.
type Placement struct {
	Dims      sim.Shape
	Adjacency sim.Adjacency
	Sources   []sim.Feature
	Sinks     []sim.Feature
}

// Topology constructs the placement's Topology. Extra options are applied
// after the placement's own adjacency.
func (p *Placement) Topology(opts ...sim.Option) (*sim.Topology, error) {
	all := append([]sim.Option{sim.WithAdjacency(p.Adjacency)}, opts...)
	topo, err := sim.NewTopology(p.Dims, p.Sources, p.Sinks, all...)
	if err != nil {
		return nil, fmt.Errorf("building %v placement: %w", p.Dims, err)
	}
	return topo, nil
}

// Generate dispatches on spec.Generator.
func Generate(spec *Spec) (*Placement, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid placement spec: %w", err)
	}
	var (
		p   *Placement
		err error
	)
	switch spec.Generator {
	case GeneratorMatmul:
		p, err = Matmul(*spec.Matmul)
	case GeneratorRandom:
		p, err = Random(spec.Dims, *spec.Random)
	case GeneratorExplicit:
		p, err = Explicit(spec.Dims, spec.Sources, spec.Sinks)
	default:
		panic(fmt.Sprintf("unhandled generator %q", spec.Generator))
	}
	if err != nil {
		return nil, err
	}
	p.Adjacency = sim.Adjacency(spec.Adjacency)
	return p, nil
}

// Build generates the placement described by spec and constructs its Topology.
func Build(spec *Spec, opts ...sim.Option) (*sim.Topology, error) {
	p, err := Generate(spec)
	if err != nil {
		return nil, err
	}
	return p.Topology(opts...)
}

// Explicit turns listed features into a placement. Validation of locations
// and packing is left to sim.NewTopology.
func Explicit(dims []int, sources, sinks []FeatureSpec) (*Placement, error) {
	p := &Placement{Dims: sim.Shape(dims)}
	for _, fs := range sources {
		p.Sources = append(p.Sources, sim.NewSource(fs.At, fs.itemIDs()...))
	}
	for _, fs := range sinks {
		p.Sinks = append(p.Sinks, sim.NewSink(fs.At, fs.itemIDs()...))
	}
	return p, nil
}
