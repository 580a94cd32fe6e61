// Package sim provides the core diffusion engine for placement-sim.
//
// # Reading Guide
//
// Start with these files to understand the engine:
//   - grid.go: Shape and Coordinate, row-major linearisation and bounds checks
//   - feature.go: Source and Sink features (a location plus the items it holds or needs)
//   - topology.go: construction-time validation and the item-keyed directories
//   - diffusion.go: the multi-source breadth-first flood that yields MaxSteps/TotalSteps
//
// # Architecture
//
// A Topology is built once from a placement and is read-only afterwards, so any
// number of goroutines may call Diffuse on it concurrently. Per-item state (the
// arrival grid and the work queue) is allocated per call and discarded.
//
// Collaborators live in sub-packages:
//   - sim/placement/: placement generators (matmul tiling, seeded random, explicit YAML)
//   - sim/sweep/: fan-out of one diffusion task per item over a bounded worker pool
//   - sim/aggregate/: heatmap overlay, histograms and summary statistics
//   - sim/report/: stdout summary, CSV/JSON exports and the SQLite run index
//   - sim/trace/: optional recording of every diffusion's phase transitions
//
// # Error Kinds
//
//   - *ConstructionError: the placement is invalid; no Topology is produced.
//   - *UnreachableSinkError: one item has a sink no source can reach; other items are unaffected.
package sim
