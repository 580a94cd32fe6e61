package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// PlacementKey is the seed of a random placement. Generating twice from the
// same key and parameters yields the same sources and sinks.
type PlacementKey int64

// NewPlacementKey wraps seed.
func NewPlacementKey(seed int64) PlacementKey {
	return PlacementKey(seed)
}

// SubsystemCells names the stream that shuffles grid cells before they are
// split into source cells and sink cells.
const SubsystemCells = "cells"

// SubsystemItem names the stream that picks the n-th item's holders and
// consumers. Giving each item its own stream means raising the item count
// leaves the assignments of items already present untouched.
func SubsystemItem(n int) string {
	return fmt.Sprintf("item_%d", n)
}

// PartitionedRNG hands out one *rand.Rand per named stream, all derived from
// a single PlacementKey. Draws on one stream never shift another.
// The cells stream is seeded with the key itself; any other stream mixes the
// key with an FNV-1a hash of its name. Not safe for concurrent use.
type PartitionedRNG struct {
	key        PlacementKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG returns a PartitionedRNG with no streams opened yet.
func NewPartitionedRNG(key PlacementKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns the stream called name, opening it on first use.
// Later calls with the same name continue the same stream.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(p.seedFor(name)))
	p.subsystems[name] = rng
	return rng
}

func (p *PartitionedRNG) seedFor(name string) int64 {
	if name == SubsystemCells {
		return int64(p.key)
	}
	return int64(p.key) ^ fnv1a64(name)
}

// Key returns the seed the streams derive from.
func (p *PartitionedRNG) Key() PlacementKey {
	return p.key
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
