// Package trace records the phase transitions of diffusions for later
// analysis: which items were seeded, which converged and how long each took.
package trace

import (
	"time"

	"github.com/placement-sim/placement-sim/sim"
)

// PhaseRecord captures one phase transition of one diffusion.
type PhaseRecord struct {
	Item  sim.ItemID
	Phase sim.DiffusionPhase
	At    time.Duration // since the trace started
}
