package trace

import (
	"sync"
	"time"

	"github.com/placement-sim/placement-sim/sim"
)

// TraceLevel controls the verbosity of diffusion tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelPhases captures every phase transition of every diffusion.
	TraceLevelPhases TraceLevel = "phases"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:   true,
	TraceLevelPhases: true,
	"":               true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// DiffusionTrace collects phase records from concurrent diffusions.
type DiffusionTrace struct {
	start time.Time
	now   func() time.Time

	mu      sync.Mutex
	records []PhaseRecord
}

// NewDiffusionTrace creates a DiffusionTrace whose clock starts now.
func NewDiffusionTrace() *DiffusionTrace {
	return newDiffusionTrace(time.Now)
}

func newDiffusionTrace(now func() time.Time) *DiffusionTrace {
	return &DiffusionTrace{start: now(), now: now, records: make([]PhaseRecord, 0)}
}

// Record appends a phase transition. Safe for concurrent use.
func (dt *DiffusionTrace) Record(item sim.ItemID, phase sim.DiffusionPhase) {
	at := dt.now().Sub(dt.start)
	dt.mu.Lock()
	dt.records = append(dt.records, PhaseRecord{Item: item, Phase: phase, At: at})
	dt.mu.Unlock()
}

// Observer adapts the trace to sim.WithObserver.
func (dt *DiffusionTrace) Observer() sim.Observer {
	return dt.Record
}

// Records returns a copy of everything recorded so far, in arrival order.
func (dt *DiffusionTrace) Records() []PhaseRecord {
	dt.mu.Lock()
	defer dt.mu.Unlock()
	out := make([]PhaseRecord, len(dt.records))
	copy(out, dt.records)
	return out
}
