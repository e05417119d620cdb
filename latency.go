package iomock

import (
	"fmt"
	"time"
)

// LatencySimulator delays operations so that tests can exercise timeouts
// and races in code that uses the filesystem. The delay is applied after
// argument validation and fault injection, outside the store lock, so a
// slow operation never blocks unrelated ones.
type LatencySimulator interface {
	// Simulate blocks for the delay configured for op.
	Simulate(op Operation)
}

// latencySimulator implements LatencySimulator.
type latencySimulator struct {
	durations [NumOperations]time.Duration // Delay per operation; OpUnknown holds the fallback.
}

// NewLatencySimulator returns a LatencySimulator that delays every
// operation by d. A zero d disables the delay.
// Panics if d is negative.
func NewLatencySimulator(d time.Duration) LatencySimulator {
	if d < 0 {
		panic(fmt.Sprintf("iomock: negative duration not allowed: %v", d))
	}

	ls := &latencySimulator{}
	ls.durations[OpUnknown] = d
	return ls
}

// NewLatencySimulatorPerOp returns a LatencySimulator with a delay per
// operation. Operations missing from the map fall back to the OpUnknown
// entry, then to no delay.
// Panics if any duration is negative.
func NewLatencySimulatorPerOp(durations map[Operation]time.Duration) LatencySimulator {
	ls := &latencySimulator{}
	for op, d := range durations {
		if d < 0 {
			panic(fmt.Sprintf("iomock: negative duration not allowed for %v: %v", op, d))
		}
		if op.IsValid() || op == OpUnknown {
			ls.durations[op] = d
		}
	}
	return ls
}

func (ls *latencySimulator) Simulate(op Operation) {
	if !op.IsValid() {
		op = OpUnknown
	}

	d := ls.durations[op]
	if d == 0 {
		d = ls.durations[OpUnknown]
	}
	if d > 0 {
		time.Sleep(d)
	}
}

// noLatency is the default simulator.
type noLatency struct{}

func (noLatency) Simulate(Operation) {}
