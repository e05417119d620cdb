package iomock

import (
	"sync"
)

// Counters records how often each operation was invoked and how often it
// failed. It is safe for concurrent use.
type Counters struct {
	calls    [NumOperations]int
	failures [NumOperations]int
	mu       sync.RWMutex
}

// NewCounters returns a Counters instance with every count at zero.
func NewCounters() *Counters {
	return &Counters{}
}

// Count reports the current count for the given operation.
func (c *Counters) Count(op Operation) int {
	if !op.IsValid() {
		return 0
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.calls[op]
}

// Failures reports how many invocations of op returned an error.
func (c *Counters) Failures(op Operation) int {
	if !op.IsValid() {
		return 0
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.failures[op]
}

// Successes reports how many invocations of op succeeded.
func (c *Counters) Successes(op Operation) int {
	if !op.IsValid() {
		return 0
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.calls[op] - c.failures[op]
}

// Total reports the sum of all counts.
func (c *Counters) Total() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, v := range c.calls {
		n += v
	}
	return n
}

// Snapshot returns a copy of all counts indexed by operation.
func (c *Counters) Snapshot() [NumOperations]int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.calls
}

// ResetAll resets every count to zero.
func (c *Counters) ResetAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls = [NumOperations]int{}
	c.failures = [NumOperations]int{}
}

// Clone returns an independent copy.
func (c *Counters) Clone() *Counters {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return &Counters{calls: c.calls, failures: c.failures}
}

// Equal reports whether other holds the same counts.
func (c *Counters) Equal(other *Counters) bool {
	if c == other {
		return true
	}

	c.mu.RLock()
	calls, failures := c.calls, c.failures
	c.mu.RUnlock()

	other.mu.RLock()
	defer other.mu.RUnlock()

	return calls == other.calls && failures == other.failures
}

// inc increments the counter for the given operation.
func (c *Counters) inc(op Operation) {
	if !op.IsValid() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls[op]++
}

// failed increments the failure counter for the given operation.
func (c *Counters) failed(op Operation) {
	if !op.IsValid() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.failures[op]++
}
