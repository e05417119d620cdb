package iomock

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// ErrorMode defines how an injected error is applied.
type ErrorMode int

const (
	ErrorModeAlways         ErrorMode = iota // ErrorModeAlways means the error is returned every time.
	ErrorModeOnce                            // ErrorModeOnce means the error is returned once, then cleared.
	ErrorModeAfterSuccesses                  // ErrorModeAfterSuccesses means the error is returned after N successful calls.
)

// ErrorRule captures the settings for an error to be injected.
type ErrorRule struct {
	Err      error         // Err is the error to return.
	Mode     ErrorMode     // Mode specifies how the error is applied.
	AfterN   uint64        // AfterN is used only for ErrorModeAfterSuccesses.
	matchers []PathMatcher // Matchers for paths.
	usedOnce atomic.Bool   // Used only for ErrorModeOnce.
	hits     atomic.Uint64 // Number of hits observed.
}

// NewErrorRule creates a new error rule.
//
// Parameters:
//   - err - the error to return.
//   - mode - one of ErrorModeAlways, ErrorModeOnce, or ErrorModeAfterSuccesses.
//   - after - used only for ErrorModeAfterSuccesses: the number of matching
//     calls that succeed before the error is returned.
//   - matchers - path matchers; a rule without matchers never fires.
func NewErrorRule(err error, mode ErrorMode, after int, matchers ...PathMatcher) *ErrorRule {
	return &ErrorRule{
		Err:      err,
		Mode:     mode,
		AfterN:   mustAfter(after),
		matchers: matchers,
	}
}

// matches returns true if the rule applies to the path.
func (r *ErrorRule) matches(path string) bool {
	for _, m := range r.matchers {
		if m.Matches(path) {
			return true
		}
	}

	return false
}

// shouldReturnError returns true if the error should be returned.
// For ErrorModeAfterSuccesses, it increments the hit counter.
func (r *ErrorRule) shouldReturnError() bool {
	switch r.Mode {
	case ErrorModeAlways:
		return true
	case ErrorModeOnce:
		return r.usedOnce.CompareAndSwap(false, true)
	case ErrorModeAfterSuccesses:
		return r.hits.Add(1) > r.AfterN
	default:
		return false
	}
}

// ErrorInjector injects faults into mock filesystem operations. Rules are
// checked after argument validation and before any existence check, with
// the canonical path of the first path argument.
type ErrorInjector interface {
	// Add adds a pre-configured rule. OpUnknown applies it to every operation.
	Add(op Operation, rule *ErrorRule)

	// AddExact adds a rule for one canonical path.
	AddExact(op Operation, path string, err error, mode ErrorMode, after int)

	// AddGlob adds a rule for canonical paths matching a search pattern.
	AddGlob(op Operation, pattern string, err error, mode ErrorMode, after int)

	// AddRegexp adds a rule for paths matching a regular expression.
	// It returns an error if the expression fails to compile.
	AddRegexp(op Operation, pattern string, err error, mode ErrorMode, after int) error

	// AddAll adds a rule that matches every path for op.
	AddAll(op Operation, err error, mode ErrorMode, after int)

	// Clear removes all rules.
	Clear()

	// CheckAndApply returns the error of the first rule that fires for op and path.
	CheckAndApply(op Operation, path string) error

	// GetAll returns a copy of the configured rules.
	GetAll() map[Operation][]*ErrorRule
}

// errorInjector implements ErrorInjector.
type errorInjector struct {
	mu      sync.RWMutex
	cmp     KeyComparer
	configs map[Operation][]*ErrorRule
}

// Ensure errorInjector implements ErrorInjector.
var _ ErrorInjector = (*errorInjector)(nil)

// NewErrorInjector returns an ErrorInjector whose exact and glob rules
// compare paths with cmp. A nil cmp compares byte by byte.
func NewErrorInjector(cmp KeyComparer) ErrorInjector {
	if cmp == nil {
		cmp = Ordinal
	}
	return &errorInjector{
		cmp:     cmp,
		configs: make(map[Operation][]*ErrorRule),
	}
}

func (ei *errorInjector) Add(op Operation, rule *ErrorRule) {
	ei.mu.Lock()
	defer ei.mu.Unlock()

	ei.configs[op] = append(ei.configs[op], rule)
}

func (ei *errorInjector) AddExact(op Operation, path string, err error, mode ErrorMode, after int) {
	ei.Add(op, NewErrorRule(err, mode, after, NewExactMatcher(path, ei.cmp)))
}

func (ei *errorInjector) AddGlob(op Operation, pattern string, err error, mode ErrorMode, after int) {
	ei.Add(op, NewErrorRule(err, mode, after, NewGlobMatcher(pattern, ei.cmp != Ordinal)))
}

func (ei *errorInjector) AddRegexp(op Operation, pattern string, err error, mode ErrorMode, after int) error {
	m, errRule := NewRegexpMatcher(pattern)
	if errRule != nil {
		return errRule
	}

	ei.Add(op, NewErrorRule(err, mode, after, m))

	return nil
}

func (ei *errorInjector) AddAll(op Operation, err error, mode ErrorMode, after int) {
	ei.Add(op, NewErrorRule(err, mode, after, NewWildcardMatcher()))
}

func (ei *errorInjector) Clear() {
	ei.mu.Lock()
	defer ei.mu.Unlock()

	ei.configs = make(map[Operation][]*ErrorRule)
}

func (ei *errorInjector) GetAll() map[Operation][]*ErrorRule {
	ei.mu.RLock()
	defer ei.mu.RUnlock()

	out := make(map[Operation][]*ErrorRule, len(ei.configs))
	for op, arr := range ei.configs {
		cp := make([]*ErrorRule, len(arr))
		copy(cp, arr)
		out[op] = cp
	}

	return out
}

// CheckAndApply tries op-specific rules in insertion order, then rules
// registered for OpUnknown.
func (ei *errorInjector) CheckAndApply(op Operation, path string) error {
	ei.mu.RLock()
	defer ei.mu.RUnlock()

	for _, key := range [...]Operation{op, OpUnknown} {
		for _, r := range ei.configs[key] {
			if r.matches(path) && r.shouldReturnError() {
				return r.Err
			}
		}
		if op == OpUnknown {
			break
		}
	}

	return nil
}

// mustAfter converts a public int 'after' to internal uint64 and panics on invalid input.
func mustAfter(after int) uint64 {
	if after < 0 {
		panic(fmt.Sprintf("iomock: invalid after value %d, must be >= 0", after))
	}
	return uint64(after)
}
