package automaton

import (
	"cmp"
	"fmt"
)

// Limits bounds the host-level resource cost of an otherwise-unbounded
// construction (§5: "subset construction is worst-case exponential ...
// implementers should not impose artificial bounds but should tolerate
// large DFAs gracefully"). The core Subset/Minimize functions stay total
// and unbounded per spec; Limits is an opt-in safety wrapper for callers
// (e.g. a regex engine compiling untrusted patterns) that want a reported
// error instead of unbounded memory growth.
type Limits struct {
	// MaxDFAStates caps the number of DFA states SubsetWithLimits will
	// discover before giving up. Zero means unlimited.
	MaxDFAStates int
}

// DefaultLimits returns a generous default: large enough not to interfere
// with ordinary patterns, small enough to catch pathological blowup.
func DefaultLimits() Limits {
	return Limits{MaxDFAStates: 100_000}
}

// Validate reports whether l is usable.
func (l Limits) Validate() error {
	if l.MaxDFAStates < 0 {
		return &Error{Kind: InvalidConfig, Message: "MaxDFAStates must be >= 0"}
	}
	return nil
}

// SubsetWithLimits runs the same construction as Subset but aborts with a
// StateLimitExceeded error as soon as more than l.MaxDFAStates distinct
// states have been discovered, rather than running the unbounded
// construction to completion. A zero MaxDFAStates means unlimited
// (equivalent to calling Subset directly).
func SubsetWithLimits[S cmp.Ordered, A cmp.Ordered](e *EpsilonNFA[S, A], l Limits) (*DFA[A], *Intern[S], error) {
	if err := l.Validate(); err != nil {
		return nil, nil, err
	}
	return subset(e, l.MaxDFAStates)
}

func errStateLimitMessage(maxStates int) string {
	return fmt.Sprintf("subset construction exceeded MaxDFAStates=%d", maxStates)
}
