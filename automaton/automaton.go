// Package automaton implements the classical finite-automata pipeline that
// sits underneath a regex engine: epsilon-closure, subset construction,
// DFA minimization, and DFA simulation. It is deliberately generic over the
// underlying state and symbol identifiers so it can be driven either by a
// hand-built automaton (as the tests do) or by a production Thompson NFA
// compiled from a regex pattern (see package enfa).
//
// Every exported transform here is a pure function: no shared mutable
// state, no goroutines, no I/O. Multiple invocations may run concurrently
// on distinct inputs without synchronization.
package automaton

import (
	"cmp"
	"slices"
)

// Label is the spec's Option<A>: either an epsilon move (Eps true) or a
// move consuming the symbol Sym.
type Label[A comparable] struct {
	Eps bool
	Sym A
}

// Epsilon returns the label for an epsilon transition.
func Epsilon[A comparable]() Label[A] {
	return Label[A]{Eps: true}
}

// Symbol returns the label for a transition consuming a.
func Symbol[A comparable](a A) Label[A] {
	return Label[A]{Sym: a}
}

// EpsilonNFA is the input automaton: a nondeterministic machine whose
// transitions are labeled either by an input symbol or by epsilon.
//
// Invariant (caller's responsibility): every state appearing as a Trans key
// or as a member of a target slice belongs to States; Start and every
// element of Finals belong to States. Violations (dangling targets) are
// not rejected — they degrade gracefully by being unreachable, matching
// the silent-absence convention of the rest of the model.
type EpsilonNFA[S cmp.Ordered, A cmp.Ordered] struct {
	States []S
	Start  S
	Finals map[S]struct{}
	Trans  map[S]map[Label[A]][]S

	known map[S]struct{}
}

// New creates an empty epsilon-NFA with the given start state.
func New[S cmp.Ordered, A cmp.Ordered](start S) *EpsilonNFA[S, A] {
	return &EpsilonNFA[S, A]{
		Start:  start,
		Finals: make(map[S]struct{}),
		Trans:  make(map[S]map[Label[A]][]S),
		known:  make(map[S]struct{}),
	}
}

// AddState registers s as a known state (idempotent). A state with no
// outgoing transitions never gets a Trans entry, so registration is
// tracked separately rather than inferred from map membership.
func (e *EpsilonNFA[S, A]) AddState(s S) {
	if _, ok := e.known[s]; !ok {
		e.known[s] = struct{}{}
		e.States = append(e.States, s)
	}
}

// AddFinal marks s as an accepting state.
func (e *EpsilonNFA[S, A]) AddFinal(s S) {
	e.AddState(s)
	e.Finals[s] = struct{}{}
}

// AddTransition adds a move from -> to labeled lbl, registering both
// endpoints as known states.
func (e *EpsilonNFA[S, A]) AddTransition(from S, lbl Label[A], to S) {
	e.AddState(from)
	e.AddState(to)
	if e.Trans[from] == nil {
		e.Trans[from] = make(map[Label[A]][]S)
	}
	e.Trans[from][lbl] = append(e.Trans[from][lbl], to)
}

// IsFinal reports whether s is an accepting state.
func (e *EpsilonNFA[S, A]) IsFinal(s S) bool {
	_, ok := e.Finals[s]
	return ok
}

// Alphabet returns the sorted set of non-epsilon symbols mentioned anywhere
// in the epsilon-NFA's transitions (§4.1). Deterministic; an epsilon-NFA
// with no symbol transitions yields an empty alphabet.
func Alphabet[S cmp.Ordered, A cmp.Ordered](e *EpsilonNFA[S, A]) []A {
	seen := make(map[A]struct{})
	for _, byLabel := range e.Trans {
		for lbl := range byLabel {
			if !lbl.Eps {
				seen[lbl.Sym] = struct{}{}
			}
		}
	}
	out := make([]A, 0, len(seen))
	for a := range seen {
		out = append(out, a)
	}
	slices.Sort(out)
	return out
}
