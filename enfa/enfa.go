// Package enfa bridges the byte-oriented Thompson NFA produced by package
// nfa to the generic epsilon-NFA model in package automaton, so the
// classical subset-construction and minimization pipeline can run against
// real compiled patterns instead of hand-built fixtures.
package enfa

import (
	"github.com/latticefsa/refsm/automaton"
	"github.com/latticefsa/refsm/nfa"
)

// FromThompson converts a compiled Thompson NFA into a generic
// automaton.EpsilonNFA over nfa.StateID states and byte symbols.
//
// It drives the conversion entirely through State.EpsilonTargets and
// State.ByteTransitions rather than switching on StateKind itself: byte
// ranges (single or sparse) expand into one symbol transition per byte,
// since automaton.Label carries a single symbol rather than a range, and
// every epsilon target (Split's two branches, Epsilon's one, a Capture
// boundary, or a Look's successor) becomes an epsilon move. Match states
// become final states with no outgoing transitions; Fail states
// contribute neither transitions nor finality, the same dead end subset
// construction synthesizes on its own.
//
// Look assertions are taken unconditionally: the classical epsilon-NFA
// model has no position-dependent epsilon move, so StateLook is treated
// as always satisfied rather than evaluated against a haystack. This is
// exact for anchors at the edges of an already-anchored pattern (what
// Regexp.FullMatch compiles) and is a deliberately narrower scope than
// nfa.PikeVM's full per-position assertion evaluation.
//
// anchored selects which of the NFA's two start states (StartAnchored or
// StartUnanchored) becomes the generic automaton's start state.
func FromThompson(n *nfa.NFA, anchored bool) *automaton.EpsilonNFA[nfa.StateID, byte] {
	start := n.StartUnanchored()
	if anchored {
		start = n.StartAnchored()
	}

	e := automaton.New[nfa.StateID, byte](start)
	total := n.States()
	for id := 0; id < total; id++ {
		e.AddState(nfa.StateID(id))
	}

	for id := 0; id < total; id++ {
		sid := nfa.StateID(id)
		s := n.State(sid)
		if s == nil {
			continue
		}
		if s.IsMatch() {
			e.AddFinal(sid)
		}
		for _, tr := range s.ByteTransitions() {
			for b := int(tr.Lo); b <= int(tr.Hi); b++ {
				e.AddTransition(sid, automaton.Symbol(byte(b)), tr.Next)
			}
		}
		for _, target := range s.EpsilonTargets() {
			e.AddTransition(sid, automaton.Epsilon[byte](), target)
		}
	}

	return e
}
