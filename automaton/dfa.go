package automaton

import "cmp"

// DFA is a deterministic finite automaton over interned states (§3). Its
// state type Q is always a StateID produced by an Intern[S] table — in the
// subset construction that table maps back to sets of source epsilon-NFA
// states. After minimization each state is the representative (the
// maximum StateID) of its equivalence class, so the table maps it back to
// that representative's own set only, not to the union of its class; a
// synthetic dead state added by Minimize has no entry in the table.
//
// Trans need not be total: a missing (state, symbol) entry means "no
// transition on that symbol from that state" (§3). States is the set of
// states reachable from Start — Subset and Minimize both maintain this as
// an invariant rather than leaving it to the caller to recompute.
type DFA[A cmp.Ordered] struct {
	Trans  map[StateID]map[A]StateID
	Start  StateID
	Finals map[StateID]struct{}
	States []StateID
}

// IsFinal reports whether q is an accepting state.
func (d *DFA[A]) IsFinal(q StateID) bool {
	_, ok := d.Finals[q]
	return ok
}

// Step returns the successor of q on symbol a, or (0, false) if no such
// transition is defined.
func (d *DFA[A]) Step(q StateID, a A) (StateID, bool) {
	next, ok := d.Trans[q][a]
	return next, ok
}

func intersectsFinals[S cmp.Ordered](set []S, finals map[S]struct{}) bool {
	for _, s := range set {
		if _, ok := finals[s]; ok {
			return true
		}
	}
	return false
}
