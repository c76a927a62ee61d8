package automaton

import "cmp"

// Subset performs the subset construction (§4.3): given an epsilon-NFA, it
// produces an equivalent DFA whose states are sets of epsilon-NFA states,
// reachable from the epsilon-closure of the start state. The returned
// Intern table is the side table (§9) mapping each DFA StateID back to the
// set of source states it represents; callers that need to inspect DFA
// states as sets (e.g. to render them) use it for that purpose.
//
// Worklist order is a FIFO queue; per §4.3 this is not observable in the
// resulting DFA (the set semantics make the construction deterministic
// regardless of traversal order), but a stable order is kept for
// reproducible state numbering.
//
// Subset never fails: it is the unbounded, total construction §7
// describes. Callers that want a reported error instead of unbounded
// memory growth on pathological patterns use SubsetWithLimits (limits.go).
func Subset[S cmp.Ordered, A cmp.Ordered](e *EpsilonNFA[S, A]) (*DFA[A], *Intern[S]) {
	dfa, intern, _ := subset(e, 0)
	return dfa, intern
}

// subset is the shared worklist algorithm behind Subset and
// SubsetWithLimits. maxStates == 0 means unlimited.
func subset[S cmp.Ordered, A cmp.Ordered](e *EpsilonNFA[S, A], maxStates int) (*DFA[A], *Intern[S], error) {
	closure := Closure(e)
	alphabet := Alphabet(e)
	intern := NewIntern[S]()

	startID, _ := intern.Intern(closure.Of(e.Start))

	dfa := &DFA[A]{
		Trans:  make(map[StateID]map[A]StateID),
		Start:  startID,
		Finals: make(map[StateID]struct{}),
	}

	processed := make(map[StateID]bool)
	queue := []StateID{startID}

	for len(queue) > 0 {
		q := queue[0]
		queue = queue[1:]
		if processed[q] {
			continue
		}
		processed[q] = true
		dfa.States = append(dfa.States, q)
		if maxStates > 0 && len(dfa.States) > maxStates {
			return nil, nil, &Error{
				Kind:    StateLimitExceeded,
				Message: errStateLimitMessage(maxStates),
			}
		}

		qSet := intern.Set(q)
		if intersectsFinals(qSet, e.Finals) {
			dfa.Finals[q] = struct{}{}
		}

		edges := make(map[A]StateID, len(alphabet))
		for _, a := range alphabet {
			lbl := Symbol(a)
			var targets []S
			for _, s := range qSet {
				for _, t := range e.Trans[s][lbl] {
					targets = append(targets, closure.Of(t)...)
				}
			}
			// targets may be empty — that's the dead state (§4.3 edge
			// cases), a legal, reachable DFA state that must itself be
			// stored and visited like any other.
			nextID, _ := intern.Intern(targets)
			edges[a] = nextID
			queue = append(queue, nextID)
		}
		dfa.Trans[q] = edges
	}

	return dfa, intern, nil
}
