package automaton

import "cmp"

// pair is an unordered pair of states stored with a <= b, matching §4.4's
// "sorted list of states ... (xi, xj) for all i < j" convention. The
// membership test (related) treats R as symmetric regardless of storage
// order.
type pair struct {
	a, b StateID
}

func makePair(x, y StateID) pair {
	if x > y {
		x, y = y, x
	}
	return pair{a: x, b: y}
}

// Minimize collapses indistinguishable states of d into a minimal DFA
// accepting the same language (§4.4).
//
// Algorithm: positive pair-refinement.
//  1. Complete d with an explicit dead sink so every (state, symbol) pair
//     has a defined successor (§9, Open Question: "Completion of partial
//     transition functions ... implementers must ensure the input DFA is
//     total"). The dead sink is dropped again at the end if unreachable.
//  2. Seed R with every pair of distinct states on the same side of the
//     accept/non-accept boundary (§4.4 step 1).
//  3. Iterate the refinement step (§4.4 step 2) to a fixed point: a pair
//     survives only if, for every alphabet symbol, its successors are
//     themselves related (equal, or still in R in either order).
//  4. Quotient by union-find over the surviving pairs (§4.4's "Known
//     limitation" is resolved exactly as spec.md §4.4/§9 suggest: a
//     union-find over the final R, not just a one-shot
//     smaller-key/larger-value aggregation, so classes of size >= 4 collapse
//     correctly too). Each class's representative is its maximum element
//     under StateID's natural order.
func Minimize[A cmp.Ordered](d *DFA[A]) *DFA[A] {
	alphabet := dfaAlphabet(d)
	states, trans, finals := completeWithDeadSink(d, alphabet)

	R := initialPairs(states, finals)
	R = refineToFixedPoint(R, states, trans, alphabet)

	rewrite := quotient(states, R)

	newTrans, newFinals := applyRewrite(states, trans, finals, rewrite)
	newStart := rewrite[d.Start]

	return pruneUnreachable(newStart, newTrans, newFinals, alphabet)
}

func dfaAlphabet[A cmp.Ordered](d *DFA[A]) []A {
	seen := make(map[A]struct{})
	for _, edges := range d.Trans {
		for a := range edges {
			seen[a] = struct{}{}
		}
	}
	out := make([]A, 0, len(seen))
	for a := range seen {
		out = append(out, a)
	}
	sortOrdered(out)
	return out
}

// completeWithDeadSink returns a copy of d's states/transitions/finals with
// every missing (state, symbol) transition redirected to a synthetic,
// non-accepting, self-looping dead state. If d was already total, the
// dead state is not introduced.
func completeWithDeadSink[A cmp.Ordered](d *DFA[A], alphabet []A) ([]StateID, map[StateID]map[A]StateID, map[StateID]struct{}) {
	trans := make(map[StateID]map[A]StateID, len(d.Trans))
	for s, edges := range d.Trans {
		cp := make(map[A]StateID, len(edges))
		for a, t := range edges {
			cp[a] = t
		}
		trans[s] = cp
	}
	finals := make(map[StateID]struct{}, len(d.Finals))
	for f := range d.Finals {
		finals[f] = struct{}{}
	}

	states := append([]StateID(nil), d.States...)

	missing := false
	for _, s := range states {
		for _, a := range alphabet {
			if _, ok := trans[s][a]; !ok {
				missing = true
			}
		}
	}
	if !missing || len(alphabet) == 0 {
		return states, trans, finals
	}

	dead := maxStateID(states) + 1
	trans[dead] = make(map[A]StateID, len(alphabet))
	for _, a := range alphabet {
		trans[dead][a] = dead
	}
	for _, s := range states {
		if trans[s] == nil {
			trans[s] = make(map[A]StateID, len(alphabet))
		}
		for _, a := range alphabet {
			if _, ok := trans[s][a]; !ok {
				trans[s][a] = dead
			}
		}
	}
	states = append(states, dead)
	return states, trans, finals
}

func maxStateID(states []StateID) StateID {
	max := StateID(-1)
	for _, s := range states {
		if s > max {
			max = s
		}
	}
	return max
}

// initialPairs builds R0: every unordered pair of distinct states that are
// both accepting or both non-accepting (§4.4 step 1). Pairs crossing the
// accept/non-accept boundary are never included.
func initialPairs(states []StateID, finals map[StateID]struct{}) map[pair]struct{} {
	sorted := append([]StateID(nil), states...)
	sortOrdered(sorted)

	R := make(map[pair]struct{})
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			x, y := sorted[i], sorted[j]
			_, xFinal := finals[x]
			_, yFinal := finals[y]
			if xFinal == yFinal {
				R[makePair(x, y)] = struct{}{}
			}
		}
	}
	return R
}

func related(R map[pair]struct{}, x, y StateID) bool {
	if x == y {
		return true
	}
	_, ok := R[makePair(x, y)]
	return ok
}

// refineToFixedPoint repeatedly shrinks R until a step leaves it unchanged
// (§4.4 steps 2-3). Termination is guaranteed: R is finite and
// monotonically non-increasing.
func refineToFixedPoint[A cmp.Ordered](R map[pair]struct{}, states []StateID, trans map[StateID]map[A]StateID, alphabet []A) map[pair]struct{} {
	for {
		next := make(map[pair]struct{}, len(R))
		shrank := false
		for p := range R {
			stillRelated := true
			for _, a := range alphabet {
				px, pxOK := trans[p.a][a]
				py, pyOK := trans[p.b][a]
				if !pxOK || !pyOK || !related(R, px, py) {
					stillRelated = false
					break
				}
			}
			if stillRelated {
				next[p] = struct{}{}
			} else {
				shrank = true
			}
		}
		R = next
		if !shrank {
			return R
		}
	}
}

// quotient builds the rewrite map from every state to the representative
// of its equivalence class via union-find over the surviving pairs in R,
// canonicalizing each class to its maximum element.
func quotient(states []StateID, R map[pair]struct{}) map[StateID]StateID {
	uf := newUnionFind(states)
	for p := range R {
		uf.union(p.a, p.b)
	}
	rewrite := make(map[StateID]StateID, len(states))
	for _, s := range states {
		rewrite[s] = uf.find(s)
	}
	return rewrite
}

func applyRewrite[A cmp.Ordered](states []StateID, trans map[StateID]map[A]StateID, finals map[StateID]struct{}, rewrite map[StateID]StateID) (map[StateID]map[A]StateID, map[StateID]struct{}) {
	newTrans := make(map[StateID]map[A]StateID)
	newFinals := make(map[StateID]struct{})
	for _, s := range states {
		rep := rewrite[s]
		if newTrans[rep] == nil {
			newTrans[rep] = make(map[A]StateID, len(trans[s]))
		}
		for a, t := range trans[s] {
			newTrans[rep][a] = rewrite[t]
		}
		if _, ok := finals[s]; ok {
			newFinals[rep] = struct{}{}
		}
	}
	return newTrans, newFinals
}

// pruneUnreachable drops any state (in particular, a synthetic dead sink
// introduced by completeWithDeadSink) that completion/quotienting left
// unreachable from start, restoring the States-reachable-from-Start
// invariant (§3).
func pruneUnreachable[A cmp.Ordered](start StateID, trans map[StateID]map[A]StateID, finals map[StateID]struct{}, alphabet []A) *DFA[A] {
	visited := map[StateID]struct{}{start: {}}
	queue := []StateID{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, a := range alphabet {
			if next, ok := trans[cur][a]; ok {
				if _, seen := visited[next]; !seen {
					visited[next] = struct{}{}
					queue = append(queue, next)
				}
			}
		}
	}

	out := &DFA[A]{
		Trans:  make(map[StateID]map[A]StateID, len(visited)),
		Start:  start,
		Finals: make(map[StateID]struct{}),
	}
	for s := range visited {
		out.States = append(out.States, s)
		out.Trans[s] = trans[s]
		if _, ok := finals[s]; ok {
			out.Finals[s] = struct{}{}
		}
	}
	sortOrdered(out.States)
	return out
}
