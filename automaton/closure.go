package automaton

import (
	"cmp"
	"slices"
)

// ClosureTable maps every known state to its epsilon-closure: the set of
// states reachable by zero or more epsilon transitions, always including
// the state itself (§3, §4.2). Each slice is sorted and deduplicated.
type ClosureTable[S cmp.Ordered] map[S][]S

// Of returns the epsilon-closure of s, or nil if s is unknown to the table.
func (t ClosureTable[S]) Of(s S) []S {
	return t[s]
}

// Contains reports whether t ∈ closure(s).
func (t ClosureTable[S]) Contains(s, member S) bool {
	_, found := slices.BinarySearch(t[s], member)
	return found
}

// Closure computes the epsilon-closure table of e (§4.2): for every state
// in e.States, a breadth-first traversal of the epsilon relation
// accumulates the reachable set, which always includes the start state of
// the traversal. The function is pure and total: a dangling epsilon target
// (one absent from e.States) is ignored, as if the transition did not
// exist, which is the data model's silent-absence convention.
func Closure[S cmp.Ordered, A cmp.Ordered](e *EpsilonNFA[S, A]) ClosureTable[S] {
	table := make(ClosureTable[S], len(e.States))
	known := make(map[S]struct{}, len(e.States))
	for _, s := range e.States {
		known[s] = struct{}{}
	}
	for _, s := range e.States {
		table[s] = closureOf(e, s, known)
	}
	return table
}

func closureOf[S cmp.Ordered, A cmp.Ordered](e *EpsilonNFA[S, A], start S, known map[S]struct{}) []S {
	eps := Epsilon[A]()
	visited := map[S]struct{}{start: {}}
	queue := []S{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range e.Trans[cur][eps] {
			if _, ok := known[next]; !ok {
				continue
			}
			if _, ok := visited[next]; !ok {
				visited[next] = struct{}{}
				queue = append(queue, next)
			}
		}
	}
	out := make([]S, 0, len(visited))
	for s := range visited {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}
