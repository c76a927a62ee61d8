package automaton

import "cmp"

// The fixtures below hand-build epsilon-NFAs in Thompson's style for the
// three patterns spec.md §8 uses in its concrete-scenario table. They stand
// in for the external parser/Thompson-builder collaborator spec.md assumes
// as input (see package enfa for the real bridge from a compiled regex).

// buildAltAB builds the epsilon-NFA for (a|b).
func buildAltAB() *EpsilonNFA[int, byte] {
	e := New[int, byte](0)
	e.AddTransition(0, Epsilon[byte](), 1)
	e.AddTransition(0, Epsilon[byte](), 3)
	e.AddTransition(1, Symbol(byte('a')), 2)
	e.AddTransition(2, Epsilon[byte](), 5)
	e.AddTransition(3, Symbol(byte('b')), 4)
	e.AddTransition(4, Epsilon[byte](), 5)
	e.AddFinal(5)
	return e
}

// buildAStarB builds the epsilon-NFA for (a*b).
func buildAStarB() *EpsilonNFA[int, byte] {
	e := New[int, byte](0)
	e.AddTransition(0, Epsilon[byte](), 1)
	e.AddTransition(0, Epsilon[byte](), 3)
	e.AddTransition(1, Symbol(byte('a')), 2)
	e.AddTransition(2, Epsilon[byte](), 0)
	e.AddTransition(3, Epsilon[byte](), 4)
	e.AddTransition(4, Symbol(byte('b')), 5)
	e.AddFinal(5)
	return e
}

// buildAStarOrBStar builds the epsilon-NFA for (a*|b*).
func buildAStarOrBStar() *EpsilonNFA[int, byte] {
	e := New[int, byte](0)
	e.AddTransition(0, Epsilon[byte](), 1)
	e.AddTransition(0, Epsilon[byte](), 6)
	// a* branch
	e.AddTransition(1, Epsilon[byte](), 2)
	e.AddTransition(1, Epsilon[byte](), 9)
	e.AddTransition(2, Symbol(byte('a')), 3)
	e.AddTransition(3, Epsilon[byte](), 1)
	// b* branch
	e.AddTransition(6, Epsilon[byte](), 7)
	e.AddTransition(6, Epsilon[byte](), 9)
	e.AddTransition(7, Symbol(byte('b')), 8)
	e.AddTransition(8, Epsilon[byte](), 6)
	e.AddFinal(9)
	return e
}

// simulateENFA plays the role of the already-existing epsilon-NFA
// simulator spec.md §6 assumes as a cross-checking oracle: it runs input
// against e directly, with no determinization, by tracking the set of
// active states generation by generation.
func simulateENFA[A cmp.Ordered](input []A, e *EpsilonNFA[int, A]) bool {
	table := Closure(e)
	cur := table.Of(e.Start)
	for _, a := range input {
		lbl := Symbol(a)
		var next []int
		for _, s := range cur {
			for _, t := range e.Trans[s][lbl] {
				next = append(next, table.Of(t)...)
			}
		}
		if len(next) == 0 {
			return false
		}
		cur = canonicalize(next)
	}
	return intersectsFinals(cur, e.Finals)
}

func bytesOf(s string) []byte {
	return []byte(s)
}

func repeat(b byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}
