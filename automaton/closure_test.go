package automaton

import (
	"slices"
	"testing"
)

// buildChain builds an epsilon-NFA 0 -ε-> 1 -ε-> 2 -ε-> 3, with 3 as the
// only final state and no symbol transitions.
func buildChain() *EpsilonNFA[int, byte] {
	e := New[int, byte](0)
	e.AddTransition(0, Epsilon[byte](), 1)
	e.AddTransition(1, Epsilon[byte](), 2)
	e.AddTransition(2, Epsilon[byte](), 3)
	e.AddFinal(3)
	return e
}

func TestClosureReflexivity(t *testing.T) {
	e := buildChain()
	table := Closure(e)
	for _, s := range e.States {
		if !table.Contains(s, s) {
			t.Errorf("closure(%d) does not contain itself: %v", s, table.Of(s))
		}
	}
}

func TestClosureTransitivity(t *testing.T) {
	e := buildChain()
	table := Closure(e)
	for _, s := range e.States {
		for _, tmid := range table.Of(s) {
			for _, u := range table.Of(tmid) {
				if !table.Contains(s, u) {
					t.Errorf("closure(%d) missing %d reachable via %d; closure(%d)=%v", s, u, tmid, s, table.Of(s))
				}
			}
		}
	}
}

func TestClosureChain(t *testing.T) {
	e := buildChain()
	table := Closure(e)
	want := []int{0, 1, 2, 3}
	if got := table.Of(0); !slices.Equal(got, want) {
		t.Errorf("closure(0) = %v, want %v", got, want)
	}
	if got := table.Of(3); !slices.Equal(got, []int{3}) {
		t.Errorf("closure(3) = %v, want [3]", got)
	}
}

func TestClosureDanglingTargetIgnored(t *testing.T) {
	// A transition pointing at a state that was never registered must not
	// crash and must not make anything reachable, matching §4.2's
	// silent-absence policy for ill-formed input.
	e := New[int, byte](0)
	e.AddState(0)
	e.Trans[0] = map[Label[byte]][]int{Epsilon[byte](): {99}}

	table := Closure(e)
	got := table.Of(0)
	want := []int{0}
	if !slices.Equal(got, want) {
		t.Errorf("closure(0) = %v, want %v", got, want)
	}
	// 99 is not in e.States, so the epsilon move to it is ignored and
	// closure(0) holds only 0 itself.
}

func TestClosureEmptyNFA(t *testing.T) {
	e := New[int, byte](0)
	e.AddFinal(0)
	table := Closure(e)
	if got := table.Of(0); !slices.Equal(got, []int{0}) {
		t.Errorf("closure(0) = %v, want [0]", got)
	}
}

func TestAlphabetExtraction(t *testing.T) {
	e := New[int, byte](0)
	e.AddTransition(0, Symbol(byte('b')), 1)
	e.AddTransition(0, Symbol(byte('a')), 1)
	e.AddTransition(1, Epsilon[byte](), 0)
	e.AddFinal(1)

	got := Alphabet(e)
	want := []byte{'a', 'b'}
	if !slices.Equal(got, want) {
		t.Errorf("Alphabet = %v, want %v", got, want)
	}
}

func TestAlphabetEmptyForEpsilonOnlyNFA(t *testing.T) {
	e := buildChain()
	if got := Alphabet(e); len(got) != 0 {
		t.Errorf("Alphabet = %v, want empty", got)
	}
}
