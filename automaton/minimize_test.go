package automaton

import "testing"

// buildFourWayEquivalentDFA builds a DFA where states 1,2,3,4 form a single
// equivalence class of size four (all final, all absorbing on 'x' in a
// cycle among themselves) to exercise §4.4's "Known limitation" — a plain
// min-key/max-value aggregation only collapses pairs/triples cleanly; the
// union-find quotient must still collapse a class this large correctly.
func buildFourWayEquivalentDFA() *DFA[byte] {
	d := &DFA[byte]{
		Trans: map[StateID]map[byte]StateID{
			0: {'x': 1},
			1: {'x': 2},
			2: {'x': 3},
			3: {'x': 4},
			4: {'x': 1},
		},
		Start:  0,
		Finals: map[StateID]struct{}{1: {}, 2: {}, 3: {}, 4: {}},
		States: []StateID{0, 1, 2, 3, 4},
	}
	return d
}

func TestMinimizeCollapsesLargeEquivalenceClass(t *testing.T) {
	d := buildFourWayEquivalentDFA()
	min := Minimize(d)

	if len(min.States) != 2 {
		t.Fatalf("expected 2 states after minimization, got %d: %v", len(min.States), min.States)
	}

	cases := []struct {
		input  []byte
		accept bool
	}{
		{bytesOf(""), false},
		{bytesOf("x"), true},
		{bytesOf("xx"), true},
		{bytesOf("xxxxx"), true},
	}
	for _, c := range cases {
		if got := Simulate(c.input, min); got != c.accept {
			t.Errorf("Simulate(%q, minimized) = %v, want %v", c.input, got, c.accept)
		}
		if got := Simulate(c.input, d); got != c.accept {
			t.Errorf("Simulate(%q, original) = %v, want %v (sanity check on fixture)", c.input, got, c.accept)
		}
	}
}

func TestMinimizeCompletesPartialDFA(t *testing.T) {
	// A DFA with an undefined transition: state 0 only knows 'a', not 'b'.
	// Per §4.4/§9, Minimize must complete this with a dead sink before
	// refining rather than panicking or misclassifying pairs.
	d := &DFA[byte]{
		Trans: map[StateID]map[byte]StateID{
			0: {'a': 1},
			1: {},
		},
		Start:  0,
		Finals: map[StateID]struct{}{1: {}},
		States: []StateID{0, 1},
	}

	min := Minimize(d)
	if Simulate(bytesOf("a"), min) != true {
		t.Errorf("Simulate(%q) = false, want true", "a")
	}
	if Simulate(bytesOf("b"), min) != false {
		t.Errorf("Simulate(%q) = true, want false", "b")
	}
	if Simulate(bytesOf("ab"), min) != false {
		t.Errorf("Simulate(%q) = true, want false", "ab")
	}
}

func TestMinimizeOnAlreadyMinimalDFAIsStable(t *testing.T) {
	// A 3-state DFA (accepts exactly "a"; state 2 is a dead sink) is
	// already minimal: Minimize must not merge any of its distinguishable
	// states.
	d := &DFA[byte]{
		Trans: map[StateID]map[byte]StateID{
			0: {'a': 1},
			1: {'a': 2},
			2: {'a': 2},
		},
		Start:  0,
		Finals: map[StateID]struct{}{1: {}},
		States: []StateID{0, 1, 2},
	}
	min := Minimize(d)
	if len(min.States) != 3 {
		t.Fatalf("expected minimization to keep 3 distinguishable states, got %d", len(min.States))
	}
}

func TestMinimizeEmptyLanguage(t *testing.T) {
	e := New[int, byte](0)
	dfa, _ := Subset(e) // no transitions, no finals: language is empty
	min := Minimize(dfa)
	for _, in := range [][]byte{bytesOf(""), bytesOf("a")} {
		if Simulate(in, min) {
			t.Errorf("Simulate(%q) = true, want false for empty language", in)
		}
	}
}
