package automaton

import "testing"

// scenario mirrors a row of spec.md §8's concrete-scenario table.
type scenario struct {
	name   string
	build  func() *EpsilonNFA[int, byte]
	input  []byte
	accept bool
}

func scenarios() []scenario {
	return []scenario{
		{"(a|b) a", buildAltAB, bytesOf("a"), true},
		{"(a|b) b", buildAltAB, bytesOf("b"), true},
		{"(a|b) c", buildAltAB, bytesOf("c"), false},
		{"(a|b) empty", buildAltAB, bytesOf(""), false},
		{"(a*b) empty", buildAStarB, bytesOf(""), false},
		{"(a*b) b", buildAStarB, bytesOf("b"), true},
		{"(a*b) ab", buildAStarB, bytesOf("ab"), true},
		{"(a*b) bb", buildAStarB, bytesOf("bb"), false},
		{"(a*b) aaaaab", buildAStarB, bytesOf("aaaaab"), true},
		{"(a*|b*) empty", buildAStarOrBStar, bytesOf(""), true},
		{"(a*|b*) ab", buildAStarOrBStar, bytesOf("ab"), false},
		{"(a*|b*) a*100", buildAStarOrBStar, repeat('a', 100), true},
		{"(a*|b*) b*100", buildAStarOrBStar, repeat('b', 100), true},
	}
}

// TestConcreteScenarios is spec.md §8's table: every row must agree across
// the epsilon-NFA oracle, the subset-constructed DFA, and the minimized
// DFA.
func TestConcreteScenarios(t *testing.T) {
	for _, sc := range scenarios() {
		t.Run(sc.name, func(t *testing.T) {
			e := sc.build()
			dfa, _ := Subset(e)
			min := Minimize(dfa)

			gotENFA := simulateENFA(sc.input, e)
			gotDFA := Simulate(sc.input, dfa)
			gotMin := Simulate(sc.input, min)

			if gotENFA != sc.accept {
				t.Errorf("simulateENFA(%q) = %v, want %v", sc.input, gotENFA, sc.accept)
			}
			if gotDFA != sc.accept {
				t.Errorf("Simulate(subset) (%q) = %v, want %v", sc.input, gotDFA, sc.accept)
			}
			if gotMin != sc.accept {
				t.Errorf("Simulate(minimize(subset)) (%q) = %v, want %v", sc.input, gotMin, sc.accept)
			}
		})
	}
}

// TestLanguagePreservationSubset is property 4 of §8: subset construction
// preserves the language for every scenario's input, checked against the
// epsilon-NFA oracle rather than a hardcoded expectation.
func TestLanguagePreservationSubset(t *testing.T) {
	for _, sc := range scenarios() {
		e := sc.build()
		dfa, _ := Subset(e)
		want := simulateENFA(sc.input, e)
		if got := Simulate(sc.input, dfa); got != want {
			t.Errorf("%s: Simulate(subset(E), %q) = %v, want %v (ENFA)", sc.name, sc.input, got, want)
		}
	}
}

// TestLanguagePreservationMinimize is property 5: minimize preserves the
// language of its input DFA.
func TestLanguagePreservationMinimize(t *testing.T) {
	for _, sc := range scenarios() {
		e := sc.build()
		dfa, _ := Subset(e)
		min := Minimize(dfa)
		want := Simulate(sc.input, dfa)
		if got := Simulate(sc.input, min); got != want {
			t.Errorf("%s: Simulate(minimize(D), %q) = %v, want %v (D)", sc.name, sc.input, got, want)
		}
	}
}

// TestMinimizeIdempotent is property 6: minimizing a minimized DFA changes
// nothing observable.
func TestMinimizeIdempotent(t *testing.T) {
	for _, sc := range scenarios() {
		e := sc.build()
		dfa, _ := Subset(e)
		min1 := Minimize(dfa)
		min2 := Minimize(min1)

		inputs := [][]byte{bytesOf(""), sc.input, repeat('a', 5), repeat('b', 5), bytesOf("ab"), bytesOf("ba")}
		for _, in := range inputs {
			if Simulate(in, min1) != Simulate(in, min2) {
				t.Errorf("%s: minimize not idempotent on %q", sc.name, in)
			}
		}
	}
}

// TestMinimality is property 7: no two distinct states of a minimized DFA
// accept the same set of suffixes, checked by exhaustive enumeration of
// all strings over the alphabet up to length |Q|.
func TestMinimality(t *testing.T) {
	for _, sc := range scenarios() {
		e := sc.build()
		min := Minimize(mustSubset(e))
		alphabet := dfaAlphabet(min)

		suffixSets := make(map[StateID]map[string]bool)
		for _, q := range min.States {
			suffixSets[q] = acceptedSuffixes(min, q, alphabet, len(min.States))
		}

		for i, q := range min.States {
			for _, r := range min.States[i+1:] {
				if suffixSetsEqual(suffixSets[q], suffixSets[r]) {
					t.Errorf("%s: states %d and %d accept the same suffix language (not minimal)", sc.name, q, r)
				}
			}
		}
	}
}

func mustSubset(e *EpsilonNFA[int, byte]) *DFA[byte] {
	dfa, _ := Subset(e)
	return dfa
}

// acceptedSuffixes enumerates every string over alphabet up to length
// maxLen and records which ones drive q to acceptance.
func acceptedSuffixes(d *DFA[byte], q StateID, alphabet []byte, maxLen int) map[string]bool {
	result := make(map[string]bool)
	var walk func(cur StateID, prefix []byte, depth int)
	walk = func(cur StateID, prefix []byte, depth int) {
		if d.IsFinal(cur) {
			result[string(prefix)] = true
		}
		if depth >= maxLen {
			return
		}
		for _, a := range alphabet {
			next, ok := d.Step(cur, a)
			if !ok {
				continue
			}
			walk(next, append(prefix, a), depth+1)
		}
	}
	walk(q, nil, 0)
	return result
}

func suffixSetsEqual(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

// TestDeadStateStability is property 8: the empty epsilon-NFA-state set,
// when reachable, is a non-accepting absorbing state.
func TestDeadStateStability(t *testing.T) {
	e := buildAStarB()
	dfa, intern := Subset(e)

	var dead StateID = -1
	for _, q := range dfa.States {
		if len(intern.Set(q)) == 0 {
			dead = q
			break
		}
	}
	if dead == -1 {
		t.Fatal("expected a reachable dead state for (a*b), found none")
	}
	if dfa.IsFinal(dead) {
		t.Errorf("dead state %d must not be accepting", dead)
	}
	for _, a := range Alphabet(e) {
		next, ok := dfa.Step(dead, a)
		if !ok || next != dead {
			t.Errorf("dead state %d must self-loop on %q, got (%v, %v)", dead, a, next, ok)
		}
	}
}

// TestSubsetDeterministic is property 3: running Subset twice on the same
// epsilon-NFA yields equal DFAs (same reachable state count, same
// acceptance behavior on every scenario input, same transition structure
// up to the (deterministic, content-addressed) Intern numbering).
func TestSubsetDeterministic(t *testing.T) {
	for _, sc := range scenarios() {
		e := sc.build()
		d1, i1 := Subset(e)
		d2, i2 := Subset(e)

		if len(d1.States) != len(d2.States) {
			t.Fatalf("%s: state count differs: %d vs %d", sc.name, len(d1.States), len(d2.States))
		}
		if d1.Start != d2.Start {
			t.Fatalf("%s: start state differs: %d vs %d", sc.name, d1.Start, d2.Start)
		}
		if i1.Len() != i2.Len() {
			t.Fatalf("%s: intern table size differs: %d vs %d", sc.name, i1.Len(), i2.Len())
		}
		for _, in := range [][]byte{bytesOf(""), sc.input} {
			if Simulate(in, d1) != Simulate(in, d2) {
				t.Errorf("%s: Subset not deterministic on %q", sc.name, in)
			}
		}
	}
}
