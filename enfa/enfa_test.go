package enfa

import (
	"testing"

	"github.com/latticefsa/refsm/automaton"
	"github.com/latticefsa/refsm/nfa"
)

// compileAnchored compiles pattern into a Thompson NFA anchored at the
// start of input, matching the full-string semantics automaton.Simulate
// and PikeVM.Search(..., anchored) agree on below.
func compileAnchored(t *testing.T, pattern string) *nfa.NFA {
	t.Helper()
	cfg := nfa.DefaultCompilerConfig()
	cfg.Anchored = true
	compiler := nfa.NewCompiler(cfg)
	n, err := compiler.Compile(pattern)
	if err != nil {
		t.Fatalf("Compile(%q) failed: %v", pattern, err)
	}
	return n
}

// pikeVMFullMatch reports whether haystack matches pattern in its
// entirety, using PikeVM as the independent oracle: a leftmost-longest
// match starting at 0 and ending at len(haystack).
func pikeVMFullMatch(n *nfa.NFA, haystack []byte) bool {
	vm := nfa.NewPikeVM(n)
	start, end, matched := vm.Search(haystack)
	return matched && start == 0 && end == len(haystack)
}

func crossCheck(t *testing.T, pattern string, inputs []string) {
	t.Helper()
	n := compileAnchored(t, pattern)
	e := FromThompson(n, true)
	dfa, _ := automaton.Subset(e)
	min := automaton.Minimize(dfa)

	for _, in := range inputs {
		input := []byte(in)
		want := pikeVMFullMatch(n, input)
		if got := automaton.Simulate(input, dfa); got != want {
			t.Errorf("%s: Simulate(subset, %q) = %v, want %v (PikeVM)", pattern, in, got, want)
		}
		if got := automaton.Simulate(input, min); got != want {
			t.Errorf("%s: Simulate(minimize(subset), %q) = %v, want %v (PikeVM)", pattern, in, got, want)
		}
	}
}

func TestFromThompsonAlternation(t *testing.T) {
	crossCheck(t, "a|b", []string{"", "a", "b", "c", "ab"})
}

func TestFromThompsonStarConcat(t *testing.T) {
	crossCheck(t, "a*b", []string{"", "b", "ab", "aaaab", "ba", "bb"})
}

func TestFromThompsonStarAlternation(t *testing.T) {
	crossCheck(t, "a*|b*", []string{"", "a", "b", "aaaaa", "bbbbb", "ab", "ba"})
}

func TestFromThompsonCharClass(t *testing.T) {
	crossCheck(t, "[a-c]+", []string{"", "a", "abc", "d", "cba", "abcd"})
}

func TestFromThompsonDot(t *testing.T) {
	cfg := nfa.DefaultCompilerConfig()
	cfg.Anchored = true
	cfg.ASCIIOnly = true
	compiler := nfa.NewCompiler(cfg)
	n, err := compiler.Compile("a.c")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	e := FromThompson(n, true)
	dfa, _ := automaton.Subset(e)

	for _, in := range []string{"abc", "a c", "ac", "abcd"} {
		input := []byte(in)
		want := pikeVMFullMatch(n, input)
		if got := automaton.Simulate(input, dfa); got != want {
			t.Errorf("a.c: Simulate(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFromThompsonMatchStatesAreFinal(t *testing.T) {
	n := compileAnchored(t, "a")
	e := FromThompson(n, true)
	if len(e.Finals) == 0 {
		t.Fatal("expected at least one final state translated from a Match state")
	}
	for s := range e.Finals {
		if !n.IsMatch(s) {
			t.Errorf("state %d marked final in EpsilonNFA but n.IsMatch() = false", s)
		}
	}
}

func TestFromThompsonUnanchoredStartDiffersWhenNotAnchored(t *testing.T) {
	cfg := nfa.DefaultCompilerConfig()
	cfg.Anchored = false
	compiler := nfa.NewCompiler(cfg)
	n, err := compiler.Compile("a")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	anchored := FromThompson(n, true)
	unanchored := FromThompson(n, false)
	if n.IsAlwaysAnchored() {
		t.Skip("pattern compiled as always-anchored, nothing to distinguish")
	}
	if anchored.Start == unanchored.Start {
		t.Errorf("expected distinct start states for anchored vs unanchored NFA, got %d for both", anchored.Start)
	}
}
