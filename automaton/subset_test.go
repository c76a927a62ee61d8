package automaton

import (
	"slices"
	"testing"
)

func TestSubsetStartIsClosureOfStart(t *testing.T) {
	e := buildAltAB()
	dfa, intern := Subset(e)

	want := Closure(e).Of(e.Start)
	got := intern.Set(dfa.Start)
	if !slices.Equal(got, want) {
		t.Errorf("start DFA state = %v, want closure(start) = %v", got, want)
	}
}

func TestSubsetFinalsIntersectENFAFinals(t *testing.T) {
	e := buildAStarB()
	dfa, intern := Subset(e)

	for _, q := range dfa.States {
		set := intern.Set(q)
		wantFinal := intersectsFinals(set, e.Finals)
		if dfa.IsFinal(q) != wantFinal {
			t.Errorf("state %v (set %v): IsFinal = %v, want %v", q, set, dfa.IsFinal(q), wantFinal)
		}
	}
}

func TestSubsetAllStatesReachableFromStart(t *testing.T) {
	for _, sc := range scenarios() {
		e := sc.build()
		dfa, _ := Subset(e)
		alphabet := Alphabet(e)

		visited := map[StateID]struct{}{dfa.Start: {}}
		queue := []StateID{dfa.Start}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, a := range alphabet {
				if next, ok := dfa.Step(cur, a); ok {
					if _, seen := visited[next]; !seen {
						visited[next] = struct{}{}
						queue = append(queue, next)
					}
				}
			}
		}
		if len(visited) != len(dfa.States) {
			t.Errorf("%s: %d states produced, only %d reachable from start", sc.name, len(dfa.States), len(visited))
		}
	}
}

func TestSubsetEmptyAlphabetProducesNoTransitions(t *testing.T) {
	e := New[int, byte](0)
	e.AddFinal(0)
	dfa, _ := Subset(e)

	if len(dfa.States) != 1 {
		t.Fatalf("expected exactly the start state, got %v", dfa.States)
	}
	if !dfa.IsFinal(dfa.Start) {
		t.Errorf("start state should be final")
	}
	if len(dfa.Trans[dfa.Start]) != 0 {
		t.Errorf("expected no outgoing transitions, got %v", dfa.Trans[dfa.Start])
	}
}

func TestSubsetWithLimitsReportsExceeded(t *testing.T) {
	e := buildAStarOrBStar()
	_, _, err := SubsetWithLimits(e, Limits{MaxDFAStates: 1})
	if err == nil {
		t.Fatal("expected a StateLimitExceeded error")
	}
	automatonErr, ok := err.(*Error)
	if !ok || automatonErr.Kind != StateLimitExceeded {
		t.Fatalf("expected *Error{Kind: StateLimitExceeded}, got %#v", err)
	}
}

func TestSubsetWithLimitsUnlimitedMatchesSubset(t *testing.T) {
	e := buildAStarB()
	want, _ := Subset(e)
	got, _, err := SubsetWithLimits(e, Limits{MaxDFAStates: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.States) != len(want.States) {
		t.Errorf("state count = %d, want %d", len(got.States), len(want.States))
	}
}

func TestLimitsValidate(t *testing.T) {
	if err := (Limits{MaxDFAStates: -1}).Validate(); err == nil {
		t.Error("expected validation error for negative MaxDFAStates")
	}
	if err := DefaultLimits().Validate(); err != nil {
		t.Errorf("DefaultLimits() should validate cleanly: %v", err)
	}
}
