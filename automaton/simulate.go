package automaton

import "cmp"

// Simulate runs input through d starting at d.Start, consuming one symbol
// at a time, and reports whether the final state is accepting (§4.5).
//
// Empty input accepts iff d.Start is itself final. A symbol with no
// transition from the current state rejects immediately — the
// empty-language short-circuit — without inspecting the remainder of
// input.
func Simulate[A cmp.Ordered](input []A, d *DFA[A]) bool {
	cur := d.Start
	for _, a := range input {
		next, ok := d.Step(cur, a)
		if !ok {
			return false
		}
		cur = next
	}
	return d.IsFinal(cur)
}
