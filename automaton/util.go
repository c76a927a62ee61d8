package automaton

import (
	"cmp"
	"slices"
)

// sortOrdered sorts s in place using its natural order. A thin wrapper
// around slices.Sort kept local so call sites in this package read as
// automaton vocabulary rather than a stdlib incantation.
func sortOrdered[T cmp.Ordered](s []T) {
	slices.Sort(s)
}
