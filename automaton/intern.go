package automaton

import (
	"cmp"
	"fmt"
	"slices"
)

// StateID is a dense identifier assigned to an interned subset of source
// epsilon-NFA states. Subset construction and minimization both operate on
// StateID rather than on raw []S slices, so that set membership tests and
// map keys stay cheap even when the underlying sets are large — the
// interning scheme spec.md's Design Notes (§9) recommends.
type StateID int

// Intern assigns dense ids to subsets of S, keeping a side table from id
// back to the canonical (deduplicated, sorted) set it represents. Two
// calls to Intern with sets containing the same elements (in any order,
// with any duplicates) return the same id.
type Intern[S cmp.Ordered] struct {
	idOf map[string]StateID
	sets [][]S
}

// NewIntern creates an empty interning table.
func NewIntern[S cmp.Ordered]() *Intern[S] {
	return &Intern[S]{idOf: make(map[string]StateID)}
}

// Intern returns the id for set, allocating a new one if this exact set of
// elements has not been seen before. The second return value reports
// whether a new id was allocated.
func (in *Intern[S]) Intern(set []S) (StateID, bool) {
	canon := canonicalize(set)
	key := canonKey(canon)
	if id, ok := in.idOf[key]; ok {
		return id, false
	}
	id := StateID(len(in.sets))
	in.idOf[key] = id
	in.sets = append(in.sets, canon)
	return id, true
}

// Set returns the canonical (sorted, deduplicated) set of source states
// that id was interned from.
func (in *Intern[S]) Set(id StateID) []S {
	return in.sets[id]
}

// Len returns the number of distinct sets interned so far.
func (in *Intern[S]) Len() int {
	return len(in.sets)
}

func canonicalize[S cmp.Ordered](set []S) []S {
	dedup := make(map[S]struct{}, len(set))
	for _, s := range set {
		dedup[s] = struct{}{}
	}
	out := make([]S, 0, len(dedup))
	for s := range dedup {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

func canonKey[S cmp.Ordered](sorted []S) string {
	return fmt.Sprint(sorted)
}
