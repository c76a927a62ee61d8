// Package refsm provides a regex engine built around two cooperating
// pieces: the production Thompson-NFA/PikeVM pipeline in package nfa, and
// the classical epsilon-closure/subset-construction/minimization/simulation
// pipeline in package automaton, bridged by package enfa.
//
// Match, Find, and the submatch family run through PikeVM — there is no
// lazy-DFA or literal-prefilter tier behind it in this module. FullMatch
// additionally compiles the pattern anchored, determinizes it through
// automaton.Subset and automaton.Minimize, and simulates the resulting
// minimized DFA directly; PikeVM's own anchored search is kept as the
// fallback FullMatch uses when the classical construction is refused for
// exceeding its state budget (see Config.Limits).
//
// Basic usage:
//
//	re, err := refsm.Compile(`\d+`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if re.Match([]byte("hello 123")) {
//	    fmt.Println("matched!")
//	}
//
// Full-string matching through the minimized classical DFA:
//
//	re := refsm.MustCompile(`[a-c]+`)
//	re.FullMatchString("abcba") // true
//	re.FullMatchString("abcd")  // false ('d' outside the class)
package refsm

import (
	"github.com/latticefsa/refsm/automaton"
	"github.com/latticefsa/refsm/enfa"
	"github.com/latticefsa/refsm/nfa"
)

// Config controls pattern compilation: how deep the Thompson compiler will
// recurse before refusing a pattern as too complex, and how many DFA
// states the classical FullMatch pipeline will build before falling back
// to PikeVM.
type Config struct {
	// MaxRecursionDepth bounds the Thompson compiler's recursion into
	// nested repetition/group structure. Zero means the compiler's own
	// default (100).
	MaxRecursionDepth int

	// Limits bounds automaton.Subset's state discovery for FullMatch.
	// Zero-value Limits means unlimited.
	Limits automaton.Limits
}

// DefaultConfig returns the default configuration: the Thompson compiler's
// built-in recursion ceiling and automaton.DefaultLimits for the classical
// pipeline.
func DefaultConfig() Config {
	return Config{
		MaxRecursionDepth: 100,
		Limits:            automaton.DefaultLimits(),
	}
}

// Regexp represents a compiled regular expression.
//
// Compile builds every engine a Regexp needs up front. A Regexp is not safe
// for concurrent use: Match, Find, FullMatch's fallback and the submatch
// methods run PikeVMs that reuse their internal scratch queues on every call.
//
// Example:
//
//	re := refsm.MustCompile(`hello`)
//	if re.Match([]byte("hello world")) {
//	    println("matched!")
//	}
type Regexp struct {
	pattern string

	n  *nfa.NFA
	vm *nfa.PikeVM

	anchored   *nfa.NFA
	anchoredVM *nfa.PikeVM

	// classical is the minimized DFA FullMatch simulates directly. Nil
	// when construction was refused for exceeding cfg.Limits.MaxDFAStates,
	// in which case FullMatch falls back to anchoredVM.
	classical *automaton.DFA[byte]
}

// Compile compiles a regular expression pattern using DefaultConfig.
//
// Syntax is Perl-compatible (same as Go's stdlib regexp).
// Returns an error if the pattern is invalid.
//
// Example:
//
//	re, err := refsm.Compile(`\d{3}-\d{4}`)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string) (*Regexp, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// MustCompile compiles a regular expression pattern and panics if it fails.
//
// This is useful for patterns known to be valid at compile time.
//
// Example:
//
//	var emailRegexp = refsm.MustCompile(`[a-z]+@[a-z]+\.[a-z]+`)
func MustCompile(pattern string) *Regexp {
	re, err := Compile(pattern)
	if err != nil {
		panic("refsm: Compile(" + pattern + "): " + err.Error())
	}
	return re
}

// CompileWithConfig compiles a pattern with custom configuration.
//
// Example:
//
//	cfg := refsm.DefaultConfig()
//	cfg.Limits.MaxDFAStates = 1000
//	re, err := refsm.CompileWithConfig("(a|b|c)*", cfg)
func CompileWithConfig(pattern string, cfg Config) (*Regexp, error) {
	ccfg := nfa.DefaultCompilerConfig()
	if cfg.MaxRecursionDepth > 0 {
		ccfg.MaxRecursionDepth = cfg.MaxRecursionDepth
	}

	n, err := nfa.NewCompiler(ccfg).Compile(pattern)
	if err != nil {
		return nil, err
	}

	acfg := ccfg
	acfg.Anchored = true
	anchored, err := nfa.NewCompiler(acfg).Compile(pattern)
	if err != nil {
		return nil, err
	}

	re := &Regexp{
		pattern:    pattern,
		n:          n,
		vm:         nfa.NewPikeVM(n),
		anchored:   anchored,
		anchoredVM: nfa.NewPikeVM(anchored),
	}

	e := enfa.FromThompson(anchored, true)
	if dfa, _, err := automaton.SubsetWithLimits(e, cfg.Limits); err == nil {
		re.classical = automaton.Minimize(dfa)
	}

	return re, nil
}

// Match reports whether the byte slice b contains any match of the pattern.
//
// Example:
//
//	re := refsm.MustCompile(`\d+`)
//	if re.Match([]byte("hello 123")) {
//	    println("contains digits")
//	}
func (r *Regexp) Match(b []byte) bool {
	_, _, ok := r.vm.Search(b)
	return ok
}

// MatchString reports whether the string s contains any match of the pattern.
func (r *Regexp) MatchString(s string) bool {
	return r.Match([]byte(s))
}

// FullMatch reports whether b matches the pattern in its entirety,
// anchored at both ends. Unlike Match, this runs the classical
// subset-construction/minimization pipeline (package automaton) directly
// over the compiled Thompson NFA rather than PikeVM's thread simulation,
// falling back to an anchored PikeVM full-string check only when the
// classical DFA was refused at compile time for exceeding
// Config.Limits.MaxDFAStates.
//
// Example:
//
//	re := refsm.MustCompile(`[a-c]+`)
//	re.FullMatch([]byte("abcba")) // true
//	re.FullMatch([]byte("abcd"))  // false
func (r *Regexp) FullMatch(b []byte) bool {
	if r.classical != nil {
		return automaton.Simulate(b, r.classical)
	}
	start, end, ok := r.anchoredVM.Search(b)
	return ok && start == 0 && end == len(b)
}

// FullMatchString reports whether s matches the pattern in its entirety.
func (r *Regexp) FullMatchString(s string) bool {
	return r.FullMatch([]byte(s))
}

// Find returns a slice holding the text of the leftmost match in b.
// Returns nil if no match is found.
//
// Example:
//
//	re := refsm.MustCompile(`\d+`)
//	match := re.Find([]byte("age: 42"))
//	println(string(match)) // "42"
func (r *Regexp) Find(b []byte) []byte {
	start, end, ok := r.vm.Search(b)
	if !ok {
		return nil
	}
	return b[start:end]
}

// FindString returns a string holding the text of the leftmost match in s.
// Returns empty string if no match is found.
func (r *Regexp) FindString(s string) string {
	match := r.Find([]byte(s))
	if match == nil {
		return ""
	}
	return string(match)
}

// FindIndex returns a two-element slice of integers defining the location of
// the leftmost match in b. The match is at b[loc[0]:loc[1]].
// Returns nil if no match is found.
func (r *Regexp) FindIndex(b []byte) []int {
	start, end, ok := r.vm.Search(b)
	if !ok {
		return nil
	}
	return []int{start, end}
}

// FindStringIndex returns a two-element slice of integers defining the
// location of the leftmost match in s.
func (r *Regexp) FindStringIndex(s string) []int {
	return r.FindIndex([]byte(s))
}

// FindAll returns a slice of all successive non-overlapping matches of the
// pattern in b. If n >= 0, it returns at most n matches; n < 0 returns all.
//
// Example:
//
//	re := refsm.MustCompile(`\d+`)
//	matches := re.FindAll([]byte("1 2 3"), -1)
//	// matches = [[]byte("1"), []byte("2"), []byte("3")]
func (r *Regexp) FindAll(b []byte, n int) [][]byte {
	if n == 0 {
		return nil
	}

	var matches [][]byte
	pos := 0
	for pos <= len(b) {
		start, end, ok := r.vm.Search(b[pos:])
		if !ok {
			break
		}
		absStart, absEnd := pos+start, pos+end
		matches = append(matches, b[absStart:absEnd])

		if absEnd > pos {
			pos = absEnd
		} else {
			pos++
		}
		if n > 0 && len(matches) >= n {
			break
		}
	}
	return matches
}

// FindAllString returns a slice of all successive matches of the pattern in s.
func (r *Regexp) FindAllString(s string, n int) []string {
	matches := r.FindAll([]byte(s), n)
	if matches == nil {
		return nil
	}
	result := make([]string, len(matches))
	for i, m := range matches {
		result[i] = string(m)
	}
	return result
}

// String returns the source text used to compile the regular expression.
func (r *Regexp) String() string {
	return r.pattern
}

// NumSubexp returns the number of parenthesized subexpressions (capture
// groups). Group 0 is the entire match, so the returned value equals the
// number of explicit capture groups plus 1.
func (r *Regexp) NumSubexp() int {
	return r.n.CaptureCount()
}

// SubexpNames returns the names of the capture groups in the pattern.
// Index 0 is always "" (the entire match).
func (r *Regexp) SubexpNames() []string {
	return r.n.SubexpNames()
}

// FindSubmatch returns a slice holding the text of the leftmost match
// and the matches of all capture groups.
//
// A return value of nil indicates no match.
// Result[0] is the entire match, result[i] is the ith capture group.
// Unmatched groups are nil.
func (r *Regexp) FindSubmatch(b []byte) [][]byte {
	m := r.vm.SearchWithCaptures(b)
	if m == nil {
		return nil
	}
	out := make([][]byte, len(m.Captures))
	for i, g := range m.Captures {
		if len(g) < 2 || g[0] < 0 || g[1] < 0 {
			continue
		}
		out[i] = b[g[0]:g[1]]
	}
	return out
}

// FindStringSubmatch returns a slice of strings holding the text of the
// leftmost match and the matches of all capture groups.
func (r *Regexp) FindStringSubmatch(s string) []string {
	b := []byte(s)
	groups := r.FindSubmatch(b)
	if groups == nil {
		return nil
	}
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = string(g)
	}
	return out
}

// FindSubmatchIndex returns a slice holding the index pairs for the
// leftmost match and the matches of all capture groups.
//
// A return value of nil indicates no match.
// Result[2*i:2*i+2] is the indices for the ith group.
// Unmatched groups have -1 indices.
func (r *Regexp) FindSubmatchIndex(b []byte) []int {
	m := r.vm.SearchWithCaptures(b)
	if m == nil {
		return nil
	}
	out := make([]int, len(m.Captures)*2)
	for i, g := range m.Captures {
		if len(g) < 2 {
			out[i*2], out[i*2+1] = -1, -1
			continue
		}
		out[i*2], out[i*2+1] = g[0], g[1]
	}
	return out
}

// FindStringSubmatchIndex is FindSubmatchIndex for strings.
func (r *Regexp) FindStringSubmatchIndex(s string) []int {
	return r.FindSubmatchIndex([]byte(s))
}
