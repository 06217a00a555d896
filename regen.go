// Package regen is a regular-expression engine built around a table-driven
// DFA with an optional compiled execution back end.
//
// A pattern is parsed into a Glushkov position tree, determinized by subset
// construction (with language intersection '&' and symmetric difference '~'
// resolved as closure pseudo-states), and matched byte-at-a-time. Compile
// levels trade construction work for match speed:
//
//	Onone  direct table walk
//	O0/O1  compiled program over a page-aligned dispatch table
//	O2     branch elimination into two-way alternate transitions
//	O3     inline chaining of linear alternate runs
//
// When the subset construction exceeds its state budget the engine degrades
// to on-the-fly construction, building states as the input demands them.
//
// Example usage:
//
//	re, err := regen.Compile("((0123456789)_?)*", regen.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	re.CompileDFA(regen.O2)
//	if re.FullMatch(input) {
//	    fmt.Println("matched")
//	}
package regen

import (
	"github.com/projectdiscovery/gologger"

	"github.com/regenhq/regen/dfa"
	"github.com/regenhq/regen/prefilter"
	"github.com/regenhq/regen/syntax"
)

// Optimization levels, re-exported from the dfa package.
const (
	Onone = dfa.Onone
	O0    = dfa.O0
	O1    = dfa.O1
	O2    = dfa.O2
	O3    = dfa.O3
)

// StringPiece is the reported match range; see dfa.StringPiece.
type StringPiece = dfa.StringPiece

// Options configure compilation and matching.
type Options struct {
	// Level is the optimization level applied at Compile time. Onone
	// leaves the engine on the table-walk path; CompileDFA can raise the
	// level later.
	Level dfa.OptLevel

	// Flags are the construction/match flags (direction, line handling,
	// shortest/longest/suffix semantics, quick filter opt-in, delimiter,
	// state budget).
	Flags dfa.Flags

	// UsePrefilter enables literal screening: patterns that reduce to
	// required literal words reject non-candidate haystacks with one
	// Aho-Corasick scan before the automaton runs. Ignored in reverse
	// mode, where the extracted words have the wrong orientation.
	UsePrefilter bool

	// Verbose logs degradation events (state budget exceeded) through
	// gologger.
	Verbose bool
}

// DefaultOptions returns the standard configuration: no compilation,
// default flags, prefilter on.
func DefaultOptions() Options {
	return Options{
		Level:        Onone,
		Flags:        dfa.DefaultFlags(),
		UsePrefilter: true,
	}
}

// WithLevel returns a copy with the given optimization level.
func (o Options) WithLevel(level dfa.OptLevel) Options {
	o.Level = level
	return o
}

// WithFlags returns a copy with the given flags.
func (o Options) WithFlags(f dfa.Flags) Options {
	o.Flags = f
	return o
}

// Regex is a compiled pattern.
type Regex struct {
	pattern string
	tree    *syntax.Tree
	info    *syntax.Info
	dfa     *dfa.DFA
	pf      *prefilter.Prefilter
	opts    Options
}

// Compile parses the pattern and constructs its DFA. The error covers
// pattern syntax and flag validation; construction overrunning the state
// budget is not an error — the engine degrades to on-the-fly matching.
func Compile(pattern string, opts Options) (*Regex, error) {
	if err := opts.Flags.Validate(); err != nil {
		return nil, err
	}
	tree, err := syntax.Parse(pattern)
	if err != nil {
		return nil, err
	}
	info := syntax.Analyze(tree)
	d := dfa.New(info, opts.Flags)
	if !d.Complete() && opts.Verbose {
		gologger.Verbose().Msgf("regen: %q exceeded the %d-state budget; matching on the fly",
			pattern, opts.Flags.StateLimit)
	}
	re := &Regex{
		pattern: pattern,
		tree:    tree,
		info:    info,
		dfa:     d,
		opts:    opts,
	}
	// The screen scans for the literal words as written, forward; a reverse
	// automaton consumes the pattern against a backward walk, so the words
	// would be probed in the wrong orientation. No screen in reverse mode.
	if opts.UsePrefilter && !opts.Flags.ReverseMatch {
		seq := prefilter.Extract(tree)
		pf, err := prefilter.New(seq)
		if err == nil {
			re.pf = pf
		}
	}
	if opts.Level >= O0 {
		re.CompileDFA(opts.Level)
	}
	return re, nil
}

// MustCompile is Compile for patterns known to be valid; it panics on error.
func MustCompile(pattern string, opts Options) *Regex {
	re, err := Compile(pattern, opts)
	if err != nil {
		panic(err)
	}
	return re
}

// String returns the source pattern.
func (re *Regex) String() string { return re.pattern }

// MinLength returns the length of the shortest accepted string.
func (re *Regex) MinLength() int { return re.info.MinLength }

// DFASize returns the number of materialized DFA states.
func (re *Regex) DFASize() int { return re.dfa.Size() }

// Complete reports whether construction built the whole automaton.
func (re *Regex) Complete() bool { return re.dfa.Complete() }

// Level returns the DFA's current optimization level.
func (re *Regex) Level() dfa.OptLevel { return re.dfa.Level() }

// DFA exposes the underlying automaton for inspection.
func (re *Regex) DFA() *dfa.DFA { return re.dfa }

// CompileDFA raises the optimization level. Compiling at or below the
// current level is a no-op returning true; an incomplete automaton cannot
// be compiled and returns false.
func (re *Regex) CompileDFA(level dfa.OptLevel) bool {
	return re.dfa.Compile(level)
}

// Minimize merges indistinguishable DFA states. Returns false when the
// automaton is incomplete.
func (re *Regex) Minimize() bool {
	return re.dfa.Minimize()
}

// Complement inverts the accepted language. The literal screen is dropped:
// absence of a required word now implies a match instead of excluding one.
func (re *Regex) Complement() bool {
	if !re.dfa.Complement() {
		return false
	}
	re.pf = nil
	return true
}

// FullMatch reports whether the pattern matches the entire input.
func (re *Regex) FullMatch(input []byte) bool {
	if re.pf != nil && !re.pf.IsMatch(input) {
		return false
	}
	return re.dfa.FullMatch(input)
}

// FullMatchString is FullMatch over a string.
func (re *Regex) FullMatchString(input string) bool {
	return re.FullMatch([]byte(input))
}

// Match scans the input, filling result (when non-nil) with the matched
// range: End on a forward match, Begin on a reverse match.
func (re *Regex) Match(input []byte, result *StringPiece) bool {
	if re.pf != nil && !re.pf.IsMatch(input) {
		return false
	}
	return re.dfa.Match(input, result)
}

// IsMatch reports whether the pattern matches the input.
func (re *Regex) IsMatch(input []byte) bool {
	return re.Match(input, nil)
}

// Close releases compiled resources. The Regex remains usable on the
// uncompiled paths.
func (re *Regex) Close() error {
	return re.dfa.Close()
}
