package regen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/regenhq/regen/dfa"
	"github.com/regenhq/regen/syntax"
)

// TestCompileErrors: syntax and flag validation surface as errors; state
// budget overruns do not.
func TestCompileErrors(t *testing.T) {
	_, err := Compile("(ab", DefaultOptions())
	require.Error(t, err)
	var perr *syntax.ParseError
	require.ErrorAs(t, err, &perr)

	bad := DefaultOptions()
	bad.Flags.StateLimit = 0
	_, err = Compile("ab", bad)
	require.Error(t, err)

	conflicting := DefaultOptions()
	conflicting.Flags.ShortestMatch = true
	conflicting.Flags.LongestMatch = true
	_, err = Compile("ab", conflicting)
	require.Error(t, err)

	opts := DefaultOptions()
	opts.Flags.StateLimit = 2
	re, err := Compile("abcdef", opts)
	require.NoError(t, err)
	require.False(t, re.Complete())
	require.True(t, re.FullMatchString("abcdef"))
}

// TestMustCompile panics on bad patterns.
func TestMustCompile(t *testing.T) {
	require.Panics(t, func() { MustCompile("(", DefaultOptions()) })
	require.NotPanics(t, func() { MustCompile("a", DefaultOptions()) })
}

// TestScenarioDigitGroups: 100 repetitions of ten digit groups and an
// underscore; the minimized automaton stays small.
func TestScenarioDigitGroups(t *testing.T) {
	re := MustCompile("((0123456789)_?)*", DefaultOptions().WithLevel(O2))

	var input strings.Builder
	for i := 0; i < 100; i++ {
		input.WriteString(strings.Repeat("0123456789", 10))
		input.WriteByte('_')
	}
	require.Equal(t, 10100, input.Len())
	require.True(t, re.FullMatchString(input.String()))

	require.True(t, re.Minimize())
	require.LessOrEqual(t, re.DFASize(), 20)
	require.True(t, re.FullMatchString(input.String()))
}

// TestScenarioCountedRepetition: (a?){512}a{512} over 1024 a's, the
// pathological backtracker case, must run in linear time here.
func TestScenarioCountedRepetition(t *testing.T) {
	re := MustCompile("(a?){512}a{512}", DefaultOptions())
	input := strings.Repeat("a", 1024)
	require.True(t, re.FullMatchString(input))
	require.False(t, re.FullMatchString(input[:511]))
	require.Equal(t, 512, re.MinLength())
}

// TestScenarioDotStarWindow: .*b.{8}b over a's followed by ten b's.
func TestScenarioDotStarWindow(t *testing.T) {
	re := MustCompile(".*b.{8}b", DefaultOptions().WithLevel(O3))
	input := strings.Repeat("a", 1024) + strings.Repeat("b", 10)
	require.True(t, re.FullMatchString(input))
	require.False(t, re.FullMatchString(strings.Repeat("a", 1024)))
}

// TestScenarioComplement: a|b complemented accepts the empty string and
// strangers, rejects members.
func TestScenarioComplement(t *testing.T) {
	re := MustCompile("a|b", DefaultOptions())
	require.True(t, re.Complement())
	require.False(t, re.FullMatchString("a"))
	require.True(t, re.FullMatchString("c"))
	require.True(t, re.FullMatchString(""))
}

// TestScenarioShortest: a+ with shortest match reports the range ending at
// position 1.
func TestScenarioShortest(t *testing.T) {
	opts := DefaultOptions()
	opts.Flags.ShortestMatch = true
	re := MustCompile("a+", opts)
	var sp StringPiece
	require.True(t, re.Match([]byte("aaaa"), &sp))
	require.Equal(t, 1, sp.End)
}

// TestScenarioMultiline: ^foo$ over foo\nbar matches the first line only.
func TestScenarioMultiline(t *testing.T) {
	re := MustCompile("^foo$", DefaultOptions())
	var sp StringPiece
	require.True(t, re.Match([]byte("foo\nbar"), &sp))
	require.Equal(t, 4, sp.End)
	require.False(t, re.FullMatch([]byte("foo\nbar")))
	require.True(t, re.FullMatch([]byte("foo")))
}

// TestPrefilterScreening: literal patterns reject non-candidate haystacks
// before the automaton runs, with identical verdicts either way.
func TestPrefilterScreening(t *testing.T) {
	withPF := MustCompile("foo|bar", DefaultOptions())
	noPF := MustCompile("foo|bar", Options{Flags: dfa.DefaultFlags()})

	inputs := []string{"foo", "bar", "baz", "", "fo", "barx"}
	for _, in := range inputs {
		require.Equal(t, noPF.IsMatch([]byte(in)), withPF.IsMatch([]byte(in)),
			"input %q", in)
	}
}

// TestPrefilterSkippedOnReverse: reverse patterns are written pre-reversed,
// so the extracted words would be screened in the wrong orientation; with
// the default options no screen may veto a reverse match.
func TestPrefilterSkippedOnReverse(t *testing.T) {
	re := MustCompile("cba", DefaultOptions().WithFlags(dfa.DefaultFlags().WithReverse(true)))
	var sp StringPiece
	require.True(t, re.Match([]byte("xxabc"), &sp))
	require.Equal(t, 2, sp.Begin)
	require.True(t, re.IsMatch([]byte("abc")))
	require.False(t, re.IsMatch([]byte("cba")))
}

// TestPrefilterDroppedOnComplement: after Complement the screen must not
// veto matches.
func TestPrefilterDroppedOnComplement(t *testing.T) {
	re := MustCompile("foo", DefaultOptions())
	require.True(t, re.Complement())
	require.True(t, re.IsMatch([]byte("xyz")))
	require.False(t, re.FullMatch([]byte("foo")))
}

// TestCompileDFALevels: level plumbing through the facade.
func TestCompileDFALevels(t *testing.T) {
	re := MustCompile("abc", DefaultOptions())
	require.Equal(t, Onone, re.Level())
	require.True(t, re.CompileDFA(O3))
	require.Equal(t, O3, re.Level())
	require.True(t, re.FullMatchString("abc"))
	require.NoError(t, re.Close())
	require.True(t, re.FullMatchString("abc"), "table path survives Close")
}

// TestOptionsLevelApplied: the Level option compiles during Compile.
func TestOptionsLevelApplied(t *testing.T) {
	re := MustCompile("abc", DefaultOptions().WithLevel(O2))
	require.Equal(t, O2, re.Level())
}

// TestEmptyPattern: the empty pattern accepts exactly the empty string.
func TestEmptyPattern(t *testing.T) {
	re := MustCompile("", DefaultOptions())
	require.True(t, re.FullMatchString(""))
	require.False(t, re.FullMatchString("a"))
}
