package dfa

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestShortestMatchBounds is the canonical shortest-match scenario: a+ over
// aaaa reports the range ending at position 1.
func TestShortestMatchBounds(t *testing.T) {
	d := mustDFA(t, "a+", DefaultFlags().WithShortest(true))
	var sp StringPiece
	require.True(t, d.Match([]byte("aaaa"), &sp))
	require.Equal(t, 1, sp.End)
}

// TestLeftmostFirstBounds: without longest, the match stops at the first
// accepting state.
func TestLeftmostFirstBounds(t *testing.T) {
	d := mustDFA(t, "a+", DefaultFlags())
	var sp StringPiece
	require.True(t, d.Match([]byte("aaaa"), &sp))
	require.Equal(t, 1, sp.End)
}

// TestLongestMatchBounds: with longest, scanning continues to the last
// accepting position.
func TestLongestMatchBounds(t *testing.T) {
	d := mustDFA(t, "a+", DefaultFlags().WithLongest(true))
	var sp StringPiece
	require.True(t, d.Match([]byte("aaaab"), &sp))
	require.Equal(t, 4, sp.End)
}

// TestSuffixStretch: suffix mode stretches the reported range to the input
// end.
func TestSuffixStretch(t *testing.T) {
	d := mustDFA(t, "ab", DefaultFlags().WithSuffix(true))
	var sp StringPiece
	require.True(t, d.Match([]byte("ab"), &sp))
	require.Equal(t, 2, sp.End)
}

// TestReverseBounds: reverse matches report Begin.
func TestReverseBounds(t *testing.T) {
	d := mustDFA(t, "cba", DefaultFlags().WithReverse(true))
	var sp StringPiece
	require.True(t, d.Match([]byte("xxabc"), &sp))
	require.Equal(t, 2, sp.Begin)
}

// TestMultilineFirstLine is the ^foo$ scenario over foo\nbar: the match
// covers the first line only.
func TestMultilineFirstLine(t *testing.T) {
	d := mustDFA(t, "^foo$", DefaultFlags())
	var sp StringPiece
	require.True(t, d.Match([]byte("foo\nbar"), &sp))
	require.Equal(t, 4, sp.End)
	require.False(t, d.FullMatch([]byte("foo\nbar")))
}

// TestEndAnchorFinishExpansion: an end-anchored pattern accepts at input
// exhaustion through the dynamic endline re-expansion, and the reported
// range covers the whole input.
func TestEndAnchorFinishExpansion(t *testing.T) {
	d := mustDFA(t, "foo$", DefaultFlags())
	var sp StringPiece
	require.True(t, d.Match([]byte("foo"), &sp))
	require.Equal(t, 3, sp.End)
	require.False(t, d.Match([]byte("fox"), nil))
}

// TestOnTheFlyEquivalence: an incomplete automaton must agree with a fully
// constructed one on full-input verdicts, and it memoizes what it learns.
func TestOnTheFlyEquivalence(t *testing.T) {
	pattern := "(ab|cd)*ef"
	full := mustDFA(t, pattern, DefaultFlags())
	lazy := mustDFA(t, pattern, DefaultFlags().WithStateLimit(2))
	require.True(t, full.Complete())
	require.False(t, lazy.Complete())

	inputs := []string{"", "ef", "abef", "cdabef", "ab", "abx", "e", "f", "abcdef"}
	for _, in := range inputs {
		require.Equal(t, full.FullMatch([]byte(in)), lazy.Match([]byte(in), nil),
			"input %q", in)
	}

	size := lazy.Size()
	require.Greater(t, size, 2)
	// A repeat run discovers nothing new.
	for _, in := range inputs {
		lazy.Match([]byte(in), nil)
	}
	require.Equal(t, size, lazy.Size())
}

// TestOnTheFlyFromNothing: with a state limit of 1 only the start state is
// built; its 'a' cell stays an Undef hole and every later state is built by
// matching.
func TestOnTheFlyFromNothing(t *testing.T) {
	d := mustDFA(t, "abc", DefaultFlags().WithStateLimit(1))
	require.False(t, d.Complete())
	require.True(t, d.Match([]byte("abc"), nil))
	require.False(t, d.Match([]byte("abx"), nil))
	require.False(t, d.Match([]byte("abcd"), nil))
}

// TestOnTheFlyReverse: the lazy path honors reverse scanning.
func TestOnTheFlyReverse(t *testing.T) {
	d := mustDFA(t, "cba", DefaultFlags().WithReverse(true).WithStateLimit(1))
	require.False(t, d.Complete())
	require.True(t, d.Match([]byte("abc"), nil))
	require.False(t, d.Match([]byte("cba"), nil))
}

// TestOnTheFlyEndline: lazy matching still consults endline expansion at
// exhaustion.
func TestOnTheFlyEndline(t *testing.T) {
	d := mustDFA(t, "foo$", DefaultFlags().WithStateLimit(1))
	require.False(t, d.Complete())
	require.True(t, d.Match([]byte("foo"), nil))
	require.False(t, d.Match([]byte("fox"), nil))
}

// TestMatchNilResult: a nil result pointer only asks for the verdict.
func TestMatchNilResult(t *testing.T) {
	d := mustDFA(t, "ab", DefaultFlags())
	require.True(t, d.Match([]byte("ab"), nil))
	require.False(t, d.Match([]byte("ba"), nil))
}
