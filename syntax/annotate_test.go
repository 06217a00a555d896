package syntax

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func analyze(t *testing.T, pattern string) *Info {
	t.Helper()
	tree, err := Parse(pattern)
	require.NoError(t, err)
	return Analyze(tree)
}

// kindsOf maps a position id set to kinds for readable assertions.
func kindsOf(info *Info, ids []int) []Kind {
	out := make([]Kind, len(ids))
	for i, id := range ids {
		out[i] = info.Node(id).Kind
	}
	return out
}

// TestFirstSets checks the first set of the augmented root.
func TestFirstSets(t *testing.T) {
	tests := []struct {
		name      string
		pattern   string
		wantKinds []Kind
	}{
		{"literal", "ab", []Kind{KindLiteral}},
		{"union", "a|b", []Kind{KindLiteral, KindLiteral}},
		{"nullable head", "a*b", []Kind{KindLiteral, KindLiteral}},
		{"anchor first", "^foo", []Kind{KindAnchor}},
		{"empty pattern", "", []Kind{KindEOP}},
		{"star only", "a*", []Kind{KindLiteral, KindEOP}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := analyze(t, tt.pattern)
			require.ElementsMatch(t, tt.wantKinds, kindsOf(info, info.First))
		})
	}
}

// TestFollowSets traces the follow sets of ab: the 'a' position must be
// followed by the 'b' position, and 'b' by EOP.
func TestFollowSets(t *testing.T) {
	info := analyze(t, "ab")
	var aFollow []int
	for id := 0; id < info.NumNodes(); id++ {
		n := info.Node(id)
		if n.Kind == KindLiteral && n.Lit == 'a' {
			aFollow = n.Follow
		}
	}
	require.Len(t, aFollow, 1)
	require.Equal(t, byte('b'), info.Node(aFollow[0]).Lit)

	// The 'b' position is followed by EOP.
	bFollow := info.Node(aFollow[0]).Follow
	require.Len(t, bFollow, 1)
	require.Equal(t, KindEOP, info.Node(bFollow[0]).Kind)
}

// TestFollowSetsLoop checks that star loops feed back into their own first
// set and stay sorted and deduplicated.
func TestFollowSetsLoop(t *testing.T) {
	info := analyze(t, "(ab)*")
	for id := 0; id < info.NumNodes(); id++ {
		n := info.Node(id)
		if !n.IsPosition() {
			continue
		}
		for i := 1; i < len(n.Follow); i++ {
			require.Less(t, n.Follow[i-1], n.Follow[i], "follow must be sorted unique")
		}
		if n.Kind == KindLiteral && n.Lit == 'b' {
			// b loops back to a and can also end the pattern.
			kinds := kindsOf(info, n.Follow)
			require.ElementsMatch(t, []Kind{KindLiteral, KindEOP}, kinds)
		}
	}
}

// TestMinLength checks the shortest-accepted-length computation.
func TestMinLength(t *testing.T) {
	tests := []struct {
		pattern string
		want    int
	}{
		{"", 0},
		{"abc", 3},
		{"a*", 0},
		{"a+", 1},
		{"a?b", 1},
		{"ab|c", 1},
		{"a{3}", 3},
		{"a{2,5}", 2},
		{"(ab){3,}", 6},
		{".*b.{8}b", 10},
		{"(a?){512}a{512}", 512},
		{"^foo$", 3},
		{"abc&de", 2},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			info := analyze(t, tt.pattern)
			require.Equal(t, tt.want, info.MinLength)
		})
	}
}

// TestInvolvedBytes checks the pattern footprint used to gate the quick
// filter: literal and class bytes count, dot contributes nothing.
func TestInvolvedBytes(t *testing.T) {
	tests := []struct {
		pattern   string
		wantCount int
		wantHas   []byte
		wantNot   []byte
	}{
		{"abc", 3, []byte("abc"), []byte("dxz")},
		{"aab", 2, []byte("ab"), []byte("c")},
		{".*b.{8}b", 1, []byte("b"), []byte("a")},
		{"[0-9]_", 11, []byte("05_"), []byte("a")},
		{".*", 0, nil, []byte("a\x00")},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			info := analyze(t, tt.pattern)
			require.Equal(t, tt.wantCount, info.Involved.Count())
			for _, b := range tt.wantHas {
				require.True(t, info.Involved.Has(b))
			}
			for _, b := range tt.wantNot {
				require.False(t, info.Involved.Has(b))
			}
		})
	}
}

// TestHasAnchor checks anchor detection.
func TestHasAnchor(t *testing.T) {
	require.True(t, analyze(t, "^foo").HasAnchor)
	require.True(t, analyze(t, "foo$").HasAnchor)
	require.False(t, analyze(t, "foo").HasAnchor)
}

// TestAnalyzeAbsent covers the absent-root surface the DFA probes before
// materializing a start state.
func TestAnalyzeAbsent(t *testing.T) {
	info := Analyze(nil)
	require.Equal(t, None, info.Root)
	require.Nil(t, info.Tree)
}
