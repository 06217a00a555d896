package nfa

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilderBasics(t *testing.T) {
	n := New()
	s0 := n.AddState()
	s1 := n.AddState()
	require.Equal(t, 2, n.Len())

	n.AddTransition(s0, 'a', s1)
	n.AddTransition(s0, 'a', s1) // duplicate ignored
	n.AddTransition(s0, 'a', s0)
	require.ElementsMatch(t, []StateID{s1, s0}, n.Transitions(s0, 'a'))
	require.Empty(t, n.Transitions(s0, 'b'))

	n.SetAccept(s1, true)
	require.True(t, n.Accept(s1))
	require.False(t, n.Accept(s0))

	n.MarkStart(s0)
	n.MarkStart(s0) // duplicate ignored
	require.Equal(t, []StateID{s0}, n.Starts())
}
