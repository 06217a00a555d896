// Package nfa defines the externally-prepared nondeterministic automaton the
// DFA engine accepts as an alternate construction input.
//
// Unlike the expression-tree path, an NFA built here carries no anchor or
// operator pseudo-states: it is a plain byte-transition machine (states,
// per-byte successor sets, accept flags, a start set) and determinizes with
// the classical subset construction.
//
// Example:
//
//	n := nfa.New()
//	s0 := n.AddState()
//	s1 := n.AddState()
//	n.AddTransition(s0, 'a', s0)
//	n.AddTransition(s0, 'a', s1)
//	n.SetAccept(s1, true)
//	n.MarkStart(s0)
package nfa

import "github.com/regenhq/regen/internal/conv"

// StateID identifies an NFA state.
type StateID = int32

// State is one NFA state: successor sets keyed by input byte, plus the
// accept flag. Epsilon transitions are not representable; close over them
// before handing the machine to the DFA.
type State struct {
	trans  map[byte][]StateID
	accept bool
}

// NFA is an arena of states with a designated start set.
type NFA struct {
	states []State
	starts []StateID
}

// New returns an empty machine.
func New() *NFA {
	return &NFA{}
}

// AddState appends a state and returns its id.
func (n *NFA) AddState() StateID {
	id := conv.IntToInt32(len(n.states))
	n.states = append(n.states, State{trans: make(map[byte][]StateID)})
	return id
}

// AddTransition adds a byte transition. Duplicate edges are ignored.
func (n *NFA) AddTransition(from StateID, b byte, to StateID) {
	set := n.states[from].trans[b]
	for _, s := range set {
		if s == to {
			return
		}
	}
	n.states[from].trans[b] = append(set, to)
}

// SetAccept marks or unmarks a state as accepting.
func (n *NFA) SetAccept(id StateID, accept bool) {
	n.states[id].accept = accept
}

// MarkStart adds a state to the start set.
func (n *NFA) MarkStart(id StateID) {
	for _, s := range n.starts {
		if s == id {
			return
		}
	}
	n.starts = append(n.starts, id)
}

// Len returns the number of states.
func (n *NFA) Len() int {
	return len(n.states)
}

// Accept reports whether id accepts.
func (n *NFA) Accept(id StateID) bool {
	return n.states[id].accept
}

// Transitions returns the successor set of id on byte b. The slice aliases
// internal storage; callers must not mutate it.
func (n *NFA) Transitions(id StateID, b byte) []StateID {
	return n.states[id].trans[b]
}

// Starts returns the start set. The slice aliases internal storage.
func (n *NFA) Starts() []StateID {
	return n.starts
}
