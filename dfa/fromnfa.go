package dfa

import (
	"encoding/binary"
	"sort"

	"github.com/regenhq/regen/nfa"
)

// FromNFA determinizes an externally-prepared byte NFA with the classical
// subset construction: no anchor or operator pseudo-states exist on this
// path, a DFA state accepts when any member NFA state does.
//
// A machine with no states or no start state yields an empty, incomplete
// automaton that matches nothing. Otherwise the resulting DFA is always
// complete (flags.StateLimit is not applied; the machine's own size bounds
// the state count) but carries no expression tree, so on-the-fly matching and
// end-of-line finish expansion do not apply; it supports minimization,
// complementation, compilation and matching like any constructed DFA.
func FromNFA(n *nfa.NFA, flags Flags) *DFA {
	d := &DFA{
		flags:      flags,
		idBySubset: make(map[string]StateID),
		olevel:     Onone,
	}
	if n.Len() == 0 || len(n.Starts()) == 0 {
		return d
	}

	ids := make(map[string]StateID)
	var queue [][]nfa.StateID

	start := append([]nfa.StateID(nil), n.Starts()...)
	sortIDs(start)
	ids[nfaKey(start)] = 0
	queue = append(queue, start)
	d.appendState()

	for qi := 0; qi < len(queue); qi++ {
		members := queue[qi]

		// Index, don't cache pointers: appendState may move the backing
		// arrays while this state's row is being filled.
		accept := false
		for _, m := range members {
			if n.Accept(m) {
				accept = true
				break
			}
		}
		d.states[qi].Accept = accept

		if flags.ShortestMatch && accept {
			for c := 0; c < 256; c++ {
				d.rows[qi][c] = Reject
			}
			d.states[qi].Dst[Reject] = struct{}{}
			continue
		}

		for c := 0; c < 256; c++ {
			next := unionSuccessors(n, members, byte(c))
			if len(next) == 0 {
				d.rows[qi][c] = Reject
				d.states[qi].Dst[Reject] = struct{}{}
				continue
			}
			key := nfaKey(next)
			id, ok := ids[key]
			if !ok {
				id = d.appendState().ID
				ids[key] = id
				queue = append(queue, next)
			}
			d.rows[qi][c] = id
			d.states[qi].Dst[id] = struct{}{}
		}
	}

	d.finalize()
	d.complete = true
	return d
}

// unionSuccessors collects the sorted, deduplicated successor set of the
// member states on byte c.
func unionSuccessors(n *nfa.NFA, members []nfa.StateID, c byte) []nfa.StateID {
	var out []nfa.StateID
	for _, m := range members {
		out = append(out, n.Transitions(m, c)...)
	}
	if len(out) == 0 {
		return nil
	}
	sortIDs(out)
	w := 1
	for i := 1; i < len(out); i++ {
		if out[i] != out[i-1] {
			out[w] = out[i]
			w++
		}
	}
	return out[:w]
}

func sortIDs(ids []nfa.StateID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

// nfaKey encodes a sorted id set as the exact intern key.
func nfaKey(ids []nfa.StateID) string {
	buf := make([]byte, 4*len(ids))
	for i, id := range ids {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(id))
	}
	return string(buf)
}
