// Package dfa builds, optimizes and executes the deterministic automaton at
// the heart of the engine.
//
// Construction is a subset construction over the expression tree's Glushkov
// positions, extended with two kinds of pseudo-positions resolved during
// closure: line anchors (gated by begin/end-of-line context) and operator
// pairs (language intersection and symmetric difference). Acceptance is
// "the subset contains the end-of-pattern sentinel".
//
// A constructed DFA can then be:
//
//   - minimized (pairwise distinguishability refinement),
//   - complemented in place,
//   - compiled: O2 collapses rows into two-way alternate transitions, O3
//     chains linear runs of such states, and the program back end lays the
//     result out as per-state handlers over a page-aligned dispatch table
//     with an optional quick filter.
//
// When construction hits its state budget it returns incomplete and the
// matcher degrades to on-the-fly subset construction, memoizing the states
// it discovers into the same table.
//
// A DFA is single-threaded while being constructed, minimized, complemented
// or compiled. A complete, compiled DFA may be shared by concurrent readers.
package dfa

import (
	"github.com/regenhq/regen/internal/conv"
	"github.com/regenhq/regen/syntax"
)

// StateID identifies a DFA state, or carries one of the two sentinels.
type StateID = int32

const (
	// Reject is the dead state: no continuation can accept.
	Reject StateID = -1

	// Undef marks a transition cell not yet computed (on-the-fly holes)
	// and an absent alternate transition. Distinguishable from Reject.
	Undef StateID = -2
)

// OptLevel selects how much of the compiled back end runs.
type OptLevel int

const (
	// Onone matches by direct table walk; no program is built.
	Onone OptLevel = iota - 1

	// O0 requests a compiled program with no optimization. A freshly
	// compiled DFA reports at least O1.
	O0

	// O1 is the compiled baseline: per-state handlers over the dispatch
	// table.
	O1

	// O2 adds branch elimination: rows that are one contiguous interval
	// against a default successor become alternate transitions.
	O2

	// O3 adds inline chaining of linear alternate-transition runs.
	O3
)

// Transition is one state's dense row.
type Transition [256]StateID

// AlterTrans is the compact two-way successor record synthesized by O2:
// byte c goes to Next1 when Lo <= c <= Hi, to Next2 otherwise. Next1 ==
// Undef means no alternate is available; Next2 == Undef with a real Next1
// means the row is uniform.
type AlterTrans struct {
	Lo, Hi byte
	Next1  StateID
	Next2  StateID
}

// State is the per-state metadata next to the dense row.
type State struct {
	// ID is the state's index; 0 is the start.
	ID StateID

	// Accept reports whether the state's subset contains EOP.
	Accept bool

	// Src and Dst are the predecessor/successor adjacency over state ids;
	// Dst may contain Reject, Src never does.
	Src map[StateID]struct{}
	Dst map[StateID]struct{}

	// Alter is the O2 alternate transition; Next1 == Undef until O2 runs.
	Alter AlterTrans

	// InlineLevel is the O3 chain length recorded on the chain head.
	InlineLevel int

	// Pinned excludes the state from inline chains. Set on the start
	// state, which must keep its handler as the program entry.
	Pinned bool
}

// DFA is the automaton. It owns its state vector, rows, subset maps and
// compiled program; it weakly references the expression tree, which must
// outlive it. State ids are append-only except for the bulk rewrite that
// minimization performs.
type DFA struct {
	info  *syntax.Info
	flags Flags

	states []State
	rows   []Transition

	// subsetByID and idBySubset map both ways between interned subsets and
	// state ids. Retained after construction so the matcher can finish-
	// expand end-of-line anchors at input exhaustion and so the on-the-fly
	// path can keep interning.
	subsetByID []Subset
	idBySubset map[string]StateID

	// followBits caches each position's follow set as a subset-width
	// bitset, the unit of work for closure and transition filling.
	followBits []Subset

	complete     bool
	minimum      bool
	complemented bool
	olevel       OptLevel
	program      *program
}

// New constructs a DFA for the analyzed expression tree. Construction stops
// at flags.StateLimit states; check Complete to see whether it finished.
// An absent root (nil info or no pattern) yields an empty automaton that
// matches nothing.
func New(info *syntax.Info, flags Flags) *DFA {
	d := &DFA{
		info:       info,
		flags:      flags,
		idBySubset: make(map[string]StateID),
		olevel:     Onone,
	}
	d.prepareFollow()
	d.complete = d.construct()
	return d
}

// prepareFollow materializes the per-position follow bitsets.
func (d *DFA) prepareFollow() {
	if d.info == nil || d.info.Root == syntax.None {
		return
	}
	n := d.info.NumNodes()
	d.followBits = make([]Subset, n)
	for id := 0; id < n; id++ {
		node := d.info.Node(id)
		if !node.IsPosition() {
			continue
		}
		d.followBits[id] = subsetOf(n, node.Follow)
	}
}

// Complete reports whether construction built every reachable state.
func (d *DFA) Complete() bool { return d.complete }

// Minimum reports whether the DFA is known minimal.
func (d *DFA) Minimum() bool { return d.minimum }

// Size returns the number of states.
func (d *DFA) Size() int { return len(d.states) }

// Empty reports whether no state has been materialized.
func (d *DFA) Empty() bool { return len(d.states) == 0 }

// Level returns the current optimization level.
func (d *DFA) Level() OptLevel { return d.olevel }

// Flags returns the construction/match flags.
func (d *DFA) Flags() Flags { return d.flags }

// IsAccept reports whether state id accepts.
func (d *DFA) IsAccept(id StateID) bool { return d.states[id].Accept }

// Row returns state id's dense transition row.
func (d *DFA) Row(id StateID) *Transition { return &d.rows[id] }

// Alter returns state id's alternate transition record.
func (d *DFA) Alter(id StateID) AlterTrans { return d.states[id].Alter }

// InlineLevel returns state id's O3 chain length.
func (d *DFA) InlineLevel(id StateID) int { return d.states[id].InlineLevel }

// SrcStates returns the predecessor set of id.
func (d *DFA) SrcStates(id StateID) map[StateID]struct{} { return d.states[id].Src }

// DstStates returns the successor set of id.
func (d *DFA) DstStates(id StateID) map[StateID]struct{} { return d.states[id].Dst }

// appendState materializes a new state with an Undef-filled row.
func (d *DFA) appendState() *State {
	id := conv.IntToInt32(len(d.states))
	var row Transition
	for i := range row {
		row[i] = Undef
	}
	d.rows = append(d.rows, row)
	d.states = append(d.states, State{
		ID:     id,
		Src:    make(map[StateID]struct{}),
		Dst:    make(map[StateID]struct{}),
		Alter:  AlterTrans{Next1: Undef, Next2: Undef},
		Pinned: id == 0,
	})
	// Keep the id → subset vector aligned; states that are not interned
	// (NFA-built states, the complement sink) have no subset.
	d.subsetByID = append(d.subsetByID, nil)
	return &d.states[id]
}

// intern assigns the next state id to subset and records the two-way
// mapping. The caller has already checked the subset is new.
func (d *DFA) intern(s Subset) StateID {
	st := d.appendState()
	st.Accept = s.Has(d.info.EOP)
	d.subsetByID[st.ID] = s
	d.idBySubset[s.Key()] = st.ID
	return st.ID
}

// lookup finds the state id a subset was interned under.
func (d *DFA) lookup(s Subset) (StateID, bool) {
	id, ok := d.idBySubset[s.Key()]
	return id, ok
}

// expand extends s to its closure fixed point by resolving pseudo-positions:
//
//   - BegLine/EndLine anchors inject their follow sets when the matching
//     context boolean holds.
//   - Intersection operators inject their follow only once both partners of
//     the pair have been seen in s.
//   - XOR operators partition by shared group id; a group with exactly one
//     partner present injects that partner's follow.
//
// Any insertion restarts the scan; subsets are small, so the quadratic
// restart is cheaper than a worklist.
func (d *DFA) expand(s Subset, begline, endline bool) {
	var seenInter, seenXor map[int]bool
	var lone map[int]int
	for {
		grew := false
		for _, id := range s.Members() {
			n := d.info.Node(id)
			switch n.Kind {
			case syntax.KindAnchor:
				if (n.Anchor == syntax.BegLine && begline) ||
					(n.Anchor == syntax.EndLine && endline) {
					if s.Union(d.followBits[id]) {
						grew = true
					}
				}
			case syntax.KindOperator:
				switch n.Op {
				case syntax.OpIntersection:
					if seenInter == nil {
						seenInter = make(map[int]bool)
					}
					if !seenInter[id] {
						seenInter[id] = true
						if seenInter[n.Pair] && s.Union(d.followBits[id]) {
							grew = true
						}
					}
				case syntax.OpXOR:
					if seenXor == nil {
						seenXor = make(map[int]bool)
						lone = make(map[int]int)
					}
					if !seenXor[id] {
						seenXor[id] = true
						if _, both := lone[n.Group]; both {
							delete(lone, n.Group)
						} else {
							lone[n.Group] = id
						}
					}
				}
			}
		}
		if grew {
			continue
		}
		for _, id := range lone {
			n := d.info.Node(id)
			if !seenXor[n.Pair] && s.Union(d.followBits[id]) {
				grew = true
			}
		}
		if !grew {
			return
		}
	}
}

// fillTransition accumulates position id's contribution into the 256
// per-byte successor subsets.
func (d *DFA) fillTransition(id int, trans []Subset) {
	n := d.info.Node(id)
	follow := d.followBits[id]
	switch n.Kind {
	case syntax.KindLiteral:
		trans[n.Lit].Union(follow)
	case syntax.KindCharClass:
		for c := 0; c < 256; c++ {
			if n.Class.Has(byte(c)) {
				trans[c].Union(follow)
			}
		}
	case syntax.KindDot:
		for c := 0; c < 256; c++ {
			if !d.flags.OneLine && byte(c) == d.flags.Delimiter {
				continue
			}
			trans[c].Union(follow)
		}
	case syntax.KindAnchor:
		if !d.flags.OneLine {
			trans[d.flags.Delimiter].Union(follow)
		}
	}
}

// construct runs the breadth-first subset construction. Returns false when
// the root is absent (no state is materialized) or the state budget was
// exceeded (the table keeps Undef holes for the on-the-fly matcher).
func (d *DFA) construct() bool {
	if d.info == nil || d.info.Root == syntax.None {
		return false
	}
	width := d.info.NumNodes()

	start := subsetOf(width, d.info.First)
	d.expand(start, true, false)
	d.intern(start)

	trans := make([]Subset, 256)
	for c := range trans {
		trans[c] = newSubset(width)
	}

	limitOver := false
	begline := true
	for qi := 0; qi < len(d.states); qi++ {
		states := d.subsetByID[qi]
		for c := range trans {
			trans[c].Clear()
		}
		states.ForEach(func(id int) {
			d.fillTransition(id, trans)
		})

		// Index, don't cache pointers: intern appends states and may move
		// the backing arrays.
		if d.flags.ShortestMatch && d.states[qi].Accept {
			for c := 0; c < 256; c++ {
				d.rows[qi][c] = Reject
			}
			d.states[qi].Dst[Reject] = struct{}{}
			begline = false
			continue
		}

		for c := 0; c < 256; c++ {
			next := trans[c]
			if next.Empty() {
				d.rows[qi][c] = Reject
				d.states[qi].Dst[Reject] = struct{}{}
				continue
			}
			next = next.Clone()
			d.expand(next, false, false)

			if byte(c) == d.flags.Delimiter && !d.flags.OneLine {
				// A delimiter ends a line: re-expand in end-of-line (and,
				// for the start state, begin-of-line) context. Every
				// line-terminal road leads to the unique EOP state.
				d.expand(next, begline, true)
				if next.Has(d.info.EOP) {
					next = newSubset(width)
					next.Add(d.info.EOP)
				} else {
					d.rows[qi][c] = Reject
					d.states[qi].Dst[Reject] = struct{}{}
					continue
				}
			}

			id, ok := d.lookup(next)
			if !ok {
				if len(d.states) >= d.flags.StateLimit {
					limitOver = true
					continue // leave the Undef hole
				}
				id = d.intern(next)
			}
			d.rows[qi][c] = id
			d.states[qi].Dst[id] = struct{}{}
		}

		begline = false
	}

	if limitOver {
		return false
	}
	d.finalize()
	return true
}

// finalize inverts the successor adjacency into predecessor sets, skipping
// Reject.
func (d *DFA) finalize() {
	for i := range d.states {
		for dst := range d.states[i].Dst {
			if dst != Reject {
				d.states[dst].Src[d.states[i].ID] = struct{}{}
			}
		}
	}
}

// nodeMatches reports whether position node n consumes byte b under the
// current flags (Dot excludes the delimiter in multiline mode).
func (d *DFA) nodeMatches(n *syntax.Node, b byte) bool {
	if n.Kind == syntax.KindDot && !d.flags.OneLine && b == d.flags.Delimiter {
		return false
	}
	return n.Matches(b)
}

// acceptAtEOI reports whether state id would accept once end-of-line
// expansion is applied to its subset, the dynamic check the matcher runs at
// input exhaustion. Meaningless after complementation (the subsets describe
// the original language), so callers skip it then.
func (d *DFA) acceptAtEOI(id StateID, begline bool) bool {
	if int(id) >= len(d.subsetByID) || d.subsetByID[id] == nil {
		return false
	}
	end := d.subsetByID[id].Clone()
	d.expand(end, begline, true)
	return end.Has(d.info.EOP)
}

// Close releases the compiled program's table arena, if any. The DFA
// remains usable on the table-walk and on-the-fly paths.
func (d *DFA) Close() error {
	if d.program != nil {
		err := d.program.release()
		d.program = nil
		if d.olevel >= O1 {
			d.olevel = Onone
		}
		return err
	}
	return nil
}
