package dfa

// maxInlineChain caps O3 chain length; deeper runs gain nothing and bloat
// the emitted handlers.
const maxInlineChain = 10

// eliminateBranch is the O2 pass: for each state, decide whether the dense
// row is expressible as "one contiguous interval of bytes goes to Next1,
// everything else goes to Next2" and record the alternate transition.
//
// The scan mirrors the row left to right: a run of the byte-0 successor,
// at most one departure interval, then the tail returning to the first
// successor. A uniform row is stored as {(0,255), next, Undef}. Any third
// successor (or a second interval) clears the alternate to Undef/Undef.
func (d *DFA) eliminateBranch() bool {
	for i := range d.states {
		row := &d.rows[i]
		next1, next2 := row[0], Undef
		lo, hi := 0, 255
		c := 1
		for ; c < 256 && row[c] == next1; c++ {
		}
		if c < 256 {
			next2 = next1
			next1 = row[c]
			lo = c
			for c++; c < 256 && row[c] == next1; c++ {
			}
		}
		if c < 256 {
			hi = c - 1
			for ; c < 256 && row[c] == next2; c++ {
			}
		}
		if c < 256 {
			next1, next2 = Undef, Undef
		}
		d.states[i].Alter = AlterTrans{
			Lo:    byte(lo),
			Hi:    byte(hi),
			Next1: next1,
			Next2: next2,
		}
	}
	return true
}

// reduce is the O3 pass: pick maximal linear chains of alternate-transition
// states and record each chain's length on its head, so the program back
// end can inline the whole run as straight-line handler steps.
//
// A state extends the chain only while:
//
//   - its successor set is a single real state (plus, at most, Reject on
//     the alternate's other branch),
//   - that successor has an alternate transition, exactly one predecessor,
//     is not accepting, not pinned, and not already claimed by a chain,
//   - the chain is shorter than maxInlineChain.
//
// Requires eliminateBranch to have populated the alternates.
func (d *DFA) reduce() bool {
	inlined := make([]bool, len(d.states))
	for i := range d.states {
		if inlined[i] {
			continue
		}
		head := &d.states[i]
		cur := StateID(i)
		for {
			c := &d.states[cur]
			nd := len(c.Dst)
			_, hasReject := c.Dst[Reject]
			if nd > 2 || nd == 0 {
				break
			}
			if nd == 2 && !hasReject {
				break
			}
			if nd == 1 && hasReject {
				break
			}
			nid := singleRealSuccessor(c.Dst)
			next := &d.states[nid]
			if next.Alter.Next1 == Undef {
				break
			}
			if len(next.Src) != 1 || next.Accept || next.Pinned {
				break
			}
			if inlined[nid] {
				break
			}
			inlined[nid] = true
			cur = nid
			head.InlineLevel++
			if head.InlineLevel >= maxInlineChain {
				break
			}
		}
	}
	return true
}

// singleRealSuccessor returns the one non-Reject member of a successor set
// known to contain exactly one.
func singleRealSuccessor(dst map[StateID]struct{}) StateID {
	for id := range dst {
		if id != Reject {
			return id
		}
	}
	return Reject
}
