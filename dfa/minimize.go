package dfa

// Minimize merges indistinguishable states by iterative refinement of a
// pairwise distinguishability table:
//
//  1. Pairs with differing accept flags start distinguished.
//  2. A still-equivalent pair becomes distinguished when some byte drives
//     it to a distinguished pair, or to Reject on one side only.
//  3. Each eliminated state is replaced by its lowest-id equivalent, ids
//     are compacted in order, rows and adjacency rewritten, and the tail
//     truncated.
//
// The start state is never eliminated: lowest-id-wins makes state 0 the
// representative of its class. The subset maps are rewritten alongside so
// end-of-line finish expansion keeps working against representative
// subsets.
//
// Returns false on an incomplete DFA; true (and a no-op) when already
// minimal. Idempotent. Any compiled program is dropped: handler layout and
// alternate transitions are invalidated by the id rewrite.
func (d *DFA) Minimize() bool {
	if !d.complete {
		return false
	}
	if d.minimum {
		return true
	}
	n := len(d.states)
	if n <= 1 {
		d.minimum = true
		return true
	}

	// dist[i][j-i-1] for i < j.
	dist := make([][]bool, n-1)
	for i := 0; i < n-1; i++ {
		dist[i] = make([]bool, n-i-1)
		for j := i + 1; j < n; j++ {
			dist[i][j-i-1] = d.states[i].Accept != d.states[j].Accept
		}
	}

	for changed := true; changed; {
		changed = false
		for i := 0; i < n-1; i++ {
			for j := i + 1; j < n; j++ {
				if dist[i][j-i-1] {
					continue
				}
				for c := 0; c < 256; c++ {
					n1, n2 := d.rows[i][c], d.rows[j][c]
					if n1 == n2 {
						continue
					}
					if n1 > n2 {
						n1, n2 = n2, n1
					}
					if n1 == Reject || n2 == Reject || dist[n1][n2-n1-1] {
						dist[i][j-i-1] = true
						changed = true
						break
					}
				}
			}
		}
	}

	// Map each removable state to its earliest equivalent.
	merge := make(map[StateID]StateID)
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			if _, taken := merge[StateID(j)]; taken {
				continue
			}
			if !dist[i][j-i-1] {
				merge[StateID(j)] = StateID(i)
			}
		}
	}
	if len(merge) == 0 {
		d.minimum = true
		return true
	}

	// Compact: assign new ids in order, skipping merged states.
	kept := n - len(merge)
	replace := make([]StateID, n)
	next := StateID(0)
	for s := 0; s < n; s++ {
		if rep, merged := merge[StateID(s)]; merged {
			replace[s] = replace[rep]
			// The representative inherits the merged state's predecessors;
			// they are remapped with the rest of the adjacency below.
			for p := range d.states[s].Src {
				d.states[replace[rep]].Src[p] = struct{}{}
			}
			continue
		}
		replace[s] = next
		if StateID(s) != next {
			d.rows[next] = d.rows[s]
			d.states[next] = d.states[s]
			d.states[next].ID = next
			d.subsetByID[next] = d.subsetByID[s]
		}
		next++
	}

	remap := func(set map[StateID]struct{}, keepReject bool) map[StateID]struct{} {
		out := make(map[StateID]struct{}, len(set))
		for id := range set {
			if id == Reject {
				if keepReject {
					out[Reject] = struct{}{}
				}
				continue
			}
			out[replace[id]] = struct{}{}
		}
		return out
	}
	for i := 0; i < kept; i++ {
		row := &d.rows[i]
		for c := 0; c < 256; c++ {
			if row[c] != Reject {
				row[c] = replace[row[c]]
			}
		}
		d.states[i].Dst = remap(d.states[i].Dst, true)
		d.states[i].Src = remap(d.states[i].Src, false)
	}

	d.states = d.states[:kept]
	d.rows = d.rows[:kept]
	d.subsetByID = d.subsetByID[:kept]

	// Re-point every interned subset (including merged ones) at its
	// representative so on-the-fly lookups and finish expansion stay
	// coherent.
	rebuilt := make(map[string]StateID, len(d.idBySubset))
	for key, id := range d.idBySubset {
		rebuilt[key] = replace[id]
	}
	d.idBySubset = rebuilt

	d.invalidateProgram()
	d.minimum = true
	return true
}

// invalidateProgram drops compiled artifacts after a structural rewrite.
func (d *DFA) invalidateProgram() {
	if d.program != nil {
		_ = d.program.release()
		d.program = nil
	}
	for i := range d.states {
		d.states[i].Alter = AlterTrans{Next1: Undef, Next2: Undef}
		d.states[i].InlineLevel = 0
	}
	d.olevel = Onone
}
