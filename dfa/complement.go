package dfa

// Complement inverts the accepted language in place: every state's accept
// flag flips, and transitions that pointed at Reject are repointed at a
// sink state that self-loops and accepts. The sink is materialized lazily;
// a DFA with no Reject edges gains no state.
//
// Complement is an involution: applying it twice restores the original
// language (the sink survives but becomes a non-accepting dead end).
//
// After complementation the subset maps no longer describe the accepted
// language, so the matcher stops consulting end-of-line finish expansion;
// minimality is no longer assumed and compiled artifacts are dropped.
func (d *DFA) Complement() bool {
	if !d.complete {
		return false
	}
	sink := Reject
	count := len(d.states)
	for i := 0; i < count; i++ {
		d.states[i].Accept = !d.states[i].Accept
	}
	for i := 0; i < count; i++ {
		toSink := false
		for c := 0; c < 256; c++ {
			// Index, don't cache a row pointer: materializing the sink
			// appends a state and may move the backing arrays.
			if d.rows[i][c] != Reject {
				continue
			}
			if sink == Reject {
				st := d.appendState()
				sink = st.ID
				st.Accept = true
				st.Dst[sink] = struct{}{}
				st.Src[sink] = struct{}{}
				for j := 0; j < 256; j++ {
					d.rows[sink][j] = sink
				}
			}
			d.rows[i][c] = sink
			toSink = true
		}
		if toSink {
			delete(d.states[i].Dst, Reject)
			d.states[i].Dst[sink] = struct{}{}
			d.states[sink].Src[d.states[i].ID] = struct{}{}
		}
	}
	d.complemented = !d.complemented
	d.minimum = false
	d.invalidateProgram()
	return true
}

// Complemented reports whether an odd number of Complement calls have run.
func (d *DFA) Complemented() bool {
	return d.complemented
}
