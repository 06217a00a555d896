package dfa

import "github.com/regenhq/regen/syntax"

// StringPiece is the reported match range. On a forward match End is set to
// the cursor at the last accepting position seen; on a reverse match Begin
// is set to the first byte of the match. Both are byte offsets into the
// searched input.
type StringPiece struct {
	Begin int
	End   int
}

// Match scans input and reports whether the pattern matched, filling result
// (when non-nil) with the matched range.
//
// Dispatch is exclusive per invocation:
//
//   - incomplete construction: on-the-fly subset matching (full-input
//     semantics, memoizing discovered states),
//   - compiled at O1 or above: program execution,
//   - otherwise: direct table walk.
//
// The compiled and table paths share their post-processing, so every
// optimization level reports identical results.
func (d *DFA) Match(input []byte, result *StringPiece) bool {
	if !d.complete {
		return d.onTheFlyMatch(input, result)
	}
	var r execResult
	if d.olevel >= O1 {
		r = d.program.exec(input, false)
	} else {
		r = d.tableExec(input, false)
	}
	return d.finishMatch(input, r, result)
}

// FullMatch reports whether the pattern matches the entire input: the scan
// must consume every byte and end in an accepting state (possibly via
// end-of-line finish expansion).
func (d *DFA) FullMatch(input []byte) bool {
	if !d.complete {
		return d.onTheFlyMatch(input, nil)
	}
	var r execResult
	if d.olevel >= O1 {
		r = d.program.exec(input, true)
	} else {
		r = d.tableExec(input, true)
	}
	if r.state == Reject || !r.exhausted {
		return false
	}
	if d.states[r.state].Accept {
		return true
	}
	return !d.complemented && d.acceptAtEOI(r.state, len(input) == 0)
}

// tableExec is the uncompiled scan loop. It mirrors the program's handler
// semantics — accept prologue at state entry, bounds check, byte load,
// dense dispatch — without alternates, chains or the filter.
func (d *DFA) tableExec(input []byte, full bool) execResult {
	cur, stop, sign := 0, len(input), 1
	if d.flags.ReverseMatch {
		cur, stop, sign = len(input)-1, -1, -1
	}
	state := StateID(0)
	var res execResult
	for {
		if d.states[state].Accept && !d.flags.SuffixMatch {
			res.stash, res.stashed = cur, true
			if !d.flags.LongestMatch && !full {
				res.state = state
				res.exhausted = cur == stop
				return res
			}
		}
		if cur == stop {
			res.state = state
			res.exhausted = true
			return res
		}
		b := input[cur]
		cur += sign
		next := d.rows[state][b]
		if next == Reject {
			res.state = Reject
			return res
		}
		state = next
	}
}

// finishMatch turns an execution result into the caller-visible verdict,
// applying the end-of-line finish expansion and the suffix stretch.
func (d *DFA) finishMatch(input []byte, r execResult, result *StringPiece) bool {
	accept := r.state != Reject && d.states[r.state].Accept
	if !accept && r.state != Reject && r.exhausted && !d.complemented {
		// The final state is alive but not accepting; it may become so in
		// end-of-line context (end-anchored patterns at input exhaustion).
		accept = d.acceptAtEOI(r.state, len(input) == 0)
	}
	if result == nil {
		return accept || r.stashed
	}
	if d.flags.SuffixMatch && accept {
		if d.flags.ReverseMatch {
			result.Begin = 0
		} else {
			result.End = len(input)
		}
		return true
	}
	if r.stashed {
		if d.flags.ReverseMatch {
			result.Begin = r.stash + 1
		} else {
			result.End = r.stash
		}
		return true
	}
	if accept {
		// Acceptance arrived only through finish expansion; the whole
		// consumed range is the match.
		if d.flags.ReverseMatch {
			result.Begin = 0
		} else {
			result.End = len(input)
		}
		return true
	}
	return false
}

// onTheFlyMatch drives the cursor with lazy subset construction: an Undef
// cell computes the successor subset from the current one with the
// node-level byte predicate, interns it (or finds it), installs it into the
// row and advances. Discovered states persist, so repeated matches against
// an incomplete DFA keep filling the same table.
//
// Acceptance uses full-input semantics: the verdict is taken at input
// exhaustion, consulting end-of-line expansion as the last step.
func (d *DFA) onTheFlyMatch(input []byte, result *StringPiece) bool {
	if d.info == nil || d.info.Root == syntax.None {
		return false
	}
	width := d.info.NumNodes()
	if d.Empty() {
		start := subsetOf(width, d.info.First)
		d.expand(start, true, false)
		d.intern(start)
	}

	cur, stop, sign := 0, len(input), 1
	if d.flags.ReverseMatch {
		cur, stop, sign = len(input)-1, -1, -1
	}
	state := StateID(0)

	for cur != stop {
		b := input[cur]
		next := d.rows[state][b]
		if next == Reject {
			return false
		}
		if next == Undef {
			states := d.subsetByID[state]
			nexts := newSubset(width)
			states.ForEach(func(id int) {
				n := d.info.Node(id)
				if d.nodeMatches(n, b) {
					nexts.Union(d.followBits[id])
				}
			})
			d.expand(nexts, false, false)
			if nexts.Empty() {
				d.rows[state][b] = Reject
				return false
			}
			id, ok := d.lookup(nexts)
			if !ok {
				id = d.intern(nexts)
			}
			d.rows[state][b] = id
			next = id
		}
		state = next
		cur += sign
	}

	accept := d.states[state].Accept
	if !accept {
		accept = d.acceptAtEOI(state, len(input) == 0)
	}
	if accept && result != nil {
		if d.flags.ReverseMatch {
			result.Begin = 0
		} else {
			result.End = len(input)
		}
	}
	return accept
}
