package dfa

import (
	"github.com/regenhq/regen/internal/arena"
)

// Compile builds the executable program for the DFA at the requested
// optimization level.
//
// Level mapping:
//
//	O0  program over the dense table, no optimization (reports O1)
//	O2  branch elimination first
//	O3  branch elimination, then inline chaining
//
// Compiling at a level at or below the current one is a no-op returning
// true. An incomplete DFA cannot be compiled and returns false. A higher-
// level recompile replaces the previous program and releases its table.
func (d *DFA) Compile(level OptLevel) bool {
	if !d.complete {
		return false
	}
	if level <= d.olevel {
		return true
	}
	if level >= O2 {
		if d.eliminateBranch() {
			d.olevel = O2
		}
		if level == O3 && d.reduce() {
			d.olevel = O3
		}
	}
	if d.program != nil {
		_ = d.program.release()
	}
	d.program = d.newProgram()
	if d.olevel < O1 {
		d.olevel = O1
	}
	return d.olevel >= level
}

// program is the compiled rendition of the DFA: a threaded-code analogue of
// the two-segment blob the engine's design calls for. The handler specs
// (accept prologue, alternate/chain steps, table dispatch) are interpreted
// per state, and the data segment — the dense N*256 dispatch table — lives
// in a page-aligned arena. Backpatching is by id substitution: Reject cells
// dispatch to the shared reject tail, and cells holding the quick filter's
// reset state divert through the filter first.
type program struct {
	table *arena.Table
	t     []int32

	accepts []bool
	alter   []AlterTrans
	inline  []int

	olevel  OptLevel
	reverse bool
	longest bool
	suffix  bool

	// Quick filter state; filterOn only when the footprint gates pass.
	filterOn   bool
	involved   [256]bool
	minLen     int
	resetState StateID
}

// newProgram snapshots the DFA into an executable program.
func (d *DFA) newProgram() *program {
	n := len(d.states)
	p := &program{
		table:      arena.NewTable(n * 256),
		accepts:    make([]bool, n),
		alter:      make([]AlterTrans, n),
		inline:     make([]int, n),
		olevel:     d.olevel,
		reverse:    d.flags.ReverseMatch,
		longest:    d.flags.LongestMatch,
		suffix:     d.flags.SuffixMatch,
		resetState: Undef,
	}
	p.t = p.table.Int32s()
	for i := 0; i < n; i++ {
		p.accepts[i] = d.states[i].Accept
		p.alter[i] = d.states[i].Alter
		p.inline[i] = d.states[i].InlineLevel
		copy(p.t[i*256:(i+1)*256], d.rows[i][:])
	}

	if d.flags.FilteredMatch && d.info != nil {
		involved := d.info.Involved
		if d.info.HasAnchor && !d.flags.OneLine {
			involved.Set(d.flags.Delimiter)
		}
		if involved.Count() < 126 && d.info.MinLength > 2 && n > 0 {
			p.minLen = d.info.MinLength
			for c := 0; c < 256; c++ {
				p.involved[c] = involved.Has(byte(c))
				if !p.involved[c] && p.resetState == Undef {
					p.resetState = d.rows[0][c]
				}
			}
			p.filterOn = p.resetState != Undef
		}
	}
	return p
}

// release returns the table arena.
func (p *program) release() error {
	p.t = nil
	if p.table == nil {
		return nil
	}
	err := p.table.Release()
	p.table = nil
	return err
}

// execResult is what the program hands back to the match driver: the final
// state (or Reject), the last accept cursor stashed into the result slot,
// and whether the cursor ran off the input.
type execResult struct {
	state     StateID
	stash     int
	stashed   bool
	exhausted bool
}

// exec runs the program over input. In full mode the accept prologue only
// stashes (never returns early), so the caller can require that the whole
// input was consumed.
//
//nolint:gocyclo // one switch-free dispatch loop, mirroring the emitted handler layout
func (p *program) exec(input []byte, full bool) execResult {
	cur, stop, sign := 0, len(input), 1
	if p.reverse {
		cur, stop, sign = len(input)-1, -1, -1
	}
	state := StateID(0)
	var res execResult

	for {
		// Accept prologue: stash the cursor, return unless scanning on.
		if p.accepts[state] && !p.suffix {
			res.stash, res.stashed = cur, true
			if !p.longest && !full {
				res.state = state
				res.exhausted = cur == stop
				return res
			}
		}

		a := p.alter[state]
		if p.olevel >= O2 && a.Next1 != Undef {
			il := 0
			if p.olevel == O3 {
				il = p.inline[state]
			}
			if il > 0 {
				probe := cur + il*sign
				inBounds := probe < stop
				if p.reverse {
					inBounds = probe > stop
				}
				if !inBounds {
					// Not enough input for the whole chain: one ordinary
					// table step from the head, then re-dispatch.
					if cur == stop {
						res.state = state
						res.exhausted = true
						return res
					}
					b := input[cur]
					cur += sign
					next := StateID(p.t[int(state)*256+int(b)])
					if next == Reject {
						res.state = Reject
						return res
					}
					state = next
					continue
				}
				// Chain walk: interior steps reuse byte-offset reads; only
				// the completed chain advances the cursor, in bulk.
				s := state
				depth := 0
				for {
					at := p.alter[s]
					var next StateID
					if at.Next2 == Undef {
						next = at.Next1
					} else {
						b := input[cur+depth*sign]
						if at.Lo <= b && b <= at.Hi {
							next = at.Next1
						} else {
							next = at.Next2
						}
					}
					if depth == il {
						cur += (depth + 1) * sign
						if next == Reject {
							res.state = Reject
							return res
						}
						state = next
						break
					}
					if next == Reject {
						res.state = Reject
						return res
					}
					s = next
					depth++
				}
				continue
			}
			// Alternate without inlining: one guarded two-way step.
			if cur == stop {
				res.state = state
				res.exhausted = true
				return res
			}
			var next StateID
			if a.Next2 == Undef {
				next = a.Next1
				cur += sign
			} else {
				b := input[cur]
				cur += sign
				if a.Lo <= b && b <= a.Hi {
					next = a.Next1
				} else {
					next = a.Next2
				}
			}
			if next == Reject {
				res.state = Reject
				return res
			}
			state = next
			continue
		}

		// Default handler: bounds check, load byte, table dispatch.
		if cur == stop {
			res.state = state
			res.exhausted = true
			return res
		}
		b := input[cur]
		cur += sign
		next := StateID(p.t[int(state)*256+int(b)])
		if next == Reject {
			res.state = Reject
			return res
		}
		if p.filterOn && next == p.resetState {
			if !p.runFilter(input, &cur, stop, sign) {
				res.state = Reject
				return res
			}
		}
		state = next
	}
}

// runFilter fast-forwards the cursor by minLen-1 strides while the probe
// byte is outside the pattern's footprint. On an involved probe it rewinds
// the speculative skip so the caller resumes at the reset state; running
// off the input rejects.
func (p *program) runFilter(input []byte, cur *int, stop, sign int) bool {
	skip := (p.minLen - 1) * sign
	for {
		*cur += skip
		if sign > 0 {
			if *cur >= stop {
				return false
			}
		} else if *cur <= stop {
			return false
		}
		if p.involved[input[*cur]] {
			*cur -= skip
			return true
		}
	}
}
