package dfa

import (
	"encoding/binary"
	"math/bits"
)

// Subset is a set of expression-node ids, the semantic key a DFA state
// interns under. It is stored as a fixed-width bitset over the tree's node
// ids: membership order is the id order by construction, so equal subsets
// produce identical intern keys with no sorting step, and the closure and
// transition-fill loops reduce to word-wise unions.
//
// All subsets of one DFA share a word width (ceil(numNodes/64)); the width
// is part of no key because it never varies within a DFA.
type Subset []uint64

// newSubset returns an empty subset wide enough for n node ids.
func newSubset(n int) Subset {
	return make(Subset, (n+63)/64)
}

// subsetOf builds a subset from a sorted id slice.
func subsetOf(n int, ids []int) Subset {
	s := newSubset(n)
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id.
func (s Subset) Add(id int) {
	s[id>>6] |= 1 << (uint(id) & 63)
}

// Has reports membership of id.
func (s Subset) Has(id int) bool {
	return s[id>>6]&(1<<(uint(id)&63)) != 0
}

// Union merges other into s and reports whether s grew.
func (s Subset) Union(other Subset) bool {
	grew := false
	for i, w := range other {
		if w&^s[i] != 0 {
			s[i] |= w
			grew = true
		}
	}
	return grew
}

// Empty reports whether no id is present.
func (s Subset) Empty() bool {
	for _, w := range s {
		if w != 0 {
			return false
		}
	}
	return true
}

// Count returns the number of member ids.
func (s Subset) Count() int {
	n := 0
	for _, w := range s {
		n += bits.OnesCount64(w)
	}
	return n
}

// Clone returns an independent copy.
func (s Subset) Clone() Subset {
	out := make(Subset, len(s))
	copy(out, s)
	return out
}

// Clear removes every member, keeping the width.
func (s Subset) Clear() {
	for i := range s {
		s[i] = 0
	}
}

// Equal reports set equality.
func (s Subset) Equal(other Subset) bool {
	for i, w := range s {
		if w != other[i] {
			return false
		}
	}
	return true
}

// ForEach calls fn for every member id in ascending order.
func (s Subset) ForEach(fn func(id int)) {
	for i, w := range s {
		for w != 0 {
			fn(i<<6 + bits.TrailingZeros64(w))
			w &= w - 1
		}
	}
}

// Members returns the member ids in ascending order.
func (s Subset) Members() []int {
	out := make([]int, 0, s.Count())
	s.ForEach(func(id int) { out = append(out, id) })
	return out
}

// Key returns the exact intern key: the little-endian byte image of the
// words. Unlike a hash key, distinct subsets can never collide.
func (s Subset) Key() string {
	buf := make([]byte, 8*len(s))
	for i, w := range s {
		binary.LittleEndian.PutUint64(buf[i*8:], w)
	}
	return string(buf)
}
