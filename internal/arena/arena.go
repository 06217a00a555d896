// Package arena allocates the compiled program's dense transition table in a
// page-aligned memory region.
//
// The compiled matcher's data segment is an N*256 table of 32-bit state ids,
// dispatched through on every byte of input. Placing the table at a 4 KiB
// boundary keeps each state's row inside as few pages as possible and
// minimizes TLB pressure during long scans. On linux the region is obtained
// directly from mmap (anonymous, private), which guarantees page alignment
// and returns the memory to the OS on Release. Other platforms fall back to
// a heap slice with no alignment guarantee.
package arena

// Table is a block of int32 slots backed by page-aligned memory where the
// platform supports it.
//
// A Table is created once per compile and released when a recompile replaces
// it or the owning automaton is closed. It must not be used after Release.
type Table struct {
	words  []int32
	raw    []byte // mmap backing, nil when heap-allocated
	mapped bool
}

// Int32s returns the table's slots. The slice is valid until Release.
func (t *Table) Int32s() []int32 {
	return t.words
}

// Mapped reports whether the table is backed by an mmap region (and is
// therefore page-aligned).
func (t *Table) Mapped() bool {
	return t.mapped
}

// Len returns the number of int32 slots.
func (t *Table) Len() int {
	return len(t.words)
}
