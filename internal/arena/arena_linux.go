//go:build linux

package arena

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

const pageSize = 4096

// NewTable allocates a table of n int32 slots, zero-filled.
//
// The region comes from an anonymous private mmap, so it starts on a page
// boundary and its pages are returned to the kernel by Release. If the map
// fails (address space exhaustion, restrictive rlimits) the table degrades
// to a heap slice; callers only lose the alignment property.
func NewTable(n int) *Table {
	if n <= 0 {
		return &Table{}
	}
	size := (n*4 + pageSize - 1) &^ (pageSize - 1)
	raw, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return &Table{words: make([]int32, n)}
	}
	words := unsafe.Slice((*int32)(unsafe.Pointer(&raw[0])), n)
	return &Table{words: words, raw: raw, mapped: true}
}

// Release unmaps the backing region. The table's slices must not be used
// afterwards. Releasing a heap-backed or already-released table is a no-op.
func (t *Table) Release() error {
	if !t.mapped || t.raw == nil {
		t.words = nil
		return nil
	}
	raw := t.raw
	t.words = nil
	t.raw = nil
	t.mapped = false
	return unix.Munmap(raw)
}
