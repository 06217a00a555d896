//go:build !linux

package arena

// NewTable allocates a table of n int32 slots on the Go heap.
// Page alignment is not guaranteed off linux; the compiled matcher is
// correct either way, only the TLB locality of the mapped variant is lost.
func NewTable(n int) *Table {
	if n <= 0 {
		return &Table{}
	}
	return &Table{words: make([]int32, n)}
}

// Release drops the reference to the slots. The table must not be used
// afterwards.
func (t *Table) Release() error {
	t.words = nil
	return nil
}
