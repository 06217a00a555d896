package arena

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

// TestTableBasics: slots are zeroed, writable and sized as requested.
func TestTableBasics(t *testing.T) {
	tbl := NewTable(1000)
	slots := tbl.Int32s()
	require.Len(t, slots, 1000)
	require.Equal(t, 1000, tbl.Len())
	for _, v := range slots {
		require.Zero(t, v)
	}
	slots[0] = -1
	slots[999] = 42
	require.Equal(t, int32(-1), tbl.Int32s()[0])
	require.NoError(t, tbl.Release())
}

// TestTableAlignment: a mapped table starts on a 4 KiB boundary.
func TestTableAlignment(t *testing.T) {
	tbl := NewTable(64 * 256)
	if !tbl.Mapped() {
		t.Skip("no mmap backing on this platform")
	}
	addr := uintptr(unsafe.Pointer(&tbl.Int32s()[0]))
	require.Zero(t, addr%4096, "mapped table must be page aligned")
	require.NoError(t, tbl.Release())
}

// TestTableRelease: release is idempotent and empty tables are fine.
func TestTableRelease(t *testing.T) {
	tbl := NewTable(16)
	require.NoError(t, tbl.Release())
	require.NoError(t, tbl.Release())

	empty := NewTable(0)
	require.Zero(t, empty.Len())
	require.NoError(t, empty.Release())
}
