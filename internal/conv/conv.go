// Package conv provides the checked integer narrowing the engine needs at
// its state-count boundaries. State ids are 32-bit while Go slice lengths
// are ints; the conversion panics on overflow because reaching it means a
// state count escaped the construction limit, a programming error.
package conv

import "math"

// IntToInt32 converts an int to int32, panicking when n is outside the
// int32 range. The construction state limit bounds every caller's value
// long before this can trip.
//
//go:inline
func IntToInt32(n int) int32 {
	if n < math.MinInt32 || n > math.MaxInt32 {
		panic("integer overflow: int value out of int32 range")
	}
	return int32(n)
}
