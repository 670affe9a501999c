// Package conv provides checked narrowing conversions for the grammar
// compiler.
//
// The functions panic on overflow: a pattern large enough to exceed the
// engine's index types indicates a programming error, not a runtime
// condition to recover from.
package conv

import "math"

// IntToInt32 converts an int to int32, panicking when the value does
// not fit. Rule handles are int32.
func IntToInt32(n int) int32 {
	if n < math.MinInt32 || n > math.MaxInt32 {
		panic("conv: int value out of int32 range")
	}
	return int32(n)
}

// IntToUint32 converts an int to uint32, panicking on negative values
// or overflow. Set capacities are uint32.
func IntToUint32(n int) uint32 {
	// Compare as uint so the bound also holds on 32-bit platforms.
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("conv: int value out of uint32 range")
	}
	return uint32(n)
}
