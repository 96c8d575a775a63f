/*
Package bitint provides power-of-two helpers for transform and buffer
sizing. All operations are O(1), allocation-free, and safe in real-time
paths.

The size-1 subtraction in NextPowerOfTwo is what keeps exact powers of
two unchanged: bits.Len(7) is 3 so 8 maps to 8, while bits.Len(8) would
be 4 and double it.
*/
package bitint

import "math/bits"

// NextPowerOfTwo returns the next power of 2 >= size. Zero and negative
// sizes return 1.
func NextPowerOfTwo(size int) int {
	if size <= 0 {
		return 1
	}

	// 64-bit platforms (where int is 64-bit)
	if ^uint(0)>>63 == 0 {
		return int(1 << (bits.Len64(uint64(size - 1))))
	}

	// 32-bit platforms
	return int(1 << (bits.Len32(uint32(size - 1))))
}

// For 32-bit integers
func NextPowerOfTwo32(size int32) int32 {
	if size <= 0 {
		return 1
	}
	return int32(1 << (bits.Len32(uint32(size - 1))))
}

// For 64-bit integers
func NextPowerOfTwo64(size int64) int64 {
	if size <= 0 {
		return 1
	}
	return int64(1 << (bits.Len64(uint64(size - 1))))
}

// IsPowerOfTwo reports whether n is a positive power of 2. A power of 2
// has exactly one bit set, so n & (n-1) clears it to zero.
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}

// For 32-bit integers
func IsPowerOfTwo32(n int32) bool {
	return n > 0 && (n&(n-1)) == 0
}

// For 64-bit integers
func IsPowerOfTwo64(n int64) bool {
	return n > 0 && (n&(n-1)) == 0
}
