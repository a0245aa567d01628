// Package intmath contains small helpers for integer arithmetic and bit manipulation.
package intmath

import (
	"fmt"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// FloorDiv divides and rounds towards negative infinity.
// Like the / operator, it panics if divisor is zero.
func FloorDiv[T constraints.Integer](dividend, divisor T) T {
	quotient := dividend / divisor
	if dividend%divisor != 0 && (dividend < 0) != (divisor < 0) {
		quotient -= 1
	}

	return quotient
}

// CeilDiv divides and rounds towards positive infinity.
// Like the / operator, it panics if divisor is zero.
func CeilDiv[T constraints.Integer](dividend, divisor T) T {
	quotient := dividend / divisor
	if dividend%divisor != 0 && (dividend < 0) == (divisor < 0) {
		quotient += 1
	}

	return quotient
}

// AlignBytes rounds a byte count up to the size of the smallest integer type
// that can hold it: 1, 2, 4 or 8. Panics if bytes is not in [1, 8].
func AlignBytes(bytes int) int {
	switch {
	case bytes < 1 || bytes > 8:
		panic(fmt.Sprintf("bytes must be in [1, 8], got %d", bytes))

	case bytes <= 2:
		return bytes

	case bytes <= 4:
		return 4

	default:
		return 8
	}
}

// Halves maps an integer type to the integer type of half its width.
type Halves interface {
	~uint16 | ~int16 | ~uint32 | ~int32 | ~uint64 | ~int64
}

func halfBits[T Halves]() uint {
	var zero T
	return uint(unsafe.Sizeof(zero)) * 4
}

// SetHigh replaces the upper half of the bits of target with the lower half of the bits of value.
func SetHigh[T Halves](target *T, value T) {
	bits := halfBits[T]()
	mask := lowMask[T](bits)

	*target = (*target & mask) | (value&mask)<<bits
}

// SetLow replaces the lower half of the bits of target with the lower half of the bits of value.
func SetLow[T Halves](target *T, value T) {
	bits := halfBits[T]()
	mask := lowMask[T](bits)

	*target = (*target &^ mask) | (value & mask)
}

// High returns the upper half of the bits of value, shifted into the lower half.
func High[T Halves](value T) T {
	bits := halfBits[T]()
	return (value >> bits) & lowMask[T](bits)
}

// Low returns the lower half of the bits of value.
func Low[T Halves](value T) T {
	return value & lowMask[T](halfBits[T]())
}

func lowMask[T Halves](bits uint) T {
	return T(1)<<bits - 1
}

// Traverse calls fn with every value and its index, starting at index begin,
// for at most count values.
func Traverse[T any](begin, count int, fn func(value T, idx int), values ...T) {
	if begin < 0 {
		// the window starts before the first value
		count, begin = count+begin, 0
	}

	if begin >= len(values) || count <= 0 {
		return
	}

	// begin+count may overflow
	count = min(count, len(values)-begin)

	for idx := begin; idx < begin+count; idx++ {
		fn(values[idx], idx)
	}
}
