// Package mathx holds small generic numeric helpers used when sizing
// buffers and rings.
package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. If lo > hi, the bounds are swapped.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if hi < lo {
		lo, hi = hi, lo
	}
	return Max(lo, Min(v, hi))
}

func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// NextPow2 returns the smallest power of two >= n (1 for n <= 1).
func NextPow2[T constraints.Integer](n T) T {
	var p T = 1
	for p < n {
		p <<= 1
	}
	return p
}
