package core

import (
	"fmt"
	"sort"
)

// Mask enables or disables a computation lane. The packet/SIMD flavor of
// this runtime degrades to a single scalar lane in Go: code accumulates
// conditions into the mask, bails out early only when the mask is fully
// inactive, and produces results through Select rather than divergent
// branches, so scalar and vectorized implementations agree on results.
type Mask = bool

// Select returns a if mask is active, b otherwise
func Select[T any](mask Mask, a, b T) T {
	if mask {
		return a
	}
	return b
}

// Lookup returns s[index] if mask is active, the zero value otherwise.
// An out-of-range index on an active lane is an invariant violation and
// panics; inactive lanes never touch the slice.
func Lookup[T any](s []T, index int, mask Mask) T {
	if !mask {
		var zero T
		return zero
	}
	if index < 0 || index >= len(s) {
		panic(fmt.Sprintf("core: lookup index %d out of range [0, %d)", index, len(s)))
	}
	return s[index]
}

// BinarySearch returns the smallest index at which pred stops holding,
// assuming s is partitioned with all pred-true elements first. It returns
// len(s) when pred holds everywhere or when the mask is inactive.
func BinarySearch[T any](s []T, pred func(T) bool, mask Mask) int {
	if !mask {
		return len(s)
	}
	return sort.Search(len(s), func(i int) bool { return !pred(s[i]) })
}
