// SPDX-License-Identifier: Apache-2.0

package alloc

import "math"

// Index is the set of unsigned types a free list can use for slot links.
type Index interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// IndexWidth returns the size in bytes of the smallest unsigned integer able
// to address n slots, that is to hold every value in [0, n-1].
func IndexWidth(n uint64) int {
	switch {
	case n <= 1<<8:
		return 1
	case n <= 1<<16:
		return 2
	case n <= 1<<32:
		return 4
	default:
		return 8
	}
}

// SignedWidth returns the size in bytes of the smallest signed integer able
// to hold every value in [lo, hi].
func SignedWidth(lo, hi int64) int {
	if lo > hi {
		lo, hi = hi, lo
	}
	switch {
	case lo >= math.MinInt8 && hi <= math.MaxInt8:
		return 1
	case lo >= math.MinInt16 && hi <= math.MaxInt16:
		return 2
	case lo >= math.MinInt32 && hi <= math.MaxInt32:
		return 4
	default:
		return 8
	}
}
