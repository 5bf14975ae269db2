// SPDX-License-Identifier: Apache-2.0

package alloc

import (
	"unsafe"
)

// Buffer is a non-owning view over a contiguous region of T: an element count
// and the address of the first element. A Buffer describes an arena, it never
// allocates or frees the memory it points at.
//
// The zero Buffer is the empty arena; Len() == 0 exactly when Data() is nil.
type Buffer[T any] struct {
	data *T
	size int
}

// BufferOf describes the storage behind s. An empty s yields the zero Buffer.
func BufferOf[T any](s []T) Buffer[T] {
	if len(s) == 0 {
		return Buffer[T]{}
	}
	return Buffer[T]{data: unsafe.SliceData(s), size: len(s)}
}

// Len returns the number of T slots in the arena.
func (b Buffer[T]) Len() int {
	return b.size
}

// Data returns the address of the first slot, nil for the empty arena.
func (b Buffer[T]) Data() *T {
	return b.data
}

// IsZero reports whether b describes no storage.
func (b Buffer[T]) IsZero() bool {
	return b.size == 0
}

// Bytes returns the size of the described region in bytes.
func (b Buffer[T]) Bytes() int {
	var x T
	return b.size * int(unsafe.Sizeof(x))
}

// Slice returns the described region as a slice of length and capacity Len().
func (b Buffer[T]) Slice() []T {
	if b.size == 0 {
		return nil
	}
	return unsafe.Slice(b.data, b.size)
}

// Index returns the slot index of p within the arena.
// It reports false when p is nil, outside the arena or not slot aligned.
func (b Buffer[T]) Index(p *T) (int, bool) {
	if b.size == 0 || p == nil {
		return -1, false
	}
	base := uintptr(unsafe.Pointer(b.data))
	addr := uintptr(unsafe.Pointer(p))
	if addr < base {
		return -1, false
	}
	off := addr - base
	var x T
	elem := unsafe.Sizeof(x)
	if elem == 0 {
		return 0, off == 0
	}
	if off%elem != 0 {
		return -1, false
	}
	i := off / elem
	if i >= uintptr(b.size) {
		return -1, false
	}
	return int(i), true
}

// Contains reports whether the non-empty slice s lies entirely inside the arena.
func (b Buffer[T]) Contains(s []T) bool {
	if len(s) == 0 {
		return false
	}
	i, ok := b.Index(unsafe.SliceData(s))
	return ok && i+len(s) <= b.size
}

// Same reports whether s starts at the first slot of the arena.
func (b Buffer[T]) Same(s []T) bool {
	return len(s) > 0 && b.data == unsafe.SliceData(s)
}
