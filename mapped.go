// SPDX-License-Identifier: Apache-2.0

package alloc

import (
	"math"
	"reflect"
	"unsafe"

	"github.com/sequia/alloc/internal/sysmem"
)

// mappedAllocator serves requests with anonymous OS pages. The garbage
// collector never scans those pages, so element types must be pointer-free.
// Any instance can unmap any other's pages: all instances compare equal.
type mappedAllocator[T any] struct {
	terminal[T]
	elem uintptr
}

func newMapped[T any](st *State[T]) *mappedAllocator[T] {
	t := reflect.TypeFor[T]()
	assertf(!hasPointers(t), ErrUnsupported, "mapped: %v holds pointers", t)
	var x T
	return &mappedAllocator[T]{terminal: newTerminal(st), elem: unsafe.Sizeof(x)}
}

// Allocate satisfies the Allocator interface. The storage is zero-filled.
func (a *mappedAllocator[T]) Allocate(n int) []T {
	assertf(n >= 0 && n <= a.MaxSize(), ErrCount, "mapped: allocate(%d)", n)
	if n == 0 {
		return nil
	}
	if a.elem == 0 {
		return make([]T, n)
	}
	b, err := sysmem.Map(n * int(a.elem))
	assertf(err == nil, ErrExhausted, "mapped: %v", err)
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), n)
}

// Deallocate satisfies the Allocator interface. s must be a whole region
// returned by Allocate.
func (a *mappedAllocator[T]) Deallocate(s []T) {
	if cap(s) == 0 || a.elem == 0 {
		return
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), uintptr(cap(s))*a.elem)
	err := sysmem.Unmap(b)
	assertf(err == nil, ErrOwnership, "mapped: %v", err)
}

// MaxSize satisfies the Allocator interface.
func (a *mappedAllocator[T]) MaxSize() int {
	if a.elem == 0 {
		return math.MaxInt
	}
	return int(uintptr(math.MaxInt) / a.elem)
}

// Copy satisfies the Allocator interface.
func (a *mappedAllocator[T]) Copy() Allocator[T] { return a }

// Equal satisfies the Allocator interface.
func (a *mappedAllocator[T]) Equal(other Allocator[T]) bool {
	_, ok := unwrapConcrete(other).(*mappedAllocator[T])
	return ok
}

// Release satisfies the Allocator interface.
func (a *mappedAllocator[T]) Release() {}
