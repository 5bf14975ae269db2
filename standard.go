// SPDX-License-Identifier: Apache-2.0

package alloc

import (
	"math"
	"unsafe"
)

// standardAllocator passes every request through to the Go heap.
// It is stateless in the allocator sense: any instance can release storage
// obtained from any other, so all instances compare equal.
type standardAllocator[T any] struct {
	terminal[T]
}

func newStandard[T any](st *State[T]) *standardAllocator[T] {
	return &standardAllocator[T]{terminal: newTerminal(st)}
}

// Allocate satisfies the Allocator interface.
func (a *standardAllocator[T]) Allocate(n int) []T {
	assertf(n >= 0, ErrCount, "standard: negative count %d", n)
	return make([]T, n)
}

// Deallocate satisfies the Allocator interface. The memory is left to the
// garbage collector; the values are cleared so they stop retaining anything.
func (a *standardAllocator[T]) Deallocate(s []T) {
	clear(s)
}

// MaxSize satisfies the Allocator interface.
func (a *standardAllocator[T]) MaxSize() int {
	var x T
	if sz := unsafe.Sizeof(x); sz > 0 {
		return int(uintptr(math.MaxInt) / sz)
	}
	return math.MaxInt
}

// Copy satisfies the Allocator interface.
func (a *standardAllocator[T]) Copy() Allocator[T] { return a }

// Equal satisfies the Allocator interface.
func (a *standardAllocator[T]) Equal(other Allocator[T]) bool {
	_, ok := unwrapConcrete(other).(*standardAllocator[T])
	return ok
}

// Release satisfies the Allocator interface.
func (a *standardAllocator[T]) Release() {}
