// SPDX-License-Identifier: Apache-2.0

package alloc

// nullAllocator never hands out storage. It terminates chains under test and
// stands in for disabled features.
type nullAllocator[T any] struct {
	terminal[T]
}

func newNull[T any](st *State[T]) *nullAllocator[T] {
	return &nullAllocator[T]{terminal: newTerminal(st)}
}

// Allocate satisfies the Allocator interface.
func (a *nullAllocator[T]) Allocate(int) []T { return nil }

// Deallocate satisfies the Allocator interface.
func (a *nullAllocator[T]) Deallocate([]T) {}

// MaxSize satisfies the Allocator interface.
func (a *nullAllocator[T]) MaxSize() int { return 0 }

// Copy satisfies the Allocator interface.
func (a *nullAllocator[T]) Copy() Allocator[T] { return a }

// Equal satisfies the Allocator interface. All null allocators are equal.
func (a *nullAllocator[T]) Equal(other Allocator[T]) bool {
	_, ok := unwrapConcrete(other).(*nullAllocator[T])
	return ok
}

// Release satisfies the Allocator interface.
func (a *nullAllocator[T]) Release() {}
