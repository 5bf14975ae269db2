// SPDX-License-Identifier: Apache-2.0

package alloc

// identity returns the chain's arena for every request, whatever the count.
// It turns an allocator-aware container that would normally grow into one
// with a single stable backing region, without touching the container.
type identity[T any] struct {
	delegate Allocator[T]
	state    *State[T]
}

func newIdentity[T any](d Allocator[T]) *identity[T] {
	return &identity[T]{delegate: d, state: d.State()}
}

// Allocate satisfies the Allocator interface.
func (a *identity[T]) Allocate(int) []T {
	assertf(a.state != nil && !a.state.Arena.IsZero(), ErrUninitialized, "identity: arena not populated")
	return a.state.Arena.Slice()
}

// Deallocate satisfies the Allocator interface. The arena stays in place.
func (a *identity[T]) Deallocate(s []T) {
	if len(s) == 0 {
		return
	}
	assertf(a.state != nil && a.state.Arena.Contains(s), ErrOwnership, "identity: deallocate outside the arena")
}

// MaxSize satisfies the Allocator interface.
func (a *identity[T]) MaxSize() int {
	if a.state == nil {
		return 0
	}
	return a.state.Arena.Len()
}

// Traits satisfies the Allocator interface.
func (a *identity[T]) Traits() Traits {
	return a.delegate.Traits()
}

// State satisfies the Allocator interface.
func (a *identity[T]) State() *State[T] {
	return a.state
}

// Unwrap returns the delegate.
func (a *identity[T]) Unwrap() Allocator[T] {
	return a.delegate
}

// Copy satisfies the Allocator interface.
func (a *identity[T]) Copy() Allocator[T] {
	return newIdentity(a.delegate.Copy())
}

// Equal satisfies the Allocator interface.
func (a *identity[T]) Equal(other Allocator[T]) bool {
	return sameArena(a.state, unwrapConcrete(other).State())
}

// Release satisfies the Allocator interface.
func (a *identity[T]) Release() {
	a.delegate.Release()
}
