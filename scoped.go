// SPDX-License-Identifier: Apache-2.0

package alloc

// scoped owns the chain's arena: it acquires it with exactly one Allocate on
// its delegate when constructed and returns it with exactly one Deallocate
// when released. Requests made on the layer itself are served from the front
// of that arena and never reach the delegate. The layer keeps no record of
// what it handed out: it serves the whole arena to a single user, such as a
// vector regrowing in place, and two outstanding requests overlap.
//
// Copies share the arena without owning it, so releasing a copy is a no-op.
// Containers must carry a scoped allocator along with their storage on copy
// and move assignment and on swap; its traits say so.
type scoped[T any] struct {
	delegate Allocator[T]
	state    *State[T]
	n        int
	owner    bool
	released bool
}

func newScoped[T any](d Allocator[T], n int) *scoped[T] {
	if n == 0 {
		n = d.MaxSize()
	}
	assertf(n > 0, ErrCount, "scoped: arena size %d", n)
	a := &scoped[T]{delegate: d, state: d.State(), n: n, owner: true}
	s := d.Allocate(n)
	if len(s) < n {
		if len(s) > 0 {
			d.Deallocate(s)
		}
		assertf(false, ErrCapacity, "scoped: delegate served %d of %d slots", len(s), n)
	}
	a.state.Arena = BufferOf(s[:n])
	return a
}

// attachScoped shares an arena acquired by another scoped layer.
func attachScoped[T any](d Allocator[T], n int) *scoped[T] {
	return &scoped[T]{delegate: d, state: d.State(), n: n}
}

// Allocate satisfies the Allocator interface. It returns the first n slots of
// the arena whatever is outstanding.
func (a *scoped[T]) Allocate(n int) []T {
	assertf(!a.released && !a.state.Arena.IsZero(), ErrUninitialized, "scoped: arena not held")
	assertf(n >= 0 && n <= a.state.Arena.Len(), ErrCount, "scoped(%d): allocate(%d)", a.state.Arena.Len(), n)
	return a.state.Arena.Slice()[:n:n]
}

// Deallocate satisfies the Allocator interface. The arena stays held.
func (a *scoped[T]) Deallocate(s []T) {
	if len(s) == 0 {
		return
	}
	assertf(a.state.Arena.Contains(s), ErrOwnership, "scoped: deallocate outside the arena")
}

// MaxSize satisfies the Allocator interface.
func (a *scoped[T]) MaxSize() int {
	return a.state.Arena.Len()
}

// Traits satisfies the Allocator interface.
func (a *scoped[T]) Traits() Traits {
	return propagateAll
}

// State satisfies the Allocator interface.
func (a *scoped[T]) State() *State[T] {
	return a.state
}

// Unwrap returns the delegate.
func (a *scoped[T]) Unwrap() Allocator[T] {
	return a.delegate
}

// Copy satisfies the Allocator interface.
func (a *scoped[T]) Copy() Allocator[T] {
	return attachScoped(a.delegate, a.n)
}

// Equal satisfies the Allocator interface.
func (a *scoped[T]) Equal(other Allocator[T]) bool {
	return sameArena(a.state, unwrapConcrete(other).State())
}

// Release satisfies the Allocator interface. Only the owning instance gives
// the arena back, and only once.
func (a *scoped[T]) Release() {
	if !a.owner || a.released {
		return
	}
	a.released = true
	arena := a.state.Arena.Slice()
	a.state.Arena = Buffer[T]{}
	if len(arena) > 0 {
		a.delegate.Deallocate(arena)
	}
	a.delegate.Release()
}
