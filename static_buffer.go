// SPDX-License-Identifier: Apache-2.0

package alloc

// staticBuffer binds the chain to an arena that lives with the allocator
// object. The arena is handed out whole, once, until it is given back.
//
// Its storage cannot be shared, so a copy is a fresh instance with storage of
// its own. Containers that copy allocators believing copies are free and
// stateless get a working allocator, and a warning.
type staticBuffer[T any] struct {
	terminal[T]
	n         int
	storage   []T
	allocated bool
	attached  bool
}

func newStaticBuffer[T any](n int) *staticBuffer[T] {
	assertf(n > 0, ErrCount, "static_buffer: size %d", n)
	a := &staticBuffer[T]{terminal: newTerminal[T](nil), n: n, storage: make([]T, n)}
	a.state.Arena = BufferOf(a.storage)
	return a
}

// attachStaticBuffer serves an arena described by an existing state instead
// of owning storage. Rebinding a chain reifies its terminal this way.
func attachStaticBuffer[T any](n int, st *State[T]) *staticBuffer[T] {
	assertf(st.Arena.Len() == n, ErrRebind, "static_buffer(%d): shared arena holds %d slots", n, st.Arena.Len())
	return &staticBuffer[T]{terminal: newTerminal(st), n: n, storage: st.Arena.Slice(), attached: true}
}

// Allocate satisfies the Allocator interface. Only the whole arena can be requested.
func (a *staticBuffer[T]) Allocate(n int) []T {
	assertf(a.storage != nil, ErrUninitialized, "static_buffer: allocate after release")
	assertf(n == a.n, ErrCount, "static_buffer(%d): allocate(%d)", a.n, n)
	assertf(!a.allocated, ErrDoubleAllocate, "static_buffer(%d): arena already handed out", a.n)
	a.allocated = true
	return a.storage
}

// Deallocate satisfies the Allocator interface.
func (a *staticBuffer[T]) Deallocate(s []T) {
	assertf(a.allocated, ErrOwnership, "static_buffer(%d): deallocate without allocation", a.n)
	assertf(len(s) == a.n && BufferOf(a.storage).Same(s), ErrOwnership,
		"static_buffer(%d): deallocate of foreign storage", a.n)
	a.allocated = false
}

// MaxSize satisfies the Allocator interface.
func (a *staticBuffer[T]) MaxSize() int {
	return a.n
}

// Copy satisfies the Allocator interface.
func (a *staticBuffer[T]) Copy() Allocator[T] {
	warn("static_buffer copied; the copy gets independent storage", "size", a.n)
	return newStaticBuffer[T](a.n)
}

// Equal satisfies the Allocator interface.
func (a *staticBuffer[T]) Equal(other Allocator[T]) bool {
	return sameArena(a.state, unwrapConcrete(other).State())
}

// Release satisfies the Allocator interface. The arena descriptor is
// invalidated; an attached instance leaves the shared descriptor alone.
func (a *staticBuffer[T]) Release() {
	if a.storage == nil {
		return
	}
	if a.allocated {
		warn("static_buffer released with its arena outstanding", "size", a.n)
	}
	if !a.attached {
		if a.state.Arena.Same(a.storage) {
			a.state.Arena = Buffer[T]{}
		}
		clear(a.storage)
	}
	a.storage = nil
	a.allocated = false
}
