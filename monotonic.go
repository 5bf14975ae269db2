// SPDX-License-Identifier: Apache-2.0

package alloc

// monotonic bump-allocates out of the chain's arena. Storage only comes back
// on Reset, except for the most recent block, which Deallocate pops.
// Copies share the cursor, so every copy sees the same bump position.
type monotonic[T any] struct {
	delegate Allocator[T]
	state    *State[T]
	cur      *cursor
}

type cursor struct {
	offset int
	peak   int
}

func newMonotonic[T any](d Allocator[T]) *monotonic[T] {
	return &monotonic[T]{delegate: d, state: d.State(), cur: &cursor{}}
}

// Allocate satisfies the Allocator interface. The returned slots are zeroed.
func (a *monotonic[T]) Allocate(n int) []T {
	assertf(!a.state.Arena.IsZero(), ErrUninitialized, "monotonic: arena not populated")
	assertf(n >= 0, ErrCount, "monotonic: allocate(%d)", n)
	assertf(a.cur.offset+n <= a.state.Arena.Len(), ErrExhausted,
		"monotonic: %d of %d slots used, %d requested", a.cur.offset, a.state.Arena.Len(), n)
	s := a.state.Arena.Slice()[a.cur.offset : a.cur.offset+n : a.cur.offset+n]
	clear(s)
	a.cur.offset += n
	if a.cur.offset > a.cur.peak {
		a.cur.peak = a.cur.offset
	}
	return s
}

// Deallocate satisfies the Allocator interface. Only the block ending at the
// bump position is reclaimed; anything else waits for Reset.
func (a *monotonic[T]) Deallocate(s []T) {
	if len(s) == 0 {
		return
	}
	i, ok := a.state.Arena.Index(&s[0])
	assertf(ok && i+len(s) <= a.cur.offset, ErrOwnership, "monotonic: deallocate outside the used arena")
	if i+len(s) == a.cur.offset {
		a.cur.offset = i
	}
}

// Reset makes the whole arena available again. Storage handed out before is
// invalid afterwards.
func (a *monotonic[T]) Reset() {
	a.cur.offset = 0
}

// Len returns the number of slots currently handed out.
func (a *monotonic[T]) Len() int {
	return a.cur.offset
}

// Cap returns the number of slots in the arena.
func (a *monotonic[T]) Cap() int {
	return a.state.Arena.Len()
}

// Peak returns the highest Len seen. It survives Reset.
func (a *monotonic[T]) Peak() int {
	return a.cur.peak
}

// MaxSize satisfies the Allocator interface.
func (a *monotonic[T]) MaxSize() int {
	return a.state.Arena.Len() - a.cur.offset
}

// Traits satisfies the Allocator interface.
func (a *monotonic[T]) Traits() Traits {
	return a.delegate.Traits()
}

// State satisfies the Allocator interface.
func (a *monotonic[T]) State() *State[T] {
	return a.state
}

// Unwrap returns the delegate.
func (a *monotonic[T]) Unwrap() Allocator[T] {
	return a.delegate
}

// Copy satisfies the Allocator interface.
func (a *monotonic[T]) Copy() Allocator[T] {
	d := a.delegate.Copy()
	if d.State() != a.state {
		return newMonotonic(d)
	}
	return &monotonic[T]{delegate: d, state: a.state, cur: a.cur}
}

// Equal satisfies the Allocator interface.
func (a *monotonic[T]) Equal(other Allocator[T]) bool {
	return sameArena(a.state, unwrapConcrete(other).State())
}

// Release satisfies the Allocator interface.
func (a *monotonic[T]) Release() {
	a.delegate.Release()
}

// Bumper is implemented by chains with a monotonic layer.
type Bumper interface {
	Reset()
	Len() int
	Cap() int
	Peak() int
}

// BumperOf finds the monotonic layer of a, if any.
func BumperOf[T any](a Allocator[T]) (Bumper, bool) {
	for l := unwrapConcrete(a); l != nil; {
		if m, ok := l.(*monotonic[T]); ok {
			return m, true
		}
		w, ok := l.(wrapper[T])
		if !ok {
			break
		}
		l = w.Unwrap()
	}
	return nil, false
}
