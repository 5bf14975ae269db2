// SPDX-License-Identifier: Apache-2.0

package alloc

import "unsafe"

// block is one slot of a free-list arena. While the slot is free, next links
// it to the following free slot (the last free slot links to itself); while
// it is live, value holds the caller's T and next is meaningless.
type block[T any, I Index] struct {
	next  I
	value T
}

// itemPool is an intrusive free list over a fixed run of slots. Allocate and
// Deallocate are O(1) and reuse slots in LIFO order.
type itemPool[T any, I Index] struct {
	slots []block[T, I]
	head  int // len(slots) once every slot is live
	free  int
	ready bool
	owned bool // slots were acquired from a delegate and go back to it
}

// init chains every slot to the next one, the last one to itself.
func (p *itemPool[T, I]) init(slots []block[T, I]) {
	n := len(slots)
	for i := range slots {
		next := i + 1
		if next == n {
			next = i
		}
		slots[i].next = I(next)
	}
	p.slots, p.head, p.free, p.ready = slots, 0, n, true
}

func (p *itemPool[T, I]) allocate() *T {
	assertf(p.ready, ErrUninitialized, "item: allocate from an uninitialized pool")
	assertf(p.free > 0, ErrExhausted, "item: all %d slots live", len(p.slots))
	assertf(p.head >= 0 && p.head < len(p.slots), ErrCorrupt, "item: head %d outside %d slots", p.head, len(p.slots))
	b := &p.slots[p.head]
	next := int(b.next)
	if next == p.head {
		p.head = len(p.slots)
	} else {
		assertf(next < len(p.slots), ErrCorrupt, "item: link %d outside %d slots", next, len(p.slots))
		p.head = next
	}
	p.free--
	var zero T
	b.value = zero
	return &b.value
}

func (p *itemPool[T, I]) deallocate(v *T) {
	assertf(p.ready, ErrUninitialized, "item: deallocate into an uninitialized pool")
	i, ok := p.indexOf(v)
	assertf(ok, ErrOwnership, "item: %p is not a slot of this pool", v)
	assertf(p.free < len(p.slots), ErrOwnership, "item: deallocate with no live slots")
	b := &p.slots[i]
	var zero T
	b.value = zero
	if p.head == len(p.slots) {
		b.next = I(i)
	} else {
		b.next = I(p.head)
	}
	p.head = i
	p.free++
}

// indexOf maps a value pointer back to its slot, rejecting pointers outside
// the arena or not pointing at a slot's value.
func (p *itemPool[T, I]) indexOf(v *T) (int, bool) {
	if len(p.slots) == 0 || v == nil {
		return -1, false
	}
	var b block[T, I]
	base := uintptr(unsafe.Pointer(&p.slots[0])) + unsafe.Offsetof(b.value)
	addr := uintptr(unsafe.Pointer(v))
	if addr < base {
		return -1, false
	}
	off := addr - base
	size := unsafe.Sizeof(b)
	if off%size != 0 {
		return -1, false
	}
	i := off / size
	if i >= uintptr(len(p.slots)) {
		return -1, false
	}
	return int(i), true
}

func (p *itemPool[T, I]) invalidate() {
	clear(p.slots)
	p.slots, p.head, p.free, p.ready, p.owned = nil, 0, 0, false, false
}

// ItemStats describes a free-list allocator.
type ItemStats struct {
	Cap   int // slots in the arena
	Free  int // slots on the free list
	Width int // bytes per slot link
}

// Live returns the number of slots handed out.
func (s ItemStats) Live() int { return s.Cap - s.Free }

type itemInfo interface {
	itemStats() ItemStats
}

// ItemsOf returns the free-list statistics of a, if a is an item allocator.
func ItemsOf[T any](a Allocator[T]) (ItemStats, bool) {
	if it, ok := unwrapConcrete(a).(itemInfo); ok {
		return it.itemStats(), true
	}
	return ItemStats{}, false
}

func valueSlice[T any](v *T) []T {
	return unsafe.Slice(v, 1)
}

// staticItem is the free-list terminal: it owns its slots and chains them
// eagerly on construction. Requests are for exactly one value.
type staticItem[T any, I Index] struct {
	n    int
	pool *itemPool[T, I]
}

func newStaticItemOf[T any, I Index](n int) *staticItem[T, I] {
	assertf(n > 0, ErrCount, "static_item: size %d", n)
	a := &staticItem[T, I]{n: n, pool: &itemPool[T, I]{}}
	a.pool.init(make([]block[T, I], n))
	return a
}

func newStaticItem[T any](n int) Allocator[T] {
	switch IndexWidth(uint64(n)) {
	case 1:
		return newStaticItemOf[T, uint8](n)
	case 2:
		return newStaticItemOf[T, uint16](n)
	case 4:
		return newStaticItemOf[T, uint32](n)
	default:
		return newStaticItemOf[T, uint64](n)
	}
}

// Allocate satisfies the Allocator interface.
func (a *staticItem[T, I]) Allocate(n int) []T {
	assertf(n == 1, ErrCount, "static_item: allocate(%d)", n)
	return valueSlice(a.pool.allocate())
}

// Deallocate satisfies the Allocator interface.
func (a *staticItem[T, I]) Deallocate(s []T) {
	assertf(len(s) == 1, ErrCount, "static_item: deallocate of %d values", len(s))
	a.pool.deallocate(&s[0])
}

// MaxSize satisfies the Allocator interface.
func (a *staticItem[T, I]) MaxSize() int { return 1 }

// Traits satisfies the Allocator interface.
func (a *staticItem[T, I]) Traits() Traits { return Traits{} }

// State satisfies the Allocator interface. The pool owns its slots directly.
func (a *staticItem[T, I]) State() *State[T] { return nil }

// Copy satisfies the Allocator interface.
func (a *staticItem[T, I]) Copy() Allocator[T] {
	warn("static_item copied; the copy gets independent slots", "size", a.n)
	return newStaticItemOf[T, I](a.n)
}

// Equal satisfies the Allocator interface.
func (a *staticItem[T, I]) Equal(other Allocator[T]) bool {
	o, ok := unwrapConcrete(other).(*staticItem[T, I])
	return ok && o.pool == a.pool
}

// Release satisfies the Allocator interface.
func (a *staticItem[T, I]) Release() {
	if a.pool.ready && a.pool.free != len(a.pool.slots) {
		warn("static_item released with live slots", "live", len(a.pool.slots)-a.pool.free)
	}
	a.pool.invalidate()
}

func (a *staticItem[T, I]) itemStats() ItemStats {
	var i I
	return ItemStats{Cap: len(a.pool.slots), Free: a.pool.free, Width: int(unsafe.Sizeof(i))}
}

// fixedItem is the free-list policy: it carves its slots out of the arena the
// chain below holds, or acquires them from its delegate, the first time it is
// used. Copies share the pool and never give the slots back.
type fixedItem[T any, I Index] struct {
	delegate Allocator[block[T, I]]
	n        int
	pool     *itemPool[T, I]
	copied   bool
	released *bool
}

func newFixedItemOf[T any, I Index](d Allocator[block[T, I]], n int) *fixedItem[T, I] {
	return &fixedItem[T, I]{delegate: d, n: n, pool: &itemPool[T, I]{}, released: new(bool)}
}

func newFixedItem[T any](c Composite) Allocator[T] {
	n := c.capacity()
	switch IndexWidth(uint64(n)) {
	case 1:
		return newFixedItemOf[T, uint8](buildPlain[block[T, uint8]](*c.Delegate, nil), n)
	case 2:
		return newFixedItemOf[T, uint16](buildPlain[block[T, uint16]](*c.Delegate, nil), n)
	case 4:
		return newFixedItemOf[T, uint32](buildPlain[block[T, uint32]](*c.Delegate, nil), n)
	default:
		return newFixedItemOf[T, uint64](buildPlain[block[T, uint64]](*c.Delegate, nil), n)
	}
}

func (a *fixedItem[T, I]) ensure() {
	if a.pool.ready {
		return
	}
	assertf(!*a.released, ErrUninitialized, "fixed_item: allocate after release")
	if st := a.delegate.State(); st != nil && !st.Arena.IsZero() {
		slots := st.Arena.Slice()
		if a.n > 0 && a.n < len(slots) {
			slots = slots[:a.n]
		}
		a.pool.init(slots)
		return
	}
	a.pool.init(a.delegate.Allocate(a.n))
	a.pool.owned = true
}

// Allocate satisfies the Allocator interface.
func (a *fixedItem[T, I]) Allocate(n int) []T {
	assertf(n == 1, ErrCount, "fixed_item: allocate(%d)", n)
	a.ensure()
	return valueSlice(a.pool.allocate())
}

// Deallocate satisfies the Allocator interface.
func (a *fixedItem[T, I]) Deallocate(s []T) {
	assertf(len(s) == 1, ErrCount, "fixed_item: deallocate of %d values", len(s))
	a.pool.deallocate(&s[0])
}

// MaxSize satisfies the Allocator interface.
func (a *fixedItem[T, I]) MaxSize() int { return 1 }

// Traits satisfies the Allocator interface.
func (a *fixedItem[T, I]) Traits() Traits { return propagateAll }

// State satisfies the Allocator interface. The chain's state is over slot
// records, not over T.
func (a *fixedItem[T, I]) State() *State[T] { return nil }

// Copy satisfies the Allocator interface.
func (a *fixedItem[T, I]) Copy() Allocator[T] {
	cp := *a
	cp.copied = true
	return &cp
}

// Equal satisfies the Allocator interface.
func (a *fixedItem[T, I]) Equal(other Allocator[T]) bool {
	o, ok := unwrapConcrete(other).(*fixedItem[T, I])
	return ok && o.pool == a.pool
}

// Release satisfies the Allocator interface.
func (a *fixedItem[T, I]) Release() {
	if a.copied || *a.released {
		return
	}
	*a.released = true
	if a.pool.ready {
		if a.pool.free != len(a.pool.slots) {
			warn("fixed_item released with live slots", "live", len(a.pool.slots)-a.pool.free)
		}
		slots, owned := a.pool.slots, a.pool.owned
		a.pool.invalidate()
		if owned {
			a.delegate.Deallocate(slots)
		}
	}
	a.delegate.Release()
}

func (a *fixedItem[T, I]) itemStats() ItemStats {
	var i I
	if !a.pool.ready {
		return ItemStats{Cap: a.n, Free: a.n, Width: int(unsafe.Sizeof(i))}
	}
	return ItemStats{Cap: len(a.pool.slots), Free: a.pool.free, Width: int(unsafe.Sizeof(i))}
}
