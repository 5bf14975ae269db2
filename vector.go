// SPDX-License-Identifier: Apache-2.0

package alloc

import "unsafe"

const growThreshold = 256

// Vector is a sequence container whose storage comes from an Allocator.
// Over an identity chain it becomes a fixed-capacity vector: every growth
// request is answered with the same arena.
//
// A Vector is not safe for concurrent use.
type Vector[T any] struct {
	alloc Allocator[T]
	store []T // as returned by Allocate
	n     int
	owns  bool // Release also releases alloc
	grow  func(cap, need int) int
}

// VectorOption configures a Vector.
type VectorOption func(*vectorConfig)

type vectorConfig struct {
	capacity int
	owns     bool
	grow     func(cap, need int) int
}

// WithCapacity reserves room for n elements up front.
func WithCapacity(n int) VectorOption {
	return func(c *vectorConfig) {
		c.capacity = n
	}
}

// WithGrowth replaces the growth policy. fn receives the current capacity and
// the required length and returns the capacity to request.
func WithGrowth(fn func(cap, need int) int) VectorOption {
	return func(c *vectorConfig) {
		c.grow = fn
	}
}

// WithOwnedAllocator makes Release also release the allocator.
func WithOwnedAllocator() VectorOption {
	return func(c *vectorConfig) {
		c.owns = true
	}
}

// NewVector returns an empty vector allocating through a.
func NewVector[T any](a Allocator[T], opts ...VectorOption) *Vector[T] {
	cfg := vectorConfig{grow: defaultGrowth}
	for _, opt := range opts {
		opt(&cfg)
	}
	v := &Vector[T]{alloc: a, owns: cfg.owns, grow: cfg.grow}
	if cfg.capacity > 0 {
		v.Reserve(cfg.capacity)
	}
	return v
}

// defaultGrowth doubles small vectors and grows large ones by a quarter.
func defaultGrowth(cap, need int) int {
	if cap == 0 {
		return need
	}
	for need > cap {
		if cap < growThreshold {
			cap *= 2
		} else {
			cap += cap / 4
		}
	}
	return cap
}

// Allocator returns the allocator the vector uses.
func (v *Vector[T]) Allocator() Allocator[T] {
	return v.alloc
}

// Len returns the number of elements.
func (v *Vector[T]) Len() int {
	return v.n
}

// Cap returns the number of elements the vector holds without allocating.
func (v *Vector[T]) Cap() int {
	return len(v.store)
}

// At returns the element at i. It panics if i is out of range.
func (v *Vector[T]) At(i int) T {
	return v.store[:v.n][i]
}

// Set replaces the element at i. It panics if i is out of range.
func (v *Vector[T]) Set(i int, x T) {
	v.store[:v.n][i] = x
}

// Slice returns the elements as a slice aliasing the vector's storage.
// It is valid until the next call that changes the capacity.
func (v *Vector[T]) Slice() []T {
	return v.store[:v.n:v.n]
}

// Push appends elements, growing the storage if needed.
func (v *Vector[T]) Push(xs ...T) {
	v.Reserve(v.n + len(xs))
	copy(v.store[v.n:], xs)
	v.n += len(xs)
}

// Pop removes and returns the last element.
func (v *Vector[T]) Pop() (T, bool) {
	var zero T
	if v.n == 0 {
		return zero, false
	}
	v.n--
	x := v.store[v.n]
	v.store[v.n] = zero
	return x, true
}

// Clear removes every element and keeps the storage.
func (v *Vector[T]) Clear() {
	clear(v.store[:v.n])
	v.n = 0
}

// Reserve makes room for at least n elements.
func (v *Vector[T]) Reserve(n int) {
	if n <= len(v.store) {
		return
	}
	want := v.grow(len(v.store), n)
	if limit := v.alloc.MaxSize(); want > limit {
		want = limit
	}
	assertf(want >= n, ErrCapacity, "vector: %d elements requested, allocator serves %d", n, v.alloc.MaxSize())
	s := v.alloc.Allocate(want)
	assertf(len(s) >= n, ErrCapacity, "vector: allocator returned %d of %d elements", len(s), n)
	v.adopt(s)
}

// adopt switches to new storage, moving the elements unless the allocator
// handed back the region the vector already uses.
func (v *Vector[T]) adopt(s []T) {
	old := v.store
	if len(old) > 0 && unsafe.SliceData(old) == unsafe.SliceData(s) {
		v.store = s
		return
	}
	copy(s, old[:v.n])
	v.store = s
	if len(old) > 0 {
		clear(old)
		v.alloc.Deallocate(old)
	}
}

// Clone returns a copy of v using a copy of its allocator. It panics with
// ErrUnsupported if the allocator copy serves the storage v already uses, as
// an identity chain does: the clone would alias v instead of copying it.
func (v *Vector[T]) Clone() *Vector[T] {
	c := &Vector[T]{alloc: v.alloc.Copy(), grow: v.grow}
	c.Reserve(v.n)
	c.refuseAlias(v, "clone")
	c.Push(v.Slice()...)
	return c
}

// aliases reports whether v and o hold the same storage.
func (v *Vector[T]) aliases(o *Vector[T]) bool {
	return len(v.store) > 0 && len(o.store) > 0 &&
		unsafe.SliceData(v.store) == unsafe.SliceData(o.store)
}

// refuseAlias drops storage shared with o, then asserts.
func (v *Vector[T]) refuseAlias(o *Vector[T], op string) {
	if !v.aliases(o) {
		return
	}
	v.store, v.n = nil, 0
	assertf(false, ErrUnsupported, "vector: %s would share the source's arena", op)
}

// Assign replaces the elements of v with those of src. If src's allocator
// propagates on copy assignment, v switches to a copy of it first. Like
// Clone, it panics with ErrUnsupported when v's storage would be src's.
func (v *Vector[T]) Assign(src *Vector[T]) {
	if v == src {
		return
	}
	if src.alloc.Traits().PropagateOnCopyAssignment && !v.alloc.Equal(src.alloc) {
		v.Release()
		v.alloc = src.alloc.Copy()
	}
	v.Reserve(src.n)
	v.refuseAlias(src, "assign")
	v.Clear()
	v.Push(src.Slice()...)
}

// Move transfers the elements of src into v and leaves src empty. Storage is
// stolen when the allocators are equal or src's allocator propagates on move
// assignment; otherwise the elements are moved one by one.
func (v *Vector[T]) Move(src *Vector[T]) {
	if v == src {
		return
	}
	switch {
	case src.alloc.Traits().PropagateOnMoveAssignment:
		v.Release()
		v.alloc, v.store, v.n, v.owns = src.alloc, src.store, src.n, src.owns
		src.alloc = src.alloc.Copy()
		src.store, src.n, src.owns = nil, 0, false
	case v.alloc.Equal(src.alloc):
		v.free()
		v.store, v.n = src.store, src.n
		src.store, src.n = nil, 0
	default:
		v.Clear()
		v.Push(src.Slice()...)
		src.free()
	}
}

// Swap exchanges the contents of v and o. When the allocators do not
// propagate on swap they must be equal: swapping storage between different
// arenas would hand each vector memory its allocator cannot free.
func (v *Vector[T]) Swap(o *Vector[T]) {
	if v.alloc.Traits().PropagateOnSwap {
		v.alloc, o.alloc = o.alloc, v.alloc
		v.owns, o.owns = o.owns, v.owns
	} else {
		assertf(v.alloc.Equal(o.alloc), ErrUnsupported, "vector: swap across unequal allocators")
	}
	v.store, o.store = o.store, v.store
	v.n, o.n = o.n, v.n
}

// Release gives the storage back to the allocator, and releases the allocator
// if the vector owns it. The elements are left in place: an identity chain
// keeps serving the same region to every copy of the allocator.
func (v *Vector[T]) Release() {
	v.free()
	if v.owns {
		v.alloc.Release()
		v.owns = false
	}
}

func (v *Vector[T]) free() {
	if len(v.store) > 0 {
		v.alloc.Deallocate(v.store)
	}
	v.store, v.n = nil, 0
}
