// SPDX-License-Identifier: Apache-2.0

package alloc

import (
	"cmp"
	"unsafe"
)

// mapNode is the internal node an OrderedMap allocates; the allocator the map
// is built from is reified for this type, not for the key or value.
type mapNode[K cmp.Ordered, V any] struct {
	key         K
	value       V
	left, right *mapNode[K, V]
	red         bool
}

// OrderedMap is a left-leaning red-black tree whose nodes come from an
// allocator, typically a free-list item allocator. Keys are kept in order.
//
// Nodes cannot move between maps built on different item pools: there is no
// splice operation, and Swap asserts unless the allocators propagate or
// compare equal.
type OrderedMap[K cmp.Ordered, V any] struct {
	alloc Allocator[mapNode[K, V]]
	root  *mapNode[K, V]
	n     int
}

// NewOrderedMap returns an empty map whose nodes are allocated by c reified
// for the map's node type.
func NewOrderedMap[K cmp.Ordered, V any](c Composite) *OrderedMap[K, V] {
	return &OrderedMap[K, V]{alloc: New[mapNode[K, V]](c)}
}

// Len returns the number of entries.
func (m *OrderedMap[K, V]) Len() int {
	return m.n
}

// Allocator returns the node allocator.
func (m *OrderedMap[K, V]) Allocator() Allocator[mapNode[K, V]] {
	return m.alloc
}

// Get returns the value stored under key.
func (m *OrderedMap[K, V]) Get(key K) (V, bool) {
	for h := m.root; h != nil; {
		switch c := cmp.Compare(key, h.key); {
		case c < 0:
			h = h.left
		case c > 0:
			h = h.right
		default:
			return h.value, true
		}
	}
	var zero V
	return zero, false
}

// Has reports whether key is present.
func (m *OrderedMap[K, V]) Has(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// Set stores value under key and reports whether a new entry was created.
func (m *OrderedMap[K, V]) Set(key K, value V) bool {
	var inserted bool
	m.root = m.insert(m.root, key, value, &inserted)
	m.root.red = false
	if inserted {
		m.n++
	}
	return inserted
}

// Delete removes key and reports whether it was present.
func (m *OrderedMap[K, V]) Delete(key K) bool {
	if !m.Has(key) {
		return false
	}
	if !isRed(m.root.left) && !isRed(m.root.right) {
		m.root.red = true
	}
	m.root = m.delete(m.root, key)
	if m.root != nil {
		m.root.red = false
	}
	m.n--
	return true
}

// Min returns the smallest key.
func (m *OrderedMap[K, V]) Min() (K, V, bool) {
	h := m.root
	if h == nil {
		var (
			k K
			v V
		)
		return k, v, false
	}
	for h.left != nil {
		h = h.left
	}
	return h.key, h.value, true
}

// Max returns the largest key.
func (m *OrderedMap[K, V]) Max() (K, V, bool) {
	h := m.root
	if h == nil {
		var (
			k K
			v V
		)
		return k, v, false
	}
	for h.right != nil {
		h = h.right
	}
	return h.key, h.value, true
}

// Ascend calls fn for every entry in key order until fn returns false.
func (m *OrderedMap[K, V]) Ascend(fn func(K, V) bool) {
	ascend(m.root, fn)
}

func ascend[K cmp.Ordered, V any](h *mapNode[K, V], fn func(K, V) bool) bool {
	if h == nil {
		return true
	}
	return ascend(h.left, fn) && fn(h.key, h.value) && ascend(h.right, fn)
}

// Keys returns the keys in order.
func (m *OrderedMap[K, V]) Keys() []K {
	keys := make([]K, 0, m.n)
	m.Ascend(func(k K, _ V) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// Clear removes every entry, returning all nodes to the allocator.
func (m *OrderedMap[K, V]) Clear() {
	m.freeTree(m.root)
	m.root, m.n = nil, 0
}

// Clone returns a copy of m built on a copy of its allocator.
func (m *OrderedMap[K, V]) Clone() *OrderedMap[K, V] {
	c := &OrderedMap[K, V]{alloc: m.alloc.Copy()}
	m.Ascend(func(k K, v V) bool {
		c.Set(k, v)
		return true
	})
	return c
}

// Swap exchanges the contents of m and o.
func (m *OrderedMap[K, V]) Swap(o *OrderedMap[K, V]) {
	if m.alloc.Traits().PropagateOnSwap {
		m.alloc, o.alloc = o.alloc, m.alloc
	} else {
		assertf(m.alloc.Equal(o.alloc), ErrUnsupported, "map: swap across unequal allocators")
	}
	m.root, o.root = o.root, m.root
	m.n, o.n = o.n, m.n
}

// Release frees every node and releases the allocator.
func (m *OrderedMap[K, V]) Release() {
	m.Clear()
	m.alloc.Release()
}

func (m *OrderedMap[K, V]) newNode(key K, value V) *mapNode[K, V] {
	s := m.alloc.Allocate(1)
	assertf(len(s) == 1, ErrExhausted, "map: node allocator returned %d nodes", len(s))
	h := &s[0]
	h.key, h.value, h.left, h.right, h.red = key, value, nil, nil, true
	return h
}

func (m *OrderedMap[K, V]) freeNode(h *mapNode[K, V]) {
	*h = mapNode[K, V]{}
	m.alloc.Deallocate(unsafe.Slice(h, 1))
}

func (m *OrderedMap[K, V]) freeTree(h *mapNode[K, V]) {
	if h == nil {
		return
	}
	m.freeTree(h.left)
	m.freeTree(h.right)
	m.freeNode(h)
}

func (m *OrderedMap[K, V]) insert(h *mapNode[K, V], key K, value V, inserted *bool) *mapNode[K, V] {
	if h == nil {
		*inserted = true
		return m.newNode(key, value)
	}
	switch c := cmp.Compare(key, h.key); {
	case c < 0:
		h.left = m.insert(h.left, key, value, inserted)
	case c > 0:
		h.right = m.insert(h.right, key, value, inserted)
	default:
		h.value = value
	}
	return balance(h)
}

// delete removes key from the subtree rooted at h; key must be present.
func (m *OrderedMap[K, V]) delete(h *mapNode[K, V], key K) *mapNode[K, V] {
	if cmp.Compare(key, h.key) < 0 {
		if !isRed(h.left) && !isRed(h.left.left) {
			h = moveRedLeft(h)
		}
		h.left = m.delete(h.left, key)
		return balance(h)
	}
	if isRed(h.left) {
		h = rotateRight(h)
	}
	if cmp.Compare(key, h.key) == 0 && h.right == nil {
		m.freeNode(h)
		return nil
	}
	if !isRed(h.right) && !isRed(h.right.left) {
		h = moveRedRight(h)
	}
	if cmp.Compare(key, h.key) == 0 {
		var least *mapNode[K, V]
		h.right, least = deleteMin(h.right)
		h.key, h.value = least.key, least.value
		m.freeNode(least)
	} else {
		h.right = m.delete(h.right, key)
	}
	return balance(h)
}

// deleteMin unlinks the smallest node under h and returns it.
func deleteMin[K cmp.Ordered, V any](h *mapNode[K, V]) (*mapNode[K, V], *mapNode[K, V]) {
	if h.left == nil {
		return nil, h
	}
	if !isRed(h.left) && !isRed(h.left.left) {
		h = moveRedLeft(h)
	}
	var least *mapNode[K, V]
	h.left, least = deleteMin(h.left)
	return balance(h), least
}

func isRed[K cmp.Ordered, V any](h *mapNode[K, V]) bool {
	return h != nil && h.red
}

func rotateLeft[K cmp.Ordered, V any](h *mapNode[K, V]) *mapNode[K, V] {
	x := h.right
	h.right = x.left
	x.left = h
	x.red = h.red
	h.red = true
	return x
}

func rotateRight[K cmp.Ordered, V any](h *mapNode[K, V]) *mapNode[K, V] {
	x := h.left
	h.left = x.right
	x.right = h
	x.red = h.red
	h.red = true
	return x
}

func flipColors[K cmp.Ordered, V any](h *mapNode[K, V]) {
	h.red = !h.red
	h.left.red = !h.left.red
	h.right.red = !h.right.red
}

func moveRedLeft[K cmp.Ordered, V any](h *mapNode[K, V]) *mapNode[K, V] {
	flipColors(h)
	if isRed(h.right.left) {
		h.right = rotateRight(h.right)
		h = rotateLeft(h)
		flipColors(h)
	}
	return h
}

func moveRedRight[K cmp.Ordered, V any](h *mapNode[K, V]) *mapNode[K, V] {
	flipColors(h)
	if isRed(h.left.left) {
		h = rotateRight(h)
		flipColors(h)
	}
	return h
}

func balance[K cmp.Ordered, V any](h *mapNode[K, V]) *mapNode[K, V] {
	if isRed(h.right) && !isRed(h.left) {
		h = rotateLeft(h)
	}
	if isRed(h.left) && isRed(h.left.left) {
		h = rotateRight(h)
	}
	if isRed(h.left) && isRed(h.right) {
		flipColors(h)
	}
	return h
}
