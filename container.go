// SPDX-License-Identifier: Apache-2.0

package alloc

import "cmp"

// FixedVectorOf describes the chain behind NewFixedVector: an arena of n
// slots living with the allocator, owned by a scoped layer and handed out
// whole by an identity layer.
func FixedVectorOf(n int) Composite {
	return Identity(Scoped(StaticBuffer(n)))
}

// NewFixedVector returns a vector that never holds more than n elements and
// never touches the heap after construction. Release gives the arena back.
func NewFixedVector[T any](n int) *Vector[T] {
	return NewVector[T](New[T](FixedVectorOf(n)), WithOwnedAllocator())
}

// NewFixedMap returns an ordered map holding at most n entries, its nodes
// served by a static free-list pool.
func NewFixedMap[K cmp.Ordered, V any](n int) *OrderedMap[K, V] {
	return NewOrderedMap[K, V](StaticItem(n))
}
