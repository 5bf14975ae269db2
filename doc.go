// SPDX-License-Identifier: Apache-2.0

// Package alloc composes allocators out of small policy layers.
//
// A chain is described by a Composite, innermost layer last:
//
//	c := alloc.Identity(alloc.Scoped(alloc.StaticBuffer(4)))
//	a := alloc.New[int](c)
//	defer a.Release()
//	s := a.Allocate(4) // the whole arena, for any count
//
// Terminal layers (Null, Standard, Mapped, StaticBuffer, StaticItem) end a
// chain and own its single State. Policy layers (Identity, Scoped,
// Monotonic, Tracked, FixedItem) wrap a delegate and change what allocate
// and deallocate mean without changing the Allocator interface a container
// sees.
//
// Rebind produces the same chain for another element type, sharing the
// arena. Contract violations (wrong counts, foreign pointers, double
// allocation, use before initialization) panic with a *Violation; build with
// the allocnocheck tag to compile the checks out.
//
// Nothing in this package is safe for concurrent use.
package alloc
