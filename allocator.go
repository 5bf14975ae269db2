// SPDX-License-Identifier: Apache-2.0

package alloc

// Traits carries the container propagation flags of an allocator.
// A flag set to true means that the allocator travels with the container's
// storage when the container is copy-assigned, move-assigned or swapped,
// because the allocator is what gives that storage its identity.
type Traits struct {
	PropagateOnCopyAssignment bool
	PropagateOnMoveAssignment bool
	PropagateOnSwap           bool
}

// propagateAll is the trait set of layers that own arena identity.
var propagateAll = Traits{
	PropagateOnCopyAssignment: true,
	PropagateOnMoveAssignment: true,
	PropagateOnSwap:           true,
}

// Allocator is the contract consumed by the containers of this package.
// Every layer of a composed chain implements it, so a container never sees
// how many policies sit between it and the terminal.
type Allocator[T any] interface {
	// Allocate returns storage for at least n values of T.
	// Layers with a fixed per-call contract assert on other counts.
	Allocate(n int) []T

	// Deallocate returns storage previously obtained from Allocate.
	Deallocate(s []T)

	// MaxSize returns the largest n a single Allocate call can serve.
	MaxSize() int

	// Traits returns the container propagation flags.
	Traits() Traits

	// State returns the chain's arena descriptor, nil for layers without one.
	State() *State[T]

	// Copy returns the allocator a copied container should use.
	// Copies are shallow: they describe the same arena, never a duplicate of it.
	Copy() Allocator[T]

	// Equal reports whether storage from one allocator can be returned to the other.
	Equal(other Allocator[T]) bool

	// Release ends the allocator's lifetime and gives back what it owns.
	// Releasing a copy never releases the original's resources.
	Release()
}

// wrapper is implemented by policy layers that forward to a delegate.
type wrapper[T any] interface {
	Unwrap() Allocator[T]
}

// NewValue allocates a single T from a. If a is nil it falls back to new(T).
func NewValue[T any](a Allocator[T]) *T {
	if a != nil {
		if s := a.Allocate(1); len(s) > 0 {
			var zero T
			s[0] = zero
			return &s[0]
		}
	}
	return new(T)
}

// sameArena reports whether two states describe the same populated arena.
func sameArena[T any](a, b *State[T]) bool {
	if a == nil || b == nil {
		return false
	}
	if a == b {
		return true
	}
	return !a.Arena.IsZero() && a.Arena.Data() == b.Arena.Data()
}

// unwrapConcrete strips the Concrete shell so layers can compare each other.
func unwrapConcrete[T any](a Allocator[T]) Allocator[T] {
	if c, ok := a.(*Concrete[T]); ok {
		return c.top
	}
	return a
}
