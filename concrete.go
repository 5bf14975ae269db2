// SPDX-License-Identifier: Apache-2.0

package alloc

import (
	"fmt"
	"reflect"
)

// Concrete is a composite reified for the element type T: the allocator a
// container actually holds. It forwards every call to the outermost layer.
type Concrete[T any] struct {
	composite Composite
	top       Allocator[T]
}

// New reifies c for T. Every layer is constructed, so a scoped layer has
// acquired its arena by the time New returns. It panics with ErrComposite if
// c is malformed.
func New[T any](c Composite) *Concrete[T] {
	mustValidate(c)
	return &Concrete[T]{composite: c, top: build[T](c)}
}

// NewWithState reifies c for T over an existing arena descriptor. No layer
// acquires anything and releasing the result gives nothing back: the state's
// owner keeps that responsibility.
func NewWithState[T any](c Composite, st *State[T]) *Concrete[T] {
	mustValidate(c)
	assertf(!c.Kind.isItem(), ErrUnsupported, "%v chains own their slots and cannot share a state", c.Kind)
	assertf(st != nil, ErrUninitialized, "nil state")
	return &Concrete[T]{composite: c, top: buildPlain[T](c, st)}
}

// Rebind returns the chain equivalent to a for the element type U. The arena
// is shared with the same slot count, see RebindState for the layouts that
// allow it. Item chains, and chains that hold no arena, rebind to a fresh
// allocator built from the same composite.
func Rebind[U, T any](a *Concrete[T]) *Concrete[U] {
	if a.composite.Kind.isItem() {
		return New[U](a.composite)
	}
	st := a.State()
	if st == nil || st.Arena.IsZero() {
		return New[U](a.composite)
	}
	return NewWithState[U](a.composite, RebindState[U](st))
}

func mustValidate(c Composite) {
	err := c.Validate()
	assertf(err == nil, ErrComposite, "%v", err)
}

// build reifies any composite; item layers get their delegate chain reified
// over slot records by buildPlain.
func build[T any](c Composite) Allocator[T] {
	switch c.Kind {
	case KindStaticItem:
		return newStaticItem[T](c.N)
	case KindFixedItem:
		return newFixedItem[T](c)
	}
	return buildPlain[T](c, nil)
}

// buildPlain reifies a composite without item layers. A non-nil st attaches
// every layer to that state instead of initializing a new one.
func buildPlain[T any](c Composite, st *State[T]) Allocator[T] {
	switch c.Kind {
	case KindNull:
		return newNull(st)
	case KindStandard:
		return newStandard(st)
	case KindMapped:
		return newMapped(st)
	case KindStaticBuffer:
		if st != nil {
			return attachStaticBuffer(c.N, st)
		}
		return newStaticBuffer[T](c.N)
	case KindIdentity:
		return newIdentity(buildPlain[T](*c.Delegate, st))
	case KindScoped:
		d := buildPlain[T](*c.Delegate, st)
		if st != nil {
			return attachScoped(d, c.N)
		}
		return newScoped(d, c.N)
	case KindMonotonic:
		return newMonotonic(buildPlain[T](*c.Delegate, st))
	case KindTracked:
		return newTracked(buildPlain[T](*c.Delegate, st))
	}
	panic(&Violation{Err: ErrComposite, Msg: fmt.Sprintf("%v cannot appear below the outermost layer", c.Kind)})
}

// Composite returns the description a was reified from.
func (a *Concrete[T]) Composite() Composite {
	return a.composite
}

// String renders the chain and its element type, e.g. "identity(static_buffer(4))[int]".
func (a *Concrete[T]) String() string {
	return a.composite.String() + "[" + reflect.TypeFor[T]().String() + "]"
}

// Allocate satisfies the Allocator interface.
func (a *Concrete[T]) Allocate(n int) []T { return a.top.Allocate(n) }

// Deallocate satisfies the Allocator interface.
func (a *Concrete[T]) Deallocate(s []T) { a.top.Deallocate(s) }

// MaxSize satisfies the Allocator interface.
func (a *Concrete[T]) MaxSize() int { return a.top.MaxSize() }

// Traits satisfies the Allocator interface.
func (a *Concrete[T]) Traits() Traits { return a.top.Traits() }

// State satisfies the Allocator interface.
func (a *Concrete[T]) State() *State[T] { return a.top.State() }

// Unwrap returns the outermost layer.
func (a *Concrete[T]) Unwrap() Allocator[T] { return a.top }

// Copy satisfies the Allocator interface.
func (a *Concrete[T]) Copy() Allocator[T] {
	return &Concrete[T]{composite: a.composite, top: a.top.Copy()}
}

// Equal satisfies the Allocator interface.
func (a *Concrete[T]) Equal(other Allocator[T]) bool {
	if other == nil {
		return false
	}
	return a.top.Equal(other)
}

// Release satisfies the Allocator interface.
func (a *Concrete[T]) Release() { a.top.Release() }

// Equal reports whether storage from a can be returned to b.
func Equal[T any](a, b Allocator[T]) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}
