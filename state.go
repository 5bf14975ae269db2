// SPDX-License-Identifier: Apache-2.0

package alloc

import (
	"reflect"
	"unsafe"
)

// State is the arena descriptor threaded through every layer of a chain.
// A chain holds exactly one State; the terminal layer creates it and every
// policy above shares the same pointer.
type State[T any] struct {
	Arena Buffer[T]
}

// NewState returns a state describing s.
func NewState[T any](s []T) *State[T] {
	return &State[T]{Arena: BufferOf(s)}
}

// RebindState returns a new State[U] describing the same arena with the same
// slot count, reinterpreted as U. The source state is left untouched.
func RebindState[U, T any](st *State[T]) *State[U] {
	if st == nil {
		return &State[U]{}
	}
	return &State[U]{Arena: RebindBuffer[U](st.Arena)}
}

// RebindBuffer reinterprets b as a Buffer[U] with the same slot count.
//
// A populated arena only rebinds between layouts that agree: equal size, an
// alignment the arena already satisfies, and either the same type or no
// pointers on either side. Anything else would misread slot counts or hide
// pointers from the garbage collector.
func RebindBuffer[U, T any](b Buffer[T]) Buffer[U] {
	if b.IsZero() {
		return Buffer[U]{}
	}
	var (
		t T
		u U
	)
	assertf(unsafe.Sizeof(t) == unsafe.Sizeof(u), ErrRebind,
		"element size %d != %d", unsafe.Sizeof(t), unsafe.Sizeof(u))
	assertf(uintptr(unsafe.Pointer(b.data))%unsafe.Alignof(u) == 0, ErrRebind,
		"arena not aligned to %d", unsafe.Alignof(u))
	tt, ut := reflect.TypeFor[T](), reflect.TypeFor[U]()
	assertf(tt == ut || (!hasPointers(tt) && !hasPointers(ut)), ErrRebind,
		"cannot reinterpret %v as %v", tt, ut)
	return Buffer[U]{data: (*U)(unsafe.Pointer(b.data)), size: b.size}
}

// hasPointers reports whether values of t contain pointers the garbage
// collector has to see.
func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Chan,
		reflect.Func, reflect.Interface, reflect.Slice, reflect.String:
		return true
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}
