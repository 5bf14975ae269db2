// SPDX-License-Identifier: Apache-2.0

package alloc

import (
	"reflect"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestRebindStateKeepsSlotCount(t *testing.T) {
	st := NewState(make([]int64, 6))
	rb := RebindState[uint64](st)

	require.Equal(t, 6, rb.Arena.Len())
	require.Equal(t, unsafe.Pointer(st.Arena.Data()), unsafe.Pointer(rb.Arena.Data()))

	// A new descriptor: later changes to the source do not leak through.
	st.Arena = Buffer[int64]{}
	require.Equal(t, 6, rb.Arena.Len())
}

func TestRebindStateEmpty(t *testing.T) {
	require.True(t, RebindState[string](&State[int]{}).Arena.IsZero())
	require.True(t, RebindState[string, int](nil).Arena.IsZero())
}

func TestRebindStateSameType(t *testing.T) {
	st := NewState(make([]*int, 3))
	rb := RebindState[*int](st)
	require.Equal(t, 3, rb.Arena.Len())
}

func TestRebindRejectsSizeMismatch(t *testing.T) {
	st := NewState(make([]int32, 4))
	requireViolation(t, ErrRebind, func() {
		RebindState[int64](st)
	})
}

func TestRebindRejectsHiddenPointers(t *testing.T) {
	st := NewState(make([]uintptr, 4))
	requireViolation(t, ErrRebind, func() {
		RebindState[*int](st)
	})

	pst := NewState(make([]*int, 4))
	requireViolation(t, ErrRebind, func() {
		RebindState[uintptr](pst)
	})
}

func TestHasPointers(t *testing.T) {
	type flat struct {
		a int64
		b [4]byte
	}
	type nested struct {
		f flat
		s string
	}
	require.False(t, hasPointers(reflect.TypeFor[int]()))
	require.False(t, hasPointers(reflect.TypeFor[flat]()))
	require.False(t, hasPointers(reflect.TypeFor[[0]*int]()))
	require.True(t, hasPointers(reflect.TypeFor[nested]()))
	require.True(t, hasPointers(reflect.TypeFor[[]int]()))
	require.True(t, hasPointers(reflect.TypeFor[map[int]int]()))
	require.True(t, hasPointers(reflect.TypeFor[any]()))
	require.True(t, hasPointers(reflect.TypeFor[[2]*int]()))
}
