// SPDX-License-Identifier: Apache-2.0

package alloc

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestIdentityScopedStaticBufferEndToEnd(t *testing.T) {
	a := New[int](Identity(Scoped(Tracked(StaticBuffer(4)))))

	s := a.Allocate(4)
	copy(s, []int{1, 2, 3, 4})
	again := a.Allocate(2)
	require.Same(t, &s[0], &again[0])
	require.Equal(t, []int{1, 2, 3, 4}, again)

	st, _ := StatsOf[int](a)
	require.Equal(t, 1, st.Allocs)

	a.Release()
	st, _ = StatsOf[int](a)
	require.Equal(t, 1, st.Deallocs)
	require.Equal(t, 0, st.Live)
	require.Equal(t, 0, st.Conflicts)
	require.True(t, a.State().Arena.IsZero())
}

func TestConcreteString(t *testing.T) {
	a := New[int](Identity(StaticBuffer(4)))
	defer a.Release()
	require.Equal(t, "identity(static_buffer(4))[int]", a.String())
	require.Equal(t, Identity(StaticBuffer(4)), a.Composite())
}

func TestRebindSharesTheArena(t *testing.T) {
	a := New[int64](Identity(Scoped(StaticBuffer(4))))
	b := Rebind[uint64](a)

	require.Equal(t, 4, b.State().Arena.Len())
	require.Equal(t, unsafe.Pointer(a.State().Arena.Data()), unsafe.Pointer(b.State().Arena.Data()))
	require.Equal(t, a.Composite(), b.Composite())

	a.Allocate(1)[3] = 42
	require.Equal(t, uint64(42), b.Allocate(1)[3])
	require.Equal(t, propagateAll, b.Traits())

	// The rebound chain never gives the arena back.
	b.Release()
	require.Equal(t, 4, a.State().Arena.Len())
	require.Equal(t, int64(42), a.Allocate(1)[3])
	a.Release()
}

func TestRebindRejectsIncompatibleLayouts(t *testing.T) {
	a := New[int64](Identity(Scoped(StaticBuffer(4))))
	defer a.Release()

	requireViolation(t, ErrRebind, func() {
		Rebind[int32](a)
	})
	requireViolation(t, ErrRebind, func() {
		Rebind[*int](a)
	})
}

func TestRebindWithoutArena(t *testing.T) {
	a := New[int](Tracked(Standard()))
	b := Rebind[string](a)
	require.Len(t, b.Allocate(3), 3)
	_, ok := StatsOf[string](b)
	require.True(t, ok)
}

func TestRebindItemChain(t *testing.T) {
	a := New[int](StaticItem(4))
	defer a.Release()
	a.Allocate(1)

	b := Rebind[string](a)
	defer b.Release()
	items, ok := ItemsOf[string](b)
	require.True(t, ok)
	require.Equal(t, 4, items.Cap)
	require.Equal(t, 4, items.Free)
	b.Allocate(1)[0] = "node"
}

func TestNewWithState(t *testing.T) {
	st := NewState(make([]int, 8))
	a := NewWithState(Identity(Scoped(StaticBuffer(8))), st)
	require.Same(t, st, a.State())
	require.Len(t, a.Allocate(1), 8)
	a.Release()
	require.Equal(t, 8, st.Arena.Len())

	requireViolation(t, ErrUnsupported, func() {
		NewWithState(StaticItem(8), st)
	})
	requireViolation(t, ErrUninitialized, func() {
		NewWithState[int](Identity(Standard()), nil)
	})
	requireViolation(t, ErrComposite, func() {
		NewWithState(Scoped(Standard()), st)
	})
}

func TestConcreteCopyAndEqual(t *testing.T) {
	a := New[int](Identity(Scoped(StaticBuffer(4))))
	defer a.Release()
	b := New[int](Identity(Scoped(StaticBuffer(4))))
	defer b.Release()

	cp := a.Copy()
	require.IsType(t, &Concrete[int]{}, cp)
	require.True(t, Equal[int](a, cp))
	require.False(t, Equal[int](a, b))
	require.False(t, a.Equal(nil))
}

func TestNewValue(t *testing.T) {
	a := New[int](StaticItem(2))
	defer a.Release()

	p := NewValue[int](a)
	*p = 5
	items, _ := ItemsOf[int](a)
	require.Equal(t, 1, items.Live())

	q := NewValue[int](nil)
	require.NotNil(t, q)
	require.Zero(t, *q)
}
