// SPDX-License-Identifier: Apache-2.0

package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func scopedStats(t *testing.T, a Allocator[int]) Stats {
	t.Helper()
	st, ok := StatsOf(a)
	require.True(t, ok)
	return st
}

func TestScopedAcquiresAndReleasesExactlyOnce(t *testing.T) {
	a := New[int](Scoped(Tracked(StaticBuffer(4))))

	st := scopedStats(t, a)
	require.Equal(t, 1, st.Allocs)
	require.Equal(t, 0, st.Deallocs)
	require.Equal(t, 4, st.Live)

	// Requests on the scoped layer never reach the delegate.
	s := a.Allocate(2)
	require.Len(t, s, 2)
	a.Deallocate(s)
	st = scopedStats(t, a)
	require.Equal(t, 1, st.Allocs)
	require.Equal(t, 0, st.Deallocs)

	// Nor does anything a copy does.
	cp := a.Copy()
	cp.Allocate(4)
	cp.Release()
	st = scopedStats(t, a)
	require.Equal(t, 1, st.Allocs)
	require.Equal(t, 0, st.Deallocs)
	require.Equal(t, 0, st.Releases)

	a.Release()
	st = scopedStats(t, a)
	require.Equal(t, 1, st.Allocs)
	require.Equal(t, 1, st.Deallocs)
	require.Equal(t, 0, st.Live)
	require.Equal(t, 1, st.Releases)

	a.Release()
	require.Equal(t, st, scopedStats(t, a))

	requireViolation(t, ErrUninitialized, func() {
		a.Allocate(1)
	})
}

func TestScopedServesArenaFront(t *testing.T) {
	a := New[int](ScopedN(Standard(), 4))
	defer a.Release()

	first := a.Allocate(2)
	first[0], first[1] = 1, 2
	second := a.Allocate(3)
	require.Len(t, second, 3)
	require.Same(t, &first[0], &second[0])
	require.Equal(t, []int{1, 2, 0}, second)
	require.Same(t, &a.State().Arena.Slice()[0], &second[0])
}

func TestScopedExplicitSize(t *testing.T) {
	a := New[int](ScopedN(Tracked(Standard()), 16))
	defer a.Release()

	require.Equal(t, 16, a.MaxSize())
	require.Equal(t, 16, a.State().Arena.Len())
	require.Len(t, a.Allocate(16), 16)
	requireViolation(t, ErrCount, func() {
		a.Allocate(17)
	})
	requireViolation(t, ErrCount, func() {
		a.Allocate(-1)
	})
}

func TestScopedShortDelegate(t *testing.T) {
	requireViolation(t, ErrCapacity, func() {
		New[int](ScopedN(Null(), 8))
	})
}

func TestScopedChecksOwnership(t *testing.T) {
	a := New[int](ScopedN(Standard(), 4))
	defer a.Release()

	requireViolation(t, ErrOwnership, func() {
		a.Deallocate(make([]int, 1))
	})
}

func TestScopedTraitsAndEquality(t *testing.T) {
	a := New[int](ScopedN(Standard(), 4))
	defer a.Release()
	b := New[int](ScopedN(Standard(), 4))
	defer b.Release()

	require.Equal(t, propagateAll, a.Traits())
	require.True(t, a.Equal(a.Copy()))
	require.False(t, a.Equal(b))
}
