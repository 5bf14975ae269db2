// SPDX-License-Identifier: Apache-2.0

package alloc

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestTrackedCounts(t *testing.T) {
	a := New[int](Tracked(Standard()))
	defer a.Release()

	s1 := a.Allocate(3)
	s2 := a.Allocate(2)
	a.Deallocate(s1)

	st, ok := StatsOf[int](a)
	require.True(t, ok)
	require.Equal(t, 2, st.Allocs)
	require.Equal(t, 1, st.Deallocs)
	require.Equal(t, 2, st.Live)
	require.Equal(t, 5, st.Peak)
	require.Equal(t, 5, st.Total)
	require.Equal(t, int(unsafe.Sizeof(int(0))), st.ElemSize)
	require.Equal(t, 2*st.ElemSize, st.LiveBytes())
	require.Equal(t, 5*st.ElemSize, st.PeakBytes())

	a.Deallocate(s2)
	a.Deallocate(make([]int, 4))
	st, _ = StatsOf[int](a)
	require.Equal(t, 0, st.Live)
	require.Equal(t, 1, st.Conflicts)
}

func TestTrackedCopiesShareCounters(t *testing.T) {
	a := New[int](Tracked(Standard()))
	cp := a.Copy()
	cp.Allocate(4)

	st, _ := StatsOf[int](a)
	require.Equal(t, 1, st.Allocs)
	require.Equal(t, 4, st.Live)
	require.True(t, a.Equal(cp))
	require.True(t, a.Equal(New[int](Standard())))
}

func TestStatsOfFindsInnerLayer(t *testing.T) {
	a := New[int](Identity(Scoped(Tracked(StaticBuffer(2)))))
	defer a.Release()

	st, ok := StatsOf[int](a)
	require.True(t, ok)
	require.Equal(t, 1, st.Allocs)

	_, ok = StatsOf[int](New[int](Identity(Scoped(StaticBuffer(2)))))
	require.False(t, ok)
}
