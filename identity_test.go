// SPDX-License-Identifier: Apache-2.0

package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdentityReturnsTheArenaForAnyCount(t *testing.T) {
	a := New[int](Identity(Scoped(StaticBuffer(4))))
	defer a.Release()

	first := a.Allocate(1)
	require.Len(t, first, 4)
	for _, k := range []int{0, 1, 3, 4, 100} {
		s := a.Allocate(k)
		require.Len(t, s, 4)
		require.Same(t, &first[0], &s[0])
		a.Deallocate(s)
	}
	require.Equal(t, 4, a.MaxSize())
}

func TestIdentityRequiresAPopulatedArena(t *testing.T) {
	a := New[int](Identity(Standard()))
	requireViolation(t, ErrUninitialized, func() {
		a.Allocate(1)
	})
	require.Equal(t, 0, a.MaxSize())
}

func TestIdentityChecksOwnership(t *testing.T) {
	a := New[int](Identity(Scoped(StaticBuffer(4))))
	defer a.Release()

	a.Deallocate(nil)
	requireViolation(t, ErrOwnership, func() {
		a.Deallocate(make([]int, 2))
	})
}

func TestIdentityInheritsTraits(t *testing.T) {
	scopedChain := New[int](Identity(Scoped(StaticBuffer(4))))
	defer scopedChain.Release()
	require.Equal(t, propagateAll, scopedChain.Traits())

	plain := New[int](Identity(StaticBuffer(4)))
	defer plain.Release()
	require.Equal(t, Traits{}, plain.Traits())
}

func TestIdentityCopySharesTheArena(t *testing.T) {
	a := New[int](Identity(Scoped(StaticBuffer(4))))
	s := a.Allocate(4)
	s[2] = 7

	cp := a.Copy()
	require.True(t, a.Equal(cp))
	require.True(t, cp.Equal(a))
	require.Equal(t, 7, cp.Allocate(1)[2])

	// Releasing the copy leaves the original's arena in place.
	cp.Release()
	require.Same(t, &s[0], &a.Allocate(1)[0])

	other := New[int](Identity(Scoped(StaticBuffer(4))))
	defer other.Release()
	require.False(t, a.Equal(other))

	a.Release()
	require.True(t, a.State().Arena.IsZero())
}
