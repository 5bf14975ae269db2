// SPDX-License-Identifier: Apache-2.0

package alloc

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompositeString(t *testing.T) {
	tests := []struct {
		c    Composite
		want string
	}{
		{Null(), "null"},
		{Standard(), "standard"},
		{StaticBuffer(4), "static_buffer(4)"},
		{Identity(Scoped(StaticBuffer(4))), "identity(scoped(static_buffer(4)))"},
		{ScopedN(Standard(), 64), "scoped(standard,64)"},
		{FixedItem(ScopedN(Mapped(), 32), 0), "fixed_item(scoped(mapped,32))"},
		{Monotonic(Tracked(StaticBuffer(8))), "monotonic(tracked(static_buffer(8)))"},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, tc.c.String())
	}
}

func TestParseCompositeRoundTrip(t *testing.T) {
	for _, src := range []string{
		"null",
		"static_item(8)",
		"identity(scoped(static_buffer(4)))",
		"scoped(standard,64)",
		"fixed_item(scoped(standard,64))",
		"fixed_item(standard,16)",
		"monotonic(scoped(tracked(standard),128))",
	} {
		c, err := ParseComposite(src)
		require.NoError(t, err, src)
		require.Equal(t, src, c.String())
	}
}

func TestParseCompositeShortNamesAndSpaces(t *testing.T) {
	c, err := ParseComposite(" Identity( scoped( static(4) ) ) ")
	require.NoError(t, err)
	require.Equal(t, Identity(Scoped(StaticBuffer(4))), c)
}

func TestParseCompositeErrors(t *testing.T) {
	for _, src := range []string{
		"",
		"heap",
		"identity",
		"identity(",
		"identity(static(4)",
		"static_buffer",
		"static_buffer(0)",
		"scoped(standard)",
		"identity(static_item(4))",
		"static(4) trailing",
		"identity(static(4),static(4))",
		"standard(4)",
	} {
		_, err := ParseComposite(src)
		require.ErrorIs(t, err, ErrComposite, "%q", src)
	}
}

func TestCompositeTerminalAndDepth(t *testing.T) {
	c := Identity(Scoped(StaticBuffer(4)))
	require.Equal(t, StaticBuffer(4), c.Terminal())
	require.Equal(t, 3, c.Depth())
	require.Equal(t, 1, Standard().Depth())
	require.True(t, c.Terminal().Kind.IsTerminal())
	require.False(t, c.Kind.IsTerminal())
}

func TestCompositeCapacity(t *testing.T) {
	require.Equal(t, 4, Identity(Scoped(StaticBuffer(4))).capacity())
	require.Equal(t, 64, Identity(ScopedN(Standard(), 64)).capacity())
	require.Equal(t, 0, Identity(Standard()).capacity())
	require.Equal(t, 8, FixedItem(StaticBuffer(8), 0).capacity())
}

func TestNewPanicsOnInvalidComposite(t *testing.T) {
	requireViolation(t, ErrComposite, func() {
		New[int](Scoped(Standard()))
	})
	requireViolation(t, ErrComposite, func() {
		New[int](Composite{Kind: KindIdentity})
	})
}

func TestStateType(t *testing.T) {
	require.Equal(t, reflect.TypeFor[*State[int]](), StateType[int](Identity(Scoped(StaticBuffer(4)))))
	require.Nil(t, StateType[int](StaticItem(4)))
	require.Equal(t, reflect.TypeFor[*State[block[int, uint8]]](), StateType[int](FixedItem(ScopedN(Standard(), 16), 0)))
	require.Equal(t, reflect.TypeFor[*State[block[int, uint16]]](), StateType[int](FixedItem(Standard(), 1000)))
}

func TestConcreteTypeMatchesNew(t *testing.T) {
	for _, c := range []Composite{
		Null(),
		Standard(),
		StaticBuffer(4),
		StaticItem(300),
		Identity(Scoped(StaticBuffer(4))),
		ScopedN(Tracked(Standard()), 8),
		Monotonic(ScopedN(Standard(), 8)),
		Tracked(Standard()),
		FixedItem(ScopedN(Standard(), 16), 0),
	} {
		a := New[int](c)
		require.Equal(t, reflect.TypeOf(a.Unwrap()), ConcreteType[int](c), c.String())
		a.Release()
	}
	require.Equal(t, reflect.TypeFor[*mappedAllocator[uint32]](), ConcreteType[uint32](Mapped()))
}
