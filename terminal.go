// SPDX-License-Identifier: Apache-2.0

package alloc

// terminal is embedded by every innermost layer. It owns the chain's state;
// the policies stacked above it hold the same pointer and never create one.
type terminal[T any] struct {
	state *State[T]
}

func newTerminal[T any](st *State[T]) terminal[T] {
	if st == nil {
		st = &State[T]{}
	}
	return terminal[T]{state: st}
}

// State satisfies the Allocator interface.
func (t *terminal[T]) State() *State[T] {
	return t.state
}

// Traits satisfies the Allocator interface. Terminals do not propagate.
func (t *terminal[T]) Traits() Traits {
	return Traits{}
}

// Unwrap ends the delegate walk.
func (t *terminal[T]) Unwrap() Allocator[T] {
	return nil
}
