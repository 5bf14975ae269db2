// SPDX-License-Identifier: Apache-2.0

package alloc

import "unsafe"

// Stats is a snapshot of the traffic a tracked layer forwarded to its delegate.
type Stats struct {
	Allocs    int // Allocate calls
	Deallocs  int // Deallocate calls
	Live      int // slots handed out and not yet returned
	Peak      int // highest Live seen
	Total     int // slots handed out over the layer's lifetime
	ElemSize  int // size of one slot in bytes
	Releases  int // Release calls that reached the delegate
	Conflicts int // Deallocate calls returning more slots than were live
}

// LiveBytes returns the bytes currently handed out.
func (s Stats) LiveBytes() int { return s.Live * s.ElemSize }

// PeakBytes returns the highest number of bytes handed out at once.
func (s Stats) PeakBytes() int { return s.Peak * s.ElemSize }

// tracked counts the calls that reach its delegate. Copies share the counters.
type tracked[T any] struct {
	delegate Allocator[T]
	stats    *Stats
}

func newTracked[T any](d Allocator[T]) *tracked[T] {
	var x T
	return &tracked[T]{delegate: d, stats: &Stats{ElemSize: int(unsafe.Sizeof(x))}}
}

// Allocate satisfies the Allocator interface.
func (a *tracked[T]) Allocate(n int) []T {
	s := a.delegate.Allocate(n)
	a.stats.Allocs++
	a.stats.Live += len(s)
	a.stats.Total += len(s)
	if a.stats.Live > a.stats.Peak {
		a.stats.Peak = a.stats.Live
	}
	return s
}

// Deallocate satisfies the Allocator interface.
func (a *tracked[T]) Deallocate(s []T) {
	a.delegate.Deallocate(s)
	a.stats.Deallocs++
	if len(s) > a.stats.Live {
		a.stats.Conflicts++
		a.stats.Live = 0
		return
	}
	a.stats.Live -= len(s)
}

// MaxSize satisfies the Allocator interface.
func (a *tracked[T]) MaxSize() int { return a.delegate.MaxSize() }

// Traits satisfies the Allocator interface.
func (a *tracked[T]) Traits() Traits { return a.delegate.Traits() }

// State satisfies the Allocator interface.
func (a *tracked[T]) State() *State[T] { return a.delegate.State() }

// Unwrap returns the delegate.
func (a *tracked[T]) Unwrap() Allocator[T] { return a.delegate }

// Copy satisfies the Allocator interface.
func (a *tracked[T]) Copy() Allocator[T] {
	return &tracked[T]{delegate: a.delegate.Copy(), stats: a.stats}
}

// Equal satisfies the Allocator interface.
func (a *tracked[T]) Equal(other Allocator[T]) bool {
	if o, ok := unwrapConcrete(other).(*tracked[T]); ok {
		return a.delegate.Equal(o.delegate)
	}
	return a.delegate.Equal(other)
}

// Release satisfies the Allocator interface.
func (a *tracked[T]) Release() {
	a.stats.Releases++
	a.delegate.Release()
}

// StatsOf returns the counters of the outermost tracked layer in a.
func StatsOf[T any](a Allocator[T]) (Stats, bool) {
	for l := unwrapConcrete(a); l != nil; {
		if t, ok := l.(*tracked[T]); ok {
			return *t.stats, true
		}
		w, ok := l.(wrapper[T])
		if !ok {
			break
		}
		l = w.Unwrap()
	}
	return Stats{}, false
}
