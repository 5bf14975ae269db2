// SPDX-License-Identifier: Apache-2.0

package alloc

import (
	"errors"
	"fmt"
)

var (
	// ErrUninitialized indicates an allocation from a layer whose arena is not populated yet.
	ErrUninitialized = errors.New("alloc: arena not initialized")

	// ErrOwnership indicates a deallocation of storage that did not come from this allocator.
	ErrOwnership = errors.New("alloc: storage not owned by this allocator")

	// ErrCount indicates a request whose element count breaks the layer's per-call contract.
	ErrCount = errors.New("alloc: unexpected allocation count")

	// ErrDoubleAllocate indicates a second allocation from a single-arena terminal.
	ErrDoubleAllocate = errors.New("alloc: arena already allocated")

	// ErrExhausted indicates that a fixed arena has no free slots left.
	ErrExhausted = errors.New("alloc: arena exhausted")

	// ErrCorrupt indicates a free list whose head or links point outside the arena.
	ErrCorrupt = errors.New("alloc: free list corrupt")

	// ErrCapacity indicates a container growing past what its allocator can serve.
	ErrCapacity = errors.New("alloc: capacity exceeded")

	// ErrRebind indicates a rebind between element types with incompatible layouts.
	ErrRebind = errors.New("alloc: incompatible rebind")

	// ErrComposite indicates a malformed composite description.
	ErrComposite = errors.New("alloc: invalid composite")

	// ErrUnsupported indicates an operation the allocator pair cannot perform safely.
	ErrUnsupported = errors.New("alloc: unsupported operation")
)

// Violation is the panic value raised when an allocator contract is broken.
// Violations are not recoverable errors: a corrupt free list or a double free
// leaves nothing meaningful to resume.
type Violation struct {
	Err error
	Msg string
}

func (v *Violation) Error() string {
	return v.Err.Error() + ": " + v.Msg
}

func (v *Violation) Unwrap() error {
	return v.Err
}

// assertf panics with a *Violation wrapping err when cond is false.
// The check is compiled out with the allocnocheck build tag.
func assertf(cond bool, err error, format string, args ...any) {
	if checksEnabled && !cond {
		panic(&Violation{Err: err, Msg: fmt.Sprintf(format, args...)})
	}
}
