//go:build unix

// SPDX-License-Identifier: Apache-2.0

package sysmem

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Map returns size bytes of private anonymous memory.
func Map(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("sysmem: invalid size %d", size)
	}
	b, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("sysmem: mmap %d bytes: %w", size, err)
	}
	return b, nil
}

// Unmap gives back a region returned by Map. b must be the full region.
func Unmap(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if err := unix.Munmap(b); err != nil {
		return fmt.Errorf("sysmem: munmap %d bytes: %w", len(b), err)
	}
	return nil
}

// PageSize returns the operating system page size.
func PageSize() int {
	return unix.Getpagesize()
}
