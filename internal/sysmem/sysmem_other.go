//go:build !unix

// SPDX-License-Identifier: Apache-2.0

package sysmem

import (
	"fmt"
	"os"
)

// Map falls back to the Go heap where anonymous mappings are not available.
func Map(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("sysmem: invalid size %d", size)
	}
	return make([]byte, size), nil
}

// Unmap is a no-op on the heap fallback.
func Unmap(b []byte) error {
	return nil
}

// PageSize returns the operating system page size.
func PageSize() int {
	return os.Getpagesize()
}
