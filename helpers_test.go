// SPDX-License-Identifier: Apache-2.0

package alloc

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

// requireViolation runs fn and checks that it panics with a *Violation wrapping want.
func requireViolation(t *testing.T, want error, fn func()) {
	t.Helper()
	var got any
	func() {
		defer func() { got = recover() }()
		fn()
	}()
	require.NotNil(t, got, "expected a panic wrapping %v", want)
	err, ok := got.(error)
	require.True(t, ok, "panic value %v is not an error", got)
	var v *Violation
	require.True(t, errors.As(err, &v), "panic %v is not a *Violation", err)
	require.ErrorIs(t, err, want)
}

// captureLog routes diagnostics into a buffer for the duration of the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { SetLogger(nil) })
	return &buf
}
