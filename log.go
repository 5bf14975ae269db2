// SPDX-License-Identifier: Apache-2.0

package alloc

import "log/slog"

// logger receives diagnostics that are suspicious but not fatal.
// A nil logger means slog.Default().
var logger *slog.Logger

// SetLogger routes allocator diagnostics to l. Passing nil restores slog.Default().
// It is not safe to call while allocators are in use on other goroutines.
func SetLogger(l *slog.Logger) {
	logger = l
}

func warn(msg string, args ...any) {
	l := logger
	if l == nil {
		l = slog.Default()
	}
	l.Warn(msg, args...)
}
