// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/sequia/alloc"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	// Global flags
	logLevel  string
	logFormat string
	jsonOut   bool
	quiet     bool
)

var printer = message.NewPrinter(language.English)

var rootCmd = &cobra.Command{
	Use:   "allocctl",
	Short: "Build and exercise composed allocator chains",
	Long: `allocctl reifies allocator chains described as text, such as
"identity(scoped(static_buffer(4)))" or "fixed_item(scoped(standard,64))",
runs them through allocation and release, and reports slot usage, free-list
statistics and index widths.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(os.Stderr, logLevel, logFormat)
		if err != nil {
			return err
		}
		alloc.SetLogger(l)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newLogger builds the handler allocator diagnostics are routed to.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("invalid --log-format %q: want text or json", format)
}

// guard runs fn and turns an allocator contract violation into an error.
// Any other panic is propagated.
func guard(fn func() error) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		var v *alloc.Violation
		if e, ok := r.(error); ok && errors.As(e, &v) {
			err = fmt.Errorf("allocator violation: %w", v)
			return
		}
		panic(r)
	}()
	return fn()
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// formatCount renders n with grouped digits.
func formatCount(n int) string {
	return printer.Sprintf("%d", n)
}
