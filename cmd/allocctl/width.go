// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strconv"

	"github.com/sequia/alloc"
	"github.com/spf13/cobra"
)

var widthSigned bool

func init() {
	cmd := newWidthCmd()
	cmd.Flags().BoolVar(&widthSigned, "signed", false, "Treat the two arguments as a signed range [lo, hi]")
	rootCmd.AddCommand(cmd)
}

func newWidthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "width <slots>...",
		Short: "Show the index width a free list of the given size uses",
		Long: `The width command prints the smallest integer type able to link
every slot of a free list holding the given number of slots.

Example:
  allocctl width 8 256 257 65537
  allocctl width --signed -- -129 100`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWidth(args)
		},
	}
}

// WidthRow is one line of the width report.
type WidthRow struct {
	Input string `json:"input"`
	Bytes int    `json:"bytes"`
	Type  string `json:"type"`
}

func runWidth(args []string) error {
	var rows []WidthRow
	if widthSigned {
		if len(args) != 2 {
			return fmt.Errorf("expected 2 arguments with --signed, got %d", len(args))
		}
		lo, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid lower bound %q: %w", args[0], err)
		}
		hi, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid upper bound %q: %w", args[1], err)
		}
		w := alloc.SignedWidth(lo, hi)
		rows = append(rows, WidthRow{
			Input: fmt.Sprintf("[%s, %s]", formatCount(int(min(lo, hi))), formatCount(int(max(lo, hi)))),
			Bytes: w,
			Type:  fmt.Sprintf("int%d", w*8),
		})
	} else {
		for _, arg := range args {
			n, err := strconv.ParseUint(arg, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid slot count %q: %w", arg, err)
			}
			w := alloc.IndexWidth(n)
			rows = append(rows, WidthRow{
				Input: printer.Sprintf("%d", n),
				Bytes: w,
				Type:  fmt.Sprintf("uint%d", w*8),
			})
		}
	}

	if jsonOut {
		return printJSON(rows)
	}
	for _, r := range rows {
		printInfo("%-28s %-6s %d byte(s)\n", r.Input, r.Type, r.Bytes)
	}
	return nil
}
