// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/sequia/alloc"
	"github.com/spf13/cobra"
)

var mapCapacity int

func init() {
	cmd := newMapCmd()
	cmd.Flags().IntVar(&mapCapacity, "capacity", 64, "Entries the map can hold")
	rootCmd.AddCommand(cmd)
}

func newMapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "map <key>...",
		Short: "Count keys in a fixed-capacity ordered map",
		Long: `The map command counts its arguments in an ordered map whose nodes come
from a static free list of --capacity slots, then prints the keys in order.
More distinct keys than slots is an error.

Example:
  allocctl map pear apple pear fig
  allocctl map --capacity 2 a b c`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMap(args)
		},
	}
}

// MapEntry is one counted key.
type MapEntry struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// MapReport lists the counted keys in order.
type MapReport struct {
	Capacity int        `json:"capacity"`
	Live     int        `json:"live"`
	Entries  []MapEntry `json:"entries"`
}

func runMap(args []string) error {
	if mapCapacity <= 0 {
		return fmt.Errorf("--capacity must be positive, got %d", mapCapacity)
	}

	rep := MapReport{Capacity: mapCapacity}
	err := guard(func() error {
		m := alloc.NewFixedMap[string, int](mapCapacity)
		defer m.Release()

		for _, k := range args {
			n, _ := m.Get(k)
			m.Set(k, n+1)
		}
		m.Ascend(func(k string, n int) bool {
			rep.Entries = append(rep.Entries, MapEntry{Key: k, Count: n})
			return true
		})
		items, _ := alloc.ItemsOf(m.Allocator())
		rep.Live = items.Live()
		return nil
	})
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(rep)
	}
	for _, e := range rep.Entries {
		printInfo("%-20s %s\n", e.Key, formatCount(e.Count))
	}
	printInfo("\nNodes: %s of %s live\n", formatCount(rep.Live), formatCount(rep.Capacity))
	return nil
}
