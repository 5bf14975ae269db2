// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"math/rand/v2"
	"unsafe"

	"github.com/sequia/alloc"
	"github.com/spf13/cobra"
)

var (
	itemsCapacity int
	itemsOps      int
	itemsSeed     uint64
)

func init() {
	cmd := newItemsCmd()
	cmd.Flags().IntVar(&itemsCapacity, "capacity", 256, "Slots in the free list")
	cmd.Flags().IntVar(&itemsOps, "ops", 10000, "Allocate/deallocate operations to run")
	cmd.Flags().Uint64Var(&itemsSeed, "seed", 1, "Seed of the operation sequence")
	rootCmd.AddCommand(cmd)
}

func newItemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "items",
		Short: "Run a random allocate/deallocate workload on a static free list",
		Long: `The items command drives a static_item free list with a random mix of
single-slot allocations and deallocations and reports how the slots were used.
Because the list is LIFO, an allocation right after a deallocation reuses the
slot just returned.

Example:
  allocctl items --capacity 1000 --ops 100000
  allocctl items --capacity 8 --seed 42 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runItems()
		},
	}
}

// ItemsReport summarizes a free-list workload.
type ItemsReport struct {
	Capacity int `json:"capacity"`
	Width    int `json:"width"`
	Ops      int `json:"ops"`
	Allocs   int `json:"allocs"`
	Frees    int `json:"frees"`
	Reused   int `json:"reused"`
	Peak     int `json:"peak"`
	Live     int `json:"live"`
}

func runItems() error {
	if itemsCapacity <= 0 {
		return fmt.Errorf("--capacity must be positive, got %d", itemsCapacity)
	}
	if itemsOps < 0 {
		return fmt.Errorf("--ops must not be negative, got %d", itemsOps)
	}

	rep := ItemsReport{Capacity: itemsCapacity, Ops: itemsOps}
	err := guard(func() error {
		a := alloc.New[int64](alloc.StaticItem(itemsCapacity))
		defer a.Release()

		r := rand.New(rand.NewPCG(itemsSeed, itemsSeed+1))
		live := make([]*int64, 0, itemsCapacity)
		var lastFreed *int64
		for i := range itemsOps {
			if len(live) == 0 || (len(live) < itemsCapacity && r.IntN(2) == 0) {
				p := &a.Allocate(1)[0]
				*p = int64(i)
				if p == lastFreed {
					rep.Reused++
				}
				lastFreed = nil
				live = append(live, p)
				rep.Allocs++
				rep.Peak = max(rep.Peak, len(live))
				continue
			}
			j := r.IntN(len(live))
			p := live[j]
			live[j] = live[len(live)-1]
			live = live[:len(live)-1]
			a.Deallocate(unsafe.Slice(p, 1))
			lastFreed = p
			rep.Frees++
		}

		items, _ := alloc.ItemsOf[int64](a)
		rep.Width, rep.Live = items.Width, items.Live()
		for _, p := range live {
			a.Deallocate(unsafe.Slice(p, 1))
		}
		return nil
	})
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(rep)
	}
	printInfo("Capacity:  %s slots, %d-byte links\n", formatCount(rep.Capacity), rep.Width)
	printInfo("Ops:       %s (%s allocs, %s frees)\n", formatCount(rep.Ops), formatCount(rep.Allocs), formatCount(rep.Frees))
	printInfo("Reused:    %s allocations took the slot freed just before\n", formatCount(rep.Reused))
	printInfo("Peak live: %s\n", formatCount(rep.Peak))
	printInfo("Live:      %s\n", formatCount(rep.Live))
	return nil
}
