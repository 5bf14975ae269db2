// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"unsafe"

	"github.com/dustin/go-humanize"
	"github.com/sequia/alloc"
	"github.com/spf13/cobra"
)

// defaultSlots bounds the request made on chains that serve any count.
const defaultSlots = 1024

var (
	chainType  string
	chainCount int
)

func init() {
	cmd := newChainCmd()
	cmd.Flags().StringVar(&chainType, "type", "int64", "Element type: int64, float64 or byte")
	cmd.Flags().IntVar(&chainCount, "count", 0, "Slots to request (default: what the chain serves, at most 1024)")
	rootCmd.AddCommand(cmd)
}

func newChainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chain <composite>",
		Short: "Reify a composite, exercise it and report what it did",
		Long: `The chain command builds the allocator described by its argument,
requests storage, writes and reads back every slot, returns the storage and
releases the chain. Tracked layers and free lists report their counters.

Example:
  allocctl chain "identity(scoped(static_buffer(4)))"
  allocctl chain "scoped(tracked(mapped),4096)" --type float64
  allocctl chain "fixed_item(scoped(tracked(standard),64))" --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChain(args)
		},
	}
}

// ChainReport describes one exercise of a chain.
type ChainReport struct {
	Chain     string           `json:"chain"`
	Depth     int              `json:"depth"`
	State     string           `json:"state"`
	Requested int              `json:"requested"`
	Served    int              `json:"served"`
	Bytes     int              `json:"bytes"`
	Verified  bool             `json:"verified"`
	Tracked   *alloc.Stats     `json:"tracked,omitempty"`
	Items     *alloc.ItemStats `json:"items,omitempty"`
}

func runChain(args []string) error {
	c, err := alloc.ParseComposite(args[0])
	if err != nil {
		return err
	}

	var report *ChainReport
	err = guard(func() error {
		switch chainType {
		case "int64":
			report = exercise(alloc.New[int64](c), chainCount, func(i int) int64 { return int64(i) })
		case "float64":
			report = exercise(alloc.New[float64](c), chainCount, func(i int) float64 { return float64(i) / 2 })
		case "byte":
			report = exercise(alloc.New[byte](c), chainCount, func(i int) byte { return byte(i) })
		default:
			return fmt.Errorf("unknown element type %q", chainType)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(report)
	}
	printInfo("Chain:     %s\n", report.Chain)
	printInfo("Depth:     %d\n", report.Depth)
	printInfo("State:     %s\n", report.State)
	printInfo("Requested: %s slots\n", formatCount(report.Requested))
	printInfo("Served:    %s slots (%s)\n", formatCount(report.Served), humanize.Bytes(uint64(report.Bytes)))
	printInfo("Verified:  %t\n", report.Verified)
	if st := report.Tracked; st != nil {
		printInfo("Tracked:   %s allocs, %s deallocs, peak %s slots (%s), %d conflicts\n",
			formatCount(st.Allocs), formatCount(st.Deallocs), formatCount(st.Peak),
			humanize.Bytes(uint64(st.PeakBytes())), st.Conflicts)
	}
	if it := report.Items; it != nil {
		printInfo("Items:     %s slots, %s live, %d-byte links\n",
			formatCount(it.Cap), formatCount(it.Live()), it.Width)
	}
	return nil
}

// exercise fills what a serves with fill(i), checks the values read back and
// releases a, also when a violation unwinds through it.
func exercise[T comparable](a *alloc.Concrete[T], count int, fill func(int) T) (r *ChainReport) {
	c := a.Composite()
	r = &ChainReport{Chain: a.String(), Depth: c.Depth(), State: "none"}
	defer func() {
		a.Release()
		if st, ok := alloc.StatsOf[T](a); ok {
			r.Tracked = &st
		}
	}()
	if st := alloc.StateType[T](c); st != nil {
		r.State = st.String()
	}
	var elem T
	size := int(unsafe.Sizeof(elem))

	if items, ok := alloc.ItemsOf[T](a); ok {
		n := count
		if n == 0 {
			n = items.Cap
		}
		r.Requested = n
		vals := make([]*T, 0, n)
		for i := range n {
			p := &a.Allocate(1)[0]
			*p = fill(i)
			vals = append(vals, p)
		}
		r.Verified = true
		for i, p := range vals {
			r.Verified = r.Verified && *p == fill(i)
		}
		r.Served, r.Bytes = len(vals), len(vals)*size
		items, _ = alloc.ItemsOf[T](a)
		r.Items = &items
		for _, p := range vals {
			a.Deallocate(unsafe.Slice(p, 1))
		}
	} else {
		n := count
		if n == 0 {
			n = min(a.MaxSize(), defaultSlots)
		}
		r.Requested = n
		s := a.Allocate(n)
		for i := range s {
			s[i] = fill(i)
		}
		r.Verified = true
		for i := range s {
			r.Verified = r.Verified && s[i] == fill(i)
		}
		r.Served, r.Bytes = len(s), len(s)*size
		a.Deallocate(s)
	}
	return r
}
