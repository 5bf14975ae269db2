// SPDX-License-Identifier: Apache-2.0

package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestItemsCommand(t *testing.T) {
	resetFlags(t)
	itemsCapacity, itemsOps = 8, 500
	jsonOut = true

	output, err := captureOutput(t, func() error {
		return runItems()
	})
	require.NoError(t, err)

	var rep ItemsReport
	decodeJSON(t, output, &rep)
	require.Equal(t, 8, rep.Capacity)
	require.Equal(t, 1, rep.Width)
	require.Equal(t, 500, rep.Ops)
	require.Equal(t, rep.Ops, rep.Allocs+rep.Frees)
	require.Equal(t, rep.Allocs-rep.Frees, rep.Live)
	require.LessOrEqual(t, rep.Peak, 8)
	require.Positive(t, rep.Reused)
}

func TestItemsCommandText(t *testing.T) {
	resetFlags(t)
	itemsCapacity, itemsOps = 70000, 2000

	output, err := captureOutput(t, func() error {
		return runItems()
	})
	require.NoError(t, err)
	require.Contains(t, output, "Capacity:  70,000 slots, 4-byte links")
	require.Contains(t, output, "Ops:       2,000")
}

func TestItemsRejectsBadFlags(t *testing.T) {
	resetFlags(t)
	itemsCapacity = 0
	_, err := captureOutput(t, func() error {
		return runItems()
	})
	require.Error(t, err)

	resetFlags(t)
	itemsOps = -1
	_, err = captureOutput(t, func() error {
		return runItems()
	})
	require.Error(t, err)
}
