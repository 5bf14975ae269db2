// SPDX-License-Identifier: Apache-2.0

package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWidthCommand(t *testing.T) {
	resetFlags(t)
	output, err := captureOutput(t, func() error {
		return runWidth([]string{"8", "256", "257", "65537", "4294967297"})
	})
	require.NoError(t, err)
	require.Contains(t, output, "256")
	require.Contains(t, output, "uint8")
	require.Contains(t, output, "65,537")
	require.Contains(t, output, "uint32")
	require.Contains(t, output, "4,294,967,297")
	require.Contains(t, output, "uint64")
}

func TestWidthJSON(t *testing.T) {
	resetFlags(t)
	jsonOut = true
	output, err := captureOutput(t, func() error {
		return runWidth([]string{"256", "257"})
	})
	require.NoError(t, err)

	var rows []WidthRow
	decodeJSON(t, output, &rows)
	require.Equal(t, []WidthRow{
		{Input: "256", Bytes: 1, Type: "uint8"},
		{Input: "257", Bytes: 2, Type: "uint16"},
	}, rows)
}

func TestWidthSigned(t *testing.T) {
	resetFlags(t)
	widthSigned = true
	jsonOut = true
	output, err := captureOutput(t, func() error {
		return runWidth([]string{"100", "-129"})
	})
	require.NoError(t, err)

	var rows []WidthRow
	decodeJSON(t, output, &rows)
	require.Equal(t, []WidthRow{{Input: "[-129, 100]", Bytes: 2, Type: "int16"}}, rows)

	_, err = captureOutput(t, func() error {
		return runWidth([]string{"1"})
	})
	require.Error(t, err)
}

func TestWidthRejectsBadInput(t *testing.T) {
	resetFlags(t)
	_, err := captureOutput(t, func() error {
		return runWidth([]string{"-1"})
	})
	require.ErrorContains(t, err, "invalid slot count")
}
