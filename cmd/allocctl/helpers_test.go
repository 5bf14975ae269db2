// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	return buf.String(), fnErr
}

// resetFlags restores every flag variable to its default.
func resetFlags(t *testing.T) {
	t.Helper()
	logLevel, logFormat, jsonOut, quiet = "warn", "text", false, false
	widthSigned = false
	chainType, chainCount = "int64", 0
	itemsCapacity, itemsOps, itemsSeed = 256, 10000, 1
	mapCapacity = 64
}

// decodeJSON unmarshals command output into v.
func decodeJSON(t *testing.T, output string, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(output), v), "output: %s", output)
}
