//go:build allocnocheck

// SPDX-License-Identifier: Apache-2.0

package alloc

// checksEnabled drops contract assertions; violations become undefined behavior.
const checksEnabled = false
