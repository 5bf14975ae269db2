//go:build !allocnocheck

// SPDX-License-Identifier: Apache-2.0

package alloc

// checksEnabled keeps contract assertions in the build.
const checksEnabled = true
