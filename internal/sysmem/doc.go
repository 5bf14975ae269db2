// SPDX-License-Identifier: Apache-2.0

// Package sysmem hands out anonymous, zero-filled memory pages straight from
// the operating system, bypassing the Go heap.
//
// Pages obtained here are invisible to the garbage collector: they must never
// hold Go pointers.
package sysmem
