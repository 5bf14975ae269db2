// SPDX-License-Identifier: Apache-2.0

// Command allocctl builds allocator chains from their text description,
// exercises them and reports what they did.
package main

func main() {
	execute()
}
